// Report rendering for complete contexts.

package research

import (
	"fmt"
	"strings"

	"github.com/richinex/sibyl/model"
)

const (
	summaryMaxChars = 160
	summaryMaxItems = 3
)

func (c *Context) render(kind model.ReportKind) (string, error) {
	switch kind {
	case model.ReportComprehensive:
		return c.renderWith(func(v FieldValue) string {
			return v.Render()
		}), nil
	case model.ReportSummary:
		return c.renderWith(func(v FieldValue) string {
			return v.Summarize(summaryMaxChars, summaryMaxItems)
		}), nil
	default:
		return "", fmt.Errorf("unknown report kind: %q", kind)
	}
}

func (c *Context) renderWith(renderValue func(FieldValue) string) string {
	var b strings.Builder
	b.WriteString("# Research Report\n\n")

	for _, field := range c.required {
		b.WriteString("## ")
		b.WriteString(fieldTitle(field))
		b.WriteString("\n")
		b.WriteString(renderValue(c.values[field]))
		b.WriteString("\n\n")
	}

	return strings.TrimRight(b.String(), "\n") + "\n"
}

// fieldTitle turns a snake_case field name into a heading.
func fieldTitle(field string) string {
	words := strings.Split(strings.ReplaceAll(field, "_", " "), " ")
	for i, word := range words {
		if word == "" {
			continue
		}
		words[i] = strings.ToUpper(word[:1]) + word[1:]
	}
	return strings.Join(words, " ")
}

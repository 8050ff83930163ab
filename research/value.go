package research

import "strings"

// valueKind discriminates the shapes a field value can take.
type valueKind int

const (
	kindUnset valueKind = iota
	kindText
	kindList
)

// FieldValue holds a context field's value: a single text, a list of
// entries, or nothing. The explicit unset kind stands in for null, so a
// satisfied field can be pushed back to unsatisfied only by a deliberate
// NoValue update.
type FieldValue struct {
	kind  valueKind
	text  string
	items []string
}

// TextValue creates a text-shaped field value.
func TextValue(text string) FieldValue {
	return FieldValue{kind: kindText, text: text}
}

// ListValue creates a list-shaped field value.
func ListValue(items ...string) FieldValue {
	copied := make([]string, len(items))
	copy(copied, items)
	return FieldValue{kind: kindList, items: copied}
}

// NoValue creates an unset field value.
func NoValue() FieldValue {
	return FieldValue{kind: kindUnset}
}

// Satisfied reports whether the value counts toward context completeness:
// text values need non-blank text, list values need at least one item.
func (v FieldValue) Satisfied() bool {
	switch v.kind {
	case kindText:
		return strings.TrimSpace(v.text) != ""
	case kindList:
		return len(v.items) > 0
	default:
		return false
	}
}

// IsList reports whether the value is list-shaped.
func (v FieldValue) IsList() bool {
	return v.kind == kindList
}

// Text returns the text for text-shaped values, empty otherwise.
func (v FieldValue) Text() string {
	return v.text
}

// Items returns a copy of the list items, nil for non-list values.
func (v FieldValue) Items() []string {
	if v.kind != kindList {
		return nil
	}
	copied := make([]string, len(v.items))
	copy(copied, v.items)
	return copied
}

// Render returns the full markdown rendering of the value.
func (v FieldValue) Render() string {
	switch v.kind {
	case kindText:
		return v.text
	case kindList:
		var b strings.Builder
		for _, item := range v.items {
			b.WriteString("- ")
			b.WriteString(item)
			b.WriteString("\n")
		}
		return strings.TrimRight(b.String(), "\n")
	default:
		return ""
	}
}

// Summarize returns a truncated rendering: the first maxChars characters of
// a text value, or the first maxItems entries of a list value.
func (v FieldValue) Summarize(maxChars, maxItems int) string {
	switch v.kind {
	case kindText:
		runes := []rune(v.text)
		if len(runes) <= maxChars {
			return v.text
		}
		return string(runes[:maxChars]) + "..."
	case kindList:
		items := v.items
		truncated := false
		if len(items) > maxItems {
			items = items[:maxItems]
			truncated = true
		}
		rendered := ListValue(items...).Render()
		if truncated {
			rendered += "\n- ..."
		}
		return rendered
	default:
		return ""
	}
}

// Package classify assigns a coarse category to inbound queries.
//
// The primary path asks the LLM for a structured classification. Any
// gateway failure or malformed result falls back to a deterministic
// keyword heuristic, so Classify never surfaces gateway errors to the
// caller. Classification has a safe, cheap default; this is the one
// place failures are intentionally absorbed.
package classify

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	jsonutil "github.com/richinex/sibyl/internal/json"
	"github.com/richinex/sibyl/llm"
	"github.com/richinex/sibyl/model"
)

const (
	// Conservative confidence values for the keyword heuristic.
	heuristicTechnicalConfidence = 0.6
	heuristicGeneralConfidence   = 0.5

	heuristicReasoning = "keyword-fallback"
)

const systemPrompt = `Classify the user's query.

Consider these as technical:
- Programming concepts, languages, frameworks
- Code debugging, optimization, or review
- Software development practices
- API usage, libraries, or tools
- Data structures, algorithms

Respond in this JSON format:
{
  "category": "technical" | "general",
  "confidence": 0.0-1.0,
  "reasoning": "one sentence",
  "topics": ["lowercase topic tags, e.g. library or language names"]
}`

// llmClassification mirrors the JSON the model is asked to produce.
type llmClassification struct {
	Category   string   `json:"category"`
	Confidence float64  `json:"confidence"`
	Reasoning  string   `json:"reasoning"`
	Topics     []string `json:"topics"`
}

// Classifier categorizes queries via an LLM with a deterministic fallback.
type Classifier struct {
	client *llm.Client
	logger *zap.Logger
}

// New creates a classifier backed by the given provider.
func New(provider llm.Provider, logger *zap.Logger) *Classifier {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Classifier{
		client: llm.NewClient(provider),
		logger: logger,
	}
}

// Classify assigns a category to the query. Empty or whitespace-only query
// text is a caller error and returns model.ErrInvalidInput; everything else
// always yields a Classification.
func (c *Classifier) Classify(ctx context.Context, query model.Query) (model.Classification, error) {
	if strings.TrimSpace(query.Text) == "" {
		return model.Classification{}, fmt.Errorf("classify: empty query text: %w", model.ErrInvalidInput)
	}

	messages := []llm.ChatMessage{
		llm.SystemMessage(systemPrompt),
		llm.UserMessage(query.Text),
	}

	content, err := c.client.ChatWithFormat(ctx, messages, llm.NewJSONObjectFormat())
	if err != nil {
		c.logger.Warn("classification call failed, using keyword heuristic",
			zap.Error(err),
			zap.String("query", query.Excerpt(80)),
		)
		return c.heuristic(query), nil
	}

	parsed, err := jsonutil.ExtractJSONFromResponse[llmClassification](content)
	if err != nil || parsed.Category == "" {
		c.logger.Warn("classification result malformed, using keyword heuristic",
			zap.Error(err),
			zap.String("query", query.Excerpt(80)),
		)
		return c.heuristic(query), nil
	}

	category, err := model.ParseCategory(parsed.Category)
	if err != nil {
		c.logger.Warn("classification returned unknown category, using keyword heuristic",
			zap.String("category", parsed.Category),
		)
		return c.heuristic(query), nil
	}

	return model.Classification{
		Category:   category,
		Confidence: clamp(parsed.Confidence),
		Reasoning:  parsed.Reasoning,
		Topics:     parsed.Topics,
	}, nil
}

// heuristic is the deterministic keyword-matching fallback. Matched
// keywords double as topic tags so the fallback responder can key on them.
func (c *Classifier) heuristic(query model.Query) model.Classification {
	lower := strings.ToLower(query.Text)

	var topics []string
	for _, keyword := range technicalKeywords {
		if strings.Contains(lower, keyword) {
			topics = append(topics, keyword)
		}
	}

	if len(topics) > 0 {
		return model.Classification{
			Category:   model.CategoryTechnical,
			Confidence: heuristicTechnicalConfidence,
			Reasoning:  heuristicReasoning,
			Topics:     topics,
		}
	}

	return model.Classification{
		Category:   model.CategoryGeneral,
		Confidence: heuristicGeneralConfidence,
		Reasoning:  heuristicReasoning,
	}
}

func clamp(confidence float64) float64 {
	if confidence < 0 {
		return 0
	}
	if confidence > 1 {
		return 1
	}
	return confidence
}

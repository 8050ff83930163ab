package classify

import (
	"context"
	"errors"
	"testing"

	"github.com/richinex/sibyl/llm"
	"github.com/richinex/sibyl/model"
)

// fakeProvider returns scripted responses or errors, in order.
type fakeProvider struct {
	responses []string
	errs      []error
	calls     int
}

func (f *fakeProvider) Name() string  { return "fake" }
func (f *fakeProvider) Model() string { return "fake-model" }

func (f *fakeProvider) Chat(ctx context.Context, messages []llm.ChatMessage) (llm.LLMResponse, error) {
	return f.ChatWithFormat(ctx, messages, nil)
}

func (f *fakeProvider) ChatWithFormat(ctx context.Context, messages []llm.ChatMessage, format *llm.ResponseFormat) (llm.LLMResponse, error) {
	i := f.calls
	f.calls++
	if i < len(f.errs) && f.errs[i] != nil {
		return llm.LLMResponse{}, f.errs[i]
	}
	if i < len(f.responses) {
		return llm.LLMResponse{Content: f.responses[i]}, nil
	}
	return llm.LLMResponse{}, errors.New("no scripted response")
}

func TestClassifyEmptyQuery(t *testing.T) {
	classifier := New(&fakeProvider{}, nil)

	_, err := classifier.Classify(context.Background(), model.NewQuery("   "))
	if !errors.Is(err, model.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestClassifyStructuredResult(t *testing.T) {
	provider := &fakeProvider{
		responses: []string{`{"category": "technical", "confidence": 0.92, "reasoning": "asks about a library", "topics": ["pydantic"]}`},
	}
	classifier := New(provider, nil)

	classification, err := classifier.Classify(context.Background(), model.NewQuery("How do Pydantic validators work?"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if classification.Category != model.CategoryTechnical {
		t.Errorf("expected technical, got %s", classification.Category)
	}
	if classification.Confidence != 0.92 {
		t.Errorf("expected confidence 0.92, got %f", classification.Confidence)
	}
	if len(classification.Topics) != 1 || classification.Topics[0] != "pydantic" {
		t.Errorf("expected topics [pydantic], got %v", classification.Topics)
	}
}

func TestClassifyGatewayFailureUsesHeuristic(t *testing.T) {
	provider := &fakeProvider{errs: []error{errors.New("connection refused")}}
	classifier := New(provider, nil)

	classification, err := classifier.Classify(context.Background(), model.NewQuery("How do I debug a Python function?"))
	if err != nil {
		t.Fatalf("gateway failure must not propagate, got %v", err)
	}
	if classification.Category != model.CategoryTechnical {
		t.Errorf("expected technical from keyword heuristic, got %s", classification.Category)
	}
	if classification.Confidence != 0.6 {
		t.Errorf("expected confidence 0.6, got %f", classification.Confidence)
	}
	if classification.Reasoning != "keyword-fallback" {
		t.Errorf("expected keyword-fallback reasoning, got %q", classification.Reasoning)
	}
}

func TestClassifyNoKeywordMatchIsGeneral(t *testing.T) {
	provider := &fakeProvider{errs: []error{errors.New("boom")}}
	classifier := New(provider, nil)

	classification, err := classifier.Classify(context.Background(), model.NewQuery("What is the capital of France?"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if classification.Category != model.CategoryGeneral {
		t.Errorf("expected general, got %s", classification.Category)
	}
	if classification.Confidence != 0.5 {
		t.Errorf("expected confidence 0.5, got %f", classification.Confidence)
	}
}

func TestClassifyMalformedResultUsesHeuristic(t *testing.T) {
	cases := []string{
		"I think this is a technical question about programming.",
		`{"confidence": 0.9}`,
		`{"category": "philosophical", "confidence": 0.9}`,
	}

	for _, response := range cases {
		provider := &fakeProvider{responses: []string{response}}
		classifier := New(provider, nil)

		classification, err := classifier.Classify(context.Background(), model.NewQuery("Explain Go interfaces with code"))
		if err != nil {
			t.Fatalf("unexpected error for %q: %v", response, err)
		}
		if classification.Reasoning != "keyword-fallback" {
			t.Errorf("expected heuristic for %q, got reasoning %q", response, classification.Reasoning)
		}
	}
}

func TestClassifyConfidenceClamped(t *testing.T) {
	provider := &fakeProvider{
		responses: []string{`{"category": "general", "confidence": 1.7, "reasoning": "overconfident"}`},
	}
	classifier := New(provider, nil)

	classification, err := classifier.Classify(context.Background(), model.NewQuery("hello there"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if classification.Confidence < 0 || classification.Confidence > 1 {
		t.Errorf("confidence out of range: %f", classification.Confidence)
	}
}

func TestClassifyAlwaysReturnsValidCategory(t *testing.T) {
	provider := &fakeProvider{errs: []error{errors.New("down"), errors.New("down")}}
	classifier := New(provider, nil)

	for _, text := range []string{"a question about sql joins", "tell me a story"} {
		classification, err := classifier.Classify(context.Background(), model.NewQuery(text))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !classification.Category.Valid() {
			t.Errorf("invalid category %q for %q", classification.Category, text)
		}
	}
}

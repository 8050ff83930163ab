// Package pipeline orchestrates the classify, generate, validate, and
// fallback stages for single queries and multi-step research workflows.
//
// The controlling principle is failure absorption: a single-query run
// always produces usable content. Gateway failures and validation
// failures are converted to canned fallback content and recorded, never
// surfaced as errors. The only hard failures are invalid caller input
// and an incomplete research context at composition time.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/richinex/sibyl/classify"
	"github.com/richinex/sibyl/fallback"
	"github.com/richinex/sibyl/llm"
	"github.com/richinex/sibyl/model"
	"github.com/richinex/sibyl/research"
	"github.com/richinex/sibyl/storage"
	"github.com/richinex/sibyl/validate"
)

// Status describes how a pipeline run concluded.
type Status string

const (
	// StatusOK means a generated response passed validation.
	StatusOK Status = "ok"
	// StatusFallback means canned content was served instead.
	StatusFallback Status = "fallback"
	// StatusError means the run failed hard; no content was produced.
	StatusError Status = "error"
)

// Result is the outcome of processing a single query.
type Result struct {
	Status         Status
	Body           string
	Classification model.Classification
	Duration       time.Duration
}

// WorkflowResult is the outcome of a multi-step research workflow.
type WorkflowResult struct {
	Status        Status
	Report        model.Artifact
	MissingFields []string
	Metadata      research.Metadata
}

// Config holds pipeline tuning knobs.
type Config struct {
	// MaxAttempts bounds generation attempts per query, including the first.
	MaxAttempts int
	// RetryDelay is the fixed wait between generation attempts.
	RetryDelay time.Duration
	// Rules govern response validation.
	Rules validate.ResponseRules
}

// DefaultConfig returns the standard pipeline configuration.
func DefaultConfig() Config {
	return Config{
		MaxAttempts: 3,
		RetryDelay:  time.Second,
		Rules:       validate.DefaultResponseRules(),
	}
}

// Pipeline runs queries through classification, generation, validation,
// and fallback.
type Pipeline struct {
	classifier *classify.Classifier
	client     *llm.Client
	responder  *fallback.Responder
	outcomes   storage.OutcomeStorage
	logger     *zap.Logger
	config     Config
}

// New creates a pipeline backed by the given provider.
func New(provider llm.Provider, config Config, logger *zap.Logger) *Pipeline {
	if logger == nil {
		logger = zap.NewNop()
	}
	if config.MaxAttempts < 1 {
		config.MaxAttempts = 1
	}
	return &Pipeline{
		classifier: classify.New(provider, logger),
		client:     llm.NewClient(provider),
		responder:  fallback.New(),
		outcomes:   nil,
		logger:     logger,
		config:     config,
	}
}

// WithOutcomeStorage attaches an outcome store. Every processed query is
// recorded in it.
func (p *Pipeline) WithOutcomeStorage(outcomes storage.OutcomeStorage) *Pipeline {
	p.outcomes = outcomes
	return p
}

// Responder returns the fallback responder, so callers can register
// additional canned answers.
func (p *Pipeline) Responder() *fallback.Responder {
	return p.responder
}

// Process runs one query through the full pipeline. The returned result
// always carries usable content unless the error is non-nil; gateway and
// validation failures degrade to fallback content with StatusFallback.
func (p *Pipeline) Process(ctx context.Context, queryText string) (Result, error) {
	start := time.Now()
	query := model.NewQuery(queryText)

	classification, err := p.classifier.Classify(ctx, query)
	if err != nil {
		p.record(ctx, storage.NewOutcome(query.Excerpt(120), "", storage.OutcomeHardFailure).
			WithDetail(err.Error()).
			WithDuration(time.Since(start)))
		return Result{Status: StatusError}, err
	}

	p.logger.Info("query classified",
		zap.String("category", classification.Category.String()),
		zap.Float64("confidence", classification.Confidence),
		zap.Strings("topics", classification.Topics),
	)

	response := p.generate(ctx, query, classification)
	validation := validate.Response(response, p.config.Rules)

	if validation.Valid {
		p.record(ctx, storage.NewOutcome(query.Excerpt(120), classification.Category.String(), storage.OutcomeSuccess).
			WithDuration(time.Since(start)))
		return Result{
			Status:         StatusOK,
			Body:           response.Body,
			Classification: classification,
			Duration:       time.Since(start),
		}, nil
	}

	p.logger.Warn("response rejected, serving fallback",
		zap.Strings("violations", validation.Violations),
		zap.String("category", classification.Category.String()),
	)

	p.record(ctx, storage.NewOutcome(query.Excerpt(120), classification.Category.String(), storage.OutcomeFallback).
		WithDetail(strings.Join(validation.Violations, "; ")).
		WithDuration(time.Since(start)))

	return Result{
		Status:         StatusFallback,
		Body:           p.responder.Respond(classification),
		Classification: classification,
		Duration:       time.Since(start),
	}, nil
}

// RunWorkflow researches each required field in sequence, accumulating
// results in a context, then composes the requested report. An incomplete
// context after all steps is the workflow's one hard failure.
func (p *Pipeline) RunWorkflow(ctx context.Context, topic string, requiredFields []string, kind model.ReportKind) (WorkflowResult, error) {
	rctx, err := research.NewContext(requiredFields)
	if err != nil {
		return WorkflowResult{Status: StatusError}, err
	}

	for _, field := range requiredFields {
		if err := ctx.Err(); err != nil {
			return WorkflowResult{Status: StatusError, MissingFields: rctx.MissingFields()}, err
		}

		stepQuery := fmt.Sprintf("Research the %s of %s.", strings.ReplaceAll(field, "_", " "), topic)
		result, err := p.Process(ctx, stepQuery)
		if err != nil {
			return WorkflowResult{Status: StatusError, MissingFields: rctx.MissingFields()}, err
		}

		// A fallback answer is generic boilerplate, not research output;
		// the step is recorded as failed and the field stays unsatisfied.
		success := result.Status == StatusOK
		output := research.NoValue()
		if success {
			output = research.TextValue(result.Body)
		}

		if err := rctx.RecordStep(stepQuery, field, output, success); err != nil {
			return WorkflowResult{Status: StatusError, MissingFields: rctx.MissingFields()}, err
		}

		p.logger.Info("workflow step recorded",
			zap.String("field", field),
			zap.Bool("success", success),
			zap.String("state", rctx.State().String()),
		)
	}

	validation := validate.Context(rctx)
	if !validation.Valid {
		p.logger.Warn("workflow context incomplete",
			zap.Strings("missing", validation.MissingFields),
		)
	}

	artifact, err := rctx.Compose(kind)
	if err != nil {
		var incomplete *research.IncompleteError
		if errors.As(err, &incomplete) {
			return WorkflowResult{
				Status:        StatusError,
				MissingFields: incomplete.Missing,
				Metadata:      rctx.Metadata(),
			}, err
		}
		return WorkflowResult{Status: StatusError, Metadata: rctx.Metadata()}, err
	}

	return WorkflowResult{
		Status:   StatusOK,
		Report:   artifact,
		Metadata: rctx.Metadata(),
	}, nil
}

// generate asks the LLM for an answer, retrying transient failures up to
// MaxAttempts with a fixed delay. Non-transient failures stop immediately.
// A Failed response is returned on exhaustion; it never surfaces an error.
func (p *Pipeline) generate(ctx context.Context, query model.Query, classification model.Classification) model.GeneratedResponse {
	var prompt string
	switch classification.Category {
	case model.CategoryTechnical:
		prompt = technicalPrompt
	case model.CategoryGeneral:
		prompt = generalPrompt
	default:
		panic(fmt.Sprintf("pipeline: unhandled category %q", classification.Category))
	}

	messages := []llm.ChatMessage{
		llm.SystemMessage(prompt),
		llm.UserMessage(query.Text),
	}

	for attempt := 1; attempt <= p.config.MaxAttempts; attempt++ {
		content, err := p.client.Chat(ctx, messages)
		if err == nil {
			return model.GeneratedResponse{
				Body: content,
				Kind: classification.Category.String(),
			}
		}

		if !llm.IsTransient(err) {
			p.logger.Error("generation failed",
				zap.Error(err),
				zap.Int("attempt", attempt),
			)
			break
		}

		p.logger.Warn("transient generation failure",
			zap.Error(err),
			zap.Int("attempt", attempt),
			zap.Int("max_attempts", p.config.MaxAttempts),
		)

		if attempt < p.config.MaxAttempts {
			if !sleepCtx(ctx, p.config.RetryDelay) {
				break
			}
		}
	}

	return model.GeneratedResponse{
		Kind:   classification.Category.String(),
		Failed: true,
	}
}

func (p *Pipeline) record(ctx context.Context, outcome storage.Outcome) {
	if p.outcomes == nil {
		return
	}
	if err := p.outcomes.SaveOutcome(ctx, outcome); err != nil {
		p.logger.Warn("failed to record outcome", zap.Error(err))
	}
}

// sleepCtx waits for the delay or the context, whichever ends first.
// Returns false if the context ended.
func sleepCtx(ctx context.Context, delay time.Duration) bool {
	if delay <= 0 {
		return ctx.Err() == nil
	}
	timer := time.NewTimer(delay)
	defer timer.Stop()
	select {
	case <-timer.C:
		return true
	case <-ctx.Done():
		return false
	}
}

const technicalPrompt = `You are a technical assistant. Answer the user's
question accurately and concisely. Include code examples where they help.
Structure longer answers with markdown headings.`

const generalPrompt = `You are a helpful assistant. Answer the user's
question clearly and concisely.`

// Command execution for CLI commands.
//
// Information Hiding:
// - Provider and pipeline setup hidden
// - Outcome store lifecycle hidden
// - Output formatting hidden

package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/richinex/sibyl/config"
	"github.com/richinex/sibyl/internal/logging"
	"github.com/richinex/sibyl/llm"
	"github.com/richinex/sibyl/model"
	"github.com/richinex/sibyl/pipeline"
	"github.com/richinex/sibyl/research"
	"github.com/richinex/sibyl/storage"
	"github.com/richinex/sibyl/validate"
)

// Options holds CLI execution options.
type Options struct {
	Provider string
	DBPath   string
	Verbose  bool
}

// DefaultOptions returns default CLI options.
func DefaultOptions() Options {
	return Options{
		Verbose: false,
	}
}

// Ask processes a single query through the pipeline and prints the answer.
func Ask(ctx context.Context, queryText string, opts Options) error {
	provider, settings, err := createProvider(opts.Provider)
	if err != nil {
		return err
	}

	logger, err := logging.New(opts.Verbose)
	if err != nil {
		return err
	}
	defer logger.Sync()

	p, cleanup, err := createPipeline(provider, settings, opts, logger)
	if err != nil {
		return err
	}
	if cleanup != nil {
		defer cleanup()
	}

	result, err := p.Process(ctx, queryText)
	if err != nil {
		return err
	}

	fmt.Printf("%s\n", result.Body)

	if result.Status == pipeline.StatusFallback {
		fmt.Fprintf(os.Stderr, "\n(served fallback content)\n")
	}
	if opts.Verbose {
		fmt.Fprintf(os.Stderr, "\ncategory=%s confidence=%.2f status=%s duration=%s\n",
			result.Classification.Category,
			result.Classification.Confidence,
			result.Status,
			result.Duration.Round(time.Millisecond),
		)
	}
	return nil
}

// Research runs a multi-step workflow over the given fields and prints the
// composed report.
func Research(ctx context.Context, topic string, fields []string, reportKind string, opts Options) error {
	kind, err := model.ParseReportKind(reportKind)
	if err != nil {
		return err
	}

	provider, settings, err := createProvider(opts.Provider)
	if err != nil {
		return err
	}

	logger, err := logging.New(opts.Verbose)
	if err != nil {
		return err
	}
	defer logger.Sync()

	p, cleanup, err := createPipeline(provider, settings, opts, logger)
	if err != nil {
		return err
	}
	if cleanup != nil {
		defer cleanup()
	}

	if settings.Pipeline.WorkflowTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, settings.Pipeline.WorkflowTimeout)
		defer cancel()
	}

	fmt.Printf("Researching %s (%d fields)...\n\n", topic, len(fields))

	result, err := p.RunWorkflow(ctx, topic, fields, kind)
	if err != nil {
		var incomplete *research.IncompleteError
		if errors.As(err, &incomplete) {
			fmt.Fprintf(os.Stderr, "Error: research incomplete, missing fields: %s\n",
				strings.Join(incomplete.Missing, ", "))
		}
		return err
	}

	fmt.Printf("%s\n", result.Report.Body)
	fmt.Printf("(%d steps, %d successful)\n",
		result.Metadata.TotalSteps, result.Metadata.SuccessfulSteps)
	return nil
}

// History prints the most recent pipeline outcomes from the outcome store.
func History(ctx context.Context, limit int, opts Options) error {
	if opts.DBPath == "" {
		return fmt.Errorf("--db is required for history")
	}

	store, err := storage.OpenSqlite(opts.DBPath)
	if err != nil {
		return err
	}
	defer store.Close()

	outcomes, err := store.ListOutcomes(ctx, limit)
	if err != nil {
		return err
	}

	if len(outcomes) == 0 {
		fmt.Println("No recorded outcomes.")
		return nil
	}

	for _, o := range outcomes {
		at := time.Unix(o.CreatedAt, 0).Format("2006-01-02 15:04:05")
		fmt.Printf("[%s] %-12s %-9s %4dms  %s\n", at, o.Kind, o.Category, o.DurationMs, o.QueryExcerpt)
		if o.Detail != "" {
			fmt.Printf("    %s\n", o.Detail)
		}
	}
	return nil
}

func createProvider(providerName string) (llm.Provider, config.Settings, error) {
	if providerName == "" {
		return nil, config.Settings{}, fmt.Errorf("--provider is required for this command")
	}

	providerType, err := llm.ParseProviderType(providerName)
	if err != nil {
		return nil, config.Settings{}, err
	}

	settings, err := config.New(providerName)
	if err != nil {
		return nil, config.Settings{}, err
	}

	apiKey, err := config.APIKeyFor(providerName)
	if err != nil {
		return nil, config.Settings{}, err
	}

	provider, err := providerType.
		Model(settings.LLM.Model).
		MaxTokens(settings.LLM.MaxTokens).
		Temperature(float32(settings.LLM.Temperature)).
		APIKey(apiKey)
	if err != nil {
		return nil, config.Settings{}, err
	}

	return provider, settings, nil
}

// createPipeline assembles a pipeline from settings, attaching a SQLite
// outcome store when a database path is configured. The returned cleanup
// closes the store and may be nil.
func createPipeline(provider llm.Provider, settings config.Settings, opts Options, logger *zap.Logger) (*pipeline.Pipeline, func(), error) {
	rules := validate.DefaultResponseRules()
	rules.MinLength = settings.Pipeline.MinResponseLength

	cfg := pipeline.Config{
		MaxAttempts: settings.Pipeline.MaxAttempts,
		RetryDelay:  settings.Pipeline.RetryDelay,
		Rules:       rules,
	}

	p := pipeline.New(provider, cfg, logger)

	if opts.DBPath == "" {
		return p, nil, nil
	}

	store, err := storage.OpenSqlite(opts.DBPath)
	if err != nil {
		return nil, nil, err
	}
	p = p.WithOutcomeStorage(store)

	return p, func() { store.Close() }, nil
}

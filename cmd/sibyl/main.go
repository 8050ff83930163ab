// Package main provides the sibyl CLI entry point.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/richinex/sibyl/cli"
	"github.com/spf13/cobra"
)

var (
	// Global flags
	provider string
	dbPath   string
	verbose  bool
)

func main() {
	// Load .env file if present (ignore "file not found" errors)
	if err := godotenv.Load(); err != nil {
		if !os.IsNotExist(err) {
			fmt.Fprintf(os.Stderr, "Warning: failed to load .env file: %v\n", err)
		}
	}

	rootCmd := &cobra.Command{
		Use:   "sibyl",
		Short: "Self-correcting LLM query pipeline",
		Long: `A CLI for running queries through a classify-generate-validate pipeline.

Every query is categorized, answered by an LLM, and validated against
content rules. Failed generations and rejected answers degrade to canned
fallback content instead of errors. Multi-step research workflows
accumulate validated results into a composed report.`,
	}

	// Global flags
	rootCmd.PersistentFlags().StringVarP(&provider, "provider", "p", "", "LLM provider (openai, anthropic, deepseek, gemini)")
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", ".sibyl/sibyl.db", "Database path for outcome history")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Show verbose output")

	// Add commands
	rootCmd.AddCommand(askCmd())
	rootCmd.AddCommand(researchCmd())
	rootCmd.AddCommand(historyCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func askCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "ask [query]",
		Short: "Answer a single query through the pipeline",
		Long: `Answer a single query through the full pipeline.

The query is classified as technical or general, answered by the
configured LLM with up to three attempts, and validated for minimum
content. A failed or rejected answer is replaced by fallback content.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := cli.Options{
				Provider: provider,
				DBPath:   dbPath,
				Verbose:  verbose,
			}
			return cli.Ask(context.Background(), args[0], opts)
		},
	}
}

func researchCmd() *cobra.Command {
	var fields []string
	var report string

	cmd := &cobra.Command{
		Use:   "research [topic]",
		Short: "Run a multi-step research workflow",
		Long: `Research a topic field by field and compose a report.

Each --field becomes one pipeline step. Only validated answers fill
fields; the report is composed once every field is satisfied, and the
workflow fails with the list of missing fields otherwise.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(fields) == 0 {
				return fmt.Errorf("at least one --field is required")
			}
			opts := cli.Options{
				Provider: provider,
				DBPath:   dbPath,
				Verbose:  verbose,
			}
			return cli.Research(context.Background(), args[0], fields, report, opts)
		},
	}

	cmd.Flags().StringArrayVar(&fields, "field", nil, "Required field to research (repeatable)")
	cmd.Flags().StringVar(&report, "report", "comprehensive", "Report kind (comprehensive, summary)")

	return cmd
}

func historyCmd() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recent pipeline outcomes",
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := cli.Options{
				Provider: provider,
				DBPath:   dbPath,
				Verbose:  verbose,
			}
			return cli.History(context.Background(), limit, opts)
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 20, "Maximum outcomes to show")

	return cmd
}

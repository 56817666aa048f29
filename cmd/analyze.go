package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/lexziconAI/eco-dairy-bot/internal/db"
	"github.com/lexziconAI/eco-dairy-bot/internal/llm"
	"github.com/lexziconAI/eco-dairy-bot/internal/progress"
	"github.com/lexziconAI/eco-dairy-bot/internal/replay"
)

var (
	analyzeOffline     bool
	analyzeJSON        bool
	analyzePersist     bool
	analyzeConcurrency int
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze <glob>...",
	Short: "Replay saved conversations through the lens pipeline",
	Long: `Reads conversation JSON files matching the given patterns (** is supported),
runs each through its own lens pipeline and prints a report. Files hold either
{"turns":[...]} or a bare array of turns.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		logger, err := newLogger(cfg)
		if err != nil {
			return err
		}
		defer logger.Sync()

		files, err := replay.Expand(args)
		if err != nil {
			return err
		}

		offline := analyzeOffline || cfg.Offline()
		var llmProvider llm.Provider
		if !offline {
			llmProvider, err = createLLMProviderFromConfig(cfg)
			if err != nil {
				return fmt.Errorf("creating LLM provider: %w", err)
			}
		}

		var database *db.DB
		if analyzePersist {
			database, err = db.Open(cfg.Database)
			if err != nil {
				return fmt.Errorf("opening database: %w", err)
			}
			defer database.Close()
		}

		concurrency := cfg.Analyze.MaxConcurrency
		if cmd.Flags().Changed("concurrency") {
			concurrency = analyzeConcurrency
		}

		var reporter progress.Reporter = progress.Nop{}
		if !analyzeJSON {
			reporter = progress.NewReporter()
		}

		engine := newEngine(cfg, database, llmProvider, logger)
		outcomes, err := replay.Run(cmd.Context(), engine, files, replay.Options{
			Offline:     offline,
			Persist:     analyzePersist,
			Concurrency: concurrency,
			Reporter:    reporter,
			Logger:      logger,
		})
		if err != nil {
			return err
		}

		summary := replay.Summarize(outcomes)
		if analyzeJSON {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			if err := enc.Encode(outcomes); err != nil {
				return fmt.Errorf("encoding outcomes: %w", err)
			}
		} else {
			if err := replay.Render(os.Stdout, replay.Markdown(outcomes)); err != nil {
				return err
			}
			fmt.Fprintln(os.Stderr, replay.SummaryLine(summary))
		}

		if summary.Failed > 0 {
			return fmt.Errorf("%d of %d conversation(s) failed", summary.Failed, summary.Files)
		}
		return nil
	},
}

func init() {
	analyzeCmd.Flags().BoolVar(&analyzeOffline, "offline", false, "skip the LLM and use templated replies")
	analyzeCmd.Flags().BoolVar(&analyzeJSON, "json", false, "print outcomes as JSON")
	analyzeCmd.Flags().BoolVar(&analyzePersist, "store", false, "save each conversation and its analysis to the database")
	analyzeCmd.Flags().IntVar(&analyzeConcurrency, "concurrency", 4, "files analyzed in parallel (overrides config)")
	rootCmd.AddCommand(analyzeCmd)
}

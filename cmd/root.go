package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/abhisek/quizgen/internal/llm"
	"github.com/abhisek/quizgen/internal/logger"
	"github.com/abhisek/quizgen/internal/questiongen"
	"github.com/abhisek/quizgen/internal/store"
)

var rootCmd = &cobra.Command{
	Use:           "quizgen",
	Short:         "AI-assisted quiz question generator",
	Long:          "quizgen asks an LLM for quiz questions on a topic and repairs the reply until it has exactly the requested mix of question types.",
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return cmd.Help()
	},
}

func Execute() error {
	return rootCmd.Execute()
}

// ExecuteContext runs the root command with ctx available to every
// subcommand through cmd.Context().
func ExecuteContext(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	rootCmd.PersistentFlags().String("db", "", "Path to SQLite database file (overrides QUIZGEN_DB env var)")
	rootCmd.PersistentFlags().String("log-mode", "", "Log format: dev or prod (overrides QUIZGEN_LOG_MODE env var)")

	rootCmd.AddCommand(generateCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(llmCmd)
	rootCmd.AddCommand(versionCmd)
}

// resolveDBPath returns the database path using --db flag (highest priority),
// then QUIZGEN_DB env var, then the default XDG path.
func resolveDBPath(cmd *cobra.Command) (string, error) {
	if p, _ := cmd.Flags().GetString("db"); p != "" {
		return p, store.EnsureDir(p)
	}
	return store.DefaultDBPath()
}

// newLogger builds the logger from --log-mode, then QUIZGEN_LOG_MODE.
func newLogger(cmd *cobra.Command) (*logger.Logger, error) {
	mode, _ := cmd.Flags().GetString("log-mode")
	if mode == "" {
		mode = os.Getenv("QUIZGEN_LOG_MODE")
	}
	return logger.New(mode)
}

// openStore resolves the database path and opens it.
func openStore(cmd *cobra.Command) (*store.Store, error) {
	dbPath, err := resolveDBPath(cmd)
	if err != nil {
		return nil, fmt.Errorf("resolve database path: %w", err)
	}
	s, err := store.Open(dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	return s, nil
}

// newGenerator wires the env-configured provider, recording every call in
// st. A --structured flag on cmd overrides QUIZGEN_STRUCTURED_OUTPUT. A
// provider that fails to configure leaves the generator without one, so
// requests fail with a ConfigurationError instead of at startup.
func newGenerator(cmd *cobra.Command, st *store.Store, log *logger.Logger) *questiongen.Generator {
	cfg := questiongen.DefaultConfig()

	provider, llmCfg, err := llm.NewProviderFromEnv(contextOrBackground(cmd), st.EventRepo(), log)
	cfg.Retry = llmCfg.Retry
	cfg.Timeout = llmCfg.Timeout
	cfg.StructuredOutput = llmCfg.StructuredOutput
	if f := cmd.Flags().Lookup("structured"); f != nil && f.Changed {
		cfg.StructuredOutput, _ = cmd.Flags().GetBool("structured")
	}
	if err != nil {
		log.Warn("LLM provider not configured, generation is unavailable", "error", err.Error())
		provider = nil
	}
	return questiongen.New(provider, cfg, log)
}

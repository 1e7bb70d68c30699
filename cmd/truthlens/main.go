package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"truthlens/internal/config"
	"truthlens/internal/gemini"
	"truthlens/internal/logging"
	"truthlens/internal/store"
	"truthlens/internal/types"
)

var (
	// Global flags
	cfgPath string
	apiKey  string
	dataDir string
	verbose bool

	cfg    config.Config
	logger *zap.Logger
)

// rootCmd represents the base command.
var rootCmd = &cobra.Command{
	Use:   "truthlens",
	Short: "TruthLens - AI-curated news credibility and fact verification",
	Long: `TruthLens orchestrates a search-grounded LLM to curate a
credibility-scored news feed and to verify text claims or images.

It is a best-effort orchestration layer over a non-deterministic model,
not a ground-truth verifier: verdicts come with confidence scores and
cited sources, never with guarantees.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		zc := zap.NewProductionConfig()
		zc.Encoding = "console"
		zc.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
		if verbose {
			zc.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		var err error
		logger, err = zc.Build()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}

		cfg, err = config.Load(cfgPath)
		if err != nil {
			return err
		}
		if apiKey != "" {
			cfg.API.APIKey = apiKey
		}
		if dataDir != "" {
			cfg.DataDir = dataDir
		}
		if verbose {
			cfg.Logging.DebugMode = true
			cfg.Logging.Level = "debug"
		}

		if err := logging.Initialize(cfg.DataDir, logging.Options{
			DebugMode:  cfg.Logging.DebugMode,
			Level:      cfg.Logging.Level,
			Categories: cfg.Logging.Categories,
		}); err != nil {
			logger.Warn("file logging disabled", zap.Error(err))
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", "", "path to YAML config file")
	rootCmd.PersistentFlags().StringVar(&apiKey, "api-key", "", "Gemini API key (overrides config and GEMINI_API_KEY)")
	rootCmd.PersistentFlags().StringVar(&dataDir, "data-dir", "", "directory for session data and logs")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
}

// newInvoker builds the production model invoker, or nil when no credential
// is configured - orchestrators turn nil into a MissingCredential failure.
func newInvoker() types.ModelInvoker {
	if cfg.API.APIKey == "" {
		return nil
	}
	return gemini.NewClientWithConfig(gemini.Config{
		APIKey:  cfg.API.APIKey,
		BaseURL: cfg.API.BaseURL,
		Model:   cfg.API.Model,
		Timeout: cfg.API.TimeoutDuration(),
	})
}

func openStore() (*store.SessionStore, error) {
	return store.Open(filepath.Join(cfg.DataDir, "session.db"))
}

// signalContext returns a context cancelled on SIGINT/SIGTERM.
func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}

func main() {
	defer logging.CloseAll()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/nao1215/cyberwatchdog/internal/classifier"
	"github.com/nao1215/cyberwatchdog/internal/config"
	"github.com/nao1215/cyberwatchdog/internal/fetcher"
	"github.com/nao1215/cyberwatchdog/internal/heuristic"
	"github.com/nao1215/cyberwatchdog/internal/locale"
	wlog "github.com/nao1215/cyberwatchdog/internal/log"
	"github.com/nao1215/cyberwatchdog/internal/pipeline"
)

// classifierDisabledReason is recorded in the details when no token is set.
const classifierDisabledReason = config.TokenEnvVar + " is not set"

// loadConfig builds a Config from the persistent flags and the config file.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	configPath, err := cmd.Flags().GetString("config")
	if err != nil {
		return nil, err
	}
	envFile, err := cmd.Flags().GetString("env-file")
	if err != nil {
		return nil, err
	}

	cfg, err := config.Load(configPath, envFile)
	if err != nil {
		if configPath != "" {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	cfg.Verbose = getVerboseFlag(cmd)
	return cfg, nil
}

// getVerboseFlag retrieves the verbose flag from the command or the root.
func getVerboseFlag(cmd *cobra.Command) bool {
	verbose, err := cmd.Flags().GetBool("verbose")
	if err != nil {
		verbose, err = cmd.Root().PersistentFlags().GetBool("verbose")
		if err != nil {
			return false
		}
	}
	return verbose
}

// setupLogger creates the process logger. Credentials never reach w.
func setupLogger(w io.Writer, verbose bool) *slog.Logger {
	logger := wlog.NewRedactingLogger(w, verbose)
	slog.SetDefault(logger)
	return logger
}

// newClassifier returns the zero-shot classifier, or a disabled one when
// no token is configured.
func newClassifier(cfg *config.Config, logger *slog.Logger) classifier.Classifier {
	if !cfg.ClassifierEnabled() {
		logger.Debug("classifier disabled", "reason", classifierDisabledReason)
		return classifier.Disabled{Reason: classifierDisabledReason}
	}
	return classifier.NewHuggingFace(cfg.APIToken,
		classifier.WithEndpoint(cfg.ClassifierEndpoint),
		classifier.WithModel(cfg.ClassifierModel),
		classifier.WithTimeout(cfg.ClassifierTimeout),
		classifier.WithLogger(logger),
	)
}

// newAssessor wires fetcher, analyzers, classifier and labels from cfg.
func newAssessor(cfg *config.Config, logger *slog.Logger) *pipeline.Assessor {
	f := fetcher.New(
		fetcher.WithUserAgent(cfg.UserAgent),
		fetcher.WithTimeout(cfg.FetchTimeout),
		fetcher.WithMaxBodySize(cfg.MaxBodySize),
		fetcher.WithLogger(logger),
	)
	return pipeline.NewAssessor(f, newClassifier(cfg, logger),
		pipeline.WithLabels(locale.Nepali().With(cfg.Labels)),
		pipeline.WithAnalyzer(heuristic.NewAnalyzer(heuristic.WithLogger(logger))),
		pipeline.WithLogger(logger),
	)
}

// signalContext is cancelled on SIGINT or SIGTERM.
func signalContext(parent context.Context) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
}

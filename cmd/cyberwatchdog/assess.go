package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/nao1215/cyberwatchdog/internal/config"
	"github.com/nao1215/cyberwatchdog/internal/database"
	"github.com/nao1215/cyberwatchdog/internal/model"
	"github.com/nao1215/cyberwatchdog/internal/pipeline"
	"github.com/nao1215/cyberwatchdog/internal/report"
)

// errUnsafeFound is returned with --fail-on-unsafe.
var errUnsafeFound = errors.New("one or more targets were assessed as unsafe")

// NewAssessCmd creates the assess command.
func NewAssessCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "assess [url...]",
		Short: "Assess URLs or text for phishing and malware risk",
		Long: `Assess fetches each URL (following redirects), applies URL and content
heuristics, optionally asks the zero-shot classifier, and prints a bilingual
verdict: safe, unsafe, invalid or error.

Examples:
  # Assess a URL (http:// is added when no scheme is given)
  cyberwatchdog assess example.com

  # Assess a piece of text without fetching anything
  cyberwatchdog assess --text "Please verify your password"

  # Assess a saved page or e-mail as raw text
  cyberwatchdog assess --file message.html

  # Assess every URL in a file, four at a time, as JSON
  cyberwatchdog assess --list urls.txt --json

  # Write a Markdown report and keep the results in the history database
  cyberwatchdog assess --markdown -o report.md --save example.com`,
		Args: cobra.ArbitraryArgs,
		RunE: runAssessCmd,
	}

	cmd.Flags().String("text", "", "Assess raw text instead of a URL")
	cmd.Flags().StringP("file", "f", "", "Assess the contents of a local file as raw text")
	cmd.Flags().StringP("list", "l", "", "File with one URL per line (# starts a comment)")

	cmd.Flags().DurationP("timeout", "t", config.NewConfig().FetchTimeout, "Timeout for each page fetch")
	cmd.Flags().Duration("classifier-timeout", config.NewConfig().ClassifierTimeout, "Timeout for each classifier request")
	cmd.Flags().String("user-agent", "", "User-Agent sent when fetching pages")
	cmd.Flags().IntP("concurrency", "n", config.NewConfig().Concurrency, "Number of concurrent assessments for --list")

	cmd.Flags().BoolP("json", "j", false, "Output JSON report (mutually exclusive with --markdown)")
	cmd.Flags().BoolP("markdown", "m", false, "Output Markdown report (mutually exclusive with --json)")
	cmd.Flags().StringP("output", "o", "", "Write report to specified file path (creates directories if needed)")
	cmd.Flags().BoolP("save", "s", false, "Save results to the history database")
	cmd.Flags().Bool("fail-on-unsafe", false, "Exit with an error when any target is unsafe")

	return cmd
}

func runAssessCmd(cmd *cobra.Command, args []string) error {
	cfg, err := buildAssessConfig(cmd, args)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}
	if err := cfg.RequireTarget(); err != nil {
		return err
	}

	failOnUnsafe, err := cmd.Flags().GetBool("fail-on-unsafe")
	if err != nil {
		return err
	}

	logger := setupLogger(cmd.ErrOrStderr(), cfg.Verbose)
	ctx, cancel := signalContext(cmd.Context())
	defer cancel()

	results, err := runAssess(ctx, cfg, logger, cmd.OutOrStdout())
	if err != nil {
		return err
	}
	if failOnUnsafe && report.CountVerdicts(results)[model.VerdictUnsafe] > 0 {
		return errUnsafeFound
	}
	return nil
}

// buildAssessConfig layers command flags over the loaded configuration.
// Flags shared with the config file only apply when set explicitly.
func buildAssessConfig(cmd *cobra.Command, args []string) (*config.Config, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}
	flags := cmd.Flags()

	if flags.Changed("timeout") {
		if cfg.FetchTimeout, err = flags.GetDuration("timeout"); err != nil {
			return nil, err
		}
	}
	if flags.Changed("classifier-timeout") {
		if cfg.ClassifierTimeout, err = flags.GetDuration("classifier-timeout"); err != nil {
			return nil, err
		}
	}
	if flags.Changed("user-agent") {
		if cfg.UserAgent, err = flags.GetString("user-agent"); err != nil {
			return nil, err
		}
	}
	if flags.Changed("concurrency") {
		if cfg.Concurrency, err = flags.GetInt("concurrency"); err != nil {
			return nil, err
		}
	}

	if cfg.Text, err = flags.GetString("text"); err != nil {
		return nil, err
	}
	if cfg.InputFile, err = flags.GetString("file"); err != nil {
		return nil, err
	}
	if cfg.ListFile, err = flags.GetString("list"); err != nil {
		return nil, err
	}
	if cfg.JSONReport, err = flags.GetBool("json"); err != nil {
		return nil, err
	}
	if cfg.MarkdownReport, err = flags.GetBool("markdown"); err != nil {
		return nil, err
	}
	if cfg.ReportFile, err = flags.GetString("output"); err != nil {
		return nil, err
	}
	if cfg.SaveToDB, err = flags.GetBool("save"); err != nil {
		return nil, err
	}

	cfg.Targets = args
	return cfg, nil
}

// runAssess assesses every input named by cfg and writes the report to out.
func runAssess(ctx context.Context, cfg *config.Config, logger *slog.Logger, out io.Writer) ([]*model.AssessmentResult, error) {
	inputs, err := collectInputs(cfg)
	if err != nil {
		return nil, err
	}
	if len(inputs) == 0 {
		return nil, fmt.Errorf("%s contains no URLs", cfg.ListFile)
	}

	var db *database.HistoryDB
	if cfg.SaveToDB {
		db, err = database.Open(cfg.DBPath(), database.DefaultOptions())
		if err != nil {
			return nil, fmt.Errorf("failed to open database: %w", err)
		}
		defer db.Close()
		logger.Info("database opened", "path", db.Path())
	}

	assessor := newAssessor(cfg, logger)
	logger.Info("starting assessment",
		"inputs", len(inputs),
		"concurrency", cfg.Concurrency,
		"classifier", cfg.ClassifierEnabled(),
	)

	var results []*model.AssessmentResult
	if len(inputs) == 1 {
		results = []*model.AssessmentResult{assessor.Assess(ctx, inputs[0])}
	} else {
		batch := pipeline.NewBatchAssessor(assessor,
			pipeline.WithConcurrency(cfg.Concurrency),
			pipeline.WithBatchLogger(logger),
		)
		results, err = batch.AssessAll(ctx, inputs)
		if err != nil {
			logger.Warn("batch interrupted", "error", err)
		}
	}

	if db != nil {
		for i, r := range results {
			if _, err := db.Save(ctx, inputs[i].Label(), r); err != nil {
				logger.Error("failed to save assessment", "target", inputs[i].Label(), "error", err)
			}
		}
	}

	if err := outputReport(cfg, out, results); err != nil {
		return results, err
	}
	return results, nil
}

// collectInputs turns the single configured target kind into pipeline inputs.
func collectInputs(cfg *config.Config) ([]pipeline.Input, error) {
	switch {
	case cfg.Text != "":
		return []pipeline.Input{{RawText: cfg.Text}}, nil
	case cfg.InputFile != "":
		text, err := readTextFile(cfg.InputFile)
		if err != nil {
			return nil, err
		}
		return []pipeline.Input{{RawText: text}}, nil
	case cfg.ListFile != "":
		urls, err := readListFile(cfg.ListFile)
		if err != nil {
			return nil, err
		}
		inputs := make([]pipeline.Input, len(urls))
		for i, u := range urls {
			inputs[i] = pipeline.Input{URL: normalizeURL(u)}
		}
		return inputs, nil
	default:
		inputs := make([]pipeline.Input, len(cfg.Targets))
		for i, t := range cfg.Targets {
			inputs[i] = pipeline.Input{URL: normalizeURL(t)}
		}
		return inputs, nil
	}
}

// normalizeURL adds http:// to input that does not start with "http".
func normalizeURL(s string) string {
	s = strings.TrimSpace(s)
	if s == "" || strings.HasPrefix(s, "http") {
		return s
	}
	return "http://" + s
}

// readTextFile reads path as text. Invalid UTF-8 sequences are dropped.
func readTextFile(path string) (string, error) {
	data, err := os.ReadFile(path) //nolint:gosec // user-provided path is intentional
	if err != nil {
		return "", fmt.Errorf("could not open file: %w", err)
	}
	return strings.ToValidUTF8(string(data), ""), nil
}

// readListFile returns the non-empty, non-comment lines of path.
func readListFile(path string) ([]string, error) {
	f, err := os.Open(path) //nolint:gosec // user-provided path is intentional
	if err != nil {
		return nil, fmt.Errorf("failed to open list file: %w", err)
	}
	defer f.Close()

	var urls []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		urls = append(urls, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read list file: %w", err)
	}
	return urls, nil
}

// outputReport writes results in the configured format to out or cfg.ReportFile.
func outputReport(cfg *config.Config, out io.Writer, results []*model.AssessmentResult) error {
	if cfg.ReportFile != "" {
		dir := filepath.Dir(cfg.ReportFile)
		if dir != "" && dir != "." {
			if err := os.MkdirAll(dir, 0750); err != nil {
				return fmt.Errorf("failed to create output directory: %w", err)
			}
		}
		f, err := os.OpenFile(cfg.ReportFile, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer f.Close()

		if err := writeReport(newReportWriter(cfg, f, false), results); err != nil {
			return err
		}
		fmt.Fprintf(out, "Report written to %s\n", cfg.ReportFile)
		return nil
	}
	return writeReport(newReportWriter(cfg, out, true), results)
}

func writeReport(w report.Writer, results []*model.AssessmentResult) error {
	var err error
	if len(results) == 1 {
		_, err = w.Write(results[0])
	} else {
		_, err = w.WriteAll(results)
	}
	if err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	return nil
}

func newReportWriter(cfg *config.Config, w io.Writer, colored bool) report.Writer {
	switch {
	case cfg.JSONReport:
		return report.NewJSONWriter(w, report.WithPrettyPrint())
	case cfg.MarkdownReport:
		return report.NewMarkdownWriter(w)
	default:
		return report.NewSimpleWriter(w, report.WithVerbose(cfg.Verbose), report.WithColor(colored))
	}
}

package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/nao1215/cyberwatchdog/internal/model"
	"github.com/nao1215/cyberwatchdog/internal/report"
)

const (
	interactiveBanner  = "Cyber Watchdog: enter a URL or type 'file:<path>' to scan a local file. Type 'exit' to quit."
	interactivePrompt  = "Input> "
	interactiveGoodbye = "Good luck. Stay secure."
	filePrefix         = "file:"
)

// promptAssessor is the part of the assessor the prompt uses.
type promptAssessor interface {
	AssessURL(ctx context.Context, rawURL string) *model.AssessmentResult
	AssessText(ctx context.Context, text string) *model.AssessmentResult
}

// NewInteractiveCmd creates the interactive command.
func NewInteractiveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "interactive",
		Short: "Assess URLs and files from an interactive prompt",
		Long: `Interactive reads one input per line until "exit" or an empty line.

  example.com          assessed as http://example.com
  https://example.com  assessed as given
  file:./mail.eml      the file is read and assessed as raw text`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			if err := cfg.Validate(); err != nil {
				return fmt.Errorf("configuration error: %w", err)
			}

			logger := setupLogger(cmd.ErrOrStderr(), cfg.Verbose)
			ctx, cancel := signalContext(cmd.Context())
			defer cancel()

			return runInteractive(ctx, newAssessor(cfg, logger), cmd.InOrStdin(), cmd.OutOrStdout(), true)
		},
	}
}

// runInteractive runs the read loop until exit, an empty line, EOF or ctx
// cancellation.
func runInteractive(ctx context.Context, assessor promptAssessor, in io.Reader, out io.Writer, colored bool) error {
	w := report.NewSimpleWriter(out, report.WithColor(colored))
	scanner := bufio.NewScanner(in)
	scanner.Buffer(make([]byte, 0, 64*1024), 1<<20)

	fmt.Fprintln(out, interactiveBanner)
	for {
		fmt.Fprint(out, "\n"+interactivePrompt)
		if !scanner.Scan() {
			fmt.Fprintln(out)
			fmt.Fprintln(out, interactiveGoodbye)
			return scanner.Err()
		}

		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.EqualFold(line, "exit") {
			fmt.Fprintln(out, interactiveGoodbye)
			return nil
		}

		var result *model.AssessmentResult
		if len(line) >= len(filePrefix) && strings.EqualFold(line[:len(filePrefix)], filePrefix) {
			text, err := readTextFile(strings.TrimSpace(line[len(filePrefix):]))
			if err != nil {
				fmt.Fprintf(out, "Could not open file: %v\n", err)
				continue
			}
			result = assessor.AssessText(ctx, text)
		} else {
			result = assessor.AssessURL(ctx, normalizeURL(line))
		}

		if _, err := w.Write(result); err != nil {
			return err
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
	}
}

package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/nao1215/cyberwatchdog/internal/database"
	"github.com/nao1215/cyberwatchdog/internal/model"
	"github.com/nao1215/cyberwatchdog/internal/report"
)

// NewHistoryCmd creates the history command.
func NewHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history [target]",
		Short: "Show previously saved assessments",
		Long: `History lists assessments saved with "assess --save" or "serve --save",
newest first. Give a target to see how its verdict changed over time.

Examples:
  cyberwatchdog history
  cyberwatchdog history http://example.com
  cyberwatchdog history --id 42
  cyberwatchdog history --stats`,
		Args: cobra.MaximumNArgs(1),
		RunE: runHistoryCmd,
	}

	cmd.Flags().IntP("limit", "n", database.DefaultListLimit, "Maximum number of entries")
	cmd.Flags().Int64("id", 0, "Show the full assessment with this ID")
	cmd.Flags().Bool("stats", false, "Show verdict totals")
	cmd.Flags().BoolP("json", "j", false, "Output JSON")

	return cmd
}

// historyEntry is the JSON form of a history record.
type historyEntry struct {
	ID          int64                   `json:"id"`
	Target      string                  `json:"target"`
	CreatedAt   time.Time               `json:"created_at"`
	ContentHash string                  `json:"content_hash,omitempty"`
	Result      *model.AssessmentResult `json:"result"`
}

func runHistoryCmd(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	flags := cmd.Flags()
	limit, _ := flags.GetInt("limit")
	id, _ := flags.GetInt64("id")
	stats, _ := flags.GetBool("stats")
	asJSON, _ := flags.GetBool("json")

	db, err := database.Open(cfg.DBPath(), database.Options{})
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			fmt.Fprintln(cmd.OutOrStdout(), "No history yet. Run \"cyberwatchdog assess --save <url>\" first.")
			return nil
		}
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	switch {
	case stats:
		counts, err := db.CountByVerdict(ctx)
		if err != nil {
			return err
		}
		return writeStats(out, counts, asJSON)
	case id != 0:
		rec, err := db.Get(ctx, id)
		if err != nil {
			return err
		}
		if asJSON {
			return writeJSON(out, toEntry(rec))
		}
		fmt.Fprintf(out, "#%d %s (%s)\n", rec.ID, rec.Target, rec.CreatedAt.Local().Format(time.DateTime))
		_, err = report.NewSimpleWriter(out).Write(rec.Result())
		return err
	}

	var records []*database.Record
	if len(args) == 1 {
		records, err = db.ListByTarget(ctx, args[0], limit)
	} else {
		records, err = db.List(ctx, limit)
	}
	if err != nil {
		return err
	}

	if asJSON {
		entries := make([]historyEntry, len(records))
		for i, r := range records {
			entries[i] = toEntry(r)
		}
		return writeJSON(out, entries)
	}
	return writeHistoryTable(out, records)
}

func toEntry(r *database.Record) historyEntry {
	return historyEntry{
		ID:          r.ID,
		Target:      r.Target,
		CreatedAt:   r.CreatedAt,
		ContentHash: r.ContentHash,
		Result:      r.Result(),
	}
}

func writeHistoryTable(out io.Writer, records []*database.Record) error {
	if len(records) == 0 {
		_, err := fmt.Fprintln(out, "No assessments found.")
		return err
	}

	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tCREATED\tVERDICT\tINDICATORS\tTARGET")
	for _, r := range records {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%d\t%s\n",
			r.ID,
			r.CreatedAt.Local().Format(time.DateTime),
			r.Verdict,
			r.Result().IndicatorCount(),
			r.Target,
		)
	}
	return tw.Flush()
}

func writeStats(out io.Writer, counts map[model.Verdict]int, asJSON bool) error {
	verdicts := []model.Verdict{model.VerdictUnsafe, model.VerdictSafe, model.VerdictInvalid, model.VerdictError}
	if asJSON {
		m := make(map[string]int, len(verdicts))
		for _, v := range verdicts {
			m[v.String()] = counts[v]
		}
		return writeJSON(out, m)
	}

	total := 0
	for _, v := range verdicts {
		fmt.Fprintf(out, "%-8s %d\n", v.String()+":", counts[v])
		total += counts[v]
	}
	_, err := fmt.Fprintf(out, "%-8s %d\n", "total:", total)
	return err
}

func writeJSON(out io.Writer, v any) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

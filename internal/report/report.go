// Package report writes the per-clip CSV report and renders the console
// summary shown at the end of a run.
package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"

	"gmetrans/internal/types"
)

// FileName is the report file written into the work directory.
const FileName = "report.csv"

// WriteCSV saves one row per extracted clip. Rows are expected to arrive
// already sorted by clip name.
func WriteCSV(path string, rows []types.ReportRow) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create report: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write([]string{"OGG file", "Duration", "Category", "Transcript"}); err != nil {
		return fmt.Errorf("write report header: %w", err)
	}
	for _, r := range rows {
		rec := []string{
			r.Name,
			strconv.FormatFloat(r.Duration.Seconds(), 'f', 2, 64),
			string(r.Category),
			r.Transcript,
		}
		if err := w.Write(rec); err != nil {
			return fmt.Errorf("write report row %q: %w", r.Name, err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("flush report: %w", err)
	}
	return f.Close()
}

// RenderSummary prints a human-readable table of the report rows plus a
// per-category tally. Long transcripts are truncated by the table layout.
func RenderSummary(w io.Writer, rows []types.ReportRow) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	t.SetColumnConfigs([]table.ColumnConfig{
		{Number: 4, WidthMax: 48},
	})

	t.AppendHeader(table.Row{"OGG file", "Duration", "Category", "Transcript"})
	counts := map[types.Category]int{}
	for _, r := range rows {
		counts[r.Category]++
		t.AppendRow(table.Row{
			r.Name,
			r.Duration.Round(10 * time.Millisecond).String(),
			string(r.Category),
			r.Transcript,
		})
	}
	t.AppendFooter(table.Row{
		fmt.Sprintf("%d clips", len(rows)),
		"",
		fmt.Sprintf("%d/%d/%d", counts[types.CategoryTooLong], counts[types.CategorySpeech], counts[types.CategorySound]),
		"too long/speech/sound",
	})
	t.Render()
}

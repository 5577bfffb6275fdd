package cli

import (
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/softwarescout/backend/internal/usecase"
)

// progressPrinter writes one line per finished work item
func progressPrinter(w io.Writer) func(usecase.ItemResult) {
	return func(r usecase.ItemResult) {
		prefix := fmt.Sprintf("[%d/%d]", r.Index, r.Total)
		elapsed := r.Elapsed.Round(100 * time.Millisecond)

		switch r.Outcome {
		case usecase.OutcomeGenerated:
			fmt.Fprintf(w, "%s OK %s (%s)\n", prefix, r.Slug, elapsed)
		case usecase.OutcomeSkippedExisting:
			fmt.Fprintf(w, "%s SKIP %s (exists)\n", prefix, r.Slug)
		case usecase.OutcomeSkippedInsufficient:
			fmt.Fprintf(w, "%s SKIP %s (not enough tools)\n", prefix, r.Slug)
		default:
			fmt.Fprintf(w, "%s ERR %s (%s): %v\n", prefix, r.Slug, elapsed, r.Err)
		}
	}
}

// printReport renders the run summary
func printReport(w io.Writer, report usecase.Report) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"Generated", "Skipped (existing)", "Skipped (too few tools)", "Errors", "Total"})
	t.AppendRow(table.Row{
		report.Generated,
		report.SkippedExisting,
		report.SkippedInsufficient,
		report.Errored,
		report.Total,
	})
	t.Render()

	if len(report.CategoryCounts) > 0 {
		categories := make([]string, 0, len(report.CategoryCounts))
		for c := range report.CategoryCounts {
			categories = append(categories, c)
		}
		sort.Strings(categories)

		counts := table.NewWriter()
		counts.SetOutputMirror(w)
		counts.SetStyle(table.StyleLight)
		counts.AppendHeader(table.Row{"Category", "Pages stored"})
		for _, c := range categories {
			counts.AppendRow(table.Row{c, report.CategoryCounts[c]})
		}
		counts.AppendFooter(table.Row{"All categories", report.TotalPages})
		counts.Render()
	}

	if len(report.Failed) > 0 {
		fmt.Fprintln(w, "Failed:")
		for _, slug := range report.Failed {
			fmt.Fprintln(w, "  "+slug)
		}
	}
	if report.Interrupted {
		fmt.Fprintln(w, "Interrupted; run again to resume.")
	}
}

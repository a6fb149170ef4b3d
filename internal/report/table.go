// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package report

import (
	"fmt"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/pdiddy/trackmatch/internal/ingest"
)

// RenderSummary renders one line per track for terminal output.
func RenderSummary(r *Report) string {
	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)
	tw.AppendHeader(table.Row{"Artist", "Track", "Confidence", "Match", "Spotify Track"})
	for _, s := range r.Summary {
		tw.AppendRow(table.Row{s.Fields[ingest.ColArtist], s.Fields[ingest.ColName], s.Confidence, yesNo(s.Found), s.Name})
	}

	matched, missed, errored := r.Counts()
	tw.AppendFooter(table.Row{"", "", "", "", fmt.Sprintf("matched %d, missed %d, errors %d", matched, missed, errored)})
	tw.SetColumnConfigs([]table.ColumnConfig{
		{Number: 3, Align: text.AlignRight, AlignHeader: text.AlignLeft},
	})
	return tw.Render()
}

// RenderRuns renders stored runs, one per line.
func RenderRuns(runs []RunInfo) string {
	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)
	tw.AppendHeader(table.Row{"Run", "Created", "Tracks", "Matched", "Missed", "Errors"})
	for _, r := range runs {
		tw.AppendRow(table.Row{r.ID, r.CreatedAt.Format("2006-01-02 15:04:05"), r.Total(), r.Matched, r.Missed, r.Errored})
	}
	tw.SetColumnConfigs([]table.ColumnConfig{
		{Number: 3, Align: text.AlignRight},
		{Number: 4, Align: text.AlignRight},
		{Number: 5, Align: text.AlignRight},
		{Number: 6, Align: text.AlignRight},
	})
	return tw.Render()
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

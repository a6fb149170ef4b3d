// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package report

import (
	"fmt"
	"unicode/utf8"

	"github.com/xuri/excelize/v2"
)

const (
	defaultSheet = "Sheet1"
	freezeCell   = "E2"
	maxColWidth  = 255
)

// WriteXLSX writes the summary sheet and, when any candidate was scored,
// the details sheet to path. Each sheet gets fitted column widths, panes
// frozen at E2, and an autofilter over its data.
func WriteXLSX(path string, r *Report) error {
	f := excelize.NewFile()
	defer f.Close()

	summary := r.SummaryTable()
	if err := f.SetSheetName(defaultSheet, summary.Name); err != nil {
		return fmt.Errorf("naming summary sheet: %w", err)
	}
	if err := writeSheet(f, summary); err != nil {
		return err
	}

	if len(r.Details) > 0 {
		details := r.DetailsTable()
		if _, err := f.NewSheet(details.Name); err != nil {
			return fmt.Errorf("adding details sheet: %w", err)
		}
		if err := writeSheet(f, details); err != nil {
			return err
		}
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("saving %s: %w", path, err)
	}
	return nil
}

func writeSheet(f *excelize.File, t Table) error {
	header := make([]any, len(t.Columns))
	for i, c := range t.Columns {
		header[i] = c
	}
	if err := f.SetSheetRow(t.Name, "A1", &header); err != nil {
		return fmt.Errorf("writing %s header: %w", t.Name, err)
	}
	for i, row := range t.Rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(t.Name, cell, &row); err != nil {
			return fmt.Errorf("writing %s row %d: %w", t.Name, i+1, err)
		}
	}

	if len(t.Rows) == 0 {
		return nil
	}

	for i, width := range columnWidths(t) {
		col, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			return err
		}
		if err := f.SetColWidth(t.Name, col, col, width); err != nil {
			return fmt.Errorf("sizing %s column %s: %w", t.Name, col, err)
		}
	}

	if err := f.SetPanes(t.Name, &excelize.Panes{
		Freeze:      true,
		XSplit:      4,
		YSplit:      1,
		TopLeftCell: freezeCell,
		ActivePane:  "bottomRight",
	}); err != nil {
		return fmt.Errorf("freezing %s panes: %w", t.Name, err)
	}

	last, err := excelize.CoordinatesToCellName(len(t.Columns), len(t.Rows)+1)
	if err != nil {
		return err
	}
	if err := f.AutoFilter(t.Name, "A1:"+last, nil); err != nil {
		return fmt.Errorf("filtering %s: %w", t.Name, err)
	}
	return nil
}

// columnWidths fits each column to its longest rendered value plus two.
func columnWidths(t Table) []float64 {
	widths := make([]float64, len(t.Columns))
	for i, c := range t.Columns {
		widths[i] = float64(utf8.RuneCountInString(c))
	}
	for _, row := range t.Rows {
		for i, v := range row {
			if i >= len(widths) || v == nil {
				continue
			}
			if n := float64(utf8.RuneCountInString(fmt.Sprint(v))); n > widths[i] {
				widths[i] = n
			}
		}
	}
	for i := range widths {
		widths[i] = min(widths[i]+2, maxColWidth)
	}
	return widths
}

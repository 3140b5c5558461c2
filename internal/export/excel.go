// Copyright (c) 2026 Medledger Team
// Medledger - medical device ledger
// This source code is licensed under the MIT license found in the LICENSE file.

// Package export writes the device ledger as an Excel workbook with one sheet
// for devices and one for repair history.
package export

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/toeirei/medledger/internal/core"
	"github.com/toeirei/medledger/internal/i18n"
	"github.com/toeirei/medledger/internal/model"
	"github.com/xuri/excelize/v2"
)

// Sheet names of the exported workbook.
const (
	DevicesSheet = "Devices"
	RepairsSheet = "Repairs"
)

// DefaultFileName is the workbook name used when none is given.
func DefaultFileName(t time.Time) string {
	return fmt.Sprintf("medledger-%s.xlsx", t.Format("2006-01-02"))
}

// deviceHeader and repairHeader hold the i18n ids of the column titles.
var (
	deviceHeader = []string{
		"export.col.id",
		"export.col.name",
		"export.col.model",
		"export.col.location",
		"export.col.last_inspection",
		"export.col.next_inspection",
		"export.col.repair_count",
	}
	repairHeader = []string{
		"export.col.id",
		"export.col.name",
		"export.col.repair_date",
		"export.col.repair_description",
	}
	deviceColumnWidths = []float64{6, 20, 12, 22, 16, 16, 10}
	repairColumnWidths = []float64{6, 20, 14, 40}
)

// WriteLedger writes reg as an XLSX workbook to w. Devices keep registry
// order; repairs are listed per device in insertion order.
func WriteLedger(w io.Writer, reg core.Registry) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName("Sheet1", DevicesSheet); err != nil {
		return fmt.Errorf("failed to rename sheet: %w", err)
	}
	if _, err := f.NewSheet(RepairsSheet); err != nil {
		return fmt.Errorf("failed to create sheet: %w", err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{
			Type:    "pattern",
			Color:   []string{"#E6F3FF"},
			Pattern: 1,
		},
		Border: []excelize.Border{
			{Type: "left", Color: "000000", Style: 1},
			{Type: "top", Color: "000000", Style: 1},
			{Type: "bottom", Color: "000000", Style: 1},
			{Type: "right", Color: "000000", Style: 1},
		},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	if err != nil {
		return fmt.Errorf("failed to create header style: %w", err)
	}

	if err := writeHeader(f, DevicesSheet, deviceHeader, deviceColumnWidths, headerStyle); err != nil {
		return err
	}
	if err := writeHeader(f, RepairsSheet, repairHeader, repairColumnWidths, headerStyle); err != nil {
		return err
	}

	repairRow := 2
	for i, d := range reg.Devices() {
		row := []any{d.ID, d.Name, d.Model, d.Location, DisplayDate(d.LastInspection), DisplayDate(d.NextInspection), len(d.Repairs)}
		if err := writeRow(f, DevicesSheet, i+2, row); err != nil {
			return err
		}
		for _, r := range d.Repairs {
			if err := writeRow(f, RepairsSheet, repairRow, []any{d.ID, d.Name, r.Date, r.Description}); err != nil {
				return err
			}
			repairRow++
		}
	}

	if err := f.SetPanes(DevicesSheet, &excelize.Panes{Freeze: true, YSplit: 1, TopLeftCell: "A2", ActivePane: "bottomLeft"}); err != nil {
		return fmt.Errorf("failed to freeze header: %w", err)
	}
	f.SetActiveSheet(0)

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

// WriteLedgerFile writes the workbook to path.
func WriteLedgerFile(path string, reg core.Registry) error {
	out, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("could not create file: %w", err)
	}
	if err := WriteLedger(out, reg); err != nil {
		_ = out.Close()
		return err
	}
	return out.Close()
}

func writeHeader(f *excelize.File, sheet string, ids []string, widths []float64, style int) error {
	for col, id := range ids {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return fmt.Errorf("failed to convert coordinates: %w", err)
		}
		if err := f.SetCellValue(sheet, cell, i18n.T(id)); err != nil {
			return fmt.Errorf("failed to set header cell %s: %w", cell, err)
		}
		if err := f.SetCellStyle(sheet, cell, cell, style); err != nil {
			return fmt.Errorf("failed to set header style: %w", err)
		}
		name, err := excelize.ColumnNumberToName(col + 1)
		if err != nil {
			return fmt.Errorf("failed to convert column number: %w", err)
		}
		if err := f.SetColWidth(sheet, name, name, widths[col]); err != nil {
			return fmt.Errorf("failed to set column width: %w", err)
		}
	}
	return nil
}

func writeRow(f *excelize.File, sheet string, row int, values []any) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return fmt.Errorf("failed to convert coordinates: %w", err)
	}
	if err := f.SetSheetRow(sheet, cell, &values); err != nil {
		return fmt.Errorf("failed to set row %d: %w", row, err)
	}
	return nil
}

// DisplayDate localizes the inspection placeholders.
func DisplayDate(v string) string {
	switch v {
	case model.NotPerformed:
		return i18n.T("date.not_performed")
	case model.NotScheduled:
		return i18n.T("date.not_scheduled")
	}
	return v
}

// Package workbook reads and writes ranking sheets in a local .xlsx file,
// for running the ranking offline against an exported copy of the class
// spreadsheet.
package workbook

import (
	"context"
	"fmt"

	"ranking/pkg/ranking"

	log "github.com/sirupsen/logrus"
	"github.com/xuri/excelize/v2"
)

type Workbook struct {
	path string
	file *excelize.File
}

var (
	_ ranking.Source    = (*Workbook)(nil)
	_ ranking.Publisher = (*Workbook)(nil)
)

// Open loads the workbook at path. Changes stay in memory until Save.
func Open(path string) (*Workbook, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook %s: %w", path, err)
	}
	return &Workbook{path: path, file: f}, nil
}

// Read returns every row of the named sheet, header first.
func (w *Workbook) Read(ctx context.Context, sheet string) (ranking.Input, error) {
	if err := ctx.Err(); err != nil {
		return ranking.Input{}, err
	}
	idx, err := w.file.GetSheetIndex(sheet)
	if err != nil {
		return ranking.Input{}, err
	}
	if idx < 0 {
		return ranking.Input{}, fmt.Errorf("workbook %s has no sheet %q", w.path, sheet)
	}

	rows, err := w.file.GetRows(sheet)
	if err != nil {
		return ranking.Input{}, fmt.Errorf("failed to get rows from sheet %s: %w", sheet, err)
	}
	return ranking.NewInput(rows), nil
}

// Publish replaces the named sheet with the table. An existing sheet is
// dropped and recreated so no stale cells survive.
func (w *Workbook) Publish(ctx context.Context, table ranking.Table) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	idx, err := w.file.GetSheetIndex(table.Name)
	if err != nil {
		return err
	}
	if idx >= 0 {
		if err := w.file.DeleteSheet(table.Name); err != nil {
			return fmt.Errorf("failed to clear sheet %s: %w", table.Name, err)
		}
	}
	if _, err := w.file.NewSheet(table.Name); err != nil {
		return fmt.Errorf("failed to create sheet %s: %w", table.Name, err)
	}

	for i, row := range table.Values() {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := w.file.SetSheetRow(table.Name, cell, &row); err != nil {
			return fmt.Errorf("failed to write row %d of sheet %s: %w", i+1, table.Name, err)
		}
	}

	log.WithFields(log.Fields{"sheet": table.Name, "rows": len(table.Rows)}).Info("Updated sheet")
	return nil
}

// Save writes pending changes back to the file.
func (w *Workbook) Save() error {
	if err := w.file.Save(); err != nil {
		return fmt.Errorf("failed to save workbook %s: %w", w.path, err)
	}
	return nil
}

func (w *Workbook) Close() error {
	return w.file.Close()
}

package pipeline

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"
)

// WriteTable saves the table as XLSX or CSV depending on the extension of
// outputPath, creating parent directories as needed.
func WriteTable(t *Table, outputPath string) error {
	if err := os.MkdirAll(filepath.Dir(outputPath), 0o755); err != nil {
		return err
	}
	switch strings.ToLower(filepath.Ext(outputPath)) {
	case ".xlsx", ".xlsm":
		return exportXLSX(t, outputPath)
	default:
		return exportCSV(t, outputPath)
	}
}

func exportCSV(t *Table, outputPath string) error {
	f, err := os.Create(outputPath)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(t.Header); err != nil {
		return err
	}
	if err := w.WriteAll(t.Rows); err != nil {
		return err
	}
	return f.Close()
}

func exportXLSX(t *Table, outputPath string) error {
	f := excelize.NewFile()
	defer f.Close()
	sheet := f.GetSheetName(0)

	for i, h := range t.Header {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(sheet, cell, h)
	}

	for i, row := range t.Rows {
		r := i + 2
		for c, value := range row {
			cell, _ := excelize.CoordinatesToCellName(c+1, r)
			if err := f.SetCellStr(sheet, cell, value); err != nil {
				return err
			}
		}
	}

	return f.SaveAs(outputPath)
}

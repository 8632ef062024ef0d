package stats

import (
	"github.com/xuri/excelize/v2"

	"github.com/docflow-tools/finstat/constants"
	"github.com/docflow-tools/finstat/internal/common"
)

// ExportXLSX writes the same numbers as Export into a workbook, one row per
// document type. Failures are run-fatal like the flat-file export.
func (a *Aggregator) ExportXLSX(path string) error {
	f := excelize.NewFile()
	const sheet = "Turnover"
	index, err := f.NewSheet(sheet)
	if err != nil {
		return &common.ExportError{Path: path, Err: err}
	}
	f.SetActiveSheet(index)
	_ = f.DeleteSheet("Sheet1")

	headers := []string{"Type", "Total Amount", "Currency", "Number of Files"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(sheet, cell, h)
	}

	snap := a.Snapshot()
	row := 2
	for _, t := range constants.DocTypes {
		ts := snap[t]
		write := func(col int, v any) {
			cell, _ := excelize.CoordinatesToCellName(col, row)
			_ = f.SetCellValue(sheet, cell, v)
		}
		write(1, string(t))
		write(2, ts.Total.StringFixed(2))
		write(3, t.CurrencyLabel())
		write(4, ts.Count)
		row++
	}

	_ = f.SetColWidth(sheet, "A", "A", 12)
	_ = f.SetColWidth(sheet, "B", "B", 16)
	_ = f.SetColWidth(sheet, "D", "D", 16)

	if err := f.SaveAs(path); err != nil {
		return &common.ExportError{Path: path, Err: err}
	}
	a.logger.Info("stats.export_xlsx.ok", "path", path)
	return nil
}

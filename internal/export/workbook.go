package export

import (
	"fmt"
	"io"

	"github.com/piwi3910/rectopt/internal/model"
	"github.com/xuri/excelize/v2"
)

// ExportWorkbook writes the input stock/item lists and the resulting
// solutions/summary to an .xlsx workbook: one sheet for stock, one for
// items, one per used solution sheet, and a summary sheet.
func ExportWorkbook(w io.Writer, req model.OptimizeRequest, resp model.OptimizeResponse) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := writeStockSheet(f, req.Stock); err != nil {
		return fmt.Errorf("export: stock sheet: %w", err)
	}
	if err := writeItemsSheet(f, req.Items); err != nil {
		return fmt.Errorf("export: items sheet: %w", err)
	}
	for i, sol := range resp.Solutions {
		if err := writeSolutionSheet(f, i+1, sol); err != nil {
			return fmt.Errorf("export: solution sheet %d: %w", i+1, err)
		}
	}
	summaryIdx, err := writeSummarySheet(f, resp.Summary)
	if err != nil {
		return fmt.Errorf("export: summary sheet: %w", err)
	}

	f.DeleteSheet("Sheet1")
	f.SetActiveSheet(summaryIdx)

	return f.Write(w)
}

func writeStockSheet(f *excelize.File, stock []model.Stock) error {
	const sheet = "Stock"
	if _, err := f.NewSheet(sheet); err != nil {
		return err
	}
	headers := []string{"ID", "Width (mm)", "Height (mm)", "Qty"}
	for col, h := range headers {
		f.SetCellValue(sheet, cellAt(col+1, 1), h)
	}
	for i, s := range stock {
		row := i + 2
		f.SetCellValue(sheet, cellAt(1, row), s.ID)
		f.SetCellValue(sheet, cellAt(2, row), s.WidthMM)
		f.SetCellValue(sheet, cellAt(3, row), s.HeightMM)
		f.SetCellValue(sheet, cellAt(4, row), s.Qty)
	}
	return nil
}

func writeItemsSheet(f *excelize.File, items []model.Item) error {
	const sheet = "Items"
	if _, err := f.NewSheet(sheet); err != nil {
		return err
	}
	headers := []string{"ID", "Width (mm)", "Height (mm)", "Qty", "Rotation", "Pattern Direction"}
	for col, h := range headers {
		f.SetCellValue(sheet, cellAt(col+1, 1), h)
	}
	for i, it := range items {
		row := i + 2
		f.SetCellValue(sheet, cellAt(1, row), it.ID)
		f.SetCellValue(sheet, cellAt(2, row), it.WidthMM)
		f.SetCellValue(sheet, cellAt(3, row), it.HeightMM)
		f.SetCellValue(sheet, cellAt(4, row), it.Qty)
		f.SetCellValue(sheet, cellAt(5, row), string(it.Rotation))
		f.SetCellValue(sheet, cellAt(6, row), string(it.PatternDirection))
	}
	return nil
}

func writeSolutionSheet(f *excelize.File, n int, sol model.Solution) error {
	sheet := fmt.Sprintf("Sheet %d", n)
	if _, err := f.NewSheet(sheet); err != nil {
		return err
	}
	f.SetCellValue(sheet, "A1", fmt.Sprintf("%s #%d (%.0f x %.0f mm)", sol.StockID, sol.Index, sol.WidthMM, sol.HeightMM))

	headers := []string{"Item ID", "Instance", "X (mm)", "Y (mm)", "Width (mm)", "Height (mm)", "Rotated", "Pattern"}
	for col, h := range headers {
		f.SetCellValue(sheet, cellAt(col+1, 3), h)
	}
	for i, p := range sol.Placements {
		row := i + 4
		f.SetCellValue(sheet, cellAt(1, row), p.ItemID)
		f.SetCellValue(sheet, cellAt(2, row), p.Instance)
		f.SetCellValue(sheet, cellAt(3, row), p.XMM)
		f.SetCellValue(sheet, cellAt(4, row), p.YMM)
		f.SetCellValue(sheet, cellAt(5, row), p.WidthMM)
		f.SetCellValue(sheet, cellAt(6, row), p.HeightMM)
		f.SetCellValue(sheet, cellAt(7, row), p.Rotated)
		f.SetCellValue(sheet, cellAt(8, row), string(p.PatternDirection))
	}
	return nil
}

func writeSummarySheet(f *excelize.File, summary model.Summary) (int, error) {
	const sheet = "Summary"
	idx, err := f.NewSheet(sheet)
	if err != nil {
		return 0, err
	}
	rows := []struct {
		label string
		value any
	}{
		{"Mode", string(summary.Mode)},
		{"Objective", string(summary.Objective)},
		{"Used Stock Count", summary.UsedStockCount},
		{"Total Waste Area (mm²)", summary.TotalWasteAreaMM2},
		{"Waste Percent", summary.WastePercent},
		{"Time (ms)", summary.TimeMS},
		{"Restarts Used", summary.RestartsUsed},
		{"Seed", summary.Seed},
		{"Packer", string(summary.Engine.Packer)},
		{"Bin Select", string(summary.Engine.BinSelect)},
		{"Sort", string(summary.Engine.Sort)},
	}
	for i, r := range rows {
		row := i + 1
		f.SetCellValue(sheet, cellAt(1, row), r.label)
		f.SetCellValue(sheet, cellAt(2, row), r.value)
	}
	return idx, nil
}

func cellAt(col, row int) string {
	cell, _ := excelize.CoordinatesToCellName(col, row)
	return cell
}

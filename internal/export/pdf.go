// Package export renders optimize results to downstream report formats:
// a multi-page cut-sheet PDF, QR-coded part labels, and a spreadsheet
// workbook. None of it is consulted by internal/engine; it is invoked by
// the rectopt-cli command after a solution has been computed.
package export

import (
	"fmt"
	"io"
	"math"

	"github.com/go-pdf/fpdf"
	"github.com/piwi3910/rectopt/internal/model"
)

// placementColor is an RGB color used to distinguish placements on a sheet
// page.
type placementColor struct {
	R, G, B int
}

// placementColors cycles through a fixed, visually distinct palette; index
// by placement order within a sheet.
var placementColors = []placementColor{
	{R: 76, G: 175, B: 80},  // green
	{R: 33, G: 150, B: 243}, // blue
	{R: 255, G: 152, B: 0},  // orange
	{R: 156, G: 39, B: 176}, // purple
	{R: 0, G: 188, B: 212},  // cyan
	{R: 244, G: 67, B: 54},  // red
	{R: 255, G: 235, B: 59}, // yellow
	{R: 121, G: 85, B: 72},  // brown
}

// Page layout constants (A4 landscape in mm).
const (
	pageWidth    = 297.0
	pageHeight   = 210.0
	marginLeft   = 15.0
	marginRight  = 15.0
	marginTop    = 15.0
	marginBottom = 15.0
	headerHeight = 12.0
	drawAreaTop  = marginTop + headerHeight + 5.0
)

// ExportPDF renders one landscape page per used sheet plus a summary page,
// writing the finished document to w.
func ExportPDF(w io.Writer, solutions []model.Solution, summary model.Summary) error {
	if len(solutions) == 0 {
		return fmt.Errorf("export: no solutions to render")
	}

	pdf := fpdf.New("L", "mm", "A4", "")
	pdf.SetAutoPageBreak(false, marginBottom)

	for i, sol := range solutions {
		pdf.AddPage()
		renderSheetPage(pdf, sol, i+1)
	}

	pdf.AddPage()
	renderSummaryPage(pdf, solutions, summary)

	return pdf.Output(w)
}

func sheetUsableArea(sol model.Solution) float64 {
	return (sol.WidthMM - sol.TrimMM.Left - sol.TrimMM.Right) * (sol.HeightMM - sol.TrimMM.Top - sol.TrimMM.Bottom)
}

func sheetPlacedArea(sol model.Solution) float64 {
	total := 0.0
	for _, p := range sol.Placements {
		total += p.WidthMM * p.HeightMM
	}
	return total
}

func sheetEfficiency(sol model.Solution) float64 {
	usable := sheetUsableArea(sol)
	if usable <= 0 {
		return 0
	}
	return sheetPlacedArea(sol) / usable * 100.0
}

// renderSheetPage draws a single solution sheet on the current PDF page.
func renderSheetPage(pdf *fpdf.Fpdf, sol model.Solution, sheetNum int) {
	pdf.SetFont("Helvetica", "B", 14)
	pdf.SetXY(marginLeft, marginTop)
	title := fmt.Sprintf("Sheet %d: %s #%d (%.0f x %.0f mm)", sheetNum, sol.StockID, sol.Index, sol.WidthMM, sol.HeightMM)
	pdf.CellFormat(pageWidth-marginLeft-marginRight, headerHeight, title, "", 0, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", 10)
	pdf.SetXY(marginLeft, marginTop+headerHeight)
	stats := fmt.Sprintf("Placements: %d | Used area: %.0f mm² | Usable area: %.0f mm² | Efficiency: %.1f%%",
		len(sol.Placements), sheetPlacedArea(sol), sheetUsableArea(sol), sheetEfficiency(sol))
	pdf.CellFormat(pageWidth-marginLeft-marginRight, 5, stats, "", 0, "L", false, 0, "")

	drawWidth := pageWidth - marginLeft - marginRight
	drawHeight := pageHeight - drawAreaTop - marginBottom - 20.0

	scaleX := drawWidth / sol.WidthMM
	scaleY := drawHeight / sol.HeightMM
	scale := math.Min(scaleX, scaleY)

	canvasW := sol.WidthMM * scale
	canvasH := sol.HeightMM * scale

	offsetX := marginLeft + (drawWidth-canvasW)/2
	offsetY := drawAreaTop

	pdf.SetFillColor(210, 180, 140)
	pdf.SetDrawColor(100, 100, 100)
	pdf.SetLineWidth(0.5)
	pdf.Rect(offsetX, offsetY, canvasW, canvasH, "FD")

	drawTrimZone(pdf, sol, scale, offsetX, offsetY, canvasW, canvasH)

	for i, p := range sol.Placements {
		col := placementColors[i%len(placementColors)]
		pw := p.WidthMM * scale
		ph := p.HeightMM * scale
		px := offsetX + p.XMM*scale
		py := offsetY + p.YMM*scale

		pdf.SetFillColor(col.R, col.G, col.B)
		pdf.SetDrawColor(30, 30, 30)
		pdf.SetLineWidth(0.3)
		pdf.Rect(px, py, pw, ph, "FD")

		if pw > 15 && ph > 8 {
			pdf.SetFont("Helvetica", "", labelFontSize(pw, ph))
			pdf.SetTextColor(0, 0, 0)

			label := fmt.Sprintf("%s#%d", p.ItemID, p.Instance)
			dims := fmt.Sprintf("%.0fx%.0f", p.WidthMM, p.HeightMM)
			if p.Rotated {
				dims += " R"
			}

			labelW := pdf.GetStringWidth(label)
			dimsW := pdf.GetStringWidth(dims)

			if labelW < pw-2 {
				pdf.SetXY(px+(pw-labelW)/2, py+ph/2-4)
				pdf.CellFormat(labelW, 4, label, "", 0, "C", false, 0, "")
			}
			if ph > 14 && dimsW < pw-2 {
				pdf.SetXY(px+(pw-dimsW)/2, py+ph/2)
				pdf.CellFormat(dimsW, 4, dims, "", 0, "C", false, 0, "")
			}
		}
	}

	drawDimensionAnnotations(pdf, sol, scale, offsetX, offsetY, canvasW, canvasH)
	drawPlacementsLegend(pdf, sol, offsetY+canvasH+5)
}

// drawTrimZone shades the non-usable trim margin around the sheet edge.
func drawTrimZone(pdf *fpdf.Fpdf, sol model.Solution, scale, offsetX, offsetY, canvasW, canvasH float64) {
	trim := sol.TrimMM
	if trim.Left == 0 && trim.Right == 0 && trim.Top == 0 && trim.Bottom == 0 {
		return
	}

	pdf.SetFillColor(255, 200, 200)
	pdf.SetDrawColor(200, 0, 0)
	pdf.SetLineWidth(0.2)

	if trim.Top > 0 {
		pdf.Rect(offsetX, offsetY, canvasW, trim.Top*scale, "F")
	}
	if trim.Bottom > 0 {
		pdf.Rect(offsetX, offsetY+canvasH-trim.Bottom*scale, canvasW, trim.Bottom*scale, "F")
	}
	if trim.Left > 0 {
		pdf.Rect(offsetX, offsetY, trim.Left*scale, canvasH, "F")
	}
	if trim.Right > 0 {
		pdf.Rect(offsetX+canvasW-trim.Right*scale, offsetY, trim.Right*scale, canvasH, "F")
	}
}

// drawDimensionAnnotations adds width/height labels outside the sheet rectangle.
func drawDimensionAnnotations(pdf *fpdf.Fpdf, sol model.Solution, scale, offsetX, offsetY, canvasW, canvasH float64) {
	pdf.SetFont("Helvetica", "", 8)
	pdf.SetTextColor(80, 80, 80)

	widthLabel := fmt.Sprintf("%.0f mm", sol.WidthMM)
	wLabelW := pdf.GetStringWidth(widthLabel)
	pdf.SetXY(offsetX+(canvasW-wLabelW)/2, offsetY+canvasH+1)
	pdf.CellFormat(wLabelW, 4, widthLabel, "", 0, "C", false, 0, "")

	heightLabel := fmt.Sprintf("%.0f mm", sol.HeightMM)
	pdf.TransformBegin()
	pdf.TransformRotate(90, offsetX-3, offsetY+canvasH/2)
	hLabelW := pdf.GetStringWidth(heightLabel)
	pdf.SetXY(offsetX-3-hLabelW/2, offsetY+canvasH/2-2)
	pdf.CellFormat(hLabelW, 4, heightLabel, "", 0, "C", false, 0, "")
	pdf.TransformEnd()

	pdf.SetTextColor(0, 0, 0)
}

// drawPlacementsLegend renders a compact legend of placements at the bottom
// of the sheet page.
func drawPlacementsLegend(pdf *fpdf.Fpdf, sol model.Solution, startY float64) {
	if len(sol.Placements) == 0 {
		return
	}

	pdf.SetFont("Helvetica", "B", 8)
	pdf.SetTextColor(0, 0, 0)
	pdf.SetXY(marginLeft, startY)
	pdf.CellFormat(30, 4, "Placements:", "", 0, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", 7)
	xPos := marginLeft + 32
	maxX := pageWidth - marginRight

	for i, p := range sol.Placements {
		col := placementColors[i%len(placementColors)]
		label := fmt.Sprintf("%s#%d (%.0fx%.0f)", p.ItemID, p.Instance, p.WidthMM, p.HeightMM)
		if p.Rotated {
			label += " R"
		}
		labelW := pdf.GetStringWidth(label) + 6

		if xPos+labelW > maxX {
			startY += 5
			xPos = marginLeft
		}

		pdf.SetFillColor(col.R, col.G, col.B)
		pdf.Rect(xPos, startY+0.5, 3, 3, "F")

		pdf.SetXY(xPos+4, startY)
		pdf.CellFormat(labelW-4, 4, label, "", 0, "L", false, 0, "")

		xPos += labelW + 2
	}
}

// renderSummaryPage draws the final summary page with overall statistics.
func renderSummaryPage(pdf *fpdf.Fpdf, solutions []model.Solution, summary model.Summary) {
	pdf.SetFont("Helvetica", "B", 16)
	pdf.SetXY(marginLeft, marginTop)
	pdf.CellFormat(pageWidth-marginLeft-marginRight, 10, "Cut Optimization Summary", "", 0, "L", false, 0, "")

	pdf.SetDrawColor(0, 0, 0)
	pdf.SetLineWidth(0.5)
	pdf.Line(marginLeft, marginTop+12, pageWidth-marginRight, marginTop+12)

	y := marginTop + 18

	pdf.SetFont("Helvetica", "B", 12)
	pdf.SetXY(marginLeft, y)
	pdf.CellFormat(100, 7, "Overall Statistics", "", 0, "L", false, 0, "")
	y += 9

	summaryItems := []struct {
		label string
		value string
	}{
		{"Mode", string(summary.Mode)},
		{"Objective", string(summary.Objective)},
		{"Sheets Used", fmt.Sprintf("%d", summary.UsedStockCount)},
		{"Waste Area", fmt.Sprintf("%.0f mm²", summary.TotalWasteAreaMM2)},
		{"Waste Percent", fmt.Sprintf("%.1f%%", summary.WastePercent)},
		{"Restarts Used", fmt.Sprintf("%d", summary.RestartsUsed)},
		{"Seed", fmt.Sprintf("%d", summary.Seed)},
	}

	pdf.SetFont("Helvetica", "", 10)
	for _, item := range summaryItems {
		pdf.SetXY(marginLeft+5, y)
		pdf.CellFormat(60, 6, item.label+":", "", 0, "L", false, 0, "")
		pdf.SetFont("Helvetica", "B", 10)
		pdf.CellFormat(60, 6, item.value, "", 0, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 10)
		y += 7
	}

	y += 5

	pdf.SetFont("Helvetica", "B", 12)
	pdf.SetXY(marginLeft, y)
	pdf.CellFormat(100, 7, "Sheet Breakdown", "", 0, "L", false, 0, "")
	y += 9

	colWidths := []float64{20, 60, 50, 35, 50}
	headers := []string{"Sheet", "Stock", "Dimensions", "Placements", "Efficiency"}

	pdf.SetFont("Helvetica", "B", 9)
	pdf.SetFillColor(230, 230, 230)
	xPos := marginLeft
	for i, header := range headers {
		pdf.SetXY(xPos, y)
		pdf.CellFormat(colWidths[i], 6, header, "1", 0, "C", true, 0, "")
		xPos += colWidths[i]
	}
	y += 6

	pdf.SetFont("Helvetica", "", 9)
	for i, sol := range solutions {
		xPos = marginLeft
		rowData := []string{
			fmt.Sprintf("%d", i+1),
			fmt.Sprintf("%s #%d", sol.StockID, sol.Index),
			fmt.Sprintf("%.0f x %.0f mm", sol.WidthMM, sol.HeightMM),
			fmt.Sprintf("%d", len(sol.Placements)),
			fmt.Sprintf("%.1f%%", sheetEfficiency(sol)),
		}

		if i%2 == 0 {
			pdf.SetFillColor(245, 245, 245)
		} else {
			pdf.SetFillColor(255, 255, 255)
		}

		for j, cell := range rowData {
			pdf.SetXY(xPos, y)
			pdf.CellFormat(colWidths[j], 6, cell, "1", 0, "C", true, 0, "")
			xPos += colWidths[j]
		}
		y += 6
	}

	pdf.SetFont("Helvetica", "I", 8)
	pdf.SetTextColor(120, 120, 120)
	pdf.SetXY(marginLeft, pageHeight-marginBottom)
	pdf.CellFormat(pageWidth-marginLeft-marginRight, 4, "Generated by rectopt - stock-cutting optimizer", "", 0, "C", false, 0, "")
}

// labelFontSize returns an appropriate font size based on the rectangle dimensions.
func labelFontSize(w, h float64) float64 {
	minDim := math.Min(w, h)
	switch {
	case minDim > 40:
		return 8
	case minDim > 20:
		return 7
	default:
		return 6
	}
}

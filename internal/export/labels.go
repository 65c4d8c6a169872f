package export

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"

	"github.com/go-pdf/fpdf"
	"github.com/piwi3910/rectopt/internal/model"
	qrcode "github.com/skip2/go-qrcode"
)

// LabelInfo holds the data encoded into each placement's QR code.
type LabelInfo struct {
	ItemID     string  `json:"item_id"`
	Instance   int     `json:"instance"`
	SheetIndex int     `json:"sheet_index"`
	StockID    string  `json:"stock_id"`
	WidthMM    float64 `json:"width_mm"`
	HeightMM   float64 `json:"height_mm"`
	Rotated    bool    `json:"rotated"`
	XMM        float64 `json:"x_mm"`
	YMM        float64 `json:"y_mm"`
}

// Label layout constants for Avery 5160-compatible labels (3 columns, 10 rows per page).
const (
	labelMarginTop  = 12.7 // mm
	labelMarginLeft = 4.8  // mm
	labelWidth      = 66.7 // mm per label
	labelHeight     = 25.4 // mm per label
	labelCols       = 3
	labelRows       = 10
	labelsPerPage   = labelCols * labelRows
	qrSize          = 20.0 // QR code size in mm
	labelPadding    = 2.0  // mm internal padding
)

// CollectLabelInfos flattens every placement across every solution sheet
// into one QR-payload-ready list, in solution/placement order.
func CollectLabelInfos(solutions []model.Solution) []LabelInfo {
	var labels []LabelInfo
	for sheetIdx, sol := range solutions {
		for _, p := range sol.Placements {
			labels = append(labels, LabelInfo{
				ItemID:     p.ItemID,
				Instance:   p.Instance,
				SheetIndex: sheetIdx + 1,
				StockID:    sol.StockID,
				WidthMM:    p.WidthMM,
				HeightMM:   p.HeightMM,
				Rotated:    p.Rotated,
				XMM:        p.XMM,
				YMM:        p.YMM,
			})
		}
	}
	return labels
}

// ExportLabels renders one QR-coded label per placement, laid out on a
// standard label sheet (Avery 5160 / 3 columns x 10 rows on US Letter), and
// writes the finished PDF to w.
func ExportLabels(w io.Writer, solutions []model.Solution) error {
	labels := CollectLabelInfos(solutions)
	if len(labels) == 0 {
		return fmt.Errorf("export: no placements to generate labels for")
	}

	pdf := fpdf.New("P", "mm", "Letter", "")
	pdf.SetAutoPageBreak(false, 0)

	for i, label := range labels {
		if i%labelsPerPage == 0 {
			pdf.AddPage()
		}

		posOnPage := i % labelsPerPage
		col := posOnPage % labelCols
		row := posOnPage / labelCols

		x := labelMarginLeft + float64(col)*labelWidth
		y := labelMarginTop + float64(row)*labelHeight

		if err := renderLabel(pdf, x, y, label); err != nil {
			return fmt.Errorf("render label for %s#%d: %w", label.ItemID, label.Instance, err)
		}
	}

	return pdf.Output(w)
}

// renderLabel draws a single label at the given position.
func renderLabel(pdf *fpdf.Fpdf, x, y float64, info LabelInfo) error {
	pdf.SetDrawColor(200, 200, 200)
	pdf.SetLineWidth(0.1)
	pdf.Rect(x, y, labelWidth, labelHeight, "D")

	qrData, err := json.Marshal(info)
	if err != nil {
		return fmt.Errorf("marshal label info: %w", err)
	}

	qrPNG, err := qrcode.Encode(string(qrData), qrcode.Medium, 256)
	if err != nil {
		return fmt.Errorf("generate QR code: %w", err)
	}

	imgName := fmt.Sprintf("qr_%s_%d_%d", info.ItemID, info.Instance, info.SheetIndex)
	pdf.RegisterImageOptionsReader(imgName, fpdf.ImageOptions{ImageType: "PNG"}, bytes.NewReader(qrPNG))

	qrX := x + labelWidth - qrSize - labelPadding
	qrY := y + (labelHeight-qrSize)/2
	pdf.ImageOptions(imgName, qrX, qrY, qrSize, qrSize, false, fpdf.ImageOptions{ImageType: "PNG"}, 0, "")

	textX := x + labelPadding
	textW := labelWidth - qrSize - 3*labelPadding

	pdf.SetFont("Helvetica", "B", 9)
	pdf.SetTextColor(0, 0, 0)
	pdf.SetXY(textX, y+labelPadding)

	itemLabel := fmt.Sprintf("%s #%d", info.ItemID, info.Instance)
	if pdf.GetStringWidth(itemLabel) > textW {
		for len(itemLabel) > 0 && pdf.GetStringWidth(itemLabel+"...") > textW {
			itemLabel = itemLabel[:len(itemLabel)-1]
		}
		itemLabel += "..."
	}
	pdf.CellFormat(textW, 4.5, itemLabel, "", 1, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", 7)
	pdf.SetXY(textX, y+labelPadding+5)
	dims := fmt.Sprintf("%.0f x %.0f mm", info.WidthMM, info.HeightMM)
	pdf.CellFormat(textW, 3.5, dims, "", 1, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", 6)
	pdf.SetTextColor(100, 100, 100)
	pdf.SetXY(textX, y+labelPadding+9)
	sheetInfo := fmt.Sprintf("%s sheet %d @ (%.0f, %.0f)", info.StockID, info.SheetIndex, info.XMM, info.YMM)
	pdf.CellFormat(textW, 3, sheetInfo, "", 1, "L", false, 0, "")

	if info.Rotated {
		pdf.SetXY(textX, y+labelPadding+12.5)
		pdf.SetFont("Helvetica", "I", 6)
		pdf.SetTextColor(150, 100, 0)
		pdf.CellFormat(textW, 3, "Rotated 90\xb0", "", 0, "L", false, 0, "")
	}

	pdf.SetTextColor(0, 0, 0)

	return nil
}

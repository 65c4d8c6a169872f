package engine

import "github.com/piwi3910/rectopt/internal/model"

// binMeta describes one physical sheet slot after trim removal: the
// packer's placement area, plus enough metadata to translate packed
// integer coordinates back to full-sheet millimeters.
type binMeta struct {
	stockID  string
	index    int
	widthMM  float64
	heightMM float64
	trimLeft float64
	trimTop  float64

	usableWInt int
	usableHInt int
	usableWMM  float64
	usableHMM  float64
}

// buildBins expands stock entries by quantity into an ordered list of
// usable integer-sized bins, in stock-array order then 0..qty-1.
func buildBins(req model.OptimizeRequest, scale int) []binMeta {
	trim := req.Params.TrimMM
	bins := make([]binMeta, 0, len(req.Stock))

	for _, stock := range req.Stock {
		usableWMM := stock.WidthMM - trim.Left - trim.Right
		usableHMM := stock.HeightMM - trim.Top - trim.Bottom
		usableWInt := toInt(usableWMM, scale)
		usableHInt := toInt(usableHMM, scale)

		for i := 0; i < stock.Qty; i++ {
			bins = append(bins, binMeta{
				stockID:    stock.ID,
				index:      i,
				widthMM:    stock.WidthMM,
				heightMM:   stock.HeightMM,
				trimLeft:   trim.Left,
				trimTop:    trim.Top,
				usableWInt: usableWInt,
				usableHInt: usableHInt,
				usableWMM:  usableWMM,
				usableHMM:  usableHMM,
			})
		}
	}

	return bins
}

package engine

import "github.com/piwi3910/rectopt/internal/model"

// evaluation is the per-candidate result of translating packed rectangles
// back into millimeter placements and computing the objective-relevant
// aggregates.
type evaluation struct {
	usedStockCount int
	wasteAreaMM2   float64
	wastePercent   float64
	placedCount    int
	placements     map[int][]model.Placement // keyed by bin index, in packer output order
	binOrder       []int                      // used bin indices, in insertion order of first placement
}

// evaluate groups packed rectangles by bin, converts them to full-sheet
// millimeter placements, and derives waste over the usable (post-trim)
// sheet area of bins that received at least one placement. binOrder
// records each used bin's index in the order it first received a
// placement, so callers can reproduce that order without ranging a map.
func evaluate(bins []binMeta, rects []packedRect, metaByID map[int]rectMeta, scale int) evaluation {
	placementsByBin := make(map[int][]model.Placement)
	var binOrder []int

	for _, rect := range rects {
		meta, ok := metaByID[rect.rectID]
		if !ok {
			continue
		}
		b := bins[rect.binIndex]
		placement := model.Placement{
			ItemID:           meta.itemID,
			Instance:         meta.instance,
			XMM:              toMM(rect.xInt, scale) + b.trimLeft,
			YMM:              toMM(rect.yInt, scale) + b.trimTop,
			WidthMM:          meta.placedWMM,
			HeightMM:         meta.placedHMM,
			Rotated:          meta.rotated,
			PatternDirection: meta.patternDirection,
		}
		if _, seen := placementsByBin[rect.binIndex]; !seen {
			binOrder = append(binOrder, rect.binIndex)
		}
		placementsByBin[rect.binIndex] = append(placementsByBin[rect.binIndex], placement)
	}

	usedBinsArea := 0.0
	itemArea := 0.0
	placedCount := 0
	for binIdx, plist := range placementsByBin {
		usedBinsArea += bins[binIdx].usableWMM * bins[binIdx].usableHMM
		for _, p := range plist {
			itemArea += p.WidthMM * p.HeightMM
		}
		placedCount += len(plist)
	}

	wasteArea := usedBinsArea - itemArea
	if wasteArea < 0 {
		wasteArea = 0
	}
	wastePercent := 0.0
	if usedBinsArea > 0 {
		wastePercent = wasteArea / usedBinsArea * 100.0
	}

	return evaluation{
		usedStockCount: len(placementsByBin),
		wasteAreaMM2:   wasteArea,
		wastePercent:   wastePercent,
		placedCount:    placedCount,
		placements:     placementsByBin,
		binOrder:       binOrder,
	}
}

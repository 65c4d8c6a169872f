package engine

import (
	"sort"

	"github.com/piwi3910/rectopt/internal/model"
)

// rectMeta is the per-instance geometric record the search loop hands to
// the packer adapter and later reads back when evaluating a candidate.
type rectMeta struct {
	rectID           int
	itemID           string
	instance         int
	placedWMM        float64
	placedHMM        float64
	rotated          bool
	patternDirection model.PatternDirection
	widthEffInt      int
	heightEffInt     int
}

// buildInstances materializes every item into qty instances, assigns each
// an effective integer size and a unique rect ID, then shuffles and
// stable-sorts the result for the given restart seed.
func buildInstances(req model.OptimizeRequest, eng model.Engine, scale int, seed uint64) ([]rectMeta, error) {
	rng := newRestartRNG(seed)
	spacing := req.Params.SpacingMM

	instances := make([]rectMeta, 0, req.Params.Restarts)
	rectID := 0

	for _, item := range req.Items {
		orientations, err := allowedOrientations(item.WidthMM, item.HeightMM, item.Rotation, item.PatternDirection)
		if err != nil {
			return nil, err
		}

		for idx := 1; idx <= item.Qty; idx++ {
			var chosen orientation
			if len(orientations) == 1 {
				chosen = orientations[0]
			} else {
				chosen = orientations[rng.intn(len(orientations))]
			}

			wEffInt := toInt(chosen.widthMM+spacing, scale)
			hEffInt := toInt(chosen.heightMM+spacing, scale)

			rectID++
			instances = append(instances, rectMeta{
				rectID:           rectID,
				itemID:           item.ID,
				instance:         idx,
				placedWMM:        chosen.widthMM,
				placedHMM:        chosen.heightMM,
				rotated:          chosen.rotated,
				patternDirection: item.PatternDirection,
				widthEffInt:      wEffInt,
				heightEffInt:     hEffInt,
			})
		}
	}

	shuffle(rng, instances)

	switch eng.Sort {
	case model.SortMaxSideDesc:
		sort.SliceStable(instances, func(i, j int) bool {
			return maxInt(instances[i].widthEffInt, instances[i].heightEffInt) >
				maxInt(instances[j].widthEffInt, instances[j].heightEffInt)
		})
	case model.SortNone:
		// keep shuffled order
	default: // area_desc, and the zero value
		sort.SliceStable(instances, func(i, j int) bool {
			return instances[i].widthEffInt*instances[i].heightEffInt >
				instances[j].widthEffInt*instances[j].heightEffInt
		})
	}

	return instances, nil
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

// Package engine implements the 2D stock-cutting packing core: the
// deterministic, integer-quantized geometric model, the multi-restart
// heuristic search, the guillotine-separability post-check, and the
// objective-driven incumbent selection under a wall-clock time budget.
//
// The package is a pure, synchronous library. It does not read the
// environment, does not spawn goroutines, and does not render artifacts —
// callers (the HTTP layer) own concurrency, configuration, and rendering.
package engine

import (
	"time"

	"github.com/piwi3910/rectopt/internal/apierr"
	"github.com/piwi3910/rectopt/internal/model"
)

// incumbent is the best candidate found so far in a search.
type incumbent struct {
	eval evaluation
	bins []binMeta
}

// Optimize runs the full C4-C10 pipeline against an already-validated
// request and returns the best solution found within the configured time
// budget, or a typed *apierr.Error (VALIDATION, CONSTRAINT, TIMEOUT) on
// failure.
func Optimize(req model.OptimizeRequest, maxInstances int, defaultUnitScale int) (model.OptimizeResponse, error) {
	scale := req.Params.UnitScale
	if scale == 0 {
		scale = defaultUnitScale
	}

	mode, eng, err := resolveModeEngine(req)
	if err != nil {
		return model.OptimizeResponse{}, err
	}

	if err := preflightValidate(req, scale, maxInstances); err != nil {
		return model.OptimizeResponse{}, err
	}

	bins := buildBins(req, scale)

	if err := validateFit(req, bins, scale); err != nil {
		return model.OptimizeResponse{}, err
	}

	start := time.Now()

	timeLimitMS := req.Params.TimeLimitMS
	restarts := req.Params.Restarts
	sliceMS := timeLimitMS / restarts

	restartsUsed := restarts
	if sliceMS < 30 {
		restartsUsed = timeLimitMS / 30
		if restartsUsed < 1 {
			restartsUsed = 1
		}
		if restartsUsed > restarts {
			restartsUsed = restarts
		}
	}

	var baseSeed int64
	if req.Params.Seed != nil {
		baseSeed = *req.Params.Seed
	} else {
		baseSeed = time.Now().UnixMilli()
	}

	var best *incumbent

	for i := 0; i < restartsUsed; i++ {
		elapsedMS := int(time.Since(start).Milliseconds())
		if elapsedMS > timeLimitMS {
			return model.OptimizeResponse{}, apierr.Timeout("")
		}

		seedI := seedForRestart(uint64(baseSeed), i)

		instances, err := buildInstances(req, eng, scale, seedI)
		if err != nil {
			return model.OptimizeResponse{}, err
		}

		rects := pack(bins, instances, eng)
		if len(rects) < len(instances) {
			continue
		}

		metaByID := make(map[int]rectMeta, len(instances))
		for _, inst := range instances {
			metaByID[inst.rectID] = inst
		}

		eval := evaluate(bins, rects, metaByID, scale)
		if eval.placedCount < len(instances) {
			continue
		}

		if mode == model.ModeGuillotine {
			if !allBinsGuillotine(bins, rects, eval.placements) {
				continue
			}
		}

		if best == nil || better(req.Params.Objective, eval, best.eval) {
			best = &incumbent{eval: eval, bins: bins}
		}
	}

	if best == nil {
		return model.OptimizeResponse{}, apierr.Constraint("Unable to place all items with provided stock")
	}

	solutions := buildSolutions(req, best.bins, best.eval.placements, best.eval.binOrder)
	timeMS := time.Since(start).Milliseconds()

	return model.OptimizeResponse{
		Status: "ok",
		Summary: model.Summary{
			Mode:              mode,
			Objective:         req.Params.Objective,
			UsedStockCount:    best.eval.usedStockCount,
			TotalWasteAreaMM2: best.eval.wasteAreaMM2,
			WastePercent:      best.eval.wastePercent,
			TimeMS:            timeMS,
			RestartsUsed:      restartsUsed,
			Seed:              baseSeed,
			Engine: model.EngineSummary{
				Packer:    eng.Packer,
				BinSelect: eng.BinSelect,
				Sort:      eng.Sort,
			},
		},
		Solutions: solutions,
		Artifacts: model.Artifacts{},
	}, nil
}

// better reports whether candidate beats incumbent under objective, using
// the lexicographic tuple comparisons from spec §4.10.
func better(objective model.Objective, candidate, incumbentEval evaluation) bool {
	if objective == model.ObjectiveMinSheets {
		if candidate.usedStockCount != incumbentEval.usedStockCount {
			return candidate.usedStockCount < incumbentEval.usedStockCount
		}
		return candidate.wasteAreaMM2 < incumbentEval.wasteAreaMM2
	}
	// min_waste
	if candidate.wasteAreaMM2 != incumbentEval.wasteAreaMM2 {
		return candidate.wasteAreaMM2 < incumbentEval.wasteAreaMM2
	}
	return candidate.usedStockCount < incumbentEval.usedStockCount
}

// allBinsGuillotine applies the C8 separability predicate to every used
// bin's packed rectangle set.
func allBinsGuillotine(bins []binMeta, rects []packedRect, placementsByBin map[int][]model.Placement) bool {
	rectsByBin := make(map[int][]guillotineRect)
	for _, r := range rects {
		rectsByBin[r.binIndex] = append(rectsByBin[r.binIndex], guillotineRect{x: r.xInt, y: r.yInt, w: r.wInt, h: r.hInt})
	}
	for binIdx := range placementsByBin {
		b := bins[binIdx]
		if !isGuillotine(rectsByBin[binIdx], 0, 0, b.usableWInt, b.usableHInt) {
			return false
		}
	}
	return true
}

// buildSolutions converts the incumbent's per-bin placement lists into the
// response's Solution list, one per used bin, in binOrder — the order each
// bin first received a placement — rather than map iteration order, so
// identical seeded requests produce byte-identical responses.
func buildSolutions(req model.OptimizeRequest, bins []binMeta, placementsByBin map[int][]model.Placement, binOrder []int) []model.Solution {
	solutions := make([]model.Solution, 0, len(binOrder))
	for _, binIdx := range binOrder {
		b := bins[binIdx]
		solutions = append(solutions, model.Solution{
			StockID:    b.stockID,
			Index:      b.index,
			WidthMM:    b.widthMM,
			HeightMM:   b.heightMM,
			TrimMM:     req.Params.TrimMM,
			Placements: placementsByBin[binIdx],
		})
	}
	return solutions
}

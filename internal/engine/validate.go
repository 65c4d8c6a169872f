package engine

import (
	"github.com/piwi3910/rectopt/internal/apierr"
	"github.com/piwi3910/rectopt/internal/model"
)

// resolveModeEngine fills in the caller's partial engine configuration with
// the mode-dependent defaults and enforces the mode/packer invariant.
func resolveModeEngine(req model.OptimizeRequest) (model.Mode, model.Engine, error) {
	mode := req.Params.Mode
	if mode == "" {
		mode = model.ModeGuillotine
	}

	defaultPacker := model.PackerGuillotine
	if mode != model.ModeGuillotine {
		defaultPacker = model.PackerMaxRects
	}

	eng := model.Engine{
		Packer:    defaultPacker,
		BinSelect: model.BinSelectBestFit,
		Sort:      model.SortAreaDesc,
	}
	if cfg := req.Params.Engine; cfg != nil {
		if cfg.Packer != "" {
			eng.Packer = cfg.Packer
		}
		if cfg.BinSelect != "" {
			eng.BinSelect = cfg.BinSelect
		}
		if cfg.Sort != "" {
			eng.Sort = cfg.Sort
		}
	}

	if mode == model.ModeGuillotine && eng.Packer != model.PackerGuillotine {
		return mode, eng, apierr.Validation("engine.packer must be 'guillotine' for mode='guillotine'", nil)
	}
	if mode != model.ModeGuillotine && eng.Packer == model.PackerGuillotine {
		return mode, eng, apierr.Validation("engine.packer must not be 'guillotine' for mode='nested'", nil)
	}

	return mode, eng, nil
}

// preflightValidate checks the static preconditions that do not require
// the bin list: unit tag, instance-count ceiling, stock-count ceiling,
// per-sheet trim fit, and a positive quantization scale.
func preflightValidate(req model.OptimizeRequest, scale, maxInstances int) error {
	if req.Units != "mm" {
		return apierr.Validation("units must be 'mm'", nil)
	}

	totalQty := 0
	for _, item := range req.Items {
		totalQty += item.Qty
	}
	limit := maxInstances
	if limit > 5000 {
		limit = 5000
	}
	if totalQty > limit {
		return apierr.Validation("items.qty total exceeds limit", nil)
	}

	if len(req.Stock) > 50 {
		return apierr.Validation("stock length exceeds limit", nil)
	}

	trim := req.Params.TrimMM
	for _, stock := range req.Stock {
		if trim.Left+trim.Right >= stock.WidthMM {
			return apierr.Validation("trim.left + trim.right must be less than stock.width_mm", nil)
		}
		if trim.Top+trim.Bottom >= stock.HeightMM {
			return apierr.Validation("trim.top + trim.bottom must be less than stock.height_mm", nil)
		}
	}

	if scale <= 0 {
		return apierr.Validation("unit_scale must be positive", nil)
	}

	return nil
}

// validateFit checks, after bins are known, that every item has at least
// one orientation whose effective integer size fits at least one bin.
func validateFit(req model.OptimizeRequest, bins []binMeta, scale int) error {
	spacing := req.Params.SpacingMM

	for _, item := range req.Items {
		orientations, err := allowedOrientations(item.WidthMM, item.HeightMM, item.Rotation, item.PatternDirection)
		if err != nil {
			return err
		}

		canFit := false
		for _, o := range orientations {
			wEffInt := toInt(o.widthMM+spacing, scale)
			hEffInt := toInt(o.heightMM+spacing, scale)
			for _, b := range bins {
				if wEffInt <= b.usableWInt && hEffInt <= b.usableHInt {
					canFit = true
					break
				}
			}
			if canFit {
				break
			}
		}
		if !canFit {
			return apierr.Validationf("item %s cannot fit into any stock", item.ID)
		}
	}

	return nil
}

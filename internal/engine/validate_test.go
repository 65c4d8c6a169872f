package engine

import (
	"testing"

	"github.com/piwi3910/rectopt/internal/apierr"
	"github.com/piwi3910/rectopt/internal/model"
)

func TestPreflightValidateRejectsOversizedTrim(t *testing.T) {
	req := model.OptimizeRequest{
		Units: "mm",
		Params: model.Params{
			TrimMM:      model.Trim{Left: 60, Right: 60},
			TimeLimitMS: 100,
			Restarts:    1,
			Objective:   model.ObjectiveMinWaste,
		},
		Stock: []model.Stock{{ID: "S", WidthMM: 100, HeightMM: 100, Qty: 1}},
		Items: []model.Item{{ID: "A", WidthMM: 10, HeightMM: 10, Qty: 1, Rotation: model.RotationForbid, PatternDirection: model.PatternNone}},
	}

	err := preflightValidate(req, 100, 5000)
	if err == nil {
		t.Fatal("expected validation error for trim exceeding sheet width")
	}
	if apierr.AsAPIError(err).ErrorCode != apierr.CodeValidation {
		t.Fatalf("expected VALIDATION_ERROR, got %v", err)
	}
}

func TestPreflightValidateRejectsExcessInstanceCount(t *testing.T) {
	req := model.OptimizeRequest{
		Units: "mm",
		Params: model.Params{
			TimeLimitMS: 100,
			Restarts:    1,
			Objective:   model.ObjectiveMinWaste,
		},
		Stock: []model.Stock{{ID: "S", WidthMM: 100, HeightMM: 100, Qty: 1}},
		Items: []model.Item{{ID: "A", WidthMM: 10, HeightMM: 10, Qty: 10, Rotation: model.RotationForbid, PatternDirection: model.PatternNone}},
	}

	if err := preflightValidate(req, 100, 5); err == nil {
		t.Fatal("expected validation error when total qty exceeds the configured max instances")
	}
}

func TestValidateFitRejectsItemLargerThanEverySheet(t *testing.T) {
	req := model.OptimizeRequest{
		Units: "mm",
		Items: []model.Item{{ID: "A", WidthMM: 500, HeightMM: 500, Qty: 1, Rotation: model.RotationForbid, PatternDirection: model.PatternNone}},
	}
	bins := []binMeta{{usableWInt: 100 * 100, usableHInt: 100 * 100}}

	if err := validateFit(req, bins, 100); err == nil {
		t.Fatal("expected validation error for an item too large for any bin")
	}
}

func TestResolveModeEngineRejectsMismatchedPacker(t *testing.T) {
	req := model.OptimizeRequest{
		Params: model.Params{
			Mode:   model.ModeGuillotine,
			Engine: &model.EngineConfig{Packer: model.PackerMaxRects},
		},
	}
	if _, _, err := resolveModeEngine(req); err == nil {
		t.Fatal("expected validation error: guillotine mode requires the guillotine packer")
	}
}

package engine

import (
	"github.com/piwi3910/rectopt/internal/apierr"
	"github.com/piwi3910/rectopt/internal/model"
)

// orientation is one allowed (width, height, rotated) placement of an item.
type orientation struct {
	widthMM  float64
	heightMM float64
	rotated  bool
}

// allowedOrientations enumerates the non-empty ordered list of orientations
// an item may be placed in, given its rotation and pattern constraints. The
// convention is that the longer side is the pattern axis.
func allowedOrientations(widthMM, heightMM float64, rotation model.Rotation, pattern model.PatternDirection) ([]orientation, error) {
	if widthMM == heightMM {
		return []orientation{{widthMM, heightMM, false}}, nil
	}

	base := []orientation{{widthMM, heightMM, false}}
	if rotation == model.RotationAllow90 {
		base = append(base, orientation{heightMM, widthMM, true})
	}

	switch pattern {
	case model.PatternNone, "":
		return base, nil

	case model.PatternAlongWidth:
		if widthMM >= heightMM {
			return []orientation{{widthMM, heightMM, false}}, nil
		}
		if rotation != model.RotationAllow90 {
			return nil, apierr.Validation("pattern_direction requires rotation but rotation is forbidden", nil)
		}
		return []orientation{{heightMM, widthMM, true}}, nil

	case model.PatternAlongHeight:
		if widthMM < heightMM {
			return []orientation{{widthMM, heightMM, false}}, nil
		}
		if rotation != model.RotationAllow90 {
			return nil, apierr.Validation("pattern_direction requires rotation but rotation is forbidden", nil)
		}
		return []orientation{{heightMM, widthMM, true}}, nil
	}

	return base, nil
}

package engine

import "math"

// toInt converts a millimeter value to the integer unit space at the given
// scale, rounding half away from zero so the conversion is symmetric for
// negative inputs even though this domain never produces them.
func toInt(valueMM float64, scale int) int {
	scaled := valueMM * float64(scale)
	if scaled >= 0 {
		return int(math.Floor(scaled + 0.5))
	}
	return -int(math.Floor(-scaled + 0.5))
}

// toMM converts an integer unit-space value back to millimeters.
func toMM(valueInt int, scale int) float64 {
	return float64(valueInt) / float64(scale)
}

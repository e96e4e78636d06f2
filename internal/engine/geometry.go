package engine

import "math"

// RotateVector rotates the delta (dx, dy) by degrees, clockwise-positive on a
// y-down screen.
func RotateVector(dx, dy, degrees float64) (float64, float64) {
	rad := degrees * math.Pi / 180.0
	cos := math.Cos(rad)
	sin := math.Sin(rad)
	return dx*cos - dy*sin, dx*sin + dy*cos
}

// AngleOfPoint returns the angle in degrees from (cx, cy) to (px, py), offset
// so that a point straight above the center reads 0. The result is not
// normalized.
func AngleOfPoint(cx, cy, px, py float64) float64 {
	return math.Atan2(py-cy, px-cx)*180.0/math.Pi + 90
}

// NormalizeDegrees wraps d into [0, 360).
func NormalizeDegrees(d float64) float64 {
	d = math.Mod(d, 360)
	if d < 0 {
		d += 360
	}
	// -1e-15 + 360 rounds to 360
	if d >= 360 {
		d = 0
	}
	return d
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

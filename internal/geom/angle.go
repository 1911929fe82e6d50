package geom

import "math"

// NormalizeAngle maps any angle (radians) into the half-open range (-π, π].
// A raw difference of 359° therefore becomes -1°.
func NormalizeAngle(theta float64) float64 {
	a := math.Mod(theta+math.Pi, 2*math.Pi)
	if a <= 0 {
		a += 2 * math.Pi
	}
	return a - math.Pi
}

// AngleDiff returns |NormalizeAngle(a - b)|, the unsigned shortest rotation
// between two headings.
func AngleDiff(a, b float64) float64 {
	return math.Abs(NormalizeAngle(a - b))
}

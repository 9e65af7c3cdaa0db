package game

import "math"

var sinTable [65536]float64

func init() {
	for i := range sinTable {
		sinTable[i] = math.Sin(float64(i) * math.Pi * 2 / 65536)
	}
}

// MCSin returns the sine of the given angle in radians, looked up the same way the game does.
func MCSin(val float64) float64 {
	return sinTable[uint16(int64(val*10430.378))&65535]
}

// MCCos returns the cosine of the given angle in radians, looked up the same way the game does.
func MCCos(val float64) float64 {
	return sinTable[uint16(int64(val*10430.378+16384.0))&65535]
}

// ClampFloat clamps num between min and max.
func ClampFloat(num, min, max float64) float64 {
	if num < min {
		return min
	}
	return math.Min(num, max)
}

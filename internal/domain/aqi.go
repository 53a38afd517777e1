package domain

import "math"

// AQIFromPM25 converts a raw PM2.5 particulate reading to the stored air
// quality index by rounding half away from zero.
func AQIFromPM25(v float64) int {
	return int(math.Round(v))
}

package services

import "math"

// ToMinorUnits converts a major-unit amount (naira) to kobo.
func ToMinorUnits(amount float64) int64 {
	return int64(math.Round(amount * 100))
}

// ToMajorUnits converts kobo back to naira.
func ToMajorUnits(amount int64) float64 {
	return float64(amount) / 100
}

// Commission is the platform's 10% cut, rounded to the nearest unit.
func Commission(revenue int64) int64 {
	return int64(math.Round(float64(revenue) * 0.1))
}

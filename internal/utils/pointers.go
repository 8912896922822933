package utils

import "math"

func StringPtr(s string) *string {
	return &s
}

func RoundFloat64(f float64, places int) float64 {
	factor := math.Pow(10, float64(places))
	return math.Round(f*factor) / factor
}

package models

import "math"

// ToMinorUnits rounds a numeric amount to the nearest integer minor unit
// (cent). Wire amounts are expected to be integers already, but JSON
// numbers decode as float64, so any stray fractional cents are rounded
// half away from zero before persistence or arithmetic.
func ToMinorUnits(amount float64) int64 {
	return int64(math.Round(amount))
}

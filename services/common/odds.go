package common

import (
	"fmt"
	"math"
	"strconv"
)

// DecimalFactor converts American odds to a decimal payout multiplier.
// Positive odds: (odds/100) + 1. Negative odds: (100/|odds|) + 1.
// Odds of exactly 0 do not occur in American format.
func DecimalFactor(odds int) float64 {
	if odds > 0 {
		return (float64(odds) / 100.0) + 1.0
	}
	return (100.0 / float64(-odds)) + 1.0
}

// CalculatePayout returns stake times the product of each leg's decimal
// factor, rounded to two decimals. Parlays compound multiplicatively, so a
// single leg moves the whole ticket. Rounding happens here, once; callers
// must not re-round.
func CalculatePayout(oddsList []int, stake int) float64 {
	multiplier := 1.0
	for _, odds := range oddsList {
		multiplier *= DecimalFactor(odds)
	}
	return math.Round(float64(stake)*multiplier*100) / 100
}

// FormatOdds renders American odds with an explicit sign for display.
func FormatOdds(odds int) string {
	if odds > 0 {
		return fmt.Sprintf("+%d", odds)
	}
	return strconv.Itoa(odds)
}

package common

import (
	"math"
	"testing"
)

func TestDecimalFactor(t *testing.T) {
	cases := []struct {
		name string
		odds int
		want float64
	}{
		{"even money plus", 100, 2.0},
		{"even money minus", -100, 2.0},
		{"standard favorite", -110, 1.9090909090909092},
		{"standard underdog", 150, 2.5},
		{"heavy favorite", -500, 1.2},
		{"long shot", 1200, 13.0},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := DecimalFactor(tc.odds)
			if math.Abs(got-tc.want) > 1e-9 {
				t.Errorf("DecimalFactor(%d) = %v, want %v", tc.odds, got, tc.want)
			}
		})
	}
}

func TestCalculatePayout(t *testing.T) {
	cases := []struct {
		name  string
		odds  []int
		stake int
		want  float64
	}{
		{"single underdog", []int{150}, 10, 25.00},
		{"single favorite", []int{-110}, 100, 190.91},
		{"two leg parlay", []int{-110, 150}, 10, 47.73},
		{"three leg parlay", []int{-110, -110, 150}, 10, 91.12},
		{"even money pair", []int{100, -100}, 25, 100.00},
		{"empty leg list", nil, 10, 10.00},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := CalculatePayout(tc.odds, tc.stake)
			if got != tc.want {
				t.Errorf("CalculatePayout(%v, %d) = %v, want %v", tc.odds, tc.stake, got, tc.want)
			}
		})
	}
}

func TestFormatOdds(t *testing.T) {
	if got := FormatOdds(150); got != "+150" {
		t.Errorf("FormatOdds(150) = %q, want +150", got)
	}
	if got := FormatOdds(-110); got != "-110" {
		t.Errorf("FormatOdds(-110) = %q, want -110", got)
	}
}

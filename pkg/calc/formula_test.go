package calc

import (
	"math"
	"testing"
)

func TestAreaVolumeFormula(t *testing.T) {
	nan := math.NaN()

	testCases := []struct {
		params      AreaVolumeParams
		expected    string
		description string
	}{
		{AreaVolumeParams{}, "0", "No params"},
		{AreaVolumeParams{Width: Float64(10)}, "10 = 10", "Single dimension still shows the result"},
		{AreaVolumeParams{Width: Float64(10), Depth: Float64(5)}, "10 x 5 = 50", "Two dimensions"},
		{AreaVolumeParams{Width: Float64(2), Depth: Float64(3), Height: Float64(4)}, "2 x 3 x 4 = 24", "Three dimensions"},
		{AreaVolumeParams{Width: Float64(1.5), Depth: Float64(2)}, "1.5 x 2 = 3", "Decimals render without trailing zeros"},
		{AreaVolumeParams{Width: &nan, Depth: Float64(5)}, "5 = 5", "Invalid entries are left out"},
	}

	for _, tc := range testCases {
		t.Run(tc.description, func(t *testing.T) {
			if got := AreaVolumeFormula(tc.params); got != tc.expected {
				t.Errorf("AreaVolumeFormula(%+v): expected %q, got %q", tc.params, tc.expected, got)
			}
		})
	}
}

func TestPitchFormula(t *testing.T) {
	testCases := []struct {
		params      PitchParams
		expected    string
		description string
	}{
		{
			PitchParams{RangeLength: Float64(10), EndLength1: Float64(1), EndLength2: Float64(1), PitchLength: Float64(1)},
			"floor((10 - 1 - 1) / 1) + 1 = 9",
			"Plain count",
		},
		{
			PitchParams{RangeLength: Float64(10), EndLength1: Float64(1), EndLength2: Float64(1), PitchLength: Float64(1), Length: Float64(2), Weight: Float64(3)},
			"floor((10 - 1 - 1) / 1) + 1 = 9 x 2 x 3 = 54",
			"Multipliers append a running total",
		},
		{
			PitchParams{RangeLength: Float64(10), EndLength1: Float64(1), EndLength2: Float64(1), PitchLength: Float64(1), Weight: Float64(0.5)},
			"floor((10 - 1 - 1) / 1) + 1 = 9 x 0.5 = 4.5",
			"Weight alone",
		},
		{
			PitchParams{RangeLength: Float64(1), EndLength1: Float64(5), PitchLength: Float64(1)},
			"floor((1 - 5 - 0) / 1) + 1 = 1",
			"Clamped count renders as one",
		},
		{
			PitchParams{RangeLength: Float64(10), EndLength1: Float64(1), EndLength2: Float64(1), PitchLength: Float64(0)},
			"floor((10 - 1 - 1) / 0) + 1 = 1 = 0",
			"Zero pitch renders instead of failing",
		},
		{
			PitchParams{},
			"floor((0 - 0 - 0) / 0) + 1 = 1 = 0",
			"Empty params render all zeros",
		},
		{
			PitchParams{RangeLength: Float64(9.5), PitchLength: Float64(2)},
			"floor((9.5 - 0 - 0) / 2) + 1 = 5",
			"Decimal range",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.description, func(t *testing.T) {
			if got := PitchFormula(tc.params); got != tc.expected {
				t.Errorf("PitchFormula(%+v): expected %q, got %q", tc.params, tc.expected, got)
			}
		})
	}
}

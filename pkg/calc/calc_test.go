package calc

import (
	"errors"
	"math"
	"testing"
)

func almost(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestAreaVolume(t *testing.T) {
	nan := math.NaN()
	inf := math.Inf(1)

	testCases := []struct {
		params      AreaVolumeParams
		expected    float64
		description string
	}{
		{AreaVolumeParams{}, 0, "No params gives zero, not one"},
		{AreaVolumeParams{Width: Float64(10)}, 10, "Single dimension"},
		{AreaVolumeParams{Width: Float64(10), Depth: Float64(5)}, 50, "Two dimensions"},
		{AreaVolumeParams{Width: Float64(2), Depth: Float64(3), Height: Float64(4)}, 24, "Three dimensions"},
		{AreaVolumeParams{Width: Float64(2), Depth: Float64(3), Height: Float64(4), Weight: Float64(0.5)}, 12, "All four params"},
		{AreaVolumeParams{Width: Float64(0), Depth: Float64(5)}, 0, "Zero dimension is used, not skipped"},
		{AreaVolumeParams{Width: Float64(-2), Depth: Float64(3)}, -6, "Negative dimension multiplies through"},
		{AreaVolumeParams{Width: &nan, Depth: Float64(5)}, 5, "NaN entry is ignored"},
		{AreaVolumeParams{Width: &inf, Depth: Float64(5)}, 5, "Infinite entry is ignored"},
		{AreaVolumeParams{Width: &nan}, 0, "Only invalid entries gives zero"},
	}

	for _, tc := range testCases {
		t.Run(tc.description, func(t *testing.T) {
			got := AreaVolume(tc.params)
			if !almost(got, tc.expected) {
				t.Errorf("AreaVolume(%+v): expected %v, got %v", tc.params, tc.expected, got)
			}
		})
	}
}

func TestPitch(t *testing.T) {
	testCases := []struct {
		params      PitchParams
		expected    float64
		description string
	}{
		{
			PitchParams{RangeLength: Float64(10), EndLength1: Float64(1), EndLength2: Float64(1), PitchLength: Float64(1)},
			9,
			"Nine repeats over an eight-unit effective range",
		},
		{
			PitchParams{RangeLength: Float64(10), EndLength1: Float64(1), EndLength2: Float64(1), PitchLength: Float64(1), Length: Float64(2), Weight: Float64(3)},
			54,
			"Count multiplied by length and weight",
		},
		{
			PitchParams{RangeLength: Float64(10), PitchLength: Float64(3)},
			4,
			"Fractional repeat is floored",
		},
		{
			PitchParams{RangeLength: Float64(9.5), PitchLength: Float64(2)},
			5,
			"Non-integer effective range",
		},
		{
			PitchParams{RangeLength: Float64(1), EndLength1: Float64(5), PitchLength: Float64(1)},
			1,
			"Negative effective range clamps to one repeat",
		},
		{
			PitchParams{RangeLength: Float64(0), PitchLength: Float64(2)},
			1,
			"Zero effective range clamps to one repeat",
		},
		{
			PitchParams{RangeLength: Float64(1), EndLength1: Float64(5), PitchLength: Float64(1), Weight: Float64(2.5)},
			2.5,
			"Clamped count still takes multipliers",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.description, func(t *testing.T) {
			got, err := Pitch(tc.params)
			if err != nil {
				t.Fatalf("Pitch(%+v): unexpected error %v", tc.params, err)
			}
			if !almost(got, tc.expected) {
				t.Errorf("Pitch(%+v): expected %v, got %v", tc.params, tc.expected, got)
			}
		})
	}
}

func TestPitchRejectsBadPitchLength(t *testing.T) {
	testCases := []struct {
		params      PitchParams
		description string
	}{
		{PitchParams{RangeLength: Float64(10), PitchLength: Float64(0)}, "Zero pitch length"},
		{PitchParams{RangeLength: Float64(10), PitchLength: Float64(-1)}, "Negative pitch length"},
		{PitchParams{RangeLength: Float64(10)}, "Missing pitch length"},
	}

	for _, tc := range testCases {
		t.Run(tc.description, func(t *testing.T) {
			if _, err := Pitch(tc.params); !errors.Is(err, ErrPitchNotPositive) {
				t.Errorf("Pitch(%+v): expected ErrPitchNotPositive, got %v", tc.params, err)
			}
		})
	}
}

func TestApplyAdjustmentFactor(t *testing.T) {
	testCases := []struct {
		value, factor, expected float64
		description             string
	}{
		{50, 1.2, 60, "Scaling up"},
		{10, 1, 10, "Identity factor"},
		{10, 0, 0, "Zero factor passes through unguarded"},
		{10, -0.5, -5, "Negative factor passes through unguarded"},
	}

	for _, tc := range testCases {
		t.Run(tc.description, func(t *testing.T) {
			got := ApplyAdjustmentFactor(tc.value, tc.factor)
			if !almost(got, tc.expected) {
				t.Errorf("ApplyAdjustmentFactor(%v, %v): expected %v, got %v", tc.value, tc.factor, tc.expected, got)
			}
		})
	}
}

func TestApplyRounding(t *testing.T) {
	testCases := []struct {
		value, unit, expected float64
		description           string
	}{
		{10.001, 0.01, 10.01, "Rounds up to the next hundredth"},
		{20, 10, 20, "Exact multiple is unchanged"},
		{0.07, 0.01, 0.07, "Float noise does not push an exact multiple up"},
		{1.001, 1, 2, "Rounds up to the next integer"},
		{0, 0.01, 0, "Zero stays zero"},
		{-0.015, 0.01, -0.01, "Negative value ceils toward zero"},
		{3.14, 0.05, 3.15, "Five-hundredths granularity"},
	}

	for _, tc := range testCases {
		t.Run(tc.description, func(t *testing.T) {
			got, err := ApplyRounding(tc.value, tc.unit)
			if err != nil {
				t.Fatalf("ApplyRounding(%v, %v): unexpected error %v", tc.value, tc.unit, err)
			}
			if !almost(got, tc.expected) {
				t.Errorf("ApplyRounding(%v, %v): expected %v, got %v", tc.value, tc.unit, tc.expected, got)
			}
			// Result must be a unit multiple at least as large as the input.
			q := got / tc.unit
			if math.Abs(q-math.Round(q)) > 1e-6 {
				t.Errorf("ApplyRounding(%v, %v) = %v is not a multiple of the unit", tc.value, tc.unit, got)
			}
			if got < tc.value-1e-9 {
				t.Errorf("ApplyRounding(%v, %v) = %v is below the input", tc.value, tc.unit, got)
			}
		})
	}
}

func TestApplyRoundingRejectsBadUnit(t *testing.T) {
	for _, unit := range []float64{0, -0.01} {
		if _, err := ApplyRounding(10, unit); !errors.Is(err, ErrRoundingUnitNotPositive) {
			t.Errorf("ApplyRounding(10, %v): expected ErrRoundingUnitNotPositive, got %v", unit, err)
		}
	}
}

func TestCalculate(t *testing.T) {
	testCases := []struct {
		input       Input
		raw         float64
		adjusted    float64
		final       float64
		formula     string
		description string
	}{
		{
			Input{
				Method:           MethodAreaVolume,
				AreaVolume:       AreaVolumeParams{Width: Float64(10), Depth: Float64(5)},
				AdjustmentFactor: 1.2,
				RoundingUnit:     0.01,
			},
			50, 60, 60, "10 x 5 = 50",
			"Area times adjustment factor",
		},
		{
			Input{
				Method:           MethodStandard,
				Quantity:         Float64(3.5),
				AdjustmentFactor: 1,
				RoundingUnit:     0.01,
			},
			3.5, 3.5, 3.5, "3.5",
			"Standard passes the quantity through",
		},
		{
			Input{
				Method:           MethodStandard,
				AdjustmentFactor: 1,
				RoundingUnit:     0.01,
			},
			0, 0, 0, "0",
			"Standard with no quantity falls back to zero",
		},
		{
			Input{
				Method:           MethodPitch,
				Pitch:            PitchParams{RangeLength: Float64(10), EndLength1: Float64(1), EndLength2: Float64(1), PitchLength: Float64(1)},
				AdjustmentFactor: 1,
				RoundingUnit:     1,
			},
			9, 9, 9, "floor((10 - 1 - 1) / 1) + 1 = 9",
			"Pitch count end to end",
		},
		{
			Input{
				Method:           Method("SOMETHING_ELSE"),
				AdjustmentFactor: 1,
				RoundingUnit:     0.01,
			},
			0, 0, 0, "0",
			"Unknown method yields zero, not an error",
		},
		{
			Input{
				Method:           MethodStandard,
				Quantity:         Float64(7.004),
				AdjustmentFactor: 1,
				RoundingUnit:     0.01,
			},
			7.004, 7.004, 7.01, "7.004",
			"Final value is rounded up to the unit",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.description, func(t *testing.T) {
			got, err := Calculate(tc.input)
			if err != nil {
				t.Fatalf("Calculate: unexpected error %v", err)
			}
			if !almost(got.RawValue, tc.raw) {
				t.Errorf("RawValue: expected %v, got %v", tc.raw, got.RawValue)
			}
			if !almost(got.AdjustedValue, tc.adjusted) {
				t.Errorf("AdjustedValue: expected %v, got %v", tc.adjusted, got.AdjustedValue)
			}
			if !almost(got.FinalValue, tc.final) {
				t.Errorf("FinalValue: expected %v, got %v", tc.final, got.FinalValue)
			}
			if got.Formula != tc.formula {
				t.Errorf("Formula: expected %q, got %q", tc.formula, got.Formula)
			}
		})
	}
}

func TestCalculateErrors(t *testing.T) {
	if _, err := Calculate(Input{
		Method:           MethodPitch,
		Pitch:            PitchParams{RangeLength: Float64(10), PitchLength: Float64(0)},
		AdjustmentFactor: 1,
		RoundingUnit:     0.01,
	}); !errors.Is(err, ErrPitchNotPositive) {
		t.Errorf("expected ErrPitchNotPositive, got %v", err)
	}

	if _, err := Calculate(Input{
		Method:           MethodStandard,
		Quantity:         Float64(1),
		AdjustmentFactor: 1,
		RoundingUnit:     0,
	}); !errors.Is(err, ErrRoundingUnitNotPositive) {
		t.Errorf("expected ErrRoundingUnitNotPositive, got %v", err)
	}
}

func TestParseMethod(t *testing.T) {
	for _, s := range []string{"STANDARD", "AREA_VOLUME", "PITCH"} {
		m, err := ParseMethod(s)
		if err != nil {
			t.Fatalf("ParseMethod(%q): unexpected error %v", s, err)
		}
		if m.String() != s {
			t.Errorf("ParseMethod(%q): round trip gave %q", s, m)
		}
	}

	if _, err := ParseMethod("standard"); !errors.Is(err, ErrUnknownMethod) {
		t.Errorf("ParseMethod is case sensitive, expected ErrUnknownMethod, got %v", err)
	}
}

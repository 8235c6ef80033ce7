// Package calc implements the quantity arithmetic for takeoff line items:
// the three calculation methods, the adjustment-factor and rounding-unit
// pipeline, formula rendering and the semantic input checks that gate them.
//
// All functions are pure and safe for concurrent use. Optional numeric
// inputs are *float64 pointers; a nil pointer or a non-finite value means
// the operand is absent.
package calc

import (
	"errors"
	"math"
)

// Method selects which parameter shape and formula produce the raw quantity.
type Method string

const (
	// MethodStandard takes the quantity directly as entered.
	MethodStandard Method = "STANDARD"
	// MethodAreaVolume multiplies the entered dimensions together.
	MethodAreaVolume Method = "AREA_VOLUME"
	// MethodPitch counts repeats of a spacing pattern along a range.
	MethodPitch Method = "PITCH"
)

// Defaults applied by callers when a line item leaves them unset.
const (
	DefaultMethod           = MethodStandard
	DefaultAdjustmentFactor = 1.0
	DefaultRoundingUnit     = 0.01
)

var (
	ErrUnknownMethod           = errors.New("calc: unknown calculation method")
	ErrPitchNotPositive        = errors.New("calc: pitch length must be greater than 0")
	ErrRoundingUnitNotPositive = errors.New("calc: rounding unit must be greater than 0")
)

// ParseMethod maps the wire form of a method onto its enum value.
func ParseMethod(s string) (Method, error) {
	switch Method(s) {
	case MethodStandard, MethodAreaVolume, MethodPitch:
		return Method(s), nil
	}
	return "", ErrUnknownMethod
}

func (m Method) String() string { return string(m) }

// AreaVolumeParams holds the dimensions multiplied by MethodAreaVolume.
// Any subset may be set; absent or non-finite entries are ignored.
type AreaVolumeParams struct {
	Width  *float64 `json:"width,omitempty"`
	Depth  *float64 `json:"depth,omitempty"`
	Height *float64 `json:"height,omitempty"`
	Weight *float64 `json:"weight,omitempty"`
}

// PitchParams holds the measurements counted by MethodPitch. RangeLength,
// EndLength1, EndLength2 and PitchLength are required for a meaningful
// count; Length and Weight are optional multipliers on the count.
type PitchParams struct {
	RangeLength *float64 `json:"rangeLength,omitempty"`
	EndLength1  *float64 `json:"endLength1,omitempty"`
	EndLength2  *float64 `json:"endLength2,omitempty"`
	PitchLength *float64 `json:"pitchLength,omitempty"`
	Length      *float64 `json:"length,omitempty"`
	Weight      *float64 `json:"weight,omitempty"`
}

// Input is one full calculation request for a line item.
type Input struct {
	Method           Method           `json:"method"`
	AreaVolume       AreaVolumeParams `json:"areaVolumeParams,omitempty"`
	Pitch            PitchParams      `json:"pitchParams,omitempty"`
	Quantity         *float64         `json:"quantity,omitempty"`
	AdjustmentFactor float64          `json:"adjustmentFactor"`
	RoundingUnit     float64          `json:"roundingUnit"`
}

// Result carries the value at each stage of the pipeline together with a
// human-readable formula mirroring the arithmetic. AdjustedValue is always
// RawValue times the adjustment factor, and FinalValue is AdjustedValue
// ceiled to the rounding unit.
type Result struct {
	RawValue      float64 `json:"rawValue"`
	AdjustedValue float64 `json:"adjustedValue"`
	FinalValue    float64 `json:"finalValue"`
	Formula       string  `json:"formula"`
}

// Float64 returns a pointer to v, for building optional params in place.
func Float64(v float64) *float64 { return &v }

// IsFinite reports whether v is a usable number (not NaN, not ±Inf).
func IsFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

func present(p *float64) bool {
	return p != nil && IsFinite(*p)
}

// operand reads an optional pitch measurement, treating absent or
// non-finite values as 0.
func operand(p *float64) float64 {
	if present(p) {
		return *p
	}
	return 0
}

// AreaVolume multiplies together the params that are set and finite.
// With no qualifying param the result is 0, never 1.
func AreaVolume(p AreaVolumeParams) float64 {
	product := 1.0
	any := false
	for _, v := range []*float64{p.Width, p.Depth, p.Height, p.Weight} {
		if present(v) {
			product *= *v
			any = true
		}
	}
	if !any {
		return 0
	}
	return product
}

// Pitch computes how many repeats of the pitch spacing fit in the range
// after subtracting both end lengths, clamped so at least one repeat is
// always counted, then multiplied by the optional length and weight.
// Returns ErrPitchNotPositive when the pitch length is absent or not
// greater than 0; validate with CheckPitchParams first.
func Pitch(p PitchParams) (float64, error) {
	pitch := operand(p.PitchLength)
	if pitch <= 0 {
		return 0, ErrPitchNotPositive
	}
	effective := operand(p.RangeLength) - operand(p.EndLength1) - operand(p.EndLength2)
	count := math.Floor(effective/pitch) + 1
	if count < 1 {
		count = 1
	}
	result := count
	if present(p.Length) {
		result *= *p.Length
	}
	if present(p.Weight) {
		result *= *p.Weight
	}
	return result, nil
}

// ApplyAdjustmentFactor scales a raw quantity. Zero and negative factors
// pass through unguarded; range checks are the field validator's job.
func ApplyAdjustmentFactor(value, factor float64) float64 {
	return value * factor
}

// Values this close to a unit multiple (in quotient space) count as exact,
// so float noise does not push them up a whole unit.
const roundingEpsilon = 1e-9

// ApplyRounding returns the smallest multiple of unit that is >= value.
// Exact multiples come back unchanged. Returns ErrRoundingUnitNotPositive
// when unit <= 0.
func ApplyRounding(value, unit float64) (float64, error) {
	if unit <= 0 {
		return 0, ErrRoundingUnitNotPositive
	}
	result := math.Ceil(value/unit-roundingEpsilon) * unit
	if result == 0 {
		return 0, nil
	}
	return result, nil
}

// Calculate runs the full pipeline for one input: raw value per the
// method, adjustment, rounding, and the matching formula. An unknown
// method yields a zero raw value and the formula "0" rather than an error.
func Calculate(in Input) (Result, error) {
	var raw float64
	var formula string

	switch in.Method {
	case MethodStandard:
		if in.Quantity != nil {
			raw = *in.Quantity
		}
		formula = formatNumber(raw)
	case MethodAreaVolume:
		raw = AreaVolume(in.AreaVolume)
		formula = AreaVolumeFormula(in.AreaVolume)
	case MethodPitch:
		v, err := Pitch(in.Pitch)
		if err != nil {
			return Result{Formula: PitchFormula(in.Pitch)}, err
		}
		raw = v
		formula = PitchFormula(in.Pitch)
	default:
		raw = 0
		formula = "0"
	}

	adjusted := ApplyAdjustmentFactor(raw, in.AdjustmentFactor)
	final, err := ApplyRounding(adjusted, in.RoundingUnit)
	if err != nil {
		return Result{RawValue: raw, AdjustedValue: adjusted, Formula: formula}, err
	}

	return Result{
		RawValue:      raw,
		AdjustedValue: adjusted,
		FinalValue:    final,
		Formula:       formula,
	}, nil
}

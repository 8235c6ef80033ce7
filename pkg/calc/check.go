package calc

import (
	"strconv"
	"strings"
)

// Verdict is the outcome of a semantic input check. Errors block the value
// from being committed; warnings let it through after user confirmation.
type Verdict struct {
	Valid    bool     `json:"isValid"`
	Errors   []string `json:"errors"`
	Warnings []string `json:"warnings"`
}

func verdict(errs, warns []string) Verdict {
	return Verdict{Valid: len(errs) == 0, Errors: errs, Warnings: warns}
}

// User-facing messages for the calculation inputs. The checks report
// problems in the operator's language; callers render them verbatim.
const (
	msgQuantityRequired     = "数量を入力してください"
	msgQuantityNotNumeric   = "数量は数値で入力してください"
	msgQuantityNegative     = "数量がマイナスです。よろしいですか？"
	msgFactorRequired       = "調整係数を入力してください"
	msgFactorNotNumeric     = "調整係数は数値で入力してください"
	msgFactorNotPositive    = "調整係数が0以下です。よろしいですか？"
	msgUnitRequired         = "丸め単位を入力してください"
	msgUnitNotNumeric       = "丸め単位は数値で入力してください"
	msgUnitNotPositive      = "丸め単位は0より大きい値を入力してください"
	msgAreaVolumeAllMissing = "いずれかの値を入力してください"
	msgPitchNotPositive     = "ピッチ長は0より大きい値を入力してください"
)

// Labels for the pitch measurements, used to name missing fields.
var pitchFieldLabels = []struct {
	label string
	get   func(PitchParams) *float64
}{
	{"範囲長", func(p PitchParams) *float64 { return p.RangeLength }},
	{"端部長1", func(p PitchParams) *float64 { return p.EndLength1 }},
	{"端部長2", func(p PitchParams) *float64 { return p.EndLength2 }},
	{"ピッチ長", func(p PitchParams) *float64 { return p.PitchLength }},
}

// parseEntry converts raw field text into a number. The bool reports
// whether anything was entered at all.
func parseEntry(s string) (float64, bool, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, true, err
	}
	return v, true, nil
}

// CheckQuantity validates the directly entered quantity of a standard
// line item. Negative quantities are allowed but flagged for confirmation.
func CheckQuantity(s string) Verdict {
	v, entered, err := parseEntry(s)
	if !entered {
		return verdict([]string{msgQuantityRequired}, nil)
	}
	if err != nil || !IsFinite(v) {
		return verdict([]string{msgQuantityNotNumeric}, nil)
	}
	var warns []string
	if v < 0 {
		warns = append(warns, msgQuantityNegative)
	}
	return verdict(nil, warns)
}

// CheckAdjustmentFactor validates the multiplier applied to a raw
// quantity. Zero and negative factors are allowed but flagged.
func CheckAdjustmentFactor(s string) Verdict {
	v, entered, err := parseEntry(s)
	if !entered {
		return verdict([]string{msgFactorRequired}, nil)
	}
	if err != nil || !IsFinite(v) {
		return verdict([]string{msgFactorNotNumeric}, nil)
	}
	var warns []string
	if v <= 0 {
		warns = append(warns, msgFactorNotPositive)
	}
	return verdict(nil, warns)
}

// CheckRoundingUnit validates the rounding granularity. A non-positive
// unit is a hard error since ApplyRounding cannot work with it.
func CheckRoundingUnit(s string) Verdict {
	v, entered, err := parseEntry(s)
	if !entered {
		return verdict([]string{msgUnitRequired}, nil)
	}
	if err != nil || !IsFinite(v) {
		return verdict([]string{msgUnitNotNumeric}, nil)
	}
	if v <= 0 {
		return verdict([]string{msgUnitNotPositive}, nil)
	}
	return verdict(nil, nil)
}

// CheckAreaVolumeParams accepts any params with at least one usable
// dimension. A zero dimension counts as entered.
func CheckAreaVolumeParams(p AreaVolumeParams) Verdict {
	for _, v := range []*float64{p.Width, p.Depth, p.Height, p.Weight} {
		if present(v) {
			return verdict(nil, nil)
		}
	}
	return verdict([]string{msgAreaVolumeAllMissing}, nil)
}

// CheckPitchParams reports one error per missing required measurement, so
// the UI can mark every offending cell at once, plus an error when the
// pitch length is entered but not positive. The optional length and
// weight multipliers are never reported.
func CheckPitchParams(p PitchParams) Verdict {
	var errs []string
	for _, f := range pitchFieldLabels {
		if !present(f.get(p)) {
			errs = append(errs, f.label+"を入力してください")
		}
	}
	if present(p.PitchLength) && *p.PitchLength <= 0 {
		errs = append(errs, msgPitchNotPositive)
	}
	return verdict(errs, nil)
}

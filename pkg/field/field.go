package field

import (
	"fmt"
	"strconv"
)

// Name identifies one editable cell of a takeoff row.
type Name string

const (
	WorkType       Name = "workType"
	MajorCategory  Name = "majorCategory"
	MiddleCategory Name = "middleCategory"
	MinorCategory  Name = "minorCategory"
	CustomCategory Name = "customCategory"
	ItemName       Name = "name"
	Specification  Name = "specification"
	Unit           Name = "unit"
	MethodLabel    Name = "calculationMethod"
	Remarks        Name = "remarks"

	AdjustmentFactor Name = "adjustmentFactor"
	RoundingUnit     Name = "roundingUnit"
	Quantity         Name = "quantity"
)

// Constraint caps a text field's display width. Hankaku is the
// authoritative limit; Zenkaku is the same budget expressed in full-width
// characters and is always half of it.
type Constraint struct {
	Zenkaku int `json:"zenkakuMax" toml:"zenkaku"`
	Hankaku int `json:"hankakuMax" toml:"hankaku"`
}

// Range bounds a numeric field, inclusive on both ends.
type Range struct {
	Min float64 `json:"min" toml:"min"`
	Max float64 `json:"max" toml:"max"`
}

// Check is the outcome of a single field validation.
type Check struct {
	Valid bool   `json:"isValid"`
	Error string `json:"error,omitempty"`
}

var labels = map[Name]string{
	WorkType:         "工種",
	MajorCategory:    "大分類",
	MiddleCategory:   "中分類",
	MinorCategory:    "小分類",
	CustomCategory:   "カスタム分類",
	ItemName:         "名称",
	Specification:    "規格",
	Unit:             "単位",
	MethodLabel:      "計算方法",
	Remarks:          "備考",
	AdjustmentFactor: "調整係数",
	RoundingUnit:     "丸め単位",
	Quantity:         "数量",
}

// Label returns the on-screen Japanese name of a field, falling back to
// the identifier itself.
func Label(f Name) string {
	if l, ok := labels[f]; ok {
		return l
	}
	return string(f)
}

// Table bundles the active limits. Most callers use the package-level
// functions, which consult the defaults; deployments that tune limits in
// their config build their own Table and call its methods instead.
type Table struct {
	Constraints map[Name]Constraint
	Ranges      map[Name]Range
}

// DefaultTable returns a fresh copy of the standard limits: 25/50 for
// ordinary text cells, 8/16 for the work type, 3/6 for the unit, and the
// numeric bounds the sheet format defines.
func DefaultTable() *Table {
	return &Table{
		Constraints: map[Name]Constraint{
			WorkType:       {Zenkaku: 8, Hankaku: 16},
			MajorCategory:  {Zenkaku: 25, Hankaku: 50},
			MiddleCategory: {Zenkaku: 25, Hankaku: 50},
			MinorCategory:  {Zenkaku: 25, Hankaku: 50},
			CustomCategory: {Zenkaku: 25, Hankaku: 50},
			ItemName:       {Zenkaku: 25, Hankaku: 50},
			Specification:  {Zenkaku: 25, Hankaku: 50},
			Unit:           {Zenkaku: 3, Hankaku: 6},
			MethodLabel:    {Zenkaku: 25, Hankaku: 50},
			Remarks:        {Zenkaku: 25, Hankaku: 50},
		},
		Ranges: map[Name]Range{
			AdjustmentFactor: {Min: -9.99, Max: 9.99},
			RoundingUnit:     {Min: 0.01, Max: 999.99},
			Quantity:         {Min: -999999.99, Max: 9999999.99},
		},
	}
}

var defaults = DefaultTable()

// ValidateTextLength checks a text value against the width budget of f.
// Empty values are always valid, and fields without a constraint are
// unconstrained.
func (t *Table) ValidateTextLength(value string, f Name) Check {
	if value == "" {
		return Check{Valid: true}
	}
	c, ok := t.Constraints[f]
	if !ok {
		return Check{Valid: true}
	}
	if StringWidth(value) > c.Hankaku {
		return Check{Error: fmt.Sprintf(
			"%sは全角%d文字（半角%d文字）以内で入力してください",
			Label(f), c.Zenkaku, c.Hankaku,
		)}
	}
	return Check{Valid: true}
}

// RemainingWidth reports how much of the width budget of f is left for
// value; negative when over the limit, 0 for unconstrained fields.
func (t *Table) RemainingWidth(value string, f Name) int {
	c, ok := t.Constraints[f]
	if !ok {
		return 0
	}
	return c.Hankaku - StringWidth(value)
}

// ValidateNumericRange checks a value against the inclusive bounds of f.
// Fields without a registered range are unconstrained.
func (t *Table) ValidateNumericRange(v float64, f Name) Check {
	r, ok := t.Ranges[f]
	if !ok {
		return Check{Valid: true}
	}
	if v < r.Min || v > r.Max {
		return Check{Error: fmt.Sprintf(
			"%sは%s〜%sの範囲で入力してください",
			Label(f), formatBound(r.Min), formatBound(r.Max),
		)}
	}
	return Check{Valid: true}
}

func formatBound(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// ValidateTextLength checks a text value against the default width limits.
func ValidateTextLength(value string, f Name) Check {
	return defaults.ValidateTextLength(value, f)
}

// RemainingWidth reports the remaining default width budget for value.
func RemainingWidth(value string, f Name) int {
	return defaults.RemainingWidth(value, f)
}

// ValidateNumericRange checks a value against the default numeric bounds.
func ValidateNumericRange(v float64, f Name) Check {
	return defaults.ValidateNumericRange(v, f)
}

// FormatDecimal2 renders a quantity with exactly two decimal places, the
// fixed display precision of the sheet.
func FormatDecimal2(n float64) string {
	return strconv.FormatFloat(n, 'f', 2, 64)
}

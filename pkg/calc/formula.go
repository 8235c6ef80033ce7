package calc

import (
	"math"
	"strconv"
	"strings"
)

// formatNumber renders a value the way it was typed: no exponent, no
// trailing zeros, so 10 stays "10" and 0.5 stays "0.5".
func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// AreaVolumeFormula renders the multiplication behind AreaVolume, e.g.
// "10 x 5 = 50". A single dimension renders as "10 = 10"; no dimensions
// render as "0".
func AreaVolumeFormula(p AreaVolumeParams) string {
	var parts []string
	product := 1.0
	for _, v := range []*float64{p.Width, p.Depth, p.Height, p.Weight} {
		if present(v) {
			parts = append(parts, formatNumber(*v))
			product *= *v
		}
	}
	if len(parts) == 0 {
		return "0"
	}
	return strings.Join(parts, " x ") + " = " + formatNumber(product)
}

// PitchFormula renders the count expression behind Pitch, e.g.
// "floor((10 - 1 - 1) / 1) + 1 = 9", with " x length" / " x weight"
// segments and a trailing total when multipliers are set. Unlike Pitch it
// never fails: a non-positive pitch length renders a count of 1 and a
// final value of 0, matching what the erroring calculation would have
// shown on screen.
func PitchFormula(p PitchParams) string {
	rangeLen := operand(p.RangeLength)
	end1 := operand(p.EndLength1)
	end2 := operand(p.EndLength2)
	pitch := operand(p.PitchLength)

	count := 1.0
	if pitch > 0 {
		count = math.Floor((rangeLen-end1-end2)/pitch) + 1
		if count < 1 {
			count = 1
		}
	}

	var b strings.Builder
	b.WriteString("floor((")
	b.WriteString(formatNumber(rangeLen))
	b.WriteString(" - ")
	b.WriteString(formatNumber(end1))
	b.WriteString(" - ")
	b.WriteString(formatNumber(end2))
	b.WriteString(") / ")
	b.WriteString(formatNumber(pitch))
	b.WriteString(") + 1 = ")
	b.WriteString(formatNumber(count))

	result := count
	multiplied := false
	if present(p.Length) {
		b.WriteString(" x ")
		b.WriteString(formatNumber(*p.Length))
		result *= *p.Length
		multiplied = true
	}
	if present(p.Weight) {
		b.WriteString(" x ")
		b.WriteString(formatNumber(*p.Weight))
		result *= *p.Weight
		multiplied = true
	}
	if pitch <= 0 {
		result = 0
	}
	if multiplied || pitch <= 0 {
		b.WriteString(" = ")
		b.WriteString(formatNumber(result))
	}
	return b.String()
}

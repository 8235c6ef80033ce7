// Package item holds the takeoff line-item records that the calculation
// and validation packages operate on.
package item

import (
	"github.com/skmtlab/hiroi/pkg/calc"
)

// Item is one billable line entry in a quantity survey sheet. Text fields
// mirror the editable cells of a takeoff row; numeric settings left nil
// fall back to the calc defaults.
type Item struct {
	WorkType       string `json:"workType,omitempty"`
	MajorCategory  string `json:"majorCategory,omitempty"`
	MiddleCategory string `json:"middleCategory,omitempty"`
	MinorCategory  string `json:"minorCategory,omitempty"`
	CustomCategory string `json:"customCategory,omitempty"`
	Name           string `json:"name,omitempty"`
	Specification  string `json:"specification,omitempty"`
	Unit           string `json:"unit,omitempty"`
	MethodLabel    string `json:"calculationMethod,omitempty"`
	Remarks        string `json:"remarks,omitempty"`

	Method           calc.Method           `json:"method,omitempty"`
	Quantity         *float64              `json:"quantity,omitempty"`
	AreaVolume       calc.AreaVolumeParams `json:"areaVolumeParams,omitempty"`
	Pitch            calc.PitchParams      `json:"pitchParams,omitempty"`
	AdjustmentFactor *float64              `json:"adjustmentFactor,omitempty"`
	RoundingUnit     *float64              `json:"roundingUnit,omitempty"`
}

// Input assembles the calculation request for this item, filling in the
// default method, adjustment factor and rounding unit where unset.
func (i Item) Input() calc.Input {
	method := i.Method
	if method == "" {
		method = calc.DefaultMethod
	}
	factor := calc.DefaultAdjustmentFactor
	if i.AdjustmentFactor != nil {
		factor = *i.AdjustmentFactor
	}
	unit := calc.DefaultRoundingUnit
	if i.RoundingUnit != nil {
		unit = *i.RoundingUnit
	}
	return calc.Input{
		Method:           method,
		AreaVolume:       i.AreaVolume,
		Pitch:            i.Pitch,
		Quantity:         i.Quantity,
		AdjustmentFactor: factor,
		RoundingUnit:     unit,
	}
}

// Calculate runs the full quantity pipeline for this item.
func (i Item) Calculate() (calc.Result, error) {
	return calc.Calculate(i.Input())
}

// Group is a titled container of related line entries.
type Group struct {
	Title string `json:"title,omitempty"`
	Items []Item `json:"items"`
}

// Subtotal is the summed final quantity for one unit within a group.
type Subtotal struct {
	Unit     string  `json:"unit"`
	Quantity float64 `json:"quantity"`
}

// Subtotals sums the final quantities of the group per unit, in order of
// each unit's first appearance. Items the calculation rejects surface
// their error; validate rows before grouping to avoid that.
func (g Group) Subtotals() ([]Subtotal, error) {
	index := make(map[string]int)
	var totals []Subtotal
	for _, it := range g.Items {
		res, err := it.Calculate()
		if err != nil {
			return nil, err
		}
		pos, seen := index[it.Unit]
		if !seen {
			pos = len(totals)
			index[it.Unit] = pos
			totals = append(totals, Subtotal{Unit: it.Unit})
		}
		totals[pos].Quantity += res.FinalValue
	}
	return totals, nil
}

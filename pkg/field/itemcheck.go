package field

import (
	"math"

	"github.com/skmtlab/hiroi/pkg/item"
)

// ValidateItemFields runs every applicable width and range check over one
// line item and returns a sparse field-to-message map; a field missing
// from the map is fine. Empty text and unset numerics are skipped here
// since required-ness is decided by the caller, not per keystroke.
func (t *Table) ValidateItemFields(it item.Item) map[Name]string {
	problems := make(map[Name]string)

	texts := []struct {
		f     Name
		value string
	}{
		{WorkType, it.WorkType},
		{MajorCategory, it.MajorCategory},
		{MiddleCategory, it.MiddleCategory},
		{MinorCategory, it.MinorCategory},
		{CustomCategory, it.CustomCategory},
		{ItemName, it.Name},
		{Specification, it.Specification},
		{Unit, it.Unit},
		{MethodLabel, it.MethodLabel},
		{Remarks, it.Remarks},
	}
	for _, tf := range texts {
		if tf.value == "" {
			continue
		}
		if c := t.ValidateTextLength(tf.value, tf.f); !c.Valid {
			problems[tf.f] = c.Error
		}
	}

	numerics := []struct {
		f Name
		v *float64
	}{
		{Quantity, it.Quantity},
		{AdjustmentFactor, it.AdjustmentFactor},
		{RoundingUnit, it.RoundingUnit},
	}
	for _, nf := range numerics {
		if nf.v == nil || math.IsNaN(*nf.v) {
			continue
		}
		if c := t.ValidateNumericRange(*nf.v, nf.f); !c.Valid {
			problems[nf.f] = c.Error
		}
	}

	return problems
}

// ValidateItemFields checks one line item against the default limits.
func ValidateItemFields(it item.Item) map[Name]string {
	return defaults.ValidateItemFields(it)
}

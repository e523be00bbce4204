package parser

import (
	"github.com/ukaji3/compliance-go/pkg/compliance/models"
)

// Normalizer maps raw cells onto a [0, 1] compliance value and a status.
// It is total: every cell yields a value, malformed input yields 0/Pending.
type Normalizer struct {
	threshold   float64
	affirmative tokenSet
}

// NewNormalizer builds a normalizer from rules.
func NewNormalizer(rules Rules) *Normalizer {
	return &Normalizer{
		threshold:   rules.CompletedThreshold,
		affirmative: newTokenSet(rules.AffirmativeValues),
	}
}

// Normalize converts a cell into a value and status.
//   - numbers are clamped to [0, 1] and compared to the threshold
//   - text matching an affirmative token exactly (trimmed, any case) is 1
//   - anything else is 0
func (n *Normalizer) Normalize(c models.Cell) (float64, models.Status) {
	switch c.Kind {
	case models.KindNumber:
		v := clamp01(c.Num)
		if v >= n.threshold {
			return v, models.StatusCompleted
		}
		return v, models.StatusPending
	case models.KindString:
		if n.affirmative.has(c.Str) {
			return 1, models.StatusCompleted
		}
		return 0, models.StatusPending
	case models.KindEmpty, models.KindBool, models.KindError:
		return 0, models.StatusPending
	default:
		return 0, models.StatusPending
	}
}

// Item builds a ComplianceItem for one label/value pair.
func (n *Normalizer) Item(id, name string, raw models.Cell) models.ComplianceItem {
	value, status := n.Normalize(raw)
	return models.ComplianceItem{
		ID:     id,
		Name:   name,
		Value:  value,
		Status: status,
		Raw:    raw,
	}
}

func clamp01(v float64) float64 {
	if v > 1 {
		return 1
	}
	if v < 0 {
		return 0
	}
	return v
}

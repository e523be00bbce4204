package parser

import (
	"fmt"

	"github.com/ukaji3/compliance-go/pkg/compliance/models"
)

// Section ID prefixes.
const (
	Sec92Prefix = "9(2)"
	Sec13Prefix = "13"
)

// Extractor turns decoded sheets into districts using a fixed layout.
// It holds no per-sheet state and may be reused across sheets.
type Extractor struct {
	layout Layout
	rules  Rules
	norm   *Normalizer
}

// NewExtractor creates an extractor for the given layout and rules.
func NewExtractor(layout Layout, rules Rules) *Extractor {
	return &Extractor{
		layout: layout,
		rules:  rules,
		norm:   NewNormalizer(rules),
	}
}

// Items reads the compliance items of one village column over an inclusive
// row range. Rows outside the decoded grid are skipped without a
// placeholder, so the item count can be smaller than the range.
func (e *Extractor) Items(sheet models.Sheet, col int, rows RowRange, prefix string) []models.ComplianceItem {
	var items []models.ComplianceItem
	for r := rows.Start; r <= rows.End; r++ {
		if !sheet.HasRow(r) {
			continue
		}
		items = append(items, e.norm.Item(
			fmt.Sprintf("%s-%d", prefix, r),
			itemLabel(sheet.Cell(r, e.layout.LabelColumn), e.rules.DefaultItemName),
			sheet.Cell(r, col),
		))
	}
	return items
}

func itemLabel(c models.Cell, fallback string) string {
	if s := c.String(); s != "" {
		return s
	}
	return fallback
}

// Package compliance parses land-survey compliance checklists into districts,
// villages and compliance items.
package compliance

import (
	"fmt"

	"github.com/ukaji3/compliance-go/pkg/compliance/parser"
)

// Options configures parsing.
type Options struct {
	// FirstSheetIndex is the first sheet to parse; earlier sheets hold guidelines.
	FirstSheetIndex int `yaml:"first_sheet_index" toml:"first_sheet_index" json:"first_sheet_index"`
	// Layout specifies where values live in a district sheet.
	Layout parser.Layout `yaml:"layout" toml:"layout" json:"layout"`
	// Rules specifies thresholds, tokens and stage patterns.
	Rules parser.Rules `yaml:"rules" toml:"rules" json:"rules"`
}

// DefaultOptions returns default parse options.
func DefaultOptions() Options {
	return Options{
		FirstSheetIndex: 1,
		Layout:          parser.DefaultLayout(),
		Rules:           parser.DefaultRules(),
	}
}

// Validate reports the first unusable setting.
func (o Options) Validate() error {
	if o.FirstSheetIndex < 0 {
		return fmt.Errorf("first sheet index must not be negative, got %d", o.FirstSheetIndex)
	}
	if err := o.Layout.Validate(); err != nil {
		return err
	}
	return o.Rules.Validate()
}

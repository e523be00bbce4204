package parser

import (
	"errors"
	"fmt"
)

// RowRange is an inclusive range of 0-based row indices.
type RowRange struct {
	Start int `yaml:"start" toml:"start" json:"start"`
	End   int `yaml:"end" toml:"end" json:"end"`
}

// Layout holds the fixed positions of a district sheet. All indices are 0-based.
type Layout struct {
	// LabelColumn holds item labels and the village identifier.
	LabelColumn int `yaml:"label_column" toml:"label_column" json:"label_column"`
	// DataStartColumn is the first village column.
	DataStartColumn int `yaml:"data_start_column" toml:"data_start_column" json:"data_start_column"`
	// VillageIdentifier is the exact label marking the village-name row.
	VillageIdentifier string `yaml:"village_identifier" toml:"village_identifier" json:"village_identifier"`
	// VillageRow is used when no row carries VillageIdentifier.
	VillageRow int `yaml:"village_row" toml:"village_row" json:"village_row"`

	StageRow              int `yaml:"stage_row" toml:"stage_row" json:"stage_row"`
	PublishedDateRow      int `yaml:"published_date_row" toml:"published_date_row" json:"published_date_row"`
	DaysPassedRow         int `yaml:"days_passed_row" toml:"days_passed_row" json:"days_passed_row"`
	AssistantDirectorRow  int `yaml:"assistant_director_row" toml:"assistant_director_row" json:"assistant_director_row"`
	SuperintendentRow     int `yaml:"superintendent_row" toml:"superintendent_row" json:"superintendent_row"`
	HeadSurveyorRow       int `yaml:"head_surveyor_row" toml:"head_surveyor_row" json:"head_surveyor_row"`
	GovernmentSurveyorRow int `yaml:"government_surveyor_row" toml:"government_surveyor_row" json:"government_surveyor_row"`

	Sec92 RowRange `yaml:"sec92" toml:"sec92" json:"sec92"`
	Sec13 RowRange `yaml:"sec13" toml:"sec13" json:"sec13"`
}

// DefaultLayout returns the layout of the district checklist workbook.
func DefaultLayout() Layout {
	return Layout{
		LabelColumn:           2,
		DataStartColumn:       3,
		VillageIdentifier:     "Village",
		VillageRow:            55,
		StageRow:              1,
		PublishedDateRow:      2,
		DaysPassedRow:         3,
		AssistantDirectorRow:  5,
		SuperintendentRow:     6,
		HeadSurveyorRow:       7,
		GovernmentSurveyorRow: 8,
		Sec92:                 RowRange{Start: 61, End: 73},
		Sec13:                 RowRange{Start: 77, End: 89},
	}
}

// Validate checks that every index is usable.
func (l Layout) Validate() error {
	indices := map[string]int{
		"label_column":            l.LabelColumn,
		"data_start_column":       l.DataStartColumn,
		"village_row":             l.VillageRow,
		"stage_row":               l.StageRow,
		"published_date_row":      l.PublishedDateRow,
		"days_passed_row":         l.DaysPassedRow,
		"assistant_director_row":  l.AssistantDirectorRow,
		"superintendent_row":      l.SuperintendentRow,
		"head_surveyor_row":       l.HeadSurveyorRow,
		"government_surveyor_row": l.GovernmentSurveyorRow,
	}
	for name, v := range indices {
		if v < 0 {
			return fmt.Errorf("layout %s must not be negative, got %d", name, v)
		}
	}
	for name, r := range map[string]RowRange{"sec92": l.Sec92, "sec13": l.Sec13} {
		if r.Start < 0 || r.End < r.Start {
			return fmt.Errorf("layout %s range %d..%d is invalid", name, r.Start, r.End)
		}
	}
	return nil
}

// StagePatterns configures how stage text is classified.
// Matching is case-insensitive substring matching.
type StagePatterns struct {
	// Section13Published matches when any pattern is contained.
	Section13Published []string `yaml:"section13_published" toml:"section13_published" json:"section13_published"`
	// Section92Published matches when every pattern is contained.
	Section92Published []string `yaml:"section92_published" toml:"section92_published" json:"section92_published"`
	// Above90 matches when any pattern is contained.
	Above90 []string `yaml:"above90" toml:"above90" json:"above90"`
}

// Rules holds thresholds and token lists used during extraction.
type Rules struct {
	// CompletedThreshold is the minimum value for a Completed item.
	CompletedThreshold float64 `yaml:"completed_threshold" toml:"completed_threshold" json:"completed_threshold"`
	// CriticalDays marks a village critical once its 9(2) counter reaches it.
	CriticalDays float64 `yaml:"critical_days" toml:"critical_days" json:"critical_days"`
	// AffirmativeValues are the text answers counted as complete.
	AffirmativeValues []string `yaml:"affirmative_values" toml:"affirmative_values" json:"affirmative_values"`
	// ExcludedSheets are skipped regardless of content.
	ExcludedSheets []string `yaml:"excluded_sheets" toml:"excluded_sheets" json:"excluded_sheets"`
	// InvalidVillageNames are village-name cells that do not denote a village.
	InvalidVillageNames []string `yaml:"invalid_village_names" toml:"invalid_village_names" json:"invalid_village_names"`
	// DefaultPersonnel fills blank official-role cells.
	DefaultPersonnel string `yaml:"default_personnel" toml:"default_personnel" json:"default_personnel"`
	// DefaultStage fills a blank stage cell.
	DefaultStage string `yaml:"default_stage" toml:"default_stage" json:"default_stage"`
	// DefaultItemName fills a blank item label.
	DefaultItemName string `yaml:"default_item_name" toml:"default_item_name" json:"default_item_name"`

	Stages StagePatterns `yaml:"stages" toml:"stages" json:"stages"`
}

// DefaultRules returns the rules used by the district checklist workbook.
func DefaultRules() Rules {
	return Rules{
		CompletedThreshold: 0.9,
		CriticalDays:       90,
		AffirmativeValues:  []string{"yes", "completed", "ready", "done", "finish", "finished"},
		ExcludedSheets: []string{
			"test", "sheet 17", "sheet 128", "sheet17", "sheet128",
			"guideline", "guidelines", "instructions", "template",
		},
		InvalidVillageNames: []string{"#REF!"},
		DefaultPersonnel:    "Not Assigned",
		DefaultStage:        "Unknown",
		DefaultItemName:     "Unknown Item",
		Stages: StagePatterns{
			Section13Published: []string{"13 published", "section 13 published"},
			Section92Published: []string{"9(2)", "published"},
			Above90:            []string{"above 90", "above90", ">90", "> 90"},
		},
	}
}

// ErrInvalidThreshold indicates a completion threshold outside [0, 1].
var ErrInvalidThreshold = errors.New("completed threshold must be within [0, 1]")

// Validate checks thresholds and stage patterns.
func (r Rules) Validate() error {
	if r.CompletedThreshold < 0 || r.CompletedThreshold > 1 {
		return fmt.Errorf("%w: %v", ErrInvalidThreshold, r.CompletedThreshold)
	}
	if r.CriticalDays < 0 {
		return fmt.Errorf("critical days must not be negative, got %v", r.CriticalDays)
	}
	if len(r.Stages.Section92Published) == 0 {
		return errors.New("stages.section92_published needs at least one pattern")
	}
	return nil
}

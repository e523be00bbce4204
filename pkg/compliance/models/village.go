package models

import "fmt"

// Status is the binary completion state of an item, section, or village.
type Status string

const (
	StatusCompleted Status = "Completed"
	StatusPending   Status = "Pending"
)

// ComplianceItem is one checklist entry for one village under one section.
type ComplianceItem struct {
	// ID combines the section prefix and the source row index, e.g. "9(2)-61".
	ID string `json:"id"`
	// Name is the item label from the label column.
	Name string `json:"name"`
	// Value is the normalized measurement in [0, 1].
	Value float64 `json:"value"`
	// Status is derived from Value against the completion threshold.
	Status Status `json:"status"`
	// Raw is the original cell, kept for display and export.
	Raw Cell `json:"raw"`
}

// Section aggregates the items of one legal section for one village.
type Section struct {
	Items          []ComplianceItem `json:"items"`
	CompletedCount int              `json:"completed_count"`
	TotalCount     int              `json:"total_count"`
	// Percent is the mean of item values, 0 when there are no items.
	Percent float64 `json:"percent"`
	// Status follows the village stage, not Percent.
	Status Status `json:"status"`
}

// Village is one data column within a district sheet.
type Village struct {
	// ID is "{name}-{column}"; names repeat across columns.
	ID       string `json:"id"`
	Name     string `json:"name"`
	District string `json:"district"`
	// Column is the 0-based source column.
	Column int `json:"column"`

	HeadSurveyor       string `json:"headSurveyor"`
	GovernmentSurveyor string `json:"governmentSurveyor"`
	AssistantDirector  string `json:"assistantDirector"`
	Superintendent     string `json:"superintendent"`

	Stage string `json:"stage"`
	// PublishedDate is YYYY-MM-DD, set only for 9(2)-published stages.
	PublishedDate *string `json:"publishedDate"`
	// DaysPassedAfter92 is copied from the sheet's own counter.
	DaysPassedAfter92 *float64 `json:"daysPassedAfter92"`
	IsCritical        bool     `json:"isCritical"`

	Sec92 Section `json:"sec92"`
	Sec13 Section `json:"sec13"`

	OverallPercent float64 `json:"overall_percent"`
	OverallStatus  Status  `json:"overall_status"`
}

// SectionKey selects one of the two compliance sections.
type SectionKey string

const (
	Section92 SectionKey = "9(2)"
	Section13 SectionKey = "13"
)

// Section returns the requested section of v.
func (v *Village) Section(key SectionKey) *Section {
	if key == Section13 {
		return &v.Sec13
	}
	return &v.Sec92
}

// ParseSectionKey accepts "9(2)", "92" or "13". An empty string selects 9(2).
func ParseSectionKey(s string) (SectionKey, error) {
	switch s {
	case "", "9(2)", "92":
		return Section92, nil
	case "13":
		return Section13, nil
	default:
		return "", fmt.Errorf("unknown section %q (must be 92 or 13)", s)
	}
}

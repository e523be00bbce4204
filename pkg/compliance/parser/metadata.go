package parser

import (
	"strings"

	"github.com/ukaji3/compliance-go/pkg/compliance/models"
)

// Metadata holds the non-checklist attributes of one village column.
type Metadata struct {
	Stage              string
	PublishedDate      *string
	DaysPassedAfter92  *float64
	IsCritical         bool
	HeadSurveyor       string
	GovernmentSurveyor string
	AssistantDirector  string
	Superintendent     string
}

// Metadata extracts stage, publication timing and personnel for a column.
// Publication date and day counter are read only for 9(2)-published stages.
func (e *Extractor) Metadata(sheet models.Sheet, col int) Metadata {
	l := e.layout
	md := Metadata{
		Stage:              textOr(sheet.Cell(l.StageRow, col), e.rules.DefaultStage),
		HeadSurveyor:       textOr(sheet.Cell(l.HeadSurveyorRow, col), e.rules.DefaultPersonnel),
		GovernmentSurveyor: textOr(sheet.Cell(l.GovernmentSurveyorRow, col), e.rules.DefaultPersonnel),
		AssistantDirector:  textOr(sheet.Cell(l.AssistantDirectorRow, col), e.rules.DefaultPersonnel),
		Superintendent:     textOr(sheet.Cell(l.SuperintendentRow, col), e.rules.DefaultPersonnel),
	}

	if !IsSection92Published(md.Stage, e.rules.Stages) {
		return md
	}

	if serial, ok := sheet.Cell(l.PublishedDateRow, col).Number(); ok {
		if iso, ok := SerialToISO(serial); ok {
			md.PublishedDate = &iso
		}
	}
	if days, ok := sheet.Cell(l.DaysPassedRow, col).Number(); ok {
		md.DaysPassedAfter92 = &days
		md.IsCritical = days >= e.rules.CriticalDays
	}

	return md
}

// textOr returns the trimmed text of a string cell, or fallback when the
// cell is blank or not text.
func textOr(c models.Cell, fallback string) string {
	s, ok := c.Text()
	if !ok {
		return fallback
	}
	if s = strings.TrimSpace(s); s == "" {
		return fallback
	}
	return s
}

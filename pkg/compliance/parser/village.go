package parser

import (
	"fmt"
	"strings"

	"github.com/ukaji3/compliance-go/pkg/compliance/models"
)

// Village assembles the village in column col, or returns false when the
// column does not name a real village (blank, non-text, or an error marker).
func (e *Extractor) Village(sheet models.Sheet, col int, district string, villageRow int) (models.Village, bool) {
	name, ok := e.villageName(sheet.Cell(villageRow, col))
	if !ok {
		return models.Village{}, false
	}

	md := e.Metadata(sheet, col)
	published13 := IsSection13Published(md.Stage, e.rules.Stages)

	sec92 := summarizeSection(e.Items(sheet, col, e.layout.Sec92, Sec92Prefix), published13)
	sec13 := summarizeSection(e.Items(sheet, col, e.layout.Sec13, Sec13Prefix), published13)

	return models.Village{
		ID:       fmt.Sprintf("%s-%d", name, col),
		Name:     name,
		District: district,
		Column:   col,

		HeadSurveyor:       md.HeadSurveyor,
		GovernmentSurveyor: md.GovernmentSurveyor,
		AssistantDirector:  md.AssistantDirector,
		Superintendent:     md.Superintendent,

		Stage:             md.Stage,
		PublishedDate:     md.PublishedDate,
		DaysPassedAfter92: md.DaysPassedAfter92,
		IsCritical:        md.IsCritical,

		Sec92: sec92,
		Sec13: sec13,

		OverallPercent: (sec92.Percent + sec13.Percent) / 2,
		OverallStatus:  stageStatus(published13),
	}, true
}

// villageName validates the village-name cell. The name is returned
// verbatim; only its trimmed form is checked for blanks and error markers.
func (e *Extractor) villageName(c models.Cell) (string, bool) {
	s, ok := c.Text()
	if !ok {
		return "", false
	}
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return "", false
	}
	for _, invalid := range e.rules.InvalidVillageNames {
		if trimmed == invalid {
			return "", false
		}
	}
	return s, true
}

// summarizeSection computes counts and the mean item value. Status is
// driven by the 13-publication stage, not by the items.
func summarizeSection(items []models.ComplianceItem, published13 bool) models.Section {
	sec := models.Section{
		Items:      items,
		TotalCount: len(items),
		Status:     stageStatus(published13),
	}
	if sec.Items == nil {
		sec.Items = []models.ComplianceItem{}
	}

	var sum float64
	for _, it := range items {
		sum += it.Value
		if it.Status == models.StatusCompleted {
			sec.CompletedCount++
		}
	}
	if len(items) > 0 {
		sec.Percent = sum / float64(len(items))
	}
	return sec
}

func stageStatus(published13 bool) models.Status {
	if published13 {
		return models.StatusCompleted
	}
	return models.StatusPending
}

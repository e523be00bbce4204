// Package stats derives dashboard views from parsed districts: KPI totals,
// critical villages and filtered, sorted village pages.
package stats

import (
	"sort"

	"github.com/ukaji3/compliance-go/pkg/compliance/models"
	"github.com/ukaji3/compliance-go/pkg/compliance/parser"
)

// StageCategory buckets free-text stages.
type StageCategory string

const (
	StageSection13 StageCategory = "13 Published"
	StageSection92 StageCategory = "9(2) Published"
	StageAbove90   StageCategory = "Above 90%"
	StageOther     StageCategory = "Other"
)

// StageCategoryOf classifies a stage. Later publication wins when a stage
// matches several patterns.
func StageCategoryOf(stage string, p parser.StagePatterns) StageCategory {
	switch {
	case parser.IsSection13Published(stage, p):
		return StageSection13
	case parser.IsSection92Published(stage, p):
		return StageSection92
	case parser.IsAbove90(stage, p):
		return StageAbove90
	default:
		return StageOther
	}
}

// Selection narrows a summary to one district (empty for all) and one section.
type Selection struct {
	District string
	Section  models.SectionKey
}

// Summary holds the headline numbers of a selection.
type Summary struct {
	District  string            `json:"district,omitempty"`
	Section   models.SectionKey `json:"section"`
	Districts int               `json:"districts"`
	Villages  int               `json:"villages"`
	// AvgPercent is the mean section percent over all villages in scope.
	AvgPercent float64 `json:"avg_percent"`
	Completed  int     `json:"completed"`
	Pending    int     `json:"pending"`
	Critical   int     `json:"critical"`
}

// Summarize computes the KPI totals of a selection.
func Summarize(districts models.DistrictList, sel Selection) Summary {
	s := Summary{District: sel.District, Section: sectionOrDefault(sel.Section)}

	var sum float64
	for _, d := range inScope(districts, sel.District) {
		s.Districts++
		for i := range d.Villages {
			v := &d.Villages[i]
			sec := v.Section(s.Section)
			s.Villages++
			sum += sec.Percent
			if sec.Status == models.StatusCompleted {
				s.Completed++
			}
			if v.IsCritical {
				s.Critical++
			}
		}
	}
	s.Pending = s.Villages - s.Completed
	if s.Villages > 0 {
		s.AvgPercent = sum / float64(s.Villages)
	}
	return s
}

// CriticalVillage is a village whose 9(2) counter passed the critical limit.
type CriticalVillage struct {
	ID                string  `json:"id"`
	Name              string  `json:"name"`
	District          string  `json:"district"`
	HeadSurveyor      string  `json:"headSurveyor"`
	DaysPassedAfter92 float64 `json:"daysPassedAfter92"`
	PublishedDate     *string `json:"publishedDate"`
}

// CriticalVillages lists critical villages, most overdue first. Villages
// with equal counters keep workbook order.
func CriticalVillages(districts models.DistrictList) []CriticalVillage {
	out := []CriticalVillage{}
	for _, d := range districts {
		for _, v := range d.Villages {
			if !v.IsCritical {
				continue
			}
			cv := CriticalVillage{
				ID:            v.ID,
				Name:          v.Name,
				District:      d.Name,
				HeadSurveyor:  v.HeadSurveyor,
				PublishedDate: v.PublishedDate,
			}
			if v.DaysPassedAfter92 != nil {
				cv.DaysPassedAfter92 = *v.DaysPassedAfter92
			}
			out = append(out, cv)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].DaysPassedAfter92 > out[j].DaysPassedAfter92
	})
	return out
}

func inScope(districts models.DistrictList, name string) models.DistrictList {
	if name == "" {
		return districts
	}
	if d, ok := districts.Find(name); ok {
		return models.DistrictList{*d}
	}
	return nil
}

func sectionOrDefault(key models.SectionKey) models.SectionKey {
	if key == models.Section13 {
		return models.Section13
	}
	return models.Section92
}

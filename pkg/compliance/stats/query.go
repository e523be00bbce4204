package stats

import (
	"fmt"
	"sort"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/ukaji3/compliance-go/pkg/compliance/models"
	"github.com/ukaji3/compliance-go/pkg/compliance/parser"
)

// DefaultPageSize is used when a filter does not set one.
const DefaultPageSize = 50

// MaxPageSize caps the page size a filter may ask for.
const MaxPageSize = 1000

// SortField names a village attribute to order by.
type SortField string

const (
	SortNone         SortField = ""
	SortName         SortField = "name"
	SortDistrict     SortField = "district"
	SortHeadSurveyor SortField = "headSurveyor"
	SortCompletion   SortField = "completion"
)

// ParseSortField validates a sort field name.
func ParseSortField(s string) (SortField, error) {
	switch f := SortField(s); f {
	case SortNone, SortName, SortDistrict, SortHeadSurveyor, SortCompletion:
		return f, nil
	default:
		return SortNone, fmt.Errorf("unknown sort field %q", s)
	}
}

// Filter selects, orders and pages villages.
type Filter struct {
	// District keeps villages of one district (exact name); empty keeps all.
	District string
	// Section selects which section Status applies to.
	Section models.SectionKey
	// Status keeps villages whose section status matches; empty keeps all.
	Status models.Status
	// Stage keeps villages of one stage category; empty keeps all.
	Stage StageCategory
	// Search matches village, district or head surveyor names, ignoring case.
	Search string

	SortBy SortField
	Desc   bool

	// Page is 1-based.
	Page     int
	PageSize int

	// Stages classifies villages for the Stage filter. The zero value uses
	// the default patterns.
	Stages parser.StagePatterns
}

// Page is one page of matching villages.
type Page struct {
	Villages   []models.Village `json:"villages"`
	Total      int              `json:"total"`
	Page       int              `json:"page"`
	PageSize   int              `json:"page_size"`
	TotalPages int              `json:"total_pages"`
}

// Query filters, sorts and pages the villages of districts.
func Query(districts models.DistrictList, f Filter) Page {
	return paginate(Select(districts, f), f.Page, f.PageSize)
}

// Select filters and sorts the villages of districts, ignoring paging.
// Sorting is stable; ties keep workbook order.
func Select(districts models.DistrictList, f Filter) []models.Village {
	section := sectionOrDefault(f.Section)
	stages := f.Stages
	if stages.Section13Published == nil && stages.Section92Published == nil && stages.Above90 == nil {
		stages = parser.DefaultRules().Stages
	}
	search := fold(strings.TrimSpace(f.Search))

	var matched []models.Village
	for _, d := range inScope(districts, f.District) {
		for i := range d.Villages {
			v := &d.Villages[i]
			if f.Status != "" && v.Section(section).Status != f.Status {
				continue
			}
			if f.Stage != "" && StageCategoryOf(v.Stage, stages) != f.Stage {
				continue
			}
			if search != "" && !matchesSearch(v, search) {
				continue
			}
			matched = append(matched, *v)
		}
	}

	sortVillages(matched, f.SortBy, f.Desc)
	return matched
}

func matchesSearch(v *models.Village, folded string) bool {
	return strings.Contains(fold(v.Name), folded) ||
		strings.Contains(fold(v.District), folded) ||
		strings.Contains(fold(v.HeadSurveyor), folded)
}

func sortVillages(villages []models.Village, by SortField, desc bool) {
	if by == SortNone {
		return
	}

	col := collate.New(language.English, collate.IgnoreCase)
	compare := func(a, b *models.Village) int {
		switch by {
		case SortName:
			return col.CompareString(a.Name, b.Name)
		case SortDistrict:
			return col.CompareString(a.District, b.District)
		case SortHeadSurveyor:
			return col.CompareString(a.HeadSurveyor, b.HeadSurveyor)
		case SortCompletion:
			switch {
			case a.OverallPercent < b.OverallPercent:
				return -1
			case a.OverallPercent > b.OverallPercent:
				return 1
			}
		}
		return 0
	}

	sort.SliceStable(villages, func(i, j int) bool {
		c := compare(&villages[i], &villages[j])
		if desc {
			return c > 0
		}
		return c < 0
	})
}

func paginate(villages []models.Village, page, size int) Page {
	if size <= 0 {
		size = DefaultPageSize
	}
	if size > MaxPageSize {
		size = MaxPageSize
	}
	if page < 1 {
		page = 1
	}

	p := Page{
		Villages:   []models.Village{},
		Total:      len(villages),
		Page:       page,
		PageSize:   size,
		TotalPages: (len(villages) + size - 1) / size,
	}
	if page > p.TotalPages {
		return p
	}
	start := (page - 1) * size
	end := start + size
	if end > len(villages) {
		end = len(villages)
	}
	p.Villages = villages[start:end]
	return p
}

func fold(s string) string {
	return cases.Fold().String(s)
}

// ParseStatus accepts "all", "completed" or "pending" in any case. "all"
// and the empty string select every status.
func ParseStatus(s string) (models.Status, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "all":
		return "", nil
	case "completed":
		return models.StatusCompleted, nil
	case "pending":
		return models.StatusPending, nil
	default:
		return "", fmt.Errorf("unknown status %q", s)
	}
}

// ParseStageCategory accepts a category label or one of the short forms
// "13", "92", "above90" and "other". The empty string selects every stage.
func ParseStageCategory(s string) (StageCategory, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "":
		return "", nil
	case "13", "13 published":
		return StageSection13, nil
	case "92", "9(2)", "9(2) published":
		return StageSection92, nil
	case "above90", "above 90%":
		return StageAbove90, nil
	case "other":
		return StageOther, nil
	default:
		return "", fmt.Errorf("unknown stage %q", s)
	}
}

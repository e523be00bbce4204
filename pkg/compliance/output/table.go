package output

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/ukaji3/compliance-go/pkg/compliance/models"
)

// Fixed export columns preceding the per-item columns.
var baseHeader = []string{"District", "Village", "Status", "Completion %"}

// Table is a rendered export: one header row and one row per village.
// Rows are padded to the header width.
type Table struct {
	Header []string
	Rows   [][]string
}

// BuildTable renders one section of the given villages. Item columns are
// named "Item N: label" and collected in order of first appearance, so
// villages with different item lists share columns where they agree.
func BuildTable(villages []models.Village, key models.SectionKey) Table {
	header := append([]string(nil), baseHeader...)
	index := make(map[string]int)

	rows := make([][]string, 0, len(villages))
	for i := range villages {
		v := &villages[i]
		sec := v.Section(key)

		row := []string{v.District, v.Name, string(sec.Status), FormatPercent(sec.Percent)}
		cells := make(map[int]string, len(sec.Items))
		for n, it := range sec.Items {
			name := fmt.Sprintf("Item %d: %s", n+1, it.Name)
			col, ok := index[name]
			if !ok {
				col = len(header)
				index[name] = col
				header = append(header, name)
			}
			cells[col] = FormatValue(it.Value, it.Raw)
		}
		for col, s := range cells {
			for len(row) <= col {
				row = append(row, "")
			}
			row[col] = s
		}
		rows = append(rows, row)
	}

	for i := range rows {
		for len(rows[i]) < len(header) {
			rows[i] = append(rows[i], "")
		}
	}
	return Table{Header: header, Rows: rows}
}

// FormatPercent renders a fraction as a whole percentage, rounding halves up.
func FormatPercent(x float64) string {
	return fmt.Sprintf("%d%%", int64(math.Floor(x*100+0.5)))
}

// FormatValue renders one item for export. A numeric raw value that matches
// the normalized value is shown as a percentage; any other raw value is
// shown verbatim; a missing raw value falls back to the normalized value.
func FormatValue(value float64, raw models.Cell) string {
	if raw.IsEmpty() {
		return FormatPercent(value)
	}
	if n, ok := raw.Number(); ok && math.Abs(n-value) < 0.001 {
		return FormatPercent(n)
	}
	if s := raw.String(); s != "" {
		return s
	}
	return FormatPercent(value)
}

// ExportFileName returns the download name of a section export, for example
// "compliance_92_2024-05-01.csv".
func ExportFileName(key models.SectionKey, ext string, date time.Time) string {
	section := strings.NewReplacer("(", "", ")", "").Replace(string(key))
	return fmt.Sprintf("compliance_%s_%s.%s", section, date.Format(time.DateOnly), ext)
}

// SummaryFileName is the download name of the district summary workbook.
const SummaryFileName = "District_Summary.xlsx"

// SummaryTable renders one row per district with its village count and
// section averages to two decimals.
func SummaryTable(districts models.DistrictList) Table {
	t := Table{Header: []string{"District", "Total Villages", "Avg 9(2) %", "Avg 13 %"}}
	for _, d := range districts {
		t.Rows = append(t.Rows, []string{
			d.Name,
			fmt.Sprintf("%d", d.TotalVillages),
			fmt.Sprintf("%.2f%%", d.Avg92Percent*100),
			fmt.Sprintf("%.2f%%", d.Avg13Percent*100),
		})
	}
	return t
}

package output

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/ukaji3/compliance-go/pkg/compliance/models"
)

func item(name string, value float64, raw models.Cell) models.ComplianceItem {
	return models.ComplianceItem{Name: name, Value: value, Raw: raw}
}

func sampleVillages() []models.Village {
	return []models.Village{
		{
			Name:     "ALPHA",
			District: "Kollam",
			Sec92: models.Section{
				Percent: 0.755,
				Status:  models.StatusPending,
				Items: []models.ComplianceItem{
					item("Survey", 0.5, models.NumberCell(0.5)),
					item("Topology", 1, models.StringCell("Ready")),
				},
			},
		},
		{
			Name:     "BETA",
			District: "Kollam",
			Sec92: models.Section{
				Percent: 1,
				Status:  models.StatusCompleted,
				Items: []models.ComplianceItem{
					item("Survey", 1, models.NumberCell(7)),
					item("Boundary", 0, models.Cell{}),
					item("Records", 0, models.Cell{}),
				},
			},
		},
	}
}

func TestFormatPercent(t *testing.T) {
	tests := map[float64]string{
		0:     "0%",
		0.5:   "50%",
		0.755: "76%",
		0.125: "13%",
		1:     "100%",
	}
	for in, expected := range tests {
		if got := FormatPercent(in); got != expected {
			t.Errorf("FormatPercent(%v) = %q, expected %q", in, got, expected)
		}
	}
}

func TestFormatValue(t *testing.T) {
	tests := []struct {
		name     string
		value    float64
		raw      models.Cell
		expected string
	}{
		{"matching number", 0.5, models.NumberCell(0.5), "50%"},
		{"clamped number", 1, models.NumberCell(7), "7"},
		{"text", 1, models.StringCell("Ready"), "Ready"},
		{"missing raw", 0, models.Cell{}, "0%"},
		{"error cell", 0, models.ErrorCell("#N/A"), "#N/A"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, FormatValue(tt.value, tt.raw))
		})
	}
}

func TestBuildTable(t *testing.T) {
	table := BuildTable(sampleVillages(), models.Section92)

	assert.Equal(t, []string{
		"District", "Village", "Status", "Completion %",
		"Item 1: Survey", "Item 2: Topology", "Item 2: Boundary", "Item 3: Records",
	}, table.Header)

	require.Len(t, table.Rows, 2)
	assert.Equal(t, []string{"Kollam", "ALPHA", "Pending", "76%", "50%", "Ready", "", ""}, table.Rows[0])
	assert.Equal(t, []string{"Kollam", "BETA", "Completed", "100%", "7", "", "0%", "0%"}, table.Rows[1])
}

func TestBuildTableEmpty(t *testing.T) {
	table := BuildTable(nil, models.Section13)
	assert.Equal(t, baseHeader, table.Header)
	assert.Empty(t, table.Rows)
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, sampleVillages(), models.Section92))

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, "Item 3: Records", records[0][7])
	assert.Equal(t, "BETA", records[2][1])
}

func TestWriteXLSX(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteXLSX(&buf, sampleVillages(), models.Section92))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{VillagesSheet}, f.GetSheetList())
	rows, err := f.GetRows(VillagesSheet)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "Completion %", rows[0][3])
	assert.Equal(t, "Ready", rows[1][5])
}

func TestWriteSummaryXLSX(t *testing.T) {
	districts := models.DistrictList{
		{Name: "Kollam", TotalVillages: 2, Avg92Percent: 0.87654, Avg13Percent: 0},
	}
	var buf bytes.Buffer
	require.NoError(t, WriteSummaryXLSX(&buf, districts))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(SummarySheet)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, []string{"Kollam", "2", "87.65%", "0.00%"}, rows[1])
}

func TestExportFileName(t *testing.T) {
	date := time.Date(2024, 5, 1, 15, 0, 0, 0, time.UTC)
	assert.Equal(t, "compliance_92_2024-05-01.csv", ExportFileName(models.Section92, "csv", date))
	assert.Equal(t, "compliance_13_2024-05-01.xlsx", ExportFileName(models.Section13, "xlsx", date))
}

func TestToJSON(t *testing.T) {
	data, err := ToJSON(nil, false)
	require.NoError(t, err)
	assert.Equal(t, "[]", string(data))

	date := "2023-03-15"
	districts := models.DistrictList{{
		Name:          "Kollam",
		TotalVillages: 1,
		Villages: []models.Village{{
			Name:          "ALPHA",
			PublishedDate: &date,
			Sec92: models.Section{Items: []models.ComplianceItem{
				item("Survey", 1, models.StringCell("Done")),
			}},
		}},
	}}

	data, err = ToJSON(districts, true)
	require.NoError(t, err)

	var decoded []map[string]any
	require.NoError(t, json.Unmarshal(data, &decoded))
	require.Len(t, decoded, 1)
	assert.Equal(t, "Kollam", decoded[0]["name"])
	v := decoded[0]["villages"].([]any)[0].(map[string]any)
	assert.Equal(t, "2023-03-15", v["publishedDate"])
	assert.Nil(t, v["daysPassedAfter92"])
	raw := v["sec92"].(map[string]any)["items"].([]any)[0].(map[string]any)["raw"]
	assert.Equal(t, "Done", raw)
}

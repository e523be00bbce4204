package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ukaji3/compliance-go/pkg/compliance/models"
)

func defaultExtractor() *Extractor {
	return NewExtractor(DefaultLayout(), DefaultRules())
}

func TestItemsSkipsRowsOutsideGrid(t *testing.T) {
	e := defaultExtractor()
	sheet := newGrid("D").
		text(0, 2, "first").num(0, 3, 1).
		text(2, 2, "third").num(2, 3, 0.5).
		build()

	items := e.Items(sheet, 3, RowRange{Start: 0, End: 10}, "13")

	// Row 1 is an empty row inside the grid and still yields an item;
	// rows 3..10 lie beyond the grid and yield nothing.
	require.Len(t, items, 3)
	assert.Equal(t, "13-0", items[0].ID)
	assert.Equal(t, "first", items[0].Name)
	assert.Equal(t, "13-1", items[1].ID)
	assert.Equal(t, "Unknown Item", items[1].Name)
	assert.Equal(t, 0.0, items[1].Value)
	assert.Equal(t, "13-2", items[2].ID)
	assert.Equal(t, 0.5, items[2].Value)
}

func TestMetadataGateOnNinetyTwoPublished(t *testing.T) {
	e := defaultExtractor()
	l := DefaultLayout()

	tests := []struct {
		stage        string
		wantGated    bool
		wantCritical bool
	}{
		{"9(2) Published", true, true},
		{"9(2) published on portal", true, true},
		{"Published 9(2)", true, true},
		{"9(2) Pending", false, false},
		{"13 Published", false, false},
		{"Above 90%", false, false},
	}

	for _, tt := range tests {
		sheet := newGrid("D").
			text(l.StageRow, 3, tt.stage).
			num(l.PublishedDateRow, 3, 45000).
			num(l.DaysPassedRow, 3, 95).
			build()

		md := e.Metadata(sheet, 3)
		assert.Equal(t, tt.stage, md.Stage)
		if tt.wantGated {
			require.NotNil(t, md.PublishedDate, tt.stage)
			assert.Equal(t, "2023-03-15", *md.PublishedDate)
			require.NotNil(t, md.DaysPassedAfter92, tt.stage)
			assert.Equal(t, 95.0, *md.DaysPassedAfter92)
		} else {
			assert.Nil(t, md.PublishedDate, tt.stage)
			assert.Nil(t, md.DaysPassedAfter92, tt.stage)
		}
		assert.Equal(t, tt.wantCritical, md.IsCritical, tt.stage)
	}
}

func TestMetadataCriticalThreshold(t *testing.T) {
	e := defaultExtractor()
	l := DefaultLayout()

	for days, want := range map[float64]bool{89: false, 90: true, 91: true, 0: false} {
		sheet := newGrid("D").
			text(l.StageRow, 3, "9(2) Published").
			num(l.DaysPassedRow, 3, days).
			build()
		assert.Equal(t, want, e.Metadata(sheet, 3).IsCritical, "days=%v", days)
	}
}

func TestMetadataNonNumericTimingCells(t *testing.T) {
	e := defaultExtractor()
	l := DefaultLayout()
	sheet := newGrid("D").
		text(l.StageRow, 3, "9(2) Published").
		text(l.PublishedDateRow, 3, "15/03/2023").
		set(l.DaysPassedRow, 3, models.ErrorCell("#VALUE!")).
		build()

	md := e.Metadata(sheet, 3)
	assert.Nil(t, md.PublishedDate)
	assert.Nil(t, md.DaysPassedAfter92)
	assert.False(t, md.IsCritical)
}

func TestMetadataDefaults(t *testing.T) {
	e := defaultExtractor()
	l := DefaultLayout()
	sheet := newGrid("D").
		text(l.StageRow, 3, "   ").
		text(l.HeadSurveyorRow, 3, "  Anil Kumar ").
		num(l.GovernmentSurveyorRow, 3, 7).
		build()

	md := e.Metadata(sheet, 3)
	assert.Equal(t, "Unknown", md.Stage)
	assert.Equal(t, "Anil Kumar", md.HeadSurveyor)
	assert.Equal(t, "Not Assigned", md.GovernmentSurveyor)
	assert.Equal(t, "Not Assigned", md.AssistantDirector)
	assert.Equal(t, "Not Assigned", md.Superintendent)
}

func TestVillageRejectsNonVillageColumns(t *testing.T) {
	e := defaultExtractor()
	l := DefaultLayout()

	for _, name := range []models.Cell{
		{},
		models.StringCell(""),
		models.StringCell("   "),
		models.StringCell("#REF!"),
		models.NumberCell(42),
		models.BoolCell(true),
		models.ErrorCell("#N/A"),
	} {
		sheet := districtGrid("D", villageFixture{col: 3, name: name}).build()
		_, ok := e.Village(sheet, 3, "D", l.VillageRow)
		assert.False(t, ok, "name cell %+v", name)
	}
}

func TestVillageKeepsNameVerbatim(t *testing.T) {
	e := defaultExtractor()
	l := DefaultLayout()

	sheet := districtGrid("D", villageFixture{col: 3, name: models.StringCell(" Alpha ")}).build()
	v, ok := e.Village(sheet, 3, "D", l.VillageRow)
	require.True(t, ok)
	assert.Equal(t, " Alpha ", v.Name)
	assert.Equal(t, " Alpha -3", v.ID)

	sheet = districtGrid("D", villageFixture{col: 3, name: models.StringCell(" #REF! ")}).build()
	_, ok = e.Village(sheet, 3, "D", l.VillageRow)
	assert.False(t, ok)
}

func TestVillageStatsAndStageDecoupling(t *testing.T) {
	e := defaultExtractor()
	l := DefaultLayout()
	sheet := districtGrid("A", villageFixture{
		col:        3,
		name:       models.StringCell("PARASUVAIKKAL"),
		stage:      "9(2) Published",
		published:  ptr(45000.0),
		days:       ptr(95.0),
		headSurvey: "Rema",
		sec92:      repeatCell(models.NumberCell(1), 13),
		sec13: append(
			repeatCell(models.NumberCell(0.5), 12),
			models.StringCell("Ready"),
		),
	}).build()

	v, ok := e.Village(sheet, 3, "A", l.VillageRow)
	require.True(t, ok)

	assert.Equal(t, "PARASUVAIKKAL-3", v.ID)
	assert.Equal(t, "A", v.District)
	assert.Equal(t, "Rema", v.HeadSurveyor)

	assert.Equal(t, 13, v.Sec92.TotalCount)
	assert.Len(t, v.Sec92.Items, v.Sec92.TotalCount)
	assert.Equal(t, 13, v.Sec92.CompletedCount)
	assert.Equal(t, 1.0, v.Sec92.Percent)
	// Full item completion does not complete the section before 13-publication.
	assert.Equal(t, models.StatusPending, v.Sec92.Status)

	assert.Equal(t, 13, v.Sec13.TotalCount)
	assert.Equal(t, 1, v.Sec13.CompletedCount)
	assert.InDelta(t, (12*0.5+1)/13.0, v.Sec13.Percent, 1e-12)
	assert.Equal(t, models.StatusPending, v.Sec13.Status)

	assert.InDelta(t, (v.Sec92.Percent+v.Sec13.Percent)/2, v.OverallPercent, 1e-12)
	assert.Equal(t, models.StatusPending, v.OverallStatus)

	assert.True(t, v.IsCritical)
	require.NotNil(t, v.PublishedDate)
	assert.Equal(t, "2023-03-15", *v.PublishedDate)
}

func TestVillageThirteenPublishedCompletesSections(t *testing.T) {
	e := defaultExtractor()
	l := DefaultLayout()
	sheet := districtGrid("A", villageFixture{
		col:   3,
		name:  models.StringCell("KEEZHATTINGAL"),
		stage: "Section 13 Published",
		sec92: repeatCell(models.NumberCell(0.2), 13),
	}).build()

	v, ok := e.Village(sheet, 3, "A", l.VillageRow)
	require.True(t, ok)
	assert.Equal(t, models.StatusCompleted, v.Sec92.Status)
	assert.Equal(t, models.StatusCompleted, v.Sec13.Status)
	assert.Equal(t, models.StatusCompleted, v.OverallStatus)
	assert.InDelta(t, 0.2, v.Sec92.Percent, 1e-12)
	assert.Nil(t, v.DaysPassedAfter92)
}

func TestVillageWithoutItemRows(t *testing.T) {
	e := defaultExtractor()
	sheet := newGrid("A").text(5, 2, "Village").text(5, 3, "SHORT").build()

	v, ok := e.Village(sheet, 3, "A", 5)
	require.True(t, ok)
	assert.Empty(t, v.Sec92.Items)
	assert.Equal(t, 0, v.Sec92.TotalCount)
	assert.Equal(t, 0.0, v.Sec92.Percent)
	assert.Equal(t, 0.0, v.OverallPercent)
}

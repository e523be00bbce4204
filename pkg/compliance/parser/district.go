package parser

import (
	"github.com/ukaji3/compliance-go/pkg/compliance/models"
)

// FindVillageRow returns the first row whose label column holds exactly the
// village identifier. found is false when the layout fallback row is used.
func (e *Extractor) FindVillageRow(sheet models.Sheet) (row int, found bool) {
	for r := range sheet.Rows {
		if s, ok := sheet.Cell(r, e.layout.LabelColumn).Text(); ok && s == e.layout.VillageIdentifier {
			return r, true
		}
	}
	return e.layout.VillageRow, false
}

// District assembles every village of a sheet. It returns false for excluded
// sheets and for sheets without a single village.
func (e *Extractor) District(sheet models.Sheet) (models.District, bool) {
	if IsExcludedSheet(sheet.Name, e.rules.ExcludedSheets) {
		return models.District{}, false
	}

	villageRow, _ := e.FindVillageRow(sheet)

	var villages []models.Village
	for col := e.layout.DataStartColumn; col < sheet.RowWidth(villageRow); col++ {
		if v, ok := e.Village(sheet, col, sheet.Name, villageRow); ok {
			villages = append(villages, v)
		}
	}
	if len(villages) == 0 {
		return models.District{}, false
	}

	var sum92, sum13 float64
	for _, v := range villages {
		sum92 += v.Sec92.Percent
		sum13 += v.Sec13.Percent
	}
	n := float64(len(villages))

	return models.District{
		Name:          sheet.Name,
		Villages:      villages,
		TotalVillages: len(villages),
		Avg92Percent:  sum92 / n,
		Avg13Percent:  sum13 / n,
	}, true
}

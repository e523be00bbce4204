package parser

import (
	"github.com/ukaji3/compliance-go/pkg/compliance/models"
)

// gridBuilder grows a sheet grid cell by cell.
type gridBuilder struct {
	sheet models.Sheet
}

func newGrid(name string) *gridBuilder {
	return &gridBuilder{sheet: models.Sheet{Name: name}}
}

func (g *gridBuilder) set(r, c int, cell models.Cell) *gridBuilder {
	for len(g.sheet.Rows) <= r {
		g.sheet.Rows = append(g.sheet.Rows, nil)
	}
	for len(g.sheet.Rows[r]) <= c {
		g.sheet.Rows[r] = append(g.sheet.Rows[r], models.Cell{})
	}
	g.sheet.Rows[r][c] = cell
	return g
}

func (g *gridBuilder) text(r, c int, s string) *gridBuilder {
	return g.set(r, c, models.StringCell(s))
}

func (g *gridBuilder) num(r, c int, f float64) *gridBuilder {
	return g.set(r, c, models.NumberCell(f))
}

func (g *gridBuilder) build() models.Sheet {
	return g.sheet
}

// villageFixture describes one village column under the default layout.
type villageFixture struct {
	col        int
	name       models.Cell
	stage      string
	published  *float64
	days       *float64
	headSurvey string
	sec92      []models.Cell
	sec13      []models.Cell
}

// districtGrid builds a sheet with item labels and the given village columns
// placed at the default layout positions.
func districtGrid(name string, villages ...villageFixture) *gridBuilder {
	l := DefaultLayout()
	g := newGrid(name)
	g.text(l.VillageRow, l.LabelColumn, l.VillageIdentifier)
	for r := l.Sec92.Start; r <= l.Sec92.End; r++ {
		g.text(r, l.LabelColumn, "9(2) item")
	}
	for r := l.Sec13.Start; r <= l.Sec13.End; r++ {
		g.text(r, l.LabelColumn, "13 item")
	}
	for _, v := range villages {
		g.set(l.VillageRow, v.col, v.name)
		if v.stage != "" {
			g.text(l.StageRow, v.col, v.stage)
		}
		if v.published != nil {
			g.num(l.PublishedDateRow, v.col, *v.published)
		}
		if v.days != nil {
			g.num(l.DaysPassedRow, v.col, *v.days)
		}
		if v.headSurvey != "" {
			g.text(l.HeadSurveyorRow, v.col, v.headSurvey)
		}
		for i, c := range v.sec92 {
			g.set(l.Sec92.Start+i, v.col, c)
		}
		for i, c := range v.sec13 {
			g.set(l.Sec13.Start+i, v.col, c)
		}
	}
	return g
}

func repeatCell(c models.Cell, n int) []models.Cell {
	cells := make([]models.Cell, n)
	for i := range cells {
		cells[i] = c
	}
	return cells
}

func ptr[T any](v T) *T {
	return &v
}

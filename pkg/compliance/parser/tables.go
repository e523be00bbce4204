package parser

import (
	"fmt"

	"github.com/ukaji3/compliance-go/pkg/compliance/models"
	"github.com/xuri/excelize/v2"
)

// SheetBounds describes the occupied region of a sheet.
type SheetBounds struct {
	// Range is the occupied region in A1 notation, e.g. "C2:F90".
	Range         string  `json:"range"`
	MinRow        int     `json:"min_row"`
	MaxRow        int     `json:"max_row"`
	MinCol        int     `json:"min_col"`
	MaxCol        int     `json:"max_col"`
	NonEmptyCells int     `json:"non_empty_cells"`
	Density       float64 `json:"density"`
}

// DetectBounds finds the bounding box of non-empty cells.
// Returns false for a sheet without any value.
func DetectBounds(sheet models.Sheet) (SheetBounds, bool) {
	minRow, maxRow, minCol, maxCol := findDataBounds(sheet.Rows)
	if minRow < 0 {
		return SheetBounds{}, false
	}

	nonEmpty := countNonEmptyCells(sheet.Rows, minRow, maxRow, minCol, maxCol)
	totalCells := (maxRow - minRow + 1) * (maxCol - minCol + 1)

	startCell, _ := excelize.CoordinatesToCellName(minCol+1, minRow+1)
	endCell, _ := excelize.CoordinatesToCellName(maxCol+1, maxRow+1)

	return SheetBounds{
		Range:         fmt.Sprintf("%s:%s", startCell, endCell),
		MinRow:        minRow,
		MaxRow:        maxRow,
		MinCol:        minCol,
		MaxCol:        maxCol,
		NonEmptyCells: nonEmpty,
		Density:       float64(nonEmpty) / float64(totalCells),
	}, true
}

// findDataBounds finds the bounding box of non-empty cells.
func findDataBounds(rows [][]models.Cell) (minRow, maxRow, minCol, maxCol int) {
	minRow, maxRow = -1, -1
	minCol, maxCol = -1, -1

	for rowIdx, row := range rows {
		for colIdx, cell := range row {
			if cell.IsEmpty() {
				continue
			}
			if minRow < 0 || rowIdx < minRow {
				minRow = rowIdx
			}
			if maxRow < 0 || rowIdx > maxRow {
				maxRow = rowIdx
			}
			if minCol < 0 || colIdx < minCol {
				minCol = colIdx
			}
			if maxCol < 0 || colIdx > maxCol {
				maxCol = colIdx
			}
		}
	}

	return
}

// countNonEmptyCells counts non-empty cells within bounds.
func countNonEmptyCells(rows [][]models.Cell, minRow, maxRow, minCol, maxCol int) int {
	count := 0
	for rowIdx := minRow; rowIdx <= maxRow && rowIdx < len(rows); rowIdx++ {
		row := rows[rowIdx]
		for colIdx := minCol; colIdx <= maxCol && colIdx < len(row); colIdx++ {
			if !row[colIdx].IsEmpty() {
				count++
			}
		}
	}
	return count
}

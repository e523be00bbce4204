package parser

import (
	"strconv"
	"strings"

	"github.com/ukaji3/compliance-go/pkg/compliance/models"
	"github.com/xuri/excelize/v2"
)

// ExtractSheet decodes the full cell grid of a sheet.
// Values are read raw (unformatted) so percentages and dates arrive as
// numbers; the stored cell type decides which Cell variant is produced.
func ExtractSheet(f *excelize.File, sheetName string) (models.Sheet, error) {
	sheet := models.Sheet{Name: sheetName}

	rows, err := f.GetRows(sheetName, excelize.Options{RawCellValue: true})
	if err != nil {
		return sheet, err
	}

	grid := make([][]models.Cell, len(rows))
	for rowIdx, row := range rows {
		cells := make([]models.Cell, len(row))
		for colIdx, raw := range row {
			if raw == "" {
				continue
			}
			cellName, err := excelize.CoordinatesToCellName(colIdx+1, rowIdx+1)
			if err != nil {
				continue
			}
			cellType, err := f.GetCellType(sheetName, cellName)
			if err != nil {
				cellType = excelize.CellTypeUnset
			}
			cells[colIdx] = typedValue(cellType, raw)
		}
		grid[rowIdx] = cells
	}
	sheet.Rows = grid

	return sheet, nil
}

// typedValue converts a raw cell string into a Cell using its stored type.
func typedValue(cellType excelize.CellType, raw string) models.Cell {
	switch cellType {
	case excelize.CellTypeSharedString, excelize.CellTypeInlineString,
		excelize.CellTypeFormula, excelize.CellTypeDate:
		return models.StringCell(raw)
	case excelize.CellTypeBool:
		if b, ok := parseBool(raw); ok {
			return models.BoolCell(b)
		}
		return models.StringCell(raw)
	case excelize.CellTypeError:
		return models.ErrorCell(raw)
	default:
		// Numbers are stored without a type attribute.
		if f, ok := parseFinite(raw); ok {
			return models.NumberCell(f)
		}
		return models.StringCell(raw)
	}
}

// parseValue infers a Cell from untyped text such as a CSV field.
// Returns a number for finite numerals (formatted ones included), a bool
// for TRUE/FALSE, or the original string.
func parseValue(s string) models.Cell {
	if s == "" {
		return models.Cell{}
	}
	trimmed := strings.TrimSpace(s)
	if f, ok := parseFinite(trimmed); ok {
		return models.NumberCell(f)
	}
	if f, ok := parseFormatted(trimmed); ok {
		return models.NumberCell(f)
	}
	switch strings.ToUpper(s) {
	case "TRUE":
		return models.BoolCell(true)
	case "FALSE":
		return models.BoolCell(false)
	}
	return models.StringCell(s)
}

// parseFinite parses a decimal number, rejecting NaN and infinities.
func parseFinite(s string) (float64, bool) {
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	if c := models.NumberCell(f); c.IsEmpty() {
		return 0, false
	}
	return f, true
}

// parseFormatted reads numerals that carry display formatting: commas
// between digits, dollar signs, percent signs (each one divides by 100)
// and accounting parentheses around a negative value.
func parseFormatted(s string) (float64, bool) {
	if !strings.ContainsAny(s, "0123456789") {
		return 0, false
	}

	var b strings.Builder
	scale := 1.0
	for i := 0; i < len(s); i++ {
		switch c := s[i]; {
		case c == ',' && i > 0 && i+1 < len(s) && isDigit(s[i-1]) && isDigit(s[i+1]):
		case c == '$':
		case c == '%':
			scale *= 100
		default:
			b.WriteByte(c)
		}
	}

	num := strings.TrimSpace(b.String())
	if f, ok := parseFinite(num); ok {
		return f / scale, true
	}
	if len(num) > 2 && num[0] == '(' && num[len(num)-1] == ')' {
		if f, ok := parseFinite(strings.TrimSpace(num[1 : len(num)-1])); ok {
			return -f / scale, true
		}
	}
	return 0, false
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

func parseBool(s string) (bool, bool) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "1", "TRUE":
		return true, true
	case "0", "FALSE":
		return false, true
	}
	return false, false
}

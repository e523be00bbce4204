package parser

import (
	"bytes"
	"encoding/csv"
	"errors"
	"io"
	"strings"

	"github.com/ukaji3/compliance-go/pkg/compliance/models"
)

// CSVSheetName is the name given to the only sheet of a CSV workbook.
const CSVSheetName = "Sheet1"

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// ReadCSV decodes CSV text into a single sheet.
// Blank lines are kept as empty rows so fixed row offsets stay aligned.
func ReadCSV(data []byte) (models.Sheet, error) {
	sheet := models.Sheet{Name: CSVSheetName}

	r := csv.NewReader(bytes.NewReader(bytes.TrimPrefix(data, utf8BOM)))
	r.FieldsPerRecord = -1
	r.LazyQuotes = true

	var rows [][]models.Cell
	lastLine := 0
	for {
		record, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return sheet, err
		}

		startLine, _ := r.FieldPos(0)
		for gap := startLine - lastLine - 1; gap > 0; gap-- {
			rows = append(rows, nil)
		}
		endLine, _ := r.FieldPos(len(record) - 1)
		lastLine = endLine + strings.Count(record[len(record)-1], "\n")

		rows = append(rows, recordCells(record))
	}
	sheet.Rows = rows

	return sheet, nil
}

// recordCells converts one CSV record, dropping trailing empty fields.
func recordCells(record []string) []models.Cell {
	end := len(record)
	for end > 0 && record[end-1] == "" {
		end--
	}
	cells := make([]models.Cell, end)
	for i := 0; i < end; i++ {
		cells[i] = parseValue(record[i])
	}
	return cells
}

package compliance

import (
	"bytes"
	"fmt"
	"os"
	"unicode/utf8"

	"github.com/ukaji3/compliance-go/pkg/compliance/models"
	"github.com/ukaji3/compliance-go/pkg/compliance/parser"
	"github.com/xuri/excelize/v2"
)

var zipMagic = []byte("PK\x03\x04")

// Parse decodes a workbook buffer (xlsx or CSV) and returns its districts in
// sheet order. It fails only when the buffer is not a workbook at all; every
// other irregularity degrades to skipping the sheet, column or row.
func Parse(buf []byte, opts Options) (models.DistrictList, error) {
	wb, err := Decode(buf)
	if err != nil {
		return nil, err
	}
	return Districts(wb, opts), nil
}

// ParseFile reads and parses the workbook at path.
func ParseFile(path string, opts Options) (models.DistrictList, error) {
	buf, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrFileNotFound, path)
		}
		return nil, err
	}
	return Parse(buf, opts)
}

// Decode turns a buffer into a sheet grid. Errors are *ParseError.
func Decode(buf []byte) (models.Workbook, error) {
	switch {
	case len(buf) == 0:
		return models.Workbook{}, NewParseError(ErrEmptyWorkbook)
	case bytes.HasPrefix(buf, zipMagic):
		return decodeXLSX(buf)
	case utf8.Valid(buf):
		sheet, err := parser.ReadCSV(buf)
		if err != nil {
			return models.Workbook{}, NewParseError(err)
		}
		return models.Workbook{Sheets: []models.Sheet{sheet}}, nil
	default:
		return models.Workbook{}, NewParseError(ErrInvalidFormat)
	}
}

func decodeXLSX(buf []byte) (models.Workbook, error) {
	f, err := excelize.OpenReader(bytes.NewReader(buf))
	if err != nil {
		return models.Workbook{}, NewParseError(err)
	}
	defer f.Close()

	var wb models.Workbook
	for _, sheetName := range f.GetSheetList() {
		sheet, err := parser.ExtractSheet(f, sheetName)
		if err != nil {
			// An unreadable sheet contributes no rows and therefore no district.
			sheet = models.Sheet{Name: sheetName}
		}
		wb.Sheets = append(wb.Sheets, sheet)
	}

	return wb, nil
}

// Districts assembles the districts of a decoded workbook. Sheets before
// opts.FirstSheetIndex, excluded sheets and sheets without villages are
// skipped.
func Districts(wb models.Workbook, opts Options) models.DistrictList {
	extractor := parser.NewExtractor(opts.Layout, opts.Rules)

	districts := models.DistrictList{}
	for i := opts.FirstSheetIndex; i < len(wb.Sheets); i++ {
		if d, ok := extractor.District(wb.Sheets[i]); ok {
			districts = append(districts, d)
		}
	}
	return districts
}

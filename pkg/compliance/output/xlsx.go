package output

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/ukaji3/compliance-go/pkg/compliance/models"
)

// Sheet names of generated workbooks.
const (
	VillagesSheet = "Villages"
	SummarySheet  = "Summary"
)

// WriteXLSX writes one section of the villages as a single-sheet workbook.
func WriteXLSX(w io.Writer, villages []models.Village, key models.SectionKey) error {
	return writeTableXLSX(w, VillagesSheet, BuildTable(villages, key))
}

// WriteSummaryXLSX writes the per-district summary workbook.
func WriteSummaryXLSX(w io.Writer, districts models.DistrictList) error {
	return writeTableXLSX(w, SummarySheet, SummaryTable(districts))
}

func writeTableXLSX(w io.Writer, sheet string, t Table) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return fmt.Errorf("failed to name sheet: %w", err)
	}

	if err := setRow(f, sheet, 1, t.Header); err != nil {
		return err
	}
	for i, row := range t.Rows {
		if err := setRow(f, sheet, i+2, row); err != nil {
			return err
		}
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

func setRow(f *excelize.File, sheet string, row int, values []string) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	vals := make([]interface{}, len(values))
	for i, v := range values {
		vals[i] = v
	}
	if err := f.SetSheetRow(sheet, cell, &vals); err != nil {
		return fmt.Errorf("failed to write row %d: %w", row, err)
	}
	return nil
}

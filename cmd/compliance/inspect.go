package main

import (
	"fmt"
	"io"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/ukaji3/compliance-go/internal/source"
	"github.com/ukaji3/compliance-go/pkg/compliance"
	"github.com/ukaji3/compliance-go/pkg/compliance/models"
	"github.com/ukaji3/compliance-go/pkg/compliance/parser"
)

var inspectSheet string

var inspectCmd = &cobra.Command{
	Use:   "inspect <file>",
	Short: "Show how each sheet maps onto the checklist layout",
	Long: `Reports, per sheet, whether it is parsed, where the village row was found,
the occupied cell range, and how many item rows of each section carry labels.
Use it to check a workbook whose districts come out empty.`,
	Args: cobra.ExactArgs(1),
	RunE: runInspect,
}

func init() {
	inspectCmd.Flags().StringVar(&inspectSheet, "sheet", "", "Only inspect the named sheet")
}

// SheetReport describes how one sheet lines up with the layout.
type SheetReport struct {
	Index       int
	Name        string
	Status      string
	VillageRow  int
	RowFound    bool
	Bounds      string
	Density     float64
	Villages    int
	Sec92Labels int
	Sec13Labels int
}

func runInspect(cmd *cobra.Command, args []string) error {
	buf, err := source.ReadFile(args[0])
	if err != nil {
		return err
	}
	wb, err := compliance.Decode(buf)
	if err != nil {
		return err
	}

	reports := inspectWorkbook(wb, parseOptions(), inspectSheet)
	if inspectSheet != "" && len(reports) == 0 {
		return fmt.Errorf("sheet %q not found (sheets: %v)", inspectSheet, wb.SheetNames())
	}
	renderInspect(cmd.OutOrStdout(), reports)
	return nil
}

func inspectWorkbook(wb models.Workbook, opts compliance.Options, only string) []SheetReport {
	extractor := parser.NewExtractor(opts.Layout, opts.Rules)

	var reports []SheetReport
	for i, sheet := range wb.Sheets {
		if only != "" && sheet.Name != only {
			continue
		}
		r := SheetReport{Index: i, Name: sheet.Name, Bounds: "-"}
		r.VillageRow, r.RowFound = extractor.FindVillageRow(sheet)
		if b, ok := parser.DetectBounds(sheet); ok {
			r.Bounds = b.Range
			r.Density = b.Density
		}
		r.Sec92Labels = countLabels(sheet, opts.Layout.LabelColumn, opts.Layout.Sec92)
		r.Sec13Labels = countLabels(sheet, opts.Layout.LabelColumn, opts.Layout.Sec13)

		switch {
		case i < opts.FirstSheetIndex:
			r.Status = "skipped (guideline)"
		case parser.IsExcludedSheet(sheet.Name, opts.Rules.ExcludedSheets):
			r.Status = "excluded"
		default:
			if d, ok := extractor.District(sheet); ok {
				r.Villages = d.TotalVillages
				r.Status = "parsed"
			} else {
				r.Status = "no villages"
			}
		}
		reports = append(reports, r)
	}
	return reports
}

func countLabels(sheet models.Sheet, labelCol int, rows parser.RowRange) int {
	n := 0
	for r := rows.Start; r <= rows.End; r++ {
		if !sheet.Cell(r, labelCol).IsEmpty() {
			n++
		}
	}
	return n
}

func renderInspect(w io.Writer, reports []SheetReport) {
	rows := make([][]string, 0, len(reports))
	for _, r := range reports {
		villageRow := strconv.Itoa(r.VillageRow + 1)
		if !r.RowFound {
			villageRow += " (fallback)"
		}
		rows = append(rows, []string{
			strconv.Itoa(r.Index),
			r.Name,
			r.Status,
			villageRow,
			r.Bounds,
			fmt.Sprintf("%.0f%%", r.Density*100),
			strconv.Itoa(r.Villages),
			strconv.Itoa(r.Sec92Labels),
			strconv.Itoa(r.Sec13Labels),
		})
	}
	fmt.Fprintln(w, newTable(
		[]string{"#", "Sheet", "Status", "Village row", "Range", "Density", "Villages", "9(2) labels", "13 labels"},
		rows, 0, 5, 6, 7, 8))
}

package main

import (
	"fmt"
	"io"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/ukaji3/compliance-go/internal/source"
	"github.com/ukaji3/compliance-go/pkg/compliance"
	"github.com/ukaji3/compliance-go/pkg/compliance/models"
	"github.com/ukaji3/compliance-go/pkg/compliance/output"
	"github.com/ukaji3/compliance-go/pkg/compliance/stats"
)

var (
	summarySection  string
	summaryDistrict string
	summaryCritical int
)

var summaryCmd = &cobra.Command{
	Use:   "summary <file>",
	Short: "Print district averages and headline numbers",
	Args:  cobra.ExactArgs(1),
	RunE:  runSummary,
}

func init() {
	summaryCmd.Flags().StringVar(&summarySection, "section", "92", "Section for status counts: 92 or 13")
	summaryCmd.Flags().StringVar(&summaryDistrict, "district", "", "Limit counts to one district")
	summaryCmd.Flags().IntVar(&summaryCritical, "critical", 10, "Number of critical villages to list")
}

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39"))
	headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
	numberStyle = cellStyle.Align(lipgloss.Right)
	warnStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("203"))
	mutedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
)

func runSummary(cmd *cobra.Command, args []string) error {
	section, err := models.ParseSectionKey(summarySection)
	if err != nil {
		return err
	}

	buf, err := source.ReadFile(args[0])
	if err != nil {
		return err
	}
	districts, err := compliance.Parse(buf, parseOptions())
	if err != nil {
		return err
	}

	renderSummary(cmd.OutOrStdout(), districts, stats.Selection{District: summaryDistrict, Section: section}, summaryCritical)
	return nil
}

func renderSummary(w io.Writer, districts models.DistrictList, sel stats.Selection, criticalLimit int) {
	if len(districts) == 0 {
		fmt.Fprintln(w, mutedStyle.Render("No districts found."))
		return
	}

	rows := make([][]string, 0, len(districts))
	for _, d := range districts {
		rows = append(rows, []string{
			d.Name,
			strconv.Itoa(d.TotalVillages),
			output.FormatPercent(d.Avg92Percent),
			output.FormatPercent(d.Avg13Percent),
		})
	}
	fmt.Fprintln(w, titleStyle.Render("Districts"))
	fmt.Fprintln(w, newTable([]string{"District", "Villages", "Avg 9(2)", "Avg 13"}, rows, 1, 2, 3))

	s := stats.Summarize(districts, sel)
	scope := "all districts"
	if sel.District != "" {
		scope = sel.District
	}
	fmt.Fprintf(w, "%s  %d villages in %s, avg %s %s, %d completed, %d pending\n",
		titleStyle.Render("Section "+string(s.Section)),
		s.Villages, scope, string(s.Section), output.FormatPercent(s.AvgPercent), s.Completed, s.Pending)

	critical := stats.CriticalVillages(districts)
	if len(critical) == 0 {
		return
	}
	fmt.Fprintln(w, warnStyle.Render(fmt.Sprintf("%d critical villages", len(critical))))
	if criticalLimit > 0 && len(critical) > criticalLimit {
		critical = critical[:criticalLimit]
	}
	rows = rows[:0]
	for _, cv := range critical {
		published := "-"
		if cv.PublishedDate != nil {
			published = *cv.PublishedDate
		}
		rows = append(rows, []string{
			cv.Name, cv.District, cv.HeadSurveyor,
			strconv.FormatFloat(cv.DaysPassedAfter92, 'f', -1, 64), published,
		})
	}
	fmt.Fprintln(w, newTable([]string{"Village", "District", "Head Surveyor", "Days", "Published"}, rows, 3))
}

// newTable renders rows with right-aligned numeric columns.
func newTable(headers []string, rows [][]string, numericCols ...int) string {
	numeric := make(map[int]bool, len(numericCols))
	for _, c := range numericCols {
		numeric[c] = true
	}
	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(mutedStyle).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return headerStyle
			case numeric[col]:
				return numberStyle
			default:
				return cellStyle
			}
		}).
		Headers(headers...).
		Rows(rows...)
	return t.String()
}

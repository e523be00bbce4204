package output

import (
	"encoding/csv"
	"io"

	"github.com/ukaji3/compliance-go/pkg/compliance/models"
)

// WriteCSV writes one section of the villages as CSV.
func WriteCSV(w io.Writer, villages []models.Village, key models.SectionKey) error {
	return writeTableCSV(w, BuildTable(villages, key))
}

func writeTableCSV(w io.Writer, t Table) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(t.Header); err != nil {
		return err
	}
	if err := cw.WriteAll(t.Rows); err != nil {
		return err
	}
	return cw.Error()
}

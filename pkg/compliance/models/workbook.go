package models

// Workbook is the ordered list of decoded sheets of one input buffer.
type Workbook struct {
	// Sheets keeps workbook order; index 0 is the first tab.
	Sheets []Sheet `json:"sheets"`
}

// SheetNames returns sheet names in workbook order.
func (w Workbook) SheetNames() []string {
	names := make([]string, len(w.Sheets))
	for i, s := range w.Sheets {
		names[i] = s.Name
	}
	return names
}

package models

// Sheet is the decoded cell grid of a single worksheet.
// Row and column indices are 0-based.
type Sheet struct {
	// Name is the worksheet name.
	Name string `json:"name"`
	// Rows holds one slice per row; trailing empty cells may be absent.
	Rows [][]Cell `json:"rows,omitempty"`
}

// HasRow reports whether row r lies inside the decoded grid.
func (s Sheet) HasRow(r int) bool {
	return r >= 0 && r < len(s.Rows)
}

// RowWidth returns the number of decoded cells in row r (0 if absent).
func (s Sheet) RowWidth(r int) int {
	if !s.HasRow(r) {
		return 0
	}
	return len(s.Rows[r])
}

// Cell returns the cell at (r, c). Out-of-range positions read as empty.
func (s Sheet) Cell(r, c int) Cell {
	if !s.HasRow(r) || c < 0 || c >= len(s.Rows[r]) {
		return Cell{}
	}
	return s.Rows[r][c]
}

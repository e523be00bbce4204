// Package models defines data structures for compliance workbook extraction.
package models

import (
	"encoding/json"
	"math"
	"strconv"
)

// CellKind identifies which variant a Cell holds.
type CellKind int

const (
	// KindEmpty is a blank or missing cell.
	KindEmpty CellKind = iota
	// KindNumber is a finite numeric cell (dates arrive as serial numbers).
	KindNumber
	// KindString is a text cell.
	KindString
	// KindBool is a boolean cell.
	KindBool
	// KindError is a spreadsheet error marker such as #REF! or #N/A.
	KindError
)

// String returns the kind name.
func (k CellKind) String() string {
	switch k {
	case KindNumber:
		return "number"
	case KindString:
		return "string"
	case KindBool:
		return "bool"
	case KindError:
		return "error"
	default:
		return "empty"
	}
}

// Cell is a single decoded spreadsheet value.
// Exactly one of Num, Str, Bool is meaningful, selected by Kind.
// Error cells keep their code in Str.
type Cell struct {
	Kind CellKind
	Num  float64
	Str  string
	Bool bool
}

// NumberCell returns a numeric cell. Non-finite values decode as empty.
func NumberCell(f float64) Cell {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return Cell{}
	}
	return Cell{Kind: KindNumber, Num: f}
}

// StringCell returns a text cell.
func StringCell(s string) Cell {
	return Cell{Kind: KindString, Str: s}
}

// BoolCell returns a boolean cell.
func BoolCell(b bool) Cell {
	return Cell{Kind: KindBool, Bool: b}
}

// ErrorCell returns an error-marker cell carrying code.
func ErrorCell(code string) Cell {
	return Cell{Kind: KindError, Str: code}
}

// IsEmpty reports whether the cell holds no value.
func (c Cell) IsEmpty() bool {
	return c.Kind == KindEmpty
}

// Number returns the numeric value when the cell is a finite number.
func (c Cell) Number() (float64, bool) {
	if c.Kind != KindNumber {
		return 0, false
	}
	return c.Num, true
}

// Text returns the text when the cell is a string cell.
func (c Cell) Text() (string, bool) {
	if c.Kind != KindString {
		return "", false
	}
	return c.Str, true
}

// String renders the cell the way a spreadsheet would display its raw value.
func (c Cell) String() string {
	switch c.Kind {
	case KindNumber:
		return strconv.FormatFloat(c.Num, 'f', -1, 64)
	case KindString, KindError:
		return c.Str
	case KindBool:
		if c.Bool {
			return "true"
		}
		return "false"
	default:
		return ""
	}
}

// MarshalJSON encodes the cell as its natural JSON scalar.
func (c Cell) MarshalJSON() ([]byte, error) {
	switch c.Kind {
	case KindNumber:
		return json.Marshal(c.Num)
	case KindString, KindError:
		return json.Marshal(c.Str)
	case KindBool:
		return json.Marshal(c.Bool)
	default:
		return []byte("null"), nil
	}
}

// UnmarshalJSON decodes a JSON scalar back into a cell. Error markers
// round-trip as strings.
func (c *Cell) UnmarshalJSON(data []byte) error {
	var v interface{}
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	switch x := v.(type) {
	case float64:
		*c = NumberCell(x)
	case string:
		*c = StringCell(x)
	case bool:
		*c = BoolCell(x)
	default:
		*c = Cell{}
	}
	return nil
}

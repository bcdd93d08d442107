package ingest

import "strings"

// Cell is one spreadsheet cell: either absent or a string.
type Cell struct {
	String string
	Valid  bool
}

var placeholders = map[string]bool{"nan": true, "none": true, "nat": true}

// NewCell treats the empty string as absent.
func NewCell(s string) Cell {
	return Cell{String: s, Valid: s != ""}
}

// Cells builds a row from literal values.
func Cells(values ...string) []Cell {
	row := make([]Cell, len(values))
	for i, value := range values {
		row[i] = NewCell(value)
	}
	return row
}

// Text is the trimmed value; absent cells and placeholder tokens yield "".
func (c Cell) Text() string {
	if !c.Valid {
		return ""
	}
	text := strings.TrimSpace(c.String)
	if placeholders[strings.ToLower(text)] {
		return ""
	}
	return text
}

func (c Cell) folded() string {
	return strings.ToLower(strings.TrimSpace(c.String))
}

func cellAt(row []Cell, index int) Cell {
	if index < 0 || index >= len(row) {
		return Cell{}
	}
	return row[index]
}

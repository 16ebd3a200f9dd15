package dataset

// Frame is an ordered collection of named columns and rows of cells.
type Frame struct {
	Columns []string
	Rows    [][]Cell
}

// New creates an empty frame with the given column labels.
func New(columns ...string) *Frame {
	return &Frame{Columns: append([]string(nil), columns...)}
}

// Empty reports whether the frame is nil or holds no rows.
func (f *Frame) Empty() bool {
	return f == nil || len(f.Rows) == 0
}

// ColumnIndex returns the position of the named column, or -1 when absent.
func (f *Frame) ColumnIndex(name string) int {
	for i, c := range f.Columns {
		if c == name {
			return i
		}
	}
	return -1
}

// HasColumn reports whether the named column exists.
func (f *Frame) HasColumn(name string) bool {
	return f.ColumnIndex(name) >= 0
}

// RenameColumn renames the first column labelled old to newName and reports
// whether a rename happened.
func (f *Frame) RenameColumn(old, newName string) bool {
	i := f.ColumnIndex(old)
	if i < 0 {
		return false
	}
	f.Columns[i] = newName
	return true
}

// AppendRow adds a row, padding short rows with null cells and truncating
// long ones so every row matches the column count.
func (f *Frame) AppendRow(cells []Cell) {
	row := make([]Cell, len(f.Columns))
	copy(row, cells)
	f.Rows = append(f.Rows, row)
}

// Cell returns the value at (row, column index), treating out-of-range
// positions as null. A negative column index is the "column absent" case.
func (f *Frame) Cell(row, col int) Cell {
	if col < 0 || row < 0 || row >= len(f.Rows) || col >= len(f.Rows[row]) {
		return Null()
	}
	return f.Rows[row][col]
}

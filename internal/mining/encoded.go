package mining

import (
	"slices"

	"github.com/roach88/apriori/internal/dataset"
	"github.com/roach88/apriori/internal/symbol"
)

// EncodedTable is a dense rows x cols grid of symbol codes.
// Rows are only ever removed, and removal yields a new table.
type EncodedTable struct {
	cols  int
	cells []uint32
}

// EncodeTable encodes every cell of t as attribute=value.
// The table must already be valid; numeric attributes must be binned.
func EncodeTable(symbols *symbol.Table, t *dataset.Table) (*EncodedTable, error) {
	cols := len(t.Attributes)
	for _, a := range t.Attributes {
		if a.Kind == dataset.Numeric {
			return nil, newConfigError("", "attribute %q is numeric and must be binned before mining", a.Name)
		}
	}

	e := &EncodedTable{cols: cols, cells: make([]uint32, 0, len(t.Rows)*cols)}
	for i, r := range t.Rows {
		if len(r) != cols {
			return nil, newConfigError("", "row %d has %d values, want %d", i, len(r), cols)
		}
		for c, v := range r {
			e.cells = append(e.cells, symbols.Encode(t.Attributes[c].Name, v))
		}
	}
	return e, nil
}

// Rows returns the number of rows.
func (e *EncodedTable) Rows() int {
	if e.cols == 0 {
		return 0
	}
	return len(e.cells) / e.cols
}

// Cols returns the number of columns.
func (e *EncodedTable) Cols() int {
	return e.cols
}

// Row returns row i. Callers must not modify it.
func (e *EncodedTable) Row(i int) []uint32 {
	return e.cells[i*e.cols : (i+1)*e.cols]
}

// Contains reports whether row i holds every code in items, in any column.
func (e *EncodedTable) Contains(i int, items []uint32) bool {
	row := e.Row(i)
	for _, code := range items {
		if !slices.Contains(row, code) {
			return false
		}
	}
	return true
}

// Keep returns a new table holding the rows whose mark is set, in order.
func (e *EncodedTable) Keep(marks []bool) *EncodedTable {
	k := &EncodedTable{cols: e.cols}
	for i, keep := range marks {
		if keep {
			k.cells = append(k.cells, e.Row(i)...)
		}
	}
	return k
}

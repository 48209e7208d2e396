package dataset

import (
	"fmt"
	"slices"
)

// DropMissing returns a copy of t without the rows that contain Missing.
func (t *Table) DropMissing() *Table {
	return t.filterRows(func(r []string) bool {
		return !slices.Contains(r, Missing)
	})
}

// FillMissing returns a copy of t where every Missing cell holds Undefined.
// Undefined is appended to the domain of each attribute that needed it.
func (t *Table) FillMissing() *Table {
	c := t.Clone()
	filled := make([]bool, len(c.Attributes))
	for _, r := range c.Rows {
		for i, v := range r {
			if v == Missing {
				r[i] = Undefined
				filled[i] = true
			}
		}
	}
	for i, f := range filled {
		a := &c.Attributes[i]
		if f && a.Kind != Numeric && !a.Has(Undefined) {
			a.Values = append(a.Values, Undefined)
		}
	}
	return c
}

// RemoveUnusedValues returns a copy of t whose nominal and ranged domains
// only list values that occur in at least one row.
func (t *Table) RemoveUnusedValues() *Table {
	c := t.Clone()
	for i := range c.Attributes {
		a := &c.Attributes[i]
		if a.Kind == Numeric {
			continue
		}
		used := make(map[string]bool)
		for _, r := range c.Rows {
			if i < len(r) {
				used[r[i]] = true
			}
		}
		a.Values = slices.DeleteFunc(a.Values, func(v string) bool { return !used[v] })
	}
	return c
}

// RemoveRowsWhere returns a copy of t without the rows whose attribute
// equals value.
func (t *Table) RemoveRowsWhere(attribute, value string) (*Table, error) {
	idx := t.Index(attribute)
	if idx < 0 {
		return nil, fmt.Errorf("unknown attribute %q", attribute)
	}
	return t.filterRows(func(r []string) bool {
		return r[idx] != value
	}), nil
}

// Subset returns a copy of t holding rows [start, end).
func (t *Table) Subset(start, end int) (*Table, error) {
	if start < 0 || end > len(t.Rows) || start > end {
		return nil, fmt.Errorf("subset [%d, %d) out of range for %d rows", start, end, len(t.Rows))
	}
	c := t.Clone()
	c.Rows = c.Rows[start:end]
	return c, nil
}

func (t *Table) filterRows(keep func([]string) bool) *Table {
	c := t.Clone()
	rows := c.Rows[:0]
	for _, r := range c.Rows {
		if keep(r) {
			rows = append(rows, r)
		}
	}
	c.Rows = rows
	return c
}

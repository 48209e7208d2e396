package dataset

import (
	"fmt"
	"slices"
)

// Reserved cell values.
const (
	// Missing marks an absent value in ARFF data.
	Missing = "?"

	// Undefined is the sentinel that replaces missing values when they are
	// kept for mining. It is encoded like any other value.
	Undefined = "UNDEFINED"
)

// Kind classifies an attribute's domain.
type Kind int

const (
	// Nominal attributes enumerate their values.
	Nominal Kind = iota
	// Ranged attributes enumerate "[l<->u]" range values produced by binning.
	Ranged
	// Numeric attributes carry raw numbers and must be binned before mining.
	Numeric
)

// String returns the lower-case name of the kind.
func (k Kind) String() string {
	switch k {
	case Nominal:
		return "nominal"
	case Ranged:
		return "ranged"
	case Numeric:
		return "numeric"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Attribute is one column of the header.
type Attribute struct {
	Name   string
	Kind   Kind
	Values []string // declared domain; empty for Numeric
}

// Has reports whether value is part of the declared domain.
func (a Attribute) Has(value string) bool {
	return slices.Contains(a.Values, value)
}

// Table is an in-memory categorical relation.
type Table struct {
	Relation   string
	Attributes []Attribute
	Rows       [][]string
}

// Clone returns a deep copy of t.
func (t *Table) Clone() *Table {
	c := &Table{
		Relation:   t.Relation,
		Attributes: make([]Attribute, len(t.Attributes)),
		Rows:       make([][]string, len(t.Rows)),
	}
	for i, a := range t.Attributes {
		a.Values = slices.Clone(a.Values)
		c.Attributes[i] = a
	}
	for i, r := range t.Rows {
		c.Rows[i] = slices.Clone(r)
	}
	return c
}

// Index returns the position of the named attribute, or -1.
func (t *Table) Index(name string) int {
	for i, a := range t.Attributes {
		if a.Name == name {
			return i
		}
	}
	return -1
}

// Names returns the attribute names in header order.
func (t *Table) Names() []string {
	names := make([]string, len(t.Attributes))
	for i, a := range t.Attributes {
		names[i] = a.Name
	}
	return names
}

// Validate checks the table's shape: at least one attribute, unique
// attribute names, and every row as wide as the header.
func (t *Table) Validate() error {
	if len(t.Attributes) == 0 {
		return fmt.Errorf("relation %q has no attributes", t.Relation)
	}

	seen := make(map[string]bool, len(t.Attributes))
	for _, a := range t.Attributes {
		if a.Name == "" {
			return fmt.Errorf("relation %q has an unnamed attribute", t.Relation)
		}
		if seen[a.Name] {
			return fmt.Errorf("relation %q declares attribute %q twice", t.Relation, a.Name)
		}
		seen[a.Name] = true
	}

	for i, r := range t.Rows {
		if len(r) != len(t.Attributes) {
			return fmt.Errorf("row %d has %d values, want %d", i, len(r), len(t.Attributes))
		}
	}
	return nil
}

// ValidateDomains checks that every non-missing cell of a non-numeric
// attribute belongs to the declared domain.
func (t *Table) ValidateDomains() error {
	if err := t.Validate(); err != nil {
		return err
	}
	for i, r := range t.Rows {
		for c, v := range r {
			a := t.Attributes[c]
			if a.Kind == Numeric || v == Missing {
				continue
			}
			if !a.Has(v) {
				return fmt.Errorf("row %d: value %q is not in the domain of %q", i, v, a.Name)
			}
		}
	}
	return nil
}

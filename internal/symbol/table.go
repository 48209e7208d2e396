package symbol

import "fmt"

// Domain is the declared value set of one attribute.
type Domain struct {
	Name   string
	Values []string
}

// Symbol is one encoded attribute value.
type Symbol struct {
	Code      uint32
	Text      string
	Attribute int // index of the owning attribute in the header
}

// Table is the immutable vocabulary of a mining run.
type Table struct {
	hasher  Hasher
	symbols []Symbol
	byCode  map[uint32]int
	byText  map[string]int
	names   []string
}

// Build encodes every declared value of every domain.
//
// Symbols keep declaration order: attributes in header order, values in
// domain order. A text declared twice is stored once. If two distinct texts
// share a code, Build returns a *CollisionError and no table.
func Build(domains []Domain, h Hasher) (*Table, error) {
	if h == nil {
		h = NewMurmur()
	}

	t := &Table{
		hasher: h,
		byCode: make(map[uint32]int),
		byText: make(map[string]int),
		names:  make([]string, len(domains)),
	}

	for a, d := range domains {
		t.names[a] = d.Name
		for _, v := range d.Values {
			text := Text(d.Name, v)
			if _, seen := t.byText[text]; seen {
				continue
			}
			t.byText[text] = len(t.symbols)
			t.symbols = append(t.symbols, Symbol{
				Code:      h.Sum32(text),
				Text:      text,
				Attribute: a,
			})
		}
	}

	if err := t.checkCollisions(); err != nil {
		return nil, err
	}

	for i, s := range t.symbols {
		t.byCode[s.Code] = i
	}
	return t, nil
}

// checkCollisions reports the first pair of symbols sharing a code.
func (t *Table) checkCollisions() error {
	seen := make(map[uint32]int, len(t.symbols))
	for i, s := range t.symbols {
		if j, ok := seen[s.Code]; ok {
			return &CollisionError{Code: s.Code, First: t.symbols[j].Text, Second: s.Text}
		}
		seen[s.Code] = i
	}
	return nil
}

// Encode returns the code of attribute=value under the table's hasher.
// The value need not be declared; undeclared values simply match no symbol.
func (t *Table) Encode(attribute, value string) uint32 {
	return t.hasher.Sum32(Text(attribute, value))
}

// Lookup returns the symbol with the given code.
func (t *Table) Lookup(code uint32) (Symbol, bool) {
	i, ok := t.byCode[code]
	if !ok {
		return Symbol{}, false
	}
	return t.symbols[i], true
}

// Contains reports whether code belongs to a declared symbol.
func (t *Table) Contains(code uint32) bool {
	_, ok := t.byCode[code]
	return ok
}

// TextOf resolves a code back to its text.
// Unknown codes render as "#<code>" so reports never hide them.
func (t *Table) TextOf(code uint32) string {
	if s, ok := t.Lookup(code); ok {
		return s.Text
	}
	return fmt.Sprintf("#%d", code)
}

// AttributeOf returns the attribute index of code, or -1 if unknown.
func (t *Table) AttributeOf(code uint32) int {
	if s, ok := t.Lookup(code); ok {
		return s.Attribute
	}
	return -1
}

// SameAttribute reports whether two codes share their attribute prefix,
// the text up to and including the first '='. An attribute whose name holds
// '=' therefore collides with the attribute named by its leading part.
// Unknown codes never share an attribute with anything.
func (t *Table) SameAttribute(a, b uint32) bool {
	sa, ok := t.Lookup(a)
	if !ok {
		return false
	}
	sb, ok := t.Lookup(b)
	if !ok {
		return false
	}
	return Prefix(sa.Text) == Prefix(sb.Text)
}

// Symbols returns the symbols in declaration order. Callers must not modify it.
func (t *Table) Symbols() []Symbol {
	return t.symbols
}

// Len returns the number of distinct symbols.
func (t *Table) Len() int {
	return len(t.symbols)
}

// Attributes returns the attribute names in header order.
func (t *Table) Attributes() []string {
	return t.names
}

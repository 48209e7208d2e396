package dataset

import (
	"fmt"
	"slices"
	"strings"
)

// MissingMode selects how Prepare treats Missing cells.
type MissingMode string

const (
	// MissingKeep leaves "?" cells as they are; they match no symbol.
	MissingKeep MissingMode = "keep"
	// MissingDrop removes rows holding "?".
	MissingDrop MissingMode = "drop"
	// MissingFill replaces "?" with Undefined.
	MissingFill MissingMode = "fill"
)

// ParseMissingMode parses keep, drop or fill. The empty string means keep.
func ParseMissingMode(s string) (MissingMode, error) {
	switch m := MissingMode(strings.ToLower(s)); m {
	case "":
		return MissingKeep, nil
	case MissingKeep, MissingDrop, MissingFill:
		return m, nil
	default:
		return "", fmt.Errorf("invalid missing mode %q (valid: keep, drop, fill)", s)
	}
}

// PrepareOptions configures Prepare.
type PrepareOptions struct {
	Missing MissingMode
	// Bins maps numeric attribute names to range widths.
	Bins map[string]int
}

// Prepare applies missing-value handling and then bins numeric attributes,
// in attribute-name order. The receiver is not modified.
func (t *Table) Prepare(opts PrepareOptions) (*Table, error) {
	out := t
	switch opts.Missing {
	case "", MissingKeep:
		out = t.Clone()
	case MissingDrop:
		out = t.DropMissing()
	case MissingFill:
		out = t.FillMissing()
	default:
		return nil, fmt.Errorf("invalid missing mode %q", opts.Missing)
	}

	names := make([]string, 0, len(opts.Bins))
	for name := range opts.Bins {
		names = append(names, name)
	}
	slices.Sort(names)

	for _, name := range names {
		binned, err := out.BinAttribute(name, opts.Bins[name])
		if err != nil {
			return nil, err
		}
		out = binned
	}
	return out, nil
}

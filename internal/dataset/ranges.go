package dataset

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

const (
	rangeOpen  = "["
	rangeDelim = "<->"
	rangeClose = "]"
)

// Range is a closed integer interval used as a categorical value.
type Range struct {
	Lower int
	Upper int
}

// String renders the range as "[l<->u]".
func (r Range) String() string {
	return rangeOpen + strconv.Itoa(r.Lower) + rangeDelim + strconv.Itoa(r.Upper) + rangeClose
}

// Contains reports whether v lies in [Lower, Upper].
func (r Range) Contains(v int) bool {
	return v >= r.Lower && v <= r.Upper
}

// ParseRange parses the "[l<->u]" form.
func ParseRange(s string) (Range, error) {
	if !strings.HasPrefix(s, rangeOpen) || !strings.HasSuffix(s, rangeClose) {
		return Range{}, fmt.Errorf("range %q: missing brackets", s)
	}
	body := s[len(rangeOpen) : len(s)-len(rangeClose)]
	lo, hi, ok := strings.Cut(body, rangeDelim)
	if !ok {
		return Range{}, fmt.Errorf("range %q: missing %q", s, rangeDelim)
	}
	l, err := strconv.Atoi(lo)
	if err != nil {
		return Range{}, fmt.Errorf("range %q: lower bound: %w", s, err)
	}
	u, err := strconv.Atoi(hi)
	if err != nil {
		return Range{}, fmt.Errorf("range %q: upper bound: %w", s, err)
	}
	if l > u {
		return Range{}, fmt.Errorf("range %q: lower bound above upper bound", s)
	}
	return Range{Lower: l, Upper: u}, nil
}

// BuildRanges covers [low, high] with consecutive ranges of width step.
// The last range may extend past high.
func BuildRanges(low, high, step int) ([]Range, error) {
	if step <= 0 {
		return nil, fmt.Errorf("range step must be positive, got %d", step)
	}
	if low > high {
		return nil, fmt.Errorf("range bounds inverted: %d > %d", low, high)
	}
	var ranges []Range
	for l := low; l <= high; l += step {
		ranges = append(ranges, Range{Lower: l, Upper: l + step - 1})
	}
	return ranges, nil
}

// BinValue returns the range holding v.
func BinValue(ranges []Range, v int) (Range, bool) {
	for _, r := range ranges {
		if r.Contains(v) {
			return r, true
		}
	}
	return Range{}, false
}

// BinAttribute returns a copy of t where the named numeric attribute is
// replaced by ranges of width step spanning its observed values.
// Values are floored to integers; Missing cells stay Missing.
func (t *Table) BinAttribute(name string, step int) (*Table, error) {
	idx := t.Index(name)
	if idx < 0 {
		return nil, fmt.Errorf("unknown attribute %q", name)
	}
	if t.Attributes[idx].Kind != Numeric {
		return nil, fmt.Errorf("attribute %q is %s, not numeric", name, t.Attributes[idx].Kind)
	}

	values := make([]int, len(t.Rows))
	low, high := math.MaxInt, math.MinInt
	for i, r := range t.Rows {
		if r[idx] == Missing {
			continue
		}
		f, err := strconv.ParseFloat(r[idx], 64)
		if err != nil {
			return nil, fmt.Errorf("row %d: attribute %q: %w", i, name, err)
		}
		v := int(math.Floor(f))
		values[i] = v
		low = min(low, v)
		high = max(high, v)
	}
	if low > high {
		return nil, fmt.Errorf("attribute %q has no values to bin", name)
	}

	ranges, err := BuildRanges(low, high, step)
	if err != nil {
		return nil, fmt.Errorf("bin %q: %w", name, err)
	}

	c := t.Clone()
	for i, r := range c.Rows {
		if r[idx] == Missing {
			continue
		}
		rg, _ := BinValue(ranges, values[i])
		r[idx] = rg.String()
	}

	domain := make([]string, len(ranges))
	for i, r := range ranges {
		domain[i] = r.String()
	}
	c.Attributes[idx] = Attribute{Name: name, Kind: Ranged, Values: domain}
	return c, nil
}

package mining

import (
	"fmt"
	"slices"

	"github.com/roach88/apriori/internal/symbol"
)

// countItems counts every declared symbol across the table.
// Records follow symbol declaration order.
func countItems(symbols *symbol.Table, enc *EncodedTable) []ItemRecord {
	records := make([]ItemRecord, symbols.Len())
	pos := make(map[uint32]int, symbols.Len())
	for i, s := range symbols.Symbols() {
		records[i] = ItemRecord{Code: s.Code}
		pos[s.Code] = i
	}

	for r := 0; r < enc.Rows(); r++ {
		for _, code := range enc.Row(r) {
			if i, ok := pos[code]; ok {
				records[i].Count++
			}
		}
	}
	return records
}

func filterItems(records []ItemRecord, threshold int) []ItemRecord {
	kept := make([]ItemRecord, 0, len(records))
	for _, r := range records {
		if r.Count >= threshold {
			kept = append(kept, r)
		}
	}
	return kept
}

// itemLevel turns level-1 records into size-1 itemsets.
func itemLevel(records []ItemRecord) Level {
	sets := make([]Itemset, len(records))
	for i, r := range records {
		sets[i] = Itemset{Items: []uint32{r.Code}, Count: r.Count}
	}
	return Level{Size: 1, Itemsets: sets}
}

// buildPairs returns every cross-attribute pair (items[i], items[j]), i < j.
func buildPairs(symbols *symbol.Table, items []ItemRecord) []Itemset {
	var pairs []Itemset
	seen := make(map[uint64]bool)
	for i := 0; i < len(items); i++ {
		for j := i + 1; j < len(items); j++ {
			a, b := items[i].Code, items[j].Code
			if a == b || symbols.SameAttribute(a, b) {
				continue
			}
			key := pairKey(a, b)
			if seen[key] {
				continue
			}
			seen[key] = true
			pairs = append(pairs, Itemset{Items: []uint32{a, b}})
		}
	}
	return pairs
}

func pairKey(a, b uint32) uint64 {
	if a > b {
		a, b = b, a
	}
	return uint64(a)<<32 | uint64(b)
}

// joinLevel builds size k+1 candidates from the survivors of level k.
//
// Survivors sharing their first k-1 items are grouped. Each survivor joins
// every earlier survivor of its group with a different last item, giving
// prefix + earlier.last + current.last. Candidates repeating an attribute
// are dropped.
func joinLevel(symbols *symbol.Table, prev Level) []Itemset {
	groups := make(map[string][]int)
	var candidates []Itemset

	for i, cur := range prev.Itemsets {
		prefix := cur.Antecedent()
		key := itemsKey(prefix)
		for _, j := range groups[key] {
			earlier := prev.Itemsets[j]
			if earlier.Last() == cur.Last() {
				continue
			}
			items := make([]uint32, 0, len(prefix)+2)
			items = append(items, prefix...)
			items = append(items, earlier.Last(), cur.Last())
			if hasAttributeClash(symbols, items) {
				continue
			}
			candidates = append(candidates, Itemset{Items: items})
		}
		groups[key] = append(groups[key], i)
	}
	return candidates
}

// hasAttributeClash reports whether two items share an attribute.
func hasAttributeClash(symbols *symbol.Table, items []uint32) bool {
	for i := 0; i < len(items); i++ {
		for j := i + 1; j < len(items); j++ {
			if items[i] == items[j] || symbols.SameAttribute(items[i], items[j]) {
				return true
			}
		}
	}
	return false
}

// countCandidates counts every candidate against the table and marks each
// row that contains at least one of them.
func countCandidates(enc *EncodedTable, candidates []Itemset) ([]Itemset, []bool) {
	counted := make([]Itemset, len(candidates))
	marks := make([]bool, enc.Rows())
	for i, c := range candidates {
		c.Items = slices.Clone(c.Items)
		c.Count = 0
		for r := 0; r < enc.Rows(); r++ {
			if enc.Contains(r, c.Items) {
				c.Count++
				marks[r] = true
			}
		}
		counted[i] = c
	}
	return counted, marks
}

func filterSupport(sets []Itemset, threshold int) []Itemset {
	kept := make([]Itemset, 0, len(sets))
	for _, s := range sets {
		if s.Count >= threshold {
			kept = append(kept, s)
		}
	}
	return kept
}

// withConfidence returns sets with Confidence taken from each parent in h.
func withConfidence(sets []Itemset, h *History) []Itemset {
	out := make([]Itemset, len(sets))
	for i, s := range sets {
		s.Confidence = 0
		if p, ok := h.Parent(s); ok {
			s.Confidence = confidence(s.Count, p.Count)
		}
		out[i] = s
	}
	return out
}

func filterConfidence(sets []Itemset, permille int) []Itemset {
	kept := make([]Itemset, 0, len(sets))
	for _, s := range sets {
		if s.Confidence >= permille {
			kept = append(kept, s)
		}
	}
	return kept
}

// verifyDistinctAttributes checks that no itemset of l repeats an attribute.
func verifyDistinctAttributes(runID string, symbols *symbol.Table, l Level) error {
	for _, s := range l.Itemsets {
		seen := make(map[string]bool, len(s.Items))
		for _, code := range s.Items {
			attr := symbol.Prefix(symbols.TextOf(code))
			if seen[attr] {
				return &Error{
					Code:    ErrCodeInvariantViolation,
					Message: fmt.Sprintf("level %d itemset repeats attribute %q", l.Size, attr),
					RunID:   runID,
				}
			}
			seen[attr] = true
		}
	}
	return nil
}

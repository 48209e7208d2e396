package mining

import (
	"fmt"
	"slices"
	"strings"

	"github.com/roach88/apriori/internal/dataset"
)

// SortColumn selects the column result levels are sorted by, descending.
type SortColumn int

const (
	// SortDefault sorts level 1 by support and deeper levels by confidence.
	SortDefault SortColumn = iota
	// SortSupport sorts every level by count.
	SortSupport
	// SortConfidence sorts every level by confidence.
	SortConfidence
)

// ParseSortColumn parses "default", "support" or "confidence".
func ParseSortColumn(s string) (SortColumn, error) {
	switch strings.ToLower(s) {
	case "", "default":
		return SortDefault, nil
	case "support":
		return SortSupport, nil
	case "confidence":
		return SortConfidence, nil
	default:
		return SortDefault, fmt.Errorf("unknown sort column %q (valid: default, support, confidence)", s)
	}
}

// LevelStats describes one level of a run.
type LevelStats struct {
	Level            int `json:"level"`
	Candidates       int `json:"candidates"`
	RowsBefore       int `json:"rows_before"`
	RowsAfter        int `json:"rows_after"`
	SupportThreshold int `json:"support_threshold"`
	AfterSupport     int `json:"after_support"`
	AfterConfidence  int `json:"after_confidence"`
}

// ItemRow is a level-1 item with its count.
type ItemRow struct {
	Item  string `json:"item"`
	Count int    `json:"count"`
}

// RuleRow is an itemset of size >= 2. Read it as the rule
// Items[:n-1] ==> Items[n-1]. Confidence is a ratio in [0, 1].
type RuleRow struct {
	Items      []string `json:"items"`
	Count      int      `json:"count"`
	Confidence float64  `json:"confidence"`
}

// Antecedent returns all items but the last.
func (r RuleRow) Antecedent() []string {
	return r.Items[:len(r.Items)-1]
}

// Consequent returns the last item.
func (r RuleRow) Consequent() string {
	return r.Items[len(r.Items)-1]
}

// LevelResult holds the sorted itemsets of one size >= 2.
type LevelResult struct {
	Size     int       `json:"size"`
	Itemsets []RuleRow `json:"itemsets"`
}

// Result is the outcome of a mining run.
type Result struct {
	RunID               string        `json:"run_id"`
	Relation            string        `json:"relation"`
	Thresholds          Thresholds    `json:"thresholds"`
	SupportThreshold    int           `json:"support_threshold"`
	ConfidenceThreshold int           `json:"confidence_threshold"`
	CyclesCompleted     int           `json:"cycles_completed"`
	TotalRows           int           `json:"total_rows"`
	RemainingRows       int           `json:"remaining_rows"`
	DifferentItems      int           `json:"different_items"`
	ElapsedMS           int64         `json:"elapsed_ms"`
	Attributes          []string      `json:"attributes"`
	Items               []ItemRow     `json:"items"`
	Levels              []LevelResult `json:"levels"`
	Stats               []LevelStats  `json:"stats"`
}

// Level returns the itemsets of size k (k >= 2).
func (r *Result) Level(k int) (LevelResult, bool) {
	for _, l := range r.Levels {
		if l.Size == k {
			return l, true
		}
	}
	return LevelResult{}, false
}

// Rules returns the rules of every level, deepest level first.
func (r *Result) Rules() []RuleRow {
	var rules []RuleRow
	for i := len(r.Levels) - 1; i >= 0; i-- {
		rules = append(rules, r.Levels[i].Itemsets...)
	}
	return rules
}

func (r *run) assemble(t *dataset.Table, sortBy SortColumn) *Result {
	res := &Result{
		RunID:               r.id,
		Relation:            t.Relation,
		Thresholds:          r.t,
		SupportThreshold:    r.t.SupportCount(len(t.Rows)),
		ConfidenceThreshold: r.t.ConfidencePermille(),
		CyclesCompleted:     r.history.Depth(),
		TotalRows:           len(t.Rows),
		RemainingRows:       r.enc.Rows(),
		DifferentItems:      r.items,
		Attributes:          t.Names(),
		Items:               []ItemRow{},
		Levels:              []LevelResult{},
		Stats:               r.stats,
	}

	for _, l := range r.history.Levels() {
		sets := sortItemsets(l, sortBy)
		if l.Size == 1 {
			for _, s := range sets {
				res.Items = append(res.Items, ItemRow{Item: r.symbols.TextOf(s.Items[0]), Count: s.Count})
			}
			continue
		}

		lr := LevelResult{Size: l.Size, Itemsets: make([]RuleRow, len(sets))}
		for i, s := range sets {
			texts := make([]string, len(s.Items))
			for j, code := range s.Items {
				texts[j] = r.symbols.TextOf(code)
			}
			lr.Itemsets[i] = RuleRow{
				Items:      texts,
				Count:      s.Count,
				Confidence: float64(s.Confidence) / 1000,
			}
		}
		res.Levels = append(res.Levels, lr)
	}
	return res
}

// sortItemsets returns a stably sorted copy of l's itemsets.
func sortItemsets(l Level, by SortColumn) []Itemset {
	sets := slices.Clone(l.Itemsets)
	byConfidence := by == SortConfidence || (by == SortDefault && l.Size > 1)
	slices.SortStableFunc(sets, func(a, b Itemset) int {
		if byConfidence {
			return b.Confidence - a.Confidence
		}
		return b.Count - a.Count
	})
	return sets
}

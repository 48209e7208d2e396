package mining

import (
	"encoding/binary"
	"fmt"
)

// ItemRecord is a level-1 symbol with its occurrence count.
type ItemRecord struct {
	Code  uint32
	Count int
}

// Itemset is an ordered set of codes from distinct attributes.
// Confidence is in thousandths and is 0 for level 1.
type Itemset struct {
	Items      []uint32
	Count      int
	Confidence int
}

// Size returns the number of items.
func (s Itemset) Size() int {
	return len(s.Items)
}

// Antecedent returns every item but the last.
func (s Itemset) Antecedent() []uint32 {
	return s.Items[:len(s.Items)-1]
}

// Last returns the final item.
func (s Itemset) Last() uint32 {
	return s.Items[len(s.Items)-1]
}

// Level holds the survivors of one size.
type Level struct {
	Size     int
	Itemsets []Itemset
}

// History stores every completed level, indexed by level number.
type History struct {
	levels []Level
	index  []map[string]int
}

// Put stores level k. Levels must be stored in order starting at 1.
func (h *History) Put(l Level) error {
	if l.Size != len(h.levels)+1 {
		return fmt.Errorf("history: storing level %d after level %d", l.Size, len(h.levels))
	}
	idx := make(map[string]int, len(l.Itemsets))
	for i, s := range l.Itemsets {
		if s.Size() != l.Size {
			return fmt.Errorf("history: level %d holds an itemset of size %d", l.Size, s.Size())
		}
		idx[itemsKey(s.Items)] = i
	}
	h.levels = append(h.levels, l)
	h.index = append(h.index, idx)
	return nil
}

// Level returns level k.
func (h *History) Level(k int) (Level, bool) {
	if k < 1 || k > len(h.levels) {
		return Level{}, false
	}
	return h.levels[k-1], true
}

// Find returns the stored itemset of level len(items) equal to items.
func (h *History) Find(items []uint32) (Itemset, bool) {
	k := len(items)
	if k < 1 || k > len(h.levels) {
		return Itemset{}, false
	}
	i, ok := h.index[k-1][itemsKey(items)]
	if !ok {
		return Itemset{}, false
	}
	return h.levels[k-1].Itemsets[i], true
}

// Parent returns the stored itemset equal to s without its last item.
func (h *History) Parent(s Itemset) (Itemset, bool) {
	if s.Size() < 2 {
		return Itemset{}, false
	}
	return h.Find(s.Antecedent())
}

// Depth returns the highest stored level.
func (h *History) Depth() int {
	return len(h.levels)
}

// Levels returns all stored levels, level 1 first.
func (h *History) Levels() []Level {
	return h.levels
}

func itemsKey(items []uint32) string {
	b := make([]byte, 4*len(items))
	for i, c := range items {
		binary.LittleEndian.PutUint32(b[4*i:], c)
	}
	return string(b)
}

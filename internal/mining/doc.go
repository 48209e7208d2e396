// Package mining implements level-wise frequent itemset and association
// rule mining (Apriori) over symbol-encoded categorical tables.
//
// # Pipeline
//
// One Run executes these stages strictly in order:
//
//	symbol.Build      header domains -> codes, collision check
//	EncodeTable       rows -> dense uint32 grid
//	level 1           count every symbol, filter by support
//	level 2           cross-attribute pairs of level-1 survivors
//	level k >= 3      prefix join of level k-1 survivors
//	assemble          sort levels, resolve codes to texts
//
// Each level k >= 2 generates candidates, counts them against the current
// table, prunes the table to rows containing at least one counted
// candidate, filters by support (threshold recomputed on the pruned row
// count), assigns confidence from the exact level k-1 parent and filters by
// confidence. Every filter returns a new slice; stored levels are never
// modified again.
//
// # Thresholds
//
// The absolute support threshold of a level is round(rows * MinSupport).
// Confidence is stored in thousandths: round(count / parentCount * 1000),
// or 0 when the parent did not survive its own level. All rounding is
// half-to-even.
//
// # Candidate join
//
// The level-k join pairs survivors sharing their first k-2 items. It does
// not re-verify the remaining (k-1)-subsets of a candidate; such candidates
// are counted and then left to the support and confidence filters.
//
// # Termination
//
// A run stops when a level generates no candidates or when k would exceed
// the number of attributes. CyclesCompleted is the highest level stored.
//
// # Concurrency
//
// A single run is sequential. RunPartitions mines disjoint row ranges in
// parallel, each with its own symbol table, encoded table and run ID.
package mining

// Package store provides SQLite-backed persistence for mining results.
//
// A saved run is spread over four tables:
//   - runs: one row of metadata per run, keyed by run ID
//   - items: the sorted level-1 item table
//   - itemsets: the sorted itemsets of every level >= 2
//   - level_stats: per-level candidate and row counts
//
// # Ordering
//
// Runs carry a seq INTEGER assigned at insert time. Listings use
// ORDER BY seq ASC, id COLLATE BINARY ASC, never wall-clock timestamps, so
// the same sequence of saves always lists identically. Items and itemsets
// keep the rank they had in the result.
//
// # Database Configuration
//
//   - WAL mode: concurrent reads during writes
//   - synchronous=NORMAL
//   - busy_timeout=5000ms
//   - foreign_keys=ON: deleting a run cascades to its rows
package store

// Package dataset holds the categorical input tables fed to the miner.
//
// A Table is a relation name, an ordered attribute header and rows of raw
// string cells aligned to that header. Tables come from ARFF files
// (ReadARFF), from SQL tables (ImportTable) or from code.
//
// Maintenance operations such as DropMissing, FillMissing and BinAttribute
// never modify their receiver; they return a new Table.
package dataset

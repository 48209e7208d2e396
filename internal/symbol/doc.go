// Package symbol turns categorical attribute values into dense 32-bit codes.
//
// Every distinct "attribute=value" text declared in a dataset header becomes
// a Symbol whose Code is a fixed-seed MurmurHash of the NFC-normalised text.
// Data cells are encoded the same way, so counting can compare integers
// instead of strings.
//
// Hashing is not injective. Build therefore checks the complete vocabulary
// for collisions and refuses to return a Table when two distinct texts share
// a code: every downstream count would otherwise be silently wrong.
//
// A Table is immutable once built and safe for concurrent reads.
package symbol

// Package textpatch provides helpers for applying pattern-scoped text substitutions to files.
//
// The package is extracted from the one-off admin-field migration scripts so that the
// mechanism can be reused by other tools. It exposes a pure Apply operation working on
// in-memory documents plus a filesystem shell that reads a file in full, transforms it
// in memory, and writes it back only when something actually changed.
package textpatch

// Package audit keeps the append-only record of resolved approval decisions
// for the lifetime of a run and derives aggregate reports from it.
package audit

// Package engine is the single entry point that runs a rename pass.
//
// Run walks the phases in order: setup checks, enumeration, classification,
// correlation, planning, and execution. Setup problems stop the run before
// anything is read; per-file problems are entries in the report. Undo
// reverses a journaled run.
package engine

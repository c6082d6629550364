// Package journal records applied renames in SQLite so a run can be listed
// and reversed later.
//
// Each run gets a row keyed by its run ID; each successful rename adds an
// entry in execution order. Undo walks the entries backwards and marks them
// as it goes, so an interrupted undo can be resumed.
package journal

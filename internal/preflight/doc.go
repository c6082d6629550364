// Package preflight verifies that a run can start: the root must be an
// accessible directory and the state directory must be writable when the
// journal is on. Checks return Results instead of errors so the CLI can show
// all of them at once.
package preflight

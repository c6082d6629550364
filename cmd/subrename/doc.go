// Package main hosts the subrename CLI entrypoint and command graph.
//
// The Cobra command tree resolves configuration, builds the logger, and hands
// each invocation to the engine package. Commands only translate flags into
// engine options and render the resulting report.
package main

// Package lpkit reads, writes, mutates and compares linear programming
// problems in the LP text format.
//
// The format is parsed into a model.Problem, which preserves objective
// order, accumulates duplicate terms and tracks typed variables. The
// writer renders a problem back to text such that re-parsing yields an
// equivalent model, the diff package reports structural differences
// between two problems, and the analysis package computes statistics and
// diagnostics.
//
// Parse and ParseAll in this package are convenience entry points; the
// parser, writer and diff packages expose the full option surfaces.
package lpkit

// Package ssa builds a strongly-typed, static-single-assignment intermediate
// representation for a GPU-oriented compiler front-end.
//
// The package couples four concerns: typed value construction with
// peephole-style constant folding, basic-block and method assembly through
// lazy sub-builders, SSA form construction following Braun, Buchwald, Hack
// ("Simple and Efficient Construction of Static Single Assignment Form"),
// and structural rebuilding of a method through the same construction
// pipeline for cloning, inlining, and specialization.
//
// The Type context, method registry and back-end code emitters are external
// collaborators, consumed here only through the narrow interfaces in
// types.go and context.go.
package ssa

// Package textutil provides the string helpers shared by the matching engine.
//
// The primary use cases are:
//   - Ordering filenames the way a person reads them (natural, numeric-aware order)
//   - Folding stems into a canonical form for literal comparisons
//   - Deriving filesystem-safe tokens from arbitrary paths
//
// Folding collapses runs of separators (dots, underscores, hyphens, whitespace)
// into single spaces, applies NFKC normalization, and case-folds the result so
// "My.Show_Name" and "my show name" compare equal.
package textutil

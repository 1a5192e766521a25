// Package interp implements the Minitalk block interpreter.
//
// This package contains:
//   - NaN-boxed value representation
//   - Heap-allocated activation records and variable cells
//   - Block closures with home-activation capture
//   - A tree-walking evaluator with primitive message dispatch
//   - Non-local return and error signaling
package interp

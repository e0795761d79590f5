package dlog

// Package dlog solves discrete logarithms in (Z/nZ)* when the group order is
// smooth. Baby-step giant-step and Pollard rho each cover a single
// prime-power subgroup; the combiner reduces the full problem to those
// subgroups and folds the partial residues back together with the Chinese
// remainder theorem. Verify gates every complete candidate before it reaches
// a caller.
//
// The routines are stateless given a Solver value and never retry
// internally; escalation belongs to the orchestration layer.

package dlog

import "errors"

// Sentinel failures. Orchestration branches on these with errors.Is. All are
// recoverable with different bounds except ErrCRTConflict, which means the
// moduli handed to the combiner were not coprime and something upstream is
// wrong with the factorization.
var (
	ErrNotCoprime      = errors.New("dlog: base shares a factor with the modulus")
	ErrTableTooLarge   = errors.New("dlog: baby-step table would exceed the cap")
	ErrNotFound        = errors.New("dlog: no exponent in the search window")
	ErrSubgroupSolve   = errors.New("dlog: prime-power subgroup solve failed")
	ErrCRTConflict     = errors.New("dlog: congruence system is unsolvable")
	ErrIncompleteOrder = errors.New("dlog: order factorization incomplete")
	ErrVerifyMismatch  = errors.New("dlog: candidate fails verification")
)

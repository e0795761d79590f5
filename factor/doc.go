package factor

// Package factor finds the smooth structure the solver pipeline relies on:
// Pollard's p-1 method pulls a prime factor out of the public modulus, and
// trial division decomposes the resulting group order into prime powers for
// the subgroup stage, handing anything it cannot resolve to an auxiliary
// splitter. The routines are stateless and never retry internally; escalation
// policy belongs to the caller.

// Package dag builds the multi-branch directed acyclic graph of clusters
// for a single generation attempt (spec.md §4.5).
//
// Generate is a pure, single-threaded function of its inputs: the same
// Params, Pool, seed, and RNG draw sequence always produce a
// bitwise-identical Dag. It never retries internally — the retry-on-seed
// loop is the glue layer's responsibility (pkg/speedfog), since only the
// glue layer knows whether the configured seed was explicit or
// auto-rerolled.
package dag

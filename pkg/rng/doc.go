// Package rng provides deterministic random number generation for the SpeedFog pipeline.
//
// # Overview
//
// The RNG type ensures reproducible DAG generation by deriving stage-specific
// seeds from a master seed. This allows each pipeline stage (layer planning,
// DAG generation, the seed-reroll loop) to have an independent random
// sequence while the overall run stays deterministic.
//
// # Sub-Seed Derivation
//
// Each RNG derives its seed using SHA-256:
//
//	seed_stage = H(masterSeed, stageName, configHash)
//
// where:
//   - masterSeed: The seed being attempted for this generation run
//   - stageName: Pipeline stage identifier (e.g., "layer_plan", "dag_generate")
//   - configHash: Hash of the configuration document
//
// This ensures:
//  1. Same inputs always produce the same RNG sequence (determinism)
//  2. Different stages get independent random sequences (isolation)
//  3. Config changes result in different sequences (sensitivity)
//
// # Usage
//
// Create an RNG for each pipeline stage:
//
//	configHash := cfg.Hash()
//	layerRNG := rng.NewRNG(attemptSeed, "layer_plan", configHash)
//	dagRNG := rng.NewRNG(attemptSeed, "dag_generate", configHash)
//
// Use the RNG for all random decisions in that stage:
//
//	totalLayers := layerRNG.IntRange(cfg.Structure.MinLayers, cfg.Structure.MaxLayers)
//	if dagRNG.Bool() {
//	    // take the split branch
//	}
//
// # Thread Safety
//
// RNG instances are NOT thread-safe. Generation is single-threaded by
// design (see pkg/dag); an RNG instance should never be shared across
// goroutines.
//
// # Performance
//
// The underlying math/rand.Rand is highly efficient:
//   - Uint64(): ~2ns per call
//   - Intn():   ~3ns per call
//   - Float64(): ~2ns per call
//
// Creating a new RNG costs ~8µs due to SHA-256 computation. Reuse RNG
// instances within a stage rather than constructing a fresh one per call.
package rng

// Package cluster derives the canonical cluster set from a parsed fog
// database and builds the in-memory pool the layer planner and DAG
// generator select from.
//
// A cluster groups one or more world areas that are already connected by
// guaranteed world geometry (no fog gate needed) into a single unit: the
// zone-exclusivity unit the DAG generator treats as a single node. Cluster
// derivation is a pure function of the fog database and an optional
// metadata document — it never consults the run configuration or RNG, and
// its output is deterministic and immutable once built.
package cluster

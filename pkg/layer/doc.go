// Package layer chooses the intermediate layer count and the per-layer
// cluster-type sequence the DAG generator must satisfy (spec.md §4.4).
//
// Planning is pure with respect to its RNG: given the same requirements,
// bounds, and RNG draw sequence, PlanLayers always returns the same type
// sequence. It never inspects the cluster pool — the generator is
// responsible for finding a cluster of the planned type at each layer.
package layer

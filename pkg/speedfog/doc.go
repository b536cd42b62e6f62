// Package speedfog ties the fog database, cluster pool, layer planner, DAG
// generator, balance analyzer, validator, and emitters together into the
// run configuration and the generate-with-retry pipeline (spec.md §6, §7).
package speedfog

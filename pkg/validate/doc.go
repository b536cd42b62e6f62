// Package validate checks a generated DAG against structural,
// requirement, path-count, weight, and layer-count rules (spec.md §4.7).
//
// Structural, requirement, and zero-path checks are hard constraints:
// any failure sets Report.Passed to false and contributes an error.
// Path-weight, single-path, and layer-count checks are soft constraints:
// failures are reported as warnings and never flip Passed.
package validate

// Package balance enumerates every start→end path of a generated DAG and
// reports weight statistics against a configured budget (spec.md §4.6).
//
// Analyze assumes its input is already a finite DAG with no cycles — the
// generator guarantees every edge moves strictly forward in layer, so a
// plain DFS from start_id enumerates every path without cycle detection.
package balance

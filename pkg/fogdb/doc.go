// Package fogdb parses the raw fog-gate database into areas and fog gates.
//
// The raw database is a YAML document listing every area (zone) of the
// game map, the world connections between them, and every fog gate
// (a traversable connection, possibly unidirectional or excluded from
// randomization). pkg/cluster consumes the parsed Areas/Fogs to derive
// the canonical cluster set; the wire format of the game's own map/event
// files is out of scope (see spec.md §1, "Out of scope").
package fogdb

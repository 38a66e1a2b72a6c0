// Package mapedit implements the editing core of an OpenStreetMap map
// editor: a persistent, copy-on-write graph of nodes, ways and relations; a
// family of pure graph-to-graph editing actions (see the actions
// subpackage); a spatial index kept in sync with the graph via differential
// updates (see the spatial subpackage); and a validator framework that
// reports structured issues against a graph snapshot (see the validate
// subpackage).
//
// A Graph is never mutated in place. Every edit installs a new overlay on
// top of the graph it started from; committing an overlay freezes it and
// assigns it a fresh, monotonically increasing key. Readers compare keys to
// detect that a newer graph is available.
package mapedit

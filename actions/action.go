// Package actions implements the editing core's graph-to-graph
// transformations: atomic list edits, geometric transforms driven by a
// viewport, and topological operations (reverse, split, merge, restriction
// building, deep copy, crossing-tag sync).
//
// Every action is a factory: calling the constructor (Move, Reverse, Split,
// ...) returns a value implementing Action, which is then applied to a
// graph with Apply. Actions are pure: Apply never mutates its input graph,
// and calling Apply twice with the same arguments produces the same result.
//
// Retargeted from the teacher library's compilation.Step: where a Step's Do
// method wrote through a digitaltwin.GraphWriter inside a transaction and
// could fail, an Action here computes a result graph directly and never
// returns an error — ineligibility is reported up front by a Disabled
// method on the action itself (see Disableable), matching this domain's rule
// that actions refuse rather than throw.
package actions

import (
	"math"

	"github.com/go-mapedit/mapedit"
)

// Action transforms a graph into a new graph. Apply must not mutate g or
// any entity reachable from it.
type Action interface {
	Apply(g *mapedit.Graph) *mapedit.Graph
}

// Transitionable is implemented by actions whose effect can be scrubbed
// between the original graph (t=0) and the completed edit (t=1), such as a
// node drag. Non-finite or omitted t is treated as 1.
type Transitionable interface {
	Action
	WithTransition(t float64) Action
}

// clampTransition clamps t to [0,1], treating NaN/Inf as 1.
func clampTransition(t float64) float64 {
	if math.IsNaN(t) || math.IsInf(t, 0) {
		return 1
	}
	return math.Max(0, math.Min(1, t))
}

// Disableable is implemented by actions that may refuse to run against a
// particular graph. Disabled returns "" if the action is runnable, or a
// short symbolic reason string otherwise.
type Disableable interface {
	Disabled(g *mapedit.Graph) string
}

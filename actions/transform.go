package actions

import (
	"math"

	"github.com/paulmach/orb"

	"github.com/go-mapedit/mapedit"
	"github.com/go-mapedit/mapedit/geom"
)

// MoveNode relocates a single node, interpolating from its current location
// to To by the action's transition.
type MoveNode struct {
	NodeID mapedit.ID
	To     orb.Point
	T      float64
}

// NewMoveNode returns a MoveNode at transition 1 (the completed drag).
func NewMoveNode(nodeID mapedit.ID, to orb.Point) MoveNode {
	return MoveNode{NodeID: nodeID, To: to, T: 1}
}

func (a MoveNode) WithTransition(t float64) Action { a.T = clampTransition(t); return a }

func (a MoveNode) Apply(g *mapedit.Graph) *mapedit.Graph {
	n, ok := entity[mapedit.Node](g, a.NodeID)
	if !ok {
		return g
	}
	t := clampTransition(a.T)
	loc := orb.Point{
		n.Loc[0] + (a.To[0]-n.Loc[0])*t,
		n.Loc[1] + (a.To[1]-n.Loc[1])*t,
	}
	next, _ := g.Replace(n.WithLoc(loc))
	return next
}

// MoveCache holds intersection state reused across a single drag so that
// repeated Move calls as delta grows need not recompute the moving node set
// and intersection records from scratch. Ok reports whether the cache is
// still valid for the current moveIDs; callers must discard and rebuild the
// cache whenever moveIDs changes.
type MoveCache struct {
	MoveIDs  []mapedit.ID
	NodeIDs  []mapedit.ID
	ok       bool
}

func (c *MoveCache) valid(moveIDs []mapedit.ID) bool {
	if !c.ok || len(c.MoveIDs) != len(moveIDs) {
		return false
	}
	for i, id := range moveIDs {
		if c.MoveIDs[i] != id {
			return false
		}
	}
	return true
}

// Move translates a set of entities by a pixel delta in projected
// coordinates, per the viewport's Project/Unproject pair.
//
// It collects every node implied by moveIDs (directly, or through a way's
// or relation's children), then restricts nodes that sit at an
// intersection of more than two ways to those whose parent ways are all
// present in moveIDs — such a node is a genuine junction with geometry
// outside the moving set, and must stay put rather than tear the static
// ways apart.
//
// Remaining moving nodes that are themselves the shared endpoint of a
// moving way and a static (non-moving) way are tracked as intersection
// records; NodeSeq, if set, mints a preserved-shape vertex for each one so
// the static way keeps its original shape instead of being dragged along.
// Delta is clipped if an endpoint's drag path would cross the static way
// it no longer shares a vertex with, and a zigzag ("zorro") crossing the
// preserved vertex introduces against the moving way's new edge is
// repaired by moving the vertex to the midpoint of its old location and the
// moved node, then swapping it with a static-way neighbor if the crossing
// remains.
type Move struct {
	MoveIDs  []mapedit.ID
	Delta    orb.Point
	Viewport mapedit.Viewport
	Cache    *MoveCache
	// NodeSeq mints ids for preserved-shape vertices. A nil NodeSeq
	// disables shape preservation (the shared node simply drags the
	// static way's vertex with it); delta clipping still applies.
	NodeSeq *mapedit.Sequence
}

func (a Move) WithTransition(t float64) Action {
	t = clampTransition(t)
	a.Delta = orb.Point{a.Delta[0] * t, a.Delta[1] * t}
	return a
}

// intersectionRecord pairs a moving node that is the shared endpoint of a
// moving way and a static way — translating it without repair would drag
// the static way's vertex along with the move.
type intersectionRecord struct {
	NodeID      mapedit.ID
	MovingWayID mapedit.ID
	StaticWayID mapedit.ID
	Prefix      bool // NodeID is MovingWayID's first node rather than its last
}

func (a Move) Apply(g *mapedit.Graph) *mapedit.Graph {
	nodeIDs := a.movingNodeIDs(g)
	waySet := a.movingWaySet(g)
	records := a.intersectionRecords(g, nodeIDs, waySet)

	delta := a.clipDelta(g, records)

	next := g
	starts := make(map[mapedit.ID]orb.Point, len(nodeIDs))
	for _, id := range nodeIDs {
		n, ok := entity[mapedit.Node](next, id)
		if !ok {
			continue
		}
		starts[id] = n.Loc
		screen := a.Viewport.Project(n.Loc)
		moved := orb.Point{screen[0] + delta[0], screen[1] + delta[1]}
		loc := a.Viewport.Unproject(moved)
		r, _ := next.Replace(n.WithLoc(loc))
		next = r
	}

	if a.NodeSeq != nil {
		for _, rec := range records {
			next = a.preserveShape(next, rec, starts[rec.NodeID])
		}
	}
	return next
}

// movingWaySet returns the set of way ids moveIDs directly or transitively
// selects (through a relation), mirroring movingNodeIDs' own traversal.
func (a Move) movingWaySet(g *mapedit.Graph) map[mapedit.ID]struct{} {
	waySet := make(map[mapedit.ID]struct{})
	for _, id := range a.MoveIDs {
		switch v := g.HasEntity(id).(type) {
		case mapedit.Way:
			waySet[v.ID()] = struct{}{}
		case mapedit.Relation:
			for _, m := range v.Members {
				if m.Kind == mapedit.WayKind {
					waySet[m.ID] = struct{}{}
				}
			}
		}
	}
	return waySet
}

// intersectionRecords finds, among nodeIDs, every node that is the shared
// endpoint of a moving way and a way outside waySet.
func (a Move) intersectionRecords(g *mapedit.Graph, nodeIDs []mapedit.ID, waySet map[mapedit.ID]struct{}) []intersectionRecord {
	var out []intersectionRecord
	for _, id := range nodeIDs {
		var movingEnds []intersectionRecord
		var staticWays []mapedit.ID
		for _, pid := range g.ParentWays(id) {
			w, ok := entity[mapedit.Way](g, pid)
			if !ok {
				continue
			}
			if _, moving := waySet[pid]; moving {
				switch mapedit.Affix(w, id) {
				case "prefix":
					movingEnds = append(movingEnds, intersectionRecord{NodeID: id, MovingWayID: pid, Prefix: true})
				case "suffix":
					movingEnds = append(movingEnds, intersectionRecord{NodeID: id, MovingWayID: pid, Prefix: false})
				}
			} else {
				staticWays = append(staticWays, pid)
			}
		}
		for _, end := range movingEnds {
			for _, staticID := range staticWays {
				end.StaticWayID = staticID
				out = append(out, end)
			}
		}
	}
	return out
}

// clipDelta shrinks a.Delta so that no intersection record's endpoint drag
// path crosses an edge of its static way, returning the (possibly
// unchanged) delta to apply.
func (a Move) clipDelta(g *mapedit.Graph, records []intersectionRecord) orb.Point {
	clamp := 1.0
	for _, rec := range records {
		n, ok := entity[mapedit.Node](g, rec.NodeID)
		if !ok {
			continue
		}
		w, ok := entity[mapedit.Way](g, rec.StaticWayID)
		if !ok {
			continue
		}
		start := a.Viewport.Project(n.Loc)
		end := orb.Point{start[0] + a.Delta[0], start[1] + a.Delta[1]}

		for i := 0; i+1 < len(w.Nodes); i++ {
			if w.Nodes[i] == rec.NodeID || w.Nodes[i+1] == rec.NodeID {
				continue
			}
			p1, ok1 := entity[mapedit.Node](g, w.Nodes[i])
			p2, ok2 := entity[mapedit.Node](g, w.Nodes[i+1])
			if !ok1 || !ok2 {
				continue
			}
			t, crosses := geom.SegmentIntersectionT(start, end,
				a.Viewport.Project(p1.Loc), a.Viewport.Project(p2.Loc))
			if crosses && t < clamp {
				clamp = t
			}
		}
	}
	return orb.Point{a.Delta[0] * clamp, a.Delta[1] * clamp}
}

// preserveShape, for a single intersection record, inserts a new node at
// the shared node's pre-move location in place of that node in the static
// way, so the static way keeps its original shape. The insertion is
// skipped when the preserved point would sit at a ~180° angle between its
// new static-way neighbors — a collinear vertex there is redundant, since
// the way's rendered shape is identical whichever of the two points is
// used.
func (a Move) preserveShape(g *mapedit.Graph, rec intersectionRecord, oldLoc orb.Point) *mapedit.Graph {
	w, ok := entity[mapedit.Way](g, rec.StaticWayID)
	if !ok {
		return g
	}
	idx := -1
	for i, id := range w.Nodes {
		if id == rec.NodeID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return g
	}

	if collinearNeighbor(g, w.Nodes, idx, oldLoc) {
		return g
	}

	preservedID := a.NodeSeq.Next()
	preserved := mapedit.NewNode(preservedID, oldLoc, nil)
	next, _ := g.Replace(preserved)

	nodes := append([]mapedit.ID{}, w.Nodes...)
	nodes[idx] = preservedID
	next = a.repairZorro(next, rec, w.WithNodes(nodes), idx, preservedID)
	return next
}

// collinearNeighbor reports whether replacing w.Nodes[idx] with a node at
// loc would leave it within straightenThreshold of the straight line
// through its immediate neighbors.
func collinearNeighbor(g *mapedit.Graph, nodes []mapedit.ID, idx int, loc orb.Point) bool {
	if idx == 0 || idx == len(nodes)-1 {
		return false
	}
	l, ok1 := entity[mapedit.Node](g, nodes[idx-1])
	r, ok2 := entity[mapedit.Node](g, nodes[idx+1])
	if !ok1 || !ok2 {
		return false
	}
	axis := geom.Axis{Origin: l.Loc, Dir: unit(orb.Point{r.Loc[0] - l.Loc[0], r.Loc[1] - l.Loc[1]})}
	_, off := geom.Project(axis, loc)
	if off < 0 {
		off = -off
	}
	return off < straightenThreshold
}

func unit(v orb.Point) orb.Point {
	n := math.Hypot(v[0], v[1])
	if n == 0 {
		return orb.Point{1, 0}
	}
	return orb.Point{v[0] / n, v[1] / n}
}

// repairZorro installs w (the static way with its preserved vertex spliced
// in) and, if that vertex's edges now cross the moving way's new edge at
// the same junction (a "zorro" zigzag), nudges the vertex to the midpoint
// between its own location and the moving node's new location, then
// swaps it with its next static-way neighbor if the nudge alone
// doesn't resolve the crossing.
func (a Move) repairZorro(g *mapedit.Graph, rec intersectionRecord, w mapedit.Way, idx int, preservedID mapedit.ID) *mapedit.Graph {
	movedLoc, ok := currentLoc(g, rec.NodeID)
	if !ok {
		next, _ := g.Replace(w)
		return next
	}
	movingNeighborID, ok := movingNeighbor(g, rec)
	if !ok {
		next, _ := g.Replace(w)
		return next
	}
	movingNeighborLoc, ok := currentLoc(g, movingNeighborID)
	if !ok {
		next, _ := g.Replace(w)
		return next
	}

	preserved, ok := entity[mapedit.Node](g, preservedID)
	if !ok {
		next, _ := g.Replace(w)
		return next
	}

	crosses := func(neighborIdx int) bool {
		if neighborIdx < 0 || neighborIdx >= len(w.Nodes) {
			return false
		}
		neighbor, ok := entity[mapedit.Node](g, w.Nodes[neighborIdx])
		if !ok {
			return false
		}
		_, ok = geom.SegmentIntersection(neighbor.Loc, preserved.Loc, movedLoc, movingNeighborLoc)
		return ok
	}

	if !crosses(idx-1) && !crosses(idx+1) {
		next, _ := g.Replace(w)
		return next
	}

	equidistant := orb.Point{
		(preserved.Loc[0] + movedLoc[0]) / 2,
		(preserved.Loc[1] + movedLoc[1]) / 2,
	}
	next, _ := g.Replace(preserved.WithLoc(equidistant))
	preserved = preserved.WithLoc(equidistant)

	if crosses(idx-1) || crosses(idx+1) {
		nodes := append([]mapedit.ID{}, w.Nodes...)
		if idx+1 < len(nodes) {
			nodes[idx], nodes[idx+1] = nodes[idx+1], nodes[idx]
		} else if idx-1 >= 0 {
			nodes[idx], nodes[idx-1] = nodes[idx-1], nodes[idx]
		}
		w = w.WithNodes(nodes)
	}
	next, _ = next.Replace(w)
	return next
}

func currentLoc(g *mapedit.Graph, id mapedit.ID) (orb.Point, bool) {
	n, ok := entity[mapedit.Node](g, id)
	if !ok {
		return orb.Point{}, false
	}
	return n.Loc, true
}

// movingNeighbor returns the node adjacent to rec.NodeID within
// rec.MovingWayID, on the interior side of the endpoint.
func movingNeighbor(g *mapedit.Graph, rec intersectionRecord) (mapedit.ID, bool) {
	w, ok := entity[mapedit.Way](g, rec.MovingWayID)
	if !ok || len(w.Nodes) < 2 {
		return "", false
	}
	if rec.Prefix {
		return w.Nodes[1], true
	}
	return w.Nodes[len(w.Nodes)-2], true
}

// movingNodeIDs collects the full set of nodes moveIDs implies, then drops
// any node that sits at an intersection of more than two ways unless every
// one of those ways is itself present in moveIDs.
func (a Move) movingNodeIDs(g *mapedit.Graph) []mapedit.ID {
	if a.Cache != nil && a.Cache.valid(a.MoveIDs) {
		return a.Cache.NodeIDs
	}

	waySet := make(map[mapedit.ID]struct{})
	nodeSet := make(map[mapedit.ID]struct{})
	var order []mapedit.ID

	addNode := func(id mapedit.ID) {
		if _, seen := nodeSet[id]; seen {
			return
		}
		nodeSet[id] = struct{}{}
		order = append(order, id)
	}

	for _, id := range a.MoveIDs {
		e := g.HasEntity(id)
		if e == nil {
			continue
		}
		switch v := e.(type) {
		case mapedit.Node:
			addNode(v.ID())
		case mapedit.Way:
			waySet[v.ID()] = struct{}{}
			for _, childID := range v.Nodes {
				addNode(childID)
			}
		case mapedit.Relation:
			for _, m := range v.Members {
				if m.Kind == mapedit.WayKind {
					waySet[m.ID] = struct{}{}
					if w, ok := entity[mapedit.Way](g, m.ID); ok {
						for _, childID := range w.Nodes {
							addNode(childID)
						}
					}
				} else if m.Kind == mapedit.NodeKind {
					addNode(m.ID)
				}
			}
		}
	}

	out := order[:0]
	for _, id := range order {
		parents := g.ParentWays(id)
		if len(parents) > 2 && !allIn(parents, waySet) {
			continue
		}
		out = append(out, id)
	}

	if a.Cache != nil {
		a.Cache.MoveIDs = append([]mapedit.ID{}, a.MoveIDs...)
		a.Cache.NodeIDs = out
		a.Cache.ok = true
	}
	return out
}

func allIn(ids []mapedit.ID, set map[mapedit.ID]struct{}) bool {
	for _, id := range ids {
		if _, ok := set[id]; !ok {
			return false
		}
	}
	return true
}

// Rotate rotates the projected points of every node implied by entityIDs
// about pivot by angle radians.
type Rotate struct {
	EntityIDs []mapedit.ID
	Pivot     orb.Point
	Angle     float64
	Viewport  mapedit.Viewport
}

func (a Rotate) Apply(g *mapedit.Graph) *mapedit.Graph {
	pivotScreen := a.Viewport.Project(a.Pivot)
	return applyPerNode(g, a.EntityIDs, func(screen orb.Point) orb.Point {
		return geom.Rotate(screen, pivotScreen, a.Angle)
	}, a.Viewport)
}

// Scale scales the radial offset (in projected coordinates) of every node
// implied by entityIDs from pivotLoc by factor.
type Scale struct {
	EntityIDs []mapedit.ID
	PivotLoc  orb.Point
	Factor    float64
	Viewport  mapedit.Viewport
}

func (a Scale) Apply(g *mapedit.Graph) *mapedit.Graph {
	pivotScreen := a.Viewport.Project(a.PivotLoc)
	return applyPerNode(g, a.EntityIDs, func(screen orb.Point) orb.Point {
		return geom.Scale(screen, pivotScreen, a.Factor)
	}, a.Viewport)
}

// Reflect reflects every node implied by reflectIDs across the long or
// short axis of the smallest-surrounding-rectangle of those nodes'
// projected locations.
type Reflect struct {
	ReflectIDs []mapedit.ID
	Viewport   mapedit.Viewport
	LongAxis   bool
}

// UseLongAxis returns a copy of a with the axis selection set.
func (a Reflect) UseLongAxis(long bool) Reflect { a.LongAxis = long; return a }

func (a Reflect) Apply(g *mapedit.Graph) *mapedit.Graph {
	nodeIDs := impliedNodeIDs(g, a.ReflectIDs)
	points := make([]orb.Point, 0, len(nodeIDs))
	for _, id := range nodeIDs {
		n, ok := entity[mapedit.Node](g, id)
		if !ok {
			continue
		}
		points = append(points, a.Viewport.Project(n.Loc))
	}
	axis := geom.SSR(points, a.LongAxis)

	return applyPerNodeIDs(g, nodeIDs, func(screen orb.Point) orb.Point {
		return geom.Reflect(screen, axis.Origin, axis.Dir[0], axis.Dir[1])
	}, a.Viewport)
}

// StraightenNodes snaps each node in nodeIDs onto the long axis of their
// smallest-surrounding-rectangle by scalar projection, interpolated by t.
type StraightenNodes struct {
	NodeIDs  []mapedit.ID
	Viewport mapedit.Viewport
	T        float64
}

func NewStraightenNodes(nodeIDs []mapedit.ID, viewport mapedit.Viewport) StraightenNodes {
	return StraightenNodes{NodeIDs: nodeIDs, Viewport: viewport, T: 1}
}

func (a StraightenNodes) WithTransition(t float64) Action { a.T = clampTransition(t); return a }

// straightenThreshold is the off-axis distance below which StraightenNodes
// considers the nodes already straight.
const straightenThreshold = 1e-4

func (a StraightenNodes) Disabled(g *mapedit.Graph) string {
	axis, points := a.axis(g)
	_ = axis
	maxOff := maxOffAxis(axis, points)
	if maxOff < straightenThreshold {
		return "straight_enough"
	}
	return ""
}

func (a StraightenNodes) axis(g *mapedit.Graph) (geom.Axis, []orb.Point) {
	points := make([]orb.Point, 0, len(a.NodeIDs))
	for _, id := range a.NodeIDs {
		if n, ok := entity[mapedit.Node](g, id); ok {
			points = append(points, a.Viewport.Project(n.Loc))
		}
	}
	return geom.SSR(points, true), points
}

func maxOffAxis(axis geom.Axis, points []orb.Point) float64 {
	max := 0.0
	for _, p := range points {
		_, off := geom.Project(axis, p)
		if off < 0 {
			off = -off
		}
		if off > max {
			max = off
		}
	}
	return max
}

func (a StraightenNodes) Apply(g *mapedit.Graph) *mapedit.Graph {
	axis, _ := a.axis(g)
	t := clampTransition(a.T)
	next := g
	for _, id := range a.NodeIDs {
		n, ok := entity[mapedit.Node](next, id)
		if !ok {
			continue
		}
		screen := a.Viewport.Project(n.Loc)
		along, _ := geom.Project(axis, screen)
		onAxis := geom.PointAt(axis, along)
		interp := orb.Point{
			screen[0] + (onAxis[0]-screen[0])*t,
			screen[1] + (onAxis[1]-screen[1])*t,
		}
		loc := a.Viewport.Unproject(interp)
		r, _ := next.Replace(n.WithLoc(loc))
		next = r
	}
	return next
}

func impliedNodeIDs(g *mapedit.Graph, ids []mapedit.ID) []mapedit.ID {
	seen := make(map[mapedit.ID]struct{})
	var out []mapedit.ID
	add := func(id mapedit.ID) {
		if _, ok := seen[id]; ok {
			return
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	for _, id := range ids {
		switch v := g.HasEntity(id).(type) {
		case mapedit.Node:
			add(v.ID())
		case mapedit.Way:
			for _, childID := range v.Nodes {
				add(childID)
			}
		case mapedit.Relation:
			for _, m := range v.Members {
				if m.Kind == mapedit.NodeKind {
					add(m.ID)
				} else if m.Kind == mapedit.WayKind {
					if w, ok := entity[mapedit.Way](g, m.ID); ok {
						for _, childID := range w.Nodes {
							add(childID)
						}
					}
				}
			}
		}
	}
	return out
}

func applyPerNode(g *mapedit.Graph, ids []mapedit.ID, f func(orb.Point) orb.Point, vp mapedit.Viewport) *mapedit.Graph {
	return applyPerNodeIDs(g, impliedNodeIDs(g, ids), f, vp)
}

func applyPerNodeIDs(g *mapedit.Graph, nodeIDs []mapedit.ID, f func(orb.Point) orb.Point, vp mapedit.Viewport) *mapedit.Graph {
	next := g
	for _, id := range nodeIDs {
		n, ok := entity[mapedit.Node](next, id)
		if !ok {
			continue
		}
		screen := vp.Project(n.Loc)
		loc := vp.Unproject(f(screen))
		r, _ := next.Replace(n.WithLoc(loc))
		next = r
	}
	return next
}

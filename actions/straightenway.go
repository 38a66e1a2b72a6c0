package actions

import (
	"github.com/paulmach/orb"

	"github.com/go-mapedit/mapedit"
	"github.com/go-mapedit/mapedit/geom"
)

// tooBendyThreshold is the off-axis distance above which StraightenWay
// refuses to run: beyond this, snapping interior nodes onto the axis would
// visibly distort the way rather than tidy it.
const tooBendyThreshold = 1e-2

// StraightenWay straightens the untagged interior nodes of each way in
// WayIDs onto that way's smallest-surrounding-rectangle long axis, removing
// an untagged interior node entirely if doing so leaves it coincident with
// its straightened neighbor. Interior nodes carrying their own tags are
// snapped onto the axis but never deleted, and endpoints are never moved.
type StraightenWay struct {
	WayIDs   []mapedit.ID
	Viewport mapedit.Viewport
}

func (a StraightenWay) interiorPoints(g *mapedit.Graph, wayID mapedit.ID) (points []orb.Point, ok bool) {
	w, ok := entity[mapedit.Way](g, wayID)
	if !ok || len(w.Nodes) < 3 {
		return nil, false
	}
	for _, id := range w.Nodes {
		if n, ok := entity[mapedit.Node](g, id); ok {
			points = append(points, a.Viewport.Project(n.Loc))
		}
	}
	return points, true
}

func (a StraightenWay) Disabled(g *mapedit.Graph) string {
	for _, wayID := range a.WayIDs {
		points, ok := a.interiorPoints(g, wayID)
		if !ok {
			continue
		}
		axis := geom.SSR(points, true)
		if maxOffAxis(axis, points) > tooBendyThreshold {
			return "too_bendy"
		}
	}
	return ""
}

func (a StraightenWay) Apply(g *mapedit.Graph) *mapedit.Graph {
	next := g
	for _, wayID := range a.WayIDs {
		next = a.straightenOne(next, wayID)
	}
	return next
}

func (a StraightenWay) straightenOne(g *mapedit.Graph, wayID mapedit.ID) *mapedit.Graph {
	w, ok := entity[mapedit.Way](g, wayID)
	if !ok || len(w.Nodes) < 3 {
		return g
	}

	points, ok := a.interiorPoints(g, wayID)
	if !ok {
		return g
	}
	axis := geom.SSR(points, true)

	next := g
	keep := make([]mapedit.ID, 0, len(w.Nodes))
	keep = append(keep, w.Nodes[0])

	var prevPoint orb.Point
	prevSet := false
	for i := 1; i < len(w.Nodes)-1; i++ {
		id := w.Nodes[i]
		n, ok := entity[mapedit.Node](next, id)
		if !ok {
			keep = append(keep, id)
			continue
		}
		screen := a.Viewport.Project(n.Loc)
		along, _ := geom.Project(axis, screen)
		onAxis := geom.PointAt(axis, along)

		if len(n.Tags()) == 0 && prevSet && onAxis == prevPoint {
			// Snapping collapses this untagged node onto its already-kept
			// predecessor; drop it instead of leaving a duplicate vertex.
			continue
		}

		loc := a.Viewport.Unproject(onAxis)
		r, _ := next.Replace(n.WithLoc(loc))
		next = r
		keep = append(keep, id)
		prevPoint, prevSet = onAxis, true
	}
	keep = append(keep, w.Nodes[len(w.Nodes)-1])

	if len(keep) != len(w.Nodes) {
		r, _ := next.Replace(w.WithNodes(keep))
		next = r
	}
	return next
}

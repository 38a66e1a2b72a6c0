package actions

import (
	"github.com/paulmach/orb"

	"github.com/go-mapedit/mapedit"
)

// MergePolygon unifies a set of closed ways and existing multipolygon
// relations into a single multipolygon. Ring containment — the largest-area
// ring becomes outer, and every other eligible ring is inner if it falls
// inside that outer ring, outer otherwise (supporting a multi-part
// multipolygon with disjoint outer shells) — decides role assignment for
// closed ways; members of an already-existing multipolygon relation keep
// their existing roles unchanged.
type MergePolygon struct {
	IDs []mapedit.ID
	// NewRelationID mints the unified relation's id when none of IDs is
	// already a multipolygon relation to merge into.
	NewRelationID mapedit.ID
}

type ring struct {
	wayID  mapedit.ID
	points []orb.Point
	area   float64
}

func (a MergePolygon) rings(g *mapedit.Graph) (rings []ring, rels []mapedit.Relation) {
	for _, id := range a.IDs {
		switch e := g.HasEntity(id).(type) {
		case mapedit.Way:
			if len(e.Nodes) < 4 || !mapedit.IsClosed(e) {
				continue
			}
			if len(g.ParentRelations(e.ID())) > 0 {
				continue
			}
			points, ok := wayPoints(g, e)
			if !ok {
				continue
			}
			rings = append(rings, ring{wayID: e.ID(), points: points, area: polygonArea(points)})
		case mapedit.Relation:
			if e.IsMultipolygon() {
				rels = append(rels, e)
			}
		}
	}
	return rings, rels
}

func wayPoints(g *mapedit.Graph, w mapedit.Way) ([]orb.Point, bool) {
	points := make([]orb.Point, 0, len(w.Nodes))
	for _, id := range w.Nodes {
		n, ok := entity[mapedit.Node](g, id)
		if !ok {
			return nil, false
		}
		points = append(points, n.Loc)
	}
	return points, true
}

func polygonArea(points []orb.Point) float64 {
	sum := 0.0
	for i := 0; i < len(points); i++ {
		j := (i + 1) % len(points)
		sum += points[i][0]*points[j][1] - points[j][0]*points[i][1]
	}
	if sum < 0 {
		sum = -sum
	}
	return sum / 2
}

func pointInPolygon(p orb.Point, poly []orb.Point) bool {
	inside := false
	for i, j := 0, len(poly)-1; i < len(poly); j, i = i, i+1 {
		pi, pj := poly[i], poly[j]
		if (pi[1] > p[1]) != (pj[1] > p[1]) &&
			p[0] < (pj[0]-pi[0])*(p[1]-pi[1])/(pj[1]-pi[1])+pi[0] {
			inside = !inside
		}
	}
	return inside
}

func ringContains(outer, inner ring) bool {
	for _, p := range inner.points {
		if !pointInPolygon(p, outer.points) {
			return false
		}
	}
	return true
}

// buildMembers assigns outer/inner roles to rings by containment against
// the largest ring, appends every member of rels unchanged, and returns the
// closed outer ways whose tags must migrate onto the unified relation.
func (a MergePolygon) buildMembers(rings []ring, rels []mapedit.Relation) (members []mapedit.Member, outerWayIDs []mapedit.ID) {
	if len(rings) > 0 {
		largest := 0
		for i, r := range rings[1:] {
			if r.area > rings[largest].area {
				largest = i + 1
			}
		}
		for i, r := range rings {
			role := "outer"
			if i != largest && ringContains(rings[largest], r) {
				role = "inner"
			}
			members = append(members, mapedit.Member{ID: r.wayID, Kind: mapedit.WayKind, Role: role})
			if role == "outer" {
				outerWayIDs = append(outerWayIDs, r.wayID)
			}
		}
	}
	for _, rel := range rels {
		members = append(members, rel.Members...)
	}
	return members, outerWayIDs
}

func duplicateMembership(members []mapedit.Member) bool {
	seen := make(map[mapedit.ID]map[string]bool)
	for _, m := range members {
		byRole, ok := seen[m.ID]
		if !ok {
			byRole = map[string]bool{}
			seen[m.ID] = byRole
		}
		if byRole[m.Role] {
			return true
		}
		byRole[m.Role] = true
	}
	return false
}

func (a MergePolygon) Disabled(g *mapedit.Graph) string {
	rings, rels := a.rings(g)
	if len(rings)+len(rels) < 2 {
		return "not_eligible"
	}
	members, _ := a.buildMembers(rings, rels)
	if duplicateMembership(members) {
		return "not_eligible"
	}
	return ""
}

func (a MergePolygon) Apply(g *mapedit.Graph) *mapedit.Graph {
	rings, rels := a.rings(g)
	if len(rings)+len(rels) < 2 {
		return g
	}
	members, outerWayIDs := a.buildMembers(rings, rels)
	if duplicateMembership(members) {
		return g
	}

	relID := a.NewRelationID
	tags := mapedit.Tags{}
	if len(rels) > 0 {
		relID = rels[0].ID()
		for k, v := range rels[0].Tags() {
			tags[k] = v
		}
	}

	next := g
	for _, wayID := range outerWayIDs {
		w, ok := entity[mapedit.Way](next, wayID)
		if !ok {
			continue
		}
		for k, v := range w.Tags() {
			if k == "area" {
				continue
			}
			tags[k] = v
		}
		r, _ := next.Replace(w.WithTags(nil))
		next = r
	}
	delete(tags, "area")
	tags["type"] = "multipolygon"

	rel := mapedit.NewRelation(relID, members, tags)
	next, _ = next.Replace(rel)

	absorbed := rels
	if len(rels) > 0 {
		absorbed = rels[1:]
	}
	for _, old := range absorbed {
		r, _ := next.RemoveID(old.ID())
		next = r
	}
	return next
}

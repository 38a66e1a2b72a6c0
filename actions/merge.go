package actions

import "github.com/go-mapedit/mapedit"

// Merge folds a set of standalone point nodes into a single way, moving
// each point's tags onto the way and then removing the point. It does not
// insert new vertices: a point that does not already sit on the way's
// geometry has its tags merged in but the way's node list is left
// untouched, preserving every existing node's coordinates.
type Merge struct {
	IDs []mapedit.ID
}

// target resolves which id in a.IDs is the way to merge into, and which are
// the point nodes being folded into it. It reports ok=false (not eligible)
// if the selection does not contain exactly one way, contains any relation,
// or contains no points to merge.
func (a Merge) target(g *mapedit.Graph) (wayID mapedit.ID, pointIDs []mapedit.ID, ok bool) {
	ways := 0
	for _, id := range a.IDs {
		switch e := g.HasEntity(id).(type) {
		case mapedit.Way:
			ways++
			wayID = e.ID()
		case mapedit.Node:
			pointIDs = append(pointIDs, e.ID())
		case mapedit.Relation:
			return "", nil, false
		}
	}
	if ways != 1 || len(pointIDs) == 0 {
		return "", nil, false
	}
	return wayID, pointIDs, true
}

func (a Merge) Disabled(g *mapedit.Graph) string {
	if _, _, ok := a.target(g); !ok {
		return "not_eligible"
	}
	return ""
}

func (a Merge) Apply(g *mapedit.Graph) *mapedit.Graph {
	wayID, pointIDs, ok := a.target(g)
	if !ok {
		return g
	}
	w, ok := entity[mapedit.Way](g, wayID)
	if !ok {
		return g
	}

	tags := w.Tags().Clone()
	if tags == nil {
		tags = mapedit.Tags{}
	}
	for _, id := range pointIDs {
		n, ok := entity[mapedit.Node](g, id)
		if !ok {
			continue
		}
		for k, v := range n.Tags() {
			tags[k] = v
		}
	}

	next, _ := g.Replace(w.WithTags(tags))
	for _, id := range pointIDs {
		if containsID(w.Nodes, id) {
			// The point is itself one of the way's own vertices; its
			// coordinates stay exactly where they are.
			continue
		}
		r, _ := next.RemoveID(id)
		next = r
	}
	return next
}

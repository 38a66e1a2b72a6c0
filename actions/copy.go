package actions

import "github.com/go-mapedit/mapedit"

// Copy deep-copies a set of entities from Source into the graph Do is
// applied to, minting fresh ids from the supplied sequences. A way or
// relation's children are copied transitively; if two copied entities share
// a child, the child is copied once and both copies reference the same new
// id, preserving shared identity across the copy.
type Copy struct {
	IDs         []mapedit.ID
	Source      *mapedit.Graph
	NodeSeq     *mapedit.Sequence
	WaySeq      *mapedit.Sequence
	RelationSeq *mapedit.Sequence
}

// Do copies a.IDs (and their children) into g, returning the resulting
// graph and a map from every old id actually copied to its new entity.
func (a Copy) Do(g *mapedit.Graph) (*mapedit.Graph, map[mapedit.ID]mapedit.Entity) {
	next := g
	newID := make(map[mapedit.ID]mapedit.ID)
	copies := make(map[mapedit.ID]mapedit.Entity)

	var copyEntity func(id mapedit.ID) mapedit.ID
	copyEntity = func(id mapedit.ID) mapedit.ID {
		if nid, ok := newID[id]; ok {
			return nid
		}
		e := a.Source.HasEntity(id)
		if e == nil {
			return id
		}

		switch v := e.(type) {
		case mapedit.Node:
			nid := a.NodeSeq.Next()
			newID[id] = nid
			nn := mapedit.NewNode(nid, v.Loc, v.Tags().Clone())
			next, _ = next.Replace(nn)
			copies[id] = nn
			return nid

		case mapedit.Way:
			nid := a.WaySeq.Next()
			newID[id] = nid
			childIDs := make([]mapedit.ID, len(v.Nodes))
			for i, cid := range v.Nodes {
				childIDs[i] = copyEntity(cid)
			}
			nw := mapedit.NewWay(nid, childIDs, v.Tags().Clone())
			next, _ = next.Replace(nw)
			copies[id] = nw
			return nid

		case mapedit.Relation:
			nid := a.RelationSeq.Next()
			newID[id] = nid
			members := make([]mapedit.Member, len(v.Members))
			for i, m := range v.Members {
				members[i] = mapedit.Member{ID: copyEntity(m.ID), Kind: m.Kind, Role: m.Role}
			}
			nr := mapedit.NewRelation(nid, members, v.Tags().Clone())
			next, _ = next.Replace(nr)
			copies[id] = nr
			return nid
		}
		return id
	}

	for _, id := range a.IDs {
		copyEntity(id)
	}
	return next, copies
}

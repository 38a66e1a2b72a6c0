package spatial

import (
	"github.com/go-mapedit/mapedit"
)

// Syncer keeps an Index's namespaces in step with a sequence of graphs,
// reconciling via mapedit.Diff instead of rebuilding from scratch on every
// change.
type Syncer struct {
	Index    *Index
	Viewport mapedit.Viewport

	tracked map[string]*mapedit.Graph
}

// Resync brings indexID up to date with g. The first call for a given
// indexID bulk-loads every entity currently in g (via Graph.IDs); every
// later call diffs against the graph passed to the previous call for that
// indexID.
func (s *Syncer) Resync(indexID string, g *mapedit.Graph) {
	if s.tracked == nil {
		s.tracked = make(map[string]*mapedit.Graph)
	}
	prev, ok := s.tracked[indexID]
	s.tracked[indexID] = g

	if !ok || prev == nil {
		boxes := make(map[mapedit.ID]BBox)
		for _, id := range g.IDs() {
			e := g.HasEntity(id)
			if e == nil {
				continue
			}
			if box, ok := s.boundingBox(g, e, make(map[mapedit.ID]bool)); ok {
				boxes[id] = box
			}
		}
		s.Index.Replace(indexID, boxes)
		return
	}

	diff := mapedit.Diff(prev, g)

	for _, id := range diff.Deleted {
		s.Index.Remove(indexID, id)
	}

	queue := make(map[mapedit.ID]bool)
	for _, id := range diff.Created {
		queue[id] = true
	}
	for _, id := range diff.Modified {
		s.enqueueWithParents(g, id, queue, make(map[mapedit.ID]bool))
	}

	boxes := make(map[mapedit.ID]BBox, len(queue))
	for id := range queue {
		e := g.HasEntity(id)
		if e == nil {
			s.Index.Remove(indexID, id)
			continue
		}
		if box, ok := s.boundingBox(g, e, make(map[mapedit.ID]bool)); ok {
			boxes[id] = box
		}
	}
	s.Index.Replace(indexID, boxes)
}

// enqueueWithParents adds id and every way/relation that transitively
// references it (a node's parent ways, a way's or relation's parent
// relations) to queue: a child's move changes every ancestor's bounding
// box, so those ancestors need reindexing even though Diff never marked
// them modified. seen guards against relation membership cycles.
func (s *Syncer) enqueueWithParents(g *mapedit.Graph, id mapedit.ID, queue map[mapedit.ID]bool, seen map[mapedit.ID]bool) {
	if seen[id] {
		return
	}
	seen[id] = true
	queue[id] = true

	for _, wayID := range g.ParentWays(id) {
		s.enqueueWithParents(g, wayID, queue, seen)
	}
	for _, relID := range g.ParentRelations(id) {
		s.enqueueWithParents(g, relID, queue, seen)
	}
}

// boundingBox computes e's bounding box in world-pixel coordinates, closing
// over a Way's nodes or a Relation's members. seen guards against relation
// membership cycles; an entity already on the path is skipped rather than
// recursed into again.
func (s *Syncer) boundingBox(g *mapedit.Graph, e mapedit.Entity, seen map[mapedit.ID]bool) (BBox, bool) {
	if seen[e.ID()] {
		return BBox{}, false
	}
	seen[e.ID()] = true

	switch v := e.(type) {
	case mapedit.Node:
		p := s.Viewport.WorldPoint(v.Loc)
		return BBox{MinX: p.X(), MinY: p.Y(), MaxX: p.X(), MaxY: p.Y()}, true

	case mapedit.Way:
		var box BBox
		found := false
		for _, n := range g.ChildNodes(v) {
			p := s.Viewport.WorldPoint(n.Loc)
			b := BBox{MinX: p.X(), MinY: p.Y(), MaxX: p.X(), MaxY: p.Y()}
			if !found {
				box, found = b, true
				continue
			}
			box = box.Union(b)
		}
		return box, found

	case mapedit.Relation:
		var box BBox
		found := false
		for _, m := range v.Members {
			child := g.HasEntity(m.ID)
			if child == nil {
				continue
			}
			b, ok := s.boundingBox(g, child, seen)
			if !ok {
				continue
			}
			if !found {
				box, found = b, true
				continue
			}
			box = box.Union(b)
		}
		return box, found

	default:
		return BBox{}, false
	}
}

// Rebase inserts entities sourced from the server directly into indexID
// without advancing the tracked graph for the next Resync diff: entities
// not yet indexed are always added, entities already indexed are only
// overwritten when force is set.
func (s *Syncer) Rebase(indexID string, g *mapedit.Graph, entities []mapedit.Entity, force bool) {
	boxes := make(map[mapedit.ID]BBox)
	for _, e := range entities {
		if !force && s.Index.Has(indexID, e.ID()) {
			continue
		}
		if box, ok := s.boundingBox(g, e, make(map[mapedit.ID]bool)); ok {
			boxes[e.ID()] = box
		}
	}
	s.Index.Replace(indexID, boxes)
}

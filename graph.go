package mapedit

// Graph is a persistent, copy-on-write overlay of entities on top of an
// optional base graph. Overlays are mutated only through Replace/Remove/
// Rebase; Commit freezes the overlay and assigns it a fresh, monotonically
// increasing key. Every subsequent reader observes a committed graph's key
// atomically: readers hold a *Graph value and never see it mutate under
// them.
//
// The zero value is not usable; construct with NewGraph.
type Graph struct {
	base *Graph

	entities map[ID]overlayEntry
	// parentWays maps a node-id to the set of way-ids that reference it.
	parentWays map[ID]map[ID]struct{}
	// parentRelations maps any entity-id to the set of relation-ids whose
	// member list references it.
	parentRelations map[ID]map[ID]struct{}

	// local records which ids were touched in this overlay, consulted by
	// Rebase to avoid clobbering uncommitted local edits.
	local map[ID]struct{}

	key    int64
	frozen bool
}

// overlayEntry is either a present entity or a tombstone recording that the
// entity was deleted in this overlay.
type overlayEntry struct {
	entity    Entity
	tombstone bool
}

// NewGraph returns an empty, unfrozen Graph with key 0.
func NewGraph() *Graph {
	return &Graph{
		entities:        make(map[ID]overlayEntry),
		parentWays:      make(map[ID]map[ID]struct{}),
		parentRelations: make(map[ID]map[ID]struct{}),
		local:           make(map[ID]struct{}),
	}
}

// Key returns the graph's commit key. An uncommitted overlay shares its
// base's key until Commit is called.
func (g *Graph) Key() int64 {
	if !g.frozen && g.base != nil {
		return g.base.Key()
	}
	return g.key
}

// Frozen reports whether g has been committed. Replace/Remove/Rebase remain
// safe to call on a frozen graph: they open a new overlay on top of it
// rather than mutating it.
func (g *Graph) Frozen() bool { return g.frozen }

// Entity returns the entity stored at id, looking through to base graphs
// when the overlay has no entry for id. It returns a *NotFoundError if id is
// unknown or has been tombstoned.
func (g *Graph) Entity(id ID) (Entity, error) {
	for cur := g; cur != nil; cur = cur.base {
		if entry, ok := cur.entities[id]; ok {
			if entry.tombstone {
				return nil, &NotFoundError{ID: id}
			}
			return entry.entity, nil
		}
	}
	return nil, &NotFoundError{ID: id}
}

// HasEntity returns the entity at id, or nil if it is deleted or unknown.
func (g *Graph) HasEntity(id ID) Entity {
	e, err := g.Entity(id)
	if err != nil {
		return nil
	}
	return e
}

// ParentWays returns the ids of ways whose node list references e's id.
func (g *Graph) ParentWays(id ID) []ID {
	return g.parentSet(id, func(gr *Graph) map[ID]map[ID]struct{} { return gr.parentWays })
}

// ParentRelations returns the ids of relations whose member list references
// e's id.
func (g *Graph) ParentRelations(id ID) []ID {
	return g.parentSet(id, func(gr *Graph) map[ID]map[ID]struct{} { return gr.parentRelations })
}

// parentSet merges the overlay chain's back-reference sets for id, newest
// overlay winning for any id it explicitly recorded (an overlay always
// records a complete replacement set for any id it touches, see
// updateBackReferences).
func (g *Graph) parentSet(id ID, pick func(*Graph) map[ID]map[ID]struct{}) []ID {
	for cur := g; cur != nil; cur = cur.base {
		if set, ok := pick(cur)[id]; ok {
			out := make([]ID, 0, len(set))
			for p := range set {
				out = append(out, p)
			}
			return out
		}
	}
	return nil
}

// IDs returns every entity id known anywhere in g's overlay chain that has
// not been tombstoned, used by the spatial index's first full bulk load
// (every later sync works from a Difference instead).
func (g *Graph) IDs() []ID {
	seen := make(map[ID]bool)
	var out []ID
	for cur := g; cur != nil; cur = cur.base {
		for id, entry := range cur.entities {
			if seen[id] {
				continue
			}
			seen[id] = true
			if !entry.tombstone {
				out = append(out, id)
			}
		}
	}
	return out
}

// ChildNodes returns w's referenced nodes in order, duplicates preserved,
// resolving each through the graph. Dangling references (tolerated per the
// "partial data" error-handling rule) are simply omitted.
func (g *Graph) ChildNodes(w Way) []Node {
	nodes := make([]Node, 0, len(w.Nodes))
	for _, id := range w.Nodes {
		if e := g.HasEntity(id); e != nil {
			if n, ok := e.(Node); ok {
				nodes = append(nodes, n)
			}
		}
	}
	return nodes
}

// Replace returns a new overlay with entity installed at entity.ID(),
// updating parent back-references for any added or removed children. If g
// is already committed, Replace opens a fresh overlay on top of it; if g is
// still open, Replace mutates it in place (see openOverlay).
func (g *Graph) Replace(entity Entity) (*Graph, error) {
	next := g.openOverlay()
	old := g.HasEntity(entity.ID())
	next.entities[entity.ID()] = overlayEntry{entity: entity}
	next.local[entity.ID()] = struct{}{}
	next.updateBackReferences(entity.ID(), old, entity)
	return next, nil
}

// Remove returns a new overlay with a tombstone installed at entity.ID(),
// clearing any parent back-references the entity held over its children.
func (g *Graph) Remove(entity Entity) (*Graph, error) {
	return g.RemoveID(entity.ID())
}

// RemoveID is Remove without requiring a loaded Entity value, for callers
// (such as the ingest adapter) that only learned that an id was deleted
// upstream.
func (g *Graph) RemoveID(id ID) (*Graph, error) {
	next := g.openOverlay()
	old := g.HasEntity(id)
	next.entities[id] = overlayEntry{tombstone: true}
	next.local[id] = struct{}{}
	next.updateBackReferences(id, old, nil)
	return next, nil
}

// Rebase installs entities and deletions coming from an external source (the
// ingest adapter) without advancing the graph's current key. Entries already
// touched in this overlay (recorded in local) are skipped unless force is
// set, so server data never clobbers an in-progress local edit.
func (g *Graph) Rebase(entities []Entity, deleted []ID, force bool) (*Graph, error) {
	next := g.openOverlay()
	for _, e := range entities {
		if _, touched := next.local[e.ID()]; touched && !force {
			continue
		}
		old := next.HasEntity(e.ID())
		next.entities[e.ID()] = overlayEntry{entity: e}
		next.updateBackReferences(e.ID(), old, e)
	}
	for _, id := range deleted {
		if _, touched := next.local[id]; touched && !force {
			continue
		}
		old := next.HasEntity(id)
		next.entities[id] = overlayEntry{tombstone: true}
		next.updateBackReferences(id, old, nil)
	}
	return next, nil
}

// Commit freezes g and assigns it a fresh key one greater than its base's
// (or 0 for the first commit). Commit is idempotent: calling it again on an
// already-frozen graph returns g unchanged.
func (g *Graph) Commit() *Graph {
	if g.frozen {
		return g
	}
	base := int64(0)
	if g.base != nil {
		base = g.base.Key() + 1
	}
	g.key = base
	g.frozen = true
	return g
}

// Snapshot returns an immutable handle to g. Because Graph values are never
// mutated after construction (only ever replaced by a new overlay), g itself
// already is that handle; Snapshot exists so callers can express intent at
// the call site.
func (g *Graph) Snapshot() *Graph { return g }

// openOverlay returns a fresh, writable overlay on top of g. If g is not yet
// frozen, mutating "on top of" an unfrozen graph is equivalent to mutating g
// directly (there is no observable difference to other readers, since
// nothing else can hold a reference to an uncommitted graph and mutate
// concurrently per the single-writer concurrency model), so we reuse g's
// maps in place rather than paying for a new overlay layer on every action
// call within one edit session.
func (g *Graph) openOverlay() *Graph {
	if !g.frozen {
		return g
	}
	return &Graph{
		base:            g,
		entities:        make(map[ID]overlayEntry),
		parentWays:      make(map[ID]map[ID]struct{}),
		parentRelations: make(map[ID]map[ID]struct{}),
		local:           make(map[ID]struct{}),
	}
}

// updateBackReferences reconciles parentWays/parentRelations for the
// transition old -> new at id, per the §4.1 algorithm: diff old children vs
// new children by set membership, drop this id from children that were
// removed, add it to children that were introduced.
func (next *Graph) updateBackReferences(id ID, old, updated Entity) {
	switch {
	case old == nil && updated == nil:
		return
	case updated == nil:
		next.clearBackReferences(id, old)
	case old == nil:
		next.addBackReferences(id, updated)
	default:
		next.diffBackReferences(id, old, updated)
	}
}

func (next *Graph) clearBackReferences(id ID, old Entity) {
	switch o := old.(type) {
	case Way:
		for _, nodeID := range uniqueIDs(o.Nodes) {
			next.dropParentWay(nodeID, id)
		}
	case Relation:
		for _, m := range uniqueMembers(o.Members) {
			next.dropParentRelation(m.ID, id)
		}
	}
}

func (next *Graph) addBackReferences(id ID, updated Entity) {
	switch u := updated.(type) {
	case Way:
		for _, nodeID := range uniqueIDs(u.Nodes) {
			next.addParentWay(nodeID, id)
		}
	case Relation:
		for _, m := range uniqueMembers(u.Members) {
			next.addParentRelation(m.ID, id)
		}
	}
}

func (next *Graph) diffBackReferences(id ID, old, updated Entity) {
	switch u := updated.(type) {
	case Way:
		o, ok := old.(Way)
		if !ok {
			next.clearBackReferences(id, old)
			next.addBackReferences(id, updated)
			return
		}
		oldSet := idSet(o.Nodes)
		newSet := idSet(u.Nodes)
		for nodeID := range oldSet {
			if _, ok := newSet[nodeID]; !ok {
				next.dropParentWay(nodeID, id)
			}
		}
		for nodeID := range newSet {
			if _, ok := oldSet[nodeID]; !ok {
				next.addParentWay(nodeID, id)
			}
		}
	case Relation:
		o, ok := old.(Relation)
		if !ok {
			next.clearBackReferences(id, old)
			next.addBackReferences(id, updated)
			return
		}
		oldSet := memberIDSet(o.Members)
		newSet := memberIDSet(u.Members)
		for memberID := range oldSet {
			if _, ok := newSet[memberID]; !ok {
				next.dropParentRelation(memberID, id)
			}
		}
		for memberID := range newSet {
			if _, ok := oldSet[memberID]; !ok {
				next.addParentRelation(memberID, id)
			}
		}
	case Node:
		// Nodes have no children; nothing to reconcile.
	}
}

// addParentWay/dropParentWay/addParentRelation/dropParentRelation always
// write a *complete* set for nodeID/memberID into this overlay layer (copying
// from the base if necessary), so that parentSet's "newest overlay wins"
// lookup (see parentSet) observes a fully up-to-date set rather than a
// partial delta.
func (next *Graph) addParentWay(nodeID, wayID ID) {
	set := next.ownParentWaySet(nodeID)
	set[wayID] = struct{}{}
	next.parentWays[nodeID] = set
}

func (next *Graph) dropParentWay(nodeID, wayID ID) {
	set := next.ownParentWaySet(nodeID)
	delete(set, wayID)
	next.parentWays[nodeID] = set
}

func (next *Graph) ownParentWaySet(nodeID ID) map[ID]struct{} {
	if set, ok := next.parentWays[nodeID]; ok {
		return cloneIDSet(set)
	}
	existing := next.ParentWays(nodeID)
	set := make(map[ID]struct{}, len(existing))
	for _, id := range existing {
		set[id] = struct{}{}
	}
	return set
}

func (next *Graph) addParentRelation(memberID, relationID ID) {
	set := next.ownParentRelationSet(memberID)
	set[relationID] = struct{}{}
	next.parentRelations[memberID] = set
}

func (next *Graph) dropParentRelation(memberID, relationID ID) {
	set := next.ownParentRelationSet(memberID)
	delete(set, relationID)
	next.parentRelations[memberID] = set
}

func (next *Graph) ownParentRelationSet(memberID ID) map[ID]struct{} {
	if set, ok := next.parentRelations[memberID]; ok {
		return cloneIDSet(set)
	}
	existing := next.ParentRelations(memberID)
	set := make(map[ID]struct{}, len(existing))
	for _, id := range existing {
		set[id] = struct{}{}
	}
	return set
}

func cloneIDSet(set map[ID]struct{}) map[ID]struct{} {
	c := make(map[ID]struct{}, len(set))
	for id := range set {
		c[id] = struct{}{}
	}
	return c
}

func idSet(ids []ID) map[ID]struct{} {
	set := make(map[ID]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set
}

func uniqueIDs(ids []ID) []ID {
	set := idSet(ids)
	out := make([]ID, 0, len(set))
	for id := range set {
		out = append(out, id)
	}
	return out
}

func memberIDSet(members []Member) map[ID]struct{} {
	set := make(map[ID]struct{}, len(members))
	for _, m := range members {
		set[m.ID] = struct{}{}
	}
	return set
}

func uniqueMembers(members []Member) []Member {
	seen := make(map[ID]struct{}, len(members))
	out := make([]Member, 0, len(members))
	for _, m := range members {
		if _, ok := seen[m.ID]; ok {
			continue
		}
		seen[m.ID] = struct{}{}
		out = append(out, m)
	}
	return out
}

package actions

import "github.com/go-mapedit/mapedit"

// AddVertex inserts nodeID into wayID's node list at index.
type AddVertex struct {
	WayID  mapedit.ID
	NodeID mapedit.ID
	Index  int
}

func (a AddVertex) Apply(g *mapedit.Graph) *mapedit.Graph {
	way, ok := entity[mapedit.Way](g, a.WayID)
	if !ok {
		return g
	}
	nodes := insertID(way.Nodes, a.Index, a.NodeID)
	next, _ := g.Replace(way.WithNodes(nodes))
	return next
}

// ChangeTags replaces entityID's tag map.
type ChangeTags struct {
	EntityID mapedit.ID
	Tags     mapedit.Tags
}

func (a ChangeTags) Apply(g *mapedit.Graph) *mapedit.Graph {
	e := g.HasEntity(a.EntityID)
	if e == nil {
		return g
	}
	next, _ := g.Replace(e.WithTags(a.Tags))
	return next
}

// ChangeMember replaces the member at index in relationID's member list.
// The member is stored exactly as given: ChangeMember does not check whether
// member.ID still resolves in the graph, and a Member carries no marker for
// a dangling reference.
type ChangeMember struct {
	RelationID mapedit.ID
	Member     mapedit.Member
	Index      int
}

func (a ChangeMember) Apply(g *mapedit.Graph) *mapedit.Graph {
	rel, ok := entity[mapedit.Relation](g, a.RelationID)
	if !ok || a.Index < 0 || a.Index >= len(rel.Members) {
		return g
	}
	members := append([]mapedit.Member{}, rel.Members...)
	members[a.Index] = a.Member
	next, _ := g.Replace(rel.WithMembers(members))
	return next
}

// InsertPair describes a way split that addMember must keep contiguous: the
// originalID must have insertedID placed immediately beside every one of
// its occurrences in the relation's member list, preserving route
// continuity across the split.
type InsertPair struct {
	OriginalID mapedit.ID
	InsertedID mapedit.ID
	// Nodes are the connecting nodes shared between original and inserted,
	// used to decide whether insertedID goes before or after originalID at
	// each occurrence.
	Nodes []mapedit.ID
}

// AddMember inserts member into relationID's member list. If Index is
// negative, the member is appended respecting PTv2 ordering: stop/platform
// members are kept ahead of way/node/relation members. If InsertPair is
// set, the way referenced by InsertPair.OriginalID was just split, and
// insertedID's membership is added beside every occurrence of originalID.
type AddMember struct {
	RelationID mapedit.ID
	Member     mapedit.Member
	Index      int // -1 means "append respecting PTv2 ordering"
	InsertPair *InsertPair
}

func (a AddMember) Apply(g *mapedit.Graph) *mapedit.Graph {
	rel, ok := entity[mapedit.Relation](g, a.RelationID)
	if !ok {
		return g
	}

	if a.InsertPair != nil {
		// The inserted way goes after the original if the original's
		// trailing node matches InsertPair.Nodes' first entry, otherwise
		// before it; with no Nodes or no original way, it goes after.
		after := true
		if orig, ok := entity[mapedit.Way](g, a.InsertPair.OriginalID); ok && len(orig.Nodes) > 0 && len(a.InsertPair.Nodes) > 0 {
			after = orig.Nodes[len(orig.Nodes)-1] == a.InsertPair.Nodes[0]
		}
		members := insertBesideOccurrences(rel.Members, *a.InsertPair, after)
		next, _ := g.Replace(rel.WithMembers(members))
		return next
	}

	members := rel.Members
	if a.Index < 0 {
		members = appendPTv2(members, a.Member)
	} else {
		members = insertMember(members, a.Index, a.Member)
	}
	next, _ := g.Replace(rel.WithMembers(members))
	return next
}

// insertBesideOccurrences inserts a member referencing p.InsertedID next to
// every existing member referencing p.OriginalID: after it when after is
// set, before it otherwise.
func insertBesideOccurrences(members []mapedit.Member, p InsertPair, after bool) []mapedit.Member {
	out := make([]mapedit.Member, 0, len(members)+countMatches(members, p.OriginalID))
	for _, m := range members {
		if m.ID != p.OriginalID {
			out = append(out, m)
			continue
		}
		inserted := mapedit.Member{ID: p.InsertedID, Kind: mapedit.WayKind, Role: m.Role}
		if after {
			out = append(out, m, inserted)
		} else {
			out = append(out, inserted, m)
		}
	}
	return out
}

func countMatches(members []mapedit.Member, id mapedit.ID) int {
	n := 0
	for _, m := range members {
		if m.ID == id {
			n++
		}
	}
	return n
}

// appendPTv2 appends m, keeping stop/platform-roled members ahead of
// way/node/relation members per PTv2 route-relation convention.
func appendPTv2(members []mapedit.Member, m mapedit.Member) []mapedit.Member {
	if !isPTv2StopOrPlatform(m.Role) {
		return append(append([]mapedit.Member{}, members...), m)
	}
	out := make([]mapedit.Member, 0, len(members)+1)
	inserted := false
	for _, existing := range members {
		if !inserted && !isPTv2StopOrPlatform(existing.Role) {
			out = append(out, m)
			inserted = true
		}
		out = append(out, existing)
	}
	if !inserted {
		out = append(out, m)
	}
	return out
}

func isPTv2StopOrPlatform(role string) bool {
	switch role {
	case "stop", "stop_entry_only", "stop_exit_only",
		"platform", "platform_entry_only", "platform_exit_only":
		return true
	default:
		return false
	}
}

func insertMember(members []mapedit.Member, index int, m mapedit.Member) []mapedit.Member {
	if index < 0 {
		index = 0
	}
	if index > len(members) {
		index = len(members)
	}
	out := make([]mapedit.Member, 0, len(members)+1)
	out = append(out, members[:index]...)
	out = append(out, m)
	out = append(out, members[index:]...)
	return out
}

// MoveMember reorders relationID's member list, moving the member at index
// from to index to.
type MoveMember struct {
	RelationID mapedit.ID
	From, To   int
}

func (a MoveMember) Apply(g *mapedit.Graph) *mapedit.Graph {
	rel, ok := entity[mapedit.Relation](g, a.RelationID)
	if !ok || a.From < 0 || a.From >= len(rel.Members) {
		return g
	}
	members := append([]mapedit.Member{}, rel.Members...)
	m := members[a.From]
	members = append(members[:a.From], members[a.From+1:]...)
	to := a.To
	if to > len(members) {
		to = len(members)
	}
	if to < 0 {
		to = 0
	}
	members = insertMember(members, to, m)
	next, _ := g.Replace(rel.WithMembers(members))
	return next
}

// DeleteMember removes the member at index from relationID's member list.
// If the relation becomes empty, the relation itself is removed from the
// graph.
type DeleteMember struct {
	RelationID mapedit.ID
	Index      int
}

func (a DeleteMember) Apply(g *mapedit.Graph) *mapedit.Graph {
	rel, ok := entity[mapedit.Relation](g, a.RelationID)
	if !ok || a.Index < 0 || a.Index >= len(rel.Members) {
		return g
	}
	members := append(append([]mapedit.Member{}, rel.Members[:a.Index]...), rel.Members[a.Index+1:]...)
	if len(members) == 0 {
		next, _ := g.Remove(rel)
		return next
	}
	next, _ := g.Replace(rel.WithMembers(members))
	return next
}

// entity resolves id to an entity of type T, reporting whether it was
// found and had the expected concrete type.
func entity[T mapedit.Entity](g *mapedit.Graph, id mapedit.ID) (T, bool) {
	var zero T
	e := g.HasEntity(id)
	if e == nil {
		return zero, false
	}
	v, ok := e.(T)
	return v, ok
}

func insertID(ids []mapedit.ID, index int, id mapedit.ID) []mapedit.ID {
	if index < 0 {
		index = 0
	}
	if index > len(ids) {
		index = len(ids)
	}
	out := make([]mapedit.ID, 0, len(ids)+1)
	out = append(out, ids[:index]...)
	out = append(out, id)
	out = append(out, ids[index:]...)
	return out
}

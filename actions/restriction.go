package actions

import "github.com/go-mapedit/mapedit"

// Turn describes a from/via/to movement a turn-restriction relation
// constrains. Via may be a single node or an ordered sequence of ways
// bridging from and to.
type Turn struct {
	From    mapedit.ID
	Via     []mapedit.ID
	ViaKind mapedit.Kind
	To      mapedit.ID
}

// RestrictTurn builds a type=restriction relation for Turn, tagged with the
// given restriction kind (e.g. "no_left_turn", "no_straight_on").
type RestrictTurn struct {
	Turn       Turn
	Kind       string
	RelationID mapedit.ID
}

func (a RestrictTurn) Apply(g *mapedit.Graph) *mapedit.Graph {
	members := make([]mapedit.Member, 0, len(a.Turn.Via)+2)
	members = append(members, mapedit.Member{ID: a.Turn.From, Kind: mapedit.WayKind, Role: "from"})
	for _, id := range a.Turn.Via {
		members = append(members, mapedit.Member{ID: id, Kind: a.Turn.ViaKind, Role: "via"})
	}
	members = append(members, mapedit.Member{ID: a.Turn.To, Kind: mapedit.WayKind, Role: "to"})

	tags := mapedit.Tags{
		"type":        "restriction",
		"restriction": a.Kind,
	}
	rel := mapedit.NewRelation(a.RelationID, members, tags)
	next, _ := g.Replace(rel)
	return next
}

// UnrestrictTurn removes a turn-restriction relation entirely.
type UnrestrictTurn struct {
	RestrictionID mapedit.ID
}

func (a UnrestrictTurn) Apply(g *mapedit.Graph) *mapedit.Graph {
	next, _ := g.RemoveID(a.RestrictionID)
	return next
}

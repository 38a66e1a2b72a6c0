package mapedit

import "github.com/paulmach/orb"

// Kind distinguishes the three OSM entity variants and the three member
// types a relation may reference.
type Kind uint8

const (
	NodeKind Kind = iota
	WayKind
	RelationKind
)

func (k Kind) String() string {
	switch k {
	case NodeKind:
		return "node"
	case WayKind:
		return "way"
	case RelationKind:
		return "relation"
	default:
		return "unknown"
	}
}

// Tags is an immutable-by-convention map of OSM key/value pairs. Callers
// must treat a Tags value as read-only; use With/Without to derive a
// modified copy.
type Tags map[string]string

// Get returns the value for key and whether it was present.
func (t Tags) Get(key string) (string, bool) {
	v, ok := t[key]
	return v, ok
}

// Has reports whether key is present in t.
func (t Tags) Has(key string) bool {
	_, ok := t[key]
	return ok
}

// Clone returns a shallow copy of t.
func (t Tags) Clone() Tags {
	if t == nil {
		return nil
	}
	c := make(Tags, len(t))
	for k, v := range t {
		c[k] = v
	}
	return c
}

// With returns a copy of t with key set to value.
func (t Tags) With(key, value string) Tags {
	c := t.Clone()
	if c == nil {
		c = make(Tags, 1)
	}
	c[key] = value
	return c
}

// Without returns a copy of t with key removed.
func (t Tags) Without(key string) Tags {
	if !t.Has(key) {
		return t
	}
	c := t.Clone()
	delete(c, key)
	return c
}

// Entity is the common surface shared by Node, Way and Relation. Entity
// values are immutable; actions that "change" an entity return a new value.
//
// Entity is implemented only by Node, Way and Relation in this package;
// external packages consume it through the Graph API.
type Entity interface {
	ID() ID
	Kind() Kind
	Version() int
	Tags() Tags
	Visible() bool
	// WithTags returns a copy of the entity with its tags replaced.
	WithTags(Tags) Entity
}

// header holds the fields shared by every entity variant.
type header struct {
	IDValue      ID
	VersionValue int
	TagsValue    Tags
	VisibleValue bool
}

func (h header) ID() ID        { return h.IDValue }
func (h header) Version() int  { return h.VersionValue }
func (h header) Tags() Tags    { return h.TagsValue }
func (h header) Visible() bool { return h.VisibleValue }

// Node is a point entity with a geographic location.
type Node struct {
	header
	Loc orb.Point
}

// NewNode constructs a Node with the given id, location and tags.
func NewNode(id ID, loc orb.Point, tags Tags) Node {
	return Node{header: header{IDValue: id, VersionValue: 0, TagsValue: tags, VisibleValue: true}, Loc: loc}
}

func (Node) Kind() Kind { return NodeKind }

func (n Node) WithTags(t Tags) Entity { n.TagsValue = t; return n }

// WithLoc returns a copy of n relocated to loc.
func (n Node) WithLoc(loc orb.Point) Node { n.Loc = loc; return n }

// Way is an ordered sequence of node references.
type Way struct {
	header
	Nodes []ID
}

// NewWay constructs a Way with the given id, node list and tags.
func NewWay(id ID, nodes []ID, tags Tags) Way {
	return Way{header: header{IDValue: id, VersionValue: 0, TagsValue: tags, VisibleValue: true}, Nodes: nodes}
}

func (Way) Kind() Kind { return WayKind }

func (w Way) WithTags(t Tags) Entity { w.TagsValue = t; return w }

// WithNodes returns a copy of w with its node list replaced.
func (w Way) WithNodes(nodes []ID) Way { w.Nodes = nodes; return w }

// Member is a single typed, roled reference from a Relation to another
// entity.
type Member struct {
	ID   ID
	Kind Kind
	Role string
}

// Relation is an ordered sequence of typed, roled member references.
type Relation struct {
	header
	Members []Member
}

// NewRelation constructs a Relation with the given id, members and tags.
func NewRelation(id ID, members []Member, tags Tags) Relation {
	return Relation{header: header{IDValue: id, VersionValue: 0, TagsValue: tags, VisibleValue: true}, Members: members}
}

func (Relation) Kind() Kind { return RelationKind }

func (r Relation) WithTags(t Tags) Entity { r.TagsValue = t; return r }

// WithMembers returns a copy of r with its member list replaced.
func (r Relation) WithMembers(members []Member) Relation { r.Members = members; return r }

// IsMultipolygon reports whether r is tagged type=multipolygon.
func (r Relation) IsMultipolygon() bool {
	v, _ := r.Tags().Get("type")
	return v == "multipolygon"
}

// IsRestriction reports whether r is tagged type=restriction.
func (r Relation) IsRestriction() bool {
	v, _ := r.Tags().Get("type")
	return v == "restriction"
}

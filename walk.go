package mapedit

// A Visitor's Visit method is invoked for each entity encountered by Walk.
// If the returned Visitor w is not nil, Walk visits each child of the
// entity with w, followed by a call to w.Visit(nil).
//
// Retargeted from the teacher library's Assembly-walking Visitor: there the
// children of a node come from Assembly.EdgesOf; here they come from a
// Way's node list or a Relation's member list, resolved through a Graph.
type Visitor interface {
	Visit(entity Entity) (w Visitor)
}

// Walk traverses root in depth-first order, starting with v.Visit(root).
// Way children are the graph's resolved ChildNodes, in order, duplicates
// included; relation children are each member resolved through the graph,
// in member order, skipping references the graph cannot resolve. Node
// entities have no children.
func Walk(v Visitor, g *Graph, root Entity) {
	if v = v.Visit(root); v == nil {
		return
	}
	for _, child := range children(g, root) {
		Walk(v, g, child)
	}
	v.Visit(nil)
}

// children returns e's direct children as resolved through g.
func children(g *Graph, e Entity) []Entity {
	switch v := e.(type) {
	case Way:
		nodes := g.ChildNodes(v)
		out := make([]Entity, len(nodes))
		for i, n := range nodes {
			out[i] = n
		}
		return out
	case Relation:
		out := make([]Entity, 0, len(v.Members))
		for _, m := range v.Members {
			if child := g.HasEntity(m.ID); child != nil {
				out = append(out, child)
			}
		}
		return out
	default:
		return nil
	}
}

type inspector func(entity Entity) bool

func (f inspector) Visit(entity Entity) Visitor {
	if f(entity) {
		return f
	}
	return nil
}

// Inspect traverses root in depth-first order, calling f(root) first; if f
// returns true, Inspect recurses into root's children, followed by a call
// to f(nil).
func Inspect(g *Graph, root Entity, f func(entity Entity) bool) {
	Walk(inspector(f), g, root)
}

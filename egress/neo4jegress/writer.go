// Package neo4jegress mirrors a mapedit.Graph into a Neo4j database for
// downstream querying (rendering, change history, reachability queries over
// way/relation membership). It is a one-way egress adapter: Neo4j is never
// read back into a mapedit.Graph.
//
// Retargeted from the teacher engine's neo4jengine package: that engine kept
// Neo4j as the digital twin's graph of record, content-address-keyed,
// bidirectionally synced with snapshot diffing. Here the graph of record is
// the in-memory mapedit.Graph; Neo4j is written to, keyed by the entity's
// own ID rather than a structural content address, using the same
// MERGE-then-count-check Cypher idiom and corrupted-graph panic the teacher
// engine uses for its own writes.
package neo4jegress

import (
	"context"
	"fmt"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	"github.com/go-mapedit/mapedit"
)

// Writer applies a mapedit.Difference to a Neo4j database within a single
// managed transaction.
type Writer struct {
	tx neo4j.ManagedTransaction
}

// NewWriter returns a Writer bound to tx.
func NewWriter(tx neo4j.ManagedTransaction) Writer {
	return Writer{tx: tx}
}

// Apply mirrors diff into Neo4j: every created or modified id is upserted
// (including its way/relation membership edges), every deleted id is
// detached and removed.
func (w Writer) Apply(ctx context.Context, g *mapedit.Graph, diff mapedit.Difference) error {
	for _, id := range diff.Deleted {
		if err := w.retractEntity(ctx, id); err != nil {
			return fmt.Errorf("retract %s: %w", id, err)
		}
	}
	for _, id := range append(append([]mapedit.ID{}, diff.Created...), diff.Modified...) {
		entity, err := g.Entity(id)
		if err != nil {
			return fmt.Errorf("resolve %s: %w", id, err)
		}
		if err := w.assertEntity(ctx, entity); err != nil {
			return fmt.Errorf("assert %s: %w", id, err)
		}
	}
	return nil
}

func (w Writer) assertEntity(ctx context.Context, e mapedit.Entity) error {
	label := labelOf(e.Kind())
	props := map[string]any{
		"id":      string(e.ID()),
		"version": e.Version(),
		"hash":    mapedit.ContentAddress(e).String(),
	}
	for k, v := range e.Tags() {
		props["tag_"+k] = v
	}
	if n, ok := e.(mapedit.Node); ok {
		props["lon"] = n.Loc[0]
		props["lat"] = n.Loc[1]
	}

	query := `
		MERGE (n:` + label + ` {_id: $id})
		ON CREATE SET n._created_at = datetime()
		SET n += $props, n._last_modified = datetime()
		RETURN count(n) AS nodes
	`
	result, err := w.tx.Run(ctx, query, map[string]any{"id": string(e.ID()), "props": props})
	if err != nil {
		return fmt.Errorf("run cypher: %w", err)
	}
	record, err := result.Single(ctx)
	if err != nil {
		return fmt.Errorf("query single result: %w", err)
	}
	nodes, err := getRecordProperty[int64](record, "nodes")
	if err != nil {
		return fmt.Errorf("get nodes: %w", err)
	}
	if nodes != 1 {
		panicCorrupted(ctx, fmt.Sprintf("assert-entity modified %d nodes instead of 1", nodes))
	}

	return w.assertMembership(ctx, e)
}

// assertMembership rebuilds e's outgoing MEMBER_OF edges from scratch: drop
// every existing outgoing edge, then recreate one per current child, each
// carrying its position so a reader can recover way/relation ordering.
func (w Writer) assertMembership(ctx context.Context, e mapedit.Entity) error {
	if _, err := w.tx.Run(ctx, `
		MATCH (n {_id: $id})-[r:MEMBER_OF]->()
		DELETE r
	`, map[string]any{"id": string(e.ID())}); err != nil {
		return fmt.Errorf("clear membership: %w", err)
	}

	switch v := e.(type) {
	case mapedit.Way:
		for i, childID := range v.Nodes {
			if err := w.assertMemberEdge(ctx, v.ID(), childID, i, ""); err != nil {
				return err
			}
		}
	case mapedit.Relation:
		for i, m := range v.Members {
			if err := w.assertMemberEdge(ctx, v.ID(), m.ID, i, m.Role); err != nil {
				return err
			}
		}
	}
	return nil
}

func (w Writer) assertMemberEdge(ctx context.Context, from, to mapedit.ID, position int, role string) error {
	_, err := w.tx.Run(ctx, `
		MATCH (s {_id: $from})
		MERGE (d {_id: $to})
		MERGE (s)-[e:MEMBER_OF {position: $position}]->(d)
		SET e.role = $role
	`, map[string]any{
		"from":     string(from),
		"to":       string(to),
		"position": position,
		"role":     role,
	})
	if err != nil {
		return fmt.Errorf("assert member edge %s->%s: %w", from, to, err)
	}
	return nil
}

func (w Writer) retractEntity(ctx context.Context, id mapedit.ID) error {
	result, err := w.tx.Run(ctx, `
		MATCH (n {_id: $id})
		DETACH DELETE n
		RETURN count(n) AS nodes
	`, map[string]any{"id": string(id)})
	if err != nil {
		return fmt.Errorf("run cypher: %w", err)
	}
	record, err := result.Single(ctx)
	if err != nil {
		return fmt.Errorf("query single result: %w", err)
	}
	nodes, err := getRecordProperty[int64](record, "nodes")
	if err != nil {
		return fmt.Errorf("get nodes: %w", err)
	}
	if nodes > 1 {
		panicCorrupted(ctx, fmt.Sprintf("retract-entity matched %d nodes instead of 0/1", nodes))
	}
	return nil
}

func labelOf(k mapedit.Kind) string {
	switch k {
	case mapedit.NodeKind:
		return "Node"
	case mapedit.WayKind:
		return "Way"
	case mapedit.RelationKind:
		return "Relation"
	default:
		return "Entity"
	}
}

// getRecordProperty reads a single named property off a Neo4j record and
// asserts it to type T.
func getRecordProperty[T any](record *neo4j.Record, key string) (T, error) {
	raw, ok := record.Get(key)
	if !ok {
		var zero T
		return zero, fmt.Errorf("missing property %q", key)
	}
	v, ok := raw.(T)
	if !ok {
		var zero T
		return zero, fmt.Errorf("property %q has type %T, want %T", key, raw, zero)
	}
	return v, nil
}

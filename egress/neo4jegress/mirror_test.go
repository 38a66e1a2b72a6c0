package neo4jegress

import (
	"context"
	"testing"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"github.com/paulmach/orb"

	"github.com/go-mapedit/mapedit"
	"github.com/go-mapedit/mapedit/internal/dbtest"
)

func TestMirrorSyncUpsertsAndDeletes(t *testing.T) {
	driver := dbtest.SetupNeo4j(t)
	mirror := NewMirror(driver)
	ctx := context.Background()

	n := mapedit.NewNode("1", orb.Point{13.4, 52.5}, mapedit.Tags{"amenity": "cafe"})
	g, err := mapedit.NewGraph().Replace(n)
	if err != nil {
		t.Fatalf("Replace: %v", err)
	}
	g = g.Commit()
	diff := mapedit.Diff(mapedit.NewGraph().Commit(), g)

	if err := mirror.Sync(ctx, g, diff); err != nil {
		t.Fatalf("Sync (create): %v", err)
	}

	session := driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeRead})
	defer session.Close(ctx)
	result, err := session.Run(ctx, `MATCH (n:Node {_id: "1"}) RETURN n._id AS id`, nil)
	if err != nil {
		t.Fatalf("run query: %v", err)
	}
	record, err := result.Single(ctx)
	if err != nil {
		t.Fatalf("expected exactly one matching node: %v", err)
	}
	if id, _ := record.Get("id"); id != "1" {
		t.Errorf("id = %v, want %q", id, "1")
	}

	removed, err := g.Remove(n)
	if err != nil {
		t.Fatalf("Remove: %v", err)
	}
	removed = removed.Commit()
	deleteDiff := mapedit.Diff(g, removed)
	if err := mirror.Sync(ctx, removed, deleteDiff); err != nil {
		t.Fatalf("Sync (delete): %v", err)
	}

	result, err = session.Run(ctx, `MATCH (n:Node {_id: "1"}) RETURN count(n) AS c`, nil)
	if err != nil {
		t.Fatalf("run query: %v", err)
	}
	record, err = result.Single(ctx)
	if err != nil {
		t.Fatalf("query single result: %v", err)
	}
	if c, _ := record.Get("c"); c != int64(0) {
		t.Errorf("remaining node count = %v, want 0", c)
	}
}

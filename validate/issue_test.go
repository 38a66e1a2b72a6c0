package validate

import (
	"testing"

	"github.com/paulmach/orb"

	"github.com/go-mapedit/mapedit"
)

func TestHashStableAcrossEntityIDOrder(t *testing.T) {
	a := Issue{Type: "t", EntityIDs: []mapedit.ID{"1", "2"}}
	b := Issue{Type: "t", EntityIDs: []mapedit.ID{"2", "1"}}
	if a.Hash() != b.Hash() {
		t.Fatal("expected Hash to be independent of EntityIDs order")
	}
}

func TestHashDiffersOnData(t *testing.T) {
	a := Issue{Type: "t", Data: map[string]string{"value": "x"}}
	b := Issue{Type: "t", Data: map[string]string{"value": "y"}}
	if a.Hash() == b.Hash() {
		t.Fatal("expected different Data to produce different Hash")
	}
}

func TestRunSkipsMissingEntitiesAndAppliesEveryRule(t *testing.T) {
	g := mapedit.NewGraph()
	n, _ := g.Replace(mapedit.NewNode("1", orb.Point{0, 0}, nil))
	g = n

	calls := 0
	rule := RuleFunc(func(e mapedit.Entity, g *mapedit.Graph) []Issue {
		calls++
		return []Issue{{Type: "x", EntityIDs: []mapedit.ID{e.ID()}}}
	})

	issues := Run(g, []mapedit.ID{"1", "missing"}, []Rule{rule})
	if calls != 1 {
		t.Fatalf("rule invoked %d times, want 1 (missing id must be skipped)", calls)
	}
	if len(issues) != 1 {
		t.Fatalf("len(issues) = %d, want 1", len(issues))
	}
}

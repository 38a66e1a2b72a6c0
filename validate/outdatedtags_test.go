package validate

import (
	"testing"

	"github.com/go-mapedit/mapedit"
)

func TestOutdatedTagsFlagsSimpleDeprecatedPair(t *testing.T) {
	cfg := mapedit.Config{
		DeprecatedTags: mapedit.DeprecatedTags{
			{Old: mapedit.Tags{"highway": "ford"}, Replace: mapedit.Tags{"ford": "yes"}},
		},
	}
	r := OutdatedTags{Config: cfg}
	w := mapedit.NewWay("1", nil, mapedit.Tags{"highway": "ford"})
	issues := r.Check(w, mapedit.NewGraph())
	if len(issues) != 1 {
		t.Fatalf("issues = %+v, want 1", issues)
	}
}

func TestOutdatedTagsWildcardCapturesValue(t *testing.T) {
	cfg := mapedit.Config{
		DeprecatedTags: mapedit.DeprecatedTags{
			{Old: mapedit.Tags{"created_by": "*"}},
		},
	}
	r := OutdatedTags{Config: cfg}
	w := mapedit.NewWay("1", nil, mapedit.Tags{"created_by": "JOSM"})
	issues := r.Check(w, mapedit.NewGraph())
	if len(issues) != 1 {
		t.Fatalf("issues = %+v, want 1", issues)
	}
	if issues[0].Data["created_by"] != "JOSM" {
		t.Fatalf("Data = %+v, want captured created_by=JOSM", issues[0].Data)
	}
}

func TestOutdatedTagsComboRuleRequiresBothKeys(t *testing.T) {
	cfg := mapedit.Config{
		DeprecatedTags: mapedit.DeprecatedTags{
			{Old: mapedit.Tags{"highway": "stile", "barrier": "yes"}},
		},
	}
	r := OutdatedTags{Config: cfg}

	partial := mapedit.NewWay("1", nil, mapedit.Tags{"highway": "stile"})
	if issues := r.Check(partial, mapedit.NewGraph()); len(issues) != 0 {
		t.Fatalf("issues = %+v, want none for a partial match", issues)
	}

	full := mapedit.NewWay("1", nil, mapedit.Tags{"highway": "stile", "barrier": "yes"})
	if issues := r.Check(full, mapedit.NewGraph()); len(issues) != 1 {
		t.Fatalf("issues = %+v, want 1 for a full combo match", issues)
	}
}

func TestOutdatedTagsFlagsOldStyleMultipolygonOuter(t *testing.T) {
	r := OutdatedTags{}
	rel := mapedit.NewRelation("1", []mapedit.Member{
		{ID: "w1", Kind: mapedit.WayKind, Role: "outer"},
	}, mapedit.Tags{"type": "multipolygon"})
	issues := r.Check(rel, mapedit.NewGraph())
	if !hasSubtype(issues, "old-multipolygon-tagging") {
		t.Fatalf("issues = %+v, want old-multipolygon-tagging", issues)
	}
}

func TestOutdatedTagsIgnoresMultipolygonWithOwnTags(t *testing.T) {
	r := OutdatedTags{}
	rel := mapedit.NewRelation("1", []mapedit.Member{
		{ID: "w1", Kind: mapedit.WayKind, Role: "outer"},
	}, mapedit.Tags{"type": "multipolygon", "building": "yes"})
	issues := r.Check(rel, mapedit.NewGraph())
	if hasSubtype(issues, "old-multipolygon-tagging") {
		t.Fatalf("issues = %+v, want no old-multipolygon-tagging issue", issues)
	}
}

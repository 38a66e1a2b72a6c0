package validate

import (
	"testing"

	"github.com/go-mapedit/mapedit"
)

func TestIncompatibleSourceFlagsDenylistedProvider(t *testing.T) {
	r := DefaultIncompatibleSources()
	w := mapedit.NewWay("1", nil, mapedit.Tags{"source": "Google_Satellite"})
	issues := r.Check(w, mapedit.NewGraph())
	if len(issues) != 1 {
		t.Fatalf("issues = %+v, want 1", issues)
	}
}

func TestIncompatibleSourceAllowlistExceptionWins(t *testing.T) {
	r := DefaultIncompatibleSources()
	w := mapedit.NewWay("1", nil, mapedit.Tags{"source": "esri/Esri_World_Imagery"})
	issues := r.Check(w, mapedit.NewGraph())
	if len(issues) != 0 {
		t.Fatalf("issues = %+v, want none (allowlisted)", issues)
	}
}

func TestIncompatibleSourceAllowlistWildcardException(t *testing.T) {
	r := DefaultIncompatibleSources()
	w := mapedit.NewWay("1", nil, mapedit.Tags{"source": "esri/Community_Buildings"})
	issues := r.Check(w, mapedit.NewGraph())
	if len(issues) != 0 {
		t.Fatalf("issues = %+v, want none (matches esri/*_Buildings allowlist entry)", issues)
	}
}

func TestIncompatibleSourceIgnoresUnrelatedSource(t *testing.T) {
	r := DefaultIncompatibleSources()
	w := mapedit.NewWay("1", nil, mapedit.Tags{"source": "survey"})
	issues := r.Check(w, mapedit.NewGraph())
	if len(issues) != 0 {
		t.Fatalf("issues = %+v, want none", issues)
	}
}

func TestMatchGlobPrefixWildcard(t *testing.T) {
	if !matchGlob("esri*", "esri/Esri_World_Imagery") {
		t.Fatal("expected esri* to match a source containing a slash")
	}
	if matchGlob("esri*", "not_esri") {
		t.Fatal("expected esri* not to match a value without the esri prefix")
	}
}

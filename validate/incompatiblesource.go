package validate

import (
	"strings"

	"github.com/go-mapedit/mapedit"
)

// IncompatibleSource flags entities whose source tag names a provider whose
// license or terms of use forbid tracing into OpenStreetMap, matched
// against a denylist of glob patterns, with an allowlist of exceptions
// (e.g. a specific imagery program a provider has separately blessed).
type IncompatibleSource struct {
	Denylist  []string
	Allowlist []string
}

// DefaultIncompatibleSources returns the denylist/allowlist pair describing
// the handful of providers commonly flagged in OSM tooling: sources starting
// with esri, Esri, Google or google, except esri/Esri_World_Imagery itself and
// the Esri and Google building layers.
func DefaultIncompatibleSources() IncompatibleSource {
	return IncompatibleSource{
		Denylist:  []string{"esri*", "Google*", "google*"},
		Allowlist: []string{"esri/Esri_World_Imagery", "esri/*_Buildings", "Google_*_Buildings"},
	}
}

func (r IncompatibleSource) Check(e mapedit.Entity, g *mapedit.Graph) []Issue {
	source, ok := e.Tags().Get("source")
	if !ok {
		return nil
	}
	if !matchesAny(r.Denylist, source) {
		return nil
	}
	if matchesAny(r.Allowlist, source) {
		return nil
	}
	return []Issue{{
		Type: "incompatibleSource", Severity: SeverityWarning,
		EntityIDs: []mapedit.ID{e.ID()},
		Data:      map[string]string{"source": source},
	}}
}

func matchesAny(patterns []string, value string) bool {
	for _, p := range patterns {
		if matchGlob(p, value) {
			return true
		}
	}
	return false
}

// matchGlob matches value against pattern, where a single "*" in pattern
// stands for any run of characters (including none). Patterns here are
// simple prefix/suffix globs (at most one wildcard), not full glob syntax.
func matchGlob(pattern, value string) bool {
	star := strings.IndexByte(pattern, '*')
	if star < 0 {
		return pattern == value
	}
	prefix, suffix := pattern[:star], pattern[star+1:]
	return len(value) >= len(prefix)+len(suffix) &&
		strings.HasPrefix(value, prefix) &&
		strings.HasSuffix(value, suffix)
}

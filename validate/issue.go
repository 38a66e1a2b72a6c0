// Package validate implements rule-based checks over a graph, each
// producing Issues that a higher-level driver can present, dedup across
// runs by Hash, and re-run incrementally as the graph changes.
package validate

import (
	"crypto/sha1"
	"encoding/hex"
	"fmt"
	"sort"

	"github.com/go-mapedit/mapedit"
)

// Severity classifies how strongly an Issue should be surfaced.
type Severity string

const (
	SeverityWarning Severity = "warning"
	SeverityError   Severity = "error"
)

// Issue is a single validator finding.
type Issue struct {
	Type      string
	Subtype   string
	Severity  Severity
	EntityIDs []mapedit.ID
	// Data carries rule-specific auxiliary values (e.g. the specific
	// deprecated tag pair found) folded into Hash so that two issues with
	// the same type/subtype/entities but different data dedup separately.
	Data map[string]string
}

// Hash is a deterministic digest over an Issue's type, subtype, sorted
// entity ids and data, used to recognize "the same issue" across
// validator runs even though Go values aren't otherwise comparable once
// EntityIDs order might differ.
func (i Issue) Hash() string {
	d := sha1.New()
	fmt.Fprintf(d, "%s\x00%s\x00", i.Type, i.Subtype)

	ids := append([]mapedit.ID{}, i.EntityIDs...)
	sort.Slice(ids, func(a, b int) bool { return ids[a] < ids[b] })
	for _, id := range ids {
		fmt.Fprintf(d, "%s\x00", id)
	}

	keys := make([]string, 0, len(i.Data))
	for k := range i.Data {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(d, "%s=%s\x00", k, i.Data[k])
	}

	return hex.EncodeToString(d.Sum(nil))
}

// Rule is implemented by every validator factory's returned function: Check
// inspects a single entity (consulting g for its relations and children as
// needed) and returns every Issue it finds there. Rules must be pure,
// terminating, and must never mutate g.
type Rule interface {
	Check(entity mapedit.Entity, g *mapedit.Graph) []Issue
}

// RuleFunc adapts a plain function to Rule.
type RuleFunc func(entity mapedit.Entity, g *mapedit.Graph) []Issue

func (f RuleFunc) Check(entity mapedit.Entity, g *mapedit.Graph) []Issue { return f(entity, g) }

// Run applies every rule to every entity named by ids and returns the
// concatenated issues. A driver typically supplies ids from a
// mapedit.Difference's Changed() set so that only entities touched by the
// latest edit are re-validated.
func Run(g *mapedit.Graph, ids []mapedit.ID, rules []Rule) []Issue {
	var out []Issue
	for _, id := range ids {
		e := g.HasEntity(id)
		if e == nil {
			continue
		}
		for _, r := range rules {
			out = append(out, r.Check(e, g)...)
		}
	}
	return out
}

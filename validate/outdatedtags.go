package validate

import "github.com/go-mapedit/mapedit"

// OutdatedTags flags an entity's tags against a deprecated-tag rule table,
// consulting the rules in order (see mapedit.Config.DeprecatedTags for why
// order matters), plus an old-style-multipolygon-tagging check: a
// multipolygon relation with exactly one outer member and no tags of its own
// beyond type. The outer way's own tags are not inspected.
type OutdatedTags struct {
	Config mapedit.Config
}

func (r OutdatedTags) Check(e mapedit.Entity, g *mapedit.Graph) []Issue {
	var issues []Issue
	tags := e.Tags()

	// A matched rule's keys are withheld from later rules, so an earlier combo
	// rule is not reported again by a later rule on one of its keys.
	remaining := tags
	for _, rule := range r.Config.DeprecatedTags {
		if match, captured := matchesDeprecated(rule.Old, remaining); match {
			for k := range rule.Old {
				remaining = remaining.Without(k)
			}
			data := map[string]string{}
			for k, v := range captured {
				data[k] = v
			}
			issues = append(issues, Issue{
				Type: "outdatedTags", EntityIDs: []mapedit.ID{e.ID()},
				Severity: SeverityWarning, Data: data,
			})
		}
	}

	if rel, ok := e.(mapedit.Relation); ok && rel.IsMultipolygon() {
		if isOldStyleMultipolygonOuter(rel, soleOuterWay(rel)) {
			issues = append(issues, Issue{
				Type: "outdatedTags", Subtype: "old-multipolygon-tagging",
				Severity: SeverityWarning, EntityIDs: []mapedit.ID{rel.ID()},
			})
		}
	}

	return issues
}

func soleOuterWay(rel mapedit.Relation) mapedit.ID {
	var only mapedit.ID
	n := 0
	for _, m := range rel.Members {
		if m.Role == "outer" {
			n++
			only = m.ID
		}
	}
	if n != 1 {
		return ""
	}
	return only
}

// isOldStyleMultipolygonOuter mirrors the actions package's split-time check:
// rel carries no tags of its own beyond type, meaning its sole outer member
// is still doing the tagging work current practice expects of the relation.
func isOldStyleMultipolygonOuter(rel mapedit.Relation, outerID mapedit.ID) bool {
	if outerID == "" {
		return false
	}
	for k := range rel.Tags() {
		if k != "type" {
			return false
		}
	}
	return true
}

// matchesDeprecated reports whether tags trigger rule, and if so returns the
// captured key/value pairs: rule.Old entries with value "*" capture
// whatever value tags actually carries for that key (wildcard capture); all
// other entries in rule.Old must match tags exactly (supporting 1:1 and 2:1
// combo rules uniformly — a rule with one Old entry is 1:1/1:0, with two is
// the 2:1 combo form).
func matchesDeprecated(old mapedit.Tags, tags mapedit.Tags) (bool, map[string]string) {
	if len(old) == 0 {
		return false, nil
	}
	captured := map[string]string{}
	for k, want := range old {
		got, ok := tags.Get(k)
		if !ok {
			return false, nil
		}
		if want == "*" {
			captured[k] = got
			continue
		}
		if got != want {
			return false, nil
		}
		captured[k] = got
	}
	return true, captured
}

package validate

import "github.com/go-mapedit/mapedit"

// MissingTag flags entities that lack tags a complete edit would carry:
// no tags at all, no descriptive tags beyond ignored metadata keys, an
// untyped relation, or a highway way with no recognized classification
// value.
type MissingTag struct {
	Config mapedit.Config
}

var highwayClassifications = map[string]bool{
	"motorway": true, "trunk": true, "primary": true, "secondary": true,
	"tertiary": true, "unclassified": true, "residential": true,
	"service": true, "track": true, "path": true, "footway": true,
	"cycleway": true, "bridleway": true, "steps": true, "pedestrian": true,
	"living_street": true, "road": true,
}

func (r MissingTag) Check(e mapedit.Entity, g *mapedit.Graph) []Issue {
	var issues []Issue
	tags := e.Tags()

	if len(tags) == 0 {
		return []Issue{{
			Type: "missingTag", Subtype: "any-tags",
			Severity: SeverityWarning, EntityIDs: []mapedit.ID{e.ID()},
		}}
	}

	if !mapedit.HasInterestingTags(e, r.Config) {
		issues = append(issues, Issue{
			Type: "missingTag", Subtype: "descriptive-tags",
			Severity: SeverityWarning, EntityIDs: []mapedit.ID{e.ID()},
		})
	}

	if rel, ok := e.(mapedit.Relation); ok {
		if t, _ := rel.Tags().Get("type"); t == "" {
			issues = append(issues, Issue{
				Type: "missingTag", Subtype: "relation-type",
				Severity: SeverityWarning, EntityIDs: []mapedit.ID{e.ID()},
			})
		}
	}

	if hv, ok := tags.Get("highway"); ok && !highwayClassifications[hv] {
		issues = append(issues, Issue{
			Type: "missingTag", Subtype: "highway-classification",
			Severity: SeverityWarning, EntityIDs: []mapedit.ID{e.ID()},
			Data: map[string]string{"value": hv},
		})
	}

	return issues
}

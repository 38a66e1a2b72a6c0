package validate

import (
	"strings"

	"github.com/go-mapedit/mapedit"
)

// MissingRole flags a member of a type=multipolygon relation whose role is
// empty or whitespace-only: multipolygon assembly depends on every member
// being tagged inner or outer.
type MissingRole struct{}

func (MissingRole) Check(e mapedit.Entity, g *mapedit.Graph) []Issue {
	rel, ok := e.(mapedit.Relation)
	if !ok || !rel.IsMultipolygon() {
		return nil
	}
	var issues []Issue
	for _, m := range rel.Members {
		if strings.TrimSpace(m.Role) == "" {
			issues = append(issues, Issue{
				Type: "missingRole", Severity: SeverityWarning,
				EntityIDs: []mapedit.ID{rel.ID(), m.ID},
			})
		}
	}
	return issues
}

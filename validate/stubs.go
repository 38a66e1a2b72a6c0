package validate

import "github.com/go-mapedit/mapedit"

// DuplicateWaySegments is a stub for a future rule that will flag two ways
// sharing an overlapping run of nodes (common after an accidental
// copy/paste or a bad import). Not yet implemented.
type DuplicateWaySegments struct{}

func (DuplicateWaySegments) Check(e mapedit.Entity, g *mapedit.Graph) []Issue { return nil }

// HelpRequest is a stub for a future rule that will surface entities
// explicitly tagged to ask for local-knowledge help (e.g. fixme=*) as a
// distinct, lower-severity category from other missing-tag issues. Not yet
// implemented.
type HelpRequest struct{}

func (HelpRequest) Check(e mapedit.Entity, g *mapedit.Graph) []Issue { return nil }

package mapedit

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned by Graph.Entity when the requested id has no
// corresponding entity in the graph or its bases.
var ErrNotFound = errors.New("mapedit: entity not found")

// NotFoundError reports that id could not be resolved to an entity.
type NotFoundError struct {
	ID ID
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("mapedit: entity %q not found", e.ID)
}

func (e *NotFoundError) Unwrap() error { return ErrNotFound }

// panicCorrupted is called when a graph invariant has been observed to be
// violated. Such violations indicate a programming error in this package or
// its callers, never a recoverable runtime condition, so we panic rather
// than return an error that could be silently ignored.
func panicCorrupted(reason string) {
	panic(fmt.Errorf("mapedit: graph invariant violated: %s", reason))
}

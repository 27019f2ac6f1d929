// Package dao provides data access objects for use in the diesel demo server.
package dao

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Store holds the repositories backing the demo server.
type Store interface {
	History() HistoryRepository
	Close() error
}

// Entry is one recorded Parse (or Predict) call: the request as given, plus
// enough of the result to answer a later GET without re-parsing.
type Entry struct {
	ID uuid.UUID

	Axiom string
	Text  string

	Success     bool
	Ambiguous   bool
	MarkerCount int
	StyleCount  int

	// Markers is the rezi-encoded []marker.Marker from the ParseResult,
	// opaque to everything except the DAO that wrote it.
	Markers []byte

	Created time.Time
}

// HistoryRepository stores and retrieves parse Entry records.
type HistoryRepository interface {
	Create(ctx context.Context, e Entry) (Entry, error)
	GetByID(ctx context.Context, id uuid.UUID) (Entry, error)

	// GetRecent returns up to limit Entry records, most recent first. A
	// limit <= 0 returns every stored Entry.
	GetRecent(ctx context.Context, limit int) ([]Entry, error)
}

// Package store persists finished analyses: the three result documents
// plus the metadata the history view lists.
package store

import (
	"context"
	"encoding/json"
	"time"

	"github.com/oklog/ulid/v2"
)

// Analysis is one saved analysis run. The three result structures are
// stored as opaque JSON, exactly as exported, so loading one back
// reproduces the original output byte for byte.
type Analysis struct {
	ID             string          `json:"id"`
	Filename       string          `json:"filename"`
	CreatedAt      time.Time       `json:"created_at"`
	CharCount      int             `json:"char_count"`
	WordCount      int             `json:"word_count"`
	ProcessingTime float64         `json:"processing_time"`
	Dictionary     json.RawMessage `json:"dictionary"`
	Statistics     json.RawMessage `json:"statistics"`
	Collocations   json.RawMessage `json:"collocations"`
}

// Summary is the listing row for the history view: everything except
// the JSON payloads.
type Summary struct {
	ID             string    `json:"id"`
	Filename       string    `json:"filename"`
	CreatedAt      time.Time `json:"created_at"`
	CharCount      int       `json:"char_count"`
	WordCount      int       `json:"word_count"`
	ProcessingTime float64   `json:"processing_time"`
}

// Store is the persistence interface for analyses.
type Store interface {
	Close() error

	// SaveAnalysis inserts the analysis, assigning a ULID and creation
	// time when unset, and returns the stored record.
	SaveAnalysis(ctx context.Context, a Analysis) (Analysis, error)

	// GetAnalysis returns a saved analysis or ErrNotFound.
	GetAnalysis(ctx context.Context, id string) (Analysis, error)

	// ListAnalyses returns up to limit summaries, newest first.
	ListAnalyses(ctx context.Context, limit int) ([]Summary, error)

	// DeleteAnalysis removes a saved analysis or returns ErrNotFound.
	DeleteAnalysis(ctx context.Context, id string) error
}

// NewID returns a fresh ULID string. ULIDs sort lexically by creation
// time, which keeps history listings cheap.
func NewID() string {
	return ulid.Make().String()
}

// Summarize projects an analysis onto its listing row.
func Summarize(a Analysis) Summary {
	return Summary{
		ID:             a.ID,
		Filename:       a.Filename,
		CreatedAt:      a.CreatedAt,
		CharCount:      a.CharCount,
		WordCount:      a.WordCount,
		ProcessingTime: a.ProcessingTime,
	}
}

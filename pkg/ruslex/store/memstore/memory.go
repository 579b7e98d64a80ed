// Package memstore is an in-memory store.Store for tests and runs
// without a database path.
package memstore

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/cognicore/ruslex/pkg/ruslex/internalerr"
	"github.com/cognicore/ruslex/pkg/ruslex/store"
)

// Store is an in-memory implementation of store.Store.
type Store struct {
	mu       sync.RWMutex
	analyses map[string]store.Analysis
}

// New creates an empty in-memory store.
func New() *Store {
	return &Store{analyses: make(map[string]store.Analysis)}
}

// Close implements store.Store.
func (s *Store) Close() error { return nil }

// SaveAnalysis implements store.Store.
func (s *Store) SaveAnalysis(ctx context.Context, a store.Analysis) (store.Analysis, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if a.ID == "" {
		a.ID = store.NewID()
	}
	if a.CreatedAt.IsZero() {
		a.CreatedAt = time.Now().UTC()
	}
	s.analyses[a.ID] = copyAnalysis(a)
	return a, nil
}

// GetAnalysis implements store.Store.
func (s *Store) GetAnalysis(ctx context.Context, id string) (store.Analysis, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	a, ok := s.analyses[id]
	if !ok {
		return store.Analysis{}, internalerr.ErrNotFound
	}
	return copyAnalysis(a), nil
}

// ListAnalyses implements store.Store.
func (s *Store) ListAnalyses(ctx context.Context, limit int) ([]store.Summary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if limit <= 0 {
		limit = 50
	}

	summaries := make([]store.Summary, 0, len(s.analyses))
	for _, a := range s.analyses {
		summaries = append(summaries, store.Summarize(a))
	}
	sort.Slice(summaries, func(i, j int) bool {
		if summaries[i].CreatedAt.Equal(summaries[j].CreatedAt) {
			return summaries[i].ID > summaries[j].ID
		}
		return summaries[i].CreatedAt.After(summaries[j].CreatedAt)
	})
	if len(summaries) > limit {
		summaries = summaries[:limit]
	}
	return summaries, nil
}

// DeleteAnalysis implements store.Store.
func (s *Store) DeleteAnalysis(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.analyses[id]; !ok {
		return internalerr.ErrNotFound
	}
	delete(s.analyses, id)
	return nil
}

func copyAnalysis(a store.Analysis) store.Analysis {
	out := a
	out.Dictionary = append([]byte(nil), a.Dictionary...)
	out.Statistics = append([]byte(nil), a.Statistics...)
	out.Collocations = append([]byte(nil), a.Collocations...)
	return out
}

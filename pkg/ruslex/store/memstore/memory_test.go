package memstore

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/cognicore/ruslex/pkg/ruslex/internalerr"
	"github.com/cognicore/ruslex/pkg/ruslex/store"
)

func TestSaveAssignsIDAndTime(t *testing.T) {
	s := New()
	defer s.Close()
	ctx := context.Background()

	saved, err := s.SaveAnalysis(ctx, store.Analysis{Filename: "роман.txt"})
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	if saved.ID == "" {
		t.Error("Expected assigned ID")
	}
	if saved.CreatedAt.IsZero() {
		t.Error("Expected assigned creation time")
	}
}

func TestGetRoundTrip(t *testing.T) {
	s := New()
	defer s.Close()
	ctx := context.Background()

	saved, err := s.SaveAnalysis(ctx, store.Analysis{
		Filename:   "роман.txt",
		CharCount:  120,
		WordCount:  20,
		Dictionary: []byte(`[{"lemma":"дом"}]`),
	})
	if err != nil {
		t.Fatalf("save: %v", err)
	}

	got, err := s.GetAnalysis(ctx, saved.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Filename != "роман.txt" || got.CharCount != 120 {
		t.Errorf("Unexpected analysis %+v", got)
	}
	if string(got.Dictionary) != `[{"lemma":"дом"}]` {
		t.Errorf("Expected JSON payload preserved, got %s", got.Dictionary)
	}
}

func TestGetNotFound(t *testing.T) {
	s := New()
	defer s.Close()

	if _, err := s.GetAnalysis(context.Background(), "missing"); !errors.Is(err, internalerr.ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
}

func TestListNewestFirst(t *testing.T) {
	s := New()
	defer s.Close()
	ctx := context.Background()

	older := store.Analysis{Filename: "a.txt", CreatedAt: time.Now().Add(-time.Hour)}
	newer := store.Analysis{Filename: "b.txt", CreatedAt: time.Now()}
	if _, err := s.SaveAnalysis(ctx, older); err != nil {
		t.Fatalf("save: %v", err)
	}
	if _, err := s.SaveAnalysis(ctx, newer); err != nil {
		t.Fatalf("save: %v", err)
	}

	summaries, err := s.ListAnalyses(ctx, 10)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(summaries) != 2 {
		t.Fatalf("Expected 2 summaries, got %d", len(summaries))
	}
	if summaries[0].Filename != "b.txt" {
		t.Errorf("Expected newest first, got %q", summaries[0].Filename)
	}
}

func TestListLimit(t *testing.T) {
	s := New()
	defer s.Close()
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		if _, err := s.SaveAnalysis(ctx, store.Analysis{Filename: "x.txt"}); err != nil {
			t.Fatalf("save: %v", err)
		}
	}
	summaries, err := s.ListAnalyses(ctx, 3)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(summaries) != 3 {
		t.Errorf("Expected 3 summaries, got %d", len(summaries))
	}
}

func TestDelete(t *testing.T) {
	s := New()
	defer s.Close()
	ctx := context.Background()

	saved, err := s.SaveAnalysis(ctx, store.Analysis{Filename: "x.txt"})
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	if err := s.DeleteAnalysis(ctx, saved.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := s.GetAnalysis(ctx, saved.ID); !errors.Is(err, internalerr.ErrNotFound) {
		t.Errorf("Expected ErrNotFound after delete, got %v", err)
	}
	if err := s.DeleteAnalysis(ctx, saved.ID); !errors.Is(err, internalerr.ErrNotFound) {
		t.Errorf("Expected ErrNotFound on second delete, got %v", err)
	}
}

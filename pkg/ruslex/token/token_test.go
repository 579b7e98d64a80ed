package token

import (
	"errors"
	"testing"

	"github.com/cognicore/ruslex/pkg/ruslex/internalerr"
)

func TestNormFallsBackToText(t *testing.T) {
	withLemma := Token{Text: "Дома", Lemma: "Дом"}
	if got := withLemma.Norm(); got != "дом" {
		t.Errorf("Expected lowercased lemma, got %q", got)
	}

	noLemma := Token{Text: "Дома"}
	if got := noLemma.Norm(); got != "дома" {
		t.Errorf("Expected lowercased surface fallback, got %q", got)
	}
}

func TestIsWord(t *testing.T) {
	cases := []struct {
		pos  string
		want bool
	}{
		{Noun, true},
		{Adv, true},
		{X, true},
		{"WEIRD", true},
		{Punct, false},
		{Sym, false},
	}
	for _, c := range cases {
		if got := (Token{POS: c.pos}).IsWord(); got != c.want {
			t.Errorf("IsWord(%s) = %v, want %v", c.pos, got, c.want)
		}
	}
}

func TestNewRejectsDuplicateIDs(t *testing.T) {
	_, err := New("", []Sentence{{Tokens: []Token{
		{ID: "1", Text: "дом"},
		{ID: "1", Text: "лес"},
	}}})
	if !errors.Is(err, internalerr.ErrInvalidDocument) {
		t.Errorf("Expected ErrInvalidDocument, got %v", err)
	}
}

func TestNewAllowsDuplicateIDsAcrossSentences(t *testing.T) {
	doc, err := New("", []Sentence{
		{Tokens: []Token{{ID: "1", Text: "дом"}}},
		{Tokens: []Token{{ID: "1", Text: "лес"}}},
	})
	if err != nil {
		t.Fatalf("ids are sentence-local, got error: %v", err)
	}
	if doc.Len() != 2 {
		t.Errorf("Expected 2 tokens, got %d", doc.Len())
	}
}

func TestFlatPreservesOrder(t *testing.T) {
	doc, err := New("", []Sentence{
		{Tokens: []Token{{ID: "1", Text: "а"}, {ID: "2", Text: "б"}}},
		{Tokens: []Token{{ID: "1", Text: "в"}}},
	})
	if err != nil {
		t.Fatalf("build document: %v", err)
	}

	flat := doc.Flat()
	want := []string{"а", "б", "в"}
	for i, w := range want {
		if flat[i].Text != w {
			t.Errorf("flat[%d] = %q, want %q", i, flat[i].Text, w)
		}
	}
}

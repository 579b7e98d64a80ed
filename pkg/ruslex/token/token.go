// Package token defines the annotated-document contract shared by every
// analysis pass: sentences of tokens carrying surface text, lemma,
// Universal Dependencies POS tag, and optional dependency links.
//
// Documents are immutable once built. The analysis packages only read
// them, so one document may safely be handed to several passes at once.
package token

import (
	"fmt"
	"strings"

	"github.com/cognicore/ruslex/pkg/ruslex/internalerr"
)

// Universal Dependencies v2 POS tags produced by the annotator.
const (
	Noun  = "NOUN"
	Propn = "PROPN"
	Adj   = "ADJ"
	Verb  = "VERB"
	Adv   = "ADV"
	Pron  = "PRON"
	Det   = "DET"
	Adp   = "ADP"
	Cconj = "CCONJ"
	Sconj = "SCONJ"
	Part  = "PART"
	Num   = "NUM"
	Punct = "PUNCT"
	Sym   = "SYM"
	X     = "X"
	Intj  = "INTJ"
)

// AmodRel is the dependency label for an adjectival modifier.
const AmodRel = "amod"

// Token is a single annotated token. ID is unique within its sentence;
// HeadID, when set, names another token of the same sentence. Lemma may
// be empty when lemmatization failed upstream; use Norm instead of
// reading Lemma directly.
type Token struct {
	ID     string `json:"id"`
	Text   string `json:"text"`
	Lemma  string `json:"lemma,omitempty"`
	POS    string `json:"pos"`
	HeadID string `json:"head_id,omitempty"`
	Rel    string `json:"rel,omitempty"`
}

// Norm returns the lowercased lemma, falling back to the lowercased
// surface text when no lemma is present.
func (t Token) Norm() string {
	if t.Lemma != "" {
		return strings.ToLower(t.Lemma)
	}
	return strings.ToLower(t.Text)
}

// IsWord reports whether the token counts as a word (anything that is
// not punctuation or a symbol).
func (t Token) IsWord() bool {
	return t.POS != Punct && t.POS != Sym
}

// Sentence is an ordered run of tokens.
type Sentence struct {
	Tokens []Token `json:"tokens"`
}

// Document is the full annotated text: a sentence-grouped view for
// syntactic analysis plus a flat positional view across sentence
// boundaries. Text holds the original source when known.
type Document struct {
	Text  string     `json:"text,omitempty"`
	Sents []Sentence `json:"sents"`

	flat []Token
}

// New builds a validated document. It fails with ErrInvalidDocument when
// a sentence contains two tokens with the same id, since head references
// would then be ambiguous. That indicates a broken annotator, not bad
// text.
func New(text string, sents []Sentence) (*Document, error) {
	for si, sent := range sents {
		seen := make(map[string]struct{}, len(sent.Tokens))
		for _, tok := range sent.Tokens {
			if tok.ID == "" {
				continue
			}
			if _, dup := seen[tok.ID]; dup {
				return nil, fmt.Errorf("sentence %d: duplicate token id %q: %w",
					si, tok.ID, internalerr.ErrInvalidDocument)
			}
			seen[tok.ID] = struct{}{}
		}
	}

	doc := &Document{Text: text, Sents: sents}
	doc.flat = flatten(sents)
	return doc, nil
}

// Flat returns all tokens in document order, across sentence boundaries.
// The returned slice is shared; callers must not modify it.
func (d *Document) Flat() []Token {
	if d.flat == nil {
		d.flat = flatten(d.Sents)
	}
	return d.flat
}

// Len returns the total token count of the flat view.
func (d *Document) Len() int {
	return len(d.Flat())
}

func flatten(sents []Sentence) []Token {
	n := 0
	for _, s := range sents {
		n += len(s.Tokens)
	}
	flat := make([]Token, 0, n)
	for _, s := range sents {
		flat = append(flat, s.Tokens...)
	}
	return flat
}

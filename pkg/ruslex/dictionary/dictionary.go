// Package dictionary builds a frequency dictionary over an annotated
// document: one entry per (lemma, POS) pair with its count, the surface
// forms seen for it, and one context example.
package dictionary

import (
	"sort"
	"strings"

	"github.com/cognicore/ruslex/pkg/ruslex/token"
)

// ExampleWindow is the number of tokens kept on each side of a word when
// building its context example.
const ExampleWindow = 6

// includePOS lists the tags that occupy dictionary slots. Punctuation,
// symbols and unrecognized tags are dropped entirely.
var includePOS = map[string]struct{}{
	token.Noun:  {},
	token.Adj:   {},
	token.Verb:  {},
	token.Adv:   {},
	token.Propn: {},
	token.Pron:  {},
	token.Num:   {},
	token.Det:   {},
	token.Intj:  {},
}

// Entry is one finalized dictionary row. Two tokens sharing a lemma but
// not a POS tag (homographs) produce distinct entries.
type Entry struct {
	Lemma        string   `json:"lemma"`
	POS          string   `json:"pos"`
	Count        int      `json:"count"`
	SurfaceForms []string `json:"surface_forms"`
	Example      string   `json:"example"`
}

type key struct {
	lemma string
	pos   string
}

// Build groups the document's tokens by (lowercased lemma, POS) and
// returns entries sorted by count descending. Entries with equal counts
// keep their first-seen order, so output is deterministic. The context
// example is fixed at the key's first occurrence and never overwritten.
func Build(doc *token.Document) []Entry {
	tokens := doc.Flat()

	counts := make(map[key]int)
	forms := make(map[key]map[string]struct{})
	examples := make(map[key]string)
	var order []key

	for i, t := range tokens {
		if _, ok := includePOS[t.POS]; !ok {
			continue
		}
		k := key{lemma: t.Norm(), pos: t.POS}
		if _, seen := counts[k]; !seen {
			order = append(order, k)
			forms[k] = make(map[string]struct{})
			examples[k] = contextSnippet(tokens, i)
		}
		counts[k]++
		forms[k][strings.ToLower(t.Text)] = struct{}{}
	}

	entries := make([]Entry, 0, len(order))
	for _, k := range order {
		surface := make([]string, 0, len(forms[k]))
		for form := range forms[k] {
			surface = append(surface, form)
		}
		sort.Strings(surface)

		entries = append(entries, Entry{
			Lemma:        k.lemma,
			POS:          k.pos,
			Count:        counts[k],
			SurfaceForms: surface,
			Example:      examples[k],
		})
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Count > entries[j].Count
	})
	return entries
}

// contextSnippet joins the surface text of the tokens within
// ExampleWindow positions of idx, clamped to the document bounds.
func contextSnippet(tokens []token.Token, idx int) string {
	lo := idx - ExampleWindow
	if lo < 0 {
		lo = 0
	}
	hi := idx + ExampleWindow + 1
	if hi > len(tokens) {
		hi = len(tokens)
	}

	words := make([]string, 0, hi-lo)
	for _, t := range tokens[lo:hi] {
		words = append(words, t.Text)
	}
	return strings.Join(words, " ")
}

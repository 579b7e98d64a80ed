// Package colloc extracts noun-adjective collocations from an annotated
// document and builds a bidirectional, ranked index over them.
//
// Two strategies are combined for coverage:
//
//  1. Dependency-based (primary). Tokens whose relation is "amod" and
//     whose tag is ADJ or VERB are attached to their NOUN/PROPN head.
//     Participles like «запертый» are frequently tagged VERB but
//     function adjectivally in amod position, hence the VERB allowance.
//
//  2. Window-based (fallback). For poetry and elliptical prose the
//     parser may miss relations, so every NOUN/PROPN is also scanned
//     for ADJ tokens within ±2 positions. Participles are excluded here:
//     in «листья вдоль запертых окон» the participle modifies «окон»,
//     not «листья», and the window cannot tell.
//
// The window pass never touches a pair the accumulated set already
// holds, so dependency counts are authoritative and window-only pairs
// stay at count 1. A genuinely new textual occurrence of a pair already
// found syntactically is therefore not counted; changing that would
// change every reported frequency, so it stays as is.
package colloc

import (
	"sort"
	"strings"

	"github.com/cognicore/ruslex/pkg/ruslex/token"
)

const (
	// WindowRadius is how far the fallback pass looks on each side of
	// a noun.
	WindowRadius = 2

	// MaxExamples caps the surface phrases kept per pair.
	MaxExamples = 3

	// DefaultSearchLimit bounds search results when the caller passes
	// a non-positive limit.
	DefaultSearchLimit = 20
)

// adjLikePOS are the tags accepted as adjectival modifiers in the
// dependency pass.
var adjLikePOS = map[string]struct{}{
	token.Adj:  {},
	token.Verb: {},
}

// AdjEntry is one adjective under a noun key, with its pair count and
// example phrases.
type AdjEntry struct {
	Adj      string   `json:"adj"`
	Count    int      `json:"count"`
	Examples []string `json:"examples"`
}

// NounEntry is one noun under an adjective key.
type NounEntry struct {
	Noun  string `json:"noun"`
	Count int    `json:"count"`
}

// PairStat is one collocation pair in the flat ranked list.
type PairStat struct {
	Noun     string   `json:"noun"`
	Adj      string   `json:"adj"`
	Count    int      `json:"count"`
	Examples []string `json:"examples"`
}

// Index is the finalized collocation bundle: the flat ranked pair list
// plus both directional views, each per-key list ranked by count
// descending.
type Index struct {
	NounAdjIndex map[string][]AdjEntry  `json:"noun_adj_index"`
	AdjNounIndex map[string][]NounEntry `json:"adj_noun_index"`
	PairList     []PairStat             `json:"pair_list"`
	TotalPairs   int                    `json:"total_pairs"`
	UniquePairs  int                    `json:"unique_pairs"`
}

type pairKey struct {
	noun string
	adj  string
}

// extractor accumulates pair counts and examples across both passes.
type extractor struct {
	counts   map[pairKey]int
	examples map[pairKey][]string
	order    []pairKey
}

func (e *extractor) record(k pairKey, phrase string) {
	if _, seen := e.counts[k]; !seen {
		e.order = append(e.order, k)
	}
	e.counts[k]++
	e.addExample(k, phrase)
}

func (e *extractor) addExample(k pairKey, phrase string) {
	existing := e.examples[k]
	if len(existing) >= MaxExamples {
		return
	}
	for _, p := range existing {
		if p == phrase {
			return
		}
	}
	e.examples[k] = append(existing, phrase)
}

// Extract runs both discovery passes over the document and builds the
// index. Pairs with equal counts keep discovery order, so repeated runs
// on the same document produce identical output.
func Extract(doc *token.Document) Index {
	ex := &extractor{
		counts:   make(map[pairKey]int),
		examples: make(map[pairKey][]string),
	}

	ex.dependencyPass(doc)
	ex.windowPass(doc.Flat())

	return ex.buildIndex()
}

// dependencyPass records a pair for every amod dependent whose head
// resolves to a noun. Relations pointing at a missing head id are
// ignored for that token.
func (e *extractor) dependencyPass(doc *token.Document) {
	for _, sent := range doc.Sents {
		byID := make(map[string]int, len(sent.Tokens))
		for i, t := range sent.Tokens {
			if t.ID != "" {
				byID[t.ID] = i
			}
		}

		for i, t := range sent.Tokens {
			if t.Rel != token.AmodRel {
				continue
			}
			if _, ok := adjLikePOS[t.POS]; !ok {
				continue
			}
			headIdx, ok := byID[t.HeadID]
			if !ok {
				continue
			}
			head := sent.Tokens[headIdx]
			if head.POS != token.Noun && head.POS != token.Propn {
				continue
			}

			k := pairKey{noun: head.Norm(), adj: t.Norm()}

			// Surface phrase keeps the two words in text order.
			first, second := headIdx, i
			if first > second {
				first, second = second, first
			}
			phrase := sent.Tokens[first].Text + " " + sent.Tokens[second].Text
			e.record(k, phrase)
		}
	}
}

// windowPass scans ±WindowRadius positions around every noun for ADJ
// neighbors. It only creates pairs absent from the accumulated set:
// pairs the dependency pass found are never incremented here, and a
// window pair created earlier in this pass blocks later occurrences of
// itself the same way.
func (e *extractor) windowPass(tokens []token.Token) {
	for i, t := range tokens {
		if t.POS != token.Noun && t.POS != token.Propn {
			continue
		}
		noun := t.Norm()

		lo := i - WindowRadius
		if lo < 0 {
			lo = 0
		}
		hi := i + WindowRadius + 1
		if hi > len(tokens) {
			hi = len(tokens)
		}

		for j := lo; j < hi; j++ {
			if j == i {
				continue
			}
			other := tokens[j]
			if other.POS != token.Adj {
				continue
			}

			k := pairKey{noun: noun, adj: other.Norm()}
			if _, exists := e.counts[k]; exists {
				continue
			}

			first, second := i, j
			if first > second {
				first, second = second, first
			}
			words := make([]string, 0, second-first+1)
			for _, span := range tokens[first : second+1] {
				words = append(words, span.Text)
			}
			e.record(k, strings.Join(words, " "))
		}
	}
}

// buildIndex ranks the pair set and derives both directional views.
// Per-key lists come out count-descending because pairs are appended in
// globally ranked order.
func (e *extractor) buildIndex() Index {
	ranked := make([]pairKey, len(e.order))
	copy(ranked, e.order)
	sort.SliceStable(ranked, func(i, j int) bool {
		return e.counts[ranked[i]] > e.counts[ranked[j]]
	})

	idx := Index{
		NounAdjIndex: make(map[string][]AdjEntry),
		AdjNounIndex: make(map[string][]NounEntry),
		PairList:     make([]PairStat, 0, len(ranked)),
	}

	for _, k := range ranked {
		count := e.counts[k]
		examples := e.examples[k]
		if examples == nil {
			examples = []string{}
		}

		idx.PairList = append(idx.PairList, PairStat{
			Noun:     k.noun,
			Adj:      k.adj,
			Count:    count,
			Examples: examples,
		})
		idx.NounAdjIndex[k.noun] = append(idx.NounAdjIndex[k.noun], AdjEntry{
			Adj:      k.adj,
			Count:    count,
			Examples: examples,
		})
		idx.AdjNounIndex[k.adj] = append(idx.AdjNounIndex[k.adj], NounEntry{
			Noun:  k.noun,
			Count: count,
		})
		idx.TotalPairs += count
	}
	idx.UniquePairs = len(ranked)

	return idx
}

// SearchAdjectivesForNoun returns the top adjectives for a noun query.
// An exact key match wins outright; otherwise every noun key starting
// with the query contributes its entries, duplicated adjectives keep
// their highest-count instance, and the merged list is ranked by count
// descending. Matching noun keys are visited in sorted order so results
// do not depend on map iteration.
func SearchAdjectivesForNoun(idx Index, query string, limit int) []AdjEntry {
	if limit <= 0 {
		limit = DefaultSearchLimit
	}
	q := strings.ToLower(strings.TrimSpace(query))

	if entries, ok := idx.NounAdjIndex[q]; ok {
		if len(entries) > limit {
			entries = entries[:limit]
		}
		out := make([]AdjEntry, len(entries))
		copy(out, entries)
		return out
	}

	var nouns []string
	for noun := range idx.NounAdjIndex {
		if strings.HasPrefix(noun, q) {
			nouns = append(nouns, noun)
		}
	}
	sort.Strings(nouns)

	var merged []AdjEntry
	for _, noun := range nouns {
		merged = append(merged, idx.NounAdjIndex[noun]...)
	}
	sort.SliceStable(merged, func(i, j int) bool {
		return merged[i].Count > merged[j].Count
	})

	seen := make(map[string]struct{})
	result := []AdjEntry{}
	for _, entry := range merged {
		if _, dup := seen[entry.Adj]; dup {
			continue
		}
		seen[entry.Adj] = struct{}{}
		result = append(result, entry)
		if len(result) >= limit {
			break
		}
	}
	return result
}

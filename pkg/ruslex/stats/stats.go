// Package stats computes corpus-level statistics for an annotated
// document: token and word totals, vocabulary richness, POS tag
// distribution, and top-N lemma rankings per content category.
package stats

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"strconv"
	"unicode/utf8"

	"github.com/cognicore/ruslex/pkg/ruslex/token"
)

// DefaultTopN bounds the per-category lemma rankings when the caller
// passes a non-positive limit.
const DefaultTopN = 100

// contentPOS lists the categories that get a top-N ranking.
var contentPOS = map[string]struct{}{
	token.Noun:  {},
	token.Adj:   {},
	token.Verb:  {},
	token.Adv:   {},
	token.Propn: {},
}

// LabelsRU maps each POS tag to its Russian human-readable label.
// Static configuration, not computed state.
var LabelsRU = map[string]string{
	token.Noun:  "Существительное",
	token.Adj:   "Прилагательное",
	token.Verb:  "Глагол",
	token.Adv:   "Наречие",
	token.Propn: "Имя собственное",
	token.Pron:  "Местоимение",
	token.Det:   "Определитель",
	token.Adp:   "Предлог",
	token.Cconj: "Союз сочинит.",
	token.Sconj: "Союз подчинит.",
	token.Part:  "Частица",
	token.Num:   "Числительное",
	token.Punct: "Пунктуация",
	token.Intj:  "Междометие",
	token.Sym:   "Символ",
	token.X:     "Прочее",
}

// LemmaCount is one row of a top-N ranking.
type LemmaCount struct {
	Lemma string `json:"lemma"`
	Count int    `json:"count"`
}

// POSCount is one POS tag with its occurrence count.
type POSCount struct {
	POS   string
	Count int
}

// Distribution is a POS→count mapping ordered by count descending.
// It marshals as a JSON object whose keys appear in slice order, since a
// plain Go map would lose the ordering.
type Distribution []POSCount

// MarshalJSON implements json.Marshaler.
func (d Distribution) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, pc := range d {
		if i > 0 {
			buf.WriteByte(',')
		}
		k, err := json.Marshal(pc.POS)
		if err != nil {
			return nil, err
		}
		buf.Write(k)
		buf.WriteByte(':')
		buf.WriteString(strconv.Itoa(pc.Count))
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON implements json.Unmarshaler. Keys are restored in the
// order they appear in the object.
func (d *Distribution) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if tok == nil {
		*d = nil
		return nil
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("pos distribution: expected object, got %v", tok)
	}

	out := Distribution{}
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := keyTok.(string)
		if !ok {
			return fmt.Errorf("pos distribution: non-string key %v", keyTok)
		}
		var count int
		if err := dec.Decode(&count); err != nil {
			return err
		}
		out = append(out, POSCount{POS: key, Count: count})
	}
	if _, err := dec.Token(); err != nil {
		return err
	}
	*d = out
	return nil
}

// Count returns the count recorded for a tag, or 0.
func (d Distribution) Count(pos string) int {
	for _, pc := range d {
		if pc.POS == pos {
			return pc.Count
		}
	}
	return 0
}

// Report is the finished statistics bundle.
type Report struct {
	TotalTokens        int               `json:"total_tokens"`
	TotalWords         int               `json:"total_words"`
	UniqueLemmas       int               `json:"unique_lemmas"`
	VocabularyRichness float64           `json:"vocabulary_richness"`
	AvgWordLength      float64           `json:"avg_word_length"`
	POSDistribution    Distribution      `json:"pos_distribution"`
	POSLabels          map[string]string `json:"pos_labels"`
	TopNouns           []LemmaCount      `json:"top_nouns"`
	TopAdj             []LemmaCount      `json:"top_adj"`
	TopVerbs           []LemmaCount      `json:"top_verbs"`
	TopAdv             []LemmaCount      `json:"top_adv"`
	TopPropn           []LemmaCount      `json:"top_propn"`
}

// Compute makes a single pass over the document. Word-level metrics
// exclude punctuation and symbols; the POS distribution and total_tokens
// cover every token, including tags outside the recognized set. Ratios
// resolve to 0 on an empty document instead of dividing by zero.
func Compute(doc *token.Document, topN int) Report {
	if topN <= 0 {
		topN = DefaultTopN
	}

	posCounts := newCounter()
	allLemmas := newCounter()
	perPOS := make(map[string]*counter, len(contentPOS))
	for pos := range contentPOS {
		perPOS[pos] = newCounter()
	}

	totalTokens := 0
	wordCount := 0
	totalChars := 0

	for _, t := range doc.Flat() {
		totalTokens++
		posCounts.add(t.POS)

		if !t.IsWord() {
			continue
		}
		wordCount++
		totalChars += utf8.RuneCountInString(t.Text)
		allLemmas.add(t.Norm())

		if _, ok := contentPOS[t.POS]; ok {
			perPOS[t.POS].add(t.Norm())
		}
	}

	unique := allLemmas.size()
	var richness, avgLen float64
	if wordCount > 0 {
		richness = round2(float64(unique) / float64(wordCount) * 100)
		avgLen = round2(float64(totalChars) / float64(wordCount))
	}

	return Report{
		TotalTokens:        totalTokens,
		TotalWords:         wordCount,
		UniqueLemmas:       unique,
		VocabularyRichness: richness,
		AvgWordLength:      avgLen,
		POSDistribution:    distribution(posCounts),
		POSLabels:          LabelsRU,
		TopNouns:           topLemmas(perPOS[token.Noun], topN),
		TopAdj:             topLemmas(perPOS[token.Adj], topN),
		TopVerbs:           topLemmas(perPOS[token.Verb], topN),
		TopAdv:             topLemmas(perPOS[token.Adv], topN),
		TopPropn:           topLemmas(perPOS[token.Propn], topN),
	}
}

// counter tracks occurrence counts while remembering first-seen order,
// so equal counts rank deterministically.
type counter struct {
	counts map[string]int
	order  []string
}

func newCounter() *counter {
	return &counter{counts: make(map[string]int)}
}

func (c *counter) add(s string) {
	if _, seen := c.counts[s]; !seen {
		c.order = append(c.order, s)
	}
	c.counts[s]++
}

func (c *counter) size() int {
	return len(c.counts)
}

// ranked returns the keys sorted by count descending, ties in first-seen
// order.
func (c *counter) ranked() []string {
	keys := make([]string, len(c.order))
	copy(keys, c.order)
	sort.SliceStable(keys, func(i, j int) bool {
		return c.counts[keys[i]] > c.counts[keys[j]]
	})
	return keys
}

func distribution(c *counter) Distribution {
	keys := c.ranked()
	dist := make(Distribution, 0, len(keys))
	for _, k := range keys {
		dist = append(dist, POSCount{POS: k, Count: c.counts[k]})
	}
	return dist
}

func topLemmas(c *counter, limit int) []LemmaCount {
	keys := c.ranked()
	if len(keys) > limit {
		keys = keys[:limit]
	}
	top := make([]LemmaCount, 0, len(keys))
	for _, k := range keys {
		top = append(top, LemmaCount{Lemma: k, Count: c.counts[k]})
	}
	return top
}

func round2(x float64) float64 {
	return math.Round(x*100) / 100
}

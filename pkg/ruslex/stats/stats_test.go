package stats

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/cognicore/ruslex/pkg/ruslex/token"
)

func tok(text, lemma, pos string) token.Token {
	return token.Token{Text: text, Lemma: lemma, POS: pos}
}

func mustDoc(t *testing.T, sents ...token.Sentence) *token.Document {
	t.Helper()
	doc, err := token.New("", sents)
	if err != nil {
		t.Fatalf("build document: %v", err)
	}
	return doc
}

func TestComputeCounts(t *testing.T) {
	doc := mustDoc(t, token.Sentence{Tokens: []token.Token{
		tok("Дом", "дом", token.Noun),
		tok("стоял", "стоять", token.Verb),
		tok(".", ".", token.Punct),
	}})

	report := Compute(doc, 10)

	if report.TotalTokens != 3 {
		t.Errorf("Expected total_tokens 3, got %d", report.TotalTokens)
	}
	if report.TotalWords != 2 {
		t.Errorf("Expected total_words 2 (punct excluded), got %d", report.TotalWords)
	}
	if report.UniqueLemmas != 2 {
		t.Errorf("Expected 2 unique lemmas, got %d", report.UniqueLemmas)
	}
}

func TestComputeRatios(t *testing.T) {
	// Three words, two distinct lemmas: richness 2/3*100 = 66.67.
	// Lengths 3+5+3 = 11 runes, avg 3.67.
	doc := mustDoc(t, token.Sentence{Tokens: []token.Token{
		tok("дом", "дом", token.Noun),
		tok("домом", "дом", token.Noun),
		tok("лес", "лес", token.Noun),
	}})

	report := Compute(doc, 10)

	if report.VocabularyRichness != 66.67 {
		t.Errorf("Expected richness 66.67, got %v", report.VocabularyRichness)
	}
	if report.AvgWordLength != 3.67 {
		t.Errorf("Expected avg length 3.67, got %v", report.AvgWordLength)
	}
}

func TestComputeWordLengthInRunes(t *testing.T) {
	// Cyrillic is two bytes per letter; lengths must count runes.
	doc := mustDoc(t, token.Sentence{Tokens: []token.Token{
		tok("ёж", "ёж", token.Noun),
	}})

	report := Compute(doc, 10)
	if report.AvgWordLength != 2 {
		t.Errorf("Expected avg length 2 runes, got %v", report.AvgWordLength)
	}
}

func TestComputeEmptyDocument(t *testing.T) {
	report := Compute(mustDoc(t), 10)

	if report.TotalTokens != 0 || report.TotalWords != 0 {
		t.Errorf("Expected zero totals, got %+v", report)
	}
	if report.VocabularyRichness != 0 {
		t.Errorf("Expected richness 0 on empty input, got %v", report.VocabularyRichness)
	}
	if report.AvgWordLength != 0 {
		t.Errorf("Expected avg length 0 on empty input, got %v", report.AvgWordLength)
	}
	if len(report.TopNouns) != 0 {
		t.Errorf("Expected empty rankings, got %v", report.TopNouns)
	}
}

func TestComputePOSDistribution(t *testing.T) {
	doc := mustDoc(t, token.Sentence{Tokens: []token.Token{
		tok("дом", "дом", token.Noun),
		tok("лес", "лес", token.Noun),
		tok(".", ".", token.Punct),
	}})

	report := Compute(doc, 10)

	if got := report.POSDistribution.Count(token.Noun); got != 2 {
		t.Errorf("Expected NOUN count 2, got %d", got)
	}
	if got := report.POSDistribution.Count(token.Punct); got != 1 {
		t.Errorf("Expected PUNCT counted in distribution, got %d", got)
	}
	if report.POSDistribution[0].POS != token.Noun {
		t.Errorf("Expected distribution ordered by count, got %+v", report.POSDistribution)
	}
}

func TestComputeUnknownPOS(t *testing.T) {
	// A malformed tag still counts toward totals and the distribution
	// but never enters the rankings.
	doc := mustDoc(t, token.Sentence{Tokens: []token.Token{
		tok("хм", "хм", "WEIRD"),
		tok("дом", "дом", token.Noun),
	}})

	report := Compute(doc, 10)

	if report.TotalTokens != 2 || report.TotalWords != 2 {
		t.Errorf("Expected unknown tag counted as a word, got %+v", report)
	}
	if got := report.POSDistribution.Count("WEIRD"); got != 1 {
		t.Errorf("Expected WEIRD in distribution, got %d", got)
	}
	if report.UniqueLemmas != 2 {
		t.Errorf("Expected unknown tag to count toward lemma uniqueness, got %d", report.UniqueLemmas)
	}
	if len(report.TopNouns) != 1 {
		t.Errorf("Expected only дом in top nouns, got %v", report.TopNouns)
	}
}

func TestComputeTopNTruncation(t *testing.T) {
	sent := token.Sentence{}
	for _, w := range []string{"дом", "лес", "снег", "ветер"} {
		sent.Tokens = append(sent.Tokens, tok(w, w, token.Noun))
	}
	doc := mustDoc(t, sent)

	report := Compute(doc, 2)
	if len(report.TopNouns) != 2 {
		t.Errorf("Expected top list truncated to 2, got %d", len(report.TopNouns))
	}
	// Ties keep first-seen order.
	if report.TopNouns[0].Lemma != "дом" || report.TopNouns[1].Lemma != "лес" {
		t.Errorf("Expected stable tie order, got %+v", report.TopNouns)
	}
}

func TestComputeDefaultTopN(t *testing.T) {
	doc := mustDoc(t, token.Sentence{Tokens: []token.Token{
		tok("дом", "дом", token.Noun),
	}})

	report := Compute(doc, 0)
	if len(report.TopNouns) != 1 {
		t.Errorf("Expected non-positive topN to fall back to default, got %v", report.TopNouns)
	}
}

func TestComputePOSLabels(t *testing.T) {
	report := Compute(mustDoc(t), 10)
	if report.POSLabels[token.Noun] != "Существительное" {
		t.Errorf("Expected Russian label table, got %q", report.POSLabels[token.Noun])
	}
	if len(report.POSLabels) != 16 {
		t.Errorf("Expected a label for all 16 tags, got %d", len(report.POSLabels))
	}
}

func TestDistributionMarshalOrder(t *testing.T) {
	dist := Distribution{
		{POS: "NOUN", Count: 3},
		{POS: "ADJ", Count: 1},
	}
	data, err := dist.MarshalJSON()
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	got := string(data)
	if got != `{"NOUN":3,"ADJ":1}` {
		t.Errorf("Expected ordered object, got %s", got)
	}
	if strings.Index(got, "NOUN") > strings.Index(got, "ADJ") {
		t.Errorf("Expected NOUN before ADJ, got %s", got)
	}
}

func TestDistributionUnmarshalKeepsOrder(t *testing.T) {
	var dist Distribution
	if err := json.Unmarshal([]byte(`{"NOUN":3,"ADJ":1}`), &dist); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(dist) != 2 || dist[0].POS != "NOUN" || dist[1].Count != 1 {
		t.Errorf("Expected object order preserved, got %+v", dist)
	}

	if err := json.Unmarshal([]byte(`null`), &dist); err != nil {
		t.Fatalf("unmarshal null: %v", err)
	}
	if dist != nil {
		t.Errorf("Expected nil distribution for null, got %+v", dist)
	}

	if err := json.Unmarshal([]byte(`[1,2]`), &dist); err == nil {
		t.Error("Expected error for non-object input")
	}
}

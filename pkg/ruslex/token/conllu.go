package token

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/cognicore/ruslex/pkg/ruslex/internalerr"
)

// conlluColumns is the fixed column count of a CoNLL-U token line:
// ID, FORM, LEMMA, UPOS, XPOS, FEATS, HEAD, DEPREL, DEPS, MISC.
const conlluColumns = 10

// Parse reads an annotated document in CoNLL-U format. Sentences are
// separated by blank lines; `# text = …` comments, when present, are
// collected into the document's source text. Multiword-token ranges
// ("1-2") and empty nodes ("1.1") are skipped; the analysis passes work
// on syntactic words only.
func Parse(r io.Reader) (*Document, error) {
	var (
		sents    []Sentence
		current  Sentence
		textRuns []string
	)

	flush := func() {
		if len(current.Tokens) > 0 {
			sents = append(sents, current)
			current = Sentence{}
		}
	}

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimRight(scanner.Text(), "\r")
		if line == "" {
			flush()
			continue
		}
		if strings.HasPrefix(line, "#") {
			if text, ok := strings.CutPrefix(line, "# text = "); ok {
				textRuns = append(textRuns, text)
			}
			continue
		}

		cols := strings.Split(line, "\t")
		if len(cols) != conlluColumns {
			return nil, fmt.Errorf("line %d: expected %d columns, got %d: %w",
				lineNo, conlluColumns, len(cols), internalerr.ErrInvalidInput)
		}

		id := cols[0]
		if strings.ContainsAny(id, "-.") {
			continue
		}

		tok := Token{
			ID:    id,
			Text:  cols[1],
			Lemma: underscoreToEmpty(cols[2]),
			POS:   cols[3],
		}
		if head := cols[6]; head != "_" && head != "0" && head != "" {
			tok.HeadID = head
		}
		if rel := cols[7]; rel != "_" {
			tok.Rel = rel
		}
		current.Tokens = append(current.Tokens, tok)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read conllu: %w", err)
	}
	flush()

	return New(strings.Join(textRuns, " "), sents)
}

// ReadFile parses a CoNLL-U file from disk.
func ReadFile(path string) (*Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	doc, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return doc, nil
}

func underscoreToEmpty(s string) string {
	if s == "_" {
		return ""
	}
	return s
}

// Package ruslex is the lexical analysis engine facade: one call runs
// the dictionary, statistics and collocation passes over an annotated
// document and returns the bundled result.
package ruslex

import (
	"math"
	"time"
	"unicode/utf8"

	"github.com/cognicore/ruslex/pkg/ruslex/colloc"
	"github.com/cognicore/ruslex/pkg/ruslex/dictionary"
	"github.com/cognicore/ruslex/pkg/ruslex/stats"
	"github.com/cognicore/ruslex/pkg/ruslex/token"
)

// Options configures an Engine.
type Options struct {
	// TopN bounds the per-category lemma rankings. Non-positive falls
	// back to stats.DefaultTopN.
	TopN int

	// POSLabels overrides the built-in Russian POS label table when
	// non-nil.
	POSLabels map[string]string
}

// Engine runs the full analysis pipeline. It holds no per-document
// state, so one Engine may serve any number of Analyze calls.
type Engine struct {
	opts Options
}

// New creates an Engine with the given options.
func New(opts Options) *Engine {
	return &Engine{opts: opts}
}

// Meta is the timing envelope attached to every result.
type Meta struct {
	CharCount         int     `json:"char_count"`
	ProcessingTimeSec float64 `json:"processing_time_sec"`
}

// Result bundles the three independent analysis outputs. Each is owned
// by the pass that produced it and is not mutated afterwards.
type Result struct {
	Meta         Meta               `json:"meta"`
	Dictionary   []dictionary.Entry `json:"dictionary"`
	Statistics   stats.Report       `json:"statistics"`
	Collocations colloc.Index       `json:"collocations"`
}

// Analyze runs the three passes over one document. The passes are
// independent reads of the same immutable document; they run
// sequentially here and share no state.
func (e *Engine) Analyze(doc *token.Document) Result {
	start := time.Now()

	dict := dictionary.Build(doc)
	report := stats.Compute(doc, e.opts.TopN)
	if e.opts.POSLabels != nil {
		report.POSLabels = e.opts.POSLabels
	}
	pairs := colloc.Extract(doc)

	elapsed := math.Round(time.Since(start).Seconds()*100) / 100

	return Result{
		Meta: Meta{
			CharCount:         utf8.RuneCountInString(doc.Text),
			ProcessingTimeSec: elapsed,
		},
		Dictionary:   dict,
		Statistics:   report,
		Collocations: pairs,
	}
}

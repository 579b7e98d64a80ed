// Command ruslex-analyze runs the full analysis pipeline over a
// CoNLL-U file and prints the result as JSON.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/cognicore/ruslex/pkg/ruslex"
	"github.com/cognicore/ruslex/pkg/ruslex/config"
	"github.com/cognicore/ruslex/pkg/ruslex/export"
	"github.com/cognicore/ruslex/pkg/ruslex/token"
)

func main() {
	var (
		input   = flag.String("input", "", "Path to annotated CoNLL-U file (required)")
		cfgPath = flag.String("config", "", "Optional YAML config file")
		topN    = flag.Int("top", 0, "Top-N limit for lemma rankings (0 = config default)")
		out     = flag.String("out", "", "Output file (default stdout)")
		compact = flag.Bool("compact", false, "Emit compact JSON instead of indented")
	)
	flag.Parse()

	if *input == "" {
		log.Fatal("--input required")
	}

	cfg := config.Default()
	if *cfgPath != "" {
		loaded, err := config.Load(*cfgPath)
		if err != nil {
			log.Fatalf("load config: %v", err)
		}
		cfg = loaded
	}
	if *topN > 0 {
		cfg.TopN = *topN
	}

	doc, err := token.ReadFile(*input)
	if err != nil {
		log.Fatalf("read document: %v", err)
	}

	engine := ruslex.New(ruslex.Options{TopN: cfg.TopN, POSLabels: cfg.POSLabels})
	result := engine.Analyze(doc)

	data, err := export.Marshal(result, !*compact)
	if err != nil {
		log.Fatalf("marshal result: %v", err)
	}

	if *out == "" {
		fmt.Println(string(data))
		return
	}
	if err := os.WriteFile(*out, append(data, '\n'), 0o644); err != nil {
		log.Fatalf("write %s: %v", *out, err)
	}
	log.Printf("wrote %s (%d tokens, %d pairs)", *out,
		result.Statistics.TotalTokens, result.Collocations.UniquePairs)
}

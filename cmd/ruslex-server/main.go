// Command ruslex-server exposes the analysis engine as a JSON API.
//
// Endpoints:
//
//	POST   /analyze            multipart upload (.txt/.conllu) or 'text' field
//	GET    /api/results?id=
//	GET    /api/search?id=&noun=&limit=
//	GET    /api/export?id=
//	POST   /api/save           body: {"id":"..."}
//	GET    /api/history
//	GET    /api/history/{id}
//	DELETE /api/history/{id}
package main

import (
	"context"
	"flag"
	"log"
	"net/http"
	"time"

	"github.com/cognicore/ruslex/internal/annotate"
	"github.com/cognicore/ruslex/internal/web"
	"github.com/cognicore/ruslex/pkg/ruslex"
	"github.com/cognicore/ruslex/pkg/ruslex/config"
	"github.com/cognicore/ruslex/pkg/ruslex/store"
	"github.com/cognicore/ruslex/pkg/ruslex/store/memstore"
	"github.com/cognicore/ruslex/pkg/ruslex/store/sqlite"
)

func main() {
	var (
		cfgPath = flag.String("config", "", "Optional YAML config file")
		addr    = flag.String("addr", "", "Listen address (overrides config)")
		dbPath  = flag.String("db", "", "SQLite database path (overrides config)")
	)
	flag.Parse()

	cfg := config.Default()
	if *cfgPath != "" {
		loaded, err := config.Load(*cfgPath)
		if err != nil {
			log.Fatalf("load config: %v", err)
		}
		cfg = loaded
	}
	if *addr != "" {
		cfg.Server.Addr = *addr
	}
	if *dbPath != "" {
		cfg.Storage.Path = *dbPath
	}

	var st store.Store
	if cfg.Storage.Path != "" {
		opened, err := sqlite.Open(context.Background(), cfg.Storage.Path)
		if err != nil {
			log.Fatalf("open store %s: %v", cfg.Storage.Path, err)
		}
		st = opened
		log.Printf("using sqlite store at %s", cfg.Storage.Path)
	} else {
		st = memstore.New()
		log.Printf("no storage path configured; saved analyses will not survive restarts")
	}
	defer st.Close()

	var ann annotate.Annotator
	if cfg.Annotator.BaseURL != "" {
		ann = &annotate.Client{
			BaseURL:    cfg.Annotator.BaseURL,
			HTTPClient: &http.Client{Timeout: time.Duration(cfg.Annotator.TimeoutSec) * time.Second},
		}
		log.Printf("annotation service: %s", cfg.Annotator.BaseURL)
	} else {
		log.Printf("no annotation service configured; only .conllu uploads will be accepted")
	}

	engine := ruslex.New(ruslex.Options{TopN: cfg.TopN, POSLabels: cfg.POSLabels})
	server, err := web.NewServer(cfg.Server, engine, st, ann)
	if err != nil {
		log.Fatalf("create server: %v", err)
	}

	log.Printf("listening on %s", cfg.Server.Addr)
	if err := http.ListenAndServe(cfg.Server.Addr, server.Handler()); err != nil {
		log.Fatalf("server error: %v", err)
	}
}

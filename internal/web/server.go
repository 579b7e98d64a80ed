// Package web is the HTTP layer: upload and analyze annotated text,
// query results, search collocations, export JSON, and manage saved
// analyses.
package web

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"mime/multipart"
	"net/http"
	"path"
	"strconv"
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/rs/cors"
	"golang.org/x/net/html/charset"

	"github.com/cognicore/ruslex/internal/annotate"
	"github.com/cognicore/ruslex/pkg/ruslex"
	"github.com/cognicore/ruslex/pkg/ruslex/colloc"
	"github.com/cognicore/ruslex/pkg/ruslex/config"
	"github.com/cognicore/ruslex/pkg/ruslex/export"
	"github.com/cognicore/ruslex/pkg/ruslex/internalerr"
	"github.com/cognicore/ruslex/pkg/ruslex/store"
	"github.com/cognicore/ruslex/pkg/ruslex/token"
)

// cached is one finished analysis held for follow-up queries.
type cached struct {
	Filename string
	Result   ruslex.Result
}

// Server wires the engine, the recent-analysis cache, and optional
// persistence and annotation collaborators.
type Server struct {
	engine    *ruslex.Engine
	store     store.Store        // nil: save/history endpoints answer 503
	annotator annotate.Annotator // nil: only .conllu uploads accepted
	cache     *lru.Cache[string, cached]
	cfg       config.Server
}

// NewServer builds a Server. The cache is bounded; the least recently
// used analysis is evicted once cfg.CacheSize is exceeded.
func NewServer(cfg config.Server, engine *ruslex.Engine, st store.Store, ann annotate.Annotator) (*Server, error) {
	size := cfg.CacheSize
	if size <= 0 {
		size = 32
	}
	cache, err := lru.New[string, cached](size)
	if err != nil {
		return nil, fmt.Errorf("create cache: %w", err)
	}
	return &Server{
		engine:    engine,
		store:     st,
		annotator: ann,
		cache:     cache,
		cfg:       cfg,
	}, nil
}

// Handler returns the routed handler with CORS applied.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/analyze", s.handleAnalyze)
	mux.HandleFunc("/api/results", s.handleResults)
	mux.HandleFunc("/api/search", s.handleSearch)
	mux.HandleFunc("/api/export", s.handleExport)
	mux.HandleFunc("/api/save", s.handleSave)
	mux.HandleFunc("/api/history", s.handleHistory)
	mux.HandleFunc("/api/history/", s.handleHistoryItem)

	c := cors.New(cors.Options{
		AllowedOrigins: s.cfg.AllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodDelete},
	})
	return c.Handler(mux)
}

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	data, err := export.Marshal(v, false)
	if err != nil {
		http.Error(w, `{"error":"encode failed"}`, http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	w.Write(data)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

// handleAnalyze accepts a pasted text field or an uploaded .txt/.conllu
// file, runs the engine, caches the result under a fresh id, and
// returns the id with the meta envelope.
func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "POST required")
		return
	}
	if s.cfg.MaxUploadBytes > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadBytes)
	}

	doc, filename, err := s.readDocument(r)
	if err != nil {
		status := http.StatusBadRequest
		if errors.Is(err, internalerr.ErrInvalidDocument) {
			status = http.StatusUnprocessableEntity
		}
		writeError(w, status, err.Error())
		return
	}

	result := s.engine.Analyze(doc)
	id := store.NewID()
	s.cache.Add(id, cached{Filename: filename, Result: result})

	writeJSON(w, http.StatusOK, struct {
		ID       string      `json:"id"`
		Filename string      `json:"filename"`
		Meta     ruslex.Meta `json:"meta"`
	}{ID: id, Filename: filename, Meta: result.Meta})
}

// readDocument extracts the annotated document from the request:
// pasted text (form field), an uploaded CoNLL-U file, or an uploaded
// plain-text file routed through the annotator.
func (s *Server) readDocument(r *http.Request) (*token.Document, string, error) {
	if err := r.ParseMultipartForm(s.cfg.MaxUploadBytes); err != nil && err != http.ErrNotMultipart {
		return nil, "", fmt.Errorf("parse upload: %w", err)
	}

	if pasted := strings.TrimSpace(r.FormValue("text")); pasted != "" {
		doc, err := s.annotateText(r.Context(), pasted)
		return doc, "вставленный_текст.txt", err
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		return nil, "", fmt.Errorf("upload a file or provide a 'text' field: %w", internalerr.ErrInvalidInput)
	}
	defer file.Close()

	switch strings.ToLower(path.Ext(header.Filename)) {
	case ".conllu":
		doc, err := token.Parse(file)
		return doc, header.Filename, err
	case ".txt":
		text, err := decodeUpload(file, header)
		if err != nil {
			return nil, "", err
		}
		doc, err := s.annotateText(r.Context(), text)
		return doc, header.Filename, err
	default:
		return nil, "", fmt.Errorf("only .txt and .conllu files are accepted: %w", internalerr.ErrInvalidInput)
	}
}

func (s *Server) annotateText(ctx context.Context, text string) (*token.Document, error) {
	if text == "" {
		return nil, fmt.Errorf("empty text: %w", internalerr.ErrInvalidInput)
	}
	if s.annotator == nil {
		return nil, fmt.Errorf("no annotation service configured; upload pre-annotated .conllu input: %w",
			internalerr.ErrInvalidInput)
	}
	return s.annotator.Annotate(ctx, text)
}

// decodeUpload converts the uploaded bytes to UTF-8. Russian texts
// arrive in cp1251 often enough that charset sniffing matters here.
func decodeUpload(file multipart.File, header *multipart.FileHeader) (string, error) {
	reader, err := charset.NewReader(file, header.Header.Get("Content-Type"))
	if err != nil {
		return "", fmt.Errorf("detect encoding: %w", err)
	}
	data, err := io.ReadAll(reader)
	if err != nil {
		return "", fmt.Errorf("read upload: %w", err)
	}
	return string(data), nil
}

func (s *Server) cachedAnalysis(w http.ResponseWriter, r *http.Request) (cached, bool) {
	id := r.URL.Query().Get("id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "parameter 'id' is required")
		return cached{}, false
	}
	entry, ok := s.cache.Get(id)
	if !ok {
		writeError(w, http.StatusNotFound, "no analysis with that id; run /analyze first")
		return cached{}, false
	}
	return entry, true
}

func (s *Server) handleResults(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "GET required")
		return
	}
	entry, ok := s.cachedAnalysis(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, struct {
		Filename string        `json:"filename"`
		Result   ruslex.Result `json:"result"`
	}{Filename: entry.Filename, Result: entry.Result})
}

// handleSearch answers ?id=…&noun=слово&limit=20 with the noun's top
// adjectives, falling back to prefix matching over the noun index.
func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "GET required")
		return
	}
	entry, ok := s.cachedAnalysis(w, r)
	if !ok {
		return
	}

	noun := strings.TrimSpace(r.URL.Query().Get("noun"))
	if noun == "" {
		writeError(w, http.StatusBadRequest, "parameter 'noun' is required")
		return
	}
	limit := 20
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, "parameter 'limit' must be an integer")
			return
		}
		limit = parsed
	}

	matches := colloc.SearchAdjectivesForNoun(entry.Result.Collocations, noun, limit)
	writeJSON(w, http.StatusOK, struct {
		Noun       string            `json:"noun"`
		Adjectives []colloc.AdjEntry `json:"adjectives"`
	}{Noun: noun, Adjectives: matches})
}

// handleExport streams the full analysis as a pretty-printed JSON
// download.
func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "GET required")
		return
	}
	entry, ok := s.cachedAnalysis(w, r)
	if !ok {
		return
	}

	data, err := export.Marshal(entry.Result, true)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	base := strings.TrimSuffix(entry.Filename, path.Ext(entry.Filename))
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.Header().Set("Content-Disposition",
		fmt.Sprintf("attachment; filename=%q", base+"_analysis.json"))
	w.Write(data)
}

// handleSave persists a cached analysis. Body: {"id": "…"}.
func (s *Server) handleSave(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "POST required")
		return
	}
	if s.store == nil {
		writeError(w, http.StatusServiceUnavailable, "no storage configured")
		return
	}

	var body struct {
		ID string `json:"id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.ID == "" {
		writeError(w, http.StatusBadRequest, "body must be JSON with a non-empty 'id' field")
		return
	}
	entry, ok := s.cache.Get(body.ID)
	if !ok {
		writeError(w, http.StatusNotFound, "no analysis with that id; run /analyze first")
		return
	}

	analysis, err := toAnalysis(body.ID, entry)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	saved, err := s.store.SaveAnalysis(r.Context(), analysis)
	if err != nil {
		log.Printf("save analysis %s: %v", body.ID, err)
		writeError(w, http.StatusInternalServerError, "save failed")
		return
	}
	writeJSON(w, http.StatusOK, struct {
		Success bool          `json:"success"`
		Record  store.Summary `json:"record"`
	}{Success: true, Record: store.Summarize(saved)})
}

func toAnalysis(id string, entry cached) (store.Analysis, error) {
	dict, err := export.Marshal(entry.Result.Dictionary, false)
	if err != nil {
		return store.Analysis{}, err
	}
	statsJSON, err := export.Marshal(entry.Result.Statistics, false)
	if err != nil {
		return store.Analysis{}, err
	}
	collocJSON, err := export.Marshal(entry.Result.Collocations, false)
	if err != nil {
		return store.Analysis{}, err
	}
	return store.Analysis{
		ID:             id,
		Filename:       entry.Filename,
		CharCount:      entry.Result.Meta.CharCount,
		WordCount:      entry.Result.Statistics.TotalWords,
		ProcessingTime: entry.Result.Meta.ProcessingTimeSec,
		Dictionary:     dict,
		Statistics:     statsJSON,
		Collocations:   collocJSON,
	}, nil
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "GET required")
		return
	}
	if s.store == nil {
		writeError(w, http.StatusServiceUnavailable, "no storage configured")
		return
	}

	summaries, err := s.store.ListAnalyses(r.Context(), 50)
	if err != nil {
		log.Printf("list analyses: %v", err)
		writeError(w, http.StatusInternalServerError, "list failed")
		return
	}
	if summaries == nil {
		summaries = []store.Summary{}
	}
	writeJSON(w, http.StatusOK, struct {
		Analyses []store.Summary `json:"analyses"`
	}{Analyses: summaries})
}

// handleHistoryItem serves GET and DELETE for /api/history/{id}.
func (s *Server) handleHistoryItem(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		writeError(w, http.StatusServiceUnavailable, "no storage configured")
		return
	}
	id := strings.TrimPrefix(r.URL.Path, "/api/history/")
	if id == "" || strings.Contains(id, "/") {
		writeError(w, http.StatusBadRequest, "invalid analysis id")
		return
	}

	switch r.Method {
	case http.MethodGet:
		analysis, err := s.store.GetAnalysis(r.Context(), id)
		if errors.Is(err, internalerr.ErrNotFound) {
			writeError(w, http.StatusNotFound, "analysis not found")
			return
		}
		if err != nil {
			log.Printf("get analysis %s: %v", id, err)
			writeError(w, http.StatusInternalServerError, "load failed")
			return
		}
		writeJSON(w, http.StatusOK, analysis)
	case http.MethodDelete:
		err := s.store.DeleteAnalysis(r.Context(), id)
		if errors.Is(err, internalerr.ErrNotFound) {
			writeError(w, http.StatusNotFound, "analysis not found")
			return
		}
		if err != nil {
			log.Printf("delete analysis %s: %v", id, err)
			writeError(w, http.StatusInternalServerError, "delete failed")
			return
		}
		writeJSON(w, http.StatusOK, struct {
			Success bool `json:"success"`
		}{Success: true})
	default:
		writeError(w, http.StatusMethodNotAllowed, "GET or DELETE required")
	}
}

package annotate

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/cognicore/ruslex/pkg/ruslex/token"
)

func TestClientAnnotate(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Text string `json:"text"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode request: %v", err)
		}
		if !strings.Contains(req.Text, "дом") {
			t.Errorf("Expected text forwarded, got %q", req.Text)
		}
		json.NewEncoder(w).Encode(map[string]any{
			"sents": []map[string]any{{
				"tokens": []map[string]any{
					{"id": "1", "text": "старый", "lemma": "старый", "pos": "ADJ", "head_id": "2", "rel": "amod"},
					{"id": "2", "text": "дом", "lemma": "дом", "pos": "NOUN"},
				},
			}},
		})
	}))
	defer srv.Close()

	client := &Client{BaseURL: srv.URL}
	doc, err := client.Annotate(context.Background(), "старый дом")
	if err != nil {
		t.Fatalf("annotate: %v", err)
	}
	if doc.Len() != 2 {
		t.Fatalf("Expected 2 tokens, got %d", doc.Len())
	}
	first := doc.Sents[0].Tokens[0]
	if first.POS != token.Adj || first.Rel != "amod" {
		t.Errorf("Unexpected token %+v", first)
	}
	if doc.Text != "старый дом" {
		t.Errorf("Expected source text kept, got %q", doc.Text)
	}
}

func TestClientServiceError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		json.NewEncoder(w).Encode(map[string]string{"error": "model not loaded"})
	}))
	defer srv.Close()

	client := &Client{BaseURL: srv.URL}
	if _, err := client.Annotate(context.Background(), "дом"); err == nil {
		t.Error("Expected error from service failure")
	}
}

func TestClientRequiresBaseURL(t *testing.T) {
	client := &Client{}
	if _, err := client.Annotate(context.Background(), "дом"); err == nil {
		t.Error("Expected error without base URL")
	}
}

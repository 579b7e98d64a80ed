// Package annotate talks to the external NLP service that segments,
// tags, lemmatizes and parses raw Russian text. The service owns the
// heavy model state; this side only sees the finished document, so the
// analysis core stays testable with synthetic documents.
package annotate

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/cognicore/ruslex/pkg/ruslex/token"
)

// Annotator produces an annotated document for raw text.
type Annotator interface {
	Annotate(ctx context.Context, text string) (*token.Document, error)
}

// Client calls an annotation endpoint over HTTP. The endpoint accepts
// {"text": …} and answers with the sentence/token structure of
// token.Document.
type Client struct {
	BaseURL string

	HTTPClient *http.Client
}

type annotateRequest struct {
	Text string `json:"text"`
}

type annotateResponse struct {
	Sents []token.Sentence `json:"sents"`
	Error string           `json:"error,omitempty"`
}

// Annotate implements Annotator.
func (c *Client) Annotate(ctx context.Context, text string) (*token.Document, error) {
	if c.BaseURL == "" {
		return nil, fmt.Errorf("annotate: base URL required")
	}

	reqBody, err := json.Marshal(annotateRequest{Text: text})
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL, bytes.NewReader(reqBody))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient().Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var payload annotateResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("annotate: decode response: %w", err)
	}
	if payload.Error != "" {
		return nil, fmt.Errorf("annotate error: %s", payload.Error)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("annotate: unexpected status %d", resp.StatusCode)
	}

	return token.New(text, payload.Sents)
}

func (c *Client) httpClient() *http.Client {
	if c.HTTPClient != nil {
		return c.HTTPClient
	}
	return &http.Client{Timeout: 30 * time.Second}
}

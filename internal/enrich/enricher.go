package enrich

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/cloudstreamhq/studio-backend/internal/config"
)

const defaultHTTPTimeout = 15 * time.Second

// Suggestion is the metadata proposal produced for a source file name.
// The caller merges it into the asset's mutable metadata; enrichment never
// touches other fields.
type Suggestion struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Tags        []string `json:"tags"`
}

// Enricher produces a title/description/tags suggestion for an asset.
// Implementations make at most one external call per invocation; retry policy
// belongs to the caller.
type Enricher interface {
	Enrich(ctx context.Context, sourceName string) (*Suggestion, error)
}

// Option customizes the HTTP enricher.
type Option func(*httpEnricher)

// WithHTTPClient overrides the default HTTP client (used in tests).
func WithHTTPClient(client *http.Client) Option {
	return func(e *httpEnricher) {
		if client != nil {
			e.httpClient = client
		}
	}
}

// NewEnricher builds the enrichment service. Without an API key the local
// filename heuristic is used so the studio works offline.
func NewEnricher(cfg *config.Config, opts ...Option) Enricher {
	apiKey := strings.TrimSpace(cfg.Enrich.APIKey)
	if apiKey == "" || strings.TrimSpace(cfg.Enrich.BaseURL) == "" {
		return heuristicEnricher{}
	}

	timeout := defaultHTTPTimeout
	if cfg.Enrich.TimeoutSeconds > 0 {
		timeout = time.Duration(cfg.Enrich.TimeoutSeconds) * time.Second
	}
	e := &httpEnricher{
		apiKey:     apiKey,
		baseURL:    strings.TrimSpace(cfg.Enrich.BaseURL),
		httpClient: &http.Client{Timeout: timeout},
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

type httpEnricher struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

type enrichRequest struct {
	SourceName string `json:"source_name"`
}

func (e *httpEnricher) Enrich(ctx context.Context, sourceName string) (*Suggestion, error) {
	body, err := json.Marshal(enrichRequest{SourceName: sourceName})
	if err != nil {
		return nil, fmt.Errorf("enrich: encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.baseURL, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("enrich: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+e.apiKey)

	resp, err := e.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("enrich: request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		payload, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, fmt.Errorf("enrich: unexpected status %d: %s", resp.StatusCode, strings.TrimSpace(string(payload)))
	}

	var suggestion Suggestion
	if err := json.NewDecoder(resp.Body).Decode(&suggestion); err != nil {
		return nil, fmt.Errorf("enrich: decode response: %w", err)
	}
	if strings.TrimSpace(suggestion.Title) == "" {
		return nil, fmt.Errorf("enrich: empty title in response")
	}
	return &suggestion, nil
}

// heuristicEnricher derives metadata from the file name alone. Deterministic,
// so calling it twice for the same asset yields the same suggestion.
type heuristicEnricher struct{}

func (heuristicEnricher) Enrich(ctx context.Context, sourceName string) (*Suggestion, error) {
	base := strings.TrimSuffix(filepath.Base(sourceName), filepath.Ext(sourceName))
	words := strings.FieldsFunc(base, func(r rune) bool {
		return r == '_' || r == '-' || r == '.' || r == ' '
	})

	title := strings.Join(words, " ")
	if title == "" {
		title = base
	}

	tags := make([]string, 0, 4)
	for _, w := range words {
		if len([]rune(w)) < 3 {
			continue
		}
		tags = append(tags, strings.ToLower(w))
		if len(tags) == 4 {
			break
		}
	}

	return &Suggestion{
		Title:       title,
		Description: fmt.Sprintf("مقطع فيديو: %s", title),
		Tags:        tags,
	}, nil
}

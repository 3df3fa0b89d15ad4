package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/veridex/veridex/internal/model"
)

const serperEndpoint = "https://google.serper.dev/search"

// serperMaxBody bounds how much of a response we read
const serperMaxBody = 1 << 20

// SerperProvider is the primary evidence source: Google results via
// the serper.dev JSON API. Quota-limited; requires an API key.
type SerperProvider struct {
	apiKey     string
	endpoint   string
	httpClient *http.Client
}

// NewSerperProvider creates a new Serper-backed provider
func NewSerperProvider(apiKey string, timeout time.Duration) *SerperProvider {
	return &SerperProvider{
		apiKey:   apiKey,
		endpoint: serperEndpoint,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// Name returns the provider name
func (p *SerperProvider) Name() string {
	return "serper"
}

type serperRequest struct {
	Query string `json:"q"`
	Num   int    `json:"num"`
}

type serperResponse struct {
	Organic []struct {
		Title   string `json:"title"`
		Link    string `json:"link"`
		Snippet string `json:"snippet"`
	} `json:"organic"`
}

// Search queries the Serper API for organic results
func (p *SerperProvider) Search(ctx context.Context, query string, max int) ([]model.EvidenceItem, error) {
	body, err := json.Marshal(serperRequest{Query: query, Num: max})
	if err != nil {
		return nil, fmt.Errorf("encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("X-API-KEY", p.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("serper search: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		// Auth and quota errors land here; the retriever treats any
		// error as zero results and moves to the fallback
		return nil, fmt.Errorf("serper status %d", resp.StatusCode)
	}

	raw, err := io.ReadAll(io.LimitReader(resp.Body, serperMaxBody))
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}

	var parsed serperResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}

	var items []model.EvidenceItem
	for _, r := range parsed.Organic {
		if len(items) >= max {
			break
		}
		items = append(items, model.EvidenceItem{
			Title:   r.Title,
			URL:     r.Link,
			Snippet: r.Snippet,
		})
	}

	return items, nil
}

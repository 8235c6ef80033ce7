package suggest

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
)

// Query is one suggestion lookup as the engine issues it.
type Query struct {
	Endpoint string
	Text     string
	Limit    int
	Params   map[string]string
}

// Source fetches candidate values for a query. Implementations must be
// safe for concurrent use; the engine calls Fetch from its timer
// goroutine.
type Source interface {
	Fetch(ctx context.Context, q Query) ([]string, error)
}

// HTTPSource fetches suggestions over the standard endpoint contract:
// GET {endpoint}?q=<text>&limit=<n> plus any extra params, answered with
// a JSON body of the form {"suggestions": ["..."]}.
type HTTPSource struct {
	// BaseURL is prefixed to every query endpoint. Leave empty when
	// queries carry absolute URLs.
	BaseURL string
	// Client defaults to http.DefaultClient.
	Client *http.Client
}

func (s *HTTPSource) Fetch(ctx context.Context, q Query) ([]string, error) {
	endpoint := q.Endpoint
	if s.BaseURL != "" {
		endpoint = strings.TrimRight(s.BaseURL, "/") + "/" + strings.TrimLeft(q.Endpoint, "/")
	}

	vals := url.Values{}
	vals.Set("q", q.Text)
	vals.Set("limit", strconv.Itoa(q.Limit))
	for k, v := range q.Params {
		// Empty extras are dropped, not sent as empty filters.
		if v != "" {
			vals.Set(k, v)
		}
	}

	sep := "?"
	if strings.Contains(endpoint, "?") {
		sep = "&"
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint+sep+vals.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("suggest: building request: %w", err)
	}

	client := s.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("suggest: fetching %s: %w", endpoint, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("suggest: %s returned status %d", endpoint, resp.StatusCode)
	}

	var payload struct {
		Suggestions []string `json:"suggestions"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("suggest: decoding response from %s: %w", endpoint, err)
	}
	return payload.Suggestions, nil
}

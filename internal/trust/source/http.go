// Package source holds trust.Source implementations and decorators.
package source

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"laurelid/internal/trust"
)

// maxDocumentBytes caps the trust list document size.
const maxDocumentBytes = 4 << 20

// HTTPSource fetches the trust list as a JSON object of issuer id to trust token.
type HTTPSource struct {
	url    string
	client *http.Client
}

type HTTPOption func(*HTTPSource)

func WithHTTPClient(client *http.Client) HTTPOption {
	return func(s *HTTPSource) {
		if client != nil {
			s.client = client
		}
	}
}

// NewHTTPSource creates a source reading from url.
func NewHTTPSource(url string, opts ...HTTPOption) (*HTTPSource, error) {
	if url == "" {
		return nil, errors.New("trust list url is required")
	}
	s := &HTTPSource{
		url:    url,
		client: &http.Client{Timeout: 15 * time.Second},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

func (s *HTTPSource) Fetch(ctx context.Context) (trust.List, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.url, nil)
	if err != nil {
		return nil, trust.NewFetchError(trust.CategoryBadData, s.url, "build request", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, trust.NewFetchError(trust.CategoryTimeout, s.url, "request timed out", err)
		}
		return nil, trust.NewFetchError(trust.CategoryOutage, s.url, "request failed", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxDocumentBytes))
		return nil, trust.NewFetchError(trust.CategoryOutage, s.url, fmt.Sprintf("unexpected status %d", resp.StatusCode), nil)
	}

	var list trust.List
	dec := json.NewDecoder(io.LimitReader(resp.Body, maxDocumentBytes))
	if err := dec.Decode(&list); err != nil {
		return nil, trust.NewFetchError(trust.CategoryBadData, s.url, "decode trust list", err)
	}
	if list == nil {
		return nil, trust.NewFetchError(trust.CategoryBadData, s.url, "trust list document is null", nil)
	}
	return list, nil
}

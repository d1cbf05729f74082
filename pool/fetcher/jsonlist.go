package fetcher

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"proxynest/internal/shared/logger"
	"proxynest/pool/model"
)

const retryWait = 1 * time.Second

// JSONListSource downloads a JSON proxy list. It understands both the
// bare-array shape and documents wrapping the list in a "proxies" field,
// which covers the proxyscrape and proxifly list formats.
type JSONListSource struct {
	url     string
	name    string
	retries int
	client  *http.Client
}

// NewJSONListSource creates a source for the given list URL. retries is
// the total number of attempts per fetch.
func NewJSONListSource(rawURL string, timeout time.Duration, retries int) *JSONListSource {
	name := rawURL
	if u, err := url.Parse(rawURL); err == nil && u.Host != "" {
		name = u.Host
	}
	if retries < 1 {
		retries = 1
	}
	return &JSONListSource{
		url:     rawURL,
		name:    name,
		retries: retries,
		client:  &http.Client{Timeout: timeout},
	}
}

func (s *JSONListSource) Name() string {
	return s.name
}

func (s *JSONListSource) Fetch(ctx context.Context) ([]model.Candidate, error) {
	l := logger.WithComponent("ProxyPool/Fetcher")

	var lastErr error
	for attempt := 1; attempt <= s.retries; attempt++ {
		body, err := s.get(ctx)
		if err == nil {
			return parseJSONList(body)
		}
		lastErr = err
		l.Warn().Err(err).Str("source", s.name).Int("attempt", attempt).Int("retries", s.retries).Msg("Fetch attempt failed.")
		if attempt == s.retries {
			break
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(retryWait):
		}
	}
	return nil, fmt.Errorf("fetch %s: %w", s.name, lastErr)
}

func (s *JSONListSource) get(ctx context.Context) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept-Encoding", "identity")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("received non-200 status code (%d)", resp.StatusCode)
	}
	return io.ReadAll(resp.Body)
}

// listEntry covers the fields the known JSON list formats agree on.
type listEntry struct {
	Proxy     string      `json:"proxy"`
	IP        string      `json:"ip"`
	Port      json.Number `json:"port"`
	Protocol  string      `json:"protocol"`
	Country   string      `json:"country"`
	Anonymity string      `json:"anonymity"`
}

type listDocument struct {
	Proxies []listEntry `json:"proxies"`
}

func parseJSONList(body []byte) ([]model.Candidate, error) {
	var doc listDocument
	if docErr := json.Unmarshal(body, &doc); docErr != nil || doc.Proxies == nil {
		// Fall back to the bare-array shape.
		var arr []listEntry
		if arrErr := json.Unmarshal(body, &arr); arrErr != nil {
			if docErr != nil {
				return nil, fmt.Errorf("parse proxy list JSON: %w", arrErr)
			}
			// A valid document without a proxies field is just empty.
		} else {
			doc.Proxies = arr
		}
	}

	candidates := make([]model.Candidate, 0, len(doc.Proxies))
	for _, e := range doc.Proxies {
		addr := e.Proxy
		if addr == "" {
			if e.IP == "" || e.Port.String() == "" {
				continue
			}
			addr = e.IP + ":" + e.Port.String()
		}
		// Entries that carry neither a scheme nor a protocol field
		// cannot be normalized; drop them here instead of failing the
		// whole ingestion batch later.
		if e.Protocol == "" && !strings.Contains(addr, "://") {
			continue
		}
		candidates = append(candidates, model.Candidate{
			URL:       addr,
			Protocol:  e.Protocol,
			Country:   e.Country,
			Anonymity: e.Anonymity,
		})
	}
	return candidates, nil
}

package fetcher

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"proxynest/internal/shared/logger"
	"proxynest/pool/model"
)

// FreeProxyListSource scrapes the free-proxy-list.net endpoint table:
// IP, port, country code, anonymity and an https column per row.
type FreeProxyListSource struct {
	url    string
	client *http.Client
}

// NewFreeProxyListSource creates a source for the free-proxy-list.net
// table layout. url may point to a mirror carrying the same markup.
func NewFreeProxyListSource(url string, timeout time.Duration) *FreeProxyListSource {
	if url == "" {
		url = "https://free-proxy-list.net/"
	}
	return &FreeProxyListSource{
		url:    url,
		client: &http.Client{Timeout: timeout},
	}
}

func (s *FreeProxyListSource) Name() string {
	return "free-proxy-list.net"
}

func (s *FreeProxyListSource) Fetch(ctx context.Context) ([]model.Candidate, error) {
	l := logger.WithComponent("ProxyPool/Fetcher")
	l.Info().Str("source", s.Name()).Msg("Starting fetch...")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request for %s: %w", s.Name(), err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch page for %s: %w", s.Name(), err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("received non-200 status code (%d) from %s", resp.StatusCode, s.Name())
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML for %s: %w", s.Name(), err)
	}

	var candidates []model.Candidate
	doc.Find("table.table tbody tr").Each(func(_ int, sel *goquery.Selection) {
		cells := sel.Find("td")
		ip := strings.TrimSpace(cells.Eq(0).Text())
		port := strings.TrimSpace(cells.Eq(1).Text())
		if ip == "" || port == "" {
			return
		}

		protocol := "http"
		if strings.EqualFold(strings.TrimSpace(cells.Eq(6).Text()), "yes") {
			protocol = "https"
		}

		candidates = append(candidates, model.Candidate{
			URL:       ip + ":" + port,
			Protocol:  protocol,
			Country:   strings.TrimSpace(cells.Eq(2).Text()),
			Anonymity: normalizeAnonymity(cells.Eq(4).Text()),
		})
	})

	l.Info().Int("count", len(candidates)).Str("source", s.Name()).Msg("Fetch finished.")
	return candidates, nil
}

// normalizeAnonymity maps the site's labels onto the pool's free-form
// anonymity levels.
func normalizeAnonymity(label string) string {
	switch strings.ToLower(strings.TrimSpace(label)) {
	case "elite proxy", "elite":
		return "elite"
	case "anonymous":
		return "anonymous"
	case "transparent":
		return "transparent"
	}
	return ""
}

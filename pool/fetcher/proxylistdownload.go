package fetcher

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/gocolly/colly/v2"

	"proxynest/internal/shared/logger"
	"proxynest/pool/model"
)

// ProxyListDownloadSource pulls plain-text host:port payloads from the
// proxy-list.download API for one protocol.
type ProxyListDownloadSource struct {
	protocol  string
	url       string
	collector *colly.Collector
}

// NewProxyListDownloadSource creates a source for the given protocol
// (http, https, socks4 or socks5).
func NewProxyListDownloadSource(protocol string, timeout time.Duration) *ProxyListDownloadSource {
	c := colly.NewCollector(
		colly.UserAgent(userAgent),
	)
	c.SetRequestTimeout(timeout)

	protocol = strings.ToLower(protocol)
	return &ProxyListDownloadSource{
		protocol:  protocol,
		url:       fmt.Sprintf("https://www.proxy-list.download/api/v1/get?type=%s", protocol),
		collector: c,
	}
}

func (s *ProxyListDownloadSource) Name() string {
	return "proxy-list.download"
}

func (s *ProxyListDownloadSource) Fetch(ctx context.Context) ([]model.Candidate, error) {
	l := logger.WithComponent("ProxyPool/Fetcher")
	l.Info().Str("source", s.Name()).Str("protocol", s.protocol).Msg("Starting fetch...")

	var candidates []model.Candidate

	collector := s.collector.Clone()
	collector.Context = ctx
	collector.OnResponse(func(r *colly.Response) {
		for _, line := range strings.Split(string(r.Body), "\n") {
			addr := strings.TrimSpace(line)
			if addr == "" || !strings.Contains(addr, ":") {
				continue
			}
			candidates = append(candidates, model.Candidate{
				URL:      addr,
				Protocol: s.protocol,
			})
		}
	})

	if err := collector.Visit(s.url); err != nil {
		return nil, fmt.Errorf("failed to fetch list for %s: %w", s.Name(), err)
	}
	collector.Wait()

	l.Info().Int("count", len(candidates)).Str("source", s.Name()).Msg("Fetch finished.")
	return candidates, nil
}

package fetcher

import (
	"context"
	"sync"

	"proxynest/internal/shared/logger"
	"proxynest/pool/model"
)

const userAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/108.0.0.0 Safari/537.36"

// Source fetches raw proxy candidates from one remote list. Implementers
// only fetch and parse; validation and deduplication belong to the pool.
type Source interface {
	// Fetch downloads and parses the list.
	Fetch(ctx context.Context) ([]model.Candidate, error)

	// Name identifies the source in logs.
	Name() string
}

// FetchAll runs every source concurrently and gathers one combined
// candidate batch. Individual source failures are logged and skipped.
func FetchAll(ctx context.Context, sources []Source) []model.Candidate {
	l := logger.WithComponent("ProxyPool/Fetcher")

	var wg sync.WaitGroup
	fetchedChan := make(chan []model.Candidate, len(sources))

	for _, s := range sources {
		wg.Add(1)
		go func(src Source) {
			defer wg.Done()
			candidates, err := src.Fetch(ctx)
			if err != nil {
				l.Warn().Err(err).Str("source", src.Name()).Msg("Source failed.")
				return
			}
			if len(candidates) > 0 {
				fetchedChan <- candidates
			}
		}(s)
	}

	wg.Wait()
	close(fetchedChan)

	var all []model.Candidate
	for candidates := range fetchedChan {
		all = append(all, candidates...)
	}

	l.Info().Int("count", len(all)).Int("sources", len(sources)).Msg("Fetch cycle finished.")
	return all
}

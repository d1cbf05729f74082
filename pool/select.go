package pool

import (
	"fmt"
	"sort"

	"proxynest/pool/model"
)

// Filter names attribute values for one side of a selection: records
// matching any listed value per dimension. Empty dimensions are ignored.
type Filter struct {
	Protocol  []string
	Country   []string
	Anonymity []string
}

// SelectOptions controls one selection.
type SelectOptions struct {
	// Include keeps only records matching every non-empty dimension.
	Include Filter
	// Exclude drops records matching any non-empty dimension.
	Exclude Filter
	// MinPoolSize overrides the configured minimum pool size for this
	// call when positive.
	MinPoolSize int
}

// Select picks one record uniformly at random among the records passing
// the filters, avoiding the previously selected record whenever another
// candidate exists. The pick becomes the target of the next Feedback
// call.
//
// It returns ErrInsufficientPool when the pool is below the minimum size
// and ErrNoProxyAvailable when the filters match nothing.
func (m *Manager) Select(opts SelectOptions) (*model.Record, error) {
	minSize := opts.MinPoolSize
	if minSize <= 0 {
		minSize = m.cfg.MinPoolSize
	}
	if minSize > 0 && len(m.records) < minSize {
		return nil, fmt.Errorf("pool holds %d proxies, need %d: %w", len(m.records), minSize, ErrInsufficientPool)
	}

	valid := make(map[int]struct{}, len(m.records))
	for i := range m.records {
		valid[i] = struct{}{}
	}

	intersectBuckets(valid, m.idx.protocol, opts.Include.Protocol)
	intersectBuckets(valid, m.idx.country, opts.Include.Country)
	intersectBuckets(valid, m.idx.anonymity, opts.Include.Anonymity)

	subtractBuckets(valid, m.idx.protocol, opts.Exclude.Protocol)
	subtractBuckets(valid, m.idx.country, opts.Exclude.Country)
	subtractBuckets(valid, m.idx.anonymity, opts.Exclude.Anonymity)

	if len(valid) == 0 {
		return nil, ErrNoProxyAvailable
	}

	// Avoid handing out the same proxy twice in a row unless it is the
	// only option left. It stays eligible for the pick after this one.
	if m.lastSelected >= 0 && len(valid) > 1 {
		delete(valid, m.lastSelected)
	}

	candidates := make([]int, 0, len(valid))
	for pos := range valid {
		candidates = append(candidates, pos)
	}
	// Map iteration order is randomized; sort so an injected seeded
	// source yields reproducible picks.
	sort.Ints(candidates)

	chosen := candidates[m.rng.Intn(len(candidates))]
	m.lastSelected = chosen
	rec := m.records[chosen]
	m.log.Debug().Str("proxy", rec.URL).Str("proxy_id", rec.ID).Msg("Chosen proxy.")
	return rec, nil
}

// SelectURL is Select returning just the normalized endpoint string.
func (m *Manager) SelectURL(opts SelectOptions) (string, error) {
	rec, err := m.Select(opts)
	if err != nil {
		return "", err
	}
	return rec.URL, nil
}

// intersectBuckets keeps only the positions present in the union of the
// buckets for the given values. No-op when values is empty.
func intersectBuckets(valid map[int]struct{}, buckets map[string]map[int]struct{}, values []string) {
	if len(values) == 0 {
		return
	}
	allowed := bucketUnion(buckets, values)
	for pos := range valid {
		if _, ok := allowed[pos]; !ok {
			delete(valid, pos)
		}
	}
}

// subtractBuckets drops the positions present in the union of the
// buckets for the given values.
func subtractBuckets(valid map[int]struct{}, buckets map[string]map[int]struct{}, values []string) {
	if len(values) == 0 {
		return
	}
	for pos := range bucketUnion(buckets, values) {
		delete(valid, pos)
	}
}

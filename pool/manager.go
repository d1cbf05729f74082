package pool

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/rs/zerolog"

	"proxynest/internal/shared/logger"
	"proxynest/internal/shared/types"
	"proxynest/pool/model"
	"proxynest/pool/storage"
)

// Manager owns the record list, its secondary index and the last
// selection. It is not safe for concurrent use: callers accessing one
// Manager from multiple goroutines must supply their own mutual
// exclusion.
type Manager struct {
	cfg   types.PoolConf
	store storage.Storage

	records []*model.Record
	idx     *attrIndex

	// lastSelected is the position handed out by the previous Select,
	// -1 when none. Feedback applies to it; removals adjust it.
	lastSelected int

	rng *rand.Rand
	log zerolog.Logger
}

// Option configures a Manager.
type Option func(*Manager)

// WithRand injects the randomness source used by selection. Tests pass a
// seeded source to make picks deterministic.
func WithRand(rng *rand.Rand) Option {
	return func(m *Manager) {
		m.rng = rng
	}
}

// NewManager creates a pool manager backed by the given storage adapter
// and loads the persisted snapshot. A missing or corrupt snapshot is not
// fatal: the pool starts empty. store may be nil to run without
// persistence.
func NewManager(cfg types.PoolConf, store storage.Storage, opts ...Option) *Manager {
	m := &Manager{
		cfg:          cfg,
		store:        store,
		idx:          newAttrIndex(),
		lastSelected: -1,
		rng:          rand.New(rand.NewSource(time.Now().UnixNano())),
		log:          logger.WithComponent("ProxyPool/Manager"),
	}
	for _, opt := range opts {
		opt(m)
	}

	m.records = m.loadRecords()
	m.idx.rebuild(m.records)
	m.log.Debug().Int("count", len(m.records)).Msg("Loaded proxies on init.")
	return m
}

func (m *Manager) loadRecords() []*model.Record {
	if m.store == nil {
		return nil
	}
	records, err := m.store.Load()
	if err != nil {
		m.log.Warn().Err(err).Msg("Failed to load proxies from storage. Starting with an empty pool.")
		return nil
	}
	for _, r := range records {
		r.EnsureID()
	}
	return records
}

func (m *Manager) persist() error {
	if m.store == nil {
		return nil
	}
	if err := m.store.Save(m.records); err != nil {
		return fmt.Errorf("save proxy snapshot: %w", err)
	}
	return nil
}

// Size returns the current record count.
func (m *Manager) Size() int {
	return len(m.records)
}

// Records returns a snapshot of the current record list. The returned
// slice is the caller's; the records are shared.
func (m *Manager) Records() []*model.Record {
	out := make([]*model.Record, len(m.records))
	copy(out, m.records)
	return out
}

// Add validates all candidates, appends them with zeroed counters,
// deduplicates the pool and persists. A single invalid candidate rejects
// the whole batch before any state change.
func (m *Manager) Add(candidates []model.Candidate) error {
	fresh := make([]*model.Record, 0, len(candidates))
	for _, c := range candidates {
		rec, err := model.NewRecord(c)
		if err != nil {
			return err
		}
		fresh = append(fresh, rec)
	}

	start := len(m.records)
	m.records = append(m.records, fresh...)
	for i, rec := range fresh {
		m.idx.add(start+i, rec)
	}
	m.log.Debug().Int("count", len(fresh)).Msg("Adding proxies to the pool.")

	m.dedupe()
	return m.persist()
}

// Dedupe collapses records sharing the same normalized endpoint URL and
// persists the result. The most recently added occurrence survives and
// the list ends up in newest-first order, matching the reverse-scan
// strategy the dedup contract pins down.
func (m *Manager) Dedupe() error {
	m.dedupe()
	return m.persist()
}

func (m *Manager) dedupe() {
	seen := make(map[string]struct{}, len(m.records))
	kept := make([]*model.Record, 0, len(m.records))
	for i := len(m.records) - 1; i >= 0; i-- {
		rec := m.records[i]
		if _, dup := seen[rec.URL]; dup {
			continue
		}
		seen[rec.URL] = struct{}{}
		kept = append(kept, rec)
	}
	m.records = kept
	m.idx.rebuild(m.records)
}

// Remove deletes the record at the given position, rebuilds the index
// (positions shift) and persists. It returns ErrNotFound for positions
// outside [0, Size) without mutating the pool.
func (m *Manager) Remove(pos int) error {
	if pos < 0 || pos >= len(m.records) {
		return fmt.Errorf("remove position %d: %w", pos, ErrNotFound)
	}

	rec := m.records[pos]
	m.idx.remove(pos, rec)
	m.records = append(m.records[:pos], m.records[pos+1:]...)
	m.idx.rebuild(m.records)

	switch {
	case m.lastSelected == pos:
		m.lastSelected = -1
	case m.lastSelected > pos:
		m.lastSelected--
	}

	m.log.Debug().Str("proxy", rec.URL).Str("proxy_id", rec.ID).Msg("Removed proxy from pool.")
	return m.persist()
}

// RemoveAll clears the pool and persists the empty snapshot.
func (m *Manager) RemoveAll() error {
	m.records = nil
	m.idx.clear()
	m.lastSelected = -1
	return m.persist()
}

// RemoveLastSelected force-removes the record handed out by the previous
// Select. It is a no-op when no selection is remembered.
func (m *Manager) RemoveLastSelected() error {
	if m.lastSelected < 0 || m.lastSelected >= len(m.records) {
		return nil
	}
	return m.Remove(m.lastSelected)
}

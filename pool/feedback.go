package pool

import "proxynest/pool/model"

// Feedback records the outcome of using the proxy handed out by the
// previous Select and persists the pool. A failing proxy is evicted once
// it trips either threshold: too many failures in a row, or an overall
// failure ratio above the configured limit after enough recorded
// failures.
//
// Feedback without a live selection is silently ignored: the pool may
// have been cleared or shrunk between Select and Feedback, and that
// interleaving is benign.
func (m *Manager) Feedback(success bool) error {
	if m.lastSelected < 0 || m.lastSelected >= len(m.records) {
		return nil
	}

	rec := m.records[m.lastSelected]
	if success {
		rec.TimesSucceed++
		rec.TimesFailedInRow = 0
		return m.persist()
	}

	rec.TimesFailed++
	rec.TimesFailedInRow++

	if m.shouldEvict(rec) {
		m.log.Debug().
			Str("proxy", rec.URL).
			Uint32("failed", rec.TimesFailed).
			Uint32("succeed", rec.TimesSucceed).
			Uint32("failed_in_row", rec.TimesFailedInRow).
			Msg("Evicting proxy after repeated failures.")
		// Remove rebuilds the index, clears the selection and persists.
		return m.Remove(m.lastSelected)
	}
	return m.persist()
}

func (m *Manager) shouldEvict(rec *model.Record) bool {
	if rec.TimesFailedInRow > uint32(m.cfg.AllowedFailsInRow) {
		return true
	}
	total := rec.TimesFailed + rec.TimesSucceed
	if total == 0 {
		return false
	}
	ratio := float64(rec.TimesFailed) / float64(total)
	return rec.TimesFailed > uint32(m.cfg.FailsWithoutCheck) && ratio > m.cfg.PercentFailedToRemove
}

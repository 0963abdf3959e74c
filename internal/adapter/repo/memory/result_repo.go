package memory

import (
	"context"

	"townreeve/internal/app/ports"
)

type ResultRepo struct {
	store *Store
}

func NewResultRepo(store *Store) ResultRepo {
	return ResultRepo{store: store}
}

func (r ResultRepo) Save(_ context.Context, rec ports.ResultRecord) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if existing, ok := r.store.results[rec.ResultID]; ok {
		if !sameEnvelope(existing.Envelope, rec.Envelope) {
			return ports.ErrConflict
		}
		return nil
	}
	r.store.results[rec.ResultID] = rec
	r.store.resultOrder = append(r.store.resultOrder, rec.ResultID)
	return nil
}

func (r ResultRepo) GetByResultID(_ context.Context, resultID string) (ports.ResultRecord, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	rec, ok := r.store.results[resultID]
	if !ok {
		return ports.ResultRecord{}, ports.ErrNotFound
	}
	return rec, nil
}

// ListByTownID returns the town's results newest first.
func (r ResultRepo) ListByTownID(_ context.Context, townID string, limit int) ([]ports.ResultRecord, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	out := make([]ports.ResultRecord, 0, limit)
	for i := len(r.store.resultOrder) - 1; i >= 0 && len(out) < limit; i-- {
		rec := r.store.results[r.store.resultOrder[i]]
		if rec.TownID == townID {
			out = append(out, rec)
		}
	}
	return out, nil
}

package memory

import (
	"context"

	"townreeve/internal/app/ports"
)

type HandoffRepo struct {
	store *Store
}

func NewHandoffRepo(store *Store) HandoffRepo {
	return HandoffRepo{store: store}
}

func (r HandoffRepo) Save(_ context.Context, rec ports.HandoffRecord) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if existing, ok := r.store.handoffs[rec.HandoffID]; ok {
		if !sameEnvelope(existing.Envelope, rec.Envelope) {
			return ports.ErrConflict
		}
		return nil
	}
	r.store.handoffs[rec.HandoffID] = rec
	return nil
}

func (r HandoffRepo) GetByHandoffID(_ context.Context, handoffID string) (ports.HandoffRecord, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	rec, ok := r.store.handoffs[handoffID]
	if !ok {
		return ports.HandoffRecord{}, ports.ErrNotFound
	}
	return rec, nil
}

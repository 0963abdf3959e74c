package memory

import "context"

// TxManager runs the unit of work directly; the in-memory store has no
// transactional isolation to offer.
type TxManager struct{}

func (TxManager) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

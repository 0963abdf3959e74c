package ports

import "context"

// TxManager scopes a group of archive writes to one atomic unit.
type TxManager interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}

package gormrepo

import (
	"context"

	"gorm.io/gorm"
)

// TxManager groups archive writes into one database transaction, so a
// handoff envelope and its result envelope commit or roll back together.
type TxManager struct {
	db *gorm.DB
}

func NewTxManager(db *gorm.DB) TxManager {
	return TxManager{db: db}
}

// RunInTx runs fn inside a transaction. Repositories reached through the
// returned context share that transaction instead of the base connection.
func (t TxManager) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return t.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(withTx(ctx, tx))
	})
}

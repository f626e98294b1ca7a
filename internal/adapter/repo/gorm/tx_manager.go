package gormrepo

import (
	"context"

	"gorm.io/gorm"
)

// TxManager runs a unit of work inside one database transaction. Every
// repository call made through the callback's context joins it, so a round's
// event batch commits or rolls back as a whole.
type TxManager struct {
	db *gorm.DB
}

func NewTxManager(db *gorm.DB) TxManager {
	return TxManager{db: db}
}

func (t TxManager) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return t.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(contextWithTx(ctx, tx))
	})
}

package gormrepo

import (
	"context"

	"gorm.io/gorm"
)

// txCtxKey carries the open transaction handle between TxManager and the
// repositories that run inside it.
type txCtxKey struct{}

func contextWithTx(ctx context.Context, tx *gorm.DB) context.Context {
	return context.WithValue(ctx, txCtxKey{}, tx)
}

// session resolves the handle a repository call should use: the ambient
// transaction when one is open, the base connection otherwise.
func session(ctx context.Context, base *gorm.DB) *gorm.DB {
	if tx, ok := ctx.Value(txCtxKey{}).(*gorm.DB); ok && tx != nil {
		return tx
	}
	return base
}

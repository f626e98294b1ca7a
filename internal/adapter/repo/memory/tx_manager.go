package memory

import "context"

// txCtxKey marks a context as running under the store mutex so repository
// methods called inside RunInTx do not try to take it again.
type txCtxKey struct{}

func contextInTx(ctx context.Context) context.Context {
	return context.WithValue(ctx, txCtxKey{}, true)
}

func inTx(ctx context.Context) bool {
	held, _ := ctx.Value(txCtxKey{}).(bool)
	return held
}

// TxManager serializes a unit of work under the store mutex, standing in for
// a real transaction.
type TxManager struct {
	store *Store
}

func NewTxManager(store *Store) TxManager {
	return TxManager{store: store}
}

func (t TxManager) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	t.store.mu.Lock()
	defer t.store.mu.Unlock()
	return fn(contextInTx(ctx))
}

package service

import (
	"context"
	"sync"
	"time"

	dErrors "gavel/pkg/domain-errors"
)

// defaultTxTimeout bounds a policy lifecycle transaction.
const defaultTxTimeout = 5 * time.Second

// inMemoryStoreTx serializes multi-write operations with a coarse lock. The
// production boundary is the postgres RunInTx in cmd/server, which carries a
// real database transaction in the callback context.
type inMemoryStoreTx struct {
	mu      sync.Mutex
	timeout time.Duration
}

func newInMemoryStoreTx() *inMemoryStoreTx {
	return &inMemoryStoreTx{timeout: defaultTxTimeout}
}

func (t *inMemoryStoreTx) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if err := ctx.Err(); err != nil {
		return dErrors.Wrap(err, dErrors.CodeTimeout, "transaction aborted: context cancelled")
	}

	if _, hasDeadline := ctx.Deadline(); !hasDeadline {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, t.timeout)
		defer cancel()
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	// Check again after acquiring the lock.
	if err := ctx.Err(); err != nil {
		return dErrors.Wrap(err, dErrors.CodeTimeout, "transaction aborted: context cancelled")
	}

	return fn(ctx)
}

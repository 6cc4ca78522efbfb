package utils

import (
	"context"
	"time"
)

const (
	// FastQueryTimeout bounds single-row reads and writes.
	FastQueryTimeout = 5 * time.Second
	// DefaultQueryTimeout bounds list queries and transactions.
	DefaultQueryTimeout = 15 * time.Second
	// SlowQueryTimeout bounds bulk maintenance such as retention purges.
	SlowQueryTimeout = 2 * time.Minute
)

// GetQueryContext derives a timeout context for a database call.
// A nil parent is treated as context.Background().
func GetQueryContext(parentCtx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if parentCtx == nil {
		parentCtx = context.Background()
	}
	return context.WithTimeout(parentCtx, timeout)
}

func GetFastQueryContext(parentCtx context.Context) (context.Context, context.CancelFunc) {
	return GetQueryContext(parentCtx, FastQueryTimeout)
}

func GetDefaultQueryContext(parentCtx context.Context) (context.Context, context.CancelFunc) {
	return GetQueryContext(parentCtx, DefaultQueryTimeout)
}

func GetSlowQueryContext(parentCtx context.Context) (context.Context, context.CancelFunc) {
	return GetQueryContext(parentCtx, SlowQueryTimeout)
}

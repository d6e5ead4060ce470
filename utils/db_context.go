package utils

import (
	"context"
	"time"
)

// Query timeouts for the raw database/sql paths; GORM queries inherit the
// request context directly.
const (
	defaultQueryTimeout = 30 * time.Second
	fastQueryTimeout    = 10 * time.Second
)

// GetDefaultQueryContext bounds a query that may scan a larger result set.
func GetDefaultQueryContext(parent context.Context) (context.Context, context.CancelFunc) {
	return queryContext(parent, defaultQueryTimeout)
}

// GetFastQueryContext bounds a simple single-row query.
func GetFastQueryContext(parent context.Context) (context.Context, context.CancelFunc) {
	return queryContext(parent, fastQueryTimeout)
}

func queryContext(parent context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if parent == nil {
		parent = context.Background()
	}
	return context.WithTimeout(parent, timeout)
}

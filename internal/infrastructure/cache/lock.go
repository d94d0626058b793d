// Package cache holds the shared redis client and the job locks the
// scheduler uses so that concurrent instances do not run the same slot twice.
package cache

import (
	"context"
	"time"
)

// DefaultLockPrefix namespaces every lock key
const DefaultLockPrefix = "prosperar:lock:"

// Locker acquires expiring, non-reentrant locks
type Locker interface {
	// Acquire returns true when key was free and is now held for ttl
	Acquire(ctx context.Context, key string, ttl time.Duration) (bool, error)
	// Release frees key. Releasing a free key is not an error.
	Release(ctx context.Context, key string) error
	Close() error
}

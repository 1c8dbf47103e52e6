// Package ratelimit throttles sensitive endpoints with fixed-window
// counters keyed by caller identity and route class. Counter state lives
// behind CounterStore so the in-process map can be swapped for Redis in
// multi-instance deployments.
package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
)

// Class groups routes that share a quota.
type Class string

const (
	ClassAuth  Class = "auth"
	ClassEmail Class = "email"
	ClassReset Class = "reset"
)

// Quota allows Limit requests per Window. A zero or negative Limit
// disables throttling for the class.
type Quota struct {
	Limit  int
	Window time.Duration
}

// CounterStore increments the counter for a bucket and reports the new
// count. The bucket disappears once ttl has passed; implementations must
// be safe for concurrent use.
type CounterStore interface {
	Incr(ctx context.Context, bucket string, ttl time.Duration) (int64, error)
}

type Limiter struct {
	store  CounterStore
	quotas map[Class]Quota
	logger *logrus.Logger

	now func() time.Time
}

func NewLimiter(store CounterStore, quotas map[Class]Quota, logger *logrus.Logger) *Limiter {
	return &Limiter{
		store:  store,
		quotas: quotas,
		logger: logger,
		now:    time.Now,
	}
}

// Allow answers whether the current request passes. It says nothing about
// future requests. Store failures allow the request through: losing
// throttling briefly beats refusing all traffic during a counter-store
// outage.
func (l *Limiter) Allow(ctx context.Context, key string, class Class) bool {
	quota, ok := l.quotas[class]
	if !ok || quota.Limit <= 0 || quota.Window <= 0 {
		return true
	}

	// The window index in the bucket name makes the fixed window exact
	// regardless of how the store handles expiry.
	window := l.now().Unix() / int64(quota.Window.Seconds())
	bucket := fmt.Sprintf("ratelimit:%s:%s:%d", class, key, window)

	count, err := l.store.Incr(ctx, bucket, quota.Window)
	if err != nil {
		if l.logger != nil {
			l.logger.WithError(err).WithField("class", class).Warn("rate limit store unavailable, allowing request")
		}
		return true
	}
	return count <= int64(quota.Limit)
}

// Package coordination provides distributed coordination primitives using
// Redis. Multi-instance deployments take a per-source lock before a
// discovery run so no source is processed twice concurrently.
package coordination

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/jonesrussell/godiscover/internal/logger"
)

const (
	// DefaultLockTTL bounds how long a crashed instance can hold a source.
	DefaultLockTTL = 5 * time.Minute

	// lockKeyPrefix namespaces source locks in the shared Redis.
	lockKeyPrefix = "discovery:lock:"
)

// releaseScript deletes the lock only when the caller still owns it.
var releaseScript = redis.NewScript(`
	if redis.call("get", KEYS[1]) == ARGV[1] then
		return redis.call("del", KEYS[1])
	else
		return 0
	end
`)

// extendScript refreshes the TTL only when the caller still owns the lock.
var extendScript = redis.NewScript(`
	if redis.call("get", KEYS[1]) == ARGV[1] then
		return redis.call("pexpire", KEYS[1], ARGV[2])
	else
		return 0
	end
`)

// ReleaseFunc returns a source lock. Safe to call after the TTL expired;
// another instance's lock is never deleted.
type ReleaseFunc func(ctx context.Context)

// SourceLocker guards per-source mutual exclusion across service instances.
type SourceLocker interface {
	// TryLockSource attempts to take the per-source lock without blocking.
	// acquired=false with a nil error means another instance holds it.
	TryLockSource(ctx context.Context, sourceID string) (release ReleaseFunc, acquired bool, err error)
}

// RedisLocker implements SourceLocker with Redis SET NX locks. Each
// acquisition carries a unique token so a release can never delete a lock
// that expired and was re-taken elsewhere, and a held lock is renewed in
// the background so runs longer than the TTL keep their exclusivity. The
// TTL only bounds how long a crashed instance can hold a source.
type RedisLocker struct {
	client *redis.Client
	ttl    time.Duration
	logger logger.Interface
}

// NewRedisLocker creates a locker with the given lock TTL.
func NewRedisLocker(client *redis.Client, ttl time.Duration, log logger.Interface) *RedisLocker {
	if ttl <= 0 {
		ttl = DefaultLockTTL
	}
	return &RedisLocker{
		client: client,
		ttl:    ttl,
		logger: log.WithComponent("source_lock"),
	}
}

// TryLockSource attempts to acquire the lock for one source. While the
// lock is held a background goroutine extends its TTL, so the caller's
// run can outlast the TTL without another instance taking the source.
func (l *RedisLocker) TryLockSource(ctx context.Context, sourceID string) (ReleaseFunc, bool, error) {
	key := lockKeyPrefix + sourceID
	token := uuid.New().String()

	ok, err := l.client.SetNX(ctx, key, token, l.ttl).Result()
	if err != nil {
		return nil, false, fmt.Errorf("failed to acquire source lock: %w", err)
	}
	if !ok {
		return nil, false, nil
	}

	stopRenew := make(chan struct{})
	go l.renew(ctx, key, token, sourceID, stopRenew)

	var once sync.Once
	release := func(releaseCtx context.Context) {
		once.Do(func() {
			close(stopRenew)

			result, runErr := releaseScript.Run(releaseCtx, l.client, []string{key}, token).Int()
			if runErr != nil {
				l.logger.Warn("Failed to release source lock",
					"source_id", sourceID,
					"error", runErr,
				)
				return
			}
			if result == 0 {
				// The lock expired mid-run and renewal did not save it.
				l.logger.Warn("Source lock expired before release",
					"source_id", sourceID,
					"ttl", l.ttl,
				)
			}
		})
	}

	return release, true, nil
}

// renew extends the lock's TTL at half-TTL cadence until release stops it
// or the lock is lost. Both scripts check the token, so a renewal racing a
// release can never resurrect a deleted lock.
func (l *RedisLocker) renew(ctx context.Context, key, token, sourceID string, stop <-chan struct{}) {
	ticker := time.NewTicker(l.ttl / 2)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ctx.Done():
			return
		case <-ticker.C:
			extended, err := extendScript.Run(ctx, l.client, []string{key}, token, l.ttl.Milliseconds()).Int()
			if err != nil {
				l.logger.Warn("Failed to extend source lock",
					"source_id", sourceID,
					"error", err,
				)
				return
			}
			if extended == 0 {
				l.logger.Warn("Source lock lost before renewal",
					"source_id", sourceID,
					"ttl", l.ttl,
				)
				return
			}
		}
	}
}

// NoOpLocker always grants the lock. Single-instance deployments use it;
// the worker pool alone guarantees per-source exclusivity in one process.
type NoOpLocker struct{}

// TryLockSource always acquires.
func (NoOpLocker) TryLockSource(_ context.Context, _ string) (ReleaseFunc, bool, error) {
	return func(context.Context) {}, true, nil
}

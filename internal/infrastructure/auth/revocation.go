package auth

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// RevocationList records access tokens that were signed out before they expired.
// Entries are keyed by the token's jti claim and only need to outlive the token.
type RevocationList interface {
	Revoke(ctx context.Context, jti string, until time.Time) error
	IsRevoked(ctx context.Context, jti string) (bool, error)
}

const revokedKeyPrefix = "storefront:revoked:"

// RedisRevocationList shares revocations across instances
type RedisRevocationList struct {
	client redis.Cmdable
	now    func() time.Time
}

func NewRedisRevocationList(client redis.Cmdable) *RedisRevocationList {
	return &RedisRevocationList{client: client, now: time.Now}
}

func (l *RedisRevocationList) Revoke(ctx context.Context, jti string, until time.Time) error {
	if !until.After(l.now()) {
		return nil
	}
	err := l.client.SetArgs(ctx, revokedKeyPrefix+jti, until.Unix(), redis.SetArgs{ExpireAt: until}).Err()
	if err != nil {
		return fmt.Errorf("revoke token %s: %w", jti, err)
	}
	return nil
}

func (l *RedisRevocationList) IsRevoked(ctx context.Context, jti string) (bool, error) {
	n, err := l.client.Exists(ctx, revokedKeyPrefix+jti).Result()
	if err != nil {
		return false, fmt.Errorf("lookup revoked token %s: %w", jti, err)
	}
	return n > 0, nil
}

// sweepEvery bounds how many revocations accumulate between expiry sweeps
const sweepEvery = 256

// MemoryRevocationList keeps revocations in process. A restart forgets them,
// so it only suits single instance deployments and tests.
type MemoryRevocationList struct {
	mu    sync.Mutex
	until map[string]time.Time
	added int
	now   func() time.Time
}

func NewMemoryRevocationList() *MemoryRevocationList {
	return &MemoryRevocationList{until: make(map[string]time.Time), now: time.Now}
}

func (l *MemoryRevocationList) Revoke(_ context.Context, jti string, until time.Time) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	if !until.After(now) {
		return nil
	}
	l.until[jti] = until
	l.added++
	if l.added >= sweepEvery {
		l.sweep(now)
	}
	return nil
}

func (l *MemoryRevocationList) IsRevoked(_ context.Context, jti string) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	until, ok := l.until[jti]
	if !ok {
		return false, nil
	}
	if !until.After(l.now()) {
		delete(l.until, jti)
		return false, nil
	}
	return true, nil
}

// Len reports the number of tracked revocations, expired ones included
func (l *MemoryRevocationList) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.until)
}

func (l *MemoryRevocationList) sweep(now time.Time) {
	for jti, until := range l.until {
		if !until.After(now) {
			delete(l.until, jti)
		}
	}
	l.added = 0
}

var (
	_ RevocationList = (*RedisRevocationList)(nil)
	_ RevocationList = (*MemoryRevocationList)(nil)
)

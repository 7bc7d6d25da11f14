package persistence

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// Lease is a best-effort Redis lock keeping the background loops single-homed
// when more than one service instance runs. Losing the lease mid-iteration is
// tolerated: the scheduling precondition and sent-then-delete sequencing bound
// the damage to a duplicate email at worst.
type Lease struct {
	client *redis.Client
	key    string
	owner  string
	ttl    time.Duration
}

// NewLease builds a lease on the given key.
func NewLease(client *redis.Client, key, owner string, ttl time.Duration) *Lease {
	return &Lease{client: client, key: key, owner: owner, ttl: ttl}
}

// Acquire attempts to take the lease. A nil client (Redis not configured)
// always acquires, preserving the single-process deployment mode.
func (l *Lease) Acquire(ctx context.Context) (bool, error) {
	if l == nil || l.client == nil {
		return true, nil
	}
	return l.client.SetNX(ctx, l.key, l.owner, l.ttl).Result()
}

// Renew extends the lease when still held by this owner.
func (l *Lease) Renew(ctx context.Context) (bool, error) {
	if l == nil || l.client == nil {
		return true, nil
	}
	current, err := l.client.Get(ctx, l.key).Result()
	if err == redis.Nil {
		return l.Acquire(ctx)
	}
	if err != nil {
		return false, err
	}
	if current != l.owner {
		return false, nil
	}
	return true, l.client.Expire(ctx, l.key, l.ttl).Err()
}

// Release drops the lease if this owner still holds it.
func (l *Lease) Release(ctx context.Context) error {
	if l == nil || l.client == nil {
		return nil
	}
	current, err := l.client.Get(ctx, l.key).Result()
	if err == redis.Nil {
		return nil
	}
	if err != nil {
		return err
	}
	if current != l.owner {
		return nil
	}
	return l.client.Del(ctx, l.key).Err()
}

package auth

import (
	"context"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// TokenBlacklist rejects JWTs before they expire: single tokens on logout
// and refresh, every session of a user on password change.
type TokenBlacklist interface {
	// Revoke rejects the token with this JTI for ttl, normally its remaining lifetime
	Revoke(ctx context.Context, jti string, ttl time.Duration) error
	// RevokeUser rejects every token of userID issued up to now. ttl must
	// cover the longest token lifetime.
	RevokeUser(ctx context.Context, userID string, ttl time.Duration) error
	// IsRevoked reports whether a token was revoked by JTI, or issued at or
	// before a revocation of its user
	IsRevoked(ctx context.Context, jti, userID string, issuedAt time.Time) (bool, error)
}

// revokedBefore compares at second precision, the resolution of the iat claim
func revokedBefore(issuedAt time.Time, revokedAtUnix int64) bool {
	return issuedAt.Unix() <= revokedAtUnix
}

// RedisTokenBlacklist shares revocations across instances
type RedisTokenBlacklist struct {
	client *redis.Client
	prefix string
}

// NewRedisTokenBlacklist creates a token blacklist on the shared Redis client
func NewRedisTokenBlacklist(client *redis.Client) *RedisTokenBlacklist {
	return &RedisTokenBlacklist{client: client, prefix: "rwbiz:auth:revoked:"}
}

func (b *RedisTokenBlacklist) jtiKey(jti string) string     { return b.prefix + "jti:" + jti }
func (b *RedisTokenBlacklist) userKey(userID string) string { return b.prefix + "user:" + userID }

// Revoke stores the JTI until the token would have expired anyway
func (b *RedisTokenBlacklist) Revoke(ctx context.Context, jti string, ttl time.Duration) error {
	if jti == "" || ttl <= 0 {
		return nil
	}
	if err := b.client.Set(ctx, b.jtiKey(jti), 1, ttl).Err(); err != nil {
		return fmt.Errorf("revoke token: %w", err)
	}
	return nil
}

// RevokeUser stores the revocation time of the user's sessions
func (b *RedisTokenBlacklist) RevokeUser(ctx context.Context, userID string, ttl time.Duration) error {
	if err := b.client.Set(ctx, b.userKey(userID), time.Now().Unix(), ttl).Err(); err != nil {
		return fmt.Errorf("revoke user sessions: %w", err)
	}
	return nil
}

// IsRevoked reads both keys in one round trip
func (b *RedisTokenBlacklist) IsRevoked(ctx context.Context, jti, userID string, issuedAt time.Time) (bool, error) {
	vals, err := b.client.MGet(ctx, b.jtiKey(jti), b.userKey(userID)).Result()
	if err != nil {
		return false, fmt.Errorf("check token revocation: %w", err)
	}
	if jti != "" && vals[0] != nil {
		return true, nil
	}
	raw, ok := vals[1].(string)
	if !ok {
		return false, nil
	}
	revokedAt, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return false, fmt.Errorf("parse user revocation time %q: %w", raw, err)
	}
	return revokedBefore(issuedAt, revokedAt), nil
}

var _ TokenBlacklist = (*RedisTokenBlacklist)(nil)

// InMemoryTokenBlacklist is used when Redis is disabled. Revocations are
// local to the process, so it only suits single-instance deployments.
type InMemoryTokenBlacklist struct {
	mu    sync.Mutex
	now   func() time.Time
	jtis  map[string]time.Time // jti -> entry expiry
	users map[string]userRevocation
	// writes counts Revoke calls since the last sweep of expired entries
	writes int
}

type userRevocation struct {
	at      int64
	expires time.Time
}

const sweepEvery = 256

// NewInMemoryTokenBlacklist creates an empty in-process blacklist
func NewInMemoryTokenBlacklist() *InMemoryTokenBlacklist {
	return &InMemoryTokenBlacklist{
		now:   time.Now,
		jtis:  make(map[string]time.Time),
		users: make(map[string]userRevocation),
	}
}

// Revoke records the JTI until ttl passes
func (b *InMemoryTokenBlacklist) Revoke(_ context.Context, jti string, ttl time.Duration) error {
	if jti == "" || ttl <= 0 {
		return nil
	}
	b.mu.Lock()
	defer b.mu.Unlock()

	now := b.now()
	b.jtis[jti] = now.Add(ttl)
	if b.writes++; b.writes >= sweepEvery {
		b.sweep(now)
	}
	return nil
}

// RevokeUser records the revocation time of the user's sessions
func (b *InMemoryTokenBlacklist) RevokeUser(_ context.Context, userID string, ttl time.Duration) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	now := b.now()
	rev := userRevocation{at: now.Unix()}
	if ttl > 0 {
		rev.expires = now.Add(ttl)
	}
	b.users[userID] = rev
	return nil
}

// IsRevoked checks the JTI and then the user-wide revocation
func (b *InMemoryTokenBlacklist) IsRevoked(_ context.Context, jti, userID string, issuedAt time.Time) (bool, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	now := b.now()
	if exp, ok := b.jtis[jti]; ok {
		if now.Before(exp) {
			return true, nil
		}
		delete(b.jtis, jti)
	}
	rev, ok := b.users[userID]
	if !ok {
		return false, nil
	}
	if !rev.expires.IsZero() && !now.Before(rev.expires) {
		delete(b.users, userID)
		return false, nil
	}
	return revokedBefore(issuedAt, rev.at), nil
}

// Len returns the number of live JTI entries
func (b *InMemoryTokenBlacklist) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.sweep(b.now())
	return len(b.jtis)
}

func (b *InMemoryTokenBlacklist) sweep(now time.Time) {
	for jti, exp := range b.jtis {
		if !now.Before(exp) {
			delete(b.jtis, jti)
		}
	}
	b.writes = 0
}

var _ TokenBlacklist = (*InMemoryTokenBlacklist)(nil)

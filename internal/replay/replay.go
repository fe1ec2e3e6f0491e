// Package replay remembers signed-request token ids for as long as the
// token could still be accepted, so a captured request cannot be sent twice.
package replay

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/MKhiriev/go-claim-vault/internal/clock"
	"github.com/MKhiriev/go-claim-vault/internal/config"
	"github.com/MKhiriev/go-claim-vault/internal/logger"
	"github.com/puzpuzpuz/xsync/v4"
	"github.com/redis/go-redis/v9"
)

var ErrReplayed = errors.New("request token was already used")

// Guard records token ids. Remember returns ErrReplayed when id was
// remembered before and has not expired yet.
type Guard interface {
	Remember(ctx context.Context, id string, ttl time.Duration) error
}

const keyPrefix = "vault:jti:"

type setNXClient interface {
	SetNX(ctx context.Context, key string, value any, expiration time.Duration) *redis.BoolCmd
}

// RedisGuard shares seen ids between server replicas.
type RedisGuard struct {
	client setNXClient
}

func NewRedisGuard(client *redis.Client) *RedisGuard {
	return &RedisGuard{client: client}
}

func (g *RedisGuard) Remember(ctx context.Context, id string, ttl time.Duration) error {
	ok, err := g.client.SetNX(ctx, keyPrefix+id, 1, ttl).Result()
	if err != nil {
		return fmt.Errorf("remembering token id: %w", err)
	}
	if !ok {
		return ErrReplayed
	}
	return nil
}

// MemoryGuard keeps seen ids in process. Expired entries are replaced on
// reuse and dropped by Sweep.
type MemoryGuard struct {
	seen  *xsync.Map[string, time.Time]
	clock clock.Clock
}

func NewMemoryGuard(clk clock.Clock) *MemoryGuard {
	return &MemoryGuard{seen: xsync.NewMap[string, time.Time](), clock: clk}
}

func (g *MemoryGuard) Remember(_ context.Context, id string, ttl time.Duration) error {
	now := g.clock.Now()
	replayed := false
	g.seen.Compute(id, func(expires time.Time, loaded bool) (time.Time, xsync.ComputeOp) {
		if loaded && now.Before(expires) {
			replayed = true
			return expires, xsync.CancelOp
		}
		return now.Add(ttl), xsync.UpdateOp
	})
	if replayed {
		return ErrReplayed
	}
	return nil
}

// Sweep removes expired ids and reports how many were dropped.
func (g *MemoryGuard) Sweep() int {
	now := g.clock.Now()
	dropped := 0
	g.seen.Range(func(id string, expires time.Time) bool {
		if !now.Before(expires) {
			g.seen.Delete(id)
			dropped++
		}
		return true
	})
	return dropped
}

// NewGuard picks Redis when an address is configured.
func NewGuard(ctx context.Context, cfg config.Events, clk clock.Clock, log *logger.Logger) (Guard, error) {
	if cfg.RedisAddress == "" {
		return NewMemoryGuard(clk), nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddress,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("connecting to redis at %s: %w", cfg.RedisAddress, err)
	}
	log.Info().Str("addr", cfg.RedisAddress).Msg("replay guard uses redis")
	return NewRedisGuard(client), nil
}

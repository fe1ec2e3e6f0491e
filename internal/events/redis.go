package events

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/MKhiriev/go-claim-vault/internal/config"
	"github.com/MKhiriev/go-claim-vault/internal/logger"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

var ErrPublishingEvent = errors.New("error publishing event")

type streamClient interface {
	XAdd(ctx context.Context, a *redis.XAddArgs) *redis.StringCmd
	Close() error
}

// RedisPublisher appends events to a Redis stream capped at roughly maxLen entries.
type RedisPublisher struct {
	client streamClient
	stream string
	maxLen int64

	logger *logger.Logger
}

func newRedisPublisher(client streamClient, stream string, maxLen int64, log *logger.Logger) *RedisPublisher {
	return &RedisPublisher{client: client, stream: stream, maxLen: maxLen, logger: log}
}

// NewPublisher connects to Redis when an address is configured and
// otherwise returns Nop.
func NewPublisher(ctx context.Context, cfg config.Events, log *logger.Logger) (Publisher, error) {
	if cfg.RedisAddress == "" {
		log.Info().Msg("no redis address configured, events are dropped")
		return Nop{}, nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:         cfg.RedisAddress,
		Password:     cfg.RedisPassword,
		DB:           cfg.RedisDB,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("connecting to redis at %s: %w", cfg.RedisAddress, err)
	}

	log.Info().Str("addr", cfg.RedisAddress).Str("stream", cfg.Stream).Msg("publishing events to redis stream")
	return newRedisPublisher(client, cfg.Stream, cfg.StreamMaxLen, log), nil
}

func (p *RedisPublisher) Publish(ctx context.Context, event Event) error {
	if event.ID == "" {
		event.ID = uuid.NewString()
	}

	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrPublishingEvent, err)
	}

	args := &redis.XAddArgs{
		Stream: p.stream,
		Values: map[string]any{
			"id":   event.ID,
			"type": string(event.Type),
			"data": string(data),
		},
	}
	if p.maxLen > 0 {
		args.MaxLen = p.maxLen
		args.Approx = true
	}

	if err := p.client.XAdd(ctx, args).Err(); err != nil {
		p.logger.Warn().Err(err).Str("func", "RedisPublisher.Publish").
			Str("stream", p.stream).Str("type", string(event.Type)).Msg("failed to add event to stream")
		return fmt.Errorf("%w: %w", ErrPublishingEvent, err)
	}
	return nil
}

func (p *RedisPublisher) Close() error {
	return p.client.Close()
}

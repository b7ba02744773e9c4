package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/jwalitptl/greenwell/internal/model"
	"github.com/jwalitptl/greenwell/internal/repository"
	"github.com/jwalitptl/greenwell/pkg/circuitbreaker"
)

const keyPrefix = "greenwell:session:"

type Config struct {
	URL          string
	MaxRetries   int
	RetryBackoff time.Duration
	PoolSize     int
	MinIdleConns int
	TTL          time.Duration
}

// SessionRepository stores JSON-encoded sessions in Redis so several
// instances can share visitor state.
type SessionRepository struct {
	client *redis.Client
	cb     *circuitbreaker.CircuitBreaker
	ttl    time.Duration
}

var _ repository.SessionRepository = (*SessionRepository)(nil)

func NewSessionRepository(ctx context.Context, config Config) (*SessionRepository, error) {
	opts, err := redis.ParseURL(config.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
	}

	opts.MaxRetries = config.MaxRetries
	opts.MinRetryBackoff = config.RetryBackoff
	if config.PoolSize > 0 {
		opts.PoolSize = config.PoolSize
	}
	opts.MinIdleConns = config.MinIdleConns

	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return newWithClient(client, config.TTL), nil
}

func newWithClient(client *redis.Client, ttl time.Duration) *SessionRepository {
	return &SessionRepository{
		client: client,
		cb: circuitbreaker.NewCircuitBreaker(circuitbreaker.Settings{
			Name:        "redis-sessions",
			MaxFailures: 5,
			Timeout:     5 * time.Second,
		}),
		ttl: ttl,
	}
}

func (r *SessionRepository) Get(ctx context.Context, id string) (*model.Session, error) {
	var payload []byte
	err := r.cb.Execute(func() error {
		b, err := r.client.Get(ctx, key(id)).Bytes()
		if errors.Is(err, redis.Nil) {
			// a miss is not a store failure
			return nil
		}
		payload = b
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to load session: %w", err)
	}
	if payload == nil {
		return nil, fmt.Errorf("session %q: %w", id, repository.ErrNotFound)
	}
	return decode(payload)
}

func (r *SessionRepository) Save(ctx context.Context, session *model.Session) error {
	if session == nil || session.ID == "" {
		return fmt.Errorf("session id is required")
	}
	payload, err := encode(session)
	if err != nil {
		return err
	}
	return r.cb.Execute(func() error {
		return r.client.Set(ctx, key(session.ID), payload, r.ttl).Err()
	})
}

func (r *SessionRepository) Delete(ctx context.Context, id string) error {
	return r.cb.Execute(func() error {
		return r.client.Del(ctx, key(id)).Err()
	})
}

func (r *SessionRepository) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

func (r *SessionRepository) Close() error {
	return r.client.Close()
}

func key(id string) string {
	return keyPrefix + id
}

func encode(session *model.Session) ([]byte, error) {
	b, err := json.Marshal(session)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal session: %w", err)
	}
	return b, nil
}

func decode(payload []byte) (*model.Session, error) {
	var s model.Session
	if err := json.Unmarshal(payload, &s); err != nil {
		return nil, fmt.Errorf("failed to unmarshal session: %w", err)
	}
	return &s, nil
}

package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/aretw0/routinely/pkg/domain"
	backend "github.com/redis/go-redis/v9"
)

// Store implements ports.SessionStore on Redis. The single active session
// lives under one key so multiple processes (a server and a CLI, say) can
// observe the same in-flight routine.
type Store struct {
	client *backend.Client
	prefix string
	ttl    time.Duration
}

// Option configures a Store or History.
type Option func(*config)

type config struct {
	prefix string
	ttl    time.Duration
}

// WithPrefix sets the key prefix. Defaults to "routinely:".
func WithPrefix(prefix string) Option {
	return func(c *config) { c.prefix = prefix }
}

// WithTTL sets an expiration on the session key. Zero means no expiration.
// A TTL longer than the longest expected routine acts as a safety net
// against orphaned sessions.
func WithTTL(ttl time.Duration) Option {
	return func(c *config) { c.ttl = ttl }
}

func applyOptions(opts []Option) config {
	c := config{prefix: "routinely:"}
	for _, opt := range opts {
		opt(&c)
	}
	return c
}

// New creates a Redis session store with its own client.
func New(address, password string, db int, opts ...Option) *Store {
	client := backend.NewClient(&backend.Options{
		Addr:     address,
		Password: password,
		DB:       db,
	})
	return NewFromClient(client, opts...)
}

// NewFromClient creates a Redis session store from an existing client.
func NewFromClient(client *backend.Client, opts ...Option) *Store {
	c := applyOptions(opts)
	return &Store{client: client, prefix: c.prefix, ttl: c.ttl}
}

func (s *Store) key() string {
	return s.prefix + "session"
}

// Save persists the session as JSON.
func (s *Store) Save(ctx context.Context, session *domain.Session) error {
	data, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}
	if err := s.client.Set(ctx, s.key(), data, s.ttl).Err(); err != nil {
		return fmt.Errorf("failed to save session to redis: %w", err)
	}
	return nil
}

// Load retrieves the persisted session.
func (s *Store) Load(ctx context.Context) (*domain.Session, error) {
	val, err := s.client.Get(ctx, s.key()).Result()
	if err != nil {
		if errors.Is(err, backend.Nil) {
			return nil, domain.ErrSessionNotFound
		}
		return nil, fmt.Errorf("failed to get session from redis: %w", err)
	}

	var session domain.Session
	if err := json.Unmarshal([]byte(val), &session); err != nil {
		return nil, fmt.Errorf("failed to unmarshal session: %w", err)
	}
	return &session, nil
}

// Clear removes the persisted session.
func (s *Store) Clear(ctx context.Context) error {
	if err := s.client.Del(ctx, s.key()).Err(); err != nil {
		return fmt.Errorf("failed to clear session in redis: %w", err)
	}
	return nil
}

// Client exposes the underlying client so sibling adapters (the history
// store, say) can share one connection pool.
func (s *Store) Client() *backend.Client {
	return s.client
}

// Close closes the underlying client.
func (s *Store) Close() error {
	return s.client.Close()
}

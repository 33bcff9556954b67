package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"stagedoor/pkg/cache"
)

// ErrNotFound is returned when a session key has no value.
var ErrNotFound = errors.New("session key not found")

// Well-known session keys. Reservation ids are stored per show so a
// customer can hold concurrent reservations for different shows.
const (
	KeyPaymentIntent      = "payment_intent_id"
	KeyReservationTimeout = "reservation_timeout"
)

// ShowKey returns the session key holding the reservation id for a show.
func ShowKey(showID string) string {
	return "show_" + showID
}

// Store is the per-browser key-value capability injected into the core.
// Core operations read and write browser state through this interface,
// never through a hidden global.
type Store interface {
	Get(ctx context.Context, sessionID, key string) (string, error)
	Set(ctx context.Context, sessionID, key, value string) error
	Delete(ctx context.Context, sessionID string, keys ...string) error
}

type redisStore struct {
	cache cache.Service
	ttl   time.Duration
}

// NewRedisStore creates a session store backed by a Redis hash per session.
func NewRedisStore(cacheService cache.Service, ttl time.Duration) Store {
	return &redisStore{cache: cacheService, ttl: ttl}
}

func sessionKey(sessionID string) string {
	return "session:" + sessionID
}

func (s *redisStore) Get(ctx context.Context, sessionID, key string) (string, error) {
	val, err := s.cache.HGet(ctx, sessionKey(sessionID), key)
	if err != nil {
		if errors.Is(err, cache.ErrCacheMiss) {
			return "", ErrNotFound
		}
		return "", fmt.Errorf("session get failed: %w", err)
	}
	return val, nil
}

func (s *redisStore) Set(ctx context.Context, sessionID, key, value string) error {
	if err := s.cache.HSet(ctx, sessionKey(sessionID), key, value, s.ttl); err != nil {
		return fmt.Errorf("session set failed: %w", err)
	}
	return nil
}

func (s *redisStore) Delete(ctx context.Context, sessionID string, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	if err := s.cache.HDel(ctx, sessionKey(sessionID), keys...); err != nil {
		return fmt.Errorf("session delete failed: %w", err)
	}
	return nil
}

// Session binds a Store to one browser's session id.
type Session struct {
	ID    string
	store Store
}

// New returns a Session scoped to the given session id.
func New(store Store, id string) *Session {
	return &Session{ID: id, store: store}
}

func (s *Session) Get(ctx context.Context, key string) (string, error) {
	return s.store.Get(ctx, s.ID, key)
}

func (s *Session) Set(ctx context.Context, key, value string) error {
	return s.store.Set(ctx, s.ID, key, value)
}

func (s *Session) Delete(ctx context.Context, keys ...string) error {
	return s.store.Delete(ctx, s.ID, keys...)
}

// Package store provides a run-result cache backed by Redis, adapted from
// the original optimization cache service. Per spec §6 ("persistence is an
// adjunct, not a requirement"), absence of a reachable Redis instance must
// never surface as a user-facing failure, so an in-memory fallback takes
// over transparently when Redis is unavailable or unconfigured.
package store

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/paddockml/racesim/internal/domain"
)

// Store persists simulation runs keyed by run ID.
type Store interface {
	SetRun(ctx context.Context, run domain.SimulationRun, ttl time.Duration) error
	GetRun(ctx context.Context, runID string) (*domain.SimulationRun, error)
	DeleteRun(ctx context.Context, runID string) error
}

// RedisStore caches runs in Redis, falling back to an in-memory map on any
// connectivity failure so callers never see a broken persistence layer.
type RedisStore struct {
	client   *redis.Client
	logger   *logrus.Logger
	fallback *memoryStore
}

// NewRedisStore parses redisURL (an empty URL selects memory-only mode
// outright) and builds a RedisStore wrapping it.
func NewRedisStore(redisURL string, logger *logrus.Logger) *RedisStore {
	rs := &RedisStore{logger: logger, fallback: newMemoryStore()}

	if redisURL == "" {
		return rs
	}

	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		logger.WithError(err).Warn("invalid redis url, using in-memory run store")
		return rs
	}

	rs.client = redis.NewClient(opts)
	return rs
}

func runKey(runID string) string {
	return fmt.Sprintf("racesim:run:%s", runID)
}

func (s *RedisStore) SetRun(ctx context.Context, run domain.SimulationRun, ttl time.Duration) error {
	if s.client == nil {
		return s.fallback.set(run, ttl)
	}

	data, err := json.Marshal(run)
	if err != nil {
		return fmt.Errorf("failed to marshal run: %w", err)
	}

	if err := s.client.Set(ctx, runKey(run.ID), data, ttl).Err(); err != nil {
		s.logger.WithError(err).Warn("redis set failed, falling back to in-memory run store")
		return s.fallback.set(run, ttl)
	}
	return nil
}

func (s *RedisStore) GetRun(ctx context.Context, runID string) (*domain.SimulationRun, error) {
	if s.client == nil {
		return s.fallback.get(runID)
	}

	data, err := s.client.Get(ctx, runKey(runID)).Result()
	if err != nil {
		if err == redis.Nil {
			return s.fallback.get(runID)
		}
		s.logger.WithError(err).Warn("redis get failed, falling back to in-memory run store")
		return s.fallback.get(runID)
	}

	var run domain.SimulationRun
	if err := json.Unmarshal([]byte(data), &run); err != nil {
		return nil, fmt.Errorf("failed to unmarshal run: %w", err)
	}
	return &run, nil
}

func (s *RedisStore) DeleteRun(ctx context.Context, runID string) error {
	s.fallback.delete(runID)
	if s.client == nil {
		return nil
	}
	if err := s.client.Del(ctx, runKey(runID)).Err(); err != nil {
		s.logger.WithError(err).Warn("redis delete failed")
	}
	return nil
}

type memoryEntry struct {
	run     domain.SimulationRun
	expires time.Time
}

// memoryStore is the fallback used when Redis is unreachable or
// unconfigured; entries still honor ttl via lazy expiry on read.
type memoryStore struct {
	mu      sync.Mutex
	entries map[string]memoryEntry
}

func newMemoryStore() *memoryStore {
	return &memoryStore{entries: make(map[string]memoryEntry)}
}

func (m *memoryStore) set(run domain.SimulationRun, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	expires := time.Time{}
	if ttl > 0 {
		expires = time.Now().Add(ttl)
	}
	m.entries[run.ID] = memoryEntry{run: run, expires: expires}
	return nil
}

func (m *memoryStore) get(runID string) (*domain.SimulationRun, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.entries[runID]
	if !ok {
		return nil, fmt.Errorf("run %s not found", runID)
	}
	if !e.expires.IsZero() && time.Now().After(e.expires) {
		delete(m.entries, runID)
		return nil, fmt.Errorf("run %s not found", runID)
	}
	cp := e.run
	return &cp, nil
}

func (m *memoryStore) delete(runID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.entries, runID)
}

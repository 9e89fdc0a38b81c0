package cache

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/hrms/backend/internal/application/dashboard"
	"github.com/redis/go-redis/v9"
)

const dashboardVersionPrefix = "dashboard:version:"

// RedisVersionStore keeps dashboard versions as Redis counters
type RedisVersionStore struct {
	client redis.Cmdable
}

// NewRedisVersionStore creates a new RedisVersionStore
func NewRedisVersionStore(client redis.Cmdable) *RedisVersionStore {
	return &RedisVersionStore{client: client}
}

// Bump increments the user's version
func (s *RedisVersionStore) Bump(ctx context.Context, userID uuid.UUID) (int64, error) {
	v, err := s.client.Incr(ctx, dashboardVersionPrefix+userID.String()).Result()
	if err != nil {
		return 0, fmt.Errorf("failed to bump dashboard version: %w", err)
	}
	return v, nil
}

// Get returns the user's version, zero when the key does not exist
func (s *RedisVersionStore) Get(ctx context.Context, userID uuid.UUID) (int64, error) {
	v, err := s.client.Get(ctx, dashboardVersionPrefix+userID.String()).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("failed to read dashboard version: %w", err)
	}
	return v, nil
}

// InMemoryVersionStore keeps dashboard versions in process memory
type InMemoryVersionStore struct {
	mu       sync.Mutex
	versions map[uuid.UUID]int64
}

// NewInMemoryVersionStore creates a new InMemoryVersionStore
func NewInMemoryVersionStore() *InMemoryVersionStore {
	return &InMemoryVersionStore{versions: make(map[uuid.UUID]int64)}
}

// Bump increments the user's version
func (s *InMemoryVersionStore) Bump(_ context.Context, userID uuid.UUID) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.versions[userID]++
	return s.versions[userID], nil
}

// Get returns the user's version
func (s *InMemoryVersionStore) Get(_ context.Context, userID uuid.UUID) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.versions[userID], nil
}

var (
	_ dashboard.VersionStore = (*RedisVersionStore)(nil)
	_ dashboard.VersionStore = (*InMemoryVersionStore)(nil)
)

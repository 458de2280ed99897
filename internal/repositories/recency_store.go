package repositories

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// RecencyStore keeps a bounded most-recent-first list of viewed product
// ids per visitor. Recording an id already in the list moves it to the
// front; the list is capped at maxRecentlyViewed entries.
type RecencyStore interface {
	Record(ctx context.Context, visitorKey, productID string) error
	List(ctx context.Context, visitorKey string) ([]string, error)
}

const (
	recencyKeyPrefix  = "recently_viewed:"
	maxRecentlyViewed = 10
	recencyTTL        = 30 * 24 * time.Hour
)

// pushRecent is the shared dedup-and-cap logic for both implementations.
func pushRecent(ids []string, productID string) []string {
	filtered := make([]string, 0, len(ids)+1)
	filtered = append(filtered, productID)
	for _, id := range ids {
		if id != productID {
			filtered = append(filtered, id)
		}
	}
	if len(filtered) > maxRecentlyViewed {
		filtered = filtered[:maxRecentlyViewed]
	}
	return filtered
}

// RedisRecencyStore stores the list as a JSON array under a fixed key
// prefix, mirroring the cart snapshot layout.
type RedisRecencyStore struct {
	client *redis.Client
}

// NewRedisRecencyStore creates a new instance of RedisRecencyStore.
func NewRedisRecencyStore(client *redis.Client) *RedisRecencyStore {
	return &RedisRecencyStore{
		client: client,
	}
}

func (s *RedisRecencyStore) load(ctx context.Context, visitorKey string) ([]string, error) {
	data, err := s.client.Get(ctx, recencyKeyPrefix+visitorKey).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to load recently viewed for %s: %w", visitorKey, err)
	}
	var ids []string
	if err := json.Unmarshal(data, &ids); err != nil {
		log.Printf("Corrupted recently-viewed payload for %s, resetting: %v", visitorKey, err)
		return nil, nil
	}
	return ids, nil
}

// Record prepends a product id to the visitor's recency list.
func (s *RedisRecencyStore) Record(ctx context.Context, visitorKey, productID string) error {
	ids, err := s.load(ctx, visitorKey)
	if err != nil {
		return err
	}
	data, err := json.Marshal(pushRecent(ids, productID))
	if err != nil {
		return fmt.Errorf("failed to marshal recently viewed for %s: %w", visitorKey, err)
	}
	if err := s.client.Set(ctx, recencyKeyPrefix+visitorKey, data, recencyTTL).Err(); err != nil {
		return fmt.Errorf("failed to save recently viewed for %s: %w", visitorKey, err)
	}
	return nil
}

// List returns the visitor's recency list, most recent first.
func (s *RedisRecencyStore) List(ctx context.Context, visitorKey string) ([]string, error) {
	return s.load(ctx, visitorKey)
}

// MemoryRecencyStore is the in-memory RecencyStore for tests and
// Redis-less runs.
type MemoryRecencyStore struct {
	lists map[string][]string
	mu    sync.RWMutex
}

// NewMemoryRecencyStore creates a new instance of MemoryRecencyStore.
func NewMemoryRecencyStore() *MemoryRecencyStore {
	return &MemoryRecencyStore{
		lists: make(map[string][]string),
	}
}

// Record prepends a product id to the visitor's recency list.
func (s *MemoryRecencyStore) Record(_ context.Context, visitorKey, productID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lists[visitorKey] = pushRecent(s.lists[visitorKey], productID)
	return nil
}

// List returns the visitor's recency list, most recent first.
func (s *MemoryRecencyStore) List(_ context.Context, visitorKey string) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ids := s.lists[visitorKey]
	out := make([]string, len(ids))
	copy(out, ids)
	return out, nil
}

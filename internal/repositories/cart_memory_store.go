package repositories

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"sync"

	"swagstore/internal/models"
)

// MemoryCartStore is an in-memory CartStore used in tests and when no
// Redis is configured. It stores serialized snapshots, so persistence
// round-trips exercise the same marshal/unmarshal path as the Redis store.
type MemoryCartStore struct {
	snapshots map[string][]byte
	mu        sync.RWMutex
}

// NewMemoryCartStore creates a new instance of MemoryCartStore.
func NewMemoryCartStore() *MemoryCartStore {
	return &MemoryCartStore{
		snapshots: make(map[string][]byte),
	}
}

// Get loads the cart for a visitor, treating absence and corruption as an
// empty cart.
func (s *MemoryCartStore) Get(ctx context.Context, visitorKey string) (*models.Cart, error) {
	s.mu.RLock()
	data, ok := s.snapshots[visitorKey]
	s.mu.RUnlock()

	if !ok {
		return &models.Cart{Lines: []models.CartLine{}}, nil
	}

	var cart models.Cart
	if err := json.Unmarshal(data, &cart); err != nil {
		log.Printf("Corrupted cart payload for %s, resetting: %v", visitorKey, err)
		empty := &models.Cart{Lines: []models.CartLine{}}
		if saveErr := s.Save(ctx, visitorKey, empty); saveErr != nil {
			log.Printf("Failed to reset corrupted cart for %s: %v", visitorKey, saveErr)
		}
		return empty, nil
	}
	if cart.Lines == nil {
		cart.Lines = []models.CartLine{}
	}
	return &cart, nil
}

// Save writes the full cart snapshot.
func (s *MemoryCartStore) Save(_ context.Context, visitorKey string, cart *models.Cart) error {
	data, err := json.Marshal(cart)
	if err != nil {
		return fmt.Errorf("failed to marshal cart for %s: %w", visitorKey, err)
	}
	s.mu.Lock()
	s.snapshots[visitorKey] = data
	s.mu.Unlock()
	return nil
}

// Delete removes the visitor's cart.
func (s *MemoryCartStore) Delete(_ context.Context, visitorKey string) error {
	s.mu.Lock()
	delete(s.snapshots, visitorKey)
	s.mu.Unlock()
	return nil
}

// Corrupt overwrites a visitor's stored snapshot with arbitrary bytes.
// Test hook for the malformed-storage path.
func (s *MemoryCartStore) Corrupt(visitorKey string, data []byte) {
	s.mu.Lock()
	s.snapshots[visitorKey] = data
	s.mu.Unlock()
}

package repositories

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"swagstore/internal/models"

	"github.com/redis/go-redis/v9"
)

const cartKeyPrefix = "cart:"

// Carts are working state, not records: expire them after 30 days of
// inactivity rather than keeping abandoned carts forever.
const cartTTL = 30 * 24 * time.Hour

// RedisCartStore stores each cart as a JSON snapshot under cart:<visitorKey>.
type RedisCartStore struct {
	client *redis.Client
}

// NewRedisCartStore creates a new instance of RedisCartStore.
func NewRedisCartStore(client *redis.Client) *RedisCartStore {
	return &RedisCartStore{
		client: client,
	}
}

// Get loads the cart for a visitor. A missing key or a corrupted payload
// yields an empty cart; corruption is logged and the stored value reset.
func (s *RedisCartStore) Get(ctx context.Context, visitorKey string) (*models.Cart, error) {
	data, err := s.client.Get(ctx, cartKeyPrefix+visitorKey).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return &models.Cart{Lines: []models.CartLine{}}, nil
		}
		return nil, fmt.Errorf("failed to load cart for %s: %w", visitorKey, err)
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
func (s *RedisCartStore) Save(ctx context.Context, visitorKey string, cart *models.Cart) error {
	data, err := json.Marshal(cart)
	if err != nil {
		return fmt.Errorf("failed to marshal cart for %s: %w", visitorKey, err)
	}
	if err := s.client.Set(ctx, cartKeyPrefix+visitorKey, data, cartTTL).Err(); err != nil {
		return fmt.Errorf("failed to save cart for %s: %w", visitorKey, err)
	}
	return nil
}

// Delete removes the visitor's cart. Deleting an absent cart is a no-op.
func (s *RedisCartStore) Delete(ctx context.Context, visitorKey string) error {
	if err := s.client.Del(ctx, cartKeyPrefix+visitorKey).Err(); err != nil {
		return fmt.Errorf("failed to delete cart for %s: %w", visitorKey, err)
	}
	return nil
}

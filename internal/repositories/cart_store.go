package repositories

import (
	"context"

	"swagstore/internal/models"
)

// CartStore persists cart snapshots keyed by visitor. A missing cart is
// not an error: Get returns an empty cart so callers never branch on
// absence. Malformed persisted data is also treated as an empty cart;
// implementations log and reset rather than fail.
type CartStore interface {
	Get(ctx context.Context, visitorKey string) (*models.Cart, error)
	Save(ctx context.Context, visitorKey string, cart *models.Cart) error
	Delete(ctx context.Context, visitorKey string) error
}

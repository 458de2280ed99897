package services

import (
	"context"
	"errors"
	"fmt"

	"swagstore/internal/models"
	"swagstore/internal/repositories"
)

// ErrInvalidQuantity is returned when adding a line with a non-positive
// quantity.
var ErrInvalidQuantity = errors.New("quantity must be a positive integer")

// CartService maintains each visitor's working set of intended purchases.
// Line identity is the (productID, size) pair. Every mutation persists the
// full snapshot synchronously before returning, and the cart total is
// recomputed from the lines on every mutation, never carried forward.
// Stock is informational only and never checked here; the order service
// enforces it at checkout.
type CartService struct {
	store repositories.CartStore
}

// NewCartService creates a new CartService.
func NewCartService(store repositories.CartStore) *CartService {
	return &CartService{
		store: store,
	}
}

// Get loads a visitor's cart. Missing or corrupted state yields an empty
// cart, never an error visible to the visitor.
func (s *CartService) Get(ctx context.Context, visitorKey string) (*models.Cart, error) {
	return s.store.Get(ctx, visitorKey)
}

// AddLine adds quantity of a product (and optional size) to the cart.
// An existing (productID, size) line has its quantity incremented;
// otherwise a new line is appended, preserving insertion order.
func (s *CartService) AddLine(ctx context.Context, visitorKey string, product *models.Product, quantity int, size string) (*models.Cart, error) {
	if quantity < 1 {
		return nil, ErrInvalidQuantity
	}

	cart, err := s.store.Get(ctx, visitorKey)
	if err != nil {
		return nil, err
	}

	if i := cart.FindLine(product.ID, size); i >= 0 {
		cart.Lines[i].Quantity += quantity
	} else {
		cart.Lines = append(cart.Lines, models.CartLine{
			ProductID:   product.ID,
			ProductName: product.Name,
			Slug:        product.Slug,
			UnitPrice:   product.Price,
			Quantity:    quantity,
			Size:        size,
			ImageURL:    product.MainImage(),
		})
	}

	return s.persist(ctx, visitorKey, cart)
}

// SetQuantity overwrites the quantity of the matching line. A quantity of
// zero or less removes the line. Missing lines are a no-op.
func (s *CartService) SetQuantity(ctx context.Context, visitorKey, productID string, quantity int, size string) (*models.Cart, error) {
	if quantity <= 0 {
		return s.RemoveLine(ctx, visitorKey, productID, size)
	}

	cart, err := s.store.Get(ctx, visitorKey)
	if err != nil {
		return nil, err
	}

	if i := cart.FindLine(productID, size); i >= 0 {
		cart.Lines[i].Quantity = quantity
	}
	return s.persist(ctx, visitorKey, cart)
}

// RemoveLine deletes the matching line. Removing an absent line is a
// no-op, so the operation is idempotent.
func (s *CartService) RemoveLine(ctx context.Context, visitorKey, productID string, size string) (*models.Cart, error) {
	cart, err := s.store.Get(ctx, visitorKey)
	if err != nil {
		return nil, err
	}

	if i := cart.FindLine(productID, size); i >= 0 {
		cart.Lines = append(cart.Lines[:i], cart.Lines[i+1:]...)
	}
	return s.persist(ctx, visitorKey, cart)
}

// Clear empties the cart; called once an order is confirmed.
func (s *CartService) Clear(ctx context.Context, visitorKey string) (*models.Cart, error) {
	cart := &models.Cart{Lines: []models.CartLine{}}
	return s.persist(ctx, visitorKey, cart)
}

// persist recomputes the derived total and writes the snapshot before
// handing the cart back.
func (s *CartService) persist(ctx context.Context, visitorKey string, cart *models.Cart) (*models.Cart, error) {
	cart.Recompute()
	if err := s.store.Save(ctx, visitorKey, cart); err != nil {
		return nil, fmt.Errorf("failed to persist cart: %w", err)
	}
	return cart, nil
}

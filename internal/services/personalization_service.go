package services

import (
	"context"

	"swagstore/internal/models"
	"swagstore/internal/repositories"
)

// PersonalizationService tracks which products a visitor has viewed and
// resolves the recency list back to products for display.
type PersonalizationService struct {
	store       repositories.RecencyStore
	productRepo repositories.ProductRepository
}

// NewPersonalizationService creates a new PersonalizationService.
func NewPersonalizationService(store repositories.RecencyStore, productRepo repositories.ProductRepository) *PersonalizationService {
	return &PersonalizationService{
		store:       store,
		productRepo: productRepo,
	}
}

// RecordView notes that the visitor viewed a product.
func (s *PersonalizationService) RecordView(ctx context.Context, visitorKey, productID string) error {
	return s.store.Record(ctx, visitorKey, productID)
}

// RecentlyViewed returns the visitor's recently viewed products, most
// recent first. Ids that no longer resolve to a product are dropped
// silently.
func (s *PersonalizationService) RecentlyViewed(ctx context.Context, visitorKey string) ([]models.Product, error) {
	ids, err := s.store.List(ctx, visitorKey)
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return []models.Product{}, nil
	}

	products, err := s.productRepo.GetByIDs(ids)
	if err != nil {
		return nil, err
	}

	byID := make(map[string]models.Product, len(products))
	for _, p := range products {
		byID[p.ID] = p
	}

	ordered := make([]models.Product, 0, len(ids))
	for _, id := range ids {
		if p, ok := byID[id]; ok {
			ordered = append(ordered, p)
		}
	}
	return ordered, nil
}

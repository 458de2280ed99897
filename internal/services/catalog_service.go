package services

import (
	"sort"

	"swagstore/internal/models"
	"swagstore/internal/repositories"
)

// How many related products accompany a product page.
const relatedProductLimit = 4

// CatalogService handles product, collection and review reads, plus the
// product mutations used by the admin surface.
type CatalogService struct {
	productRepo    repositories.ProductRepository
	collectionRepo repositories.CollectionRepository
	reviewRepo     repositories.ReviewRepository
}

// NewCatalogService creates a new CatalogService.
func NewCatalogService(productRepo repositories.ProductRepository, collectionRepo repositories.CollectionRepository, reviewRepo repositories.ReviewRepository) *CatalogService {
	return &CatalogService{
		productRepo:    productRepo,
		collectionRepo: collectionRepo,
		reviewRepo:     reviewRepo,
	}
}

// ListProducts retrieves products matching the filter with the total count.
func (s *CatalogService) ListProducts(filter repositories.ProductFilter) ([]models.Product, int64, error) {
	return s.productRepo.List(filter)
}

// GetProduct retrieves a single product by slug.
func (s *CatalogService) GetProduct(slug string) (*models.Product, error) {
	return s.productRepo.GetBySlug(slug)
}

// GetProductByID retrieves a single product by ID.
func (s *CatalogService) GetProductByID(id string) (*models.Product, error) {
	return s.productRepo.GetByID(id)
}

// FeaturedProducts retrieves the products flagged for the home page.
func (s *CatalogService) FeaturedProducts() ([]models.Product, error) {
	featured := true
	products, _, err := s.productRepo.List(repositories.ProductFilter{Featured: &featured})
	return products, err
}

// Collections retrieves all collections in display order.
func (s *CatalogService) Collections() ([]models.Collection, error) {
	return s.collectionRepo.GetAll()
}

// GetCollection retrieves a collection by slug along with its products.
func (s *CatalogService) GetCollection(slug string) (*models.Collection, []models.Product, error) {
	collection, err := s.collectionRepo.GetBySlug(slug)
	if err != nil {
		return nil, nil, err
	}
	products, _, err := s.productRepo.List(repositories.ProductFilter{CollectionID: collection.ID})
	if err != nil {
		return nil, nil, err
	}
	return collection, products, nil
}

// ProductReviews retrieves a product's reviews (newest first) and their
// average rating. The average is 0 when there are no reviews.
func (s *CatalogService) ProductReviews(productID string) ([]models.Review, float64, error) {
	reviews, err := s.reviewRepo.GetByProduct(productID)
	if err != nil {
		return nil, 0, err
	}
	if len(reviews) == 0 {
		return reviews, 0, nil
	}
	var sum int
	for _, r := range reviews {
		sum += r.Rating
	}
	return reviews, float64(sum) / float64(len(reviews)), nil
}

// RelatedProducts ranks products related to the given one. Sharing the
// collection scores 10 and being featured scores 5; ties break on the
// catalog's listing order. The product itself is excluded and at most
// relatedProductLimit results are returned.
func (s *CatalogService) RelatedProducts(product *models.Product) ([]models.Product, error) {
	candidates, _, err := s.productRepo.List(repositories.ProductFilter{})
	if err != nil {
		return nil, err
	}

	related := make([]models.Product, 0, len(candidates))
	scores := make(map[string]int, len(candidates))
	for _, c := range candidates {
		if c.ID == product.ID {
			continue
		}
		score := 0
		if c.CollectionID != "" && c.CollectionID == product.CollectionID {
			score += 10
		}
		if c.Featured {
			score += 5
		}
		scores[c.ID] = score
		related = append(related, c)
	}

	sort.SliceStable(related, func(i, j int) bool {
		return scores[related[i].ID] > scores[related[j].ID]
	})

	if len(related) > relatedProductLimit {
		related = related[:relatedProductLimit]
	}
	return related, nil
}

// CreateProduct creates a new product.
func (s *CatalogService) CreateProduct(product *models.Product) error {
	return s.productRepo.Create(product)
}

// UpdateProduct updates an existing product.
func (s *CatalogService) UpdateProduct(product *models.Product) error {
	return s.productRepo.Update(product)
}

// DeleteProduct deletes a product by its ID.
func (s *CatalogService) DeleteProduct(id string) error {
	return s.productRepo.Delete(id)
}

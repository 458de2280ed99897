package repositories

import (
	"swagstore/internal/models"
)

// ProductFilter narrows a product listing. Zero values mean "no filter";
// PageSize == 0 disables pagination.
type ProductFilter struct {
	Featured     *bool
	CollectionID string
	Page         int
	PageSize     int
}

// ProductRepository defines the interface for product data access.
type ProductRepository interface {
	List(filter ProductFilter) ([]models.Product, int64, error)
	GetByID(id string) (*models.Product, error)
	GetBySlug(slug string) (*models.Product, error)
	GetByIDs(ids []string) ([]models.Product, error)
	Create(product *models.Product) error
	Update(product *models.Product) error
	Delete(id string) error
}

package repositories

import (
	"errors"
	"fmt"

	"swagstore/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CollectionRepository defines the interface for collection data access.
type CollectionRepository interface {
	GetAll() ([]models.Collection, error)
	GetBySlug(slug string) (*models.Collection, error)
	Create(collection *models.Collection) error
}

// GORMCollectionRepository is a GORM implementation of CollectionRepository.
type GORMCollectionRepository struct {
	db *gorm.DB
}

// NewGORMCollectionRepository creates a new instance of GORMCollectionRepository.
func NewGORMCollectionRepository(db *gorm.DB) *GORMCollectionRepository {
	return &GORMCollectionRepository{
		db: db,
	}
}

// GetAll retrieves all collections ordered by display_order.
func (r *GORMCollectionRepository) GetAll() ([]models.Collection, error) {
	var collections []models.Collection
	if err := r.db.Order("display_order ASC").Find(&collections).Error; err != nil {
		return nil, fmt.Errorf("failed to get all collections: %w", err)
	}
	return collections, nil
}

// GetBySlug retrieves a collection by its URL slug.
func (r *GORMCollectionRepository) GetBySlug(slug string) (*models.Collection, error) {
	var collection models.Collection
	if err := r.db.First(&collection, "slug = ?", slug).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("collection %s: %w", slug, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get collection by slug %s: %w", slug, err)
	}
	return &collection, nil
}

// Create creates a new collection.
func (r *GORMCollectionRepository) Create(collection *models.Collection) error {
	if collection.ID == "" {
		collection.ID = uuid.New().String()
	}
	if err := r.db.Create(collection).Error; err != nil {
		return fmt.Errorf("failed to create collection: %w", err)
	}
	return nil
}

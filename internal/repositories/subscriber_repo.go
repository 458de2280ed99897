package repositories

import (
	"errors"
	"fmt"

	"swagstore/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// SubscriberRepository defines the interface for newsletter subscriber access.
type SubscriberRepository interface {
	GetByEmail(email string) (*models.Subscriber, error)
	Create(subscriber *models.Subscriber) error
}

// GORMSubscriberRepository is a GORM implementation of SubscriberRepository.
type GORMSubscriberRepository struct {
	db *gorm.DB
}

// NewGORMSubscriberRepository creates a new instance of GORMSubscriberRepository.
func NewGORMSubscriberRepository(db *gorm.DB) *GORMSubscriberRepository {
	return &GORMSubscriberRepository{
		db: db,
	}
}

// GetByEmail retrieves a subscriber by email.
func (r *GORMSubscriberRepository) GetByEmail(email string) (*models.Subscriber, error) {
	var subscriber models.Subscriber
	if err := r.db.First(&subscriber, "email = ?", email).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("subscriber %s: %w", email, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get subscriber by email %s: %w", email, err)
	}
	return &subscriber, nil
}

// Create creates a new subscriber. A unique-constraint violation on the
// email column surfaces as ErrDuplicate.
func (r *GORMSubscriberRepository) Create(subscriber *models.Subscriber) error {
	if subscriber.ID == "" {
		subscriber.ID = uuid.New().String()
	}
	if err := r.db.Create(subscriber).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return fmt.Errorf("subscriber %s: %w", subscriber.Email, ErrDuplicate)
		}
		return fmt.Errorf("failed to create subscriber: %w", err)
	}
	return nil
}

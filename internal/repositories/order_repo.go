package repositories

import (
	"swagstore/internal/models"
)

// OrderRepository defines the interface for order data access. Orders are
// created once; afterwards only the status field changes.
type OrderRepository interface {
	GetByUser(userID string) ([]models.Order, error)
	GetByID(id string) (*models.Order, error)
	Create(order *models.Order) error
	UpdateStatus(id string, status string) error
}

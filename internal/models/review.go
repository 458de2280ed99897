package models

import (
	"time"

	"gorm.io/gorm"
)

// Review is a customer review attached to a product. Ratings are whole
// stars from 1 to 5.
type Review struct {
	ID               string    `json:"id" gorm:"primaryKey;type:varchar(36)" validate:"omitempty,uuid"`
	ProductID        string    `json:"product_id" gorm:"type:varchar(36);index" validate:"required"`
	Rating           int       `json:"rating" validate:"required,min=1,max=5"`
	Title            string    `json:"title" validate:"omitempty,max=150"`
	Content          string    `json:"content" validate:"required,max=2000"`
	ReviewerName     string    `json:"reviewer_name" validate:"required,max=100"`
	VerifiedPurchase bool      `json:"verified_purchase"`
	ReviewDate       time.Time `json:"review_date"`
	gorm.Model
}

package models

import "gorm.io/gorm"

// Product represents a catalog product.
type Product struct {
	ID           string   `json:"id" gorm:"primaryKey;type:varchar(36)" validate:"omitempty,uuid"`
	Name         string   `json:"name" validate:"required,min=2,max=150"`
	Slug         string   `json:"slug" gorm:"uniqueIndex;type:varchar(150)" validate:"required,min=2,max=150"`
	Description  string   `json:"description" validate:"omitempty,max=2000"`
	Price        float64  `json:"price" validate:"required,gt=0"`
	SKU          string   `json:"sku" validate:"omitempty,max=64"`
	Stock        int      `json:"stock" validate:"gte=0"`
	Sizes        []string `json:"sizes" gorm:"serializer:json"`
	Images       []string `json:"images" gorm:"serializer:json"`
	Featured     bool     `json:"featured"`
	CollectionID string   `json:"collection_id" gorm:"type:varchar(36);index"`
	gorm.Model            // Embed gorm.Model for CreatedAt, UpdatedAt, DeletedAt
}

// MainImage returns the first product image, or "" when none exist.
func (p *Product) MainImage() string {
	if len(p.Images) == 0 {
		return ""
	}
	return p.Images[0]
}

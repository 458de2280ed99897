package models

import "gorm.io/gorm"

// Collection groups products for browsing (e.g. "Hoodies", "Stickers").
// Collections are listed in ascending DisplayOrder.
type Collection struct {
	ID           string `json:"id" gorm:"primaryKey;type:varchar(36)" validate:"omitempty,uuid"`
	Name         string `json:"name" validate:"required,min=2,max=150"`
	Slug         string `json:"slug" gorm:"uniqueIndex;type:varchar(150)" validate:"required"`
	Description  string `json:"description" validate:"omitempty,max=2000"`
	BannerImage  string `json:"banner_image"`
	DisplayOrder int    `json:"display_order"`
	gorm.Model
}

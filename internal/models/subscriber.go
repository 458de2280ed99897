package models

import "gorm.io/gorm"

// Subscriber is a newsletter signup. Subscribing twice with the same
// email is a no-op.
type Subscriber struct {
	ID    string `json:"id" gorm:"primaryKey;type:varchar(36)"`
	Email string `json:"email" gorm:"uniqueIndex;type:varchar(255)" validate:"required,email"`
	gorm.Model
}

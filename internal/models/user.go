package models

import (
	"time"

	"gorm.io/gorm"
)

// User represents a storefront account. Authentication is email + password;
// only the bcrypt hash is ever stored.
type User struct {
	ID          string     `json:"id" gorm:"primaryKey;type:varchar(36)" validate:"omitempty,uuid"`
	Name        string     `json:"name" gorm:"type:varchar(100)" validate:"required,min=2,max=100"`
	Email       string     `json:"email" gorm:"uniqueIndex;type:varchar(255)" validate:"required,email"`
	Password    string     `json:"-" gorm:"type:varchar(255)" validate:"required,min=6"` // Never serialized
	LastLoginAt *time.Time `json:"last_login_at,omitempty"`
	gorm.Model             // Embed gorm.Model for CreatedAt, UpdatedAt, DeletedAt
}

// Public returns a copy safe to serialize in API responses.
func (u User) Public() User {
	u.Password = ""
	return u
}

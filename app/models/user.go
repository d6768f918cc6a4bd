// Package models defines the persistent records. All models use
// explicit base fields instead of gorm.Model so the JSON keys come out
// snake_case like the rest of the API.
package models

import (
	"time"

	"gorm.io/gorm"
)

// User is an account that can own products.
type User struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	Name     string `gorm:"size:255;not null" json:"name"`
	Email    string `gorm:"uniqueIndex;size:255;not null" json:"email"`
	Password string `gorm:"size:255;not null" json:"-"` // hashed, never serialised
}

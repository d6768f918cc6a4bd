package models

import (
	"time"

	"gorm.io/gorm"
)

// ProductImage is one stored image file attached to a product.
// SortOrder increases in upload order across batches.
type ProductImage struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	ProductID uint   `gorm:"not null;index" json:"product_id"`
	Path      string `gorm:"size:512;not null" json:"image_path"`
	URL       string `gorm:"size:512" json:"url"`
	SortOrder int    `gorm:"not null;default:0" json:"sort_order"`
}

package models

import (
	"time"

	"gorm.io/gorm"
)

// Product is a catalogue entry owned by the user who created it.
// CategoryID is optional; the composite indexes back the price and
// stock filters when a category filter is also present.
type Product struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	UserID      uint    `gorm:"not null;index" json:"user_id"`
	CategoryID  *uint   `gorm:"index;index:idx_products_category_price,priority:1;index:idx_products_category_stock,priority:1" json:"category_id"`
	Name        string  `gorm:"size:255;not null;index" json:"name"`
	Description string  `gorm:"type:text" json:"description"`
	Price       float64 `gorm:"not null;default:0;index:idx_products_category_price,priority:2" json:"price"`
	Stock       int     `gorm:"not null;default:0;index:idx_products_category_stock,priority:2" json:"stock"`

	Category *Category      `gorm:"constraint:OnDelete:SET NULL" json:"category,omitempty"`
	Images   []ProductImage `gorm:"constraint:OnDelete:CASCADE" json:"images,omitempty"`
}

// InStock reports whether the product can currently be ordered.
func (p *Product) InStock() bool { return p.Stock > 0 }

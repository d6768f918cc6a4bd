package seeders

import (
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/bazario/catalog/app/models"
)

func init() {
	Register("categories", SeedCategories)
}

// SeedCategories inserts the default category set. Re-running is safe;
// existing names are left untouched.
func SeedCategories(db *gorm.DB) error {
	categories := []models.Category{
		{Name: "Electronics", Slug: "electronics", Description: "Electronic devices and gadgets including smartphones, laptops, tablets, and accessories."},
		{Name: "Clothing", Slug: "clothing", Description: "Fashion and apparel including shirts, pants, dresses, and accessories."},
		{Name: "Home & Kitchen", Slug: "home-kitchen", Description: "Home essentials and kitchen appliances for your household needs."},
		{Name: "Sports & Outdoors", Slug: "sports-outdoors", Description: "Sports equipment and outdoor gear for fitness and adventure enthusiasts."},
		{Name: "Books", Slug: "books", Description: "Books across various genres including fiction, non-fiction, and educational materials."},
		{Name: "Toys & Games", Slug: "toys-games", Description: "Toys, games, and entertainment products for all ages."},
		{Name: "Health & Beauty", Slug: "health-beauty", Description: "Health and beauty products including skincare, cosmetics, and wellness items."},
		{Name: "Automotive", Slug: "automotive", Description: "Automotive parts, accessories, and car care products."},
	}

	return db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "name"}},
		DoNothing: true,
	}).Create(&categories).Error
}

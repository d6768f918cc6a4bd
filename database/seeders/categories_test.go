package seeders_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/bazario/catalog/app/models"
	"github.com/bazario/catalog/database/seeders"
	"github.com/bazario/catalog/pkg/testkit"
)

func TestSeedCategories(t *testing.T) {
	db := testkit.NewDB(t)

	require.NoError(t, seeders.SeedCategories(db))
	// Re-running must not duplicate rows.
	require.NoError(t, seeders.SeedCategories(db))

	var categories []models.Category
	require.NoError(t, db.Order("name asc").Find(&categories).Error)
	require.Len(t, categories, 8)

	slugs := map[string]string{}
	for _, c := range categories {
		slugs[c.Name] = c.Slug
	}
	require.Equal(t, "electronics", slugs["Electronics"])
	require.Equal(t, "home-kitchen", slugs["Home & Kitchen"])
	require.Equal(t, "sports-outdoors", slugs["Sports & Outdoors"])
	require.Equal(t, "toys-games", slugs["Toys & Games"])
}

package services

import (
	"gorm.io/gorm"

	"github.com/bazario/catalog/app/models"
	"github.com/bazario/catalog/app/repositories"
)

// CategoryService exposes the read-only category listing.
type CategoryService struct {
	categories *repositories.CategoryRepository
}

func NewCategoryService(db *gorm.DB) *CategoryService {
	return &CategoryService{categories: repositories.NewCategoryRepository(db)}
}

// List returns all categories ordered by name.
func (s *CategoryService) List() ([]models.Category, error) {
	return s.categories.All()
}

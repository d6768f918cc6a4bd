package controllers

import (
	"net/http"

	"gorm.io/gorm"

	"github.com/bazario/catalog/app/services"
	"github.com/bazario/catalog/pkg/response"
)

// CategoryController serves the category listing.
type CategoryController struct {
	service *services.CategoryService
}

func NewCategoryController(db *gorm.DB) *CategoryController {
	return &CategoryController{service: services.NewCategoryService(db)}
}

// Index handles GET /api/categories.
func (c *CategoryController) Index(w http.ResponseWriter, r *http.Request) {
	categories, err := c.service.List()
	if err != nil {
		response.Error(w, http.StatusInternalServerError, "Failed to retrieve categories", err)
		return
	}

	response.Success(w, "Categories retrieved successfully", map[string]interface{}{
		"categories": categories,
	})
}

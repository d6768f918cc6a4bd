package services

import (
	"errors"
	"mime/multipart"
	"strings"

	"gorm.io/gorm"

	"github.com/bazario/catalog/app/models"
	"github.com/bazario/catalog/app/repositories"
	"github.com/bazario/catalog/app/requests"
	"github.com/bazario/catalog/pkg/logger"
	"github.com/bazario/catalog/pkg/orm"
	"github.com/bazario/catalog/pkg/storage"
)

// ProductService implements the product read and mutation operations.
// Mutations take the caller's user id explicitly and enforce ownership.
type ProductService struct {
	products   *repositories.ProductRepository
	categories *repositories.CategoryRepository
	images     *ImageService
}

func NewProductService(db *gorm.DB, disk storage.Disk) *ProductService {
	return &ProductService{
		products:   repositories.NewProductRepository(db),
		categories: repositories.NewCategoryRepository(db),
		images:     NewImageService(db, disk),
	}
}

// List returns one filtered, sorted page of products.
func (s *ProductService) List(f repositories.ProductFilter) ([]models.Product, orm.Pagination, error) {
	return s.products.List(f)
}

// Get loads one product with its category and images.
func (s *ProductService) Get(id uint) (models.Product, error) {
	product, err := s.products.FindByID(id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.Product{}, ErrNotFound
	}
	return product, err
}

// Create persists a product owned by the caller and, when files are
// attached, runs the image pipeline additively.
func (s *ProductService) Create(callerID uint, in requests.StoreProductInput, files []*multipart.FileHeader) (models.Product, error) {
	categoryID := in.CategoryIDValue()
	if err := s.checkCategory(categoryID); err != nil {
		return models.Product{}, err
	}

	product := models.Product{
		UserID:      callerID,
		CategoryID:  categoryID,
		Name:        strings.TrimSpace(in.Name),
		Description: in.Description,
		Price:       in.PriceValue(),
		Stock:       in.StockValue(),
	}
	if err := s.products.Create(&product); err != nil {
		return models.Product{}, err
	}

	if len(files) > 0 {
		if _, err := s.images.Process(&product, files, false); err != nil {
			return models.Product{}, err
		}
	}

	logger.Info("products: created", "product_id", product.ID, "user_id", callerID)
	return s.Get(product.ID)
}

// Update applies the fields present in the input to a product owned by
// the caller. Name, price and stock change only when present and
// non-empty; description changes whenever present; a present but empty
// category_id detaches the category. Attached files replace all
// existing images.
func (s *ProductService) Update(callerID, id uint, in requests.UpdateProductInput, files []*multipart.FileHeader) (models.Product, error) {
	product, err := s.owned(callerID, id)
	if err != nil {
		return models.Product{}, err
	}

	if in.Name != nil && strings.TrimSpace(*in.Name) != "" {
		product.Name = strings.TrimSpace(*in.Name)
	}
	if in.Description != nil {
		product.Description = *in.Description
	}
	if in.Price != nil && strings.TrimSpace(*in.Price) != "" {
		product.Price = in.PriceValue()
	}
	if in.Stock != nil && strings.TrimSpace(*in.Stock) != "" {
		product.Stock = in.StockValue()
	}
	if categoryID, present := in.CategoryIDValue(); present {
		if err := s.checkCategory(categoryID); err != nil {
			return models.Product{}, err
		}
		product.CategoryID = categoryID
	}

	if err := s.products.Save(&product); err != nil {
		return models.Product{}, err
	}

	if len(files) > 0 {
		if _, err := s.images.Process(&product, files, true); err != nil {
			return models.Product{}, err
		}
	}

	logger.Info("products: updated", "product_id", product.ID, "user_id", callerID)
	return s.Get(product.ID)
}

// Delete removes a product owned by the caller, its image files first,
// then the image rows and the product row.
func (s *ProductService) Delete(callerID, id uint) error {
	product, err := s.owned(callerID, id)
	if err != nil {
		return err
	}

	if err := s.images.RemoveAll(product.ID); err != nil {
		return err
	}
	if err := s.products.Delete(&product); err != nil {
		return err
	}

	logger.Info("products: deleted", "product_id", id, "user_id", callerID)
	return nil
}

// UploadImages adds a batch of images to a product owned by the
// caller, continuing sort order from the current maximum.
func (s *ProductService) UploadImages(callerID, id uint, files []*multipart.FileHeader) (models.Product, []models.ProductImage, error) {
	product, err := s.owned(callerID, id)
	if err != nil {
		return models.Product{}, nil, err
	}

	created, err := s.images.Process(&product, files, false)
	if err != nil {
		return models.Product{}, nil, err
	}

	product, err = s.Get(product.ID)
	return product, created, err
}

func (s *ProductService) owned(callerID, id uint) (models.Product, error) {
	product, err := s.products.FindByID(id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.Product{}, ErrNotFound
	}
	if err != nil {
		return models.Product{}, err
	}
	if product.UserID != callerID {
		return models.Product{}, ErrNotOwner
	}
	return product, nil
}

func (s *ProductService) checkCategory(id *uint) error {
	if id == nil {
		return nil
	}
	ok, err := s.categories.Exists(*id)
	if err != nil {
		return err
	}
	if !ok {
		return ErrCategoryNotFound
	}
	return nil
}

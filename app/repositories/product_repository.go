package repositories

import (
	"strings"

	"gorm.io/gorm"

	"github.com/bazario/catalog/app/models"
	"github.com/bazario/catalog/pkg/orm"
)

// ProductFilter collects the optional listing parameters. Zero values
// mean "not supplied"; use the pointer fields when 0 is a valid bound.
type ProductFilter struct {
	MinPrice     *float64
	MaxPrice     *float64
	CategoryID   *uint
	Availability string // "in_stock" | "out_of_stock" | ""
	SortBy       string
	SortDir      string
	Page         int
	Limit        int
}

// Fields the listing endpoint may sort on. Anything else falls back to
// created_at desc.
var sortableFields = map[string]bool{
	"name":       true,
	"price":      true,
	"created_at": true,
	"stock":      true,
}

// OrderClause resolves the requested sort into a safe SQL order clause.
func (f ProductFilter) OrderClause() string {
	field := strings.ToLower(strings.TrimSpace(f.SortBy))
	dir := strings.ToLower(strings.TrimSpace(f.SortDir))

	if !sortableFields[field] {
		return "created_at desc"
	}
	if dir != "asc" && dir != "desc" {
		dir = "desc"
	}
	return field + " " + dir
}

// ProductRepository handles database operations for Product and its
// images.
type ProductRepository struct {
	db *gorm.DB
}

func NewProductRepository(db *gorm.DB) *ProductRepository {
	return &ProductRepository{db: db}
}

// List returns one page of products matching the filter, with category
// and images preloaded. Images come back in sort_order.
func (r *ProductRepository) List(f ProductFilter) ([]models.Product, orm.Pagination, error) {
	q := r.db.Model(&models.Product{}).
		Preload("Category").
		Preload("Images", func(db *gorm.DB) *gorm.DB {
			return db.Order("sort_order asc")
		})

	if f.MinPrice != nil {
		q = q.Where("price >= ?", *f.MinPrice)
	}
	if f.MaxPrice != nil {
		q = q.Where("price <= ?", *f.MaxPrice)
	}
	if f.CategoryID != nil {
		q = q.Where("category_id = ?", *f.CategoryID)
	}
	switch f.Availability {
	case "in_stock":
		q = q.Where("stock > 0")
	case "out_of_stock":
		q = q.Where("stock = 0")
	}

	q = q.Order(f.OrderClause())

	var products []models.Product
	pagination, err := orm.Paginate(q, f.Page, f.Limit, &products)
	return products, pagination, err
}

// FindByID loads one product with its category and ordered images.
func (r *ProductRepository) FindByID(id uint) (models.Product, error) {
	var product models.Product
	err := r.db.
		Preload("Category").
		Preload("Images", func(db *gorm.DB) *gorm.DB {
			return db.Order("sort_order asc")
		}).
		First(&product, id).Error
	return product, err
}

// Create persists a new product record.
func (r *ProductRepository) Create(product *models.Product) error {
	return r.db.Create(product).Error
}

// Save persists changes to an existing product. The column map makes
// gorm write zero values too, which matters for clearing category_id.
func (r *ProductRepository) Save(product *models.Product) error {
	return r.db.Model(product).Updates(map[string]interface{}{
		"name":        product.Name,
		"description": product.Description,
		"price":       product.Price,
		"stock":       product.Stock,
		"category_id": product.CategoryID,
	}).Error
}

// Delete removes the product row. Image rows are removed separately by
// the image pipeline so their files can be deleted first.
func (r *ProductRepository) Delete(product *models.Product) error {
	return r.db.Unscoped().Delete(product).Error
}

// Images returns a product's image rows in sort order.
func (r *ProductRepository) Images(productID uint) ([]models.ProductImage, error) {
	var images []models.ProductImage
	err := r.db.Where("product_id = ?", productID).Order("sort_order asc").Find(&images).Error
	return images, err
}

// MaxSortOrder returns the highest sort_order among a product's
// surviving images, 0 when it has none.
func (r *ProductRepository) MaxSortOrder(productID uint) (int, error) {
	var row struct{ Max int }
	err := r.db.Model(&models.ProductImage{}).
		Where("product_id = ?", productID).
		Select("COALESCE(MAX(sort_order), 0) as max").
		Scan(&row).Error
	return row.Max, err
}

// CreateImage persists one image record.
func (r *ProductRepository) CreateImage(image *models.ProductImage) error {
	return r.db.Create(image).Error
}

// DeleteImages removes all image rows for a product.
func (r *ProductRepository) DeleteImages(productID uint) error {
	return r.db.Unscoped().Where("product_id = ?", productID).Delete(&models.ProductImage{}).Error
}

package services_test

import (
	"bytes"
	"fmt"
	"image"
	_ "image/png"
	"mime/multipart"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/bazario/catalog/app/models"
	"github.com/bazario/catalog/app/repositories"
	"github.com/bazario/catalog/app/requests"
	"github.com/bazario/catalog/app/services"
	"github.com/bazario/catalog/pkg/storage"
	"github.com/bazario/catalog/pkg/testkit"
)

func newProductService(t *testing.T) (*services.ProductService, *gorm.DB, storage.Disk) {
	t.Helper()
	db := testkit.NewDB(t)
	disk := storage.NewLocal(t.TempDir(), "/uploads")
	return services.NewProductService(db, disk), db, disk
}

// imageFiles builds real multipart file headers the way the HTTP layer
// would hand them to the service.
func imageFiles(t *testing.T, names ...string) []*multipart.FileHeader {
	t.Helper()

	var parts []testkit.FilePart
	for _, name := range names {
		parts = append(parts, testkit.FilePart{Field: "images", Filename: name, Content: testkit.PNG(t, 1200, 900)})
	}

	req := testkit.MultipartRequest(t, "POST", "/ignored", nil, parts...)
	require.NoError(t, req.ParseMultipartForm(32<<20))
	return req.MultipartForm.File["images"]
}

func str(s string) *string { return &s }

func pngSize(t *testing.T, data []byte) (int, int) {
	t.Helper()
	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	require.NoError(t, err)
	return cfg.Width, cfg.Height
}

// ─── Listing ─────────────────────────────────────────────────────────────────

func seedCatalog(t *testing.T, db *gorm.DB) (models.User, models.Category) {
	t.Helper()
	user := testkit.SeedUser(t, db, "Ana", "ana@example.com", "secret123")
	category := testkit.SeedCategory(t, db, "Electronics")

	prices := []float64{5, 15, 25, 45, 80}
	stocks := []int{0, 3, 0, 7, 1}
	for i := range prices {
		p := models.Product{
			UserID: user.ID,
			Name:   fmt.Sprintf("Item %c", 'A'+i),
			Price:  prices[i],
			Stock:  stocks[i],
		}
		if i%2 == 0 {
			p.CategoryID = &category.ID
		}
		require.NoError(t, db.Create(&p).Error)
	}
	return user, category
}

func TestListPriceRange(t *testing.T) {
	svc, db, _ := newProductService(t)
	seedCatalog(t, db)

	min, max := 10.0, 50.0
	products, _, err := svc.List(repositories.ProductFilter{MinPrice: &min, MaxPrice: &max})
	require.NoError(t, err)

	require.Len(t, products, 3)
	for _, p := range products {
		require.GreaterOrEqual(t, p.Price, 10.0)
		require.LessOrEqual(t, p.Price, 50.0)
	}
}

func TestListAvailability(t *testing.T) {
	svc, db, _ := newProductService(t)
	seedCatalog(t, db)

	inStock, _, err := svc.List(repositories.ProductFilter{Availability: "in_stock"})
	require.NoError(t, err)
	require.Len(t, inStock, 3)
	for _, p := range inStock {
		require.Greater(t, p.Stock, 0)
	}

	outOfStock, _, err := svc.List(repositories.ProductFilter{Availability: "out_of_stock"})
	require.NoError(t, err)
	require.Len(t, outOfStock, 2)
	for _, p := range outOfStock {
		require.Zero(t, p.Stock)
	}
}

func TestListCategoryFilter(t *testing.T) {
	svc, db, _ := newProductService(t)
	_, category := seedCatalog(t, db)

	products, _, err := svc.List(repositories.ProductFilter{CategoryID: &category.ID})
	require.NoError(t, err)
	require.Len(t, products, 3)
	for _, p := range products {
		require.NotNil(t, p.CategoryID)
		require.Equal(t, category.ID, *p.CategoryID)
		require.NotNil(t, p.Category, "category must be eagerly attached")
	}
}

func TestListSortByPrice(t *testing.T) {
	svc, db, _ := newProductService(t)
	seedCatalog(t, db)

	products, _, err := svc.List(repositories.ProductFilter{SortBy: "price", SortDir: "asc"})
	require.NoError(t, err)
	for i := 1; i < len(products); i++ {
		require.LessOrEqual(t, products[i-1].Price, products[i].Price)
	}
}

func TestListBogusSortFallsBack(t *testing.T) {
	svc, db, _ := newProductService(t)
	seedCatalog(t, db)

	products, _, err := svc.List(repositories.ProductFilter{SortBy: "bogus; drop table products"})
	require.NoError(t, err)

	// created_at desc: newest first.
	for i := 1; i < len(products); i++ {
		require.GreaterOrEqual(t, products[i-1].ID, products[i].ID)
	}
}

func TestListLimitClamped(t *testing.T) {
	svc, db, _ := newProductService(t)
	user := testkit.SeedUser(t, db, "Bulk", "bulk@example.com", "secret123")
	for i := 0; i < 120; i++ {
		testkit.SeedProduct(t, db, user.ID, fmt.Sprintf("P%03d", i), 1, 1)
	}

	products, pagination, err := svc.List(repositories.ProductFilter{Limit: 500})
	require.NoError(t, err)
	require.Len(t, products, 100)
	require.Equal(t, 100, pagination.PerPage)

	products, pagination, err = svc.List(repositories.ProductFilter{Limit: 1})
	require.NoError(t, err)
	require.Len(t, products, 1)
	require.Equal(t, 1, pagination.PerPage)
}

// ─── Create / Get ────────────────────────────────────────────────────────────

func TestCreateAndGet(t *testing.T) {
	svc, db, _ := newProductService(t)
	user := testkit.SeedUser(t, db, "Ana", "ana@example.com", "secret123")
	category := testkit.SeedCategory(t, db, "Books")

	created, err := svc.Create(user.ID, requests.StoreProductInput{
		Name:       "Go Proverbs",
		Price:      "29.90",
		Stock:      "12",
		CategoryID: fmt.Sprint(category.ID),
	}, nil)
	require.NoError(t, err)
	require.Equal(t, user.ID, created.UserID)
	require.NotNil(t, created.Category)
	require.Equal(t, "Books", created.Category.Name)

	got, err := svc.Get(created.ID)
	require.NoError(t, err)
	require.Equal(t, "Go Proverbs", got.Name)
	require.InDelta(t, 29.90, got.Price, 0.001)
}

func TestCreateZeroPriceAndStock(t *testing.T) {
	svc, db, _ := newProductService(t)
	user := testkit.SeedUser(t, db, "Ana", "ana@example.com", "secret123")

	created, err := svc.Create(user.ID, requests.StoreProductInput{Name: "Freebie", Price: "0", Stock: "0"}, nil)
	require.NoError(t, err)
	require.Zero(t, created.Price)
	require.Zero(t, created.Stock)
	require.False(t, created.InStock())
}

func TestCreateUnknownCategory(t *testing.T) {
	svc, db, _ := newProductService(t)
	user := testkit.SeedUser(t, db, "Ana", "ana@example.com", "secret123")

	_, err := svc.Create(user.ID, requests.StoreProductInput{Name: "Ghost", Price: "1", Stock: "1", CategoryID: "9999"}, nil)
	require.ErrorIs(t, err, services.ErrCategoryNotFound)
}

func TestGetUnknownProduct(t *testing.T) {
	svc, _, _ := newProductService(t)

	_, err := svc.Get(4242)
	require.ErrorIs(t, err, services.ErrNotFound)
}

// ─── Update semantics ────────────────────────────────────────────────────────

func TestUpdateOnlyPresentFields(t *testing.T) {
	svc, db, _ := newProductService(t)
	user := testkit.SeedUser(t, db, "Ana", "ana@example.com", "secret123")
	product := testkit.SeedProduct(t, db, user.ID, "Original", 10, 5)

	updated, err := svc.Update(user.ID, product.ID, requests.UpdateProductInput{
		Price: str("99.50"),
	}, nil)
	require.NoError(t, err)
	require.Equal(t, "Original", updated.Name, "absent fields stay untouched")
	require.InDelta(t, 99.50, updated.Price, 0.001)
	require.Equal(t, 5, updated.Stock)
}

func TestUpdateEmptyNameIgnored(t *testing.T) {
	svc, db, _ := newProductService(t)
	user := testkit.SeedUser(t, db, "Ana", "ana@example.com", "secret123")
	product := testkit.SeedProduct(t, db, user.ID, "Original", 10, 5)

	updated, err := svc.Update(user.ID, product.ID, requests.UpdateProductInput{
		Name:        str(""),
		Description: str(""),
	}, nil)
	require.NoError(t, err)
	require.Equal(t, "Original", updated.Name, "empty name must not overwrite")
	require.Empty(t, updated.Description, "present description applies even when empty")
}

func TestUpdateClearsCategory(t *testing.T) {
	svc, db, _ := newProductService(t)
	user := testkit.SeedUser(t, db, "Ana", "ana@example.com", "secret123")
	category := testkit.SeedCategory(t, db, "Tools")

	product := models.Product{UserID: user.ID, Name: "Hammer", Price: 8, Stock: 3, CategoryID: &category.ID}
	require.NoError(t, db.Create(&product).Error)

	// Omitting category_id leaves it unchanged.
	updated, err := svc.Update(user.ID, product.ID, requests.UpdateProductInput{Stock: str("4")}, nil)
	require.NoError(t, err)
	require.NotNil(t, updated.CategoryID)

	// An explicit empty string clears it.
	updated, err = svc.Update(user.ID, product.ID, requests.UpdateProductInput{CategoryID: str("")}, nil)
	require.NoError(t, err)
	require.Nil(t, updated.CategoryID)
}

func TestUpdateNotOwner(t *testing.T) {
	svc, db, _ := newProductService(t)
	owner := testkit.SeedUser(t, db, "Ana", "ana@example.com", "secret123")
	other := testkit.SeedUser(t, db, "Eve", "eve@example.com", "secret123")
	product := testkit.SeedProduct(t, db, owner.ID, "Original", 10, 5)

	_, err := svc.Update(other.ID, product.ID, requests.UpdateProductInput{Name: str("Stolen")}, nil)
	require.ErrorIs(t, err, services.ErrNotOwner)

	got, err := svc.Get(product.ID)
	require.NoError(t, err)
	require.Equal(t, "Original", got.Name, "failed update must leave the product unchanged")
}

func TestUpdateUnknownProduct(t *testing.T) {
	svc, db, _ := newProductService(t)
	user := testkit.SeedUser(t, db, "Ana", "ana@example.com", "secret123")

	_, err := svc.Update(user.ID, 4242, requests.UpdateProductInput{Name: str("x")}, nil)
	require.ErrorIs(t, err, services.ErrNotFound)
}

// ─── Image pipeline ──────────────────────────────────────────────────────────

func TestUploadImagesContinuesSortOrder(t *testing.T) {
	svc, db, disk := newProductService(t)
	user := testkit.SeedUser(t, db, "Ana", "ana@example.com", "secret123")
	product := testkit.SeedProduct(t, db, user.ID, "Camera", 100, 2)

	_, first, err := svc.UploadImages(user.ID, product.ID, imageFiles(t, "a.png", "b.png"))
	require.NoError(t, err)
	require.Len(t, first, 2)
	require.Equal(t, 1, first[0].SortOrder)
	require.Equal(t, 2, first[1].SortOrder)

	_, second, err := svc.UploadImages(user.ID, product.ID, imageFiles(t, "c.png"))
	require.NoError(t, err)
	require.Len(t, second, 1)
	require.Equal(t, 3, second[0].SortOrder, "sort order continues across batches")

	for _, img := range append(first, second...) {
		require.True(t, disk.Exists(img.Path), "stored file must exist: %s", img.Path)
	}
}

func TestUploadImagesAbortsOnCorruptFile(t *testing.T) {
	svc, db, disk := newProductService(t)
	user := testkit.SeedUser(t, db, "Ana", "ana@example.com", "secret123")
	product := testkit.SeedProduct(t, db, user.ID, "Camera", 100, 2)

	// A .png extension passes the upfront field checks; the decode
	// failure must abort the batch, not be skipped.
	parts := []testkit.FilePart{
		{Field: "images", Filename: "good.png", Content: testkit.PNG(t, 600, 400)},
		{Field: "images", Filename: "corrupt.png", Content: []byte("not a png")},
		{Field: "images", Filename: "later.png", Content: testkit.PNG(t, 600, 400)},
	}
	req := testkit.MultipartRequest(t, "POST", "/ignored", nil, parts...)
	require.NoError(t, req.ParseMultipartForm(32<<20))

	_, _, err := svc.UploadImages(user.ID, product.ID, req.MultipartForm.File["images"])
	require.Error(t, err)

	var invalid *services.InvalidImageError
	require.ErrorAs(t, err, &invalid)
	require.Equal(t, 1, invalid.Index)
	require.Equal(t, "corrupt.png", invalid.Filename)

	images, err := repositories.NewProductRepository(db).Images(product.ID)
	require.NoError(t, err)
	require.Len(t, images, 1, "files before the failure stay, the rest never run")
	require.Equal(t, 1, images[0].SortOrder)
	require.True(t, disk.Exists(images[0].Path))
}

func TestUploadImagesNotOwner(t *testing.T) {
	svc, db, _ := newProductService(t)
	owner := testkit.SeedUser(t, db, "Ana", "ana@example.com", "secret123")
	other := testkit.SeedUser(t, db, "Eve", "eve@example.com", "secret123")
	product := testkit.SeedProduct(t, db, owner.ID, "Camera", 100, 2)

	_, _, err := svc.UploadImages(other.ID, product.ID, imageFiles(t, "a.png"))
	require.ErrorIs(t, err, services.ErrNotOwner)
}

func TestUpdateWithImagesReplaces(t *testing.T) {
	svc, db, disk := newProductService(t)
	user := testkit.SeedUser(t, db, "Ana", "ana@example.com", "secret123")
	product := testkit.SeedProduct(t, db, user.ID, "Camera", 100, 2)

	_, first, err := svc.UploadImages(user.ID, product.ID, imageFiles(t, "a.png", "b.png"))
	require.NoError(t, err)

	updated, err := svc.Update(user.ID, product.ID, requests.UpdateProductInput{}, imageFiles(t, "c.png"))
	require.NoError(t, err)

	require.Len(t, updated.Images, 1, "replace must remove prior images")
	require.Equal(t, 1, updated.Images[0].SortOrder, "sort order restarts after replace")

	for _, img := range first {
		require.False(t, disk.Exists(img.Path), "replaced file must be deleted: %s", img.Path)
	}
	require.True(t, disk.Exists(updated.Images[0].Path))
}

func TestDeleteRemovesFilesAndRows(t *testing.T) {
	svc, db, disk := newProductService(t)
	user := testkit.SeedUser(t, db, "Ana", "ana@example.com", "secret123")
	product := testkit.SeedProduct(t, db, user.ID, "Camera", 100, 2)

	_, images, err := svc.UploadImages(user.ID, product.ID, imageFiles(t, "a.png", "b.png"))
	require.NoError(t, err)

	require.NoError(t, svc.Delete(user.ID, product.ID))

	_, err = svc.Get(product.ID)
	require.ErrorIs(t, err, services.ErrNotFound)

	var count int64
	require.NoError(t, db.Model(&models.ProductImage{}).Where("product_id = ?", product.ID).Count(&count).Error)
	require.Zero(t, count, "image rows must be gone")

	for _, img := range images {
		require.False(t, disk.Exists(img.Path), "image file must be gone: %s", img.Path)
	}
}

func TestDeleteNotOwner(t *testing.T) {
	svc, db, _ := newProductService(t)
	owner := testkit.SeedUser(t, db, "Ana", "ana@example.com", "secret123")
	other := testkit.SeedUser(t, db, "Eve", "eve@example.com", "secret123")
	product := testkit.SeedProduct(t, db, owner.ID, "Camera", 100, 2)

	require.ErrorIs(t, svc.Delete(other.ID, product.ID), services.ErrNotOwner)

	_, err := svc.Get(product.ID)
	require.NoError(t, err, "product must survive a forbidden delete")
}

func TestImagesAreResizedWithinBound(t *testing.T) {
	svc, db, disk := newProductService(t)
	user := testkit.SeedUser(t, db, "Ana", "ana@example.com", "secret123")
	product := testkit.SeedProduct(t, db, user.ID, "Poster", 5, 1)

	_, images, err := svc.UploadImages(user.ID, product.ID, imageFiles(t, "big.png"))
	require.NoError(t, err)
	require.Len(t, images, 1)

	stored, err := disk.Get(images[0].Path)
	require.NoError(t, err)
	w, h := pngSize(t, stored)
	require.LessOrEqual(t, w, 800)
	require.LessOrEqual(t, h, 800)
	require.Equal(t, 800, w, "1200x900 input scales to 800 wide")
	require.Equal(t, 600, h)
}

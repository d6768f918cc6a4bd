package controllers

import (
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"gorm.io/gorm"

	"github.com/bazario/catalog/app/repositories"
	"github.com/bazario/catalog/app/requests"
	"github.com/bazario/catalog/app/services"
	"github.com/bazario/catalog/pkg/bind"
	"github.com/bazario/catalog/pkg/middleware"
	"github.com/bazario/catalog/pkg/response"
	"github.com/bazario/catalog/pkg/storage"
	"github.com/bazario/catalog/pkg/validate"
)

// multipartMemory is how much of a multipart body is held in memory
// before spilling to temp files.
const multipartMemory = 32 << 20

// ProductController serves product listing, CRUD and image upload.
type ProductController struct {
	service *services.ProductService
}

func NewProductController(db *gorm.DB, disk storage.Disk) *ProductController {
	return &ProductController{service: services.NewProductService(db, disk)}
}

// Index handles GET /api/products with optional filter, sort and
// pagination query parameters.
func (c *ProductController) Index(w http.ResponseWriter, r *http.Request) {
	filter := parseProductFilter(r)

	products, pagination, err := c.service.List(filter)
	if err != nil {
		response.Error(w, http.StatusInternalServerError, "Failed to retrieve products", err)
		return
	}

	response.Success(w, "Products retrieved successfully", map[string]interface{}{
		"products":   products,
		"pagination": pagination,
	})
}

// Show handles GET /api/products/{id}.
func (c *ProductController) Show(w http.ResponseWriter, r *http.Request) {
	id, ok := productID(r)
	if !ok {
		response.NotFound(w, "Product not found")
		return
	}

	product, err := c.service.Get(id)
	if err != nil {
		c.fail(w, err, "Failed to retrieve product", "")
		return
	}

	response.Success(w, "Product retrieved successfully", map[string]interface{}{
		"product": product,
	})
}

// Store handles POST /api/products. The body is either JSON or a
// multipart form carrying images[].
func (c *ProductController) Store(w http.ResponseWriter, r *http.Request) {
	var in requests.StoreProductInput
	var files []*multipart.FileHeader
	var errs map[string]string

	if isMultipart(r) {
		if err := r.ParseMultipartForm(multipartMemory); err != nil {
			response.Error(w, http.StatusBadRequest, "Invalid request body", err)
			return
		}
		in = requests.StoreProductInput{
			Name:        r.FormValue("name"),
			Description: r.FormValue("description"),
			Price:       r.FormValue("price"),
			Stock:       r.FormValue("stock"),
			CategoryID:  r.FormValue("category_id"),
		}
		files = formFiles(r)
		errs = validate.Struct(&in)
	} else {
		var err error
		errs, err = bind.JSON(r, &in)
		if err != nil {
			response.Error(w, http.StatusBadRequest, "Invalid request body", err)
			return
		}
	}

	errs = mergeErrs(errs, requests.ValidateImages(files))
	if len(errs) > 0 {
		response.ValidationError(w, errs)
		return
	}

	product, err := c.service.Create(middleware.CallerID(r.Context()), in, files)
	if err != nil {
		c.fail(w, err, "Failed to create product", "")
		return
	}

	response.Created(w, "Product created successfully", map[string]interface{}{
		"product": product,
	})
}

// Update handles PUT and PATCH /api/products/{id}. Only the fields
// present in the body are applied; attached images replace all
// existing ones.
func (c *ProductController) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := productID(r)
	if !ok {
		response.NotFound(w, "Product not found")
		return
	}

	var in requests.UpdateProductInput
	var files []*multipart.FileHeader

	if isMultipart(r) {
		if err := r.ParseMultipartForm(multipartMemory); err != nil {
			response.Error(w, http.StatusBadRequest, "Invalid request body", err)
			return
		}
		in = requests.UpdateProductInput{
			Name:        formPtr(r, "name"),
			Description: formPtr(r, "description"),
			Price:       formPtr(r, "price"),
			Stock:       formPtr(r, "stock"),
			CategoryID:  formPtr(r, "category_id"),
		}
		files = formFiles(r)
	} else {
		if _, err := bind.JSON(r, &in); err != nil {
			response.Error(w, http.StatusBadRequest, "Invalid request body", err)
			return
		}
	}

	errs := mergeErrs(in.Validate(), requests.ValidateImages(files))
	if len(errs) > 0 {
		response.ValidationError(w, errs)
		return
	}

	product, err := c.service.Update(middleware.CallerID(r.Context()), id, in, files)
	if err != nil {
		c.fail(w, err, "Failed to update product", "You can only update your own products")
		return
	}

	response.Success(w, "Product updated successfully", map[string]interface{}{
		"product": product,
	})
}

// Destroy handles DELETE /api/products/{id}.
func (c *ProductController) Destroy(w http.ResponseWriter, r *http.Request) {
	id, ok := productID(r)
	if !ok {
		response.NotFound(w, "Product not found")
		return
	}

	if err := c.service.Delete(middleware.CallerID(r.Context()), id); err != nil {
		c.fail(w, err, "Failed to delete product", "You can only delete your own products")
		return
	}

	response.Success(w, "Product deleted successfully", nil)
}

// UploadImages handles POST /api/products/{id}/images. The batch is
// additive; sort order continues from the current maximum.
func (c *ProductController) UploadImages(w http.ResponseWriter, r *http.Request) {
	id, ok := productID(r)
	if !ok {
		response.NotFound(w, "Product not found")
		return
	}

	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	files := formFiles(r)
	if len(files) == 0 {
		response.ValidationError(w, map[string]string{"images": "The images field is required."})
		return
	}
	if errs := requests.ValidateImages(files); len(errs) > 0 {
		response.ValidationError(w, errs)
		return
	}

	product, created, err := c.service.UploadImages(middleware.CallerID(r.Context()), id, files)
	if err != nil {
		c.fail(w, err, "Failed to upload images", "You can only upload images to your own products")
		return
	}

	response.Success(w, "Images uploaded successfully", map[string]interface{}{
		"product": product,
		"images":  created,
	})
}

// fail maps service errors onto the response envelope.
func (c *ProductController) fail(w http.ResponseWriter, err error, genericMsg, forbiddenMsg string) {
	var invalidImage *services.InvalidImageError

	switch {
	case errors.Is(err, services.ErrNotFound):
		response.NotFound(w, "Product not found")
	case errors.Is(err, services.ErrNotOwner):
		response.Forbidden(w, forbiddenMsg)
	case errors.Is(err, services.ErrCategoryNotFound):
		response.ValidationError(w, map[string]string{
			"category_id": "The selected category_id is invalid.",
		})
	case errors.As(err, &invalidImage):
		response.ValidationError(w, map[string]string{
			fmt.Sprintf("images.%d", invalidImage.Index): "The file must be a valid image.",
		})
	default:
		response.Error(w, http.StatusInternalServerError, genericMsg, err)
	}
}

// ─── Request parsing helpers ─────────────────────────────────────────────────

func productID(r *http.Request) (uint, bool) {
	raw := chi.URLParam(r, "id")
	n, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || n == 0 {
		return 0, false
	}
	return uint(n), true
}

func parseProductFilter(r *http.Request) repositories.ProductFilter {
	q := r.URL.Query()

	f := repositories.ProductFilter{
		Availability: q.Get("availability"),
		SortBy:       q.Get("sort_by"),
		SortDir:      q.Get("sort_order"),
	}

	if v := q.Get("min_price"); v != "" {
		if n, err := strconv.ParseFloat(v, 64); err == nil {
			f.MinPrice = &n
		}
	}
	if v := q.Get("max_price"); v != "" {
		if n, err := strconv.ParseFloat(v, 64); err == nil {
			f.MaxPrice = &n
		}
	}
	if v := q.Get("category"); v != "" {
		if n, err := strconv.ParseUint(v, 10, 64); err == nil {
			id := uint(n)
			f.CategoryID = &id
		}
	}
	if v := q.Get("page"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			f.Page = n
		}
	}
	// An explicit limit below 1 clamps to 1; an absent limit falls
	// through as 0 and becomes the default page size.
	if v := q.Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			n = 1
		}
		f.Limit = n
	}

	return f
}

func isMultipart(r *http.Request) bool {
	return strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data")
}

// formFiles returns the uploaded images, accepting both the images and
// images[] field names.
func formFiles(r *http.Request) []*multipart.FileHeader {
	if r.MultipartForm == nil {
		return nil
	}
	if fs := r.MultipartForm.File["images"]; len(fs) > 0 {
		return fs
	}
	return r.MultipartForm.File["images[]"]
}

// formPtr reports key presence in a multipart form: nil means the key
// was absent, a pointer to "" means present but empty.
func formPtr(r *http.Request, key string) *string {
	if r.MultipartForm == nil {
		return nil
	}
	if vs, ok := r.MultipartForm.Value[key]; ok && len(vs) > 0 {
		v := vs[0]
		return &v
	}
	return nil
}

func mergeErrs(dst, src map[string]string) map[string]string {
	if len(src) == 0 {
		return dst
	}
	if dst == nil {
		dst = make(map[string]string, len(src))
	}
	for k, v := range src {
		dst[k] = v
	}
	return dst
}

package requests

import (
	"fmt"
	"mime/multipart"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/bazario/catalog/config"
	"github.com/bazario/catalog/pkg/imaging"
)

// Numeric fields arrive as strings so that "0" survives the required
// rule (a numeric zero would read as empty) and so the same shape works
// for both JSON and multipart form bodies.

// StoreProductInput is the body of POST /api/products.
type StoreProductInput struct {
	Name        string `json:"name" validate:"required,max=255"`
	Description string `json:"description" validate:"nullable,max=65535"`
	Price       string `json:"price" validate:"required,numeric,gte=0"`
	Stock       string `json:"stock" validate:"required,integer,gte=0"`
	CategoryID  string `json:"category_id" validate:"nullable,integer,gte=1"`
}

func (in *StoreProductInput) PriceValue() float64 {
	f, _ := strconv.ParseFloat(strings.TrimSpace(in.Price), 64)
	return f
}

func (in *StoreProductInput) StockValue() int {
	n, _ := strconv.Atoi(strings.TrimSpace(in.Stock))
	return n
}

// CategoryIDValue returns nil when the field was empty.
func (in *StoreProductInput) CategoryIDValue() *uint {
	s := strings.TrimSpace(in.CategoryID)
	if s == "" {
		return nil
	}
	n, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return nil
	}
	id := uint(n)
	return &id
}

// UpdateProductInput is the body of PUT/PATCH /api/products/{id}.
// Every field is optional; nil means the key was absent from the body.
// Name, Price and Stock are only applied when present and non-empty.
// Description is applied whenever present. A present but empty
// CategoryID detaches the product from its category.
type UpdateProductInput struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	Price       *string `json:"price"`
	Stock       *string `json:"stock"`
	CategoryID  *string `json:"category_id"`
}

// Validate checks the fields that are present. The validate tag engine
// does not dereference pointers, so the optional-field rules live here.
func (in *UpdateProductInput) Validate() map[string]string {
	errs := make(map[string]string)

	if in.Name != nil && strings.TrimSpace(*in.Name) != "" && len([]rune(*in.Name)) > 255 {
		errs["name"] = "The name must not exceed 255 characters."
	}
	if in.Price != nil && strings.TrimSpace(*in.Price) != "" {
		f, err := strconv.ParseFloat(strings.TrimSpace(*in.Price), 64)
		if err != nil {
			errs["price"] = "The price must be a number."
		} else if f < 0 {
			errs["price"] = "The price must be at least 0."
		}
	}
	if in.Stock != nil && strings.TrimSpace(*in.Stock) != "" {
		n, err := strconv.ParseInt(strings.TrimSpace(*in.Stock), 10, 64)
		if err != nil {
			errs["stock"] = "The stock must be an integer."
		} else if n < 0 {
			errs["stock"] = "The stock must be at least 0."
		}
	}
	if in.CategoryID != nil && strings.TrimSpace(*in.CategoryID) != "" {
		if _, err := strconv.ParseUint(strings.TrimSpace(*in.CategoryID), 10, 64); err != nil {
			errs["category_id"] = "The category_id must be an integer."
		}
	}

	return errs
}

// PriceValue returns the parsed price; call only when Price is present
// and valid.
func (in *UpdateProductInput) PriceValue() float64 {
	f, _ := strconv.ParseFloat(strings.TrimSpace(*in.Price), 64)
	return f
}

func (in *UpdateProductInput) StockValue() int {
	n, _ := strconv.Atoi(strings.TrimSpace(*in.Stock))
	return n
}

// CategoryIDValue returns (nil, true) when the key was present but
// empty, meaning the category should be cleared.
func (in *UpdateProductInput) CategoryIDValue() (id *uint, present bool) {
	if in.CategoryID == nil {
		return nil, false
	}
	s := strings.TrimSpace(*in.CategoryID)
	if s == "" {
		return nil, true
	}
	n, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return nil, true
	}
	v := uint(n)
	return &v, true
}

// ValidateImages checks every uploaded file against the allowed
// formats and the configured size cap. Keys in the returned map follow
// the images.N convention.
func ValidateImages(files []*multipart.FileHeader) map[string]string {
	errs := make(map[string]string)
	maxBytes := config.UploadMaxBytes()

	for i, fh := range files {
		key := fmt.Sprintf("images.%d", i)
		ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(fh.Filename)), ".")

		if !imaging.SupportedExt(ext) {
			errs[key] = "The file must be an image of type: jpeg, png, jpg, gif."
			continue
		}
		if fh.Size > maxBytes {
			errs[key] = fmt.Sprintf("The image must not be larger than %d kilobytes.", maxBytes/1024)
		}
	}

	return errs
}

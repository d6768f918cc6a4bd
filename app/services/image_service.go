package services

import (
	"fmt"
	"io"
	"mime/multipart"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/bazario/catalog/app/models"
	"github.com/bazario/catalog/app/repositories"
	"github.com/bazario/catalog/config"
	"github.com/bazario/catalog/pkg/imaging"
	"github.com/bazario/catalog/pkg/logger"
	"github.com/bazario/catalog/pkg/metrics"
	"github.com/bazario/catalog/pkg/storage"
)

// imageDir is the storage area for product images, relative to the
// disk root.
const imageDir = "products"

// ImageService runs the image ingestion pipeline: store the upload,
// rescale it to fit the configured bounding box, and record it with
// the next sort order.
type ImageService struct {
	products *repositories.ProductRepository
	disk     storage.Disk
}

func NewImageService(db *gorm.DB, disk storage.Disk) *ImageService {
	return &ImageService{
		products: repositories.NewProductRepository(db),
		disk:     disk,
	}
}

// Process ingests one upload batch for a product. When replace is set,
// all existing image files and rows are removed first, which restarts
// sort order accounting from zero.
//
// Files are handled sequentially. A file that fails to decode or store
// aborts the rest of the batch; files committed before the failure
// stay, there is no rollback. A decode failure surfaces as
// *InvalidImageError so controllers can report the offending field.
func (s *ImageService) Process(product *models.Product, files []*multipart.FileHeader, replace bool) ([]models.ProductImage, error) {
	if replace {
		if err := s.RemoveAll(product.ID); err != nil {
			return nil, err
		}
	}

	order, err := s.products.MaxSortOrder(product.ID)
	if err != nil {
		return nil, err
	}

	bound := config.ImageBoundPx()
	var saved []models.ProductImage

	for i, fh := range files {
		img, err := s.ingestOne(product.ID, fh, i, order+1, bound)
		if err != nil {
			metrics.ImagesProcessed.WithLabelValues("error").Inc()
			logger.Warn("images: batch aborted",
				"product_id", product.ID,
				"filename", fh.Filename,
				"index", i,
				"error", err)
			return saved, err
		}

		order++
		metrics.ImagesProcessed.WithLabelValues("ok").Inc()
		saved = append(saved, *img)
	}

	return saved, nil
}

func (s *ImageService) ingestOne(productID uint, fh *multipart.FileHeader, index, order, bound int) (*models.ProductImage, error) {
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(fh.Filename)), ".")
	if !imaging.SupportedExt(ext) {
		return nil, &InvalidImageError{Index: index, Filename: fh.Filename, Err: imaging.ErrUnsupportedFormat}
	}

	f, err := fh.Open()
	if err != nil {
		return nil, fmt.Errorf("open upload: %w", err)
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return nil, fmt.Errorf("read upload: %w", err)
	}

	resized, err := imaging.FitWithin(data, ext, bound)
	if err != nil {
		return nil, &InvalidImageError{Index: index, Filename: fh.Filename, Err: err}
	}

	name := uniqueFilename(index, ext)
	storedPath := path.Join(imageDir, name)

	if err := s.disk.Put(storedPath, resized); err != nil {
		return nil, fmt.Errorf("store image: %w", err)
	}

	img := models.ProductImage{
		ProductID: productID,
		Path:      storedPath,
		URL:       s.disk.URL(storedPath),
		SortOrder: order,
	}
	if err := s.products.CreateImage(&img); err != nil {
		// Keep storage consistent with the database.
		_ = s.disk.Delete(storedPath)
		return nil, fmt.Errorf("record image: %w", err)
	}

	return &img, nil
}

// RemoveAll deletes every image file for a product, then the rows.
// Files go first so a crash between the two steps cannot leave rows
// pointing at missing files for long; re-running replace cleans up.
func (s *ImageService) RemoveAll(productID uint) error {
	images, err := s.products.Images(productID)
	if err != nil {
		return err
	}

	for _, img := range images {
		if err := s.disk.Delete(img.Path); err != nil {
			logger.Warn("images: delete file failed", "path", img.Path, "error", err)
		}
	}

	return s.products.DeleteImages(productID)
}

// uniqueFilename builds a collision-resistant name from a 100µs
// timestamp, a random component, and the file's position in the batch.
func uniqueFilename(index int, ext string) string {
	stamp := time.Now().UnixMicro() / 100
	return fmt.Sprintf("%d_%s_%d.%s", stamp, uuid.NewString(), index, ext)
}

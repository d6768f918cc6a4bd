// Package routes declares every API endpoint and which middleware
// guards it.
package routes

import (
	"gorm.io/gorm"

	"github.com/bazario/catalog/app/controllers"
	"github.com/bazario/catalog/pkg/middleware"
	"github.com/bazario/catalog/pkg/router"
	"github.com/bazario/catalog/pkg/storage"
)

// RegisterAPI mounts the catalog API under /api. Reads are public;
// logout and every product mutation require a valid token.
func RegisterAPI(r *router.Router, db *gorm.DB, disk storage.Disk) {
	authController := controllers.NewAuthController(db)
	categoryController := controllers.NewCategoryController(db)
	productController := controllers.NewProductController(db, disk)

	api := r.Group("/api")

	api.Post("/auth/register", "auth.register", authController.Register)
	api.Post("/auth/login", "auth.login", authController.Login)

	api.Get("/categories", "categories.index", categoryController.Index)

	api.Get("/products", "products.index", productController.Index)
	api.Get("/products/{id}", "products.show", productController.Show)

	protected := api.Group("", middleware.Auth)
	protected.Post("/auth/logout", "auth.logout", authController.Logout)
	protected.Post("/products", "products.store", productController.Store)
	protected.Put("/products/{id}", "products.update", productController.Update)
	protected.Patch("/products/{id}", "products.patch", productController.Update)
	protected.Delete("/products/{id}", "products.destroy", productController.Destroy)
	protected.Post("/products/{id}/images", "products.images", productController.UploadImages)
}

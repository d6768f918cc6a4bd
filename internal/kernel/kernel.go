// Package kernel assembles the HTTP stack: the global middleware
// chain, the API routes, and the operational endpoints.
package kernel

import (
	"net/http"
	"time"

	"gorm.io/gorm"

	"github.com/bazario/catalog/app/routes"
	"github.com/bazario/catalog/pkg/metrics"
	"github.com/bazario/catalog/pkg/middleware"
	"github.com/bazario/catalog/pkg/reqid"
	"github.com/bazario/catalog/pkg/response"
	"github.com/bazario/catalog/pkg/router"
	"github.com/bazario/catalog/pkg/storage"
)

// rateLimitMax is requests per client IP per minute.
const rateLimitMax = 200

// Kernel wires the router, middleware and routes together.
type Kernel struct {
	router *router.Router
}

// New builds the HTTP kernel. Every request flows through metrics,
// panic recovery, request id, logging, CORS and the rate limiter, in
// that order.
func New(db *gorm.DB, disk storage.Disk) *Kernel {
	r := router.New()

	r.Use(
		metrics.Middleware(),
		middleware.Recovery,
		reqid.Middleware(),
		middleware.Logger,
		middleware.CORS(middleware.DefaultCORSOptions()),
		middleware.RateLimit(rateLimitMax, time.Minute),
	)

	r.HandleFunc("/metrics", metrics.Handler())
	r.Get("/healthz", "ops.health", func(w http.ResponseWriter, _ *http.Request) {
		response.Success(w, "ok", nil)
	})

	routes.RegisterAPI(r, db, disk)

	return &Kernel{router: r}
}

// Handler returns the root http.Handler.
func (k *Kernel) Handler() http.Handler {
	return k.router.Handler()
}

// Router exposes the underlying router, mainly for route listing.
func (k *Kernel) Router() *router.Router {
	return k.router
}

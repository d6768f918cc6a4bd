package routes_test

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/bazario/catalog/app/models"
	"github.com/bazario/catalog/app/routes"
	"github.com/bazario/catalog/pkg/router"
	"github.com/bazario/catalog/pkg/storage"
	"github.com/bazario/catalog/pkg/testkit"
)

// newAPI mounts the full route table against a throwaway database and
// disk, without the operational middleware.
func newAPI(t *testing.T) (http.Handler, *gorm.DB) {
	t.Helper()

	db := testkit.NewDB(t)
	disk := storage.NewLocal(t.TempDir(), "/uploads")

	r := router.New()
	routes.RegisterAPI(r, db, disk)
	return r.Handler(), db
}

func do(h http.Handler, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func fmtPath(format string, args ...interface{}) string {
	return fmt.Sprintf(format, args...)
}

// ─── Auth endpoints ──────────────────────────────────────────────────────────

func TestRegisterEndpoint(t *testing.T) {
	api, _ := newAPI(t)

	rec := do(api, testkit.JSONRequest(t, "POST", "/api/auth/register", map[string]string{
		"name":     "Ana",
		"email":    "ana@example.com",
		"password": "secret123",
	}))

	env := testkit.AssertSuccess(t, rec, http.StatusCreated)
	require.Equal(t, "User registered successfully", env.Message)
	require.NotEmpty(t, env.Data["access_token"])
	require.Equal(t, "Bearer", env.Data["token_type"])

	user, ok := env.Data["user"].(map[string]interface{})
	require.True(t, ok)
	require.Equal(t, "ana@example.com", user["email"])
}

func TestRegisterValidation(t *testing.T) {
	api, _ := newAPI(t)

	rec := do(api, testkit.JSONRequest(t, "POST", "/api/auth/register", map[string]string{
		"name": "Ana",
	}))

	env := testkit.AssertFailure(t, rec, http.StatusUnprocessableEntity)
	require.Contains(t, env.Errors, "email")
	require.Contains(t, env.Errors, "password")
}

func TestRegisterDuplicateEmailEndpoint(t *testing.T) {
	api, db := newAPI(t)
	testkit.SeedUser(t, db, "Ana", "ana@example.com", "secret123")

	rec := do(api, testkit.JSONRequest(t, "POST", "/api/auth/register", map[string]string{
		"name":     "Impostor",
		"email":    "ana@example.com",
		"password": "different1",
	}))

	env := testkit.AssertFailure(t, rec, http.StatusUnprocessableEntity)
	require.Contains(t, env.Errors, "email")
}

func TestLoginEndpoint(t *testing.T) {
	api, db := newAPI(t)
	testkit.SeedUser(t, db, "Ana", "ana@example.com", "secret123")

	rec := do(api, testkit.JSONRequest(t, "POST", "/api/auth/login", map[string]string{
		"email":    "ana@example.com",
		"password": "secret123",
	}))

	env := testkit.AssertSuccess(t, rec, http.StatusOK)
	require.Equal(t, "Login successful", env.Message)
	require.NotEmpty(t, env.Data["access_token"])
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	api, db := newAPI(t)
	testkit.SeedUser(t, db, "Ana", "ana@example.com", "secret123")

	wrongPassword := do(api, testkit.JSONRequest(t, "POST", "/api/auth/login", map[string]string{
		"email":    "ana@example.com",
		"password": "wrong1234",
	}))
	unknownEmail := do(api, testkit.JSONRequest(t, "POST", "/api/auth/login", map[string]string{
		"email":    "ghost@example.com",
		"password": "secret123",
	}))

	envA := testkit.AssertFailure(t, wrongPassword, http.StatusUnauthorized)
	envB := testkit.AssertFailure(t, unknownEmail, http.StatusUnauthorized)
	require.Equal(t, "Invalid credentials", envA.Message)
	require.Equal(t, envA.Message, envB.Message, "response must not reveal which part was wrong")
}

func TestLogoutRequiresToken(t *testing.T) {
	api, _ := newAPI(t)

	rec := do(api, testkit.JSONRequest(t, "POST", "/api/auth/logout", nil))
	testkit.AssertFailure(t, rec, http.StatusUnauthorized)
}

func TestLogoutWithToken(t *testing.T) {
	api, db := newAPI(t)
	user := testkit.SeedUser(t, db, "Ana", "ana@example.com", "secret123")
	token := testkit.TokenFor(t, user.ID)

	rec := do(api, testkit.Authed(testkit.JSONRequest(t, "POST", "/api/auth/logout", nil), token))
	env := testkit.AssertSuccess(t, rec, http.StatusOK)
	require.Equal(t, "Logged out successfully", env.Message)
}

// ─── Categories ──────────────────────────────────────────────────────────────

func TestCategoriesSortedByName(t *testing.T) {
	api, db := newAPI(t)
	testkit.SeedCategory(t, db, "Toys")
	testkit.SeedCategory(t, db, "Books")
	testkit.SeedCategory(t, db, "Electronics")

	rec := do(api, httptest.NewRequest("GET", "/api/categories", nil))
	env := testkit.AssertSuccess(t, rec, http.StatusOK)

	raw, ok := env.Data["categories"].([]interface{})
	require.True(t, ok)
	require.Len(t, raw, 3)

	var names, slugs []string
	for _, c := range raw {
		fields := c.(map[string]interface{})
		names = append(names, fields["name"].(string))
		slugs = append(slugs, fields["slug"].(string))
	}
	require.Equal(t, []string{"Books", "Electronics", "Toys"}, names)
	require.Equal(t, []string{"books", "electronics", "toys"}, slugs)
}

// ─── Products ────────────────────────────────────────────────────────────────

func TestProductMutationsRequireAuth(t *testing.T) {
	api, _ := newAPI(t)

	for _, req := range []*http.Request{
		testkit.JSONRequest(t, "POST", "/api/products", map[string]string{"name": "x"}),
		testkit.JSONRequest(t, "PUT", "/api/products/1", map[string]string{"name": "x"}),
		testkit.JSONRequest(t, "DELETE", "/api/products/1", nil),
	} {
		rec := do(api, req)
		testkit.AssertFailure(t, rec, http.StatusUnauthorized)
	}
}

func TestProductLifecycleOverHTTP(t *testing.T) {
	api, db := newAPI(t)
	user := testkit.SeedUser(t, db, "Ana", "ana@example.com", "secret123")
	token := testkit.TokenFor(t, user.ID)
	category := testkit.SeedCategory(t, db, "Cameras")

	// Create with one image attached.
	create := testkit.MultipartRequest(t, "POST", "/api/products", map[string]string{
		"name":        "DSLR",
		"description": "A camera",
		"price":       "499.99",
		"stock":       "3",
		"category_id": fmt.Sprint(category.ID),
	}, testkit.FilePart{Field: "images", Filename: "front.png", Content: testkit.PNG(t, 1000, 1000)})
	rec := do(api, testkit.Authed(create, token))

	env := testkit.AssertSuccess(t, rec, http.StatusCreated)
	product, ok := env.Data["product"].(map[string]interface{})
	require.True(t, ok)
	require.Equal(t, "DSLR", product["name"])
	require.NotNil(t, product["category"])
	images, ok := product["images"].([]interface{})
	require.True(t, ok)
	require.Len(t, images, 1)

	id := product["id"]

	// Public read.
	rec = do(api, httptest.NewRequest("GET", fmtPath("/api/products/%v", id), nil))
	env = testkit.AssertSuccess(t, rec, http.StatusOK)

	// Owner update.
	rec = do(api, testkit.Authed(testkit.JSONRequest(t, "PUT", fmtPath("/api/products/%v", id), map[string]string{
		"price": "399.00",
	}), token))
	env = testkit.AssertSuccess(t, rec, http.StatusOK)
	product = env.Data["product"].(map[string]interface{})
	require.InDelta(t, 399.00, product["price"].(float64), 0.001)
	require.Equal(t, "DSLR", product["name"])

	// Owner delete, then the product is gone.
	rec = do(api, testkit.Authed(testkit.JSONRequest(t, "DELETE", fmtPath("/api/products/%v", id), nil), token))
	testkit.AssertSuccess(t, rec, http.StatusOK)

	rec = do(api, httptest.NewRequest("GET", fmtPath("/api/products/%v", id), nil))
	testkit.AssertFailure(t, rec, http.StatusNotFound)
}

func TestUpdateAsNonOwnerForbidden(t *testing.T) {
	api, db := newAPI(t)
	owner := testkit.SeedUser(t, db, "Ana", "ana@example.com", "secret123")
	other := testkit.SeedUser(t, db, "Eve", "eve@example.com", "secret123")
	product := testkit.SeedProduct(t, db, owner.ID, "Original", 10, 1)

	rec := do(api, testkit.Authed(testkit.JSONRequest(t, "PUT", fmtPath("/api/products/%v", product.ID), map[string]string{
		"name": "Stolen",
	}), testkit.TokenFor(t, other.ID)))

	env := testkit.AssertFailure(t, rec, http.StatusForbidden)
	require.Equal(t, "You can only update your own products", env.Message)

	var unchanged models.Product
	require.NoError(t, db.First(&unchanged, product.ID).Error)
	require.Equal(t, "Original", unchanged.Name)
}

func TestShowUnknownProduct(t *testing.T) {
	api, _ := newAPI(t)

	rec := do(api, httptest.NewRequest("GET", "/api/products/424242", nil))
	env := testkit.AssertFailure(t, rec, http.StatusNotFound)
	require.Equal(t, "Product not found", env.Message)
}

func TestUploadEndpointRequiresImages(t *testing.T) {
	api, db := newAPI(t)
	user := testkit.SeedUser(t, db, "Ana", "ana@example.com", "secret123")
	product := testkit.SeedProduct(t, db, user.ID, "Camera", 100, 1)

	req := testkit.MultipartRequest(t, "POST", fmtPath("/api/products/%v/images", product.ID), nil)
	rec := do(api, testkit.Authed(req, testkit.TokenFor(t, user.ID)))

	env := testkit.AssertFailure(t, rec, http.StatusUnprocessableEntity)
	require.Contains(t, env.Errors, "images")
}

func TestUploadEndpointRejectsWrongType(t *testing.T) {
	api, db := newAPI(t)
	user := testkit.SeedUser(t, db, "Ana", "ana@example.com", "secret123")
	product := testkit.SeedProduct(t, db, user.ID, "Camera", 100, 1)

	req := testkit.MultipartRequest(t, "POST", fmtPath("/api/products/%v/images", product.ID), nil,
		testkit.FilePart{Field: "images", Filename: "doc.pdf", Content: []byte("%PDF-1.4")})
	rec := do(api, testkit.Authed(req, testkit.TokenFor(t, user.ID)))

	env := testkit.AssertFailure(t, rec, http.StatusUnprocessableEntity)
	require.Contains(t, env.Errors, "images.0")
}

func TestUploadEndpointRejectsCorruptImage(t *testing.T) {
	api, db := newAPI(t)
	user := testkit.SeedUser(t, db, "Ana", "ana@example.com", "secret123")
	product := testkit.SeedProduct(t, db, user.ID, "Camera", 100, 1)

	req := testkit.MultipartRequest(t, "POST", fmtPath("/api/products/%v/images", product.ID), nil,
		testkit.FilePart{Field: "images", Filename: "ok.png", Content: testkit.PNG(t, 300, 200)},
		testkit.FilePart{Field: "images", Filename: "broken.png", Content: []byte("not a png")})
	rec := do(api, testkit.Authed(req, testkit.TokenFor(t, user.ID)))

	env := testkit.AssertFailure(t, rec, http.StatusUnprocessableEntity)
	require.Contains(t, env.Errors, "images.1")
}

func TestListProductsEnvelope(t *testing.T) {
	api, db := newAPI(t)
	user := testkit.SeedUser(t, db, "Ana", "ana@example.com", "secret123")
	for i := 0; i < 20; i++ {
		testkit.SeedProduct(t, db, user.ID, "Item", float64(i), 1)
	}

	rec := do(api, httptest.NewRequest("GET", "/api/products?limit=5&page=2", nil))
	env := testkit.AssertSuccess(t, rec, http.StatusOK)

	products := env.Data["products"].([]interface{})
	require.Len(t, products, 5)

	pagination := env.Data["pagination"].(map[string]interface{})
	require.EqualValues(t, 2, pagination["current_page"])
	require.EqualValues(t, 5, pagination["per_page"])
	require.EqualValues(t, 20, pagination["total"])
	require.EqualValues(t, 4, pagination["last_page"])
	require.EqualValues(t, 6, pagination["from"])
	require.EqualValues(t, 10, pagination["to"])
}

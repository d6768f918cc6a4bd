// Package testkit provides the shared helpers for the catalog test
// suites: a throwaway in-memory database with the full schema, request
// builders for JSON and multipart bodies, and envelope assertions.
package testkit

import (
	"bytes"
	"encoding/json"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/bazario/catalog/app/models"
	"github.com/bazario/catalog/pkg/auth"
)

var dbSeq atomic.Int64

// NewDB opens a fresh in-memory SQLite database with the full catalog
// schema. Each call gets its own database, so tests stay isolated.
func NewDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:testkit%d?mode=memory&cache=shared", dbSeq.Add(1))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err, "open test database")

	// cache=shared needs a single connection or tables can vanish
	// between pool connections.
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Category{},
		&models.Product{},
		&models.ProductImage{},
	), "migrate test schema")

	return db
}

// SeedUser creates a user with a properly hashed password and returns
// it.
func SeedUser(t *testing.T, db *gorm.DB, name, email, password string) models.User {
	t.Helper()

	hashed, err := auth.HashPassword(password)
	require.NoError(t, err)

	user := models.User{Name: name, Email: email, Password: hashed}
	require.NoError(t, db.Create(&user).Error)
	return user
}

// SeedCategory creates a category and returns it. The slug is derived
// from the name.
func SeedCategory(t *testing.T, db *gorm.DB, name string) models.Category {
	t.Helper()

	slug := strings.ToLower(strings.ReplaceAll(name, " ", "-"))
	category := models.Category{Name: name, Slug: slug}
	require.NoError(t, db.Create(&category).Error)
	return category
}

// SeedProduct creates a product owned by userID and returns it.
func SeedProduct(t *testing.T, db *gorm.DB, userID uint, name string, price float64, stock int) models.Product {
	t.Helper()

	product := models.Product{UserID: userID, Name: name, Price: price, Stock: stock}
	require.NoError(t, db.Create(&product).Error)
	return product
}

// TokenFor issues a real token for the user, usable in an
// Authorization header.
func TokenFor(t *testing.T, userID uint) string {
	t.Helper()

	token, err := auth.GenerateToken(userID)
	require.NoError(t, err)
	return token
}

// ─── Request builders ────────────────────────────────────────────────────────

// JSONRequest builds a request with a JSON-encoded body.
func JSONRequest(t *testing.T, method, target string, body interface{}) *http.Request {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	req := httptest.NewRequest(method, target, &buf)
	req.Header.Set("Content-Type", "application/json")
	return req
}

// Authed adds a bearer token to the request and returns it.
func Authed(req *http.Request, token string) *http.Request {
	req.Header.Set("Authorization", "Bearer "+token)
	return req
}

// FilePart is one uploaded file in a multipart request.
type FilePart struct {
	Field    string
	Filename string
	Content  []byte
}

// MultipartRequest builds a multipart/form-data request from text
// fields and file parts.
func MultipartRequest(t *testing.T, method, target string, fields map[string]string, files ...FilePart) *http.Request {
	t.Helper()

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	for key, value := range fields {
		require.NoError(t, w.WriteField(key, value))
	}
	for _, f := range files {
		part, err := w.CreateFormFile(f.Field, f.Filename)
		require.NoError(t, err)
		_, err = io.Copy(part, bytes.NewReader(f.Content))
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())

	req := httptest.NewRequest(method, target, &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	return req
}

// PNG returns an encoded width×height image for upload tests.
func PNG(t *testing.T, width, height int) []byte {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for x := 0; x < width; x++ {
		for y := 0; y < height; y++ {
			img.Set(x, y, color.RGBA{R: uint8(x % 256), G: uint8(y % 256), B: 128, A: 255})
		}
	}

	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

// ─── Envelope assertions ─────────────────────────────────────────────────────

// Envelope mirrors the API's JSON response wrapper.
type Envelope struct {
	Success bool                   `json:"success"`
	Message string                 `json:"message"`
	Data    map[string]interface{} `json:"data"`
	Errors  map[string]string      `json:"errors"`
	Error   string                 `json:"error"`
}

// DecodeEnvelope parses the recorded response body.
func DecodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) Envelope {
	t.Helper()

	var env Envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env), "decode response envelope: %s", rec.Body.String())
	return env
}

// AssertSuccess checks the status code and that the envelope reports
// success.
func AssertSuccess(t *testing.T, rec *httptest.ResponseRecorder, wantStatus int) Envelope {
	t.Helper()

	require.Equal(t, wantStatus, rec.Code, "unexpected status, body: %s", rec.Body.String())
	env := DecodeEnvelope(t, rec)
	require.True(t, env.Success, "expected success envelope, got: %s", rec.Body.String())
	return env
}

// AssertFailure checks the status code and that the envelope reports
// failure.
func AssertFailure(t *testing.T, rec *httptest.ResponseRecorder, wantStatus int) Envelope {
	t.Helper()

	require.Equal(t, wantStatus, rec.Code, "unexpected status, body: %s", rec.Body.String())
	env := DecodeEnvelope(t, rec)
	require.False(t, env.Success, "expected failure envelope, got: %s", rec.Body.String())
	return env
}

// Package services holds the business logic between controllers and
// repositories. Services return the sentinel errors below; controllers
// translate them into HTTP status codes.
package services

import (
	"errors"
	"fmt"
)

var (
	// ErrEmailTaken is returned when registering with an address that
	// already has an account.
	ErrEmailTaken = errors.New("email already registered")

	// ErrInvalidCredentials covers both unknown email and wrong
	// password so the response never reveals which one failed.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrNotFound is returned when the requested record does not exist.
	ErrNotFound = errors.New("record not found")

	// ErrNotOwner is returned when a caller tries to modify a product
	// they did not create.
	ErrNotOwner = errors.New("not the product owner")

	// ErrCategoryNotFound is returned when a product references a
	// category id that does not exist.
	ErrCategoryNotFound = errors.New("category not found")
)

// InvalidImageError is returned when an uploaded file cannot be decoded
// as an image. It aborts the rest of the batch; controllers map it to a
// validation failure on the offending images.N field.
type InvalidImageError struct {
	Index    int
	Filename string
	Err      error
}

func (e *InvalidImageError) Error() string {
	return fmt.Sprintf("invalid image %q at index %d: %v", e.Filename, e.Index, e.Err)
}

func (e *InvalidImageError) Unwrap() error { return e.Err }

// Package controllers translates HTTP requests into service calls and
// service results into the JSON response envelope.
package controllers

import (
	"errors"
	"net/http"

	"gorm.io/gorm"

	"github.com/bazario/catalog/app/models"
	"github.com/bazario/catalog/app/requests"
	"github.com/bazario/catalog/app/services"
	"github.com/bazario/catalog/pkg/auth"
	"github.com/bazario/catalog/pkg/bind"
	"github.com/bazario/catalog/pkg/middleware"
	"github.com/bazario/catalog/pkg/response"
)

// AuthController serves register, login and logout.
type AuthController struct {
	service *services.AuthService
}

func NewAuthController(db *gorm.DB) *AuthController {
	return &AuthController{service: services.NewAuthService(db)}
}

// tokenPayload is the data block returned by register and login.
type tokenPayload struct {
	User        userSummary `json:"user"`
	AccessToken string      `json:"access_token"`
	TokenType   string      `json:"token_type"`
}

type userSummary struct {
	ID    uint   `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

func summarize(u models.User) userSummary {
	return userSummary{ID: u.ID, Name: u.Name, Email: u.Email}
}

// Register handles POST /api/auth/register.
func (c *AuthController) Register(w http.ResponseWriter, r *http.Request) {
	var in requests.RegisterInput
	errs, err := bind.JSON(r, &in)
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if len(errs) > 0 {
		response.ValidationError(w, errs)
		return
	}

	user, token, err := c.service.Register(in)
	if err != nil {
		if errors.Is(err, services.ErrEmailTaken) {
			response.ValidationError(w, map[string]string{
				"email": "The email has already been taken.",
			})
			return
		}
		response.Error(w, http.StatusInternalServerError, "Registration failed", err)
		return
	}

	response.Created(w, "User registered successfully", tokenPayload{
		User:        summarize(user),
		AccessToken: token,
		TokenType:   auth.TokenType,
	})
}

// Login handles POST /api/auth/login.
func (c *AuthController) Login(w http.ResponseWriter, r *http.Request) {
	var in requests.LoginInput
	errs, err := bind.JSON(r, &in)
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if len(errs) > 0 {
		response.ValidationError(w, errs)
		return
	}

	user, token, err := c.service.Login(in)
	if err != nil {
		if errors.Is(err, services.ErrInvalidCredentials) {
			response.Unauthorized(w, "Invalid credentials")
			return
		}
		response.Error(w, http.StatusInternalServerError, "Login failed", err)
		return
	}

	response.Success(w, "Login successful", tokenPayload{
		User:        summarize(user),
		AccessToken: token,
		TokenType:   auth.TokenType,
	})
}

// Logout handles POST /api/auth/logout. It revokes the presented
// token. A token that cannot be revoked (no revocation backend) is not
// an error; a token already revoked never reaches this handler, the
// auth middleware rejects it with 401.
func (c *AuthController) Logout(w http.ResponseWriter, r *http.Request) {
	claims := middleware.CallerClaims(r.Context())
	if err := c.service.Logout(claims); err != nil {
		response.Error(w, http.StatusInternalServerError, "Logout failed", err)
		return
	}
	response.Success(w, "Logged out successfully", nil)
}

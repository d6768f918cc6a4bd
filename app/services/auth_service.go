package services

import (
	"errors"

	"gorm.io/gorm"

	"github.com/bazario/catalog/app/models"
	"github.com/bazario/catalog/app/repositories"
	"github.com/bazario/catalog/app/requests"
	"github.com/bazario/catalog/pkg/auth"
	"github.com/bazario/catalog/pkg/logger"
)

// AuthService implements registration, login and logout.
type AuthService struct {
	users *repositories.UserRepository
}

func NewAuthService(db *gorm.DB) *AuthService {
	return &AuthService{users: repositories.NewUserRepository(db)}
}

// Register creates an account and returns it with a fresh token.
func (s *AuthService) Register(in requests.RegisterInput) (models.User, string, error) {
	taken, err := s.users.EmailTaken(in.Email)
	if err != nil {
		return models.User{}, "", err
	}
	if taken {
		return models.User{}, "", ErrEmailTaken
	}

	hashed, err := auth.HashPassword(in.Password)
	if err != nil {
		return models.User{}, "", err
	}

	user := models.User{Name: in.Name, Email: in.Email, Password: hashed}
	if err := s.users.Create(&user); err != nil {
		return models.User{}, "", err
	}

	token, err := auth.GenerateToken(user.ID)
	if err != nil {
		return models.User{}, "", err
	}

	logger.Info("auth: user registered", "user_id", user.ID)
	return user, token, nil
}

// Login checks the credentials and returns the user with a fresh token.
// Unknown email and wrong password both come back as
// ErrInvalidCredentials.
func (s *AuthService) Login(in requests.LoginInput) (models.User, string, error) {
	user, err := s.users.FindByEmail(in.Email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.User{}, "", ErrInvalidCredentials
		}
		return models.User{}, "", err
	}

	if !auth.CheckPassword(user.Password, in.Password) {
		return models.User{}, "", ErrInvalidCredentials
	}

	token, err := auth.GenerateToken(user.ID)
	if err != nil {
		return models.User{}, "", err
	}

	return user, token, nil
}

// Logout revokes the presented token. Revoking an already-revoked
// token is a no-op, which makes logout idempotent.
func (s *AuthService) Logout(claims *auth.Claims) error {
	if claims == nil {
		return nil
	}
	return auth.RevokeToken(claims)
}

package services_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/bazario/catalog/app/requests"
	"github.com/bazario/catalog/app/services"
	"github.com/bazario/catalog/pkg/auth"
	"github.com/bazario/catalog/pkg/testkit"
)

func TestRegisterIssuesUsableToken(t *testing.T) {
	db := testkit.NewDB(t)
	svc := services.NewAuthService(db)

	user, token, err := svc.Register(requests.RegisterInput{
		Name:     "Ana",
		Email:    "ana@example.com",
		Password: "secret123",
	})
	require.NoError(t, err)
	require.NotZero(t, user.ID)
	require.NotEqual(t, "secret123", user.Password, "password must be stored hashed")

	claims, err := auth.ValidateToken(token)
	require.NoError(t, err)
	require.Equal(t, user.ID, claims.UserID)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	db := testkit.NewDB(t)
	svc := services.NewAuthService(db)

	_, _, err := svc.Register(requests.RegisterInput{Name: "Ana", Email: "ana@example.com", Password: "secret123"})
	require.NoError(t, err)

	_, _, err = svc.Register(requests.RegisterInput{Name: "Impostor", Email: "ana@example.com", Password: "different1"})
	require.ErrorIs(t, err, services.ErrEmailTaken)
}

func TestLoginSuccess(t *testing.T) {
	db := testkit.NewDB(t)
	svc := services.NewAuthService(db)
	seeded := testkit.SeedUser(t, db, "Ana", "ana@example.com", "secret123")

	user, token, err := svc.Login(requests.LoginInput{Email: "ana@example.com", Password: "secret123"})
	require.NoError(t, err)
	require.Equal(t, seeded.ID, user.ID)
	require.NotEmpty(t, token)
}

func TestLoginFailuresLookIdentical(t *testing.T) {
	db := testkit.NewDB(t)
	svc := services.NewAuthService(db)
	testkit.SeedUser(t, db, "Ana", "ana@example.com", "secret123")

	_, _, wrongPassword := svc.Login(requests.LoginInput{Email: "ana@example.com", Password: "nope12345"})
	_, _, unknownEmail := svc.Login(requests.LoginInput{Email: "ghost@example.com", Password: "secret123"})

	require.ErrorIs(t, wrongPassword, services.ErrInvalidCredentials)
	require.ErrorIs(t, unknownEmail, services.ErrInvalidCredentials)
	require.Equal(t, wrongPassword.Error(), unknownEmail.Error(),
		"the error must not reveal whether the email exists")
}

func TestLogoutWithoutTokenIsNoError(t *testing.T) {
	db := testkit.NewDB(t)
	svc := services.NewAuthService(db)

	require.NoError(t, svc.Logout(nil))
}

package services

import (
	"github.com/shashiranjanraj/bazaar/app/models"
	"github.com/shashiranjanraj/bazaar/app/repositories"
	"github.com/shashiranjanraj/bazaar/pkg/apperr"
	"github.com/shashiranjanraj/bazaar/pkg/auth"
)

// AuthService issues tokens for the protected catalog and checkout routes.
type AuthService struct {
	users *repositories.UserRepository
}

func NewAuthService() *AuthService {
	return &AuthService{users: repositories.NewUserRepository()}
}

func NewAuthServiceWith(users *repositories.UserRepository) *AuthService {
	return &AuthService{users: users}
}

// Login verifies the credentials and returns a signed token.
func (s *AuthService) Login(email, password string) (string, models.User, error) {
	user, err := s.users.FindByEmail(email)
	if err != nil {
		return "", models.User{}, apperr.New(apperr.NotFound, "invalid email or password")
	}
	if !auth.CheckPassword(user.Password, password) {
		return "", models.User{}, apperr.New(apperr.NotFound, "invalid email or password")
	}

	token, err := auth.GenerateToken(user.ID, user.Role)
	if err != nil {
		return "", models.User{}, apperr.Wrap(apperr.Persistence, "could not issue token", err)
	}
	return token, user, nil
}

// Register creates a user with a hashed password.
func (s *AuthService) Register(name, email, password string) (models.User, error) {
	if _, err := s.users.FindByEmail(email); err == nil {
		return models.User{}, apperr.New(apperr.Conflict, "email is already registered")
	}

	hashed, err := auth.HashPassword(password)
	if err != nil {
		return models.User{}, apperr.Wrap(apperr.Persistence, "could not hash password", err)
	}

	user := models.User{Name: name, Email: email, Password: hashed, Role: "user"}
	if err := s.users.Create(&user); err != nil {
		return models.User{}, apperr.Wrap(apperr.Persistence, "could not create user", err)
	}
	return user, nil
}

package service

import (
	"context"
	"errors"
	"log"
	"time"

	"timologio/internal/middleware"
	"timologio/internal/model"
	"timologio/internal/repository"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// checkoutTokenTTL bounds the storefront token: long enough for a checkout
// session, short enough that a leaked token is useless soon after.
const checkoutTokenTTL = 15 * time.Minute

// --- DTOs ---

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type TokenResponse struct {
	Token string `json:"token"`
}

type AuthService interface {
	Login(ctx context.Context, req LoginRequest) (*TokenResponse, error)
	// CheckoutToken issues the short-lived token storefront pages must send
	// with every VAT lookup request.
	CheckoutToken() (*TokenResponse, error)
	// EnsureAdmin seeds the admin account on startup when it does not exist.
	EnsureAdmin(ctx context.Context, username, email, password string) error
}

type authService struct {
	users repository.UserRepository
}

func NewAuthService(users repository.UserRepository) AuthService {
	return &authService{users: users}
}

// --- Implementation ---

func (s *authService) Login(ctx context.Context, req LoginRequest) (*TokenResponse, error) {
	user, err := s.users.GetByEmail(ctx, req.Email)
	if err != nil {
		return nil, errors.New("invalid email or password")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return nil, errors.New("invalid email or password")
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":  user.ID.String(),
		"role": user.Role,
		"exp":  time.Now().Add(24 * time.Hour).Unix(),
	})

	tokenString, err := token.SignedString(middleware.GetJWTSecret())
	if err != nil {
		return nil, errors.New("failed to generate token")
	}

	return &TokenResponse{Token: tokenString}, nil
}

func (s *authService) CheckoutToken() (*TokenResponse, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"jti":  uuid.New().String(),
		"role": model.RoleCheckout,
		"exp":  time.Now().Add(checkoutTokenTTL).Unix(),
	})

	tokenString, err := token.SignedString(middleware.GetJWTSecret())
	if err != nil {
		return nil, errors.New("failed to generate token")
	}

	return &TokenResponse{Token: tokenString}, nil
}

func (s *authService) EnsureAdmin(ctx context.Context, username, email, password string) error {
	if username == "" || email == "" || password == "" {
		return nil
	}

	if _, err := s.users.GetByEmail(ctx, email); err == nil {
		return nil
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	user := &model.User{
		Username: username,
		Email:    email,
		Password: string(hashed),
		Role:     model.RoleAdmin,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return err
	}

	log.Printf("Seeded admin account %s", email)
	return nil
}

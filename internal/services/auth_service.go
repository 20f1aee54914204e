package services

import (
	"errors"
	"fmt"
	"log"
	"regexp"
	"strings"
	"time"

	"watchlog/internal/models"
	"watchlog/internal/repositories"

	"github.com/dgrijalva/jwt-go"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// emailRegex is deliberately loose: something before an @, something after,
// and a dot in the domain part.
var emailRegex = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// AuthService handles business logic for accounts and authentication.
type AuthService struct {
	userRepo    repositories.UserRepository
	jwtSecret   []byte
	tokenTTL    time.Duration
	rememberTTL time.Duration
}

// NewAuthService creates a new AuthService.
func NewAuthService(userRepo repositories.UserRepository, jwtSecret string) *AuthService {
	return &AuthService{
		userRepo:    userRepo,
		jwtSecret:   []byte(jwtSecret),
		tokenTTL:    24 * time.Hour,
		rememberTTL: 30 * 24 * time.Hour, // "remember me" keeps the session for a month
	}
}

// Register validates and creates a new account. Emails are lowercased and
// trimmed before the duplicate check, so uniqueness is case-insensitive.
// The returned user has its password hash redacted.
func (s *AuthService) Register(name, email, password string) (*models.User, error) {
	name = strings.TrimSpace(name)
	email = strings.ToLower(strings.TrimSpace(email))

	if name == "" || email == "" || password == "" {
		return nil, failf(ErrInvalidInput, "all fields are required")
	}
	if !emailRegex.MatchString(email) {
		return nil, failf(ErrInvalidInput, "please enter a valid email address")
	}
	if len(password) < 6 {
		return nil, failf(ErrInvalidInput, "password must be at least 6 characters long")
	}

	if existing, err := s.userRepo.GetByEmail(email); err == nil && existing != nil {
		return nil, failf(ErrDuplicate, "an account with this email already exists")
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		ID:       uuid.New().String(),
		Name:     name,
		Email:    email,
		Password: string(hashed),
	}
	if err := s.userRepo.Create(user); err != nil {
		return nil, fmt.Errorf("failed to register user: %w", err)
	}

	created := *user
	created.Password = ""
	return &created, nil
}

// Login authenticates a user and returns a signed token plus a redacted user
// view. A missing account and a wrong password produce the identical generic
// error, so callers cannot enumerate accounts. With remember set the token
// lives for rememberTTL instead of tokenTTL.
func (s *AuthService) Login(email, password string, remember bool) (string, *models.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return "", nil, failf(ErrInvalidInput, "email and password are required")
	}

	user, err := s.userRepo.GetByEmail(email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", nil, ErrInvalidCredentials
		}
		return "", nil, fmt.Errorf("failed to look up user: %w", err)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return "", nil, ErrInvalidCredentials
	}

	ttl := s.tokenTTL
	if remember {
		ttl = s.rememberTTL
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": user.ID,
		"name":    user.Name,
		"email":   user.Email,
		"exp":     time.Now().Add(ttl).Unix(),
		"iat":     time.Now().Unix(),
	})
	tokenString, err := token.SignedString(s.jwtSecret)
	if err != nil {
		return "", nil, fmt.Errorf("failed to generate token: %w", err)
	}

	view := *user
	view.Password = ""
	return tokenString, &view, nil
}

// ValidateToken parses and validates a JWT token, returning the claims if valid.
func (s *AuthService) ValidateToken(tokenString string) (jwt.MapClaims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.jwtSecret, nil
	})
	if err != nil {
		log.Printf("Token validation error: %v", err)
		return nil, fmt.Errorf("invalid token: %w", err)
	}

	if claims, ok := token.Claims.(jwt.MapClaims); ok && token.Valid {
		return claims, nil
	}
	return nil, fmt.Errorf("invalid token")
}

// GetUser returns the account with the given ID, password redacted.
func (s *AuthService) GetUser(id string) (*models.User, error) {
	user, err := s.userRepo.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, failf(ErrNotFound, "user not found")
		}
		return nil, err
	}
	view := *user
	view.Password = ""
	return &view, nil
}

// UserUpdate carries the optional fields of an account update; empty fields
// are left unchanged.
type UserUpdate struct {
	Name     string
	Email    string
	Password string
}

// UpdateUser shallow-merges the given fields into an existing account. Email
// uniqueness is checked at registration only, never here. A new password is
// re-hashed before storage.
func (s *AuthService) UpdateUser(id string, update UserUpdate) (*models.User, error) {
	user, err := s.userRepo.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, failf(ErrNotFound, "user not found")
		}
		return nil, err
	}

	if name := strings.TrimSpace(update.Name); name != "" {
		user.Name = name
	}
	if email := strings.ToLower(strings.TrimSpace(update.Email)); email != "" {
		if !emailRegex.MatchString(email) {
			return nil, failf(ErrInvalidInput, "please enter a valid email address")
		}
		user.Email = email
	}
	if update.Password != "" {
		if len(update.Password) < 6 {
			return nil, failf(ErrInvalidInput, "password must be at least 6 characters long")
		}
		hashed, err := bcrypt.GenerateFromPassword([]byte(update.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, fmt.Errorf("failed to hash password: %w", err)
		}
		user.Password = string(hashed)
	}

	if err := s.userRepo.Update(user); err != nil {
		return nil, fmt.Errorf("failed to update user: %w", err)
	}

	view := *user
	view.Password = ""
	return &view, nil
}

// DeleteUser removes an account. The user's movie entries are left in place,
// keyed by a user ID that no longer resolves.
func (s *AuthService) DeleteUser(id string) error {
	if err := s.userRepo.Delete(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return failf(ErrNotFound, "user not found")
		}
		return fmt.Errorf("failed to delete user: %w", err)
	}
	return nil
}

package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Pranay9392/meity-audit-v2/internal/config"
	"github.com/Pranay9392/meity-audit-v2/internal/models"
)

const (
	maxFailedLogins = 5
	lockoutDuration = 15 * time.Minute
	tokenLifetime   = 24 * time.Hour
)

// AuthService registers accounts and issues JWT sessions. The role is chosen
// at registration and never changes afterwards; the core services receive the
// resolved actor and do no credential checks of their own.
type AuthService struct {
	db  *gorm.DB
	cfg config.Config
}

func NewAuthService(db *gorm.DB, cfg config.Config) *AuthService {
	return &AuthService{db: db, cfg: cfg}
}

// Register creates a new account with the given immutable role.
func (s *AuthService) Register(username, email, password string, role models.Role, organization string) (*models.User, error) {
	if strings.TrimSpace(username) == "" {
		return nil, &ValidationError{Field: "username", Reason: "required"}
	}
	if len(password) < 8 {
		return nil, &ValidationError{Field: "password", Reason: "must be at least 8 characters"}
	}
	if !role.Valid() {
		return nil, &ValidationError{Field: "role", Reason: fmt.Sprintf("unknown role '%s'", role)}
	}

	var existing models.User
	if err := s.db.Where("username = ?", username).First(&existing).Error; err == nil {
		return nil, ErrUsernameTaken
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	user := models.User{
		UUID:         uuid.NewString(),
		Username:     username,
		Email:        email,
		Role:         role,
		Organization: organization,
	}
	if err := user.SetPassword(password); err != nil {
		return nil, err
	}
	if err := s.db.Create(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// Login verifies credentials and returns a signed token. Accounts lock for a
// while after repeated failures.
func (s *AuthService) Login(username, password string) (string, error) {
	var user models.User
	if err := s.db.Where("username = ?", username).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", ErrInvalidCredentials
		}
		return "", err
	}

	if user.LockedUntil != nil && user.LockedUntil.After(time.Now()) {
		return "", ErrAccountLocked
	}

	if !user.CheckPassword(password) {
		user.FailedLoginAttempts++
		if user.FailedLoginAttempts >= maxFailedLogins {
			until := time.Now().Add(lockoutDuration)
			user.LockedUntil = &until
		}
		if err := s.db.Save(&user).Error; err != nil {
			return "", err
		}
		return "", ErrInvalidCredentials
	}

	now := time.Now()
	user.FailedLoginAttempts = 0
	user.LockedUntil = nil
	user.LastLogin = &now
	if err := s.db.Save(&user).Error; err != nil {
		return "", err
	}

	return s.issueToken(&user)
}

func (s *AuthService) issueToken(user *models.User) (string, error) {
	claims := jwt.MapClaims{
		"sub":  user.UUID,
		"role": string(user.Role),
		"iat":  time.Now().Unix(),
		"exp":  time.Now().Add(tokenLifetime).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.cfg.JWTSecret))
}

// VerifyToken parses a token and resolves it to its user.
func (s *AuthService) VerifyToken(tokenString string) (*models.User, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(s.cfg.JWTSecret), nil
	})
	if err != nil || !token.Valid {
		return nil, ErrInvalidCredentials
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, ErrInvalidCredentials
	}
	sub, _ := claims["sub"].(string)
	if sub == "" {
		return nil, ErrInvalidCredentials
	}
	return s.GetUserByUUID(sub)
}

// GetUserByUUID fetches a user by its public identifier.
func (s *AuthService) GetUserByUUID(id string) (*models.User, error) {
	var user models.User
	if err := s.db.Where("uuid = ?", id).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v5"

	"blogsphere/internal/apperror"
	"blogsphere/internal/config"
	"blogsphere/internal/models"
	"blogsphere/internal/repository"
	"blogsphere/internal/session"
)

const (
	minPasswordLength = 6
	msgAllRequired    = "All fields are required"
	msgBadCredentials = "Invalid credentials. Please check your email and password"
)

type AuthService interface {
	Register(ctx context.Context, req models.RegisterRequest) (*models.User, error)
	Login(ctx context.Context, req models.LoginRequest) (*models.LoginResponse, error)
	ValidateToken(tokenString string) (*session.Session, error)
}

// Claims is the payload of an access token.
type Claims struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	jwt.RegisteredClaims
}

type authService struct {
	userRepo repository.UserRepository
	cfg      *config.Config
	validate *validator.Validate
	now      func() time.Time
}

func NewAuthService(userRepo repository.UserRepository, cfg *config.Config) AuthService {
	return &authService{
		userRepo: userRepo,
		cfg:      cfg,
		validate: newValidator(),
		now:      time.Now,
	}
}

func (s *authService) Register(ctx context.Context, req models.RegisterRequest) (*models.User, error) {
	req.Name = strings.TrimSpace(req.Name)
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))

	if err := checkStruct(s.validate, req, msgAllRequired); err != nil {
		return nil, err
	}

	existingUser, err := s.userRepo.GetUserByEmail(ctx, req.Email)
	if err == nil && existingUser != nil {
		return nil, apperror.Conflict("Email already exists")
	}
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return nil, apperror.Internal("User registration failed", err)
	}

	if len(strings.TrimSpace(req.Password)) < minPasswordLength {
		return nil, apperror.Validation("Password must be at least 6 characters")
	}
	if req.Password != req.ConfirmPassword {
		return nil, apperror.Validation("Passwords do not match")
	}

	user := &models.User{
		Name:  req.Name,
		Email: req.Email,
	}

	if err := s.userRepo.CreateUser(ctx, user, req.Password); err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return nil, apperror.Conflict("Email already exists")
		}
		return nil, apperror.Internal("User registration failed", err)
	}

	return user, nil
}

func (s *authService) Login(ctx context.Context, req models.LoginRequest) (*models.LoginResponse, error) {
	if err := checkStruct(s.validate, req, msgAllRequired); err != nil {
		return nil, err
	}

	user, err := s.userRepo.VerifyPassword(ctx, req.Email, req.Password)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) || errors.Is(err, repository.ErrInvalidPassword) {
			return nil, apperror.Unauthorized(msgBadCredentials)
		}
		return nil, apperror.Internal("User login failed", err)
	}

	token, err := s.generateAccessToken(user)
	if err != nil {
		return nil, apperror.Internal("User login failed", err)
	}

	return &models.LoginResponse{Token: token, ID: user.UserID, Name: user.Name}, nil
}

func (s *authService) generateAccessToken(user *models.User) (string, error) {
	now := s.now()
	claims := Claims{
		ID:   user.UserID,
		Name: user.Name,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(s.cfg.AccessTokenDuration)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	tokenString, err := token.SignedString([]byte(s.cfg.JWTSecretKey))
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}

	return tokenString, nil
}

// ValidateToken checks signature and expiry and returns the identity the
// token carries.
func (s *authService) ValidateToken(tokenString string) (*session.Session, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.cfg.JWTSecretKey), nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		return nil, apperror.Unauthorized("Unauthorized. Invalid token")
	}

	if !token.Valid || claims.ID == "" {
		return nil, apperror.Unauthorized("Unauthorized. Invalid token")
	}

	return &session.Session{
		UserID:    claims.ID,
		Name:      claims.Name,
		ExpiresAt: claims.ExpiresAt.Time,
	}, nil
}

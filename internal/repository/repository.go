package repository

import (
	"context"
	"errors"

	"github.com/jmoiron/sqlx"

	"blogsphere/internal/models"
)

var (
	ErrNotFound        = errors.New("record not found")
	ErrDuplicateEmail  = errors.New("email already exists")
	ErrInvalidPassword = errors.New("invalid password")
)

type UserRepository interface {
	CreateUser(ctx context.Context, user *models.User, password string) error
	GetUserByID(ctx context.Context, userID string) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	ListUsers(ctx context.Context) ([]models.User, error)
	UpdateProfile(ctx context.Context, user *models.User, password string) error
	UpdateAvatar(ctx context.Context, userID string, avatar models.ImageRef) error
	VerifyPassword(ctx context.Context, email, password string) (*models.User, error)
}

type PostRepository interface {
	Create(ctx context.Context, post *models.Post) error
	GetByID(ctx context.Context, postID string) (*models.Post, error)
	ListAll(ctx context.Context) ([]models.Post, error)
	ListByCategory(ctx context.Context, category string) ([]models.Post, error)
	ListByCreator(ctx context.Context, creatorID string) ([]models.Post, error)
	Update(ctx context.Context, post *models.Post) error
	Delete(ctx context.Context, postID, creatorID string) error
}

type TablesRepository interface {
	CountTablesDB(ctx context.Context) (int, error)
}

type Repository struct {
	User   UserRepository
	Post   PostRepository
	Tables TablesRepository
}

func NewRepository(db *sqlx.DB) *Repository {
	return &Repository{
		User:   NewUserRepository(db),
		Post:   NewPostRepository(db),
		Tables: NewTablesRepository(db),
	}
}

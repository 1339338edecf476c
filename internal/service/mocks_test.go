package service

import (
	"context"
	"io"

	"github.com/stretchr/testify/mock"

	"blogsphere/internal/models"
)

const (
	userA     = "2f6a1c4e-8b3d-4e7f-9a10-3c5d7e9f1b21"
	userB     = "9d4b2e6f-1a3c-4d5e-8f70-b1c2d3e4f5a6"
	postA     = "5b0c3f6e-7a8d-4c1e-9f2a-1d3b5c7e9a01"
	postB     = "6c1d4a7f-8b9e-4d2f-a03b-2e4c6d8f0b12"
	missingID = "00000000-0000-4000-8000-000000000000"
)

type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) CreateUser(ctx context.Context, user *models.User, password string) error {
	args := m.Called(ctx, user, password)
	return args.Error(0)
}

func (m *MockUserRepository) GetUserByID(ctx context.Context, userID string) (*models.User, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) ListUsers(ctx context.Context) ([]models.User, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.User), args.Error(1)
}

func (m *MockUserRepository) UpdateProfile(ctx context.Context, user *models.User, password string) error {
	args := m.Called(ctx, user, password)
	return args.Error(0)
}

func (m *MockUserRepository) UpdateAvatar(ctx context.Context, userID string, avatar models.ImageRef) error {
	args := m.Called(ctx, userID, avatar)
	return args.Error(0)
}

func (m *MockUserRepository) VerifyPassword(ctx context.Context, email, password string) (*models.User, error) {
	args := m.Called(ctx, email, password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

type MockPostRepository struct {
	mock.Mock
}

func (m *MockPostRepository) Create(ctx context.Context, post *models.Post) error {
	args := m.Called(ctx, post)
	return args.Error(0)
}

func (m *MockPostRepository) GetByID(ctx context.Context, postID string) (*models.Post, error) {
	args := m.Called(ctx, postID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Post), args.Error(1)
}

func (m *MockPostRepository) ListAll(ctx context.Context) ([]models.Post, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Post), args.Error(1)
}

func (m *MockPostRepository) ListByCategory(ctx context.Context, category string) ([]models.Post, error) {
	args := m.Called(ctx, category)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Post), args.Error(1)
}

func (m *MockPostRepository) ListByCreator(ctx context.Context, creatorID string) ([]models.Post, error) {
	args := m.Called(ctx, creatorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Post), args.Error(1)
}

func (m *MockPostRepository) Update(ctx context.Context, post *models.Post) error {
	args := m.Called(ctx, post)
	return args.Error(0)
}

func (m *MockPostRepository) Delete(ctx context.Context, postID, creatorID string) error {
	args := m.Called(ctx, postID, creatorID)
	return args.Error(0)
}

type MockStore struct {
	mock.Mock
}

func (m *MockStore) Save(ctx context.Context, folder, fileName string, file io.Reader, size int64) (models.ImageRef, error) {
	args := m.Called(ctx, folder, fileName, file, size)
	return args.Get(0).(models.ImageRef), args.Error(1)
}

func (m *MockStore) Delete(ctx context.Context, ref models.ImageRef) error {
	args := m.Called(ctx, ref)
	return args.Error(0)
}

type MockPostCache struct {
	mock.Mock
}

func (m *MockPostCache) Generation(ctx context.Context) (int64, bool) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Bool(1)
}

func (m *MockPostCache) GetPosts(ctx context.Context, gen int64, key string) ([]models.Post, bool) {
	args := m.Called(ctx, gen, key)
	if args.Get(0) == nil {
		return nil, args.Bool(1)
	}
	return args.Get(0).([]models.Post), args.Bool(1)
}

func (m *MockPostCache) SetPosts(ctx context.Context, gen int64, key string, posts []models.Post) {
	m.Called(ctx, gen, key, posts)
}

func (m *MockPostCache) Invalidate(ctx context.Context) {
	m.Called(ctx)
}

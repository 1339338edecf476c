package service

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"blogsphere/internal/apperror"
	"blogsphere/internal/models"
	"blogsphere/internal/repository"
	"blogsphere/internal/storage"
)

func hashed(t *testing.T, password string) string {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	return string(hash)
}

func TestUserService_GetProfile(t *testing.T) {
	repo := new(MockUserRepository)
	svc := NewUserService(repo, new(MockStore), testConfig(), zap.NewNop())

	repo.On("GetUserByID", mock.Anything, userA).Return(&models.User{UserID: userA, Name: "Ann"}, nil)
	repo.On("GetUserByID", mock.Anything, missingID).Return(nil, repository.ErrNotFound)

	user, err := svc.GetProfile(context.Background(), userA)
	require.NoError(t, err)
	assert.Equal(t, "Ann", user.Name)

	_, err = svc.GetProfile(context.Background(), missingID)
	assert.Equal(t, http.StatusNotFound, apperror.StatusOf(err))
	assert.Equal(t, msgUserNotFound, apperror.MessageOf(err))

	_, err = svc.GetProfile(context.Background(), "abc")
	assert.Equal(t, http.StatusNotFound, apperror.StatusOf(err))
	repo.AssertNotCalled(t, "GetUserByID", mock.Anything, "abc")
}

func TestUserService_ListAuthors(t *testing.T) {
	repo := new(MockUserRepository)
	svc := NewUserService(repo, new(MockStore), testConfig(), zap.NewNop())

	repo.On("ListUsers", mock.Anything).Return(nil, errors.New("boom")).Once()
	_, err := svc.ListAuthors(context.Background())
	assert.Equal(t, "Failed to fetch authors. Please try again later.", apperror.MessageOf(err))

	repo.On("ListUsers", mock.Anything).Return([]models.User{{Name: "Ann"}, {Name: "Bob"}}, nil)
	users, err := svc.ListAuthors(context.Background())
	require.NoError(t, err)
	assert.Len(t, users, 2)
}

func TestUserService_ChangeAvatar(t *testing.T) {
	oldAvatar := models.ImageRef{Kind: models.ImageLocal, Key: "avatars-old.png"}
	newAvatar := models.ImageRef{Kind: models.ImageLocal, Key: "avatars-new.png"}

	t.Run("replaces and removes the previous avatar", func(t *testing.T) {
		repo := new(MockUserRepository)
		store := new(MockStore)
		svc := NewUserService(repo, store, testConfig(), zap.NewNop())

		repo.On("GetUserByID", mock.Anything, userA).Return(&models.User{UserID: userA, Avatar: &oldAvatar}, nil)
		store.On("Save", mock.Anything, storage.FolderAvatars, "me.png", mock.Anything, mock.Anything).Return(newAvatar, nil)
		repo.On("UpdateAvatar", mock.Anything, userA, newAvatar).Return(nil)
		store.On("Delete", mock.Anything, oldAvatar).Return(nil)

		ref, err := svc.ChangeAvatar(context.Background(), userA, pngUpload("me.png"))

		require.NoError(t, err)
		assert.Equal(t, newAvatar, ref)
		repo.AssertExpectations(t)
		store.AssertExpectations(t)
	})

	t.Run("first avatar", func(t *testing.T) {
		repo := new(MockUserRepository)
		store := new(MockStore)
		svc := NewUserService(repo, store, testConfig(), zap.NewNop())

		repo.On("GetUserByID", mock.Anything, userA).Return(&models.User{UserID: userA}, nil)
		store.On("Save", mock.Anything, storage.FolderAvatars, "me.png", mock.Anything, mock.Anything).Return(newAvatar, nil)
		repo.On("UpdateAvatar", mock.Anything, userA, newAvatar).Return(nil)

		_, err := svc.ChangeAvatar(context.Background(), userA, pngUpload("me.png"))

		require.NoError(t, err)
		store.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
	})

	t.Run("no file", func(t *testing.T) {
		svc := NewUserService(new(MockUserRepository), new(MockStore), testConfig(), zap.NewNop())

		_, err := svc.ChangeAvatar(context.Background(), userA, nil)

		assert.Equal(t, http.StatusUnprocessableEntity, apperror.StatusOf(err))
	})

	t.Run("failed update removes the new file", func(t *testing.T) {
		repo := new(MockUserRepository)
		store := new(MockStore)
		svc := NewUserService(repo, store, testConfig(), zap.NewNop())

		repo.On("GetUserByID", mock.Anything, userA).Return(&models.User{UserID: userA, Avatar: &oldAvatar}, nil)
		store.On("Save", mock.Anything, storage.FolderAvatars, "me.png", mock.Anything, mock.Anything).Return(newAvatar, nil)
		repo.On("UpdateAvatar", mock.Anything, userA, newAvatar).Return(errors.New("boom"))
		store.On("Delete", mock.Anything, newAvatar).Return(nil)

		_, err := svc.ChangeAvatar(context.Background(), userA, pngUpload("me.png"))

		assert.Equal(t, "Avatar could not be updated.", apperror.MessageOf(err))
		store.AssertNotCalled(t, "Delete", mock.Anything, oldAvatar)
		store.AssertExpectations(t)
	})
}

func TestUserService_EditProfile(t *testing.T) {
	valid := models.EditUserRequest{
		Name:            "Ann",
		Email:           "ann@example.com",
		CurrentPassword: "secret1",
		NewPassword:     "secret2",
		ConfirmPassword: "secret2",
	}

	tests := []struct {
		name       string
		req        func() models.EditUserRequest
		setupMock  func(t *testing.T, repo *MockUserRepository)
		wantStatus int
		wantMsg    string
	}{
		{
			name: "missing field",
			req: func() models.EditUserRequest {
				r := valid
				r.CurrentPassword = ""
				return r
			},
			setupMock:  func(t *testing.T, repo *MockUserRepository) {},
			wantStatus: http.StatusUnprocessableEntity,
			wantMsg:    msgAllRequired,
		},
		{
			name: "wrong current password",
			req:  func() models.EditUserRequest { return valid },
			setupMock: func(t *testing.T, repo *MockUserRepository) {
				repo.On("GetUserByID", mock.Anything, userA).
					Return(&models.User{UserID: userA, PasswordHash: hashed(t, "different")}, nil)
			},
			wantStatus: http.StatusUnprocessableEntity,
			wantMsg:    "Invalid current password. Please check your credentials",
		},
		{
			name: "email belongs to someone else",
			req:  func() models.EditUserRequest { return valid },
			setupMock: func(t *testing.T, repo *MockUserRepository) {
				repo.On("GetUserByID", mock.Anything, userA).
					Return(&models.User{UserID: userA, PasswordHash: hashed(t, "secret1")}, nil)
				repo.On("GetUserByEmail", mock.Anything, "ann@example.com").Return(&models.User{UserID: userB}, nil)
			},
			wantStatus: http.StatusConflict,
			wantMsg:    "Email already exists",
		},
		{
			name: "new passwords differ",
			req: func() models.EditUserRequest {
				r := valid
				r.ConfirmPassword = "secret3"
				return r
			},
			setupMock: func(t *testing.T, repo *MockUserRepository) {
				repo.On("GetUserByID", mock.Anything, userA).
					Return(&models.User{UserID: userA, PasswordHash: hashed(t, "secret1")}, nil)
				repo.On("GetUserByEmail", mock.Anything, "ann@example.com").Return(nil, repository.ErrNotFound)
			},
			wantStatus: http.StatusUnprocessableEntity,
			wantMsg:    "New Passwords do not match",
		},
		{
			name: "new password too short",
			req: func() models.EditUserRequest {
				r := valid
				r.NewPassword, r.ConfirmPassword = "abc", "abc"
				return r
			},
			setupMock: func(t *testing.T, repo *MockUserRepository) {
				repo.On("GetUserByID", mock.Anything, userA).
					Return(&models.User{UserID: userA, PasswordHash: hashed(t, "secret1")}, nil)
				repo.On("GetUserByEmail", mock.Anything, "ann@example.com").Return(nil, repository.ErrNotFound)
			},
			wantStatus: http.StatusUnprocessableEntity,
			wantMsg:    "Password must be at least 6 characters",
		},
		{
			name: "success keeping own email",
			req:  func() models.EditUserRequest { return valid },
			setupMock: func(t *testing.T, repo *MockUserRepository) {
				repo.On("GetUserByID", mock.Anything, userA).
					Return(&models.User{UserID: userA, PasswordHash: hashed(t, "secret1")}, nil)
				repo.On("GetUserByEmail", mock.Anything, "ann@example.com").Return(&models.User{UserID: userA}, nil)
				repo.On("UpdateProfile", mock.Anything, mock.MatchedBy(func(u *models.User) bool {
					return u.Name == "Ann" && u.Email == "ann@example.com"
				}), "secret2").Return(nil)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(MockUserRepository)
			tt.setupMock(t, repo)
			svc := NewUserService(repo, new(MockStore), testConfig(), zap.NewNop())

			user, err := svc.EditProfile(context.Background(), userA, tt.req())

			if tt.wantStatus != 0 {
				assert.Equal(t, tt.wantStatus, apperror.StatusOf(err))
				assert.Equal(t, tt.wantMsg, apperror.MessageOf(err))
				repo.AssertNotCalled(t, "UpdateProfile", mock.Anything, mock.Anything, mock.Anything)
			} else {
				require.NoError(t, err)
				assert.Equal(t, "Ann", user.Name)
			}
			repo.AssertExpectations(t)
		})
	}
}

package service

import (
	"context"
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"blogsphere/internal/apperror"
	"blogsphere/internal/config"
	"blogsphere/internal/models"
	"blogsphere/internal/repository"
	"blogsphere/internal/storage"
)

const msgUserNotFound = "User does not exist"

type UserService interface {
	GetProfile(ctx context.Context, userID string) (*models.User, error)
	ListAuthors(ctx context.Context) ([]models.User, error)
	ChangeAvatar(ctx context.Context, userID string, avatar *models.Upload) (models.ImageRef, error)
	EditProfile(ctx context.Context, userID string, req models.EditUserRequest) (*models.User, error)
}

type userService struct {
	userRepo repository.UserRepository
	store    storage.Store
	validate *validator.Validate
	cfg      *config.Config
	log      *zap.Logger
}

func NewUserService(userRepo repository.UserRepository, store storage.Store, cfg *config.Config, log *zap.Logger) UserService {
	return &userService{
		userRepo: userRepo,
		store:    store,
		validate: newValidator(),
		cfg:      cfg,
		log:      log,
	}
}

func (s *userService) GetProfile(ctx context.Context, userID string) (*models.User, error) {
	if !validID(userID) {
		return nil, apperror.NotFound(msgUserNotFound)
	}
	user, err := s.userRepo.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperror.NotFound(msgUserNotFound)
		}
		return nil, apperror.Internal("Failed to fetch user", err)
	}
	return user, nil
}

func (s *userService) ListAuthors(ctx context.Context) ([]models.User, error) {
	users, err := s.userRepo.ListUsers(ctx)
	if err != nil {
		return nil, apperror.Internal("Failed to fetch authors. Please try again later.", err)
	}
	return users, nil
}

// ChangeAvatar stores the new image, points the user at it and then drops
// the previous one.
func (s *userService) ChangeAvatar(ctx context.Context, userID string, avatar *models.Upload) (models.ImageRef, error) {
	if avatar == nil {
		return models.ImageRef{}, apperror.Validation("No file uploaded! Please choose an image.")
	}
	if _, err := storage.ValidateImage(avatar, s.cfg.Upload.MaxAvatarSize); err != nil {
		return models.ImageRef{}, err
	}

	user, err := s.GetProfile(ctx, userID)
	if err != nil {
		return models.ImageRef{}, err
	}

	ref, err := s.store.Save(ctx, storage.FolderAvatars, avatar.FileName, avatar.Content, avatar.Size)
	if err != nil {
		return models.ImageRef{}, apperror.Internal("Failed to upload file.", err)
	}

	if err := s.userRepo.UpdateAvatar(ctx, userID, ref); err != nil {
		s.removeImage(ctx, ref)
		return models.ImageRef{}, apperror.Internal("Avatar could not be updated.", err)
	}

	if user.Avatar != nil {
		s.removeImage(ctx, *user.Avatar)
	}

	return ref, nil
}

func (s *userService) EditProfile(ctx context.Context, userID string, req models.EditUserRequest) (*models.User, error) {
	req.Name = strings.TrimSpace(req.Name)
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))

	if err := checkStruct(s.validate, req, msgAllRequired); err != nil {
		return nil, err
	}

	user, err := s.GetProfile(ctx, userID)
	if err != nil {
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.CurrentPassword)); err != nil {
		return nil, apperror.Validation("Invalid current password. Please check your credentials")
	}

	other, err := s.userRepo.GetUserByEmail(ctx, req.Email)
	switch {
	case err == nil && other.UserID != user.UserID:
		return nil, apperror.Conflict("Email already exists")
	case err != nil && !errors.Is(err, repository.ErrNotFound):
		return nil, apperror.Internal("Failed to update user", err)
	}

	if len(strings.TrimSpace(req.NewPassword)) < minPasswordLength {
		return nil, apperror.Validation("Password must be at least 6 characters")
	}
	if req.NewPassword != req.ConfirmPassword {
		return nil, apperror.Validation("New Passwords do not match")
	}

	user.Name = req.Name
	user.Email = req.Email

	if err := s.userRepo.UpdateProfile(ctx, user, req.NewPassword); err != nil {
		switch {
		case errors.Is(err, repository.ErrDuplicateEmail):
			return nil, apperror.Conflict("Email already exists")
		case errors.Is(err, repository.ErrNotFound):
			return nil, apperror.NotFound(msgUserNotFound)
		}
		return nil, apperror.Internal("Failed to update user", err)
	}

	return user, nil
}

func (s *userService) removeImage(ctx context.Context, ref models.ImageRef) {
	if err := s.store.Delete(ctx, ref); err != nil {
		s.log.Error("failed to remove image", zap.String("key", ref.Key), zap.Error(err))
	}
}

package service

import (
	"context"
	"errors"
	"strings"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"
	"github.com/microcosm-cc/bluemonday"
	"go.uber.org/zap"

	"blogsphere/internal/apperror"
	"blogsphere/internal/cache"
	"blogsphere/internal/config"
	"blogsphere/internal/models"
	"blogsphere/internal/repository"
	"blogsphere/internal/storage"
)

const (
	minEditDescLength = 12
	msgEditInvalid    = "All fields are required and description must be at least 12 characters long"
	msgPostNotFound   = "Post does not exist"
)

type PostService interface {
	CreatePost(ctx context.Context, creatorID string, input models.PostInput, thumbnail *models.Upload) (*models.Post, error)
	GetPost(ctx context.Context, postID string) (*models.Post, error)
	ListPosts(ctx context.Context) ([]models.Post, error)
	ListByCategory(ctx context.Context, category string) ([]models.Post, error)
	ListByAuthor(ctx context.Context, authorID string) ([]models.Post, error)
	EditPost(ctx context.Context, requestorID, postID string, input models.PostInput, thumbnail *models.Upload) (*models.Post, error)
	DeletePost(ctx context.Context, requestorID, postID string) error
}

type postService struct {
	postRepo repository.PostRepository
	store    storage.Store
	cache    cache.PostCache
	policy   *bluemonday.Policy
	validate *validator.Validate
	cfg      *config.Config
	log      *zap.Logger
}

func NewPostService(postRepo repository.PostRepository, store storage.Store, postCache cache.PostCache, cfg *config.Config, log *zap.Logger) PostService {
	if postCache == nil {
		postCache = cache.NopCache{}
	}
	return &postService{
		postRepo: postRepo,
		store:    store,
		cache:    postCache,
		policy:   bluemonday.UGCPolicy(),
		validate: newValidator(),
		cfg:      cfg,
		log:      log,
	}
}

func (p *postService) CreatePost(ctx context.Context, creatorID string, input models.PostInput, thumbnail *models.Upload) (*models.Post, error) {
	input = p.clean(input)
	if err := checkStruct(p.validate, input, ""); err != nil {
		return nil, err
	}

	if thumbnail == nil {
		return nil, apperror.Validation("Thumbnail is required")
	}
	if _, err := storage.ValidateImage(thumbnail, p.cfg.Upload.MaxThumbnailSize); err != nil {
		return nil, err
	}

	ref, err := p.store.Save(ctx, storage.FolderThumbnails, thumbnail.FileName, thumbnail.Content, thumbnail.Size)
	if err != nil {
		return nil, apperror.Internal("Failed to upload file", err)
	}

	post := &models.Post{
		Title:     input.Title,
		Category:  input.Category,
		Desc:      input.Desc,
		Thumbnail: ref,
		CreatorID: creatorID,
	}

	if err := p.postRepo.Create(ctx, post); err != nil {
		p.removeImage(ctx, ref)
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperror.NotFound("User does not exist")
		}
		return nil, apperror.Internal("Failed to create post", err)
	}

	p.cache.Invalidate(ctx)
	p.log.Info("post created", zap.String("post_id", post.PostID), zap.String("creator_id", creatorID))

	return post, nil
}

func (p *postService) GetPost(ctx context.Context, postID string) (*models.Post, error) {
	if !validID(postID) {
		return nil, apperror.NotFound(msgPostNotFound)
	}

	post, err := p.postRepo.GetByID(ctx, postID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperror.NotFound(msgPostNotFound)
		}
		return nil, apperror.Internal("Failed to fetch post", err)
	}
	return post, nil
}

func (p *postService) ListPosts(ctx context.Context) ([]models.Post, error) {
	return p.cachedList(ctx, cache.KeyAll(), func() ([]models.Post, error) {
		return p.postRepo.ListAll(ctx)
	})
}

func (p *postService) ListByCategory(ctx context.Context, category string) ([]models.Post, error) {
	return p.cachedList(ctx, cache.KeyCategory(category), func() ([]models.Post, error) {
		return p.postRepo.ListByCategory(ctx, category)
	})
}

func (p *postService) ListByAuthor(ctx context.Context, authorID string) ([]models.Post, error) {
	if !validID(authorID) {
		return []models.Post{}, nil
	}
	return p.cachedList(ctx, cache.KeyAuthor(authorID), func() ([]models.Post, error) {
		return p.postRepo.ListByCreator(ctx, authorID)
	})
}

func (p *postService) EditPost(ctx context.Context, requestorID, postID string, input models.PostInput, thumbnail *models.Upload) (*models.Post, error) {
	post, err := p.GetPost(ctx, postID)
	if err != nil {
		return nil, err
	}
	if post.CreatorID != requestorID {
		return nil, apperror.Forbidden("Post could not be edited")
	}

	input = p.clean(input)
	if err := checkStruct(p.validate, input, msgEditInvalid); err != nil {
		return nil, err
	}
	if utf8.RuneCountInString(input.Desc) < minEditDescLength {
		return nil, apperror.Validation(msgEditInvalid)
	}

	var newRef models.ImageRef
	if thumbnail != nil {
		if _, err := storage.ValidateImage(thumbnail, p.cfg.Upload.MaxThumbnailSize); err != nil {
			return nil, err
		}
		newRef, err = p.store.Save(ctx, storage.FolderThumbnails, thumbnail.FileName, thumbnail.Content, thumbnail.Size)
		if err != nil {
			return nil, apperror.Internal("Failed to upload file", err)
		}
	}

	oldRef := post.Thumbnail
	post.Title = input.Title
	post.Category = input.Category
	post.Desc = input.Desc
	if !newRef.IsZero() {
		post.Thumbnail = newRef
	}

	if err := p.postRepo.Update(ctx, post); err != nil {
		if !newRef.IsZero() {
			p.removeImage(ctx, newRef)
		}
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperror.NotFound(msgPostNotFound)
		}
		return nil, apperror.Internal("Failed to update post", err)
	}

	if !newRef.IsZero() {
		p.removeImage(ctx, oldRef)
	}
	p.cache.Invalidate(ctx)

	return post, nil
}

func (p *postService) DeletePost(ctx context.Context, requestorID, postID string) error {
	post, err := p.GetPost(ctx, postID)
	if err != nil {
		return err
	}
	if post.CreatorID != requestorID {
		return apperror.Forbidden("Post could not be deleted")
	}

	if err := p.postRepo.Delete(ctx, postID, requestorID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apperror.NotFound(msgPostNotFound)
		}
		return apperror.Internal("Post could not be deleted", err)
	}

	// the row is gone, a leftover file is only logged
	p.removeImage(ctx, post.Thumbnail)

	p.cache.Invalidate(ctx)
	p.log.Info("post deleted", zap.String("post_id", postID), zap.String("creator_id", requestorID))

	return nil
}

func (p *postService) cachedList(ctx context.Context, key string, fetch func() ([]models.Post, error)) ([]models.Post, error) {
	gen, cacheable := p.cache.Generation(ctx)
	if cacheable {
		if posts, ok := p.cache.GetPosts(ctx, gen, key); ok {
			return posts, nil
		}
	}

	posts, err := fetch()
	if err != nil {
		return nil, apperror.Internal("Failed to fetch posts", err)
	}

	if cacheable {
		p.cache.SetPosts(ctx, gen, key, posts)
	}
	return posts, nil
}

// clean trims the plain fields and sanitizes the HTML description.
func (p *postService) clean(input models.PostInput) models.PostInput {
	input.Title = strings.TrimSpace(input.Title)
	input.Category = strings.TrimSpace(input.Category)
	input.Desc = strings.TrimSpace(p.policy.Sanitize(input.Desc))
	return input
}

func (p *postService) removeImage(ctx context.Context, ref models.ImageRef) {
	err := p.store.Delete(ctx, ref)
	switch {
	case err == nil:
	case errors.Is(err, storage.ErrForeignImage):
		p.log.Warn("image kept, written by another store", zap.String("key", ref.Key))
	default:
		p.log.Error("failed to remove image", zap.String("key", ref.Key), zap.Error(err))
	}
}

package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"blogsphere/internal/models"
)

const postColumns = `post_id, title, category, description, thumbnail, creator_id, created_at, updated_at`

type postRepository struct {
	db *sqlx.DB
}

func NewPostRepository(db *sqlx.DB) PostRepository {
	return &postRepository{db: db}
}

// Create inserts the post and bumps the creator's post counter in one transaction.
func (r *postRepository) Create(ctx context.Context, post *models.Post) error {
	post.PostID = uuid.New().String()
	now := time.Now().UTC()
	post.CreatedAt = now
	post.UpdatedAt = now
	if post.Category == "" {
		post.Category = models.DefaultCategory
	}

	return r.withTx(ctx, func(tx *sqlx.Tx) error {
		query := `
			INSERT INTO posts (post_id, title, category, description, thumbnail, creator_id, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		`
		_, err := tx.ExecContext(ctx, query,
			post.PostID, post.Title, post.Category, post.Desc, post.Thumbnail, post.CreatorID, post.CreatedAt, post.UpdatedAt)
		if err != nil {
			if isInvalidID(err) {
				return fmt.Errorf("user %s: %w", post.CreatorID, ErrNotFound)
			}
			return fmt.Errorf("failed to create post: %w", err)
		}

		result, err := tx.ExecContext(ctx, `UPDATE users SET posts = posts + 1 WHERE user_id = $1`, post.CreatorID)
		if err != nil {
			return fmt.Errorf("failed to increment post counter: %w", err)
		}

		return expectOneRow(result, "user "+post.CreatorID)
	})
}

func (r *postRepository) GetByID(ctx context.Context, postID string) (*models.Post, error) {
	var post models.Post

	query := `SELECT ` + postColumns + ` FROM posts WHERE post_id = $1`

	err := r.db.GetContext(ctx, &post, query, postID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) || isInvalidID(err) {
			return nil, fmt.Errorf("post %s: %w", postID, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get post: %w", err)
	}

	return &post, nil
}

func (r *postRepository) ListAll(ctx context.Context) ([]models.Post, error) {
	query := `SELECT ` + postColumns + ` FROM posts ORDER BY updated_at DESC`
	return r.list(ctx, query)
}

func (r *postRepository) ListByCategory(ctx context.Context, category string) ([]models.Post, error) {
	query := `SELECT ` + postColumns + ` FROM posts WHERE category = $1 ORDER BY created_at DESC`
	return r.list(ctx, query, category)
}

func (r *postRepository) ListByCreator(ctx context.Context, creatorID string) ([]models.Post, error) {
	query := `SELECT ` + postColumns + ` FROM posts WHERE creator_id = $1 ORDER BY created_at DESC`
	return r.list(ctx, query, creatorID)
}

// Update rewrites the editable fields. Rows owned by someone else are
// reported as not found.
func (r *postRepository) Update(ctx context.Context, post *models.Post) error {
	post.UpdatedAt = time.Now().UTC()

	query := `
		UPDATE posts
		SET title = $1, category = $2, description = $3, thumbnail = $4, updated_at = $5
		WHERE post_id = $6 AND creator_id = $7
	`

	result, err := r.db.ExecContext(ctx, query,
		post.Title, post.Category, post.Desc, post.Thumbnail, post.UpdatedAt, post.PostID, post.CreatorID)
	if err != nil {
		if isInvalidID(err) {
			return fmt.Errorf("post %s: %w", post.PostID, ErrNotFound)
		}
		return fmt.Errorf("failed to update post: %w", err)
	}

	return expectOneRow(result, "post "+post.PostID)
}

// Delete removes the post and decrements the creator's counter, never below zero.
func (r *postRepository) Delete(ctx context.Context, postID, creatorID string) error {
	return r.withTx(ctx, func(tx *sqlx.Tx) error {
		result, err := tx.ExecContext(ctx, `DELETE FROM posts WHERE post_id = $1 AND creator_id = $2`, postID, creatorID)
		if err != nil {
			if isInvalidID(err) {
				return fmt.Errorf("post %s: %w", postID, ErrNotFound)
			}
			return fmt.Errorf("failed to delete post: %w", err)
		}
		if err := expectOneRow(result, "post "+postID); err != nil {
			return err
		}

		_, err = tx.ExecContext(ctx, `UPDATE users SET posts = GREATEST(posts - 1, 0) WHERE user_id = $1`, creatorID)
		if err != nil {
			return fmt.Errorf("failed to decrement post counter: %w", err)
		}

		return nil
	})
}

func (r *postRepository) list(ctx context.Context, query string, args ...any) ([]models.Post, error) {
	posts := []models.Post{}

	if err := r.db.SelectContext(ctx, &posts, query, args...); err != nil {
		if isInvalidID(err) {
			return []models.Post{}, nil
		}
		return nil, fmt.Errorf("failed to list posts: %w", err)
	}

	return posts, nil
}

func (r *postRepository) withTx(ctx context.Context, fn func(tx *sqlx.Tx) error) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"blogsphere/internal/cache"
	"blogsphere/internal/config"
	"blogsphere/internal/database"
	"blogsphere/internal/repository"
	"blogsphere/internal/service"
	"blogsphere/internal/storage"
)

type App struct {
	DB       *database.DB
	Repo     *repository.Repository
	Services *service.Service

	closers []func() error
}

func New(ctx context.Context, cfg *config.Config, log *zap.Logger) (*App, error) {
	// connection DB
	db, err := database.ConnectDB(cfg, log)
	if err != nil {
		return nil, err
	}
	a := &App{DB: db, closers: []func() error{db.CloseDB}}

	// image store
	store, err := NewStore(ctx, cfg, log)
	if err != nil {
		_ = a.Close()
		return nil, err
	}

	postCache, closeCache := newPostCache(ctx, cfg, log)
	a.closers = append(a.closers, closeCache)

	// enabling dependencies
	a.Repo = repository.NewRepository(db.DB)
	a.Services = service.NewService(a.Repo, cfg, store, postCache, log)

	return a, nil
}

// NewStore picks the image backend named by UPLOAD_DRIVER.
func NewStore(ctx context.Context, cfg *config.Config, log *zap.Logger) (storage.Store, error) {
	switch cfg.Upload.Driver {
	case config.UploadDriverMinIO:
		client, err := storage.NewMinIOClient(cfg.MinIO)
		if err != nil {
			return nil, err
		}

		ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
		defer cancel()
		if err := client.EnsureBucket(ctx); err != nil {
			return nil, err
		}

		log.Info("storing images in MinIO",
			zap.String("endpoint", cfg.MinIO.Endpoint),
			zap.String("bucket", cfg.MinIO.BucketName),
		)
		return client, nil
	case config.UploadDriverLocal:
		store, err := storage.NewLocalStore(cfg.Upload.Dir, cfg.Upload.PublicBaseURL)
		if err != nil {
			return nil, err
		}
		log.Info("storing images on disk", zap.String("dir", store.Dir()))
		return store, nil
	default:
		return nil, fmt.Errorf("unknown upload driver %q", cfg.Upload.Driver)
	}
}

func newPostCache(ctx context.Context, cfg *config.Config, log *zap.Logger) (cache.PostCache, func() error) {
	if cfg.Redis.Addr == "" {
		log.Info("post list cache disabled")
		return cache.NopCache{}, func() error { return nil }
	}

	rc := cache.NewRedisClient(cfg.Redis)

	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := rc.Ping(pingCtx).Err(); err != nil {
		log.Warn("redis is not reachable, listings will hit the database", zap.Error(err))
	}

	return cache.NewRedisCache(rc, cfg.Redis.CacheTTL, log), rc.Close
}

func (a *App) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

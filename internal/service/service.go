package service

import (
	"go.uber.org/zap"

	"blogsphere/internal/cache"
	"blogsphere/internal/config"
	"blogsphere/internal/repository"
	"blogsphere/internal/storage"
)

type Service struct {
	User   UserService
	Post   PostService
	Auth   AuthService
	Tables TablesService
}

func NewService(rep *repository.Repository, cfg *config.Config, store storage.Store, postCache cache.PostCache, log *zap.Logger) *Service {
	return &Service{
		User:   NewUserService(rep.User, store, cfg, log),
		Post:   NewPostService(rep.Post, store, postCache, cfg, log),
		Auth:   NewAuthService(rep.User, cfg),
		Tables: NewTablesService(rep.Tables),
	}
}

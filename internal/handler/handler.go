package handlers

import (
	"go.uber.org/zap"

	"blogsphere/internal/config"
	"blogsphere/internal/database"
	"blogsphere/internal/service"
)

type Handlers struct {
	UserService   service.UserService
	AuthService   service.AuthService
	PostService   service.PostService
	TablesService service.TablesService
	DB            database.MethodsDB
	Cfg           *config.Config
	Log           *zap.Logger
}

func NewHandlers(service *service.Service, db database.MethodsDB, config *config.Config, log *zap.Logger) *Handlers {
	return &Handlers{
		UserService:   service.User,
		AuthService:   service.Auth,
		PostService:   service.Post,
		TablesService: service.Tables,
		DB:            db,
		Cfg:           config,
		Log:           log,
	}
}

package router

import (
	"net/http"
	"strings"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"blogsphere/internal/config"
	handlers "blogsphere/internal/handler"
	"blogsphere/internal/middleware"
)

// New builds the HTTP handler serving the whole API.
func New(h *handlers.Handlers, cfg *config.Config, log *zap.Logger) http.Handler {
	r := mux.NewRouter()
	r.NotFoundHandler = handlers.NotFoundHandler()
	r.MethodNotAllowedHandler = handlers.MethodNotAllowedHandler()

	auth := middleware.AuthMiddleware(h.AuthService)
	limiter := middleware.NewRateLimiter(cfg.RateLimitPerMinute)

	r.HandleFunc("/health", h.Health).Methods(http.MethodGet)

	api := r.PathPrefix("/api").Subrouter()

	// users
	api.Handle("/users/register", limiter.Middleware(http.HandlerFunc(h.Register))).Methods(http.MethodPost)
	api.Handle("/users/login", limiter.Middleware(http.HandlerFunc(h.Login))).Methods(http.MethodPost)
	api.Handle("/users/change-avatar", auth(http.HandlerFunc(h.ChangeAvatar))).Methods(http.MethodPost)
	api.Handle("/users/edit-user", auth(http.HandlerFunc(h.EditUser))).Methods(http.MethodPatch)
	api.HandleFunc("/users", h.GetAuthors).Methods(http.MethodGet)
	api.HandleFunc("/users/", h.GetAuthors).Methods(http.MethodGet)
	api.HandleFunc("/users/{id}", h.GetUser).Methods(http.MethodGet)

	// posts
	api.Handle("/posts/create", auth(http.HandlerFunc(h.CreatePost))).Methods(http.MethodPost)
	api.HandleFunc("/posts/get-all", h.GetPosts).Methods(http.MethodGet)
	api.HandleFunc("/posts/post/{id}", h.GetPost).Methods(http.MethodGet)
	api.HandleFunc("/posts/categories/{category}", h.GetCategoryPosts).Methods(http.MethodGet)
	api.HandleFunc("/posts/authors/{id}", h.GetUserPosts).Methods(http.MethodGet)
	api.Handle("/posts/{id}", auth(http.HandlerFunc(h.EditPost))).Methods(http.MethodPatch)
	api.Handle("/posts/{id}", auth(http.HandlerFunc(h.DeletePost))).Methods(http.MethodDelete)

	if cfg.Upload.Driver == config.UploadDriverLocal {
		files := http.StripPrefix("/uploads/", http.FileServer(http.Dir(cfg.Upload.Dir)))
		r.PathPrefix("/uploads/").Handler(noListing(files)).Methods(http.MethodGet, http.MethodHead)
	}

	return middleware.Chain(r,
		middleware.RecoverMiddleware(log),
		middleware.LoggingMiddleware(log),
		middleware.CORSMiddleware,
	)
}

func noListing(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasSuffix(r.URL.Path, "/") {
			handlers.WriteError(w, "Not found", http.StatusNotFound)
			return
		}
		next.ServeHTTP(w, r)
	})
}

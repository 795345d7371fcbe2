package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"pulsegram/internal/handler"
	"pulsegram/internal/httputil"
	authmw "pulsegram/internal/transport/http/middleware"
)

// RouterConfig holds the dependencies needed to create routes
type RouterConfig struct {
	AuthHandler         *handler.AuthHandler
	UserHandler         *handler.UserHandler
	FollowHandler       *handler.FollowHandler
	FeedHandler         *handler.FeedHandler
	PostHandler         *handler.PostHandler
	CommentHandler      *handler.CommentHandler
	HashtagHandler      *handler.HashtagHandler
	VerificationHandler *handler.VerificationHandler
	MediaHandler        *handler.MediaHandler // nil when blob storage is not configured
	JWTSecret           string
}

// NewRouter creates and configures a new Chi router with all route groups
func NewRouter(cfg RouterConfig) chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		httputil.WriteJSON(w, 200, map[string]string{"status": "ok"})
	})

	// Public routes - no authentication required
	r.Route("/auth", func(r chi.Router) {
		r.Post("/register", cfg.AuthHandler.Register)
		r.Post("/login", cfg.AuthHandler.Login)
		r.Post("/refresh", cfg.AuthHandler.Refresh)
	})

	// Public endpoints with optional authentication: an anonymous view
	// works, a token enriches the response with viewer state
	r.Group(func(r chi.Router) {
		r.Use(authmw.OptionalAuthMiddleware(cfg.JWTSecret))

		r.Route("/users", func(r chi.Router) {
			r.Get("/search", cfg.UserHandler.Search)
			r.Get("/{id}", cfg.UserHandler.GetProfile)
			r.Get("/{id}/followers", cfg.FollowHandler.GetFollowers)
			r.Get("/{id}/following", cfg.FollowHandler.GetFollowing)
			r.Get("/{id}/posts", cfg.PostHandler.GetUserPosts)
		})

		r.Get("/posts/{id}", cfg.PostHandler.GetByID)
		r.Get("/posts/{id}/comments", cfg.CommentHandler.List)
		r.Get("/posts/{id}/likes", cfg.PostHandler.GetLikers)

		r.Route("/hashtags", func(r chi.Router) {
			r.Get("/trending", cfg.HashtagHandler.Trending)
			r.Get("/search", cfg.HashtagHandler.Search)
			r.Get("/{tag}", cfg.HashtagHandler.GetByTag)
		})
	})

	// Protected routes - require authentication
	r.Group(func(r chi.Router) {
		r.Use(authmw.AuthMiddleware(cfg.JWTSecret))

		r.Get("/me", cfg.AuthHandler.Me)
		r.Patch("/me", cfg.UserHandler.UpdateProfile)

		r.Post("/auth/logout", cfg.AuthHandler.Logout)
		r.Post("/auth/logout-all", cfg.AuthHandler.LogoutAll)

		r.Post("/users/{id}/follow", cfg.FollowHandler.Follow)
		r.Delete("/users/{id}/follow", cfg.FollowHandler.Unfollow)

		r.Get("/feed", cfg.FeedHandler.GetFeed)

		r.Post("/posts", cfg.PostHandler.Create)
		r.Delete("/posts/{id}", cfg.PostHandler.Delete)
		r.Post("/posts/{id}/like", cfg.PostHandler.ToggleLike)

		r.Post("/posts/{id}/comments", cfg.CommentHandler.Create)
		r.Delete("/comments/{id}", cfg.CommentHandler.Delete)

		r.Route("/verification", func(r chi.Router) {
			r.Post("/requests", cfg.VerificationHandler.Submit)
			r.Get("/requests", cfg.VerificationHandler.ListPending)
			r.Get("/status", cfg.VerificationHandler.Status)
			r.Post("/requests/{id}/approve", cfg.VerificationHandler.Approve)
			r.Post("/requests/{id}/reject", cfg.VerificationHandler.Reject)
		})

		if cfg.MediaHandler != nil {
			r.Route("/media", func(r chi.Router) {
				r.Post("/avatar", cfg.MediaHandler.UploadAvatar)
				r.Post("/cover", cfg.MediaHandler.UploadCover)
				r.Post("/posts", cfg.MediaHandler.UploadPostMedia)
			})
		}
	})

	return r
}

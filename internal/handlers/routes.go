package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/sirupsen/logrus"

	"github.com/vaughan-dsouza/BeSocial/internal/logger"
	"github.com/vaughan-dsouza/BeSocial/internal/middleware"
	"github.com/vaughan-dsouza/BeSocial/internal/utils"
)

// NewRouter builds the route table. Reads are public; every mutation needs
// an authenticated actor, and updates/deletes also pass the owner check
// inside the handler.
func NewRouter(h *Handler, access utils.Signer, log logrus.FieldLogger, corsOrigins []string) http.Handler {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(logger.Middleware(log))
	r.Use(chimw.Recoverer)
	r.Use(chimw.StripSlashes)
	r.Use(chimw.GetHead)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: corsOrigins,
		AllowedMethods: []string{"GET", "HEAD", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Authorization", "Content-Type"},
		MaxAge:         300,
	}))
	r.Use(middleware.Authenticate(access))

	r.Get("/healthz", h.Health)

	r.Route("/auth", func(r chi.Router) {
		r.Post("/register", h.Auth.Register)
		r.Post("/login", h.Auth.Login)
		r.Post("/refresh", h.Auth.Refresh)

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireAuth)
			r.Get("/user", h.Auth.Me)
			r.Post("/logout", h.Auth.Logout)
		})
	})

	r.Route("/posts", func(r chi.Router) {
		r.Get("/", h.Posts.GetPosts)
		r.Get("/{id}", h.Posts.GetPostByID)

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireAuth)
			r.Post("/", h.Posts.CreatePost)
			r.Put("/{id}", h.Posts.UpdatePost)
			r.Patch("/{id}", h.Posts.UpdatePost)
			r.Delete("/{id}", h.Posts.DeletePost)
			r.Post("/{id}/comment", h.Posts.AddComment)
			r.Post("/{id}/like", h.Posts.ToggleLike)
		})
	})

	r.Route("/comments", func(r chi.Router) {
		r.Get("/", h.Comments.GetComments)
		r.Get("/{id}", h.Comments.GetCommentByID)

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireAuth)
			r.Put("/{id}", h.Comments.UpdateComment)
			r.Patch("/{id}", h.Comments.UpdateComment)
			r.Delete("/{id}", h.Comments.DeleteComment)
		})
	})

	r.Route("/likes", func(r chi.Router) {
		r.Get("/", h.Likes.GetLikes)
		r.Get("/{id}", h.Likes.GetLikeByID)
	})

	return r
}

package handlers

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/sirupsen/logrus"

	"github.com/vaughan-dsouza/BeSocial/internal/media"
	"github.com/vaughan-dsouza/BeSocial/internal/models"
	"github.com/vaughan-dsouza/BeSocial/internal/store"
	"github.com/vaughan-dsouza/BeSocial/internal/utils"
)

type UserStore interface {
	CreateUser(ctx context.Context, username, email, passwordHash string) (models.User, error)
	GetUserByID(ctx context.Context, id int64) (models.User, error)
	GetUserByUsername(ctx context.Context, username string) (models.User, error)
	SaveRefreshToken(ctx context.Context, userID int64, token string, expiresAt time.Time) error
	RotateRefreshToken(ctx context.Context, userID int64, oldToken, newToken string, expiresAt time.Time) error
	DeleteRefreshToken(ctx context.Context, token string) error
}

type PostStore interface {
	ListPosts(ctx context.Context) ([]models.Post, error)
	GetPost(ctx context.Context, id int64) (models.Post, error)
	CreatePost(ctx context.Context, authorID int64, title, body string, image *string) (models.Post, error)
	UpdatePost(ctx context.Context, id int64, title, body string) (models.Post, error)
	DeletePost(ctx context.Context, id int64) error
	CreateComment(ctx context.Context, postID, authorID int64, body string) (models.Comment, error)
	ToggleLike(ctx context.Context, postID, userID int64) (models.ToggleResult, error)
}

type CommentStore interface {
	ListComments(ctx context.Context) ([]models.Comment, error)
	GetComment(ctx context.Context, id int64) (models.Comment, error)
	UpdateComment(ctx context.Context, id int64, body string) (models.Comment, error)
	DeleteComment(ctx context.Context, id int64) error
}

type LikeStore interface {
	ListLikes(ctx context.Context) ([]models.Like, error)
	GetLike(ctx context.Context, id int64) (models.Like, error)
}

// Store is everything the HTTP layer needs; *store.Store satisfies it.
type Store interface {
	UserStore
	PostStore
	CommentStore
	LikeStore
	Ping(ctx context.Context) error
}

var _ Store = (*store.Store)(nil)

type Deps struct {
	Store         Store
	Media         media.Store // nil disables image uploads
	Log           logrus.FieldLogger
	Access        utils.Signer
	Refresh       utils.Signer
	MaxImageBytes int64
}

type Handler struct {
	Store    Store
	Auth     *AuthHandler
	Posts    *PostHandler
	Comments *CommentHandler
	Likes    *LikeHandler
}

func NewHandler(d Deps) *Handler {
	return &Handler{
		Store:    d.Store,
		Auth:     NewAuthHandler(d.Store, d.Access, d.Refresh, d.Log),
		Posts:    NewPostHandler(d.Store, d.Media, d.MaxImageBytes, d.Log),
		Comments: NewCommentHandler(d.Store, d.Log),
		Likes:    NewLikeHandler(d.Store, d.Log),
	}
}

// Health pings the database.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if err := h.Store.Ping(ctx); err != nil {
		utils.JSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
		return
	}
	utils.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

const (
	msgForbidden = "you do not have permission to perform this action"
	msgInternal  = "internal error"
)

// idParam reads {id}. Non-numeric ids cannot match a row, so they 404.
func idParam(w http.ResponseWriter, r *http.Request, resource string) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		utils.JSONError(w, http.StatusNotFound, resource+" not found")
		return 0, false
	}
	return id, true
}

// storeError maps store failures onto responses. Causes of 500s are logged,
// never sent to the client.
func storeError(w http.ResponseWriter, r *http.Request, log logrus.FieldLogger, err error, resource string) {
	if errors.Is(err, store.ErrNotFound) {
		utils.JSONError(w, http.StatusNotFound, resource+" not found")
		return
	}
	log.WithError(err).WithFields(logrus.Fields{
		"method": r.Method,
		"path":   r.URL.Path,
	}).Error("storage failure")
	utils.JSONError(w, http.StatusInternalServerError, msgInternal)
}

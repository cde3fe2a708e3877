package handlers

import (
	"net/http"

	"github.com/sirupsen/logrus"

	"github.com/vaughan-dsouza/BeSocial/internal/utils"
)

// LikeHandler is read-only; likes change through PostHandler.ToggleLike.
type LikeHandler struct {
	Store LikeStore
	log   logrus.FieldLogger
}

func NewLikeHandler(s LikeStore, log logrus.FieldLogger) *LikeHandler {
	return &LikeHandler{Store: s, log: log}
}

func (h *LikeHandler) GetLikes(w http.ResponseWriter, r *http.Request) {
	likes, err := h.Store.ListLikes(r.Context())
	if err != nil {
		storeError(w, r, h.log, err, "like")
		return
	}
	utils.JSON(w, http.StatusOK, likes)
}

func (h *LikeHandler) GetLikeByID(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r, "like")
	if !ok {
		return
	}

	like, err := h.Store.GetLike(r.Context(), id)
	if err != nil {
		storeError(w, r, h.log, err, "like")
		return
	}
	utils.JSON(w, http.StatusOK, like)
}

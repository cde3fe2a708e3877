package handlers

import (
	"net/http"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/vaughan-dsouza/BeSocial/internal/policy"
	"github.com/vaughan-dsouza/BeSocial/internal/utils"
)

// CommentHandler serves the /comments collection. New comments are posted
// through PostHandler.AddComment so their post always comes from the URL.
type CommentHandler struct {
	Store CommentStore
	log   logrus.FieldLogger
}

func NewCommentHandler(s CommentStore, log logrus.FieldLogger) *CommentHandler {
	return &CommentHandler{Store: s, log: log}
}

func (h *CommentHandler) GetComments(w http.ResponseWriter, r *http.Request) {
	comments, err := h.Store.ListComments(r.Context())
	if err != nil {
		storeError(w, r, h.log, err, "comment")
		return
	}
	utils.JSON(w, http.StatusOK, comments)
}

func (h *CommentHandler) GetCommentByID(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r, "comment")
	if !ok {
		return
	}

	comment, err := h.Store.GetComment(r.Context(), id)
	if err != nil {
		storeError(w, r, h.log, err, "comment")
		return
	}
	utils.JSON(w, http.StatusOK, comment)
}

// UpdateComment serves PUT and PATCH; body is the only writable field.
func (h *CommentHandler) UpdateComment(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r, "comment")
	if !ok {
		return
	}

	comment, err := h.Store.GetComment(r.Context(), id)
	if err != nil {
		storeError(w, r, h.log, err, "comment")
		return
	}

	if !policy.Allow(r.Method, utils.ActorFrom(r.Context()), comment) {
		utils.JSONError(w, http.StatusForbidden, msgForbidden)
		return
	}

	var body struct {
		Body *string `json:"body"`
	}
	if err := utils.DecodeJSON(w, r, &body); err != nil {
		return
	}

	in := commentInput{Body: comment.Body}
	if r.Method == http.MethodPut {
		in = commentInput{}
	}
	if body.Body != nil {
		in.Body = strings.TrimSpace(*body.Body)
	}
	if errs := utils.Validate(in); errs != nil {
		utils.JSONFieldErrors(w, errs)
		return
	}

	updated, err := h.Store.UpdateComment(r.Context(), id, in.Body)
	if err != nil {
		storeError(w, r, h.log, err, "comment")
		return
	}
	utils.JSON(w, http.StatusOK, updated)
}

func (h *CommentHandler) DeleteComment(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r, "comment")
	if !ok {
		return
	}

	comment, err := h.Store.GetComment(r.Context(), id)
	if err != nil {
		storeError(w, r, h.log, err, "comment")
		return
	}

	if !policy.Allow(r.Method, utils.ActorFrom(r.Context()), comment) {
		utils.JSONError(w, http.StatusForbidden, msgForbidden)
		return
	}

	if err := h.Store.DeleteComment(r.Context(), id); err != nil {
		storeError(w, r, h.log, err, "comment")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

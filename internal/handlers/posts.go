package handlers

import (
	"errors"
	"mime"
	"net/http"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/vaughan-dsouza/BeSocial/internal/media"
	"github.com/vaughan-dsouza/BeSocial/internal/models"
	"github.com/vaughan-dsouza/BeSocial/internal/policy"
	"github.com/vaughan-dsouza/BeSocial/internal/utils"
)

type PostHandler struct {
	Store         PostStore
	Media         media.Store
	MaxImageBytes int64
	log           logrus.FieldLogger
}

func NewPostHandler(s PostStore, m media.Store, maxImageBytes int64, log logrus.FieldLogger) *PostHandler {
	return &PostHandler{Store: s, Media: m, MaxImageBytes: maxImageBytes, log: log}
}

const (
	msgInvalidImage  = "Upload a valid image. The file you uploaded was either not an image or a corrupted image."
	msgImageTooLarge = "The uploaded image is too large."
)

type postInput struct {
	Title string `json:"title" validate:"required,max=200"`
	Body  string `json:"body" validate:"required"`
}

type postPatch struct {
	Title *string `json:"title"`
	Body  *string `json:"body"`
}

type commentInput struct {
	Body string `json:"body" validate:"required"`
}

// ---------------------- CREATE ----------------------

// CreatePost accepts JSON, or multipart/form-data when an image is attached.
func (h *PostHandler) CreatePost(w http.ResponseWriter, r *http.Request) {
	actor := utils.ActorFrom(r.Context())

	var (
		in    postInput
		image *string
	)

	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType == "multipart/form-data" {
		url, ok := h.readMultipart(w, r, &in)
		if !ok {
			return
		}
		image = url
	} else {
		if err := utils.DecodeJSON(w, r, &in); err != nil {
			return
		}
		in.Title = strings.TrimSpace(in.Title)
		in.Body = strings.TrimSpace(in.Body)
		if errs := utils.Validate(in); errs != nil {
			utils.JSONFieldErrors(w, errs)
			return
		}
	}

	post, err := h.Store.CreatePost(r.Context(), actor.UserID, in.Title, in.Body, image)
	if err != nil {
		if image != nil {
			h.log.WithField("image", *image).Warn("orphaned image: post was not saved")
		}
		storeError(w, r, h.log, err, "post")
		return
	}

	h.log.WithFields(logrus.Fields{"post_id": post.ID, "user_id": actor.UserID}).Info("post created")
	utils.JSON(w, http.StatusCreated, post)
}

// readMultipart fills in from the form and uploads the optional image. It
// writes the error response itself and reports false on failure.
func (h *PostHandler) readMultipart(w http.ResponseWriter, r *http.Request, in *postInput) (*string, bool) {
	limit := h.MaxImageBytes + 1<<20
	r.Body = http.MaxBytesReader(w, r.Body, limit)
	if err := r.ParseMultipartForm(limit); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			utils.JSONFieldErrors(w, utils.FieldErrors{"image": {msgImageTooLarge}})
			return nil, false
		}
		utils.JSONError(w, http.StatusBadRequest, "invalid multipart form: "+err.Error())
		return nil, false
	}
	defer r.MultipartForm.RemoveAll()

	in.Title = strings.TrimSpace(r.FormValue("title"))
	in.Body = strings.TrimSpace(r.FormValue("body"))

	errs := utils.Validate(*in)
	if errs == nil {
		errs = utils.FieldErrors{}
	}

	var contentType string
	file, header, err := r.FormFile("image")
	switch {
	case errors.Is(err, http.ErrMissingFile):
		if len(errs) > 0 {
			utils.JSONFieldErrors(w, errs)
			return nil, false
		}
		return nil, true
	case err != nil:
		errs.Add("image", "Upload a valid image.")
	default:
		defer file.Close()
		if h.Media == nil {
			errs.Add("image", "Image uploads are not enabled.")
			break
		}
		err := media.CheckImage(header.Filename, header.Size, h.MaxImageBytes)
		if err == nil {
			contentType, err = media.SniffImage(file)
		}
		switch {
		case errors.Is(err, media.ErrUnsupportedType):
			errs.Add("image", msgInvalidImage)
		case errors.Is(err, media.ErrTooLarge):
			errs.Add("image", msgImageTooLarge)
		case err != nil:
			h.log.WithError(err).WithField("filename", header.Filename).Error("read image")
			errs.Add("image", msgInvalidImage)
		}
	}
	if len(errs) > 0 {
		utils.JSONFieldErrors(w, errs)
		return nil, false
	}

	url, err := h.Media.Upload(r.Context(), file, header.Filename, contentType)
	if err != nil {
		h.log.WithError(err).WithField("filename", header.Filename).Error("image upload failed")
		utils.JSONError(w, http.StatusBadGateway, "image upload failed")
		return nil, false
	}
	return &url, true
}

// ---------------------- GET ONE ----------------------

func (h *PostHandler) GetPostByID(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r, "post")
	if !ok {
		return
	}

	post, err := h.Store.GetPost(r.Context(), id)
	if err != nil {
		storeError(w, r, h.log, err, "post")
		return
	}

	utils.JSON(w, http.StatusOK, post)
}

// ---------------------- LIST ----------------------

func (h *PostHandler) GetPosts(w http.ResponseWriter, r *http.Request) {
	posts, err := h.Store.ListPosts(r.Context())
	if err != nil {
		storeError(w, r, h.log, err, "post")
		return
	}

	utils.JSON(w, http.StatusOK, posts)
}

// ---------------------- UPDATE ----------------------

// UpdatePost serves PUT (title and body required) and PATCH (partial).
func (h *PostHandler) UpdatePost(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r, "post")
	if !ok {
		return
	}

	post, err := h.Store.GetPost(r.Context(), id)
	if err != nil {
		storeError(w, r, h.log, err, "post")
		return
	}

	if !policy.Allow(r.Method, utils.ActorFrom(r.Context()), post) {
		utils.JSONError(w, http.StatusForbidden, msgForbidden)
		return
	}

	var body postPatch
	if err := utils.DecodeJSON(w, r, &body); err != nil {
		return
	}

	in := postInput{Title: post.Title, Body: post.Body}
	if r.Method == http.MethodPut {
		in = postInput{}
	}
	if body.Title != nil {
		in.Title = strings.TrimSpace(*body.Title)
	}
	if body.Body != nil {
		in.Body = strings.TrimSpace(*body.Body)
	}
	if errs := utils.Validate(in); errs != nil {
		utils.JSONFieldErrors(w, errs)
		return
	}

	updated, err := h.Store.UpdatePost(r.Context(), id, in.Title, in.Body)
	if err != nil {
		storeError(w, r, h.log, err, "post")
		return
	}

	utils.JSON(w, http.StatusOK, updated)
}

// ---------------------- DELETE ----------------------

func (h *PostHandler) DeletePost(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r, "post")
	if !ok {
		return
	}

	post, err := h.Store.GetPost(r.Context(), id)
	if err != nil {
		storeError(w, r, h.log, err, "post")
		return
	}

	actor := utils.ActorFrom(r.Context())
	if !policy.Allow(r.Method, actor, post) {
		utils.JSONError(w, http.StatusForbidden, msgForbidden)
		return
	}

	if err := h.Store.DeletePost(r.Context(), id); err != nil {
		storeError(w, r, h.log, err, "post")
		return
	}

	h.log.WithFields(logrus.Fields{"post_id": id, "user_id": actor.UserID}).Info("post deleted")
	w.WriteHeader(http.StatusNoContent)
}

// ---------------------- COMMENT ----------------------

// AddComment reads only the body; post, author and timestamps are assigned
// here regardless of what the payload carries.
func (h *PostHandler) AddComment(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r, "post")
	if !ok {
		return
	}

	if _, err := h.Store.GetPost(r.Context(), id); err != nil {
		storeError(w, r, h.log, err, "post")
		return
	}

	var in commentInput
	if err := utils.DecodeJSON(w, r, &in); err != nil {
		return
	}
	in.Body = strings.TrimSpace(in.Body)
	if errs := utils.Validate(in); errs != nil {
		utils.JSONFieldErrors(w, errs)
		return
	}

	actor := utils.ActorFrom(r.Context())
	comment, err := h.Store.CreateComment(r.Context(), id, actor.UserID, in.Body)
	if err != nil {
		storeError(w, r, h.log, err, "post")
		return
	}

	utils.JSON(w, http.StatusCreated, comment)
}

// ---------------------- LIKE ----------------------

type likeResp struct {
	Status models.LikeState `json:"status"`
	Like   *models.Like     `json:"like,omitempty"`
}

// ToggleLike answers 201 when the like was created and 200 when removed.
func (h *PostHandler) ToggleLike(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r, "post")
	if !ok {
		return
	}

	actor := utils.ActorFrom(r.Context())
	res, err := h.Store.ToggleLike(r.Context(), id, actor.UserID)
	if err != nil {
		storeError(w, r, h.log, err, "post")
		return
	}

	status := http.StatusOK
	if res.State == models.Liked {
		status = http.StatusCreated
	}
	utils.JSON(w, status, likeResp{Status: res.State, Like: res.Like})
}

package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"

	"github.com/vaughan-dsouza/BeSocial/internal/store"
	"github.com/vaughan-dsouza/BeSocial/internal/utils"
)

type AuthHandler struct {
	Store   UserStore
	Access        utils.Signer
	RefreshSigner utils.Signer
	log           logrus.FieldLogger
}

func NewAuthHandler(s UserStore, access, refresh utils.Signer, log logrus.FieldLogger) *AuthHandler {
	return &AuthHandler{Store: s, Access: access, RefreshSigner: refresh, log: log}
}

// ----------- Request/Response DTOs -------------

type registerReq struct {
	Username string `json:"username" validate:"required,max=150,username"`
	Email    string `json:"email" validate:"omitempty,max=254,email"`
	Password string `json:"password" validate:"required,min=6"`
}

type registerResp struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
}

type loginReq struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type refreshReq struct {
	RefreshToken string `json:"refresh_token"`
}

type tokenResp struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int64  `json:"expires_in"`
}

// -------------- REGISTER ----------------------

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerReq
	if err := utils.DecodeJSON(w, r, &req); err != nil {
		return
	}
	req.Username = strings.TrimSpace(req.Username)
	req.Email = strings.TrimSpace(req.Email)

	if errs := utils.Validate(req); errs != nil {
		utils.JSONFieldErrors(w, errs)
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		h.log.WithError(err).Error("hash password")
		utils.JSONError(w, http.StatusInternalServerError, msgInternal)
		return
	}

	u, err := h.Store.CreateUser(r.Context(), req.Username, req.Email, string(hash))
	if errors.Is(err, store.ErrDuplicate) {
		utils.JSONFieldErrors(w, utils.FieldErrors{
			"username": {"A user with that username already exists."},
		})
		return
	}
	if err != nil {
		storeError(w, r, h.log, err, "user")
		return
	}

	h.log.WithField("user_id", u.ID).Info("user registered")
	utils.JSON(w, http.StatusCreated, registerResp{ID: u.ID, Username: u.Username})
}

// -------------- LOGIN ------------------------

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginReq
	if err := utils.DecodeJSON(w, r, &req); err != nil {
		return
	}

	u, err := h.Store.GetUserByUsername(r.Context(), strings.TrimSpace(req.Username))
	if errors.Is(err, store.ErrNotFound) {
		utils.JSONError(w, http.StatusUnauthorized, "invalid credentials")
		return
	}
	if err != nil {
		storeError(w, r, h.log, err, "user")
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(req.Password)); err != nil {
		utils.JSONError(w, http.StatusUnauthorized, "invalid credentials")
		return
	}

	resp, ok := h.issuePair(w, r, u.ID, u.Username, "")
	if !ok {
		return
	}
	utils.JSON(w, http.StatusOK, resp)
}

// ---------------- REFRESH ---------------------

func (h *AuthHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	var req refreshReq
	if err := utils.DecodeJSON(w, r, &req); err != nil {
		return
	}

	claims, err := h.RefreshSigner.Verify(req.RefreshToken)
	if err != nil {
		utils.JSONError(w, http.StatusUnauthorized, "invalid token")
		return
	}

	resp, ok := h.issuePair(w, r, claims.SubjectInt(), claims.Username, req.RefreshToken)
	if !ok {
		return
	}
	utils.JSON(w, http.StatusOK, resp)
}

// issuePair signs a fresh access/refresh pair and records the refresh
// token. When rotating is set, that token is swapped out atomically.
func (h *AuthHandler) issuePair(w http.ResponseWriter, r *http.Request, userID int64, username, rotating string) (tokenResp, bool) {
	access, _, err := h.Access.Issue(userID, username)
	if err != nil {
		h.log.WithError(err).Error("sign access token")
		utils.JSONError(w, http.StatusInternalServerError, "token error")
		return tokenResp{}, false
	}

	refresh, expRefresh, err := h.RefreshSigner.Issue(userID, username)
	if err != nil {
		h.log.WithError(err).Error("sign refresh token")
		utils.JSONError(w, http.StatusInternalServerError, "token error")
		return tokenResp{}, false
	}

	if rotating == "" {
		err = h.Store.SaveRefreshToken(r.Context(), userID, refresh, expRefresh)
	} else {
		err = h.Store.RotateRefreshToken(r.Context(), userID, rotating, refresh, expRefresh)
	}
	if errors.Is(err, store.ErrNotFound) {
		utils.JSONError(w, http.StatusUnauthorized, "refresh token expired or invalid")
		return tokenResp{}, false
	}
	if err != nil {
		storeError(w, r, h.log, err, "token")
		return tokenResp{}, false
	}

	return tokenResp{
		AccessToken:  access,
		RefreshToken: refresh,
		ExpiresIn:    int64(h.Access.TTL.Seconds()),
	}, true
}

// -------------- LOGOUT -----------------------

func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	var req refreshReq
	if err := utils.DecodeJSON(w, r, &req); err != nil {
		return
	}

	// Only the token's owner may revoke it. Expired tokens fail
	// verification and are left for cleanup.
	claims, err := h.RefreshSigner.Verify(req.RefreshToken)
	if err != nil || claims.SubjectInt() != utils.ActorFrom(r.Context()).UserID {
		utils.JSONError(w, http.StatusBadRequest, "invalid refresh token")
		return
	}

	if err := h.Store.DeleteRefreshToken(r.Context(), req.RefreshToken); err != nil {
		storeError(w, r, h.log, err, "token")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// -------------- CURRENT USER ----------------

func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	u, err := h.Store.GetUserByID(r.Context(), utils.ActorFrom(r.Context()).UserID)
	if errors.Is(err, store.ErrNotFound) {
		// token outlived its user
		utils.JSONError(w, http.StatusUnauthorized, "not authorized")
		return
	}
	if err != nil {
		storeError(w, r, h.log, err, "user")
		return
	}

	utils.JSON(w, http.StatusOK, u.Summary())
}

package handlers

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vaughan-dsouza/BeSocial/internal/models"
)

func (e *testEnv) register(username, password string) *registerResp {
	e.t.Helper()

	w := e.do(http.MethodPost, "/auth/register", "", map[string]string{
		"username": username,
		"email":    username + "@example.com",
		"password": password,
	})
	if w.Code != http.StatusCreated {
		return nil
	}
	resp := decode[registerResp](e.t, w)
	return &resp
}

func (e *testEnv) login(username, password string) (tokenResp, int) {
	e.t.Helper()

	w := e.do(http.MethodPost, "/auth/login", "", map[string]string{"username": username, "password": password})
	if w.Code != http.StatusOK {
		return tokenResp{}, w.Code
	}
	return decode[tokenResp](e.t, w), w.Code
}

func TestRegister(t *testing.T) {
	env := newTestEnv(t)

	resp := env.register("ada", "correct horse")
	require.NotNil(t, resp)
	assert.Equal(t, "ada", resp.Username)
	assert.NotZero(t, resp.ID)

	stored, err := env.store.GetUserByUsername(t.Context(), "ada")
	require.NoError(t, err)
	assert.NotEqual(t, "correct horse", stored.Password)
}

func TestRegisterDuplicateUsername(t *testing.T) {
	env := newTestEnv(t)
	require.NotNil(t, env.register("ada", "correct horse"))

	w := env.do(http.MethodPost, "/auth/register", "", map[string]string{"username": "ada", "password": "another one"})
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, fieldErrors{"username": {"A user with that username already exists."}}, decode[fieldErrors](t, w))
}

func TestRegisterValidation(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(http.MethodPost, "/auth/register", "", map[string]string{
		"username": "has space",
		"email":    "nope",
		"password": "123",
	})
	require.Equal(t, http.StatusBadRequest, w.Code)

	errs := decode[fieldErrors](t, w)
	assert.Contains(t, errs, "username")
	assert.Contains(t, errs, "email")
	assert.Contains(t, errs, "password")
}

func TestLoginAndCurrentUser(t *testing.T) {
	env := newTestEnv(t)
	reg := env.register("ada", "correct horse")
	require.NotNil(t, reg)

	_, code := env.login("ada", "wrong")
	assert.Equal(t, http.StatusUnauthorized, code)
	_, code = env.login("nobody", "correct horse")
	assert.Equal(t, http.StatusUnauthorized, code)

	tokens, code := env.login("ada", "correct horse")
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, int64(60), tokens.ExpiresIn)

	w := env.do(http.MethodGet, "/auth/user", tokens.AccessToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, models.UserSummary{ID: reg.ID, Username: "ada", Email: "ada@example.com"}, decode[models.UserSummary](t, w))

	assert.Equal(t, http.StatusUnauthorized, env.do(http.MethodGet, "/auth/user", "", nil).Code)
}

func TestRefreshTokenRotation(t *testing.T) {
	env := newTestEnv(t)
	require.NotNil(t, env.register("ada", "correct horse"))
	tokens, code := env.login("ada", "correct horse")
	require.Equal(t, http.StatusOK, code)

	// refresh tokens are not access tokens
	assert.Equal(t, http.StatusUnauthorized, env.do(http.MethodGet, "/auth/user", tokens.RefreshToken, nil).Code)

	w := env.do(http.MethodPost, "/auth/refresh", "", map[string]string{"refresh_token": tokens.RefreshToken})
	require.Equal(t, http.StatusOK, w.Code)
	rotated := decode[tokenResp](t, w)
	assert.NotEqual(t, tokens.RefreshToken, rotated.RefreshToken)
	assert.Equal(t, http.StatusOK, env.do(http.MethodGet, "/auth/user", rotated.AccessToken, nil).Code)

	// the old refresh token is spent
	w = env.do(http.MethodPost, "/auth/refresh", "", map[string]string{"refresh_token": tokens.RefreshToken})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = env.do(http.MethodPost, "/auth/refresh", "", map[string]string{"refresh_token": "garbage"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestLogout(t *testing.T) {
	env := newTestEnv(t)
	require.NotNil(t, env.register("ada", "correct horse"))
	require.NotNil(t, env.register("bob", "correct horse"))
	ada, _ := env.login("ada", "correct horse")
	bob, _ := env.login("bob", "correct horse")

	// bob cannot revoke ada's session
	w := env.do(http.MethodPost, "/auth/logout", bob.AccessToken, map[string]string{"refresh_token": ada.RefreshToken})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = env.do(http.MethodPost, "/auth/logout", ada.AccessToken, map[string]string{"refresh_token": ada.RefreshToken})
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = env.do(http.MethodPost, "/auth/refresh", "", map[string]string{"refresh_token": ada.RefreshToken})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

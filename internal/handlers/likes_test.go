package handlers

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vaughan-dsouza/BeSocial/internal/models"
)

func TestLikesReadOnlyListing(t *testing.T) {
	env := newTestEnv(t)
	_, adaTok := env.user("ada")
	bobID, bobTok := env.user("bob")
	post := env.createPost(adaTok, "p")

	w := env.do(http.MethodPost, fmt.Sprintf("/posts/%d/like", post.ID), bobTok, nil)
	require.Equal(t, http.StatusCreated, w.Code)
	created := decode[likeResp](t, w).Like
	require.NotNil(t, created)

	w = env.do(http.MethodGet, "/likes", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	likes := decode[[]models.Like](t, w)
	require.Len(t, likes, 1)
	assert.Equal(t, bobID, likes[0].User.ID)
	assert.Equal(t, post.ID, likes[0].PostID)

	w = env.do(http.MethodGet, fmt.Sprintf("/likes/%d", created.ID), "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, created.ID, decode[models.Like](t, w).ID)

	assert.Equal(t, http.StatusNotFound, env.do(http.MethodGet, "/likes/999", "", nil).Code)
	assert.Equal(t, http.StatusMethodNotAllowed, env.do(http.MethodDelete, fmt.Sprintf("/likes/%d", created.ID), bobTok, nil).Code)
}

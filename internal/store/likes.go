package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/vaughan-dsouza/BeSocial/internal/models"
)

const likeSelect = `
	SELECT l.id, l.post_id, l.user_id, l.created_at,
	       u.id AS "user.id", u.username AS "user.username", u.email AS "user.email"
	FROM likes l
	JOIN users u ON u.id = l.user_id`

// The insert only yields a row when the (post_id, user_id) pair was free.
const likeInsert = `
	WITH ins AS (
		INSERT INTO likes (post_id, user_id)
		VALUES ($1, $2)
		ON CONFLICT (post_id, user_id) DO NOTHING
		RETURNING id, post_id, user_id, created_at
	)
	SELECT ins.id, ins.post_id, ins.user_id, ins.created_at,
	       u.id AS "user.id", u.username AS "user.username", u.email AS "user.email"
	FROM ins
	JOIN users u ON u.id = ins.user_id`

func (s *Store) ListLikes(ctx context.Context) ([]models.Like, error) {
	likes := []models.Like{}
	if err := s.DB.SelectContext(ctx, &likes, likeSelect+` ORDER BY l.id`); err != nil {
		return nil, fmt.Errorf("list likes: %w", err)
	}
	return likes, nil
}

func (s *Store) GetLike(ctx context.Context, id int64) (models.Like, error) {
	var l models.Like
	if err := s.DB.GetContext(ctx, &l, likeSelect+` WHERE l.id=$1`, id); err != nil {
		return models.Like{}, fmt.Errorf("get like %d: %w", id, notFound(err))
	}
	return l, nil
}

// ToggleLike flips whether userID likes postID. The unique index on
// (post_id, user_id) arbitrates concurrent toggles: whoever loses the insert
// removes the pair instead, so the result is always Liked or Unliked and
// never a duplicate row. A missing post yields ErrNotFound.
func (s *Store) ToggleLike(ctx context.Context, postID, userID int64) (models.ToggleResult, error) {
	var l models.Like
	err := s.DB.GetContext(ctx, &l, likeInsert, postID, userID)
	switch {
	case err == nil:
		return models.ToggleResult{State: models.Liked, Like: &l}, nil
	case isForeignKeyViolation(err):
		return models.ToggleResult{}, fmt.Errorf("toggle like on post %d: %w", postID, ErrNotFound)
	case errors.Is(err, sql.ErrNoRows), isUniqueViolation(err):
		// already liked
	default:
		return models.ToggleResult{}, fmt.Errorf("toggle like: %w", err)
	}

	// Zero rows deleted means a concurrent toggle got there first; the pair
	// is gone either way.
	_, err = s.DB.ExecContext(ctx, `DELETE FROM likes WHERE post_id=$1 AND user_id=$2`, postID, userID)
	if err != nil {
		return models.ToggleResult{}, fmt.Errorf("toggle like: %w", err)
	}
	return models.ToggleResult{State: models.Unliked}, nil
}

package models

import "time"

type Like struct {
	ID        int64       `db:"id" json:"id"`
	PostID    int64       `db:"post_id" json:"post"`
	UserID    int64       `db:"user_id" json:"-"`
	User      UserSummary `db:"user" json:"user"`
	CreatedAt time.Time   `db:"created_at" json:"created_at"`
}

// LikeState is the outcome of a toggle.
type LikeState string

const (
	Liked   LikeState = "liked"
	Unliked LikeState = "unliked"
)

// ToggleResult carries the created like when State is Liked.
type ToggleResult struct {
	State LikeState
	Like  *Like
}

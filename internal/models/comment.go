package models

import "time"

type Comment struct {
	ID        int64       `db:"id" json:"id"`
	PostID    int64       `db:"post_id" json:"post"`
	AuthorID  int64       `db:"author_id" json:"-"`
	Author    UserSummary `db:"author" json:"author"`
	Body      string      `db:"body" json:"body"`
	CreatedAt time.Time   `db:"created_at" json:"created_at"`
}

func (c Comment) OwnerID() int64 { return c.AuthorID }

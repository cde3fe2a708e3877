package models

import "time"

type Post struct {
	ID         int64       `db:"id" json:"id"`
	AuthorID   int64       `db:"author_id" json:"-"`
	Author     UserSummary `db:"author" json:"author"`
	Title      string      `db:"title" json:"title"`
	Body       string      `db:"body" json:"body"`
	Image      *string     `db:"image" json:"image"`
	CreatedAt  time.Time   `db:"created_at" json:"created_at"`
	UpdatedAt  time.Time   `db:"updated_at" json:"updated_at"`
	LikesCount int         `db:"likes_count" json:"likes_count"`
	Comments   []Comment   `db:"-" json:"comments"`
}

func (p Post) OwnerID() int64 { return p.AuthorID }

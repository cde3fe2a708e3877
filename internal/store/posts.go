package store

import (
	"context"
	"fmt"

	"github.com/vaughan-dsouza/BeSocial/internal/models"
)

const postSelect = `
	SELECT p.id, p.author_id, p.title, p.body, p.image, p.created_at, p.updated_at,
	       u.id AS "author.id", u.username AS "author.username", u.email AS "author.email",
	       (SELECT COUNT(*) FROM likes l WHERE l.post_id = p.id) AS likes_count
	FROM posts p
	JOIN users u ON u.id = p.author_id`

// ListPosts returns every post newest first, each with its comments.
func (s *Store) ListPosts(ctx context.Context) ([]models.Post, error) {
	posts := []models.Post{}
	err := s.DB.SelectContext(ctx, &posts, postSelect+` ORDER BY p.created_at DESC, p.id DESC`)
	if err != nil {
		return nil, fmt.Errorf("list posts: %w", err)
	}

	ids := make([]int64, len(posts))
	for i, p := range posts {
		ids[i] = p.ID
	}
	byPost, err := s.commentsForPosts(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("list posts: %w", err)
	}
	for i := range posts {
		posts[i].Comments = byPost[posts[i].ID]
		if posts[i].Comments == nil {
			posts[i].Comments = []models.Comment{}
		}
	}
	return posts, nil
}

func (s *Store) GetPost(ctx context.Context, id int64) (models.Post, error) {
	var p models.Post
	if err := s.DB.GetContext(ctx, &p, postSelect+` WHERE p.id=$1`, id); err != nil {
		return models.Post{}, fmt.Errorf("get post %d: %w", id, notFound(err))
	}

	byPost, err := s.commentsForPosts(ctx, []int64{id})
	if err != nil {
		return models.Post{}, fmt.Errorf("get post %d: %w", id, err)
	}
	p.Comments = byPost[id]
	if p.Comments == nil {
		p.Comments = []models.Comment{}
	}
	return p, nil
}

func (s *Store) CreatePost(ctx context.Context, authorID int64, title, body string, image *string) (models.Post, error) {
	var id int64
	err := s.DB.QueryRowxContext(ctx, `
		INSERT INTO posts (author_id, title, body, image)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`, authorID, title, body, image).Scan(&id)
	if err != nil {
		return models.Post{}, fmt.Errorf("create post: %w", err)
	}
	return s.GetPost(ctx, id)
}

// UpdatePost overwrites title and body and bumps updated_at. Author and
// image are left untouched.
func (s *Store) UpdatePost(ctx context.Context, id int64, title, body string) (models.Post, error) {
	err := affected(s.DB.ExecContext(ctx, `
		UPDATE posts
		SET title=$1, body=$2, updated_at=NOW()
		WHERE id=$3
	`, title, body, id))
	if err != nil {
		return models.Post{}, fmt.Errorf("update post %d: %w", id, err)
	}
	return s.GetPost(ctx, id)
}

// DeletePost removes the post; comments and likes go with it.
func (s *Store) DeletePost(ctx context.Context, id int64) error {
	if err := affected(s.DB.ExecContext(ctx, `DELETE FROM posts WHERE id=$1`, id)); err != nil {
		return fmt.Errorf("delete post %d: %w", id, err)
	}
	return nil
}

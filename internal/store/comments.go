package store

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/vaughan-dsouza/BeSocial/internal/models"
)

const commentSelect = `
	SELECT c.id, c.post_id, c.author_id, c.body, c.created_at,
	       u.id AS "author.id", u.username AS "author.username", u.email AS "author.email"
	FROM comments c
	JOIN users u ON u.id = c.author_id`

const commentOrder = ` ORDER BY c.created_at DESC, c.id DESC`

func (s *Store) ListComments(ctx context.Context) ([]models.Comment, error) {
	comments := []models.Comment{}
	if err := s.DB.SelectContext(ctx, &comments, commentSelect+commentOrder); err != nil {
		return nil, fmt.Errorf("list comments: %w", err)
	}
	return comments, nil
}

func (s *Store) GetComment(ctx context.Context, id int64) (models.Comment, error) {
	var c models.Comment
	if err := s.DB.GetContext(ctx, &c, commentSelect+` WHERE c.id=$1`, id); err != nil {
		return models.Comment{}, fmt.Errorf("get comment %d: %w", id, notFound(err))
	}
	return c, nil
}

// CreateComment attaches a comment to postID. A post that vanished in the
// meantime yields ErrNotFound.
func (s *Store) CreateComment(ctx context.Context, postID, authorID int64, body string) (models.Comment, error) {
	var id int64
	err := s.DB.QueryRowxContext(ctx, `
		INSERT INTO comments (post_id, author_id, body)
		VALUES ($1, $2, $3)
		RETURNING id
	`, postID, authorID, body).Scan(&id)
	if isForeignKeyViolation(err) {
		return models.Comment{}, fmt.Errorf("create comment on post %d: %w", postID, ErrNotFound)
	}
	if err != nil {
		return models.Comment{}, fmt.Errorf("create comment: %w", err)
	}
	return s.GetComment(ctx, id)
}

func (s *Store) UpdateComment(ctx context.Context, id int64, body string) (models.Comment, error) {
	err := affected(s.DB.ExecContext(ctx, `UPDATE comments SET body=$1 WHERE id=$2`, body, id))
	if err != nil {
		return models.Comment{}, fmt.Errorf("update comment %d: %w", id, err)
	}
	return s.GetComment(ctx, id)
}

func (s *Store) DeleteComment(ctx context.Context, id int64) error {
	if err := affected(s.DB.ExecContext(ctx, `DELETE FROM comments WHERE id=$1`, id)); err != nil {
		return fmt.Errorf("delete comment %d: %w", id, err)
	}
	return nil
}

// commentsForPosts loads the comments of several posts in one query,
// newest first within each post.
func (s *Store) commentsForPosts(ctx context.Context, postIDs []int64) (map[int64][]models.Comment, error) {
	byPost := make(map[int64][]models.Comment, len(postIDs))
	if len(postIDs) == 0 {
		return byPost, nil
	}

	query, args, err := sqlx.In(commentSelect+` WHERE c.post_id IN (?)`+commentOrder, postIDs)
	if err != nil {
		return nil, err
	}

	var comments []models.Comment
	if err := s.DB.SelectContext(ctx, &comments, s.DB.Rebind(query), args...); err != nil {
		return nil, fmt.Errorf("comments for posts: %w", err)
	}
	for _, c := range comments {
		byPost[c.PostID] = append(byPost[c.PostID], c)
	}
	return byPost, nil
}

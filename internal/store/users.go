package store

import (
	"context"
	"fmt"

	"github.com/vaughan-dsouza/BeSocial/internal/models"
)

const userColumns = `id, username, email, password_hash, created_at`

// CreateUser inserts a user with an already hashed password. A taken
// username yields ErrDuplicate.
func (s *Store) CreateUser(ctx context.Context, username, email, passwordHash string) (models.User, error) {
	var u models.User
	err := s.DB.GetContext(ctx, &u, `
		INSERT INTO users (username, email, password_hash)
		VALUES ($1, $2, $3)
		RETURNING `+userColumns,
		username, email, passwordHash)
	if isUniqueViolation(err) {
		return models.User{}, fmt.Errorf("create user %q: %w", username, ErrDuplicate)
	}
	if err != nil {
		return models.User{}, fmt.Errorf("create user: %w", err)
	}
	return u, nil
}

func (s *Store) GetUserByID(ctx context.Context, id int64) (models.User, error) {
	var u models.User
	err := s.DB.GetContext(ctx, &u, `SELECT `+userColumns+` FROM users WHERE id=$1`, id)
	if err != nil {
		return models.User{}, fmt.Errorf("get user %d: %w", id, notFound(err))
	}
	return u, nil
}

func (s *Store) GetUserByUsername(ctx context.Context, username string) (models.User, error) {
	var u models.User
	err := s.DB.GetContext(ctx, &u, `SELECT `+userColumns+` FROM users WHERE username=$1`, username)
	if err != nil {
		return models.User{}, fmt.Errorf("get user %q: %w", username, notFound(err))
	}
	return u, nil
}

package store

import (
	"context"
	"fmt"
	"time"
)

func (s *Store) SaveRefreshToken(ctx context.Context, userID int64, token string, expiresAt time.Time) error {
	_, err := s.DB.ExecContext(ctx, `
		INSERT INTO refresh_tokens (user_id, token, expires_at)
		VALUES ($1, $2, $3)
	`, userID, token, expiresAt)
	if err != nil {
		return fmt.Errorf("save refresh token: %w", err)
	}
	return nil
}

// RotateRefreshToken swaps a live refresh token for a new one in a single
// transaction. An unknown, expired or already rotated token yields ErrNotFound.
func (s *Store) RotateRefreshToken(ctx context.Context, userID int64, oldToken, newToken string, expiresAt time.Time) error {
	tx, err := s.DB.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("rotate refresh token: %w", err)
	}
	defer tx.Rollback()

	err = affected(tx.ExecContext(ctx, `
		DELETE FROM refresh_tokens
		WHERE token=$1 AND user_id=$2 AND expires_at > NOW()
	`, oldToken, userID))
	if err != nil {
		return fmt.Errorf("rotate refresh token: %w", err)
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO refresh_tokens (user_id, token, expires_at)
		VALUES ($1, $2, $3)
	`, userID, newToken, expiresAt)
	if err != nil {
		return fmt.Errorf("rotate refresh token: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("rotate refresh token: %w", err)
	}
	return nil
}

func (s *Store) DeleteRefreshToken(ctx context.Context, token string) error {
	if _, err := s.DB.ExecContext(ctx, `DELETE FROM refresh_tokens WHERE token=$1`, token); err != nil {
		return fmt.Errorf("delete refresh token: %w", err)
	}
	return nil
}

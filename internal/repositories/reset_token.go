package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"nagoyameshi/internal/models"
)

type ResetTokenRepository interface {
	Save(ctx context.Context, token *models.PasswordResetToken) error
	FindByToken(ctx context.Context, token string) (*models.PasswordResetToken, error)
	MarkUsed(ctx context.Context, id int) error
	CleanupExpired(ctx context.Context, now time.Time) error
}

type SQLResetTokenRepo struct {
	DB *sqlx.DB
}

func NewSQLResetTokenRepo(db *sqlx.DB) *SQLResetTokenRepo {
	return &SQLResetTokenRepo{DB: db}
}

func (r *SQLResetTokenRepo) Save(ctx context.Context, t *models.PasswordResetToken) error {
	_, err := r.DB.ExecContext(ctx,
		"INSERT INTO password_reset_tokens (user_id, token, expires_at) VALUES (?, ?, ?)",
		t.UserID, t.Token, t.ExpiresAt.UTC(),
	)
	return err
}

func (r *SQLResetTokenRepo) FindByToken(ctx context.Context, token string) (*models.PasswordResetToken, error) {
	var pr models.PasswordResetToken
	err := r.DB.GetContext(ctx, &pr,
		"SELECT id, user_id, token, expires_at, used_at, created_at FROM password_reset_tokens WHERE token = ?", token)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrResetTokenNotFound
		}
		return nil, fmt.Errorf("could not query reset token: %w", err)
	}
	return &pr, nil
}

// CleanupExpired は使用済みまたは期限切れのトークンを削除します。
func (r *SQLResetTokenRepo) CleanupExpired(ctx context.Context, now time.Time) error {
	_, err := r.DB.ExecContext(ctx,
		"DELETE FROM password_reset_tokens WHERE used_at IS NOT NULL OR expires_at < ?", now.UTC())
	if err != nil {
		return fmt.Errorf("could not cleanup reset tokens: %w", err)
	}
	return nil
}

func (r *SQLResetTokenRepo) MarkUsed(ctx context.Context, id int) error {
	_, err := r.DB.ExecContext(ctx,
		"UPDATE password_reset_tokens SET used_at = ? WHERE id = ?",
		time.Now().UTC(), id,
	)
	return err
}

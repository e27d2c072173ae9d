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

// SessionRepository はログイン中トークンの jti を保持します。
// realm ごとに別テーブル (member_sessions / admin_sessions) を使います。
type SessionRepository struct {
	DB    *sqlx.DB
	table string
}

func NewMemberSessionRepository(db *sqlx.DB) *SessionRepository {
	return &SessionRepository{DB: db, table: "member_sessions"}
}

func NewAdminSessionRepository(db *sqlx.DB) *SessionRepository {
	return &SessionRepository{DB: db, table: "admin_sessions"}
}

func (r *SessionRepository) Create(ctx context.Context, s *models.Session) error {
	_, err := r.DB.ExecContext(ctx,
		"INSERT INTO "+r.table+" (id, subject_id, expires_at) VALUES (?, ?, ?)",
		s.ID, s.SubjectID, s.ExpiresAt.UTC())
	if err != nil {
		return fmt.Errorf("could not insert session: %w", err)
	}
	return nil
}

func (r *SessionRepository) Find(ctx context.Context, id string) (*models.Session, error) {
	var s models.Session
	err := r.DB.GetContext(ctx, &s, "SELECT id, subject_id, expires_at, created_at FROM "+r.table+" WHERE id = ?", id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrSessionNotFound
		}
		return nil, fmt.Errorf("could not query session: %w", err)
	}
	return &s, nil
}

func (r *SessionRepository) Delete(ctx context.Context, id string) error {
	_, err := r.DB.ExecContext(ctx, "DELETE FROM "+r.table+" WHERE id = ?", id)
	return err
}

// DeleteBySubject は会員 (または管理者) のすべてのセッションを削除します。
func (r *SessionRepository) DeleteBySubject(ctx context.Context, subjectID int) error {
	if _, err := r.DB.ExecContext(ctx, "DELETE FROM "+r.table+" WHERE subject_id = ?", subjectID); err != nil {
		return fmt.Errorf("could not delete sessions: %w", err)
	}
	return nil
}

// DeleteExpired は期限切れのセッションを削除します。
func (r *SessionRepository) DeleteExpired(ctx context.Context, now time.Time) error {
	if _, err := r.DB.ExecContext(ctx, "DELETE FROM "+r.table+" WHERE expires_at < ?", now.UTC()); err != nil {
		return fmt.Errorf("could not delete expired sessions: %w", err)
	}
	return nil
}

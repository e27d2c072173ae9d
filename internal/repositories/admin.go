package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"nagoyameshi/internal/models"
)

// AdminRepository は管理者テーブルを操作します。
type AdminRepository struct {
	DB *sqlx.DB
}

func NewAdminRepository(db *sqlx.DB) *AdminRepository {
	return &AdminRepository{DB: db}
}

// Create は管理者を作成します。管理者の登録画面はなく、cmd/create-admin から呼ばれます。
func (r *AdminRepository) Create(ctx context.Context, a *models.Admin) (*models.Admin, error) {
	result, err := r.DB.ExecContext(ctx, "INSERT INTO admins (email, password) VALUES (?, ?)", a.Email, a.PasswordHash)
	if err != nil {
		if isDuplicateEntry(err) {
			return nil, ErrDuplicateEmail
		}
		return nil, fmt.Errorf("could not insert admin: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("could not get last insert ID: %w", err)
	}
	a.ID = int(id)
	return a, nil
}

func (r *AdminRepository) FindByEmail(ctx context.Context, email string) (*models.Admin, error) {
	var a models.Admin
	err := r.DB.GetContext(ctx, &a, "SELECT id, email, password, created_at, updated_at FROM admins WHERE email = ?", email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrAdminNotFound
		}
		return nil, fmt.Errorf("could not query admin: %w", err)
	}
	return &a, nil
}

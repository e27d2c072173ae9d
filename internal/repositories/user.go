package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"

	"github.com/jmoiron/sqlx"

	"nagoyameshi/internal/models"
)

const userColumns = "id, name, kana, email, password, postal_code, address, phone_number, stripe_id, created_at, updated_at"

// UserRepository は会員テーブルを操作します。
type UserRepository struct {
	DB *sqlx.DB
}

// NewUserRepository は新しいUserRepositoryインスタンスを作成します。
func NewUserRepository(db *sqlx.DB) *UserRepository {
	return &UserRepository{DB: db}
}

// Create は新しい会員をデータベースに挿入します。
func (r *UserRepository) Create(ctx context.Context, u *models.User) (*models.User, error) {
	query := `INSERT INTO users (name, kana, email, password, postal_code, address, phone_number)
		VALUES (?, ?, ?, ?, ?, ?, ?)`
	result, err := r.DB.ExecContext(ctx, query, u.Name, u.Kana, u.Email, u.PasswordHash, u.PostalCode, u.Address, u.PhoneNumber)
	if err != nil {
		if isDuplicateEntry(err) {
			return nil, ErrDuplicateEmail
		}
		log.Printf("Failed to insert user: %v", err)
		return nil, fmt.Errorf("could not insert user: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("could not get last insert ID: %w", err)
	}
	return r.FindByID(ctx, int(id))
}

// FindByID はIDで会員を検索します。
func (r *UserRepository) FindByID(ctx context.Context, id int) (*models.User, error) {
	var u models.User
	err := r.DB.GetContext(ctx, &u, "SELECT "+userColumns+" FROM users WHERE id = ?", id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("could not query user: %w", err)
	}
	return &u, nil
}

// FindByEmail はメールアドレスで会員を検索します。
func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	var u models.User
	err := r.DB.GetContext(ctx, &u, "SELECT "+userColumns+" FROM users WHERE email = ?", email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		log.Printf("Failed to query user by email: %v", err)
		return nil, fmt.Errorf("could not query user: %w", err)
	}
	return &u, nil
}

// List は氏名・フリガナの部分一致で会員一覧を返します (管理画面用)。
func (r *UserRepository) List(ctx context.Context, keyword string, limit, offset int) ([]models.User, int, error) {
	where := ""
	args := []interface{}{}
	if keyword != "" {
		where = " WHERE name LIKE ? OR kana LIKE ?"
		like := "%" + keyword + "%"
		args = append(args, like, like)
	}

	var total int
	if err := r.DB.GetContext(ctx, &total, "SELECT COUNT(*) FROM users"+where, args...); err != nil {
		return nil, 0, fmt.Errorf("could not count users: %w", err)
	}

	users := []models.User{}
	query := "SELECT " + userColumns + " FROM users" + where + " ORDER BY id ASC LIMIT ? OFFSET ?"
	if err := r.DB.SelectContext(ctx, &users, query, append(args, limit, offset)...); err != nil {
		return nil, 0, fmt.Errorf("could not list users: %w", err)
	}
	return users, total, nil
}

// Count は会員の総数を返します。
func (r *UserRepository) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.DB.GetContext(ctx, &n, "SELECT COUNT(*) FROM users"); err != nil {
		return 0, fmt.Errorf("could not count users: %w", err)
	}
	return n, nil
}

// UpdateProfile はプロフィール項目を更新します。
func (r *UserRepository) UpdateProfile(ctx context.Context, u *models.User) error {
	res, err := r.DB.ExecContext(ctx, `UPDATE users SET name = ?, kana = ?, email = ?, postal_code = ?, address = ?,
		phone_number = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`,
		u.Name, u.Kana, u.Email, u.PostalCode, u.Address, u.PhoneNumber, u.ID)
	if err != nil {
		if isDuplicateEntry(err) {
			return ErrDuplicateEmail
		}
		return fmt.Errorf("could not update user: %w", err)
	}
	return requireAffected(res, ErrUserNotFound)
}

// UpdatePassword は会員のパスワードを更新します。
func (r *UserRepository) UpdatePassword(ctx context.Context, userID int, newHash string) error {
	res, err := r.DB.ExecContext(ctx, "UPDATE users SET password = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?", newHash, userID)
	if err != nil {
		return err
	}
	return requireAffected(res, ErrUserNotFound)
}

// SetStripeID は課金プロバイダの顧客IDを保存します。
func (r *UserRepository) SetStripeID(ctx context.Context, userID int, stripeID string) error {
	res, err := r.DB.ExecContext(ctx, "UPDATE users SET stripe_id = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?", stripeID, userID)
	if err != nil {
		return fmt.Errorf("could not update stripe id: %w", err)
	}
	return requireAffected(res, ErrUserNotFound)
}

// requireAffected は更新・削除が1件以上に作用したことを確認します。
func requireAffected(res sql.Result, notFound error) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return notFound
	}
	return nil
}

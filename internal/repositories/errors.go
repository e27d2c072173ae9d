// Package repositories はデータベース操作を行うリポジトリを提供します。
package repositories

import (
	"errors"
	"fmt"

	"github.com/go-sql-driver/mysql"
	"github.com/mattn/go-sqlite3"
	"golang.org/x/crypto/bcrypt" // パスワードのハッシュ化用
)

var (
	ErrDuplicateEmail      = errors.New("duplicate email")
	ErrUserNotFound        = errors.New("user not found")
	ErrAdminNotFound       = errors.New("admin not found")
	ErrSessionNotFound     = errors.New("session not found")
	ErrResetTokenNotFound  = errors.New("reset token not found")
	ErrRestaurantNotFound  = errors.New("restaurant not found")
	ErrCategoryNotFound    = errors.New("category not found")
	ErrReservationNotFound = errors.New("reservation not found")
	ErrReviewNotFound      = errors.New("review not found")
	ErrTermNotFound        = errors.New("term not found")
	ErrCompanyNotFound     = errors.New("company not found")
	ErrSubscriptionMissing = errors.New("subscription not found")
)

// isDuplicateEntry は一意制約違反かどうかを判定します。
// MySQL (1062) と SQLite (UNIQUE constraint) の両方に対応します。
func isDuplicateEntry(err error) bool {
	var mysqlErr *mysql.MySQLError
	if errors.As(err, &mysqlErr) && mysqlErr.Number == 1062 {
		return true
	}
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) && sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique {
		return true
	}
	return false
}

// HashPassword は与えられたパスワードをbcryptでハッシュ化します。
func HashPassword(password string) (string, error) {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hashedPassword), nil
}

// VerifyPassword はハッシュ化されたパスワードと平文のパスワードを比較します。
func VerifyPassword(hashedPassword, password string) error {
	return bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(password))
}

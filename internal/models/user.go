package models

import "time"

// User は会員 (member realm) のデータベース構造体を表します。
// JSONタグ: クライアントとの通信用
// dbタグ: sqlxでのカラムマッピング用
type User struct {
	ID           int       `db:"id" json:"id"`
	Name         string    `db:"name" json:"name"`
	Kana         string    `db:"kana" json:"kana"`
	Email        string    `db:"email" json:"email"`
	PasswordHash string    `db:"password" json:"-"` // JSONに出さない
	PostalCode   string    `db:"postal_code" json:"postal_code"`
	Address      string    `db:"address" json:"address"`
	PhoneNumber  string    `db:"phone_number" json:"phone_number"`
	StripeID     *string   `db:"stripe_id" json:"-"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time `db:"updated_at" json:"updated_at"`
}

// OwnerID は会員プロフィールの所有者 (本人) を返します。
func (u *User) OwnerID() int { return u.ID }

// Admin は管理者 (admin realm) です。User とは別のID空間を持ちます。
type Admin struct {
	ID           int       `db:"id" json:"id"`
	Email        string    `db:"email" json:"email"`
	PasswordHash string    `db:"password" json:"-"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time `db:"updated_at" json:"updated_at"`
}

type UserRegisterRequest struct {
	Name                 string `form:"name" json:"name" binding:"required,max=255"`
	Kana                 string `form:"kana" json:"kana" binding:"required,max=255"`
	Email                string `form:"email" json:"email" binding:"required,email,max=255"`
	Password             string `form:"password" json:"password" binding:"required,min=8"` // 生パスワード
	PasswordConfirmation string `form:"password_confirmation" json:"password_confirmation" binding:"required,eqfield=Password"`
	PostalCode           string `form:"postal_code" json:"postal_code" binding:"required,len=7,numeric"`
	Address              string `form:"address" json:"address" binding:"required,max=255"`
	PhoneNumber          string `form:"phone_number" json:"phone_number" binding:"required,min=10,max=11,numeric"`
}

type UserUpdateRequest struct {
	Name        string `form:"name" json:"name" binding:"required,max=255"`
	Kana        string `form:"kana" json:"kana" binding:"required,max=255"`
	Email       string `form:"email" json:"email" binding:"required,email,max=255"`
	PostalCode  string `form:"postal_code" json:"postal_code" binding:"required,len=7,numeric"`
	Address     string `form:"address" json:"address" binding:"required,max=255"`
	PhoneNumber string `form:"phone_number" json:"phone_number" binding:"required,min=10,max=11,numeric"`
}

type LoginRequest struct {
	Email    string `form:"email" json:"email" binding:"required,email"`
	Password string `form:"password" json:"password" binding:"required"` // 生パスワード
}

type UserForgotPasswordRequest struct {
	Email string `form:"email" json:"email" binding:"required,email"`
}

type UserResetPasswordRequest struct {
	Password string `form:"password" json:"password" binding:"required,min=8"`
}

type PasswordResetToken struct {
	ID        int        `db:"id" json:"id"`
	UserID    int        `db:"user_id" json:"user_id"`
	Token     string     `db:"token" json:"token"`
	ExpiresAt time.Time  `db:"expires_at" json:"expires_at"`
	UsedAt    *time.Time `db:"used_at" json:"used_at"`
	CreatedAt time.Time  `db:"created_at" json:"created_at"`
}

// Session はログイン中のトークン (jti) を表します。
// member_sessions と admin_sessions で同じ形を使います。
type Session struct {
	ID        string    `db:"id"`
	SubjectID int       `db:"subject_id"`
	ExpiresAt time.Time `db:"expires_at"`
	CreatedAt time.Time `db:"created_at"`
}

// SessionClaims は検証済みトークンから取り出した情報です。
type SessionClaims struct {
	SubjectID int
	Email     string
	SessionID string
}

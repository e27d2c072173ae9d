package services

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"log"
	"time"

	"nagoyameshi/internal/access"
	"nagoyameshi/internal/models"
	"nagoyameshi/internal/repositories"
)

// UserService は会員関連のビジネスロジックを扱います。
type UserService struct {
	userRepo       *repositories.UserRepository
	resetTokenRepo repositories.ResetTokenRepository
	sessions       *SessionService
	mailer         Mailer
	frontendURL    string
}

// NewUserService は新しいUserServiceを作成します。
// sessions はパスワード再設定時にログイン中のセッションを失効させるために使います。
func NewUserService(userRepo *repositories.UserRepository, resetTokenRepo repositories.ResetTokenRepository, sessions *SessionService, mailer Mailer, frontendURL string) *UserService {
	return &UserService{userRepo: userRepo, resetTokenRepo: resetTokenRepo, sessions: sessions, mailer: mailer, frontendURL: frontendURL}
}

// RegisterUser は会員を登録します。
func (s *UserService) RegisterUser(ctx context.Context, req models.UserRegisterRequest) (*models.User, error) {
	hashedPassword, err := repositories.HashPassword(req.Password)
	if err != nil {
		log.Printf("Failed to hash password: %v", err)
		return nil, err
	}

	return s.userRepo.Create(ctx, &models.User{
		Name:         req.Name,
		Kana:         req.Kana,
		Email:        req.Email,
		PasswordHash: hashedPassword,
		PostalCode:   req.PostalCode,
		Address:      req.Address,
		PhoneNumber:  req.PhoneNumber,
	})
}

// AuthenticateUser は会員を認証し、成功したら会員を返します。
func (s *UserService) AuthenticateUser(ctx context.Context, req models.LoginRequest) (*models.User, error) {
	foundUser, err := s.userRepo.FindByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if err := repositories.VerifyPassword(foundUser.PasswordHash, req.Password); err != nil {
		return nil, ErrInvalidCredentials
	}
	return foundUser, nil
}

func (s *UserService) GetUser(ctx context.Context, id int) (*models.User, error) {
	return s.userRepo.FindByID(ctx, id)
}

// GetEditableUser は本人のプロフィールのみ返します。
func (s *UserService) GetEditableUser(ctx context.Context, actorID, targetID int) (*models.User, error) {
	target, err := s.userRepo.FindByID(ctx, targetID)
	if err != nil {
		return nil, err
	}
	if err := access.Authorize(actorID, target); err != nil {
		return nil, err
	}
	return target, nil
}

// UpdateProfile は本人のプロフィールを更新します。
func (s *UserService) UpdateProfile(ctx context.Context, actorID, targetID int, req models.UserUpdateRequest) (*models.User, error) {
	target, err := s.GetEditableUser(ctx, actorID, targetID)
	if err != nil {
		return nil, err
	}
	target.Name = req.Name
	target.Kana = req.Kana
	target.Email = req.Email
	target.PostalCode = req.PostalCode
	target.Address = req.Address
	target.PhoneNumber = req.PhoneNumber
	if err := s.userRepo.UpdateProfile(ctx, target); err != nil {
		return nil, err
	}
	return s.userRepo.FindByID(ctx, targetID)
}

// ListUsers は管理画面用の会員一覧です。
func (s *UserService) ListUsers(ctx context.Context, keyword string, page int) (models.Page[models.User], error) {
	users, total, err := s.userRepo.List(ctx, keyword, adminPerPage, models.Offset(page, adminPerPage))
	if err != nil {
		return models.Page[models.User]{}, err
	}
	return models.NewPage(users, total, max(page, 1), adminPerPage), nil
}

func (s *UserService) CountUsers(ctx context.Context) (int, error) {
	return s.userRepo.Count(ctx)
}

func (s *UserService) ForgotPasswordUser(ctx context.Context, email string) error {
	// 1. 会員が存在するか確認
	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		// メール存在しない → バレないように成功扱い
		log.Printf("email not found but returning OK: %s", email)
		return nil
	}

	// 2. パスワードリセット用のトークンを生成
	token, err := generateResetToken()
	if err != nil {
		log.Printf("Failed to generate reset token: %v", err)
		return fmt.Errorf("failed to generate reset token: %w", err)
	}

	// 3. トークンをデータベースに保存（有効期限1時間）
	resetToken := &models.PasswordResetToken{
		UserID:    user.ID,
		Token:     token,
		ExpiresAt: time.Now().Add(1 * time.Hour),
	}
	if err := s.resetTokenRepo.Save(ctx, resetToken); err != nil {
		return fmt.Errorf("failed to save reset token: %w", err)
	}

	// 4. フロントのリセットURLにトークンをセットして送信
	resetURL := fmt.Sprintf("%s/reset-password/%s", s.frontendURL, token)
	if err := s.mailer.SendPasswordReset(email, resetURL); err != nil {
		// 送信できなくても応答は変えない
		log.Printf("failed to send reset email: %v", err)
	}
	return nil
}

// generateResetToken はパスワードリセット用のランダムトークンを生成します。
func generateResetToken() (string, error) {
	bytes := make([]byte, 32)
	if _, err := rand.Read(bytes); err != nil {
		return "", err
	}
	return hex.EncodeToString(bytes), nil
}

// ResetPasswordUser はトークンを使ってパスワードをリセットします。
func (s *UserService) ResetPasswordUser(ctx context.Context, token, newPassword string) error {
	resetToken, err := s.resetTokenRepo.FindByToken(ctx, token)
	if err != nil {
		return ErrInvalidResetToken
	}
	if time.Now().After(resetToken.ExpiresAt) {
		return ErrResetTokenExpired
	}
	if resetToken.UsedAt != nil {
		return ErrResetTokenUsed
	}

	hashedPassword, err := repositories.HashPassword(newPassword)
	if err != nil {
		return err
	}
	if err := s.userRepo.UpdatePassword(ctx, resetToken.UserID, hashedPassword); err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}
	if err := s.sessions.RevokeAll(ctx, resetToken.UserID); err != nil {
		return fmt.Errorf("failed to revoke sessions: %w", err)
	}

	if err := s.resetTokenRepo.MarkUsed(ctx, resetToken.ID); err != nil {
		log.Printf("Failed to mark token as used: %v", err)
	}
	if err := s.resetTokenRepo.CleanupExpired(ctx, time.Now()); err != nil {
		log.Printf("Failed to cleanup reset tokens: %v", err)
	}
	return nil
}

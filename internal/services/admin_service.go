package services

import (
	"context"
	"errors"

	"nagoyameshi/internal/models"
	"nagoyameshi/internal/repositories"
)

// AdminService は管理者の認証を扱います。会員とは別のID空間です。
type AdminService struct {
	adminRepo *repositories.AdminRepository
}

func NewAdminService(adminRepo *repositories.AdminRepository) *AdminService {
	return &AdminService{adminRepo: adminRepo}
}

func (s *AdminService) Authenticate(ctx context.Context, req models.LoginRequest) (*models.Admin, error) {
	admin, err := s.adminRepo.FindByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, repositories.ErrAdminNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if err := repositories.VerifyPassword(admin.PasswordHash, req.Password); err != nil {
		return nil, ErrInvalidCredentials
	}
	return admin, nil
}

// CreateAdmin は管理者アカウントを作成します。
func (s *AdminService) CreateAdmin(ctx context.Context, email, password string) (*models.Admin, error) {
	hash, err := repositories.HashPassword(password)
	if err != nil {
		return nil, err
	}
	return s.adminRepo.Create(ctx, &models.Admin{Email: email, PasswordHash: hash})
}

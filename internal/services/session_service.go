package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"nagoyameshi/internal/models"
	"nagoyameshi/internal/repositories"
)

const sessionTTL = 24 * time.Hour

var ErrSessionRevoked = errors.New("session revoked or expired")

// SessionService はトークン発行とサーバー側のセッション (jti) 管理をまとめます。
type SessionService struct {
	jwt      *JWTService
	sessions *repositories.SessionRepository
}

func NewSessionService(jwtService *JWTService, sessions *repositories.SessionRepository) *SessionService {
	return &SessionService{jwt: jwtService, sessions: sessions}
}

func (s *SessionService) Realm() string {
	return s.jwt.Realm()
}

// Issue はセッションを保存し、署名済みトークンを返します。
func (s *SessionService) Issue(ctx context.Context, subjectID int, email string) (string, time.Time, error) {
	now := time.Now()
	if err := s.sessions.DeleteExpired(ctx, now); err != nil {
		log.Printf("Failed to prune expired %s sessions: %v", s.Realm(), err)
	}
	expiresAt := now.Add(sessionTTL)
	session := &models.Session{ID: uuid.NewString(), SubjectID: subjectID, ExpiresAt: expiresAt}
	if err := s.sessions.Create(ctx, session); err != nil {
		return "", time.Time{}, err
	}
	token, err := s.jwt.GenerateToken(subjectID, email, session.ID, expiresAt)
	if err != nil {
		return "", time.Time{}, err
	}
	return token, expiresAt, nil
}

// Verify はトークンの署名とセッションの有効性を確認します。
func (s *SessionService) Verify(ctx context.Context, token string) (*models.SessionClaims, error) {
	claims, err := s.jwt.ValidateToken(token)
	if err != nil {
		return nil, err
	}
	session, err := s.sessions.Find(ctx, claims.SessionID)
	if err != nil {
		if errors.Is(err, repositories.ErrSessionNotFound) {
			return nil, ErrSessionRevoked
		}
		return nil, fmt.Errorf("failed to load session: %w", err)
	}
	if session.SubjectID != claims.SubjectID || time.Now().After(session.ExpiresAt) {
		return nil, ErrSessionRevoked
	}
	return claims, nil
}

// Revoke はログアウト時にセッションを削除します。
func (s *SessionService) Revoke(ctx context.Context, sessionID string) error {
	return s.sessions.Delete(ctx, sessionID)
}

// RevokeAll は subjectID のすべてのセッションを削除します。
func (s *SessionService) RevokeAll(ctx context.Context, subjectID int) error {
	return s.sessions.DeleteBySubject(ctx, subjectID)
}

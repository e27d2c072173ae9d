package services

import (
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"nagoyameshi/internal/models"
)

// JWTService はJWTトークンの生成と検証を扱います。
// realm (member / admin) ごとに別の秘密鍵と audience を持つインスタンスを使います。
type JWTService struct {
	secret []byte
	realm  string
}

// NewJWTService は新しいJWTServiceを作成します。
func NewJWTService(secret, realm string) *JWTService {
	return &JWTService{secret: []byte(secret), realm: realm}
}

// Realm はこのサービスが発行するトークンの audience です。
func (s *JWTService) Realm() string {
	return s.realm
}

// GenerateToken はJWTトークンを生成します。sessionID は jti として埋め込まれます。
func (s *JWTService) GenerateToken(subjectID int, email, sessionID string, expiresAt time.Time) (string, error) {
	claims := jwt.MapClaims{
		"sub":   strconv.Itoa(subjectID),
		"email": email,
		"aud":   s.realm,
		"jti":   sessionID,
		"iat":   time.Now().Unix(),
		"exp":   expiresAt.Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign JWT token: %w", err)
	}
	return tokenString, nil
}

// ValidateToken はJWTトークンを検証し、クレームを返します。
// 別 realm のトークンは audience の不一致で拒否されます。
func (s *JWTService) ValidateToken(tokenString string) (*models.SessionClaims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.secret, nil
	}, jwt.WithAudience(s.realm), jwt.WithExpirationRequired())
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("invalid token")
	}
	sub, err := claims.GetSubject()
	if err != nil {
		return nil, fmt.Errorf("invalid sub: %w", err)
	}
	subjectID, err := strconv.Atoi(sub)
	if err != nil || subjectID <= 0 {
		return nil, fmt.Errorf("invalid sub")
	}
	email, ok := claims["email"].(string)
	if !ok {
		return nil, fmt.Errorf("invalid email")
	}
	jti, ok := claims["jti"].(string)
	if !ok || jti == "" {
		return nil, fmt.Errorf("invalid jti")
	}
	return &models.SessionClaims{SubjectID: subjectID, Email: email, SessionID: jti}, nil
}

package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJWTService_RoundTrip(t *testing.T) {
	svc := NewJWTService("member-secret", "member")
	token, err := svc.GenerateToken(42, "taro@example.com", "session-1", time.Now().Add(time.Hour))
	require.NoError(t, err)

	claims, err := svc.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, 42, claims.SubjectID)
	assert.Equal(t, "taro@example.com", claims.Email)
	assert.Equal(t, "session-1", claims.SessionID)
}

func TestJWTService_Rejects(t *testing.T) {
	member := NewJWTService("shared-secret", "member")
	admin := NewJWTService("shared-secret", "admin")
	other := NewJWTService("other-secret", "member")

	adminToken, err := admin.GenerateToken(1, "admin@example.com", "s", time.Now().Add(time.Hour))
	require.NoError(t, err)
	expired, err := member.GenerateToken(1, "taro@example.com", "s", time.Now().Add(-time.Minute))
	require.NoError(t, err)
	foreign, err := other.GenerateToken(1, "taro@example.com", "s", time.Now().Add(time.Hour))
	require.NoError(t, err)

	// 同じ鍵でも audience が違えば通らない
	_, err = member.ValidateToken(adminToken)
	assert.Error(t, err)
	_, err = member.ValidateToken(expired)
	assert.Error(t, err)
	_, err = member.ValidateToken(foreign)
	assert.Error(t, err)
	_, err = member.ValidateToken("not-a-token")
	assert.Error(t, err)
}

package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nagoyameshi/internal/models"
	"nagoyameshi/internal/repositories"
	"nagoyameshi/internal/services"
	"nagoyameshi/testutil"
)

func TestSessionService_IssueVerifyRevoke(t *testing.T) {
	env := testutil.SetupTestDB(t)
	ctx := context.Background()
	members := services.NewSessionService(services.NewJWTService("member-secret", "member"), repositories.NewMemberSessionRepository(env.DB))
	admins := services.NewSessionService(services.NewJWTService("admin-secret", "admin"), repositories.NewAdminSessionRepository(env.DB))

	token, _, err := members.Issue(ctx, env.FreeUser.ID, env.FreeUser.Email)
	require.NoError(t, err)

	claims, err := members.Verify(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, env.FreeUser.ID, claims.SubjectID)

	_, err = admins.Verify(ctx, token)
	assert.Error(t, err)

	require.NoError(t, members.Revoke(ctx, claims.SessionID))
	_, err = members.Verify(ctx, token)
	assert.ErrorIs(t, err, services.ErrSessionRevoked)
}

func TestSessionService_SessionsAreKeptPerRealm(t *testing.T) {
	env := testutil.SetupTestDB(t)
	ctx := context.Background()
	// 鍵と audience が同じでも、セッションは realm ごとのテーブルにしかない
	memberJWT := services.NewJWTService("same-secret", "member")
	members := services.NewSessionService(memberJWT, repositories.NewMemberSessionRepository(env.DB))
	leaked := services.NewSessionService(memberJWT, repositories.NewAdminSessionRepository(env.DB))

	token, _, err := members.Issue(ctx, env.PremiumUser.ID, env.PremiumUser.Email)
	require.NoError(t, err)
	_, err = leaked.Verify(ctx, token)
	assert.ErrorIs(t, err, services.ErrSessionRevoked)
}

func TestSessionService_IssuePrunesExpiredAndRevokeAll(t *testing.T) {
	env := testutil.SetupTestDB(t)
	ctx := context.Background()
	repo := repositories.NewMemberSessionRepository(env.DB)
	members := services.NewSessionService(services.NewJWTService("member-secret", "member"), repo)

	require.NoError(t, repo.Create(ctx, &models.Session{ID: "stale", SubjectID: env.FreeUser.ID, ExpiresAt: time.Now().Add(-time.Minute)}))

	// 新しいログインで期限切れのセッションは掃除される
	token, _, err := members.Issue(ctx, env.FreeUser.ID, env.FreeUser.Email)
	require.NoError(t, err)
	_, err = repo.Find(ctx, "stale")
	assert.ErrorIs(t, err, repositories.ErrSessionNotFound)

	other, _, err := members.Issue(ctx, env.FreeUser.ID, env.FreeUser.Email)
	require.NoError(t, err)
	require.NoError(t, members.RevokeAll(ctx, env.FreeUser.ID))
	_, err = members.Verify(ctx, token)
	assert.ErrorIs(t, err, services.ErrSessionRevoked)
	_, err = members.Verify(ctx, other)
	assert.ErrorIs(t, err, services.ErrSessionRevoked)
}

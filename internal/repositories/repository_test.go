package repositories_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nagoyameshi/internal/models"
	"nagoyameshi/internal/repositories"
	"nagoyameshi/testutil"
)

func TestUserRepository_DuplicateEmail(t *testing.T) {
	env := testutil.SetupTestDB(t)
	repo := repositories.NewUserRepository(env.DB)

	_, err := repo.Create(context.Background(), &models.User{
		Name:         "Copycat",
		Kana:         "コピーキャット",
		Email:        testutil.FreeUserEmail,
		PasswordHash: "x",
		PostalCode:   "4600002",
		Address:      "Nagoya",
		PhoneNumber:  "0520000000",
	})
	assert.ErrorIs(t, err, repositories.ErrDuplicateEmail)

	_, err = repo.FindByEmail(context.Background(), "nobody@example.com")
	assert.ErrorIs(t, err, repositories.ErrUserNotFound)
}

func TestFavoriteRepository_Idempotent(t *testing.T) {
	env := testutil.SetupTestDB(t)
	ctx := context.Background()
	repo := repositories.NewFavoriteRepository(env.DB)
	restaurant := testutil.CreateTestRestaurant(t, env.DB, "Atsuta Horaiken", 3000, 6000)

	require.NoError(t, repo.Attach(ctx, env.PremiumUser.ID, restaurant.ID))
	require.NoError(t, repo.Attach(ctx, env.PremiumUser.ID, restaurant.ID))
	list, total, err := repo.ListByUser(ctx, env.PremiumUser.ID, 15, 0)
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	require.Len(t, list, 1)
	assert.Equal(t, "Atsuta Horaiken", list[0].Name)

	require.NoError(t, repo.Detach(ctx, env.PremiumUser.ID, restaurant.ID))
	require.NoError(t, repo.Detach(ctx, env.PremiumUser.ID, restaurant.ID))
	ok, err := repo.IsFavorite(ctx, env.PremiumUser.ID, restaurant.ID)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestRestaurantRepository_Search(t *testing.T) {
	env := testutil.SetupTestDB(t)
	ctx := context.Background()
	repo := repositories.NewRestaurantRepository(env.DB)
	hitsumabushi := testutil.CreateTestCategory(t, env.DB, "Hitsumabushi")
	testutil.CreateTestRestaurant(t, env.DB, "Horaiken", 3000, 6000, hitsumabushi.ID)
	testutil.CreateTestRestaurant(t, env.DB, "Yabaton", 1200, 2500)

	// キーワードはカテゴリ名にも一致する
	list, total, err := repo.Search(ctx, models.RestaurantFilter{Keyword: "mabushi"}.Effective(), 15, 0)
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	assert.Equal(t, "Horaiken", list[0].Name)
	require.Len(t, list[0].Categories, 1)

	list, _, err = repo.Search(ctx, models.RestaurantFilter{MaxPrice: intPtr(2000)}.Effective(), 15, 0)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "Yabaton", list[0].Name)
	assert.Empty(t, list[0].Categories)

	list, _, err = repo.Search(ctx, models.RestaurantFilter{Sort: models.SortLowestPrice}.Effective(), 15, 0)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "Yabaton", list[0].Name)
}

func TestRestaurantRepository_UpdateReplacesRelations(t *testing.T) {
	env := testutil.SetupTestDB(t)
	ctx := context.Background()
	repo := repositories.NewRestaurantRepository(env.DB)
	udon := testutil.CreateTestCategory(t, env.DB, "Miso nikomi udon")
	kishimen := testutil.CreateTestCategory(t, env.DB, "Kishimen")
	restaurant := testutil.CreateTestRestaurant(t, env.DB, "Yamamotoya", 1500, 3000, udon.ID)

	restaurant.Name = "Yamamotoya Honten"
	updated, err := repo.Update(ctx, restaurant, []int{kishimen.ID, kishimen.ID}, []int{2})
	require.NoError(t, err)
	assert.Equal(t, "Yamamotoya Honten", updated.Name)
	require.Len(t, updated.Categories, 1)
	assert.Equal(t, "Kishimen", updated.Categories[0].Name)
	require.Len(t, updated.RegularHolidays, 1)
	assert.Equal(t, "Tuesday", updated.RegularHolidays[0].Day)

	require.NoError(t, repo.Delete(ctx, restaurant.ID))
	_, err = repo.FindByID(ctx, restaurant.ID)
	assert.ErrorIs(t, err, repositories.ErrRestaurantNotFound)
	assert.ErrorIs(t, repo.Delete(ctx, restaurant.ID), repositories.ErrRestaurantNotFound)
}

func TestRestaurantRepository_AverageScore(t *testing.T) {
	env := testutil.SetupTestDB(t)
	ctx := context.Background()
	repo := repositories.NewRestaurantRepository(env.DB)
	restaurant := testutil.CreateTestRestaurant(t, env.DB, "Sekai no Yamachan", 500, 1500)

	found, err := repo.FindByID(ctx, restaurant.ID)
	require.NoError(t, err)
	assert.Nil(t, found.AverageScore)

	testutil.CreateTestReview(t, env.DB, env.PremiumUser.ID, restaurant.ID, 5, "wings")
	testutil.CreateTestReview(t, env.DB, env.FreeUser.ID, restaurant.ID, 2, "too peppery")
	found, err = repo.FindByID(ctx, restaurant.ID)
	require.NoError(t, err)
	require.NotNil(t, found.AverageScore)
	assert.InDelta(t, 3.5, *found.AverageScore, 0.001)
}

func intPtr(v int) *int { return &v }

func TestResetTokenRepository_CleanupExpired(t *testing.T) {
	env := testutil.SetupTestDB(t)
	ctx := context.Background()
	repo := repositories.NewSQLResetTokenRepo(env.DB)
	now := time.Now()

	for _, tok := range []*models.PasswordResetToken{
		{UserID: env.FreeUser.ID, Token: "valid", ExpiresAt: now.Add(time.Hour)},
		{UserID: env.FreeUser.ID, Token: "expired", ExpiresAt: now.Add(-time.Minute)},
		{UserID: env.PremiumUser.ID, Token: "used", ExpiresAt: now.Add(time.Hour)},
	} {
		require.NoError(t, repo.Save(ctx, tok))
	}
	used, err := repo.FindByToken(ctx, "used")
	require.NoError(t, err)
	require.NoError(t, repo.MarkUsed(ctx, used.ID))

	require.NoError(t, repo.CleanupExpired(ctx, now))

	_, err = repo.FindByToken(ctx, "valid")
	assert.NoError(t, err)
	_, err = repo.FindByToken(ctx, "expired")
	assert.ErrorIs(t, err, repositories.ErrResetTokenNotFound)
	_, err = repo.FindByToken(ctx, "used")
	assert.ErrorIs(t, err, repositories.ErrResetTokenNotFound)
}

func TestSessionRepository_DeleteExpiredAndBySubject(t *testing.T) {
	env := testutil.SetupTestDB(t)
	ctx := context.Background()
	repo := repositories.NewMemberSessionRepository(env.DB)
	now := time.Now()

	require.NoError(t, repo.Create(ctx, &models.Session{ID: "live-free", SubjectID: env.FreeUser.ID, ExpiresAt: now.Add(time.Hour)}))
	require.NoError(t, repo.Create(ctx, &models.Session{ID: "stale-free", SubjectID: env.FreeUser.ID, ExpiresAt: now.Add(-time.Hour)}))
	require.NoError(t, repo.Create(ctx, &models.Session{ID: "live-premium", SubjectID: env.PremiumUser.ID, ExpiresAt: now.Add(time.Hour)}))

	require.NoError(t, repo.DeleteExpired(ctx, now))
	_, err := repo.Find(ctx, "stale-free")
	assert.ErrorIs(t, err, repositories.ErrSessionNotFound)
	_, err = repo.Find(ctx, "live-free")
	assert.NoError(t, err)

	require.NoError(t, repo.DeleteBySubject(ctx, env.FreeUser.ID))
	_, err = repo.Find(ctx, "live-free")
	assert.ErrorIs(t, err, repositories.ErrSessionNotFound)
	_, err = repo.Find(ctx, "live-premium")
	assert.NoError(t, err)
}

package handlers_test

import (
	"encoding/json"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nagoyameshi/internal/handlers"
	"nagoyameshi/testutil"
)

func TestFavorites_AttachIsIdempotent(t *testing.T) {
	env := testutil.SetupTestDB(t)
	first := testutil.CreateTestRestaurant(t, env.DB, "Torigin", 1000, 3000)
	second := testutil.CreateTestRestaurant(t, env.DB, "Kanzaki", 1500, 3500)
	token, err := testutil.LoginAndGetToken(t, env.Router, testutil.PremiumUserEmail, testutil.UserPassword)
	require.NoError(t, err)

	for i := 0; i < 2; i++ {
		w := testutil.PerformRequest(env.Router, http.MethodPost, fmt.Sprintf("/favorites/%d", first.ID), nil, testutil.MemberCookie(token))
		assert.Equal(t, http.StatusFound, w.Code)
		assert.Equal(t, fmt.Sprintf("/restaurants/%d", first.ID), w.Header().Get("Location"))
		assert.Equal(t, "Added to favorites.", testutil.CookieValue(w, handlers.FlashCookie))
	}
	testutil.PerformRequest(env.Router, http.MethodPost, fmt.Sprintf("/favorites/%d", second.ID), nil, testutil.MemberCookie(token))

	w := testutil.PerformRequest(env.Router, http.MethodGet, "/favorites", nil, testutil.MemberCookie(token))
	require.Equal(t, http.StatusOK, w.Code)
	var response struct {
		Favorites struct {
			Data []struct {
				ID   int    `json:"id"`
				Name string `json:"name"`
			} `json:"data"`
			Total int `json:"total"`
		} `json:"favorite_restaurants"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, 2, response.Favorites.Total)
	require.Len(t, response.Favorites.Data, 2)
	assert.Equal(t, "Kanzaki", response.Favorites.Data[0].Name, "most recently favorited first")

	w = testutil.PerformRequest(env.Router, http.MethodGet, fmt.Sprintf("/restaurants/%d", first.ID), nil, testutil.MemberCookie(token))
	var show struct {
		IsFavorite bool   `json:"is_favorite"`
		Tier       string `json:"tier"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &show))
	assert.True(t, show.IsFavorite)
	assert.Equal(t, "premium", show.Tier)

	for i := 0; i < 2; i++ {
		w = testutil.PerformRequest(env.Router, http.MethodDelete, fmt.Sprintf("/favorites/%d", first.ID), nil, testutil.MemberCookie(token))
		assert.Equal(t, "Removed from favorites.", testutil.CookieValue(w, handlers.FlashCookie))
	}
	w = testutil.PerformRequest(env.Router, http.MethodGet, fmt.Sprintf("/restaurants/%d", first.ID), nil, testutil.MemberCookie(token))
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &show))
	assert.False(t, show.IsFavorite)
}

func TestFavorites_GatedByTier(t *testing.T) {
	env := testutil.SetupTestDB(t)
	restaurant := testutil.CreateTestRestaurant(t, env.DB, "Torigin", 1000, 3000)

	w := testutil.PerformRequest(env.Router, http.MethodPost, fmt.Sprintf("/favorites/%d", restaurant.ID), nil)
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/login", w.Header().Get("Location"))

	token, err := testutil.LoginAndGetToken(t, env.Router, testutil.FreeUserEmail, testutil.UserPassword)
	require.NoError(t, err)
	w = testutil.PerformRequest(env.Router, http.MethodPost, fmt.Sprintf("/favorites/%d", restaurant.ID), nil, testutil.MemberCookie(token))
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/subscription/create", w.Header().Get("Location"))
	assert.Equal(t, "This feature requires the premium plan.", testutil.CookieValue(w, handlers.ErrorCookie))
}

func TestFavorites_UnknownRestaurant(t *testing.T) {
	env := testutil.SetupTestDB(t)
	token, err := testutil.LoginAndGetToken(t, env.Router, testutil.PremiumUserEmail, testutil.UserPassword)
	require.NoError(t, err)

	w := testutil.PerformRequest(env.Router, http.MethodPost, "/favorites/9999", nil, testutil.MemberCookie(token))
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestFavorites_ListIncludesCategories(t *testing.T) {
	env := testutil.SetupTestDB(t)
	sushi := testutil.CreateTestCategory(t, env.DB, "Sushi")
	withCategory := testutil.CreateTestRestaurant(t, env.DB, "Sushi Kappo", 3000, 8000, sushi.ID)
	without := testutil.CreateTestRestaurant(t, env.DB, "Kissa Matsuba", 500, 1000)
	token, err := testutil.LoginAndGetToken(t, env.Router, testutil.PremiumUserEmail, testutil.UserPassword)
	require.NoError(t, err)
	testutil.PerformRequest(env.Router, http.MethodPost, fmt.Sprintf("/favorites/%d", withCategory.ID), nil, testutil.MemberCookie(token))
	testutil.PerformRequest(env.Router, http.MethodPost, fmt.Sprintf("/favorites/%d", without.ID), nil, testutil.MemberCookie(token))

	w := testutil.PerformRequest(env.Router, http.MethodGet, "/favorites", nil, testutil.MemberCookie(token))
	require.Equal(t, http.StatusOK, w.Code)
	assert.NotContains(t, w.Body.String(), `"categories":null`)
	assert.NotContains(t, w.Body.String(), `"regular_holidays":null`)

	var response struct {
		Favorites struct {
			Data []struct {
				Name       string `json:"name"`
				Categories []struct {
					Name string `json:"name"`
				} `json:"categories"`
			} `json:"data"`
		} `json:"favorite_restaurants"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	require.Len(t, response.Favorites.Data, 2)
	assert.Equal(t, "Kissa Matsuba", response.Favorites.Data[0].Name)
	assert.Empty(t, response.Favorites.Data[0].Categories)
	require.Len(t, response.Favorites.Data[1].Categories, 1)
	assert.Equal(t, "Sushi", response.Favorites.Data[1].Categories[0].Name)
}

package handlers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"net/url"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nagoyameshi/internal/handlers"
	"nagoyameshi/testutil"
)

func adminToken(t *testing.T, env *testutil.TestEnv) *http.Cookie {
	t.Helper()
	token, err := testutil.AdminLoginAndGetToken(t, env.Router, testutil.AdminEmail, testutil.AdminPassword)
	require.NoError(t, err)
	return testutil.AdminCookie(token)
}

func restaurantForm() url.Values {
	return url.Values{
		"name":                {"Sugakiya"},
		"description":         {"Ramen and soft serve"},
		"lowest_price":        {"400"},
		"highest_price":       {"900"},
		"postal_code":         {"4600008"},
		"address":             {"Nagoya, Naka-ku Sakae 3-3"},
		"opening_time":        {"10:00"},
		"closing_time":        {"21:00"},
		"seating_capacity":    {"40"},
		"category_ids":        {},
		"regular_holiday_ids": {"1", "7"},
	}
}

// multipartRequest は画像付きのフォーム送信を行います。
func multipartRequest(t *testing.T, r *gin.Engine, method, path string, form url.Values, image []byte, contentType string, cookie *http.Cookie) *httptest.ResponseRecorder {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	for key, values := range form {
		for _, v := range values {
			require.NoError(t, mw.WriteField(key, v))
		}
	}
	if image != nil {
		header := textproto.MIMEHeader{}
		header.Set("Content-Disposition", `form-data; name="image"; filename="shop.png"`)
		header.Set("Content-Type", contentType)
		part, err := mw.CreatePart(header)
		require.NoError(t, err)
		_, err = part.Write(image)
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(method, path, &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.AddCookie(cookie)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAdminLogin(t *testing.T) {
	env := testutil.SetupTestDB(t)

	// 会員の認証情報では管理画面に入れない
	_, err := testutil.AdminLoginAndGetToken(t, env.Router, testutil.FreeUserEmail, testutil.UserPassword)
	assert.Error(t, err)

	cookie := adminToken(t, env)
	w := testutil.PerformRequest(env.Router, http.MethodGet, "/admin/login", nil, cookie)
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/admin/home", w.Header().Get("Location"))

	w = testutil.PerformRequest(env.Router, http.MethodPost, "/admin/logout", nil, cookie)
	assert.Equal(t, "/admin/login", w.Header().Get("Location"))
	w = testutil.PerformRequest(env.Router, http.MethodGet, "/admin/home", nil, cookie)
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/admin/login", w.Header().Get("Location"))
}

func TestAdminRealm_RejectsMembersAndGuests(t *testing.T) {
	env := testutil.SetupTestDB(t)
	token, err := testutil.LoginAndGetToken(t, env.Router, testutil.PremiumUserEmail, testutil.UserPassword)
	require.NoError(t, err)

	for _, path := range []string{"/admin/home", "/admin/users", "/admin/restaurants", "/admin/categories", "/admin/terms", "/admin/company"} {
		w := testutil.PerformRequest(env.Router, http.MethodGet, path, nil)
		assert.Equal(t, "/admin/login", w.Header().Get("Location"), path)

		// 会員トークンを管理者Cookieに入れても検証で弾かれる
		w = testutil.PerformRequest(env.Router, http.MethodGet, path, nil, testutil.MemberCookie(token), testutil.AdminCookie(token))
		assert.Equal(t, http.StatusFound, w.Code, path)
		assert.Equal(t, "/admin/login", w.Header().Get("Location"), path)
	}
}

func TestAdminHome_Stats(t *testing.T) {
	env := testutil.SetupTestDB(t)
	testutil.CreateTestRestaurant(t, env.DB, "Yamamotoya", 1200, 2500)

	w := testutil.PerformRequest(env.Router, http.MethodGet, "/admin/home", nil, adminToken(t, env))
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"stats":{"total_members":2,"premium_members":1,"free_members":1,
		"total_restaurants":1,"total_reservations":0,"monthly_sales":300}}`, w.Body.String())
}

func TestAdminUsers(t *testing.T) {
	env := testutil.SetupTestDB(t)
	cookie := adminToken(t, env)

	w := testutil.PerformRequest(env.Router, http.MethodGet, "/admin/users?keyword=Premium", nil, cookie)
	require.Equal(t, http.StatusOK, w.Code)
	var list struct {
		Total int `json:"total"`
		Users struct {
			Data []struct {
				Email string `json:"email"`
			} `json:"data"`
		} `json:"users"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
	assert.Equal(t, 1, list.Total)
	assert.Equal(t, testutil.PremiumUserEmail, list.Users.Data[0].Email)

	w = testutil.PerformRequest(env.Router, http.MethodGet, fmt.Sprintf("/admin/users/%d", env.FreeUser.ID), nil, cookie)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), testutil.FreeUserEmail)

	w = testutil.PerformRequest(env.Router, http.MethodGet, "/admin/users/9999", nil, cookie)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestAdminRestaurants_CRUD(t *testing.T) {
	env := testutil.SetupTestDB(t)
	cookie := adminToken(t, env)
	category := testutil.CreateTestCategory(t, env.DB, "Ramen")
	form := restaurantForm()
	form["category_ids"] = []string{fmt.Sprint(category.ID)}

	w := multipartRequest(t, env.Router, http.MethodPost, "/admin/restaurants", form, []byte("\x89PNG fake"), "image/png", cookie)
	require.Equal(t, http.StatusFound, w.Code, testutil.CookieValue(w, handlers.ErrorCookie))
	location := w.Header().Get("Location")
	require.True(t, strings.HasPrefix(location, "/admin/restaurants/"))
	assert.Equal(t, "Restaurant created.", testutil.CookieValue(w, handlers.FlashCookie))

	w = testutil.PerformRequest(env.Router, http.MethodGet, location, nil, cookie)
	require.Equal(t, http.StatusOK, w.Code)
	var show struct {
		Restaurant struct {
			ID              int                     `json:"id"`
			Name            string                  `json:"name"`
			Image           string                  `json:"image"`
			ImageURL        string                  `json:"image_url"`
			Categories      []struct{ Name string } `json:"categories"`
			RegularHolidays []struct{ Day string }  `json:"regular_holidays"`
		} `json:"restaurant"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &show))
	assert.Equal(t, "Sugakiya", show.Restaurant.Name)
	require.Len(t, show.Restaurant.Categories, 1)
	assert.Equal(t, "Ramen", show.Restaurant.Categories[0].Name)
	require.Len(t, show.Restaurant.RegularHolidays, 2)
	assert.Equal(t, "Monday", show.Restaurant.RegularHolidays[0].Day)
	require.NotEmpty(t, show.Restaurant.Image)
	assert.True(t, env.Images.Has(show.Restaurant.Image))

	// 保存した画像はそのURLで取得できる
	w = testutil.PerformRequest(env.Router, http.MethodGet, show.Restaurant.ImageURL, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "image/png", w.Header().Get("Content-Type"))

	// 画像なしの更新は既存の画像を残す
	id := show.Restaurant.ID
	form.Set("name", "Sugakiya Sakae")
	form["category_ids"] = nil
	w = testutil.PerformRequest(env.Router, http.MethodPatch, fmt.Sprintf("/admin/restaurants/%d", id), form, cookie)
	require.Equal(t, http.StatusFound, w.Code, testutil.CookieValue(w, handlers.ErrorCookie))
	assert.Equal(t, "Restaurant updated.", testutil.CookieValue(w, handlers.FlashCookie))
	assert.True(t, env.Images.Has(show.Restaurant.Image))

	w = testutil.PerformRequest(env.Router, http.MethodGet, "/admin/restaurants?keyword=Sakae", nil, cookie)
	assert.Contains(t, w.Body.String(), "Sugakiya Sakae")

	w = testutil.PerformRequest(env.Router, http.MethodDelete, fmt.Sprintf("/admin/restaurants/%d", id), nil, cookie)
	assert.Equal(t, "/admin/restaurants", w.Header().Get("Location"))
	assert.False(t, env.Images.Has(show.Restaurant.Image), "stored image is removed with the restaurant")

	w = testutil.PerformRequest(env.Router, http.MethodGet, location, nil, cookie)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestAdminRestaurants_Validation(t *testing.T) {
	env := testutil.SetupTestDB(t)
	cookie := adminToken(t, env)

	tests := []struct {
		name  string
		edit  func(url.Values)
		image []byte
		ctype string
		want  string
	}{
		{"lowest above highest", func(f url.Values) { f.Set("lowest_price", "1000") }, nil, "",
			"lowest_price must be less than or equal to the highest price."},
		{"opening after closing", func(f url.Values) { f.Set("opening_time", "22:00") }, nil, "",
			"opening_time must be before the closing time."},
		{"bad postal code", func(f url.Values) { f.Set("postal_code", "460-0008") }, nil, "",
			"postal_code must be 7 characters."},
		{"not an image", func(url.Values) {}, []byte("plain text"), "text/plain",
			"image must be an image file up to 2MB"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			form := restaurantForm()
			tt.edit(form)
			w := multipartRequest(t, env.Router, http.MethodPost, "/admin/restaurants", form, tt.image, tt.ctype, cookie)
			assert.Equal(t, http.StatusFound, w.Code)
			assert.Equal(t, "/admin/restaurants/create", w.Header().Get("Location"))
			assert.Contains(t, testutil.CookieValue(w, handlers.ErrorCookie), tt.want)
		})
	}

	w := testutil.PerformRequest(env.Router, http.MethodGet, "/admin/restaurants", nil, cookie)
	assert.Contains(t, w.Body.String(), `"total":0`)
}

func TestAdminCategories(t *testing.T) {
	env := testutil.SetupTestDB(t)
	cookie := adminToken(t, env)

	w := testutil.PerformRequest(env.Router, http.MethodPost, "/admin/categories", url.Values{"name": {"Doteni"}}, cookie)
	assert.Equal(t, "/admin/categories", w.Header().Get("Location"))
	assert.Equal(t, "Category created.", testutil.CookieValue(w, handlers.FlashCookie))

	w = testutil.PerformRequest(env.Router, http.MethodGet, "/admin/categories?keyword=Dote", nil, cookie)
	var list struct {
		Categories struct {
			Data []struct {
				ID   int    `json:"id"`
				Name string `json:"name"`
			} `json:"data"`
		} `json:"categories"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
	require.Len(t, list.Categories.Data, 1)
	id := list.Categories.Data[0].ID

	w = testutil.PerformRequest(env.Router, http.MethodPatch, fmt.Sprintf("/admin/categories/%d", id), url.Values{"name": {"Doteni Udon"}}, cookie)
	assert.Equal(t, "Category updated.", testutil.CookieValue(w, handlers.FlashCookie))

	w = testutil.PerformRequest(env.Router, http.MethodPatch, fmt.Sprintf("/admin/categories/%d", id), url.Values{"name": {""}}, cookie)
	assert.Equal(t, "name is required.", testutil.CookieValue(w, handlers.ErrorCookie))

	w = testutil.PerformRequest(env.Router, http.MethodDelete, fmt.Sprintf("/admin/categories/%d", id), nil, cookie)
	assert.Equal(t, "Category deleted.", testutil.CookieValue(w, handlers.FlashCookie))

	w = testutil.PerformRequest(env.Router, http.MethodDelete, fmt.Sprintf("/admin/categories/%d", id), nil, cookie)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestAdminTermsAndCompany(t *testing.T) {
	env := testutil.SetupTestDB(t)
	cookie := adminToken(t, env)

	w := testutil.PerformRequest(env.Router, http.MethodPost, "/admin/terms", url.Values{"content": {"Version 1"}}, cookie)
	assert.Equal(t, "Terms created.", testutil.CookieValue(w, handlers.FlashCookie))
	testutil.PerformRequest(env.Router, http.MethodPost, "/admin/terms", url.Values{"content": {"Version 2"}}, cookie)

	w = testutil.PerformRequest(env.Router, http.MethodGet, "/admin/terms/edit", nil, cookie)
	var edit struct {
		Term struct {
			ID      int    `json:"id"`
			Content string `json:"content"`
		} `json:"term"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &edit))
	assert.Equal(t, "Version 2", edit.Term.Content)

	w = testutil.PerformRequest(env.Router, http.MethodPatch, fmt.Sprintf("/admin/terms/%d", edit.Term.ID), url.Values{"content": {"Version 2.1"}}, cookie)
	assert.Equal(t, "Terms updated.", testutil.CookieValue(w, handlers.FlashCookie))

	w = testutil.PerformRequest(env.Router, http.MethodGet, "/terms", nil)
	assert.Contains(t, w.Body.String(), "Version 2.1")

	w = testutil.PerformRequest(env.Router, http.MethodDelete, fmt.Sprintf("/admin/terms/%d", edit.Term.ID), nil, cookie)
	assert.Equal(t, "Terms deleted.", testutil.CookieValue(w, handlers.FlashCookie))
	w = testutil.PerformRequest(env.Router, http.MethodGet, "/terms", nil)
	assert.Contains(t, w.Body.String(), "Version 1")

	w = testutil.PerformRequest(env.Router, http.MethodGet, "/admin/company/edit", nil, cookie)
	var company struct {
		Company struct {
			ID int `json:"id"`
		} `json:"company"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &company))
	require.NotZero(t, company.Company.ID)

	w = testutil.PerformRequest(env.Router, http.MethodPatch, fmt.Sprintf("/admin/company/%d", company.Company.ID), url.Values{
		"name":                {"NAGOYAMESHI Holdings"},
		"postal_code":         {"4500002"},
		"address":             {"Nagoya, Nakamura-ku Meieki 1-1"},
		"representative":      {"Hanako Nagoya"},
		"establishment_date":  {"2020-04-01"},
		"capital":             {"5,000,000 JPY"},
		"business":            {"Restaurant reservations"},
		"number_of_employees": {"25"},
	}, cookie)
	assert.Equal(t, "/admin/company", w.Header().Get("Location"))
	assert.Equal(t, "Company updated.", testutil.CookieValue(w, handlers.FlashCookie))

	w = testutil.PerformRequest(env.Router, http.MethodGet, "/company", nil)
	assert.Contains(t, w.Body.String(), "NAGOYAMESHI Holdings")
}

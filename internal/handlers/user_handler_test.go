package handlers_test

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nagoyameshi/internal/handlers"
	"nagoyameshi/testutil"
)

func registerForm(email string) url.Values {
	return url.Values{
		"name":                  {"New Member"},
		"kana":                  {"シンキ"},
		"email":                 {email},
		"password":              {"newpassword"},
		"password_confirmation": {"newpassword"},
		"postal_code":           {"4600003"},
		"address":               {"Nagoya, Higashi-ku 3-3"},
		"phone_number":          {"09012345678"},
	}
}

func TestRegisterUser_Success(t *testing.T) {
	env := testutil.SetupTestDB(t)

	w := testutil.PerformRequest(env.Router, http.MethodPost, "/register", registerForm("newuser@example.com"))

	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/", w.Header().Get("Location"))
	assert.Equal(t, "Registration completed.", testutil.CookieValue(w, handlers.FlashCookie))
	assert.NotEmpty(t, testutil.CookieValue(w, handlers.MemberTokenCookie), "registration should log the member in")

	token, err := testutil.LoginAndGetToken(t, env.Router, "newuser@example.com", "newpassword")
	require.NoError(t, err)
	assert.NotEmpty(t, token)
}

func TestRegisterUser_InvalidInput(t *testing.T) {
	env := testutil.SetupTestDB(t)

	form := registerForm("invalid@example.com")
	form.Set("password_confirmation", "mismatch123")
	form.Set("postal_code", "460")
	w := testutil.PerformRequest(env.Router, http.MethodPost, "/register", form)

	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/register", w.Header().Get("Location"))
	msg := testutil.CookieValue(w, handlers.ErrorCookie)
	assert.Contains(t, msg, "password_confirmation does not match.")
	assert.Contains(t, msg, "postal_code must be 7 characters.")
}

func TestRegisterUser_DuplicateEmail(t *testing.T) {
	env := testutil.SetupTestDB(t)

	w := testutil.PerformRequest(env.Router, http.MethodPost, "/register", registerForm(testutil.FreeUserEmail))

	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/register", w.Header().Get("Location"))
	assert.Equal(t, "Email already exists", testutil.CookieValue(w, handlers.ErrorCookie))
}

func TestLoginUser_Success(t *testing.T) {
	env := testutil.SetupTestDB(t)

	token, err := testutil.LoginAndGetToken(t, env.Router, testutil.FreeUserEmail, testutil.UserPassword)
	require.NoError(t, err)

	w := testutil.PerformRequest(env.Router, http.MethodGet, "/user", nil, testutil.MemberCookie(token))
	assert.Equal(t, http.StatusOK, w.Code)

	var response struct {
		User struct {
			ID    int    `json:"id"`
			Email string `json:"email"`
		} `json:"user"`
		Tier string `json:"tier"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, env.FreeUser.ID, response.User.ID)
	assert.Equal(t, testutil.FreeUserEmail, response.User.Email)
	assert.Equal(t, "free", response.Tier)
	assert.NotContains(t, w.Body.String(), "password")
}

func TestLoginUser_InvalidCredentials(t *testing.T) {
	env := testutil.SetupTestDB(t)

	w := testutil.PerformRequest(env.Router, http.MethodPost, "/login", url.Values{
		"email":    {testutil.FreeUserEmail},
		"password": {"wrongpassword"},
	})

	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/login", w.Header().Get("Location"))
	assert.Equal(t, "Invalid credentials", testutil.CookieValue(w, handlers.ErrorCookie))
	assert.Empty(t, testutil.CookieValue(w, handlers.MemberTokenCookie))
}

func TestLoginUser_RedirectsWhenAlreadyLoggedIn(t *testing.T) {
	env := testutil.SetupTestDB(t)
	token, err := testutil.LoginAndGetToken(t, env.Router, testutil.FreeUserEmail, testutil.UserPassword)
	require.NoError(t, err)

	w := testutil.PerformRequest(env.Router, http.MethodGet, "/login", nil, testutil.MemberCookie(token))

	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/", w.Header().Get("Location"))
}

func TestLogout_RevokesSession(t *testing.T) {
	env := testutil.SetupTestDB(t)
	token, err := testutil.LoginAndGetToken(t, env.Router, testutil.FreeUserEmail, testutil.UserPassword)
	require.NoError(t, err)

	w := testutil.PerformRequest(env.Router, http.MethodPost, "/logout", nil, testutil.MemberCookie(token))
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/", w.Header().Get("Location"))

	// 同じトークンはもう使えない
	w = testutil.PerformRequest(env.Router, http.MethodGet, "/user", nil, testutil.MemberCookie(token))
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/login", w.Header().Get("Location"))
}

func TestForgotPassword_Success(t *testing.T) {
	env := testutil.SetupTestDB(t)

	w := testutil.PerformRequest(env.Router, http.MethodPost, "/forgot-password", url.Values{"email": {testutil.FreeUserEmail}})

	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/login", w.Header().Get("Location"))
	assert.Equal(t, "Password reset email sent", testutil.CookieValue(w, handlers.FlashCookie))
	assert.True(t, strings.HasPrefix(env.Mailer.LastResetURL(testutil.FreeUserEmail), "http://localhost:3000/reset-password/"))
}

func TestForgotPassword_UnknownEmailLooksTheSame(t *testing.T) {
	env := testutil.SetupTestDB(t)

	w := testutil.PerformRequest(env.Router, http.MethodPost, "/forgot-password", url.Values{"email": {"nobody@example.com"}})

	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "Password reset email sent", testutil.CookieValue(w, handlers.FlashCookie))
	assert.Empty(t, env.Mailer.LastResetURL("nobody@example.com"))
}

func TestForgotPassword_InvalidEmail(t *testing.T) {
	env := testutil.SetupTestDB(t)

	w := testutil.PerformRequest(env.Router, http.MethodPost, "/forgot-password", url.Values{"email": {"not-an-email"}})

	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/login", w.Header().Get("Location"))
	assert.Equal(t, "email must be a valid email address.", testutil.CookieValue(w, handlers.ErrorCookie))
}

func TestResetPassword_Success(t *testing.T) {
	env := testutil.SetupTestDB(t)

	testutil.PerformRequest(env.Router, http.MethodPost, "/forgot-password", url.Values{"email": {testutil.FreeUserEmail}})
	resetURL := env.Mailer.LastResetURL(testutil.FreeUserEmail)
	require.NotEmpty(t, resetURL)
	token := resetURL[strings.LastIndex(resetURL, "/")+1:]

	w := testutil.PerformRequest(env.Router, http.MethodPost, "/reset-password/"+token, url.Values{"password": {"brandnewpass"}})
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/login", w.Header().Get("Location"))
	assert.Equal(t, "Password reset successfully", testutil.CookieValue(w, handlers.FlashCookie))

	_, err := testutil.LoginAndGetToken(t, env.Router, testutil.FreeUserEmail, "brandnewpass")
	assert.NoError(t, err)

	// 使用済みのトークンは再利用できない
	w = testutil.PerformRequest(env.Router, http.MethodPost, "/reset-password/"+token, url.Values{"password": {"anotherpass"}})
	assert.Equal(t, "/reset-password/"+token, w.Header().Get("Location"))
	assert.NotEmpty(t, testutil.CookieValue(w, handlers.ErrorCookie))
}

func TestResetPassword_RevokesExistingSessions(t *testing.T) {
	env := testutil.SetupTestDB(t)
	oldToken, err := testutil.LoginAndGetToken(t, env.Router, testutil.FreeUserEmail, testutil.UserPassword)
	require.NoError(t, err)
	w := testutil.PerformRequest(env.Router, http.MethodGet, "/user", nil, testutil.MemberCookie(oldToken))
	require.Equal(t, http.StatusOK, w.Code)

	testutil.PerformRequest(env.Router, http.MethodPost, "/forgot-password", url.Values{"email": {testutil.FreeUserEmail}})
	resetURL := env.Mailer.LastResetURL(testutil.FreeUserEmail)
	resetToken := resetURL[strings.LastIndex(resetURL, "/")+1:]
	w = testutil.PerformRequest(env.Router, http.MethodPost, "/reset-password/"+resetToken, url.Values{"password": {"brandnewpass"}})
	require.Equal(t, "/login", w.Header().Get("Location"))

	// 再設定前に発行したトークンはもう使えない
	w = testutil.PerformRequest(env.Router, http.MethodGet, "/user", nil, testutil.MemberCookie(oldToken))
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/login", w.Header().Get("Location"))

	// 他の会員のセッションには影響しない
	premiumToken, err := testutil.LoginAndGetToken(t, env.Router, testutil.PremiumUserEmail, testutil.UserPassword)
	require.NoError(t, err)
	w = testutil.PerformRequest(env.Router, http.MethodGet, "/user", nil, testutil.MemberCookie(premiumToken))
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestUpdateProfile_OwnerOnly(t *testing.T) {
	env := testutil.SetupTestDB(t)
	token, err := testutil.LoginAndGetToken(t, env.Router, testutil.FreeUserEmail, testutil.UserPassword)
	require.NoError(t, err)

	form := url.Values{
		"name":         {"Renamed Member"},
		"kana":         {"リネーム"},
		"email":        {testutil.FreeUserEmail},
		"postal_code":  {"4600004"},
		"address":      {"Nagoya, Nishi-ku 4-4"},
		"phone_number": {"0521112222"},
	}

	w := testutil.PerformRequest(env.Router, http.MethodPatch, fmt.Sprintf("/user/%d", env.FreeUser.ID), form, testutil.MemberCookie(token))
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/user", w.Header().Get("Location"))
	assert.Equal(t, "Profile updated.", testutil.CookieValue(w, handlers.FlashCookie))

	// 他人のプロフィールは編集できない
	w = testutil.PerformRequest(env.Router, http.MethodPatch, fmt.Sprintf("/user/%d", env.PremiumUser.ID), form, testutil.MemberCookie(token))
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/user", w.Header().Get("Location"))
	assert.Equal(t, "You are not allowed to modify this resource.", testutil.CookieValue(w, handlers.ErrorCookie))

	w = testutil.PerformRequest(env.Router, http.MethodGet, fmt.Sprintf("/user/%d/edit", env.PremiumUser.ID), nil, testutil.MemberCookie(token))
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/user", w.Header().Get("Location"))
}

func TestRenderConsumesFlash(t *testing.T) {
	env := testutil.SetupTestDB(t)

	req := testutil.PerformRequest(env.Router, http.MethodGet, "/login", nil,
		&http.Cookie{Name: handlers.ErrorCookie, Value: url.QueryEscape("Invalid credentials")})

	assert.Equal(t, http.StatusOK, req.Code)
	var response map[string]interface{}
	require.NoError(t, json.Unmarshal(req.Body.Bytes(), &response))
	assert.Equal(t, "Invalid credentials", response[handlers.ErrorCookie])
}

func TestHello(t *testing.T) {
	env := testutil.SetupTestDB(t)

	w := testutil.PerformRequest(env.Router, http.MethodGet, "/api/hello", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Hello from Go Backend!")

	w = testutil.PerformRequest(env.Router, http.MethodGet, "/api/dbcheck", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

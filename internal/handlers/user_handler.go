package handlers

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"nagoyameshi/internal/models"
	"nagoyameshi/internal/repositories"
	"nagoyameshi/internal/services"
)

// UserHandler は会員の登録・ログイン・プロフィールを扱います。
type UserHandler struct {
	base
	userService    *services.UserService
	sessionService *services.SessionService
}

// NewUserHandler は新しいUserHandlerを作成します。
func NewUserHandler(userService *services.UserService, sessionService *services.SessionService, secureCookies bool) *UserHandler {
	return &UserHandler{base: base{secureCookies: secureCookies}, userService: userService, sessionService: sessionService}
}

// RegisterFormHandler は会員登録フォームの項目を返します。
func (h *UserHandler) RegisterFormHandler(c *gin.Context) {
	h.render(c, gin.H{"fields": []string{
		"name", "kana", "email", "password", "password_confirmation", "postal_code", "address", "phone_number",
	}})
}

// RegisterHandler は会員登録を処理し、そのままログインさせます。
func (h *UserHandler) RegisterHandler(c *gin.Context) {
	var req models.UserRegisterRequest
	if err := c.ShouldBind(&req); err != nil {
		h.redirectWithError(c, "/register", validationMessage(err))
		return
	}

	user, err := h.userService.RegisterUser(c.Request.Context(), req)
	if err != nil {
		if errors.Is(err, repositories.ErrDuplicateEmail) {
			h.redirectWithError(c, "/register", "Email already exists")
			return
		}
		h.mutationError(c, err, "/register", "/register")
		return
	}
	if !h.startSession(c, user) {
		return
	}
	h.redirectWithFlash(c, "/", "Registration completed.")
}

// LoginFormHandler はログインフォームを返します。
func (h *UserHandler) LoginFormHandler(c *gin.Context) {
	h.render(c, gin.H{"fields": []string{"email", "password"}})
}

// LoginHandler は会員ログインを処理します。
func (h *UserHandler) LoginHandler(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBind(&req); err != nil {
		h.redirectWithError(c, "/login", validationMessage(err))
		return
	}

	user, err := h.userService.AuthenticateUser(c.Request.Context(), req)
	if err != nil {
		if errors.Is(err, services.ErrInvalidCredentials) {
			h.redirectWithError(c, "/login", "Invalid credentials")
			return
		}
		h.mutationError(c, err, "/login", "/login")
		return
	}
	if !h.startSession(c, user) {
		return
	}
	h.redirectWithFlash(c, "/", "Logged in.")
}

func (h *UserHandler) startSession(c *gin.Context, user *models.User) bool {
	token, expiresAt, err := h.sessionService.Issue(c.Request.Context(), user.ID, user.Email)
	if err != nil {
		log.Printf("Failed to issue member session: %v", err)
		h.redirectWithError(c, "/login", "Failed to generate token")
		return false
	}
	h.setCookie(c, MemberTokenCookie, token, int(time.Until(expiresAt).Seconds()))
	return true
}

// LogoutHandler はセッションを破棄します。
func (h *UserHandler) LogoutHandler(c *gin.Context) {
	if err := h.sessionService.Revoke(c.Request.Context(), c.GetString(CtxSessionID)); err != nil {
		log.Printf("Failed to revoke member session: %v", err)
	}
	h.setCookie(c, MemberTokenCookie, "", -1)
	h.redirectWithFlash(c, "/", "Logged out.")
}

// ForgotPasswordHandler はパスワードリセットリクエストを処理します。
func (h *UserHandler) ForgotPasswordHandler(c *gin.Context) {
	var req models.UserForgotPasswordRequest
	if err := c.ShouldBind(&req); err != nil {
		h.redirectWithError(c, "/login", validationMessage(err))
		return
	}
	if err := h.userService.ForgotPasswordUser(c.Request.Context(), req.Email); err != nil {
		h.mutationError(c, err, "/login", "/login")
		return
	}
	h.redirectWithFlash(c, "/login", "Password reset email sent")
}

// ResetPasswordHandler はトークンを使ってパスワードを再設定します。
func (h *UserHandler) ResetPasswordHandler(c *gin.Context) {
	token := c.Param("token")
	back := "/reset-password/" + token

	var req models.UserResetPasswordRequest
	if err := c.ShouldBind(&req); err != nil {
		h.redirectWithError(c, back, validationMessage(err))
		return
	}
	err := h.userService.ResetPasswordUser(c.Request.Context(), token, req.Password)
	switch {
	case err == nil:
		h.redirectWithFlash(c, "/login", "Password reset successfully")
	case errors.Is(err, services.ErrInvalidResetToken),
		errors.Is(err, services.ErrResetTokenExpired),
		errors.Is(err, services.ErrResetTokenUsed):
		h.redirectWithError(c, back, err.Error())
	default:
		h.mutationError(c, err, back, back)
	}
}

// MypageHandler はログイン中の会員情報を返します。
func (h *UserHandler) MypageHandler(c *gin.Context) {
	user, err := h.userService.GetUser(c.Request.Context(), currentUserID(c))
	if err != nil {
		h.renderError(c, err)
		return
	}
	h.render(c, gin.H{"user": user, "tier": currentTier(c).String()})
}

// EditHandler は本人のプロフィール編集画面を返します。
func (h *UserHandler) EditHandler(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	user, err := h.userService.GetEditableUser(c.Request.Context(), currentUserID(c), id)
	if err != nil {
		h.mutationError(c, err, "/user", "/user")
		return
	}
	h.render(c, gin.H{"user": user})
}

// UpdateHandler は本人のプロフィールを更新します。
func (h *UserHandler) UpdateHandler(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	back := fmt.Sprintf("/user/%d/edit", id)

	var req models.UserUpdateRequest
	if err := c.ShouldBind(&req); err != nil {
		h.redirectWithError(c, back, validationMessage(err))
		return
	}
	_, err := h.userService.UpdateProfile(c.Request.Context(), currentUserID(c), id, req)
	if err != nil {
		if errors.Is(err, repositories.ErrDuplicateEmail) {
			h.redirectWithError(c, back, "Email already exists")
			return
		}
		h.mutationError(c, err, back, "/user")
		return
	}
	h.redirectWithFlash(c, "/user", "Profile updated.")
}

// HelloHandler は疎通確認用です。
func HelloHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": "Hello from Go Backend!"})
}

package handlers

import (
	"errors"
	"log"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"nagoyameshi/internal/models"
	"nagoyameshi/internal/services"
)

// AdminHandler は管理者のログインと、ダッシュボード・会員一覧を扱います。
type AdminHandler struct {
	base
	adminService     *services.AdminService
	sessionService   *services.SessionService
	userService      *services.UserService
	dashboardService *services.DashboardService
}

func NewAdminHandler(adminService *services.AdminService, sessionService *services.SessionService,
	userService *services.UserService, dashboardService *services.DashboardService, secureCookies bool) *AdminHandler {
	return &AdminHandler{
		base:             base{secureCookies: secureCookies},
		adminService:     adminService,
		sessionService:   sessionService,
		userService:      userService,
		dashboardService: dashboardService,
	}
}

func (h *AdminHandler) LoginFormHandler(c *gin.Context) {
	h.render(c, gin.H{"fields": []string{"email", "password"}})
}

func (h *AdminHandler) LoginHandler(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBind(&req); err != nil {
		h.redirectWithError(c, "/admin/login", validationMessage(err))
		return
	}
	admin, err := h.adminService.Authenticate(c.Request.Context(), req)
	if err != nil {
		if errors.Is(err, services.ErrInvalidCredentials) {
			h.redirectWithError(c, "/admin/login", "Invalid credentials")
			return
		}
		h.mutationError(c, err, "/admin/login", "/admin/login")
		return
	}
	token, expiresAt, err := h.sessionService.Issue(c.Request.Context(), admin.ID, admin.Email)
	if err != nil {
		log.Printf("Failed to issue admin session: %v", err)
		h.redirectWithError(c, "/admin/login", "Failed to generate token")
		return
	}
	h.setCookie(c, AdminTokenCookie, token, int(time.Until(expiresAt).Seconds()))
	h.redirectWithFlash(c, "/admin/home", "Logged in.")
}

func (h *AdminHandler) LogoutHandler(c *gin.Context) {
	if err := h.sessionService.Revoke(c.Request.Context(), c.GetString(CtxAdminSessionID)); err != nil {
		log.Printf("Failed to revoke admin session: %v", err)
	}
	h.setCookie(c, AdminTokenCookie, "", -1)
	h.redirectWithFlash(c, "/admin/login", "Logged out.")
}

// HomeHandler は管理画面トップの集計を返します。
func (h *AdminHandler) HomeHandler(c *gin.Context) {
	stats, err := h.dashboardService.Stats(c.Request.Context())
	if err != nil {
		h.renderError(c, err)
		return
	}
	h.render(c, gin.H{"stats": stats})
}

// UsersHandler は氏名・フリガナで会員を検索します。
func (h *AdminHandler) UsersHandler(c *gin.Context) {
	keyword := strings.TrimSpace(c.Query("keyword"))
	page, err := h.userService.ListUsers(c.Request.Context(), keyword, pageParam(c))
	if err != nil {
		h.renderError(c, err)
		return
	}
	h.render(c, gin.H{"keyword": keyword, "users": page, "total": page.Total})
}

func (h *AdminHandler) UserHandler(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	user, err := h.userService.GetUser(c.Request.Context(), id)
	if err != nil {
		h.renderError(c, err)
		return
	}
	h.render(c, gin.H{"user": user})
}

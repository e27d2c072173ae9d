package routes

import (
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"nagoyameshi/internal/handlers"
	"nagoyameshi/internal/services"
)

// guard は会員・管理者の認証と有料会員判定のミドルウェアをまとめます。
// 失敗時は 401 ではなく、ログインやプラン登録のページへリダイレクトします。
type guard struct {
	members       *services.SessionService
	admins        *services.SessionService
	subscriptions *services.SubscriptionService
	secureCookies bool
}

// bearerOrCookie は Authorization ヘッダー、なければ Cookie からトークンを取り出します。
func bearerOrCookie(c *gin.Context, cookie string) string {
	if header := c.GetHeader("Authorization"); strings.HasPrefix(header, "Bearer ") {
		return strings.TrimPrefix(header, "Bearer ")
	}
	token, err := c.Cookie(cookie)
	if err != nil {
		return ""
	}
	return token
}

func (g *guard) redirect(c *gin.Context, location, message string) {
	if message != "" {
		c.SetSameSite(http.SameSiteLaxMode)
		c.SetCookie(handlers.ErrorCookie, message, 60, "/", "", g.secureCookies, true)
	}
	c.Redirect(http.StatusFound, location)
	c.Abort()
}

func (g *guard) isAdmin(c *gin.Context) bool {
	token := bearerOrCookie(c, handlers.AdminTokenCookie)
	if token == "" {
		return false
	}
	_, err := g.admins.Verify(c.Request.Context(), token)
	return err == nil
}

// OptionalMember は有効な会員トークンがあればユーザー情報と有料会員フラグを設定します。
// トークンが無効でもゲストとして処理を続けます。
func (g *guard) OptionalMember() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerOrCookie(c, handlers.MemberTokenCookie)
		if token == "" {
			c.Next()
			return
		}
		claims, err := g.members.Verify(c.Request.Context(), token)
		if err != nil {
			c.SetCookie(handlers.MemberTokenCookie, "", -1, "/", "", g.secureCookies, true)
			c.Next()
			return
		}
		premium, err := g.subscriptions.IsPremium(c.Request.Context(), claims.SubjectID)
		if err != nil {
			log.Printf("Failed to check subscription for user %d: %v", claims.SubjectID, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
			c.Abort()
			return
		}
		c.Set(handlers.CtxUserID, claims.SubjectID)
		c.Set(handlers.CtxUserEmail, claims.Email)
		c.Set(handlers.CtxSessionID, claims.SessionID)
		c.Set(handlers.CtxSubscribed, premium)
		c.Next()
	}
}

// RejectAdmin は管理者としてログイン中のアクセスを管理画面へ戻します。
func (g *guard) RejectAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		if g.isAdmin(c) {
			g.redirect(c, "/admin/home", "")
			return
		}
		c.Next()
	}
}

// GuestOnly はログイン済みの会員をトップへ戻します。OptionalMember の後に置きます。
func (g *guard) GuestOnly() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := c.Get(handlers.CtxUserID); ok {
			g.redirect(c, "/", "")
			return
		}
		c.Next()
	}
}

func (g *guard) RequireMember() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := c.Get(handlers.CtxUserID); !ok {
			g.redirect(c, "/login", "Please log in.")
			return
		}
		c.Next()
	}
}

func (g *guard) RequireSubscribed() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !c.GetBool(handlers.CtxSubscribed) {
			g.redirect(c, "/subscription/create", "This feature requires the premium plan.")
			return
		}
		c.Next()
	}
}

func (g *guard) RequireNotSubscribed() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetBool(handlers.CtxSubscribed) {
			g.redirect(c, "/subscription/edit", "")
			return
		}
		c.Next()
	}
}

// AdminAuth は管理者トークンを検証します。
func (g *guard) AdminAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerOrCookie(c, handlers.AdminTokenCookie)
		if token == "" {
			g.redirect(c, "/admin/login", "Please log in.")
			return
		}
		claims, err := g.admins.Verify(c.Request.Context(), token)
		if err != nil {
			c.SetCookie(handlers.AdminTokenCookie, "", -1, "/", "", g.secureCookies, true)
			g.redirect(c, "/admin/login", "Please log in.")
			return
		}
		c.Set(handlers.CtxAdminID, claims.SubjectID)
		c.Set(handlers.CtxAdminEmail, claims.Email)
		c.Set(handlers.CtxAdminSessionID, claims.SessionID)
		c.Next()
	}
}

func (g *guard) AdminGuestOnly() gin.HandlerFunc {
	return func(c *gin.Context) {
		if g.isAdmin(c) {
			g.redirect(c, "/admin/home", "")
			return
		}
		c.Next()
	}
}

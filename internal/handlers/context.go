package handlers

import (
	"github.com/gin-gonic/gin"

	"nagoyameshi/internal/access"
)

// gin.Context に保存するキー
const (
	CtxUserID         = "user_id"
	CtxUserEmail      = "user_email"
	CtxSessionID      = "session_id"
	CtxSubscribed     = "subscribed"
	CtxAdminID        = "admin_id"
	CtxAdminEmail     = "admin_email"
	CtxAdminSessionID = "admin_session_id"
	MemberTokenCookie = "member_token"
	AdminTokenCookie  = "admin_token"
)

func currentUserID(c *gin.Context) int {
	return c.GetInt(CtxUserID)
}

func currentTier(c *gin.Context) access.Tier {
	_, authenticated := c.Get(CtxUserID)
	return access.TierOf(authenticated, c.GetBool(CtxSubscribed))
}

// Package handlers は HTTP ハンドラーを提供します。
// 更新系は 302 リダイレクトとフラッシュメッセージ (Cookie) で応答し、参照系は JSON を返します。
package handlers

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"nagoyameshi/internal/access"
	"nagoyameshi/internal/models"
	"nagoyameshi/internal/repositories"
)

const (
	FlashCookie = "flash_message"
	ErrorCookie = "error_message"
)

// base はすべてのハンドラーに埋め込む共通処理です。
type base struct {
	secureCookies bool
}

func (b base) setCookie(c *gin.Context, name, value string, maxAge int) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(name, value, maxAge, "/", "", b.secureCookies, true)
}

// redirectWithFlash は成功メッセージを付けてリダイレクトします。
func (b base) redirectWithFlash(c *gin.Context, location, message string) {
	b.setCookie(c, FlashCookie, message, 60)
	c.Redirect(http.StatusFound, location)
}

// redirectWithError はエラーメッセージを付けてリダイレクトします。
func (b base) redirectWithError(c *gin.Context, location, message string) {
	b.setCookie(c, ErrorCookie, message, 60)
	c.Redirect(http.StatusFound, location)
}

// render は未読のフラッシュメッセージを取り出して JSON に含めます。
func (b base) render(c *gin.Context, payload gin.H) {
	for _, name := range []string{FlashCookie, ErrorCookie} {
		if v, err := c.Cookie(name); err == nil && v != "" {
			payload[name] = v
			b.setCookie(c, name, "", -1)
		}
	}
	c.JSON(http.StatusOK, payload)
}

// renderError は参照系のエラーを応答します。見つからない場合は 404 です。
func (b base) renderError(c *gin.Context, err error) {
	if isNotFound(err) {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	log.Printf("Request failed: %s %s: %v", c.Request.Method, c.Request.URL.Path, err)
	c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
}

// mutationError は更新系のエラーを応答します。
// 所有者でない場合は denied に、その他の失敗は back にエラーメッセージ付きで戻します。
func (b base) mutationError(c *gin.Context, err error, back, denied string) {
	switch {
	case errors.Is(err, access.ErrNotOwner):
		b.redirectWithError(c, denied, "You are not allowed to modify this resource.")
	case isNotFound(err):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	default:
		log.Printf("Request failed: %s %s: %v", c.Request.Method, c.Request.URL.Path, err)
		b.redirectWithError(c, back, "Something went wrong. Please try again.")
	}
}

func isNotFound(err error) bool {
	for _, target := range []error{
		repositories.ErrUserNotFound,
		repositories.ErrRestaurantNotFound,
		repositories.ErrCategoryNotFound,
		repositories.ErrReservationNotFound,
		repositories.ErrReviewNotFound,
		repositories.ErrTermNotFound,
		repositories.ErrCompanyNotFound,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

// paramID はパスパラメータの数値IDを取り出します。不正な値は 404 にします。
func paramID(c *gin.Context, name string) (int, bool) {
	id, err := strconv.Atoi(c.Param(name))
	if err != nil || id <= 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
		return 0, false
	}
	return id, true
}

func pageParam(c *gin.Context) int {
	page, err := strconv.Atoi(c.Query("page"))
	if err != nil {
		return 1
	}
	return models.ClampPage(page)
}

// optionalInt は空文字を未指定として扱います。
func optionalInt(v string) *int {
	if v == "" {
		return nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return nil
	}
	return &n
}

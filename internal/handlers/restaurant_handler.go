package handlers

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"nagoyameshi/internal/models"
	"nagoyameshi/internal/repositories"
	"nagoyameshi/internal/services"
)

// RestaurantHandler は公開ページ (トップ・店舗一覧・詳細・規約・会社概要) を扱います。
type RestaurantHandler struct {
	base
	restaurantService *services.RestaurantService
	favoriteService   *services.FavoriteService
	termService       *services.TermService
	companyService    *services.CompanyService
}

func NewRestaurantHandler(restaurantService *services.RestaurantService, favoriteService *services.FavoriteService,
	termService *services.TermService, companyService *services.CompanyService, secureCookies bool) *RestaurantHandler {
	return &RestaurantHandler{
		base:              base{secureCookies: secureCookies},
		restaurantService: restaurantService,
		favoriteService:   favoriteService,
		termService:       termService,
		companyService:    companyService,
	}
}

func (h *RestaurantHandler) HomeHandler(c *gin.Context) {
	home, err := h.restaurantService.Home(c.Request.Context())
	if err != nil {
		h.renderError(c, err)
		return
	}
	h.render(c, gin.H{
		"highly_rated_restaurants": home.HighlyRated,
		"categories":               home.Categories,
		"new_restaurants":          home.Newest,
	})
}

// IndexHandler は店舗を検索します。keyword > category_id > price の順で1つだけ適用されます。
func (h *RestaurantHandler) IndexHandler(c *gin.Context) {
	filter := models.RestaurantFilter{
		Keyword:    c.Query("keyword"),
		CategoryID: optionalInt(c.Query("category_id")),
		MaxPrice:   optionalInt(c.Query("price")),
		Sort:       c.Query("select_sort"),
		Page:       pageParam(c),
	}
	applied, page, err := h.restaurantService.Search(c.Request.Context(), filter)
	if err != nil {
		h.renderError(c, err)
		return
	}
	categories, err := h.restaurantService.Categories(c.Request.Context())
	if err != nil {
		h.renderError(c, err)
		return
	}
	h.render(c, gin.H{
		"keyword":     applied.Keyword,
		"category_id": applied.CategoryID,
		"price":       applied.MaxPrice,
		"sorted":      applied.Sort,
		"sorts":       models.RestaurantSorts,
		"restaurants": page,
		"total":       page.Total,
		"categories":  categories,
	})
}

func (h *RestaurantHandler) ShowHandler(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	restaurant, err := h.restaurantService.Get(c.Request.Context(), id)
	if err != nil {
		h.renderError(c, err)
		return
	}

	payload := gin.H{"restaurant": restaurant, "tier": currentTier(c).String()}
	if userID := currentUserID(c); userID > 0 {
		favorite, err := h.favoriteService.IsFavorite(c.Request.Context(), userID, id)
		if err != nil {
			log.Printf("Failed to load favorite state: %v", err)
		}
		payload["is_favorite"] = favorite
	}
	h.render(c, payload)
}

func (h *RestaurantHandler) TermsHandler(c *gin.Context) {
	term, err := h.termService.Latest(c.Request.Context())
	if err != nil && !errors.Is(err, repositories.ErrTermNotFound) {
		h.renderError(c, err)
		return
	}
	h.render(c, gin.H{"term": term})
}

func (h *RestaurantHandler) CompanyHandler(c *gin.Context) {
	company, err := h.companyService.Get(c.Request.Context())
	if err != nil && !errors.Is(err, repositories.ErrCompanyNotFound) {
		h.renderError(c, err)
		return
	}
	h.render(c, gin.H{"company": company})
}

// DBCheckHandler はデータベース接続を確認します。
func DBCheckHandler(ping func() error) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := ping(); err != nil {
			log.Println("DB Pingエラー:", err)
			c.JSON(http.StatusInternalServerError, gin.H{"status": "error", "message": "Database connection failed", "error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok", "message": "Database connection is healthy"})
	}
}

package handlers

import (
	"fmt"

	"github.com/gin-gonic/gin"

	"nagoyameshi/internal/services"
)

type FavoriteHandler struct {
	base
	favoriteService *services.FavoriteService
}

func NewFavoriteHandler(favoriteService *services.FavoriteService, secureCookies bool) *FavoriteHandler {
	return &FavoriteHandler{base: base{secureCookies: secureCookies}, favoriteService: favoriteService}
}

func (h *FavoriteHandler) IndexHandler(c *gin.Context) {
	page, err := h.favoriteService.List(c.Request.Context(), currentUserID(c), pageParam(c))
	if err != nil {
		h.renderError(c, err)
		return
	}
	h.render(c, gin.H{"favorite_restaurants": page})
}

func (h *FavoriteHandler) StoreHandler(c *gin.Context) {
	restaurantID, ok := paramID(c, "id")
	if !ok {
		return
	}
	back := fmt.Sprintf("/restaurants/%d", restaurantID)
	if err := h.favoriteService.Add(c.Request.Context(), currentUserID(c), restaurantID); err != nil {
		h.mutationError(c, err, back, back)
		return
	}
	h.redirectWithFlash(c, back, "Added to favorites.")
}

func (h *FavoriteHandler) DestroyHandler(c *gin.Context) {
	restaurantID, ok := paramID(c, "id")
	if !ok {
		return
	}
	back := fmt.Sprintf("/restaurants/%d", restaurantID)
	if err := h.favoriteService.Remove(c.Request.Context(), currentUserID(c), restaurantID); err != nil {
		h.mutationError(c, err, back, back)
		return
	}
	h.redirectWithFlash(c, back, "Removed from favorites.")
}

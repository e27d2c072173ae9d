package handlers

import (
	"fmt"

	"github.com/gin-gonic/gin"

	"nagoyameshi/internal/models"
	"nagoyameshi/internal/services"
)

type ReviewHandler struct {
	base
	reviewService     *services.ReviewService
	restaurantService *services.RestaurantService
}

func NewReviewHandler(reviewService *services.ReviewService, restaurantService *services.RestaurantService, secureCookies bool) *ReviewHandler {
	return &ReviewHandler{base: base{secureCookies: secureCookies}, reviewService: reviewService, restaurantService: restaurantService}
}

func reviewsPath(restaurantID int) string {
	return fmt.Sprintf("/restaurants/%d/reviews", restaurantID)
}

// IndexHandler はレビュー一覧です。無料会員は最新3件、有料会員は全件をページングして返します。
func (h *ReviewHandler) IndexHandler(c *gin.Context) {
	restaurantID, ok := paramID(c, "id")
	if !ok {
		return
	}
	restaurant, err := h.restaurantService.Get(c.Request.Context(), restaurantID)
	if err != nil {
		h.renderError(c, err)
		return
	}
	reviews, err := h.reviewService.ListForViewer(c.Request.Context(), restaurantID, currentTier(c), pageParam(c))
	if err != nil {
		h.renderError(c, err)
		return
	}
	h.render(c, gin.H{"restaurant": restaurant, "reviews": reviews, "user_id": currentUserID(c)})
}

func (h *ReviewHandler) CreateHandler(c *gin.Context) {
	restaurantID, ok := paramID(c, "id")
	if !ok {
		return
	}
	restaurant, err := h.restaurantService.Get(c.Request.Context(), restaurantID)
	if err != nil {
		h.renderError(c, err)
		return
	}
	h.render(c, gin.H{"restaurant": restaurant, "scores": []int{1, 2, 3, 4, 5}})
}

func (h *ReviewHandler) StoreHandler(c *gin.Context) {
	restaurantID, ok := paramID(c, "id")
	if !ok {
		return
	}
	back := reviewsPath(restaurantID) + "/create"

	var req models.ReviewRequest
	if err := c.ShouldBind(&req); err != nil {
		h.redirectWithError(c, back, validationMessage(err))
		return
	}
	if _, err := h.reviewService.Create(c.Request.Context(), currentUserID(c), restaurantID, req); err != nil {
		h.mutationError(c, err, back, reviewsPath(restaurantID))
		return
	}
	h.redirectWithFlash(c, reviewsPath(restaurantID), "Review posted.")
}

func (h *ReviewHandler) EditHandler(c *gin.Context) {
	restaurantID, ok := paramID(c, "id")
	if !ok {
		return
	}
	reviewID, ok := paramID(c, "review_id")
	if !ok {
		return
	}
	review, err := h.reviewService.GetOwned(c.Request.Context(), currentUserID(c), restaurantID, reviewID)
	if err != nil {
		h.mutationError(c, err, reviewsPath(restaurantID), reviewsPath(restaurantID))
		return
	}
	h.render(c, gin.H{"review": review})
}

func (h *ReviewHandler) UpdateHandler(c *gin.Context) {
	restaurantID, ok := paramID(c, "id")
	if !ok {
		return
	}
	reviewID, ok := paramID(c, "review_id")
	if !ok {
		return
	}
	back := fmt.Sprintf("%s/%d/edit", reviewsPath(restaurantID), reviewID)

	var req models.ReviewRequest
	if err := c.ShouldBind(&req); err != nil {
		h.redirectWithError(c, back, validationMessage(err))
		return
	}
	if _, err := h.reviewService.Update(c.Request.Context(), currentUserID(c), restaurantID, reviewID, req); err != nil {
		h.mutationError(c, err, back, reviewsPath(restaurantID))
		return
	}
	h.redirectWithFlash(c, reviewsPath(restaurantID), "Review updated.")
}

func (h *ReviewHandler) DestroyHandler(c *gin.Context) {
	restaurantID, ok := paramID(c, "id")
	if !ok {
		return
	}
	reviewID, ok := paramID(c, "review_id")
	if !ok {
		return
	}
	if err := h.reviewService.Delete(c.Request.Context(), currentUserID(c), restaurantID, reviewID); err != nil {
		h.mutationError(c, err, reviewsPath(restaurantID), reviewsPath(restaurantID))
		return
	}
	h.redirectWithFlash(c, reviewsPath(restaurantID), "Review deleted.")
}

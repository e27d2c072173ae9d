package handlers

import (
	"fmt"

	"github.com/gin-gonic/gin"

	"nagoyameshi/internal/models"
	"nagoyameshi/internal/services"
)

type ReservationHandler struct {
	base
	reservationService *services.ReservationService
	restaurantService  *services.RestaurantService
}

func NewReservationHandler(reservationService *services.ReservationService, restaurantService *services.RestaurantService, secureCookies bool) *ReservationHandler {
	return &ReservationHandler{base: base{secureCookies: secureCookies}, reservationService: reservationService, restaurantService: restaurantService}
}

func (h *ReservationHandler) IndexHandler(c *gin.Context) {
	page, err := h.reservationService.List(c.Request.Context(), currentUserID(c), pageParam(c))
	if err != nil {
		h.renderError(c, err)
		return
	}
	h.render(c, gin.H{"reservations": page})
}

func (h *ReservationHandler) CreateHandler(c *gin.Context) {
	restaurantID, ok := paramID(c, "id")
	if !ok {
		return
	}
	restaurant, err := h.restaurantService.Get(c.Request.Context(), restaurantID)
	if err != nil {
		h.renderError(c, err)
		return
	}
	h.render(c, gin.H{"restaurant": restaurant})
}

func (h *ReservationHandler) StoreHandler(c *gin.Context) {
	restaurantID, ok := paramID(c, "id")
	if !ok {
		return
	}
	back := fmt.Sprintf("/restaurants/%d/reservations/create", restaurantID)

	var req models.ReservationRequest
	if err := c.ShouldBind(&req); err != nil {
		h.redirectWithError(c, back, validationMessage(err))
		return
	}
	if _, err := h.reservationService.Create(c.Request.Context(), currentUserID(c), restaurantID, req); err != nil {
		h.mutationError(c, err, back, back)
		return
	}
	h.redirectWithFlash(c, "/reservations", "Reservation completed.")
}

// DestroyHandler は本人の予約のみキャンセルします。
func (h *ReservationHandler) DestroyHandler(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	if err := h.reservationService.Cancel(c.Request.Context(), currentUserID(c), id); err != nil {
		h.mutationError(c, err, "/reservations", "/reservations")
		return
	}
	h.redirectWithFlash(c, "/reservations", "Reservation canceled.")
}

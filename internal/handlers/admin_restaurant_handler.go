package handlers

import (
	"errors"
	"fmt"
	"strings"

	"github.com/gin-gonic/gin"

	"nagoyameshi/internal/models"
	"nagoyameshi/internal/services"
)

// AdminRestaurantHandler は管理画面の店舗 CRUD です。
type AdminRestaurantHandler struct {
	base
	restaurantService *services.RestaurantService
}

func NewAdminRestaurantHandler(restaurantService *services.RestaurantService, secureCookies bool) *AdminRestaurantHandler {
	return &AdminRestaurantHandler{base: base{secureCookies: secureCookies}, restaurantService: restaurantService}
}

func (h *AdminRestaurantHandler) IndexHandler(c *gin.Context) {
	keyword := strings.TrimSpace(c.Query("keyword"))
	page, err := h.restaurantService.AdminList(c.Request.Context(), keyword, pageParam(c))
	if err != nil {
		h.renderError(c, err)
		return
	}
	h.render(c, gin.H{"keyword": keyword, "restaurants": page, "total": page.Total})
}

func (h *AdminRestaurantHandler) CreateHandler(c *gin.Context) {
	form, err := h.restaurantService.FormOptions(c.Request.Context())
	if err != nil {
		h.renderError(c, err)
		return
	}
	h.render(c, gin.H{"categories": form.Categories, "regular_holidays": form.RegularHolidays})
}

func (h *AdminRestaurantHandler) StoreHandler(c *gin.Context) {
	const back = "/admin/restaurants/create"

	var req models.RestaurantRequest
	if err := c.ShouldBind(&req); err != nil {
		h.redirectWithError(c, back, validationMessage(err))
		return
	}
	image, closeImage, err := imageUpload(c)
	if err != nil {
		h.redirectWithError(c, back, err.Error())
		return
	}
	defer closeImage()

	restaurant, err := h.restaurantService.Create(c.Request.Context(), req, image)
	if err != nil {
		if errors.Is(err, services.ErrInvalidImage) {
			h.redirectWithError(c, back, err.Error())
			return
		}
		h.mutationError(c, err, back, back)
		return
	}
	h.redirectWithFlash(c, fmt.Sprintf("/admin/restaurants/%d", restaurant.ID), "Restaurant created.")
}

func (h *AdminRestaurantHandler) ShowHandler(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	restaurant, err := h.restaurantService.Get(c.Request.Context(), id)
	if err != nil {
		h.renderError(c, err)
		return
	}
	h.render(c, gin.H{"restaurant": restaurant})
}

func (h *AdminRestaurantHandler) EditHandler(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	restaurant, err := h.restaurantService.Get(c.Request.Context(), id)
	if err != nil {
		h.renderError(c, err)
		return
	}
	form, err := h.restaurantService.FormOptions(c.Request.Context())
	if err != nil {
		h.renderError(c, err)
		return
	}
	h.render(c, gin.H{"restaurant": restaurant, "categories": form.Categories, "regular_holidays": form.RegularHolidays})
}

func (h *AdminRestaurantHandler) UpdateHandler(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	back := fmt.Sprintf("/admin/restaurants/%d/edit", id)

	var req models.RestaurantRequest
	if err := c.ShouldBind(&req); err != nil {
		h.redirectWithError(c, back, validationMessage(err))
		return
	}
	image, closeImage, err := imageUpload(c)
	if err != nil {
		h.redirectWithError(c, back, err.Error())
		return
	}
	defer closeImage()

	if _, err := h.restaurantService.Update(c.Request.Context(), id, req, image); err != nil {
		if errors.Is(err, services.ErrInvalidImage) {
			h.redirectWithError(c, back, err.Error())
			return
		}
		h.mutationError(c, err, back, back)
		return
	}
	h.redirectWithFlash(c, fmt.Sprintf("/admin/restaurants/%d", id), "Restaurant updated.")
}

func (h *AdminRestaurantHandler) DestroyHandler(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	if err := h.restaurantService.Delete(c.Request.Context(), id); err != nil {
		h.mutationError(c, err, "/admin/restaurants", "/admin/restaurants")
		return
	}
	h.redirectWithFlash(c, "/admin/restaurants", "Restaurant deleted.")
}

// imageUpload は multipart の "image" を取り出します。送られていなければ nil です。
func imageUpload(c *gin.Context) (*services.ImageUpload, func(), error) {
	noop := func() {}
	if c.ContentType() != "multipart/form-data" {
		return nil, noop, nil
	}
	fh, err := c.FormFile("image")
	if err != nil {
		return nil, noop, nil
	}
	f, err := fh.Open()
	if err != nil {
		return nil, noop, fmt.Errorf("failed to read uploaded image: %w", err)
	}
	return &services.ImageUpload{
		Filename:    fh.Filename,
		ContentType: fh.Header.Get("Content-Type"),
		Size:        fh.Size,
		Body:        f,
	}, func() { f.Close() }, nil
}

package handlers

import (
	"errors"

	"github.com/gin-gonic/gin"

	"nagoyameshi/internal/models"
	"nagoyameshi/internal/services"
)

// SubscriptionHandler は有料プランの登録・支払い方法変更・解約を扱います。
type SubscriptionHandler struct {
	base
	subscriptionService *services.SubscriptionService
	userService         *services.UserService
}

func NewSubscriptionHandler(subscriptionService *services.SubscriptionService, userService *services.UserService, secureCookies bool) *SubscriptionHandler {
	return &SubscriptionHandler{base: base{secureCookies: secureCookies}, subscriptionService: subscriptionService, userService: userService}
}

// CreateHandler は支払い方法入力用の SetupIntent を返します。
func (h *SubscriptionHandler) CreateHandler(c *gin.Context) {
	secret, err := h.subscriptionService.CreateSetupIntent(c.Request.Context(), currentUserID(c))
	if err != nil {
		h.renderError(c, err)
		return
	}
	h.render(c, gin.H{"intent": gin.H{"client_secret": secret}})
}

func (h *SubscriptionHandler) StoreHandler(c *gin.Context) {
	var req models.PaymentMethodRequest
	if err := c.ShouldBind(&req); err != nil {
		h.redirectWithError(c, "/subscription/create", validationMessage(err))
		return
	}
	if _, err := h.subscriptionService.Subscribe(c.Request.Context(), currentUserID(c), req.PaymentMethodID); err != nil {
		if errors.Is(err, services.ErrAlreadySubscribed) {
			h.redirectWithError(c, "/subscription/edit", "You are already subscribed.")
			return
		}
		if errors.Is(err, services.ErrPaymentIncomplete) {
			h.redirectWithError(c, "/subscription/create", "The payment could not be completed. Please try another card.")
			return
		}
		h.mutationError(c, err, "/subscription/create", "/subscription/create")
		return
	}
	h.redirectWithFlash(c, "/", "Subscribed to the premium plan.")
}

func (h *SubscriptionHandler) EditHandler(c *gin.Context) {
	ctx := c.Request.Context()
	user, err := h.userService.GetUser(ctx, currentUserID(c))
	if err != nil {
		h.renderError(c, err)
		return
	}
	sub, err := h.subscriptionService.Current(ctx, user.ID)
	if err != nil {
		h.renderError(c, err)
		return
	}
	secret, err := h.subscriptionService.CreateSetupIntent(ctx, user.ID)
	if err != nil {
		h.renderError(c, err)
		return
	}
	h.render(c, gin.H{"user": user, "subscription": sub, "intent": gin.H{"client_secret": secret}})
}

func (h *SubscriptionHandler) UpdateHandler(c *gin.Context) {
	var req models.PaymentMethodRequest
	if err := c.ShouldBind(&req); err != nil {
		h.redirectWithError(c, "/subscription/edit", validationMessage(err))
		return
	}
	if err := h.subscriptionService.UpdatePaymentMethod(c.Request.Context(), currentUserID(c), req.PaymentMethodID); err != nil {
		h.mutationError(c, err, "/subscription/edit", "/subscription/edit")
		return
	}
	h.redirectWithFlash(c, "/", "Payment method updated.")
}

func (h *SubscriptionHandler) CancelHandler(c *gin.Context) {
	h.render(c, gin.H{"plan": services.PremiumPlan})
}

func (h *SubscriptionHandler) DestroyHandler(c *gin.Context) {
	if err := h.subscriptionService.Cancel(c.Request.Context(), currentUserID(c)); err != nil {
		if errors.Is(err, services.ErrNotSubscribed) {
			h.redirectWithError(c, "/subscription/create", "You are not subscribed.")
			return
		}
		h.mutationError(c, err, "/subscription/cancel", "/subscription/cancel")
		return
	}
	h.redirectWithFlash(c, "/", "Premium plan canceled.")
}

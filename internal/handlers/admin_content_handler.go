package handlers

import (
	"errors"
	"strings"

	"github.com/gin-gonic/gin"

	"nagoyameshi/internal/models"
	"nagoyameshi/internal/repositories"
	"nagoyameshi/internal/services"
)

// AdminCategoryHandler は管理画面のカテゴリ CRUD です。
type AdminCategoryHandler struct {
	base
	categoryService *services.CategoryService
}

func NewAdminCategoryHandler(categoryService *services.CategoryService, secureCookies bool) *AdminCategoryHandler {
	return &AdminCategoryHandler{base: base{secureCookies: secureCookies}, categoryService: categoryService}
}

func (h *AdminCategoryHandler) IndexHandler(c *gin.Context) {
	keyword := strings.TrimSpace(c.Query("keyword"))
	page, err := h.categoryService.List(c.Request.Context(), keyword, pageParam(c))
	if err != nil {
		h.renderError(c, err)
		return
	}
	h.render(c, gin.H{"keyword": keyword, "categories": page, "total": page.Total})
}

func (h *AdminCategoryHandler) StoreHandler(c *gin.Context) {
	var req models.CategoryRequest
	if err := c.ShouldBind(&req); err != nil {
		h.redirectWithError(c, "/admin/categories", validationMessage(err))
		return
	}
	if _, err := h.categoryService.Create(c.Request.Context(), req); err != nil {
		h.mutationError(c, err, "/admin/categories", "/admin/categories")
		return
	}
	h.redirectWithFlash(c, "/admin/categories", "Category created.")
}

func (h *AdminCategoryHandler) UpdateHandler(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req models.CategoryRequest
	if err := c.ShouldBind(&req); err != nil {
		h.redirectWithError(c, "/admin/categories", validationMessage(err))
		return
	}
	if _, err := h.categoryService.Update(c.Request.Context(), id, req); err != nil {
		h.mutationError(c, err, "/admin/categories", "/admin/categories")
		return
	}
	h.redirectWithFlash(c, "/admin/categories", "Category updated.")
}

func (h *AdminCategoryHandler) DestroyHandler(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	if err := h.categoryService.Delete(c.Request.Context(), id); err != nil {
		h.mutationError(c, err, "/admin/categories", "/admin/categories")
		return
	}
	h.redirectWithFlash(c, "/admin/categories", "Category deleted.")
}

// AdminTermHandler は利用規約の管理です。
type AdminTermHandler struct {
	base
	termService *services.TermService
}

func NewAdminTermHandler(termService *services.TermService, secureCookies bool) *AdminTermHandler {
	return &AdminTermHandler{base: base{secureCookies: secureCookies}, termService: termService}
}

func (h *AdminTermHandler) latest(c *gin.Context) (*models.Term, bool) {
	term, err := h.termService.Latest(c.Request.Context())
	if err != nil && !errors.Is(err, repositories.ErrTermNotFound) {
		h.renderError(c, err)
		return nil, false
	}
	return term, true
}

func (h *AdminTermHandler) IndexHandler(c *gin.Context) {
	if term, ok := h.latest(c); ok {
		h.render(c, gin.H{"term": term})
	}
}

func (h *AdminTermHandler) EditHandler(c *gin.Context) {
	if term, ok := h.latest(c); ok {
		h.render(c, gin.H{"term": term})
	}
}

// StoreHandler は新しい版の規約を登録します。
func (h *AdminTermHandler) StoreHandler(c *gin.Context) {
	var req models.TermRequest
	if err := c.ShouldBind(&req); err != nil {
		h.redirectWithError(c, "/admin/terms/edit", validationMessage(err))
		return
	}
	if _, err := h.termService.Create(c.Request.Context(), req); err != nil {
		h.mutationError(c, err, "/admin/terms/edit", "/admin/terms")
		return
	}
	h.redirectWithFlash(c, "/admin/terms", "Terms created.")
}

func (h *AdminTermHandler) UpdateHandler(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req models.TermRequest
	if err := c.ShouldBind(&req); err != nil {
		h.redirectWithError(c, "/admin/terms/edit", validationMessage(err))
		return
	}
	if _, err := h.termService.Update(c.Request.Context(), id, req); err != nil {
		h.mutationError(c, err, "/admin/terms/edit", "/admin/terms")
		return
	}
	h.redirectWithFlash(c, "/admin/terms", "Terms updated.")
}

func (h *AdminTermHandler) DestroyHandler(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	if err := h.termService.Delete(c.Request.Context(), id); err != nil {
		h.mutationError(c, err, "/admin/terms", "/admin/terms")
		return
	}
	h.redirectWithFlash(c, "/admin/terms", "Terms deleted.")
}

// AdminCompanyHandler は会社概要の管理です。
type AdminCompanyHandler struct {
	base
	companyService *services.CompanyService
}

func NewAdminCompanyHandler(companyService *services.CompanyService, secureCookies bool) *AdminCompanyHandler {
	return &AdminCompanyHandler{base: base{secureCookies: secureCookies}, companyService: companyService}
}

func (h *AdminCompanyHandler) IndexHandler(c *gin.Context) {
	company, err := h.companyService.Get(c.Request.Context())
	if err != nil {
		h.renderError(c, err)
		return
	}
	h.render(c, gin.H{"company": company})
}

func (h *AdminCompanyHandler) UpdateHandler(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req models.CompanyRequest
	if err := c.ShouldBind(&req); err != nil {
		h.redirectWithError(c, "/admin/company/edit", validationMessage(err))
		return
	}
	if _, err := h.companyService.Update(c.Request.Context(), id, req); err != nil {
		h.mutationError(c, err, "/admin/company/edit", "/admin/company")
		return
	}
	h.redirectWithFlash(c, "/admin/company", "Company updated.")
}

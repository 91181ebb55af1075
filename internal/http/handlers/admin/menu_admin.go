package admin

import (
	"errors"
	"strconv"
	"strings"

	handlershared "github.com/bitekart/bitekart/internal/http/handlers/shared"
	"github.com/bitekart/bitekart/internal/http/response"
	"github.com/bitekart/bitekart/internal/service"

	"github.com/gin-gonic/gin"
)

// GetAdminMenuItems 菜单列表（含下架商品）
func (h *Handler) GetAdminMenuItems(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	page, pageSize = handlershared.NormalizePagination(page, pageSize)
	category := strings.TrimSpace(c.Query("category"))
	search := strings.TrimSpace(c.Query("search"))

	items, total, err := h.ProductService.ListAdmin(category, search, page, pageSize)
	if err != nil {
		respondError(c, response.CodeInternal, "error.menu_fetch_failed", err)
		return
	}

	totalPage := (total + int64(pageSize) - 1) / int64(pageSize)
	response.SuccessWithPage(c, gin.H{"items": items}, response.Pagination{
		Page:      page,
		PageSize:  pageSize,
		Total:     total,
		TotalPage: totalPage,
	})
}

// GetAdminMenuItem 菜单项详情
func (h *Handler) GetAdminMenuItem(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	product, err := h.ProductService.GetAdminByID(id)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrNotFound):
			respondError(c, response.CodeNotFound, "error.product_not_found", nil)
		default:
			respondError(c, response.CodeInternal, "error.menu_fetch_failed", err)
		}
		return
	}
	response.Success(c, product)
}

// CreateMenuItem 新建菜单项
func (h *Handler) CreateMenuItem(c *gin.Context) {
	var input service.MenuItemInput
	if err := c.ShouldBindJSON(&input); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}

	product, err := h.ProductService.Create(input)
	if err != nil {
		respondMenuSaveError(c, err)
		return
	}
	response.Success(c, product)
}

// UpdateMenuItem 更新菜单项
func (h *Handler) UpdateMenuItem(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var input service.MenuItemInput
	if err := c.ShouldBindJSON(&input); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}

	product, err := h.ProductService.Update(id, input)
	if err != nil {
		respondMenuSaveError(c, err)
		return
	}
	response.Success(c, product)
}

// DeleteMenuItem 删除菜单项（软删除）
func (h *Handler) DeleteMenuItem(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.ProductService.Delete(id); err != nil {
		switch {
		case errors.Is(err, service.ErrNotFound):
			respondError(c, response.CodeNotFound, "error.product_not_found", nil)
		default:
			respondError(c, response.CodeInternal, "error.product_delete_failed", err)
		}
		return
	}
	response.Success(c, gin.H{"deleted": true})
}

func respondMenuSaveError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrInvalidProduct):
		respondError(c, response.CodeBadRequest, "error.bad_request", nil)
	case errors.Is(err, service.ErrSlugExists):
		respondError(c, response.CodeBadRequest, "error.slug_exists", nil)
	case errors.Is(err, service.ErrNotFound):
		respondError(c, response.CodeNotFound, "error.product_not_found", nil)
	default:
		respondError(c, response.CodeInternal, "error.product_save_failed", err)
	}
}

func parseIDParam(c *gin.Context, name string) (uint, bool) {
	raw := c.Param(name)
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		respondError(c, response.CodeBadRequest, "error.bad_request", nil)
		return 0, false
	}
	return uint(id), true
}

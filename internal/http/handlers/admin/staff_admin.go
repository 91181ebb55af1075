package admin

import (
	"errors"
	"strconv"
	"strings"

	handlershared "github.com/bitekart/bitekart/internal/http/handlers/shared"
	"github.com/bitekart/bitekart/internal/http/response"
	"github.com/bitekart/bitekart/internal/repository"
	"github.com/bitekart/bitekart/internal/service"

	"github.com/gin-gonic/gin"
)

// SetStaffRolesRequest 角色更新请求
type SetStaffRolesRequest struct {
	Roles []string `json:"roles"`
}

// SetStaffStatusRequest 账号状态更新请求
type SetStaffStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// ListStaff 成员列表（附带角色）
func (h *Handler) ListStaff(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	page, pageSize = handlershared.NormalizePagination(page, pageSize)

	details, total, err := h.StaffService.ListUsers(repository.UserListFilter{
		Page:     page,
		PageSize: pageSize,
		Keyword:  strings.TrimSpace(c.Query("keyword")),
		Status:   strings.TrimSpace(c.Query("status")),
	})
	if err != nil {
		respondError(c, response.CodeInternal, "error.staff_fetch_failed", err)
		return
	}

	totalPage := (total + int64(pageSize) - 1) / int64(pageSize)
	response.SuccessWithPage(c, gin.H{"items": details}, response.Pagination{
		Page:      page,
		PageSize:  pageSize,
		Total:     total,
		TotalPage: totalPage,
	})
}

// SetStaffRoles 覆写成员角色
func (h *Handler) SetStaffRoles(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var req SetStaffRolesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}

	roles, err := h.StaffService.SetUserRoles(id, req.Roles)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidRole):
			respondError(c, response.CodeBadRequest, "error.role_invalid", nil)
		case errors.Is(err, service.ErrNotFound):
			respondError(c, response.CodeNotFound, "error.not_found", nil)
		default:
			respondError(c, response.CodeInternal, "error.staff_update_failed", err)
		}
		return
	}

	response.Success(c, gin.H{"roles": roles})
}

// SetStaffStatus 更新成员账号状态（禁用时强制其全部会话失效）
func (h *Handler) SetStaffStatus(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var req SetStaffStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}

	user, err := h.StaffService.SetUserStatus(id, req.Status)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidStatus):
			respondError(c, response.CodeBadRequest, "error.bad_request", nil)
		case errors.Is(err, service.ErrNotFound):
			respondError(c, response.CodeNotFound, "error.not_found", nil)
		default:
			respondError(c, response.CodeInternal, "error.staff_update_failed", err)
		}
		return
	}

	response.Success(c, gin.H{
		"id":     user.ID,
		"email":  user.Email,
		"status": user.Status,
	})
}

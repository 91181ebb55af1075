package public

import (
	"strconv"

	"github.com/bitekart/bitekart/internal/http/response"
	"github.com/bitekart/bitekart/internal/service"

	"github.com/gin-gonic/gin"
)

// CartItemRequest 购物车条目请求
type CartItemRequest struct {
	ProductID uint `json:"product_id" binding:"required"`
	Quantity  int  `json:"quantity" binding:"required"`
}

// CartQuantityRequest 条目数量请求
type CartQuantityRequest struct {
	Quantity int `json:"quantity"`
}

var cartErrorRules = []mappedHandlerError{
	{target: service.ErrInvalidCartItem, code: response.CodeBadRequest, key: "error.cart_item_invalid"},
	{target: service.ErrProductNotAvailable, code: response.CodeBadRequest, key: "error.product_not_available"},
	{target: service.ErrCartFetchFailed, code: response.CodeInternal, key: "error.cart_fetch_failed"},
	{target: service.ErrCartUpdateFailed, code: response.CodeInternal, key: "error.cart_update_failed"},
}

func respondCartError(c *gin.Context, err error) {
	respondWithMappedError(c, err, cartErrorRules, response.CodeInternal, "error.cart_update_failed")
}

func cartResponse(c *gin.Context, view *service.CartView) {
	response.Success(c, gin.H{
		"items":    view.Items,
		"summary":  view.Summary,
		"degraded": view.Degraded,
	})
}

// GetCart 获取购物车
func (h *Handler) GetCart(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}

	view, err := h.CartService.Get(uid)
	if err != nil {
		respondWithMappedError(c, err, cartErrorRules, response.CodeInternal, "error.cart_fetch_failed")
		return
	}
	cartResponse(c, view)
}

// AddCartItem 添加条目（已存在则累加数量）
func (h *Handler) AddCartItem(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	var req CartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}

	view, err := h.CartService.AddItem(uid, req.ProductID, req.Quantity)
	if err != nil {
		respondCartError(c, err)
		return
	}
	cartResponse(c, view)
}

// SetCartItemQuantity 覆写条目数量（0 或负数等同删除）
func (h *Handler) SetCartItemQuantity(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	productID, valid := parseProductID(c)
	if !valid {
		return
	}
	var req CartQuantityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}

	view, err := h.CartService.SetQuantity(uid, productID, req.Quantity)
	if err != nil {
		respondCartError(c, err)
		return
	}
	cartResponse(c, view)
}

// DeleteCartItem 删除条目
func (h *Handler) DeleteCartItem(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	productID, valid := parseProductID(c)
	if !valid {
		return
	}

	view, err := h.CartService.RemoveItem(uid, productID)
	if err != nil {
		respondCartError(c, err)
		return
	}
	cartResponse(c, view)
}

// ClearCart 清空购物车（保留记录本身）
func (h *Handler) ClearCart(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}

	view, err := h.CartService.Clear(uid)
	if err != nil {
		respondCartError(c, err)
		return
	}
	cartResponse(c, view)
}

func parseProductID(c *gin.Context) (uint, bool) {
	raw := c.Param("product_id")
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		respondError(c, response.CodeBadRequest, "error.cart_item_invalid", nil)
		return 0, false
	}
	return uint(id), true
}

package v1

import (
	"net/http"

	"github.com/CCDD2022/minierp/api/middleware"
	"github.com/CCDD2022/minierp/internal/service"
	"github.com/gin-gonic/gin"
)

// OrderHandler 订单 HTTP 处理器
type OrderHandler struct {
	orderService *service.OrderService
}

func NewOrderHandler(orderService *service.OrderService) *OrderHandler {
	return &OrderHandler{orderService: orderService}
}

type orderRequest struct {
	ProductID int64 `json:"product_id" binding:"required"`
	// 指针绑定让显式传0通过参数层 数量范围由service判定
	Quantity *int32 `json:"quantity" binding:"required"`
}

// RegisterRoutes 注册订单路由（需JWT） 归属校验在service层
func (h *OrderHandler) RegisterRoutes(rg *gin.RouterGroup) {
	orders := rg.Group("/orders")
	{
		orders.POST("", h.CreateOrder)
		orders.GET("", h.ListOrders)
		orders.GET("/:id", h.GetOrder)
		orders.PUT("/:id", h.UpdateOrder)
		orders.DELETE("/:id", h.DeleteOrder)
	}
}

// CreateOrder 当前用户下单
func (h *OrderHandler) CreateOrder(c *gin.Context) {
	var req orderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		FailParams(c)
		return
	}

	userID := c.GetInt64(middleware.CtxUserID)
	email := c.GetString(middleware.CtxEmail)

	order, err := h.orderService.CreateOrder(c.Request.Context(), userID, email, req.ProductID, *req.Quantity)
	if err != nil {
		Fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, order)
}

// ListOrders 普通用户只看自己的 管理员全量可见
func (h *OrderHandler) ListOrders(c *gin.Context) {
	page, pageSize := parsePagination(c)
	userID := c.GetInt64(middleware.CtxUserID)
	isAdmin := middleware.RoleFrom(c).CanAdminister()

	orders, total, err := h.orderService.ListOrders(c.Request.Context(), userID, isAdmin, page, pageSize)
	if err != nil {
		Fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"total":     total,
		"page":      page,
		"page_size": pageSize,
		"items":     orders,
	})
}

// GetOrder 获取订单详情
func (h *OrderHandler) GetOrder(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	userID := c.GetInt64(middleware.CtxUserID)
	isAdmin := middleware.RoleFrom(c).CanAdminister()

	order, err := h.orderService.GetOrder(c.Request.Context(), userID, isAdmin, id)
	if err != nil {
		Fail(c, err)
		return
	}
	c.JSON(http.StatusOK, order)
}

// UpdateOrder 整单替换明细 仅所有者 仅NEW状态
func (h *OrderHandler) UpdateOrder(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var req orderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		FailParams(c)
		return
	}

	userID := c.GetInt64(middleware.CtxUserID)

	order, err := h.orderService.UpdateOrder(c.Request.Context(), userID, id, req.ProductID, *req.Quantity)
	if err != nil {
		Fail(c, err)
		return
	}
	c.JSON(http.StatusOK, order)
}

// DeleteOrder 删除订单并归还库存 仅所有者 仅NEW状态
func (h *OrderHandler) DeleteOrder(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	userID := c.GetInt64(middleware.CtxUserID)

	if err := h.orderService.DeleteOrder(c.Request.Context(), userID, id); err != nil {
		Fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

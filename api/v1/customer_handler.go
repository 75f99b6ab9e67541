package v1

import (
	"net/http"

	"github.com/CCDD2022/minierp/api/middleware"
	"github.com/CCDD2022/minierp/internal/service"
	"github.com/gin-gonic/gin"
)

// CustomerHandler 客户 HTTP 处理器
type CustomerHandler struct {
	customerService *service.CustomerService
}

func NewCustomerHandler(customerService *service.CustomerService) *CustomerHandler {
	return &CustomerHandler{customerService: customerService}
}

// RegisterRoutes 注册客户路由（需JWT） 全部操作要求管理角色
func (h *CustomerHandler) RegisterRoutes(rg *gin.RouterGroup) {
	customers := rg.Group("/customers", middleware.AdminRequired())
	{
		customers.POST("", h.CreateCustomer)
		customers.GET("", h.ListCustomers)
		customers.GET("/:id", h.GetCustomer)
		customers.PUT("/:id", h.UpdateCustomer)
		customers.DELETE("/:id", h.DeleteCustomer)
	}
}

// CreateCustomer 显式建档
func (h *CustomerHandler) CreateCustomer(c *gin.Context) {
	var req service.CustomerInput
	if err := c.ShouldBindJSON(&req); err != nil {
		FailParams(c)
		return
	}

	customer, err := h.customerService.CreateCustomer(c.Request.Context(), &req)
	if err != nil {
		Fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, customer)
}

// ListCustomers 搜索/分页查询客户
func (h *CustomerHandler) ListCustomers(c *gin.Context) {
	page, pageSize := parsePagination(c)
	search := c.Query("search")

	customers, total, err := h.customerService.ListCustomers(c.Request.Context(), search, page, pageSize)
	if err != nil {
		Fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"total":     total,
		"page":      page,
		"page_size": pageSize,
		"items":     customers,
	})
}

// GetCustomer 获取单个客户
func (h *CustomerHandler) GetCustomer(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	customer, err := h.customerService.GetCustomer(c.Request.Context(), id)
	if err != nil {
		Fail(c, err)
		return
	}
	c.JSON(http.StatusOK, customer)
}

// UpdateCustomer 整体替换客户字段
func (h *CustomerHandler) UpdateCustomer(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var req service.CustomerInput
	if err := c.ShouldBindJSON(&req); err != nil {
		FailParams(c)
		return
	}

	customer, err := h.customerService.UpdateCustomer(c.Request.Context(), id, &req)
	if err != nil {
		Fail(c, err)
		return
	}
	c.JSON(http.StatusOK, customer)
}

// DeleteCustomer 删除客户
func (h *CustomerHandler) DeleteCustomer(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	if err := h.customerService.DeleteCustomer(c.Request.Context(), id); err != nil {
		Fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

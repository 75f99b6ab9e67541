package v1

import (
	"net/http"

	"github.com/CCDD2022/minierp/api/middleware"
	"github.com/CCDD2022/minierp/internal/service"
	"github.com/gin-gonic/gin"
)

// ProductHandler 商品 HTTP 处理器
type ProductHandler struct {
	productService *service.ProductService
}

func NewProductHandler(productService *service.ProductService) *ProductHandler {
	return &ProductHandler{productService: productService}
}

// RegisterRoutes 注册商品路由（需JWT） 变更操作额外要求管理角色
func (h *ProductHandler) RegisterRoutes(rg *gin.RouterGroup) {
	products := rg.Group("/products")
	{
		products.GET("", h.ListProducts)
		products.GET("/:id", h.GetProduct)

		admin := products.Group("", middleware.AdminRequired())
		{
			admin.POST("", h.CreateProduct)
			admin.PUT("/:id", h.UpdateProduct)
			admin.DELETE("/:id", h.DeleteProduct)
		}
	}
}

// CreateProduct 创建商品
func (h *ProductHandler) CreateProduct(c *gin.Context) {
	var req service.ProductInput
	if err := c.ShouldBindJSON(&req); err != nil {
		FailParams(c)
		return
	}

	product, err := h.productService.CreateProduct(c.Request.Context(), &req)
	if err != nil {
		Fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, product)
}

// ListProducts 搜索/排序/分页查询商品
func (h *ProductHandler) ListProducts(c *gin.Context) {
	page, pageSize := parsePagination(c)
	search := c.Query("search")
	ordering := c.Query("ordering")

	products, total, err := h.productService.ListProducts(c.Request.Context(), search, ordering, page, pageSize)
	if err != nil {
		Fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"total":     total,
		"page":      page,
		"page_size": pageSize,
		"items":     products,
	})
}

// GetProduct 获取单个商品信息
func (h *ProductHandler) GetProduct(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	product, err := h.productService.GetProduct(c.Request.Context(), id)
	if err != nil {
		Fail(c, err)
		return
	}
	c.JSON(http.StatusOK, product)
}

// UpdateProduct 整体替换商品字段
func (h *ProductHandler) UpdateProduct(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var req service.ProductInput
	if err := c.ShouldBindJSON(&req); err != nil {
		FailParams(c)
		return
	}

	product, err := h.productService.UpdateProduct(c.Request.Context(), id, &req)
	if err != nil {
		Fail(c, err)
		return
	}
	c.JSON(http.StatusOK, product)
}

// DeleteProduct 删除商品
func (h *ProductHandler) DeleteProduct(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	if err := h.productService.DeleteProduct(c.Request.Context(), id); err != nil {
		Fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

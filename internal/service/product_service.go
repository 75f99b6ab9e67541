package service

import (
	"context"
	"errors"

	"github.com/CCDD2022/minierp/internal/dao"
	"github.com/CCDD2022/minierp/internal/model"
	"github.com/CCDD2022/minierp/pkg/e"

	"gorm.io/gorm"
)

type ProductService struct {
	productDao *dao.ProductDao
}

func NewProductService(productDao *dao.ProductDao) *ProductService {
	return &ProductService{
		productDao: productDao,
	}
}

// ProductInput 创建/更新商品的入参 PUT为整体替换语义
type ProductInput struct {
	Name       string  `json:"name" binding:"required"`
	Slug       string  `json:"slug" binding:"required"`
	SKU        string  `json:"sku" binding:"required"`
	Price      float64 `json:"price" binding:"min=0"`
	QtyInStock int32   `json:"qty_in_stock" binding:"min=0"`
	IsActive   *bool   `json:"is_active"`
}

// CreateProduct 创建商品 SKU重复返回业务错误
func (s *ProductService) CreateProduct(ctx context.Context, in *ProductInput) (*model.Product, error) {
	exists, err := s.productDao.SKUExists(ctx, in.SKU)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, e.New(e.ERROR_SKU_EXISTS)
	}

	active := true
	if in.IsActive != nil {
		active = *in.IsActive
	}
	p := &model.Product{
		Name:       in.Name,
		Slug:       in.Slug,
		SKU:        in.SKU,
		Price:      in.Price,
		QtyInStock: in.QtyInStock,
		IsActive:   active,
	}
	if _, err := s.productDao.CreateProduct(ctx, p); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, e.New(e.ERROR_SKU_EXISTS)
		}
		return nil, err
	}
	return p, nil
}

// GetProduct 获取商品详情
func (s *ProductService) GetProduct(ctx context.Context, id int64) (*model.Product, error) {
	p, err := s.productDao.GetProductByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, e.New(e.ERROR_PRODUCT_NOT_EXISTS)
		}
		return nil, err
	}
	return p, nil
}

// ListProducts 搜索+排序+分页
func (s *ProductService) ListProducts(ctx context.Context, search, ordering string, page, pageSize int) ([]*model.Product, int64, error) {
	return s.productDao.ListProducts(ctx, search, ordering, page, pageSize)
}

// UpdateProduct 整体替换商品字段
func (s *ProductService) UpdateProduct(ctx context.Context, id int64, in *ProductInput) (*model.Product, error) {
	if _, err := s.productDao.GetProductByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, e.New(e.ERROR_PRODUCT_NOT_EXISTS)
		}
		return nil, err
	}

	active := true
	if in.IsActive != nil {
		active = *in.IsActive
	}
	updates := map[string]interface{}{
		"name":         in.Name,
		"slug":         in.Slug,
		"sku":          in.SKU,
		"price":        in.Price,
		"qty_in_stock": in.QtyInStock,
		"is_active":    active,
	}
	if err := s.productDao.UpdateProduct(ctx, id, updates); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, e.New(e.ERROR_SKU_EXISTS)
		}
		return nil, err
	}
	return s.productDao.GetProductByID(ctx, id)
}

// DeleteProduct 删除商品
func (s *ProductService) DeleteProduct(ctx context.Context, id int64) error {
	if _, err := s.productDao.GetProductByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return e.New(e.ERROR_PRODUCT_NOT_EXISTS)
		}
		return err
	}
	return s.productDao.DeleteProductByID(ctx, id)
}

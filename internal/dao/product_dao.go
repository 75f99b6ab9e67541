package dao

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/CCDD2022/minierp/internal/model"
	"github.com/CCDD2022/minierp/pkg/logger"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ErrInsufficientStock 条件扣减未命中任何行 即库存不足
var ErrInsufficientStock = errors.New("库存不足")

type ProductDao struct {
	db       *gorm.DB
	redis    redis.UniversalClient
	cacheTTL time.Duration
}

// NewProductDao redis可为nil 此时关闭商品缓存
func NewProductDao(db *gorm.DB, rdb redis.UniversalClient, cacheTTL time.Duration) *ProductDao {
	return &ProductDao{
		db:       db,
		redis:    rdb,
		cacheTTL: cacheTTL,
	}
}

func productCacheKey(id int64) string {
	return fmt.Sprintf("product:detail:%d", id)
}

// CreateProduct 创建商品
func (d *ProductDao) CreateProduct(ctx context.Context, p *model.Product) (int64, error) {
	if err := d.db.WithContext(ctx).Create(p).Error; err != nil {
		return 0, err
	}
	return p.ID, nil
}

// SKUExists 检查SKU是否已存在
func (d *ProductDao) SKUExists(ctx context.Context, sku string) (bool, error) {
	var count int64
	err := d.db.WithContext(ctx).Model(&model.Product{}).Where("sku = ?", sku).Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// GetProductByID 读取商品详情 优先走缓存
func (d *ProductDao) GetProductByID(ctx context.Context, id int64) (*model.Product, error) {
	if d.cacheEnabled() {
		if raw, err := d.redis.Get(ctx, productCacheKey(id)).Result(); err == nil {
			var p model.Product
			if err := json.Unmarshal([]byte(raw), &p); err == nil {
				return &p, nil
			}
			// 缓存内容损坏 删除后回源
			_ = d.redis.Del(ctx, productCacheKey(id)).Err()
		}
	}

	var p model.Product
	if err := d.db.WithContext(ctx).First(&p, id).Error; err != nil {
		return nil, err
	}

	if d.cacheEnabled() {
		if raw, err := json.Marshal(&p); err == nil {
			if err := d.redis.Set(ctx, productCacheKey(id), raw, d.cacheTTL).Err(); err != nil {
				logger.Warn("商品缓存写入失败", "product_id", id, "err", err)
			}
		}
	}
	return &p, nil
}

// GetProductForUpdate 事务内加行锁读取商品 用于订单写路径
func (d *ProductDao) GetProductForUpdate(tx *gorm.DB, id int64) (*model.Product, error) {
	var p model.Product
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&p, id).Error
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// ListProducts 搜索+排序+分页
// search对name/sku做不区分大小写的子串匹配 ordering形如 price 或 -price
func (d *ProductDao) ListProducts(ctx context.Context, search, ordering string, page, pageSize int) ([]*model.Product, int64, error) {
	query := d.db.WithContext(ctx).Model(&model.Product{})

	if search != "" {
		pattern := "%" + strings.ToLower(search) + "%"
		query = query.Where("LOWER(name) LIKE ? OR LOWER(sku) LIKE ?", pattern, pattern)
	}

	if ordering != "" {
		col := strings.TrimPrefix(ordering, "-")
		// 未声明的列直接忽略排序参数 防注入
		if model.IsOrderableColumn(col) {
			if strings.HasPrefix(ordering, "-") {
				col += " DESC"
			}
			query = query.Order(col)
		}
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var products []*model.Product
	err := query.
		Limit(pageSize).
		Offset((page - 1) * pageSize).
		Find(&products).Error

	return products, total, err
}

// UpdateProduct 更新商品字段并失效缓存
func (d *ProductDao) UpdateProduct(ctx context.Context, id int64, updates map[string]interface{}) error {
	if err := d.db.WithContext(ctx).Model(&model.Product{}).Where("id = ?", id).Updates(updates).Error; err != nil {
		return err
	}
	d.InvalidateCache(ctx, id)
	return nil
}

// DeleteProductByID 删除商品并失效缓存
func (d *ProductDao) DeleteProductByID(ctx context.Context, id int64) error {
	if err := d.db.WithContext(ctx).Delete(&model.Product{}, id).Error; err != nil {
		return err
	}
	d.InvalidateCache(ctx, id)
	return nil
}

// DeductStock 条件扣减库存 保证qty_in_stock不会为负
// 必须在调用方事务内执行 未命中任何行时返回ErrInsufficientStock
func (d *ProductDao) DeductStock(tx *gorm.DB, id int64, qty int32) error {
	result := tx.Exec(
		"UPDATE products SET qty_in_stock = qty_in_stock - ? WHERE id = ? AND qty_in_stock >= ?",
		qty, id, qty,
	)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrInsufficientStock
	}
	return nil
}

// RestoreStock 归还库存 必须在调用方事务内执行
func (d *ProductDao) RestoreStock(tx *gorm.DB, id int64, qty int32) error {
	return tx.Exec(
		"UPDATE products SET qty_in_stock = qty_in_stock + ? WHERE id = ?",
		qty, id,
	).Error
}

// InvalidateCache 删除商品缓存 删除失败只降级为日志 下次读穿透回源
func (d *ProductDao) InvalidateCache(ctx context.Context, id int64) {
	if !d.cacheEnabled() {
		return
	}
	if err := d.redis.Del(ctx, productCacheKey(id)).Err(); err != nil {
		logger.Warn("商品缓存失效失败", "product_id", id, "err", err)
	}
}

func (d *ProductDao) cacheEnabled() bool {
	return d.redis != nil && d.cacheTTL > 0
}

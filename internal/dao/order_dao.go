package dao

import (
	"context"

	"github.com/CCDD2022/minierp/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type OrderDao struct {
	db *gorm.DB
}

func NewOrderDao(db *gorm.DB) *OrderDao {
	return &OrderDao{
		db: db,
	}
}

// Transaction 在一个数据库事务内执行fn 任一错误整体回滚
// 订单+明细+库存的多行写必须走这里
func (d *OrderDao) Transaction(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return d.db.WithContext(ctx).Transaction(fn)
}

// CreateOrder 事务内创建订单及其明细
func (d *OrderDao) CreateOrder(tx *gorm.DB, order *model.Order) error {
	return tx.Create(order).Error
}

// GetOrderByID 读取订单及明细
func (d *OrderDao) GetOrderByID(ctx context.Context, orderID int64) (*model.Order, error) {
	var order model.Order
	err := d.db.WithContext(ctx).Preload("Items").First(&order, orderID).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// GetOrderForUpdate 事务内加行锁读取订单及明细 用于修改/删除路径
func (d *OrderDao) GetOrderForUpdate(tx *gorm.DB, orderID int64) (*model.Order, error) {
	var order model.Order
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&order, orderID).Error
	if err != nil {
		return nil, err
	}
	if err := tx.Where("order_id = ?", orderID).Find(&order.Items).Error; err != nil {
		return nil, err
	}
	return &order, nil
}

// ListOrders 分页查询订单 userID为0时不过滤归属（管理员全量可见）
func (d *OrderDao) ListOrders(ctx context.Context, userID int64, page, pageSize int) ([]*model.Order, int64, error) {
	query := d.db.WithContext(ctx).Model(&model.Order{})
	if userID > 0 {
		query = query.Where("user_id = ?", userID)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var orders []*model.Order
	err := query.
		Preload("Items").
		Order("created_at DESC").
		Limit(pageSize).
		Offset((page - 1) * pageSize).
		Find(&orders).Error

	return orders, total, err
}

// ReplaceItems 事务内整单替换明细并更新订单总价
func (d *OrderDao) ReplaceItems(tx *gorm.DB, orderID int64, items []model.OrderItem, total float64) error {
	if err := tx.Where("order_id = ?", orderID).Delete(&model.OrderItem{}).Error; err != nil {
		return err
	}
	for i := range items {
		items[i].OrderID = orderID
		items[i].ID = 0
	}
	if err := tx.Create(&items).Error; err != nil {
		return err
	}
	return tx.Model(&model.Order{}).Where("id = ?", orderID).Update("total", total).Error
}

// DeleteOrder 事务内删除订单及其全部明细
func (d *OrderDao) DeleteOrder(tx *gorm.DB, orderID int64) error {
	if err := tx.Where("order_id = ?", orderID).Delete(&model.OrderItem{}).Error; err != nil {
		return err
	}
	return tx.Delete(&model.Order{}, orderID).Error
}

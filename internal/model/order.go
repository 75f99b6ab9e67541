package model

import "time"

// OrderStatus 订单状态 封闭枚举
// 仅NEW状态的订单允许修改与删除 离开NEW的流转由下游支付/履约方通过事件驱动
type OrderStatus string

const (
	OrderStatusNew      OrderStatus = "NEW"
	OrderStatusPaid     OrderStatus = "PAID"
	OrderStatusShipped  OrderStatus = "SHIPPED"
	OrderStatusCanceled OrderStatus = "CANCELED"
)

// Mutable 订单是否仍允许修改/删除
func (s OrderStatus) Mutable() bool {
	return s == OrderStatusNew
}

// Order 订单模型 独占持有明细行 删除订单时级联删除明细
type Order struct {
	ID         int64       `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID     int64       `gorm:"not null;index" json:"user_id"`
	CustomerID int64       `gorm:"not null;index" json:"customer_id"`
	Status     OrderStatus `gorm:"size:16;not null;default:NEW" json:"status"`
	Total      float64     `gorm:"type:decimal(10,2);not null" json:"total"`
	Items      []OrderItem `gorm:"constraint:OnDelete:CASCADE" json:"items"`
	CreatedAt  time.Time   `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt  time.Time   `gorm:"autoUpdateTime" json:"updated_at"`
}

func (*Order) TableName() string {
	return "orders"
}

// OrderItem 订单明细 落库时快照单价与行小计
type OrderItem struct {
	ID        int64   `gorm:"primaryKey;autoIncrement" json:"id"`
	OrderID   int64   `gorm:"not null;index" json:"order_id"`
	ProductID int64   `gorm:"not null;index" json:"product_id"`
	Qty       int32   `gorm:"not null" json:"qty"`
	UnitPrice float64 `gorm:"type:decimal(10,2);not null" json:"unit_price"`
	LineTotal float64 `gorm:"type:decimal(10,2);not null" json:"line_total"`
}

func (*OrderItem) TableName() string {
	return "order_items"
}

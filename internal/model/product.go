package model

import (
	"time"
)

type Product struct {
	ID         int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	Name       string    `gorm:"size:100;not null" json:"name"`
	Slug       string    `gorm:"size:120;uniqueIndex" json:"slug"`
	SKU        string    `gorm:"column:sku;size:64;not null;uniqueIndex" json:"sku"`
	Price      float64   `gorm:"type:decimal(10,2);not null" json:"price"`
	QtyInStock int32     `gorm:"not null;default:0" json:"qty_in_stock"`
	IsActive   bool      `gorm:"default:true;not null" json:"is_active"`
	CreatedAt  time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt  time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (*Product) TableName() string {
	return "products"
}

// orderableColumns 列表接口允许排序的列 防止把任意查询参数拼进ORDER BY
var orderableColumns = map[string]bool{
	"id":           true,
	"name":         true,
	"slug":         true,
	"sku":          true,
	"price":        true,
	"qty_in_stock": true,
	"is_active":    true,
	"created_at":   true,
	"updated_at":   true,
}

// IsOrderableColumn 判断列名是否允许用于商品排序
func IsOrderableColumn(col string) bool {
	return orderableColumns[col]
}

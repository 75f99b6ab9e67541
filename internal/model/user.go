package model

import (
	"time"
)

// Role 用户角色 封闭枚举 鉴权只通过能力方法判断 避免散落的字符串比较
type Role string

const (
	RoleAdmin Role = "admin"
	RoleUser  Role = "user"
)

// Valid 判断角色是否为已知取值
func (r Role) Valid() bool {
	return r == RoleAdmin || r == RoleUser
}

// CanAdminister 是否具备管理能力（商品/客户维护 全量订单可见）
func (r Role) CanAdminister() bool {
	return r == RoleAdmin
}

type User struct {
	ID           int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	Email        string    `gorm:"size:100;not null;uniqueIndex" json:"email"`
	PasswordHash string    `gorm:"size:255;not null" json:"-"`
	Role         Role      `gorm:"size:16;not null;default:user" json:"role"`
	IsActive     bool      `gorm:"default:true;not null" json:"is_active"`
	CreatedAt    time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (*User) TableName() string {
	return "users"
}

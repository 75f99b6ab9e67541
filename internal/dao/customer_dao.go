package dao

import (
	"context"
	"strings"

	"github.com/CCDD2022/minierp/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type CustomerDao struct {
	db *gorm.DB
}

func NewCustomerDao(db *gorm.DB) *CustomerDao {
	return &CustomerDao{db: db}
}

// CreateCustomer 创建客户
func (d *CustomerDao) CreateCustomer(ctx context.Context, c *model.Customer) error {
	return d.db.WithContext(ctx).Create(c).Error
}

// EmailExists 检查客户邮箱是否已存在
func (d *CustomerDao) EmailExists(ctx context.Context, email string) (bool, error) {
	var count int64
	err := d.db.WithContext(ctx).Model(&model.Customer{}).Where("email = ?", email).Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// GetCustomerByID 根据ID获取客户
func (d *CustomerDao) GetCustomerByID(ctx context.Context, id int64) (*model.Customer, error) {
	var c model.Customer
	err := d.db.WithContext(ctx).First(&c, id).Error
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// ListCustomers 搜索+分页 与商品列表同一契约 对name/email做不区分大小写子串匹配
func (d *CustomerDao) ListCustomers(ctx context.Context, search string, page, pageSize int) ([]*model.Customer, int64, error) {
	query := d.db.WithContext(ctx).Model(&model.Customer{})

	if search != "" {
		pattern := "%" + strings.ToLower(search) + "%"
		query = query.Where("LOWER(full_name) LIKE ? OR LOWER(email) LIKE ?", pattern, pattern)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var customers []*model.Customer
	err := query.
		Limit(pageSize).
		Offset((page - 1) * pageSize).
		Find(&customers).Error

	return customers, total, err
}

// UpdateCustomer 更新客户字段
func (d *CustomerDao) UpdateCustomer(ctx context.Context, id int64, updates map[string]interface{}) error {
	return d.db.WithContext(ctx).Model(&model.Customer{}).Where("id = ?", id).Updates(updates).Error
}

// DeleteCustomerByID 删除客户
func (d *CustomerDao) DeleteCustomerByID(ctx context.Context, id int64) error {
	return d.db.WithContext(ctx).Delete(&model.Customer{}, id).Error
}

// FindOrCreateByUser 按user_id查找客户 不存在则基于冲突仲裁插入后回读
// 并发首单依赖user_id唯一索引 冲突方DoNothing后回读到已存在的行
// 必须在调用方事务内执行
func (d *CustomerDao) FindOrCreateByUser(tx *gorm.DB, userID int64, fullName, email string) (*model.Customer, error) {
	candidate := &model.Customer{
		UserID:   &userID,
		FullName: fullName,
		Email:    email,
	}
	err := tx.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		DoNothing: true,
	}).Create(candidate).Error
	if err != nil {
		return nil, err
	}

	var c model.Customer
	if err := tx.Where("user_id = ?", userID).First(&c).Error; err != nil {
		return nil, err
	}
	return &c, nil
}

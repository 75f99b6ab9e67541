package service

import (
	"context"
	"errors"
	"strings"

	"github.com/CCDD2022/minierp/internal/dao"
	"github.com/CCDD2022/minierp/internal/model"
	"github.com/CCDD2022/minierp/pkg/e"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"gorm.io/gorm"
)

type CustomerService struct {
	customerDao *dao.CustomerDao
}

func NewCustomerService(customerDao *dao.CustomerDao) *CustomerService {
	return &CustomerService{
		customerDao: customerDao,
	}
}

// CustomerInput 创建/更新客户的入参
type CustomerInput struct {
	FullName string `json:"full_name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Phone    string `json:"phone"`
}

// CreateCustomer 管理端显式建档 邮箱重复返回业务错误
func (s *CustomerService) CreateCustomer(ctx context.Context, in *CustomerInput) (*model.Customer, error) {
	exists, err := s.customerDao.EmailExists(ctx, in.Email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, e.New(e.ERROR_CUSTOMER_EMAIL_EXISTS)
	}

	c := &model.Customer{
		FullName: in.FullName,
		Email:    in.Email,
		Phone:    in.Phone,
	}
	if err := s.customerDao.CreateCustomer(ctx, c); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, e.New(e.ERROR_CUSTOMER_EMAIL_EXISTS)
		}
		return nil, err
	}
	return c, nil
}

// GetCustomer 获取客户详情
func (s *CustomerService) GetCustomer(ctx context.Context, id int64) (*model.Customer, error) {
	c, err := s.customerDao.GetCustomerByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, e.New(e.ERROR_CUSTOMER_NOT_EXISTS)
		}
		return nil, err
	}
	return c, nil
}

// ListCustomers 搜索+分页
func (s *CustomerService) ListCustomers(ctx context.Context, search string, page, pageSize int) ([]*model.Customer, int64, error) {
	return s.customerDao.ListCustomers(ctx, search, page, pageSize)
}

// UpdateCustomer 整体替换客户字段
func (s *CustomerService) UpdateCustomer(ctx context.Context, id int64, in *CustomerInput) (*model.Customer, error) {
	if _, err := s.customerDao.GetCustomerByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, e.New(e.ERROR_CUSTOMER_NOT_EXISTS)
		}
		return nil, err
	}

	updates := map[string]interface{}{
		"full_name": in.FullName,
		"email":     in.Email,
		"phone":     in.Phone,
	}
	if err := s.customerDao.UpdateCustomer(ctx, id, updates); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, e.New(e.ERROR_CUSTOMER_EMAIL_EXISTS)
		}
		return nil, err
	}
	return s.customerDao.GetCustomerByID(ctx, id)
}

// DeleteCustomer 删除客户
func (s *CustomerService) DeleteCustomer(ctx context.Context, id int64) error {
	if _, err := s.customerDao.GetCustomerByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return e.New(e.ERROR_CUSTOMER_NOT_EXISTS)
		}
		return err
	}
	return s.customerDao.DeleteCustomerByID(ctx, id)
}

// DisplayNameFromEmail 从邮箱local-part推导客户姓名 用于首单自动建档
// 分隔符统一转空格后逐词首字母大写 例如 jane.doe@x.com -> "Jane Doe"
// Caser有内部状态不能跨协程共享 每次调用单独构造
func DisplayNameFromEmail(email string) string {
	local := email
	if i := strings.Index(email, "@"); i >= 0 {
		local = email[:i]
	}
	local = strings.NewReplacer(".", " ", "_", " ", "-", " ").Replace(local)
	name := strings.TrimSpace(cases.Title(language.Und).String(local))
	if name == "" {
		return email
	}
	return name
}

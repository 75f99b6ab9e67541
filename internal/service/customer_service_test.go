package service

import (
	"context"
	"sync"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/CCDD2022/minierp/internal/dao"
	"github.com/CCDD2022/minierp/pkg/e"
)

func newCustomerService(t *testing.T) (*CustomerService, sqlmock.Sqlmock) {
	db, mock := newMockDB(t)
	return NewCustomerService(dao.NewCustomerDao(db)), mock
}

func TestCreateCustomerSuccess(t *testing.T) {
	svc, mock := newCustomerService(t)

	mock.ExpectQuery("SELECT count\\(\\*\\) FROM `customers`").
		WithArgs("jane@example.com").
		WillReturnRows(sqlmock.NewRows([]string{"count(*)"}).AddRow(0))
	mock.ExpectExec("INSERT INTO `customers`").
		WillReturnResult(sqlmock.NewResult(5, 1))

	c, err := svc.CreateCustomer(context.Background(), &CustomerInput{
		FullName: "Jane Doe",
		Email:    "jane@example.com",
		Phone:    "13800000000",
	})
	require.NoError(t, err)
	assert.Equal(t, int64(5), c.ID)
	assert.Equal(t, "Jane Doe", c.FullName)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateCustomerDuplicateEmail(t *testing.T) {
	svc, mock := newCustomerService(t)

	mock.ExpectQuery("SELECT count\\(\\*\\) FROM `customers`").
		WithArgs("dup@example.com").
		WillReturnRows(sqlmock.NewRows([]string{"count(*)"}).AddRow(1))

	_, err := svc.CreateCustomer(context.Background(), &CustomerInput{
		FullName: "Dup",
		Email:    "dup@example.com",
	})
	assert.Equal(t, e.ERROR_CUSTOMER_EMAIL_EXISTS, e.CodeOf(err))

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetCustomerNotFound(t *testing.T) {
	svc, mock := newCustomerService(t)

	mock.ExpectQuery("SELECT .* FROM `customers` WHERE `customers`.`id` = ").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := svc.GetCustomer(context.Background(), 404)
	assert.Equal(t, e.ERROR_CUSTOMER_NOT_EXISTS, e.CodeOf(err))
}

func TestDisplayNameFromEmail(t *testing.T) {
	cases := []struct {
		email string
		want  string
	}{
		{"jane.doe@example.com", "Jane Doe"},
		{"bob@x", "Bob"},
		{"li_lei-han@example.com", "Li Lei Han"},
		{"alice", "Alice"},
		// local-part为空时退回整个邮箱
		{"@example.com", "@example.com"},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, DisplayNameFromEmail(c.email), c.email)
	}
}

// 并发下单时多个协程同时推导客户姓名 结果必须各自正确且无数据竞争
func TestDisplayNameFromEmailConcurrent(t *testing.T) {
	var wg sync.WaitGroup
	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 200; i++ {
				assert.Equal(t, "Jane Doe", DisplayNameFromEmail("jane.doe@example.com"))
				assert.Equal(t, "Li Lei", DisplayNameFromEmail("li_lei@example.com"))
			}
		}()
	}
	wg.Wait()
}

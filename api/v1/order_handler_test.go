package v1

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"

	"github.com/CCDD2022/minierp/api/middleware"
	"github.com/CCDD2022/minierp/internal/dao"
	"github.com/CCDD2022/minierp/internal/service"
)

func newOrderRouter(t *testing.T) (*gin.Engine, sqlmock.Sqlmock) {
	t.Helper()

	sqlDB, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	db, err := gorm.Open(mysql.New(mysql.Config{
		Conn:                      sqlDB,
		SkipInitializeWithVersion: true,
	}), &gorm.Config{
		SkipDefaultTransaction: true,
		DisableAutomaticPing:   true,
		TranslateError:         true,
	})
	require.NoError(t, err)

	svc := service.NewOrderService(
		dao.NewOrderDao(db),
		dao.NewProductDao(db, nil, 0),
		dao.NewCustomerDao(db),
		nil,
	)
	h := NewOrderHandler(svc)

	r := gin.New()
	authed := r.Group("/api", func(c *gin.Context) {
		c.Set(middleware.CtxUserID, int64(7))
		c.Set(middleware.CtxEmail, "jane@example.com")
	})
	h.RegisterRoutes(authed)
	return r, mock
}

func postOrder(r *gin.Engine, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/api/orders", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

// 显式传quantity=0要走到数量专属错误 而不是通用参数错误
func TestCreateOrderZeroQuantity(t *testing.T) {
	r, mock := newOrderRouter(t)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT .* FROM `products` .*FOR UPDATE").
		WillReturnRows(sqlmock.NewRows([]string{"id", "price", "qty_in_stock"}).
			AddRow(1, 5.0, 10))
	mock.ExpectRollback()

	w := postOrder(r, `{"product_id":1,"quantity":0}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), `"code":30004`)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateOrderMissingQuantity(t *testing.T) {
	r, _ := newOrderRouter(t)

	// 缺失quantity仍按参数错误处理
	w := postOrder(r, `{"product_id":1}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), `"code":2`)
}

package service

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/CCDD2022/minierp/internal/dao"
	"github.com/CCDD2022/minierp/pkg/e"
)

func newProductService(t *testing.T) (*ProductService, sqlmock.Sqlmock) {
	db, mock := newMockDB(t)
	return NewProductService(dao.NewProductDao(db, nil, 0)), mock
}

func TestCreateProductSuccess(t *testing.T) {
	svc, mock := newProductService(t)

	mock.ExpectQuery("SELECT count\\(\\*\\) FROM `products`").
		WithArgs("SKU-100").
		WillReturnRows(sqlmock.NewRows([]string{"count(*)"}).AddRow(0))
	mock.ExpectExec("INSERT INTO `products`").
		WillReturnResult(sqlmock.NewResult(1, 1))

	p, err := svc.CreateProduct(context.Background(), &ProductInput{
		Name:       "螺丝刀",
		Slug:       "screwdriver",
		SKU:        "SKU-100",
		Price:      9.9,
		QtyInStock: 50,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(1), p.ID)
	// is_active缺省为上架
	assert.True(t, p.IsActive)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateProductDuplicateSKU(t *testing.T) {
	svc, mock := newProductService(t)

	mock.ExpectQuery("SELECT count\\(\\*\\) FROM `products`").
		WithArgs("SKU-100").
		WillReturnRows(sqlmock.NewRows([]string{"count(*)"}).AddRow(1))

	_, err := svc.CreateProduct(context.Background(), &ProductInput{
		Name: "螺丝刀",
		Slug: "screwdriver",
		SKU:  "SKU-100",
	})
	assert.Equal(t, e.ERROR_SKU_EXISTS, e.CodeOf(err))

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetProductNotFound(t *testing.T) {
	svc, mock := newProductService(t)

	mock.ExpectQuery("SELECT .* FROM `products` WHERE `products`.`id` = ").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := svc.GetProduct(context.Background(), 404)
	assert.Equal(t, e.ERROR_PRODUCT_NOT_EXISTS, e.CodeOf(err))
}

func TestListProductsSearchAndOrdering(t *testing.T) {
	svc, mock := newProductService(t)

	mock.ExpectQuery("SELECT count\\(\\*\\) FROM `products` WHERE .*LOWER\\(name\\) LIKE .* OR LOWER\\(sku\\) LIKE ").
		WithArgs("%screw%", "%screw%").
		WillReturnRows(sqlmock.NewRows([]string{"count(*)"}).AddRow(2))
	// -price映射为价格倒序
	mock.ExpectQuery("SELECT .* FROM `products` WHERE .* ORDER BY price DESC").
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "sku", "price"}).
			AddRow(2, "电动螺丝刀", "SKU-101", 99.0).
			AddRow(1, "螺丝刀", "SKU-100", 9.9))

	products, total, err := svc.ListProducts(context.Background(), "Screw", "-price", 1, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	require.Len(t, products, 2)
	assert.Equal(t, int64(2), products[0].ID)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListProductsIgnoresUnknownOrdering(t *testing.T) {
	svc, mock := newProductService(t)

	mock.ExpectQuery("SELECT count\\(\\*\\) FROM `products`").
		WillReturnRows(sqlmock.NewRows([]string{"count(*)"}).AddRow(1))
	// 未声明的排序列不得进入SQL
	mock.ExpectQuery("SELECT \\* FROM `products` LIMIT ").
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "sku"}).
			AddRow(1, "螺丝刀", "SKU-100"))

	_, _, err := svc.ListProducts(context.Background(), "", "1;DROP TABLE products", 1, 10)
	require.NoError(t, err)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteProductNotFound(t *testing.T) {
	svc, mock := newProductService(t)

	mock.ExpectQuery("SELECT .* FROM `products` WHERE `products`.`id` = ").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	err := svc.DeleteProduct(context.Background(), 404)
	assert.Equal(t, e.ERROR_PRODUCT_NOT_EXISTS, e.CodeOf(err))
}

package service

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	gomysql "github.com/go-sql-driver/mysql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/CCDD2022/minierp/config"
	"github.com/CCDD2022/minierp/internal/dao"
	"github.com/CCDD2022/minierp/internal/model"
	"github.com/CCDD2022/minierp/pkg/e"
	"github.com/CCDD2022/minierp/pkg/utils"
)

var testJWTConfig = &config.JWTConfig{Secret: "test-secret", ExpireMinutes: 30}

func newAuthService(t *testing.T) (*AuthService, sqlmock.Sqlmock) {
	db, mock := newMockDB(t)
	return NewAuthService(dao.NewUserDao(db), testJWTConfig), mock
}

func TestRegisterSuccess(t *testing.T) {
	svc, mock := newAuthService(t)

	mock.ExpectQuery("SELECT count\\(\\*\\) FROM `users`").
		WithArgs("test@example.com").
		WillReturnRows(sqlmock.NewRows([]string{"count(*)"}).AddRow(0))
	mock.ExpectExec("INSERT INTO `users`").
		WillReturnResult(sqlmock.NewResult(1, 1))

	user, err := svc.Register(context.Background(), "test@example.com", "secret123", "")
	require.NoError(t, err)
	assert.Equal(t, int64(1), user.ID)
	assert.Equal(t, "test@example.com", user.Email)
	// 角色缺省为普通用户
	assert.Equal(t, model.RoleUser, user.Role)
	assert.True(t, user.IsActive)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRegisterDuplicateEmail(t *testing.T) {
	svc, mock := newAuthService(t)

	mock.ExpectQuery("SELECT count\\(\\*\\) FROM `users`").
		WithArgs("dup@example.com").
		WillReturnRows(sqlmock.NewRows([]string{"count(*)"}).AddRow(1))

	_, err := svc.Register(context.Background(), "dup@example.com", "abc123", "")
	assert.Equal(t, e.ERROR_EMAIL_EXISTS, e.CodeOf(err))

	assert.NoError(t, mock.ExpectationsWereMet())
}

// 并发注册同一邮箱：存在性检查通过后INSERT撞唯一索引 必须映射为邮箱已注册
func TestRegisterDuplicateEmailUniqueIndex(t *testing.T) {
	svc, mock := newAuthService(t)

	mock.ExpectQuery("SELECT count\\(\\*\\) FROM `users`").
		WithArgs("race@example.com").
		WillReturnRows(sqlmock.NewRows([]string{"count(*)"}).AddRow(0))
	mock.ExpectExec("INSERT INTO `users`").
		WillReturnError(&gomysql.MySQLError{Number: 1062, Message: "Duplicate entry 'race@example.com' for key 'users.email'"})

	_, err := svc.Register(context.Background(), "race@example.com", "secret123", "")
	assert.Equal(t, e.ERROR_EMAIL_EXISTS, e.CodeOf(err))

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRegisterUnknownRole(t *testing.T) {
	svc, _ := newAuthService(t)

	_, err := svc.Register(context.Background(), "x@example.com", "secret123", "superuser")
	assert.Equal(t, e.INVALID_PARAMS, e.CodeOf(err))
}

func userRow(t *testing.T, id int64, email, password string, role model.Role, active bool) *sqlmock.Rows {
	t.Helper()
	hash, err := utils.HashPassword(password)
	require.NoError(t, err)
	return sqlmock.NewRows([]string{"id", "email", "password_hash", "role", "is_active"}).
		AddRow(id, email, hash, string(role), active)
}

func TestLoginRoundTrip(t *testing.T) {
	svc, mock := newAuthService(t)

	mock.ExpectQuery("SELECT .* FROM `users` WHERE email = ").
		WillReturnRows(userRow(t, 7, "test@example.com", "secret123", model.RoleUser, true))

	token, err := svc.Login(context.Background(), "test@example.com", "secret123")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	// 签出的token要能解析回同一用户
	claims, err := svc.JWTUtil().ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, int64(7), claims.UserID)
	assert.Equal(t, "test@example.com", claims.Email)
	assert.Equal(t, string(model.RoleUser), claims.Role)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLoginWrongPassword(t *testing.T) {
	svc, mock := newAuthService(t)

	mock.ExpectQuery("SELECT .* FROM `users` WHERE email = ").
		WillReturnRows(userRow(t, 7, "test@example.com", "secret123", model.RoleUser, true))

	_, err := svc.Login(context.Background(), "test@example.com", "wrongpass")
	assert.Equal(t, e.ERROR_PASSWORD, e.CodeOf(err))
}

func TestLoginUnknownEmail(t *testing.T) {
	svc, mock := newAuthService(t)

	mock.ExpectQuery("SELECT .* FROM `users` WHERE email = ").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	// 不区分用户不存在与密码错误
	_, err := svc.Login(context.Background(), "ghost@example.com", "whatever")
	assert.Equal(t, e.ERROR_PASSWORD, e.CodeOf(err))
}

func TestLoginInactiveUser(t *testing.T) {
	svc, mock := newAuthService(t)

	mock.ExpectQuery("SELECT .* FROM `users` WHERE email = ").
		WillReturnRows(userRow(t, 8, "off@example.com", "secret123", model.RoleUser, false))

	_, err := svc.Login(context.Background(), "off@example.com", "secret123")
	assert.Equal(t, e.ERROR_AUTH, e.CodeOf(err))
}

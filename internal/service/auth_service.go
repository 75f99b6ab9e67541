package service

import (
	"context"
	"errors"

	"github.com/CCDD2022/minierp/config"
	"github.com/CCDD2022/minierp/internal/dao"
	"github.com/CCDD2022/minierp/internal/model"
	"github.com/CCDD2022/minierp/pkg/e"
	"github.com/CCDD2022/minierp/pkg/logger"
	"github.com/CCDD2022/minierp/pkg/utils"

	"gorm.io/gorm"
)

type AuthService struct {
	userDao *dao.UserDao
	jwtUtil *utils.JWTUtil
}

// NewAuthService 密钥与过期时间来自显式配置 不读取任何全局状态
func NewAuthService(userDao *dao.UserDao, jwtCfg *config.JWTConfig) *AuthService {
	return &AuthService{
		userDao: userDao,
		jwtUtil: utils.NewJWTUtil(jwtCfg.Secret, jwtCfg.ExpireMinutes),
	}
}

// JWTUtil 暴露给鉴权中间件使用
func (s *AuthService) JWTUtil() *utils.JWTUtil {
	return s.jwtUtil
}

// Register 注册用户 邮箱重复返回业务错误 角色缺省为user
func (s *AuthService) Register(ctx context.Context, email, password string, role model.Role) (*model.User, error) {
	if role == "" {
		role = model.RoleUser
	}
	if !role.Valid() {
		return nil, e.New(e.INVALID_PARAMS)
	}

	exists, err := s.userDao.EmailExists(ctx, email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, e.New(e.ERROR_EMAIL_EXISTS)
	}

	passwordHash, err := utils.HashPassword(password)
	if err != nil {
		return nil, err
	}

	newUser := &model.User{
		Email:        email,
		PasswordHash: passwordHash,
		Role:         role,
		IsActive:     true,
	}

	if err := s.userDao.CreateUser(ctx, newUser); err != nil {
		// 并发注册同一邮箱时 唯一索引兜底
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, e.New(e.ERROR_EMAIL_EXISTS)
		}
		return nil, err
	}

	logger.InfoContext(ctx, "用户注册成功", "user_id", newUser.ID, "role", newUser.Role)
	return newUser, nil
}

// Login 校验凭证并签发token
// 用户不存在与密码错误统一返回同一错误 不泄露账号是否存在
func (s *AuthService) Login(ctx context.Context, email, password string) (string, error) {
	dbUser, err := s.userDao.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", e.New(e.ERROR_PASSWORD)
		}
		return "", err
	}

	if !dbUser.IsActive {
		return "", e.New(e.ERROR_AUTH)
	}

	if !utils.CheckPassword(password, dbUser.PasswordHash) {
		return "", e.New(e.ERROR_PASSWORD)
	}

	token, err := s.jwtUtil.GenerateToken(dbUser.ID, dbUser.Email, string(dbUser.Role))
	if err != nil {
		return "", e.New(e.ERROR_AUTH_TOKEN)
	}
	return token, nil
}

// Me 根据token解析出的用户ID回读当前用户
func (s *AuthService) Me(ctx context.Context, userID int64) (*model.User, error) {
	user, err := s.userDao.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, e.New(e.ERROR_USER_NOT_EXISTS)
		}
		return nil, err
	}
	return user, nil
}

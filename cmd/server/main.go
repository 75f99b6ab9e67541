// MiniERP HTTP API 启动入口
package main

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/CCDD2022/minierp/api/middleware"
	v1 "github.com/CCDD2022/minierp/api/v1"
	"github.com/CCDD2022/minierp/internal/dao"
	"github.com/CCDD2022/minierp/internal/dao/mysql"
	"github.com/CCDD2022/minierp/internal/dao/redis"
	"github.com/CCDD2022/minierp/internal/mq"
	"github.com/CCDD2022/minierp/internal/service"
	"github.com/CCDD2022/minierp/pkg/app"
	"github.com/CCDD2022/minierp/pkg/logger"
)

func main() {
	cfg := app.BootstrapApp()

	// 设置Gin模式
	switch cfg.Server.Mode {
	case "release":
		gin.SetMode(gin.ReleaseMode)
	case "test":
		gin.SetMode(gin.TestMode)
	default:
		gin.SetMode(gin.DebugMode)
	}

	db, err := mysql.InitDB(&cfg.Database.Mysql)
	if err != nil {
		logger.Fatal("连接Mysql数据库失败", "err", err)
	}
	if err := mysql.AutoMigrate(db); err != nil {
		logger.Fatal("数据库迁移失败", "err", err)
	}
	logger.Info("数据库连接成功")

	// Redis仅承担商品缓存 连不上时降级为直读数据库
	rdb, err := redis.InitRedis(&cfg.Database.Redis)
	if err != nil {
		logger.Warn("Redis不可用 商品缓存已关闭", "err", err)
		rdb = nil
	}

	// MQ承载订单事件 供下游支付/履约消费 连不上时降级为不发事件
	mqPool, err := mq.Init(&cfg.MQ)
	if err != nil {
		logger.Warn("init mq failed", "err", err)
		mqPool = nil
	} else {
		if err := mqPool.EnsureBaseTopology(); err != nil {
			logger.Warn("ensure mq topology failed", "err", err)
		}
		defer mqPool.Close()
	}

	// DAO层
	userDao := dao.NewUserDao(db)
	productDao := dao.NewProductDao(db, rdb, time.Duration(cfg.Database.Redis.ProductCacheTTL)*time.Second)
	customerDao := dao.NewCustomerDao(db)
	orderDao := dao.NewOrderDao(db)

	// Service层
	authService := service.NewAuthService(userDao, &cfg.JWT)
	productService := service.NewProductService(productDao)
	customerService := service.NewCustomerService(customerDao)
	orderService := service.NewOrderService(orderDao, productDao, customerDao, mqPool)

	// Handler层
	authHandler := v1.NewAuthHandler(authService)
	productHandler := v1.NewProductHandler(productService)
	customerHandler := v1.NewCustomerHandler(customerService)
	orderHandler := v1.NewOrderHandler(orderService)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.Metrics())
	r.Use(middleware.GlobalRateLimit(cfg))

	// 健康检查接口
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"message": "MiniERP API is running",
		})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// 定义API路由组
	api := r.Group("/api")
	{
		// 受保护的路由组（需要JWT认证）
		protected := api.Group("")
		protected.Use(middleware.JWTAuthMiddleware(authService.JWTUtil()))

		// 认证路由 register/login公开 me受保护
		authHandler.RegisterRoutes(api, protected)

		// 商品与客户路由
		productHandler.RegisterRoutes(protected)
		customerHandler.RegisterRoutes(protected)

		// 订单路由（JWT + 更严格的限流）
		orderProtected := api.Group("")
		orderProtected.Use(middleware.JWTAuthMiddleware(authService.JWTUtil()))
		orderProtected.Use(middleware.OrderRateLimit(cfg))
		orderHandler.RegisterRoutes(orderProtected)
	}

	// 启动服务器
	serverAddr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:         serverAddr,
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}
	logger.Info("MiniERP API starting", "addr", serverAddr)
	if err := srv.ListenAndServe(); err != nil {
		logger.Fatal("HTTP服务启动失败", "err", err)
	}
}

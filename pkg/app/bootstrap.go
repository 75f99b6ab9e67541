package app

import (
	"log"

	"github.com/CCDD2022/minierp/config"
	"github.com/CCDD2022/minierp/pkg/logger"
)

// BootstrapApp 加载配置并初始化全局日志 所有入口共用
func BootstrapApp() *config.Config {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("配置加载失败: %v", err)
	}

	if err := logger.InitLogger(&cfg.Logger); err != nil {
		log.Fatalf("初始化 Logger 失败: %v", err)
	}

	logger.Info("Application bootstrapped successfully")

	return cfg
}

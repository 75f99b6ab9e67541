package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/CCDD2022/minierp/config"

	"github.com/redis/go-redis/v9"
)

// InitRedis 初始化Redis客户端（商品缓存用 连接失败不应阻塞启动 由调用方决定降级）
func InitRedis(cfg *config.RedisConfig) (redis.UniversalClient, error) {
	uopts := &redis.UniversalOptions{
		Addrs:           []string{fmt.Sprintf("%s:%d", cfg.Host, cfg.Port)},
		DB:              cfg.DB,
		Password:        cfg.Password,
		PoolSize:        50,
		MinIdleConns:    10,
		ConnMaxLifetime: 30 * time.Minute,
		MaxRetries:      3,
		DialTimeout:     5 * time.Second,
		ReadTimeout:     3 * time.Second,
		WriteTimeout:    3 * time.Second,
	}

	client := redis.NewUniversalClient(uopts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if _, err := client.Ping(ctx).Result(); err != nil {
		return nil, fmt.Errorf("redis连通失败: %w", err)
	}
	return client, nil
}

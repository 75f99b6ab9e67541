package middleware

import (
	"strconv"
	"time"

	"github.com/CCDD2022/minierp/pkg/metrics"
	"github.com/gin-gonic/gin"
)

// Metrics HTTP请求量与时延指标
// path使用路由模板而非原始URL 避免每个ID一个label的基数爆炸
func Metrics() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		status := strconv.Itoa(c.Writer.Status())

		metrics.HTTPRequestsTotal.WithLabelValues(c.Request.Method, path, status).Inc()
		metrics.HTTPRequestDuration.WithLabelValues(c.Request.Method, path, status).Observe(time.Since(start).Seconds())
	}
}

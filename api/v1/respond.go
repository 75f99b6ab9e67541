package v1

import (
	"strconv"

	"github.com/CCDD2022/minierp/pkg/e"
	"github.com/CCDD2022/minierp/pkg/logger"
	"github.com/gin-gonic/gin"
)

// Fail 按业务码渲染错误响应 系统错误额外落日志
func Fail(c *gin.Context, err error) {
	code := e.CodeOf(err)
	if code == e.ERROR {
		logger.ErrorContext(c.Request.Context(), "请求处理失败", "path", c.FullPath(), "err", err)
	}
	c.JSON(e.GetHTTPStatus(code), gin.H{
		"code":    code,
		"message": e.GetMsg(code),
	})
}

// FailParams 参数绑定失败的统一响应
func FailParams(c *gin.Context) {
	c.JSON(e.GetHTTPStatus(e.INVALID_PARAMS), gin.H{
		"code":    e.INVALID_PARAMS,
		"message": e.GetMsg(e.INVALID_PARAMS),
	})
}

// parseID 解析路径中的数字ID
func parseID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		FailParams(c)
		return 0, false
	}
	return id, true
}

// parsePagination 解析分页参数 page>=1 page_size上限100
func parsePagination(c *gin.Context) (int, int) {
	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil || page < 1 {
		page = 1
	}
	pageSize, err := strconv.Atoi(c.DefaultQuery("page_size", "10"))
	if err != nil || pageSize < 1 {
		pageSize = 10
	}
	if pageSize > 100 {
		pageSize = 100
	}
	return page, pageSize
}

package middleware

import (
	"net/http"

	"github.com/CCDD2022/minierp/pkg/e"
	"github.com/gin-gonic/gin"
)

// AdminRequired 管理能力门禁 挂在所有商品/客户维护路由上
// 角色判定只走Role的能力方法 不做字符串比较
func AdminRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !RoleFrom(c).CanAdminister() {
			c.JSON(http.StatusForbidden, gin.H{
				"code":    e.ERROR_FORBIDDEN,
				"message": e.GetMsg(e.ERROR_FORBIDDEN),
			})
			c.Abort()
			return
		}
		c.Next()
	}
}

package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/CCDD2022/minierp/internal/model"
	"github.com/CCDD2022/minierp/pkg/utils"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newAuthRouter(jwtUtil *utils.JWTUtil) *gin.Engine {
	r := gin.New()
	r.GET("/protected", JWTAuthMiddleware(jwtUtil), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"user_id": c.GetInt64(CtxUserID),
			"email":   c.GetString(CtxEmail),
			"role":    string(RoleFrom(c)),
		})
	})
	return r
}

func doRequest(r *gin.Engine, authHeader string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestJWTAuthMissingHeader(t *testing.T) {
	r := newAuthRouter(utils.NewJWTUtil("test-secret", 30))

	w := doRequest(r, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestJWTAuthBadFormat(t *testing.T) {
	r := newAuthRouter(utils.NewJWTUtil("test-secret", 30))

	for _, header := range []string{"Token abc", "Bearer", "abc"} {
		w := doRequest(r, header)
		assert.Equal(t, http.StatusUnauthorized, w.Code, header)
	}
}

func TestJWTAuthExpiredToken(t *testing.T) {
	// 负的过期时长 签出即过期
	expired := utils.NewJWTUtil("test-secret", -1)
	token, err := expired.GenerateToken(7, "test@example.com", string(model.RoleUser))
	require.NoError(t, err)

	r := newAuthRouter(utils.NewJWTUtil("test-secret", 30))
	w := doRequest(r, "Bearer "+token)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestJWTAuthWrongSecret(t *testing.T) {
	other := utils.NewJWTUtil("other-secret", 30)
	token, err := other.GenerateToken(7, "test@example.com", string(model.RoleUser))
	require.NoError(t, err)

	r := newAuthRouter(utils.NewJWTUtil("test-secret", 30))
	w := doRequest(r, "Bearer "+token)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestJWTAuthInjectsClaims(t *testing.T) {
	jwtUtil := utils.NewJWTUtil("test-secret", 30)
	token, err := jwtUtil.GenerateToken(7, "test@example.com", string(model.RoleAdmin))
	require.NoError(t, err)

	r := newAuthRouter(jwtUtil)
	w := doRequest(r, "Bearer "+token)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"user_id":7,"email":"test@example.com","role":"admin"}`, w.Body.String())
}

func TestAdminRequired(t *testing.T) {
	r := gin.New()
	r.GET("/admin", func(c *gin.Context) {
		c.Set(CtxRole, model.RoleUser)
	}, AdminRequired(), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	r.GET("/admin2", func(c *gin.Context) {
		c.Set(CtxRole, model.RoleAdmin)
	}, AdminRequired(), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/admin", nil))
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/admin2", nil))
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRoleFromDefaultsToUser(t *testing.T) {
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	assert.Equal(t, model.RoleUser, RoleFrom(c))
}

package e

import (
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetMsg(t *testing.T) {
	assert.Equal(t, MsgFlags[ERROR_STOCK_NOT_ENOUGH], GetMsg(ERROR_STOCK_NOT_ENOUGH))
	// 未知错误码回退到通用失败文案
	assert.Equal(t, MsgFlags[ERROR], GetMsg(99999))
}

func TestGetHTTPStatus(t *testing.T) {
	assert.Equal(t, http.StatusNotFound, GetHTTPStatus(ERROR_ORDER_NOT_EXISTS))
	assert.Equal(t, http.StatusForbidden, GetHTTPStatus(ERROR_FORBIDDEN))
	assert.Equal(t, http.StatusUnauthorized, GetHTTPStatus(ERROR_AUTH))
	assert.Equal(t, http.StatusBadRequest, GetHTTPStatus(ERROR_STOCK_NOT_ENOUGH))
	// 未映射的错误码按系统错误处理
	assert.Equal(t, http.StatusInternalServerError, GetHTTPStatus(ERROR))
}

func TestCodeOf(t *testing.T) {
	assert.Equal(t, SUCCESS, CodeOf(nil))
	assert.Equal(t, ERROR_SKU_EXISTS, CodeOf(New(ERROR_SKU_EXISTS)))
	assert.Equal(t, ERROR, CodeOf(errors.New("plain failure")))
}

package e

import "net/http"

// 错误码定义
const (
	SUCCESS        = 0
	ERROR          = 1
	INVALID_PARAMS = 2

	ERROR_AUTH_CHECK_TOKEN_FAIL    = 10001
	ERROR_AUTH_CHECK_TOKEN_TIMEOUT = 10002
	ERROR_AUTH_TOKEN               = 10003
	ERROR_AUTH                     = 10004
	ERROR_FORBIDDEN                = 10005

	ERROR_EMAIL_EXISTS    = 20001
	ERROR_USER_NOT_EXISTS = 20002
	ERROR_PASSWORD        = 20003

	ERROR_PRODUCT_NOT_EXISTS = 30001
	ERROR_STOCK_NOT_ENOUGH   = 30002
	ERROR_SKU_EXISTS         = 30003
	ERROR_INVALID_QUANTITY   = 30004

	ERROR_CUSTOMER_NOT_EXISTS   = 40001
	ERROR_CUSTOMER_EMAIL_EXISTS = 40002

	ERROR_ORDER_NOT_EXISTS = 50001
	ERROR_ORDER_STATUS     = 50002
)

var MsgFlags = map[int]string{
	SUCCESS:        "成功",
	ERROR:          "失败",
	INVALID_PARAMS: "请求参数错误",

	ERROR_AUTH_CHECK_TOKEN_FAIL:    "Token验证失败",
	ERROR_AUTH_CHECK_TOKEN_TIMEOUT: "Token已超时",
	ERROR_AUTH_TOKEN:               "Token生成失败",
	ERROR_AUTH:                     "认证失败",
	ERROR_FORBIDDEN:                "无权进行此操作",

	ERROR_EMAIL_EXISTS:    "邮箱已被注册",
	ERROR_USER_NOT_EXISTS: "用户不存在",
	ERROR_PASSWORD:        "邮箱或密码错误",

	ERROR_PRODUCT_NOT_EXISTS: "商品不存在",
	ERROR_STOCK_NOT_ENOUGH:   "库存不足",
	ERROR_SKU_EXISTS:         "SKU已存在",
	ERROR_INVALID_QUANTITY:   "购买数量必须大于0",

	ERROR_CUSTOMER_NOT_EXISTS:   "客户不存在",
	ERROR_CUSTOMER_EMAIL_EXISTS: "客户邮箱已存在",

	ERROR_ORDER_NOT_EXISTS: "订单不存在",
	ERROR_ORDER_STATUS:     "订单当前状态不允许此操作",
}

// httpStatus 错误码到HTTP状态码的映射 未列出的按500处理
var httpStatus = map[int]int{
	SUCCESS:        http.StatusOK,
	INVALID_PARAMS: http.StatusBadRequest,

	ERROR_AUTH_CHECK_TOKEN_FAIL:    http.StatusUnauthorized,
	ERROR_AUTH_CHECK_TOKEN_TIMEOUT: http.StatusUnauthorized,
	ERROR_AUTH:                     http.StatusUnauthorized,
	ERROR_PASSWORD:                 http.StatusUnauthorized,
	ERROR_FORBIDDEN:                http.StatusForbidden,

	ERROR_EMAIL_EXISTS:          http.StatusBadRequest,
	ERROR_SKU_EXISTS:            http.StatusBadRequest,
	ERROR_CUSTOMER_EMAIL_EXISTS: http.StatusBadRequest,
	ERROR_STOCK_NOT_ENOUGH:      http.StatusBadRequest,
	ERROR_INVALID_QUANTITY:      http.StatusBadRequest,
	ERROR_ORDER_STATUS:          http.StatusBadRequest,

	ERROR_USER_NOT_EXISTS:     http.StatusNotFound,
	ERROR_PRODUCT_NOT_EXISTS:  http.StatusNotFound,
	ERROR_CUSTOMER_NOT_EXISTS: http.StatusNotFound,
	ERROR_ORDER_NOT_EXISTS:    http.StatusNotFound,
}

func GetMsg(code int) string {
	msg, ok := MsgFlags[code]
	if ok {
		return msg
	}
	return MsgFlags[ERROR]
}

// GetHTTPStatus 获取错误码对应的HTTP状态码
func GetHTTPStatus(code int) int {
	if status, ok := httpStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// BizError 业务错误 由service层返回 handler层根据错误码渲染响应
type BizError struct {
	Code int
}

func (b *BizError) Error() string {
	return GetMsg(b.Code)
}

// New 根据错误码构造业务错误
func New(code int) *BizError {
	return &BizError{Code: code}
}

// CodeOf 提取错误对应的业务码 非业务错误一律视为系统错误
func CodeOf(err error) int {
	if err == nil {
		return SUCCESS
	}
	if be, ok := err.(*BizError); ok {
		return be.Code
	}
	return ERROR
}

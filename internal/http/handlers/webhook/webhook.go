package webhook

import (
	"crypto/subtle"
	"strings"

	handlershared "github.com/cangku-next/internal/http/handlers/shared"
	"github.com/cangku-next/internal/http/response"
	"github.com/cangku-next/internal/provider"
	"github.com/cangku-next/internal/service"

	"github.com/gin-gonic/gin"
)

// Handler 上游系统订单接入处理器
type Handler struct {
	*provider.Container
}

// New 创建 Webhook 处理器
func New(c *provider.Container) *Handler {
	return &Handler{Container: c}
}

// VerifyToken 校验接入令牌，配置为空则跳过校验
func (h *Handler) VerifyToken() gin.HandlerFunc {
	return func(c *gin.Context) {
		expected := strings.TrimSpace(h.Config.Webhook.Token)
		if expected == "" {
			c.Next()
			return
		}
		got := strings.TrimSpace(c.GetHeader("X-Webhook-Token"))
		if subtle.ConstantTimeCompare([]byte(expected), []byte(got)) != 1 {
			response.Unauthorized(c, "接入令牌无效")
			c.Abort()
			return
		}
		c.Next()
	}
}

// ReceiveOrder 接收上游推送的订单
func (h *Handler) ReceiveOrder(c *gin.Context) {
	var input service.CreateOrderInput
	if err := c.ShouldBindJSON(&input); err != nil {
		handlershared.RespondError(c, response.CodeBadRequest, "请求体解析失败", err)
		return
	}
	order, err := h.OrderService.CreateOrder(input)
	if err != nil {
		switch err {
		case service.ErrOrderInvalid, service.ErrInvalidQuantity:
			handlershared.RespondError(c, response.CodeBadRequest, err.Error(), nil)
		case service.ErrProductNotFound:
			handlershared.RespondError(c, response.CodeBadRequest, err.Error(), nil)
		default:
			handlershared.RespondError(c, response.CodeInternal, "订单接入失败", err)
		}
		return
	}
	response.Success(c, gin.H{
		"order_id": order.ID,
		"order_no": order.OrderNo,
		"status":   order.Status,
	})
}

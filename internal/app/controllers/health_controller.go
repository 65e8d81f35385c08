package controllers

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"

	"resqwave-dispatch-service/internal/domain/services/container"
	"resqwave-dispatch-service/internal/error/code"
	"resqwave-dispatch-service/internal/error/response"
)

// HealthCheckController 健康检查控制器
type HealthCheckController struct {
	Ctx       *gin.Context
	Container *container.ServiceContainer
}

// NewHealthCheckController 创建健康检查控制器实例
func NewHealthCheckController(ctx *gin.Context, container *container.ServiceContainer) *HealthCheckController {
	return &HealthCheckController{
		Ctx:       ctx,
		Container: container,
	}
}

// HandleHealthFunc 返回一个处理健康检查请求的Gin处理函数
func HandleHealthFunc(container *container.ServiceContainer, method string) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		controller := NewHealthCheckController(ctx, container)

		switch method {
		case "ping":
			controller.Ping()
		case "status":
			controller.Status()
		case "cacheStats":
			controller.CacheStats()
		default:
			response.FailWithMessage(ctx, code.ErrBind, "无效的方法", nil)
		}
	}
}

// Ping 健康检查端点
// @Summary      Ping
// @Tags         Health
// @Produce      json
// @Success      200  {object}  SuccessResponse
// @Router       /ping [get]
func (h *HealthCheckController) Ping() {
	response.Success(h.Ctx, gin.H{
		"status":  "healthy",
		"message": "pong",
	})
}

// Status 检查存储和缓存的连通性
// @Summary      Health Status
// @Description  Store and cache reachability. A cache outage degrades the service but does not fail it.
// @Tags         Health
// @Produce      json
// @Success      200  {object}  SuccessResponse
// @Failure      503  {object}  ErrorResponse
// @Router       /health/status [get]
func (h *HealthCheckController) Status() {
	ctx, cancel := context.WithTimeout(h.Ctx.Request.Context(), 2*time.Second)
	defer cancel()

	status := gin.H{"store": "up", "cache": "up"}
	if err := h.Container.GetStore().Ping(ctx); err != nil {
		status["store"] = "down"
		response.FailWithMessage(h.Ctx, code.ErrConnectionFailed, "store unreachable: "+err.Error(), status)
		return
	}
	if err := cacheService(h.Container).Ping(ctx); err != nil {
		status["cache"] = "down"
	}
	if hub, ok := h.Container.GetService("publisher").(interface{ ClientCount() int }); ok {
		status["realtime_clients"] = hub.ClientCount()
	}
	response.Success(h.Ctx, status)
}

// CacheStats 缓存命中统计
// @Summary      Cache Stats
// @Tags         Health
// @Produce      json
// @Success      200  {object}  SuccessResponse
// @Router       /health/cache-stats [get]
func (h *HealthCheckController) CacheStats() {
	response.Success(h.Ctx, cacheService(h.Container).Stats(h.Ctx.Request.Context()))
}

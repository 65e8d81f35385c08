package controllers

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"resqwave-dispatch-service/internal/app/middleware"
	"resqwave-dispatch-service/internal/domain/models"
	"resqwave-dispatch-service/internal/domain/services"
	"resqwave-dispatch-service/internal/domain/services/container"
	"resqwave-dispatch-service/internal/error/code"
	"resqwave-dispatch-service/internal/error/response"
	"resqwave-dispatch-service/internal/infrastructure/config"
	"resqwave-dispatch-service/internal/infrastructure/realtime"
)

// RealtimeController 处理操作员WebSocket连接
type RealtimeController struct {
	Ctx       *gin.Context
	Container *container.ServiceContainer
}

// NewRealtimeController 创建一个新的实时控制器
func NewRealtimeController(ctx *gin.Context, container *container.ServiceContainer) *RealtimeController {
	return &RealtimeController{
		Ctx:       ctx,
		Container: container,
	}
}

// HandleRealtimeFunc 返回一个处理WebSocket请求的Gin处理函数
func HandleRealtimeFunc(container *container.ServiceContainer, method string) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		controller := NewRealtimeController(ctx, container)

		switch method {
		case "connect":
			controller.Connect()
		default:
			response.FailWithMessage(ctx, code.ErrBind, "无效的方法", nil)
		}
	}
}

// Connect 升级为WebSocket连接并订阅全局警报
// @Summary      Operator Websocket
// @Description  Authenticated with a Bearer header or the token query parameter before the upgrade. The session joins alerts:all and may send terminal:join and alert:trigger frames.
// @Tags         Realtime
// @Param        token query string false "JWT when headers cannot be set"
// @Success      101
// @Failure      401  {object}  ErrorResponse
// @Failure      403  {object}  ErrorResponse
// @Router       /ws [get]
func (c *RealtimeController) Connect() {
	claims, status, err := middleware.ParseOperator(c.Ctx)
	if err != nil {
		c.Ctx.JSON(status, gin.H{"code": status, "message": err.Error(), "data": nil})
		return
	}

	hub, ok := c.Container.GetService("publisher").(*realtime.Hub)
	if !ok {
		response.FailWithMessage(c.Ctx, code.ErrConnectionFailed, "realtime hub is not running", nil)
		return
	}
	cfg := c.Container.GetService("config").(*config.Config)
	logger := c.Container.GetService("logger").(*zap.Logger)

	upgrader := realtime.NewUpgrader(cfg.AllowedOrigins)
	conn, err := upgrader.Upgrade(c.Ctx.Writer, c.Ctx.Request, nil)
	if err != nil {
		// Upgrade 已写入错误响应
		logger.Warn("websocket upgrade failed", zap.Error(err))
		return
	}

	who := realtime.Identity{
		UserID: claimString(claims["user_id"]),
		Role:   claimString(claims["role"]),
	}

	client := realtime.NewClient(hub, conn, who, &dispatchHandler{
		alerts:    alertService(c.Container),
		terminals: terminalService(c.Container),
		logger:    logger.Named("realtime"),
	})
	hub.Register(client, services.TopicAllAlerts)
	client.Start()
}

func claimString(v interface{}) string {
	s, _ := v.(string)
	return s
}

// 客户端帧字段沿用前端约定的 camelCase
type terminalJoinRequest struct {
	TerminalID string `json:"terminalId"`
}

type alertTriggerRequest struct {
	TerminalID string `json:"terminalId"`
	AlertType  string `json:"alertType"`
}

// dispatchHandler serves inbound operator frames
type dispatchHandler struct {
	alerts    services.InterfaceAlertService
	terminals services.InterfaceTerminalService
	logger    *zap.Logger
}

func (h *dispatchHandler) HandleMessage(ctx context.Context, c *realtime.Client, msg realtime.Inbound) {
	switch msg.Type {
	case realtime.MessageTypeTerminalJoin:
		h.joinTerminal(ctx, c, msg)
	case realtime.MessageTypeAlertTrigger:
		h.triggerAlert(ctx, c, msg)
	default:
		c.ReplyError(msg.Type, "unsupported message type")
	}
}

func (h *dispatchHandler) joinTerminal(ctx context.Context, c *realtime.Client, msg realtime.Inbound) {
	var req terminalJoinRequest
	if err := json.Unmarshal(msg.Data, &req); err != nil || strings.TrimSpace(req.TerminalID) == "" {
		c.ReplyError(msg.Type, "terminalId is required")
		return
	}
	if _, err := h.terminals.GetTerminal(ctx, req.TerminalID); err != nil {
		c.ReplyError(msg.Type, err.Error())
		return
	}

	topic := services.TerminalTopic(req.TerminalID)
	if !c.Join(topic) {
		return
	}
	c.Reply(realtime.MessageTypeTerminalJoined, map[string]string{"terminalId": req.TerminalID, "topic": topic})
}

func (h *dispatchHandler) triggerAlert(ctx context.Context, c *realtime.Client, msg realtime.Inbound) {
	var req alertTriggerRequest
	if err := json.Unmarshal(msg.Data, &req); err != nil {
		c.ReplyError(msg.Type, "invalid payload")
		return
	}
	alertType := models.AlertType(req.AlertType)
	if alertType == "" {
		alertType = models.AlertTypeCritical
	}

	alert, err := h.alerts.TriggerAlert(ctx, strings.TrimSpace(req.TerminalID), alertType, services.SourceWebSocket)
	if err != nil {
		h.logger.Info("websocket alert rejected",
			zap.String("session_id", c.SessionID()), zap.String("terminal_id", req.TerminalID), zap.Error(err))
		c.ReplyError(msg.Type, err.Error())
		return
	}
	c.Reply(realtime.MessageTypeAlertTriggered, alert)
}

package controllers

import (
	"strings"

	"github.com/gin-gonic/gin"

	"resqwave-dispatch-service/internal/domain/models"
	"resqwave-dispatch-service/internal/domain/services"
	"resqwave-dispatch-service/internal/domain/services/container"
	"resqwave-dispatch-service/internal/error/code"
	"resqwave-dispatch-service/internal/error/response"
)

// InterfaceAlertController 定义警报控制器接口
type InterfaceAlertController interface {
	TriggerCritical()
	TriggerUserInitiated()
	UpdateStatus()
	ListAlerts()
	GetAlert()
	MapAlerts()
}

// AlertController 处理警报相关的请求
type AlertController struct {
	Ctx       *gin.Context
	Container *container.ServiceContainer
}

// NewAlertController 创建一个新的警报控制器
func NewAlertController(ctx *gin.Context, container *container.ServiceContainer) *AlertController {
	return &AlertController{
		Ctx:       ctx,
		Container: container,
	}
}

// TriggerAlertRequest 表示终端触发警报请求
type TriggerAlertRequest struct {
	TerminalID string `json:"terminal_id" binding:"required" example:"T001"`
}

// UpdateAlertStatusRequest 表示警报状态变更请求
type UpdateAlertStatusRequest struct {
	Action string `json:"action" binding:"required" example:"dispatch"` // waitlist 或 dispatch
}

// HandleAlertFunc 返回一个处理警报请求的Gin处理函数
func HandleAlertFunc(container *container.ServiceContainer, method string) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		controller := NewAlertController(ctx, container)

		switch method {
		case "triggerCritical":
			controller.TriggerCritical()
		case "triggerUserInitiated":
			controller.TriggerUserInitiated()
		case "updateStatus":
			controller.UpdateStatus()
		case "listAlerts":
			controller.ListAlerts()
		case "getAlert":
			controller.GetAlert()
		case "mapAlerts":
			controller.MapAlerts()
		default:
			response.FailWithMessage(ctx, code.ErrBind, "无效的方法", nil)
		}
	}
}

// 1. TriggerCritical 处理终端触发的紧急警报
// @Summary      Trigger Critical Alert
// @Description  Create a Critical alert for a terminal and broadcast it to operators
// @Tags         Alert
// @Accept       json
// @Produce      json
// @Param        request body TriggerAlertRequest true "Terminal"
// @Success      201  {object}  SuccessResponse
// @Failure      400  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Failure      412  {object}  ErrorResponse
// @Router       /alert/critical [post]
// @Security     BearerAuth
func (c *AlertController) TriggerCritical() {
	c.trigger(models.AlertTypeCritical)
}

// 2. TriggerUserInitiated 处理用户发起的警报
// @Summary      Trigger User-Initiated Alert
// @Description  Create a User-Initiated alert for a terminal and broadcast it to operators
// @Tags         Alert
// @Accept       json
// @Produce      json
// @Param        request body TriggerAlertRequest true "Terminal"
// @Success      201  {object}  SuccessResponse
// @Failure      400  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Failure      412  {object}  ErrorResponse
// @Router       /alert/user [post]
// @Security     BearerAuth
func (c *AlertController) TriggerUserInitiated() {
	c.trigger(models.AlertTypeUserInitiated)
}

func (c *AlertController) trigger(alertType models.AlertType) {
	var req TriggerAlertRequest
	if err := c.Ctx.ShouldBindJSON(&req); err != nil {
		response.FailWithMessage(c.Ctx, code.ErrBind, "无效的请求参数: "+err.Error(), nil)
		return
	}

	alert, err := alertService(c.Container).TriggerAlert(c.Ctx.Request.Context(), strings.TrimSpace(req.TerminalID), alertType, services.SourceREST)
	if err != nil {
		response.Error(c.Ctx, err)
		return
	}
	response.Created(c.Ctx, alert)
}

// 3. UpdateStatus 处理警报状态变更
// @Summary      Update Alert Status
// @Description  Apply waitlist or dispatch to an alert. Requires a rescue form and an allowed current status.
// @Tags         Alert
// @Accept       json
// @Produce      json
// @Param        id path string true "Alert ID"
// @Param        request body UpdateAlertStatusRequest true "Action"
// @Success      200  {object}  SuccessResponse
// @Failure      400  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Failure      412  {object}  ErrorResponse
// @Router       /alert/{id} [put]
// @Security     BearerAuth
func (c *AlertController) UpdateStatus() {
	var req UpdateAlertStatusRequest
	if err := c.Ctx.ShouldBindJSON(&req); err != nil {
		response.FailWithMessage(c.Ctx, code.ErrBind, "无效的请求参数: "+err.Error(), nil)
		return
	}

	action := services.AlertAction(strings.ToLower(strings.TrimSpace(req.Action)))
	alert, err := alertService(c.Container).UpdateAlertStatus(c.Ctx.Request.Context(), c.Ctx.Param("id"), action)
	if err != nil {
		response.Error(c.Ctx, err)
		return
	}
	response.Success(c.Ctx, alert)
}

// 4. ListAlerts 获取警报列表
// @Summary      List Alerts
// @Description  List alerts newest first, optionally filtered by status
// @Tags         Alert
// @Produce      json
// @Param        status query string false "Unassigned, Waitlist or Dispatched"
// @Success      200  {object}  SuccessResponse
// @Failure      400  {object}  ErrorResponse
// @Router       /alert [get]
// @Security     BearerAuth
func (c *AlertController) ListAlerts() {
	alerts, err := alertService(c.Container).ListAlerts(c.Ctx.Request.Context(), models.AlertStatus(c.Ctx.Query("status")))
	if err != nil {
		response.Error(c.Ctx, err)
		return
	}
	response.Success(c.Ctx, alerts)
}

// 5. GetAlert 获取单个警报
// @Summary      Get Alert
// @Tags         Alert
// @Produce      json
// @Param        id path string true "Alert ID"
// @Success      200  {object}  SuccessResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /alert/{id} [get]
// @Security     BearerAuth
func (c *AlertController) GetAlert() {
	alert, err := alertService(c.Container).GetAlert(c.Ctx.Request.Context(), c.Ctx.Param("id"))
	if err != nil {
		response.Error(c.Ctx, err)
		return
	}
	response.Success(c.Ctx, alert)
}

// 6. MapAlerts 获取地图视图
// @Summary      Map Alerts
// @Description  Alerts joined with terminal, community group and focal person for the map view
// @Tags         Alert
// @Produce      json
// @Param        status query string false "Unassigned, Waitlist or Dispatched"
// @Success      200  {object}  SuccessResponse
// @Failure      400  {object}  ErrorResponse
// @Router       /alert/map [get]
// @Security     BearerAuth
func (c *AlertController) MapAlerts() {
	views, err := alertService(c.Container).ListMapAlerts(c.Ctx.Request.Context(), models.AlertStatus(c.Ctx.Query("status")))
	if err != nil {
		response.Error(c.Ctx, err)
		return
	}
	response.Success(c.Ctx, views)
}

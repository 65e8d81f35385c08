package controllers

import (
	"github.com/gin-gonic/gin"

	"resqwave-dispatch-service/internal/app/middleware"
	"resqwave-dispatch-service/internal/domain/services"
	"resqwave-dispatch-service/internal/domain/services/container"
	"resqwave-dispatch-service/internal/error/code"
	"resqwave-dispatch-service/internal/error/response"
)

// InterfaceRescueFormController 定义救援表单控制器接口
type InterfaceRescueFormController interface {
	CreateRescueForm()
	ListRescueForms()
	GetRescueForm()
}

// RescueFormController 处理救援表单相关的请求
type RescueFormController struct {
	Ctx       *gin.Context
	Container *container.ServiceContainer
}

// NewRescueFormController 创建一个新的救援表单控制器
func NewRescueFormController(ctx *gin.Context, container *container.ServiceContainer) *RescueFormController {
	return &RescueFormController{
		Ctx:       ctx,
		Container: container,
	}
}

// HandleRescueFormFunc 返回一个处理救援表单请求的Gin处理函数
func HandleRescueFormFunc(container *container.ServiceContainer, method string) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		controller := NewRescueFormController(ctx, container)

		switch method {
		case "createRescueForm":
			controller.CreateRescueForm()
		case "listRescueForms":
			controller.ListRescueForms()
		case "getRescueForm":
			controller.GetRescueForm()
		default:
			response.FailWithMessage(ctx, code.ErrBind, "无效的方法", nil)
		}
	}
}

// 1. CreateRescueForm 提交救援评估表单
// @Summary      Create Rescue Form
// @Description  File the on-scene assessment for an alert. One form per alert.
// @Tags         RescueForm
// @Accept       json
// @Produce      json
// @Param        alertID path string true "Alert ID"
// @Param        request body services.RescueFormInput true "Assessment"
// @Success      201  {object}  SuccessResponse
// @Failure      400  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Failure      409  {object}  ErrorResponse
// @Router       /rescueform/{alertID} [post]
// @Security     BearerAuth
func (c *RescueFormController) CreateRescueForm() {
	var req services.RescueFormInput
	if err := c.Ctx.ShouldBindJSON(&req); err != nil {
		response.FailWithMessage(c.Ctx, code.ErrBind, "无效的请求参数: "+err.Error(), nil)
		return
	}

	form, err := rescueService(c.Container).CreateRescueForm(c.Ctx.Request.Context(), c.Ctx.Param("alertID"), middleware.CurrentUserID(c.Ctx), req)
	if err != nil {
		response.Error(c.Ctx, err)
		return
	}
	response.Created(c.Ctx, form)
}

// 2. ListRescueForms 获取救援表单列表
// @Summary      List Rescue Forms
// @Tags         RescueForm
// @Produce      json
// @Success      200  {object}  SuccessResponse
// @Router       /rescueform [get]
// @Security     BearerAuth
func (c *RescueFormController) ListRescueForms() {
	forms, err := rescueService(c.Container).ListRescueForms(c.Ctx.Request.Context())
	if err != nil {
		response.Error(c.Ctx, err)
		return
	}
	response.Success(c.Ctx, forms)
}

// 3. GetRescueForm 获取救援表单
// @Summary      Get Rescue Form
// @Description  Look up a rescue form by its own ID or by its alert ID
// @Tags         RescueForm
// @Produce      json
// @Param        id path string true "Rescue form ID or alert ID"
// @Success      200  {object}  SuccessResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /rescueform/{id} [get]
// @Security     BearerAuth
func (c *RescueFormController) GetRescueForm() {
	form, err := rescueService(c.Container).GetRescueForm(c.Ctx.Request.Context(), c.Ctx.Param("id"))
	if err != nil {
		response.Error(c.Ctx, err)
		return
	}
	response.Success(c.Ctx, form)
}

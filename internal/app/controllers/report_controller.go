package controllers

import (
	"github.com/gin-gonic/gin"

	"resqwave-dispatch-service/internal/domain/services"
	"resqwave-dispatch-service/internal/domain/services/container"
	"resqwave-dispatch-service/internal/error/code"
	"resqwave-dispatch-service/internal/error/response"
)

// InterfaceReportController 定义报告控制器接口
type InterfaceReportController interface {
	CreatePostRescueForm()
	PendingReports()
	CompletedReports()
	AggregatedReports()
}

// ReportController 处理救援完成和报告相关的请求
type ReportController struct {
	Ctx       *gin.Context
	Container *container.ServiceContainer
}

// NewReportController 创建一个新的报告控制器
func NewReportController(ctx *gin.Context, container *container.ServiceContainer) *ReportController {
	return &ReportController{
		Ctx:       ctx,
		Container: container,
	}
}

// HandleReportFunc 返回一个处理报告请求的Gin处理函数
func HandleReportFunc(container *container.ServiceContainer, method string) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		controller := NewReportController(ctx, container)

		switch method {
		case "createPostRescueForm":
			controller.CreatePostRescueForm()
		case "pendingReports":
			controller.PendingReports()
		case "completedReports":
			controller.CompletedReports()
		case "aggregatedReports":
			controller.AggregatedReports()
		default:
			response.FailWithMessage(ctx, code.ErrBind, "无效的方法", nil)
		}
	}
}

// 1. CreatePostRescueForm 提交救援完成记录
// @Summary      Create Post-Rescue Form
// @Description  Close a dispatched rescue. The alert must be Dispatched and have a rescue form.
// @Tags         Report
// @Accept       json
// @Produce      json
// @Param        alertID path string true "Alert ID"
// @Param        request body services.PostRescueFormInput true "Completion record"
// @Success      201  {object}  SuccessResponse
// @Failure      400  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Failure      409  {object}  ErrorResponse
// @Failure      412  {object}  ErrorResponse
// @Router       /postrescue/{alertID} [post]
// @Security     BearerAuth
func (c *ReportController) CreatePostRescueForm() {
	var req services.PostRescueFormInput
	if err := c.Ctx.ShouldBindJSON(&req); err != nil {
		response.FailWithMessage(c.Ctx, code.ErrBind, "无效的请求参数: "+err.Error(), nil)
		return
	}

	form, err := rescueService(c.Container).CreatePostRescueForm(c.Ctx.Request.Context(), c.Ctx.Param("alertID"), req)
	if err != nil {
		response.Error(c.Ctx, err)
		return
	}
	response.Created(c.Ctx, form)
}

// 2. PendingReports 获取待完成报告
// @Summary      Pending Reports
// @Description  Dispatched alerts with a rescue form and no post-rescue form
// @Tags         Report
// @Produce      json
// @Success      200  {object}  SuccessResponse
// @Router       /reports/pending [get]
// @Security     BearerAuth
func (c *ReportController) PendingReports() {
	entries, err := rescueService(c.Container).PendingReports(c.Ctx.Request.Context())
	if err != nil {
		response.Error(c.Ctx, err)
		return
	}
	response.Success(c.Ctx, entries)
}

// 3. CompletedReports 获取已完成报告
// @Summary      Completed Reports
// @Tags         Report
// @Produce      json
// @Success      200  {object}  SuccessResponse
// @Router       /reports/completed [get]
// @Security     BearerAuth
func (c *ReportController) CompletedReports() {
	entries, err := rescueService(c.Container).CompletedReports(c.Ctx.Request.Context())
	if err != nil {
		response.Error(c.Ctx, err)
		return
	}
	response.Success(c.Ctx, entries)
}

// 4. AggregatedReports 按日期汇总已完成救援
// @Summary      Aggregated Reports
// @Description  Completed rescues per UTC day. Both bounds are inclusive dates.
// @Tags         Report
// @Produce      json
// @Param        from query string false "YYYY-MM-DD"
// @Param        to   query string false "YYYY-MM-DD"
// @Success      200  {object}  SuccessResponse
// @Failure      400  {object}  ErrorResponse
// @Router       /reports/aggregated [get]
// @Security     BearerAuth
func (c *ReportController) AggregatedReports() {
	rows, err := rescueService(c.Container).AggregatedReports(c.Ctx.Request.Context(), c.Ctx.Query("from"), c.Ctx.Query("to"))
	if err != nil {
		response.Error(c.Ctx, err)
		return
	}
	response.Success(c.Ctx, rows)
}

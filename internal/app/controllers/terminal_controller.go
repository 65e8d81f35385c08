package controllers

import (
	"github.com/gin-gonic/gin"

	"resqwave-dispatch-service/internal/domain/services/container"
	"resqwave-dispatch-service/internal/error/code"
	"resqwave-dispatch-service/internal/error/response"
)

// InterfaceTerminalController 定义终端控制器接口
type InterfaceTerminalController interface {
	CreateTerminal()
	ListTerminals()
	GetTerminal()
	ArchiveTerminal()
	UnarchiveTerminal()
}

// TerminalController 处理终端相关的请求
type TerminalController struct {
	Ctx       *gin.Context
	Container *container.ServiceContainer
}

// NewTerminalController 创建一个新的终端控制器
func NewTerminalController(ctx *gin.Context, container *container.ServiceContainer) *TerminalController {
	return &TerminalController{
		Ctx:       ctx,
		Container: container,
	}
}

// CreateTerminalRequest 表示终端登记请求
type CreateTerminalRequest struct {
	Name string `json:"name" binding:"required" example:"Malanday Node 1"`
}

// HandleTerminalFunc 返回一个处理终端请求的Gin处理函数
func HandleTerminalFunc(container *container.ServiceContainer, method string) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		controller := NewTerminalController(ctx, container)

		switch method {
		case "createTerminal":
			controller.CreateTerminal()
		case "listTerminals":
			controller.ListTerminals()
		case "getTerminal":
			controller.GetTerminal()
		case "archiveTerminal":
			controller.ArchiveTerminal()
		case "unarchiveTerminal":
			controller.UnarchiveTerminal()
		default:
			response.FailWithMessage(ctx, code.ErrBind, "无效的方法", nil)
		}
	}
}

// 1. CreateTerminal 登记终端
// @Summary      Create Terminal
// @Tags         Terminal
// @Accept       json
// @Produce      json
// @Param        request body CreateTerminalRequest true "Terminal"
// @Success      201  {object}  SuccessResponse
// @Failure      400  {object}  ErrorResponse
// @Router       /terminal [post]
// @Security     BearerAuth
func (c *TerminalController) CreateTerminal() {
	var req CreateTerminalRequest
	if err := c.Ctx.ShouldBindJSON(&req); err != nil {
		response.FailWithMessage(c.Ctx, code.ErrBind, "无效的请求参数: "+err.Error(), nil)
		return
	}

	terminal, err := terminalService(c.Container).CreateTerminal(c.Ctx.Request.Context(), req.Name)
	if err != nil {
		response.Error(c.Ctx, err)
		return
	}
	response.Created(c.Ctx, terminal)
}

// 2. ListTerminals 获取终端列表
// @Summary      List Terminals
// @Tags         Terminal
// @Produce      json
// @Param        archived query bool false "List archived terminals instead of active ones"
// @Success      200  {object}  SuccessResponse
// @Failure      400  {object}  ErrorResponse
// @Router       /terminal [get]
// @Security     BearerAuth
func (c *TerminalController) ListTerminals() {
	archived, err := queryBool(c.Ctx, "archived")
	if err != nil {
		response.ParamError(c.Ctx, "archived must be a boolean")
		return
	}

	terminals, err := terminalService(c.Container).ListTerminals(c.Ctx.Request.Context(), archived)
	if err != nil {
		response.Error(c.Ctx, err)
		return
	}
	response.Success(c.Ctx, terminals)
}

// 3. GetTerminal 获取终端
// @Summary      Get Terminal
// @Tags         Terminal
// @Produce      json
// @Param        id path string true "Terminal ID"
// @Success      200  {object}  SuccessResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /terminal/{id} [get]
// @Security     BearerAuth
func (c *TerminalController) GetTerminal() {
	terminal, err := terminalService(c.Container).GetTerminal(c.Ctx.Request.Context(), c.Ctx.Param("id"))
	if err != nil {
		response.Error(c.Ctx, err)
		return
	}
	response.Success(c.Ctx, terminal)
}

// 4. ArchiveTerminal 归档终端，同时释放其社区小组
// @Summary      Archive Terminal
// @Tags         Terminal
// @Produce      json
// @Param        id path string true "Terminal ID"
// @Success      200  {object}  SuccessResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /terminal/{id}/archive [put]
// @Security     BearerAuth
func (c *TerminalController) ArchiveTerminal() {
	terminal, err := terminalService(c.Container).ArchiveTerminal(c.Ctx.Request.Context(), c.Ctx.Param("id"))
	if err != nil {
		response.Error(c.Ctx, err)
		return
	}
	response.Success(c.Ctx, terminal)
}

// 5. UnarchiveTerminal 恢复终端
// @Summary      Unarchive Terminal
// @Tags         Terminal
// @Produce      json
// @Param        id path string true "Terminal ID"
// @Success      200  {object}  SuccessResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /terminal/{id}/unarchive [put]
// @Security     BearerAuth
func (c *TerminalController) UnarchiveTerminal() {
	terminal, err := terminalService(c.Container).UnarchiveTerminal(c.Ctx.Request.Context(), c.Ctx.Param("id"))
	if err != nil {
		response.Error(c.Ctx, err)
		return
	}
	response.Success(c.Ctx, terminal)
}

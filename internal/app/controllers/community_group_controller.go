package controllers

import (
	"strings"

	"github.com/gin-gonic/gin"

	"resqwave-dispatch-service/internal/domain/services"
	"resqwave-dispatch-service/internal/domain/services/container"
	"resqwave-dispatch-service/internal/error/code"
	"resqwave-dispatch-service/internal/error/response"
)

// InterfaceCommunityGroupController 定义社区小组控制器接口
type InterfaceCommunityGroupController interface {
	AssignGroup()
	ReleaseGroup()
	UpdateGroup()
	ListGroups()
	GetGroup()
}

// CommunityGroupController 处理社区小组相关的请求。
// /communitygroup 和 /neighborhood 共用同一组操作，只是缓存键不同。
type CommunityGroupController struct {
	Ctx       *gin.Context
	Container *container.ServiceContainer
	Family    services.GroupFamily
}

// NewCommunityGroupController 创建一个新的社区小组控制器
func NewCommunityGroupController(ctx *gin.Context, container *container.ServiceContainer, family services.GroupFamily) *CommunityGroupController {
	return &CommunityGroupController{
		Ctx:       ctx,
		Container: container,
		Family:    family,
	}
}

// AssignGroupRequest 表示社区小组登记请求
type AssignGroupRequest struct {
	TerminalID string `json:"terminal_id" binding:"required" example:"T001"`
	services.GroupInput
	FocalPerson services.FocalPersonInput `json:"focal_person" binding:"required"`
}

// HandleCommunityGroupFunc 返回一个处理社区小组请求的Gin处理函数
func HandleCommunityGroupFunc(container *container.ServiceContainer, family services.GroupFamily, method string) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		controller := NewCommunityGroupController(ctx, container, family)

		switch method {
		case "assignGroup":
			controller.AssignGroup()
		case "releaseGroup":
			controller.ReleaseGroup()
		case "updateGroup":
			controller.UpdateGroup()
		case "listGroups":
			controller.ListGroups()
		case "getGroup":
			controller.GetGroup()
		default:
			response.FailWithMessage(ctx, code.ErrBind, "无效的方法", nil)
		}
	}
}

// 1. AssignGroup 登记社区小组并绑定终端
// @Summary      Assign Community Group
// @Description  Create a community group and its focal person bound to an available terminal
// @Tags         CommunityGroup
// @Accept       json
// @Produce      json
// @Param        request body AssignGroupRequest true "Group, focal person and terminal"
// @Success      201  {object}  SuccessResponse
// @Failure      400  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Failure      409  {object}  ErrorResponse
// @Failure      412  {object}  ErrorResponse
// @Router       /communitygroup [post]
// @Security     BearerAuth
func (c *CommunityGroupController) AssignGroup() {
	var req AssignGroupRequest
	if err := c.Ctx.ShouldBindJSON(&req); err != nil {
		response.FailWithMessage(c.Ctx, code.ErrBind, "无效的请求参数: "+err.Error(), nil)
		return
	}

	result, err := assignmentService(c.Container).AssignResource(c.Ctx.Request.Context(), strings.TrimSpace(req.TerminalID), req.GroupInput, req.FocalPerson)
	if err != nil {
		response.Error(c.Ctx, err)
		return
	}
	response.Created(c.Ctx, result)
}

// 2. ReleaseGroup 归档社区小组并释放终端
// @Summary      Release Community Group
// @Description  Archive a group and make its terminal available again. Releasing twice is a no-op.
// @Tags         CommunityGroup
// @Produce      json
// @Param        id path string true "Group ID"
// @Success      200  {object}  SuccessResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /communitygroup/{id} [delete]
// @Security     BearerAuth
func (c *CommunityGroupController) ReleaseGroup() {
	id := c.Ctx.Param("id")
	if err := assignmentService(c.Container).ReleaseResource(c.Ctx.Request.Context(), id); err != nil {
		response.Error(c.Ctx, err)
		return
	}
	response.Success(c.Ctx, gin.H{"group_id": id, "archived": true})
}

// 3. UpdateGroup 更新社区小组信息
// @Summary      Update Community Group
// @Tags         CommunityGroup
// @Accept       json
// @Produce      json
// @Param        id path string true "Group ID"
// @Param        request body services.GroupInput true "Group attributes"
// @Success      200  {object}  SuccessResponse
// @Failure      400  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Failure      412  {object}  ErrorResponse
// @Router       /communitygroup/{id} [put]
// @Security     BearerAuth
func (c *CommunityGroupController) UpdateGroup() {
	var req services.GroupInput
	if err := c.Ctx.ShouldBindJSON(&req); err != nil {
		response.FailWithMessage(c.Ctx, code.ErrBind, "无效的请求参数: "+err.Error(), nil)
		return
	}

	group, err := assignmentService(c.Container).UpdateGroup(c.Ctx.Request.Context(), c.Ctx.Param("id"), req)
	if err != nil {
		response.Error(c.Ctx, err)
		return
	}
	response.Success(c.Ctx, group)
}

// 4. ListGroups 获取社区小组列表
// @Summary      List Community Groups
// @Tags         CommunityGroup
// @Produce      json
// @Param        archived query bool false "List archived groups instead of active ones"
// @Success      200  {object}  SuccessResponse
// @Failure      400  {object}  ErrorResponse
// @Router       /communitygroup [get]
// @Security     BearerAuth
func (c *CommunityGroupController) ListGroups() {
	archived, err := queryBool(c.Ctx, "archived")
	if err != nil {
		response.ParamError(c.Ctx, "archived must be a boolean")
		return
	}

	groups, err := assignmentService(c.Container).ListGroups(c.Ctx.Request.Context(), c.Family, archived)
	if err != nil {
		response.Error(c.Ctx, err)
		return
	}
	response.Success(c.Ctx, groups)
}

// 5. GetGroup 获取社区小组
// @Summary      Get Community Group
// @Tags         CommunityGroup
// @Produce      json
// @Param        id path string true "Group ID"
// @Success      200  {object}  SuccessResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /communitygroup/{id} [get]
// @Security     BearerAuth
func (c *CommunityGroupController) GetGroup() {
	group, err := assignmentService(c.Container).GetGroup(c.Ctx.Request.Context(), c.Family, c.Ctx.Param("id"))
	if err != nil {
		response.Error(c.Ctx, err)
		return
	}
	response.Success(c.Ctx, group)
}

package controllers

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"resqwave-dispatch-service/internal/domain/services"
	"resqwave-dispatch-service/internal/domain/services/container"
)

// SuccessResponse 表示成功响应
type SuccessResponse struct {
	Code    int         `json:"code" example:"0"`
	Message string      `json:"message" example:"success"`
	Data    interface{} `json:"data"`
}

// ErrorResponse 表示错误响应
type ErrorResponse struct {
	Code    int         `json:"code" example:"101002"`
	Message string      `json:"message" example:"resource conflict: terminal T001 is already occupied"`
	Data    interface{} `json:"data"`
}

func alertService(c *container.ServiceContainer) services.InterfaceAlertService {
	return c.GetService("alert").(services.InterfaceAlertService)
}

func rescueService(c *container.ServiceContainer) services.InterfaceRescueService {
	return c.GetService("rescue").(services.InterfaceRescueService)
}

func assignmentService(c *container.ServiceContainer) services.InterfaceAssignmentService {
	return c.GetService("assignment").(services.InterfaceAssignmentService)
}

func terminalService(c *container.ServiceContainer) services.InterfaceTerminalService {
	return c.GetService("terminal").(services.InterfaceTerminalService)
}

func cacheService(c *container.ServiceContainer) services.InterfaceCacheService {
	return c.GetService("cache").(services.InterfaceCacheService)
}

// queryBool parses an optional boolean query parameter
func queryBool(ctx *gin.Context, name string) (bool, error) {
	raw := ctx.Query(name)
	if raw == "" {
		return false, nil
	}
	return strconv.ParseBool(raw)
}

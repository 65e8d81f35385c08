package middleware

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v4"

	"resqwave-dispatch-service/internal/domain/services"
)

var jwtService services.InterfaceJWTService

// InitAuthMiddleware 初始化认证中间件
func InitAuthMiddleware(svc services.InterfaceJWTService) {
	jwtService = svc
}

// extractToken 从授权头中提取token
func extractToken(authHeader string) string {
	// 检查并移除 "Bearer " 前缀
	if len(authHeader) > 7 && strings.HasPrefix(authHeader, "Bearer ") {
		return authHeader[7:]
	}
	return authHeader
}

// requestToken reads the bearer token from the Authorization header, falling
// back to the token query parameter used by browser websocket clients.
func requestToken(c *gin.Context) string {
	if h := c.GetHeader("Authorization"); h != "" {
		return extractToken(h)
	}
	return c.Query("token")
}

var errMissingToken = errors.New("authorization header is required")

// ParseOperator validates the request token and returns its claims. The
// returned status is the HTTP status to reject with when err is not nil.
func ParseOperator(c *gin.Context) (jwt.MapClaims, int, error) {
	tokenString := requestToken(c)
	if tokenString == "" {
		return nil, http.StatusUnauthorized, errMissingToken
	}

	token, err := jwtService.ValidateToken(tokenString)
	if err != nil {
		return nil, http.StatusUnauthorized, errors.New("invalid token: " + err.Error())
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return nil, http.StatusUnauthorized, errors.New("invalid token claims")
	}

	role, _ := claims["role"].(string)
	if !services.IsOperatorRole(role) {
		return nil, http.StatusForbidden, errors.New("insufficient permissions: requires admin or dispatcher role")
	}
	return claims, http.StatusOK, nil
}

func reject(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{
		"code":    status,
		"message": message,
		"data":    nil,
	})
	c.Abort()
}

// AuthenticateOperator 验证调度员或管理员权限
func AuthenticateOperator() gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, status, err := ParseOperator(c)
		if err != nil {
			reject(c, status, err.Error())
			return
		}

		// 存储claims到上下文
		c.Set("userID", claims["user_id"])
		c.Set("role", claims["role"])
		c.Set("claims", claims)
		c.Next()
	}
}

// AuthenticateSystemAdmin 验证系统管理员权限
func AuthenticateSystemAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, status, err := ParseOperator(c)
		if err != nil {
			reject(c, status, err.Error())
			return
		}
		if role, _ := claims["role"].(string); role != services.RoleAdmin {
			reject(c, http.StatusForbidden, "insufficient permissions: requires system admin role")
			return
		}

		c.Set("userID", claims["user_id"])
		c.Set("role", claims["role"])
		c.Set("claims", claims)
		c.Next()
	}
}

// CurrentUserID returns the operator id stored by the auth middleware
func CurrentUserID(c *gin.Context) string {
	switch id := c.Value("userID").(type) {
	case string:
		return id
	case float64:
		return strconv.FormatFloat(id, 'f', -1, 64)
	}
	return ""
}

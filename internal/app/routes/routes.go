package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "resqwave-dispatch-service/docs"
	"resqwave-dispatch-service/internal/app/controllers"
	"resqwave-dispatch-service/internal/app/middleware"
	"resqwave-dispatch-service/internal/domain/services"
	"resqwave-dispatch-service/internal/domain/services/container"
	"resqwave-dispatch-service/internal/infrastructure/config"
)

// SetupRouter 初始化并返回配置好的路由
func SetupRouter(serviceContainer *container.ServiceContainer) *gin.Engine {
	cfg := serviceContainer.GetService("config").(*config.Config)
	logger := serviceContainer.GetService("logger").(*zap.Logger)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger(logger.Named("http")))
	r.Use(middleware.Metrics())
	r.Use(middleware.CORS(cfg.AllowedOrigins))

	// 初始化中间件
	middleware.InitAuthMiddleware(serviceContainer.GetService("jwt").(services.InterfaceJWTService))

	// Prometheus 指标和 Swagger 文档
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	registerRoutes(r, serviceContainer, cfg)
	return r
}

// registerRoutes 配置所有API路由
func registerRoutes(
	r *gin.Engine,
	container *container.ServiceContainer,
	cfg *config.Config,
) {
	// API 路由根路径
	api := r.Group("/api")
	api.Use(middleware.IPRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst))

	registerPublicRoutes(api, container)
	registerAuthenticatedRoutes(api, container)
}

// registerPublicRoutes 注册公共路由
func registerPublicRoutes(
	api *gin.RouterGroup,
	container *container.ServiceContainer,
) {
	// 健康检查路由
	api.GET("/ping", controllers.HandleHealthFunc(container, "ping"))
	api.GET("/health", controllers.HandleHealthFunc(container, "ping"))

	healthGroup := api.Group("/health")
	healthGroup.GET("/status", controllers.HandleHealthFunc(container, "status"))
	healthGroup.GET("/cache-stats", controllers.HandleHealthFunc(container, "cacheStats"))

	// WebSocket 在升级前自行认证
	api.GET("/ws", controllers.HandleRealtimeFunc(container, "connect"))
}

// registerAuthenticatedRoutes 注册需要认证的路由
func registerAuthenticatedRoutes(
	api *gin.RouterGroup,
	container *container.ServiceContainer,
) {
	auth := api.Group("/")
	auth.Use(middleware.AuthenticateOperator())

	// 警报
	alertGroup := auth.Group("/alert")
	{
		alertGroup.POST("/critical", controllers.HandleAlertFunc(container, "triggerCritical"))
		alertGroup.POST("/user", controllers.HandleAlertFunc(container, "triggerUserInitiated"))
		alertGroup.GET("", controllers.HandleAlertFunc(container, "listAlerts"))
		alertGroup.GET("/map", controllers.HandleAlertFunc(container, "mapAlerts"))
		alertGroup.GET("/:id", controllers.HandleAlertFunc(container, "getAlert"))
		alertGroup.PUT("/:id", controllers.HandleAlertFunc(container, "updateStatus"))
	}

	// 救援表单
	rescueGroup := auth.Group("/rescueform")
	{
		rescueGroup.GET("", controllers.HandleRescueFormFunc(container, "listRescueForms"))
		rescueGroup.GET("/:id", controllers.HandleRescueFormFunc(container, "getRescueForm"))
		rescueGroup.POST("/:alertID", controllers.HandleRescueFormFunc(container, "createRescueForm"))
	}

	// 救援完成和报告
	auth.POST("/postrescue/:alertID", controllers.HandleReportFunc(container, "createPostRescueForm"))
	reportGroup := auth.Group("/reports")
	{
		reportGroup.GET("/pending", controllers.HandleReportFunc(container, "pendingReports"))
		reportGroup.GET("/completed", controllers.HandleReportFunc(container, "completedReports"))
		reportGroup.GET("/aggregated", controllers.HandleReportFunc(container, "aggregatedReports"))
	}

	// 社区小组，/neighborhood 为同一资源的另一组视图
	registerGroupRoutes(auth.Group("/communitygroup"), container, services.FamilyCommunityGroup)
	registerGroupRoutes(auth.Group("/neighborhood"), container, services.FamilyNeighborhood)

	// 终端
	terminalGroup := auth.Group("/terminal")
	{
		terminalGroup.GET("", controllers.HandleTerminalFunc(container, "listTerminals"))
		terminalGroup.GET("/:id", controllers.HandleTerminalFunc(container, "getTerminal"))
		terminalGroup.POST("", middleware.AuthenticateSystemAdmin(), controllers.HandleTerminalFunc(container, "createTerminal"))
		terminalGroup.PUT("/:id/archive", middleware.AuthenticateSystemAdmin(), controllers.HandleTerminalFunc(container, "archiveTerminal"))
		terminalGroup.PUT("/:id/unarchive", middleware.AuthenticateSystemAdmin(), controllers.HandleTerminalFunc(container, "unarchiveTerminal"))
	}
}

func registerGroupRoutes(group *gin.RouterGroup, container *container.ServiceContainer, family services.GroupFamily) {
	group.POST("", controllers.HandleCommunityGroupFunc(container, family, "assignGroup"))
	group.GET("", controllers.HandleCommunityGroupFunc(container, family, "listGroups"))
	group.GET("/:id", controllers.HandleCommunityGroupFunc(container, family, "getGroup"))
	group.PUT("/:id", controllers.HandleCommunityGroupFunc(container, family, "updateGroup"))
	group.DELETE("/:id", controllers.HandleCommunityGroupFunc(container, family, "releaseGroup"))
}

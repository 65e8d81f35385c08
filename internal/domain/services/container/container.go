package container

import (
	"sync"

	"go.uber.org/zap"

	"resqwave-dispatch-service/internal/domain/repository"
	"resqwave-dispatch-service/internal/domain/services"
	"resqwave-dispatch-service/internal/infrastructure/cache"
	"resqwave-dispatch-service/internal/infrastructure/config"
)

// Dependencies are the infrastructure handles the services are built on
type Dependencies struct {
	Config    *config.Config
	Store     repository.Store
	Cache     cache.Backend
	Publisher services.Publisher
	Logger    *zap.Logger

	// Runner runs post-commit broadcasts; nil runs each on its own goroutine.
	Runner services.Runner
	// HashPassword overrides bcrypt for focal person passwords when set.
	HashPassword func(string) (string, error)
}

// ServiceContainer 管理所有服务的依赖注入
type ServiceContainer struct {
	config    *config.Config
	store     repository.Store
	publisher services.Publisher
	logger    *zap.Logger

	jwtService        services.InterfaceJWTService
	cacheService      services.InterfaceCacheService
	terminalService   services.InterfaceTerminalService
	assignmentService services.InterfaceAssignmentService
	alertService      services.InterfaceAlertService
	rescueService     services.InterfaceRescueService
	mqttIngestService *services.MQTTIngestService

	mu sync.RWMutex
}

// NewServiceContainer 创建新的服务容器
func NewServiceContainer(deps Dependencies) *ServiceContainer {
	if deps.Store == nil {
		panic("存储为空")
	}
	if deps.Config == nil {
		panic("配置为空")
	}
	if deps.Cache == nil {
		panic("缓存后端为空")
	}
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}
	if deps.Publisher == nil {
		deps.Publisher = services.NoopPublisher{}
	}

	c := &ServiceContainer{
		config:    deps.Config,
		store:     deps.Store,
		publisher: deps.Publisher,
		logger:    deps.Logger,
	}
	c.initializeServices(deps)
	return c
}

// initializeServices 初始化所有服务
func (c *ServiceContainer) initializeServices(deps Dependencies) {
	c.mu.Lock()
	defer c.mu.Unlock()

	// 基础服务
	c.jwtService = services.NewJWTService(c.config)
	c.cacheService = services.NewCacheService(deps.Cache, c.logger)

	// 调度服务
	c.terminalService = services.NewTerminalService(c.store, c.cacheService, c.logger)
	assignment := services.NewAssignmentService(c.store, c.cacheService, c.logger)
	if deps.HashPassword != nil {
		assignment.(*services.AssignmentService).HashPassword = deps.HashPassword
	}
	c.assignmentService = assignment
	c.alertService = services.NewAlertService(c.store, c.cacheService, c.publisher, deps.Runner, c.logger)
	c.rescueService = services.NewRescueService(c.store, c.cacheService, c.logger)

	// 终端MQTT接入
	c.mqttIngestService = services.NewMQTTIngestService(c.config, c.alertService, c.terminalService, c.logger)
}

// GetService 获取指定名称的服务
func (c *ServiceContainer) GetService(name string) interface{} {
	c.mu.RLock()
	defer c.mu.RUnlock()

	switch name {
	case "config":
		return c.config
	case "store":
		return c.store
	case "publisher":
		return c.publisher
	case "logger":
		return c.logger
	case "jwt":
		return c.jwtService
	case "cache":
		return c.cacheService
	case "terminal":
		return c.terminalService
	case "assignment":
		return c.assignmentService
	case "alert":
		return c.alertService
	case "rescue":
		return c.rescueService
	case "mqtt_ingest":
		return c.mqttIngestService
	default:
		return nil
	}
}

// GetStore 获取存储
func (c *ServiceContainer) GetStore() repository.Store {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.store
}

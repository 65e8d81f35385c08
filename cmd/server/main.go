// @title           ResQWave Dispatch Service API
// @version         1.0
// @description     Flood emergency alert dispatch: terminal assignment, alert lifecycle, rescue reports and realtime fanout
// @termsOfService  http://swagger.io/terms/

// @contact.name   API Support

// @license.name  Apache 2.0
// @license.url   http://www.apache.org/licenses/LICENSE-2.0.html

// @host      localhost:8080
// @BasePath  /api

// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
// @description                 Enter the token with the `Bearer: ` prefix
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"resqwave-dispatch-service/internal/app/routes"
	"resqwave-dispatch-service/internal/domain/repository"
	"resqwave-dispatch-service/internal/domain/services"
	"resqwave-dispatch-service/internal/domain/services/container"
	"resqwave-dispatch-service/internal/infrastructure/cache"
	"resqwave-dispatch-service/internal/infrastructure/config"
	"resqwave-dispatch-service/internal/infrastructure/database"
	"resqwave-dispatch-service/internal/infrastructure/memstore"
	"resqwave-dispatch-service/internal/infrastructure/realtime"
	"resqwave-dispatch-service/internal/infrastructure/supervisor"
	Logger "resqwave-dispatch-service/pkg/logger"
)

func main() {
	var configFile string

	rootCmd := &cobra.Command{
		Use:   "resqwave-dispatch",
		Short: "Alert dispatch coordination service for flood emergency response",
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve(configFile)
		},
		SilenceUsage: true,
	}
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "Path to an optional configuration file (env vars win)")

	rootCmd.AddCommand(&cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP, websocket and MQTT listeners",
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve(configFile)
		},
	})
	rootCmd.AddCommand(migrateCommand(&configFile))
	rootCmd.AddCommand(tokenCommand(&configFile))

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// bootstrap 加载.env、配置和日志
func bootstrap(configFile string) (*config.Config, error) {
	// 加载.env文件，失败时继续使用已有环境变量
	envErr := godotenv.Load()

	cfg, err := config.Load(configFile)
	if err != nil {
		return nil, err
	}

	if err := Logger.SetupLogger(Logger.Options{
		Level:       cfg.LogLevel,
		Format:      cfg.LogFormat,
		ServiceName: "resqwave-dispatch",
		LogDir:      cfg.LogDir,
	}); err != nil {
		return nil, fmt.Errorf("初始化日志配置失败: %w", err)
	}
	if envErr != nil {
		Logger.Warning("无法加载.env文件: %v", envErr)
	} else {
		Logger.Info("成功加载.env文件")
	}
	return cfg, nil
}

func serve(configFile string) error {
	cfg, err := bootstrap(configFile)
	if err != nil {
		return err
	}
	defer Logger.Sync()
	logger := Logger.L()

	if cfg.GinMode != "" {
		gin.SetMode(cfg.GinMode)
	}

	store, closeStore, err := openStore(cfg, logger)
	if err != nil {
		return err
	}
	defer closeStore()

	backend := openCache(cfg, logger)
	defer func() { _ = backend.Close() }()

	hub := realtime.NewHub(logger)
	serviceContainer := container.NewServiceContainer(container.Dependencies{
		Config:    cfg,
		Store:     store,
		Cache:     backend,
		Publisher: hub,
		Logger:    logger,
	})

	router := routes.SetupRouter(serviceContainer)
	server := &http.Server{
		Addr:              "0.0.0.0:" + cfg.ServerPort,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	tree := supervisor.NewTree(logger, supervisor.DefaultTreeConfig())
	tree.AddMessagingService(hub)
	if cfg.MQTTEnabled {
		tree.AddMessagingService(serviceContainer.GetService("mqtt_ingest").(*services.MQTTIngestService))
	} else {
		logger.Info("MQTT ingest disabled")
	}
	tree.AddAPIService(supervisor.NewHTTPServerService(server, 10*time.Second))

	printSystemInfo(logger)
	logger.Info("服务器启动", zap.String("addr", server.Addr),
		zap.String("store", cfg.DBDriver), zap.String("cache", backend.Name()))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := tree.Serve(ctx); err != nil && ctx.Err() == nil {
		logger.Error("supervisor stopped", zap.Error(err))
		return err
	}
	logger.Info("服务器已关闭")
	return nil
}

// openStore 根据配置选择存储
func openStore(cfg *config.Config, logger *zap.Logger) (repository.Store, func(), error) {
	if cfg.DBDriver == config.DriverMemory {
		logger.Warn("using the in-memory store, data is lost on restart")
		return memstore.NewStore(), func() {}, nil
	}

	pool, err := database.NewConnectionPool(cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("无法创建数据库连接池: %w", err)
	}
	if err := database.Migrate(pool.GetDB(), cfg.DBMigrationMode); err != nil {
		_ = pool.Close()
		return nil, nil, fmt.Errorf("数据库迁移失败: %w", err)
	}
	if stats, err := pool.Stats(); err == nil {
		logger.Info("数据库连接池状态", zap.Any("stats", stats))
	}
	return database.NewStore(pool), func() { _ = pool.Close() }, nil
}

// openCache selects Redis when configured and always puts the breaker in front
func openCache(cfg *config.Config, logger *zap.Logger) cache.Backend {
	var inner cache.Backend
	if cfg.RedisEnabled() {
		client := redis.NewClient(&redis.Options{
			Addr:         cfg.GetRedisAddr(),
			Password:     cfg.RedisPassword,
			DB:           cfg.RedisDB,
			DialTimeout:  2 * time.Second,
			ReadTimeout:  500 * time.Millisecond,
			WriteTimeout: 500 * time.Millisecond,
			MaxRetries:   1,
		})
		inner = cache.NewRedisBackend(client, cfg.CachePrefix)
	} else {
		logger.Info("REDIS_HOST not set, using the in-process cache")
		inner = cache.NewMemoryBackend(time.Minute)
	}
	return cache.NewBreakerBackend(inner, cache.BreakerSettings{
		ConsecutiveFailures: cfg.CacheBreakerFailures,
		OpenTimeout:         cfg.CacheBreakerTimeout,
	}, logger)
}

func migrateCommand(configFile *string) *cobra.Command {
	var mode string
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply the MySQL schema and seed identifier sequences, then exit",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := bootstrap(*configFile)
			if err != nil {
				return err
			}
			defer Logger.Sync()
			if cfg.DBDriver != config.DriverMySQL {
				return fmt.Errorf("migrate requires DB_DRIVER=mysql, got %q", cfg.DBDriver)
			}
			if mode == "" {
				mode = cfg.DBMigrationMode
			}

			pool, err := database.NewConnectionPool(cfg)
			if err != nil {
				return err
			}
			defer func() { _ = pool.Close() }()
			if err := database.Migrate(pool.GetDB(), mode); err != nil {
				return err
			}
			Logger.Info("migration finished in %s mode", mode)
			return nil
		},
	}
	cmd.Flags().StringVar(&mode, "mode", "", "auto, alter or drop (defaults to DB_MIGRATION_MODE)")
	return cmd
}

// tokenCommand issues an operator token signed with JWT_SECRET_KEY. Operator
// accounts live in the identity service; this is for local tooling.
func tokenCommand(configFile *string) *cobra.Command {
	var (
		userID string
		role   string
		ttl    time.Duration
	)
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Print a signed operator JWT",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(*configFile)
			if err != nil {
				return err
			}
			if !services.IsOperatorRole(role) {
				return fmt.Errorf("role must be %s or %s", services.RoleAdmin, services.RoleDispatcher)
			}
			token, err := services.NewJWTService(cfg).GenerateToken(userID, role, ttl)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}
	cmd.Flags().StringVar(&userID, "user", "D001", "operator id")
	cmd.Flags().StringVar(&role, "role", services.RoleDispatcher, "admin or dispatcher")
	cmd.Flags().DurationVar(&ttl, "ttl", 24*time.Hour, "token lifetime")
	return cmd
}

// printSystemInfo 打印系统信息
func printSystemInfo(logger *zap.Logger) {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	logger.Info("系统信息",
		zap.Int("cpus", runtime.NumCPU()),
		zap.Int("goroutines", runtime.NumGoroutine()),
		zap.Uint64("alloc_mib", m.Alloc/1024/1024),
		zap.Uint64("sys_mib", m.Sys/1024/1024))
}

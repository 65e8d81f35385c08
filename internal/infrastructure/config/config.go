package config

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/spf13/viper"
)

var (
	config     *Config
	configOnce sync.Once
)

// 存储驱动
const (
	DriverMySQL  = "mysql"
	DriverMemory = "memory"
)

// Config stores all configuration of the application
type Config struct {
	// Environment type
	EnvType string

	// Database
	DBDriver        string // "mysql" 或 "memory"
	DBHost          string
	DBUser          string
	DBPassword      string
	DBName          string
	DBPort          string
	DBMigrationMode string // 数据库迁移模式: "auto"(默认), "alter"(修改), "drop"(删除重建)

	// Server
	ServerPort     string
	GinMode        string
	AllowedOrigins []string

	// Redis, an empty host selects the in-memory cache
	RedisHost     string
	RedisPort     string
	RedisPassword string
	RedisDB       int
	CachePrefix   string

	// 熔断器配置
	CacheBreakerFailures uint32
	CacheBreakerTimeout  time.Duration

	// MQTT配置
	MQTTEnabled     bool
	MQTTBrokerURL   string // MQTT服务器地址，如 tcp://broker.example.com:1883
	MQTTClientID    string
	MQTTUsername    string
	MQTTPassword    string
	MQTTQoS         int
	MQTTTopicPrefix string

	// JWT Authentication
	JWTSecretKey string

	// Rate limiting per client IP
	RateLimitRPS   float64
	RateLimitBurst int

	// Logging
	LogLevel  string
	LogFormat string
	LogDir    string
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("ENV_TYPE", "LOCAL")
	v.SetDefault("DB_DRIVER", DriverMySQL)
	v.SetDefault("DB_PORT", "3306")
	v.SetDefault("DB_MIGRATION_MODE", "auto")
	v.SetDefault("SERVER_PORT", "8080")
	v.SetDefault("GIN_MODE", "release")
	v.SetDefault("ALLOWED_ORIGINS", "*")
	v.SetDefault("REDIS_PORT", "6379")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("CACHE_PREFIX", "resqwave:")
	v.SetDefault("CACHE_BREAKER_FAILURES", 5)
	v.SetDefault("CACHE_BREAKER_TIMEOUT", "30s")
	v.SetDefault("MQTT_ENABLED", false)
	v.SetDefault("MQTT_BROKER_URL", "tcp://localhost:1883")
	v.SetDefault("MQTT_CLIENT_ID", "resqwave_server")
	v.SetDefault("MQTT_QOS", 1)
	v.SetDefault("MQTT_TOPIC_PREFIX", "resqwave/terminal")
	v.SetDefault("JWT_SECRET_KEY", "resqwave-secret-key-change-in-production")
	v.SetDefault("RATE_LIMIT_RPS", 20)
	v.SetDefault("RATE_LIMIT_BURST", 40)
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")
}

// Load reads configuration from defaults, an optional config file and the
// environment. Environment variables win; for a key K the variable
// {ENV_TYPE}_K is preferred over K.
func Load(configFile string) (*Config, error) {
	v := viper.New()
	setDefaults(v)
	v.AutomaticEnv()

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config file %s: %w", configFile, err)
		}
	}

	// Get environment type (default to LOCAL if not set)
	envType := strings.ToUpper(v.GetString("ENV_TYPE"))
	if envType != "LOCAL" && envType != "SERVER" {
		fmt.Printf("Warning: Unknown ENV_TYPE '%s', defaulting to LOCAL environment\n", envType)
		envType = "LOCAL"
	}
	prefix := envType + "_"

	get := func(key string) string {
		if v.IsSet(prefix + key) {
			return v.GetString(prefix + key)
		}
		return v.GetString(key)
	}
	getInt := func(key string) int {
		if v.IsSet(prefix + key) {
			return v.GetInt(prefix + key)
		}
		return v.GetInt(key)
	}

	cfg := &Config{
		EnvType: envType,

		DBDriver:        strings.ToLower(get("DB_DRIVER")),
		DBHost:          get("DB_HOST"),
		DBUser:          get("DB_USER"),
		DBPassword:      get("DB_PASSWORD"),
		DBName:          get("DB_NAME"),
		DBPort:          get("DB_PORT"),
		DBMigrationMode: get("DB_MIGRATION_MODE"),

		ServerPort:     get("SERVER_PORT"),
		GinMode:        get("GIN_MODE"),
		AllowedOrigins: splitList(get("ALLOWED_ORIGINS")),

		RedisHost:     get("REDIS_HOST"),
		RedisPort:     get("REDIS_PORT"),
		RedisPassword: get("REDIS_PASSWORD"),
		RedisDB:       getInt("REDIS_DB"),
		CachePrefix:   get("CACHE_PREFIX"),

		CacheBreakerFailures: uint32(getInt("CACHE_BREAKER_FAILURES")),
		CacheBreakerTimeout:  v.GetDuration("CACHE_BREAKER_TIMEOUT"),

		MQTTEnabled:     v.GetBool("MQTT_ENABLED"),
		MQTTBrokerURL:   v.GetString("MQTT_BROKER_URL"),
		MQTTClientID:    v.GetString("MQTT_CLIENT_ID"),
		MQTTUsername:    v.GetString("MQTT_USERNAME"),
		MQTTPassword:    v.GetString("MQTT_PASSWORD"),
		MQTTQoS:         v.GetInt("MQTT_QOS"),
		MQTTTopicPrefix: strings.TrimSuffix(v.GetString("MQTT_TOPIC_PREFIX"), "/"),

		JWTSecretKey: v.GetString("JWT_SECRET_KEY"),

		RateLimitRPS:   v.GetFloat64("RATE_LIMIT_RPS"),
		RateLimitBurst: v.GetInt("RATE_LIMIT_BURST"),

		LogLevel:  v.GetString("LOG_LEVEL"),
		LogFormat: v.GetString("LOG_FORMAT"),
		LogDir:    v.GetString("LOG_DIR"),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate 校验配置
func (c *Config) Validate() error {
	switch c.DBDriver {
	case DriverMemory:
	case DriverMySQL:
		for key, val := range map[string]string{"DB_HOST": c.DBHost, "DB_USER": c.DBUser, "DB_NAME": c.DBName} {
			if val == "" {
				return fmt.Errorf("required environment variable %s%s is not set", c.EnvType+"_", key)
			}
		}
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q", c.DBDriver)
	}
	switch c.DBMigrationMode {
	case "auto", "alter", "drop":
	default:
		return fmt.Errorf("unsupported DB_MIGRATION_MODE %q", c.DBMigrationMode)
	}
	if c.MQTTQoS < 0 || c.MQTTQoS > 2 {
		return fmt.Errorf("MQTT_QOS must be 0, 1 or 2")
	}
	if c.JWTSecretKey == "" {
		return fmt.Errorf("JWT_SECRET_KEY must not be empty")
	}
	return nil
}

// GetConfig returns the application configuration as a singleton.
// It panics when the configuration is invalid, like a missing required variable.
func GetConfig() *Config {
	configOnce.Do(func() {
		cfg, err := Load("")
		if err != nil {
			panic(err)
		}
		config = cfg
	})
	return config
}

// GetDSN returns the database connection string
func (c *Config) GetDSN() string {
	return c.DBUser + ":" + c.DBPassword + "@tcp(" + c.DBHost + ":" + c.DBPort + ")/" + c.DBName + "?charset=utf8mb4&parseTime=True&loc=Local&allowNativePasswords=true"
}

// GetRedisAddr returns the Redis address
func (c *Config) GetRedisAddr() string {
	return c.RedisHost + ":" + c.RedisPort
}

// RedisEnabled reports whether a Redis cache backend is configured
func (c *Config) RedisEnabled() bool {
	return c.RedisHost != ""
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

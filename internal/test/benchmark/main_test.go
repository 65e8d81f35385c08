package benchmark

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"resqwave-dispatch-service/internal/app/routes"
	"resqwave-dispatch-service/internal/domain/services"
	"resqwave-dispatch-service/internal/domain/services/container"
	"resqwave-dispatch-service/internal/infrastructure/cache"
	"resqwave-dispatch-service/internal/infrastructure/config"
	"resqwave-dispatch-service/internal/infrastructure/memstore"
)

// 压测配置，BENCH_BASE_URL 为空时在进程内启动服务
type TestConfig struct {
	BaseURL     string
	JWTSecret   string
	Concurrency int
	Requests    int
}

var (
	cfg        TestConfig
	adminToken string
	opToken    string
)

// TestMain 测试主函数
func TestMain(m *testing.M) {
	cfg = TestConfig{
		BaseURL:     os.Getenv("BENCH_BASE_URL"),
		JWTSecret:   os.Getenv("BENCH_JWT_SECRET"),
		Concurrency: 16,
		Requests:    64,
	}
	if cfg.JWTSecret == "" {
		cfg.JWTSecret = "bench-secret"
	}

	var shutdown func()
	if cfg.BaseURL == "" {
		cfg.BaseURL, shutdown = startInProcess(cfg.JWTSecret)
	}

	jwtService := services.NewJWTService(&config.Config{JWTSecretKey: cfg.JWTSecret})
	var err error
	if adminToken, err = jwtService.GenerateToken("A900", services.RoleAdmin, time.Hour); err != nil {
		fmt.Printf("签发令牌失败: %v\n", err)
		os.Exit(1)
	}
	if opToken, err = jwtService.GenerateToken("D900", services.RoleDispatcher, time.Hour); err != nil {
		fmt.Printf("签发令牌失败: %v\n", err)
		os.Exit(1)
	}

	code := m.Run()
	if shutdown != nil {
		shutdown()
	}
	os.Exit(code)
}

func startInProcess(secret string) (string, func()) {
	gin.SetMode(gin.TestMode)
	backend := cache.NewMemoryBackend(time.Minute)
	c := container.NewServiceContainer(container.Dependencies{
		Config:       &config.Config{JWTSecretKey: secret, RateLimitRPS: 100000, RateLimitBurst: 100000},
		Store:        memstore.NewStore(),
		Cache:        backend,
		Logger:       zap.NewNop(),
		HashPassword: func(p string) (string, error) { return "hashed:" + p, nil },
	})
	srv := httptest.NewServer(routes.SetupRouter(c))
	return srv.URL + "/api", func() {
		srv.Close()
		_ = backend.Close()
	}
}

func createTerminal(t *testing.T, name string) string {
	t.Helper()
	body, err := json.Marshal(map[string]string{"name": name})
	require.NoError(t, err)
	req, err := http.NewRequest(http.MethodPost, cfg.BaseURL+"/terminal", bytes.NewReader(body))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+adminToken)

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var env struct {
		Data struct {
			ID string `json:"id"`
		} `json:"data"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&env))
	return env.Data.ID
}

// TestConcurrentAssignmentHasOneWinner 并发登记同一终端只有一个成功
func TestConcurrentAssignmentHasOneWinner(t *testing.T) {
	terminalID := createTerminal(t, "Bench Assign Node")

	runner := NewLoadRunner(cfg.BaseURL, cfg.Concurrency, 24, opToken)
	result := runner.POST("/communitygroup", func(i int) interface{} {
		return map[string]interface{}{
			"terminal_id":  terminalID,
			"name":         fmt.Sprintf("Bench Group %d", i),
			"focal_person": map[string]string{"name": fmt.Sprintf("Focal %d", i)},
		}
	})
	result.PrintResult()

	assert.Empty(t, result.Errors)
	assert.Equal(t, 1, result.StatusCodes[http.StatusCreated])
	assert.Equal(t, 23, result.StatusCodes[http.StatusConflict])
}

// TestConcurrentTriggersIssueUniqueIDs 并发触发警报编号不重复
func TestConcurrentTriggersIssueUniqueIDs(t *testing.T) {
	terminalID := createTerminal(t, "Bench Alert Node")

	runner := NewLoadRunner(cfg.BaseURL, cfg.Concurrency, cfg.Requests, opToken)
	result := runner.POST("/alert/critical", func(int) interface{} {
		return map[string]string{"terminal_id": terminalID}
	})
	result.PrintResult()

	require.Empty(t, result.Errors)
	require.Equal(t, cfg.Requests, result.SuccessCount)

	ids := make(map[string]struct{}, len(result.Bodies))
	for _, body := range result.Bodies {
		var env struct {
			Data struct {
				ID string `json:"id"`
			} `json:"data"`
		}
		require.NoError(t, json.Unmarshal(body, &env))
		ids[env.Data.ID] = struct{}{}
	}
	assert.Len(t, ids, cfg.Requests)
}

// TestAlertListUnderLoad 警报列表读压测
func TestAlertListUnderLoad(t *testing.T) {
	runner := NewLoadRunner(cfg.BaseURL, cfg.Concurrency, cfg.Requests, opToken)
	for _, path := range []string{"/alert", "/alert/map", "/reports/pending"} {
		result := runner.GET(path)
		result.PrintResult()
		assert.Equal(t, cfg.Requests, result.SuccessCount, path)
	}
}

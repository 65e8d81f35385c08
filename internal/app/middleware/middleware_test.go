package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"resqwave-dispatch-service/internal/domain/services"
	"resqwave-dispatch-service/internal/infrastructure/config"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func authRouter(t *testing.T, mw gin.HandlerFunc) (*gin.Engine, services.InterfaceJWTService) {
	t.Helper()
	svc := services.NewJWTService(&config.Config{JWTSecretKey: "test-secret"})
	InitAuthMiddleware(svc)

	r := gin.New()
	r.GET("/whoami", mw, func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"user": CurrentUserID(c), "role": c.Value("role")})
	})
	return r, svc
}

func get(r http.Handler, path, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAuthenticateOperator(t *testing.T) {
	r, svc := authRouter(t, AuthenticateOperator())

	dispatcher, err := svc.GenerateToken("D001", services.RoleDispatcher, time.Hour)
	require.NoError(t, err)
	resident, err := svc.GenerateToken("R001", "resident", time.Hour)
	require.NoError(t, err)
	expired, err := svc.GenerateToken("D001", services.RoleDispatcher, -time.Hour)
	require.NoError(t, err)

	tests := []struct {
		name   string
		path   string
		token  string
		status int
	}{
		{"missing", "/whoami", "", http.StatusUnauthorized},
		{"garbage", "/whoami", "not-a-jwt", http.StatusUnauthorized},
		{"wrong role", "/whoami", resident, http.StatusForbidden},
		{"dispatcher", "/whoami", dispatcher, http.StatusOK},
		{"query token", "/whoami?token=" + dispatcher, "", http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := get(r, tt.path, tt.token)
			assert.Equal(t, tt.status, w.Code, w.Body.String())
			if tt.status == http.StatusOK {
				assert.Contains(t, w.Body.String(), `"user":"D001"`)
			} else {
				assert.Contains(t, w.Body.String(), `"data":null`)
			}
		})
	}

	// GenerateToken treats a non-positive ttl as the default
	assert.Equal(t, http.StatusOK, get(r, "/whoami", expired).Code)
}

func TestAuthenticateSystemAdmin(t *testing.T) {
	r, svc := authRouter(t, AuthenticateSystemAdmin())

	admin, err := svc.GenerateToken("A001", services.RoleAdmin, time.Hour)
	require.NoError(t, err)
	dispatcher, err := svc.GenerateToken("D001", services.RoleDispatcher, time.Hour)
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, get(r, "/whoami", admin).Code)
	assert.Equal(t, http.StatusForbidden, get(r, "/whoami", dispatcher).Code)
}

func TestIPRateLimiter(t *testing.T) {
	r := gin.New()
	r.GET("/ping", IPRateLimiter(1, 2), func(c *gin.Context) { c.Status(http.StatusOK) })

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		codes = append(codes, get(r, "/ping", "").Code)
	}
	assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, codes)
}

func TestLimiterSetDropsIdleVisitors(t *testing.T) {
	set := newLimiterSet(RateLimiterConfig{Rate: 1, Burst: 1, ExpiryTime: time.Minute})
	start := time.Now()

	assert.True(t, set.allow("a", start))
	assert.False(t, set.allow("a", start))
	assert.True(t, set.allow("b", start))
	assert.Equal(t, 2, set.size())

	later := start.Add(2 * time.Minute)
	assert.True(t, set.allow("c", later))
	assert.Equal(t, 1, set.size())
}

func TestCORS(t *testing.T) {
	r := gin.New()
	r.Use(CORS([]string{"https://console.resqwave.ph"}))
	r.GET("/ping", func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodOptions, "/ping", nil)
	req.Header.Set("Origin", "https://console.resqwave.ph")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "https://console.resqwave.ph", w.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set("Origin", "https://evil.example")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
}

package middleware

import (
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"resqwave-dispatch-service/internal/error/code"
	"resqwave-dispatch-service/internal/error/response"
)

// RateLimiterConfig 限流器配置
type RateLimiterConfig struct {
	KeyFunc    func(*gin.Context) string // 自定义键生成函数
	Rate       float64                   // 每秒允许的请求数
	Burst      int                       // 允许的突发请求数
	ExpiryTime time.Duration             // 空闲多久后回收限流器
	LimitType  string                    // 限流类型: "ip", "path", "combined", "custom"
}

// DefaultRateLimiterConfig 默认限流器配置
var DefaultRateLimiterConfig = RateLimiterConfig{
	Rate:       10,
	Burst:      20,
	ExpiryTime: 10 * time.Minute,
	LimitType:  "ip",
}

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// limiterSet keeps one token bucket per key and drops idle ones
type limiterSet struct {
	mu       sync.Mutex
	visitors map[string]*visitor
	rate     rate.Limit
	burst    int
	expiry   time.Duration
	lastGC   time.Time
}

func newLimiterSet(cfg RateLimiterConfig) *limiterSet {
	return &limiterSet{
		visitors: make(map[string]*visitor),
		rate:     rate.Limit(cfg.Rate),
		burst:    cfg.Burst,
		expiry:   cfg.ExpiryTime,
		lastGC:   time.Now(),
	}
}

func (s *limiterSet) allow(key string, now time.Time) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	// 惰性清理空闲限流器
	if s.expiry > 0 && now.Sub(s.lastGC) > s.expiry {
		for k, v := range s.visitors {
			if now.Sub(v.lastSeen) > s.expiry {
				delete(s.visitors, k)
			}
		}
		s.lastGC = now
	}

	v, ok := s.visitors[key]
	if !ok {
		v = &visitor{limiter: rate.NewLimiter(s.rate, s.burst)}
		s.visitors[key] = v
	}
	v.lastSeen = now
	return v.limiter.AllowN(now, 1)
}

func (s *limiterSet) size() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.visitors)
}

// RateLimiter 创建限流中间件
func RateLimiter(config ...RateLimiterConfig) gin.HandlerFunc {
	// 使用默认配置或自定义配置
	cfg := DefaultRateLimiterConfig
	if len(config) > 0 {
		cfg = config[0]
	}
	if cfg.Rate <= 0 {
		cfg.Rate = DefaultRateLimiterConfig.Rate
	}
	if cfg.Burst <= 0 {
		cfg.Burst = DefaultRateLimiterConfig.Burst
	}
	if cfg.LimitType == "" {
		cfg.LimitType = DefaultRateLimiterConfig.LimitType
	}
	if cfg.ExpiryTime == 0 {
		cfg.ExpiryTime = DefaultRateLimiterConfig.ExpiryTime
	}

	set := newLimiterSet(cfg)
	keyOf := limiterKey(cfg)

	return func(c *gin.Context) {
		if !set.allow(keyOf(c), time.Now()) {
			response.FailWithMessage(c, code.ErrTooManyRequests, "请求频率过高，请稍后再试", nil)
			c.Abort()
			return
		}
		c.Next()
	}
}

func limiterKey(cfg RateLimiterConfig) func(*gin.Context) string {
	switch cfg.LimitType {
	case "path":
		return func(c *gin.Context) string { return c.FullPath() }
	case "combined":
		return func(c *gin.Context) string { return c.ClientIP() + ":" + c.FullPath() }
	case "custom":
		if cfg.KeyFunc != nil {
			return cfg.KeyFunc
		}
	}
	return func(c *gin.Context) string { return c.ClientIP() }
}

// IPRateLimiter 按IP限流
func IPRateLimiter(rps float64, burst int) gin.HandlerFunc {
	return RateLimiter(RateLimiterConfig{
		Rate:      rps,
		Burst:     burst,
		LimitType: "ip",
	})
}

// PathRateLimiter 按路径限流
func PathRateLimiter(rps float64, burst int) gin.HandlerFunc {
	return RateLimiter(RateLimiterConfig{
		Rate:      rps,
		Burst:     burst,
		LimitType: "path",
	})
}

// OperatorRateLimiter 按操作员限流，未认证时退回IP
func OperatorRateLimiter(rps float64, burst int) gin.HandlerFunc {
	return RateLimiter(RateLimiterConfig{
		Rate:      rps,
		Burst:     burst,
		LimitType: "custom",
		KeyFunc: func(c *gin.Context) string {
			if id := CurrentUserID(c); id != "" {
				return "user:" + id
			}
			return c.ClientIP()
		},
	})
}

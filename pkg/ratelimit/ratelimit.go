// Package ratelimit 按客户端IP限流，用于登录与注册接口。
package ratelimit

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

// visitor 包装限流器和最后活跃时间，用于定期清理
type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// Limiter 每个key一个令牌桶：window 内最多 maxRequests 次
type Limiter struct {
	mu          sync.Mutex
	visitors    map[string]*visitor
	maxRequests int
	every       rate.Limit
	expiry      time.Duration
	stop        chan struct{}
	stopOnce    sync.Once
}

// New 创建限流器并启动过期条目清理协程；maxRequests <= 0 表示不限流
func New(maxRequests int, window time.Duration) *Limiter {
	l := &Limiter{
		visitors:    make(map[string]*visitor),
		maxRequests: maxRequests,
		stop:        make(chan struct{}),
	}
	if maxRequests <= 0 || window <= 0 {
		l.maxRequests = 0
		return l
	}

	l.every = rate.Every(window / time.Duration(maxRequests))
	l.expiry = window * 3
	if l.expiry < time.Minute {
		l.expiry = time.Minute
	}
	go l.sweep(time.Minute)
	return l
}

func (l *Limiter) sweep(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			l.mu.Lock()
			for key, v := range l.visitors {
				if time.Since(v.lastSeen) > l.expiry {
					delete(l.visitors, key)
				}
			}
			l.mu.Unlock()
		case <-l.stop:
			return
		}
	}
}

// Allow 消耗key的一个令牌
func (l *Limiter) Allow(key string) bool {
	if l.maxRequests == 0 {
		return true
	}

	l.mu.Lock()
	v, ok := l.visitors[key]
	if !ok {
		v = &visitor{limiter: rate.NewLimiter(l.every, l.maxRequests)}
		l.visitors[key] = v
	}
	v.lastSeen = time.Now()
	l.mu.Unlock()

	return v.limiter.Allow()
}

// Stop 停止清理协程
func (l *Limiter) Stop() {
	l.stopOnce.Do(func() { close(l.stop) })
}

// Middleware 超限返回 429
func (l *Limiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !l.Allow(c.ClientIP()) {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "too many requests"})
			return
		}
		c.Next()
	}
}

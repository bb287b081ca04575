// Package server 组装 HTTP 路由。
package server

import (
	"net/http"
	"time"

	"share-system/config"
	"share-system/internal/handler"
	"share-system/internal/service"
	"share-system/pkg/logger"
	"share-system/pkg/monitoring"
	"share-system/pkg/ratelimit"
	"share-system/pkg/redis"
	"share-system/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/rs/cors"
	"gorm.io/gorm"
)

// Router gin 引擎及其附属资源
type Router struct {
	Engine  *gin.Engine
	limiter *ratelimit.Limiter
}

// NewRouter 注册全部路由与中间件
func NewRouter(cfg *config.Config, orm *gorm.DB, svc *service.Services) *Router {
	monitoring.Init()

	engine := gin.New()
	engine.Use(logger.RequestLogger())        // 请求日志
	engine.Use(logger.ErrorLoggerMiddleware()) // panic 恢复
	engine.Use(monitoring.MetricsMiddleware())

	limiter := ratelimit.New(cfg.RateLimit.MaxRequests, cfg.RateLimit.Window)

	userHandler := handler.NewUserHandler(svc.Users, svc.Folders)
	friendHandler := handler.NewFriendshipHandler(svc.Friendships)
	shareHandler := handler.NewShareHandler(svc.Shares)
	folderHandler := handler.NewFolderHandler(svc.Folders)

	setupBasicRoutes(engine, orm)

	api := engine.Group("/api")
	{
		// 账号
		api.POST("/register", limiter.Middleware(), userHandler.Register)
		api.POST("/login", limiter.Middleware(), userHandler.Login)
		api.PUT("/users/:userId", userHandler.Update)
		api.DELETE("/users/:userId", userHandler.Delete)
		api.POST("/init-folders/:userId", userHandler.InitFolders)

		// 好友
		api.POST("/friend-request", friendHandler.SendRequest)
		api.GET("/friend-requests/:userId", friendHandler.ListPending)
		api.POST("/friend-request/:requestId/:action", friendHandler.Respond)
		api.GET("/friends/:userId", friendHandler.ListFriends)

		// 分享
		api.POST("/share", shareHandler.Create)
		api.GET("/my-shares/:userId", shareHandler.ListOwned)
		api.GET("/received-shares/:userId", shareHandler.ListReceived)
		api.DELETE("/shares/:shareId", shareHandler.Delete)

		// 文件夹
		api.POST("/folders", folderHandler.Create)
		api.GET("/folders/:userId", folderHandler.List)
		api.PUT("/folders/:folderId", folderHandler.Rename)
		api.PUT("/folders/:folderId/expanded", folderHandler.SetExpanded)
		api.DELETE("/folders/:folderId", folderHandler.Delete)

		// 分享归属
		api.POST("/folder-content", folderHandler.SetContent)
		api.POST("/folder-content/toggle", folderHandler.ToggleContent)
		api.GET("/folder-content/:userId/:folderId", folderHandler.Content)
		api.GET("/share-folders/:userId/:shareId", folderHandler.ShareFolders)
		api.GET("/folder-shares/:userId/:folderId", folderHandler.FolderShares)
	}

	return &Router{Engine: engine, limiter: limiter}
}

// Handler 带 CORS 的最终 http.Handler
func (r *Router) Handler(allowedOrigins []string) http.Handler {
	c := cors.New(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type", "Authorization"},
	})
	return c.Handler(r.Engine)
}

// Close 释放后台资源
func (r *Router) Close() {
	r.limiter.Stop()
}

// setupBasicRoutes 健康检查与指标
func setupBasicRoutes(engine *gin.Engine, orm *gorm.DB) {
	engine.GET("/health", func(c *gin.Context) {
		status := "ok"
		if sqlDB, err := orm.DB(); err != nil || sqlDB.Ping() != nil {
			status = "db-down"
		}
		cache := "disabled"
		if redis.Enabled() {
			cache = "ok"
			if err := redis.HealthCheck(); err != nil {
				cache = "down"
			}
		}
		response.Success(c, gin.H{
			"status": status,
			"cache":  cache,
			"time":   time.Now().Format(time.RFC3339),
		})
	})

	engine.GET("/metrics", monitoring.PrometheusHandler())
}

package app

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/nft1025/task/internal/auth"
	"github.com/nft1025/task/internal/config"
	"github.com/nft1025/task/internal/handlers"
	"github.com/nft1025/task/internal/kv"
	"github.com/nft1025/task/internal/service"
	"github.com/nft1025/task/internal/store"
)

// Setup registers all routes on the given engine. kvc is nil in flat-file
// mode; the health surface then skips store statistics.
func Setup(r *gin.Engine, cfg config.Config, st store.Store, kvc kv.Client, log zerolog.Logger) {
	r.GET("/", rootHandler(cfg))
	r.GET("/health", healthHandler(cfg, st, kvc))
	r.GET("/version", versionHandler(cfg))

	api := r.Group("/api/v1")

	sessions := auth.NewManager(cfg.Cookie.MaxAge.Duration(), cfg.Cookie.Secure, log)
	userSvc := service.NewUserService(st, log)
	authHandler := handlers.NewAuthHandler(sessions, userSvc)
	registerAuthRoutes(api, authHandler)

	protected := api.Group("", auth.RequireSession(sessions))
	taskSvc := service.NewTaskService(st, log)
	taskHandler := handlers.NewTaskHandler(taskSvc)
	registerTaskRoutes(protected, taskHandler)
}

func rootHandler(cfg config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"service": "Task Tracker API",
			"version": cfg.App.Version,
			"env":     cfg.App.Env,
			"health":  "/health",
			"api":     "/api/v1",
		})
	}
}

// healthHandler reports store reachability, the deployment region, and
// aggregate counts. Unreachable store means a degraded status code, not a
// crash.
func healthHandler(cfg config.Config, st store.Store, kvc kv.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		reachable := st.Ping(ctx) == nil

		status := "healthy"
		code := http.StatusOK
		if !reachable {
			status = "degraded"
			code = http.StatusServiceUnavailable
		}

		resp := gin.H{
			"status":    status,
			"timestamp": time.Now().UTC().Format(time.RFC3339),
			"store":     reachable,
			"region":    cfg.App.Region,
			"userCount": 0,
			"taskCount": 0,
		}
		if reachable {
			if users, tasks, err := st.Counts(ctx); err == nil {
				resp["userCount"] = users
				resp["taskCount"] = tasks
			}
			if kvc != nil {
				if stats, err := kvc.Stats(ctx); err == nil {
					resp["statistics"] = gin.H{
						"totalKeys":   stats.TotalKeys,
						"memoryUsage": stats.MemoryUsage,
					}
				}
			}
		}
		c.JSON(code, resp)
	}
}

func versionHandler(cfg config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"version": cfg.App.Version})
	}
}

func registerAuthRoutes(api *gin.RouterGroup, h *handlers.AuthHandler) {
	api.POST("/auth/register", h.Register)
	api.POST("/auth/login", h.Login)
	api.POST("/auth/logout", h.Logout)
	api.GET("/auth/session", h.Session)
}

func registerTaskRoutes(api *gin.RouterGroup, h *handlers.TaskHandler) {
	api.GET("/tasks", h.List)
	api.POST("/tasks", h.Create)
	// POST rather than PATCH: gin's routing tree cannot mix the static
	// "bulk" segment with the ":id" wildcard under one method.
	api.POST("/tasks/bulk", h.Bulk)
	api.PUT("/tasks/:id", h.Update)
	api.DELETE("/tasks/:id", h.Delete)
	api.PATCH("/tasks/:id/status", h.SetStatus)
}

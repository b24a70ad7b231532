package api

import (
	"embed"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/maxesser1776/mcf-dashboard/internal/api/handlers"
	"github.com/maxesser1776/mcf-dashboard/internal/config"
	"github.com/maxesser1776/mcf-dashboard/internal/store"
)

//go:embed static
var staticFiles embed.FS

// SetupRoutes wires the dashboard endpoints. The dashboard is purely a
// reader of the processed files; it holds no pipeline logic.
func SetupRoutes(router *gin.Engine, st *store.CSVStore, logger *logrus.Logger, cfg *config.Config) {
	router.Use(corsMiddleware(cfg.Server.AllowedOrigins))

	healthHandler := handlers.NewHealthHandler(st)
	topicHandler := handlers.NewTopicHandler(st, logger)
	riskHandler := handlers.NewRiskScoreHandler(st, logger)

	router.GET("/health", healthHandler.Check)

	v1 := router.Group("/api/v1")
	{
		v1.GET("/topics", topicHandler.List)
		v1.GET("/topics/:name", topicHandler.Get)
		v1.GET("/riskscore", riskHandler.Latest)
	}

	router.GET("/", func(c *gin.Context) {
		page, err := staticFiles.ReadFile("static/index.html")
		if err != nil {
			c.String(http.StatusInternalServerError, "dashboard page unavailable")
			return
		}
		c.Data(http.StatusOK, "text/html; charset=utf-8", page)
	})
}

func corsMiddleware(allowedOrigins []string) gin.HandlerFunc {
	allowed := make(map[string]bool, len(allowedOrigins))
	for _, origin := range allowedOrigins {
		allowed[origin] = true
	}

	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")
		if origin != "" && allowed[origin] {
			c.Header("Access-Control-Allow-Origin", origin)
			c.Header("Access-Control-Allow-Methods", "GET, OPTIONS")
			c.Header("Access-Control-Allow-Headers", "Accept, Content-Type")
		}
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}

package api

import (
	"time"

	"github.com/gin-contrib/cors"
	ginzap "github.com/gin-contrib/zap"
	"github.com/gin-gonic/gin"
	"github.com/jam7519/bugtracker-api/internal/metrics"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.uber.org/zap"
)

// SetupRouter настраивает middleware и все маршруты приложения
func SetupRouter(handler *Handler, logger *zap.Logger) *gin.Engine {
	router := gin.New()

	// Доступ-лог и восстановление после паник идут через общий zap-логгер
	router.Use(ginzap.Ginzap(logger, time.RFC3339, true))
	router.Use(ginzap.RecoveryWithZap(logger, true))
	router.Use(otelgin.Middleware("bugtracker-api"))
	router.Use(metrics.Middleware())

	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	// Служебные маршруты
	router.GET("/", handler.Root)
	router.GET("/health", handler.Health)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Bugs
	router.GET("/bugs", handler.ListBugs)
	router.POST("/bugs", handler.CreateBug)
	router.GET("/bugs/:id", handler.GetBug)
	router.PATCH("/bugs/:id", handler.UpdateBug)

	// Comments
	router.POST("/bugs/:id/comments", handler.AddComment)
	router.GET("/bugs/:id/comments", handler.ListComments)

	return router
}

package router

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/Keshavsspppp/municipality/internal/adapter/cache"
	"github.com/Keshavsspppp/municipality/internal/adapter/http/handler"
	"github.com/Keshavsspppp/municipality/internal/adapter/http/middleware"
	"github.com/Keshavsspppp/municipality/internal/adapter/repository/memory"
	"github.com/Keshavsspppp/municipality/internal/adapter/repository/postgres"
	"github.com/Keshavsspppp/municipality/internal/adapter/storage"
	"github.com/Keshavsspppp/municipality/internal/domain/repository"
	"github.com/Keshavsspppp/municipality/internal/domain/service"
	"github.com/Keshavsspppp/municipality/internal/usecase"
)

func newEngine(logger *zap.Logger) *gin.Engine {
	router := gin.New()

	// Middleware
	router.Use(middleware.RequestID())
	router.Use(middleware.Logger(logger))
	router.Use(middleware.Recovery(logger))
	router.Use(middleware.CORS())

	// Prometheus metrics
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return router
}

// SetupComments creates the comment grouping router. grouper and redisClient may be nil.
func SetupComments(grouper service.Grouper, redisClient *redis.Client, cacheTTL time.Duration, logger *zap.Logger) *gin.Engine {
	router := newEngine(logger)

	var groupCache service.GroupCache
	if redisClient != nil {
		groupCache = cache.NewRedisGroupCache(redisClient, cacheTTL)
	}

	var llmCheck handler.Checker
	if grouper != nil {
		llmCheck = func(context.Context) error { return nil }
	}

	// Health endpoints
	healthHandler := handler.NewHealthHandler(
		handler.Component{Name: "llm", Check: llmCheck},
		handler.Component{Name: "redis", Check: handler.RedisCheck(redisClient)},
	)
	router.GET("/health", healthHandler.Health)
	router.GET("/ready", healthHandler.Ready)

	commentUC := usecase.NewCommentUsecase(memory.NewCommentStore(), grouper, groupCache, logger)
	commentHandler := handler.NewCommentHandler(commentUC)

	router.POST("/comment", commentHandler.AddComment)
	router.GET("/summaries", commentHandler.GetSummaries)
	router.POST("/clear", commentHandler.Clear)

	return router
}

// SetupDetection creates the pothole detection router. classifier and db may be nil;
// without db the detection history lives in memory.
func SetupDetection(
	classifier service.ImageClassifier,
	db *gorm.DB,
	uploads *storage.UploadStore,
	opts usecase.DetectionOptions,
	logger *zap.Logger,
) *gin.Engine {
	router := newEngine(logger)
	router.SetHTMLTemplate(handler.Templates())

	var detectionRepo repository.DetectionRepository
	if db != nil {
		detectionRepo = postgres.NewDetectionRepository(db)
	} else {
		detectionRepo = memory.NewDetectionRepository(memory.DefaultDetectionCapacity)
	}

	var modelCheck handler.Checker
	if classifier != nil {
		modelCheck = classifier.Ready
	}

	// Health endpoints
	healthHandler := handler.NewHealthHandler(
		handler.Component{Name: "model", Check: modelCheck, Critical: true},
		handler.Component{Name: "database", Check: detectionRepo.Ping, Critical: true},
	)
	router.GET("/health", healthHandler.Health)
	router.GET("/ready", healthHandler.Ready)

	detectionUC := usecase.NewDetectionUsecase(uploads, detectionRepo, classifier, opts, logger)
	detectionHandler := handler.NewDetectionHandler(detectionUC)

	router.StaticFS(handler.UploadsRoute, uploads.FileSystem())
	router.GET("/", detectionHandler.Index)
	router.POST("/", detectionHandler.Index)

	api := router.Group("/api")
	{
		api.POST("/detect", detectionHandler.Detect)

		detections := api.Group("/detections")
		{
			detections.GET("", detectionHandler.ListDetections)
			detections.GET("/:id", detectionHandler.GetDetection)
		}
	}

	return router
}

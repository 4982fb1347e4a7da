package server

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/cloudstreamhq/studio-backend/internal/accounting"
	"github.com/cloudstreamhq/studio-backend/internal/assets"
	assetHttp "github.com/cloudstreamhq/studio-backend/internal/assets/delivery/http"
	assetRepository "github.com/cloudstreamhq/studio-backend/internal/assets/repository"
	assetUsecase "github.com/cloudstreamhq/studio-backend/internal/assets/usecase"
	"github.com/cloudstreamhq/studio-backend/internal/enrich"
	"github.com/cloudstreamhq/studio-backend/internal/metrics"
	"github.com/cloudstreamhq/studio-backend/internal/middleware"
	"github.com/cloudstreamhq/studio-backend/internal/notifications"
	"github.com/cloudstreamhq/studio-backend/internal/pipeline"
	"github.com/cloudstreamhq/studio-backend/pkg/utils"
)

func (s *Server) MapHandlers(e *echo.Echo) error {
	memRepo := assetRepository.NewMemoryRepository()

	var redisRepo assets.RedisRepository
	if s.redisClient != nil {
		redisRepo = assetRepository.NewAssetRedisRepo(s.redisClient)
	}
	var awsRepo assets.AWSRepository
	if s.s3Client != nil {
		awsRepo = assetRepository.NewAwsRepository(s.s3Client, s.preSignClient)
	}

	accountant := accounting.NewAccountant(s.cfg.Storage.QuotaBytes)
	memRepo.SetOnChange(accountant.Recalculate)

	sink := notifications.NewSink(time.Duration(s.cfg.Notifications.TimeoutMs) * time.Millisecond)

	registry := prometheus.NewRegistry()
	pm := metrics.NewPipelineMetrics(registry)

	executor := pipeline.NewExecutor(s.cfg, memRepo, redisRepo, sink, pm, s.logger)
	s.executor = executor
	s.sink = sink

	enricher := enrich.NewEnricher(s.cfg)

	assetUC := assetUsecase.NewAssetUseCase(s.cfg, memRepo, redisRepo, awsRepo, executor, enricher, accountant, sink, s.logger)
	assetHandlers := assetHttp.NewAssetHandler(assetUC)

	mw := middleware.NewMiddlewareManager(s.cfg, []string{"*"}, s.logger)
	e.Use(mw.RequestLoggerMiddleware)

	v1 := e.Group("/api/v1")
	health := v1.Group("/health")
	assetGroup := v1.Group("/assets")

	assetHttp.MapAssetRoutes(assetGroup, assetHandlers, mw)

	v1.GET("/storage/stats", assetHandlers.GetStorageStats())
	v1.GET("/notifications", func(c echo.Context) error {
		return c.JSON(http.StatusOK, sink.Events())
	})
	e.GET("/metrics", echo.WrapHandler(promhttp.HandlerFor(registry, promhttp.HandlerOpts{})))
	health.GET("", func(c echo.Context) error {
		s.logger.Infof("Health check RequestID: %s", utils.GetRequestID(c))
		return c.JSON(http.StatusOK, map[string]string{"status": "OK"})
	})
	return nil
}

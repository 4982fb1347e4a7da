package middleware

import (
	"time"

	"github.com/labstack/echo/v4"

	"github.com/cloudstreamhq/studio-backend/internal/config"
	"github.com/cloudstreamhq/studio-backend/pkg/logger"
	"github.com/cloudstreamhq/studio-backend/pkg/utils"
)

type MiddlewareManager struct {
	cfg     *config.Config
	origins []string
	logger  logger.Logger
}

// Middleware manager constructor
func NewMiddlewareManager(cfg *config.Config, origins []string, logger logger.Logger) *MiddlewareManager {
	return &MiddlewareManager{cfg: cfg, origins: origins, logger: logger}
}

// RequestLoggerMiddleware logs every request with its latency and status.
func (mw *MiddlewareManager) RequestLoggerMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		start := time.Now()
		err := next(c)

		req := c.Request()
		res := c.Response()
		status := res.Status
		size := res.Size
		s := time.Since(start).String()
		requestID := utils.GetRequestID(c)
		ipAddress := utils.GetIPAddress(c)

		mw.logger.Infof("RequestID: %s, IP: %s, Method: %s, URI: %s, Status: %v, Size: %v, Time: %s",
			requestID, ipAddress, req.Method, req.URL, status, size, s,
		)
		return err
	}
}

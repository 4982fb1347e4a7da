package http

import (
	"github.com/labstack/echo/v4"

	"github.com/cloudstreamhq/studio-backend/internal/assets"
	"github.com/cloudstreamhq/studio-backend/internal/middleware"
)

func MapAssetRoutes(assetGroup *echo.Group, h assets.Handler, mw *middleware.MiddlewareManager) {
	assetGroup.POST("", h.SubmitAsset())
	assetGroup.GET("", h.ListAssets())
	assetGroup.GET("/categories", h.ListCategories())
	assetGroup.POST("/enrich", h.EnrichMetadata())
	assetGroup.POST("/get-upload-url", h.GetPresignUpload())
	assetGroup.GET("/:asset_id", h.GetAssetByID())
	assetGroup.PUT("/:asset_id", h.ResubmitAsset())
	assetGroup.DELETE("/:asset_id", h.DeleteAsset())
}

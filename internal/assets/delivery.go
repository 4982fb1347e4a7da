package assets

import "github.com/labstack/echo/v4"

type Handler interface {
	SubmitAsset() echo.HandlerFunc
	ResubmitAsset() echo.HandlerFunc
	DeleteAsset() echo.HandlerFunc
	GetAssetByID() echo.HandlerFunc
	ListAssets() echo.HandlerFunc
	GetStorageStats() echo.HandlerFunc
	EnrichMetadata() echo.HandlerFunc
	GetPresignUpload() echo.HandlerFunc
	ListCategories() echo.HandlerFunc
}

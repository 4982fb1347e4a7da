package http

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/cloudstreamhq/studio-backend/internal/assets"
	"github.com/cloudstreamhq/studio-backend/internal/models"
	"github.com/cloudstreamhq/studio-backend/pkg/utils"
)

type assetHandler struct {
	assetUC assets.UseCase
}

func NewAssetHandler(assetUC assets.UseCase) assets.Handler {
	return &assetHandler{
		assetUC: assetUC,
	}
}

func (h *assetHandler) SubmitAsset() echo.HandlerFunc {
	return func(c echo.Context) error {
		input := &models.SubmitInput{}
		if err := c.Bind(input); err != nil {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request payload"})
		}
		record, err := h.assetUC.SubmitAsset(c.Request().Context(), input)
		if err != nil {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
		}
		return c.JSON(http.StatusCreated, record)
	}
}

func (h *assetHandler) ResubmitAsset() echo.HandlerFunc {
	return func(c echo.Context) error {
		assetID := c.Param("asset_id")
		input := &models.ResubmitInput{}
		if err := c.Bind(input); err != nil {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request payload"})
		}
		record, err := h.assetUC.ResubmitAsset(c.Request().Context(), assetID, input)
		if err != nil {
			if err.Error() == "asset not found" {
				return c.JSON(http.StatusNotFound, map[string]string{"error": err.Error()})
			}
			return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
		}
		return c.JSON(http.StatusOK, record)
	}
}

func (h *assetHandler) DeleteAsset() echo.HandlerFunc {
	return func(c echo.Context) error {
		assetID := c.Param("asset_id")
		if err := h.assetUC.DeleteAsset(c.Request().Context(), assetID); err != nil {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
		}
		return c.NoContent(http.StatusNoContent)
	}
}

func (h *assetHandler) GetAssetByID() echo.HandlerFunc {
	return func(c echo.Context) error {
		assetID := c.Param("asset_id")
		record, err := h.assetUC.GetAsset(c.Request().Context(), assetID)
		if err != nil {
			if err.Error() == "asset not found" {
				return c.JSON(http.StatusNotFound, map[string]string{"error": err.Error()})
			}
			return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
		}
		return c.JSON(http.StatusOK, record)
	}
}

func (h *assetHandler) ListAssets() echo.HandlerFunc {
	return func(c echo.Context) error {
		records, err := h.assetUC.ListAssets(c.Request().Context())
		if err != nil {
			return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
		}
		return c.JSON(http.StatusOK, records)
	}
}

func (h *assetHandler) GetStorageStats() echo.HandlerFunc {
	return func(c echo.Context) error {
		stats := h.assetUC.Stats(c.Request().Context())
		return c.JSON(http.StatusOK, stats)
	}
}

func (h *assetHandler) EnrichMetadata() echo.HandlerFunc {
	return func(c echo.Context) error {
		input := &models.EnrichInput{}
		if err := utils.ReadRequest(c, input); err != nil {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request payload"})
		}
		suggestion, err := h.assetUC.EnrichMetadata(c.Request().Context(), input.SourceName)
		if err != nil {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
		}
		return c.JSON(http.StatusOK, suggestion)
	}
}

func (h *assetHandler) GetPresignUpload() echo.HandlerFunc {
	return func(c echo.Context) error {
		input := &models.UploadInput{}
		if err := c.Bind(input); err != nil {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request payload"})
		}
		presignUrl, err := h.assetUC.GetPresignUrl(c.Request().Context(), input)
		if err != nil {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
		}
		return c.JSON(http.StatusOK, map[string]string{"presignUrl": presignUrl})
	}
}

func (h *assetHandler) ListCategories() echo.HandlerFunc {
	return func(c echo.Context) error {
		return c.JSON(http.StatusOK, models.Categories)
	}
}

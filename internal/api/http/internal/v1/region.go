package v1

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mapleship/regions-backend/internal/domain"
	"github.com/mapleship/regions-backend/pkg/logger"
)

func (h *Handler) initRegionsRoutes(api *gin.RouterGroup) {
	regions := api.Group("/regions")
	regions.GET("", h.getRegions)
	regions.GET("/export", h.exportRegions)
	regions.POST("/import", h.importRegions)
	regions.GET("/:id", h.getRegion)
	regions.PUT("/:id", h.saveRegion)
	regions.DELETE("/:id", h.deleteRegion)
	regions.PUT("/:id/postal-codes", h.setPostalCodes)
	regions.GET("/:id/stats", h.getRegionStats)
}

// @Summary Get Regions
// @Tags Regions
// @Description Get the full region map
// @Produce json
// @Success 200 {object} map[string]domain.Region
// @Failure 500 {object} map[string]string
// @Router /regions [get]
func (h *Handler) getRegions(c *gin.Context) {
	regions, err := h.services.Regions.GetAll(c.Request.Context())
	if err != nil {
		logger.Error("get regions failed", zap.Error(err))
		errorResponse(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"regions": regions,
		"version": h.services.Regions.Version(),
	})
}

// @Summary Get Region
// @Tags Regions
// @Produce json
// @Param id path string true "region id"
// @Success 200 {object} domain.Region
// @Failure 404 {object} map[string]string
// @Router /regions/{id} [get]
func (h *Handler) getRegion(c *gin.Context) {
	region, err := h.services.Regions.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		errorResponse(c, err)
		return
	}
	c.JSON(http.StatusOK, region)
}

type saveRegionRequest struct {
	Name         string               `json:"name" binding:"required"`
	IsActive     bool                 `json:"isActive"`
	PostalCodes  []string             `json:"postalCodes" binding:"required"`
	WeightRanges []domain.WeightRange `json:"weightRanges" binding:"required"`
	Metadata     domain.Metadata      `json:"metadata"`
	BaseVersion  *int64               `json:"baseVersion"`
}

// @Summary Save Region
// @Tags Regions
// @Description Validate and persist one region; pass baseVersion for optimistic concurrency
// @Accept json
// @Produce json
// @Param id path string true "region id"
// @Success 200 {object} map[string]bool
// @Failure 409 {object} map[string]string
// @Failure 422 {object} map[string]any
// @Router /regions/{id} [put]
func (h *Handler) saveRegion(c *gin.Context) {
	var req saveRegionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	region := &domain.Region{
		ID:           c.Param("id"),
		Name:         req.Name,
		IsActive:     req.IsActive,
		PostalCodes:  req.PostalCodes,
		WeightRanges: req.WeightRanges,
		Metadata:     req.Metadata,
	}

	var err error
	if req.BaseVersion != nil {
		err = h.services.Regions.SaveWithVersion(c.Request.Context(), region.ID, region, *req.BaseVersion)
	} else {
		err = h.services.Regions.Save(c.Request.Context(), region.ID, region)
	}
	if err != nil {
		logger.Error("save region failed", zap.String("region_id", region.ID), zap.Error(err))
		errorResponse(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "version": h.services.Regions.Version()})
}

// @Summary Delete Region
// @Tags Regions
// @Param id path string true "region id"
// @Success 200 {object} map[string]bool
// @Failure 404 {object} map[string]string
// @Router /regions/{id} [delete]
func (h *Handler) deleteRegion(c *gin.Context) {
	if err := h.services.Regions.Delete(c.Request.Context(), c.Param("id")); err != nil {
		errorResponse(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

type setPostalCodesRequest struct {
	PostalCodes []string `json:"postalCodes" binding:"required"`
}

// @Summary Set Postal Codes
// @Tags Regions
// @Description Replace a region's postal code set (no merge)
// @Accept json
// @Produce json
// @Param id path string true "region id"
// @Success 200 {object} map[string]bool
// @Router /regions/{id}/postal-codes [put]
func (h *Handler) setPostalCodes(c *gin.Context) {
	var req setPostalCodesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	id := c.Param("id")
	if err := h.services.Regions.SetPostalCodes(c.Request.Context(), id, req.PostalCodes); err != nil {
		logger.Error("set postal codes failed", zap.String("region_id", id), zap.Error(err))
		errorResponse(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// @Summary Region Stats
// @Tags Regions
// @Produce json
// @Param id path string true "region id"
// @Success 200 {object} store.RegionStats
// @Router /regions/{id}/stats [get]
func (h *Handler) getRegionStats(c *gin.Context) {
	stats, err := h.services.Regions.Stats(c.Request.Context(), c.Param("id"))
	if err != nil {
		errorResponse(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

// @Summary Export Regions
// @Tags Regions
// @Produce json
// @Success 200 {object} map[string]domain.Region
// @Router /regions/export [get]
func (h *Handler) exportRegions(c *gin.Context) {
	data, err := h.services.Regions.Export(c.Request.Context())
	if err != nil {
		logger.Error("export regions failed", zap.Error(err))
		errorResponse(c, err)
		return
	}
	c.Data(http.StatusOK, "application/json", data)
}

// @Summary Import Regions
// @Tags Regions
// @Description Replace the whole region map from an exported document
// @Accept json
// @Produce json
// @Success 200 {object} map[string]bool
// @Failure 422 {object} map[string]any
// @Router /regions/import [post]
func (h *Handler) importRegions(c *gin.Context) {
	data, err := io.ReadAll(c.Request.Body)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unreadable body"})
		return
	}

	if err := h.services.Regions.Import(c.Request.Context(), data); err != nil {
		logger.Error("import regions failed", zap.Error(err))
		errorResponse(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

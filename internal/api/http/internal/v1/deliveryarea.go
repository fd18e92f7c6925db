package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mapleship/regions-backend/internal/domain"
	"github.com/mapleship/regions-backend/pkg/logger"
)

func (h *Handler) initDeliveryAreaRoutes(api *gin.RouterGroup) {
	deliveryArea := api.Group("/delivery-area")
	deliveryArea.GET("/stats", h.getDeliveryAreaStats)
	deliveryArea.GET("/region-of", h.getRegionOf)
	deliveryArea.POST("/filter", h.filterFeatures)
	deliveryArea.POST("/batch-check", h.batchCheck)
	deliveryArea.POST("/unassigned", h.getUnassignedCodes)
}

// @Summary Delivery Area Stats
// @Tags DeliveryArea
// @Produce json
// @Success 200 {object} area.Stats
// @Router /delivery-area/stats [get]
func (h *Handler) getDeliveryAreaStats(c *gin.Context) {
	stats, err := h.services.DeliveryArea.Stats(c.Request.Context())
	if err != nil {
		logger.Error("delivery area stats failed", zap.Error(err))
		errorResponse(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

type regionOfRequest struct {
	Code string `form:"code" binding:"required,fsa"`
}

// @Summary Region Of Code
// @Tags DeliveryArea
// @Description Find the region owning a postal prefix; first match wins when a code is listed by several regions
// @Produce json
// @Param code query string true "FSA code"
// @Success 200 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /delivery-area/region-of [get]
func (h *Handler) getRegionOf(c *gin.Context) {
	var req regionOfRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	regionID, found, err := h.services.DeliveryArea.RegionOf(c.Request.Context(), req.Code)
	if err != nil {
		errorResponse(c, err)
		return
	}
	if !found {
		c.JSON(http.StatusNotFound, gin.H{"error": "code is not in any region"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"code": req.Code, "regionId": regionID})
}

type filterFeaturesRequest struct {
	Collection domain.FeatureCollection `json:"collection" binding:"required"`
	RegionIDs  []string                 `json:"regionIds"`
}

// @Summary Filter Features
// @Tags DeliveryArea
// @Description Keep only features inside the delivery area (or the selected regions)
// @Accept json
// @Produce json
// @Success 200 {object} area.FilterResult
// @Router /delivery-area/filter [post]
func (h *Handler) filterFeatures(c *gin.Context) {
	var req filterFeaturesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := h.services.DeliveryArea.FilterFeatures(c.Request.Context(), req.Collection, req.RegionIDs)
	if err != nil {
		logger.Error("filter features failed", zap.Error(err))
		errorResponse(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

type batchCheckRequest struct {
	Codes []string `json:"codes" binding:"required"`
}

// @Summary Batch Check Codes
// @Tags DeliveryArea
// @Accept json
// @Produce json
// @Success 200 {object} area.BatchResult
// @Router /delivery-area/batch-check [post]
func (h *Handler) batchCheck(c *gin.Context) {
	var req batchCheckRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := h.services.DeliveryArea.BatchCheck(c.Request.Context(), req.Codes)
	if err != nil {
		errorResponse(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

type unassignedRequest struct {
	Collection domain.FeatureCollection `json:"collection" binding:"required"`
}

// @Summary Unassigned Codes
// @Tags DeliveryArea
// @Description List feature codes not covered by any active region
// @Accept json
// @Produce json
// @Success 200 {object} map[string][]string
// @Router /delivery-area/unassigned [post]
func (h *Handler) getUnassignedCodes(c *gin.Context) {
	var req unassignedRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	codes, err := h.services.DeliveryArea.UnassignedCodes(c.Request.Context(), req.Collection)
	if err != nil {
		errorResponse(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"unassigned": codes})
}

package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mapleship/regions-backend/pkg/logger"
)

func (h *Handler) initPricingRoutes(api *gin.RouterGroup) {
	pricing := api.Group("/pricing")
	pricing.GET("/quote", h.getQuote)
	pricing.POST("/copy-table", h.copyPriceTable)
	pricing.POST("/adjust", h.adjustPrices)
}

type quoteRequest struct {
	RegionID string  `form:"regionId" binding:"required"`
	Weight   float64 `form:"weight" binding:"min=0"`
}

// @Summary Price Quote
// @Tags Pricing
// @Description Resolve the shipping price for a weight in a region
// @Produce json
// @Param regionId query string true "region id"
// @Param weight query number true "shipment weight in KGS"
// @Success 200 {object} map[string]any
// @Failure 404 {object} map[string]string
// @Router /pricing/quote [get]
func (h *Handler) getQuote(c *gin.Context) {
	var req quoteRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	price, found, err := h.services.Pricing.CalculatePrice(c.Request.Context(), req.RegionID, req.Weight)
	if err != nil {
		logger.Error("price quote failed", zap.String("region_id", req.RegionID), zap.Error(err))
		errorResponse(c, err)
		return
	}
	if !found {
		c.JSON(http.StatusNotFound, gin.H{"error": "no active bracket covers this weight"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"regionId": req.RegionID,
		"weight":   req.Weight,
		"price":    price,
	})
}

type copyTableRequest struct {
	SourceRegionID string `json:"sourceRegionId" binding:"required"`
	TargetRegionID string `json:"targetRegionId" binding:"required"`
}

// @Summary Copy Price Table
// @Tags Pricing
// @Accept json
// @Produce json
// @Success 200 {object} map[string]bool
// @Router /pricing/copy-table [post]
func (h *Handler) copyPriceTable(c *gin.Context) {
	var req copyTableRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.services.Pricing.CopyTable(c.Request.Context(), req.SourceRegionID, req.TargetRegionID); err != nil {
		logger.Error("copy price table failed", zap.Error(err))
		errorResponse(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

type adjustPricesRequest struct {
	RegionID string   `json:"regionId" binding:"required"`
	Percent  float64  `json:"percent" binding:"required"`
	RangeIDs []string `json:"rangeIds"`
}

// @Summary Adjust Prices
// @Tags Pricing
// @Description Scale bracket prices by a percentage, rounded to cents
// @Accept json
// @Produce json
// @Success 200 {object} map[string]bool
// @Router /pricing/adjust [post]
func (h *Handler) adjustPrices(c *gin.Context) {
	var req adjustPricesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.services.Pricing.AdjustPrices(c.Request.Context(), req.RegionID, req.Percent, req.RangeIDs); err != nil {
		logger.Error("adjust prices failed", zap.String("region_id", req.RegionID), zap.Error(err))
		errorResponse(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

package storeapi

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mapleship/regions-backend/internal/domain"
	"github.com/mapleship/regions-backend/pkg/logger"
)

type envelope struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Message string `json:"message,omitempty"`
}

func (h *Handler) getRegions(c *gin.Context) {
	regions, err := h.repos.RegionDocuments.Get(c.Request.Context())
	if errors.Is(err, domain.ErrNotFound) {
		// nothing stored yet; clients seed their own defaults
		regions = domain.RegionMap{}
		err = nil
	}
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, envelope{Success: true, Data: regions})
}

func (h *Handler) replaceRegions(c *gin.Context) {
	var regions domain.RegionMap
	if err := c.ShouldBindJSON(&regions); err != nil {
		c.JSON(http.StatusBadRequest, envelope{Message: "invalid region map payload"})
		return
	}

	if err := h.repos.RegionDocuments.Replace(c.Request.Context(), regions); err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, envelope{Success: true})
}

func (h *Handler) putRegion(c *gin.Context) {
	id := c.Param("id")

	var region domain.Region
	if err := c.ShouldBindJSON(&region); err != nil {
		c.JSON(http.StatusBadRequest, envelope{Message: "invalid region payload"})
		return
	}
	region.ID = id

	if err := h.repos.RegionDocuments.PutRegion(c.Request.Context(), id, &region); err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, envelope{Success: true, Data: &region})
}

func (h *Handler) deleteRegion(c *gin.Context) {
	id := c.Param("id")

	err := h.repos.RegionDocuments.DeleteRegion(c.Request.Context(), id)
	if errors.Is(err, domain.ErrNotFound) {
		c.JSON(http.StatusNotFound, envelope{Message: "region not found"})
		return
	}
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, envelope{Success: true})
}

func (h *Handler) fail(c *gin.Context, err error) {
	logger.Error("region document operation failed", zap.Error(err))
	c.JSON(http.StatusInternalServerError, envelope{Message: "internal server error"})
}

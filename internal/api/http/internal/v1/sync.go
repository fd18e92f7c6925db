package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mapleship/regions-backend/pkg/logger"
)

func (h *Handler) initSyncRoutes(api *gin.RouterGroup) {
	sync := api.Group("/sync")
	sync.GET("/status", h.getSyncStatus)
	sync.POST("/force", h.forceSync)
}

// @Summary Sync Status
// @Tags Sync
// @Description Engine state; consumers needing freshness guarantees must check this alongside reads
// @Produce json
// @Success 200 {object} sync.StatusInfo
// @Router /sync/status [get]
func (h *Handler) getSyncStatus(c *gin.Context) {
	c.JSON(http.StatusOK, h.services.Sync.Status())
}

// @Summary Force Sync
// @Tags Sync
// @Description Re-fetch the remote map and drain the offline queue; fails fast while offline
// @Produce json
// @Success 200 {object} map[string]any
// @Failure 503 {object} map[string]string
// @Router /sync/force [post]
func (h *Handler) forceSync(c *gin.Context) {
	if err := h.services.Sync.ForceSync(c.Request.Context()); err != nil {
		logger.Warn("force sync failed", zap.Error(err))
		errorResponse(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "status": h.services.Sync.Status()})
}

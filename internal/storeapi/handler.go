package storeapi

import (
	"time"

	ginzap "github.com/gin-contrib/zap"
	"github.com/gin-gonic/gin"

	"github.com/mapleship/regions-backend/internal/config"
	"github.com/mapleship/regions-backend/internal/repository"
	"github.com/mapleship/regions-backend/pkg/logger"
)

// Handler serves the cloud store contract the sync engine speaks:
// region maps wrapped in {success, data} envelopes.
type Handler struct {
	repos  *repository.Repositories
	config *config.Config
}

func NewHandler(repos *repository.Repositories, cfg *config.Config) *Handler {
	return &Handler{
		repos:  repos,
		config: cfg,
	}
}

func (h *Handler) Init() *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()

	router.Use(ginzap.Ginzap(logger.Logger(), time.RFC3339, true))
	router.Use(ginzap.RecoveryWithZap(logger.Logger(), true))

	router.GET("/regions", h.getRegions)
	router.POST("/regions", h.replaceRegions)
	router.PUT("/regions/:id", h.putRegion)
	router.DELETE("/regions/:id", h.deleteRegion)

	return router
}

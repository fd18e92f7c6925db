package v1

import (
	"github.com/gin-gonic/gin"

	"github.com/mapleship/regions-backend/internal/config"
	"github.com/mapleship/regions-backend/internal/service"
)

// @title Delivery Regions API
// @version 1.0
// @description Delivery region configuration and pricing API

// @BasePath /api/v1

type Handler struct {
	services *service.Services
	config   *config.Config
}

func NewHandler(services *service.Services, config *config.Config) *Handler {
	return &Handler{
		services: services,
		config:   config,
	}
}

func (h *Handler) Init(api *gin.RouterGroup) {
	v1 := api.Group("v1")

	h.initRegionsRoutes(v1)
	h.initPricingRoutes(v1)
	h.initDeliveryAreaRoutes(v1)
	h.initSyncRoutes(v1)
}

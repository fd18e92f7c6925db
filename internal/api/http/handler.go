package apiHttp

import (
	"time"

	ginzap "github.com/gin-contrib/zap"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	internalV1 "github.com/mapleship/regions-backend/internal/api/http/internal/v1"
	"github.com/mapleship/regions-backend/internal/config"
	"github.com/mapleship/regions-backend/internal/service"
	"github.com/mapleship/regions-backend/pkg/limiter"
	"github.com/mapleship/regions-backend/pkg/logger"
	"github.com/mapleship/regions-backend/pkg/validator"
)

type Handler struct {
	services *service.Services
	config   *config.Config
}

func NewHandlers(services *service.Services, cfg *config.Config) *Handler {
	return &Handler{
		services: services,
		config:   cfg,
	}
}

func (h *Handler) Init(cfg *config.Config) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()

	validator.RegisterGinValidator()

	router.Use(
		ginzap.Ginzap(logger.Logger(), time.RFC3339, true),
		limiter.Limit(cfg.Limiter.RPS, cfg.Limiter.Burst, cfg.Limiter.TTL),
		corsMiddleware,
	)
	router.Use(ginzap.RecoveryWithZap(logger.Logger(), true))

	if cfg.HttpServer.SwaggerEnabled {
		router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.NewHandler()))
	}

	h.initAPI(router)

	return router
}

func (h *Handler) initAPI(router *gin.Engine) {
	internalHandlersV1 := internalV1.NewHandler(h.services, h.config)
	api := router.Group("/api")
	internalHandlersV1.Init(api)
}

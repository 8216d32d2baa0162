package attendance

import (
	"go-clockin/internal/middleware"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

type RouteConfig struct {
	JWTSecret string
	RateLimit rate.Limit
	RateBurst int
	Logger    *zap.Logger
}

func RegisterRoutes(r *gin.RouterGroup, h *Handler, cfg RouteConfig) {
	logger := cfg.Logger
	if logger == nil {
		logger = zap.L().Named("attendance.http")
	}

	api := r.Group("")
	api.Use(
		middleware.AuthMiddleware(cfg.JWTSecret),
		middleware.ContextLogger(logger),
		middleware.RateLimitByUser(cfg.RateLimit, cfg.RateBurst),
	)
	{
		api.GET("/me", h.Me)
		api.POST("/clock", h.Clock)
	}
}

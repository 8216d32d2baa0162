package app

import (
	"net/http"

	"go-clockin/internal/attendance"
	"go-clockin/internal/config"
	"go-clockin/internal/middleware"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// BuildStub wires the attendance stub service onto router.
func BuildStub(router *gin.Engine, cfg *config.StubConfig) error {
	logger := zap.L().Named("app.stub")

	fx, err := attendance.LoadFixtures(cfg.FixturesPath)
	if err != nil {
		return err
	}
	logger.Info("fixtures loaded",
		zap.String("path", cfg.FixturesPath),
		zap.Int("employees", len(fx.Employees)),
		zap.Int("locations", len(fx.Locations)),
	)

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	registerModules(router, fx, reg, cfg)
	return nil
}

func registerModules(router *gin.Engine, fx attendance.Fixtures, reg *prometheus.Registry, cfg *config.StubConfig) {
	router.Use(middleware.RequestID())

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(reg, promhttp.HandlerOpts{})))

	attendanceRepo := attendance.NewMemoryRepository(fx)
	attendanceService := attendance.NewService(attendanceRepo, attendance.NewMetrics(reg))
	attendanceHandler := attendance.NewHandler(attendanceService)

	attendance.RegisterRoutes(router.Group(""), attendanceHandler, attendance.RouteConfig{
		JWTSecret: cfg.JWTSecret,
		RateLimit: rate.Limit(cfg.RateLimit),
		RateBurst: cfg.RateBurst,
	})
}

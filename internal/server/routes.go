package server

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	slogGin "github.com/samber/slog-gin"

	"github.com/thoth-om/maskd/internal/server/handlers/health"
	lunarapi "github.com/thoth-om/maskd/internal/server/handlers/lunar"
	"github.com/thoth-om/maskd/internal/server/handlers/overlays"
	"github.com/thoth-om/maskd/internal/server/handlers/status"
	telemetryapi "github.com/thoth-om/maskd/internal/server/handlers/telemetry"
	"github.com/thoth-om/maskd/internal/server/middlewares"
	"github.com/thoth-om/maskd/internal/version"
)

func SetupRoutes(config *Config, svc *Services, started time.Time) http.Handler {
	r := gin.New()

	healthH := health.New(config.ServiceName)
	lunarH := lunarapi.New(&config.Lunar.Caps)
	overlaysH := overlays.New(svc.Overlay)
	telemetryH := telemetryapi.New(svc.Telemetry)
	statusH := status.New(started)

	httpLogger := slog.Default().WithGroup("http")
	r.Use(slogGin.NewWithConfig(httpLogger, slogGin.Config{
		DefaultLevel:     slog.LevelInfo,
		ClientErrorLevel: slog.LevelWarn,
		ServerErrorLevel: slog.LevelError,
		WithRequestID:    true,
	}))
	r.Use(gin.Recovery())
	r.Use(gzip.Gzip(gzip.BestSpeed))
	r.Use(cors.Default())
	r.Use(middlewares.SecurityHeaders())

	r.GET("/", IndexHandler)
	r.GET("/health", healthH.GetHealth)

	v1 := r.Group("/api/v1")
	v1.Use(middlewares.RateLimiter(config.RateLimit))
	{
		v1.GET("/lunar", lunarH.GetSample)

		v1.GET("/overlays", overlaysH.List)
		v1.POST("/overlays/:agent/invoke", overlaysH.Invoke)

		v1.GET("/telemetry/recent", telemetryH.GetRecent)
		v1.POST("/telemetry/turn", telemetryH.PostTurn)

		v1.GET("/status", statusH.GetStatus)
	}

	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{
			"error": "not found",
		})
	})

	r.NoMethod(func(c *gin.Context) {
		c.JSON(http.StatusMethodNotAllowed, gin.H{
			"error": "method not allowed",
		})
	})

	return r.Handler()
}

func IndexHandler(ctx *gin.Context) {
	ctx.String(http.StatusOK, version.DetailedWithApp())
}

func init() {
	gin.SetMode(gin.ReleaseMode)
}

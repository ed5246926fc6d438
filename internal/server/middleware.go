package server

import (
	"log/slog"
	"os"

	"github.com/USA-RedDragon/routesync-server/internal/config"
	"github.com/USA-RedDragon/routesync-server/internal/routing"
	websocketControllers "github.com/USA-RedDragon/routesync-server/internal/server/websocket"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	sloggin "github.com/samber/slog-gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/gorm"
)

func applyMiddleware(r *gin.Engine, config *config.Config, otelComponent string, db *gorm.DB, routeService *routing.Service, routeWebsocket *websocketControllers.RouteWebsocket) {
	r.Use(gin.Recovery())

	r.TrustedPlatform = "X-Real-IP"

	// CORS
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowCredentials = true
	corsConfig.AllowWildcard = true
	if len(config.HTTP.CORSHosts) == 0 {
		corsConfig.AllowAllOrigins = true
	}
	corsConfig.AllowOrigins = config.HTTP.CORSHosts
	r.Use(cors.New(corsConfig))

	err := r.SetTrustedProxies(config.HTTP.TrustedProxies)
	if err != nil {
		slog.Error("Failed to set trusted proxies", "error", err.Error())
	}

	r.Use(routeSocketMiddleware(routeWebsocket))
	r.Use(routeServiceMiddleware(routeService))
	r.Use(dbMiddleware(db))
	r.Use(configMiddleware(config))

	if config.HTTP.Tracing.Enabled {
		r.Use(otelgin.Middleware(otelComponent))
		r.Use(tracingProvider(config))
	}

	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	r.Use(sloggin.NewWithConfig(logger, sloggin.Config{
		WithSpanID:        config.HTTP.Tracing.Enabled,
		WithTraceID:       config.HTTP.Tracing.Enabled,
		DefaultLevel:      slog.LevelInfo,
		ClientErrorLevel:  slog.LevelWarn,
		ServerErrorLevel:  slog.LevelError,
		WithRequestHeader: false,
	}))
}

func configMiddleware(config *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("config", config)
		c.Next()
	}
}

func tracingProvider(config *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		if config.HTTP.Tracing.OTLPEndpoint != "" {
			ctx := c.Request.Context()
			span := trace.SpanFromContext(ctx)
			if span.IsRecording() {
				span.SetAttributes(
					attribute.String("http.method", c.Request.Method),
					attribute.String("http.path", c.Request.URL.Path),
				)
			}
		}
		c.Next()
	}
}

func dbMiddleware(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("db", db)
		c.Next()
	}
}

func routeServiceMiddleware(routeService *routing.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("routeService", routeService)
		c.Next()
	}
}

func routeSocketMiddleware(routeWebsocket *websocketControllers.RouteWebsocket) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("routeWebsocket", routeWebsocket)
		c.Next()
	}
}

package server

import (
	"log/slog"
	"net/http"

	"github.com/USA-RedDragon/routesync-server/internal/config"
	"github.com/USA-RedDragon/routesync-server/internal/server/controllers"
	websocketControllers "github.com/USA-RedDragon/routesync-server/internal/server/websocket"
	"github.com/USA-RedDragon/routesync-server/internal/websocket"
	"github.com/gin-gonic/gin"
)

func applyRoutes(r *gin.Engine, config *config.Config, routeWebsocket *websocketControllers.RouteWebsocket) {
	r.GET("/health", func(c *gin.Context) {
		c.String(http.StatusOK, "OK")
	})

	r.GET("/locations", controllers.GETLocations)
	r.POST("/locations", controllers.POSTLocations)
	r.GET("/search", controllers.GETSearch)

	// Route sync websocket
	ws := r.Group("/ws")
	ws.GET("", websocket.CreateHandler(routeWebsocket, config))

	r.NoRoute(func(c *gin.Context) {
		slog.Warn("Not Found", "path", c.Request.URL.Path)
		c.JSON(http.StatusNotFound, gin.H{"error": "Not Found"})
	})
}

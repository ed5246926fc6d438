package controllers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/USA-RedDragon/routesync-server/internal/db/models"
	"github.com/USA-RedDragon/routesync-server/internal/routing"
	"github.com/USA-RedDragon/routesync-server/internal/server/apimodels"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

func GETLocations(c *gin.Context) {
	db, ok := c.MustGet("db").(*gorm.DB)
	if !ok {
		slog.Error("Failed to get db from context")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Try again later"})
		return
	}

	locations, err := models.FindAllLocations(db.WithContext(c.Request.Context()))
	if err != nil {
		slog.Error("GETLocations", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Try again later"})
		return
	}

	c.JSON(http.StatusOK, apimodels.LocationResponsesFromModels(locations))
}

func POSTLocations(c *gin.Context) {
	routeService, ok := c.MustGet("routeService").(*routing.Service)
	if !ok {
		slog.Error("Failed to get route service from context")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Try again later"})
		return
	}

	var req apimodels.CreateLocationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": routing.ErrMissingLocation.Error()})
		return
	}

	result, err := routeService.CreateRoute(c.Request.Context(), req.Source, req.Destination)
	if err != nil {
		if errors.Is(err, routing.ErrMissingLocation) || errors.Is(err, routing.ErrInvalidLocation) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		slog.Error("POSTLocations", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Try again later"})
		return
	}

	c.JSON(http.StatusOK, apimodels.CreateLocationResponse{
		LocationResponse: apimodels.LocationResponseFromModel(result.Location),
		Distance:         result.Distance,
	})
}

func GETSearch(c *gin.Context) {
	query := c.Query("query")
	if query == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "query is required"})
		return
	}

	db, ok := c.MustGet("db").(*gorm.DB)
	if !ok {
		slog.Error("Failed to get db from context")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Try again later"})
		return
	}

	locations, err := models.FindLocationsMatching(db.WithContext(c.Request.Context()), query)
	if err != nil {
		slog.Error("GETSearch", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Try again later"})
		return
	}

	c.JSON(http.StatusOK, apimodels.LocationResponsesFromModels(locations))
}

package backend

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"wanderplan/models"
)

// generateTrip handles POST /api/trip.
func (s *Server) generateTrip(c *gin.Context) {
	var req models.TripRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "City name is required"})
		return
	}
	city := strings.TrimSpace(req.City)
	if city == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "City name is required"})
		return
	}

	if pkg, ok := s.cache.trip(city); ok {
		c.JSON(http.StatusOK, pkg)
		return
	}
	if s.gen == nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Generation backend not configured"})
		return
	}

	pkg, err := s.gen.GeneratePackage(c.Request.Context(), city)
	if err != nil {
		s.log.Warn("trip generation failed", zap.String("city", city), zap.Error(err))
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate travel package"})
		return
	}
	s.cache.putTrip(city, pkg)
	c.JSON(http.StatusOK, pkg)
}

// discoverNearby handles POST /api/nearby. A zero coordinate is valid; only
// an absent or null one is rejected.
func (s *Server) discoverNearby(c *gin.Context) {
	var req models.NearbyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Coordinates and city are required"})
		return
	}
	city := strings.TrimSpace(req.City)
	if req.Lat == nil || req.Lng == nil || city == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Coordinates and city are required"})
		return
	}
	lat, lng := *req.Lat, *req.Lng

	if places, ok := s.cache.nearby(lat, lng, city); ok {
		c.JSON(http.StatusOK, places)
		return
	}
	if s.gen == nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Generation backend not configured"})
		return
	}

	places, err := s.gen.DiscoverNearby(c.Request.Context(), lat, lng, city)
	if err != nil {
		s.log.Warn("nearby discovery failed", zap.String("city", city), zap.Error(err))
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to discover nearby places"})
		return
	}
	if places == nil {
		places = []models.Place{}
	}
	s.cache.putNearby(lat, lng, city, places)
	c.JSON(http.StatusOK, places)
}

package backend

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"wanderplan/models"
	"wanderplan/planner"
)

func (s *Server) listSaved(c *gin.Context) {
	trips, err := s.store.List(c.Request.Context())
	if err != nil {
		s.storeError(c, err)
		return
	}
	c.JSON(http.StatusOK, trips)
}

func (s *Server) getSaved(c *gin.Context) {
	trip, err := s.store.Get(c.Request.Context(), c.Param("city"))
	if errors.Is(err, planner.ErrTripNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Trip not found"})
		return
	}
	if err != nil {
		s.storeError(c, err)
		return
	}
	c.JSON(http.StatusOK, trip)
}

// toggleSaved saves the posted package, or unsaves it when its city is
// already saved. The body must be a complete package whose days run 1..N.
func (s *Server) toggleSaved(c *gin.Context) {
	raw, err := c.GetRawData()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	pkg, err := models.DecodePackage(raw)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if !planner.Sequential(pkg.Itinerary) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "itinerary days must run 1..N"})
		return
	}

	saved, err := s.store.Toggle(c.Request.Context(), pkg)
	if err != nil {
		s.storeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"saved": saved})
}

// updateSavedItinerary overwrites only the itinerary of a saved trip. Days
// are renumbered 1..N in body order.
func (s *Server) updateSavedItinerary(c *gin.Context) {
	raw, err := c.GetRawData()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	items, err := models.DecodeItinerary(raw)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	items = planner.Resequence(items)

	err = s.store.ReplaceItinerary(c.Request.Context(), c.Param("city"), items)
	if errors.Is(err, planner.ErrTripNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Trip not found"})
		return
	}
	if err != nil {
		s.storeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Itinerary updated"})
}

func (s *Server) deleteSaved(c *gin.Context) {
	if err := s.store.Remove(c.Request.Context(), c.Param("city")); err != nil {
		s.storeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Trip deleted"})
}

func (s *Server) storeError(c *gin.Context, err error) {
	s.log.Error("saved trips store", zap.Error(err))
	_ = c.Error(err)
	c.JSON(http.StatusInternalServerError, gin.H{"error": "Saved trips unavailable"})
}

package api

import (
	"net/http"
	"os"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"propaudit/server/internal/database"
	"propaudit/server/internal/property"
)

const (
	defaultPageLimit = 100
	maxPageLimit     = 500

	defaultRadiusMiles = 0.5
	minRadiusMiles     = 0.1
	maxRadiusMiles     = 5.0
)

type Handler struct {
	service      *property.Service
	logger       *logrus.Logger
	defaultState string
}

func NewHandler(service *property.Service, defaultState string, logger *logrus.Logger) *Handler {
	if logger == nil {
		logger = logrus.New()
		logger.SetFormatter(&logrus.JSONFormatter{})
		logger.SetOutput(os.Stdout)
	}

	return &Handler{
		service:      service,
		logger:       logger,
		defaultState: defaultState,
	}
}

// SyncCity fetches and persists listings for one city.
func (h *Handler) SyncCity(c *gin.Context) {
	city := c.Param("city")
	state := c.DefaultQuery("state", h.defaultState)

	report, err := h.service.Sync(c.Request.Context(), city, state)
	if err != nil {
		h.logger.WithError(err).WithField("city", city).Error("Failed to sync city")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to sync city"})
		return
	}

	c.JSON(http.StatusOK, report)
}

// GetProperties answers the filtered, paginated listing query.
func (h *Handler) GetProperties(c *gin.Context) {
	filter := database.PropertyFilter{
		City:    c.Query("city"),
		ZipCode: c.Query("zip_code"),
		Skip:    0,
		Limit:   defaultPageLimit,
	}

	if v := c.Query("min_price"); v != "" {
		price, err := strconv.ParseFloat(v, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid min_price"})
			return
		}
		filter.MinPrice = &price
	}
	if v := c.Query("max_price"); v != "" {
		price, err := strconv.ParseFloat(v, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid max_price"})
			return
		}
		filter.MaxPrice = &price
	}
	if v := c.Query("min_beds"); v != "" {
		beds, err := strconv.Atoi(v)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid min_beds"})
			return
		}
		filter.MinBeds = &beds
	}
	if v := c.Query("max_beds"); v != "" {
		beds, err := strconv.Atoi(v)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid max_beds"})
			return
		}
		filter.MaxBeds = &beds
	}
	if v := c.Query("skip"); v != "" {
		skip, err := strconv.Atoi(v)
		if err != nil || skip < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "skip must be a non-negative integer"})
			return
		}
		filter.Skip = skip
	}
	if v := c.Query("limit"); v != "" {
		limit, err := strconv.Atoi(v)
		if err != nil || limit < 1 || limit > maxPageLimit {
			c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be between 1 and 500"})
			return
		}
		filter.Limit = limit
	}

	properties, err := h.service.GetProperties(filter)
	if err != nil {
		h.logger.WithError(err).Error("Failed to get properties")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get properties"})
		return
	}

	c.JSON(http.StatusOK, properties)
}

// GetProperty returns a single record by ID.
func (h *Handler) GetProperty(c *gin.Context) {
	id, ok := h.propertyID(c)
	if !ok {
		return
	}

	p, err := h.service.GetProperty(id)
	if err != nil {
		h.logger.WithError(err).WithField("property_id", id).Error("Failed to get property")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get property"})
		return
	}
	if p == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Property not found"})
		return
	}

	c.JSON(http.StatusOK, p)
}

// GetAnalysis returns the full analysis for one record.
func (h *Handler) GetAnalysis(c *gin.Context) {
	id, ok := h.propertyID(c)
	if !ok {
		return
	}

	analysis, err := h.service.Analyze(c.Request.Context(), id)
	if err != nil {
		h.logger.WithError(err).WithField("property_id", id).Error("Failed to analyze property")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to analyze property"})
		return
	}
	if analysis == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Property not found"})
		return
	}

	c.JSON(http.StatusOK, analysis)
}

// GenerateAudit produces a fresh investment audit for one record.
func (h *Handler) GenerateAudit(c *gin.Context) {
	id, ok := h.propertyID(c)
	if !ok {
		return
	}

	audit, err := h.service.Audit(c.Request.Context(), id)
	if err != nil {
		h.logger.WithError(err).WithField("property_id", id).Error("Failed to generate audit")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate audit"})
		return
	}
	if audit == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Property not found"})
		return
	}

	c.JSON(http.StatusOK, audit)
}

// SearchNearby returns listings within a radius of a point.
func (h *Handler) SearchNearby(c *gin.Context) {
	lat, err := strconv.ParseFloat(c.Query("lat"), 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid lat"})
		return
	}
	lon, err := strconv.ParseFloat(c.Query("lon"), 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid lon"})
		return
	}

	radius := defaultRadiusMiles
	if v := c.Query("radius_miles"); v != "" {
		radius, err = strconv.ParseFloat(v, 64)
		if err != nil || radius < minRadiusMiles || radius > maxRadiusMiles {
			c.JSON(http.StatusBadRequest, gin.H{"error": "radius_miles must be between 0.1 and 5"})
			return
		}
	}

	properties, err := h.service.GetNearby(lat, lon, radius)
	if err != nil {
		h.logger.WithError(err).Error("Failed to search nearby properties")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to search nearby properties"})
		return
	}

	c.JSON(http.StatusOK, properties)
}

// GetCityStats returns the aggregate statistics for one city.
func (h *Handler) GetCityStats(c *gin.Context) {
	city := c.Param("city")

	stats, err := h.service.GetCityStats(city)
	if err != nil {
		h.logger.WithError(err).WithField("city", city).Error("Failed to get city stats")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get city stats"})
		return
	}
	if stats == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "No properties found for city"})
		return
	}

	c.JSON(http.StatusOK, stats)
}

// Health reports service liveness.
func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (h *Handler) propertyID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid property ID"})
		return 0, false
	}
	return id, true
}

package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"propaudit/server/internal/acquisition"
	"propaudit/server/internal/database"
	"propaudit/server/internal/models"
	"propaudit/server/internal/neighborhood"
	"propaudit/server/internal/property"
	"propaudit/server/internal/report"
)

func newTestRouter(t *testing.T) (*gin.Engine, *database.Database) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)

	db, err := database.NewDatabase(":memory:", logger)
	require.NoError(t, err)
	require.NoError(t, db.RunMigrations())
	t.Cleanup(func() { db.Close() })

	acq := acquisition.NewService("", true, logger)
	hood := neighborhood.NewProvider(logger, t.TempDir())
	reports := report.NewService("", logger)
	service := property.NewService(db, acq, hood, reports, 50, logger)

	router := gin.New()
	SetupRoutes(router, service, "TX", 0, logger)
	return router, db
}

func seedProperty(t *testing.T, db *database.Database, address string, price float64) int64 {
	t.Helper()

	sqft := 2200
	ppsf := price / float64(sqft)
	p := &models.Property{
		Address:      address,
		City:         "Plano",
		State:        "TX",
		ZipCode:      "75023",
		Latitude:     33.0198,
		Longitude:    -96.6989,
		PropertyType: "Single Family",
		ListPrice:    &price,
		Sqft:         &sqft,
		PricePerSqft: &ppsf,
		Status:       models.StatusActive,
		Features:     models.Features{"garage": 2},
	}
	_, err := db.UpsertBatch([]*models.Property{p})
	require.NoError(t, err)

	stored, err := db.GetPropertyByAddress(address)
	require.NoError(t, err)
	require.NotNil(t, stored)
	return stored.ID
}

func doRequest(router *gin.Engine, method, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(method, path, nil)
	router.ServeHTTP(w, req)
	return w
}

func TestHealth(t *testing.T) {
	router, _ := newTestRouter(t)

	w := doRequest(router, http.MethodGet, "/api/health")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
}

func TestSyncCity(t *testing.T) {
	router, _ := newTestRouter(t)

	w := doRequest(router, http.MethodPost, "/api/properties/sync/Plano")
	require.Equal(t, http.StatusOK, w.Code)

	var syncReport models.SyncReport
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &syncReport))
	assert.Equal(t, "Plano", syncReport.City)
	assert.Equal(t, "TX", syncReport.State)
	assert.Greater(t, syncReport.Inserted, 0)
}

func TestGetProperties_Pagination(t *testing.T) {
	router, db := newTestRouter(t)

	seedProperty(t, db, "100 Park Blvd, Plano, TX", 400000)
	seedProperty(t, db, "200 Park Blvd, Plano, TX", 500000)
	seedProperty(t, db, "300 Park Blvd, Plano, TX", 600000)

	w := doRequest(router, http.MethodGet, "/api/properties?limit=2")
	require.Equal(t, http.StatusOK, w.Code)

	var properties []models.Property
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &properties))
	assert.Len(t, properties, 2)

	w = doRequest(router, http.MethodGet, "/api/properties?skip=2")
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &properties))
	assert.Len(t, properties, 1)
}

func TestGetProperties_Validation(t *testing.T) {
	router, _ := newTestRouter(t)

	assert.Equal(t, http.StatusBadRequest, doRequest(router, http.MethodGet, "/api/properties?skip=-1").Code)
	assert.Equal(t, http.StatusBadRequest, doRequest(router, http.MethodGet, "/api/properties?limit=0").Code)
	assert.Equal(t, http.StatusBadRequest, doRequest(router, http.MethodGet, "/api/properties?limit=501").Code)
	assert.Equal(t, http.StatusBadRequest, doRequest(router, http.MethodGet, "/api/properties?min_price=abc").Code)
}

func TestGetProperties_PriceFilter(t *testing.T) {
	router, db := newTestRouter(t)

	seedProperty(t, db, "100 Park Blvd, Plano, TX", 400000)
	seedProperty(t, db, "200 Park Blvd, Plano, TX", 700000)

	w := doRequest(router, http.MethodGet, "/api/properties?min_price=500000")
	require.Equal(t, http.StatusOK, w.Code)

	var properties []models.Property
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &properties))
	require.Len(t, properties, 1)
	assert.Equal(t, "200 Park Blvd, Plano, TX", properties[0].Address)
}

func TestGetProperty_NotFound(t *testing.T) {
	router, _ := newTestRouter(t)

	assert.Equal(t, http.StatusNotFound, doRequest(router, http.MethodGet, "/api/properties/9999").Code)
	assert.Equal(t, http.StatusBadRequest, doRequest(router, http.MethodGet, "/api/properties/abc").Code)
}

func TestGetAnalysis(t *testing.T) {
	router, db := newTestRouter(t)

	id := seedProperty(t, db, "100 Park Blvd, Plano, TX", 400000)

	w := doRequest(router, http.MethodGet, "/api/properties/"+itoa(id)+"/analysis")
	require.Equal(t, http.StatusOK, w.Code)

	var analysis models.Analysis
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &analysis))
	assert.Equal(t, id, analysis.Property.ID)
	assert.Greater(t, analysis.Scores.LocationScore, 0.0)

	assert.Equal(t, http.StatusNotFound, doRequest(router, http.MethodGet, "/api/properties/9999/analysis").Code)
}

func TestGenerateAudit(t *testing.T) {
	router, db := newTestRouter(t)

	id := seedProperty(t, db, "100 Park Blvd, Plano, TX", 450000)

	w := doRequest(router, http.MethodPost, "/api/properties/"+itoa(id)+"/audit")
	require.Equal(t, http.StatusOK, w.Code)

	var audit models.AuditReport
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &audit))
	assert.Equal(t, id, audit.PropertyID)
	assert.NotEmpty(t, audit.FullReport)

	assert.Equal(t, http.StatusNotFound, doRequest(router, http.MethodPost, "/api/properties/9999/audit").Code)
}

func TestSearchNearby(t *testing.T) {
	router, db := newTestRouter(t)

	seedProperty(t, db, "100 Park Blvd, Plano, TX", 400000)

	w := doRequest(router, http.MethodGet, "/api/properties/nearby/search?lat=33.0198&lon=-96.6989")
	require.Equal(t, http.StatusOK, w.Code)

	var properties []models.Property
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &properties))
	assert.Len(t, properties, 1)

	// Validation
	assert.Equal(t, http.StatusBadRequest, doRequest(router, http.MethodGet, "/api/properties/nearby/search?lon=-96.6989").Code)
	assert.Equal(t, http.StatusBadRequest, doRequest(router, http.MethodGet, "/api/properties/nearby/search?lat=33&lon=-96&radius_miles=6").Code)
	assert.Equal(t, http.StatusBadRequest, doRequest(router, http.MethodGet, "/api/properties/nearby/search?lat=33&lon=-96&radius_miles=0.05").Code)
}

func TestGetCityStats(t *testing.T) {
	router, db := newTestRouter(t)

	seedProperty(t, db, "100 Park Blvd, Plano, TX", 400000)
	seedProperty(t, db, "200 Park Blvd, Plano, TX", 500000)

	w := doRequest(router, http.MethodGet, "/api/properties/city/Plano/stats")
	require.Equal(t, http.StatusOK, w.Code)

	var stats models.CityStats
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &stats))
	assert.Equal(t, 2, stats.TotalProperties)
	assert.Equal(t, 450000.0, stats.AvgPrice)

	assert.Equal(t, http.StatusNotFound, doRequest(router, http.MethodGet, "/api/properties/city/Nowhere/stats").Code)
}

func TestRateLimit(t *testing.T) {
	gin.SetMode(gin.TestMode)

	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)

	limiter := NewRateLimiter(2)
	router := gin.New()
	router.GET("/ping", limiter.Middleware(), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	assert.Equal(t, http.StatusOK, doRequest(router, http.MethodGet, "/ping").Code)
	assert.Equal(t, http.StatusOK, doRequest(router, http.MethodGet, "/ping").Code)
	assert.Equal(t, http.StatusTooManyRequests, doRequest(router, http.MethodGet, "/ping").Code)
}

func itoa(id int64) string {
	return strconv.FormatInt(id, 10)
}

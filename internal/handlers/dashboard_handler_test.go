package handlers

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/citytransit/fleet-admin-backend/internal/middleware"
	"github.com/citytransit/fleet-admin-backend/internal/models"
	"github.com/citytransit/fleet-admin-backend/internal/services"
)

// staticDashboardStore serves fixed counts, or fails every call
type staticDashboardStore struct {
	fleet *models.FleetStats
	fail  bool
}

func (s *staticDashboardStore) FleetStats() (*models.FleetStats, error) {
	if s.fail {
		return nil, assert.AnError
	}
	return s.fleet, nil
}

func (s *staticDashboardStore) CountRoutes(status string) (int64, error)    { return 4, nil }
func (s *staticDashboardStore) CountSchedules(status string) (int64, error) { return 9, nil }
func (s *staticDashboardStore) CountSchedulesToday() (int64, error)         { return 2, nil }
func (s *staticDashboardStore) CountContacts(status string) (int64, error)  { return 5, nil }

func setupDashboardRouter(store services.DashboardStore) *gin.Engine {
	gin.SetMode(gin.TestMode)

	logger := logrus.New()
	logger.SetOutput(io.Discard)

	handler := NewDashboardHandler(services.NewDashboardService(store, logger))

	router := gin.New()
	dashboard := router.Group("/dashboard")
	dashboard.Use(func(c *gin.Context) {
		c.Set(middleware.UserContextKey, middleware.UserContext{
			UserID: "64f1a2b3c4d5e6f708192a3b",
			Email:  "admin@citytransit.gov",
			Role:   "admin",
		})
	})
	{
		dashboard.GET("/alerts", handler.Alerts)
		dashboard.GET("/performance", handler.Performance)
		dashboard.GET("/routes/performance", handler.RoutePerformance)
		dashboard.GET("/trends/weekly", handler.WeeklyTrends)
		dashboard.GET("/complete", handler.Complete)
	}
	return router
}

func getJSON(t *testing.T, router *gin.Engine, path string) (int, map[string]interface{}) {
	t.Helper()
	recorder := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	router.ServeHTTP(recorder, req)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &body))
	return recorder.Code, body
}

func TestDashboardAlerts(t *testing.T) {
	router := setupDashboardRouter(&staticDashboardStore{fleet: &models.FleetStats{TotalBuses: 3, ActiveBuses: 2}})

	t.Run("Empty List", func(t *testing.T) {
		code, body := getJSON(t, router, "/dashboard/alerts")
		assert.Equal(t, http.StatusOK, code)
		assert.Equal(t, float64(0), body["total"])
		alerts, ok := body["alerts"].([]interface{})
		require.True(t, ok)
		assert.Empty(t, alerts)
	})

	t.Run("Severity Filter And Limit", func(t *testing.T) {
		code, body := getJSON(t, router, "/dashboard/alerts?limit=3&severity=high")
		assert.Equal(t, http.StatusOK, code)
		assert.Equal(t, float64(0), body["total"])
	})

	t.Run("Bad Limit Falls Back", func(t *testing.T) {
		code, _ := getJSON(t, router, "/dashboard/alerts?limit=abc")
		assert.Equal(t, http.StatusOK, code)
	})
}

func TestDashboardRoutePerformance(t *testing.T) {
	router := setupDashboardRouter(&staticDashboardStore{fleet: &models.FleetStats{TotalBuses: 3, ActiveBuses: 2}})

	code, body := getJSON(t, router, "/dashboard/routes/performance")
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, float64(0), body["total"])
	routes, ok := body["routes"].([]interface{})
	require.True(t, ok, "routes must serialize as an array, not null")
	assert.Empty(t, routes)
}

func TestDashboardPerformance(t *testing.T) {
	router := setupDashboardRouter(&staticDashboardStore{fleet: &models.FleetStats{TotalBuses: 3, ActiveBuses: 2}})

	code, body := getJSON(t, router, "/dashboard/performance")
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, float64(0), body["on_time_performance"])
	assert.Contains(t, body, "maintenance_costs")
}

func TestDashboardWeeklyTrends(t *testing.T) {
	router := setupDashboardRouter(&staticDashboardStore{fleet: &models.FleetStats{TotalBuses: 3, ActiveBuses: 2}})

	code, body := getJSON(t, router, "/dashboard/trends/weekly")
	assert.Equal(t, http.StatusOK, code)
	labels, ok := body["labels"].([]interface{})
	require.True(t, ok)
	assert.Len(t, labels, 7)
}

func TestDashboardComplete(t *testing.T) {
	t.Run("Includes Caller And Timestamp", func(t *testing.T) {
		router := setupDashboardRouter(&staticDashboardStore{fleet: &models.FleetStats{TotalBuses: 3, ActiveBuses: 2}})

		code, body := getJSON(t, router, "/dashboard/complete")
		assert.Equal(t, http.StatusOK, code)
		assert.NotEmpty(t, body["timestamp"])

		user, ok := body["user"].(map[string]interface{})
		require.True(t, ok)
		assert.Equal(t, "64f1a2b3c4d5e6f708192a3b", user["id"])
		assert.Equal(t, "admin", user["role"])

		stats, ok := body["stats"].(map[string]interface{})
		require.True(t, ok)
		assert.Contains(t, stats, "overview")
		assert.Contains(t, stats, "route_performance")
	})

	t.Run("Store Down Still Responds", func(t *testing.T) {
		router := setupDashboardRouter(&staticDashboardStore{fail: true})

		code, body := getJSON(t, router, "/dashboard/complete")
		assert.Equal(t, http.StatusOK, code)

		stats, ok := body["stats"].(map[string]interface{})
		require.True(t, ok)
		overview, ok := stats["overview"].(map[string]interface{})
		require.True(t, ok)
		assert.Equal(t, float64(0), overview["total_fleet"])
	})
}

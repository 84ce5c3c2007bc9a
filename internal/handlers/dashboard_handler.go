package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/citytransit/fleet-admin-backend/internal/middleware"
	"github.com/citytransit/fleet-admin-backend/internal/models"
	"github.com/citytransit/fleet-admin-backend/internal/services"
)

// DashboardHandler serves aggregated operational statistics.
// Every endpoint responds 200; store failures surface as zero-valued
// payloads rather than errors.
type DashboardHandler struct {
	dashboard *services.DashboardService
}

// NewDashboardHandler creates a new DashboardHandler
func NewDashboardHandler(dashboard *services.DashboardService) *DashboardHandler {
	return &DashboardHandler{dashboard: dashboard}
}

// Stats handles GET /dashboard/stats
func (h *DashboardHandler) Stats(c *gin.Context) {
	c.JSON(http.StatusOK, h.dashboard.Stats())
}

// Overview handles GET /dashboard/overview
func (h *DashboardHandler) Overview(c *gin.Context) {
	c.JSON(http.StatusOK, h.dashboard.Overview())
}

// FleetStatus handles GET /dashboard/fleet-status
func (h *DashboardHandler) FleetStatus(c *gin.Context) {
	c.JSON(http.StatusOK, h.dashboard.FleetStatus())
}

// Alerts handles GET /dashboard/alerts
func (h *DashboardHandler) Alerts(c *gin.Context) {
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "10"))
	if err != nil || limit < 1 {
		limit = 10
	}
	severity := c.Query("severity")

	alerts := h.dashboard.Stats().RecentAlerts
	if severity != "" {
		filtered := make([]models.Alert, 0, len(alerts))
		for _, alert := range alerts {
			if alert.Severity == severity {
				filtered = append(filtered, alert)
			}
		}
		alerts = filtered
	}
	if len(alerts) > limit {
		alerts = alerts[:limit]
	}

	c.JSON(http.StatusOK, gin.H{
		"alerts": alerts,
		"total":  len(alerts),
	})
}

// Performance handles GET /dashboard/performance
func (h *DashboardHandler) Performance(c *gin.Context) {
	c.JSON(http.StatusOK, h.dashboard.Stats().PerformanceMetrics)
}

// RoutePerformance handles GET /dashboard/routes/performance
func (h *DashboardHandler) RoutePerformance(c *gin.Context) {
	routes := h.dashboard.Stats().RoutePerformance
	c.JSON(http.StatusOK, gin.H{
		"routes": routes,
		"total":  len(routes),
	})
}

// WeeklyTrends handles GET /dashboard/trends/weekly
func (h *DashboardHandler) WeeklyTrends(c *gin.Context) {
	c.JSON(http.StatusOK, h.dashboard.Stats().WeeklyTrends)
}

// Complete handles GET /dashboard/complete. It returns the full stats
// payload tagged with the request time and the caller's identity.
func (h *DashboardHandler) Complete(c *gin.Context) {
	response := gin.H{
		"stats":     h.dashboard.Stats(),
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	}
	if userCtx, exists := middleware.GetUserContext(c); exists {
		response["user"] = gin.H{
			"id":   userCtx.UserID,
			"role": userCtx.Role,
		}
	}
	c.JSON(http.StatusOK, response)
}

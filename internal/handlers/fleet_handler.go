package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/citytransit/fleet-admin-backend/internal/models"
	"github.com/citytransit/fleet-admin-backend/internal/services"
)

// FleetHandler handles HTTP requests for the bus fleet
type FleetHandler struct {
	fleet      *services.FleetService
	production bool
}

// NewFleetHandler creates a new FleetHandler
func NewFleetHandler(fleet *services.FleetService, production bool) *FleetHandler {
	return &FleetHandler{fleet: fleet, production: production}
}

// Create handles POST /fleet
func (h *FleetHandler) Create(c *gin.Context) {
	var req models.CreateBusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	bus, err := h.fleet.CreateBus(&req)
	if err != nil {
		respondError(c, err, h.production)
		return
	}

	c.JSON(http.StatusCreated, bus)
}

// List handles GET /fleet
func (h *FleetHandler) List(c *gin.Context) {
	page, limit := parsePagination(c)
	filter := models.BusListFilter{
		Status: c.Query("status"),
		Route:  c.Query("route"),
		Page:   page,
		Limit:  limit,
	}

	buses, total, err := h.fleet.ListBuses(filter)
	if err != nil {
		respondError(c, err, h.production)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"buses": buses,
		"total": total,
		"page":  page,
		"pages": totalPages(total, limit),
	})
}

// Get handles GET /fleet/:id
func (h *FleetHandler) Get(c *gin.Context) {
	bus, err := h.fleet.GetBus(c.Param("id"))
	if err != nil {
		respondError(c, err, h.production)
		return
	}

	c.JSON(http.StatusOK, bus)
}

// Update handles PUT /fleet/:id
func (h *FleetHandler) Update(c *gin.Context) {
	var req models.UpdateBusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	bus, err := h.fleet.UpdateBus(c.Param("id"), &req)
	if err != nil {
		respondError(c, err, h.production)
		return
	}

	c.JSON(http.StatusOK, bus)
}

// Delete handles DELETE /fleet/:id
func (h *FleetHandler) Delete(c *gin.Context) {
	if err := h.fleet.DeleteBus(c.Param("id")); err != nil {
		respondError(c, err, h.production)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Bus deleted"})
}

// Stats handles GET /fleet/stats/summary
func (h *FleetHandler) Stats(c *gin.Context) {
	stats, err := h.fleet.FleetStats()
	if err != nil {
		respondError(c, err, h.production)
		return
	}

	c.JSON(http.StatusOK, stats)
}

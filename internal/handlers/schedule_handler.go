package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/citytransit/fleet-admin-backend/internal/models"
	"github.com/citytransit/fleet-admin-backend/internal/services"
)

// ScheduleHandler handles HTTP requests for trip schedules
type ScheduleHandler struct {
	schedules  *services.ScheduleService
	production bool
}

// NewScheduleHandler creates a new ScheduleHandler
func NewScheduleHandler(schedules *services.ScheduleService, production bool) *ScheduleHandler {
	return &ScheduleHandler{schedules: schedules, production: production}
}

// Create handles POST /schedules
func (h *ScheduleHandler) Create(c *gin.Context) {
	var req models.CreateScheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	schedule, err := h.schedules.CreateSchedule(&req)
	if err != nil {
		respondError(c, err, h.production)
		return
	}

	c.JSON(http.StatusCreated, schedule)
}

// List handles GET /schedules
func (h *ScheduleHandler) List(c *gin.Context) {
	page, limit := parsePagination(c)
	filter := models.ScheduleListFilter{
		Status: c.Query("status"),
		Route:  c.Query("route"),
		Bus:    c.Query("bus"),
		Page:   page,
		Limit:  limit,
	}

	schedules, total, err := h.schedules.ListSchedules(filter)
	if err != nil {
		respondError(c, err, h.production)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"schedules": schedules,
		"total":     total,
		"page":      page,
		"pages":     totalPages(total, limit),
	})
}

// Get handles GET /schedules/:id
func (h *ScheduleHandler) Get(c *gin.Context) {
	schedule, err := h.schedules.GetSchedule(c.Param("id"))
	if err != nil {
		respondError(c, err, h.production)
		return
	}

	c.JSON(http.StatusOK, schedule)
}

// Update handles PUT /schedules/:id
func (h *ScheduleHandler) Update(c *gin.Context) {
	var req models.UpdateScheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	schedule, err := h.schedules.UpdateSchedule(c.Param("id"), &req)
	if err != nil {
		respondError(c, err, h.production)
		return
	}

	c.JSON(http.StatusOK, schedule)
}

// AddDelay handles POST /schedules/:id/delays
func (h *ScheduleHandler) AddDelay(c *gin.Context) {
	var req models.AddDelayRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	schedule, err := h.schedules.AddDelay(c.Param("id"), &req)
	if err != nil {
		respondError(c, err, h.production)
		return
	}

	c.JSON(http.StatusOK, schedule)
}

// Delete handles DELETE /schedules/:id
func (h *ScheduleHandler) Delete(c *gin.Context) {
	if err := h.schedules.DeleteSchedule(c.Param("id")); err != nil {
		respondError(c, err, h.production)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Schedule deleted"})
}

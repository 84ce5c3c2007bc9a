package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/citytransit/fleet-admin-backend/internal/models"
	"github.com/citytransit/fleet-admin-backend/internal/services"
)

// StaffContactHandler handles HTTP requests for the staff directory
type StaffContactHandler struct {
	staff      *services.StaffContactService
	production bool
}

// NewStaffContactHandler creates a new StaffContactHandler
func NewStaffContactHandler(staff *services.StaffContactService, production bool) *StaffContactHandler {
	return &StaffContactHandler{staff: staff, production: production}
}

// Create handles POST /staff-contacts
func (h *StaffContactHandler) Create(c *gin.Context) {
	var req models.CreateStaffContactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	contact, err := h.staff.Create(&req)
	if err != nil {
		respondError(c, err, h.production)
		return
	}

	c.JSON(http.StatusCreated, contact)
}

// List handles GET /staff-contacts
func (h *StaffContactHandler) List(c *gin.Context) {
	page, limit := parsePagination(c)
	filter := models.StaffContactListFilter{
		Department: c.Query("department"),
		Status:     c.Query("status"),
		Search:     c.Query("search"),
		Page:       page,
		Limit:      limit,
	}

	contacts, total, err := h.staff.List(filter)
	if err != nil {
		respondError(c, err, h.production)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"staff_contacts": contacts,
		"total":          total,
		"page":           page,
		"pages":          totalPages(total, limit),
	})
}

// Get handles GET /staff-contacts/:id
func (h *StaffContactHandler) Get(c *gin.Context) {
	contact, err := h.staff.Get(c.Param("id"))
	if err != nil {
		respondError(c, err, h.production)
		return
	}

	c.JSON(http.StatusOK, contact)
}

// Update handles PUT /staff-contacts/:id
func (h *StaffContactHandler) Update(c *gin.Context) {
	var req models.UpdateStaffContactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	contact, err := h.staff.Update(c.Param("id"), &req)
	if err != nil {
		respondError(c, err, h.production)
		return
	}

	c.JSON(http.StatusOK, contact)
}

// Delete handles DELETE /staff-contacts/:id
func (h *StaffContactHandler) Delete(c *gin.Context) {
	if err := h.staff.Delete(c.Param("id")); err != nil {
		respondError(c, err, h.production)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Staff contact deleted"})
}

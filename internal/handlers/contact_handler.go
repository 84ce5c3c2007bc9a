package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/citytransit/fleet-admin-backend/internal/middleware"
	"github.com/citytransit/fleet-admin-backend/internal/models"
	"github.com/citytransit/fleet-admin-backend/internal/services"
)

// ContactHandler handles HTTP requests for contacts and public inquiries
type ContactHandler struct {
	contacts   *services.ContactService
	production bool
}

// NewContactHandler creates a new ContactHandler
func NewContactHandler(contacts *services.ContactService, production bool) *ContactHandler {
	return &ContactHandler{contacts: contacts, production: production}
}

// Create handles POST /contacts
func (h *ContactHandler) Create(c *gin.Context) {
	var req models.CreateContactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	contact, err := h.contacts.Create(&req)
	if err != nil {
		respondError(c, err, h.production)
		return
	}

	c.JSON(http.StatusCreated, contact)
}

// CreateInquiry handles POST /inquiries (public)
func (h *ContactHandler) CreateInquiry(c *gin.Context) {
	var req models.CreateInquiryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	contact, err := h.contacts.CreateInquiry(&req)
	if err != nil {
		respondError(c, err, h.production)
		return
	}

	c.JSON(http.StatusCreated, contact)
}

// List handles GET /contacts
func (h *ContactHandler) List(c *gin.Context) {
	page, limit := parsePagination(c)
	filter := models.ContactListFilter{
		Status:   c.Query("status"),
		Category: c.Query("category"),
		Priority: c.Query("priority"),
		Search:   c.Query("search"),
		Page:     page,
		Limit:    limit,
	}

	contacts, total, err := h.contacts.List(filter)
	if err != nil {
		respondError(c, err, h.production)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"contacts": contacts,
		"total":    total,
		"page":     page,
		"pages":    totalPages(total, limit),
	})
}

// ListInquiries handles GET /inquiries. The category is pinned so the
// inquiry surface never exposes other contact kinds.
func (h *ContactHandler) ListInquiries(c *gin.Context) {
	page, limit := parsePagination(c)
	filter := models.ContactListFilter{
		Status:   c.Query("status"),
		Category: string(models.CategoryInquiry),
		Priority: c.Query("priority"),
		Search:   c.Query("search"),
		Page:     page,
		Limit:    limit,
	}

	inquiries, total, err := h.contacts.List(filter)
	if err != nil {
		respondError(c, err, h.production)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"inquiries": inquiries,
		"total":     total,
		"page":      page,
		"pages":     totalPages(total, limit),
	})
}

// ListByCategory handles GET /contacts/category/:category
func (h *ContactHandler) ListByCategory(c *gin.Context) {
	page, limit := parsePagination(c)
	filter := models.ContactListFilter{
		Category: c.Param("category"),
		Page:     page,
		Limit:    limit,
	}

	contacts, total, err := h.contacts.List(filter)
	if err != nil {
		respondError(c, err, h.production)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"contacts": contacts,
		"total":    total,
		"page":     page,
		"pages":    totalPages(total, limit),
	})
}

// ListUrgent handles GET /contacts/urgent/all
func (h *ContactHandler) ListUrgent(c *gin.Context) {
	contacts, err := h.contacts.ListUrgent()
	if err != nil {
		respondError(c, err, h.production)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"contacts": contacts,
		"total":    len(contacts),
	})
}

// Get handles GET /contacts/:id. Fetching a record marks it read.
func (h *ContactHandler) Get(c *gin.Context) {
	readerID := ""
	if userCtx, exists := middleware.GetUserContext(c); exists {
		readerID = userCtx.UserID
	}

	contact, err := h.contacts.Get(c.Param("id"), readerID)
	if err != nil {
		respondError(c, err, h.production)
		return
	}

	c.JSON(http.StatusOK, contact)
}

// Update handles PUT /contacts/:id
func (h *ContactHandler) Update(c *gin.Context) {
	var req models.UpdateContactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	contact, err := h.contacts.Update(c.Param("id"), &req)
	if err != nil {
		respondError(c, err, h.production)
		return
	}

	c.JSON(http.StatusOK, contact)
}

// Respond handles POST /contacts/:id/respond
func (h *ContactHandler) Respond(c *gin.Context) {
	var req models.RespondRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	responderID := ""
	if userCtx, exists := middleware.GetUserContext(c); exists {
		responderID = userCtx.UserID
	}

	contact, err := h.contacts.Respond(c.Param("id"), &req, responderID)
	if err != nil {
		respondError(c, err, h.production)
		return
	}

	c.JSON(http.StatusOK, contact)
}

// Delete handles DELETE /contacts/:id
func (h *ContactHandler) Delete(c *gin.Context) {
	if err := h.contacts.Delete(c.Param("id")); err != nil {
		respondError(c, err, h.production)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Contact deleted"})
}

// Stats handles GET /contacts/stats/summary
func (h *ContactHandler) Stats(c *gin.Context) {
	stats, err := h.contacts.Stats()
	if err != nil {
		respondError(c, err, h.production)
		return
	}

	c.JSON(http.StatusOK, stats)
}

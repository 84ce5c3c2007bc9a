package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/citytransit/fleet-admin-backend/internal/models"
	"github.com/citytransit/fleet-admin-backend/internal/services"
)

// RouteHandler handles HTTP requests for bus routes
type RouteHandler struct {
	routes     *services.RouteService
	production bool
}

// NewRouteHandler creates a new RouteHandler
func NewRouteHandler(routes *services.RouteService, production bool) *RouteHandler {
	return &RouteHandler{routes: routes, production: production}
}

// Create handles POST /routes
func (h *RouteHandler) Create(c *gin.Context) {
	var req models.CreateRouteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	route, err := h.routes.CreateRoute(&req)
	if err != nil {
		respondError(c, err, h.production)
		return
	}

	c.JSON(http.StatusCreated, route)
}

// List handles GET /routes
func (h *RouteHandler) List(c *gin.Context) {
	page, limit := parsePagination(c)
	filter := models.RouteListFilter{
		Status: c.Query("status"),
		Page:   page,
		Limit:  limit,
	}

	routes, total, err := h.routes.ListRoutes(filter)
	if err != nil {
		respondError(c, err, h.production)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"routes": routes,
		"total":  total,
		"page":   page,
		"pages":  totalPages(total, limit),
	})
}

// Get handles GET /routes/:id
func (h *RouteHandler) Get(c *gin.Context) {
	route, err := h.routes.GetRoute(c.Param("id"))
	if err != nil {
		respondError(c, err, h.production)
		return
	}

	c.JSON(http.StatusOK, route)
}

// Update handles PUT /routes/:id
func (h *RouteHandler) Update(c *gin.Context) {
	var req models.UpdateRouteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	route, err := h.routes.UpdateRoute(c.Param("id"), &req)
	if err != nil {
		respondError(c, err, h.production)
		return
	}

	c.JSON(http.StatusOK, route)
}

// Delete handles DELETE /routes/:id
func (h *RouteHandler) Delete(c *gin.Context) {
	if err := h.routes.DeleteRoute(c.Param("id")); err != nil {
		respondError(c, err, h.production)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Route deleted"})
}

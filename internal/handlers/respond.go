package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/citytransit/fleet-admin-backend/internal/models"
	"github.com/citytransit/fleet-admin-backend/internal/services"
)

const (
	defaultPageSize = 10
	maxPageSize     = 100
)

// respondError maps service-layer errors to HTTP responses. Internal error
// detail is withheld in production.
func respondError(c *gin.Context, err error, production bool) {
	var validationErr *models.ValidationError
	if errors.As(err, &validationErr) {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "validation_error",
			"message": validationErr.Message,
			"field":   validationErr.Field,
		})
		return
	}

	switch {
	case errors.Is(err, services.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{
			"error":   "not_found",
			"message": err.Error(),
		})
	case errors.Is(err, services.ErrDuplicateActiveContact),
		errors.Is(err, services.ErrDuplicateBusNumber),
		errors.Is(err, services.ErrDuplicateRouteNumber),
		errors.Is(err, services.ErrDuplicateStaffEmail):
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "duplicate",
			"message": err.Error(),
		})
	case errors.Is(err, services.ErrInvalidReference),
		errors.Is(err, services.ErrInvalidTimeWindow):
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid_request",
			"message": err.Error(),
		})
	case errors.Is(err, services.ErrInvalidCredentials),
		errors.Is(err, services.ErrInvalidToken),
		errors.Is(err, services.ErrAccountDisabled):
		c.JSON(http.StatusUnauthorized, gin.H{
			"error":   "unauthorized",
			"message": err.Error(),
		})
	default:
		message := "An internal error occurred"
		if !production {
			message = err.Error()
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "internal_error",
			"message": message,
		})
	}
}

// respondBindError reports a JSON binding failure
func respondBindError(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, gin.H{
		"error":   "invalid_request",
		"message": err.Error(),
	})
}

// parsePagination reads page and limit query params with sane bounds
func parsePagination(c *gin.Context) (page, limit int) {
	page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	if page < 1 {
		page = 1
	}

	limit, _ = strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(defaultPageSize)))
	if limit < 1 {
		limit = defaultPageSize
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}

	return page, limit
}

// totalPages computes the page count for a paginated listing
func totalPages(total int64, limit int) int64 {
	if limit <= 0 {
		if total > 0 {
			return 1
		}
		return 0
	}
	pages := total / int64(limit)
	if total%int64(limit) != 0 {
		pages++
	}
	return pages
}

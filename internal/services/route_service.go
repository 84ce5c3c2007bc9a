package services

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/citytransit/fleet-admin-backend/internal/database"
	"github.com/citytransit/fleet-admin-backend/internal/models"
)

// RouteStore is the persistence surface the route service depends on
type RouteStore interface {
	Create(route *models.Route) error
	GetByID(id string) (*models.Route, error)
	GetByRouteNumber(routeNumber, excludeID string) (*models.Route, error)
	List(filter models.RouteListFilter) ([]models.Route, error)
	Count(filter models.RouteListFilter) (int64, error)
	Update(id string, req *models.UpdateRouteRequest) error
	Delete(id string) error
}

// RouteService handles business logic for routes
type RouteService struct {
	routes RouteStore
	logger *logrus.Logger
}

// NewRouteService creates a new RouteService
func NewRouteService(routes RouteStore, logger *logrus.Logger) *RouteService {
	return &RouteService{routes: routes, logger: logger}
}

// CreateRoute registers a new route. Stop order is stored exactly as
// submitted and never reindexed.
func (s *RouteService) CreateRoute(req *models.CreateRouteRequest) (*models.Route, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	routeNumber := strings.ToUpper(strings.TrimSpace(req.RouteNumber))
	existing, err := s.routes.GetByRouteNumber(routeNumber, "")
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrDuplicateRouteNumber
	}

	route := &models.Route{
		RouteNumber:    routeNumber,
		Name:           req.Name,
		StartLocation:  req.StartLocation,
		EndLocation:    req.EndLocation,
		Stops:          models.StopList(req.Stops),
		Distance:       req.Distance,
		Duration:       req.Duration,
		OperatingHours: req.OperatingHours,
		Frequency:      req.Frequency,
		Fare:           *req.Fare,
		Status:         models.RouteStatus(req.Status),
	}
	if route.Status == "" {
		route.Status = models.RouteStatusActive
	}

	if err := s.routes.Create(route); err != nil {
		if database.IsUniqueViolation(err, "") {
			return nil, ErrDuplicateRouteNumber
		}
		return nil, err
	}

	s.logger.WithFields(logrus.Fields{
		"route_id":     route.ID,
		"route_number": route.RouteNumber,
	}).Info("Route created")

	return route, nil
}

// GetRoute retrieves a route by id
func (s *RouteService) GetRoute(id string) (*models.Route, error) {
	route, err := s.routes.GetByID(id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return route, nil
}

// ListRoutes retrieves routes and the unpaged total for the same filter
func (s *RouteService) ListRoutes(filter models.RouteListFilter) ([]models.Route, int64, error) {
	routes, err := s.routes.List(filter)
	if err != nil {
		return nil, 0, err
	}

	total, err := s.routes.Count(filter)
	if err != nil {
		return nil, 0, err
	}

	return routes, total, nil
}

// UpdateRoute applies a partial update, re-checking number uniqueness when
// the number changes
func (s *RouteService) UpdateRoute(id string, req *models.UpdateRouteRequest) (*models.Route, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	if req.RouteNumber != nil {
		existing, err := s.routes.GetByRouteNumber(strings.ToUpper(strings.TrimSpace(*req.RouteNumber)), id)
		if err != nil {
			return nil, err
		}
		if existing != nil {
			return nil, ErrDuplicateRouteNumber
		}
	}

	if err := s.routes.Update(id, req); err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrNotFound
		}
		if database.IsUniqueViolation(err, "") {
			return nil, ErrDuplicateRouteNumber
		}
		return nil, err
	}

	route, err := s.routes.GetByID(id)
	if err != nil {
		return nil, fmt.Errorf("failed to reload route: %w", err)
	}

	return route, nil
}

// DeleteRoute removes a route permanently. Buses and schedules keep their
// stored reference values.
func (s *RouteService) DeleteRoute(id string) error {
	err := s.routes.Delete(id)
	if err == sql.ErrNoRows {
		return ErrNotFound
	}
	return err
}

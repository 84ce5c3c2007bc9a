package services

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/citytransit/fleet-admin-backend/internal/database"
	"github.com/citytransit/fleet-admin-backend/internal/models"
)

// maintenanceInterval is the default window applied when a new bus has no
// scheduled maintenance date.
const maintenanceInterval = 90 * 24 * time.Hour

// BusStore is the persistence surface the fleet service depends on
type BusStore interface {
	Create(bus *models.Bus) error
	GetByID(id string) (*models.Bus, error)
	GetByBusNumber(busNumber, excludeID string) (*models.Bus, error)
	List(filter models.BusListFilter) ([]models.Bus, error)
	Count(filter models.BusListFilter) (int64, error)
	Update(id string, req *models.UpdateBusRequest) error
	Delete(id string) error
	Stats() (*models.FleetStats, error)
}

// FleetService handles business logic for the bus fleet
type FleetService struct {
	buses    BusStore
	resolver *Resolver
	logger   *logrus.Logger
}

// NewFleetService creates a new FleetService
func NewFleetService(buses BusStore, resolver *Resolver, logger *logrus.Logger) *FleetService {
	return &FleetService{
		buses:    buses,
		resolver: resolver,
		logger:   logger,
	}
}

// CreateBus registers a new vehicle. The fleet number is upper-cased before
// the uniqueness check so casing differences collide.
func (s *FleetService) CreateBus(req *models.CreateBusRequest) (*models.Bus, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	busNumber := strings.ToUpper(strings.TrimSpace(req.BusNumber))
	existing, err := s.buses.GetByBusNumber(busNumber, "")
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrDuplicateBusNumber
	}

	bus := &models.Bus{
		BusNumber:    busNumber,
		Capacity:     req.Capacity,
		Type:         models.BusType(req.Type),
		Status:       models.BusStatus(req.Status),
		Model:        req.Model,
		Year:         req.Year,
		LicensePlate: req.LicensePlate,
		FuelType:     models.FuelType(req.FuelType),
		Features:     models.StringList(req.Features),
	}
	if req.Mileage != nil {
		bus.Mileage = *req.Mileage
	}
	if bus.Type == "" {
		bus.Type = models.BusTypeStandard
	}
	if bus.Status == "" {
		bus.Status = models.BusStatusActive
	}
	if bus.FuelType == "" {
		bus.FuelType = models.FuelDiesel
	}

	if req.Driver != "" {
		driver, err := s.resolver.ResolveDriver(req.Driver)
		if err != nil {
			return nil, err
		}
		if driver != "" {
			bus.Driver = &driver
		}
	}
	if req.Route != "" {
		route, err := s.resolver.ResolveRoute(req.Route)
		if err != nil {
			return nil, err
		}
		if route != "" {
			bus.Route = &route
		}
	}

	if req.NextMaintenance != nil {
		t, err := time.Parse("2006-01-02", *req.NextMaintenance)
		if err != nil {
			return nil, models.NewValidationError("next_maintenance", "invalid date format, expected YYYY-MM-DD")
		}
		bus.NextMaintenance = &t
	} else {
		next := time.Now().Add(maintenanceInterval)
		bus.NextMaintenance = &next
	}

	if err := s.buses.Create(bus); err != nil {
		if database.IsUniqueViolation(err, "") {
			return nil, ErrDuplicateBusNumber
		}
		return nil, err
	}

	s.logger.WithFields(logrus.Fields{
		"bus_id":     bus.ID,
		"bus_number": bus.BusNumber,
	}).Info("Bus registered")

	return bus, nil
}

// GetBus retrieves a bus by id
func (s *FleetService) GetBus(id string) (*models.Bus, error) {
	bus, err := s.buses.GetByID(id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return bus, nil
}

// ListBuses retrieves buses and the unpaged total for the same filter
func (s *FleetService) ListBuses(filter models.BusListFilter) ([]models.Bus, int64, error) {
	buses, err := s.buses.List(filter)
	if err != nil {
		return nil, 0, err
	}

	total, err := s.buses.Count(filter)
	if err != nil {
		return nil, 0, err
	}

	return buses, total, nil
}

// UpdateBus applies a partial update. Driver and route carry three-way
// semantics: a nil pointer is untouched, an empty string clears the
// assignment, a non-empty value goes through the resolver.
func (s *FleetService) UpdateBus(id string, req *models.UpdateBusRequest) (*models.Bus, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	if req.BusNumber != nil {
		busNumber := strings.ToUpper(strings.TrimSpace(*req.BusNumber))
		existing, err := s.buses.GetByBusNumber(busNumber, id)
		if err != nil {
			return nil, err
		}
		if existing != nil {
			return nil, ErrDuplicateBusNumber
		}
	}

	if req.Driver != nil && *req.Driver != "" {
		driver, err := s.resolver.ResolveDriver(*req.Driver)
		if err != nil {
			return nil, err
		}
		req.Driver = &driver
	}
	if req.Route != nil && *req.Route != "" {
		route, err := s.resolver.ResolveRoute(*req.Route)
		if err != nil {
			return nil, err
		}
		req.Route = &route
	}

	if err := s.buses.Update(id, req); err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrNotFound
		}
		if database.IsUniqueViolation(err, "") {
			return nil, ErrDuplicateBusNumber
		}
		return nil, err
	}

	bus, err := s.buses.GetByID(id)
	if err != nil {
		return nil, fmt.Errorf("failed to reload bus: %w", err)
	}

	return bus, nil
}

// DeleteBus removes a bus permanently. Schedules referencing it keep their
// stored value; there is no cascade.
func (s *FleetService) DeleteBus(id string) error {
	err := s.buses.Delete(id)
	if err == sql.ErrNoRows {
		return ErrNotFound
	}
	return err
}

// FleetStats aggregates fleet-wide figures
func (s *FleetService) FleetStats() (*models.FleetStats, error) {
	return s.buses.Stats()
}

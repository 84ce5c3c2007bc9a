package services

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/citytransit/fleet-admin-backend/internal/models"
)

// ScheduleStore is the persistence surface the schedule service depends on
type ScheduleStore interface {
	Create(schedule *models.Schedule) error
	GetByID(id string) (*models.Schedule, error)
	List(filter models.ScheduleListFilter) ([]models.Schedule, error)
	Count(filter models.ScheduleListFilter) (int64, error)
	Update(id string, req *models.UpdateScheduleRequest) error
	SetDelays(id string, delays models.DelayList, status models.ScheduleStatus) error
	Delete(id string) error
}

// ScheduleService handles business logic for scheduled trips
type ScheduleService struct {
	schedules ScheduleStore
	resolver  *Resolver
	logger    *logrus.Logger
}

// NewScheduleService creates a new ScheduleService
func NewScheduleService(schedules ScheduleStore, resolver *Resolver, logger *logrus.Logger) *ScheduleService {
	return &ScheduleService{
		schedules: schedules,
		resolver:  resolver,
		logger:    logger,
	}
}

// CreateSchedule registers a new trip. Arrival must fall strictly after
// departure.
func (s *ScheduleService) CreateSchedule(req *models.CreateScheduleRequest) (*models.Schedule, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	if !req.ArrivalTime.After(req.DepartureTime) {
		return nil, ErrInvalidTimeWindow
	}

	route, err := s.resolver.ResolveRoute(req.Route)
	if err != nil {
		return nil, err
	}
	bus, err := s.resolver.ResolveBus(req.Bus)
	if err != nil {
		return nil, err
	}

	schedule := &models.Schedule{
		Route:         route,
		Bus:           bus,
		DepartureTime: req.DepartureTime,
		ArrivalTime:   req.ArrivalTime,
		Status:        models.ScheduleStatus(req.Status),
		Notes:         req.Notes,
		Delays:        models.DelayList{},
	}
	if schedule.Status == "" {
		schedule.Status = models.ScheduleStatusScheduled
	}

	if req.Driver != "" {
		driver, err := s.resolver.ResolveDriver(req.Driver)
		if err != nil {
			return nil, err
		}
		if driver != "" {
			schedule.Driver = &driver
		}
	}

	if err := s.schedules.Create(schedule); err != nil {
		return nil, err
	}

	s.logger.WithFields(logrus.Fields{
		"schedule_id": schedule.ID,
		"route":       schedule.Route,
		"departure":   schedule.DepartureTime,
	}).Info("Schedule created")

	return schedule, nil
}

// GetSchedule retrieves a schedule by id
func (s *ScheduleService) GetSchedule(id string) (*models.Schedule, error) {
	schedule, err := s.schedules.GetByID(id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return schedule, nil
}

// ListSchedules retrieves schedules and the unpaged total for the same filter
func (s *ScheduleService) ListSchedules(filter models.ScheduleListFilter) ([]models.Schedule, int64, error) {
	schedules, err := s.schedules.List(filter)
	if err != nil {
		return nil, 0, err
	}

	total, err := s.schedules.Count(filter)
	if err != nil {
		return nil, 0, err
	}

	return schedules, total, nil
}

// UpdateSchedule applies a partial update. The time-window rule is enforced
// against the merged record, so changing only one endpoint still cannot
// produce arrival at or before departure.
func (s *ScheduleService) UpdateSchedule(id string, req *models.UpdateScheduleRequest) (*models.Schedule, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	current, err := s.schedules.GetByID(id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, err
	}

	departure := current.DepartureTime
	arrival := current.ArrivalTime
	if req.DepartureTime != nil {
		departure = *req.DepartureTime
	}
	if req.ArrivalTime != nil {
		arrival = *req.ArrivalTime
	}
	if !arrival.After(departure) {
		return nil, ErrInvalidTimeWindow
	}

	if req.Route != nil && *req.Route != "" {
		route, err := s.resolver.ResolveRoute(*req.Route)
		if err != nil {
			return nil, err
		}
		req.Route = &route
	}
	if req.Bus != nil && *req.Bus != "" {
		bus, err := s.resolver.ResolveBus(*req.Bus)
		if err != nil {
			return nil, err
		}
		req.Bus = &bus
	}
	if req.Driver != nil && *req.Driver != "" {
		driver, err := s.resolver.ResolveDriver(*req.Driver)
		if err != nil {
			return nil, err
		}
		req.Driver = &driver
	}

	if err := s.schedules.Update(id, req); err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, err
	}

	schedule, err := s.schedules.GetByID(id)
	if err != nil {
		return nil, fmt.Errorf("failed to reload schedule: %w", err)
	}

	return schedule, nil
}

// AddDelay appends a delay record and flips the trip to delayed. Existing
// delay entries are never modified or removed.
func (s *ScheduleService) AddDelay(id string, req *models.AddDelayRequest) (*models.Schedule, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	schedule, err := s.schedules.GetByID(id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, err
	}

	delays := append(schedule.Delays, models.Delay{
		Reason:    req.Reason,
		Duration:  req.Duration,
		Timestamp: time.Now(),
	})

	if err := s.schedules.SetDelays(id, delays, models.ScheduleStatusDelayed); err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, err
	}

	schedule, err = s.schedules.GetByID(id)
	if err != nil {
		return nil, fmt.Errorf("failed to reload schedule: %w", err)
	}

	s.logger.WithFields(logrus.Fields{
		"schedule_id": id,
		"reason":      req.Reason,
		"duration":    req.Duration,
	}).Info("Delay recorded")

	return schedule, nil
}

// DeleteSchedule removes a schedule permanently
func (s *ScheduleService) DeleteSchedule(id string) error {
	err := s.schedules.Delete(id)
	if err == sql.ErrNoRows {
		return ErrNotFound
	}
	return err
}

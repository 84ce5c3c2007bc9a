package services

import (
	"math"

	"github.com/sirupsen/logrus"

	"github.com/citytransit/fleet-admin-backend/internal/database"
	"github.com/citytransit/fleet-admin-backend/internal/models"
)

var weekdayLabels = []string{"Mon", "Tue", "Wed", "Thu", "Fri", "Sat", "Sun"}

// DashboardStore is the aggregate read surface the dashboard depends on
type DashboardStore interface {
	FleetStats() (*models.FleetStats, error)
	CountRoutes(status string) (int64, error)
	CountSchedules(status string) (int64, error)
	CountSchedulesToday() (int64, error)
	CountContacts(status string) (int64, error)
}

// DashboardService aggregates cross-entity figures for the admin dashboard.
// The dashboard always renders, so every failure degrades to the zero-valued
// payload instead of an error response.
type DashboardService struct {
	store  DashboardStore
	logger *logrus.Logger
}

// NewDashboardService creates a new DashboardService
func NewDashboardService(store DashboardStore, logger *logrus.Logger) *DashboardService {
	return &DashboardService{store: store, logger: logger}
}

// emptyStats returns the documented zero-valued payload
func emptyStats() *models.DashboardStats {
	return &models.DashboardStats{
		Overview: models.Overview{
			Revenue: models.Revenue{Currency: "USD"},
		},
		RecentAlerts:     []models.Alert{},
		RoutePerformance: []models.RoutePerformance{},
		WeeklyTrends: models.WeeklyTrends{
			Passengers: make([]int64, len(weekdayLabels)),
			Revenue:    make([]float64, len(weekdayLabels)),
			Efficiency: make([]int64, len(weekdayLabels)),
			Labels:     weekdayLabels,
		},
	}
}

// Stats builds the dashboard payload. Never returns an error.
func (s *DashboardService) Stats() *models.DashboardStats {
	stats := emptyStats()

	fleet, err := s.store.FleetStats()
	if err != nil {
		return s.failOpen("fleet stats", err)
	}
	stats.Overview.TotalFleet = fleet.TotalBuses
	stats.Overview.ActiveVehicles = fleet.ActiveBuses
	stats.FleetStatus.Active = fleet.ActiveBuses
	stats.FleetStatus.Maintenance = fleet.MaintenanceBuses
	stats.FleetStatus.OutOfService = fleet.OutOfServiceBuses

	idle := fleet.TotalBuses - fleet.ActiveBuses - fleet.MaintenanceBuses - fleet.OutOfServiceBuses
	if idle < 0 {
		idle = 0
	}
	stats.FleetStatus.Idle = idle

	if fleet.TotalBuses > 0 {
		stats.Overview.Efficiency = int64(math.Round(
			float64(fleet.ActiveBuses) / float64(fleet.TotalBuses) * 100))
	}

	routes, err := s.store.CountRoutes("")
	if err != nil {
		return s.failOpen("route count", err)
	}
	stats.Overview.TotalRoutes = routes

	schedules, err := s.store.CountSchedules("")
	if err != nil {
		return s.failOpen("schedule count", err)
	}
	stats.Overview.TotalSchedules = schedules

	today, err := s.store.CountSchedulesToday()
	if err != nil {
		return s.failOpen("today's schedule count", err)
	}
	stats.Overview.TodaySchedules = today

	contacts, err := s.store.CountContacts("")
	if err != nil {
		return s.failOpen("contact count", err)
	}
	stats.Overview.TotalContacts = contacts

	return stats
}

// Overview builds only the headline section, with the same degradation rule
func (s *DashboardService) Overview() *models.Overview {
	stats := s.Stats()
	return &stats.Overview
}

// FleetStatus builds only the fleet breakdown, with the same degradation rule
func (s *DashboardService) FleetStatus() *models.FleetStatusSummary {
	stats := s.Stats()
	return &stats.FleetStatus
}

func (s *DashboardService) failOpen(stage string, err error) *models.DashboardStats {
	s.logger.WithError(err).WithField("stage", stage).Error("Dashboard aggregation failed, serving zero-valued stats")
	return emptyStats()
}

// RepositoryAggregate adapts the entity repositories to the DashboardStore
// surface
type RepositoryAggregate struct {
	Buses     *database.BusRepository
	Routes    *database.RouteRepository
	Schedules *database.ScheduleRepository
	Contacts  *database.ContactRepository
}

// FleetStats delegates to the bus repository
func (a *RepositoryAggregate) FleetStats() (*models.FleetStats, error) {
	return a.Buses.Stats()
}

// CountRoutes delegates to the route repository
func (a *RepositoryAggregate) CountRoutes(status string) (int64, error) {
	return a.Routes.CountByStatus(status)
}

// CountSchedules delegates to the schedule repository
func (a *RepositoryAggregate) CountSchedules(status string) (int64, error) {
	return a.Schedules.CountByStatus(status)
}

// CountSchedulesToday delegates to the schedule repository
func (a *RepositoryAggregate) CountSchedulesToday() (int64, error) {
	return a.Schedules.CountDepartingToday()
}

// CountContacts delegates to the contact repository
func (a *RepositoryAggregate) CountContacts(status string) (int64, error) {
	return a.Contacts.CountByStatus(status)
}

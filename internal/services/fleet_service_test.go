package services

import (
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/citytransit/fleet-admin-backend/internal/database"
	"github.com/citytransit/fleet-admin-backend/internal/models"
)

// fakeBusStore is an in-memory BusStore
type fakeBusStore struct {
	buses map[string]*models.Bus
}

func newFakeBusStore() *fakeBusStore {
	return &fakeBusStore{buses: map[string]*models.Bus{}}
}

func (f *fakeBusStore) Create(bus *models.Bus) error {
	if bus.ID == "" {
		bus.ID = database.NewID()
	}
	bus.CreatedAt = time.Now()
	bus.UpdatedAt = bus.CreatedAt
	stored := *bus
	f.buses[bus.ID] = &stored
	return nil
}

func (f *fakeBusStore) GetByID(id string) (*models.Bus, error) {
	bus, ok := f.buses[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	copied := *bus
	return &copied, nil
}

func (f *fakeBusStore) GetByBusNumber(busNumber, excludeID string) (*models.Bus, error) {
	for _, bus := range f.buses {
		if bus.BusNumber == busNumber && bus.ID != excludeID {
			copied := *bus
			return &copied, nil
		}
	}
	return nil, nil
}

func (f *fakeBusStore) List(filter models.BusListFilter) ([]models.Bus, error) {
	result := []models.Bus{}
	for _, bus := range f.buses {
		if filter.Status != "" && string(bus.Status) != filter.Status {
			continue
		}
		result = append(result, *bus)
	}
	return result, nil
}

func (f *fakeBusStore) Count(filter models.BusListFilter) (int64, error) {
	buses, _ := f.List(filter)
	return int64(len(buses)), nil
}

func (f *fakeBusStore) Update(id string, req *models.UpdateBusRequest) error {
	bus, ok := f.buses[id]
	if !ok {
		return sql.ErrNoRows
	}
	if req.BusNumber != nil {
		bus.BusNumber = *req.BusNumber
	}
	if req.Status != nil {
		bus.Status = models.BusStatus(*req.Status)
	}
	if req.Driver != nil {
		if *req.Driver == "" {
			bus.Driver = nil
		} else {
			bus.Driver = req.Driver
		}
	}
	if req.Route != nil {
		if *req.Route == "" {
			bus.Route = nil
		} else {
			bus.Route = req.Route
		}
	}
	if req.Capacity != nil {
		bus.Capacity = *req.Capacity
	}
	bus.UpdatedAt = time.Now()
	return nil
}

func (f *fakeBusStore) Delete(id string) error {
	if _, ok := f.buses[id]; !ok {
		return sql.ErrNoRows
	}
	delete(f.buses, id)
	return nil
}

func (f *fakeBusStore) Stats() (*models.FleetStats, error) {
	stats := &models.FleetStats{BusByType: map[string]int64{}}
	for _, bus := range f.buses {
		stats.TotalBuses++
		stats.TotalCapacity += int64(bus.Capacity)
		stats.TotalMileage += bus.Mileage
		stats.BusByType[string(bus.Type)]++
		switch bus.Status {
		case models.BusStatusActive:
			stats.ActiveBuses++
		case models.BusStatusMaintenance:
			stats.MaintenanceBuses++
		case models.BusStatusOutOfService:
			stats.OutOfServiceBuses++
		}
	}
	return stats, nil
}

func newFleetService(store *fakeBusStore, resolver *Resolver) *FleetService {
	if resolver == nil {
		resolver = resolverWith("", "", "")
	}
	return NewFleetService(store, resolver, testLogger())
}

func validCreateBusRequest() *models.CreateBusRequest {
	return &models.CreateBusRequest{
		BusNumber: "bus-042",
		Capacity:  52,
	}
}

func TestCreateBus(t *testing.T) {
	t.Run("Uppercases Number And Applies Defaults", func(t *testing.T) {
		store := newFakeBusStore()
		svc := newFleetService(store, nil)

		bus, err := svc.CreateBus(validCreateBusRequest())
		require.NoError(t, err)
		assert.Equal(t, "BUS-042", bus.BusNumber)
		assert.Equal(t, models.BusTypeStandard, bus.Type)
		assert.Equal(t, models.BusStatusActive, bus.Status)
		assert.Equal(t, models.FuelDiesel, bus.FuelType)
	})

	t.Run("Default Maintenance Window", func(t *testing.T) {
		store := newFakeBusStore()
		svc := newFleetService(store, nil)

		bus, err := svc.CreateBus(validCreateBusRequest())
		require.NoError(t, err)
		require.NotNil(t, bus.NextMaintenance)

		expected := time.Now().Add(maintenanceInterval)
		assert.WithinDuration(t, expected, *bus.NextMaintenance, time.Minute)
	})

	t.Run("Duplicate Number Differing Only In Case", func(t *testing.T) {
		store := newFakeBusStore()
		svc := newFleetService(store, nil)

		_, err := svc.CreateBus(validCreateBusRequest())
		require.NoError(t, err)

		req := validCreateBusRequest()
		req.BusNumber = "Bus-042"
		_, err = svc.CreateBus(req)
		assert.ErrorIs(t, err, ErrDuplicateBusNumber)
	})

	t.Run("Driver Label Stored Verbatim", func(t *testing.T) {
		store := newFakeBusStore()
		svc := newFleetService(store, nil)

		req := validCreateBusRequest()
		req.Driver = "K. Fernando"
		bus, err := svc.CreateBus(req)
		require.NoError(t, err)
		require.NotNil(t, bus.Driver)
		assert.Equal(t, "K. Fernando", *bus.Driver)
	})

	t.Run("Unknown Driver Reference Rejected", func(t *testing.T) {
		store := newFakeBusStore()
		svc := newFleetService(store, nil)

		req := validCreateBusRequest()
		req.Driver = "aaaaaaaaaaaaaaaaaaaaaaaa"
		_, err := svc.CreateBus(req)
		assert.ErrorIs(t, err, ErrInvalidReference)
	})
}

func TestUpdateBusThreeWaySemantics(t *testing.T) {
	driverID := "507f1f77bcf86cd799439011"
	store := newFakeBusStore()
	svc := newFleetService(store, resolverWith(driverID, "", ""))

	req := validCreateBusRequest()
	req.Driver = "K. Fernando"
	bus, err := svc.CreateBus(req)
	require.NoError(t, err)

	t.Run("Absent Pointer Leaves Assignment", func(t *testing.T) {
		capacity := 48
		updated, err := svc.UpdateBus(bus.ID, &models.UpdateBusRequest{Capacity: &capacity})
		require.NoError(t, err)
		require.NotNil(t, updated.Driver)
		assert.Equal(t, "K. Fernando", *updated.Driver)
	})

	t.Run("Reference Resolved To Canonical Id", func(t *testing.T) {
		updated, err := svc.UpdateBus(bus.ID, &models.UpdateBusRequest{Driver: strPtr(driverID)})
		require.NoError(t, err)
		require.NotNil(t, updated.Driver)
		assert.Equal(t, driverID, *updated.Driver)
	})

	t.Run("Empty String Clears", func(t *testing.T) {
		updated, err := svc.UpdateBus(bus.ID, &models.UpdateBusRequest{Driver: strPtr("")})
		require.NoError(t, err)
		assert.Nil(t, updated.Driver)
	})

	t.Run("Number Uniqueness Excludes Self", func(t *testing.T) {
		updated, err := svc.UpdateBus(bus.ID, &models.UpdateBusRequest{BusNumber: strPtr("BUS-042")})
		require.NoError(t, err)
		assert.Equal(t, "BUS-042", updated.BusNumber)
	})
}

func TestDeleteBus(t *testing.T) {
	store := newFakeBusStore()
	svc := newFleetService(store, nil)

	bus, err := svc.CreateBus(validCreateBusRequest())
	require.NoError(t, err)

	require.NoError(t, svc.DeleteBus(bus.ID))
	assert.ErrorIs(t, svc.DeleteBus(bus.ID), ErrNotFound)
}

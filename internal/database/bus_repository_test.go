package database

import (
	"database/sql"
	"database/sql/driver"
	"fmt"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/citytransit/fleet-admin-backend/internal/models"
)

var busRowColumns = []string{
	"id", "bus_number", "capacity", "type", "status", "driver", "route",
	"model", "year", "license_plate", "fuel_type", "last_maintenance",
	"next_maintenance", "mileage", "features", "created_at", "updated_at",
}

func sampleBusRow(id string, now time.Time) []driver.Value {
	return []driver.Value{
		id, "BUS-042", 52, "standard", "active", nil, nil,
		nil, nil, nil, "diesel", nil,
		now.AddDate(0, 0, 90), 12500.5, []byte(`{wifi,ac}`), now, now,
	}
}

func TestCreateBus(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewBusRepository(&mockDatabase{db: db})

	t.Run("Success", func(t *testing.T) {
		now := time.Now()
		mock.ExpectQuery(`INSERT INTO buses`).
			WillReturnRows(sqlmock.NewRows([]string{"created_at", "updated_at"}).
				AddRow(now, now))

		bus := &models.Bus{
			BusNumber: "BUS-042",
			Capacity:  52,
			Type:      models.BusTypeStandard,
			Status:    models.BusStatusActive,
			FuelType:  models.FuelDiesel,
		}

		err := repo.Create(bus)
		require.NoError(t, err)
		assert.Len(t, bus.ID, 24)
		assert.NotNil(t, bus.Features)

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Database Error", func(t *testing.T) {
		mock.ExpectQuery(`INSERT INTO buses`).
			WillReturnError(fmt.Errorf("database error"))

		err := repo.Create(&models.Bus{BusNumber: "BUS-042"})
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "failed to create bus")

		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGetBusByNumber(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewBusRepository(&mockDatabase{db: db})

	t.Run("Found", func(t *testing.T) {
		id := NewID()
		mock.ExpectQuery(`SELECT (.+) FROM buses WHERE bus_number = \$1`).
			WithArgs("BUS-042").
			WillReturnRows(sqlmock.NewRows(busRowColumns).
				AddRow(sampleBusRow(id, time.Now())...))

		bus, err := repo.GetByBusNumber("BUS-042", "")
		require.NoError(t, err)
		require.NotNil(t, bus)
		assert.Equal(t, id, bus.ID)
		assert.Equal(t, models.StringList{"wifi", "ac"}, bus.Features)

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("None", func(t *testing.T) {
		mock.ExpectQuery(`SELECT (.+) FROM buses WHERE bus_number = \$1`).
			WithArgs("BUS-999").
			WillReturnError(sql.ErrNoRows)

		bus, err := repo.GetByBusNumber("BUS-999", "")
		require.NoError(t, err)
		assert.Nil(t, bus)

		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestUpdateBus(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewBusRepository(&mockDatabase{db: db})
	id := NewID()

	t.Run("Uppercases Bus Number", func(t *testing.T) {
		busNumber := " bus-042 "

		mock.ExpectExec(`UPDATE buses SET bus_number = \$1`).
			WithArgs("BUS-042", id).
			WillReturnResult(sqlmock.NewResult(0, 1))

		err := repo.Update(id, &models.UpdateBusRequest{BusNumber: &busNumber})
		require.NoError(t, err)

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Clears Driver With Empty String", func(t *testing.T) {
		empty := ""

		mock.ExpectExec(`UPDATE buses SET driver = NULL, updated_at = NOW\(\) WHERE id = \$1`).
			WithArgs(id).
			WillReturnResult(sqlmock.NewResult(0, 1))

		err := repo.Update(id, &models.UpdateBusRequest{Driver: &empty})
		require.NoError(t, err)

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Invalid Maintenance Date", func(t *testing.T) {
		bad := "03-01-2026"

		err := repo.Update(id, &models.UpdateBusRequest{NextMaintenance: &bad})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid date format")
	})

	t.Run("Not Found", func(t *testing.T) {
		capacity := 40
		mock.ExpectExec(`UPDATE buses SET capacity = \$1`).
			WithArgs(capacity, id).
			WillReturnResult(sqlmock.NewResult(0, 0))

		err := repo.Update(id, &models.UpdateBusRequest{Capacity: &capacity})
		assert.Equal(t, sql.ErrNoRows, err)

		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestListBuses(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewBusRepository(&mockDatabase{db: db})

	mock.ExpectQuery(`SELECT (.+) FROM buses WHERE status = \$1 ORDER BY created_at DESC LIMIT 20 OFFSET 0`).
		WithArgs("active").
		WillReturnRows(sqlmock.NewRows(busRowColumns).
			AddRow(sampleBusRow(NewID(), time.Now())...))

	buses, err := repo.List(models.BusListFilter{Status: "active", Page: 1, Limit: 20})
	require.NoError(t, err)
	assert.Len(t, buses, 1)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFleetStats(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewBusRepository(&mockDatabase{db: db})

	t.Run("Aggregates", func(t *testing.T) {
		mock.ExpectQuery(`SELECT\s+COUNT\(\*\)`).
			WillReturnRows(sqlmock.NewRows([]string{
				"total", "active", "maintenance", "out_of_service",
				"capacity", "avg_mileage", "total_mileage",
			}).AddRow(10, 8, 1, 1, 480, 15000.4, 150004.0))

		mock.ExpectQuery(`SELECT type, COUNT\(\*\) FROM buses GROUP BY type`).
			WillReturnRows(sqlmock.NewRows([]string{"type", "count"}).
				AddRow("standard", 7).
				AddRow("mini", 3))

		stats, err := repo.Stats()
		require.NoError(t, err)
		assert.Equal(t, int64(10), stats.TotalBuses)
		assert.Equal(t, int64(8), stats.ActiveBuses)
		assert.Equal(t, int64(80), stats.UtilizationRate)
		assert.Equal(t, int64(15000), stats.AverageMileage)
		assert.Equal(t, int64(7), stats.BusByType["standard"])

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Rounds Utilization And Mileage", func(t *testing.T) {
		mock.ExpectQuery(`SELECT\s+COUNT\(\*\)`).
			WillReturnRows(sqlmock.NewRows([]string{
				"total", "active", "maintenance", "out_of_service",
				"capacity", "avg_mileage", "total_mileage",
			}).AddRow(3, 2, 1, 0, 150, 99.9, 299.7))

		mock.ExpectQuery(`SELECT type, COUNT\(\*\) FROM buses GROUP BY type`).
			WillReturnRows(sqlmock.NewRows([]string{"type", "count"}).
				AddRow("standard", 3))

		stats, err := repo.Stats()
		require.NoError(t, err)
		assert.Equal(t, int64(67), stats.UtilizationRate)
		assert.Equal(t, int64(100), stats.AverageMileage)

		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

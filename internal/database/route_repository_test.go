package database

import (
	"database/sql"
	"database/sql/driver"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/citytransit/fleet-admin-backend/internal/models"
)

var routeRowColumns = []string{
	"id", "route_number", "name", "start_location", "end_location", "stops",
	"distance", "estimated_duration", "operating_hours", "frequency", "fare",
	"status", "created_at", "updated_at",
}

func sampleRouteRow(id string, now time.Time) []driver.Value {
	return []driver.Value{
		id, "138", "Central Station - Harbor Terminal",
		"Central Station", "Harbor Terminal", []byte(`[]`),
		18.5, 35, []byte(`{"start":"05:30","end":"22:00"}`), 15, 2.50,
		"active", now, now,
	}
}

func TestGetRouteByNumber(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewRouteRepository(&mockDatabase{db: db})
	now := time.Now()

	t.Run("Found", func(t *testing.T) {
		mock.ExpectQuery(`SELECT (.+) FROM routes WHERE route_number = \$1`).
			WithArgs("138").
			WillReturnRows(sqlmock.NewRows(routeRowColumns).
				AddRow(sampleRouteRow("665f1f77bcf86cd799439041", now)...))

		route, err := repo.GetByRouteNumber("138", "")
		require.NoError(t, err)
		require.NotNil(t, route)
		assert.Equal(t, "138", route.RouteNumber)
	})

	t.Run("None", func(t *testing.T) {
		mock.ExpectQuery(`SELECT (.+) FROM routes WHERE route_number = \$1`).
			WithArgs("999").
			WillReturnRows(sqlmock.NewRows(routeRowColumns))

		route, err := repo.GetByRouteNumber("999", "")
		require.NoError(t, err)
		assert.Nil(t, route)

		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestUpdateRoute(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewRouteRepository(&mockDatabase{db: db})
	id := NewID()

	t.Run("Uppercases Route Number", func(t *testing.T) {
		routeNumber := " route-42 "

		mock.ExpectExec(`UPDATE routes SET route_number = \$1`).
			WithArgs("ROUTE-42", id).
			WillReturnResult(sqlmock.NewResult(0, 1))

		err := repo.Update(id, &models.UpdateRouteRequest{RouteNumber: &routeNumber})
		require.NoError(t, err)

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Not Found", func(t *testing.T) {
		name := "Renamed"

		mock.ExpectExec(`UPDATE routes SET name = \$1`).
			WithArgs(name, id).
			WillReturnResult(sqlmock.NewResult(0, 0))

		err := repo.Update(id, &models.UpdateRouteRequest{Name: &name})
		assert.ErrorIs(t, err, sql.ErrNoRows)
	})
}

package database

import (
	"database/sql"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/citytransit/fleet-admin-backend/internal/models"
)

// BusRepository handles database operations for the fleet
type BusRepository struct {
	db DB
}

// NewBusRepository creates a new BusRepository
func NewBusRepository(db DB) *BusRepository {
	return &BusRepository{db: db}
}

const busColumns = `
	id, bus_number, capacity, type, status, driver, route, model, year,
	license_plate, fuel_type, last_maintenance, next_maintenance, mileage,
	features, created_at, updated_at`

func scanBus(row rowScanner) (*models.Bus, error) {
	bus := &models.Bus{}
	var (
		driver, route, model, licensePlate sql.NullString
		year                               sql.NullInt64
		lastMaintenance, nextMaintenance   sql.NullTime
	)

	err := row.Scan(
		&bus.ID, &bus.BusNumber, &bus.Capacity, &bus.Type, &bus.Status,
		&driver, &route, &model, &year, &licensePlate, &bus.FuelType,
		&lastMaintenance, &nextMaintenance, &bus.Mileage, &bus.Features,
		&bus.CreatedAt, &bus.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	bus.ID = strings.TrimSpace(bus.ID)
	bus.Driver = nullableString(driver)
	bus.Route = nullableString(route)
	bus.Model = nullableString(model)
	bus.LicensePlate = nullableString(licensePlate)
	if year.Valid {
		y := int(year.Int64)
		bus.Year = &y
	}
	if lastMaintenance.Valid {
		bus.LastMaintenance = &lastMaintenance.Time
	}
	if nextMaintenance.Valid {
		bus.NextMaintenance = &nextMaintenance.Time
	}
	if bus.Features == nil {
		bus.Features = models.StringList{}
	}

	return bus, nil
}

// Create inserts a new bus record
func (r *BusRepository) Create(bus *models.Bus) error {
	if bus.ID == "" {
		bus.ID = NewID()
	}
	if bus.Features == nil {
		bus.Features = models.StringList{}
	}

	query := `
		INSERT INTO buses (
			id, bus_number, capacity, type, status, driver, route, model, year,
			license_plate, fuel_type, last_maintenance, next_maintenance, mileage, features
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15
		)
		RETURNING created_at, updated_at
	`

	err := r.db.QueryRow(
		query,
		bus.ID, bus.BusNumber, bus.Capacity, bus.Type, bus.Status,
		bus.Driver, bus.Route, bus.Model, bus.Year, bus.LicensePlate,
		bus.FuelType, bus.LastMaintenance, bus.NextMaintenance, bus.Mileage,
		bus.Features,
	).Scan(&bus.CreatedAt, &bus.UpdatedAt)
	if err != nil {
		if IsUniqueViolation(err, "") {
			return err
		}
		return fmt.Errorf("failed to create bus: %w", err)
	}

	return nil
}

// GetByID retrieves a bus by id
func (r *BusRepository) GetByID(id string) (*models.Bus, error) {
	query := `SELECT ` + busColumns + ` FROM buses WHERE id = $1`
	return scanBus(r.db.QueryRow(query, id))
}

// GetByBusNumber retrieves a bus by fleet number, optionally excluding one
// record id. Returns nil when no match exists.
func (r *BusRepository) GetByBusNumber(busNumber string, excludeID string) (*models.Bus, error) {
	query := `SELECT ` + busColumns + ` FROM buses WHERE bus_number = $1`
	args := []interface{}{busNumber}

	if excludeID != "" {
		query += ` AND id <> $2`
		args = append(args, excludeID)
	}

	bus, err := scanBus(r.db.QueryRow(query, args...))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to look up bus number: %w", err)
	}

	return bus, nil
}

// List retrieves buses matching the filter, newest first
func (r *BusRepository) List(filter models.BusListFilter) ([]models.Bus, error) {
	where, args := buildBusFilter(filter)

	query := `SELECT ` + busColumns + ` FROM buses` + where + ` ORDER BY created_at DESC`
	if filter.Limit > 0 {
		offset := 0
		if filter.Page > 1 {
			offset = (filter.Page - 1) * filter.Limit
		}
		query += fmt.Sprintf(" LIMIT %d OFFSET %d", filter.Limit, offset)
	}

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list buses: %w", err)
	}
	defer rows.Close()

	buses := []models.Bus{}
	for rows.Next() {
		bus, err := scanBus(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan bus: %w", err)
		}
		buses = append(buses, *bus)
	}

	return buses, rows.Err()
}

// Count counts buses matching the filter
func (r *BusRepository) Count(filter models.BusListFilter) (int64, error) {
	where, args := buildBusFilter(filter)

	var count int64
	err := r.db.QueryRow(`SELECT COUNT(*) FROM buses`+where, args...).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count buses: %w", err)
	}
	return count, nil
}

func buildBusFilter(filter models.BusListFilter) (string, []interface{}) {
	clauses := []string{}
	args := []interface{}{}
	argCount := 1

	if filter.Status != "" {
		clauses = append(clauses, fmt.Sprintf("status = $%d", argCount))
		args = append(args, filter.Status)
		argCount++
	}
	if filter.Route != "" {
		clauses = append(clauses, fmt.Sprintf("route = $%d", argCount))
		args = append(args, filter.Route)
		argCount++
	}

	where := ""
	if len(clauses) > 0 {
		where = " WHERE " + strings.Join(clauses, " AND ")
	}
	return where, args
}

// Update applies a partial update. Driver and route pointers follow the
// three-way convention: nil leaves the column alone, empty string clears it,
// any other value replaces it.
func (r *BusRepository) Update(id string, req *models.UpdateBusRequest) error {
	updates := []string{}
	args := []interface{}{}
	argCount := 1

	set := func(column string, value interface{}) {
		updates = append(updates, fmt.Sprintf("%s = $%d", column, argCount))
		args = append(args, value)
		argCount++
	}
	setOrClear := func(column string, value *string) {
		if *value == "" {
			updates = append(updates, fmt.Sprintf("%s = NULL", column))
			return
		}
		set(column, *value)
	}

	if req.BusNumber != nil {
		set("bus_number", strings.ToUpper(strings.TrimSpace(*req.BusNumber)))
	}
	if req.Capacity != nil {
		set("capacity", *req.Capacity)
	}
	if req.Type != nil {
		set("type", *req.Type)
	}
	if req.Status != nil {
		set("status", *req.Status)
	}
	if req.Driver != nil {
		setOrClear("driver", req.Driver)
	}
	if req.Route != nil {
		setOrClear("route", req.Route)
	}
	if req.Model != nil {
		set("model", *req.Model)
	}
	if req.Year != nil {
		set("year", *req.Year)
	}
	if req.LicensePlate != nil {
		set("license_plate", *req.LicensePlate)
	}
	if req.FuelType != nil {
		set("fuel_type", *req.FuelType)
	}
	if req.Mileage != nil {
		set("mileage", *req.Mileage)
	}
	if req.Features != nil {
		set("features", models.StringList(req.Features))
	}
	if req.LastMaintenance != nil {
		t, err := time.Parse("2006-01-02", *req.LastMaintenance)
		if err != nil {
			return models.NewValidationError("last_maintenance", "invalid date format, expected YYYY-MM-DD")
		}
		set("last_maintenance", t)
	}
	if req.NextMaintenance != nil {
		t, err := time.Parse("2006-01-02", *req.NextMaintenance)
		if err != nil {
			return models.NewValidationError("next_maintenance", "invalid date format, expected YYYY-MM-DD")
		}
		set("next_maintenance", t)
	}

	if len(updates) == 0 {
		return nil
	}

	updates = append(updates, "updated_at = NOW()")
	args = append(args, id)

	query := fmt.Sprintf(`UPDATE buses SET %s WHERE id = $%d`,
		strings.Join(updates, ", "), argCount)

	result, err := r.db.Exec(query, args...)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return sql.ErrNoRows
	}

	return nil
}

// Delete removes a bus record
func (r *BusRepository) Delete(id string) error {
	result, err := r.db.Exec(`DELETE FROM buses WHERE id = $1`, id)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return sql.ErrNoRows
	}

	return nil
}

// Stats aggregates fleet-wide figures in a single query
func (r *BusRepository) Stats() (*models.FleetStats, error) {
	stats := &models.FleetStats{BusByType: map[string]int64{}}

	query := `
		SELECT
			COUNT(*),
			COUNT(*) FILTER (WHERE status = 'active'),
			COUNT(*) FILTER (WHERE status = 'maintenance'),
			COUNT(*) FILTER (WHERE status = 'out-of-service'),
			COALESCE(SUM(capacity), 0),
			COALESCE(AVG(mileage), 0),
			COALESCE(SUM(mileage), 0)
		FROM buses
	`

	var avgMileage float64
	err := r.db.QueryRow(query).Scan(
		&stats.TotalBuses, &stats.ActiveBuses, &stats.MaintenanceBuses,
		&stats.OutOfServiceBuses, &stats.TotalCapacity, &avgMileage,
		&stats.TotalMileage,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate fleet stats: %w", err)
	}
	stats.AverageMileage = int64(math.Round(avgMileage))
	if stats.TotalBuses > 0 {
		stats.UtilizationRate = int64(math.Round(float64(stats.ActiveBuses) * 100 / float64(stats.TotalBuses)))
	}

	rows, err := r.db.Query(`SELECT type, COUNT(*) FROM buses GROUP BY type`)
	if err != nil {
		return nil, fmt.Errorf("failed to group buses by type: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var busType string
		var count int64
		if err := rows.Scan(&busType, &count); err != nil {
			return nil, err
		}
		stats.BusByType[busType] = count
	}

	return stats, rows.Err()
}

package database

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/citytransit/fleet-admin-backend/internal/models"
)

// RouteRepository handles database operations for routes
type RouteRepository struct {
	db DB
}

// NewRouteRepository creates a new RouteRepository
func NewRouteRepository(db DB) *RouteRepository {
	return &RouteRepository{db: db}
}

const routeColumns = `
	id, route_number, name, start_location, end_location, stops, distance,
	estimated_duration, operating_hours, frequency, fare, status,
	created_at, updated_at`

func scanRoute(row rowScanner) (*models.Route, error) {
	route := &models.Route{}

	err := row.Scan(
		&route.ID, &route.RouteNumber, &route.Name, &route.StartLocation,
		&route.EndLocation, &route.Stops, &route.Distance, &route.Duration,
		&route.OperatingHours, &route.Frequency, &route.Fare, &route.Status,
		&route.CreatedAt, &route.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	route.ID = strings.TrimSpace(route.ID)
	if route.Stops == nil {
		route.Stops = models.StopList{}
	}

	return route, nil
}

// Create inserts a new route record
func (r *RouteRepository) Create(route *models.Route) error {
	if route.ID == "" {
		route.ID = NewID()
	}

	query := `
		INSERT INTO routes (
			id, route_number, name, start_location, end_location, stops,
			distance, estimated_duration, operating_hours, frequency, fare, status
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12
		)
		RETURNING created_at, updated_at
	`

	err := r.db.QueryRow(
		query,
		route.ID, route.RouteNumber, route.Name, route.StartLocation,
		route.EndLocation, route.Stops, route.Distance, route.Duration,
		route.OperatingHours, route.Frequency, route.Fare, route.Status,
	).Scan(&route.CreatedAt, &route.UpdatedAt)
	if err != nil {
		if IsUniqueViolation(err, "") {
			return err
		}
		return fmt.Errorf("failed to create route: %w", err)
	}

	return nil
}

// GetByID retrieves a route by id
func (r *RouteRepository) GetByID(id string) (*models.Route, error) {
	query := `SELECT ` + routeColumns + ` FROM routes WHERE id = $1`
	return scanRoute(r.db.QueryRow(query, id))
}

// GetByRouteNumber retrieves a route by its public number, optionally
// excluding one record id. Returns nil when no match exists.
func (r *RouteRepository) GetByRouteNumber(routeNumber string, excludeID string) (*models.Route, error) {
	query := `SELECT ` + routeColumns + ` FROM routes WHERE route_number = $1`
	args := []interface{}{routeNumber}

	if excludeID != "" {
		query += ` AND id <> $2`
		args = append(args, excludeID)
	}

	route, err := scanRoute(r.db.QueryRow(query, args...))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to look up route number: %w", err)
	}

	return route, nil
}

// List retrieves routes matching the filter, ordered by route number
func (r *RouteRepository) List(filter models.RouteListFilter) ([]models.Route, error) {
	query := `SELECT ` + routeColumns + ` FROM routes`
	args := []interface{}{}

	if filter.Status != "" {
		query += ` WHERE status = $1`
		args = append(args, filter.Status)
	}
	query += ` ORDER BY route_number ASC`

	if filter.Limit > 0 {
		offset := 0
		if filter.Page > 1 {
			offset = (filter.Page - 1) * filter.Limit
		}
		query += fmt.Sprintf(" LIMIT %d OFFSET %d", filter.Limit, offset)
	}

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list routes: %w", err)
	}
	defer rows.Close()

	routes := []models.Route{}
	for rows.Next() {
		route, err := scanRoute(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan route: %w", err)
		}
		routes = append(routes, *route)
	}

	return routes, rows.Err()
}

// Count counts routes matching the filter
func (r *RouteRepository) Count(filter models.RouteListFilter) (int64, error) {
	query := `SELECT COUNT(*) FROM routes`
	args := []interface{}{}

	if filter.Status != "" {
		query += ` WHERE status = $1`
		args = append(args, filter.Status)
	}

	var count int64
	if err := r.db.QueryRow(query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count routes: %w", err)
	}
	return count, nil
}

// Update applies a partial update
func (r *RouteRepository) Update(id string, req *models.UpdateRouteRequest) error {
	updates := []string{}
	args := []interface{}{}
	argCount := 1

	set := func(column string, value interface{}) {
		updates = append(updates, fmt.Sprintf("%s = $%d", column, argCount))
		args = append(args, value)
		argCount++
	}

	if req.RouteNumber != nil {
		set("route_number", strings.ToUpper(strings.TrimSpace(*req.RouteNumber)))
	}
	if req.Name != nil {
		set("name", *req.Name)
	}
	if req.StartLocation != nil {
		set("start_location", *req.StartLocation)
	}
	if req.EndLocation != nil {
		set("end_location", *req.EndLocation)
	}
	if req.Stops != nil {
		set("stops", models.StopList(req.Stops))
	}
	if req.Distance != nil {
		set("distance", *req.Distance)
	}
	if req.Duration != nil {
		set("estimated_duration", *req.Duration)
	}
	if req.OperatingHours != nil {
		set("operating_hours", *req.OperatingHours)
	}
	if req.Frequency != nil {
		set("frequency", *req.Frequency)
	}
	if req.Fare != nil {
		set("fare", *req.Fare)
	}
	if req.Status != nil {
		set("status", *req.Status)
	}

	if len(updates) == 0 {
		return nil
	}

	updates = append(updates, "updated_at = NOW()")
	args = append(args, id)

	query := fmt.Sprintf(`UPDATE routes SET %s WHERE id = $%d`,
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

// Delete removes a route record
func (r *RouteRepository) Delete(id string) error {
	result, err := r.db.Exec(`DELETE FROM routes WHERE id = $1`, id)
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

// CountByStatus counts routes with the given status; an empty status counts
// everything
func (r *RouteRepository) CountByStatus(status string) (int64, error) {
	var count int64
	var err error
	if status == "" {
		err = r.db.QueryRow(`SELECT COUNT(*) FROM routes`).Scan(&count)
	} else {
		err = r.db.QueryRow(`SELECT COUNT(*) FROM routes WHERE status = $1`, status).Scan(&count)
	}
	if err != nil {
		return 0, fmt.Errorf("failed to count routes: %w", err)
	}
	return count, nil
}

package database

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/citytransit/fleet-admin-backend/internal/models"
)

// ScheduleRepository handles database operations for scheduled trips
type ScheduleRepository struct {
	db DB
}

// NewScheduleRepository creates a new ScheduleRepository
func NewScheduleRepository(db DB) *ScheduleRepository {
	return &ScheduleRepository{db: db}
}

const scheduleColumns = `
	id, route, bus, driver, departure_time, arrival_time,
	actual_departure_time, actual_arrival_time, status,
	passengers_current, passengers_boarded, passengers_alighted,
	delays, notes, created_at, updated_at`

func scanSchedule(row rowScanner) (*models.Schedule, error) {
	schedule := &models.Schedule{}
	var (
		driver, notes                  sql.NullString
		actualDeparture, actualArrival sql.NullTime
	)

	err := row.Scan(
		&schedule.ID, &schedule.Route, &schedule.Bus, &driver,
		&schedule.DepartureTime, &schedule.ArrivalTime,
		&actualDeparture, &actualArrival, &schedule.Status,
		&schedule.Passengers.Current, &schedule.Passengers.Boarded,
		&schedule.Passengers.Alighted, &schedule.Delays, &notes,
		&schedule.CreatedAt, &schedule.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	schedule.ID = strings.TrimSpace(schedule.ID)
	schedule.Driver = nullableString(driver)
	schedule.Notes = nullableString(notes)
	if actualDeparture.Valid {
		schedule.ActualDepartureTime = &actualDeparture.Time
	}
	if actualArrival.Valid {
		schedule.ActualArrivalTime = &actualArrival.Time
	}
	if schedule.Delays == nil {
		schedule.Delays = models.DelayList{}
	}

	return schedule, nil
}

// Create inserts a new schedule record
func (r *ScheduleRepository) Create(schedule *models.Schedule) error {
	if schedule.ID == "" {
		schedule.ID = NewID()
	}
	if schedule.Delays == nil {
		schedule.Delays = models.DelayList{}
	}

	query := `
		INSERT INTO schedules (
			id, route, bus, driver, departure_time, arrival_time, status,
			passengers_current, passengers_boarded, passengers_alighted,
			delays, notes
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12
		)
		RETURNING created_at, updated_at
	`

	err := r.db.QueryRow(
		query,
		schedule.ID, schedule.Route, schedule.Bus, schedule.Driver,
		schedule.DepartureTime, schedule.ArrivalTime, schedule.Status,
		schedule.Passengers.Current, schedule.Passengers.Boarded,
		schedule.Passengers.Alighted, schedule.Delays, schedule.Notes,
	).Scan(&schedule.CreatedAt, &schedule.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create schedule: %w", err)
	}

	return nil
}

// GetByID retrieves a schedule by id
func (r *ScheduleRepository) GetByID(id string) (*models.Schedule, error) {
	query := `SELECT ` + scheduleColumns + ` FROM schedules WHERE id = $1`
	return scanSchedule(r.db.QueryRow(query, id))
}

func buildScheduleFilter(filter models.ScheduleListFilter) (string, []interface{}) {
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
	if filter.Bus != "" {
		clauses = append(clauses, fmt.Sprintf("bus = $%d", argCount))
		args = append(args, filter.Bus)
		argCount++
	}

	where := ""
	if len(clauses) > 0 {
		where = " WHERE " + strings.Join(clauses, " AND ")
	}
	return where, args
}

// List retrieves schedules matching the filter, earliest departure first
func (r *ScheduleRepository) List(filter models.ScheduleListFilter) ([]models.Schedule, error) {
	where, args := buildScheduleFilter(filter)

	query := `SELECT ` + scheduleColumns + ` FROM schedules` + where + ` ORDER BY departure_time ASC`
	if filter.Limit > 0 {
		offset := 0
		if filter.Page > 1 {
			offset = (filter.Page - 1) * filter.Limit
		}
		query += fmt.Sprintf(" LIMIT %d OFFSET %d", filter.Limit, offset)
	}

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list schedules: %w", err)
	}
	defer rows.Close()

	schedules := []models.Schedule{}
	for rows.Next() {
		schedule, err := scanSchedule(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan schedule: %w", err)
		}
		schedules = append(schedules, *schedule)
	}

	return schedules, rows.Err()
}

// Count counts schedules matching the filter
func (r *ScheduleRepository) Count(filter models.ScheduleListFilter) (int64, error) {
	where, args := buildScheduleFilter(filter)

	var count int64
	err := r.db.QueryRow(`SELECT COUNT(*) FROM schedules`+where, args...).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count schedules: %w", err)
	}
	return count, nil
}

// Update applies a partial update. The route, bus and driver values arrive
// already resolved by the caller; a nil pointer leaves the column alone and
// an empty driver clears it.
func (r *ScheduleRepository) Update(id string, req *models.UpdateScheduleRequest) error {
	updates := []string{}
	args := []interface{}{}
	argCount := 1

	set := func(column string, value interface{}) {
		updates = append(updates, fmt.Sprintf("%s = $%d", column, argCount))
		args = append(args, value)
		argCount++
	}

	if req.Route != nil {
		set("route", *req.Route)
	}
	if req.Bus != nil {
		set("bus", *req.Bus)
	}
	if req.Driver != nil {
		if *req.Driver == "" {
			updates = append(updates, "driver = NULL")
		} else {
			set("driver", *req.Driver)
		}
	}
	if req.DepartureTime != nil {
		set("departure_time", *req.DepartureTime)
	}
	if req.ArrivalTime != nil {
		set("arrival_time", *req.ArrivalTime)
	}
	if req.ActualDepartureTime != nil {
		set("actual_departure_time", *req.ActualDepartureTime)
	}
	if req.ActualArrivalTime != nil {
		set("actual_arrival_time", *req.ActualArrivalTime)
	}
	if req.Status != nil {
		set("status", *req.Status)
	}
	if req.PassengersCurrent != nil {
		set("passengers_current", *req.PassengersCurrent)
	}
	if req.PassengersBoarded != nil {
		set("passengers_boarded", *req.PassengersBoarded)
	}
	if req.PassengersAlighted != nil {
		set("passengers_alighted", *req.PassengersAlighted)
	}
	if req.Notes != nil {
		set("notes", *req.Notes)
	}

	if len(updates) == 0 {
		return nil
	}

	updates = append(updates, "updated_at = NOW()")
	args = append(args, id)

	query := fmt.Sprintf(`UPDATE schedules SET %s WHERE id = $%d`,
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

// SetDelays replaces the delay list wholesale. Callers append to the
// fetched list before calling, so the column stays append-only in practice.
func (r *ScheduleRepository) SetDelays(id string, delays models.DelayList, status models.ScheduleStatus) error {
	query := `
		UPDATE schedules
		SET delays = $1, status = $2, updated_at = NOW()
		WHERE id = $3
	`
	result, err := r.db.Exec(query, delays, status, id)
	if err != nil {
		return fmt.Errorf("failed to record delay: %w", err)
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

// Delete removes a schedule record
func (r *ScheduleRepository) Delete(id string) error {
	result, err := r.db.Exec(`DELETE FROM schedules WHERE id = $1`, id)
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

// CountByStatus counts schedules with the given status; an empty status
// counts everything
func (r *ScheduleRepository) CountByStatus(status string) (int64, error) {
	var count int64
	var err error
	if status == "" {
		err = r.db.QueryRow(`SELECT COUNT(*) FROM schedules`).Scan(&count)
	} else {
		err = r.db.QueryRow(`SELECT COUNT(*) FROM schedules WHERE status = $1`, status).Scan(&count)
	}
	if err != nil {
		return 0, fmt.Errorf("failed to count schedules: %w", err)
	}
	return count, nil
}

// CountDepartingToday counts schedules departing within the current day
func (r *ScheduleRepository) CountDepartingToday() (int64, error) {
	query := `
		SELECT COUNT(*) FROM schedules
		WHERE departure_time >= date_trunc('day', NOW())
		  AND departure_time < date_trunc('day', NOW()) + INTERVAL '1 day'
	`
	var count int64
	if err := r.db.QueryRow(query).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count today's schedules: %w", err)
	}
	return count, nil
}

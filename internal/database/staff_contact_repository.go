package database

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/citytransit/fleet-admin-backend/internal/models"
)

// StaffContactRepository handles database operations for the staff directory
type StaffContactRepository struct {
	db DB
}

// NewStaffContactRepository creates a new StaffContactRepository
func NewStaffContactRepository(db DB) *StaffContactRepository {
	return &StaffContactRepository{db: db}
}

const staffContactColumns = `
	id, name, email, phone, department, position, role, shift, status,
	emergency_contact, address, hire_date, created_at, updated_at`

func scanStaffContact(row rowScanner) (*models.StaffContact, error) {
	staff := &models.StaffContact{}
	var position, role, emergencyContact, address sql.NullString

	err := row.Scan(
		&staff.ID, &staff.Name, &staff.Email, &staff.Phone, &staff.Department,
		&position, &role, &staff.Shift, &staff.Status,
		&emergencyContact, &address, &staff.HireDate,
		&staff.CreatedAt, &staff.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	staff.ID = strings.TrimSpace(staff.ID)
	staff.Position = nullableString(position)
	staff.Role = nullableString(role)
	staff.EmergencyContact = nullableString(emergencyContact)
	staff.Address = nullableString(address)

	return staff, nil
}

// Create inserts a new staff directory record
func (r *StaffContactRepository) Create(staff *models.StaffContact) error {
	if staff.ID == "" {
		staff.ID = NewID()
	}

	query := `
		INSERT INTO staff_contacts (
			id, name, email, phone, department, position, role, shift, status,
			emergency_contact, address, hire_date
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12
		)
		RETURNING created_at, updated_at
	`

	err := r.db.QueryRow(
		query,
		staff.ID, staff.Name, staff.Email, staff.Phone, staff.Department,
		staff.Position, staff.Role, staff.Shift, staff.Status,
		staff.EmergencyContact, staff.Address, staff.HireDate,
	).Scan(&staff.CreatedAt, &staff.UpdatedAt)
	if err != nil {
		if IsUniqueViolation(err, "") {
			return err
		}
		return fmt.Errorf("failed to create staff contact: %w", err)
	}

	return nil
}

// GetByID retrieves a staff contact by id
func (r *StaffContactRepository) GetByID(id string) (*models.StaffContact, error) {
	query := `SELECT ` + staffContactColumns + ` FROM staff_contacts WHERE id = $1`
	return scanStaffContact(r.db.QueryRow(query, id))
}

// GetByEmail retrieves a staff contact by email, optionally excluding one
// record id. Returns nil when no match exists.
func (r *StaffContactRepository) GetByEmail(email string, excludeID string) (*models.StaffContact, error) {
	query := `SELECT ` + staffContactColumns + ` FROM staff_contacts WHERE email = $1`
	args := []interface{}{email}

	if excludeID != "" {
		query += ` AND id <> $2`
		args = append(args, excludeID)
	}

	staff, err := scanStaffContact(r.db.QueryRow(query, args...))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to look up staff email: %w", err)
	}

	return staff, nil
}

// List retrieves staff contacts matching the filter, ordered by name
func (r *StaffContactRepository) List(filter models.StaffContactListFilter) ([]models.StaffContact, error) {
	where, args := buildStaffContactFilter(filter)

	query := `SELECT ` + staffContactColumns + ` FROM staff_contacts` + where + ` ORDER BY name ASC`
	if filter.Limit > 0 {
		offset := 0
		if filter.Page > 1 {
			offset = (filter.Page - 1) * filter.Limit
		}
		query += fmt.Sprintf(" LIMIT %d OFFSET %d", filter.Limit, offset)
	}

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list staff contacts: %w", err)
	}
	defer rows.Close()

	contacts := []models.StaffContact{}
	for rows.Next() {
		staff, err := scanStaffContact(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan staff contact: %w", err)
		}
		contacts = append(contacts, *staff)
	}

	return contacts, rows.Err()
}

// Count counts staff contacts matching the filter
func (r *StaffContactRepository) Count(filter models.StaffContactListFilter) (int64, error) {
	where, args := buildStaffContactFilter(filter)

	var count int64
	err := r.db.QueryRow(`SELECT COUNT(*) FROM staff_contacts`+where, args...).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count staff contacts: %w", err)
	}
	return count, nil
}

func buildStaffContactFilter(filter models.StaffContactListFilter) (string, []interface{}) {
	clauses := []string{}
	args := []interface{}{}
	argCount := 1

	if filter.Department != "" {
		clauses = append(clauses, fmt.Sprintf("department = $%d", argCount))
		args = append(args, filter.Department)
		argCount++
	}
	if filter.Status != "" {
		clauses = append(clauses, fmt.Sprintf("status = $%d", argCount))
		args = append(args, filter.Status)
		argCount++
	}
	if filter.Search != "" {
		clauses = append(clauses, fmt.Sprintf(
			"(name ILIKE $%d OR email ILIKE $%d OR position ILIKE $%d)",
			argCount, argCount, argCount))
		args = append(args, "%"+filter.Search+"%")
		argCount++
	}

	where := ""
	if len(clauses) > 0 {
		where = " WHERE " + strings.Join(clauses, " AND ")
	}
	return where, args
}

// Update applies a partial update
func (r *StaffContactRepository) Update(id string, req *models.UpdateStaffContactRequest) error {
	updates := []string{}
	args := []interface{}{}
	argCount := 1

	set := func(column string, value interface{}) {
		updates = append(updates, fmt.Sprintf("%s = $%d", column, argCount))
		args = append(args, value)
		argCount++
	}

	if req.Name != nil {
		set("name", *req.Name)
	}
	if req.Email != nil {
		set("email", models.NormalizeEmail(*req.Email))
	}
	if req.Phone != nil {
		set("phone", *req.Phone)
	}
	if req.Department != nil {
		set("department", *req.Department)
	}
	if req.Position != nil {
		set("position", *req.Position)
	}
	if req.Role != nil {
		set("role", *req.Role)
	}
	if req.Shift != nil {
		set("shift", *req.Shift)
	}
	if req.Status != nil {
		set("status", *req.Status)
	}
	if req.EmergencyContact != nil {
		set("emergency_contact", *req.EmergencyContact)
	}
	if req.Address != nil {
		set("address", *req.Address)
	}

	if len(updates) == 0 {
		return nil
	}

	updates = append(updates, "updated_at = NOW()")
	args = append(args, id)

	query := fmt.Sprintf(`UPDATE staff_contacts SET %s WHERE id = $%d`,
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

// Delete removes a staff directory record
func (r *StaffContactRepository) Delete(id string) error {
	result, err := r.db.Exec(`DELETE FROM staff_contacts WHERE id = $1`, id)
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

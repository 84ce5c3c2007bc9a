package database

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/citytransit/fleet-admin-backend/internal/models"
	"github.com/lib/pq"
)

// uniqueViolation is the PostgreSQL error code for unique constraint violations
const uniqueViolation = "23505"

// IsUniqueViolation reports whether err is a unique-index violation on the
// named constraint. An empty constraint matches any unique violation.
func IsUniqueViolation(err error, constraint string) bool {
	pqErr, ok := err.(*pq.Error)
	if !ok {
		return false
	}
	if string(pqErr.Code) != uniqueViolation {
		return false
	}
	return constraint == "" || pqErr.Constraint == constraint
}

// ContactRepository handles database operations for contacts and inquiries
type ContactRepository struct {
	db DB
}

// NewContactRepository creates a new ContactRepository
func NewContactRepository(db DB) *ContactRepository {
	return &ContactRepository{db: db}
}

const contactColumns = `
	id, name, email, phone, subject, message, category, priority, status,
	assigned_to, related_route, related_bus, department, position, role,
	response_message, responded_by, responded_at,
	is_read, read_at, read_by, created_at, updated_at`

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanContact(row rowScanner) (*models.Contact, error) {
	contact := &models.Contact{}
	var (
		phone, assignedTo, relatedRoute, relatedBus sql.NullString
		department, position, role                  sql.NullString
		responseMessage, respondedBy, readBy        sql.NullString
		respondedAt, readAt                         sql.NullTime
	)

	err := row.Scan(
		&contact.ID, &contact.Name, &contact.Email, &phone, &contact.Subject,
		&contact.Message, &contact.Category, &contact.Priority, &contact.Status,
		&assignedTo, &relatedRoute, &relatedBus, &department, &position, &role,
		&responseMessage, &respondedBy, &respondedAt,
		&contact.IsRead, &readAt, &readBy, &contact.CreatedAt, &contact.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	contact.ID = strings.TrimSpace(contact.ID)
	contact.Phone = nullableString(phone)
	contact.AssignedTo = nullableString(assignedTo)
	contact.RelatedRoute = nullableString(relatedRoute)
	contact.RelatedBus = nullableString(relatedBus)
	contact.Department = nullableString(department)
	contact.Position = nullableString(position)
	contact.Role = nullableString(role)
	contact.ReadBy = nullableString(readBy)
	if readAt.Valid {
		contact.ReadAt = &readAt.Time
	}
	if respondedAt.Valid {
		contact.Response = &models.ContactResponse{
			Message:     responseMessage.String,
			RespondedBy: strings.TrimSpace(respondedBy.String),
			RespondedAt: respondedAt.Time,
		}
	}

	return contact, nil
}

func nullableString(s sql.NullString) *string {
	if !s.Valid {
		return nil
	}
	trimmed := strings.TrimSpace(s.String)
	return &trimmed
}

// Create inserts a new contact record
func (r *ContactRepository) Create(contact *models.Contact) error {
	if contact.ID == "" {
		contact.ID = NewID()
	}

	query := `
		INSERT INTO contacts (
			id, name, email, phone, subject, message, category, priority, status,
			assigned_to, related_route, related_bus, department, position, role, is_read
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16
		)
		RETURNING created_at, updated_at
	`

	err := r.db.QueryRow(
		query,
		contact.ID, contact.Name, contact.Email, contact.Phone, contact.Subject,
		contact.Message, contact.Category, contact.Priority, contact.Status,
		contact.AssignedTo, contact.RelatedRoute, contact.RelatedBus,
		contact.Department, contact.Position, contact.Role, contact.IsRead,
	).Scan(&contact.CreatedAt, &contact.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create contact: %w", err)
	}

	return nil
}

// GetByID retrieves a contact by id
func (r *ContactRepository) GetByID(id string) (*models.Contact, error) {
	query := `SELECT ` + contactColumns + ` FROM contacts WHERE id = $1`
	return scanContact(r.db.QueryRow(query, id))
}

// FindActiveByEmail finds a non-closed contact with the given email,
// optionally excluding one record id. Returns nil when none exists.
func (r *ContactRepository) FindActiveByEmail(email string, excludeID string) (*models.Contact, error) {
	query := `SELECT ` + contactColumns + `
		FROM contacts
		WHERE email = $1 AND status <> 'closed'`
	args := []interface{}{email}

	if excludeID != "" {
		query += ` AND id <> $2`
		args = append(args, excludeID)
	}
	query += ` LIMIT 1`

	contact, err := scanContact(r.db.QueryRow(query, args...))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to check active contact: %w", err)
	}

	return contact, nil
}

func buildContactFilter(filter models.ContactListFilter) (string, []interface{}) {
	clauses := []string{}
	args := []interface{}{}
	argCount := 1

	if filter.Status != "" {
		clauses = append(clauses, fmt.Sprintf("status = $%d", argCount))
		args = append(args, filter.Status)
		argCount++
	}
	if filter.Category != "" {
		clauses = append(clauses, fmt.Sprintf("category = $%d", argCount))
		args = append(args, filter.Category)
		argCount++
	}
	if filter.Priority != "" {
		clauses = append(clauses, fmt.Sprintf("priority = $%d", argCount))
		args = append(args, filter.Priority)
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

// List retrieves contacts matching the filter, newest first
func (r *ContactRepository) List(filter models.ContactListFilter) ([]models.Contact, error) {
	where, args := buildContactFilter(filter)

	query := `SELECT ` + contactColumns + ` FROM contacts` + where + ` ORDER BY created_at DESC`
	if filter.Limit > 0 {
		offset := 0
		if filter.Page > 1 {
			offset = (filter.Page - 1) * filter.Limit
		}
		query += fmt.Sprintf(" LIMIT %d OFFSET %d", filter.Limit, offset)
	}

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list contacts: %w", err)
	}
	defer rows.Close()

	contacts := []models.Contact{}
	for rows.Next() {
		contact, err := scanContact(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan contact: %w", err)
		}
		contacts = append(contacts, *contact)
	}

	return contacts, rows.Err()
}

// Count counts contacts matching the filter
func (r *ContactRepository) Count(filter models.ContactListFilter) (int64, error) {
	where, args := buildContactFilter(filter)

	var count int64
	err := r.db.QueryRow(`SELECT COUNT(*) FROM contacts`+where, args...).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count contacts: %w", err)
	}
	return count, nil
}

// ListUrgent retrieves non-closed contacts with high or urgent priority
func (r *ContactRepository) ListUrgent() ([]models.Contact, error) {
	query := `SELECT ` + contactColumns + `
		FROM contacts
		WHERE priority IN ('high', 'urgent') AND status <> 'closed'
		ORDER BY created_at DESC`

	rows, err := r.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to list urgent contacts: %w", err)
	}
	defer rows.Close()

	contacts := []models.Contact{}
	for rows.Next() {
		contact, err := scanContact(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan contact: %w", err)
		}
		contacts = append(contacts, *contact)
	}

	return contacts, rows.Err()
}

// Update applies a partial update. Only fields present in the request are
// touched; there is no allow-list beyond the typed request fields.
func (r *ContactRepository) Update(id string, req *models.UpdateContactRequest) error {
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
	if req.Subject != nil {
		set("subject", *req.Subject)
	}
	if req.Message != nil {
		set("message", *req.Message)
	}
	if req.Category != nil {
		set("category", *req.Category)
	}
	if req.Priority != nil {
		set("priority", *req.Priority)
	}
	if req.Status != nil {
		set("status", *req.Status)
	}
	if req.AssignedTo != nil {
		set("assigned_to", *req.AssignedTo)
	}
	if req.RelatedRoute != nil {
		set("related_route", *req.RelatedRoute)
	}
	if req.RelatedBus != nil {
		set("related_bus", *req.RelatedBus)
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

	if len(updates) == 0 {
		return nil
	}

	updates = append(updates, "updated_at = NOW()")
	args = append(args, id)

	query := fmt.Sprintf(`UPDATE contacts SET %s WHERE id = $%d`,
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

// MarkRead stamps the read-state exactly once. The is_read guard makes
// subsequent calls no-ops, so readAt/readBy never change after the first
// read.
func (r *ContactRepository) MarkRead(id, readerID string) error {
	query := `
		UPDATE contacts
		SET is_read = TRUE, read_at = NOW(), read_by = $1, updated_at = NOW()
		WHERE id = $2 AND is_read = FALSE
	`
	_, err := r.db.Exec(query, readerID, id)
	if err != nil {
		return fmt.Errorf("failed to mark contact read: %w", err)
	}
	return nil
}

// SetResponse overwrites the response sub-record and forces the status to
// resolved. Last write wins; no response history is kept.
func (r *ContactRepository) SetResponse(id, message, responderID string) error {
	query := `
		UPDATE contacts
		SET response_message = $1, responded_by = $2, responded_at = NOW(),
		    status = 'resolved', updated_at = NOW()
		WHERE id = $3
	`
	result, err := r.db.Exec(query, message, responderID, id)
	if err != nil {
		return fmt.Errorf("failed to set response: %w", err)
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

// Delete removes a contact record
func (r *ContactRepository) Delete(id string) error {
	result, err := r.db.Exec(`DELETE FROM contacts WHERE id = $1`, id)
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

// CountByStatus counts contacts with the given status; an empty status
// counts everything
func (r *ContactRepository) CountByStatus(status string) (int64, error) {
	var count int64
	var err error
	if status == "" {
		err = r.db.QueryRow(`SELECT COUNT(*) FROM contacts`).Scan(&count)
	} else {
		err = r.db.QueryRow(`SELECT COUNT(*) FROM contacts WHERE status = $1`, status).Scan(&count)
	}
	if err != nil {
		return 0, fmt.Errorf("failed to count contacts: %w", err)
	}
	return count, nil
}

// GroupCountByCategory returns contact counts grouped by category
func (r *ContactRepository) GroupCountByCategory() (map[string]int64, error) {
	return r.groupCount("category")
}

// GroupCountByPriority returns contact counts grouped by priority
func (r *ContactRepository) GroupCountByPriority() (map[string]int64, error) {
	return r.groupCount("priority")
}

func (r *ContactRepository) groupCount(column string) (map[string]int64, error) {
	// column is one of the fixed names above, never caller input
	query := fmt.Sprintf(`SELECT %s, COUNT(*) FROM contacts GROUP BY %s`, column, column)

	rows, err := r.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to group contacts by %s: %w", column, err)
	}
	defer rows.Close()

	counts := map[string]int64{}
	for rows.Next() {
		var value string
		var count int64
		if err := rows.Scan(&value, &count); err != nil {
			return nil, err
		}
		counts[value] = count
	}

	return counts, rows.Err()
}

package database

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/citytransit/fleet-admin-backend/internal/models"
)

// UserRepository handles database operations for admin accounts
type UserRepository struct {
	db DB
}

// NewUserRepository creates a new UserRepository
func NewUserRepository(db DB) *UserRepository {
	return &UserRepository{db: db}
}

const userColumns = `
	id, email, password_hash, first_name, last_name, role, status,
	created_at, updated_at`

func scanUser(row rowScanner) (*models.User, error) {
	user := &models.User{}

	err := row.Scan(
		&user.ID, &user.Email, &user.PasswordHash, &user.FirstName,
		&user.LastName, &user.Role, &user.Status,
		&user.CreatedAt, &user.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	user.ID = strings.TrimSpace(user.ID)
	return user, nil
}

// Create inserts a new account record
func (r *UserRepository) Create(user *models.User) error {
	if user.ID == "" {
		user.ID = NewID()
	}

	query := `
		INSERT INTO users (
			id, email, password_hash, first_name, last_name, role, status
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7
		)
		RETURNING created_at, updated_at
	`

	err := r.db.QueryRow(
		query,
		user.ID, user.Email, user.PasswordHash, user.FirstName,
		user.LastName, user.Role, user.Status,
	).Scan(&user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		if IsUniqueViolation(err, "") {
			return err
		}
		return fmt.Errorf("failed to create user: %w", err)
	}

	return nil
}

// GetByID retrieves an account by id
func (r *UserRepository) GetByID(id string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	return scanUser(r.db.QueryRow(query, id))
}

// GetByEmail retrieves an account by email. Returns nil when none exists.
func (r *UserRepository) GetByEmail(email string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1`

	user, err := scanUser(r.db.QueryRow(query, email))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}

	return user, nil
}

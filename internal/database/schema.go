package database

import "fmt"

// schemaStatements creates the collections and the unique indexes that
// backstop the application-level uniqueness pre-checks. The pre-checks
// give friendlier errors; these indexes are the actual guarantee under
// concurrent writes.
var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id            CHAR(24) PRIMARY KEY,
		email         TEXT NOT NULL UNIQUE,
		password_hash TEXT NOT NULL,
		first_name    TEXT NOT NULL DEFAULT '',
		last_name     TEXT NOT NULL DEFAULT '',
		role          TEXT NOT NULL DEFAULT 'staff',
		status        TEXT NOT NULL DEFAULT 'active',
		created_at    TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at    TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,

	`CREATE TABLE IF NOT EXISTS contacts (
		id            CHAR(24) PRIMARY KEY,
		name          TEXT NOT NULL,
		email         TEXT NOT NULL,
		phone         TEXT,
		subject       TEXT NOT NULL,
		message       TEXT NOT NULL,
		category      TEXT NOT NULL DEFAULT 'inquiry',
		priority      TEXT NOT NULL DEFAULT 'medium',
		status        TEXT NOT NULL DEFAULT 'new',
		assigned_to   CHAR(24),
		related_route TEXT,
		related_bus   TEXT,
		department    TEXT,
		position      TEXT,
		role          TEXT,
		response_message TEXT,
		responded_by  CHAR(24),
		responded_at  TIMESTAMPTZ,
		is_read       BOOLEAN NOT NULL DEFAULT FALSE,
		read_at       TIMESTAMPTZ,
		read_by       CHAR(24),
		created_at    TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at    TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_contacts_status ON contacts (status)`,
	`CREATE INDEX IF NOT EXISTS idx_contacts_category ON contacts (category)`,
	`CREATE INDEX IF NOT EXISTS idx_contacts_priority ON contacts (priority)`,
	`CREATE INDEX IF NOT EXISTS idx_contacts_created_at ON contacts (created_at DESC)`,
	// Partial unique index: one active (non-closed) contact per email.
	// The service-level check exists only for the friendlier error.
	`CREATE UNIQUE INDEX IF NOT EXISTS uniq_contacts_active_email
		ON contacts (email) WHERE status <> 'closed'`,

	`CREATE TABLE IF NOT EXISTS buses (
		id               CHAR(24) PRIMARY KEY,
		bus_number       TEXT NOT NULL UNIQUE,
		capacity         INTEGER NOT NULL,
		type             TEXT NOT NULL DEFAULT 'standard',
		status           TEXT NOT NULL DEFAULT 'active',
		driver           TEXT,
		route            TEXT,
		model            TEXT,
		year             INTEGER,
		license_plate    TEXT,
		fuel_type        TEXT NOT NULL DEFAULT 'diesel',
		last_maintenance TIMESTAMPTZ,
		next_maintenance TIMESTAMPTZ,
		mileage          DOUBLE PRECISION NOT NULL DEFAULT 0,
		features         TEXT[] NOT NULL DEFAULT '{}',
		created_at       TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at       TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_buses_status ON buses (status)`,
	`CREATE INDEX IF NOT EXISTS idx_buses_route ON buses (route)`,

	`CREATE TABLE IF NOT EXISTS routes (
		id                 CHAR(24) PRIMARY KEY,
		route_number       TEXT NOT NULL UNIQUE,
		name               TEXT NOT NULL,
		start_location     TEXT NOT NULL,
		end_location       TEXT NOT NULL,
		stops              JSONB NOT NULL DEFAULT '[]',
		distance           DOUBLE PRECISION NOT NULL,
		estimated_duration INTEGER NOT NULL,
		operating_hours    JSONB NOT NULL DEFAULT '{}',
		frequency          INTEGER NOT NULL,
		fare               DOUBLE PRECISION NOT NULL,
		status             TEXT NOT NULL DEFAULT 'active',
		created_at         TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at         TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_routes_status ON routes (status)`,

	`CREATE TABLE IF NOT EXISTS schedules (
		id                    CHAR(24) PRIMARY KEY,
		route                 TEXT NOT NULL,
		bus                   TEXT NOT NULL,
		driver                TEXT,
		departure_time        TIMESTAMPTZ NOT NULL,
		arrival_time          TIMESTAMPTZ NOT NULL,
		actual_departure_time TIMESTAMPTZ,
		actual_arrival_time   TIMESTAMPTZ,
		status                TEXT NOT NULL DEFAULT 'scheduled',
		passengers_current    INTEGER NOT NULL DEFAULT 0,
		passengers_boarded    INTEGER NOT NULL DEFAULT 0,
		passengers_alighted   INTEGER NOT NULL DEFAULT 0,
		delays                JSONB NOT NULL DEFAULT '[]',
		notes                 TEXT,
		created_at            TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at            TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_schedules_status ON schedules (status)`,
	`CREATE INDEX IF NOT EXISTS idx_schedules_departure ON schedules (departure_time)`,
	`CREATE INDEX IF NOT EXISTS idx_schedules_route_departure ON schedules (route, departure_time)`,

	`CREATE TABLE IF NOT EXISTS staff_contacts (
		id                CHAR(24) PRIMARY KEY,
		name              TEXT NOT NULL,
		email             TEXT NOT NULL UNIQUE,
		phone             TEXT NOT NULL,
		department        TEXT NOT NULL,
		position          TEXT,
		role              TEXT,
		shift             TEXT NOT NULL DEFAULT 'Day (8:00 AM - 4:00 PM)',
		status            TEXT NOT NULL DEFAULT 'active',
		emergency_contact TEXT,
		address           TEXT,
		hire_date         TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		created_at        TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at        TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_staff_contacts_department ON staff_contacts (department)`,
	`CREATE INDEX IF NOT EXISTS idx_staff_contacts_status ON staff_contacts (status)`,
}

// Migrate applies the schema. Statements are idempotent, so running it
// on every startup is safe.
func Migrate(db DB) error {
	for _, stmt := range schemaStatements {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("failed to apply schema: %w", err)
		}
	}
	return nil
}

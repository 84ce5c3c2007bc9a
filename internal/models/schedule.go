package models

import (
	"database/sql/driver"
	"strings"
	"time"
)

// ScheduleStatus represents the state of a scheduled trip
type ScheduleStatus string

const (
	ScheduleStatusScheduled  ScheduleStatus = "scheduled"
	ScheduleStatusInProgress ScheduleStatus = "in-progress"
	ScheduleStatusCompleted  ScheduleStatus = "completed"
	ScheduleStatusCancelled  ScheduleStatus = "cancelled"
	ScheduleStatusDelayed    ScheduleStatus = "delayed"
)

// Delay is a single recorded delay on a scheduled trip
type Delay struct {
	Reason    string    `json:"reason"`
	Duration  int       `json:"duration"` // minutes
	Timestamp time.Time `json:"timestamp"`
}

// DelayList is stored as a JSONB column, append-only
type DelayList []Delay

// Value implements the driver.Valuer interface
func (d DelayList) Value() (driver.Value, error) {
	if d == nil {
		return jsonbValue([]Delay{})
	}
	return jsonbValue([]Delay(d))
}

// Scan implements the sql.Scanner interface
func (d *DelayList) Scan(src interface{}) error {
	return jsonbScan(src, d)
}

// Passengers holds the three independently tracked counters. No
// cross-field consistency is enforced between them.
type Passengers struct {
	Current  int `json:"current"`
	Boarded  int `json:"boarded"`
	Alighted int `json:"alighted"`
}

// Schedule is a planned trip. Route and bus are polymorphic
// identifier-or-label fields, driver is an optional reference.
type Schedule struct {
	ID     string  `json:"id" db:"id"`
	Route  string  `json:"route" db:"route"`
	Bus    string  `json:"bus" db:"bus"`
	Driver *string `json:"driver,omitempty" db:"driver"`

	DepartureTime       time.Time  `json:"departure_time" db:"departure_time"`
	ArrivalTime         time.Time  `json:"arrival_time" db:"arrival_time"`
	ActualDepartureTime *time.Time `json:"actual_departure_time,omitempty" db:"actual_departure_time"`
	ActualArrivalTime   *time.Time `json:"actual_arrival_time,omitempty" db:"actual_arrival_time"`

	Status     ScheduleStatus `json:"status" db:"status"`
	Passengers Passengers     `json:"passengers"`
	Delays     DelayList      `json:"delays" db:"delays"`
	Notes      *string        `json:"notes,omitempty" db:"notes"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// CreateScheduleRequest is the schedule-creation payload
type CreateScheduleRequest struct {
	Route         string    `json:"route" binding:"required"`
	Bus           string    `json:"bus" binding:"required"`
	Driver        string    `json:"driver,omitempty"`
	DepartureTime time.Time `json:"departure_time" binding:"required"`
	ArrivalTime   time.Time `json:"arrival_time" binding:"required"`
	Status        string    `json:"status,omitempty"`
	Notes         *string   `json:"notes,omitempty"`
}

// UpdateScheduleRequest carries a partial schedule update. Route, bus and
// driver follow the same three-way pointer semantics as bus updates.
type UpdateScheduleRequest struct {
	Route               *string    `json:"route,omitempty"`
	Bus                 *string    `json:"bus,omitempty"`
	Driver              *string    `json:"driver,omitempty"`
	DepartureTime       *time.Time `json:"departure_time,omitempty"`
	ArrivalTime         *time.Time `json:"arrival_time,omitempty"`
	ActualDepartureTime *time.Time `json:"actual_departure_time,omitempty"`
	ActualArrivalTime   *time.Time `json:"actual_arrival_time,omitempty"`
	Status              *string    `json:"status,omitempty"`
	PassengersCurrent   *int       `json:"passengers_current,omitempty"`
	PassengersBoarded   *int       `json:"passengers_boarded,omitempty"`
	PassengersAlighted  *int       `json:"passengers_alighted,omitempty"`
	Notes               *string    `json:"notes,omitempty"`
}

// AddDelayRequest appends a delay record to a schedule
type AddDelayRequest struct {
	Reason   string `json:"reason" binding:"required"`
	Duration int    `json:"duration"`
}

// ScheduleListFilter narrows schedule listings
type ScheduleListFilter struct {
	Status string
	Route  string
	Bus    string
	Page   int
	Limit  int
}

func validScheduleStatus(s string) bool {
	switch ScheduleStatus(s) {
	case ScheduleStatusScheduled, ScheduleStatusInProgress, ScheduleStatusCompleted,
		ScheduleStatusCancelled, ScheduleStatusDelayed:
		return true
	}
	return false
}

// Validate validates the CreateScheduleRequest
func (req *CreateScheduleRequest) Validate() error {
	if strings.TrimSpace(req.Route) == "" {
		return NewValidationError("route", "route is required")
	}
	if strings.TrimSpace(req.Bus) == "" {
		return NewValidationError("bus", "bus is required")
	}
	if req.DepartureTime.IsZero() {
		return NewValidationError("departure_time", "departure time is required")
	}
	if req.ArrivalTime.IsZero() {
		return NewValidationError("arrival_time", "arrival time is required")
	}
	if req.Status != "" && !validScheduleStatus(req.Status) {
		return NewValidationError("status", "invalid status")
	}
	if req.Notes != nil && len(*req.Notes) > 500 {
		return NewValidationError("notes", "notes cannot exceed 500 characters")
	}
	return nil
}

// Validate validates the UpdateScheduleRequest
func (req *UpdateScheduleRequest) Validate() error {
	if req.Status != nil && !validScheduleStatus(*req.Status) {
		return NewValidationError("status", "invalid status")
	}
	if req.PassengersCurrent != nil && *req.PassengersCurrent < 0 {
		return NewValidationError("passengers_current", "passenger count cannot be negative")
	}
	if req.PassengersBoarded != nil && *req.PassengersBoarded < 0 {
		return NewValidationError("passengers_boarded", "passenger count cannot be negative")
	}
	if req.PassengersAlighted != nil && *req.PassengersAlighted < 0 {
		return NewValidationError("passengers_alighted", "passenger count cannot be negative")
	}
	if req.Notes != nil && len(*req.Notes) > 500 {
		return NewValidationError("notes", "notes cannot exceed 500 characters")
	}
	return nil
}

// Validate validates the AddDelayRequest
func (req *AddDelayRequest) Validate() error {
	if strings.TrimSpace(req.Reason) == "" {
		return NewValidationError("reason", "delay reason is required")
	}
	if req.Duration < 0 {
		return NewValidationError("duration", "delay duration cannot be negative")
	}
	return nil
}

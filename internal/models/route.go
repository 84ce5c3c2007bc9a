package models

import (
	"database/sql/driver"
	"regexp"
	"strings"
	"time"
)

// RouteStatus represents the operational status of a route
type RouteStatus string

const (
	RouteStatusActive    RouteStatus = "active"
	RouteStatusSuspended RouteStatus = "suspended"
	RouteStatusSeasonal  RouteStatus = "seasonal"
)

var timeOfDayPattern = regexp.MustCompile(`^([0-1]?[0-9]|2[0-3]):[0-5][0-9]$`)

// Coordinates is a geographic point on a route stop
type Coordinates struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Stop is a single stop on a route. Order is caller-supplied and never
// reindexed by the backend.
type Stop struct {
	Name          string      `json:"name"`
	Coordinates   Coordinates `json:"coordinates"`
	EstimatedTime int         `json:"estimated_time"` // minutes from route start
	Order         int         `json:"order"`
}

// StopList is stored as a JSONB column
type StopList []Stop

// Value implements the driver.Valuer interface
func (s StopList) Value() (driver.Value, error) {
	if s == nil {
		return jsonbValue([]Stop{})
	}
	return jsonbValue([]Stop(s))
}

// Scan implements the sql.Scanner interface
func (s *StopList) Scan(src interface{}) error {
	return jsonbScan(src, s)
}

// OperatingHours is the daily service window in HH:MM strings,
// stored as a JSONB column
type OperatingHours struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// Value implements the driver.Valuer interface
func (h OperatingHours) Value() (driver.Value, error) {
	return jsonbValue(h)
}

// Scan implements the sql.Scanner interface
func (h *OperatingHours) Scan(src interface{}) error {
	return jsonbScan(src, h)
}

// Route is a bus route definition with an ordered stop sequence
type Route struct {
	ID             string         `json:"id" db:"id"`
	RouteNumber    string         `json:"route_number" db:"route_number"`
	Name           string         `json:"name" db:"name"`
	StartLocation  string         `json:"start_location" db:"start_location"`
	EndLocation    string         `json:"end_location" db:"end_location"`
	Stops          StopList       `json:"stops" db:"stops"`
	Distance       float64        `json:"distance" db:"distance"` // kilometers
	Duration       int            `json:"estimated_duration" db:"estimated_duration"`
	OperatingHours OperatingHours `json:"operating_hours" db:"operating_hours"`
	Frequency      int            `json:"frequency" db:"frequency"` // minutes
	Fare           float64        `json:"fare" db:"fare"`
	Status         RouteStatus    `json:"status" db:"status"`
	CreatedAt      time.Time      `json:"created_at" db:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at" db:"updated_at"`
}

// CreateRouteRequest is the route-creation payload
type CreateRouteRequest struct {
	RouteNumber    string         `json:"route_number" binding:"required"`
	Name           string         `json:"name" binding:"required"`
	StartLocation  string         `json:"start_location" binding:"required"`
	EndLocation    string         `json:"end_location" binding:"required"`
	Stops          []Stop         `json:"stops,omitempty"`
	Distance       float64        `json:"distance" binding:"required"`
	Duration       int            `json:"estimated_duration" binding:"required"`
	OperatingHours OperatingHours `json:"operating_hours"`
	Frequency      int            `json:"frequency" binding:"required"`
	Fare           *float64       `json:"fare" binding:"required"`
	Status         string         `json:"status,omitempty"`
}

// UpdateRouteRequest carries a partial route update
type UpdateRouteRequest struct {
	RouteNumber    *string         `json:"route_number,omitempty"`
	Name           *string         `json:"name,omitempty"`
	StartLocation  *string         `json:"start_location,omitempty"`
	EndLocation    *string         `json:"end_location,omitempty"`
	Stops          []Stop          `json:"stops,omitempty"`
	Distance       *float64        `json:"distance,omitempty"`
	Duration       *int            `json:"estimated_duration,omitempty"`
	OperatingHours *OperatingHours `json:"operating_hours,omitempty"`
	Frequency      *int            `json:"frequency,omitempty"`
	Fare           *float64        `json:"fare,omitempty"`
	Status         *string         `json:"status,omitempty"`
}

// RouteListFilter narrows route listings
type RouteListFilter struct {
	Status string
	Page   int
	Limit  int
}

func validRouteStatus(s string) bool {
	switch RouteStatus(s) {
	case RouteStatusActive, RouteStatusSuspended, RouteStatusSeasonal:
		return true
	}
	return false
}

func validateStops(stops []Stop) error {
	for _, stop := range stops {
		if strings.TrimSpace(stop.Name) == "" {
			return NewValidationError("stops", "stop name is required")
		}
	}
	return nil
}

// Validate validates the CreateRouteRequest
func (req *CreateRouteRequest) Validate() error {
	if strings.TrimSpace(req.RouteNumber) == "" {
		return NewValidationError("route_number", "route number is required")
	}
	if strings.TrimSpace(req.Name) == "" {
		return NewValidationError("name", "route name is required")
	}
	if req.Distance < 0.1 {
		return NewValidationError("distance", "distance must be at least 0.1 km")
	}
	if req.Duration < 1 {
		return NewValidationError("estimated_duration", "duration must be at least 1 minute")
	}
	if !timeOfDayPattern.MatchString(req.OperatingHours.Start) {
		return NewValidationError("operating_hours.start", "invalid time format, expected HH:MM")
	}
	if !timeOfDayPattern.MatchString(req.OperatingHours.End) {
		return NewValidationError("operating_hours.end", "invalid time format, expected HH:MM")
	}
	if req.Frequency < 5 {
		return NewValidationError("frequency", "frequency must be at least 5 minutes")
	}
	if req.Fare == nil || *req.Fare < 0 {
		return NewValidationError("fare", "fare cannot be negative")
	}
	if req.Status != "" && !validRouteStatus(req.Status) {
		return NewValidationError("status", "invalid status")
	}
	return validateStops(req.Stops)
}

// Validate validates the UpdateRouteRequest
func (req *UpdateRouteRequest) Validate() error {
	if req.RouteNumber != nil && strings.TrimSpace(*req.RouteNumber) == "" {
		return NewValidationError("route_number", "route number cannot be empty")
	}
	if req.Distance != nil && *req.Distance < 0.1 {
		return NewValidationError("distance", "distance must be at least 0.1 km")
	}
	if req.Duration != nil && *req.Duration < 1 {
		return NewValidationError("estimated_duration", "duration must be at least 1 minute")
	}
	if req.OperatingHours != nil {
		if !timeOfDayPattern.MatchString(req.OperatingHours.Start) {
			return NewValidationError("operating_hours.start", "invalid time format, expected HH:MM")
		}
		if !timeOfDayPattern.MatchString(req.OperatingHours.End) {
			return NewValidationError("operating_hours.end", "invalid time format, expected HH:MM")
		}
	}
	if req.Frequency != nil && *req.Frequency < 5 {
		return NewValidationError("frequency", "frequency must be at least 5 minutes")
	}
	if req.Fare != nil && *req.Fare < 0 {
		return NewValidationError("fare", "fare cannot be negative")
	}
	if req.Status != nil && !validRouteStatus(*req.Status) {
		return NewValidationError("status", "invalid status")
	}
	return validateStops(req.Stops)
}

package models

import (
	"strings"
	"time"
)

// BusType represents the vehicle category
type BusType string

const (
	BusTypeStandard   BusType = "standard"
	BusTypeLuxury     BusType = "luxury"
	BusTypeDoubleDeck BusType = "double-decker"
	BusTypeMini       BusType = "mini"
)

// BusStatus represents the operational status of a bus
type BusStatus string

const (
	BusStatusActive       BusStatus = "active"
	BusStatusMaintenance  BusStatus = "maintenance"
	BusStatusOutOfService BusStatus = "out-of-service"
	BusStatusRetired      BusStatus = "retired"
)

// FuelType represents the fuel/powertrain of a bus
type FuelType string

const (
	FuelDiesel   FuelType = "diesel"
	FuelPetrol   FuelType = "petrol"
	FuelElectric FuelType = "electric"
	FuelHybrid   FuelType = "hybrid"
)

// Bus is a fleet vehicle. The driver and route fields are polymorphic:
// either a 24-hex store identifier or a free-text display label. The
// reference resolver is the only place that tells the two apart.
type Bus struct {
	ID        string    `json:"id" db:"id"`
	BusNumber string    `json:"bus_number" db:"bus_number"`
	Capacity  int       `json:"capacity" db:"capacity"`
	Type      BusType   `json:"type" db:"type"`
	Status    BusStatus `json:"status" db:"status"`

	Driver *string `json:"driver,omitempty" db:"driver"`
	Route  *string `json:"route,omitempty" db:"route"`

	Model           *string    `json:"model,omitempty" db:"model"`
	Year            *int       `json:"year,omitempty" db:"year"`
	LicensePlate    *string    `json:"license_plate,omitempty" db:"license_plate"`
	FuelType        FuelType   `json:"fuel_type" db:"fuel_type"`
	LastMaintenance *time.Time `json:"last_maintenance,omitempty" db:"last_maintenance"`
	NextMaintenance *time.Time `json:"next_maintenance,omitempty" db:"next_maintenance"`
	Mileage         float64    `json:"mileage" db:"mileage"`
	Features        StringList `json:"features" db:"features"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// CreateBusRequest is the fleet-creation payload
type CreateBusRequest struct {
	BusNumber       string   `json:"bus_number" binding:"required"`
	Capacity        int      `json:"capacity" binding:"required"`
	Type            string   `json:"type,omitempty"`
	Status          string   `json:"status,omitempty"`
	Driver          string   `json:"driver,omitempty"`
	Route           string   `json:"route,omitempty"`
	Model           *string  `json:"model,omitempty"`
	Year            *int     `json:"year,omitempty"`
	LicensePlate    *string  `json:"license_plate,omitempty"`
	FuelType        string   `json:"fuel_type,omitempty"`
	Mileage         *float64 `json:"mileage,omitempty"`
	Features        []string `json:"features,omitempty"`
	NextMaintenance *string  `json:"next_maintenance,omitempty"` // Format: YYYY-MM-DD
}

// UpdateBusRequest carries a partial bus update. For driver and route the
// pointer encodes three cases: nil = field absent and left untouched,
// pointer to "" = clear, pointer to a value = set after resolution.
type UpdateBusRequest struct {
	BusNumber       *string  `json:"bus_number,omitempty"`
	Capacity        *int     `json:"capacity,omitempty"`
	Type            *string  `json:"type,omitempty"`
	Status          *string  `json:"status,omitempty"`
	Driver          *string  `json:"driver,omitempty"`
	Route           *string  `json:"route,omitempty"`
	Model           *string  `json:"model,omitempty"`
	Year            *int     `json:"year,omitempty"`
	LicensePlate    *string  `json:"license_plate,omitempty"`
	FuelType        *string  `json:"fuel_type,omitempty"`
	Mileage         *float64 `json:"mileage,omitempty"`
	Features        []string `json:"features,omitempty"`
	LastMaintenance *string  `json:"last_maintenance,omitempty"` // Format: YYYY-MM-DD
	NextMaintenance *string  `json:"next_maintenance,omitempty"` // Format: YYYY-MM-DD
}

// BusListFilter narrows fleet listings
type BusListFilter struct {
	Status string
	Route  string
	Page   int
	Limit  int
}

func validBusType(t string) bool {
	switch BusType(t) {
	case BusTypeStandard, BusTypeLuxury, BusTypeDoubleDeck, BusTypeMini:
		return true
	}
	return false
}

func validBusStatus(s string) bool {
	switch BusStatus(s) {
	case BusStatusActive, BusStatusMaintenance, BusStatusOutOfService, BusStatusRetired:
		return true
	}
	return false
}

func validFuelType(f string) bool {
	switch FuelType(f) {
	case FuelDiesel, FuelPetrol, FuelElectric, FuelHybrid:
		return true
	}
	return false
}

// Validate validates the CreateBusRequest
func (req *CreateBusRequest) Validate() error {
	if strings.TrimSpace(req.BusNumber) == "" {
		return NewValidationError("bus_number", "bus number is required")
	}
	if req.Capacity < 1 || req.Capacity > 100 {
		return NewValidationError("capacity", "capacity must be between 1 and 100")
	}
	if req.Type != "" && !validBusType(req.Type) {
		return NewValidationError("type", "invalid bus type")
	}
	if req.Status != "" && !validBusStatus(req.Status) {
		return NewValidationError("status", "invalid status")
	}
	if req.FuelType != "" && !validFuelType(req.FuelType) {
		return NewValidationError("fuel_type", "invalid fuel type")
	}
	if req.Year != nil {
		currentYear := time.Now().Year()
		if *req.Year < 1980 || *req.Year > currentYear+1 {
			return NewValidationError("year", "invalid year")
		}
	}
	if req.Mileage != nil && *req.Mileage < 0 {
		return NewValidationError("mileage", "mileage cannot be negative")
	}
	return nil
}

// Validate validates the UpdateBusRequest
func (req *UpdateBusRequest) Validate() error {
	if req.BusNumber != nil && strings.TrimSpace(*req.BusNumber) == "" {
		return NewValidationError("bus_number", "bus number cannot be empty")
	}
	if req.Capacity != nil && (*req.Capacity < 1 || *req.Capacity > 100) {
		return NewValidationError("capacity", "capacity must be between 1 and 100")
	}
	if req.Type != nil && !validBusType(*req.Type) {
		return NewValidationError("type", "invalid bus type")
	}
	if req.Status != nil && !validBusStatus(*req.Status) {
		return NewValidationError("status", "invalid status")
	}
	if req.FuelType != nil && !validFuelType(*req.FuelType) {
		return NewValidationError("fuel_type", "invalid fuel type")
	}
	if req.Year != nil {
		currentYear := time.Now().Year()
		if *req.Year < 1980 || *req.Year > currentYear+1 {
			return NewValidationError("year", "invalid year")
		}
	}
	if req.Mileage != nil && *req.Mileage < 0 {
		return NewValidationError("mileage", "mileage cannot be negative")
	}
	return nil
}

// FleetStats is the read-only fleet aggregation
type FleetStats struct {
	TotalBuses        int64            `json:"total_buses"`
	ActiveBuses       int64            `json:"active_buses"`
	MaintenanceBuses  int64            `json:"maintenance_buses"`
	OutOfServiceBuses int64            `json:"out_of_service_buses"`
	TotalCapacity     int64            `json:"total_capacity"`
	AverageMileage    int64            `json:"average_mileage"`
	TotalMileage      float64          `json:"total_mileage"`
	UtilizationRate   int64            `json:"utilization_rate"`
	BusByType         map[string]int64 `json:"bus_by_type"`
}

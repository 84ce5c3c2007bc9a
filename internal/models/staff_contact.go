package models

import (
	"strings"
	"time"
)

// StaffShift represents a staff member's working shift
type StaffShift string

const (
	ShiftDay      StaffShift = "Day (8:00 AM - 4:00 PM)"
	ShiftEvening  StaffShift = "Evening (4:00 PM - 12:00 AM)"
	ShiftNight    StaffShift = "Night (12:00 AM - 8:00 AM)"
	ShiftRotating StaffShift = "Rotating"
)

// StaffStatus represents a staff member's employment status
type StaffStatus string

const (
	StaffStatusActive     StaffStatus = "active"
	StaffStatusInactive   StaffStatus = "inactive"
	StaffStatusOnLeave    StaffStatus = "on-leave"
	StaffStatusTerminated StaffStatus = "terminated"
)

// StaffContact is a directory entry for operations staff. Email is unique
// at the store level, unlike customer contacts.
type StaffContact struct {
	ID               string      `json:"id" db:"id"`
	Name             string      `json:"name" db:"name"`
	Email            string      `json:"email" db:"email"`
	Phone            string      `json:"phone" db:"phone"`
	Department       string      `json:"department" db:"department"`
	Position         *string     `json:"position,omitempty" db:"position"`
	Role             *string     `json:"role,omitempty" db:"role"`
	Shift            StaffShift  `json:"shift" db:"shift"`
	Status           StaffStatus `json:"status" db:"status"`
	EmergencyContact *string     `json:"emergency_contact,omitempty" db:"emergency_contact"`
	Address          *string     `json:"address,omitempty" db:"address"`
	HireDate         time.Time   `json:"hire_date" db:"hire_date"`
	CreatedAt        time.Time   `json:"created_at" db:"created_at"`
	UpdatedAt        time.Time   `json:"updated_at" db:"updated_at"`
}

// CreateStaffContactRequest is the staff-directory creation payload
type CreateStaffContactRequest struct {
	Name             string  `json:"name" binding:"required"`
	Email            string  `json:"email" binding:"required"`
	Phone            string  `json:"phone" binding:"required"`
	Department       string  `json:"department" binding:"required"`
	Position         *string `json:"position,omitempty"`
	Role             *string `json:"role,omitempty"`
	Shift            string  `json:"shift,omitempty"`
	Status           string  `json:"status,omitempty"`
	EmergencyContact *string `json:"emergency_contact,omitempty"`
	Address          *string `json:"address,omitempty"`
	HireDate         *string `json:"hire_date,omitempty"` // Format: YYYY-MM-DD
}

// UpdateStaffContactRequest carries a partial staff-directory update
type UpdateStaffContactRequest struct {
	Name             *string `json:"name,omitempty"`
	Email            *string `json:"email,omitempty"`
	Phone            *string `json:"phone,omitempty"`
	Department       *string `json:"department,omitempty"`
	Position         *string `json:"position,omitempty"`
	Role             *string `json:"role,omitempty"`
	Shift            *string `json:"shift,omitempty"`
	Status           *string `json:"status,omitempty"`
	EmergencyContact *string `json:"emergency_contact,omitempty"`
	Address          *string `json:"address,omitempty"`
}

// StaffContactListFilter narrows staff directory listings
type StaffContactListFilter struct {
	Department string
	Status     string
	Search     string
	Page       int
	Limit      int
}

func validStaffShift(s string) bool {
	switch StaffShift(s) {
	case ShiftDay, ShiftEvening, ShiftNight, ShiftRotating:
		return true
	}
	return false
}

func validStaffStatus(s string) bool {
	switch StaffStatus(s) {
	case StaffStatusActive, StaffStatusInactive, StaffStatusOnLeave, StaffStatusTerminated:
		return true
	}
	return false
}

// Validate validates the CreateStaffContactRequest
func (req *CreateStaffContactRequest) Validate() error {
	if err := validateContactCommon(req.Name, req.Email); err != nil {
		return err
	}
	if strings.TrimSpace(req.Phone) == "" {
		return NewValidationError("phone", "phone is required")
	}
	if strings.TrimSpace(req.Department) == "" {
		return NewValidationError("department", "department is required")
	}
	if len(req.Department) > 100 {
		return NewValidationError("department", "department cannot exceed 100 characters")
	}
	if req.Shift != "" && !validStaffShift(req.Shift) {
		return NewValidationError("shift", "invalid shift")
	}
	if req.Status != "" && !validStaffStatus(req.Status) {
		return NewValidationError("status", "invalid status")
	}
	return nil
}

// Validate validates the UpdateStaffContactRequest
func (req *UpdateStaffContactRequest) Validate() error {
	if req.Name != nil && strings.TrimSpace(*req.Name) == "" {
		return NewValidationError("name", "name cannot be empty")
	}
	if req.Email != nil && !emailPattern.MatchString(NormalizeEmail(*req.Email)) {
		return NewValidationError("email", "invalid email address")
	}
	if req.Department != nil && len(*req.Department) > 100 {
		return NewValidationError("department", "department cannot exceed 100 characters")
	}
	if req.Shift != nil && !validStaffShift(*req.Shift) {
		return NewValidationError("shift", "invalid shift")
	}
	if req.Status != nil && !validStaffStatus(*req.Status) {
		return NewValidationError("status", "invalid status")
	}
	return nil
}

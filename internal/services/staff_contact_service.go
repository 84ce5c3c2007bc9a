package services

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/citytransit/fleet-admin-backend/internal/database"
	"github.com/citytransit/fleet-admin-backend/internal/models"
)

// StaffContactStore is the persistence surface the staff directory depends on
type StaffContactStore interface {
	Create(staff *models.StaffContact) error
	GetByID(id string) (*models.StaffContact, error)
	GetByEmail(email, excludeID string) (*models.StaffContact, error)
	List(filter models.StaffContactListFilter) ([]models.StaffContact, error)
	Count(filter models.StaffContactListFilter) (int64, error)
	Update(id string, req *models.UpdateStaffContactRequest) error
	Delete(id string) error
}

// StaffContactService handles business logic for the staff directory
type StaffContactService struct {
	staff  StaffContactStore
	logger *logrus.Logger
}

// NewStaffContactService creates a new StaffContactService
func NewStaffContactService(staff StaffContactStore, logger *logrus.Logger) *StaffContactService {
	return &StaffContactService{staff: staff, logger: logger}
}

// Create adds a directory entry. Email is unique across the whole directory,
// active or not.
func (s *StaffContactService) Create(req *models.CreateStaffContactRequest) (*models.StaffContact, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	email := models.NormalizeEmail(req.Email)
	existing, err := s.staff.GetByEmail(email, "")
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrDuplicateStaffEmail
	}

	staff := &models.StaffContact{
		Name:             req.Name,
		Email:            email,
		Phone:            req.Phone,
		Department:       req.Department,
		Position:         req.Position,
		Role:             req.Role,
		Shift:            models.StaffShift(req.Shift),
		Status:           models.StaffStatus(req.Status),
		EmergencyContact: req.EmergencyContact,
		Address:          req.Address,
		HireDate:         time.Now(),
	}
	if staff.Shift == "" {
		staff.Shift = models.ShiftDay
	}
	if staff.Status == "" {
		staff.Status = models.StaffStatusActive
	}
	if req.HireDate != nil {
		t, err := time.Parse("2006-01-02", *req.HireDate)
		if err != nil {
			return nil, models.NewValidationError("hire_date", "invalid date format, expected YYYY-MM-DD")
		}
		staff.HireDate = t
	}

	if err := s.staff.Create(staff); err != nil {
		if database.IsUniqueViolation(err, "") {
			return nil, ErrDuplicateStaffEmail
		}
		return nil, err
	}

	s.logger.WithFields(logrus.Fields{
		"staff_id":   staff.ID,
		"department": staff.Department,
	}).Info("Staff contact created")

	return staff, nil
}

// Get retrieves a directory entry by id
func (s *StaffContactService) Get(id string) (*models.StaffContact, error) {
	staff, err := s.staff.GetByID(id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return staff, nil
}

// List retrieves directory entries and the unpaged total for the same filter
func (s *StaffContactService) List(filter models.StaffContactListFilter) ([]models.StaffContact, int64, error) {
	contacts, err := s.staff.List(filter)
	if err != nil {
		return nil, 0, err
	}

	total, err := s.staff.Count(filter)
	if err != nil {
		return nil, 0, err
	}

	return contacts, total, nil
}

// Update applies a partial update, re-checking email uniqueness when the
// address changes
func (s *StaffContactService) Update(id string, req *models.UpdateStaffContactRequest) (*models.StaffContact, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	if req.Email != nil {
		existing, err := s.staff.GetByEmail(models.NormalizeEmail(*req.Email), id)
		if err != nil {
			return nil, err
		}
		if existing != nil {
			return nil, ErrDuplicateStaffEmail
		}
	}

	if err := s.staff.Update(id, req); err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrNotFound
		}
		if database.IsUniqueViolation(err, "") {
			return nil, ErrDuplicateStaffEmail
		}
		return nil, err
	}

	staff, err := s.staff.GetByID(id)
	if err != nil {
		return nil, fmt.Errorf("failed to reload staff contact: %w", err)
	}

	return staff, nil
}

// Delete removes a directory entry permanently
func (s *StaffContactService) Delete(id string) error {
	err := s.staff.Delete(id)
	if err == sql.ErrNoRows {
		return ErrNotFound
	}
	return err
}

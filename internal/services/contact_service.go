package services

import (
	"database/sql"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/citytransit/fleet-admin-backend/internal/database"
	"github.com/citytransit/fleet-admin-backend/internal/models"
)

// ContactStore is the persistence surface the contact service depends on
type ContactStore interface {
	Create(contact *models.Contact) error
	GetByID(id string) (*models.Contact, error)
	FindActiveByEmail(email, excludeID string) (*models.Contact, error)
	List(filter models.ContactListFilter) ([]models.Contact, error)
	Count(filter models.ContactListFilter) (int64, error)
	ListUrgent() ([]models.Contact, error)
	Update(id string, req *models.UpdateContactRequest) error
	MarkRead(id, readerID string) error
	SetResponse(id, message, responderID string) error
	Delete(id string) error
	CountByStatus(status string) (int64, error)
	GroupCountByCategory() (map[string]int64, error)
	GroupCountByPriority() (map[string]int64, error)
}

// ContactService handles business logic for contacts and public inquiries
type ContactService struct {
	contacts ContactStore
	resolver *Resolver
	logger   *logrus.Logger
}

// NewContactService creates a new ContactService
func NewContactService(contacts ContactStore, resolver *Resolver, logger *logrus.Logger) *ContactService {
	return &ContactService{
		contacts: contacts,
		resolver: resolver,
		logger:   logger,
	}
}

// Create records a staff contact entry. Subject and message fall back to
// generated defaults so directory-style submissions need neither.
func (s *ContactService) Create(req *models.CreateContactRequest) (*models.Contact, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	email := models.NormalizeEmail(req.Email)
	if err := s.checkActiveEmail(email, ""); err != nil {
		return nil, err
	}

	contact := &models.Contact{
		Name:       req.Name,
		Email:      email,
		Phone:      req.Phone,
		Subject:    req.Subject,
		Message:    req.Message,
		Category:   models.ContactCategory(req.Category),
		Priority:   models.ContactPriority(req.Priority),
		Status:     models.ContactStatusNew,
		Department: req.Department,
		Position:   req.Position,
		Role:       req.Role,
	}
	if contact.Category == "" {
		contact.Category = models.CategoryInquiry
	}
	if contact.Priority == "" {
		contact.Priority = models.PriorityMedium
	}
	if contact.Subject == "" {
		contact.Subject = staffSubject(req)
	}
	if contact.Message == "" {
		contact.Message = "Contact information for " + req.Name
	}

	if err := s.resolveRelated(contact, req.RelatedRoute, req.RelatedBus); err != nil {
		return nil, err
	}

	if err := s.contacts.Create(contact); err != nil {
		if database.IsUniqueViolation(err, "") {
			return nil, ErrDuplicateActiveContact
		}
		return nil, err
	}

	s.logger.WithFields(logrus.Fields{
		"contact_id": contact.ID,
		"email":      contact.Email,
	}).Info("Contact created")

	return contact, nil
}

// staffSubject derives the default subject from the most specific role
// field present
func staffSubject(req *models.CreateContactRequest) string {
	descriptor := "Staff"
	switch {
	case req.Role != nil && *req.Role != "":
		descriptor = *req.Role
	case req.Position != nil && *req.Position != "":
		descriptor = *req.Position
	case req.Department != nil && *req.Department != "":
		descriptor = *req.Department
	}
	return descriptor + " Contact"
}

// CreateInquiry records a public inquiry. Unlike the staff path, subject
// and message are mandatory and validated upstream.
func (s *ContactService) CreateInquiry(req *models.CreateInquiryRequest) (*models.Contact, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	email := models.NormalizeEmail(req.Email)
	if err := s.checkActiveEmail(email, ""); err != nil {
		return nil, err
	}

	contact := &models.Contact{
		Name:     req.Name,
		Email:    email,
		Phone:    req.Phone,
		Subject:  req.Subject,
		Message:  req.Message,
		Category: models.ContactCategory(req.Category),
		Priority: models.PriorityMedium,
		Status:   models.ContactStatusNew,
	}
	if contact.Category == "" {
		contact.Category = models.CategoryInquiry
	}

	if err := s.resolveRelated(contact, req.RelatedRoute, req.RelatedBus); err != nil {
		return nil, err
	}

	if err := s.contacts.Create(contact); err != nil {
		if database.IsUniqueViolation(err, "") {
			return nil, ErrDuplicateActiveContact
		}
		return nil, err
	}

	s.logger.WithFields(logrus.Fields{
		"contact_id": contact.ID,
		"category":   contact.Category,
	}).Info("Inquiry received")

	return contact, nil
}

func (s *ContactService) resolveRelated(contact *models.Contact, relatedRoute, relatedBus *string) error {
	if relatedRoute != nil && *relatedRoute != "" {
		resolved, err := s.resolver.ResolveRoute(*relatedRoute)
		if err != nil {
			return err
		}
		contact.RelatedRoute = &resolved
	}
	if relatedBus != nil && *relatedBus != "" {
		resolved, err := s.resolver.ResolveBus(*relatedBus)
		if err != nil {
			return err
		}
		contact.RelatedBus = &resolved
	}
	return nil
}

func (s *ContactService) checkActiveEmail(email, excludeID string) error {
	existing, err := s.contacts.FindActiveByEmail(email, excludeID)
	if err != nil {
		return err
	}
	if existing != nil {
		return ErrDuplicateActiveContact
	}
	return nil
}

// Get retrieves a contact and stamps its read-state on first access. The
// stamp is applied before the fetch so the caller always sees the state
// their read produced.
func (s *ContactService) Get(id, readerID string) (*models.Contact, error) {
	if err := s.contacts.MarkRead(id, readerID); err != nil {
		return nil, err
	}

	contact, err := s.contacts.GetByID(id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, err
	}

	return contact, nil
}

// List retrieves contacts and the unpaged total for the same filter
func (s *ContactService) List(filter models.ContactListFilter) ([]models.Contact, int64, error) {
	contacts, err := s.contacts.List(filter)
	if err != nil {
		return nil, 0, err
	}

	total, err := s.contacts.Count(filter)
	if err != nil {
		return nil, 0, err
	}

	return contacts, total, nil
}

// ListUrgent retrieves open high and urgent priority contacts
func (s *ContactService) ListUrgent() ([]models.Contact, error) {
	return s.contacts.ListUrgent()
}

// Update applies a partial update. Any typed field may be overwritten; an
// email change re-runs the active-uniqueness check against other records.
func (s *ContactService) Update(id string, req *models.UpdateContactRequest) (*models.Contact, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	if req.Email != nil {
		if err := s.checkActiveEmail(models.NormalizeEmail(*req.Email), id); err != nil {
			return nil, err
		}
	}

	if req.RelatedRoute != nil && *req.RelatedRoute != "" {
		resolved, err := s.resolver.ResolveRoute(*req.RelatedRoute)
		if err != nil {
			return nil, err
		}
		req.RelatedRoute = &resolved
	}
	if req.RelatedBus != nil && *req.RelatedBus != "" {
		resolved, err := s.resolver.ResolveBus(*req.RelatedBus)
		if err != nil {
			return nil, err
		}
		req.RelatedBus = &resolved
	}
	if req.AssignedTo != nil && *req.AssignedTo != "" {
		resolved, err := s.resolver.ResolveDriver(*req.AssignedTo)
		if err != nil {
			return nil, err
		}
		req.AssignedTo = &resolved
	}

	if err := s.contacts.Update(id, req); err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrNotFound
		}
		if database.IsUniqueViolation(err, "") {
			return nil, ErrDuplicateActiveContact
		}
		return nil, err
	}

	contact, err := s.contacts.GetByID(id)
	if err != nil {
		return nil, fmt.Errorf("failed to reload contact: %w", err)
	}

	return contact, nil
}

// Respond overwrites the single response slot and forces the record to
// resolved. Earlier responses are not preserved.
func (s *ContactService) Respond(id string, req *models.RespondRequest, responderID string) (*models.Contact, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	if err := s.contacts.SetResponse(id, req.Message, responderID); err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, err
	}

	contact, err := s.contacts.GetByID(id)
	if err != nil {
		return nil, fmt.Errorf("failed to reload contact: %w", err)
	}

	s.logger.WithFields(logrus.Fields{
		"contact_id":   id,
		"responded_by": responderID,
	}).Info("Contact response recorded")

	return contact, nil
}

// Delete removes a contact permanently
func (s *ContactService) Delete(id string) error {
	err := s.contacts.Delete(id)
	if err == sql.ErrNoRows {
		return ErrNotFound
	}
	return err
}

// Stats aggregates contact totals and breakdowns
func (s *ContactService) Stats() (*models.ContactStats, error) {
	total, err := s.contacts.CountByStatus("")
	if err != nil {
		return nil, err
	}

	stats := &models.ContactStats{TotalContacts: total}

	for _, status := range []struct {
		name string
		dest *int64
	}{
		{"new", &stats.StatusBreakdown.New},
		{"in-progress", &stats.StatusBreakdown.InProgress},
		{"resolved", &stats.StatusBreakdown.Resolved},
		{"closed", &stats.StatusBreakdown.Closed},
	} {
		count, err := s.contacts.CountByStatus(status.name)
		if err != nil {
			return nil, err
		}
		*status.dest = count
	}

	stats.CategoryBreakdown, err = s.contacts.GroupCountByCategory()
	if err != nil {
		return nil, err
	}

	stats.PriorityBreakdown, err = s.contacts.GroupCountByPriority()
	if err != nil {
		return nil, err
	}

	return stats, nil
}

package models

import (
	"regexp"
	"strings"
	"time"
)

// ContactCategory classifies the subject matter of a contact record
type ContactCategory string

const (
	CategoryComplaint  ContactCategory = "complaint"
	CategorySuggestion ContactCategory = "suggestion"
	CategoryInquiry    ContactCategory = "inquiry"
	CategoryCompliment ContactCategory = "compliment"
	CategoryLostFound  ContactCategory = "lost-found"
	CategoryOther      ContactCategory = "other"
)

// ContactPriority represents handling priority
type ContactPriority string

const (
	PriorityLow    ContactPriority = "low"
	PriorityMedium ContactPriority = "medium"
	PriorityHigh   ContactPriority = "high"
	PriorityUrgent ContactPriority = "urgent"
)

// ContactStatus represents the lifecycle state of a contact record.
// A contact is "active" in every status except closed.
type ContactStatus string

const (
	ContactStatusNew        ContactStatus = "new"
	ContactStatusInProgress ContactStatus = "in-progress"
	ContactStatusResolved   ContactStatus = "resolved"
	ContactStatusClosed     ContactStatus = "closed"
)

var emailPattern = regexp.MustCompile(`^[\w.+-]+@[\w-]+(\.[\w-]+)+$`)

// ContactResponse is the single response attached to a contact.
// Only one response is retained; a second respond call overwrites it.
type ContactResponse struct {
	Message     string    `json:"message"`
	RespondedBy string    `json:"responded_by"`
	RespondedAt time.Time `json:"responded_at"`
}

// Contact is the unified customer-inquiry / staff-contact record
type Contact struct {
	ID       string          `json:"id" db:"id"`
	Name     string          `json:"name" db:"name"`
	Email    string          `json:"email" db:"email"`
	Phone    *string         `json:"phone,omitempty" db:"phone"`
	Subject  string          `json:"subject" db:"subject"`
	Message  string          `json:"message" db:"message"`
	Category ContactCategory `json:"category" db:"category"`
	Priority ContactPriority `json:"priority" db:"priority"`
	Status   ContactStatus   `json:"status" db:"status"`

	// Weak references; may point at records that no longer exist
	AssignedTo   *string `json:"assigned_to,omitempty" db:"assigned_to"`
	RelatedRoute *string `json:"related_route,omitempty" db:"related_route"`
	RelatedBus   *string `json:"related_bus,omitempty" db:"related_bus"`

	// Staff-originated contacts carry origin metadata
	Department *string `json:"department,omitempty" db:"department"`
	Position   *string `json:"position,omitempty" db:"position"`
	Role       *string `json:"role,omitempty" db:"role"`

	Response *ContactResponse `json:"response,omitempty"`

	// Read-state transitions exactly once, on first read
	IsRead bool       `json:"is_read" db:"is_read"`
	ReadAt *time.Time `json:"read_at,omitempty" db:"read_at"`
	ReadBy *string    `json:"read_by,omitempty" db:"read_by"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// IsActive reports whether the contact still counts against the
// one-active-contact-per-email rule.
func (c *Contact) IsActive() bool {
	return c.Status != ContactStatusClosed
}

// CreateContactRequest is the staff-originated creation payload.
// Subject and message are optional; defaults are derived from the
// role/position/department fields.
type CreateContactRequest struct {
	Name         string  `json:"name" binding:"required"`
	Email        string  `json:"email" binding:"required"`
	Phone        *string `json:"phone,omitempty"`
	Subject      string  `json:"subject,omitempty"`
	Message      string  `json:"message,omitempty"`
	Category     string  `json:"category,omitempty"`
	Priority     string  `json:"priority,omitempty"`
	RelatedRoute *string `json:"related_route,omitempty"`
	RelatedBus   *string `json:"related_bus,omitempty"`
	Department   *string `json:"department,omitempty"`
	Position     *string `json:"position,omitempty"`
	Role         *string `json:"role,omitempty"`
}

// CreateInquiryRequest is the public customer-inquiry submission payload.
// Unlike staff contacts, subject and message are mandatory here.
type CreateInquiryRequest struct {
	Name         string  `json:"name" binding:"required"`
	Email        string  `json:"email" binding:"required"`
	Phone        *string `json:"phone,omitempty"`
	Subject      string  `json:"subject" binding:"required"`
	Message      string  `json:"message" binding:"required"`
	Category     string  `json:"category,omitempty"`
	RelatedRoute *string `json:"related_route,omitempty"`
	RelatedBus   *string `json:"related_bus,omitempty"`
}

// UpdateContactRequest carries a partial update. Nil means the field was
// absent from the payload and stays untouched.
type UpdateContactRequest struct {
	Name         *string `json:"name,omitempty"`
	Email        *string `json:"email,omitempty"`
	Phone        *string `json:"phone,omitempty"`
	Subject      *string `json:"subject,omitempty"`
	Message      *string `json:"message,omitempty"`
	Category     *string `json:"category,omitempty"`
	Priority     *string `json:"priority,omitempty"`
	Status       *string `json:"status,omitempty"`
	AssignedTo   *string `json:"assigned_to,omitempty"`
	RelatedRoute *string `json:"related_route,omitempty"`
	RelatedBus   *string `json:"related_bus,omitempty"`
	Department   *string `json:"department,omitempty"`
	Position     *string `json:"position,omitempty"`
	Role         *string `json:"role,omitempty"`
}

// RespondRequest attaches a response to a contact
type RespondRequest struct {
	Message string `json:"message" binding:"required"`
}

// ContactListFilter narrows contact/inquiry listings
type ContactListFilter struct {
	Status   string
	Category string
	Priority string
	Search   string
	Page     int
	Limit    int
}

func validCategory(c string) bool {
	switch ContactCategory(c) {
	case CategoryComplaint, CategorySuggestion, CategoryInquiry,
		CategoryCompliment, CategoryLostFound, CategoryOther:
		return true
	}
	return false
}

func validPriority(p string) bool {
	switch ContactPriority(p) {
	case PriorityLow, PriorityMedium, PriorityHigh, PriorityUrgent:
		return true
	}
	return false
}

func validContactStatus(s string) bool {
	switch ContactStatus(s) {
	case ContactStatusNew, ContactStatusInProgress, ContactStatusResolved, ContactStatusClosed:
		return true
	}
	return false
}

// NormalizeEmail lower-cases and trims an address the way the store keys it
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Validate validates the CreateContactRequest
func (req *CreateContactRequest) Validate() error {
	if err := validateContactCommon(req.Name, req.Email); err != nil {
		return err
	}
	if len(req.Subject) > 200 {
		return NewValidationError("subject", "subject cannot exceed 200 characters")
	}
	if len(req.Message) > 1000 {
		return NewValidationError("message", "message cannot exceed 1000 characters")
	}
	if req.Category != "" && !validCategory(req.Category) {
		return NewValidationError("category", "invalid category")
	}
	if req.Priority != "" && !validPriority(req.Priority) {
		return NewValidationError("priority", "invalid priority")
	}
	return nil
}

// Validate validates the CreateInquiryRequest
func (req *CreateInquiryRequest) Validate() error {
	if err := validateContactCommon(req.Name, req.Email); err != nil {
		return err
	}
	if strings.TrimSpace(req.Subject) == "" {
		return NewValidationError("subject", "subject is required")
	}
	if len(req.Subject) > 200 {
		return NewValidationError("subject", "subject cannot exceed 200 characters")
	}
	if strings.TrimSpace(req.Message) == "" {
		return NewValidationError("message", "message is required")
	}
	if len(req.Message) > 1000 {
		return NewValidationError("message", "message cannot exceed 1000 characters")
	}
	if req.Category != "" && !validCategory(req.Category) {
		return NewValidationError("category", "invalid category")
	}
	return nil
}

// Validate validates the UpdateContactRequest
func (req *UpdateContactRequest) Validate() error {
	if req.Name != nil {
		if strings.TrimSpace(*req.Name) == "" {
			return NewValidationError("name", "name cannot be empty")
		}
		if len(*req.Name) > 100 {
			return NewValidationError("name", "name cannot exceed 100 characters")
		}
	}
	if req.Email != nil && !emailPattern.MatchString(NormalizeEmail(*req.Email)) {
		return NewValidationError("email", "invalid email address")
	}
	if req.Subject != nil && len(*req.Subject) > 200 {
		return NewValidationError("subject", "subject cannot exceed 200 characters")
	}
	if req.Message != nil && len(*req.Message) > 1000 {
		return NewValidationError("message", "message cannot exceed 1000 characters")
	}
	if req.Category != nil && !validCategory(*req.Category) {
		return NewValidationError("category", "invalid category")
	}
	if req.Priority != nil && !validPriority(*req.Priority) {
		return NewValidationError("priority", "invalid priority")
	}
	if req.Status != nil && !validContactStatus(*req.Status) {
		return NewValidationError("status", "invalid status")
	}
	return nil
}

// Validate validates the RespondRequest
func (req *RespondRequest) Validate() error {
	if strings.TrimSpace(req.Message) == "" {
		return NewValidationError("message", "response message is required")
	}
	if len(req.Message) > 2000 {
		return NewValidationError("message", "response cannot exceed 2000 characters")
	}
	return nil
}

func validateContactCommon(name, email string) error {
	if strings.TrimSpace(name) == "" {
		return NewValidationError("name", "name is required")
	}
	if len(name) > 100 {
		return NewValidationError("name", "name cannot exceed 100 characters")
	}
	if !emailPattern.MatchString(NormalizeEmail(email)) {
		return NewValidationError("email", "invalid email address")
	}
	return nil
}

// ContactStats is the read-only aggregation returned by the stats endpoint
type ContactStats struct {
	TotalContacts     int64            `json:"total_contacts"`
	StatusBreakdown   StatusBreakdown  `json:"status_breakdown"`
	CategoryBreakdown map[string]int64 `json:"category_breakdown"`
	PriorityBreakdown map[string]int64 `json:"priority_breakdown"`
}

// StatusBreakdown holds per-status contact counts
type StatusBreakdown struct {
	New        int64 `json:"new"`
	InProgress int64 `json:"in_progress"`
	Resolved   int64 `json:"resolved"`
	Closed     int64 `json:"closed"`
}

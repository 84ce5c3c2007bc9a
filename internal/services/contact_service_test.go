package services

import (
	"database/sql"
	"io"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/citytransit/fleet-admin-backend/internal/database"
	"github.com/citytransit/fleet-admin-backend/internal/models"
)

func testLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

// fakeContactStore is an in-memory ContactStore
type fakeContactStore struct {
	contacts map[string]*models.Contact
}

func newFakeContactStore() *fakeContactStore {
	return &fakeContactStore{contacts: map[string]*models.Contact{}}
}

func (f *fakeContactStore) Create(contact *models.Contact) error {
	if contact.ID == "" {
		contact.ID = database.NewID()
	}
	contact.CreatedAt = time.Now()
	contact.UpdatedAt = contact.CreatedAt
	stored := *contact
	f.contacts[contact.ID] = &stored
	return nil
}

func (f *fakeContactStore) GetByID(id string) (*models.Contact, error) {
	contact, ok := f.contacts[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	copied := *contact
	return &copied, nil
}

func (f *fakeContactStore) FindActiveByEmail(email, excludeID string) (*models.Contact, error) {
	for _, contact := range f.contacts {
		if contact.Email == email && contact.ID != excludeID && contact.IsActive() {
			copied := *contact
			return &copied, nil
		}
	}
	return nil, nil
}

func (f *fakeContactStore) List(filter models.ContactListFilter) ([]models.Contact, error) {
	result := []models.Contact{}
	for _, contact := range f.contacts {
		if filter.Status != "" && string(contact.Status) != filter.Status {
			continue
		}
		result = append(result, *contact)
	}
	return result, nil
}

func (f *fakeContactStore) Count(filter models.ContactListFilter) (int64, error) {
	contacts, _ := f.List(filter)
	return int64(len(contacts)), nil
}

func (f *fakeContactStore) ListUrgent() ([]models.Contact, error) {
	result := []models.Contact{}
	for _, contact := range f.contacts {
		if (contact.Priority == models.PriorityHigh || contact.Priority == models.PriorityUrgent) &&
			contact.Status != models.ContactStatusClosed {
			result = append(result, *contact)
		}
	}
	return result, nil
}

func (f *fakeContactStore) Update(id string, req *models.UpdateContactRequest) error {
	contact, ok := f.contacts[id]
	if !ok {
		return sql.ErrNoRows
	}
	if req.Email != nil {
		contact.Email = models.NormalizeEmail(*req.Email)
	}
	if req.Status != nil {
		contact.Status = models.ContactStatus(*req.Status)
	}
	if req.Priority != nil {
		contact.Priority = models.ContactPriority(*req.Priority)
	}
	if req.Subject != nil {
		contact.Subject = *req.Subject
	}
	if req.AssignedTo != nil {
		contact.AssignedTo = req.AssignedTo
	}
	contact.UpdatedAt = time.Now()
	return nil
}

func (f *fakeContactStore) MarkRead(id, readerID string) error {
	contact, ok := f.contacts[id]
	if !ok {
		return nil
	}
	if contact.IsRead {
		return nil
	}
	now := time.Now()
	contact.IsRead = true
	contact.ReadAt = &now
	contact.ReadBy = &readerID
	return nil
}

func (f *fakeContactStore) SetResponse(id, message, responderID string) error {
	contact, ok := f.contacts[id]
	if !ok {
		return sql.ErrNoRows
	}
	now := time.Now()
	contact.Response = &models.ContactResponse{
		Message:     message,
		RespondedBy: responderID,
		RespondedAt: now,
	}
	contact.Status = models.ContactStatusResolved
	return nil
}

func (f *fakeContactStore) Delete(id string) error {
	if _, ok := f.contacts[id]; !ok {
		return sql.ErrNoRows
	}
	delete(f.contacts, id)
	return nil
}

func (f *fakeContactStore) CountByStatus(status string) (int64, error) {
	if status == "" {
		return int64(len(f.contacts)), nil
	}
	var count int64
	for _, contact := range f.contacts {
		if string(contact.Status) == status {
			count++
		}
	}
	return count, nil
}

func (f *fakeContactStore) GroupCountByCategory() (map[string]int64, error) {
	counts := map[string]int64{}
	for _, contact := range f.contacts {
		counts[string(contact.Category)]++
	}
	return counts, nil
}

func (f *fakeContactStore) GroupCountByPriority() (map[string]int64, error) {
	counts := map[string]int64{}
	for _, contact := range f.contacts {
		counts[string(contact.Priority)]++
	}
	return counts, nil
}

func newContactService(store *fakeContactStore) *ContactService {
	return NewContactService(store, resolverWith("", "", ""), testLogger())
}

func strPtr(s string) *string { return &s }

func TestContactCreateDefaults(t *testing.T) {
	t.Run("Role Drives Subject", func(t *testing.T) {
		store := newFakeContactStore()
		svc := newContactService(store)

		contact, err := svc.Create(&models.CreateContactRequest{
			Name:  "Nimal Perera",
			Email: "nimal@citytransit.example",
			Role:  strPtr("Depot Supervisor"),
		})
		require.NoError(t, err)
		assert.Equal(t, "Depot Supervisor Contact", contact.Subject)
		assert.Equal(t, "Contact information for Nimal Perera", contact.Message)
		assert.Equal(t, models.ContactStatusNew, contact.Status)
		assert.False(t, contact.IsRead)
	})

	t.Run("Category Defaults To Inquiry", func(t *testing.T) {
		store := newFakeContactStore()
		svc := newContactService(store)

		contact, err := svc.Create(&models.CreateContactRequest{
			Name:  "Sunil Gamage",
			Email: "sunil@citytransit.example",
		})
		require.NoError(t, err)
		assert.Equal(t, models.CategoryInquiry, contact.Category)
		assert.Equal(t, models.PriorityMedium, contact.Priority)
	})

	t.Run("Department Fallback", func(t *testing.T) {
		store := newFakeContactStore()
		svc := newContactService(store)

		contact, err := svc.Create(&models.CreateContactRequest{
			Name:       "Kamala Silva",
			Email:      "kamala@citytransit.example",
			Department: strPtr("Operations"),
		})
		require.NoError(t, err)
		assert.Equal(t, "Operations Contact", contact.Subject)
	})

	t.Run("Bare Staff Fallback", func(t *testing.T) {
		store := newFakeContactStore()
		svc := newContactService(store)

		contact, err := svc.Create(&models.CreateContactRequest{
			Name:  "Ruwan Jay",
			Email: "ruwan@citytransit.example",
		})
		require.NoError(t, err)
		assert.Equal(t, "Staff Contact", contact.Subject)
	})

	t.Run("Explicit Subject Kept", func(t *testing.T) {
		store := newFakeContactStore()
		svc := newContactService(store)

		contact, err := svc.Create(&models.CreateContactRequest{
			Name:    "Ruwan Jay",
			Email:   "ruwan@citytransit.example",
			Subject: "Schedule question",
		})
		require.NoError(t, err)
		assert.Equal(t, "Schedule question", contact.Subject)
	})
}

func TestContactActiveUniqueness(t *testing.T) {
	store := newFakeContactStore()
	svc := newContactService(store)

	first, err := svc.Create(&models.CreateContactRequest{
		Name:  "Nimal Perera",
		Email: "Nimal@CityTransit.example",
	})
	require.NoError(t, err)
	assert.Equal(t, "nimal@citytransit.example", first.Email)

	t.Run("Duplicate Active Rejected", func(t *testing.T) {
		_, err := svc.Create(&models.CreateContactRequest{
			Name:  "Someone Else",
			Email: "nimal@citytransit.example",
		})
		assert.ErrorIs(t, err, ErrDuplicateActiveContact)
	})

	t.Run("Closed Record Frees The Email", func(t *testing.T) {
		store.contacts[first.ID].Status = models.ContactStatusClosed

		_, err := svc.Create(&models.CreateContactRequest{
			Name:  "Someone Else",
			Email: "nimal@citytransit.example",
		})
		assert.NoError(t, err)
	})

	t.Run("Update Excludes Own Record", func(t *testing.T) {
		store := newFakeContactStore()
		svc := newContactService(store)

		contact, err := svc.Create(&models.CreateContactRequest{
			Name:  "Nimal Perera",
			Email: "nimal@citytransit.example",
		})
		require.NoError(t, err)

		_, err = svc.Update(contact.ID, &models.UpdateContactRequest{
			Email: strPtr("nimal@citytransit.example"),
		})
		assert.NoError(t, err)
	})
}

func TestContactReadOnce(t *testing.T) {
	store := newFakeContactStore()
	svc := newContactService(store)

	contact, err := svc.Create(&models.CreateContactRequest{
		Name:  "Nimal Perera",
		Email: "nimal@citytransit.example",
	})
	require.NoError(t, err)

	firstReader := database.NewID()
	read, err := svc.Get(contact.ID, firstReader)
	require.NoError(t, err)
	assert.True(t, read.IsRead)
	require.NotNil(t, read.ReadBy)
	assert.Equal(t, firstReader, *read.ReadBy)
	require.NotNil(t, read.ReadAt)
	firstReadAt := *read.ReadAt

	secondReader := database.NewID()
	again, err := svc.Get(contact.ID, secondReader)
	require.NoError(t, err)
	assert.Equal(t, firstReader, *again.ReadBy)
	assert.Equal(t, firstReadAt, *again.ReadAt)
}

func TestContactRespond(t *testing.T) {
	store := newFakeContactStore()
	svc := newContactService(store)

	contact, err := svc.Create(&models.CreateContactRequest{
		Name:  "Nimal Perera",
		Email: "nimal@citytransit.example",
	})
	require.NoError(t, err)

	responder := database.NewID()
	responded, err := svc.Respond(contact.ID, &models.RespondRequest{
		Message: "We are looking into it",
	}, responder)
	require.NoError(t, err)
	assert.Equal(t, models.ContactStatusResolved, responded.Status)
	require.NotNil(t, responded.Response)
	assert.Equal(t, "We are looking into it", responded.Response.Message)

	t.Run("Second Response Overwrites", func(t *testing.T) {
		other := database.NewID()
		responded, err := svc.Respond(contact.ID, &models.RespondRequest{
			Message: "Issue fixed",
		}, other)
		require.NoError(t, err)
		assert.Equal(t, "Issue fixed", responded.Response.Message)
		assert.Equal(t, other, responded.Response.RespondedBy)
	})

	t.Run("Missing Record", func(t *testing.T) {
		_, err := svc.Respond(database.NewID(), &models.RespondRequest{Message: "hello"}, responder)
		assert.ErrorIs(t, err, ErrNotFound)
	})
}

func TestCreateInquiry(t *testing.T) {
	store := newFakeContactStore()
	svc := newContactService(store)

	t.Run("Requires Subject And Message", func(t *testing.T) {
		_, err := svc.CreateInquiry(&models.CreateInquiryRequest{
			Name:    "Passenger",
			Email:   "passenger@example.com",
			Subject: "Bus never came",
		})
		require.Error(t, err)
		var validationErr *models.ValidationError
		assert.ErrorAs(t, err, &validationErr)
	})

	t.Run("Defaults Category And Priority", func(t *testing.T) {
		contact, err := svc.CreateInquiry(&models.CreateInquiryRequest{
			Name:    "Passenger",
			Email:   "passenger@example.com",
			Subject: "Bus never came",
			Message: "Waited 40 minutes at the central stop",
		})
		require.NoError(t, err)
		assert.Equal(t, models.CategoryInquiry, contact.Category)
		assert.Equal(t, models.PriorityMedium, contact.Priority)
	})
}

func TestContactStats(t *testing.T) {
	store := newFakeContactStore()
	svc := newContactService(store)

	for _, seed := range []struct {
		status   models.ContactStatus
		category models.ContactCategory
	}{
		{models.ContactStatusNew, models.CategoryComplaint},
		{models.ContactStatusNew, models.CategoryInquiry},
		{models.ContactStatusResolved, models.CategoryComplaint},
	} {
		store.Create(&models.Contact{
			Name:     "x",
			Email:    database.NewID() + "@example.com",
			Status:   seed.status,
			Category: seed.category,
			Priority: models.PriorityMedium,
		})
	}

	stats, err := svc.Stats()
	require.NoError(t, err)
	assert.Equal(t, int64(3), stats.TotalContacts)
	assert.Equal(t, int64(2), stats.StatusBreakdown.New)
	assert.Equal(t, int64(1), stats.StatusBreakdown.Resolved)
	assert.Equal(t, int64(2), stats.CategoryBreakdown["complaint"])
	assert.Equal(t, int64(3), stats.PriorityBreakdown["medium"])
}

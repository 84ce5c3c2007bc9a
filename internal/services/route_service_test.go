package services

import (
	"database/sql"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/citytransit/fleet-admin-backend/internal/database"
	"github.com/citytransit/fleet-admin-backend/internal/models"
)

// fakeRouteStore is an in-memory RouteStore
type fakeRouteStore struct {
	routes map[string]*models.Route
}

func newFakeRouteStore() *fakeRouteStore {
	return &fakeRouteStore{routes: map[string]*models.Route{}}
}

func (f *fakeRouteStore) Create(route *models.Route) error {
	if route.ID == "" {
		route.ID = database.NewID()
	}
	route.CreatedAt = time.Now()
	route.UpdatedAt = route.CreatedAt
	stored := *route
	f.routes[route.ID] = &stored
	return nil
}

func (f *fakeRouteStore) GetByID(id string) (*models.Route, error) {
	route, ok := f.routes[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	copied := *route
	return &copied, nil
}

func (f *fakeRouteStore) GetByRouteNumber(routeNumber, excludeID string) (*models.Route, error) {
	for _, route := range f.routes {
		if route.RouteNumber == routeNumber && route.ID != excludeID {
			copied := *route
			return &copied, nil
		}
	}
	return nil, nil
}

func (f *fakeRouteStore) List(filter models.RouteListFilter) ([]models.Route, error) {
	result := []models.Route{}
	for _, route := range f.routes {
		if filter.Status != "" && string(route.Status) != filter.Status {
			continue
		}
		result = append(result, *route)
	}
	return result, nil
}

func (f *fakeRouteStore) Count(filter models.RouteListFilter) (int64, error) {
	routes, _ := f.List(filter)
	return int64(len(routes)), nil
}

func (f *fakeRouteStore) Update(id string, req *models.UpdateRouteRequest) error {
	route, ok := f.routes[id]
	if !ok {
		return sql.ErrNoRows
	}
	if req.RouteNumber != nil {
		route.RouteNumber = strings.ToUpper(strings.TrimSpace(*req.RouteNumber))
	}
	if req.Name != nil {
		route.Name = *req.Name
	}
	if req.Stops != nil {
		route.Stops = models.StopList(req.Stops)
	}
	if req.Fare != nil {
		route.Fare = *req.Fare
	}
	if req.Status != nil {
		route.Status = models.RouteStatus(*req.Status)
	}
	route.UpdatedAt = time.Now()
	return nil
}

func (f *fakeRouteStore) Delete(id string) error {
	if _, ok := f.routes[id]; !ok {
		return sql.ErrNoRows
	}
	delete(f.routes, id)
	return nil
}

func floatPtr(v float64) *float64 {
	return &v
}

func validCreateRouteRequest() *models.CreateRouteRequest {
	return &models.CreateRouteRequest{
		RouteNumber:   "138",
		Name:          "Central Station - Harbor Terminal",
		StartLocation: "Central Station",
		EndLocation:   "Harbor Terminal",
		Stops: []models.Stop{
			{Name: "Central Station", EstimatedTime: 0, Order: 1},
			{Name: "Market Square", EstimatedTime: 12, Order: 2},
			{Name: "Harbor Terminal", EstimatedTime: 35, Order: 3},
		},
		Distance:       18.5,
		Duration:       35,
		OperatingHours: models.OperatingHours{Start: "05:30", End: "22:00"},
		Frequency:      15,
		Fare:           floatPtr(2.50),
	}
}

func TestCreateRoute(t *testing.T) {
	t.Run("Defaults To Active", func(t *testing.T) {
		store := newFakeRouteStore()
		svc := NewRouteService(store, testLogger())

		route, err := svc.CreateRoute(validCreateRouteRequest())
		require.NoError(t, err)
		assert.Equal(t, models.RouteStatusActive, route.Status)
		assert.Equal(t, 2.50, route.Fare)
		assert.NotEmpty(t, route.ID)
	})

	t.Run("Preserves Stop Order As Submitted", func(t *testing.T) {
		store := newFakeRouteStore()
		svc := NewRouteService(store, testLogger())

		req := validCreateRouteRequest()
		req.Stops = []models.Stop{
			{Name: "Harbor Terminal", Order: 7},
			{Name: "Central Station", Order: 1},
		}

		route, err := svc.CreateRoute(req)
		require.NoError(t, err)
		require.Len(t, route.Stops, 2)
		assert.Equal(t, "Harbor Terminal", route.Stops[0].Name)
		assert.Equal(t, 7, route.Stops[0].Order)
	})

	t.Run("Duplicate Route Number Rejected", func(t *testing.T) {
		store := newFakeRouteStore()
		svc := NewRouteService(store, testLogger())

		_, err := svc.CreateRoute(validCreateRouteRequest())
		require.NoError(t, err)

		_, err = svc.CreateRoute(validCreateRouteRequest())
		assert.ErrorIs(t, err, ErrDuplicateRouteNumber)
	})

	t.Run("Trims Route Number", func(t *testing.T) {
		store := newFakeRouteStore()
		svc := NewRouteService(store, testLogger())

		req := validCreateRouteRequest()
		req.RouteNumber = "  138  "

		route, err := svc.CreateRoute(req)
		require.NoError(t, err)
		assert.Equal(t, "138", route.RouteNumber)
	})

	t.Run("Uppercases Route Number", func(t *testing.T) {
		store := newFakeRouteStore()
		svc := NewRouteService(store, testLogger())

		req := validCreateRouteRequest()
		req.RouteNumber = "route-42"

		route, err := svc.CreateRoute(req)
		require.NoError(t, err)
		assert.Equal(t, "ROUTE-42", route.RouteNumber)
	})

	t.Run("Duplicate Check Is Case Insensitive", func(t *testing.T) {
		store := newFakeRouteStore()
		svc := NewRouteService(store, testLogger())

		req := validCreateRouteRequest()
		req.RouteNumber = "route-42"
		_, err := svc.CreateRoute(req)
		require.NoError(t, err)

		again := validCreateRouteRequest()
		again.RouteNumber = "ROUTE-42"
		_, err = svc.CreateRoute(again)
		assert.ErrorIs(t, err, ErrDuplicateRouteNumber)
	})
}

func TestUpdateRoute(t *testing.T) {
	t.Run("Number Uniqueness Excludes Self", func(t *testing.T) {
		store := newFakeRouteStore()
		svc := NewRouteService(store, testLogger())

		route, err := svc.CreateRoute(validCreateRouteRequest())
		require.NoError(t, err)

		same := route.RouteNumber
		updated, err := svc.UpdateRoute(route.ID, &models.UpdateRouteRequest{RouteNumber: &same})
		require.NoError(t, err)
		assert.Equal(t, "138", updated.RouteNumber)
	})

	t.Run("Taken Number Rejected", func(t *testing.T) {
		store := newFakeRouteStore()
		svc := NewRouteService(store, testLogger())

		first, err := svc.CreateRoute(validCreateRouteRequest())
		require.NoError(t, err)

		other := validCreateRouteRequest()
		other.RouteNumber = "155"
		second, err := svc.CreateRoute(other)
		require.NoError(t, err)

		taken := first.RouteNumber
		_, err = svc.UpdateRoute(second.ID, &models.UpdateRouteRequest{RouteNumber: &taken})
		assert.ErrorIs(t, err, ErrDuplicateRouteNumber)
	})

	t.Run("Taken Number Rejected Regardless Of Case", func(t *testing.T) {
		store := newFakeRouteStore()
		svc := NewRouteService(store, testLogger())

		_, err := svc.CreateRoute(validCreateRouteRequest())
		require.NoError(t, err)

		other := validCreateRouteRequest()
		other.RouteNumber = "155"
		second, err := svc.CreateRoute(other)
		require.NoError(t, err)

		lowered := "  route-138  "
		_, err = svc.UpdateRoute(second.ID, &models.UpdateRouteRequest{RouteNumber: &lowered})
		assert.NoError(t, err)

		taken := "  138 "
		_, err = svc.UpdateRoute(second.ID, &models.UpdateRouteRequest{RouteNumber: &taken})
		assert.ErrorIs(t, err, ErrDuplicateRouteNumber)
	})

	t.Run("Stops Replaced Wholesale", func(t *testing.T) {
		store := newFakeRouteStore()
		svc := NewRouteService(store, testLogger())

		route, err := svc.CreateRoute(validCreateRouteRequest())
		require.NoError(t, err)

		updated, err := svc.UpdateRoute(route.ID, &models.UpdateRouteRequest{
			Stops: []models.Stop{{Name: "Depot", Order: 1}},
		})
		require.NoError(t, err)
		require.Len(t, updated.Stops, 1)
		assert.Equal(t, "Depot", updated.Stops[0].Name)
	})

	t.Run("Not Found", func(t *testing.T) {
		store := newFakeRouteStore()
		svc := NewRouteService(store, testLogger())

		name := "Renamed"
		_, err := svc.UpdateRoute("665f1f77bcf86cd799439099", &models.UpdateRouteRequest{Name: &name})
		assert.ErrorIs(t, err, ErrNotFound)
	})
}

func TestDeleteRoute(t *testing.T) {
	store := newFakeRouteStore()
	svc := NewRouteService(store, testLogger())

	route, err := svc.CreateRoute(validCreateRouteRequest())
	require.NoError(t, err)

	require.NoError(t, svc.DeleteRoute(route.ID))
	assert.ErrorIs(t, svc.DeleteRoute(route.ID), ErrNotFound)

	_, err = svc.GetRoute(route.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

package services

import (
	"database/sql"
	"fmt"
	"regexp"
	"strings"

	"github.com/citytransit/fleet-admin-backend/internal/models"
)

// identifierPattern matches a 24-character hex entity id. Anything that
// matches is treated as a reference and must resolve; anything else is a
// free-text label stored verbatim.
var identifierPattern = regexp.MustCompile(`^[0-9a-f]{24}$`)

type userGetter interface {
	GetByID(id string) (*models.User, error)
}

type routeGetter interface {
	GetByID(id string) (*models.Route, error)
}

type busGetter interface {
	GetByID(id string) (*models.Bus, error)
}

// Resolver classifies polymorphic reference fields. A value is either
// empty (cleared), an identifier candidate that must exist in the backing
// store, or a label accepted without lookup.
type Resolver struct {
	users  userGetter
	routes routeGetter
	buses  busGetter
}

// NewResolver creates a new Resolver
func NewResolver(users userGetter, routes routeGetter, buses busGetter) *Resolver {
	return &Resolver{users: users, routes: routes, buses: buses}
}

// IsIdentifier reports whether raw is an identifier candidate
func IsIdentifier(raw string) bool {
	return identifierPattern.MatchString(strings.ToLower(raw))
}

// ResolveDriver resolves a driver field against the users store. Returns
// the value to persist: empty for a cleared field, the canonical id for a
// reference, the trimmed text for a label.
func (r *Resolver) ResolveDriver(raw string) (string, error) {
	return r.resolve(raw, func(id string) error {
		_, err := r.users.GetByID(id)
		return err
	})
}

// ResolveRoute resolves a route field against the routes store
func (r *Resolver) ResolveRoute(raw string) (string, error) {
	return r.resolve(raw, func(id string) error {
		_, err := r.routes.GetByID(id)
		return err
	})
}

// ResolveBus resolves a bus field against the buses store
func (r *Resolver) ResolveBus(raw string) (string, error) {
	return r.resolve(raw, func(id string) error {
		_, err := r.buses.GetByID(id)
		return err
	})
}

func (r *Resolver) resolve(raw string, lookup func(id string) error) (string, error) {
	value := strings.TrimSpace(raw)
	if value == "" {
		return "", nil
	}

	candidate := strings.ToLower(value)
	if !identifierPattern.MatchString(candidate) {
		return value, nil
	}

	if err := lookup(candidate); err != nil {
		if err == sql.ErrNoRows {
			return "", ErrInvalidReference
		}
		return "", fmt.Errorf("failed to resolve reference: %w", err)
	}

	return candidate, nil
}

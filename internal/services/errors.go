package services

import "errors"

// Sentinel errors returned by the service layer. Handlers map these to
// HTTP status codes.
var (
	ErrNotFound               = errors.New("record not found")
	ErrDuplicateActiveContact = errors.New("an active contact with this email already exists")
	ErrDuplicateBusNumber     = errors.New("a bus with this number already exists")
	ErrDuplicateRouteNumber   = errors.New("a route with this number already exists")
	ErrDuplicateStaffEmail    = errors.New("a staff contact with this email already exists")
	ErrInvalidReference       = errors.New("referenced record does not exist")
	ErrInvalidTimeWindow      = errors.New("arrival time must be after departure time")
	ErrInvalidCredentials     = errors.New("invalid email or password")
	ErrAccountDisabled        = errors.New("account is not active")
	ErrInvalidToken           = errors.New("invalid or expired token")
)

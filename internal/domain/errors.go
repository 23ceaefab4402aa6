package domain

import "errors"

var (
	// ErrNotFound is returned when a record is absent or owned by another shop
	ErrNotFound = errors.New("not found")

	// ErrMissingShop is returned when a request carries no shop identifier
	ErrMissingShop = errors.New("shop parameter is required")

	// ErrNoSession is returned when no offline session is stored for a shop
	ErrNoSession = errors.New("no session for shop")

	// ErrUnauthorized is returned when a session token fails verification
	ErrUnauthorized = errors.New("unauthorized")
)

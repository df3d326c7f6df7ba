// Package repository holds the table-level data access of the API. Status
// tagged tables (bookings, venue requests) are served by lifecycle stores
// built here; catalogue tables and administrators use plain repos.
package repository

import (
	"errors"

	"github.com/iliyamo/venue-booking-api/internal/database"
)

// ErrNotFound is returned when a lookup by id or email matches no row.
var ErrNotFound = database.ErrNotFound

// ErrEmailExists is returned when an administrator email is already taken.
var ErrEmailExists = errors.New("email already exists")

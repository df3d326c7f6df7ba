// Package service holds the business operations behind the HTTP API. Every
// method validates its input before touching the store and returns
// *apperr.Error values for anything a client should see.
package service

import (
	"errors"
	"strings"

	"github.com/iliyamo/venue-booking-api/internal/apperr"
	"github.com/iliyamo/venue-booking-api/internal/auth"
	"github.com/iliyamo/venue-booking-api/internal/database"
)

// reference maps a foreign key column to the not-found message reported when
// the store rejects it.
type reference struct {
	column  string
	message string
}

// storeMessages are the client messages for one entity's store failures.
type storeMessages struct {
	notFound  string
	duplicate string
	refs      []reference
}

// translate maps a store error onto the application taxonomy. Errors that
// already carry a kind pass through untouched.
func translate(err error, m storeMessages) error {
	if err == nil {
		return nil
	}
	var ae *apperr.Error
	if errors.As(err, &ae) {
		return err
	}
	if errors.Is(err, database.ErrNotFound) {
		return apperr.NotFoundf("%s", m.notFound)
	}
	var ce *database.ConstraintError
	if errors.As(err, &ce) {
		switch ce.Violation {
		case database.ForeignKey:
			for _, ref := range m.refs {
				if strings.Contains(ce.Constraint, ref.column) {
					return apperr.NotFoundf("%s", ref.message).WithDetails(ce.Detail)
				}
			}
			return apperr.Validationf("Invalid reference: One or more referenced records do not exist").WithDetails(ce.Detail)
		case database.Unique:
			dup := m.duplicate
			if dup == "" {
				dup = "Duplicate entry"
			}
			return apperr.Conflictf("%s", dup).WithDetails(ce.Detail)
		case database.NotNull:
			return apperr.Validationf("Missing required field").WithDetails(ce.Detail)
		}
	}
	return apperr.Wrap(err, "Server error")
}

// requireAdmin rejects a zero capability. Handlers only obtain a valid one
// from the token gate, so this fails only on wiring mistakes or direct calls.
func requireAdmin(a auth.Admin) error {
	if !a.Valid() {
		return apperr.Unauthenticatedf("Access denied. Administrator token required")
	}
	return nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// optional trims s and returns nil for blank values.
func optional(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}

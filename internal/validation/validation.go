// Package validation holds the request shape checks run by every service
// before it touches the store. Each check is total: it returns nil or an
// *apperr.Error of kind Validation and never panics.
package validation

import (
	"regexp"
	"strings"

	"github.com/iliyamo/venue-booking-api/internal/apperr"
)

var (
	emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	datePattern  = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
	timePattern  = regexp.MustCompile(`^([0-1][0-9]|2[0-3]):[0-5][0-9]$`)
)

// Check is a deferred validation step. First runs a list of them in order.
type Check func() *apperr.Error

// Field pairs a request field name with its submitted value.
type Field struct {
	Name  string
	Value string
}

// F builds a Field.
func F(name, value string) Field { return Field{Name: name, Value: value} }

// Required fails when any of the given fields is empty after trimming. The
// message names the missing fields in the order given.
func Required(fields ...Field) *apperr.Error {
	var missing []string
	for _, f := range fields {
		if strings.TrimSpace(f.Value) == "" {
			missing = append(missing, f.Name)
		}
	}
	if len(missing) == 0 {
		return nil
	}
	return apperr.Validationf("Missing required fields: %s", strings.Join(missing, ", "))
}

func Email(v string) *apperr.Error {
	if !emailPattern.MatchString(v) {
		return apperr.Validationf("Invalid email format")
	}
	return nil
}

// Date checks the YYYY-MM-DD shape only; 2024-02-31 passes.
func Date(v string) *apperr.Error {
	if !datePattern.MatchString(v) {
		return apperr.Validationf("Invalid date format. Expected YYYY-MM-DD")
	}
	return nil
}

// Time checks a 24-hour HH:MM value.
func Time(v string) *apperr.Error {
	if !timePattern.MatchString(v) {
		return apperr.Validationf("Invalid time format. Expected HH:MM (24-hour format)")
	}
	return nil
}

// OneOf fails unless v is one of allowed. The message lists the allowed
// values, e.g. "Invalid status. Must be: pending, confirmed, or cancelled".
func OneOf(v string, allowed []string) *apperr.Error {
	for _, a := range allowed {
		if v == a {
			return nil
		}
	}
	return apperr.Validationf("Invalid status. Must be: %s", orList(allowed))
}

// First runs checks in order and returns the first failure.
func First(checks ...Check) *apperr.Error {
	for _, check := range checks {
		if err := check(); err != nil {
			return err
		}
	}
	return nil
}

// Lazy adapters so call sites can list checks without closures.

func RequiredCheck(fields ...Field) Check { return func() *apperr.Error { return Required(fields...) } }
func EmailCheck(v string) Check           { return func() *apperr.Error { return Email(v) } }
func DateCheck(v string) Check            { return func() *apperr.Error { return Date(v) } }
func TimeCheck(v string) Check            { return func() *apperr.Error { return Time(v) } }
func OneOfCheck(v string, allowed []string) Check {
	return func() *apperr.Error { return OneOf(v, allowed) }
}

// When runs check only if cond holds; used for optional fields.
func When(cond bool, check Check) Check {
	return func() *apperr.Error {
		if !cond {
			return nil
		}
		return check()
	}
}

func orList(items []string) string {
	switch len(items) {
	case 0:
		return ""
	case 1:
		return items[0]
	case 2:
		return items[0] + " or " + items[1]
	}
	return strings.Join(items[:len(items)-1], ", ") + ", or " + items[len(items)-1]
}

package lifecycle

import (
	"github.com/iliyamo/venue-booking-api/internal/apperr"
	"github.com/iliyamo/venue-booking-api/internal/validation"
)

// StatusSet is the fixed state space of an entity: the allowed values and
// the one every new row starts in.
type StatusSet struct {
	initial string
	allowed []string
}

// NewStatusSet panics if initial is not among allowed; sets are declared at
// package init so a mistake surfaces at startup.
func NewStatusSet(initial string, allowed ...string) StatusSet {
	s := StatusSet{initial: initial, allowed: append([]string(nil), allowed...)}
	if !s.Contains(initial) {
		panic("lifecycle: initial status " + initial + " not in allowed set")
	}
	return s
}

func (s StatusSet) Initial() string { return s.initial }

func (s StatusSet) Allowed() []string { return append([]string(nil), s.allowed...) }

func (s StatusSet) Contains(v string) bool {
	for _, a := range s.allowed {
		if a == v {
			return true
		}
	}
	return false
}

// Validate rejects a value outside the set with a message naming every
// allowed value.
func (s StatusSet) Validate(v string) *apperr.Error {
	return validation.OneOf(v, s.allowed)
}

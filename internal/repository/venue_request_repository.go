package repository

import (
	"github.com/iliyamo/venue-booking-api/internal/database"
	"github.com/iliyamo/venue-booking-api/internal/lifecycle"
	"github.com/iliyamo/venue-booking-api/internal/model"
)

// RequestStatuses is the venue request state space; new requests are pending.
var RequestStatuses = lifecycle.NewStatusSet(model.RequestPending, model.RequestStatuses...)

type VenueRequestStore = lifecycle.Store[model.VenueRequest]

// NewVenueRequestStore wires `venue_requests`. Requests reference nothing, so
// there are no creation checks.
func NewVenueRequestStore(gw *database.Gateway) *VenueRequestStore {
	return lifecycle.NewStore[model.VenueRequest](gw, lifecycle.Schema{
		Table:    "venue_requests",
		Alias:    "r",
		Statuses: RequestStatuses,
	})
}

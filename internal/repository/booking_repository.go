package repository

import (
	"github.com/doug-martin/goqu/v9"

	"github.com/iliyamo/venue-booking-api/internal/database"
	"github.com/iliyamo/venue-booking-api/internal/lifecycle"
	"github.com/iliyamo/venue-booking-api/internal/model"
)

// BookingStatuses is the booking state space; new bookings are pending.
var BookingStatuses = lifecycle.NewStatusSet(model.BookingPending, model.BookingStatuses...)

// BookingStore is the lifecycle store over `bookings`, reading through the
// venue / table type join.
type BookingStore = lifecycle.Store[model.BookingView]

// NewBookingStore wires the bookings schema: venue_id must reference a venue
// and table_type_id, when given, a table type.
func NewBookingStore(gw *database.Gateway) *BookingStore {
	return lifecycle.NewStore[model.BookingView](gw, lifecycle.Schema{
		Table:    "bookings",
		Alias:    "b",
		Statuses: BookingStatuses,
		View:     bookingView,
		Checks: []lifecycle.Check{
			lifecycle.References("venue_id", "venues", "Venue with id '%s' not found"),
			lifecycle.References("table_type_id", "table_types", "Table type with id '%s' not found"),
		},
	})
}

func bookingView(d goqu.DialectWrapper) *goqu.SelectDataset {
	return d.From(goqu.T("bookings").As("b")).
		Select(
			goqu.T("b").All(),
			goqu.I("v.name").As("venue_name"),
			goqu.I("v.location").As("venue_location"),
			goqu.I("v.description").As("venue_description"),
			goqu.I("t.name").As("table_type_name"),
			goqu.I("t.description").As("table_type_description"),
			goqu.I("t.capacity").As("table_capacity"),
			goqu.I("t.price").As("table_price"),
		).
		LeftJoin(goqu.T("venues").As("v"), goqu.On(goqu.I("v.id").Eq(goqu.I("b.venue_id")))).
		LeftJoin(goqu.T("table_types").As("t"), goqu.On(goqu.I("t.id").Eq(goqu.I("b.table_type_id"))))
}

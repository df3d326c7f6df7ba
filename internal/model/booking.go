package model

import "time"

// Booking is a table reservation request made by a customer.
//
// Fields:
//
//	ID              – opaque identifier.
//	VenueID         – venue the booking is for; must exist at creation.
//	TableTypeID     – optional table type; must exist when supplied.
//	FullName/Email  – customer identity; Email doubles as the cancel secret.
//	Date, Time      – YYYY-MM-DD and HH:MM, stored as text.
//	Status          – pending, confirmed or cancelled.
type Booking struct {
	ID              string    `db:"id" json:"id"`                             // bookings.id
	VenueID         string    `db:"venue_id" json:"venue_id"`                 // bookings.venue_id
	TableTypeID     *string   `db:"table_type_id" json:"table_type_id"`       // bookings.table_type_id (nullable)
	FullName        string    `db:"full_name" json:"full_name"`               // bookings.full_name
	Email           string    `db:"email" json:"email"`                       // bookings.email
	Phone           *string   `db:"phone" json:"phone"`                       // bookings.phone (nullable)
	Date            string    `db:"date" json:"date"`                         // bookings.date
	Time            string    `db:"time" json:"time"`                         // bookings.time
	Guests          *int      `db:"guests" json:"guests"`                     // bookings.guests (nullable)
	SpecialRequests *string   `db:"special_requests" json:"special_requests"` // bookings.special_requests (nullable)
	Status          string    `db:"status" json:"status"`                     // bookings.status
	CreatedAt       time.Time `db:"created_at" json:"created_at"`             // bookings.created_at
	UpdatedAt       time.Time `db:"updated_at" json:"updated_at"`             // bookings.updated_at
}

// Key returns the booking id.
func (b Booking) Key() string { return b.ID }

// CurrentStatus returns the stored status.
func (b Booking) CurrentStatus() string { return b.Status }

// BookingView is a booking joined with display fields of its venue and
// table type. The joined fields are read-only projections and are nil when
// the referenced row is gone or no table type was chosen.
type BookingView struct {
	Booking
	VenueName            *string  `db:"venue_name" json:"venue_name"`
	VenueLocation        *string  `db:"venue_location" json:"venue_location"`
	VenueDescription     *string  `db:"venue_description" json:"venue_description"`
	TableTypeName        *string  `db:"table_type_name" json:"table_type_name"`
	TableTypeDescription *string  `db:"table_type_description" json:"table_type_description"`
	TableCapacity        *int     `db:"table_capacity" json:"table_capacity"`
	TablePrice           *float64 `db:"table_price" json:"table_price"`
}

package model

import "time"

// VenueRequest is a prospective venue submission from a customer. It does
// not reference venues or bookings.
type VenueRequest struct {
	ID              string    `db:"id" json:"id"`
	CustomerName    string    `db:"customer_name" json:"customer_name"`
	VenueName       string    `db:"venue_name" json:"venue_name"`
	ContactEmail    string    `db:"contact_email" json:"contact_email"`
	Description     *string   `db:"description" json:"description"`
	CustomerPhone   *string   `db:"customer_phone" json:"customer_phone"`
	Location        *string   `db:"location" json:"location"`
	BookingDatetime *string   `db:"booking_datetime" json:"booking_datetime"`
	NumGuests       *int      `db:"num_guests" json:"num_guests"`
	BudgetRange     *string   `db:"budget_range" json:"budget_range"`
	Status          string    `db:"status" json:"status"`
	CreatedAt       time.Time `db:"created_at" json:"created_at"`
	UpdatedAt       time.Time `db:"updated_at" json:"updated_at"`
}

func (r VenueRequest) Key() string { return r.ID }

func (r VenueRequest) CurrentStatus() string { return r.Status }

package model

// Booking statuses. Every booking starts as BookingPending.
const (
	BookingPending   = "pending"
	BookingConfirmed = "confirmed"
	BookingCancelled = "cancelled"
)

// Venue request statuses. Every request starts as RequestPending.
const (
	RequestPending  = "pending"
	RequestApproved = "approved"
	RequestRejected = "rejected"
)

// BookingStatuses lists the booking states in display order.
var BookingStatuses = []string{BookingPending, BookingConfirmed, BookingCancelled}

// RequestStatuses lists the venue request states in display order.
var RequestStatuses = []string{RequestPending, RequestApproved, RequestRejected}

// Package queue defines the domain events exchanged over RabbitMQ and the
// consumer that records them in the booking log.
package queue

import (
	"time"

	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Routing keys on the events exchange.
const (
	BookingCreated            = "booking.created"
	BookingStatusChanged      = "booking.status_changed"
	BookingCancelled          = "booking.cancelled"
	BookingDeleted            = "booking.deleted"
	VenueRequestCreated       = "venue_request.created"
	VenueRequestStatusChanged = "venue_request.status_changed"
	VenueRequestDeleted       = "venue_request.deleted"
)

// Event is published after a successful mutation. It carries enough for the
// notifier to write a log line without querying the database.
type Event struct {
	Type           string `json:"type"`
	EntityID       string `json:"entity_id"`
	Status         string `json:"status,omitempty"`
	PreviousStatus string `json:"previous_status,omitempty"`
	VenueID        string `json:"venue_id,omitempty"`
	VenueName      string `json:"venue_name,omitempty"`
	CustomerName   string `json:"customer_name,omitempty"`
	Email          string `json:"email,omitempty"`
	Date           string `json:"date,omitempty"`
	Time           string `json:"time,omitempty"`
	OccurredAt     string `json:"occurred_at"`
}

// Stamp sets OccurredAt to t in RFC 3339 UTC and returns the event.
func (e Event) Stamp(t time.Time) Event {
	e.OccurredAt = t.UTC().Format(time.RFC3339)
	return e
}

// Encode marshals the event for the wire.
func (e Event) Encode() ([]byte, error) { return json.Marshal(e) }

// Decode parses a wire payload and rejects events without a type or id.
func Decode(body []byte) (Event, error) {
	var ev Event
	if err := json.Unmarshal(body, &ev); err != nil {
		return Event{}, err
	}
	if ev.Type == "" || ev.EntityID == "" {
		return Event{}, errMissingIdentity
	}
	return ev, nil
}

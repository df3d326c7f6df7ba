package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/doug-martin/goqu/v9"

	"github.com/iliyamo/venue-booking-api/internal/apperr"
	"github.com/iliyamo/venue-booking-api/internal/auth"
	"github.com/iliyamo/venue-booking-api/internal/lifecycle"
	"github.com/iliyamo/venue-booking-api/internal/model"
	"github.com/iliyamo/venue-booking-api/internal/queue"
	"github.com/iliyamo/venue-booking-api/internal/repository"
	v "github.com/iliyamo/venue-booking-api/internal/validation"
)

// BookingInput is the client supplied booking body. Status is honoured only
// by the administrator full update; creation always starts at pending.
type BookingInput struct {
	VenueID         string  `json:"venue_id"`
	TableTypeID     *string `json:"table_type_id"`
	FullName        string  `json:"full_name"`
	Email           string  `json:"email"`
	Phone           *string `json:"phone"`
	Date            string  `json:"date"`
	Time            string  `json:"time"`
	Guests          *int    `json:"guests"`
	SpecialRequests *string `json:"special_requests"`
	Status          string  `json:"status"`
}

// BookingFilter holds the optional equality filters of the admin list.
type BookingFilter struct {
	Status  string
	VenueID string
	Date    string
}

type BookingService struct {
	store  *repository.BookingStore
	events events
}

func NewBookingService(store *repository.BookingStore, pub Publisher, logger *slog.Logger) *BookingService {
	return &BookingService{store: store, events: newEvents(pub, logger)}
}

func (in *BookingInput) normalize() {
	in.VenueID = strings.TrimSpace(in.VenueID)
	in.FullName = strings.TrimSpace(in.FullName)
	in.Email = strings.TrimSpace(in.Email)
	in.Date = strings.TrimSpace(in.Date)
	in.Time = strings.TrimSpace(in.Time)
	in.Status = strings.TrimSpace(in.Status)
	in.TableTypeID = optional(in.TableTypeID)
	in.Phone = optional(in.Phone)
	in.SpecialRequests = optional(in.SpecialRequests)
}

func (in BookingInput) validate() error {
	if err := v.First(
		v.RequiredCheck(
			v.F("venue_id", in.VenueID),
			v.F("full_name", in.FullName),
			v.F("email", in.Email),
			v.F("date", in.Date),
			v.F("time", in.Time),
		),
		v.EmailCheck(in.Email),
		v.DateCheck(in.Date),
		v.TimeCheck(in.Time),
	); err != nil {
		return err
	}
	return nil
}

func (in BookingInput) record() goqu.Record {
	return goqu.Record{
		"venue_id":         in.VenueID,
		"table_type_id":    in.TableTypeID,
		"full_name":        in.FullName,
		"email":            in.Email,
		"phone":            in.Phone,
		"date":             in.Date,
		"time":             in.Time,
		"guests":           in.Guests,
		"special_requests": in.SpecialRequests,
	}
}

func (in BookingInput) messages() storeMessages {
	return storeMessages{
		notFound:  "Booking not found",
		duplicate: "Duplicate entry: This booking already exists",
		refs: []reference{
			{column: "venue_id", message: fmt.Sprintf("Venue with id '%s' not found", in.VenueID)},
			{column: "table_type_id", message: fmt.Sprintf("Table type with id '%s' not found", deref(in.TableTypeID))},
		},
	}
}

var bookingMessages = storeMessages{notFound: "Booking not found"}

// Create validates the booking, checks that the venue (and table type, when
// given) exist and stores it as pending. A client supplied status is ignored.
func (s *BookingService) Create(ctx context.Context, in BookingInput) (model.BookingView, error) {
	in.normalize()
	if err := in.validate(); err != nil {
		return model.BookingView{}, err
	}
	b, err := s.store.Create(ctx, in.record())
	if err != nil {
		return model.BookingView{}, translate(err, in.messages())
	}
	s.events.emit(ctx, bookingEvent(queue.BookingCreated, b, ""))
	return b, nil
}

// List returns bookings matching every non-empty filter, newest first.
func (s *BookingService) List(ctx context.Context, admin auth.Admin, f BookingFilter) ([]model.BookingView, error) {
	if err := requireAdmin(admin); err != nil {
		return nil, err
	}
	if err := v.First(
		v.When(f.Status != "", v.OneOfCheck(f.Status, model.BookingStatuses)),
		v.When(f.Date != "", v.DateCheck(f.Date)),
	); err != nil {
		return nil, err
	}
	filter := goqu.Ex{}
	if f.Status != "" {
		filter["status"] = f.Status
	}
	if f.VenueID != "" {
		filter["venue_id"] = f.VenueID
	}
	if f.Date != "" {
		filter["date"] = f.Date
	}
	out, err := s.store.List(ctx, filter, s.store.Col("created_at").Desc())
	return out, translate(err, bookingMessages)
}

// ListByStatus returns bookings in one status, latest date and time first.
// An unknown status is a validation error rather than an empty list.
func (s *BookingService) ListByStatus(ctx context.Context, admin auth.Admin, status string) ([]model.BookingView, error) {
	if err := requireAdmin(admin); err != nil {
		return nil, err
	}
	if err := s.store.Statuses().Validate(status); err != nil {
		return nil, err
	}
	out, err := s.store.List(ctx, goqu.Ex{"status": status},
		s.store.Col("date").Desc(), s.store.Col("time").Desc())
	return out, translate(err, bookingMessages)
}

func (s *BookingService) Get(ctx context.Context, admin auth.Admin, id string) (model.BookingView, error) {
	if err := requireAdmin(admin); err != nil {
		return model.BookingView{}, err
	}
	b, err := s.store.Get(ctx, id)
	return b, translate(err, bookingMessages)
}

// ListByEmail is the public "my bookings" view. The email is the only
// credential.
func (s *BookingService) ListByEmail(ctx context.Context, email string) ([]model.BookingView, error) {
	out, err := s.store.List(ctx, goqu.Ex{"email": strings.TrimSpace(email)}, s.store.Col("created_at").Desc())
	return out, translate(err, bookingMessages)
}

// UpdateStatus moves a booking to any status, including its current one,
// and returns the booking before and after.
func (s *BookingService) UpdateStatus(ctx context.Context, admin auth.Admin, id, status string) (model.BookingView, model.BookingView, error) {
	if err := requireAdmin(admin); err != nil {
		return model.BookingView{}, model.BookingView{}, err
	}
	status = strings.TrimSpace(status)
	if err := s.store.Statuses().Validate(status); err != nil {
		return model.BookingView{}, model.BookingView{}, err
	}
	prev, next, err := s.store.SetStatus(ctx, goqu.Ex{"id": id}, func(model.BookingView) (string, error) {
		return status, nil
	})
	if err != nil {
		return prev, next, translate(err, bookingMessages)
	}
	s.events.emit(ctx, bookingEvent(queue.BookingStatusChanged, next, prev.Status))
	return prev, next, nil
}

// Update replaces every mutable field. Status defaults to pending.
func (s *BookingService) Update(ctx context.Context, admin auth.Admin, id string, in BookingInput) (model.BookingView, error) {
	if err := requireAdmin(admin); err != nil {
		return model.BookingView{}, err
	}
	in.normalize()
	if in.Status == "" {
		in.Status = s.store.Statuses().Initial()
	}
	if err := in.validate(); err != nil {
		return model.BookingView{}, err
	}
	if err := s.store.Statuses().Validate(in.Status); err != nil {
		return model.BookingView{}, err
	}
	rec := in.record()
	rec["status"] = in.Status
	b, err := s.store.Replace(ctx, id, rec)
	return b, translate(err, in.messages())
}

// Cancel lets a customer cancel their own booking by presenting the email on
// file. A wrong id and a wrong email produce the same not-found error.
func (s *BookingService) Cancel(ctx context.Context, id, email string) (model.BookingView, error) {
	email = strings.TrimSpace(email)
	if email == "" {
		return model.BookingView{}, apperr.Validationf("Email is required to cancel booking")
	}
	prev, next, err := s.store.SetStatus(ctx, goqu.Ex{"id": id, "email": email}, func(cur model.BookingView) (string, error) {
		if cur.Status == model.BookingCancelled {
			return "", apperr.Domainf("Booking is already cancelled")
		}
		return model.BookingCancelled, nil
	})
	if err != nil {
		return model.BookingView{}, translate(err, storeMessages{notFound: "Booking not found or email does not match"})
	}
	s.events.emit(ctx, bookingEvent(queue.BookingCancelled, next, prev.Status))
	return next, nil
}

// Delete removes a booking and returns it as it was.
func (s *BookingService) Delete(ctx context.Context, admin auth.Admin, id string) (model.BookingView, error) {
	if err := requireAdmin(admin); err != nil {
		return model.BookingView{}, err
	}
	b, err := s.store.Delete(ctx, id)
	if err != nil {
		return b, translate(err, bookingMessages)
	}
	s.events.emit(ctx, bookingEvent(queue.BookingDeleted, b, ""))
	return b, nil
}

// Stats counts bookings per status at query time.
func (s *BookingService) Stats(ctx context.Context, admin auth.Admin) (lifecycle.Stats, error) {
	if err := requireAdmin(admin); err != nil {
		return lifecycle.Stats{}, err
	}
	st, err := s.store.Stats(ctx)
	return st, translate(err, bookingMessages)
}

func bookingEvent(typ string, b model.BookingView, previous string) queue.Event {
	return queue.Event{
		Type:           typ,
		EntityID:       b.ID,
		Status:         b.Status,
		PreviousStatus: previous,
		VenueID:        b.VenueID,
		VenueName:      deref(b.VenueName),
		CustomerName:   b.FullName,
		Email:          b.Email,
		Date:           b.Date,
		Time:           b.Time,
	}
}

package service

import (
	"context"
	"log/slog"
	"strings"

	"github.com/doug-martin/goqu/v9"

	"github.com/iliyamo/venue-booking-api/internal/auth"
	"github.com/iliyamo/venue-booking-api/internal/lifecycle"
	"github.com/iliyamo/venue-booking-api/internal/model"
	"github.com/iliyamo/venue-booking-api/internal/queue"
	"github.com/iliyamo/venue-booking-api/internal/repository"
	v "github.com/iliyamo/venue-booking-api/internal/validation"
)

// VenueRequestInput is the body of a venue request. customer_email and
// special_preferences are accepted as older names of contact_email and
// description.
type VenueRequestInput struct {
	CustomerName       string  `json:"customer_name"`
	VenueName          string  `json:"venue_name"`
	ContactEmail       string  `json:"contact_email"`
	CustomerEmail      string  `json:"customer_email"`
	Description        *string `json:"description"`
	SpecialPreferences *string `json:"special_preferences"`
	CustomerPhone      *string `json:"customer_phone"`
	Location           *string `json:"location"`
	BookingDatetime    *string `json:"booking_datetime"`
	NumGuests          *int    `json:"num_guests"`
	BudgetRange        *string `json:"budget_range"`
	Status             string  `json:"status"`
}

func (in *VenueRequestInput) normalize() {
	in.CustomerName = strings.TrimSpace(in.CustomerName)
	in.VenueName = strings.TrimSpace(in.VenueName)
	in.ContactEmail = strings.TrimSpace(in.ContactEmail)
	if in.ContactEmail == "" {
		in.ContactEmail = strings.TrimSpace(in.CustomerEmail)
	}
	in.Description = optional(in.Description)
	if in.Description == nil {
		in.Description = optional(in.SpecialPreferences)
	}
	in.CustomerPhone = optional(in.CustomerPhone)
	in.Location = optional(in.Location)
	in.BookingDatetime = optional(in.BookingDatetime)
	in.BudgetRange = optional(in.BudgetRange)
	in.Status = strings.TrimSpace(in.Status)
}

func (in VenueRequestInput) record() goqu.Record {
	return goqu.Record{
		"customer_name":    in.CustomerName,
		"venue_name":       in.VenueName,
		"contact_email":    in.ContactEmail,
		"description":      in.Description,
		"customer_phone":   in.CustomerPhone,
		"location":         in.Location,
		"booking_datetime": in.BookingDatetime,
		"num_guests":       in.NumGuests,
		"budget_range":     in.BudgetRange,
	}
}

var requestMessages = storeMessages{
	notFound:  "Request not found",
	duplicate: "Duplicate entry: This request already exists",
}

type VenueRequestService struct {
	store  *repository.VenueRequestStore
	events events
}

func NewVenueRequestService(store *repository.VenueRequestStore, pub Publisher, logger *slog.Logger) *VenueRequestService {
	return &VenueRequestService{store: store, events: newEvents(pub, logger)}
}

// Create stores a new request as pending.
func (s *VenueRequestService) Create(ctx context.Context, in VenueRequestInput) (model.VenueRequest, error) {
	in.normalize()
	if err := v.First(
		v.RequiredCheck(
			v.F("customer_name", in.CustomerName),
			v.F("venue_name", in.VenueName),
			v.F("contact_email", in.ContactEmail),
		),
		v.EmailCheck(in.ContactEmail),
	); err != nil {
		return model.VenueRequest{}, err
	}
	r, err := s.store.Create(ctx, in.record())
	if err != nil {
		return r, translate(err, requestMessages)
	}
	s.events.emit(ctx, requestEvent(queue.VenueRequestCreated, r, ""))
	return r, nil
}

// List returns requests, optionally in one status, newest first.
func (s *VenueRequestService) List(ctx context.Context, admin auth.Admin, status string) ([]model.VenueRequest, error) {
	if err := requireAdmin(admin); err != nil {
		return nil, err
	}
	filter := goqu.Ex{}
	if status != "" {
		if err := s.store.Statuses().Validate(status); err != nil {
			return nil, err
		}
		filter["status"] = status
	}
	out, err := s.store.List(ctx, filter, s.store.Col("created_at").Desc())
	return out, translate(err, requestMessages)
}

// ListByStatus rejects unknown statuses instead of returning nothing.
func (s *VenueRequestService) ListByStatus(ctx context.Context, admin auth.Admin, status string) ([]model.VenueRequest, error) {
	if err := requireAdmin(admin); err != nil {
		return nil, err
	}
	if err := s.store.Statuses().Validate(status); err != nil {
		return nil, err
	}
	out, err := s.store.List(ctx, goqu.Ex{"status": status}, s.store.Col("created_at").Desc())
	return out, translate(err, requestMessages)
}

func (s *VenueRequestService) Get(ctx context.Context, admin auth.Admin, id string) (model.VenueRequest, error) {
	if err := requireAdmin(admin); err != nil {
		return model.VenueRequest{}, err
	}
	r, err := s.store.Get(ctx, id)
	return r, translate(err, requestMessages)
}

// UpdateStatus allows any transition, including a no-op.
func (s *VenueRequestService) UpdateStatus(ctx context.Context, admin auth.Admin, id, status string) (model.VenueRequest, model.VenueRequest, error) {
	if err := requireAdmin(admin); err != nil {
		return model.VenueRequest{}, model.VenueRequest{}, err
	}
	status = strings.TrimSpace(status)
	if err := s.store.Statuses().Validate(status); err != nil {
		return model.VenueRequest{}, model.VenueRequest{}, err
	}
	prev, next, err := s.store.SetStatus(ctx, goqu.Ex{"id": id}, func(model.VenueRequest) (string, error) {
		return status, nil
	})
	if err != nil {
		return prev, next, translate(err, requestMessages)
	}
	s.events.emit(ctx, requestEvent(queue.VenueRequestStatusChanged, next, prev.Status))
	return prev, next, nil
}

// Update replaces every field. The email shape and status are checked when
// supplied; status defaults to pending.
func (s *VenueRequestService) Update(ctx context.Context, admin auth.Admin, id string, in VenueRequestInput) (model.VenueRequest, error) {
	if err := requireAdmin(admin); err != nil {
		return model.VenueRequest{}, err
	}
	in.normalize()
	if in.Status == "" {
		in.Status = s.store.Statuses().Initial()
	}
	if err := v.First(
		v.When(in.ContactEmail != "", v.EmailCheck(in.ContactEmail)),
		v.OneOfCheck(in.Status, s.store.Statuses().Allowed()),
	); err != nil {
		return model.VenueRequest{}, err
	}
	rec := in.record()
	rec["status"] = in.Status
	r, err := s.store.Replace(ctx, id, rec)
	return r, translate(err, requestMessages)
}

func (s *VenueRequestService) Delete(ctx context.Context, admin auth.Admin, id string) (model.VenueRequest, error) {
	if err := requireAdmin(admin); err != nil {
		return model.VenueRequest{}, err
	}
	r, err := s.store.Delete(ctx, id)
	if err != nil {
		return r, translate(err, requestMessages)
	}
	s.events.emit(ctx, requestEvent(queue.VenueRequestDeleted, r, ""))
	return r, nil
}

func (s *VenueRequestService) Stats(ctx context.Context, admin auth.Admin) (lifecycle.Stats, error) {
	if err := requireAdmin(admin); err != nil {
		return lifecycle.Stats{}, err
	}
	st, err := s.store.Stats(ctx)
	return st, translate(err, requestMessages)
}

func requestEvent(typ string, r model.VenueRequest, previous string) queue.Event {
	return queue.Event{
		Type:           typ,
		EntityID:       r.ID,
		Status:         r.Status,
		PreviousStatus: previous,
		VenueName:      r.VenueName,
		CustomerName:   r.CustomerName,
		Email:          r.ContactEmail,
	}
}

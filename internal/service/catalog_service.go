package service

import (
	"context"
	"errors"
	"strings"

	"github.com/iliyamo/venue-booking-api/internal/apperr"
	"github.com/iliyamo/venue-booking-api/internal/auth"
	"github.com/iliyamo/venue-booking-api/internal/database"
	"github.com/iliyamo/venue-booking-api/internal/model"
	"github.com/iliyamo/venue-booking-api/internal/repository"
	v "github.com/iliyamo/venue-booking-api/internal/validation"
)

// VenueInput is the body of venue create and update.
type VenueInput struct {
	Name        string           `json:"name"`
	Location    *string          `json:"location"`
	Description *string          `json:"description"`
	Capacity    *int             `json:"capacity"`
	Amenities   model.StringList `json:"amenities"`
	PriceRange  *string          `json:"price_range"`
	Images      model.StringList `json:"images"`
}

func (in VenueInput) venue() model.Venue {
	return model.Venue{
		Name:        strings.TrimSpace(in.Name),
		Location:    optional(in.Location),
		Description: optional(in.Description),
		Capacity:    in.Capacity,
		Amenities:   in.Amenities,
		PriceRange:  optional(in.PriceRange),
		Images:      in.Images,
	}
}

// TableTypeInput is the body of table type create and update.
type TableTypeInput struct {
	Name        string   `json:"name"`
	Description *string  `json:"description"`
	Capacity    *int     `json:"capacity"`
	Price       *float64 `json:"price"`
}

func (in TableTypeInput) tableType() model.TableType {
	return model.TableType{
		Name:        strings.TrimSpace(in.Name),
		Description: optional(in.Description),
		Capacity:    in.Capacity,
		Price:       in.Price,
	}
}

func checkCatalog(name string, capacity *int, price *float64) error {
	if err := v.Required(v.F("name", name)); err != nil {
		return err
	}
	if capacity != nil && *capacity < 0 {
		return apperr.Validationf("Capacity must be a non-negative number")
	}
	if price != nil && *price < 0 {
		return apperr.Validationf("Price must be a non-negative number")
	}
	return nil
}

// referenced reports a foreign key refusal on delete as a conflict.
func referenced(err error, message string) error {
	var ce *database.ConstraintError
	if errors.As(err, &ce) && ce.Violation == database.ForeignKey {
		return apperr.Conflictf("%s", message).WithDetails(ce.Detail)
	}
	return err
}

var (
	venueMessages     = storeMessages{notFound: "Venue not found", duplicate: "Duplicate entry: This venue already exists"}
	tableTypeMessages = storeMessages{notFound: "Table type not found", duplicate: "Duplicate entry: This table type already exists"}
)

// VenueService is plain CRUD over venues. Reads are public.
type VenueService struct{ venues *repository.VenueRepo }

func NewVenueService(venues *repository.VenueRepo) *VenueService {
	return &VenueService{venues: venues}
}

func (s *VenueService) Create(ctx context.Context, admin auth.Admin, in VenueInput) (model.Venue, error) {
	if err := requireAdmin(admin); err != nil {
		return model.Venue{}, err
	}
	venue := in.venue()
	if err := checkCatalog(venue.Name, venue.Capacity, nil); err != nil {
		return model.Venue{}, err
	}
	out, err := s.venues.Create(ctx, venue)
	return out, translate(err, venueMessages)
}

func (s *VenueService) List(ctx context.Context) ([]model.Venue, error) {
	out, err := s.venues.List(ctx)
	return out, translate(err, venueMessages)
}

func (s *VenueService) Get(ctx context.Context, id string) (model.Venue, error) {
	out, err := s.venues.GetByID(ctx, id)
	return out, translate(err, venueMessages)
}

func (s *VenueService) Update(ctx context.Context, admin auth.Admin, id string, in VenueInput) (model.Venue, error) {
	if err := requireAdmin(admin); err != nil {
		return model.Venue{}, err
	}
	venue := in.venue()
	if err := checkCatalog(venue.Name, venue.Capacity, nil); err != nil {
		return model.Venue{}, err
	}
	out, err := s.venues.Update(ctx, id, venue)
	return out, translate(err, venueMessages)
}

// Delete refuses with a conflict while bookings still reference the venue.
func (s *VenueService) Delete(ctx context.Context, admin auth.Admin, id string) (model.Venue, error) {
	if err := requireAdmin(admin); err != nil {
		return model.Venue{}, err
	}
	out, err := s.venues.Delete(ctx, id)
	return out, translate(referenced(err, "Venue is referenced by existing bookings"), venueMessages)
}

// TableTypeService is plain CRUD over table types. Reads are public.
type TableTypeService struct{ types *repository.TableTypeRepo }

func NewTableTypeService(types *repository.TableTypeRepo) *TableTypeService {
	return &TableTypeService{types: types}
}

func (s *TableTypeService) Create(ctx context.Context, admin auth.Admin, in TableTypeInput) (model.TableType, error) {
	if err := requireAdmin(admin); err != nil {
		return model.TableType{}, err
	}
	tt := in.tableType()
	if err := checkCatalog(tt.Name, tt.Capacity, tt.Price); err != nil {
		return model.TableType{}, err
	}
	out, err := s.types.Create(ctx, tt)
	return out, translate(err, tableTypeMessages)
}

func (s *TableTypeService) List(ctx context.Context) ([]model.TableType, error) {
	out, err := s.types.List(ctx)
	return out, translate(err, tableTypeMessages)
}

func (s *TableTypeService) Get(ctx context.Context, id string) (model.TableType, error) {
	out, err := s.types.GetByID(ctx, id)
	return out, translate(err, tableTypeMessages)
}

func (s *TableTypeService) Update(ctx context.Context, admin auth.Admin, id string, in TableTypeInput) (model.TableType, error) {
	if err := requireAdmin(admin); err != nil {
		return model.TableType{}, err
	}
	tt := in.tableType()
	if err := checkCatalog(tt.Name, tt.Capacity, tt.Price); err != nil {
		return model.TableType{}, err
	}
	out, err := s.types.Update(ctx, id, tt)
	return out, translate(err, tableTypeMessages)
}

func (s *TableTypeService) Delete(ctx context.Context, admin auth.Admin, id string) (model.TableType, error) {
	if err := requireAdmin(admin); err != nil {
		return model.TableType{}, err
	}
	out, err := s.types.Delete(ctx, id)
	return out, translate(referenced(err, "Table type is referenced by existing bookings"), tableTypeMessages)
}

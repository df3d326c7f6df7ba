package repository

import (
	"context"

	"github.com/doug-martin/goqu/v9"

	"github.com/iliyamo/venue-booking-api/internal/database"
	"github.com/iliyamo/venue-booking-api/internal/model"
)

// VenueRepo manages the `venues` table. Listing is newest first.
type VenueRepo struct{ t table[model.Venue] }

func NewVenueRepo(gw *database.Gateway) *VenueRepo {
	return &VenueRepo{t: newTable[model.Venue](gw, "venues", goqu.C("created_at").Desc())}
}

func venueRecord(v model.Venue) goqu.Record {
	return goqu.Record{
		"name":        v.Name,
		"location":    v.Location,
		"description": v.Description,
		"capacity":    v.Capacity,
		"amenities":   v.Amenities,
		"price_range": v.PriceRange,
		"images":      v.Images,
	}
}

func (r *VenueRepo) Create(ctx context.Context, v model.Venue) (model.Venue, error) {
	return r.t.insert(ctx, venueRecord(v))
}

func (r *VenueRepo) List(ctx context.Context) ([]model.Venue, error) { return r.t.list(ctx) }

func (r *VenueRepo) GetByID(ctx context.Context, id string) (model.Venue, error) {
	return r.t.find(ctx, id)
}

// Update replaces every mutable column of the venue.
func (r *VenueRepo) Update(ctx context.Context, id string, v model.Venue) (model.Venue, error) {
	return r.t.update(ctx, id, venueRecord(v))
}

// Delete removes the venue and returns it. Bookings still pointing at it make
// the store refuse with a foreign key violation.
func (r *VenueRepo) Delete(ctx context.Context, id string) (model.Venue, error) {
	return r.t.remove(ctx, id)
}

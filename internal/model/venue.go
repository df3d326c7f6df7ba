package model

import "time"

// Venue is a bookable location. Bookings reference it by id; deleting a
// referenced venue is refused by the store's foreign key.
type Venue struct {
	ID          string     `db:"id" json:"id"`
	Name        string     `db:"name" json:"name"`
	Location    *string    `db:"location" json:"location"`
	Description *string    `db:"description" json:"description"`
	Capacity    *int       `db:"capacity" json:"capacity"`
	Amenities   StringList `db:"amenities" json:"amenities"`
	PriceRange  *string    `db:"price_range" json:"price_range"`
	Images      StringList `db:"images" json:"images"`
	CreatedAt   time.Time  `db:"created_at" json:"created_at"`
}

// TableType is a class of table (size, price) a booking may ask for.
type TableType struct {
	ID          string    `db:"id" json:"id"`
	Name        string    `db:"name" json:"name"`
	Description *string   `db:"description" json:"description"`
	Capacity    *int      `db:"capacity" json:"capacity"`
	Price       *float64  `db:"price" json:"price"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
}

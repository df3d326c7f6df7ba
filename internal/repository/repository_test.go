package repository

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/doug-martin/goqu/v9"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/venue-booking-api/internal/database"
	"github.com/iliyamo/venue-booking-api/internal/model"
)

func newGateway(t *testing.T, driver string) (*database.Gateway, sqlmock.Sqlmock) {
	t.Helper()
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = mockDB.Close() })
	return database.NewGateway(sqlx.NewDb(mockDB, driver)), mock
}

func TestBookingViewJoinsDisplayColumns(t *testing.T) {
	query, _, err := bookingView(goqu.Dialect("postgres")).ToSQL()
	require.NoError(t, err)
	assert.Equal(t,
		`SELECT "b".*, "v"."name" AS "venue_name", "v"."location" AS "venue_location", `+
			`"v"."description" AS "venue_description", "t"."name" AS "table_type_name", `+
			`"t"."description" AS "table_type_description", "t"."capacity" AS "table_capacity", `+
			`"t"."price" AS "table_price" FROM "bookings" AS "b" `+
			`LEFT JOIN "venues" AS "v" ON ("v"."id" = "b"."venue_id") `+
			`LEFT JOIN "table_types" AS "t" ON ("t"."id" = "b"."table_type_id")`,
		query)

	query, _, err = bookingView(goqu.Dialect("mysql")).ToSQL()
	require.NoError(t, err)
	assert.Contains(t, query, "LEFT JOIN `venues` AS `v`")
}

func TestBookingStatuses(t *testing.T) {
	assert.Equal(t, "pending", BookingStatuses.Initial())
	assert.Equal(t, []string{"pending", "confirmed", "cancelled"}, BookingStatuses.Allowed())
	assert.Equal(t, []string{"pending", "approved", "rejected"}, RequestStatuses.Allowed())
}

func TestAdminRepoCreateDuplicateEmail(t *testing.T) {
	gw, mock := newGateway(t, "pgx")
	repo := NewAdminRepo(gw)

	mock.ExpectExec(`INSERT INTO "superadmins"`).
		WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "superadmins_email_key"})

	_, err := repo.Create(context.Background(), " Admin@Example.com ", "hash")
	assert.ErrorIs(t, err, ErrEmailExists)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAdminRepoGetByEmailNormalizes(t *testing.T) {
	gw, mock := newGateway(t, "pgx")
	repo := NewAdminRepo(gw)
	created := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	mock.ExpectQuery(`SELECT "id", "email", "password_hash", "created_at" FROM "superadmins" WHERE \("email" = \$1\) LIMIT \$2`).
		WithArgs("admin@example.com", 1).
		WillReturnRows(sqlmock.NewRows([]string{"id", "email", "password_hash", "created_at"}).
			AddRow("a1", "admin@example.com", "hash", created))

	a, err := repo.GetByEmail(context.Background(), "  ADMIN@example.com")
	require.NoError(t, err)
	assert.Equal(t, "a1", a.ID)

	mock.ExpectQuery(`FROM "superadmins"`).WillReturnRows(sqlmock.NewRows([]string{"id"}))
	_, err = repo.GetByID(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestVenueRepoCreateStoresListsAsJSON(t *testing.T) {
	gw, mock := newGateway(t, "mysql")
	repo := NewVenueRepo(gw)
	repo.t.newID = func() string { return "v1" }
	now := time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)
	repo.t.now = func() time.Time { return now }

	// columns are rendered in sorted order
	mock.ExpectExec("INSERT INTO `venues` \\(`amenities`, `capacity`, `created_at`, `description`, `id`, `images`, `location`, `name`, `price_range`\\)").
		WithArgs(`["wifi"]`, nil, now, nil, "v1", "[]", nil, "Hall", nil).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery("SELECT \\* FROM `venues` WHERE \\(`id` = \\?\\) LIMIT \\?").
		WithArgs("v1", 1).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "amenities", "images", "created_at"}).
			AddRow("v1", "Hall", []byte(`["wifi"]`), nil, now))

	v, err := repo.Create(context.Background(), model.Venue{Name: "Hall", Amenities: model.StringList{"wifi"}})
	require.NoError(t, err)
	assert.Equal(t, "v1", v.ID)
	assert.Equal(t, model.StringList{"wifi"}, v.Amenities)
	assert.Equal(t, model.StringList{}, v.Images)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestVenueRepoDeleteReferencedVenue(t *testing.T) {
	gw, mock := newGateway(t, "pgx")
	repo := NewVenueRepo(gw)

	mock.ExpectQuery(`SELECT \* FROM "venues"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name"}).AddRow("v1", "Hall"))
	mock.ExpectExec(`DELETE FROM "venues"`).
		WillReturnError(&pgconn.PgError{Code: "23503", ConstraintName: "bookings_venue_id_fkey"})

	_, err := repo.Delete(context.Background(), "v1")
	var ce *database.ConstraintError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, database.ForeignKey, ce.Violation)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTableTypeRepoListOrdersByCapacity(t *testing.T) {
	gw, mock := newGateway(t, "pgx")
	repo := NewTableTypeRepo(gw)

	mock.ExpectQuery(`SELECT \* FROM "table_types" ORDER BY "capacity" ASC`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "capacity"}).
			AddRow("t2", "Two-top", 2).
			AddRow("t8", "Banquet", 8))

	got, err := repo.List(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, 2, *got[0].Capacity)
	assert.NoError(t, mock.ExpectationsWereMet())
}

package lifecycle

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/doug-martin/goqu/v9"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/venue-booking-api/internal/apperr"
	"github.com/iliyamo/venue-booking-api/internal/database"
)

type ticket struct {
	ID        string    `db:"id"`
	OwnerID   *string   `db:"owner_id"`
	Status    string    `db:"status"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

func (t ticket) Key() string           { return t.ID }
func (t ticket) CurrentStatus() string { return t.Status }

var ticketColumns = []string{"id", "owner_id", "status", "created_at", "updated_at"}

func newTicketStore(t *testing.T) (*Store[ticket], sqlmock.Sqlmock) {
	t.Helper()
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = mockDB.Close() })

	schema := Schema{
		Table:    "tickets",
		Alias:    "k",
		Statuses: NewStatusSet("open", "open", "closed"),
		Checks:   []Check{References("owner_id", "owners", "Owner with id '%s' not found")},
	}
	store := NewStore[ticket](database.NewGateway(sqlx.NewDb(mockDB, "pgx")), schema)
	store.newID = func() string { return "t-1" }
	store.now = func() time.Time { return time.Date(2024, 3, 15, 18, 30, 0, 0, time.UTC) }
	return store, mock
}

func TestStatusSet(t *testing.T) {
	s := NewStatusSet("pending", "pending", "approved", "rejected")
	assert.Equal(t, "pending", s.Initial())
	assert.True(t, s.Contains("approved"))
	assert.False(t, s.Contains("bogus"))
	assert.Nil(t, s.Validate("rejected"))
	assert.Equal(t, "Invalid status. Must be: pending, approved, or rejected", s.Validate("bogus").Message)

	assert.Panics(t, func() { NewStatusSet("done", "open") })
}

func TestCreateForcesInitialStatus(t *testing.T) {
	store, mock := newTicketStore(t)
	now := store.now()

	mock.ExpectQuery(`SELECT 1 FROM "owners" WHERE \("id" = \$1\) LIMIT \$2`).
		WithArgs("o-1", 1).
		WillReturnRows(sqlmock.NewRows([]string{"?column?"}).AddRow(1))
	mock.ExpectExec(`INSERT INTO "tickets"`).
		WithArgs(now, "t-1", "o-1", "open", now).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(`SELECT "k"\.\* FROM "tickets" AS "k" WHERE \("k"\."id" = \$1\)`).
		WithArgs("t-1", 1).
		WillReturnRows(sqlmock.NewRows(ticketColumns).AddRow("t-1", "o-1", "open", now, now))

	got, err := store.Create(context.Background(), goqu.Record{"owner_id": "o-1", "status": "closed"})
	require.NoError(t, err)
	assert.Equal(t, "open", got.Status)
	assert.Equal(t, "t-1", got.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateStopsOnMissingReference(t *testing.T) {
	store, mock := newTicketStore(t)

	mock.ExpectQuery(`SELECT 1 FROM "owners"`).
		WillReturnRows(sqlmock.NewRows([]string{"?column?"}))

	_, err := store.Create(context.Background(), goqu.Record{"owner_id": "ghost"})
	require.Error(t, err)
	assert.True(t, apperr.Is(err, apperr.NotFound))
	assert.Equal(t, "not_found: Owner with id 'ghost' not found", err.Error())
	// no INSERT was expected, so any attempt would have failed the mock
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateSkipsCheckForAbsentReference(t *testing.T) {
	store, mock := newTicketStore(t)
	now := store.now()

	mock.ExpectExec(`INSERT INTO "tickets"`).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(`SELECT "k"\.\* FROM "tickets"`).
		WillReturnRows(sqlmock.NewRows(ticketColumns).AddRow("t-1", nil, "open", now, now))

	var none *string
	got, err := store.Create(context.Background(), goqu.Record{"owner_id": none})
	require.NoError(t, err)
	assert.Nil(t, got.OwnerID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSetStatusReturnsPreviousAndUpdated(t *testing.T) {
	store, mock := newTicketStore(t)
	now := store.now()

	mock.ExpectQuery(`SELECT "k"\.\* FROM "tickets"`).
		WithArgs("t-1", 1).
		WillReturnRows(sqlmock.NewRows(ticketColumns).AddRow("t-1", nil, "open", now, now))
	mock.ExpectExec(`UPDATE "tickets" SET "status"=\$1,"updated_at"=\$2 WHERE \("id" = \$3\)`).
		WithArgs("closed", now, "t-1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(`SELECT "k"\.\* FROM "tickets"`).
		WithArgs("t-1", 1).
		WillReturnRows(sqlmock.NewRows(ticketColumns).AddRow("t-1", nil, "closed", now, now))

	prev, next, err := store.SetStatus(context.Background(), goqu.Ex{"id": "t-1"}, func(cur ticket) (string, error) {
		return "closed", nil
	})
	require.NoError(t, err)
	assert.Equal(t, "open", prev.Status)
	assert.Equal(t, "closed", next.Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSetStatusRefusedByDecide(t *testing.T) {
	store, mock := newTicketStore(t)
	now := store.now()
	refused := errors.New("refused")

	mock.ExpectQuery(`SELECT "k"\.\* FROM "tickets"`).
		WillReturnRows(sqlmock.NewRows(ticketColumns).AddRow("t-1", nil, "closed", now, now))

	_, _, err := store.SetStatus(context.Background(), goqu.Ex{"id": "t-1"}, func(ticket) (string, error) {
		return "", refused
	})
	assert.ErrorIs(t, err, refused)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetAndDeleteMissingRow(t *testing.T) {
	store, mock := newTicketStore(t)

	mock.ExpectQuery(`SELECT "k"\.\* FROM "tickets"`).WillReturnRows(sqlmock.NewRows(ticketColumns))
	_, err := store.Get(context.Background(), "nope")
	assert.ErrorIs(t, err, database.ErrNotFound)

	mock.ExpectQuery(`SELECT "k"\.\* FROM "tickets"`).WillReturnRows(sqlmock.NewRows(ticketColumns))
	_, err = store.Delete(context.Background(), "nope")
	assert.ErrorIs(t, err, database.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteReturnsRemovedRow(t *testing.T) {
	store, mock := newTicketStore(t)
	now := store.now()

	mock.ExpectQuery(`SELECT "k"\.\* FROM "tickets"`).
		WillReturnRows(sqlmock.NewRows(ticketColumns).AddRow("t-1", nil, "open", now, now))
	mock.ExpectExec(`DELETE FROM "tickets" WHERE \("id" = \$1\)`).
		WithArgs("t-1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	got, err := store.Delete(context.Background(), "t-1")
	require.NoError(t, err)
	assert.Equal(t, "t-1", got.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListFiltersAndOrders(t *testing.T) {
	store, mock := newTicketStore(t)
	now := store.now()

	mock.ExpectQuery(`SELECT "k"\.\* FROM "tickets" AS "k" WHERE \("k"\."status" = \$1\) ORDER BY "k"\."created_at" DESC`).
		WithArgs("open").
		WillReturnRows(sqlmock.NewRows(ticketColumns).
			AddRow("t-2", nil, "open", now, now).
			AddRow("t-1", nil, "open", now, now))

	got, err := store.List(context.Background(), goqu.Ex{"status": "open"}, store.Col("created_at").Desc())
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "t-2", got[0].ID)

	mock.ExpectQuery(`SELECT "k"\.\* FROM "tickets" AS "k"$`).WillReturnRows(sqlmock.NewRows(ticketColumns))
	got, err = store.List(context.Background(), nil)
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStatsCountsSumToTotal(t *testing.T) {
	store, mock := newTicketStore(t)

	mock.ExpectQuery(`SELECT "status", COUNT\(\*\) AS "n" FROM "tickets" GROUP BY "status"`).
		WillReturnRows(sqlmock.NewRows([]string{"status", "n"}).
			AddRow("open", 3).
			AddRow("closed", 2).
			AddRow("archived", 7))

	stats, err := store.Stats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(3), stats.Counts["open"])
	assert.Equal(t, int64(2), stats.Counts["closed"])
	assert.Equal(t, int64(5), stats.Total)

	var sum int64
	for _, n := range stats.Counts {
		sum += n
	}
	assert.Equal(t, stats.Total, sum)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStatsEmptyTable(t *testing.T) {
	store, mock := newTicketStore(t)
	mock.ExpectQuery(`FROM "tickets" GROUP BY`).WillReturnRows(sqlmock.NewRows([]string{"status", "n"}))

	stats, err := store.Stats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, map[string]int64{"open": 0, "closed": 0}, stats.Counts)
	assert.Zero(t, stats.Total)
}

func TestReplaceChecksThenUpdates(t *testing.T) {
	store, mock := newTicketStore(t)
	now := store.now()

	mock.ExpectQuery(`SELECT "k"\.\* FROM "tickets" AS "k" WHERE \("k"\."id" = \$1\)`).
		WithArgs("t-1", 1).
		WillReturnRows(sqlmock.NewRows(ticketColumns).AddRow("t-1", "o-1", "open", now, now))
	mock.ExpectQuery(`SELECT 1 FROM "owners" WHERE \("id" = \$1\) LIMIT \$2`).
		WithArgs("o-2", 1).
		WillReturnRows(sqlmock.NewRows([]string{"?column?"}).AddRow(1))
	mock.ExpectExec(`UPDATE "tickets" SET "owner_id"=\$1,"status"=\$2,"updated_at"=\$3 WHERE \("id" = \$4\)`).
		WithArgs("o-2", "closed", now, "t-1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(`SELECT "k"\.\* FROM "tickets"`).
		WithArgs("t-1", 1).
		WillReturnRows(sqlmock.NewRows(ticketColumns).AddRow("t-1", "o-2", "closed", now, now))

	rec := goqu.Record{"owner_id": "o-2", "status": "closed"}
	got, err := store.Replace(context.Background(), "t-1", rec)
	require.NoError(t, err)
	assert.Equal(t, "closed", got.Status)
	assert.Equal(t, "o-2", *got.OwnerID)
	assert.NotContains(t, rec, "updated_at")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReplaceMissingRowWritesNothing(t *testing.T) {
	store, mock := newTicketStore(t)

	mock.ExpectQuery(`SELECT "k"\.\* FROM "tickets"`).
		WithArgs("ghost", 1).
		WillReturnRows(sqlmock.NewRows(ticketColumns))

	_, err := store.Replace(context.Background(), "ghost", goqu.Record{"owner_id": "o-2"})
	assert.ErrorIs(t, err, database.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReplaceStopsOnMissingReference(t *testing.T) {
	store, mock := newTicketStore(t)
	now := store.now()

	mock.ExpectQuery(`SELECT "k"\.\* FROM "tickets"`).
		WillReturnRows(sqlmock.NewRows(ticketColumns).AddRow("t-1", "o-1", "open", now, now))
	mock.ExpectQuery(`SELECT 1 FROM "owners"`).
		WithArgs("ghost", 1).
		WillReturnRows(sqlmock.NewRows([]string{"?column?"}))

	_, err := store.Replace(context.Background(), "t-1", goqu.Record{"owner_id": "ghost"})
	assert.True(t, apperr.Is(err, apperr.NotFound))
	assert.NoError(t, mock.ExpectationsWereMet())
}

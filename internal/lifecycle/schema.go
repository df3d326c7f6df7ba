package lifecycle

import (
	"context"
	"database/sql"
	"errors"

	"github.com/doug-martin/goqu/v9"

	"github.com/iliyamo/venue-booking-api/internal/apperr"
	"github.com/iliyamo/venue-booking-api/internal/database"
)

// Entity is implemented by every row type a Store manages.
type Entity interface {
	Key() string
	CurrentStatus() string
}

// Check runs before a row is written and may reject it, typically with a
// NotFound error for a dangling reference.
type Check func(ctx context.Context, q database.Querier, d goqu.DialectWrapper, rec goqu.Record) error

// Schema describes one status-tagged table.
type Schema struct {
	Table    string
	Alias    string
	Statuses StatusSet
	// View selects full rows from Table aliased as Alias, optionally with
	// joined display columns. Nil means a plain select of the table.
	View   func(d goqu.DialectWrapper) *goqu.SelectDataset
	Checks []Check
}

func (s Schema) view(d goqu.DialectWrapper) *goqu.SelectDataset {
	if s.View != nil {
		return s.View(d)
	}
	return d.From(goqu.T(s.Table).As(s.Alias)).Select(goqu.T(s.Alias).All())
}

// References returns a Check that fails with NotFound when rec[field] is set
// and no row in table has that id. message receives the id via %s.
func References(field, table, message string) Check {
	return func(ctx context.Context, q database.Querier, d goqu.DialectWrapper, rec goqu.Record) error {
		id, ok := referenceValue(rec[field])
		if !ok {
			return nil
		}
		query, args, err := d.From(table).Select(goqu.L("1")).Where(goqu.Ex{"id": id}).Limit(1).Prepared(true).ToSQL()
		if err != nil {
			return err
		}
		var one int
		if err := q.GetContext(ctx, &one, query, args...); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return apperr.NotFoundf(message, id)
			}
			return err
		}
		return nil
	}
}

func referenceValue(v any) (string, bool) {
	switch t := v.(type) {
	case string:
		return t, t != ""
	case *string:
		if t == nil || *t == "" {
			return "", false
		}
		return *t, true
	}
	return "", false
}

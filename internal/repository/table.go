package repository

import (
	"context"
	"time"

	"github.com/doug-martin/goqu/v9"
	"github.com/doug-martin/goqu/v9/exp"
	"github.com/google/uuid"

	"github.com/iliyamo/venue-booking-api/internal/database"
)

// table is the CRUD plumbing shared by the catalogue repos. Rows get an
// application generated UUID and created_at so inserts need no RETURNING.
type table[T any] struct {
	gw    *database.Gateway
	name  string
	order []exp.OrderedExpression
	now   func() time.Time
	newID func() string
}

func newTable[T any](gw *database.Gateway, name string, order ...exp.OrderedExpression) table[T] {
	return table[T]{
		gw:    gw,
		name:  name,
		order: order,
		now:   func() time.Time { return time.Now().UTC() },
		newID: uuid.NewString,
	}
}

func (t table[T]) insert(ctx context.Context, rec goqu.Record) (T, error) {
	var out T
	err := t.gw.Run(ctx, func(q database.Querier) error {
		id := t.newID()
		rec["id"] = id
		rec["created_at"] = t.now()
		query, args, err := t.gw.Builder().Insert(t.name).Rows(rec).Prepared(true).ToSQL()
		if err != nil {
			return err
		}
		if _, err := q.ExecContext(ctx, query, args...); err != nil {
			return database.Classify(err)
		}
		out, err = t.get(ctx, q, id)
		return err
	})
	return out, err
}

func (t table[T]) find(ctx context.Context, id string) (T, error) {
	var out T
	err := t.gw.Run(ctx, func(q database.Querier) error {
		var err error
		out, err = t.get(ctx, q, id)
		return err
	})
	return out, err
}

func (t table[T]) list(ctx context.Context) ([]T, error) {
	out := []T{}
	err := t.gw.Run(ctx, func(q database.Querier) error {
		query, args, err := t.gw.Builder().From(t.name).Order(t.order...).Prepared(true).ToSQL()
		if err != nil {
			return err
		}
		return database.Classify(q.SelectContext(ctx, &out, query, args...))
	})
	return out, err
}

func (t table[T]) update(ctx context.Context, id string, rec goqu.Record) (T, error) {
	var out T
	err := t.gw.Run(ctx, func(q database.Querier) error {
		if _, err := t.get(ctx, q, id); err != nil {
			return err
		}
		query, args, err := t.gw.Builder().Update(t.name).Set(rec).Where(goqu.Ex{"id": id}).Prepared(true).ToSQL()
		if err != nil {
			return err
		}
		if _, err := q.ExecContext(ctx, query, args...); err != nil {
			return database.Classify(err)
		}
		out, err = t.get(ctx, q, id)
		return err
	})
	return out, err
}

func (t table[T]) remove(ctx context.Context, id string) (T, error) {
	var out T
	err := t.gw.Run(ctx, func(q database.Querier) error {
		var err error
		if out, err = t.get(ctx, q, id); err != nil {
			return err
		}
		query, args, err := t.gw.Builder().Delete(t.name).Where(goqu.Ex{"id": id}).Prepared(true).ToSQL()
		if err != nil {
			return err
		}
		_, err = q.ExecContext(ctx, query, args...)
		return database.Classify(err)
	})
	return out, err
}

func (t table[T]) get(ctx context.Context, q database.Querier, id string) (T, error) {
	var out T
	query, args, err := t.gw.Builder().From(t.name).Where(goqu.Ex{"id": id}).Limit(1).Prepared(true).ToSQL()
	if err != nil {
		return out, err
	}
	return out, database.Classify(q.GetContext(ctx, &out, query, args...))
}

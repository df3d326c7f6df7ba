// Package lifecycle implements the create / transition / delete cycle shared
// by every status-tagged entity. A Store is instantiated once per table with
// its Schema; services add validation and response shaping on top.
package lifecycle

import (
	"context"
	"fmt"
	"time"

	"github.com/doug-martin/goqu/v9"
	"github.com/doug-martin/goqu/v9/exp"
	"github.com/google/uuid"

	"github.com/iliyamo/venue-booking-api/internal/database"
)

// Decide picks the next status for a loaded row or refuses the transition.
type Decide[V Entity] func(current V) (string, error)

// Stats holds per-status counts. Total is the sum of Counts.
type Stats struct {
	Counts map[string]int64
	Total  int64
}

// Store runs lifecycle operations against one table. Each method acquires a
// single connection from the gateway for its whole duration. Check-then-act
// sequences are separate statements without locking; the last writer wins.
type Store[V Entity] struct {
	gw     *database.Gateway
	schema Schema
	now    func() time.Time
	newID  func() string
}

func NewStore[V Entity](gw *database.Gateway, schema Schema) *Store[V] {
	return &Store[V]{
		gw:     gw,
		schema: schema,
		now:    func() time.Time { return time.Now().UTC() },
		newID:  func() string { return uuid.NewString() },
	}
}

func (s *Store[V]) Statuses() StatusSet { return s.schema.Statuses }

// Col qualifies a column with the view alias for filters and ordering.
func (s *Store[V]) Col(name string) exp.IdentifierExpression {
	return goqu.I(s.schema.Alias + "." + name)
}

// Create runs the schema checks, inserts rec with a fresh id and the initial
// status and returns the stored row. Any status in rec is overwritten.
func (s *Store[V]) Create(ctx context.Context, rec goqu.Record) (V, error) {
	var out V
	err := s.gw.Run(ctx, func(q database.Querier) error {
		d := s.gw.Builder()
		if err := s.runChecks(ctx, q, rec); err != nil {
			return err
		}
		id := s.newID()
		now := s.now()
		row := copyRecord(rec)
		row["id"] = id
		row["status"] = s.schema.Statuses.Initial()
		row["created_at"] = now
		row["updated_at"] = now

		query, args, err := d.Insert(s.schema.Table).Rows(row).Prepared(true).ToSQL()
		if err != nil {
			return err
		}
		if _, err := q.ExecContext(ctx, query, args...); err != nil {
			return database.Classify(err)
		}
		out, err = s.get(ctx, q, goqu.Ex{"id": id})
		return err
	})
	return out, err
}

// Get returns the row with the given id or database.ErrNotFound.
func (s *Store[V]) Get(ctx context.Context, id string) (V, error) {
	return s.Find(ctx, goqu.Ex{"id": id})
}

// Find returns the first row matching the equality filter. Keys are column
// names of the base table.
func (s *Store[V]) Find(ctx context.Context, filter goqu.Ex) (V, error) {
	var out V
	err := s.gw.Run(ctx, func(q database.Querier) error {
		var err error
		out, err = s.get(ctx, q, filter)
		return err
	})
	return out, err
}

// List returns every row matching filter in the given order. An empty filter
// matches all rows.
func (s *Store[V]) List(ctx context.Context, filter goqu.Ex, order ...exp.OrderedExpression) ([]V, error) {
	out := []V{}
	err := s.gw.Run(ctx, func(q database.Querier) error {
		sel := s.schema.view(s.gw.Builder())
		if len(filter) > 0 {
			sel = sel.Where(s.qualify(filter))
		}
		query, args, err := sel.Order(order...).Prepared(true).ToSQL()
		if err != nil {
			return err
		}
		return database.Classify(q.SelectContext(ctx, &out, query, args...))
	})
	return out, err
}

// SetStatus loads the row matching filter, asks decide for the next status
// and writes it. It returns the row before and after the update. Any state
// may move to any other unless decide refuses.
func (s *Store[V]) SetStatus(ctx context.Context, filter goqu.Ex, decide Decide[V]) (V, V, error) {
	var prev, next V
	err := s.gw.Run(ctx, func(q database.Querier) error {
		var err error
		if prev, err = s.get(ctx, q, filter); err != nil {
			return err
		}
		status, err := decide(prev)
		if err != nil {
			return err
		}
		if err := s.update(ctx, q, prev.Key(), goqu.Record{"status": status}); err != nil {
			return err
		}
		next, err = s.get(ctx, q, goqu.Ex{"id": prev.Key()})
		return err
	})
	return prev, next, err
}

// Replace overwrites the mutable columns of an existing row. The schema
// checks run after the row is known to exist.
func (s *Store[V]) Replace(ctx context.Context, id string, rec goqu.Record) (V, error) {
	var out V
	err := s.gw.Run(ctx, func(q database.Querier) error {
		if _, err := s.get(ctx, q, goqu.Ex{"id": id}); err != nil {
			return err
		}
		if err := s.runChecks(ctx, q, rec); err != nil {
			return err
		}
		if err := s.update(ctx, q, id, copyRecord(rec)); err != nil {
			return err
		}
		var err error
		out, err = s.get(ctx, q, goqu.Ex{"id": id})
		return err
	})
	return out, err
}

// Delete removes the row and returns it as it was.
func (s *Store[V]) Delete(ctx context.Context, id string) (V, error) {
	var out V
	err := s.gw.Run(ctx, func(q database.Querier) error {
		var err error
		if out, err = s.get(ctx, q, goqu.Ex{"id": id}); err != nil {
			return err
		}
		query, args, err := s.gw.Builder().Delete(s.schema.Table).Where(goqu.Ex{"id": id}).Prepared(true).ToSQL()
		if err != nil {
			return err
		}
		_, err = q.ExecContext(ctx, query, args...)
		return database.Classify(err)
	})
	return out, err
}

// Stats counts rows per status in one grouped query. Statuses outside the
// set are ignored so the counts always add up to Total.
func (s *Store[V]) Stats(ctx context.Context) (Stats, error) {
	stats := Stats{Counts: map[string]int64{}}
	for _, st := range s.schema.Statuses.allowed {
		stats.Counts[st] = 0
	}
	err := s.gw.Run(ctx, func(q database.Querier) error {
		query, args, err := s.gw.Builder().
			From(s.schema.Table).
			Select(goqu.C("status"), goqu.COUNT(goqu.Star()).As("n")).
			GroupBy(goqu.C("status")).
			Prepared(true).ToSQL()
		if err != nil {
			return err
		}
		var rows []struct {
			Status string `db:"status"`
			N      int64  `db:"n"`
		}
		if err := q.SelectContext(ctx, &rows, query, args...); err != nil {
			return database.Classify(err)
		}
		for _, r := range rows {
			if _, ok := stats.Counts[r.Status]; ok {
				stats.Counts[r.Status] += r.N
				stats.Total += r.N
			}
		}
		return nil
	})
	return stats, err
}

func (s *Store[V]) get(ctx context.Context, q database.Querier, filter goqu.Ex) (V, error) {
	var out V
	query, args, err := s.schema.view(s.gw.Builder()).Where(s.qualify(filter)).Limit(1).Prepared(true).ToSQL()
	if err != nil {
		return out, err
	}
	if err := q.GetContext(ctx, &out, query, args...); err != nil {
		return out, database.Classify(err)
	}
	return out, nil
}

func (s *Store[V]) update(ctx context.Context, q database.Querier, id string, rec goqu.Record) error {
	rec["updated_at"] = s.now()
	query, args, err := s.gw.Builder().Update(s.schema.Table).Set(rec).Where(goqu.Ex{"id": id}).Prepared(true).ToSQL()
	if err != nil {
		return err
	}
	_, err = q.ExecContext(ctx, query, args...)
	return database.Classify(err)
}

func (s *Store[V]) runChecks(ctx context.Context, q database.Querier, rec goqu.Record) error {
	for _, check := range s.schema.Checks {
		if err := check(ctx, q, s.gw.Builder(), rec); err != nil {
			return err
		}
	}
	return nil
}

func (s *Store[V]) qualify(filter goqu.Ex) goqu.Ex {
	out := make(goqu.Ex, len(filter))
	for k, v := range filter {
		out[fmt.Sprintf("%s.%s", s.schema.Alias, k)] = v
	}
	return out
}

func copyRecord(rec goqu.Record) goqu.Record {
	out := make(goqu.Record, len(rec)+4)
	for k, v := range rec {
		out[k] = v
	}
	return out
}

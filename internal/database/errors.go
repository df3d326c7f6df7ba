package database

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/go-sql-driver/mysql"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
)

// ErrNotFound is returned by stores when a lookup matches no row.
var ErrNotFound = errors.New("record not found")

// Violation names the integrity constraint a statement broke.
type Violation int

const (
	ForeignKey Violation = iota + 1
	Unique
	NotNull
)

func (v Violation) String() string {
	switch v {
	case ForeignKey:
		return "foreign_key"
	case Unique:
		return "unique"
	case NotNull:
		return "not_null"
	}
	return "unknown"
}

// ConstraintError is a driver error recognised as an integrity violation.
// Constraint holds the constraint name when the driver reports one; Detail
// carries the driver's human readable detail text.
type ConstraintError struct {
	Violation  Violation
	Constraint string
	Detail     string
	Err        error
}

func (e *ConstraintError) Error() string {
	return fmt.Sprintf("%s violation (%s): %v", e.Violation, e.Constraint, e.Err)
}

func (e *ConstraintError) Unwrap() error { return e.Err }

// Classify turns driver errors into ErrNotFound or *ConstraintError and
// returns anything else unchanged.
func Classify(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		if v := sqlstateViolation(pgErr.Code); v != 0 {
			return &ConstraintError{Violation: v, Constraint: pgErr.ConstraintName, Detail: pgErr.Detail, Err: err}
		}
		return err
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		if v := sqlstateViolation(string(pqErr.Code)); v != 0 {
			return &ConstraintError{Violation: v, Constraint: pqErr.Constraint, Detail: pqErr.Detail, Err: err}
		}
		return err
	}
	var myErr *mysql.MySQLError
	if errors.As(err, &myErr) {
		var v Violation
		switch myErr.Number {
		case 1451, 1452:
			v = ForeignKey
		case 1062:
			v = Unique
		case 1048, 1364:
			v = NotNull
		}
		if v != 0 {
			// MySQL has no structured constraint field; the message names it
			return &ConstraintError{Violation: v, Constraint: myErr.Message, Detail: myErr.Message, Err: err}
		}
	}
	return err
}

func sqlstateViolation(code string) Violation {
	switch code {
	case "23503":
		return ForeignKey
	case "23505":
		return Unique
	case "23502":
		return NotNull
	}
	return 0
}

package database

import (
	"context"
	"database/sql"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/mysql"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres"
	"github.com/jmoiron/sqlx"
)

// Querier is the slice of *sqlx.Conn that stores use. A Querier is only
// valid inside the Run callback that produced it.
type Querier interface {
	GetContext(ctx context.Context, dest any, query string, args ...any) error
	SelectContext(ctx context.Context, dest any, query string, args ...any) error
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// Gateway hands out one pooled connection per operation together with a SQL
// builder for the connection's dialect.
type Gateway struct {
	db      *sqlx.DB
	dialect goqu.DialectWrapper
}

func NewGateway(db *sqlx.DB) *Gateway {
	return &Gateway{db: db, dialect: goqu.Dialect(DialectFor(db.DriverName()))}
}

// DialectFor maps a database/sql driver name to its goqu dialect.
func DialectFor(driver string) string {
	switch driver {
	case "mysql":
		return "mysql"
	default:
		return "postgres"
	}
}

// Builder returns the goqu dialect used to render statements.
func (g *Gateway) Builder() goqu.DialectWrapper { return g.dialect }

// Run acquires a dedicated connection, passes it to fn and releases it on
// every exit path, including panics inside fn.
func (g *Gateway) Run(ctx context.Context, fn func(q Querier) error) error {
	conn, err := g.db.Connx(ctx)
	if err != nil {
		return err
	}
	defer conn.Close()
	return fn(conn)
}

func (g *Gateway) Ping(ctx context.Context) error { return g.db.PingContext(ctx) }

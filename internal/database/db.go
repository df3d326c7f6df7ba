package database

import (
	"context"
	"fmt"
	"time"

	"github.com/go-sql-driver/mysql"
	_ "github.com/jackc/pgx/v5/stdlib" // registers the "pgx" driver
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq" // registers the "postgres" driver

	"github.com/iliyamo/venue-booking-api/internal/config"
)

// Open connects with the configured driver, applies pool settings and
// verifies the connection.
func Open(cfg config.DatabaseConfig) (*sqlx.DB, error) {
	dsn, err := normalizeDSN(cfg.Driver, cfg.URL)
	if err != nil {
		return nil, err
	}
	db, err := sqlx.Open(cfg.Driver, dsn)
	if err != nil {
		return nil, err
	}

	// Pool settings
	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	// Ping with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

// normalizeDSN forces parseTime and UTC on MySQL DSNs so DATETIME columns
// scan into time.Time consistently. Postgres URLs pass through unchanged.
func normalizeDSN(driver, dsn string) (string, error) {
	if driver != "mysql" {
		return dsn, nil
	}
	mc, err := mysql.ParseDSN(dsn)
	if err != nil {
		return "", fmt.Errorf("parse mysql dsn: %w", err)
	}
	mc.ParseTime = true
	mc.Loc = time.UTC
	if mc.Params == nil {
		mc.Params = map[string]string{}
	}
	if _, ok := mc.Params["charset"]; !ok {
		mc.Params["charset"] = "utf8mb4"
	}
	return mc.FormatDSN(), nil
}

package db

import (
	"database/sql"
	"fmt"
	"time"

	_ "github.com/go-sql-driver/mysql"
)

// Database wraps the shared MariaDB connection pool.
type Database struct {
	*sql.DB
}

// New opens a MariaDB pool, applies the sizing knobs from config, and
// pings once so a bad DSN fails at startup instead of on first query.
func New(dsn string, maxOpen, maxIdle int, connMaxLifetime time.Duration) (*Database, error) {
	pool, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	pool.SetMaxOpenConns(maxOpen)
	pool.SetMaxIdleConns(maxIdle)
	pool.SetConnMaxLifetime(connMaxLifetime)

	if err := pool.Ping(); err != nil {
		if cErr := pool.Close(); cErr != nil {
			return nil, fmt.Errorf("closing pool after failed ping: %w", cErr)
		}
		return nil, fmt.Errorf("pinging database: %w", err)
	}
	return &Database{pool}, nil
}

// Package database holds the storage handle abstractions shared by repositories.
package database

import (
	"context"
	"database/sql"
)

// DB is the pooled handle opened once at startup and closed at shutdown.
type DB interface {
	Ping(ctx context.Context) error
	Close() error

	// Exec returns the number of affected rows.
	Exec(ctx context.Context, query string, args ...any) (int64, error)
	Query(ctx context.Context, query string, args ...any) (Rows, error)
	QueryRow(ctx context.Context, query string, args ...any) Row

	SQLDB() *sql.DB
}

type Rows interface {
	Close()
	Next() bool
	Scan(dest ...any) error
	Err() error
}

type Row interface {
	Scan(dest ...any) error
}

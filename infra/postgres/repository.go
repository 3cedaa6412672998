package postgres

import (
	"context"
	"database/sql"
	"time"

	"github.com/jmoiron/sqlx"

	_ "github.com/lib/pq"
)

// PgRepository owns the connection pool. The catalog and auth repositories
// are built on top of it and share its connections.
type PgRepository struct {
	db *sqlx.DB
}

func NewPgRepository(dsn string) *PgRepository {
	db := sqlx.MustConnect("postgres", dsn)

	// With 3 replicas x 15 conns = 45 total connections (safe for default PG max_connections=100)
	db.SetMaxOpenConns(15)
	db.SetMaxIdleConns(8)
	db.SetConnMaxLifetime(5 * time.Minute)
	db.SetConnMaxIdleTime(2 * time.Minute)

	return &PgRepository{db: db}
}

// NewPgRepositoryFromDB wraps an already opened pool, e.g. an in-memory test
// database. driverName selects the placeholder style.
func NewPgRepositoryFromDB(db *sql.DB, driverName string) *PgRepository {
	return &PgRepository{db: sqlx.NewDb(db, driverName)}
}

func (r *PgRepository) DB() *sql.DB {
	return r.db.DB
}

func (r *PgRepository) Close() error {
	return r.db.Close()
}

func (r *PgRepository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

// GetPoolStats returns current connection pool statistics
func (r *PgRepository) GetPoolStats() map[string]any {
	stats := r.db.Stats()
	return map[string]any{
		"max_open_connections": stats.MaxOpenConnections,
		"open_connections":     stats.OpenConnections,
		"in_use":               stats.InUse,
		"idle":                 stats.Idle,
		"wait_count":           stats.WaitCount,                   // How many times waited for connection
		"wait_duration_ms":     stats.WaitDuration.Milliseconds(), // Total time spent waiting
		"max_idle_closed":      stats.MaxIdleClosed,               // Connections closed due to idle
		"max_lifetime_closed":  stats.MaxLifetimeClosed,           // Connections closed due to max lifetime
	}
}

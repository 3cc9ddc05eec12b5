package warehouse

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/jackc/pgx/v5/pgxpool"

	"callcast/internal/config"
	apperrors "callcast/internal/errors"
)

// QueryExecutor executes statements against one warehouse connection. The
// Placeholder method exists because the supported drivers disagree on bind
// parameter syntax.
type QueryExecutor interface {
	// Exec runs one statement with the given arguments.
	Exec(ctx context.Context, query string, args ...interface{}) error

	// Placeholder returns the bind marker for the n-th parameter, 1-based.
	Placeholder(n int) string

	// Close releases the underlying connections.
	Close(ctx context.Context) error
}

// NewExecutor returns the executor selected by cfg.Driver.
func NewExecutor(ctx context.Context, cfg config.WarehouseConfig) (QueryExecutor, error) {
	switch cfg.Driver {
	case "postgres":
		return NewPostgresExecutor(ctx, cfg.DSN)
	case "mysql":
		return NewMySQLExecutor(cfg.DSN)
	default:
		return nil, apperrors.NewConfigError(
			fmt.Sprintf("unsupported warehouse driver %q", cfg.Driver), nil)
	}
}

// PostgresExecutor runs statements through a pgx connection pool.
type PostgresExecutor struct {
	pool *pgxpool.Pool
}

// NewPostgresExecutor connects to a PostgreSQL warehouse.
func NewPostgresExecutor(ctx context.Context, dsn string) (*PostgresExecutor, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, apperrors.NewStorageError("cannot create postgres pool", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, apperrors.NewStorageError("cannot reach postgres warehouse", err)
	}
	return &PostgresExecutor{pool: pool}, nil
}

// Exec implements QueryExecutor.
func (e *PostgresExecutor) Exec(ctx context.Context, query string, args ...interface{}) error {
	if _, err := e.pool.Exec(ctx, query, args...); err != nil {
		return apperrors.NewStorageError("postgres statement failed", err)
	}
	return nil
}

// Placeholder implements QueryExecutor.
func (e *PostgresExecutor) Placeholder(n int) string {
	return "$" + strconv.Itoa(n)
}

// Close implements QueryExecutor.
func (e *PostgresExecutor) Close(context.Context) error {
	e.pool.Close()
	return nil
}

// MySQLExecutor runs statements through database/sql with the mysql driver.
type MySQLExecutor struct {
	db *sql.DB
}

// NewMySQLExecutor connects to a MySQL warehouse.
func NewMySQLExecutor(dsn string) (*MySQLExecutor, error) {
	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, apperrors.NewStorageError("cannot open mysql connection", err)
	}
	db.SetMaxOpenConns(4)
	db.SetMaxIdleConns(2)
	db.SetConnMaxLifetime(5 * time.Minute)
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, apperrors.NewStorageError("cannot reach mysql warehouse", err)
	}
	return &MySQLExecutor{db: db}, nil
}

// Exec implements QueryExecutor.
func (e *MySQLExecutor) Exec(ctx context.Context, query string, args ...interface{}) error {
	if _, err := e.db.ExecContext(ctx, query, args...); err != nil {
		return apperrors.NewStorageError("mysql statement failed", err)
	}
	return nil
}

// Placeholder implements QueryExecutor.
func (e *MySQLExecutor) Placeholder(int) string {
	return "?"
}

// Close implements QueryExecutor.
func (e *MySQLExecutor) Close(context.Context) error {
	return e.db.Close()
}

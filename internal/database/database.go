// Package database provides support for accessing the database.
package database

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// UniqueViolation is the PostgreSQL error code raised when an insert or
// update breaks a unique constraint.
const UniqueViolation = "23505"

// Pool is the subset of the pgxpool.Pool API that the repositories use.
// Declaring it here lets tests substitute a mock pool for the real one.
type Pool interface {
	Begin(ctx context.Context) (pgx.Tx, error)
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Ping(ctx context.Context) error
	Close()
}

// Config represents configuration properties for using the database.
//
// Notes for configuring the connection pool:
//
// 1. As a rule of thumb, a MaxOpenConns value should be set explicitly. This should be
// comfortably below any hard limits on the number of connections imposed by the
// database and infrastructure, and maybe we can think keeping it fairly low
// to act as a rudimentary throttle. Ideally we should tweak this value based on the
// results of benchmarking and load-testing.
//
// 2. In general, higher MaxOpenConns and MaxIdleConns values will lead to better performance.
// But the returns are diminishing, and you should be aware that having a too-large idle connection
// pool (with connections that are not frequently re-used) can actually lead to reduced performance
// and unnecessary resource consumption.
//
// 3. To mitigate the risk from point 2 above, you should generally set a MaxConnIdleTime value
// to remove idle connections that haven't been used for a long time.
type Config struct {
	DSN             string
	MaxOpenConns    int    // limit on the number of 'open' connections (in-use + idle connections)
	MaxConnIdleTime string // maximum length of time that a connection can be idle for before it is marked as expired
}

// OpenConnection knows how to open a database connection pool based on
// the configuration.
func OpenConnection(cfg Config) (*pgxpool.Pool, error) {
	poolCfg, err := pgxpool.ParseConfig(cfg.DSN)
	if err != nil {
		return nil, err
	}

	poolCfg.MaxConns = int32(cfg.MaxOpenConns)

	duration, err := time.ParseDuration(cfg.MaxConnIdleTime)
	if err != nil {
		return nil, err
	}
	poolCfg.MaxConnIdleTime = duration

	pool, err := pgxpool.NewWithConfig(context.Background(), poolCfg)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	err = pool.Ping(ctx)
	if err != nil {
		pool.Close()
		return nil, err
	}

	return pool, nil
}

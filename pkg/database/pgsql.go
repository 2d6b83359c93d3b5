package database

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"
)

// NewPgxPool opens a PostgreSQL connection pool for the given URL. When
// verifyConn is true the pool is pinged before it is returned, so a bad URL
// fails startup instead of the first query.
func NewPgxPool(ctx context.Context, databaseURL string, verifyConn bool) (*pgxpool.Pool, error) {
	if databaseURL == "" {
		return nil, fmt.Errorf("database URL cannot be empty")
	}

	poolCfg, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("parsing database config: %w", err)
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("creating connection pool: %w", err)
	}

	if verifyConn {
		if err := pool.Ping(ctx); err != nil {
			pool.Close()
			return nil, fmt.Errorf("pinging database: %w", err)
		}
		slog.Info("PostgreSQL connectivity verified")
	}
	return pool, nil
}

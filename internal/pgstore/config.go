package pgstore

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/quadfusion/engine/internal/enginecore"
)

// NewFromConfig opens a pgxpool.Pool per cfg, runs Setup against it, and
// returns a ready PgQuadStorage — the single entry point factory.New
// uses to wire a Postgres-backed QuadStorage from an enginecore.Config
// without factory itself touching pgx directly.
func NewFromConfig(ctx context.Context, cfg enginecore.PostgresConfig) (*PgQuadStorage, error) {
	poolCfg, err := pgxpool.ParseConfig(cfg.ConnString)
	if err != nil {
		return nil, enginecore.NewConfigError("pgstore: invalid connection string: " + err.Error())
	}
	if cfg.MaxConnections > 0 {
		poolCfg.MaxConns = cfg.MaxConnections
	}
	if cfg.ConnMaxLifetime > 0 {
		poolCfg.MaxConnLifetime = cfg.ConnMaxLifetime
	}

	connectCtx := ctx
	var cancel context.CancelFunc
	if cfg.Timeout > 0 {
		connectCtx, cancel = context.WithTimeout(ctx, cfg.Timeout)
		defer cancel()
	}

	pool, err := pgxpool.NewWithConfig(connectCtx, poolCfg)
	if err != nil {
		return nil, wrapIO("connect", err)
	}
	if err := pool.Ping(connectCtx); err != nil {
		pool.Close()
		return nil, wrapIO("ping", err)
	}
	if err := Setup(connectCtx, pool); err != nil {
		pool.Close()
		return nil, err
	}
	return &PgQuadStorage{pool: pool, log: zap.S().Named("pgstore")}, nil
}

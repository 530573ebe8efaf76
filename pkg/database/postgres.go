package database

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"easemyform-backend/pkg/database/migrations"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
)

// ErrNotConfigured is returned when no connection string was provided.
var ErrNotConfigured = errors.New("database: DATABASE_URL not configured")

// Postgres owns the connection pool. The pool is created lazily so the API
// can boot while the database is down; callers get an error from Pool until
// a connection succeeds.
type Postgres struct {
	connString string

	mu       sync.Mutex
	pool     *pgxpool.Pool
	migrated bool
}

func NewPostgres(connString string) *Postgres {
	return &Postgres{connString: connString}
}

// Pool returns a ready pool, connecting and migrating on first use.
func (p *Postgres) Pool(ctx context.Context) (*pgxpool.Pool, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.pool != nil && p.migrated {
		return p.pool, nil
	}
	if p.connString == "" {
		return nil, ErrNotConfigured
	}

	if p.pool == nil {
		pool, err := NewPostgresConnection(ctx, p.connString)
		if err != nil {
			return nil, err
		}
		p.pool = pool
	}

	if err := migrate(ctx, p.pool); err != nil {
		return nil, fmt.Errorf("database: migration failed: %w", err)
	}
	p.migrated = true
	return p.pool, nil
}

// HealthCheck pings the database.
func (p *Postgres) HealthCheck(ctx context.Context) error {
	pool, err := p.Pool(ctx)
	if err != nil {
		return err
	}
	return pool.Ping(ctx)
}

func (p *Postgres) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.pool != nil {
		p.pool.Close()
		p.pool = nil
		p.migrated = false
	}
}

func NewPostgresConnection(ctx context.Context, connString string) (*pgxpool.Pool, error) {
	config, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, err
	}

	// PgBouncer transaction mode does not support prepared statements
	config.ConnConfig.DefaultQueryExecMode = pgx.QueryExecModeSimpleProtocol

	config.MaxConns = 25
	config.MinConns = 2
	config.MaxConnLifetime = time.Hour
	config.MaxConnIdleTime = 30 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, err
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, err
	}

	log.Println("Database connection established successfully")
	return pool, nil
}

func migrate(ctx context.Context, pool *pgxpool.Pool) error {
	db := stdlib.OpenDBFromPool(pool)
	defer db.Close()

	goose.SetBaseFS(migrations.Migrations)
	if err := goose.SetDialect("postgres"); err != nil {
		return err
	}
	return goose.UpContext(ctx, db, ".")
}

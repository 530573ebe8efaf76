package postgres

import (
	"context"
	"errors"
	"fmt"
	"net"

	"easemyform-backend/internal/domain"
	"easemyform-backend/pkg/database"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgreSQL error codes
const (
	pgUniqueViolation = "23505"
)

// acquire returns the pool or ErrStorageUnavailable.
func acquire(ctx context.Context, db *database.Postgres) (*pgxpool.Pool, error) {
	pool, err := db.Pool(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrStorageUnavailable, err)
	}
	return pool, nil
}

// classify maps driver errors onto domain errors. Errors that mean the
// server could not be reached become ErrStorageUnavailable.
func classify(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.ErrNotFound
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		if pgErr.Code == pgUniqueViolation {
			return fmt.Errorf("%w: %s", domain.ErrConflict, pgErr.ConstraintName)
		}
		return err
	}

	var connectErr *pgconn.ConnectError
	var netErr net.Error
	if errors.As(err, &connectErr) || errors.As(err, &netErr) || pgconn.Timeout(err) {
		return fmt.Errorf("%w: %v", domain.ErrStorageUnavailable, err)
	}
	return err
}

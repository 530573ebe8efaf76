package postgres

import (
	"context"
	"errors"
	"fmt"
	"net"
	"testing"
	"time"

	"easemyform-backend/internal/domain"
	"easemyform-backend/pkg/database"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func TestJobUpdateSet(t *testing.T) {
	at := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	reqs := []string{"Go", "PostgreSQL"}

	tests := []struct {
		name       string
		req        domain.UpdateJobRequest
		wantClause string
		wantArgs   []any
	}{
		{
			name:       "only updated_at",
			req:        domain.UpdateJobRequest{},
			wantClause: "updated_at = $2",
			wantArgs:   []any{"job-1", at},
		},
		{
			name:       "status",
			req:        domain.UpdateJobRequest{Status: strPtr(domain.JobStatusClosed)},
			wantClause: "status = $2, updated_at = $3",
			wantArgs:   []any{"job-1", domain.JobStatusClosed, at},
		},
		{
			name: "columns keep a fixed order",
			req: domain.UpdateJobRequest{
				Status:       strPtr("draft"),
				Title:        strPtr("Go Engineer"),
				Requirements: &reqs,
				Location:     strPtr("Pune"),
			},
			wantClause: "title = $2, location = $3, requirements = $4, status = $5, updated_at = $6",
			wantArgs:   []any{"job-1", "Go Engineer", "Pune", pq.Array(reqs), "draft", at},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clause, args := jobUpdateSet("job-1", tt.req, at)
			assert.Equal(t, tt.wantClause, clause)
			assert.Equal(t, tt.wantArgs, args)
		})
	}
}

func TestAppendScoreQuery(t *testing.T) {
	assert.Equal(t,
		`UPDATE users SET ats_scores = ats_scores || jsonb_build_array($2::jsonb) WHERE id = $1`,
		appendScoreQuery("ats_scores"))
	assert.Contains(t, appendScoreQuery("linkedin_scores"), "linkedin_scores = linkedin_scores ||")
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want error
	}{
		{"no rows", pgx.ErrNoRows, domain.ErrNotFound},
		{"wrapped no rows", fmt.Errorf("scan: %w", pgx.ErrNoRows), domain.ErrNotFound},
		{"unique violation", &pgconn.PgError{Code: "23505", ConstraintName: "blog_posts_slug_key"}, domain.ErrConflict},
		{"network", &net.OpError{Op: "dial", Net: "tcp", Err: errors.New("connection refused")}, domain.ErrStorageUnavailable},
		{"deadline", context.DeadlineExceeded, domain.ErrStorageUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, classify(tt.err), tt.want)
		})
	}

	t.Run("other server errors pass through", func(t *testing.T) {
		pgErr := &pgconn.PgError{Code: "42P01"}
		err := classify(pgErr)
		assert.Same(t, pgErr, err)
		assert.False(t, errors.Is(err, domain.ErrStorageUnavailable))
	})

	assert.NoError(t, classify(nil))
}

func TestRepositoriesWithoutDatabase(t *testing.T) {
	ctx := context.Background()
	db := database.NewPostgres("")
	users := NewUserRepository(db)
	jobs := NewJobRepository(db)

	t.Run("malformed ids are not found", func(t *testing.T) {
		_, err := users.FindByID(ctx, "not-a-uuid")
		assert.ErrorIs(t, err, domain.ErrNotFound)
		assert.ErrorIs(t, users.TouchLogin(ctx, "not-a-uuid"), domain.ErrNotFound)
		assert.ErrorIs(t, users.AppendATSScore(ctx, "not-a-uuid", domain.ScoreRecord{}), domain.ErrNotFound)
		assert.ErrorIs(t, jobs.Delete(ctx, "not-a-uuid"), domain.ErrNotFound)
	})

	t.Run("negative offset yields an empty page", func(t *testing.T) {
		page, err := users.List(ctx, -20, 20)
		require.NoError(t, err)
		assert.Empty(t, page)
	})

	t.Run("unconfigured database is unavailable", func(t *testing.T) {
		_, err := users.Count(ctx)
		assert.ErrorIs(t, err, domain.ErrStorageUnavailable)
		_, _, err = users.GetOrCreate(ctx, "+919876543210", false)
		assert.ErrorIs(t, err, domain.ErrStorageUnavailable)
		_, err = jobs.List(ctx)
		assert.ErrorIs(t, err, domain.ErrStorageUnavailable)
	})
}

package postgres

import (
	"context"
	"fmt"
	"strings"
	"time"

	"easemyform-backend/internal/domain"
	"easemyform-backend/pkg/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/lib/pq"
)

type jobRepo struct {
	db *database.Postgres
}

func NewJobRepository(db *database.Postgres) domain.JobRepository {
	return &jobRepo{db: db}
}

const jobColumns = `id::text, title, company, location, description, requirements, salary_range, job_type, status, posted_by, created_at, updated_at`

func (r *jobRepo) Create(ctx context.Context, job *domain.Job) error {
	pool, err := acquire(ctx, r.db)
	if err != nil {
		return err
	}

	if job.ID == "" {
		job.ID = uuid.NewString()
	}
	query := `INSERT INTO jobs (id, title, company, location, description, requirements, salary_range, job_type, status, posted_by, created_at, updated_at)
              VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`
	_, err = pool.Exec(ctx, query,
		job.ID, job.Title, job.Company, job.Location, job.Description, pq.Array(job.Requirements),
		job.SalaryRange, job.JobType, job.Status, job.PostedBy, job.CreatedAt, job.UpdatedAt,
	)
	return classify(err)
}

func (r *jobRepo) List(ctx context.Context) ([]domain.Job, error) {
	pool, err := acquire(ctx, r.db)
	if err != nil {
		return nil, err
	}

	rows, err := pool.Query(ctx, `SELECT `+jobColumns+` FROM jobs ORDER BY created_at DESC, id`)
	if err != nil {
		return nil, classify(err)
	}
	defer rows.Close()

	jobs := []domain.Job{}
	for rows.Next() {
		job, err := scanJob(rows)
		if err != nil {
			return nil, err
		}
		jobs = append(jobs, *job)
	}
	return jobs, classify(rows.Err())
}

func scanJob(row pgx.Row) (*domain.Job, error) {
	var job domain.Job
	err := row.Scan(
		&job.ID, &job.Title, &job.Company, &job.Location, &job.Description, pq.Array(&job.Requirements),
		&job.SalaryRange, &job.JobType, &job.Status, &job.PostedBy, &job.CreatedAt, &job.UpdatedAt,
	)
	if err != nil {
		return nil, classify(err)
	}
	if job.Requirements == nil {
		job.Requirements = []string{}
	}
	return &job, nil
}

func (r *jobRepo) Update(ctx context.Context, id string, req domain.UpdateJobRequest, updatedAt time.Time) (*domain.Job, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, domain.ErrNotFound
	}
	pool, err := acquire(ctx, r.db)
	if err != nil {
		return nil, err
	}

	setClause, args := jobUpdateSet(id, req, updatedAt)
	query := fmt.Sprintf(`UPDATE jobs SET %s WHERE id = $1 RETURNING %s`, setClause, jobColumns)
	return scanJob(pool.QueryRow(ctx, query, args...))
}

// jobUpdateSet builds the SET clause from the fields present in req. $1 is
// always the job id; updated_at is always set last.
func jobUpdateSet(id string, req domain.UpdateJobRequest, updatedAt time.Time) (string, []any) {
	sets := []string{}
	args := []any{id}
	add := func(column string, value any) {
		args = append(args, value)
		sets = append(sets, fmt.Sprintf("%s = $%d", column, len(args)))
	}

	if req.Title != nil {
		add("title", *req.Title)
	}
	if req.Company != nil {
		add("company", *req.Company)
	}
	if req.Location != nil {
		add("location", *req.Location)
	}
	if req.Description != nil {
		add("description", *req.Description)
	}
	if req.Requirements != nil {
		add("requirements", pq.Array(*req.Requirements))
	}
	if req.SalaryRange != nil {
		add("salary_range", *req.SalaryRange)
	}
	if req.JobType != nil {
		add("job_type", *req.JobType)
	}
	if req.Status != nil {
		add("status", *req.Status)
	}
	add("updated_at", updatedAt)

	return strings.Join(sets, ", "), args
}

func (r *jobRepo) Delete(ctx context.Context, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return domain.ErrNotFound
	}
	pool, err := acquire(ctx, r.db)
	if err != nil {
		return err
	}

	tag, err := pool.Exec(ctx, `DELETE FROM jobs WHERE id = $1`, id)
	if err != nil {
		return classify(err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *jobRepo) CountByStatus(ctx context.Context) (map[string]int64, error) {
	pool, err := acquire(ctx, r.db)
	if err != nil {
		return nil, err
	}

	rows, err := pool.Query(ctx, `SELECT status, COUNT(*) FROM jobs GROUP BY status`)
	if err != nil {
		return nil, classify(err)
	}
	defer rows.Close()

	counts := map[string]int64{}
	for rows.Next() {
		var status string
		var n int64
		if err := rows.Scan(&status, &n); err != nil {
			return nil, classify(err)
		}
		counts[status] = n
	}
	return counts, classify(rows.Err())
}

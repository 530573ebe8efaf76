package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"easemyform-backend/internal/domain"
	"easemyform-backend/pkg/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type userRepo struct {
	db *database.Postgres
}

func NewUserRepository(db *database.Postgres) domain.UserRepository {
	return &userRepo{db: db}
}

func (r *userRepo) GetOrCreate(ctx context.Context, phone string, isAdmin bool) (string, bool, error) {
	pool, err := acquire(ctx, r.db)
	if err != nil {
		return "", false, err
	}

	// ON CONFLICT keeps creation idempotent under concurrent logins
	query := `INSERT INTO users (id, phone_number, is_admin, created_at)
              VALUES ($1, $2, $3, $4)
              ON CONFLICT (phone_number) DO NOTHING
              RETURNING id::text`
	var id string
	err = pool.QueryRow(ctx, query, uuid.NewString(), phone, isAdmin, time.Now().UTC()).Scan(&id)
	if err == nil {
		return id, true, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return "", false, classify(err)
	}

	err = pool.QueryRow(ctx, `SELECT id::text FROM users WHERE phone_number = $1`, phone).Scan(&id)
	if err != nil {
		return "", false, classify(err)
	}
	return id, false, nil
}

const selectUser = `SELECT id::text, phone_number, is_admin, created_at, last_login, ats_scores, linkedin_scores FROM users`

func (r *userRepo) FindByID(ctx context.Context, id string) (*domain.User, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, domain.ErrNotFound
	}
	pool, err := acquire(ctx, r.db)
	if err != nil {
		return nil, err
	}
	return scanUser(pool.QueryRow(ctx, selectUser+` WHERE id = $1`, id))
}

func (r *userRepo) FindByPhone(ctx context.Context, phone string) (*domain.User, error) {
	pool, err := acquire(ctx, r.db)
	if err != nil {
		return nil, err
	}
	return scanUser(pool.QueryRow(ctx, selectUser+` WHERE phone_number = $1`, phone))
}

func scanUser(row pgx.Row) (*domain.User, error) {
	var user domain.User
	var atsRaw, linkedInRaw []byte
	err := row.Scan(&user.ID, &user.PhoneNumber, &user.IsAdmin, &user.CreatedAt, &user.LastLogin, &atsRaw, &linkedInRaw)
	if err != nil {
		return nil, classify(err)
	}
	if err := json.Unmarshal(atsRaw, &user.ATSScores); err != nil {
		return nil, fmt.Errorf("decode ats_scores: %w", err)
	}
	if err := json.Unmarshal(linkedInRaw, &user.LinkedInScores); err != nil {
		return nil, fmt.Errorf("decode linkedin_scores: %w", err)
	}
	return &user, nil
}

func (r *userRepo) TouchLogin(ctx context.Context, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return domain.ErrNotFound
	}
	pool, err := acquire(ctx, r.db)
	if err != nil {
		return err
	}
	tag, err := pool.Exec(ctx, `UPDATE users SET last_login = $2 WHERE id = $1`, id, time.Now().UTC())
	if err != nil {
		return classify(err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *userRepo) AppendATSScore(ctx context.Context, id string, record domain.ScoreRecord) error {
	return r.appendScore(ctx, "ats_scores", id, record)
}

func (r *userRepo) AppendLinkedInScore(ctx context.Context, id string, record domain.ScoreRecord) error {
	return r.appendScore(ctx, "linkedin_scores", id, record)
}

// appendScore pushes one record onto a JSONB array in a single statement.
// column is always one of two constants.
func (r *userRepo) appendScore(ctx context.Context, column, id string, record domain.ScoreRecord) error {
	if _, err := uuid.Parse(id); err != nil {
		return domain.ErrNotFound
	}
	payload, err := json.Marshal(record)
	if err != nil {
		return err
	}
	pool, err := acquire(ctx, r.db)
	if err != nil {
		return err
	}

	tag, err := pool.Exec(ctx, appendScoreQuery(column), id, string(payload))
	if err != nil {
		return classify(err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func appendScoreQuery(column string) string {
	return fmt.Sprintf(`UPDATE users SET %[1]s = %[1]s || jsonb_build_array($2::jsonb) WHERE id = $1`, column)
}

func (r *userRepo) Stats(ctx context.Context) (*domain.UserStats, error) {
	pool, err := acquire(ctx, r.db)
	if err != nil {
		return nil, err
	}

	query := `
		SELECT
			(SELECT COUNT(*) FROM users),
			(SELECT COALESCE(SUM(jsonb_array_length(ats_scores)), 0)::bigint FROM users),
			(SELECT COALESCE(SUM(jsonb_array_length(linkedin_scores)), 0)::bigint FROM users),
			(SELECT COALESCE(AVG((e->>'score')::numeric), 0)::float8
			   FROM users, jsonb_array_elements(ats_scores) e),
			(SELECT COALESCE(AVG((e->>'score')::numeric), 0)::float8
			   FROM users, jsonb_array_elements(linkedin_scores) e)`

	var stats domain.UserStats
	err = pool.QueryRow(ctx, query).Scan(
		&stats.TotalUsers, &stats.TotalATSChecks, &stats.TotalLinkedInReviews,
		&stats.AverageATSScore, &stats.AverageLinkedInScore,
	)
	if err != nil {
		return nil, classify(err)
	}
	return &stats, nil
}

func (r *userRepo) List(ctx context.Context, offset, limit int) ([]domain.UserSummary, error) {
	if offset < 0 || limit <= 0 {
		return []domain.UserSummary{}, nil
	}
	pool, err := acquire(ctx, r.db)
	if err != nil {
		return nil, err
	}

	query := `SELECT id::text, phone_number, is_admin, created_at, last_login,
                     jsonb_array_length(ats_scores), jsonb_array_length(linkedin_scores)
              FROM users ORDER BY created_at DESC, id LIMIT $1 OFFSET $2`
	rows, err := pool.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, classify(err)
	}
	defer rows.Close()

	users := []domain.UserSummary{}
	for rows.Next() {
		var u domain.UserSummary
		if err := rows.Scan(&u.ID, &u.PhoneNumber, &u.IsAdmin, &u.CreatedAt, &u.LastLogin, &u.ATSChecks, &u.LinkedInReviews); err != nil {
			return nil, classify(err)
		}
		users = append(users, u)
	}
	return users, classify(rows.Err())
}

func (r *userRepo) Count(ctx context.Context) (int64, error) {
	pool, err := acquire(ctx, r.db)
	if err != nil {
		return 0, err
	}
	var total int64
	if err := pool.QueryRow(ctx, `SELECT COUNT(*) FROM users`).Scan(&total); err != nil {
		return 0, classify(err)
	}
	return total, nil
}

func (r *userRepo) CountCreatedSince(ctx context.Context, since time.Time) (int64, error) {
	pool, err := acquire(ctx, r.db)
	if err != nil {
		return 0, err
	}
	var total int64
	if err := pool.QueryRow(ctx, `SELECT COUNT(*) FROM users WHERE created_at >= $1`, since).Scan(&total); err != nil {
		return 0, classify(err)
	}
	return total, nil
}

func (r *userRepo) RecentActivity(ctx context.Context, limit int) ([]domain.ActivityItem, error) {
	pool, err := acquire(ctx, r.db)
	if err != nil {
		return nil, err
	}

	query := `
		SELECT kind, user_id, phone_number, source, score, created_at FROM (
			SELECT 'signup' AS kind, id::text AS user_id, phone_number, '' AS source,
			       NULL::int AS score, created_at
			FROM users
			UNION ALL
			SELECT 'ats_check', u.id::text, u.phone_number, e->>'source',
			       (e->>'score')::int, (e->>'created_at')::timestamptz
			FROM users u, jsonb_array_elements(u.ats_scores) e
			UNION ALL
			SELECT 'linkedin_review', u.id::text, u.phone_number, e->>'source',
			       (e->>'score')::int, (e->>'created_at')::timestamptz
			FROM users u, jsonb_array_elements(u.linkedin_scores) e
		) activity
		ORDER BY created_at DESC
		LIMIT $1`

	rows, err := pool.Query(ctx, query, limit)
	if err != nil {
		return nil, classify(err)
	}
	defer rows.Close()

	items := []domain.ActivityItem{}
	for rows.Next() {
		var item domain.ActivityItem
		if err := rows.Scan(&item.Kind, &item.UserID, &item.PhoneNumber, &item.Source, &item.Score, &item.CreatedAt); err != nil {
			return nil, classify(err)
		}
		items = append(items, item)
	}
	return items, classify(rows.Err())
}

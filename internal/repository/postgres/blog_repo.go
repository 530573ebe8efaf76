package postgres

import (
	"context"

	"easemyform-backend/internal/domain"
	"easemyform-backend/pkg/database"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

type blogRepo struct {
	db *database.Postgres
}

func NewBlogRepository(db *database.Postgres) domain.BlogRepository {
	return &blogRepo{db: db}
}

func (r *blogRepo) Create(ctx context.Context, post *domain.BlogPost) error {
	pool, err := acquire(ctx, r.db)
	if err != nil {
		return err
	}

	if post.ID == "" {
		post.ID = uuid.NewString()
	}
	query := `INSERT INTO blog_posts (id, title, slug, content, excerpt, author, tags, featured_image, published, views, likes, created_at, updated_at)
              VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`
	_, err = pool.Exec(ctx, query,
		post.ID, post.Title, post.Slug, post.Content, post.Excerpt, post.Author, pq.Array(post.Tags),
		post.FeaturedImage, post.Published, post.Views, post.Likes, post.CreatedAt, post.UpdatedAt,
	)
	return classify(err)
}

func (r *blogRepo) List(ctx context.Context) ([]domain.BlogPost, error) {
	pool, err := acquire(ctx, r.db)
	if err != nil {
		return nil, err
	}

	query := `SELECT id::text, title, slug, content, excerpt, author, tags, featured_image, published, views, likes, created_at, updated_at
              FROM blog_posts ORDER BY created_at DESC, id`
	rows, err := pool.Query(ctx, query)
	if err != nil {
		return nil, classify(err)
	}
	defer rows.Close()

	posts := []domain.BlogPost{}
	for rows.Next() {
		var p domain.BlogPost
		err := rows.Scan(
			&p.ID, &p.Title, &p.Slug, &p.Content, &p.Excerpt, &p.Author, pq.Array(&p.Tags),
			&p.FeaturedImage, &p.Published, &p.Views, &p.Likes, &p.CreatedAt, &p.UpdatedAt,
		)
		if err != nil {
			return nil, classify(err)
		}
		if p.Tags == nil {
			p.Tags = []string{}
		}
		posts = append(posts, p)
	}
	return posts, classify(rows.Err())
}

func (r *blogRepo) Count(ctx context.Context) (int64, int64, error) {
	pool, err := acquire(ctx, r.db)
	if err != nil {
		return 0, 0, err
	}

	var total, published int64
	err = pool.QueryRow(ctx, `SELECT COUNT(*), COUNT(*) FILTER (WHERE published) FROM blog_posts`).Scan(&total, &published)
	if err != nil {
		return 0, 0, classify(err)
	}
	return total, published, nil
}

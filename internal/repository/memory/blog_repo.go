package memory

import (
	"context"
	"sort"
	"sync"

	"easemyform-backend/internal/domain"

	"github.com/google/uuid"
)

type BlogRepository struct {
	mu     sync.RWMutex
	posts  map[string]*domain.BlogPost
	bySlug map[string]string
}

func NewBlogRepository() *BlogRepository {
	return &BlogRepository{
		posts:  map[string]*domain.BlogPost{},
		bySlug: map[string]string{},
	}
}

func (r *BlogRepository) Create(ctx context.Context, post *domain.BlogPost) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, taken := r.bySlug[post.Slug]; taken {
		return domain.ErrConflict
	}
	if post.ID == "" {
		post.ID = uuid.NewString()
	}
	stored := *post
	stored.Tags = append([]string{}, post.Tags...)
	r.posts[post.ID] = &stored
	r.bySlug[post.Slug] = post.ID
	return nil
}

func (r *BlogRepository) List(ctx context.Context) ([]domain.BlogPost, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	posts := make([]domain.BlogPost, 0, len(r.posts))
	for _, p := range r.posts {
		c := *p
		c.Tags = append([]string{}, p.Tags...)
		posts = append(posts, c)
	}
	sort.Slice(posts, func(i, j int) bool {
		if !posts[i].CreatedAt.Equal(posts[j].CreatedAt) {
			return posts[i].CreatedAt.After(posts[j].CreatedAt)
		}
		return posts[i].ID < posts[j].ID
	})
	return posts, nil
}

func (r *BlogRepository) Count(ctx context.Context) (int64, int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var published int64
	for _, p := range r.posts {
		if p.Published {
			published++
		}
	}
	return int64(len(r.posts)), published, nil
}

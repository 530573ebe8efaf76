package domain

import (
	"context"
	"time"
)

const DefaultBlogAuthor = "EaseMyForm Team"

type BlogPost struct {
	ID            string    `json:"id"`
	Title         string    `json:"title"`
	Slug          string    `json:"slug"`
	Content       string    `json:"content"`
	Excerpt       string    `json:"excerpt"`
	Author        string    `json:"author"`
	Tags          []string  `json:"tags"`
	FeaturedImage string    `json:"featured_image"`
	Published     bool      `json:"published"`
	Views         int64     `json:"views"`
	Likes         int64     `json:"likes"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

type CreateBlogRequest struct {
	Title         string   `json:"title" binding:"required,max=300,no_emoji"`
	Content       string   `json:"content" binding:"required"`
	Excerpt       string   `json:"excerpt" binding:"max=500"`
	Author        string   `json:"author" binding:"max=100,no_emoji"`
	Tags          []string `json:"tags"`
	FeaturedImage string   `json:"featured_image" binding:"omitempty,url"`
	Published     bool     `json:"published"`
}

type BlogRepository interface {
	// Create returns ErrConflict when the slug is already taken.
	Create(ctx context.Context, post *BlogPost) error
	List(ctx context.Context) ([]BlogPost, error)
	Count(ctx context.Context) (total int64, published int64, err error)
}

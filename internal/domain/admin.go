package domain

import (
	"context"
	"time"
)

// DashboardStats contains admin dashboard statistics
type DashboardStats struct {
	TotalUsers           int64            `json:"total_users"`
	TotalATSChecks       int64            `json:"total_ats_checks"`
	TotalLinkedInReviews int64            `json:"total_linkedin_reviews"`
	RecentUsers          int64            `json:"recent_users"`
	AverageATSScore      float64          `json:"average_ats_score"`
	AverageLinkedInScore float64          `json:"average_linkedin_score"`
	JobsByStatus         map[string]int64 `json:"jobs_by_status"`
	TotalBlogPosts       int64            `json:"total_blog_posts"`
	PublishedBlogPosts   int64            `json:"published_blog_posts"`
	GeneratedAt          time.Time        `json:"generated_at"`
}

type Pagination struct {
	CurrentPage int   `json:"current_page"`
	TotalPages  int   `json:"total_pages"`
	TotalUsers  int64 `json:"total_users"`
	Limit       int   `json:"limit"`
	HasNext     bool  `json:"has_next"`
	HasPrev     bool  `json:"has_prev"`
}

type UserPage struct {
	Users      []UserSummary `json:"users"`
	Pagination Pagination    `json:"pagination"`
}

// Export is a generated file ready for download.
type Export struct {
	Filename    string
	ContentType string
	Data        []byte
}

// AdminUsecase defines admin business logic. Every method requires the
// caller to hold an admin session.
type AdminUsecase interface {
	Dashboard(ctx context.Context) (*DashboardStats, error)
	ListUsers(ctx context.Context, page, limit int) (*UserPage, error)
	ExportUsers(ctx context.Context) (*Export, error)
	RecentActivity(ctx context.Context, limit int) ([]ActivityItem, error)

	ListJobs(ctx context.Context) ([]Job, error)
	CreateJob(ctx context.Context, req CreateJobRequest) (*Job, error)
	UpdateJob(ctx context.Context, id string, req UpdateJobRequest) (*Job, error)
	DeleteJob(ctx context.Context, id string) error

	ListBlogs(ctx context.Context) ([]BlogPost, error)
	CreateBlog(ctx context.Context, req CreateBlogRequest) (*BlogPost, error)
}

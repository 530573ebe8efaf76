package domain

import (
	"context"
	"time"
)

type User struct {
	ID             string        `json:"id"`
	PhoneNumber    string        `json:"phone_number"`
	IsAdmin        bool          `json:"is_admin"`
	CreatedAt      time.Time     `json:"created_at"`
	LastLogin      *time.Time    `json:"last_login"`
	ATSScores      []ScoreRecord `json:"ats_scores"`
	LinkedInScores []ScoreRecord `json:"linkedin_scores"`
}

// ScoreRecord is one scoring event appended to a user's history.
// Source is the sanitized filename or the profile URL.
type ScoreRecord struct {
	Source    string         `json:"source"`
	Score     int            `json:"score"`
	Paid      bool           `json:"paid"`
	CreatedAt time.Time      `json:"created_at"`
	Details   map[string]any `json:"details,omitempty"`
}

// UserSummary is the admin list view of a user.
type UserSummary struct {
	ID              string     `json:"id"`
	PhoneNumber     string     `json:"phone_number"`
	IsAdmin         bool       `json:"is_admin"`
	CreatedAt       time.Time  `json:"created_at"`
	LastLogin       *time.Time `json:"last_login"`
	ATSChecks       int        `json:"ats_checks"`
	LinkedInReviews int        `json:"linkedin_reviews"`
}

// UserStats aggregates scoring activity across all users.
type UserStats struct {
	TotalUsers           int64   `json:"total_users"`
	TotalATSChecks       int64   `json:"total_ats_checks"`
	TotalLinkedInReviews int64   `json:"total_linkedin_reviews"`
	AverageATSScore      float64 `json:"average_ats_score"`
	AverageLinkedInScore float64 `json:"average_linkedin_score"`
}

// Activity kinds reported by RecentActivity.
const (
	ActivitySignup         = "signup"
	ActivityATSCheck       = "ats_check"
	ActivityLinkedInReview = "linkedin_review"
)

type ActivityItem struct {
	Kind        string    `json:"type"`
	UserID      string    `json:"user_id"`
	PhoneNumber string    `json:"phone_number"`
	Source      string    `json:"source,omitempty"`
	Score       *int      `json:"score,omitempty"`
	CreatedAt   time.Time `json:"timestamp"`
}

type UserRepository interface {
	// GetOrCreate returns the id of the user owning phone, creating it with
	// isAdmin when absent. An existing user's admin flag is never changed.
	GetOrCreate(ctx context.Context, phone string, isAdmin bool) (id string, created bool, err error)
	FindByID(ctx context.Context, id string) (*User, error)
	FindByPhone(ctx context.Context, phone string) (*User, error)
	TouchLogin(ctx context.Context, id string) error
	AppendATSScore(ctx context.Context, id string, record ScoreRecord) error
	AppendLinkedInScore(ctx context.Context, id string, record ScoreRecord) error
	Stats(ctx context.Context) (*UserStats, error)

	// Admin reads
	List(ctx context.Context, offset, limit int) ([]UserSummary, error)
	Count(ctx context.Context) (int64, error)
	CountCreatedSince(ctx context.Context, since time.Time) (int64, error)
	RecentActivity(ctx context.Context, limit int) ([]ActivityItem, error)
}

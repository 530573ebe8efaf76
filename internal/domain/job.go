package domain

import (
	"context"
	"time"
)

const (
	DefaultJobType  = "Full-time"
	JobStatusActive = "active"
	JobStatusClosed = "closed"
	JobStatusDraft  = "draft"
)

type Job struct {
	ID           string    `json:"id"`
	Title        string    `json:"title"`
	Company      string    `json:"company"`
	Location     string    `json:"location"`
	Description  string    `json:"description"`
	Requirements []string  `json:"requirements"`
	SalaryRange  string    `json:"salary_range"`
	JobType      string    `json:"job_type"`
	Status       string    `json:"status"`
	PostedBy     string    `json:"posted_by"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

type CreateJobRequest struct {
	Title        string   `json:"title" binding:"required,max=200,no_emoji"`
	Company      string   `json:"company" binding:"required,max=200,no_emoji"`
	Location     string   `json:"location" binding:"required,max=200"`
	Description  string   `json:"description" binding:"required"`
	Requirements []string `json:"requirements"`
	SalaryRange  string   `json:"salary_range" binding:"max=100"`
	JobType      string   `json:"job_type" binding:"max=50"`
}

// UpdateJobRequest only touches fields that are present in the payload.
type UpdateJobRequest struct {
	Title        *string   `json:"title" binding:"omitempty,max=200,no_emoji"`
	Company      *string   `json:"company" binding:"omitempty,max=200,no_emoji"`
	Location     *string   `json:"location" binding:"omitempty,max=200"`
	Description  *string   `json:"description"`
	Requirements *[]string `json:"requirements"`
	SalaryRange  *string   `json:"salary_range" binding:"omitempty,max=100"`
	JobType      *string   `json:"job_type" binding:"omitempty,max=50"`
	Status       *string   `json:"status" binding:"omitempty,oneof=active closed draft"`
}

// Empty reports whether the update carries no fields.
func (r UpdateJobRequest) Empty() bool {
	return r.Title == nil && r.Company == nil && r.Location == nil && r.Description == nil &&
		r.Requirements == nil && r.SalaryRange == nil && r.JobType == nil && r.Status == nil
}

type JobRepository interface {
	Create(ctx context.Context, job *Job) error
	List(ctx context.Context) ([]Job, error)
	// Update returns ErrNotFound for unknown or malformed ids.
	Update(ctx context.Context, id string, req UpdateJobRequest, updatedAt time.Time) (*Job, error)
	Delete(ctx context.Context, id string) error
	CountByStatus(ctx context.Context) (map[string]int64, error)
}

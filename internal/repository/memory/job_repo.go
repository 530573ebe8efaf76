package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"easemyform-backend/internal/domain"

	"github.com/google/uuid"
)

type JobRepository struct {
	mu   sync.RWMutex
	jobs map[string]*domain.Job
}

func NewJobRepository() *JobRepository {
	return &JobRepository{jobs: map[string]*domain.Job{}}
}

func (r *JobRepository) Create(ctx context.Context, job *domain.Job) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if job.ID == "" {
		job.ID = uuid.NewString()
	}
	if _, exists := r.jobs[job.ID]; exists {
		return domain.ErrConflict
	}
	stored := cloneJob(job)
	r.jobs[job.ID] = &stored
	return nil
}

func (r *JobRepository) List(ctx context.Context) ([]domain.Job, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	jobs := make([]domain.Job, 0, len(r.jobs))
	for _, j := range r.jobs {
		jobs = append(jobs, cloneJob(j))
	}
	sort.Slice(jobs, func(i, k int) bool {
		if !jobs[i].CreatedAt.Equal(jobs[k].CreatedAt) {
			return jobs[i].CreatedAt.After(jobs[k].CreatedAt)
		}
		return jobs[i].ID < jobs[k].ID
	})
	return jobs, nil
}

func (r *JobRepository) Update(ctx context.Context, id string, req domain.UpdateJobRequest, updatedAt time.Time) (*domain.Job, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	job, ok := r.jobs[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	if req.Title != nil {
		job.Title = *req.Title
	}
	if req.Company != nil {
		job.Company = *req.Company
	}
	if req.Location != nil {
		job.Location = *req.Location
	}
	if req.Description != nil {
		job.Description = *req.Description
	}
	if req.Requirements != nil {
		job.Requirements = append([]string{}, (*req.Requirements)...)
	}
	if req.SalaryRange != nil {
		job.SalaryRange = *req.SalaryRange
	}
	if req.JobType != nil {
		job.JobType = *req.JobType
	}
	if req.Status != nil {
		job.Status = *req.Status
	}
	job.UpdatedAt = updatedAt

	out := cloneJob(job)
	return &out, nil
}

func (r *JobRepository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.jobs[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.jobs, id)
	return nil
}

func (r *JobRepository) CountByStatus(ctx context.Context) (map[string]int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	counts := map[string]int64{}
	for _, j := range r.jobs {
		counts[j.Status]++
	}
	return counts, nil
}

func cloneJob(j *domain.Job) domain.Job {
	c := *j
	c.Requirements = append([]string{}, j.Requirements...)
	return c
}

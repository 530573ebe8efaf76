package usecase

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"math"
	"net/http"
	"strings"
	"time"

	"easemyform-backend/internal/domain"
	"easemyform-backend/pkg/apperror"
	"easemyform-backend/pkg/slug"

	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"
)

const (
	defaultUserPageSize = 20
	maxUserPageSize     = 100
	recentSignupWindow  = 30 * 24 * time.Hour
	exportBatchSize     = 500
	slugAttempts        = 5
	xlsxContentType     = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

type adminUsecase struct {
	users domain.UserRepository
	jobs  domain.JobRepository
	blogs domain.BlogRepository
	now   func() time.Time
}

func NewAdminUsecase(users domain.UserRepository, jobs domain.JobRepository, blogs domain.BlogRepository) domain.AdminUsecase {
	return &adminUsecase{users: users, jobs: jobs, blogs: blogs, now: time.Now}
}

// Dashboard returns dashboard statistics
func (u *adminUsecase) Dashboard(ctx context.Context) (*domain.DashboardStats, error) {
	if err := requireAdmin(ctx); err != nil {
		return nil, err
	}

	now := u.now().UTC()
	stats, err := u.users.Stats(ctx)
	if err != nil {
		return nil, storeError("fetch user statistics", err)
	}
	recent, err := u.users.CountCreatedSince(ctx, now.Add(-recentSignupWindow))
	if err != nil {
		return nil, storeError("count recent users", err)
	}
	jobs, err := u.jobs.CountByStatus(ctx)
	if err != nil {
		return nil, storeError("count jobs", err)
	}
	totalPosts, publishedPosts, err := u.blogs.Count(ctx)
	if err != nil {
		return nil, storeError("count blog posts", err)
	}

	return &domain.DashboardStats{
		TotalUsers:           stats.TotalUsers,
		TotalATSChecks:       stats.TotalATSChecks,
		TotalLinkedInReviews: stats.TotalLinkedInReviews,
		RecentUsers:          recent,
		AverageATSScore:      round2(stats.AverageATSScore),
		AverageLinkedInScore: round2(stats.AverageLinkedInScore),
		JobsByStatus:         jobs,
		TotalBlogPosts:       totalPosts,
		PublishedBlogPosts:   publishedPosts,
		GeneratedAt:          now,
	}, nil
}

// ListUsers returns paginated users, newest first
func (u *adminUsecase) ListUsers(ctx context.Context, page, limit int) (*domain.UserPage, error) {
	if err := requireAdmin(ctx); err != nil {
		return nil, err
	}

	if page < 1 {
		page = 1
	}
	if limit == 0 {
		limit = defaultUserPageSize
	}
	limit = max(1, min(limit, maxUserPageSize))

	total, err := u.users.Count(ctx)
	if err != nil {
		return nil, storeError("count users", err)
	}
	totalPages := int(math.Ceil(float64(total) / float64(limit)))

	// pages past the end are empty; skipping the query keeps the offset in range
	users := []domain.UserSummary{}
	if page <= totalPages {
		users, err = u.users.List(ctx, (page-1)*limit, limit)
		if err != nil {
			return nil, storeError("fetch users", err)
		}
	}

	return &domain.UserPage{
		Users: users,
		Pagination: domain.Pagination{
			CurrentPage: page,
			TotalPages:  totalPages,
			TotalUsers:  total,
			Limit:       limit,
			HasNext:     page < totalPages,
			HasPrev:     page > 1,
		},
	}, nil
}

// ExportUsers renders every user into an XLSX workbook
func (u *adminUsecase) ExportUsers(ctx context.Context) (*domain.Export, error) {
	if err := requireAdmin(ctx); err != nil {
		return nil, err
	}

	var all []domain.UserSummary
	for offset := 0; ; offset += exportBatchSize {
		batch, err := u.users.List(ctx, offset, exportBatchSize)
		if err != nil {
			return nil, storeError("fetch users for export", err)
		}
		all = append(all, batch...)
		if len(batch) < exportBatchSize {
			break
		}
	}

	data, err := usersWorkbook(all)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	return &domain.Export{
		Filename:    fmt.Sprintf("users_%s.xlsx", u.now().Format("20060102_150405")),
		ContentType: xlsxContentType,
		Data:        data,
	}, nil
}

func usersWorkbook(users []domain.UserSummary) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()
	sheetName := "Users"
	if err := f.SetSheetName("Sheet1", sheetName); err != nil {
		return nil, fmt.Errorf("failed to name sheet: %w", err)
	}

	headers := []string{"USER ID", "PHONE NUMBER", "ADMIN", "CREATED AT", "LAST LOGIN", "ATS CHECKS", "LINKEDIN REVIEWS"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheetName, cell, h)
	}

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "#FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"#1E3A5F"}},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	endCell, _ := excelize.CoordinatesToCellName(len(headers), 1)
	f.SetCellStyle(sheetName, "A1", endCell, headerStyle)

	for rowIdx, user := range users {
		lastLogin := ""
		if user.LastLogin != nil {
			lastLogin = user.LastLogin.UTC().Format(time.RFC3339)
		}
		row := []any{
			user.ID,
			user.PhoneNumber,
			user.IsAdmin,
			user.CreatedAt.UTC().Format(time.RFC3339),
			lastLogin,
			user.ATSChecks,
			user.LinkedInReviews,
		}
		cell, _ := excelize.CoordinatesToCellName(1, rowIdx+2)
		if err := f.SetSheetRow(sheetName, cell, &row); err != nil {
			return nil, fmt.Errorf("failed to write row %d: %w", rowIdx+2, err)
		}
	}

	for i := range headers {
		colName, _ := excelize.ColumnNumberToName(i + 1)
		f.SetColWidth(sheetName, colName, colName, 22)
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("failed to write Excel file: %w", err)
	}
	return buf.Bytes(), nil
}

// RecentActivity lists the latest signups and scoring events
func (u *adminUsecase) RecentActivity(ctx context.Context, limit int) ([]domain.ActivityItem, error) {
	if err := requireAdmin(ctx); err != nil {
		return nil, err
	}
	if limit < 1 || limit > 50 {
		limit = 10
	}
	items, err := u.users.RecentActivity(ctx, limit)
	if err != nil {
		return nil, storeError("fetch recent activity", err)
	}
	return items, nil
}

func (u *adminUsecase) ListJobs(ctx context.Context) ([]domain.Job, error) {
	if err := requireAdmin(ctx); err != nil {
		return nil, err
	}
	jobs, err := u.jobs.List(ctx)
	if err != nil {
		return nil, storeError("fetch jobs", err)
	}
	return jobs, nil
}

func (u *adminUsecase) CreateJob(ctx context.Context, req domain.CreateJobRequest) (*domain.Job, error) {
	if err := requireAdmin(ctx); err != nil {
		return nil, err
	}

	req.Title = strings.TrimSpace(req.Title)
	req.Company = strings.TrimSpace(req.Company)
	req.Location = strings.TrimSpace(req.Location)
	if req.Title == "" || req.Company == "" || req.Location == "" || strings.TrimSpace(req.Description) == "" {
		return nil, validationError("Title, company, location and description are required")
	}
	if req.JobType == "" {
		req.JobType = domain.DefaultJobType
	}
	if req.Requirements == nil {
		req.Requirements = []string{}
	}

	postedBy, _ := sessionValue[string](ctx, domain.KeyUserID)
	now := u.now().UTC()
	job := &domain.Job{
		ID:           uuid.NewString(),
		Title:        req.Title,
		Company:      req.Company,
		Location:     req.Location,
		Description:  req.Description,
		Requirements: req.Requirements,
		SalaryRange:  req.SalaryRange,
		JobType:      req.JobType,
		Status:       domain.JobStatusActive,
		PostedBy:     postedBy,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := u.jobs.Create(ctx, job); err != nil {
		return nil, storeError("create job", err)
	}
	return job, nil
}

func (u *adminUsecase) UpdateJob(ctx context.Context, id string, req domain.UpdateJobRequest) (*domain.Job, error) {
	if err := requireAdmin(ctx); err != nil {
		return nil, err
	}
	if req.Empty() {
		return nil, validationError("No fields to update")
	}

	job, err := u.jobs.Update(ctx, id, req, u.now().UTC())
	if errors.Is(err, domain.ErrNotFound) {
		return nil, apperror.New(http.StatusNotFound, "Job not found", err)
	}
	if err != nil {
		return nil, storeError("update job", err)
	}
	return job, nil
}

func (u *adminUsecase) DeleteJob(ctx context.Context, id string) error {
	if err := requireAdmin(ctx); err != nil {
		return err
	}
	err := u.jobs.Delete(ctx, id)
	if errors.Is(err, domain.ErrNotFound) {
		return apperror.New(http.StatusNotFound, "Job not found", err)
	}
	if err != nil {
		return storeError("delete job", err)
	}
	return nil
}

func (u *adminUsecase) ListBlogs(ctx context.Context) ([]domain.BlogPost, error) {
	if err := requireAdmin(ctx); err != nil {
		return nil, err
	}
	posts, err := u.blogs.List(ctx)
	if err != nil {
		return nil, storeError("fetch blog posts", err)
	}
	return posts, nil
}

// CreateBlog stores a post under a unique slug derived from its title. On a
// slug collision a short random suffix is appended and the insert retried.
func (u *adminUsecase) CreateBlog(ctx context.Context, req domain.CreateBlogRequest) (*domain.BlogPost, error) {
	if err := requireAdmin(ctx); err != nil {
		return nil, err
	}

	req.Title = strings.TrimSpace(req.Title)
	if req.Title == "" || strings.TrimSpace(req.Content) == "" {
		return nil, validationError("Title and content are required")
	}
	if req.Author == "" {
		req.Author = domain.DefaultBlogAuthor
	}
	if req.Tags == nil {
		req.Tags = []string{}
	}

	now := u.now().UTC()
	base := slug.Make(req.Title)
	post := &domain.BlogPost{
		Title:         req.Title,
		Slug:          base,
		Content:       req.Content,
		Excerpt:       req.Excerpt,
		Author:        req.Author,
		Tags:          req.Tags,
		FeaturedImage: req.FeaturedImage,
		Published:     req.Published,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	for attempt := 0; attempt < slugAttempts; attempt++ {
		post.ID = uuid.NewString()
		err := u.blogs.Create(ctx, post)
		if err == nil {
			return post, nil
		}
		if !errors.Is(err, domain.ErrConflict) {
			return nil, storeError("create blog post", err)
		}
		post.Slug = slug.WithSuffix(base, uuid.NewString()[:8])
	}
	return nil, apperror.Conflict("Could not allocate a unique slug")
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

package usecase_test

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"strings"
	"testing"
	"time"

	"easemyform-backend/internal/domain"
	"easemyform-backend/internal/repository/memory"
	"easemyform-backend/internal/usecase"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

type adminFixture struct {
	uc    domain.AdminUsecase
	users *memory.UserRepository
	jobs  *memory.JobRepository
	blogs *memory.BlogRepository
}

func newAdminFixture() *adminFixture {
	f := &adminFixture{
		users: memory.NewUserRepository(),
		jobs:  memory.NewJobRepository(),
		blogs: memory.NewBlogRepository(),
	}
	f.uc = usecase.NewAdminUsecase(f.users, f.jobs, f.blogs)
	return f
}

func (f *adminFixture) seedUsers(t *testing.T, n int) {
	t.Helper()
	base := time.Now().Add(-time.Hour)
	i := 0
	f.users.SetClock(func() time.Time { return base.Add(time.Duration(i) * time.Minute) })
	for ; i < n; i++ {
		_, _, err := f.users.GetOrCreate(context.Background(), fmt.Sprintf("+91900000%04d", i), false)
		require.NoError(t, err)
	}
}

func TestAdminRequiresAdminSession(t *testing.T) {
	f := newAdminFixture()

	for name, ctx := range map[string]context.Context{
		"anonymous": context.Background(),
		"non-admin": userCtx(),
	} {
		t.Run(name, func(t *testing.T) {
			_, err := f.uc.Dashboard(ctx)
			requireAppError(t, err, http.StatusForbidden, "")
			_, err = f.uc.ListUsers(ctx, 1, 20)
			requireAppError(t, err, http.StatusForbidden, "")
			_, err = f.uc.ExportUsers(ctx)
			requireAppError(t, err, http.StatusForbidden, "")
			_, err = f.uc.CreateJob(ctx, domain.CreateJobRequest{Title: "x"})
			requireAppError(t, err, http.StatusForbidden, "")
			err = f.uc.DeleteJob(ctx, "x")
			requireAppError(t, err, http.StatusForbidden, "")
			_, err = f.uc.CreateBlog(ctx, domain.CreateBlogRequest{Title: "x", Content: "y"})
			requireAppError(t, err, http.StatusForbidden, "")
		})
	}
}

func TestDashboardEmptyStore(t *testing.T) {
	f := newAdminFixture()

	stats, err := f.uc.Dashboard(adminCtx())
	require.NoError(t, err)
	assert.Zero(t, stats.TotalUsers)
	assert.Zero(t, stats.TotalATSChecks)
	assert.Zero(t, stats.TotalLinkedInReviews)
	assert.Zero(t, stats.RecentUsers)
	assert.Zero(t, stats.AverageATSScore)
	assert.Zero(t, stats.AverageLinkedInScore)
	assert.Empty(t, stats.JobsByStatus)
	assert.Zero(t, stats.TotalBlogPosts)
}

func TestDashboardCounts(t *testing.T) {
	f := newAdminFixture()
	ctx := context.Background()

	f.users.SetClock(func() time.Time { return time.Now().Add(-60 * 24 * time.Hour) })
	oldID, _, err := f.users.GetOrCreate(ctx, "+919000000001", false)
	require.NoError(t, err)
	f.users.SetClock(time.Now)
	newID, _, err := f.users.GetOrCreate(ctx, "+919000000002", false)
	require.NoError(t, err)

	require.NoError(t, f.users.AppendATSScore(ctx, oldID, domain.ScoreRecord{Score: 40}))
	require.NoError(t, f.users.AppendATSScore(ctx, newID, domain.ScoreRecord{Score: 81}))
	require.NoError(t, f.users.AppendLinkedInScore(ctx, newID, domain.ScoreRecord{Score: 70}))

	_, err = f.uc.CreateJob(adminCtx(), domain.CreateJobRequest{Title: "Go Dev", Company: "Acme", Location: "Pune", Description: "Build"})
	require.NoError(t, err)

	stats, err := f.uc.Dashboard(adminCtx())
	require.NoError(t, err)
	assert.EqualValues(t, 2, stats.TotalUsers)
	assert.EqualValues(t, 1, stats.RecentUsers)
	assert.EqualValues(t, 2, stats.TotalATSChecks)
	assert.EqualValues(t, 1, stats.TotalLinkedInReviews)
	assert.Equal(t, 60.5, stats.AverageATSScore)
	assert.Equal(t, 70.0, stats.AverageLinkedInScore)
	assert.EqualValues(t, 1, stats.JobsByStatus[domain.JobStatusActive])
}

func TestListUsersPagination(t *testing.T) {
	f := newAdminFixture()
	f.seedUsers(t, 25)

	page, err := f.uc.ListUsers(adminCtx(), 2, 20)
	require.NoError(t, err)
	assert.Len(t, page.Users, 5)
	assert.Equal(t, domain.Pagination{
		CurrentPage: 2,
		TotalPages:  2,
		TotalUsers:  25,
		Limit:       20,
		HasNext:     false,
		HasPrev:     true,
	}, page.Pagination)

	first, err := f.uc.ListUsers(adminCtx(), 1, 20)
	require.NoError(t, err)
	require.Len(t, first.Users, 20)
	assert.True(t, first.Pagination.HasNext)
	assert.False(t, first.Pagination.HasPrev)
	// newest first
	assert.Equal(t, "+919000000024", first.Users[0].PhoneNumber)
	assert.True(t, first.Users[0].CreatedAt.After(first.Users[1].CreatedAt))
}

func TestListUsersClampsParameters(t *testing.T) {
	f := newAdminFixture()
	f.seedUsers(t, 3)

	cases := []struct {
		page, limit         int
		wantPage, wantLimit int
	}{
		{0, 0, 1, 20},
		{-4, 500, 1, 100},
		{1, -3, 1, 1},
	}
	for _, tc := range cases {
		page, err := f.uc.ListUsers(adminCtx(), tc.page, tc.limit)
		require.NoError(t, err)
		assert.Equal(t, tc.wantPage, page.Pagination.CurrentPage)
		assert.Equal(t, tc.wantLimit, page.Pagination.Limit)
	}

	beyond, err := f.uc.ListUsers(adminCtx(), 9, 20)
	require.NoError(t, err)
	assert.Empty(t, beyond.Users)
	assert.False(t, beyond.Pagination.HasNext)
}

func TestListUsersHugePage(t *testing.T) {
	f := newAdminFixture()
	f.seedUsers(t, 1)

	page, err := f.uc.ListUsers(adminCtx(), 1<<62, 20)
	require.NoError(t, err)
	assert.Empty(t, page.Users)
	assert.Equal(t, 1<<62, page.Pagination.CurrentPage)
	assert.Equal(t, 1, page.Pagination.TotalPages)
	assert.EqualValues(t, 1, page.Pagination.TotalUsers)
	assert.False(t, page.Pagination.HasNext)
	assert.True(t, page.Pagination.HasPrev)
}

func TestListUsersStorageUnavailable(t *testing.T) {
	users := new(MockUserRepo)
	users.On("Count", mock.Anything).Return(int64(0), domain.ErrStorageUnavailable)
	uc := usecase.NewAdminUsecase(users, memory.NewJobRepository(), memory.NewBlogRepository())

	_, err := uc.ListUsers(adminCtx(), 1, 20)
	requireAppError(t, err, http.StatusInternalServerError, "storage_unavailable")
}

func TestExportUsers(t *testing.T) {
	f := newAdminFixture()
	f.seedUsers(t, 3)

	export, err := f.uc.ExportUsers(adminCtx())
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(export.Filename, ".xlsx"))

	wb, err := excelize.OpenReader(bytes.NewReader(export.Data))
	require.NoError(t, err)
	defer wb.Close()
	rows, err := wb.GetRows("Users")
	require.NoError(t, err)
	require.Len(t, rows, 4)
	assert.Equal(t, "PHONE NUMBER", rows[0][1])
	assert.Equal(t, "+919000000002", rows[1][1])
}

func TestRecentActivity(t *testing.T) {
	f := newAdminFixture()
	f.seedUsers(t, 12)

	items, err := f.uc.RecentActivity(adminCtx(), 0)
	require.NoError(t, err)
	assert.Len(t, items, 10)
	assert.Equal(t, domain.ActivitySignup, items[0].Kind)
}

func TestJobLifecycle(t *testing.T) {
	f := newAdminFixture()
	ctx := adminCtx()

	_, err := f.uc.CreateJob(ctx, domain.CreateJobRequest{Title: "  "})
	requireAppError(t, err, http.StatusBadRequest, "validation_error")

	job, err := f.uc.CreateJob(ctx, domain.CreateJobRequest{
		Title: "Backend Engineer", Company: "Acme", Location: "Remote", Description: "Go services",
	})
	require.NoError(t, err)
	assert.Equal(t, domain.DefaultJobType, job.JobType)
	assert.Equal(t, domain.JobStatusActive, job.Status)
	assert.Equal(t, "admin-1", job.PostedBy)
	assert.Equal(t, []string{}, job.Requirements)

	title := "Senior Backend Engineer"
	status := domain.JobStatusClosed
	updated, err := f.uc.UpdateJob(ctx, job.ID, domain.UpdateJobRequest{Title: &title, Status: &status})
	require.NoError(t, err)
	assert.Equal(t, title, updated.Title)
	assert.Equal(t, domain.JobStatusClosed, updated.Status)
	assert.Equal(t, "Acme", updated.Company)
	assert.Equal(t, "Go services", updated.Description)

	_, err = f.uc.UpdateJob(ctx, job.ID, domain.UpdateJobRequest{})
	requireAppError(t, err, http.StatusBadRequest, "validation_error")

	_, err = f.uc.UpdateJob(ctx, "does-not-exist", domain.UpdateJobRequest{Title: &title})
	requireAppError(t, err, http.StatusNotFound, "")

	jobs, err := f.uc.ListJobs(ctx)
	require.NoError(t, err)
	require.Len(t, jobs, 1)

	require.NoError(t, f.uc.DeleteJob(ctx, job.ID))
	err = f.uc.DeleteJob(ctx, job.ID)
	requireAppError(t, err, http.StatusNotFound, "")
}

func TestCreateBlogSlugs(t *testing.T) {
	f := newAdminFixture()
	ctx := adminCtx()

	first, err := f.uc.CreateBlog(ctx, domain.CreateBlogRequest{Title: "Crème Brûlée: 10 Tips!", Content: "..."})
	require.NoError(t, err)
	assert.Equal(t, "creme-brulee-10-tips", first.Slug)
	assert.Equal(t, domain.DefaultBlogAuthor, first.Author)

	second, err := f.uc.CreateBlog(ctx, domain.CreateBlogRequest{Title: "Creme brulee 10 tips", Content: "..."})
	require.NoError(t, err)
	assert.NotEqual(t, first.Slug, second.Slug)
	assert.True(t, strings.HasPrefix(second.Slug, "creme-brulee-10-tips-"))

	symbols, err := f.uc.CreateBlog(ctx, domain.CreateBlogRequest{Title: "!!!", Content: "..."})
	require.NoError(t, err)
	assert.Equal(t, "post", symbols.Slug)

	posts, err := f.uc.ListBlogs(ctx)
	require.NoError(t, err)
	assert.Len(t, posts, 3)

	_, err = f.uc.CreateBlog(ctx, domain.CreateBlogRequest{Title: "No content"})
	requireAppError(t, err, http.StatusBadRequest, "validation_error")
}

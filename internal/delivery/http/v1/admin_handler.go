package v1

import (
	"net/http"
	"strconv"

	"easemyform-backend/internal/delivery/http/response"
	"easemyform-backend/internal/domain"
	"easemyform-backend/pkg/apperror"

	"github.com/gin-gonic/gin"
)

type AdminHandler struct {
	adminUC domain.AdminUsecase
}

// NewAdminHandler registers admin routes. guards run before every route.
func NewAdminHandler(api *gin.RouterGroup, adminUC domain.AdminUsecase, guards ...gin.HandlerFunc) {
	handler := &AdminHandler{adminUC: adminUC}

	admin := api.Group("/admin", guards...)
	{
		// Dashboard
		admin.GET("/dashboard", handler.Dashboard)
		admin.GET("/recent-activity", handler.RecentActivity)

		// Users
		admin.GET("/users", handler.ListUsers)
		admin.GET("/users/export", handler.ExportUsers)

		// Jobs
		admin.GET("/jobs", handler.ListJobs)
		admin.POST("/jobs", handler.CreateJob)
		admin.PUT("/jobs/:id", handler.UpdateJob)
		admin.DELETE("/jobs/:id", handler.DeleteJob)

		// Blogs
		admin.GET("/blogs", handler.ListBlogs)
		admin.POST("/blogs", handler.CreateBlog)
	}
}

// Dashboard godoc
// @Summary      Get admin dashboard statistics
// @Description  Returns user, scoring, job and blog totals
// @Tags         admin
// @Produce      json
// @Success      200  {object}  response.Response{data=domain.DashboardStats}
// @Failure      401  {object}  response.Response
// @Failure      403  {object}  response.Response
// @Router       /admin/dashboard [get]
func (h *AdminHandler) Dashboard(c *gin.Context) {
	stats, err := h.adminUC.Dashboard(c)
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Dashboard statistics", stats)
}

// ListUsers godoc
// @Summary      List all users
// @Description  Returns users newest first
// @Tags         admin
// @Produce      json
// @Param        page   query     int  false  "Page number (default: 1)"
// @Param        limit  query     int  false  "Items per page (default: 20, max: 100)"
// @Success      200    {object}  response.Response{data=domain.UserPage}
// @Failure      403    {object}  response.Response
// @Router       /admin/users [get]
func (h *AdminHandler) ListUsers(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))

	result, err := h.adminUC.ListUsers(c, page, limit)
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Users list", result)
}

// ExportUsers godoc
// @Summary      Export users
// @Description  Downloads every user as an XLSX workbook
// @Tags         admin
// @Produce      application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Success      200  {file}    file
// @Failure      403  {object}  response.Response
// @Router       /admin/users/export [get]
func (h *AdminHandler) ExportUsers(c *gin.Context) {
	export, err := h.adminUC.ExportUsers(c)
	if err != nil {
		c.Error(err)
		return
	}
	c.Header("Content-Disposition", "attachment; filename="+export.Filename)
	c.Data(http.StatusOK, export.ContentType, export.Data)
}

// RecentActivity godoc
// @Summary      Recent activity
// @Description  Latest signups, ATS checks and LinkedIn reviews
// @Tags         admin
// @Produce      json
// @Param        limit  query     int  false  "Number of items (default: 10, max: 50)"
// @Success      200    {object}  response.Response{data=[]domain.ActivityItem}
// @Failure      403    {object}  response.Response
// @Router       /admin/recent-activity [get]
func (h *AdminHandler) RecentActivity(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))

	items, err := h.adminUC.RecentActivity(c, limit)
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Recent activity", gin.H{"activities": items})
}

// ListJobs godoc
// @Summary      List jobs
// @Tags         admin
// @Produce      json
// @Success      200  {object}  response.Response{data=[]domain.Job}
// @Failure      403  {object}  response.Response
// @Router       /admin/jobs [get]
func (h *AdminHandler) ListJobs(c *gin.Context) {
	jobs, err := h.adminUC.ListJobs(c)
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Jobs list", gin.H{"jobs": jobs})
}

// CreateJob godoc
// @Summary      Create a job
// @Tags         admin
// @Accept       json
// @Produce      json
// @Param        body  body      domain.CreateJobRequest  true  "Job details"
// @Success      201   {object}  response.Response{data=domain.Job}
// @Failure      400   {object}  response.Response
// @Failure      403   {object}  response.Response
// @Router       /admin/jobs [post]
func (h *AdminHandler) CreateJob(c *gin.Context) {
	var req domain.CreateJobRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(bindError(err))
		return
	}

	job, err := h.adminUC.CreateJob(c, req)
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusCreated, "Job created successfully", job)
}

// UpdateJob godoc
// @Summary      Update a job
// @Description  Only fields present in the body are changed
// @Tags         admin
// @Accept       json
// @Produce      json
// @Param        id    path      string                   true  "Job ID"
// @Param        body  body      domain.UpdateJobRequest  true  "Fields to change"
// @Success      200   {object}  response.Response{data=domain.Job}
// @Failure      400   {object}  response.Response
// @Failure      404   {object}  response.Response
// @Router       /admin/jobs/{id} [put]
func (h *AdminHandler) UpdateJob(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		c.Error(apperror.BadRequest("Job ID is required"))
		return
	}

	var req domain.UpdateJobRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(bindError(err))
		return
	}

	job, err := h.adminUC.UpdateJob(c, id, req)
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Job updated successfully", job)
}

// DeleteJob godoc
// @Summary      Delete a job
// @Tags         admin
// @Produce      json
// @Param        id   path      string  true  "Job ID"
// @Success      200  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /admin/jobs/{id} [delete]
func (h *AdminHandler) DeleteJob(c *gin.Context) {
	if err := h.adminUC.DeleteJob(c, c.Param("id")); err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Job deleted successfully", nil)
}

// ListBlogs godoc
// @Summary      List blog posts
// @Tags         admin
// @Produce      json
// @Success      200  {object}  response.Response{data=[]domain.BlogPost}
// @Failure      403  {object}  response.Response
// @Router       /admin/blogs [get]
func (h *AdminHandler) ListBlogs(c *gin.Context) {
	posts, err := h.adminUC.ListBlogs(c)
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Blog posts", gin.H{"blogs": posts})
}

// CreateBlog godoc
// @Summary      Create a blog post
// @Description  The slug is derived from the title and made unique
// @Tags         admin
// @Accept       json
// @Produce      json
// @Param        body  body      domain.CreateBlogRequest  true  "Post"
// @Success      201   {object}  response.Response{data=domain.BlogPost}
// @Failure      400   {object}  response.Response
// @Failure      403   {object}  response.Response
// @Router       /admin/blogs [post]
func (h *AdminHandler) CreateBlog(c *gin.Context) {
	var req domain.CreateBlogRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(bindError(err))
		return
	}

	post, err := h.adminUC.CreateBlog(c, req)
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusCreated, "Blog post created successfully", post)
}

package v1

import (
	"net/http"

	"easemyform-backend/internal/delivery/http/response"
	"easemyform-backend/internal/domain"

	"github.com/gin-gonic/gin"
)

type LinkedInHandler struct {
	linkedInUC domain.LinkedInUsecase
}

func NewLinkedInHandler(api *gin.RouterGroup, linkedInUC domain.LinkedInUsecase, authed gin.HandlerFunc) {
	handler := &LinkedInHandler{linkedInUC: linkedInUC}

	li := api.Group("/linkedin")
	{
		li.POST("/review", handler.Review)
		li.POST("/review-premium", handler.ReviewPremium)
		li.GET("/history", authed, handler.History)
		li.GET("/stats", handler.Stats)
		li.GET("/optimization-info", handler.OptimizationInfo)
	}
}

// Review godoc
// @Summary      Free LinkedIn review
// @Tags         linkedin
// @Accept       json
// @Produce      json
// @Param        body  body      domain.LinkedInReviewRequest  true  "Public profile URL"
// @Success      200   {object}  response.Response{data=domain.LinkedInResult}
// @Failure      400   {object}  response.Response
// @Router       /linkedin/review [post]
func (h *LinkedInHandler) Review(c *gin.Context) {
	h.review(c, false)
}

// ReviewPremium godoc
// @Summary      Premium LinkedIn review
// @Tags         linkedin
// @Accept       json
// @Produce      json
// @Param        body  body      domain.LinkedInReviewRequest  true  "Public profile URL"
// @Success      200   {object}  response.Response{data=domain.LinkedInResult}
// @Failure      400   {object}  response.Response
// @Router       /linkedin/review-premium [post]
func (h *LinkedInHandler) ReviewPremium(c *gin.Context) {
	h.review(c, true)
}

func (h *LinkedInHandler) review(c *gin.Context, paid bool) {
	var req domain.LinkedInReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(bindError(err))
		return
	}

	result, err := h.linkedInUC.Review(c, sessionUserID(c), req.ProfileURL, paid)
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, result.Message, result)
}

// History godoc
// @Summary      LinkedIn review history
// @Tags         linkedin
// @Produce      json
// @Success      200  {object}  response.Response{data=[]domain.HistoryEntry}
// @Failure      401  {object}  response.Response
// @Router       /linkedin/history [get]
func (h *LinkedInHandler) History(c *gin.Context) {
	history, err := h.linkedInUC.History(c, sessionUserID(c))
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "LinkedIn history", gin.H{"history": history})
}

// Stats godoc
// @Summary      LinkedIn review statistics
// @Tags         linkedin
// @Produce      json
// @Success      200  {object}  response.Response{data=domain.ServiceStats}
// @Router       /linkedin/stats [get]
func (h *LinkedInHandler) Stats(c *gin.Context) {
	stats, err := h.linkedInUC.Stats(c)
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "LinkedIn statistics", stats)
}

// OptimizationInfo godoc
// @Summary      LinkedIn optimization offer
// @Tags         linkedin
// @Produce      json
// @Success      200  {object}  response.Response{data=domain.OptimizationOffer}
// @Router       /linkedin/optimization-info [get]
func (h *LinkedInHandler) OptimizationInfo(c *gin.Context) {
	response.Success(c, http.StatusOK, "LinkedIn optimization service", h.linkedInUC.OptimizationInfo())
}

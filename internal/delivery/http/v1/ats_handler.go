package v1

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"

	"easemyform-backend/internal/delivery/http/response"
	"easemyform-backend/internal/domain"
	"easemyform-backend/pkg/apperror"
	"easemyform-backend/pkg/logger"
	"easemyform-backend/pkg/security"
	"easemyform-backend/pkg/security/antivirus"

	"github.com/gin-gonic/gin"
)

// multipart framing allowance on top of the file itself
const multipartOverhead = 1 << 20

// UploadConfig controls how resume uploads are accepted. Limiter and
// Scanner are optional.
type UploadConfig struct {
	MaxFileSize int64
	Limiter     *security.UploadLimiter
	Scanner     antivirus.Scanner
	Audit       *security.SecurityLogger
}

type ATSHandler struct {
	atsUC       domain.ATSUsecase
	limiter     *security.UploadLimiter
	scanner     antivirus.Scanner
	audit       *security.SecurityLogger
	maxFileSize int64
}

// NewATSHandler registers resume scoring routes
func NewATSHandler(api *gin.RouterGroup, atsUC domain.ATSUsecase, upload UploadConfig, authed gin.HandlerFunc) {
	if upload.Audit == nil {
		upload.Audit = security.DefaultLogger()
	}
	handler := &ATSHandler{
		atsUC:       atsUC,
		limiter:     upload.Limiter,
		scanner:     upload.Scanner,
		audit:       upload.Audit,
		maxFileSize: upload.MaxFileSize,
	}

	ats := api.Group("/ats")
	{
		ats.POST("/check", handler.Check)
		ats.POST("/check-premium", handler.CheckPremium)
		ats.GET("/history", authed, handler.History)
		ats.GET("/stats", handler.Stats)
	}
}

// Check godoc
// @Summary      Free ATS score
// @Description  Scores an uploaded resume. Signed-in callers get the result saved to their history.
// @Tags         ats
// @Accept       multipart/form-data
// @Produce      json
// @Param        file  formData  file  true  "Resume (pdf, doc, docx)"
// @Success      200   {object}  response.Response{data=domain.ATSResult}
// @Failure      400   {object}  response.Response
// @Failure      413   {object}  response.Response
// @Failure      429   {object}  response.Response
// @Router       /ats/check [post]
func (h *ATSHandler) Check(c *gin.Context) {
	h.check(c, false)
}

// CheckPremium godoc
// @Summary      Premium ATS score
// @Description  Scores an uploaded resume with the detailed breakdown.
// @Tags         ats
// @Accept       multipart/form-data
// @Produce      json
// @Param        file  formData  file  true  "Resume (pdf, doc, docx)"
// @Success      200   {object}  response.Response{data=domain.ATSResult}
// @Failure      400   {object}  response.Response
// @Failure      413   {object}  response.Response
// @Router       /ats/check-premium [post]
func (h *ATSHandler) CheckPremium(c *gin.Context) {
	h.check(c, true)
}

func (h *ATSHandler) check(c *gin.Context, paid bool) {
	userID := sessionUserID(c)

	if h.limiter != nil {
		allowed, retryAfter, err := h.limiter.AllowUpload(c.Request.Context(), c.ClientIP(), userID)
		switch {
		case errors.Is(err, security.ErrLimiterUnavailable):
			// no Redis, uploads are not limited
		case err != nil:
			// fail open on Redis errors
			logger.Log.WarnContext(c, "upload limiter check failed", "error", err)
		case !allowed:
			h.audit.LogUploadLimited(c.Request.Context(), c.ClientIP(), userID, c.GetString("RequestID"))
			c.Header("Retry-After", strconv.Itoa(retryAfter))
			c.Error(apperror.TooManyRequests("Upload limit reached. Please try again later."))
			return
		}
	}

	upload, err := h.readUpload(c)
	if err != nil {
		c.Error(err)
		return
	}

	result, err := h.atsUC.Check(c, userID, *upload, paid)
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, result.Message, result)
}

// readUpload enforces the size cap and validates the resume's type.
func (h *ATSHandler) readUpload(c *gin.Context) (*domain.ResumeUpload, error) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxFileSize+multipartOverhead)

	file, err := c.FormFile("file")
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return nil, tooLarge(h.maxFileSize)
		}
		if errors.Is(err, http.ErrMissingFile) {
			return nil, apperror.Validation("No file uploaded")
		}
		return nil, apperror.Validation("Invalid multipart form")
	}
	if file.Size > h.maxFileSize {
		return nil, tooLarge(h.maxFileSize)
	}

	filename := security.SanitizeFilename(file.Filename)
	if filename == "" {
		return nil, apperror.Validation("No file selected")
	}
	if err := security.ValidateFileExtension(filename); err != nil {
		return nil, apperror.Validation(err.Error())
	}

	content, err := readAll(file)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	head := content
	if len(head) > 512 {
		head = head[:512]
	}
	check := security.ValidateResume(filename, head, http.DetectContentType(head))
	if !check.Valid {
		h.audit.LogUploadRejected(c.Request.Context(), c.ClientIP(), c.GetString("RequestID"), filename, check.Error)
		return nil, apperror.Validation(security.ErrInvalidFileType.Error())
	}
	if err := h.scan(c, filename, content); err != nil {
		return nil, err
	}

	return &domain.ResumeUpload{
		Filename:    filename,
		ContentType: file.Header.Get("Content-Type"),
		Size:        int64(len(content)),
		Content:     bytes.NewReader(content),
	}, nil
}

// scan fails closed: an upload is rejected when the scanner cannot vouch for it.
func (h *ATSHandler) scan(c *gin.Context, filename string, content []byte) error {
	if h.scanner == nil {
		return nil
	}
	result, err := h.scanner.Scan(c.Request.Context(), filename, content)
	if err != nil {
		logger.Log.ErrorContext(c, "malware scan failed", "scanner", h.scanner.Name(), "error", err)
		return apperror.New(http.StatusServiceUnavailable, "File scanning is temporarily unavailable. Please try again later.", err)
	}
	if result.Infected {
		h.audit.LogUploadRejected(c.Request.Context(), c.ClientIP(), c.GetString("RequestID"), filename, "malware: "+result.ThreatName)
		return apperror.Validation("File rejected by malware scan")
	}
	return nil
}

func readAll(fh *multipart.FileHeader) ([]byte, error) {
	f, err := fh.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open upload: %w", err)
	}
	defer f.Close()
	return io.ReadAll(f)
}

func tooLarge(limit int64) error {
	return apperror.TooLarge(fmt.Sprintf("File too large. Maximum size is %g MB", float64(limit)/(1<<20)))
}

// History godoc
// @Summary      ATS history
// @Tags         ats
// @Produce      json
// @Success      200  {object}  response.Response{data=[]domain.HistoryEntry}
// @Failure      401  {object}  response.Response
// @Router       /ats/history [get]
func (h *ATSHandler) History(c *gin.Context) {
	history, err := h.atsUC.History(c, sessionUserID(c))
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "ATS history", gin.H{"history": history})
}

// Stats godoc
// @Summary      ATS statistics
// @Tags         ats
// @Produce      json
// @Success      200  {object}  response.Response{data=domain.ServiceStats}
// @Router       /ats/stats [get]
func (h *ATSHandler) Stats(c *gin.Context) {
	stats, err := h.atsUC.Stats(c)
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "ATS statistics", stats)
}

package v1

import (
	"context"
	"net/http"
	"time"

	"easemyform-backend/config"
	"easemyform-backend/internal/delivery/http/middleware"
	"easemyform-backend/internal/delivery/http/response"
	"easemyform-backend/internal/domain"
	"easemyform-backend/pkg/logger"
	"easemyform-backend/pkg/security"
	"easemyform-backend/pkg/security/antivirus"
	"easemyform-backend/pkg/session"
	"easemyform-backend/pkg/validation"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// HealthReporter reports dependency status for /api/health.
type HealthReporter interface {
	Check(ctx context.Context) map[string]string
}

type RouterDeps struct {
	AuthUC     domain.AuthUsecase
	ATSUC      domain.ATSUsecase
	LinkedInUC domain.LinkedInUsecase
	AdminUC    domain.AdminUsecase
	Health     HealthReporter

	Sessions      *session.Manager
	UploadLimiter *security.UploadLimiter // optional
	Scanner       antivirus.Scanner       // optional
	SecurityLog   *security.SecurityLogger
	Config        *config.Config
}

func NewRouter(deps RouterDeps) *gin.Engine {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		validation.RegisterValidators(v)
	}
	if deps.SecurityLog == nil {
		deps.SecurityLog = security.DefaultLogger()
	}
	cfg := deps.Config
	window := time.Duration(cfg.RateLimitWindowSeconds) * time.Second

	r := gin.New()

	// Global Middlewares
	r.Use(middleware.CORSMiddleware(cfg.CORSAllowedOrigins)) // CORS must be first!
	r.Use(gin.Recovery())
	r.Use(gin.Logger())
	r.Use(middleware.RequestID())
	r.Use(middleware.SecurityHeadersMiddleware(cfg.CookieSecure, deps.Sessions.CookieName()))
	r.Use(middleware.ErrorHandler())

	api := r.Group("/api")
	api.Use(middleware.RateLimitMiddleware(middleware.GlobalRateLimitConfig(cfg.RateLimitGlobalThreshold, window)))
	api.Use(middleware.Session(deps.Sessions))

	// Health Check
	api.GET("/health", func(c *gin.Context) {
		status := map[string]string{"status": "ok"}
		if deps.Health != nil {
			status = deps.Health.Check(c.Request.Context())
		}
		response.Success(c, http.StatusOK, "EaseMyForm API", status)
	})

	// Swagger
	api.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	authed := middleware.RequireSession()
	otpLimits := []gin.HandlerFunc{
		middleware.RateLimitMiddleware(middleware.OTPRateLimitConfig(cfg.RateLimitOTPThreshold, window)),
		middleware.RateLimitMiddleware(middleware.OTPPhoneRateLimitConfig(cfg.RateLimitOTPPhoneThreshold, window)),
	}

	NewAuthHandler(api, deps.AuthUC, deps.Sessions, otpLimits...)
	NewATSHandler(api, deps.ATSUC, UploadConfig{
		MaxFileSize: cfg.MaxFileSize,
		Limiter:     deps.UploadLimiter,
		Scanner:     deps.Scanner,
		Audit:       deps.SecurityLog,
	}, authed)
	NewLinkedInHandler(api, deps.LinkedInUC, authed)
	NewAdminHandler(api, deps.AdminUC, authed, middleware.RequireAdmin(deps.SecurityLog))

	r.NoRoute(func(c *gin.Context) {
		logger.Log.DebugContext(c, "route not found", "path", c.Request.URL.Path)
		response.Error(c, http.StatusNotFound, "Endpoint not found", nil)
	})

	return r
}

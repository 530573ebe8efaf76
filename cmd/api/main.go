package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"easemyform-backend/config"
	_ "easemyform-backend/docs" // Important for Swagger
	v1 "easemyform-backend/internal/delivery/http/v1"
	"easemyform-backend/internal/domain"
	"easemyform-backend/internal/repository/memory"
	"easemyform-backend/internal/repository/postgres"
	redisrepo "easemyform-backend/internal/repository/redis"
	"easemyform-backend/internal/usecase"
	"easemyform-backend/pkg/database"
	"easemyform-backend/pkg/logger"
	"easemyform-backend/pkg/redis"
	"easemyform-backend/pkg/security"
	"easemyform-backend/pkg/security/antivirus"
	"easemyform-backend/pkg/session"
	"easemyform-backend/pkg/sms"
	"easemyform-backend/pkg/storage"

	"github.com/gin-gonic/gin"
)

// @title           EaseMyForm API
// @version         1.0
// @description     Phone OTP login, ATS resume scoring, LinkedIn profile reviews and the admin panel.
// @host            localhost:5000
// @BasePath        /api
// @securityDefinitions.apikey SessionCookie
// @in cookie
// @name session
func main() {
	// 1. Load Config
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// 2. Setup Logger
	logger.Init(cfg.LogLevel)
	secLog := security.InitSecurityLogger("easemyform-api", cfg.AppEnv)
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	logger.Log.Info("Starting EaseMyForm backend", "port", cfg.Port, "storage", cfg.StorageDriver)

	// 3. Setup Storage
	var (
		users domain.UserRepository
		jobs  domain.JobRepository
		blogs domain.BlogRepository
	)
	health := map[string]usecase.HealthChecker{}

	switch cfg.StorageDriver {
	case config.StorageDriverMemory:
		logger.Log.Warn("Using in-memory storage. Data is lost on restart.")
		users = memory.NewUserRepository()
		jobs = memory.NewJobRepository()
		blogs = memory.NewBlogRepository()
		health["database"] = nil
	default:
		db := database.NewPostgres(cfg.DBUrl)
		defer db.Close()

		// The pool connects lazily; a failure here only means the first
		// requests will retry.
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		if _, err := db.Pool(ctx); err != nil {
			logger.Log.Error("Database not reachable at startup", "error", err)
		}
		cancel()

		users = postgres.NewUserRepository(db)
		jobs = postgres.NewJobRepository(db)
		blogs = postgres.NewBlogRepository(db)
		health["database"] = db.HealthCheck
	}

	// 4. Setup Redis (OTP store, rate limits, upload limits)
	var otps domain.OTPStore = memory.NewOTPStore()
	var uploadLimiter *security.UploadLimiter
	health["redis"] = nil
	if cfg.RedisURL != "" {
		if err := redis.Initialize(redis.Config{URL: cfg.RedisURL, Password: cfg.RedisPassword}); err != nil {
			logger.Log.Error("Redis unavailable, falling back to in-process OTP store", "error", err)
		} else {
			defer redis.Close()
			otps = redisrepo.NewOTPStore(redis.Client())
			uploadLimiter = security.NewUploadLimiter(cfg.UploadLimitPerMinute, cfg.UploadLimitPerDay)
			health["redis"] = redis.HealthCheck
		}
	}

	// 5. Setup Resume Archive and Scanner
	var archive usecase.ResumeArchive
	if s3cfg := storage.S3ConfigFromEnv(cfg.ResumeArchiveBucket, cfg.ResumeArchiveRegion, cfg.ResumeArchiveEndpoint); s3cfg.Enabled() {
		s3Archive, err := storage.NewS3Archive(context.Background(), s3cfg)
		if err != nil {
			logger.Log.Error("Resume archive disabled", "error", err)
		} else {
			archive = s3Archive
			logger.Log.Info("Archiving resumes", "bucket", cfg.ResumeArchiveBucket)
		}
	}

	var scanner antivirus.Scanner
	if cfg.ClamAVAddress != "" {
		clam := antivirus.NewClamAVScanner(cfg.ClamAVAddress, 30*time.Second)
		if err := clam.Ping(context.Background()); err != nil {
			logger.Log.Warn("ClamAV not answering at startup", "address", cfg.ClamAVAddress, "error", err)
		}
		scanner = clam
		health["antivirus"] = clam.Ping
	}

	// 6. Setup Sessions
	sessions, err := session.NewManager(session.Config{
		Secret: cfg.SessionSecret,
		TTL:    cfg.SessionTTL(),
		Secure: cfg.CookieSecure,
	})
	if err != nil {
		logger.Log.Error("Failed to configure sessions", "error", err)
		os.Exit(1)
	}

	// 7. Setup UseCases
	authUC := usecase.NewAuthUsecase(users, otps, sms.NewLogSender(), secLog, usecase.AuthConfig{
		OTPTTL:     cfg.OTPTTL(),
		AdminPhone: cfg.AdminPhone,
		ExposeCode: cfg.ExposeOTP(),
	})
	atsUC := usecase.NewATSUsecase(users, archive, cfg.ATSUpgradeURL)
	linkedInUC := usecase.NewLinkedInUsecase(users, usecase.LinkedInLinks{
		UpgradeURL:      cfg.LinkedInUpgradeURL,
		OptimizationURL: cfg.LinkedInOptimizationURL,
	})
	adminUC := usecase.NewAdminUsecase(users, jobs, blogs)

	// 8. Setup Router
	router := v1.NewRouter(v1.RouterDeps{
		AuthUC:        authUC,
		ATSUC:         atsUC,
		LinkedInUC:    linkedInUC,
		AdminUC:       adminUC,
		Health:        usecase.NewHealthUsecase(health),
		Sessions:      sessions,
		UploadLimiter: uploadLimiter,
		Scanner:       scanner,
		SecurityLog:   secLog,
		Config:        cfg,
	})

	// 9. Start Server
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Log.Error("Listen failed", "error", err)
			os.Exit(1)
		}
	}()

	// Graceful Shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Log.Error("Server forced to shutdown", "error", err)
	}

	logger.Log.Info("Server exiting")
}

package config

import (
	"errors"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"easemyform-backend/pkg/validation"

	"github.com/joho/godotenv"
)

const (
	StorageDriverPostgres = "postgres"
	StorageDriverMemory   = "memory"

	devSessionSecret = "dev-secret-change-me"
)

type Config struct {
	Port          string
	AppEnv        string
	LogLevel      string
	DBUrl         string
	StorageDriver string
	// Redis Configuration (OTP store, rate limiting)
	RedisURL      string
	RedisPassword string
	// Session Configuration
	SessionSecret   string
	SessionTTLHours int
	CookieSecure    bool
	// OTP Configuration
	AdminPhone       string // canonical form
	OTPExpiryMinutes int
	OTPExposeCode    bool
	// Upload Configuration
	MaxFileSize           int64
	UploadLimitPerMinute  int
	UploadLimitPerDay     int
	ResumeArchiveBucket   string
	ResumeArchiveEndpoint string
	ResumeArchiveRegion   string
	ClamAVAddress         string
	// Payment links
	ATSUpgradeURL           string
	LinkedInUpgradeURL      string
	LinkedInOptimizationURL string
	// CORS
	CORSAllowedOrigins []string
	// Rate Limiting Configuration
	RateLimitWindowSeconds   int
	RateLimitOTPThreshold      int
	RateLimitOTPPhoneThreshold int
	RateLimitGlobalThreshold   int
}

func LoadConfig() (*Config, error) {
	// Load .env file (local only, ignored in production when absent)
	_ = godotenv.Load()

	rawAdmin := getEnv("ADMIN_PHONE", "+91-7697470397")
	adminPhone, ok := validation.NormalizePhone(rawAdmin)
	if !ok {
		log.Printf("WARNING: ADMIN_PHONE %q is not a valid phone number. No user will be admin.", rawAdmin)
		adminPhone = ""
	}

	cfg := &Config{
		Port:          getEnv("PORT", "5000"),
		AppEnv:        getEnv("APP_ENV", "development"),
		LogLevel:      getEnv("LOG_LEVEL", "info"),
		DBUrl:         getEnv("DATABASE_URL", ""),
		StorageDriver: strings.ToLower(getEnv("STORAGE_DRIVER", StorageDriverPostgres)),
		// Redis Configuration
		RedisURL:      getEnv("REDIS_URL", ""),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		// Session Configuration
		SessionSecret:   getEnv("SESSION_SECRET", getEnv("SECRET_KEY", "")),
		SessionTTLHours: getEnvInt("SESSION_TTL_HOURS", 24*7),
		CookieSecure:    getEnvBool("COOKIE_SECURE", false),
		// OTP Configuration
		AdminPhone:       adminPhone,
		OTPExpiryMinutes: getEnvInt("OTP_EXPIRY_MINUTES", 5),
		OTPExposeCode:    getEnvBool("OTP_EXPOSE_CODE", false),
		// Upload Configuration
		MaxFileSize:           int64(getEnvInt("MAX_FILE_SIZE", 10485760)), // 10 MiB
		UploadLimitPerMinute:  getEnvInt("UPLOAD_LIMIT_PER_MINUTE", 10),
		UploadLimitPerDay:     getEnvInt("UPLOAD_LIMIT_PER_DAY", 50),
		ResumeArchiveBucket:   getEnv("S3_RESUME_BUCKET", ""),
		ResumeArchiveEndpoint: getEnv("S3_ENDPOINT", ""),
		ResumeArchiveRegion:   getEnv("S3_REGION", "ap-south-1"),
		ClamAVAddress:         getEnv("CLAMAV_ADDRESS", ""),
		// Payment links
		ATSUpgradeURL:           getEnv("ATS_UPGRADE_URL", "https://rzp.io/rzp/qIH8G2w"),
		LinkedInUpgradeURL:      getEnv("LINKEDIN_UPGRADE_URL", "https://rzp.io/rzp/Ue72aJ1V"),
		LinkedInOptimizationURL: getEnv("LINKEDIN_OPTIMIZATION_URL", "https://rzp.io/l/aDrhVPnV"),
		// CORS
		CORSAllowedOrigins: splitList(getEnv("CORS_ALLOWED_ORIGINS", "*")),
		// Rate Limiting Configuration
		RateLimitWindowSeconds:     getEnvInt("RATE_LIMIT_WINDOW_SECONDS", 60),
		RateLimitOTPThreshold:      getEnvInt("RATE_LIMIT_OTP_THRESHOLD", 10),
		RateLimitOTPPhoneThreshold: getEnvInt("RATE_LIMIT_OTP_PHONE_THRESHOLD", 5),
		RateLimitGlobalThreshold:   getEnvInt("RATE_LIMIT_GLOBAL_THRESHOLD", 100),
	}

	if cfg.OTPExpiryMinutes <= 0 {
		cfg.OTPExpiryMinutes = 5
	}
	if cfg.SessionTTLHours <= 0 {
		cfg.SessionTTLHours = 24 * 7
	}

	if cfg.SessionSecret == "" {
		if cfg.IsProduction() {
			return nil, ErrMissingSessionSecret
		}
		log.Println("WARNING: SESSION_SECRET not set. Using the development secret.")
		cfg.SessionSecret = devSessionSecret
	}

	if cfg.StorageDriver == StorageDriverPostgres && cfg.DBUrl == "" {
		log.Println("WARNING: DATABASE_URL is missing. Storage calls will fail until it is configured.")
	}

	if cfg.RedisURL == "" {
		log.Println("WARNING: REDIS_URL not configured. OTPs and rate limits will be kept in-process.")
	}

	return cfg, nil
}

// ErrMissingSessionSecret is returned when production starts without a
// session signing secret.
var ErrMissingSessionSecret = errors.New("SESSION_SECRET is required in production")

// IsProduction reports whether APP_ENV names a production deployment.
func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.AppEnv, "production")
}

// ExposeOTP reports whether generated codes may be returned to clients.
func (c *Config) ExposeOTP() bool {
	return c.OTPExposeCode && !c.IsProduction()
}

func (c *Config) OTPTTL() time.Duration {
	return time.Duration(c.OTPExpiryMinutes) * time.Minute
}

func (c *Config) SessionTTL() time.Duration {
	return time.Duration(c.SessionTTLHours) * time.Hour
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

// getEnvInt returns an integer environment variable or fallback if not set/invalid
func getEnvInt(key string, fallback int) int {
	if value, exists := os.LookupEnv(key); exists {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return fallback
}

// getEnvBool returns a boolean environment variable or fallback if not set/invalid
func getEnvBool(key string, fallback bool) bool {
	if value, exists := os.LookupEnv(key); exists {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return fallback
}

func splitList(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

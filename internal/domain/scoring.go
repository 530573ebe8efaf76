package domain

import (
	"context"
	"io"
	"time"

	"easemyform-backend/pkg/scoring"
)

// ResumeUpload is a validated resume file handed to the ATS service.
type ResumeUpload struct {
	Filename    string // sanitized
	ContentType string
	Size        int64
	Content     io.Reader
}

type ATSResult struct {
	Filename   string               `json:"filename"`
	Score      int                  `json:"score"`
	Paid       bool                 `json:"paid"`
	Message    string               `json:"message"`
	Analysis   *scoring.ATSAnalysis `json:"detailed_analysis,omitempty"`
	Preview    *scoring.ATSPreview  `json:"preview,omitempty"`
	UpgradeURL string               `json:"upgrade_url,omitempty"`
	Saved      bool                 `json:"saved"`
	Timestamp  time.Time            `json:"timestamp"`
}

type LinkedInResult struct {
	ProfileURL string `json:"profile_url"`
	scoring.LinkedInReport
	Message    string    `json:"message"`
	UpgradeURL string    `json:"upgrade_url,omitempty"`
	Saved      bool      `json:"saved"`
	Timestamp  time.Time `json:"timestamp"`
}

// HistoryEntry is one row of a caller's scoring history.
type HistoryEntry struct {
	Source    string    `json:"source"`
	Score     int       `json:"score"`
	Paid      bool      `json:"paid"`
	Timestamp time.Time `json:"timestamp"`
}

type ServiceStats struct {
	Total        int64   `json:"total"`
	AverageScore float64 `json:"average_score"`
	TotalUsers   int64   `json:"total_users"`
}

// OptimizationOffer describes the paid LinkedIn makeover service.
type OptimizationOffer struct {
	Service      string   `json:"service"`
	Price        string   `json:"price"`
	Description  string   `json:"description"`
	Process      []string `json:"process"`
	Features     []string `json:"features"`
	SecurityNote string   `json:"security_note"`
	PurchaseURL  string   `json:"purchase_url"`
}

type ATSUsecase interface {
	// Check scores a resume; userID may be empty for anonymous callers.
	Check(ctx context.Context, userID string, upload ResumeUpload, paid bool) (*ATSResult, error)
	History(ctx context.Context, userID string) ([]HistoryEntry, error)
	Stats(ctx context.Context) (*ServiceStats, error)
}

type LinkedInUsecase interface {
	Review(ctx context.Context, userID, profileURL string, paid bool) (*LinkedInResult, error)
	History(ctx context.Context, userID string) ([]HistoryEntry, error)
	Stats(ctx context.Context) (*ServiceStats, error)
	OptimizationInfo() OptimizationOffer
}

type LinkedInReviewRequest struct {
	ProfileURL string `json:"profile_url" binding:"required"`
}

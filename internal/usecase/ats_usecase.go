package usecase

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"easemyform-backend/internal/domain"
	"easemyform-backend/pkg/apperror"
	"easemyform-backend/pkg/logger"
	"easemyform-backend/pkg/scoring"

	"github.com/google/uuid"
)

// ResumeArchive keeps a copy of uploaded resumes. Implemented by
// storage.S3Archive.
type ResumeArchive interface {
	Store(ctx context.Context, key, contentType string, body io.Reader, size int64) (string, error)
}

type atsUsecase struct {
	users      domain.UserRepository
	archive    ResumeArchive
	upgradeURL string
	now        func() time.Time
}

// NewATSUsecase creates the ATS scoring service. archive may be nil.
func NewATSUsecase(users domain.UserRepository, archive ResumeArchive, upgradeURL string) domain.ATSUsecase {
	return &atsUsecase{users: users, archive: archive, upgradeURL: upgradeURL, now: time.Now}
}

func (u *atsUsecase) Check(ctx context.Context, userID string, upload domain.ResumeUpload, paid bool) (*domain.ATSResult, error) {
	if upload.Filename == "" {
		return nil, validationError("No file selected")
	}

	report := scoring.ScoreATS(upload.Filename, paid)
	result := &domain.ATSResult{
		Filename:  upload.Filename,
		Score:     report.Score,
		Paid:      paid,
		Analysis:  report.Analysis,
		Preview:   report.Preview,
		Timestamp: u.now().UTC(),
	}
	if paid {
		result.Message = fmt.Sprintf("Premium ATS Analysis Complete! Your score is %d/100.", report.Score)
	} else {
		result.Message = fmt.Sprintf("Your ATS score is %d/100. Upgrade to premium for detailed analysis and higher accuracy.", report.Score)
		result.UpgradeURL = u.upgradeURL
	}

	if userID == "" {
		return result, nil
	}

	details := map[string]any{}
	if report.Analysis != nil {
		details["detailed_analysis"] = report.Analysis
	}
	if location := u.store(ctx, userID, upload); location != "" {
		details["archived_at"] = location
	}

	record := domain.ScoreRecord{
		Source:    upload.Filename,
		Score:     report.Score,
		Paid:      paid,
		CreatedAt: result.Timestamp,
		Details:   details,
	}
	if err := u.users.AppendATSScore(ctx, userID, record); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			logger.Log.WarnContext(ctx, "ats score not saved, user missing", "user_id", userID)
			return result, nil
		}
		return nil, storeError("save ats score", err)
	}
	result.Saved = true
	return result, nil
}

// store archives the upload when an archive is configured. Failures are
// logged and never fail the check.
func (u *atsUsecase) store(ctx context.Context, userID string, upload domain.ResumeUpload) string {
	if u.archive == nil || upload.Content == nil {
		return ""
	}
	key := fmt.Sprintf("resumes/%s/%s/%s-%s",
		u.now().UTC().Format("2006-01-02"), userID, uuid.NewString()[:8], upload.Filename)
	location, err := u.archive.Store(ctx, key, upload.ContentType, upload.Content, upload.Size)
	if err != nil {
		logger.Log.WarnContext(ctx, "failed to archive resume", "user_id", userID, "error", err)
		return ""
	}
	return location
}

func (u *atsUsecase) History(ctx context.Context, userID string) ([]domain.HistoryEntry, error) {
	user, err := loadCaller(ctx, u.users, userID)
	if err != nil {
		return nil, err
	}
	return toHistory(user.ATSScores), nil
}

func (u *atsUsecase) Stats(ctx context.Context) (*domain.ServiceStats, error) {
	stats, err := u.users.Stats(ctx)
	if err != nil {
		return nil, storeError("load ats stats", err)
	}
	return &domain.ServiceStats{
		Total:        stats.TotalATSChecks,
		AverageScore: stats.AverageATSScore,
		TotalUsers:   stats.TotalUsers,
	}, nil
}

// loadCaller fetches the signed-in user for history endpoints.
func loadCaller(ctx context.Context, users domain.UserRepository, userID string) (*domain.User, error) {
	if userID == "" {
		return nil, unauthenticated()
	}
	user, err := users.FindByID(ctx, userID)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, apperror.New(http.StatusNotFound, "User not found", err)
	}
	if err != nil {
		return nil, storeError("load user", err)
	}
	return user, nil
}

func toHistory(records []domain.ScoreRecord) []domain.HistoryEntry {
	history := make([]domain.HistoryEntry, 0, len(records))
	for _, r := range records {
		history = append(history, domain.HistoryEntry{
			Source:    r.Source,
			Score:     r.Score,
			Paid:      r.Paid,
			Timestamp: r.CreatedAt,
		})
	}
	return history
}

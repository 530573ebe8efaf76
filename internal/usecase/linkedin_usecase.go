package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"easemyform-backend/internal/domain"
	"easemyform-backend/pkg/logger"
	"easemyform-backend/pkg/scoring"
)

type LinkedInLinks struct {
	UpgradeURL      string
	OptimizationURL string
}

type linkedInUsecase struct {
	users domain.UserRepository
	links LinkedInLinks
	now   func() time.Time
}

func NewLinkedInUsecase(users domain.UserRepository, links LinkedInLinks) domain.LinkedInUsecase {
	return &linkedInUsecase{users: users, links: links, now: time.Now}
}

func (u *linkedInUsecase) Review(ctx context.Context, userID, rawURL string, paid bool) (*domain.LinkedInResult, error) {
	if strings.TrimSpace(rawURL) == "" {
		return nil, validationError("LinkedIn profile URL is required")
	}
	profileURL, ok := scoring.NormalizeLinkedInURL(rawURL)
	if !ok {
		return nil, validationError("Invalid LinkedIn profile URL format")
	}

	report := scoring.ScoreLinkedIn(profileURL, paid)
	result := &domain.LinkedInResult{
		ProfileURL:     profileURL,
		LinkedInReport: report,
		Timestamp:      u.now().UTC(),
	}
	if paid {
		result.Message = fmt.Sprintf("Premium LinkedIn Analysis Complete! Your overall score is %d/100.", report.OverallScore)
	} else {
		result.Message = fmt.Sprintf("Your LinkedIn profile score is %d/100. Upgrade for detailed analysis!", report.OverallScore)
		result.UpgradeURL = u.links.UpgradeURL
	}

	if userID == "" {
		return result, nil
	}

	details := map[string]any{}
	if paid {
		details["detailed_scores"] = report.DetailedScores
		details["recommendations"] = report.Recommendations
	} else {
		details["basic_feedback"] = report.BasicFeedback
	}
	record := domain.ScoreRecord{
		Source:    profileURL,
		Score:     report.OverallScore,
		Paid:      paid,
		CreatedAt: result.Timestamp,
		Details:   details,
	}
	if err := u.users.AppendLinkedInScore(ctx, userID, record); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			logger.Log.WarnContext(ctx, "linkedin score not saved, user missing", "user_id", userID)
			return result, nil
		}
		return nil, storeError("save linkedin score", err)
	}
	result.Saved = true
	return result, nil
}

func (u *linkedInUsecase) History(ctx context.Context, userID string) ([]domain.HistoryEntry, error) {
	user, err := loadCaller(ctx, u.users, userID)
	if err != nil {
		return nil, err
	}
	return toHistory(user.LinkedInScores), nil
}

func (u *linkedInUsecase) Stats(ctx context.Context) (*domain.ServiceStats, error) {
	stats, err := u.users.Stats(ctx)
	if err != nil {
		return nil, storeError("load linkedin stats", err)
	}
	return &domain.ServiceStats{
		Total:        stats.TotalLinkedInReviews,
		AverageScore: stats.AverageLinkedInScore,
		TotalUsers:   stats.TotalUsers,
	}, nil
}

func (u *linkedInUsecase) OptimizationInfo() domain.OptimizationOffer {
	return domain.OptimizationOffer{
		Service:     "LinkedIn Optimization",
		Price:       "₹1499",
		Description: "Complete LinkedIn profile makeover by our experts",
		Process: []string{
			"Share your LinkedIn credentials securely",
			"Our experts log in and optimize your profile",
			"We connect you with relevant HR professionals in your domain",
			"Get a completely optimized profile within 24-48 hours",
		},
		Features: []string{
			"Professional headline optimization",
			"About section rewriting",
			"Experience section enhancement",
			"Skills and endorsements optimization",
			"Network expansion with domain HRs",
			"Profile photo and banner suggestions",
		},
		SecurityNote: "We use secure, encrypted methods to access your profile and never store your credentials permanently.",
		PurchaseURL:  u.links.OptimizationURL,
	}
}

// Package memory holds in-process implementations of the repositories. They
// back STORAGE_DRIVER=memory and the test suites.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"easemyform-backend/internal/domain"

	"github.com/google/uuid"
)

type UserRepository struct {
	mu      sync.RWMutex
	byID    map[string]*domain.User
	byPhone map[string]string
	now     func() time.Time
}

func NewUserRepository() *UserRepository {
	return &UserRepository{
		byID:    map[string]*domain.User{},
		byPhone: map[string]string{},
		now:     time.Now,
	}
}

// SetClock replaces the time source used for created_at and last_login.
func (r *UserRepository) SetClock(now func() time.Time) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.now = now
}

func (r *UserRepository) GetOrCreate(ctx context.Context, phone string, isAdmin bool) (string, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if id, ok := r.byPhone[phone]; ok {
		return id, false, nil
	}
	user := &domain.User{
		ID:             uuid.NewString(),
		PhoneNumber:    phone,
		IsAdmin:        isAdmin,
		CreatedAt:      r.now().UTC(),
		ATSScores:      []domain.ScoreRecord{},
		LinkedInScores: []domain.ScoreRecord{},
	}
	r.byID[user.ID] = user
	r.byPhone[phone] = user.ID
	return user.ID, true, nil
}

func (r *UserRepository) FindByID(ctx context.Context, id string) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	user, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return cloneUser(user), nil
}

func (r *UserRepository) FindByPhone(ctx context.Context, phone string) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.byPhone[phone]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return cloneUser(r.byID[id]), nil
}

func (r *UserRepository) TouchLogin(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	user, ok := r.byID[id]
	if !ok {
		return domain.ErrNotFound
	}
	now := r.now().UTC()
	user.LastLogin = &now
	return nil
}

func (r *UserRepository) AppendATSScore(ctx context.Context, id string, record domain.ScoreRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	user, ok := r.byID[id]
	if !ok {
		return domain.ErrNotFound
	}
	user.ATSScores = append(user.ATSScores, record)
	return nil
}

func (r *UserRepository) AppendLinkedInScore(ctx context.Context, id string, record domain.ScoreRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	user, ok := r.byID[id]
	if !ok {
		return domain.ErrNotFound
	}
	user.LinkedInScores = append(user.LinkedInScores, record)
	return nil
}

func (r *UserRepository) Stats(ctx context.Context) (*domain.UserStats, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	stats := &domain.UserStats{TotalUsers: int64(len(r.byID))}
	var atsSum, linkedInSum int64
	for _, user := range r.byID {
		stats.TotalATSChecks += int64(len(user.ATSScores))
		stats.TotalLinkedInReviews += int64(len(user.LinkedInScores))
		for _, s := range user.ATSScores {
			atsSum += int64(s.Score)
		}
		for _, s := range user.LinkedInScores {
			linkedInSum += int64(s.Score)
		}
	}
	if stats.TotalATSChecks > 0 {
		stats.AverageATSScore = float64(atsSum) / float64(stats.TotalATSChecks)
	}
	if stats.TotalLinkedInReviews > 0 {
		stats.AverageLinkedInScore = float64(linkedInSum) / float64(stats.TotalLinkedInReviews)
	}
	return stats, nil
}

// sorted returns users newest first, ties broken by id.
func (r *UserRepository) sorted() []*domain.User {
	users := make([]*domain.User, 0, len(r.byID))
	for _, u := range r.byID {
		users = append(users, u)
	}
	sort.Slice(users, func(i, j int) bool {
		if !users[i].CreatedAt.Equal(users[j].CreatedAt) {
			return users[i].CreatedAt.After(users[j].CreatedAt)
		}
		return users[i].ID < users[j].ID
	})
	return users
}

func (r *UserRepository) List(ctx context.Context, offset, limit int) ([]domain.UserSummary, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	users := r.sorted()
	out := []domain.UserSummary{}
	if offset < 0 || limit <= 0 {
		return out, nil
	}
	for i := offset; i < len(users) && len(out) < limit; i++ {
		u := users[i]
		out = append(out, domain.UserSummary{
			ID:              u.ID,
			PhoneNumber:     u.PhoneNumber,
			IsAdmin:         u.IsAdmin,
			CreatedAt:       u.CreatedAt,
			LastLogin:       u.LastLogin,
			ATSChecks:       len(u.ATSScores),
			LinkedInReviews: len(u.LinkedInScores),
		})
	}
	return out, nil
}

func (r *UserRepository) Count(ctx context.Context) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return int64(len(r.byID)), nil
}

func (r *UserRepository) CountCreatedSince(ctx context.Context, since time.Time) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var n int64
	for _, u := range r.byID {
		if !u.CreatedAt.Before(since) {
			n++
		}
	}
	return n, nil
}

func (r *UserRepository) RecentActivity(ctx context.Context, limit int) ([]domain.ActivityItem, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	items := []domain.ActivityItem{}
	for _, u := range r.byID {
		items = append(items, domain.ActivityItem{
			Kind: domain.ActivitySignup, UserID: u.ID, PhoneNumber: u.PhoneNumber, CreatedAt: u.CreatedAt,
		})
		for _, s := range u.ATSScores {
			items = append(items, scoreActivity(domain.ActivityATSCheck, u, s))
		}
		for _, s := range u.LinkedInScores {
			items = append(items, scoreActivity(domain.ActivityLinkedInReview, u, s))
		}
	}
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].CreatedAt.After(items[j].CreatedAt)
	})
	if len(items) > limit {
		items = items[:limit]
	}
	return items, nil
}

func scoreActivity(kind string, u *domain.User, s domain.ScoreRecord) domain.ActivityItem {
	score := s.Score
	return domain.ActivityItem{
		Kind:        kind,
		UserID:      u.ID,
		PhoneNumber: u.PhoneNumber,
		Source:      s.Source,
		Score:       &score,
		CreatedAt:   s.CreatedAt,
	}
}

func cloneUser(u *domain.User) *domain.User {
	c := *u
	c.ATSScores = append([]domain.ScoreRecord{}, u.ATSScores...)
	c.LinkedInScores = append([]domain.ScoreRecord{}, u.LinkedInScores...)
	if u.LastLogin != nil {
		t := *u.LastLogin
		c.LastLogin = &t
	}
	return &c
}

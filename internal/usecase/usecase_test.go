package usecase_test

import (
	"context"
	"io"
	"testing"
	"time"

	"easemyform-backend/internal/domain"
	"easemyform-backend/pkg/apperror"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// Mock Repositories
type MockUserRepo struct {
	mock.Mock
}

func (m *MockUserRepo) GetOrCreate(ctx context.Context, phone string, isAdmin bool) (string, bool, error) {
	args := m.Called(ctx, phone, isAdmin)
	return args.String(0), args.Bool(1), args.Error(2)
}
func (m *MockUserRepo) FindByID(ctx context.Context, id string) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}
func (m *MockUserRepo) FindByPhone(ctx context.Context, phone string) (*domain.User, error) {
	args := m.Called(ctx, phone)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}
func (m *MockUserRepo) TouchLogin(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}
func (m *MockUserRepo) AppendATSScore(ctx context.Context, id string, record domain.ScoreRecord) error {
	return m.Called(ctx, id, record).Error(0)
}
func (m *MockUserRepo) AppendLinkedInScore(ctx context.Context, id string, record domain.ScoreRecord) error {
	return m.Called(ctx, id, record).Error(0)
}
func (m *MockUserRepo) Stats(ctx context.Context) (*domain.UserStats, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.UserStats), args.Error(1)
}
func (m *MockUserRepo) List(ctx context.Context, offset, limit int) ([]domain.UserSummary, error) {
	args := m.Called(ctx, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.UserSummary), args.Error(1)
}
func (m *MockUserRepo) Count(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}
func (m *MockUserRepo) CountCreatedSince(ctx context.Context, since time.Time) (int64, error) {
	args := m.Called(ctx, since)
	return args.Get(0).(int64), args.Error(1)
}
func (m *MockUserRepo) RecentActivity(ctx context.Context, limit int) ([]domain.ActivityItem, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ActivityItem), args.Error(1)
}

type MockOTPStore struct {
	mock.Mock
}

func (m *MockOTPStore) Put(ctx context.Context, phone string, entry domain.OTPEntry, ttl time.Duration) error {
	return m.Called(ctx, phone, entry, ttl).Error(0)
}
func (m *MockOTPStore) Get(ctx context.Context, phone string) (*domain.OTPEntry, error) {
	args := m.Called(ctx, phone)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.OTPEntry), args.Error(1)
}
func (m *MockOTPStore) Delete(ctx context.Context, phone string) (bool, error) {
	args := m.Called(ctx, phone)
	return args.Bool(0), args.Error(1)
}

type MockSender struct {
	mock.Mock
}

func (m *MockSender) Send(ctx context.Context, phone, message string) error {
	return m.Called(ctx, phone, message).Error(0)
}

type MockArchive struct {
	mock.Mock
}

func (m *MockArchive) Store(ctx context.Context, key, contentType string, body io.Reader, size int64) (string, error) {
	args := m.Called(ctx, key, contentType, body, size)
	return args.String(0), args.Error(1)
}

// captureSender records the last message per phone.
type captureSender struct {
	last map[string]string
}

func newCaptureSender() *captureSender {
	return &captureSender{last: map[string]string{}}
}

func (s *captureSender) Send(ctx context.Context, phone, message string) error {
	s.last[phone] = message
	return nil
}

func adminCtx() context.Context {
	ctx := context.WithValue(context.Background(), domain.KeyUserID, "admin-1")
	return context.WithValue(ctx, domain.KeyIsAdmin, true)
}

func userCtx() context.Context {
	ctx := context.WithValue(context.Background(), domain.KeyUserID, "user-1")
	return context.WithValue(ctx, domain.KeyIsAdmin, false)
}

func requireAppError(t *testing.T, err error, code int, reason string) {
	t.Helper()
	var appErr *apperror.AppError
	require.ErrorAs(t, err, &appErr)
	require.Equal(t, code, appErr.Code, appErr.Message)
	require.Equal(t, reason, appErr.Reason)
}

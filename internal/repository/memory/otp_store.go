package memory

import (
	"context"
	"sync"
	"time"

	"easemyform-backend/internal/domain"
)

type otpItem struct {
	entry       domain.OTPEntry
	retainUntil time.Time
}

// expiredRetention keeps entries well past their ttl so a late verify still
// reports the code as expired. Matches the Redis store.
const expiredRetention = 24 * time.Hour

// OTPStore keeps pending codes in process memory. Expired entries stay until
// a verify attempt removes them; Put sweeps anything past the retention
// window.
type OTPStore struct {
	mu      sync.Mutex
	entries map[string]otpItem
	now     func() time.Time
}

func NewOTPStore() *OTPStore {
	return &OTPStore{entries: map[string]otpItem{}, now: time.Now}
}

// SetClock replaces the time source used for retention.
func (s *OTPStore) SetClock(now func() time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.now = now
}

func (s *OTPStore) Put(ctx context.Context, phone string, entry domain.OTPEntry, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	for key, item := range s.entries {
		if now.After(item.retainUntil) {
			delete(s.entries, key)
		}
	}
	s.entries[phone] = otpItem{entry: entry, retainUntil: now.Add(ttl + expiredRetention)}
	return nil
}

func (s *OTPStore) Get(ctx context.Context, phone string) (*domain.OTPEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	item, ok := s.entries[phone]
	if !ok {
		return nil, domain.ErrOTPNotFound
	}
	if s.now().After(item.retainUntil) {
		delete(s.entries, phone)
		return nil, domain.ErrOTPNotFound
	}
	entry := item.entry
	return &entry, nil
}

func (s *OTPStore) Delete(ctx context.Context, phone string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.entries[phone]; !ok {
		return false, nil
	}
	delete(s.entries, phone)
	return true, nil
}

// Len reports how many entries are held, expired ones included.
func (s *OTPStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

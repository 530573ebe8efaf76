// Package redis stores pending OTPs in Redis so every API instance sees the
// same codes.
package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"easemyform-backend/internal/domain"

	goredis "github.com/redis/go-redis/v9"
)

const otpKeyPrefix = "otp:phone:"

// expiredRetention keeps an entry readable long past its expiry so the
// authenticator can tell "expired" apart from "never sent". The verify path
// deletes it once expiry is detected.
const expiredRetention = 24 * time.Hour

type OTPStore struct {
	client goredis.UniversalClient
}

func NewOTPStore(client goredis.UniversalClient) *OTPStore {
	return &OTPStore{client: client}
}

func otpKey(phone string) string {
	return otpKeyPrefix + phone
}

func keyTTL(ttl time.Duration) time.Duration {
	return ttl + expiredRetention
}

func (s *OTPStore) Put(ctx context.Context, phone string, entry domain.OTPEntry, ttl time.Duration) error {
	payload, err := json.Marshal(entry)
	if err != nil {
		return err
	}
	if err := s.client.Set(ctx, otpKey(phone), payload, keyTTL(ttl)).Err(); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrStorageUnavailable, err)
	}
	return nil
}

func (s *OTPStore) Get(ctx context.Context, phone string) (*domain.OTPEntry, error) {
	payload, err := s.client.Get(ctx, otpKey(phone)).Bytes()
	if errors.Is(err, goredis.Nil) {
		return nil, domain.ErrOTPNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrStorageUnavailable, err)
	}

	var entry domain.OTPEntry
	if err := json.Unmarshal(payload, &entry); err != nil {
		return nil, fmt.Errorf("decode otp entry: %w", err)
	}
	return &entry, nil
}

// Delete uses DEL's reply count so only one concurrent caller observes true.
func (s *OTPStore) Delete(ctx context.Context, phone string) (bool, error) {
	n, err := s.client.Del(ctx, otpKey(phone)).Result()
	if err != nil {
		return false, fmt.Errorf("%w: %v", domain.ErrStorageUnavailable, err)
	}
	return n > 0, nil
}

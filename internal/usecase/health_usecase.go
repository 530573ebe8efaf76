package usecase

import (
	"context"
	"time"
)

// HealthChecker pings one backing service.
type HealthChecker func(ctx context.Context) error

type HealthUsecase interface {
	Check(ctx context.Context) map[string]string
}

type healthUsecase struct {
	checks map[string]HealthChecker
}

// NewHealthUsecase reports on the named dependencies. A nil checker is
// reported as "disabled".
func NewHealthUsecase(checks map[string]HealthChecker) HealthUsecase {
	return &healthUsecase{checks: checks}
}

func (u *healthUsecase) Check(ctx context.Context) map[string]string {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	result := map[string]string{"status": "ok"}
	for name, check := range u.checks {
		switch {
		case check == nil:
			result[name] = "disabled"
		case check(ctx) != nil:
			result[name] = "unavailable"
			result["status"] = "degraded"
		default:
			result[name] = "connected"
		}
	}
	return result
}

package antivirus

import (
	"context"
	"errors"
)

// ErrScannerUnavailable is returned when the scan could not be completed.
var ErrScannerUnavailable = errors.New("antivirus scanner unavailable")

// ScanResult contains the result of a malware scan
type ScanResult struct {
	Infected    bool   // True if malware was detected
	ThreatName  string // Name of detected threat (empty if clean)
	ScannerName string
}

// Scanner checks an uploaded resume before it is scored or archived.
// A non-nil error means the verdict is unknown.
type Scanner interface {
	Scan(ctx context.Context, filename string, data []byte) (ScanResult, error)
	Name() string
}

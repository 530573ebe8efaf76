package antivirus

import (
	"bufio"
	"context"
	"encoding/binary"
	"fmt"
	"net"
	"strings"
	"time"
)

// clamd rejects chunks above StreamMaxLength; resumes are far below it
const maxChunk = 1 << 20

// ClamAVScanner streams uploads to a clamd daemon with zINSTREAM
type ClamAVScanner struct {
	address string // host:port or a unix socket path
	timeout time.Duration
	dialer  net.Dialer
}

var _ Scanner = (*ClamAVScanner)(nil)

// NewClamAVScanner creates a ClamAV scanner.
// address: TCP "localhost:3310" or Unix socket "/var/run/clamav/clamd.sock"
func NewClamAVScanner(address string, timeout time.Duration) *ClamAVScanner {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &ClamAVScanner{address: address, timeout: timeout}
}

func (c *ClamAVScanner) Name() string {
	return "clamav"
}

func (c *ClamAVScanner) network() string {
	if strings.HasPrefix(c.address, "/") {
		return "unix"
	}
	return "tcp"
}

// Ping checks that clamd answers PONG.
func (c *ClamAVScanner) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	conn, err := c.dialer.DialContext(ctx, c.network(), c.address)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrScannerUnavailable, err)
	}
	defer conn.Close()
	if deadline, ok := ctx.Deadline(); ok {
		_ = conn.SetDeadline(deadline)
	}

	if _, err := conn.Write([]byte("zPING\x00")); err != nil {
		return fmt.Errorf("%w: %v", ErrScannerUnavailable, err)
	}
	reply, err := bufio.NewReader(conn).ReadString(0)
	if err != nil && reply == "" {
		return fmt.Errorf("%w: %v", ErrScannerUnavailable, err)
	}
	if !strings.HasPrefix(reply, "PONG") {
		return fmt.Errorf("%w: unexpected reply %q", ErrScannerUnavailable, reply)
	}
	return nil
}

// Scan sends data in length-prefixed chunks and parses the verdict.
// Replies look like "stream: OK", "stream: Eicar-Signature FOUND" or
// "stream: <message> ERROR".
func (c *ClamAVScanner) Scan(ctx context.Context, filename string, data []byte) (ScanResult, error) {
	result := ScanResult{ScannerName: c.Name()}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	conn, err := c.dialer.DialContext(ctx, c.network(), c.address)
	if err != nil {
		return result, fmt.Errorf("%w: %v", ErrScannerUnavailable, err)
	}
	defer conn.Close()
	if deadline, ok := ctx.Deadline(); ok {
		_ = conn.SetDeadline(deadline)
	}

	w := bufio.NewWriter(conn)
	if _, err := w.WriteString("zINSTREAM\x00"); err != nil {
		return result, fmt.Errorf("failed to send command: %w", err)
	}

	var size [4]byte
	for start := 0; start < len(data); start += maxChunk {
		chunk := data[start:min(start+maxChunk, len(data))]
		binary.BigEndian.PutUint32(size[:], uint32(len(chunk)))
		if _, err := w.Write(size[:]); err != nil {
			return result, fmt.Errorf("failed to send chunk size: %w", err)
		}
		if _, err := w.Write(chunk); err != nil {
			return result, fmt.Errorf("failed to send %s: %w", filename, err)
		}
	}

	// zero-length chunk ends the stream
	binary.BigEndian.PutUint32(size[:], 0)
	if _, err := w.Write(size[:]); err != nil {
		return result, fmt.Errorf("failed to send end marker: %w", err)
	}
	if err := w.Flush(); err != nil {
		return result, fmt.Errorf("failed to flush stream: %w", err)
	}

	reply, err := bufio.NewReader(conn).ReadString(0)
	if err != nil && reply == "" {
		return result, fmt.Errorf("failed to read response: %w", err)
	}
	reply = strings.TrimSpace(strings.TrimRight(reply, "\x00"))

	switch {
	case strings.HasSuffix(reply, "FOUND"):
		result.Infected = true
		if _, threat, ok := strings.Cut(reply, ":"); ok {
			result.ThreatName = strings.TrimSpace(strings.TrimSuffix(threat, "FOUND"))
		}
	case strings.HasSuffix(reply, "ERROR"):
		return result, fmt.Errorf("scan error: %s", reply)
	case !strings.HasSuffix(reply, "OK"):
		return result, fmt.Errorf("unexpected clamd reply %q", reply)
	}
	return result, nil
}

package antivirus

import (
	"bufio"
	"bytes"
	"context"
	"encoding/binary"
	"errors"
	"io"
	"net"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeClamd answers one zPING or zINSTREAM per connection.
func fakeClamd(t *testing.T) string {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	t.Cleanup(func() { ln.Close() })

	go func() {
		for {
			conn, err := ln.Accept()
			if err != nil {
				return
			}
			go serveClamd(conn)
		}
	}()
	return ln.Addr().String()
}

func serveClamd(conn net.Conn) {
	defer conn.Close()
	r := bufio.NewReader(conn)
	cmd, err := r.ReadString(0)
	if err != nil {
		return
	}

	switch strings.TrimRight(cmd, "\x00") {
	case "zPING":
		conn.Write([]byte("PONG\x00"))
	case "zINSTREAM":
		var body bytes.Buffer
		var size [4]byte
		for {
			if _, err := io.ReadFull(r, size[:]); err != nil {
				return
			}
			n := binary.BigEndian.Uint32(size[:])
			if n == 0 {
				break
			}
			if _, err := io.CopyN(&body, r, int64(n)); err != nil {
				return
			}
		}
		if bytes.Contains(body.Bytes(), []byte("EICAR")) {
			conn.Write([]byte("stream: Eicar-Signature FOUND\x00"))
			return
		}
		conn.Write([]byte("stream: OK\x00"))
	}
}

func TestClamAVScanClean(t *testing.T) {
	scanner := NewClamAVScanner(fakeClamd(t), time.Second)

	require.NoError(t, scanner.Ping(context.Background()))

	result, err := scanner.Scan(context.Background(), "cv.pdf", []byte("%PDF-1.7 resume"))
	require.NoError(t, err)
	assert.False(t, result.Infected)
	assert.Equal(t, "clamav", result.ScannerName)
}

func TestClamAVScanInfected(t *testing.T) {
	scanner := NewClamAVScanner(fakeClamd(t), time.Second)

	// spans several chunks
	data := append(bytes.Repeat([]byte("a"), maxChunk+10), []byte("EICAR")...)
	result, err := scanner.Scan(context.Background(), "cv.pdf", data)
	require.NoError(t, err)
	assert.True(t, result.Infected)
	assert.Equal(t, "Eicar-Signature", result.ThreatName)
}

func TestClamAVUnreachable(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := ln.Addr().String()
	ln.Close()

	scanner := NewClamAVScanner(addr, 200*time.Millisecond)
	_, err = scanner.Scan(context.Background(), "cv.pdf", []byte("x"))
	assert.True(t, errors.Is(err, ErrScannerUnavailable))
	assert.ErrorIs(t, scanner.Ping(context.Background()), ErrScannerUnavailable)
}

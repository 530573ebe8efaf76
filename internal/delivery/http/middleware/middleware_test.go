package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"easemyform-backend/internal/domain"
	"easemyform-backend/pkg/apperror"
	"easemyform-backend/pkg/session"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type errorBody struct {
	Success bool              `json:"success"`
	Message string            `json:"message"`
	Error   map[string]string `json:"error"`
}

func serve(r *gin.Engine, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestErrorHandler(t *testing.T) {
	r := gin.New()
	r.Use(ErrorHandler())
	r.GET("/expired", func(c *gin.Context) {
		c.Error(apperror.BadRequest("OTP expired").WithReason(apperror.ReasonOTPExpired))
	})
	r.GET("/missing", func(c *gin.Context) {
		c.Error(fmt.Errorf("lookup: %w", domain.ErrNotFound))
	})
	r.GET("/storage", func(c *gin.Context) {
		c.Error(domain.ErrStorageUnavailable)
	})
	r.GET("/boom", func(c *gin.Context) {
		c.Error(errors.New("pq: connection refused at 10.0.0.5"))
	})

	tests := []struct {
		path   string
		code   int
		reason string
	}{
		{"/expired", http.StatusBadRequest, apperror.ReasonOTPExpired},
		{"/missing", http.StatusNotFound, ""},
		{"/storage", http.StatusInternalServerError, apperror.ReasonStorageUnavailable},
		{"/boom", http.StatusInternalServerError, ""},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			w := serve(r, httptest.NewRequest(http.MethodGet, tt.path, nil))
			assert.Equal(t, tt.code, w.Code)

			var body errorBody
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			assert.False(t, body.Success)
			assert.Equal(t, tt.reason, body.Error["reason"])
			assert.NotContains(t, w.Body.String(), "10.0.0.5")
		})
	}
}

func TestRequestID(t *testing.T) {
	r := gin.New()
	r.Use(RequestID())
	r.GET("/", func(c *gin.Context) {
		c.String(http.StatusOK, c.GetString("RequestID"))
	})

	w := serve(r, httptest.NewRequest(http.MethodGet, "/", nil))
	generated := w.Header().Get("X-Request-ID")
	_, err := uuid.Parse(generated)
	require.NoError(t, err)
	assert.Equal(t, generated, w.Body.String())

	incoming := uuid.NewString()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Request-ID", incoming)
	assert.Equal(t, incoming, serve(r, req).Header().Get("X-Request-ID"))

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Request-ID", "<script>")
	assert.NotEqual(t, "<script>", serve(r, req).Header().Get("X-Request-ID"))
}

type recordingAuditor struct {
	denied []string
}

func (a *recordingAuditor) LogAdminDenied(ctx context.Context, userID, ip, requestID, endpoint string) {
	a.denied = append(a.denied, userID+" "+endpoint)
}

func TestSessionAndAdminGuards(t *testing.T) {
	m, err := session.NewManager(session.Config{Secret: "middleware-test"})
	require.NoError(t, err)
	auditor := &recordingAuditor{}

	r := gin.New()
	r.Use(Session(m))
	r.GET("/whoami", func(c *gin.Context) {
		c.String(http.StatusOK, c.GetString(string(domain.KeyUserID)))
	})
	r.GET("/admin", RequireAdmin(auditor), func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})

	withCookie := func(path string, id session.Identity) *httptest.ResponseRecorder {
		token, _, err := m.Issue(id)
		require.NoError(t, err)
		req := httptest.NewRequest(http.MethodGet, path, nil)
		req.AddCookie(&http.Cookie{Name: m.CookieName(), Value: token})
		return serve(r, req)
	}

	w := serve(r, httptest.NewRequest(http.MethodGet, "/whoami", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, w.Body.String())

	w = withCookie("/whoami", session.Identity{UserID: "u1", Phone: "+911234567890"})
	assert.Equal(t, "u1", w.Body.String())

	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.AddCookie(&http.Cookie{Name: m.CookieName(), Value: "garbage"})
	w = serve(r, req)
	assert.Empty(t, w.Body.String())
	require.NotEmpty(t, w.Result().Cookies())
	assert.Negative(t, w.Result().Cookies()[0].MaxAge)

	w = serve(r, httptest.NewRequest(http.MethodGet, "/admin", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = withCookie("/admin", session.Identity{UserID: "u1", Phone: "+911234567890"})
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, []string{"u1 /admin"}, auditor.denied)

	w = withCookie("/admin", session.Identity{UserID: "a1", Phone: "+917697470397", IsAdmin: true})
	assert.Equal(t, http.StatusNoContent, w.Code)
}

func TestRateLimitInMemory(t *testing.T) {
	cfg := GlobalRateLimitConfig(2, time.Minute)
	cfg.KeyPrefix = "rl:test:" + uuid.NewString() + ":"

	r := gin.New()
	r.Use(RateLimitMiddleware(cfg))
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	for i := 0; i < 2; i++ {
		w := serve(r, httptest.NewRequest(http.MethodGet, "/", nil))
		require.Equal(t, http.StatusOK, w.Code)
	}

	w := serve(r, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.NotEmpty(t, w.Header().Get("Retry-After"))
	assert.Equal(t, "0", w.Header().Get("X-RateLimit-Remaining"))
}

func TestOTPPhoneRateLimit(t *testing.T) {
	cfg := OTPPhoneRateLimitConfig(2, time.Minute)
	cfg.KeyPrefix = "rl:test:" + uuid.NewString() + ":"

	r := gin.New()
	r.Use(RateLimitMiddleware(cfg))
	r.POST("/send-otp", func(c *gin.Context) {
		var req struct {
			PhoneNumber string `json:"phone_number"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.Status(http.StatusBadRequest)
			return
		}
		c.String(http.StatusOK, req.PhoneNumber)
	})

	send := func(ip, body string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/send-otp", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		req.RemoteAddr = ip + ":1234"
		return serve(r, req)
	}

	w := send("10.0.0.1", `{"phone_number":"+91 98765-43210"}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "+91 98765-43210", w.Body.String(), "handler still sees the body")
	require.Equal(t, http.StatusOK, send("10.0.0.2", `{"phone_number":"+919876543210"}`).Code)

	w = send("10.0.0.3", `{"phone_number":"+91-9876543210"}`)
	assert.Equal(t, http.StatusTooManyRequests, w.Code)

	assert.Equal(t, http.StatusOK, send("10.0.0.3", `{"phone_number":"+15551234567"}`).Code)
	for i := 0; i < 3; i++ {
		assert.Equal(t, http.StatusBadRequest, send("10.0.0.3", `not json`).Code)
	}
}

func TestRateLimitDisabled(t *testing.T) {
	r := gin.New()
	r.Use(RateLimitMiddleware(GlobalRateLimitConfig(0, time.Minute)))
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	for i := 0; i < 5; i++ {
		w := serve(r, httptest.NewRequest(http.MethodGet, "/", nil))
		require.Equal(t, http.StatusOK, w.Code)
		assert.Empty(t, w.Header().Get("X-RateLimit-Limit"))
	}
}

func TestMemoryWindowResets(t *testing.T) {
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	w := newMemoryWindow()
	w.now = func() time.Time { return now }

	for want := 1; want <= 3; want++ {
		count, resetAt, err := w.hit(context.Background(), "k", time.Minute)
		require.NoError(t, err)
		assert.Equal(t, want, count)
		assert.Equal(t, now.Add(time.Minute), resetAt)
	}

	now = now.Add(61 * time.Second)
	count, _, err := w.hit(context.Background(), "k", time.Minute)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestSecurityHeaders(t *testing.T) {
	r := gin.New()
	r.Use(SecurityHeadersMiddleware(true, "session"))
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := serve(r, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, "nosniff", w.Header().Get("X-Content-Type-Options"))
	assert.Contains(t, w.Header().Get("Strict-Transport-Security"), "max-age=")
	assert.Empty(t, w.Header().Get("Cache-Control"))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: "session", Value: "x"})
	assert.Contains(t, serve(r, req).Header().Get("Cache-Control"), "no-store")
}

// Package session issues and verifies the signed session cookie that
// identifies a logged-in phone number.
package session

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

const DefaultCookieName = "session"

var ErrInvalidSession = errors.New("invalid or expired session")

// Identity is the authenticated caller carried by a session.
type Identity struct {
	UserID  string
	Phone   string
	IsAdmin bool
}

type Config struct {
	Secret     string
	TTL        time.Duration
	CookieName string
	Secure     bool
}

type claims struct {
	Phone string `json:"phone"`
	Admin bool   `json:"admin"`
	jwt.RegisteredClaims
}

// Manager signs sessions with HS256.
type Manager struct {
	secret     []byte
	ttl        time.Duration
	cookieName string
	secure     bool
	now        func() time.Time
}

func NewManager(cfg Config) (*Manager, error) {
	if cfg.Secret == "" {
		return nil, errors.New("session secret is required")
	}
	if cfg.TTL <= 0 {
		cfg.TTL = 7 * 24 * time.Hour
	}
	if cfg.CookieName == "" {
		cfg.CookieName = DefaultCookieName
	}
	return &Manager{
		secret:     []byte(cfg.Secret),
		ttl:        cfg.TTL,
		cookieName: cfg.CookieName,
		secure:     cfg.Secure,
		now:        time.Now,
	}, nil
}

func (m *Manager) CookieName() string {
	return m.cookieName
}

// Issue signs a token for id and returns it with its expiry.
func (m *Manager) Issue(id Identity) (string, time.Time, error) {
	now := m.now()
	expires := now.Add(m.ttl)
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims{
		Phone: id.Phone,
		Admin: id.IsAdmin,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   id.UserID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expires),
		},
	})
	signed, err := token.SignedString(m.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to sign session: %w", err)
	}
	return signed, expires, nil
}

// Parse verifies signature and expiry. Any failure yields ErrInvalidSession.
func (m *Manager) Parse(tokenString string) (*Identity, error) {
	var c claims
	token, err := jwt.ParseWithClaims(tokenString, &c, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return m.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(m.now),
	)
	if err != nil || !token.Valid || c.Subject == "" {
		return nil, ErrInvalidSession
	}
	return &Identity{UserID: c.Subject, Phone: c.Phone, IsAdmin: c.Admin}, nil
}

// SetCookie writes the session cookie. It is HttpOnly and SameSite=Lax.
func (m *Manager) SetCookie(c *gin.Context, token string, expires time.Time) {
	maxAge := int(expires.Sub(m.now()).Seconds())
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(m.cookieName, token, maxAge, "/", "", m.secure, true)
}

// ClearCookie expires the session cookie on the client.
func (m *Manager) ClearCookie(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(m.cookieName, "", -1, "/", "", m.secure, true)
}

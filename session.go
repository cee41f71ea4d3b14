package passquiz

import (
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v4"
)

const (
	SessionCookieName = "session"
	SessionTTL        = 24 * time.Hour
)

// SessionClaims is the signed content of a session token
type SessionClaims struct {
	Name     string `json:"name"`
	IsAuthed bool   `json:"isAuthed"`
	jwt.RegisteredClaims
}

// SessionManager issues and verifies stateless session tokens
type SessionManager struct {
	secret []byte
	ttl    time.Duration
	secure bool
	now    func() time.Time
}

// NewSessionManager creates a manager signing with secret. secure marks
// cookies Secure and should be set in production.
func NewSessionManager(secret []byte, secure bool) (*SessionManager, error) {
	if len(secret) == 0 {
		return nil, errors.New("session secret is required")
	}
	return &SessionManager{
		secret: secret,
		ttl:    SessionTTL,
		secure: secure,
		now:    time.Now,
	}, nil
}

// Secure reports whether cookies are issued with the Secure attribute
func (m *SessionManager) Secure() bool {
	return m.secure
}

// CreateSession signs data into a token that expires after 24 hours
func (m *SessionManager) CreateSession(data SessionData) (string, error) {
	now := m.now()
	claims := &SessionClaims{
		Name:     data.Name,
		IsAuthed: data.IsAuthed,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(m.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign session token: %w", err)
	}
	return signed, nil
}

// GetSession verifies token and returns its data, or nil when the token is
// missing, malformed, expired or tampered with.
func (m *SessionManager) GetSession(token string) *SessionData {
	if token == "" || !canonicalSegments(token) {
		return nil
	}

	claims := &SessionClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return m.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		VerboseLog("Rejected session token: %v", err)
		return nil
	}
	if !parsed.Valid || claims.ExpiresAt == nil {
		return nil
	}

	return &SessionData{Name: claims.Name, IsAuthed: claims.IsAuthed}
}

// SessionFromRequest reads and verifies the session cookie
func (m *SessionManager) SessionFromRequest(r *http.Request) *SessionData {
	cookie, err := r.Cookie(SessionCookieName)
	if err != nil {
		return nil
	}
	return m.GetSession(cookie.Value)
}

// SetSessionCookie stores token in the session cookie
func (m *SessionManager) SetSessionCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(m.ttl / time.Second),
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// ClearSession removes the session cookie from the client
func (m *SessionManager) ClearSession(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// canonicalSegments reports whether token has three strictly encoded base64url
// segments. Lenient decoding would ignore trailing bits of the last character,
// letting some single-character edits verify.
func canonicalSegments(token string) bool {
	parts := strings.Split(token, ".")
	if len(parts) != 3 {
		return false
	}
	for _, p := range parts {
		if p == "" {
			return false
		}
		if _, err := base64.RawURLEncoding.Strict().DecodeString(p); err != nil {
			return false
		}
	}
	return true
}

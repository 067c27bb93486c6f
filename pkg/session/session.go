package session

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// CookieName is the cookie carrying the session token
const CookieName = "session"

// ErrNoSession is returned when a request carries no session token
var ErrNoSession = errors.New("no session")

// ErrInvalidSession is returned when a token is malformed, expired or badly signed
var ErrInvalidSession = errors.New("invalid session")

// Session is the signed-in user as seen by the dashboard
type Session struct {
	UserID        string
	PerformerID   string
	PerformerName string
	Developer     bool
}

// CurrentUser returns the signed-in user id
func (s Session) CurrentUser() string {
	return s.UserID
}

// GetPerformerID returns the performer the user acts for
func (s Session) GetPerformerID() string {
	return s.PerformerID
}

// IsDeveloper reports whether the user may see every performer's ads
func (s Session) IsDeveloper() bool {
	return s.Developer
}

type claims struct {
	PerformerID   string `json:"pid,omitempty"`
	PerformerName string `json:"pname,omitempty"`
	Developer     bool   `json:"dev,omitempty"`
	jwt.RegisteredClaims
}

// Codec signs and verifies session tokens
type Codec struct {
	key []byte
	ttl time.Duration
	now func() time.Time
}

// NewCodec creates a codec signing with secret. Tokens live for ttl.
func NewCodec(secret string, ttl time.Duration) *Codec {
	return &Codec{
		key: []byte(secret),
		ttl: ttl,
		now: time.Now,
	}
}

// Encode signs a token for s
func (c *Codec) Encode(s Session) (string, error) {
	if s.UserID == "" {
		return "", fmt.Errorf("encode session: user id is required")
	}
	now := c.now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims{
		PerformerID:   s.PerformerID,
		PerformerName: s.PerformerName,
		Developer:     s.Developer,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   s.UserID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(c.ttl)),
		},
	})

	signed, err := token.SignedString(c.key)
	if err != nil {
		return "", fmt.Errorf("encode session: %w", err)
	}
	return signed, nil
}

// Decode verifies token and returns its session
func (c *Codec) Decode(token string) (Session, error) {
	var parsed claims
	_, err := jwt.ParseWithClaims(token, &parsed, func(*jwt.Token) (any, error) {
		return c.key, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(c.now),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return Session{}, fmt.Errorf("%w: %v", ErrInvalidSession, err)
	}
	if parsed.Subject == "" {
		return Session{}, fmt.Errorf("%w: missing subject", ErrInvalidSession)
	}

	return Session{
		UserID:        parsed.Subject,
		PerformerID:   parsed.PerformerID,
		PerformerName: parsed.PerformerName,
		Developer:     parsed.Developer,
	}, nil
}

// FromRequest reads the session from the session cookie or a bearer Authorization header.
// The raw token is returned alongside so it can be forwarded to the ads API.
func (c *Codec) FromRequest(r *http.Request) (Session, string, error) {
	token := ""
	if cookie, err := r.Cookie(CookieName); err == nil {
		token = cookie.Value
	} else if auth := r.Header.Get("Authorization"); strings.HasPrefix(auth, "Bearer ") {
		token = strings.TrimPrefix(auth, "Bearer ")
	}
	if token == "" {
		return Session{}, "", ErrNoSession
	}

	s, err := c.Decode(token)
	if err != nil {
		return Session{}, "", err
	}
	return s, token, nil
}

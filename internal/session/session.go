// Package session issues and checks login tokens. A Context is built once
// per request from a verified token and never mutated afterwards.
package session

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"mykhata/internal/models"
)

const issuer = "mykhata-api"

// State is the login state of a session.
type State int

const (
	LoggedOut State = iota
	LoggedIn
)

func (s State) String() string {
	if s == LoggedIn {
		return "logged_in"
	}
	return "logged_out"
}

// Context describes who is making a request.
type Context struct {
	Username       string
	Role           models.Role
	ParentUsername string
	TokenID        string
	ExpiresAt      time.Time
	State          State
}

// Anonymous is the context of a request without a valid token.
func Anonymous() Context {
	return Context{State: LoggedOut}
}

// LoggedIn reports whether the context carries an authenticated user.
func (c Context) LoggedIn() bool {
	return c.State == LoggedIn && c.Username != ""
}

// Claims are the JWT claims carried by a session token.
type Claims struct {
	Username       string `json:"username"`
	Role           string `json:"role"`
	ParentUsername string `json:"parent_username,omitempty"`
	jwt.RegisteredClaims
}

// ErrInvalidToken is returned for malformed, expired, foreign or revoked tokens.
var ErrInvalidToken = errors.New("invalid or expired token")

// Manager signs tokens and remembers which ones were logged out.
type Manager struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time

	mu      sync.Mutex
	revoked map[string]time.Time
}

// NewManager returns a Manager signing with secret; tokens live for ttl.
func NewManager(secret string, ttl time.Duration) *Manager {
	return &Manager{
		secret:  []byte(secret),
		ttl:     ttl,
		now:     time.Now,
		revoked: make(map[string]time.Time),
	}
}

// Issue signs a token for user and returns it with the matching context.
func (m *Manager) Issue(user *models.User) (string, Context, error) {
	now := m.now()
	ctx := Context{
		Username:       user.Username,
		Role:           user.Role,
		ParentUsername: user.ParentUsername,
		TokenID:        uuid.New().String(),
		ExpiresAt:      now.Add(m.ttl),
		State:          LoggedIn,
	}

	claims := &Claims{
		Username:       ctx.Username,
		Role:           string(ctx.Role),
		ParentUsername: ctx.ParentUsername,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        ctx.TokenID,
			ExpiresAt: jwt.NewNumericDate(ctx.ExpiresAt),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			Issuer:    issuer,
			Subject:   ctx.Username,
		},
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
	if err != nil {
		return "", Context{}, fmt.Errorf("sign token: %w", err)
	}
	return token, ctx, nil
}

// Parse verifies token and builds its context.
func (m *Manager) Parse(token string) (Context, error) {
	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return m.secret, nil
	},
		jwt.WithIssuer(issuer),
		jwt.WithTimeFunc(m.now),
	)
	if err != nil || !parsed.Valid || claims.Username == "" || claims.ID == "" {
		return Anonymous(), ErrInvalidToken
	}
	if m.isRevoked(claims.ID) {
		return Anonymous(), ErrInvalidToken
	}

	ctx := Context{
		Username:       claims.Username,
		Role:           models.Role(claims.Role),
		ParentUsername: claims.ParentUsername,
		TokenID:        claims.ID,
		State:          LoggedIn,
	}
	if claims.ExpiresAt != nil {
		ctx.ExpiresAt = claims.ExpiresAt.Time
	}
	return ctx, nil
}

// Revoke logs ctx out; its token is rejected from now on.
func (m *Manager) Revoke(ctx Context) {
	if ctx.TokenID == "" {
		return
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	for id, exp := range m.revoked {
		if now.After(exp) {
			delete(m.revoked, id)
		}
	}
	m.revoked[ctx.TokenID] = ctx.ExpiresAt
}

func (m *Manager) isRevoked(id string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.revoked[id]
	return ok
}

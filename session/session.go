// Package session derives the local authentication state from the bearer
// token kept in a token store.
package session

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"strings"

	"github.com/dgrijalva/jwt-go"
	kitjwt "github.com/go-kit/kit/auth/jwt"
	"github.com/go-kit/kit/log"
	"github.com/go-kit/kit/log/level"
	"github.com/ichigozero/taskdash"
	"github.com/ichigozero/taskdash/session/tokenstore"
)

// TokenKey is the store key holding the bearer token.
const TokenKey = "token"

var (
	ErrNoStore        = errors.New("no token store available")
	ErrMalformedToken = errors.New("token is not header.payload.signature")
	ErrNoSubject      = errors.New("token payload has no sub claim")
)

// Manager reads and writes the session token. A Manager with a nil store
// behaves as if no token was ever stored.
type Manager struct {
	store  tokenstore.Store
	logger log.Logger
}

func New(store tokenstore.Store, logger log.Logger) *Manager {
	return &Manager{store: store, logger: logger}
}

// Token returns the stored bearer token.
func (m *Manager) Token() (string, bool) {
	if m.store == nil {
		return "", false
	}
	b, err := m.store.Get(TokenKey)
	if err != nil {
		if !errors.Is(err, tokenstore.ErrKeyNotFound) {
			level.Debug(m.logger).Log("msg", "cannot read token", "err", err)
		}
		return "", false
	}
	if len(b) == 0 {
		return "", false
	}
	return string(b), true
}

// IsAuthenticated reports whether a token is stored. The token is neither
// parsed nor checked.
func (m *Manager) IsAuthenticated() bool {
	_, ok := m.Token()
	return ok
}

// ResolveUserID returns the sub claim of the stored token.
//
// The signature is not verified: the result is an untrusted hint used to
// address the caller's own resources. The backend authenticates the bearer
// on every request, and the result must not be used to authorize anything
// locally. Any failure yields false.
func (m *Manager) ResolveUserID() (taskdash.UserID, bool) {
	token, ok := m.Token()
	if !ok {
		return taskdash.UserID{}, false
	}

	id, err := UserIDFromToken(token)
	if err != nil {
		level.Debug(m.logger).Log("msg", "cannot resolve user from token", "err", err)
		return taskdash.UserID{}, false
	}
	return id, true
}

func (m *Manager) SignIn(token string) error {
	if m.store == nil {
		return ErrNoStore
	}
	return m.store.Put(TokenKey, []byte(token))
}

func (m *Manager) SignOut() error {
	if m.store == nil {
		return nil
	}
	return m.store.Delete(TokenKey)
}

// Context returns ctx carrying the stored token for kitjwt.ContextToHTTP, so
// resource calls made with it send "Authorization: Bearer <token>".
func (m *Manager) Context(ctx context.Context) context.Context {
	token, ok := m.Token()
	if !ok {
		return ctx
	}
	return context.WithValue(ctx, kitjwt.JWTContextKey, token)
}

// UserIDFromToken decodes the payload segment of a JWT-shaped token and
// returns its sub claim verbatim. Nothing is verified.
func UserIDFromToken(token string) (taskdash.UserID, error) {
	parts := strings.Split(token, ".")
	if len(parts) < 2 || parts[1] == "" {
		return taskdash.UserID{}, ErrMalformedToken
	}

	payload, err := decodeSegment(parts[1])
	if err != nil {
		return taskdash.UserID{}, err
	}

	var claims map[string]json.RawMessage
	if err := json.Unmarshal(payload, &claims); err != nil {
		return taskdash.UserID{}, err
	}

	raw, ok := claims["sub"]
	if !ok {
		return taskdash.UserID{}, ErrNoSubject
	}
	var id taskdash.UserID
	if err := id.UnmarshalJSON(raw); err != nil {
		return taskdash.UserID{}, err
	}
	if id.IsZero() {
		return taskdash.UserID{}, ErrNoSubject
	}
	return id, nil
}

// decodeSegment accepts the JWT URL alphabet with or without padding and,
// for tokens produced by lenient encoders, the standard alphabet.
func decodeSegment(seg string) ([]byte, error) {
	b, err := jwt.DecodeSegment(seg)
	if err == nil {
		return b, nil
	}
	if b, err := base64.RawStdEncoding.DecodeString(strings.TrimRight(seg, "=")); err == nil {
		return b, nil
	}
	return nil, err
}

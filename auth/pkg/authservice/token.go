package authservice

import (
	"time"

	"github.com/dgrijalva/jwt-go"
	"github.com/ichigozero/taskdash/auth"
	"github.com/twinj/uuid"
)

// Tokenizer issues access tokens for the stub backend.
type Tokenizer interface {
	Generate(u auth.User) (string, error)
}

type tokenizer struct {
	secret []byte
}

func NewTokenizer(secret string) Tokenizer {
	return &tokenizer{secret: []byte(secret)}
}

var uuidV4 = uuid.NewV4

func (t *tokenizer) Generate(u auth.User) (string, error) {
	now := time.Now()

	claims := jwt.MapClaims{
		"sub":   u.ID,
		"email": u.Email,
		"jti":   uuidV4().String(),
		"iat":   now.Unix(),
		"exp":   now.Add(AccessTokenExpiry()).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(t.secret)
}

func AccessTokenExpiry() time.Duration {
	return time.Hour * 24
}

package auth

import (
	"errors"
	"os"
)

var (
	AccessSecret = getEnv("ACCESS_SECRET", "access-secret")
)

func getEnv(key, fallback string) string {
	value, exists := os.LookupEnv(key)
	if !exists {
		value = fallback
	}
	return value
}

type User struct {
	ID    uint64 `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

type UserRepository interface {
	Create(name, email, passwordHash string) (User, error)
	FindByEmail(email string) (User, string, error)
}

var (
	ErrInvalidArgument    = errors.New("invalid argument")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrEmailTaken         = errors.New("email is already registered")
	ErrUserNotFound       = errors.New("user not found")
	ErrNoAccessToken      = errors.New("login response carries no access token")
)

// Package tokenstore keeps small values, such as the session bearer token,
// across process restarts.
package tokenstore

import "errors"

type Store interface {
	Get(key string) ([]byte, error)
	Put(key string, value []byte) error
	Delete(key string) error
}

// ErrKeyNotFound is returned by Get for a key that was never put or has been
// deleted. Deleting a missing key is not an error.
var ErrKeyNotFound = errors.New("key not found")

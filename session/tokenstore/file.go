package tokenstore

import (
	"errors"
	"io/fs"
	"io/ioutil"
	"os"
	"path/filepath"
	"strings"

	"github.com/gorilla/securecookie"
)

const keysFile = ".keys"

type fileStore struct {
	dir   string
	codec *securecookie.SecureCookie
}

// NewFileStore returns a Store keeping one file per key in dir. Values are
// authenticated and encrypted with securecookie; the keys are generated on
// first use and kept next to the values.
func NewFileStore(dir string) (Store, error) {
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, err
	}

	hashKey, blockKey, err := loadKeys(filepath.Join(dir, keysFile))
	if err != nil {
		return nil, err
	}

	codec := securecookie.New(hashKey, blockKey)
	codec.MaxAge(0)
	codec.MaxLength(0)

	return &fileStore{dir: dir, codec: codec}, nil
}

func loadKeys(path string) (hashKey, blockKey []byte, err error) {
	b, err := ioutil.ReadFile(path)
	if err == nil && len(b) == 64+32 {
		return b[:64], b[64:], nil
	}
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, nil, err
	}

	hashKey = securecookie.GenerateRandomKey(64)
	blockKey = securecookie.GenerateRandomKey(32)
	if hashKey == nil || blockKey == nil {
		return nil, nil, errors.New("cannot generate token store keys")
	}
	if err := writeAtomic(path, append(append([]byte(nil), hashKey...), blockKey...)); err != nil {
		return nil, nil, err
	}
	return hashKey, blockKey, nil
}

func (s *fileStore) path(key string) string {
	return filepath.Join(s.dir, strings.ReplaceAll(key, string(filepath.Separator), "_"))
}

func (s *fileStore) Get(key string) ([]byte, error) {
	b, err := ioutil.ReadFile(s.path(key))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, ErrKeyNotFound
	}
	if err != nil {
		return nil, err
	}

	var value []byte
	if err := s.codec.Decode(key, strings.TrimSpace(string(b)), &value); err != nil {
		return nil, err
	}
	return value, nil
}

func (s *fileStore) Put(key string, value []byte) error {
	encoded, err := s.codec.Encode(key, value)
	if err != nil {
		return err
	}
	return writeAtomic(s.path(key), []byte(encoded))
}

func (s *fileStore) Delete(key string) error {
	err := os.Remove(s.path(key))
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return err
}

// writeAtomic replaces path so readers see either the old or the new content.
func writeAtomic(path string, data []byte) error {
	f, err := ioutil.TempFile(filepath.Dir(path), ".tmp-*")
	if err != nil {
		return err
	}
	defer os.Remove(f.Name())

	if _, err := f.Write(data); err != nil {
		f.Close()
		return err
	}
	if err := f.Chmod(0o600); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	return os.Rename(f.Name(), path)
}

package tokenstore

import "sync"

type memoryStore struct {
	mtx    sync.RWMutex
	values map[string][]byte
}

// NewMemoryStore returns a Store that forgets everything on exit.
func NewMemoryStore() Store {
	return &memoryStore{values: map[string][]byte{}}
}

func (s *memoryStore) Get(key string) ([]byte, error) {
	s.mtx.RLock()
	defer s.mtx.RUnlock()

	v, ok := s.values[key]
	if !ok {
		return nil, ErrKeyNotFound
	}
	return append([]byte(nil), v...), nil
}

func (s *memoryStore) Put(key string, value []byte) error {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	s.values[key] = append([]byte(nil), value...)
	return nil
}

func (s *memoryStore) Delete(key string) error {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	delete(s.values, key)
	return nil
}

package tokenstore

import (
	consul "github.com/hashicorp/consul/api"
)

// DefaultConsulPrefix namespaces keys in the consul KV store.
const DefaultConsulPrefix = "taskdash/"

type consulStore struct {
	consul *consul.Client
	prefix string
}

// NewConsulStore returns a Store backed by the consul KV API. Keys are
// stored under prefix.
func NewConsulStore(c *consul.Client, prefix string) Store {
	return &consulStore{consul: c, prefix: prefix}
}

func (s *consulStore) Get(key string) ([]byte, error) {
	kv, _, err := s.consul.KV().Get(s.prefix+key, nil)
	if err != nil {
		return nil, err
	}

	if kv == nil {
		return nil, ErrKeyNotFound
	}

	return kv.Value, nil
}

func (s *consulStore) Put(key string, value []byte) error {
	p := &consul.KVPair{Key: s.prefix + key, Value: value}
	_, err := s.consul.KV().Put(p, nil)

	return err
}

func (s *consulStore) Delete(key string) error {
	_, err := s.consul.KV().Delete(s.prefix+key, nil)

	return err
}

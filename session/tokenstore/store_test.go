package tokenstore

import (
	"bytes"
	"encoding/json"
	"errors"
	"io/ioutil"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	consul "github.com/hashicorp/consul/api"
)

func testStore(t *testing.T, s Store) {
	t.Helper()

	if _, err := s.Get("token"); !errors.Is(err, ErrKeyNotFound) {
		t.Fatalf("Get on empty store: want ErrKeyNotFound, have %v", err)
	}

	if err := s.Put("token", []byte("a.b.c")); err != nil {
		t.Fatalf("Put: %v", err)
	}
	have, err := s.Get("token")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if want := []byte("a.b.c"); !bytes.Equal(want, have) {
		t.Errorf("Get: want %q, have %q", want, have)
	}

	if err := s.Put("token", []byte("d.e.f")); err != nil {
		t.Fatalf("Put overwrite: %v", err)
	}
	if have, _ := s.Get("token"); string(have) != "d.e.f" {
		t.Errorf("Get after overwrite: have %q", have)
	}

	if err := s.Delete("token"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := s.Get("token"); !errors.Is(err, ErrKeyNotFound) {
		t.Errorf("Get after Delete: want ErrKeyNotFound, have %v", err)
	}
	if err := s.Delete("token"); err != nil {
		t.Errorf("Delete of missing key: %v", err)
	}
}

func TestMemoryStore(t *testing.T) {
	testStore(t, NewMemoryStore())
}

func TestMemoryStoreCopiesValues(t *testing.T) {
	s := NewMemoryStore()
	v := []byte("token")
	s.Put("k", v)
	v[0] = 'X'

	have, _ := s.Get("k")
	if string(have) != "token" {
		t.Errorf("stored value changed with the caller's slice: %q", have)
	}
}

func TestFileStore(t *testing.T) {
	s, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	testStore(t, s)
}

func TestFileStoreSurvivesReopen(t *testing.T) {
	dir := t.TempDir()

	s, err := NewFileStore(dir)
	if err != nil {
		t.Fatal(err)
	}
	if err := s.Put("token", []byte("header.payload.sig")); err != nil {
		t.Fatal(err)
	}

	reopened, err := NewFileStore(dir)
	if err != nil {
		t.Fatal(err)
	}
	have, err := reopened.Get("token")
	if err != nil {
		t.Fatalf("Get after reopen: %v", err)
	}
	if string(have) != "header.payload.sig" {
		t.Errorf("want %q, have %q", "header.payload.sig", have)
	}

	raw, err := ioutil.ReadFile(filepath.Join(dir, "token"))
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(string(raw), "header.payload.sig") {
		t.Error("token is stored in clear text")
	}

	info, err := os.Stat(filepath.Join(dir, "token"))
	if err != nil {
		t.Fatal(err)
	}
	if perm := info.Mode().Perm(); perm != 0o600 {
		t.Errorf("file mode: want 0600, have %o", perm)
	}
}

func TestFileStoreRejectsTampering(t *testing.T) {
	dir := t.TempDir()
	s, err := NewFileStore(dir)
	if err != nil {
		t.Fatal(err)
	}
	if err := ioutil.WriteFile(filepath.Join(dir, "token"), []byte("not-a-valid-value"), 0o600); err != nil {
		t.Fatal(err)
	}

	if _, err := s.Get("token"); err == nil || errors.Is(err, ErrKeyNotFound) {
		t.Errorf("want a decode error, have %v", err)
	}
}

// fakeKV implements the subset of the consul KV HTTP API used by the store.
type fakeKV struct {
	mtx    sync.Mutex
	values map[string][]byte
}

func (f *fakeKV) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mtx.Lock()
	defer f.mtx.Unlock()

	key := strings.TrimPrefix(r.URL.Path, "/v1/kv/")
	w.Header().Set("X-Consul-Index", "1")
	w.Header().Set("X-Consul-LastContact", "0")
	w.Header().Set("X-Consul-KnownLeader", "true")

	switch r.Method {
	case http.MethodGet:
		v, ok := f.values[key]
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		b, _ := json.Marshal([]*consul.KVPair{{Key: key, Value: v}})
		w.Write(b)
	case http.MethodPut:
		b, _ := ioutil.ReadAll(r.Body)
		f.values[key] = b
		w.Write([]byte("true"))
	case http.MethodDelete:
		delete(f.values, key)
		w.Write([]byte("true"))
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func TestConsulStore(t *testing.T) {
	kv := &fakeKV{values: map[string][]byte{}}
	srv := httptest.NewServer(kv)
	defer srv.Close()

	c, err := consul.NewClient(&consul.Config{
		Address: strings.TrimPrefix(srv.URL, "http://"),
		Scheme:  "http",
	})
	if err != nil {
		t.Fatal(err)
	}

	s := NewConsulStore(c, DefaultConsulPrefix)
	testStore(t, s)

	s.Put("token", []byte("x"))
	if _, ok := kv.values["taskdash/token"]; !ok {
		t.Errorf("key not stored under prefix; keys: %v", kv.values)
	}
}

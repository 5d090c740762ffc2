package authtransport_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/go-kit/kit/log"
	"github.com/ichigozero/taskdash"
	"github.com/ichigozero/taskdash/auth"
	"github.com/ichigozero/taskdash/auth/pkg/authtransport"
	"github.com/ichigozero/taskdash/internal/apitest"
	"github.com/ichigozero/taskdash/session"
)

func TestLoginAndRegister(t *testing.T) {
	srv := apitest.NewServer(t)
	svc, err := authtransport.NewHTTPClient(srv.URL, nil, log.NewNopLogger())
	if err != nil {
		t.Fatal(err)
	}
	ctx := context.Background()

	u, err := svc.Register(ctx, "Ann", "Ann@Example.com ", "Passw0rd!")
	if err != nil {
		t.Fatal(err)
	}
	if u.Email != "ann@example.com" || u.ID == 0 {
		t.Errorf("unexpected user %+v", u)
	}

	if _, err := svc.Register(ctx, "Ann", "ann@example.com", "Passw0rd!"); !taskdash.IsConflict(err) {
		t.Errorf("duplicate email: want 409, have %v", err)
	}
	if _, err := svc.Register(ctx, "", "", ""); taskdash.StatusCode(err) != http.StatusBadRequest {
		t.Errorf("empty form: want 400, have %v", err)
	}

	token, err := svc.Login(ctx, "ann@example.com", "Passw0rd!")
	if err != nil {
		t.Fatal(err)
	}
	id, err := session.UserIDFromToken(token)
	if err != nil {
		t.Fatal(err)
	}
	if want := strconv.FormatUint(u.ID, 10); id.String() != want {
		t.Errorf("token subject: want %d, have %s", u.ID, id)
	}

	if _, err := svc.Login(ctx, "ann@example.com", "wrong"); taskdash.StatusCode(err) != http.StatusUnauthorized {
		t.Errorf("bad password: want 401, have %v", err)
	}
	if _, err := svc.Login(ctx, "bob@example.com", "Passw0rd!"); taskdash.StatusCode(err) != http.StatusUnauthorized {
		t.Errorf("unknown user: want 401, have %v", err)
	}
}

func TestRegisterAcceptsPlainBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte("User registered"))
	}))
	defer srv.Close()

	svc, _ := authtransport.NewHTTPClient(srv.URL, nil, log.NewNopLogger())
	if _, err := svc.Register(context.Background(), "Ann", "ann@example.com", "Passw0rd!"); err != nil {
		t.Errorf("want success, have %v", err)
	}
}

func TestLoginWithoutToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	svc, _ := authtransport.NewHTTPClient(srv.URL, nil, log.NewNopLogger())
	token, err := svc.Login(context.Background(), "ann@example.com", "Passw0rd!")
	if !errors.Is(err, auth.ErrNoAccessToken) {
		t.Errorf("want ErrNoAccessToken, have %q, %v", token, err)
	}
}

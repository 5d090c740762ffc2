// Package apihttp holds the JSON-over-HTTP plumbing shared by the resource
// transports, on both the client and the stub server side.
package apihttp

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"io/ioutil"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	stdjwt "github.com/dgrijalva/jwt-go"
	kitjwt "github.com/go-kit/kit/auth/jwt"
	"github.com/go-kit/kit/endpoint"
	"github.com/gorilla/mux"
	"github.com/ichigozero/taskdash"
)

// ClientMiddleware decorates a client endpoint, chosen per method name.
type ClientMiddleware func(method string) endpoint.Middleware

// Wrap applies m to e. A nil ClientMiddleware leaves e untouched.
func (m ClientMiddleware) Wrap(method string, e endpoint.Endpoint) endpoint.Endpoint {
	if m == nil {
		return e
	}
	return m(method)(e)
}

// ParseInstance sanitizes a base URL given as host:port or full URL.
func ParseInstance(instance string) (*url.URL, error) {
	if !strings.HasPrefix(instance, "http") {
		instance = "http://" + instance
	}
	return url.Parse(strings.TrimRight(instance, "/"))
}

// CopyURL returns base with path appended to its own path.
func CopyURL(base *url.URL, path string) *url.URL {
	next := *base
	next.Path = strings.TrimRight(base.Path, "/") + path
	next.RawPath = ""
	return &next
}

// SetPath appends escaped path segments to the outgoing request URL.
func SetPath(r *http.Request, segments ...string) {
	escaped := make([]string, 0, len(segments))
	for _, s := range segments {
		escaped = append(escaped, url.PathEscape(s))
	}
	r.URL = r.URL.JoinPath(escaped...)
}

// EncodeJSONRequest is a transport/http.EncodeRequestFunc that JSON-encodes
// the request into the body.
func EncodeJSONRequest(_ context.Context, r *http.Request, request interface{}) error {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(request); err != nil {
		return err
	}
	r.Header.Set("Content-Type", "application/json; charset=utf-8")
	r.ContentLength = int64(buf.Len())
	r.Body = ioutil.NopCloser(&buf)
	return nil
}

// NoBody is an EncodeRequestFunc for requests identified by their path alone.
func NoBody(_ context.Context, _ *http.Request, _ interface{}) error {
	return nil
}

// CheckResponse returns a *taskdash.StatusError for any non-2xx response.
func CheckResponse(r *http.Response) error {
	if r.StatusCode >= 200 && r.StatusCode < 300 {
		return nil
	}
	body, _ := ioutil.ReadAll(r.Body)
	return &taskdash.StatusError{Code: r.StatusCode, Status: r.Status, Body: body}
}

// DecodeJSON decodes the response body into v. An empty body leaves v as is.
func DecodeJSON(r *http.Response, v interface{}) error {
	err := json.NewDecoder(r.Body).Decode(v)
	if errors.Is(err, io.EOF) {
		return nil
	}
	return err
}

// Bodyer is implemented by server responses whose wire body differs from the
// response struct itself.
type Bodyer interface {
	Body() interface{}
}

// Statuser is implemented by server responses that answer with a status other
// than 200.
type Statuser interface {
	StatusCode() int
}

// ErrorEncoder returns a transport/http.ErrorEncoder writing
// {"statusCode", "message"} with the status chosen by code.
func ErrorEncoder(code func(error) int) func(context.Context, error, http.ResponseWriter) {
	return func(_ context.Context, err error, w http.ResponseWriter) {
		status := code(err)
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.WriteHeader(status)
		json.NewEncoder(w).Encode(errorWrapper{StatusCode: status, Message: err.Error()})
	}
}

type errorWrapper struct {
	StatusCode int    `json:"statusCode"`
	Message    string `json:"message"`
}

// EncodeResponse returns a transport/http.EncodeResponseFunc that encodes the
// response as JSON, or hands a failed response to errorEncoder.
func EncodeResponse(errorEncoder func(context.Context, error, http.ResponseWriter)) func(context.Context, http.ResponseWriter, interface{}) error {
	return func(ctx context.Context, w http.ResponseWriter, response interface{}) error {
		if f, ok := response.(endpoint.Failer); ok && f.Failed() != nil {
			errorEncoder(ctx, f.Failed(), w)
			return nil
		}
		body := response
		if b, ok := response.(Bodyer); ok {
			body = b.Body()
		}
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		if s, ok := response.(Statuser); ok {
			w.WriteHeader(s.StatusCode())
		}
		return json.NewEncoder(w).Encode(body)
	}
}

// Authenticated returns the server-side middleware that rejects calls without
// a valid HS256 bearer signed with secret, after kitjwt.HTTPToContext has
// copied the token into the context.
func Authenticated(secret []byte) endpoint.Middleware {
	kf := func(token *stdjwt.Token) (interface{}, error) {
		return secret, nil
	}
	return kitjwt.NewParser(kf, stdjwt.SigningMethodHS256, kitjwt.MapClaimsFactory)
}

// IsAuthError reports whether err was raised by the bearer check.
func IsAuthError(err error) bool {
	switch err {
	case kitjwt.ErrTokenContextMissing,
		kitjwt.ErrTokenInvalid,
		kitjwt.ErrTokenExpired,
		kitjwt.ErrTokenMalformed,
		kitjwt.ErrTokenNotActive,
		kitjwt.ErrUnexpectedSigningMethod,
		stdjwt.ErrSignatureInvalid:
		return true
	}
	var ve *stdjwt.ValidationError
	return errors.As(err, &ve)
}

// ErrBadRouting is returned when an expected path variable is missing.
// It always indicates programmer error.
var ErrBadRouting = errors.New("inconsistent mapping between route and handler (programmer error)")

// ErrBadRequest wraps decode failures of request bodies and path variables.
var ErrBadRequest = errors.New("malformed request")

// PathUint64 reads a numeric mux path variable.
func PathUint64(r *http.Request, name string) (uint64, error) {
	v, ok := mux.Vars(r)[name]
	if !ok {
		return 0, ErrBadRouting
	}
	id, err := strconv.ParseUint(v, 10, 64)
	if err != nil {
		return 0, ErrBadRequest
	}
	return id, nil
}

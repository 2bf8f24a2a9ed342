package gateway

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/farmersconnect/farmers-connect-ui/internal/app/models"
)

type fakeSession struct {
	token       string
	invalidated int
}

func (s *fakeSession) Token() (string, bool) { return s.token, s.token != "" }

func (s *fakeSession) Invalidate() {
	s.invalidated++
	s.token = ""
}

func newBackend(t *testing.T, h http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return New(srv.URL+"/", NewHTTPClient(5*time.Second, false), nil)
}

func TestDoInjectsBearerToken(t *testing.T) {
	var gotAuth, gotContentType, gotAccept, gotPath string
	var gotBody map[string]string
	client := newBackend(t, func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotContentType = r.Header.Get("Content-Type")
		gotAccept = r.Header.Get("Accept")
		gotPath = r.URL.Path
		_ = json.NewDecoder(r.Body).Decode(&gotBody)
		_, _ = io.WriteString(w, `{"ok":"yes"}`)
	})

	var out map[string]string
	err := client.Do(context.Background(), &fakeSession{token: "T"}, Request{
		Method: http.MethodPost,
		Path:   "/api/thing",
		Body:   map[string]string{"a": "b"},
	}, &out)

	require.NoError(t, err)
	assert.Equal(t, "Bearer T", gotAuth)
	assert.Equal(t, "application/json", gotContentType)
	assert.Equal(t, "application/json", gotAccept)
	assert.Equal(t, "/api/thing", gotPath)
	assert.Equal(t, map[string]string{"a": "b"}, gotBody)
	assert.Equal(t, map[string]string{"ok": "yes"}, out)
}

func TestDoWithoutTokenSendsNoAuthorization(t *testing.T) {
	var hadAuth bool
	client := newBackend(t, func(w http.ResponseWriter, r *http.Request) {
		_, hadAuth = r.Header["Authorization"]
		w.WriteHeader(http.StatusNoContent)
	})

	err := client.Do(context.Background(), &fakeSession{}, Request{Method: http.MethodGet, Path: "/x"}, nil)
	require.NoError(t, err)
	assert.False(t, hadAuth)

	err = client.Do(context.Background(), nil, Request{Method: http.MethodGet, Path: "/x"}, nil)
	require.NoError(t, err)
}

func TestDoEmptySuccessBody(t *testing.T) {
	client := newBackend(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	var out []string
	err := client.Do(context.Background(), nil, Request{Method: http.MethodGet, Path: "/x"}, &out)
	require.NoError(t, err)
	assert.Nil(t, out)
}

func TestDoUnauthorizedInvalidatesSession(t *testing.T) {
	client := newBackend(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})
	sess := &fakeSession{token: "T"}

	err := client.Do(context.Background(), sess, Request{Method: http.MethodGet, Path: "/api/User"}, nil)

	require.Error(t, err)
	assert.ErrorIs(t, err, models.ErrUnauthenticated)
	assert.Equal(t, http.StatusUnauthorized, StatusOf(err))
	assert.Equal(t, 1, sess.invalidated)
	_, ok := sess.Token()
	assert.False(t, ok)
}

func TestDoClassifiesFailures(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		want    error
		message string
	}{
		{"bad request with message", http.StatusBadRequest, `{"message":"Email taken"}`, models.ErrValidation, "Email taken"},
		{"problem details", http.StatusUnprocessableEntity, `{"title":"One or more validation errors occurred.","status":422}`, models.ErrValidation, "One or more validation errors occurred."},
		{"forbidden plain text", http.StatusForbidden, "Nope", models.ErrForbidden, "Nope"},
		{"not found json string", http.StatusNotFound, `"User not found"`, models.ErrNotFound, "User not found"},
		{"server error html", http.StatusInternalServerError, "<html>boom</html>", models.ErrServer, ""},
		{"bad gateway", http.StatusBadGateway, "", models.ErrServer, ""},
		{"conflict", http.StatusConflict, `{"error":"exists"}`, models.ErrUnexpectedStatus, "exists"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newBackend(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = io.WriteString(w, tt.body)
			})
			sess := &fakeSession{token: "T"}

			err := client.Do(context.Background(), sess, Request{Method: http.MethodGet, Path: "/x"}, nil)

			assert.ErrorIs(t, err, tt.want)
			assert.Equal(t, tt.status, StatusOf(err))
			assert.Equal(t, tt.message, MessageOf(err, ""))
			assert.Equal(t, 0, sess.invalidated, "only 401 tears the session down")
		})
	}
}

func TestDoNetworkFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()
	client := New(url, nil, nil)
	sess := &fakeSession{token: "T"}

	err := client.Do(context.Background(), sess, Request{Method: http.MethodGet, Path: "/x"}, nil)

	assert.ErrorIs(t, err, models.ErrNetwork)
	assert.Equal(t, 0, StatusOf(err))
	assert.Equal(t, "fallback", MessageOf(err, "fallback"))
	assert.Equal(t, 0, sess.invalidated)
}

func TestDoMakesExactlyOneAttempt(t *testing.T) {
	calls := 0
	client := newBackend(t, func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusServiceUnavailable)
	})

	err := client.Do(context.Background(), nil, Request{Method: http.MethodGet, Path: "/x"}, nil)

	assert.ErrorIs(t, err, models.ErrServer)
	assert.Equal(t, 1, calls)
}

func TestDoShapeMismatch(t *testing.T) {
	client := newBackend(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"not":"a list"}`)
	})

	var out []string
	err := client.Do(context.Background(), nil, Request{Method: http.MethodGet, Path: "/x"}, &out)
	assert.ErrorIs(t, err, models.ErrUnexpectedShape)
}

func TestDoPropagatesCancellation(t *testing.T) {
	client := newBackend(t, func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := client.Do(ctx, nil, Request{Method: http.MethodGet, Path: "/x"}, nil)
	assert.ErrorIs(t, err, models.ErrNetwork)
}

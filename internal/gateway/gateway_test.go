package gateway

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/medvault/internal/notify"
)

type fakeStore struct {
	mu      sync.Mutex
	token   string
	err     error
	cleared int
}

func (s *fakeStore) Token(context.Context) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return "", false, s.err
	}
	return s.token, s.token != "", nil
}

func (s *fakeStore) Clear(context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = ""
	s.cleared++
	return nil
}

type fakeNav struct {
	current    string
	redirected []string
}

func (n *fakeNav) CurrentView(context.Context) string { return n.current }
func (n *fakeNav) Redirect(_ context.Context, view string) {
	n.redirected = append(n.redirected, view)
}

type expirerFunc func(ctx context.Context)

func (f expirerFunc) Expire(ctx context.Context) { f(ctx) }

func newNoopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))
}

type fixture struct {
	gw     *Gateway
	store  *fakeStore
	feed   *notify.Feed
	nav    *fakeNav
	hits   *atomic.Int32
	lastRq chan *http.Request
}

func newFixture(t *testing.T, token string, handler http.HandlerFunc) *fixture {
	t.Helper()
	hits := &atomic.Int32{}
	lastRq := make(chan *http.Request, 16)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		lastRq <- r.Clone(context.Background())
		handler(w, r)
	}))
	t.Cleanup(srv.Close)

	f := &fixture{
		store:  &fakeStore{token: token},
		feed:   notify.NewFeed(10),
		nav:    &fakeNav{current: "/patient/dashboard"},
		hits:   hits,
		lastRq: lastRq,
	}
	gw, err := New(Options{
		BaseURL:   srv.URL + "/api",
		Store:     f.store,
		Notifier:  f.feed,
		Navigator: f.nav,
		Log:       newNoopLogger(),
	})
	require.NoError(t, err)
	f.gw = gw
	return f
}

func jsonHandler(status int, body string) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = io.WriteString(w, body)
	}
}

func messages(notices []notify.Notice) []string {
	out := make([]string, 0, len(notices))
	for _, n := range notices {
		out = append(out, n.Message)
	}
	return out
}

func TestGateway_BlocksProtectedCallsWithoutToken(t *testing.T) {
	paths := []string{"/appointments/my-appointments", "/admin/doctors", "/medical-records", "/notifications/unread"}
	for _, p := range paths {
		t.Run(p, func(t *testing.T) {
			f := newFixture(t, "", jsonHandler(http.StatusOK, `{"data":[]}`))

			err := f.gw.Do(context.Background(), Call{Path: p}, nil)

			assert.ErrorIs(t, err, ErrAuthenticationRequired)
			assert.Equal(t, int32(0), f.hits.Load(), "request must not reach the network")
			assert.Empty(t, f.feed.Drain())
		})
	}
}

func TestGateway_PublicCallsPassWithoutToken(t *testing.T) {
	for _, p := range []string{PathLogin, "/auth/register/patient", PathSetPassword, PathHealth} {
		t.Run(p, func(t *testing.T) {
			f := newFixture(t, "", jsonHandler(http.StatusOK, `{"data":{}}`))

			err := f.gw.Do(context.Background(), Call{Method: http.MethodPost, Path: p, JSON: map[string]string{"a": "b"}}, nil)
			require.NoError(t, err)

			req := <-f.lastRq
			assert.Empty(t, req.Header.Get("Authorization"))
			assert.Equal(t, "/api"+p, req.URL.Path)
		})
	}
}

func TestGateway_AttachesStoredCredential(t *testing.T) {
	for _, p := range []string{"/patient/profile", PathLogin} {
		f := newFixture(t, "tok123", jsonHandler(http.StatusOK, `{"data":{"id":1}}`))

		var out struct {
			ID int `json:"id"`
		}
		require.NoError(t, f.gw.Do(context.Background(), Call{Path: p}, &out))

		req := <-f.lastRq
		assert.Equal(t, "Bearer tok123", req.Header.Get("Authorization"))
		assert.Equal(t, ContentTypeJSON, req.Header.Get("Content-Type"))
		assert.NotEmpty(t, req.Header.Get(HeaderRequestID))
		assert.Equal(t, 1, out.ID)
	}
}

func TestGateway_ErrorClassification(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		kind    error
		notices []string
	}{
		{name: "forbidden", status: http.StatusForbidden, kind: ErrForbidden, notices: []string{MsgForbidden}},
		{name: "not found", status: http.StatusNotFound, kind: ErrNotFound, notices: []string{MsgNotFound}},
		{name: "server error", status: http.StatusInternalServerError, kind: ErrServerFault, notices: []string{MsgServerError}},
		{name: "bad gateway", status: http.StatusBadGateway, kind: ErrServerFault, notices: []string{MsgServerError}},
		{name: "conflict with message", status: http.StatusConflict, body: `{"message":"Slot already booked"}`, kind: ErrUnclassified, notices: []string{"Slot already booked"}},
		{name: "bad request without message", status: http.StatusBadRequest, body: `{}`, kind: ErrUnclassified, notices: []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, "tok123", jsonHandler(tt.status, tt.body))

			err := f.gw.Do(context.Background(), Call{Path: "/appointments/1"}, nil)

			assert.ErrorIs(t, err, tt.kind)
			var apiErr *APIError
			require.ErrorAs(t, err, &apiErr)
			assert.Equal(t, tt.status, apiErr.Status)
			assert.Equal(t, tt.notices, messages(f.feed.Drain()))
			assert.Equal(t, 0, f.store.cleared, "session must survive non-401 errors")
			assert.Empty(t, f.nav.redirected)
		})
	}
}

func TestGateway_UnauthorizedExpiresSession(t *testing.T) {
	f := newFixture(t, "tok123", jsonHandler(http.StatusUnauthorized, `{"message":"expired"}`))

	err := f.gw.Do(context.Background(), Call{Path: "/patient/dashboard"}, nil)

	assert.ErrorIs(t, err, ErrUnauthorized)
	assert.Equal(t, 1, f.store.cleared)
	assert.Equal(t, []string{LoginView}, f.nav.redirected)
	assert.Equal(t, []string{MsgSessionExpired}, messages(f.feed.Drain()))
}

func TestGateway_UnauthorizedOnLoginViewDoesNotRedirect(t *testing.T) {
	f := newFixture(t, "tok123", jsonHandler(http.StatusUnauthorized, `{}`))
	f.nav.current = LoginView

	err := f.gw.Do(context.Background(), Call{Path: "/patient/profile"}, nil)

	assert.ErrorIs(t, err, ErrUnauthorized)
	assert.Equal(t, 1, f.store.cleared)
	assert.Empty(t, f.nav.redirected)
	assert.Empty(t, f.feed.Drain())
}

func TestGateway_UnauthorizedUsesExpirer(t *testing.T) {
	f := newFixture(t, "tok123", jsonHandler(http.StatusUnauthorized, `{}`))
	var expired int
	f.gw.SetSessionExpirer(expirerFunc(func(context.Context) { expired++ }))

	_ = f.gw.Do(context.Background(), Call{Path: "/doctor/dashboard"}, nil)

	assert.Equal(t, 1, expired)
	assert.Equal(t, 0, f.store.cleared)
}

func TestGateway_NetworkError(t *testing.T) {
	f := newFixture(t, "tok123", jsonHandler(http.StatusOK, `{}`))
	gw, err := New(Options{
		BaseURL:  "http://127.0.0.1:1/api",
		Store:    f.store,
		Notifier: f.feed,
		Log:      newNoopLogger(),
		Timeout:  time.Second,
	})
	require.NoError(t, err)

	err = gw.Do(context.Background(), Call{Path: "/patient/profile"}, nil)

	assert.ErrorIs(t, err, ErrNetworkUnreachable)
	assert.NotErrorIs(t, err, ErrServerFault)
	assert.Equal(t, []string{MsgNetworkError}, messages(f.feed.Drain()))
	assert.Equal(t, 0, f.store.cleared)
}

func TestGateway_CredentialStoreFailureIsNotNetworkError(t *testing.T) {
	f := newFixture(t, "tok123", jsonHandler(http.StatusOK, `{"data":{}}`))
	f.store.err = errors.New("disk I/O error")

	err := f.gw.Do(context.Background(), Call{Path: "/patient/profile"}, nil)

	assert.ErrorIs(t, err, ErrCredentialStore)
	assert.NotErrorIs(t, err, ErrNetworkUnreachable)
	var apiErr *APIError
	assert.False(t, errors.As(err, &apiErr))
	assert.Equal(t, int32(0), f.hits.Load())
	assert.Empty(t, f.feed.Drain())
}

func TestGateway_EmptySuccessBody(t *testing.T) {
	f := newFixture(t, "tok123", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	var out struct {
		ID int `json:"id"`
	}
	err := f.gw.Do(context.Background(), Call{Method: http.MethodDelete, Path: "/medical-records/3"}, &out)

	require.NoError(t, err)
	assert.Zero(t, out.ID)
}

func TestGateway_MultipartOverride(t *testing.T) {
	f := newFixture(t, "tok123", jsonHandler(http.StatusCreated, `{"data":null}`))

	err := f.gw.Do(context.Background(), Call{
		Method:      http.MethodPost,
		Path:        "/medical-records",
		Body:        strings.NewReader("--b--"),
		ContentType: "multipart/form-data; boundary=b",
	}, nil)
	require.NoError(t, err)

	req := <-f.lastRq
	assert.Equal(t, "multipart/form-data; boundary=b", req.Header.Get("Content-Type"))
}

func TestGateway_Probe(t *testing.T) {
	tests := []struct {
		name   string
		status int
		want   Connectivity
	}{
		{name: "ok", status: http.StatusOK, want: Reachable},
		{name: "forbidden still reachable", status: http.StatusForbidden, want: ReachableWithError},
		{name: "server error still reachable", status: http.StatusInternalServerError, want: ReachableWithError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, "", jsonHandler(tt.status, `{}`))

			got := f.gw.Probe(context.Background(), time.Second)
			assert.Equal(t, tt.want, got)
			assert.Empty(t, f.feed.Drain(), "probe never notifies")

			req := <-f.lastRq
			assert.Equal(t, "/api"+PathHealth, req.URL.Path)
		})
	}
}

func TestGateway_ProbeUnreachable(t *testing.T) {
	gw, err := New(Options{BaseURL: "http://127.0.0.1:1", Store: &fakeStore{}, Log: newNoopLogger()})
	require.NoError(t, err)
	assert.Equal(t, Unreachable, gw.Probe(context.Background(), time.Second))
}

func TestGateway_ProbeTimeout(t *testing.T) {
	f := newFixture(t, "", func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	})
	assert.Equal(t, Unreachable, f.gw.Probe(context.Background(), 50*time.Millisecond))
}

func TestNew_Validation(t *testing.T) {
	_, err := New(Options{BaseURL: "localhost:8080", Store: &fakeStore{}})
	assert.Error(t, err)
	_, err = New(Options{BaseURL: "http://localhost:8080/api"})
	assert.Error(t, err)
}

func TestChain_Order(t *testing.T) {
	var order []string
	mw := func(name string) Middleware {
		return func(next Doer) Doer {
			return DoerFunc(func(req *http.Request) (*http.Response, error) {
				order = append(order, name)
				return next.Do(req)
			})
		}
	}
	base := DoerFunc(func(*http.Request) (*http.Response, error) {
		order = append(order, "base")
		return &http.Response{StatusCode: http.StatusOK, Body: http.NoBody}, nil
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	_, err := Chain(base, mw("outer"), nil, mw("inner")).Do(req)
	require.NoError(t, err)
	assert.Equal(t, []string{"outer", "inner", "base"}, order)
}

func TestMetrics_CountsOutcomes(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetrics(reg)
	srv := httptest.NewServer(jsonHandler(http.StatusNotFound, `{}`))
	t.Cleanup(srv.Close)

	gw, err := New(Options{BaseURL: srv.URL, Store: &fakeStore{}, Metrics: m, Log: newNoopLogger()})
	require.NoError(t, err)

	_ = gw.Do(context.Background(), Call{Path: "/feedbacks/my-feedbacks"}, nil)
	gw.store.(*fakeStore).token = "tok"
	_ = gw.Do(context.Background(), Call{Path: "/feedbacks/my-feedbacks"}, nil)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.requests.WithLabelValues(http.MethodGet, "blocked")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.requests.WithLabelValues(http.MethodGet, "4xx")))
}

func TestClassify(t *testing.T) {
	assert.NoError(t, Classify(http.StatusOK))
	assert.NoError(t, Classify(http.StatusNoContent))
	assert.True(t, errors.Is(Classify(http.StatusUnauthorized), ErrUnauthorized))
	assert.True(t, errors.Is(Classify(http.StatusServiceUnavailable), ErrServerFault))
	assert.True(t, errors.Is(Classify(http.StatusTeapot), ErrUnclassified))
}

func TestServerMessage(t *testing.T) {
	msg, ok := ServerMessage(&APIError{Kind: ErrUnclassified, Status: 400, Message: "Email already exists"})
	assert.True(t, ok)
	assert.Equal(t, "Email already exists", msg)

	_, ok = ServerMessage(errors.New("plain"))
	assert.False(t, ok)
}

func TestIsPublic(t *testing.T) {
	assert.True(t, IsPublic("/api/auth/login"))
	assert.True(t, IsPublic("/api/auth/register/patient"))
	assert.False(t, IsPublic("/api/admin/doctors"))
}

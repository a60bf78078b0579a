package apiclient_test

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	jwtlib "github.com/golang-jwt/jwt/v5"
	"github.com/jrsteele09/recruit-console/apiclient"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

const (
	expiredToken = "T1"
	freshToken   = "T2"
	validRefresh = "R1"
)

// fakeBackend accepts bearer tokens in validAccess and exchanges validRefresh for
// freshToken on /refresh.
type fakeBackend struct {
	mu           sync.Mutex
	validAccess  map[string]bool
	refreshTo    map[string]string
	refreshCalls int
	refreshBody  []string
	hits         map[string]int
	auths        map[string][]string
	requestIDs   map[string][]string
	bodies       map[string][]string

	// beforeRefresh runs before the refresh handler answers.
	beforeRefresh func(r *http.Request)

	server *httptest.Server
}

func newFakeBackend(t *testing.T) *fakeBackend {
	t.Helper()
	b := &fakeBackend{
		validAccess: map[string]bool{freshToken: true},
		refreshTo:   map[string]string{validRefresh: freshToken},
		hits:        make(map[string]int),
		auths:       make(map[string][]string),
		requestIDs:  make(map[string][]string),
		bodies:      make(map[string][]string),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /refresh", b.handleRefresh)
	mux.HandleFunc("GET /puestos/", b.protected(`[{"id":1,"name":"Analista de datos","area_id":2,"state":true}]`))
	mux.HandleFunc("POST /puestos/", b.protected(`{"id":7,"name":"QA","area_id":2,"state":true}`))
	mux.HandleFunc("GET /form/info/{code}/{token}", b.public(`{"process_code":"P-1","process_id":1}`))
	mux.HandleFunc("GET /boom", func(w http.ResponseWriter, r *http.Request) {
		b.record(r)
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = io.WriteString(w, `{"detail":"database unavailable"}`)
	})
	mux.HandleFunc("GET /forbidden", func(w http.ResponseWriter, r *http.Request) {
		b.record(r)
		w.WriteHeader(http.StatusForbidden)
		_, _ = io.WriteString(w, `{"detail":"Acceso restringido solo a administradores"}`)
	})

	b.server = httptest.NewServer(mux)
	t.Cleanup(b.server.Close)
	return b
}

func (b *fakeBackend) record(r *http.Request) string {
	body, _ := io.ReadAll(r.Body)
	key := r.Method + " " + r.URL.Path

	b.mu.Lock()
	defer b.mu.Unlock()
	b.hits[key]++
	b.auths[key] = append(b.auths[key], r.Header.Get("Authorization"))
	b.requestIDs[key] = append(b.requestIDs[key], r.Header.Get("X-Request-ID"))
	b.bodies[key] = append(b.bodies[key], string(body))
	return string(body)
}

func (b *fakeBackend) protected(payload string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		b.record(r)
		bearer := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")

		b.mu.Lock()
		ok := b.validAccess[bearer]
		b.mu.Unlock()

		w.Header().Set("Content-Type", "application/json")
		if !ok {
			w.Header().Set("WWW-Authenticate", "Bearer")
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = io.WriteString(w, `{"detail":"No autorizado"}`)
			return
		}
		_, _ = io.WriteString(w, payload)
	}
}

func (b *fakeBackend) public(payload string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		b.record(r)
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, payload)
	}
}

func (b *fakeBackend) handleRefresh(w http.ResponseWriter, r *http.Request) {
	body := b.record(r)
	b.mu.Lock()
	hook := b.beforeRefresh
	b.mu.Unlock()
	if hook != nil {
		hook(r)
	}

	var req struct {
		RefreshToken string `json:"refresh_token"`
	}
	_ = json.Unmarshal([]byte(body), &req)

	b.mu.Lock()
	b.refreshCalls++
	b.refreshBody = append(b.refreshBody, body)
	next, ok := b.refreshTo[req.RefreshToken]
	b.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	if !ok {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = io.WriteString(w, `{"detail":"Refresh token inválido"}`)
		return
	}
	_, _ = io.WriteString(w, `{"access_token":"`+next+`"}`)
}

// issue makes refresh exchange for access, and accepts access on protected routes.
func (b *fakeBackend) issue(refresh, access string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.refreshTo[refresh] = access
	b.validAccess[access] = true
}

func (b *fakeBackend) setBeforeRefresh(hook func(r *http.Request)) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.beforeRefresh = hook
}

func (b *fakeBackend) RefreshCalls() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.refreshCalls
}

func (b *fakeBackend) Hits(key string) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.hits[key]
}

func (b *fakeBackend) Auths(key string) []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]string(nil), b.auths[key]...)
}

func (b *fakeBackend) RequestIDs(key string) []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]string(nil), b.requestIDs[key]...)
}

func (b *fakeBackend) Bodies(key string) []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]string(nil), b.bodies[key]...)
}

// fakeSession is a minimal apiclient.Session that counts callbacks.
type fakeSession struct {
	mu      sync.Mutex
	access  string
	refresh string
	logouts int
	updates []string
}

func (s *fakeSession) AccessToken() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.access
}

func (s *fakeSession) RefreshToken() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.refresh
}

func (s *fakeSession) SetAccessToken(accessToken string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.access = accessToken
	s.updates = append(s.updates, accessToken)
}

func (s *fakeSession) Logout() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.access = ""
	s.refresh = ""
	s.logouts++
}

func (s *fakeSession) Logouts() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.logouts
}

func (s *fakeSession) Updates() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.updates...)
}

func newClient(t *testing.T, baseURL string, sess apiclient.Session, options ...apiclient.Option) *apiclient.Client {
	t.Helper()
	transport := &http.Transport{}
	t.Cleanup(transport.CloseIdleConnections)

	opts := append([]apiclient.Option{
		apiclient.WithLogger(zerolog.Nop()),
		apiclient.WithHTTPClient(&http.Client{Transport: transport}),
	}, options...)

	c, err := apiclient.New(baseURL, sess, opts...)
	require.NoError(t, err)
	return c
}

// gatedSession pauses the gateAt-th AccessToken read until release is closed or
// maxWait passes. reached is closed when the read is paused.
type gatedSession struct {
	*fakeSession
	gateAt  int
	maxWait time.Duration
	reached chan struct{}
	release chan struct{}

	readsMu sync.Mutex
	reads   int
}

func newGatedSession(sess *fakeSession, gateAt int, maxWait time.Duration) *gatedSession {
	return &gatedSession{
		fakeSession: sess,
		gateAt:      gateAt,
		maxWait:     maxWait,
		reached:     make(chan struct{}),
		release:     make(chan struct{}),
	}
}

func (s *gatedSession) AccessToken() string {
	s.readsMu.Lock()
	s.reads++
	gated := s.reads == s.gateAt
	s.readsMu.Unlock()

	if gated {
		close(s.reached)
		select {
		case <-s.release:
		case <-time.After(s.maxWait):
		}
	}
	return s.fakeSession.AccessToken()
}

func signedAccessToken(t *testing.T, sub string) string {
	t.Helper()
	raw, err := jwtlib.NewWithClaims(jwtlib.SigningMethodHS256, jwtlib.MapClaims{
		"sub":  sub,
		"role": "usuario",
		"exp":  time.Now().Add(time.Hour).Unix(),
	}).SignedString([]byte("backend-secret"))
	require.NoError(t, err)
	return raw
}

package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/function61/gokit/assert"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/vit0-9/domain_lookup/models"
	"github.com/vit0-9/domain_lookup/pkg/storage"
	"github.com/vit0-9/domain_lookup/pkg/utils/domain"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// stubLookuper returns a canned record tagged with the given source.
type stubLookuper struct {
	source domain.Source
	err    error
	calls  int
}

func (s *stubLookuper) Lookup(_ context.Context, name string) (domain.DomainRecord, error) {
	s.calls++
	if s.err != nil {
		return domain.DomainRecord{}, s.err
	}
	return domain.DomainRecord{
		Domain:      name,
		Registrar:   "Example Registrar",
		NameServers: []string{"ns1.example.com"},
		Source:      s.source,
	}, nil
}

type testServer struct {
	router   *gin.Engine
	store    *storage.HistoryStore
	internal *stubLookuper
	external *stubLookuper
	cookies  []*http.Cookie
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	store, err := storage.Open(":memory:")
	assert.Assert(t, err == nil)
	t.Cleanup(func() { _ = store.Close() })

	ts := &testServer{
		router:   gin.New(),
		store:    store,
		internal: &stubLookuper{source: domain.SourceInternal},
		external: &stubLookuper{source: domain.SourceExternal},
	}

	log := zap.NewNop()
	domainHandlers := NewDomainHandlers(ts.internal, ts.external, store, log)
	historyHandlers := NewHistoryHandlers(store, log)

	ts.router.Use(ErrorHandler(log, false))
	api := ts.router.Group("/api", SessionMiddleware())
	api.GET("/domain/search", ValidateDomain(), domainHandlers.SearchHandler)
	api.GET("/history", historyHandlers.ListHandler)
	api.DELETE("/history", historyHandlers.ClearHandler)
	api.GET("/history/stats", historyHandlers.StatsHandler)
	api.DELETE("/history/:id", historyHandlers.DeleteHandler)
	return ts
}

// do sends a request with the cookies of earlier responses, like a browser would.
func (ts *testServer) do(method, target string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, nil)
	for _, c := range ts.cookies {
		req.AddCookie(c)
	}
	rec := httptest.NewRecorder()
	ts.router.ServeHTTP(rec, req)
	for _, c := range rec.Result().Cookies() {
		ts.cookies = append(ts.cookies, c)
	}
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, out interface{}) {
	t.Helper()
	assert.Assert(t, json.Unmarshal(rec.Body.Bytes(), out) == nil)
}

func TestSearchValidation(t *testing.T) {
	ts := newTestServer(t)

	tcs := []struct {
		target string
		error  string
	}{
		{"/api/domain/search", "Domain parameter is required"},
		{"/api/domain/search?domain=", "Domain parameter is required"},
		{"/api/domain/search?domain=not_a_domain", "Invalid domain format"},
		{"/api/domain/search?domain=example", "Invalid domain format"},
		{"/api/domain/search?domain=-example.com", "Invalid domain format"},
		{"/api/domain/search?domain=example.com&source=carrier-pigeon", "source must be internal or external"},
	}
	for _, tc := range tcs {
		t.Run(tc.target, func(t *testing.T) {
			rec := ts.do(http.MethodGet, tc.target)
			assert.Assert(t, rec.Code == http.StatusBadRequest)

			var body models.ErrorResponse
			decode(t, rec, &body)
			assert.EqualString(t, body.Error, tc.error)
		})
	}
	assert.Assert(t, ts.internal.calls == 0)
}

func TestSearchSourcesAndHistory(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.do(http.MethodGet, "/api/domain/search?domain=example.com")
	assert.Assert(t, rec.Code == http.StatusOK)

	var record domain.DomainRecord
	decode(t, rec, &record)
	assert.EqualString(t, record.Domain, "example.com")
	assert.EqualString(t, string(record.Source), "internal")
	assert.Assert(t, strings.Contains(rec.Body.String(), `"nameServers":["ns1.example.com"]`))
	assert.Assert(t, strings.Contains(rec.Body.String(), `"fromCache":false`))

	rec = ts.do(http.MethodGet, "/api/domain/search?domain=example.org&source=external")
	assert.Assert(t, rec.Code == http.StatusOK)
	assert.Assert(t, ts.external.calls == 1)
	assert.Assert(t, ts.internal.calls == 1)

	rec = ts.do(http.MethodGet, "/api/history")
	assert.Assert(t, rec.Code == http.StatusOK)

	var items []models.HistoryItem
	decode(t, rec, &items)
	assert.Assert(t, len(items) == 2)
	assert.EqualString(t, items[0].Domain, "example.org")
	assert.EqualString(t, items[0].APISource, "external")
	assert.EqualString(t, items[1].Domain, "example.com")
	assert.EqualString(t, items[1].Result.Registrar, "Example Registrar")
}

func TestHistoryIsPerSession(t *testing.T) {
	ts := newTestServer(t)
	ts.do(http.MethodGet, "/api/domain/search?domain=example.com")

	other := &testServer{router: ts.router}
	rec := other.do(http.MethodGet, "/api/history")
	assert.Assert(t, rec.Code == http.StatusOK)
	assert.EqualString(t, strings.TrimSpace(rec.Body.String()), "[]")
}

func TestSearchErrorIs500(t *testing.T) {
	ts := newTestServer(t)
	ts.internal.err = errors.New("failed to lookup domain: whois lookup failed for example.com: EOF")

	rec := ts.do(http.MethodGet, "/api/domain/search?domain=example.com")
	assert.Assert(t, rec.Code == http.StatusInternalServerError)

	var body models.ErrorResponse
	decode(t, rec, &body)
	assert.EqualString(t, body.Error, "failed to lookup domain: whois lookup failed for example.com: EOF")

	// failed searches are not recorded
	rec = ts.do(http.MethodGet, "/api/history")
	assert.EqualString(t, strings.TrimSpace(rec.Body.String()), "[]")
}

func TestDeleteClearAndStats(t *testing.T) {
	ts := newTestServer(t)
	ts.do(http.MethodGet, "/api/domain/search?domain=a.com")
	ts.do(http.MethodGet, "/api/domain/search?domain=b.com")
	ts.do(http.MethodGet, "/api/domain/search?domain=b.com&source=external")

	rec := ts.do(http.MethodGet, "/api/history/stats")
	assert.Assert(t, rec.Code == http.StatusOK)
	var stats models.HistoryStatsResponse
	decode(t, rec, &stats)
	assert.Assert(t, stats.TotalSearches == 3)
	assert.Assert(t, len(stats.Breakdown) == 2)

	rec = ts.do(http.MethodDelete, "/api/history/does-not-exist")
	assert.Assert(t, rec.Code == http.StatusNotFound)

	var items []models.HistoryItem
	decode(t, ts.do(http.MethodGet, "/api/history"), &items)
	rec = ts.do(http.MethodDelete, "/api/history/"+items[0].ID)
	assert.Assert(t, rec.Code == http.StatusOK)
	var msg models.MessageResponse
	decode(t, rec, &msg)
	assert.EqualString(t, msg.Message, "History item deleted successfully")

	rec = ts.do(http.MethodDelete, "/api/history")
	assert.Assert(t, rec.Code == http.StatusOK)
	var cleared models.ClearHistoryResponse
	decode(t, rec, &cleared)
	assert.Assert(t, cleared.DeletedCount == 2)
}

func TestHistoryStoreFailure(t *testing.T) {
	ts := newTestServer(t)
	ts.do(http.MethodGet, "/api/history") // obtain a session first
	assert.Assert(t, ts.store.Close() == nil)

	rec := ts.do(http.MethodGet, "/api/history")
	assert.Assert(t, rec.Code == http.StatusInternalServerError)

	// searches still succeed when history cannot be written
	rec = ts.do(http.MethodGet, "/api/domain/search?domain=example.com")
	assert.Assert(t, rec.Code == http.StatusOK)
}

func TestSessionCookie(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.do(http.MethodGet, "/api/history")
	cookies := rec.Result().Cookies()
	assert.Assert(t, len(cookies) == 1)
	assert.EqualString(t, cookies[0].Name, SessionCookieName)
	assert.Assert(t, cookies[0].HttpOnly)
	assert.Assert(t, cookies[0].MaxAge == 30*24*60*60)
	assert.Assert(t, len(cookies[0].Value) == 36)

	// an existing session is kept
	rec = ts.do(http.MethodGet, "/api/history")
	assert.Assert(t, len(rec.Result().Cookies()) == 0)
}

func TestCORSMiddleware(t *testing.T) {
	router := gin.New()
	router.Use(CORSMiddleware([]string{"http://localhost:5173"}))
	router.GET("/ping", func(c *gin.Context) { c.String(http.StatusOK, "pong") })

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.EqualString(t, rec.Header().Get("Access-Control-Allow-Origin"), "http://localhost:5173")
	assert.EqualString(t, rec.Header().Get("Access-Control-Allow-Credentials"), "true")

	req = httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set("Origin", "http://evil.example")
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.EqualString(t, rec.Header().Get("Access-Control-Allow-Origin"), "")

	req = httptest.NewRequest(http.MethodOptions, "/ping", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Assert(t, rec.Code == http.StatusOK)
	assert.EqualString(t, rec.Body.String(), "")
}

func TestRateLimiterAllow(t *testing.T) {
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	limiter := NewRateLimiter(15*time.Minute, 2)
	limiter.now = func() time.Time { return now }

	ok, _ := limiter.Allow("1.2.3.4")
	assert.Assert(t, ok)
	ok, _ = limiter.Allow("1.2.3.4")
	assert.Assert(t, ok)

	ok, wait := limiter.Allow("1.2.3.4")
	assert.Assert(t, !ok)
	assert.Assert(t, wait == 15*time.Minute)

	// other clients have their own window
	ok, _ = limiter.Allow("5.6.7.8")
	assert.Assert(t, ok)

	now = now.Add(15 * time.Minute)
	ok, _ = limiter.Allow("1.2.3.4")
	assert.Assert(t, ok)
}

func TestRateLimiterMiddleware(t *testing.T) {
	limiter := NewRateLimiter(time.Minute, 1)
	router := gin.New()
	router.Use(limiter.Middleware())
	router.GET("/ping", func(c *gin.Context) { c.String(http.StatusOK, "pong") })

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ping", nil))
	assert.Assert(t, rec.Code == http.StatusOK)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ping", nil))
	assert.Assert(t, rec.Code == http.StatusTooManyRequests)

	var body models.RateLimitResponse
	decode(t, rec, &body)
	assert.Assert(t, body.RetryAfter > 0 && body.RetryAfter <= 60)
	assert.Assert(t, rec.Header().Get("Retry-After") != "")
}

func TestErrorHandler(t *testing.T) {
	for _, production := range []bool{false, true} {
		router := gin.New()
		router.Use(ErrorHandler(zap.NewNop(), production))
		router.GET("/panic", func(c *gin.Context) { panic("boom") })
		router.GET("/error", func(c *gin.Context) { _ = c.Error(errors.New("store unavailable")) })

		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/panic", nil))
		assert.Assert(t, rec.Code == http.StatusInternalServerError)

		var body models.ErrorResponse
		decode(t, rec, &body)
		assert.Assert(t, body.Timestamp != "")
		if production {
			assert.EqualString(t, body.Error, "Internal server error")
		} else {
			assert.EqualString(t, body.Error, "boom")
		}

		rec = httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/error", nil))
		assert.Assert(t, rec.Code == http.StatusInternalServerError)
		decode(t, rec, &body)
		if !production {
			assert.EqualString(t, body.Error, "store unavailable")
		}
	}
}

type pingFunc func(ctx context.Context) error

func (f pingFunc) Ping(ctx context.Context) error { return f(ctx) }

func TestHealthCheck(t *testing.T) {
	var dbErr error
	handler := NewHealthHandler(pingFunc(func(context.Context) error { return dbErr }), func() int { return 3 })
	router := gin.New()
	router.GET("/health", handler.HealthCheckHandler)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Assert(t, rec.Code == http.StatusOK)
	var body models.HealthResponse
	decode(t, rec, &body)
	assert.EqualString(t, body.Status, "UP")
	assert.Assert(t, body.CacheEntries == 3)

	dbErr = errors.New("database is closed")
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Assert(t, rec.Code == http.StatusServiceUnavailable)
	decode(t, rec, &body)
	assert.EqualString(t, body.Database, "DOWN")
}

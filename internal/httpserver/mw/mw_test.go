package mw

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/MrSnakeDoc/marks/internal/logger"
	"github.com/MrSnakeDoc/marks/internal/metrics"
)

func ok(w http.ResponseWriter, _ *http.Request) { _, _ = w.Write([]byte("ok")) }

func TestLog(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(Log(logger.FromZap(zap.New(core)), false))
	r.Get("/teapot", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTeapot)
		_, _ = w.Write([]byte("short and stout"))
	})

	req := httptest.NewRequest(http.MethodGet, "/teapot", nil)
	req.RemoteAddr = "192.0.2.7:5555"
	r.ServeHTTP(httptest.NewRecorder(), req)

	entries := logs.FilterMessage("http_request").All()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	assert.Equal(t, "GET", fields["method"])
	assert.Equal(t, "/teapot", fields["path"])
	assert.EqualValues(t, http.StatusTeapot, fields["status"])
	assert.EqualValues(t, len("short and stout"), fields["bytes"])
	assert.Equal(t, "192.0.2.7", fields["remote_ip"])
	assert.NotEmpty(t, fields["request_id"])
}

func TestMetrics(t *testing.T) {
	m := metrics.New()
	r := chi.NewRouter()
	r.Use(Metrics(m))
	r.Get("/bookmarks/{id}", ok)

	for _, p := range []string{"/bookmarks/1", "/bookmarks/2", "/nope"} {
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, p, nil))
	}

	assert.Equal(t, 2.0, testutil.ToFloat64(m.RequestsTotal.WithLabelValues("GET", "/bookmarks/{id}", "200")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.RequestsTotal.WithLabelValues("GET", unmatchedRoute, "404")))
}

func TestAllowOnlyCIDRS(t *testing.T) {
	tests := []struct {
		name       string
		allowed    []string
		trustProxy bool
		remote     string
		xff        string
		want       int
	}{
		{"empty list passes", nil, false, "203.0.113.9:1", "", http.StatusOK},
		{"exact ip", []string{"192.0.2.7"}, false, "192.0.2.7:1", "", http.StatusOK},
		{"cidr", []string{"10.0.0.0/8"}, false, "10.1.2.3:1", "", http.StatusOK},
		{"outside", []string{"10.0.0.0/8"}, false, "192.0.2.7:1", "", http.StatusForbidden},
		{"xff ignored without trust", []string{"10.0.0.0/8"}, false, "192.0.2.7:1", "10.1.2.3", http.StatusForbidden},
		{"xff used with trust", []string{"10.0.0.0/8"}, true, "127.0.0.1:1", "10.1.2.3, 127.0.0.1", http.StatusOK},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			h := AllowOnlyCIDRS(tc.allowed, tc.trustProxy, logger.NewNop())(http.HandlerFunc(ok))
			req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
			req.RemoteAddr = tc.remote
			if tc.xff != "" {
				req.Header.Set("X-Forwarded-For", tc.xff)
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)
			assert.Equal(t, tc.want, rec.Code)
		})
	}
}

func TestEnforceHost(t *testing.T) {
	tests := []struct {
		name    string
		allowed []string
		host    string
		want    int
	}{
		{"empty list passes", nil, "anything.ext", http.StatusOK},
		{"exact", []string{"marks.local"}, "marks.local", http.StatusOK},
		{"port ignored", []string{"marks.local"}, "marks.local:8000", http.StatusOK},
		{"case insensitive", []string{"Marks.Local"}, "MARKS.local", http.StatusOK},
		{"wildcard", []string{"*.example.com"}, "api.example.com", http.StatusOK},
		{"wildcard excludes apex", []string{"*.example.com"}, "example.com", http.StatusForbidden},
		{"other host", []string{"marks.local"}, "evil.ext", http.StatusForbidden},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			h := EnforceHost(tc.allowed, logger.NewNop())(http.HandlerFunc(ok))
			req := httptest.NewRequest(http.MethodGet, "/bookmarks", nil)
			req.Host = tc.host
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)
			assert.Equal(t, tc.want, rec.Code)
		})
	}
}

package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
)

func corsServe(origins []string, method, origin string) *httptest.ResponseRecorder {
	e := echo.New()
	e.Use(CORS(origins))
	e.GET("/ping", func(c echo.Context) error { return c.String(http.StatusOK, "pong") })

	req := httptest.NewRequest(method, "/ping", nil)
	if origin != "" {
		req.Header.Set("Origin", origin)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestCORSWildcardSetsHeaders(t *testing.T) {
	rec := corsServe([]string{"*"}, http.MethodGet, "http://dash.local")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "*" {
		t.Fatalf("allow-origin = %q", got)
	}
	if rec.Header().Get("Access-Control-Allow-Methods") == "" {
		t.Fatalf("allow-methods not set")
	}
}

func TestCORSPreflightShortCircuits(t *testing.T) {
	rec := corsServe([]string{"*"}, http.MethodOptions, "http://dash.local")
	if rec.Code != http.StatusNoContent {
		t.Fatalf("preflight status = %d, want 204", rec.Code)
	}
}

func TestCORSUnlistedOriginGetsNoHeaders(t *testing.T) {
	rec := corsServe([]string{"http://dash.local"}, http.MethodGet, "http://evil.local")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, request must still be served", rec.Code)
	}
	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "" {
		t.Fatalf("allow-origin = %q, want unset", got)
	}
}

func TestCORSExactOriginEchoed(t *testing.T) {
	rec := corsServe([]string{"http://dash.local"}, http.MethodGet, "http://dash.local")
	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "http://dash.local" {
		t.Fatalf("allow-origin = %q", got)
	}
}

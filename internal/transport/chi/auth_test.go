package chi

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func authTestHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestBearerAuth_Disabled(t *testing.T) {
	mw := BearerAuthMiddleware(nil)
	h := mw(authTestHandler())

	req := httptest.NewRequest(http.MethodGet, "/api/v1/search", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 with auth disabled, got %d", rec.Code)
	}
}

func TestBearerAuth_ValidToken(t *testing.T) {
	mw := BearerAuthMiddleware([]string{"secret-key"})
	h := mw(authTestHandler())

	req := httptest.NewRequest(http.MethodGet, "/api/v1/search", nil)
	req.Header.Set("Authorization", "Bearer secret-key")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 with valid token, got %d", rec.Code)
	}
}

func TestBearerAuth_MissingHeader(t *testing.T) {
	mw := BearerAuthMiddleware([]string{"secret-key"})
	h := mw(authTestHandler())

	req := httptest.NewRequest(http.MethodGet, "/api/v1/search", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without header, got %d", rec.Code)
	}
}

func TestBearerAuth_WrongScheme(t *testing.T) {
	mw := BearerAuthMiddleware([]string{"secret-key"})
	h := mw(authTestHandler())

	req := httptest.NewRequest(http.MethodGet, "/api/v1/search", nil)
	req.Header.Set("Authorization", "Basic secret-key")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for non-Bearer scheme, got %d", rec.Code)
	}
}

func TestBearerAuth_InvalidToken(t *testing.T) {
	mw := BearerAuthMiddleware([]string{"secret-key"})
	h := mw(authTestHandler())

	req := httptest.NewRequest(http.MethodGet, "/api/v1/search", nil)
	req.Header.Set("Authorization", "Bearer wrong")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for invalid token, got %d", rec.Code)
	}
}

func TestBearerAuth_ExemptPaths(t *testing.T) {
	mw := BearerAuthMiddleware([]string{"secret-key"})
	h := mw(authTestHandler())

	for _, path := range []string{"/health", "/metrics"} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200 for exempt path %s, got %d", path, rec.Code)
		}
	}
}

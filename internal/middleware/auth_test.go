package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func authHandler(user, pass string) http.Handler {
	return BasicAuth(user, pass)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
}

func TestBasicAuthMissingHeader(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/v1/generate", nil)
	authHandler("admin", "secret").ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
	if got := rec.Header().Get("WWW-Authenticate"); got != `Basic realm="API Access"` {
		t.Fatalf("challenge header = %q", got)
	}
	if body := rec.Body.String(); body != "{\"error\":\"Authentication required\"}\n" {
		t.Fatalf("unexpected body: %s", body)
	}
}

func TestBasicAuthWrongCredentials(t *testing.T) {
	tests := []struct {
		name string
		user string
		pass string
	}{
		{name: "wrong password", user: "admin", pass: "nope"},
		{name: "wrong user", user: "root", pass: "secret"},
		{name: "both wrong", user: "root", pass: "nope"},
		{name: "empty", user: "", pass: ""},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodPost, "/v1/generate", nil)
			req.SetBasicAuth(tc.user, tc.pass)
			authHandler("admin", "secret").ServeHTTP(rec, req)
			if rec.Code != http.StatusUnauthorized {
				t.Fatalf("status = %d, want 401", rec.Code)
			}
		})
	}
}

func TestBasicAuthValidCredentials(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/v1/generate", nil)
	req.SetBasicAuth("admin", "secret")
	authHandler("admin", "secret").ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
}

func TestBasicAuthFailsClosedWithoutConfiguration(t *testing.T) {
	// No expected credentials configured: even a matching empty pair is rejected.
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/v1/generate", nil)
	req.SetBasicAuth("", "")
	authHandler("", "").ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
}

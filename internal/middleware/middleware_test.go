package middleware

import (
	"net/http"
	"net/http/httptest"
	"slices"
	"testing"
)

func TestRecovery(t *testing.T) {
	h := Recovery(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest("GET", "/", nil))
	if rec.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want 500", rec.Code)
	}
}

func TestLoggerKeepsStatus(t *testing.T) {
	h := Logger(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTeapot)
		w.Write([]byte("short and stout"))
	}))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest("GET", "/", nil))
	if rec.Code != http.StatusTeapot || rec.Body.String() != "short and stout" {
		t.Errorf("got %d %q", rec.Code, rec.Body.String())
	}
}

func TestCORS(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	tests := []struct {
		name       string
		origins    []string
		origin     string
		preflight  bool
		wantAllow  string
		wantStatus int
	}{
		{"allowed", []string{"http://localhost:5173"}, "http://localhost:5173", false, "http://localhost:5173", http.StatusOK},
		{"not allowed", []string{"http://localhost:5173"}, "http://evil.test", false, "", http.StatusOK},
		{"wildcard", []string{"*"}, "http://any.test", false, "http://any.test", http.StatusOK},
		{"preflight", []string{"*"}, "http://any.test", true, "http://any.test", http.StatusNoContent},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			method := "GET"
			if tt.preflight {
				method = "OPTIONS"
			}
			req := httptest.NewRequest(method, "/", nil)
			req.Header.Set("Origin", tt.origin)
			if tt.preflight {
				req.Header.Set("Access-Control-Request-Method", "PUT")
			}
			rec := httptest.NewRecorder()
			CORS(tt.origins)(next).ServeHTTP(rec, req)

			if got := rec.Header().Get("Access-Control-Allow-Origin"); got != tt.wantAllow {
				t.Errorf("Allow-Origin = %q, want %q", got, tt.wantAllow)
			}
			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
		})
	}
}

func TestOriginHosts(t *testing.T) {
	got := OriginHosts([]string{"http://localhost:5173", "https://app.example.com", "*"})
	want := []string{"localhost:5173", "app.example.com", "*"}
	if !slices.Equal(got, want) {
		t.Errorf("OriginHosts = %v, want %v", got, want)
	}
}

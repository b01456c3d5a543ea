package web

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestGetSettings(t *testing.T) {
	srv, _ := testServer(t)

	w := apiRequest(t, srv, http.MethodGet, "/api/settings", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	got := decode[SettingsResponse](t, w)
	if got != (SettingsResponse{Theme: "light", Language: "en"}) {
		t.Errorf("settings = %+v", got)
	}
}

func TestSetLanguage(t *testing.T) {
	tests := []struct {
		name     string
		body     interface{}
		raw      string
		wantCode int
		wantLang string
		wantRTL  bool
	}{
		{"french", map[string]string{"language": "fr"}, "", http.StatusOK, "fr", false},
		{"arabic", map[string]string{"language": "ar"}, "", http.StatusOK, "ar", true},
		{"unsupported", map[string]string{"language": "de"}, "", http.StatusBadRequest, "", false},
		{"bad json", nil, "{", http.StatusBadRequest, "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv, _ := testServer(t)

			var w *httptest.ResponseRecorder
			if tt.raw != "" {
				w = httptest.NewRecorder()
				srv.ServeHTTP(w, httptest.NewRequest(http.MethodPut, "/api/settings/language", strings.NewReader(tt.raw)))
			} else {
				w = apiRequest(t, srv, http.MethodPut, "/api/settings/language", tt.body)
			}
			if w.Code != tt.wantCode {
				t.Fatalf("status = %d, want %d (body %s)", w.Code, tt.wantCode, w.Body.String())
			}
			if tt.wantCode != http.StatusOK {
				return
			}
			got := decode[SettingsResponse](t, w)
			if got.Language != tt.wantLang || got.RTL != tt.wantRTL {
				t.Errorf("settings = %+v", got)
			}
		})
	}
}

func TestToggleTheme(t *testing.T) {
	srv, _ := testServer(t)

	for _, want := range []string{"dark", "light", "dark"} {
		w := apiRequest(t, srv, http.MethodPost, "/api/settings/theme/toggle", nil)
		if w.Code != http.StatusOK {
			t.Fatalf("status = %d", w.Code)
		}
		if got := decode[SettingsResponse](t, w); got.Theme != want {
			t.Errorf("theme = %q, want %q", got.Theme, want)
		}
	}

	got := decode[SettingsResponse](t, apiRequest(t, srv, http.MethodGet, "/api/settings", nil))
	if got.Theme != "dark" {
		t.Errorf("persisted theme = %q", got.Theme)
	}
}

func TestSetTheme(t *testing.T) {
	srv, _ := testServer(t)

	w := apiRequest(t, srv, http.MethodPut, "/api/settings/theme", map[string]string{"theme": "dark"})
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	w = apiRequest(t, srv, http.MethodPut, "/api/settings/theme", map[string]string{"theme": "neon"})
	if w.Code != http.StatusBadRequest {
		t.Errorf("invalid theme status = %d", w.Code)
	}
}

func TestSettingsMethodNotAllowed(t *testing.T) {
	srv, _ := testServer(t)

	w := apiRequest(t, srv, http.MethodGet, "/api/settings/theme/toggle", nil)
	if w.Code != http.StatusMethodNotAllowed {
		t.Fatalf("status = %d, want 405", w.Code)
	}
	if got := w.Header().Get("Allow"); got != http.MethodPost {
		t.Errorf("allow = %q, want POST", got)
	}
	if got := w.Header().Get("Content-Type"); got != "application/json" {
		t.Errorf("content type = %q", got)
	}
	var body map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decoding body %q: %v", w.Body.String(), err)
	}
	if body["error"] != "method not allowed" {
		t.Errorf("error = %q", body["error"])
	}
}

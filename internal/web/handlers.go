package web

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/evcraddock/car-finder/internal/settings"
)

// SettingsResponse is the body of the settings endpoints.
type SettingsResponse struct {
	Theme    string `json:"theme"`
	Language string `json:"language"`
	RTL      bool   `json:"rtl"`
}

func settingsResponse(p settings.Preferences) SettingsResponse {
	return SettingsResponse{Theme: p.Theme, Language: p.Language, RTL: p.RTL()}
}

func (s *Server) apiGetSettings(w http.ResponseWriter, r *http.Request) {
	p, err := s.settings.Load(r.Context())
	if err != nil {
		slog.Error("loading settings", "error", err)
		apiError(w, "loading settings failed", http.StatusInternalServerError)
		return
	}
	apiJSON(w, settingsResponse(p), http.StatusOK)
}

func (s *Server) apiSetLanguage(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Language string `json:"language"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apiError(w, "invalid JSON body", http.StatusBadRequest)
		return
	}

	p, err := s.settings.SetLanguage(r.Context(), req.Language)
	s.writeSettings(w, p, err)
}

func (s *Server) apiSetTheme(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Theme string `json:"theme"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apiError(w, "invalid JSON body", http.StatusBadRequest)
		return
	}

	p, err := s.settings.SetTheme(r.Context(), req.Theme)
	s.writeSettings(w, p, err)
}

func (s *Server) apiToggleTheme(w http.ResponseWriter, r *http.Request) {
	p, err := s.settings.ToggleTheme(r.Context())
	s.writeSettings(w, p, err)
}

func (s *Server) writeSettings(w http.ResponseWriter, p settings.Preferences, err error) {
	if errors.Is(err, settings.ErrInvalidValue) {
		apiError(w, err.Error(), http.StatusBadRequest)
		return
	}
	if err != nil {
		slog.Error("saving settings", "error", err)
		apiError(w, "saving settings failed", http.StatusInternalServerError)
		return
	}
	apiJSON(w, settingsResponse(p), http.StatusOK)
}

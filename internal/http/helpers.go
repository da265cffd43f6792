package http

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"finsight/internal/core"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// parseWindowRef extracts the window and reference date query params,
// falling back to week and the server's default reference date.
func (s *Server) parseWindowRef(r *http.Request) (core.Window, core.Date, error) {
	window, err := core.ParseWindow(r.URL.Query().Get("window"))
	if err != nil {
		return "", core.Date{}, err
	}

	ref := s.defaultRef()
	if v := strings.TrimSpace(r.URL.Query().Get("ref")); v != "" {
		ref, err = core.ParseDate(v)
		if err != nil {
			return "", core.Date{}, err
		}
	}

	return window, ref, nil
}

// parseYearMonth extracts year and month from the request body or query
// parameters, defaulting to the reference date's month.
func parseQueryInt(r *http.Request, key string, fallback int) int {
	if v := strings.TrimSpace(r.URL.Query().Get(key)); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
)

const (
	minPages = 1
	maxPages = 10
)

// respondJSON writes a JSON response body with the given status.
func respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// respondError writes the standard error envelope.
func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]any{
		"success": false,
		"error":   message,
	})
}

// queryDefault reads a query parameter, falling back when missing or blank.
func queryDefault(r *http.Request, key, defaultVal string) string {
	if v := strings.TrimSpace(r.URL.Query().Get(key)); v != "" {
		return v
	}
	return defaultVal
}

// requireQuery reads a mandatory query parameter.
func requireQuery(r *http.Request, key string) (string, error) {
	v := strings.TrimSpace(r.URL.Query().Get(key))
	if v == "" {
		return "", fmt.Errorf("%s is required", key)
	}
	return v, nil
}

// parseMaxPages validates the pagination bound before any fetch happens.
func parseMaxPages(r *http.Request) (int, error) {
	raw := queryDefault(r, "max_pages", "1")
	pages, err := strconv.Atoi(raw)
	if err != nil || pages < minPages || pages > maxPages {
		return 0, fmt.Errorf("max_pages must be an integer between %d and %d", minPages, maxPages)
	}
	return pages, nil
}

// queryEnum reads a query parameter constrained to a fixed set of literals.
func queryEnum(r *http.Request, key, defaultVal string, allowed ...string) (string, error) {
	v := queryDefault(r, key, defaultVal)
	for _, a := range allowed {
		if v == a {
			return v, nil
		}
	}
	return "", fmt.Errorf("%s must be one of: %s", key, strings.Join(allowed, ", "))
}

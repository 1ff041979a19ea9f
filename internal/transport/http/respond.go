package httptransport

import (
	"encoding/json"
	"net/http"
	"strconv"
)

const (
	defaultPageLimit = 50
	maxPageLimit     = 200
)

func WriteHTTPError(w http.ResponseWriter, status int, code string) {
	writeStatusJSON(w, status, map[string]any{"error": code})
}

func writeJSON(w http.ResponseWriter, v any) {
	writeStatusJSON(w, http.StatusOK, v)
}

func writeStatusJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// ParsePagination reads limit and offset, clamping limit to [1, 200] and
// offset to >= 0. Unparseable values fall back to the defaults.
func ParsePagination(r *http.Request) (limit, offset int) {
	q := r.URL.Query()
	limit = queryInt(q.Get("limit"), defaultPageLimit)
	offset = queryInt(q.Get("offset"), 0)
	limit = min(max(limit, 1), maxPageLimit)
	offset = max(offset, 0)
	return limit, offset
}

func queryInt(v string, def int) int {
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

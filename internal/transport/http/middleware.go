package httptransport

import (
	"bytes"
	"crypto/subtle"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/httplog/v3"

	"poker-replay/internal/logging"
)

// APILogMiddleware writes one JSON access line per request, tagged with the
// matched route and the tournament and hand when the route names them.
func APILogMiddleware() func(http.Handler) http.Handler {
	logger := slog.New(slog.NewJSONHandler(logging.Writer(), nil))
	return httplog.RequestLogger(logger, &httplog.Options{
		Level:              slog.LevelInfo,
		Schema:             httplog.Schema{ResponseStatus: "status", ResponseDuration: "duration_ms"},
		LogRequestBody:     func(*http.Request) bool { return false },
		LogResponseBody:    func(*http.Request) bool { return false },
		LogRequestHeaders:  []string{},
		LogResponseHeaders: []string{},
		LogExtraAttrs:      requestAttrs,
	})
}

func requestAttrs(req *http.Request, _ string, _ int) []slog.Attr {
	ctx := req.Context()
	route := req.URL.Path
	if rc := chi.RouteContext(ctx); rc != nil && rc.RoutePattern() != "" {
		route = rc.RoutePattern()
	}
	attrs := []slog.Attr{
		slog.String("request_id", chimw.GetReqID(ctx)),
		slog.String("method", req.Method),
		slog.String("route", route),
	}
	if id := chi.URLParam(req, "id"); id != "" {
		attrs = append(attrs, slog.String("tournament_id", id))
	}
	if hand := chi.URLParam(req, "hand"); hand != "" {
		attrs = append(attrs, slog.String("hand", hand))
	}
	return attrs
}

// ResponseCaptureMiddleware attaches up to limit bytes of the response body
// to the request log line. Used on admin mutations only.
func ResponseCaptureMiddleware(limit int) func(http.Handler) http.Handler {
	if limit <= 0 {
		limit = 4096
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cw := &captureWriter{ResponseWriter: w, limit: limit}
			next.ServeHTTP(cw, r)
			httplog.SetAttrs(r.Context(),
				slog.Any("response_body", decodeLogged(cw.buf.Bytes())),
				slog.Bool("response_body_truncated", cw.truncated),
			)
		})
	}
}

type captureWriter struct {
	http.ResponseWriter
	buf       bytes.Buffer
	limit     int
	truncated bool
}

func (c *captureWriter) Write(p []byte) (int, error) {
	room := c.limit - c.buf.Len()
	switch {
	case room >= len(p):
		c.buf.Write(p)
	case room > 0:
		c.buf.Write(p[:room])
		c.truncated = true
	default:
		c.truncated = len(p) > 0 || c.truncated
	}
	return c.ResponseWriter.Write(p)
}

func decodeLogged(b []byte) any {
	if len(b) == 0 {
		return ""
	}
	var v any
	if json.Unmarshal(b, &v) != nil {
		return string(b)
	}
	return v
}

// AdminAuthMiddleware rejects requests without the admin key. With no key
// configured the admin routes are closed.
func AdminAuthMiddleware(adminKey string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if adminKey == "" || !CheckAdminAuth(r, adminKey) {
				WriteHTTPError(w, http.StatusUnauthorized, "unauthorized")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// CheckAdminAuth accepts the key in X-Admin-Key or as a bearer token.
func CheckAdminAuth(r *http.Request, adminKey string) bool {
	got := r.Header.Get("X-Admin-Key")
	if got == "" {
		token, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
		if !ok {
			return false
		}
		got = token
	}
	return subtle.ConstantTimeCompare([]byte(got), []byte(adminKey)) == 1
}

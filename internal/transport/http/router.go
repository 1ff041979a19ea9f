package httptransport

import (
	"expvar"
	"fmt"
	"net/http"
	"sort"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/log"

	apppublic "poker-replay/internal/app/public"
)

type RouterOptions struct {
	AdminAPIKey string
	// RequestLogs enables httplog access lines on every route.
	RequestLogs bool
	// DB is pinged by /healthz when set.
	DB Pinger
}

func NewRouter(publicSvc *apppublic.Service, opts RouterOptions) *chi.Mux {
	publicHandlers := NewPublicHandlers(publicSvc)
	adminHandlers := NewAdminHandlers(publicSvc, opts.DB)

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.Recoverer)
	r.Use(chimw.RealIP)
	if opts.RequestLogs {
		r.Use(APILogMiddleware())
	}

	r.Get("/healthz", adminHandlers.Health())

	r.Route("/api", func(r chi.Router) {
		r.Get("/tournaments", publicHandlers.Tournaments())
		r.Get("/tournaments/{id}/stats", publicHandlers.TournamentStats())
		r.Get("/tournaments/{id}/hands/{hand}/replay", publicHandlers.HandReplay())
		r.Get("/tournaments/{id}/hands/{hand}/state", publicHandlers.HandState())
		r.Get("/tournaments/{id}/hands/{hand}/stream", publicHandlers.HandStream())
		r.Get("/stats/overall", publicHandlers.OverallStats())

		r.Route("/admin", func(r chi.Router) {
			r.Use(AdminAuthMiddleware(opts.AdminAPIKey))
			r.With(ResponseCaptureMiddleware(4096)).Delete("/cache", adminHandlers.ClearCache())
			r.With(ResponseCaptureMiddleware(4096)).Delete("/cache/tournaments/{id}", adminHandlers.ClearTournament())
			r.Get("/debug/vars", expvar.Handler().ServeHTTP)
		})
	})

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		WriteHTTPError(w, http.StatusNotFound, "not_found")
	})
	return r
}

// LogRoutes logs every registered method and pattern, sorted by path.
func LogRoutes(r chi.Routes) {
	type route struct{ method, path string }
	var found []route
	err := chi.Walk(r, func(method, path string, _ http.Handler, _ ...func(http.Handler) http.Handler) error {
		found = append(found, route{method, path})
		return nil
	})
	if err != nil {
		log.Error().Err(err).Msg("walk routes failed")
		return
	}
	sort.Slice(found, func(i, j int) bool {
		if found[i].path != found[j].path {
			return found[i].path < found[j].path
		}
		return found[i].method < found[j].method
	})
	lines := make([]string, len(found))
	for i, rt := range found {
		lines[i] = fmt.Sprintf("%-6s %s", rt.method, rt.path)
	}
	log.Info().Int("count", len(lines)).Strs("routes", lines).Msg("registered routes")
}

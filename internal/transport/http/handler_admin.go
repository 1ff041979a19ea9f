package httptransport

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	apppublic "poker-replay/internal/app/public"
)

// Pinger reports backend health. The Postgres store satisfies it.
type Pinger interface {
	Ping(ctx context.Context) error
}

type AdminHandlers struct {
	publicSvc *apppublic.Service
	db        Pinger
}

// NewAdminHandlers takes a nil db when no database backs the cache.
func NewAdminHandlers(publicSvc *apppublic.Service, db Pinger) *AdminHandlers {
	return &AdminHandlers{publicSvc: publicSvc, db: db}
}

func (h *AdminHandlers) Health() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		body := map[string]any{"ok": true, "cache_failures": h.publicSvc.CacheFailures()}
		if h.db != nil {
			if err := h.db.Ping(r.Context()); err != nil {
				// the cache degrades to recomputation, so the service stays up
				body["db"] = "down"
			} else {
				body["db"] = "up"
			}
		}
		writeJSON(w, body)
	}
}

func (h *AdminHandlers) ClearCache() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		metricCacheClearTotal.Add(1)
		if err := h.publicSvc.ClearCache(r.Context()); err != nil {
			WriteHTTPError(w, http.StatusInternalServerError, "internal_error")
			return
		}
		log.Info().Msg("statistics cache cleared")
		writeJSON(w, map[string]any{"ok": true})
	}
}

func (h *AdminHandlers) ClearTournament() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		metricCacheClearTotal.Add(1)
		id := chi.URLParam(r, "id")
		if err := h.publicSvc.ClearTournament(r.Context(), id); err != nil {
			writeServiceError(w, err)
			return
		}
		log.Info().Str("tournament_id", id).Msg("tournament statistics evicted")
		writeJSON(w, map[string]any{"ok": true, "tournament_id": id})
	}
}

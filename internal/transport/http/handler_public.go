package httptransport

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	apppublic "poker-replay/internal/app/public"
)

type PublicHandlers struct {
	publicSvc *apppublic.Service
}

func NewPublicHandlers(publicSvc *apppublic.Service) *PublicHandlers {
	return &PublicHandlers{publicSvc: publicSvc}
}

func (h *PublicHandlers) Tournaments() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit, offset := ParsePagination(r)
		resp, err := h.publicSvc.Tournaments(r.Context(), limit, offset)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, resp)
	}
}

func (h *PublicHandlers) TournamentStats() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		metricTournamentStatsTotal.Add(1)
		start := time.Now()
		id := chi.URLParam(r, "id")
		resp, err := h.publicSvc.TournamentStatistics(r.Context(), id)
		metricStatsLatencyMS.Set(time.Since(start).Milliseconds())
		if err != nil {
			metricTournamentStatsErrors.Add(1)
			log.Warn().Err(err).Str("tournament_id", id).Msg("tournament statistics failed")
			writeServiceError(w, err)
			return
		}
		writeJSON(w, resp)
	}
}

func (h *PublicHandlers) OverallStats() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		metricOverallStatsTotal.Add(1)
		start := time.Now()
		resp, err := h.publicSvc.OverallStatistics(r.Context())
		metricStatsLatencyMS.Set(time.Since(start).Milliseconds())
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, resp)
	}
}

func (h *PublicHandlers) HandReplay() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		metricReplayTotal.Add(1)
		hand, ok := parseHandNumber(r)
		if !ok {
			metricReplayErrors.Add(1)
			WriteHTTPError(w, http.StatusBadRequest, "invalid_hand")
			return
		}
		resp, err := h.publicSvc.HandReplay(r.Context(), chi.URLParam(r, "id"), hand)
		if err != nil {
			metricReplayErrors.Add(1)
			writeServiceError(w, err)
			return
		}
		writeJSON(w, resp)
	}
}

func (h *PublicHandlers) HandState() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		metricReplayTotal.Add(1)
		hand, ok := parseHandNumber(r)
		if !ok {
			metricReplayErrors.Add(1)
			WriteHTTPError(w, http.StatusBadRequest, "invalid_hand")
			return
		}
		frame := 0
		if v := r.URL.Query().Get("frame"); v != "" {
			n, err := strconv.Atoi(v)
			if err != nil || n < 0 {
				metricReplayErrors.Add(1)
				WriteHTTPError(w, http.StatusBadRequest, "invalid_frame")
				return
			}
			frame = n
		}
		resp, err := h.publicSvc.HandState(r.Context(), chi.URLParam(r, "id"), hand, frame)
		if err != nil {
			metricReplayErrors.Add(1)
			writeServiceError(w, err)
			return
		}
		writeJSON(w, resp)
	}
}

func parseHandNumber(r *http.Request) (int, bool) {
	n, err := strconv.Atoi(chi.URLParam(r, "hand"))
	if err != nil || n < 1 {
		return 0, false
	}
	return n, true
}

func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, apppublic.ErrInvalidRequest):
		WriteHTTPError(w, http.StatusBadRequest, "invalid_request")
	case errors.Is(err, apppublic.ErrNotFound):
		WriteHTTPError(w, http.StatusNotFound, "not_found")
	case errors.Is(err, apppublic.ErrStatisticsUnavailable):
		writeStatusJSON(w, http.StatusUnprocessableEntity, map[string]any{"error": "statistics_unavailable", "message": err.Error()})
	case errors.Is(err, apppublic.ErrHandUnavailable):
		WriteHTTPError(w, http.StatusUnprocessableEntity, "hand_unavailable")
	default:
		WriteHTTPError(w, http.StatusInternalServerError, "internal_error")
	}
}

package httptransport

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"poker-replay/internal/replay"
)

var (
	streamInterval    = 750 * time.Millisecond
	maxStreamInterval = 10 * time.Second
)

type streamEvent struct {
	EventID  string `json:"event_id"`
	Event    string `json:"event"`
	ServerTS int64  `json:"server_ts"`
	Data     any    `json:"data"`
}

type framePayload struct {
	Frame replay.Frame     `json:"frame"`
	State replay.GameState `json:"state"`
}

// HandStream plays a hand back as server-sent events, one "frame" event per
// frame followed by "end". Last-Event-ID resumes after the given frame.
func (h *PublicHandlers) HandStream() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		metricReplayTotal.Add(1)
		hand, ok := parseHandNumber(r)
		if !ok {
			metricReplayErrors.Add(1)
			WriteHTTPError(w, http.StatusBadRequest, "invalid_hand")
			return
		}
		interval, ok := parseInterval(r)
		if !ok {
			metricReplayErrors.Add(1)
			WriteHTTPError(w, http.StatusBadRequest, "invalid_interval")
			return
		}
		resp, err := h.publicSvc.HandReplay(r.Context(), chi.URLParam(r, "id"), hand)
		if err != nil {
			metricReplayErrors.Add(1)
			writeServiceError(w, err)
			return
		}
		flusher, ok := w.(http.Flusher)
		if !ok {
			WriteHTTPError(w, http.StatusInternalServerError, "streaming_unsupported")
			return
		}

		w.Header().Set("Content-Type", "text/event-stream")
		w.Header().Set("Cache-Control", "no-cache")
		w.Header().Set("Connection", "keep-alive")
		metricStreamsActive.Add(1)
		defer metricStreamsActive.Add(-1)

		start := 0
		if last, err := strconv.Atoi(r.Header.Get("Last-Event-ID")); err == nil && last >= 0 {
			start = last + 1
		}

		var ticker *time.Ticker
		if interval > 0 {
			ticker = time.NewTicker(interval)
			defer ticker.Stop()
		}
		for i := start; i < len(resp.Frames); i++ {
			if i > start && ticker != nil {
				select {
				case <-r.Context().Done():
					return
				case <-ticker.C:
				}
			}
			ev := streamEvent{
				EventID:  strconv.Itoa(i),
				Event:    "frame",
				ServerTS: time.Now().UnixMilli(),
				Data: framePayload{
					Frame: resp.Frames[i],
					State: replay.StateAt(resp.Hand, resp.Frames, i),
				},
			}
			if err := writeSSE(w, ev); err != nil {
				return
			}
			flusher.Flush()
		}
		end := streamEvent{
			Event:    "end",
			ServerTS: time.Now().UnixMilli(),
			Data: map[string]any{
				"frames":              len(resp.Frames),
				"unmatched_decisions": resp.UnmatchedDecisions,
			},
		}
		if err := writeSSE(w, end); err != nil {
			return
		}
		flusher.Flush()
	}
}

func parseInterval(r *http.Request) (time.Duration, bool) {
	v := r.URL.Query().Get("interval_ms")
	if v == "" {
		return streamInterval, true
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		return 0, false
	}
	d := time.Duration(n) * time.Millisecond
	if d > maxStreamInterval {
		d = maxStreamInterval
	}
	return d, true
}

func writeSSE(w http.ResponseWriter, ev streamEvent) error {
	data, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	if ev.EventID != "" {
		if _, err := fmt.Fprintf(w, "id: %s\n", ev.EventID); err != nil {
			return err
		}
	}
	if _, err := fmt.Fprintf(w, "event: %s\n", ev.Event); err != nil {
		return err
	}
	_, err = fmt.Fprintf(w, "data: %s\n\n", data)
	return err
}

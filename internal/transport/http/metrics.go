package httptransport

import "expvar"

var (
	metricTournamentStatsTotal  = expvar.NewInt("tournament_stats_requests_total")
	metricTournamentStatsErrors = expvar.NewInt("tournament_stats_errors_total")
	metricOverallStatsTotal     = expvar.NewInt("overall_stats_requests_total")
	metricStatsLatencyMS        = expvar.NewInt("stats_last_latency_ms")

	metricReplayTotal   = expvar.NewInt("replay_requests_total")
	metricReplayErrors  = expvar.NewInt("replay_errors_total")
	metricStreamsActive = expvar.NewInt("replay_streams_active")

	metricCacheClearTotal = expvar.NewInt("cache_clear_total")
)

package main

import (
	"context"
	"encoding/json"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog/log"

	"poker-replay/internal/aggregate"
	apppublic "poker-replay/internal/app/public"
	"poker-replay/internal/cache"
	"poker-replay/internal/config"
	"poker-replay/internal/handlog"
	"poker-replay/internal/logging"
)

type report struct {
	GeneratedAt time.Time                         `json:"generated_at"`
	Overall     *aggregate.OverallStatistics      `json:"overall"`
	Tournaments []*aggregate.TournamentStatistics `json:"tournaments"`
}

func main() {
	logCfg, err := config.LoadLog()
	if err != nil {
		panic(err)
	}
	logging.Init(logCfg)
	cfg, err := config.LoadReport()
	if err != nil {
		log.Fatal().Err(err).Msg("load report config failed")
	}

	ctx := context.Background()
	loader := handlog.NewFSLoader(cfg.LogsDir)
	svc := apppublic.NewService(loader, cache.NewMemory(), apppublic.Options{
		HandLoadBatch:      cfg.HandLoadBatch,
		OverallConcurrency: cfg.Concurrency,
	})

	ids := cfg.Tournaments
	if len(ids) == 0 {
		ids, err = loader.ListTournaments(ctx)
		if err != nil {
			log.Fatal().Err(err).Str("logs_dir", cfg.LogsDir).Msg("list tournaments failed")
		}
	}

	start := time.Now()
	out := report{
		GeneratedAt: start.UTC(),
		Overall:     svc.OverallStatisticsFor(ctx, ids),
	}
	// tournaments are memoized by the overall pass.
	out.Tournaments = tournamentReports(ctx, svc, ids)

	var w io.Writer = os.Stdout
	if cfg.Output != "" {
		f, err := os.Create(cfg.Output)
		if err != nil {
			log.Fatal().Err(err).Str("path", cfg.Output).Msg("create report failed")
		}
		defer f.Close()
		w = f
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		log.Fatal().Err(err).Msg("write report failed")
	}

	log.Info().
		Int("tournaments", len(ids)).
		Int("loaded", out.Overall.TournamentsLoaded).
		Int("failed", len(out.Overall.Failed)).
		Int("total_hands", out.Overall.TotalHands).
		Dur("elapsed", time.Since(start)).
		Msg("report written")
	for _, r := range out.Overall.Ranking {
		log.Info().
			Int("rank", r.Rank).
			Str("agent", r.Name).
			Float64("mean_placement", r.MeanPlacement).
			Float64("consistency", r.Consistency).
			Int("wins", r.Wins).
			Msg("ranking")
	}
}

// tournamentReports collects the statistics of every id that computes,
// logging the ones left out.
func tournamentReports(ctx context.Context, src aggregate.Source, ids []string) []*aggregate.TournamentStatistics {
	out := make([]*aggregate.TournamentStatistics, 0, len(ids))
	for _, id := range ids {
		st, err := src.TournamentStatistics(ctx, id)
		if err != nil {
			log.Warn().Err(err).Str("tournament_id", id).Msg("tournament omitted from report")
			continue
		}
		out = append(out, st)
	}
	return out
}

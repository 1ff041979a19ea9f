package public

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"slices"

	"github.com/rs/zerolog/log"

	"poker-replay/internal/aggregate"
	"poker-replay/internal/cache"
	"poker-replay/internal/handlog"
	"poker-replay/internal/store"
)

// TournamentStatistics serves the cached statistics of id, computing and
// storing them on a miss. Concurrent first requests may both compute.
func (s *Service) TournamentStatistics(ctx context.Context, id string) (*aggregate.TournamentStatistics, error) {
	if id == "" {
		return nil, ErrInvalidRequest
	}
	key := cache.TournamentKey(id)
	var cached aggregate.TournamentStatistics
	if s.lookup(ctx, key, &cached) {
		return &cached, nil
	}

	if _, err := s.loader.TournamentMeta(ctx, id); err != nil {
		if errors.Is(err, handlog.ErrNotFound) || errors.Is(err, handlog.ErrInvalidID) {
			return nil, mapLoadError(err)
		}
		return nil, fmt.Errorf("%w: %w %s: %w", ErrStatisticsUnavailable, aggregate.ErrTournamentLoad, id, err)
	}
	st, err := s.tournament.Compute(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrStatisticsUnavailable, err)
	}
	st.ComputationID = store.NewID()
	s.save(ctx, key, st)
	return st, nil
}

// OverallStatistics aggregates every tournament the loader lists.
func (s *Service) OverallStatistics(ctx context.Context) (*aggregate.OverallStatistics, error) {
	ids, err := s.loader.ListTournaments(ctx)
	if err != nil {
		return nil, err
	}
	return s.OverallStatisticsFor(ctx, ids), nil
}

// OverallStatisticsFor serves the cached overall value while it was built
// from exactly ids, and recomputes otherwise.
func (s *Service) OverallStatisticsFor(ctx context.Context, ids []string) *aggregate.OverallStatistics {
	var cached aggregate.OverallStatistics
	if s.lookup(ctx, cache.OverallKey, &cached) && sameSet(cached.TournamentIDs, ids) {
		return &cached
	}
	out := s.overall.Compute(ctx, ids)
	out.ComputationID = store.NewID()
	s.save(ctx, cache.OverallKey, out)
	return out
}

// ClearCache drops every memoized statistics value.
func (s *Service) ClearCache(ctx context.Context) error {
	return s.cache.DeletePrefix(ctx, cache.Prefix)
}

// ClearTournament drops one tournament and the overall value built on it.
func (s *Service) ClearTournament(ctx context.Context, id string) error {
	if id == "" {
		return ErrInvalidRequest
	}
	if err := s.cache.Delete(ctx, cache.TournamentKey(id)); err != nil {
		return err
	}
	return s.cache.Delete(ctx, cache.OverallKey)
}

func (s *Service) lookup(ctx context.Context, key string, dst any) bool {
	raw, ok, _ := s.cache.Get(ctx, key)
	if !ok {
		return false
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		log.Warn().Err(err).Str("key", key).Msg("discarding undecodable cache entry")
		return false
	}
	return true
}

func (s *Service) save(ctx context.Context, key string, v any) {
	raw, err := json.Marshal(v)
	if err != nil {
		log.Warn().Err(err).Str("key", key).Msg("encode cache entry")
		return
	}
	_ = s.cache.Set(ctx, key, raw)
}

func sameSet(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	x := slices.Clone(a)
	y := slices.Clone(b)
	slices.Sort(x)
	slices.Sort(y)
	return slices.Equal(x, y)
}

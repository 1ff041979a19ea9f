package public

import (
	"context"
	"errors"
	"fmt"

	"poker-replay/internal/aggregate"
	"poker-replay/internal/cache"
	"poker-replay/internal/handlog"
	"poker-replay/internal/replay"
)

const tournamentsMaxPage = 200

type Options struct {
	HandLoadBatch      int
	OverallConcurrency int
}

type Service struct {
	loader     handlog.Loader
	cache      *cache.Degrading
	tournament *aggregate.Tournament
	overall    *aggregate.Overall
}

// NewService wires the aggregators behind c. Cache failures degrade to
// recomputation and never fail a request.
func NewService(loader handlog.Loader, c cache.Cache, opts Options) *Service {
	s := &Service{
		loader:     loader,
		cache:      cache.NewDegrading(c),
		tournament: aggregate.NewTournament(loader, opts.HandLoadBatch),
	}
	s.overall = aggregate.NewOverall(s, opts.OverallConcurrency)
	return s
}

// CacheFailures counts cache backend errors absorbed so far.
func (s *Service) CacheFailures() int64 {
	return s.cache.Failures()
}

func (s *Service) Tournaments(ctx context.Context, limit, offset int) (*TournamentsResponse, error) {
	ids, err := s.loader.ListTournaments(ctx)
	if err != nil {
		return nil, err
	}
	total := len(ids)
	limit, ok := clampPage(limit, offset)
	if !ok || offset >= total {
		return &TournamentsResponse{Items: []TournamentItem{}, Total: total, Limit: limit, Offset: offset}, nil
	}
	end := min(offset+limit, total)
	out := make([]TournamentItem, 0, end-offset)
	for _, id := range ids[offset:end] {
		item := TournamentItem{ID: id}
		if meta, err := s.loader.TournamentMeta(ctx, id); err == nil {
			item.Seed = meta.Seed
			item.NumPlayers = meta.NumPlayers
			item.StartingStack = meta.StartingStack
		}
		if n, err := s.loader.HandCount(ctx, id); err == nil {
			item.HandCount = n
		}
		out = append(out, item)
	}
	return &TournamentsResponse{Items: out, Total: total, Limit: limit, Offset: offset}, nil
}

func (s *Service) HandReplay(ctx context.Context, tournamentID string, handNumber int) (*HandReplayResponse, error) {
	hand, decisions, err := s.loadHand(ctx, tournamentID, handNumber)
	if err != nil {
		return nil, err
	}
	r := replay.Merge(hand, decisions)
	return &HandReplayResponse{
		TournamentID:       tournamentID,
		Hand:               hand,
		Frames:             r.Frames,
		UnmatchedDecisions: r.UnmatchedDecisions,
	}, nil
}

func (s *Service) HandState(ctx context.Context, tournamentID string, handNumber, frame int) (*HandStateResponse, error) {
	if frame < 0 {
		return nil, ErrInvalidRequest
	}
	hand, decisions, err := s.loadHand(ctx, tournamentID, handNumber)
	if err != nil {
		return nil, err
	}
	return &HandStateResponse{
		TournamentID: tournamentID,
		State:        replay.StateAtFrame(hand, decisions, frame),
	}, nil
}

func (s *Service) loadHand(ctx context.Context, tournamentID string, handNumber int) (*handlog.HandRecord, handlog.AgentDecisionLog, error) {
	if tournamentID == "" || handNumber < 1 {
		return nil, nil, ErrInvalidRequest
	}
	hand, err := s.loader.Hand(ctx, tournamentID, handNumber)
	if err != nil {
		return nil, nil, mapLoadError(err)
	}
	decisions, err := s.loader.AgentDecisions(ctx, tournamentID, handNumber)
	if err != nil {
		return nil, nil, mapLoadError(err)
	}
	return hand, decisions, nil
}

func mapLoadError(err error) error {
	switch {
	case errors.Is(err, handlog.ErrInvalidID):
		return fmt.Errorf("%w: %w", ErrInvalidRequest, err)
	case errors.Is(err, handlog.ErrNotFound):
		return fmt.Errorf("%w: %w", ErrNotFound, err)
	case errors.Is(err, handlog.ErrMalformed):
		return fmt.Errorf("%w: %w", ErrHandUnavailable, err)
	default:
		return err
	}
}

func clampPage(limit, offset int) (int, bool) {
	if offset < 0 {
		return 0, false
	}
	if limit <= 0 {
		limit = 50
	}
	if limit > tournamentsMaxPage {
		limit = tournamentsMaxPage
	}
	return limit, true
}

package aggregate

import (
	"context"
	"fmt"
	"sort"

	"golang.org/x/sync/errgroup"

	"poker-replay/internal/handlog"
	"poker-replay/internal/pokerstats"
	"poker-replay/internal/replay"
)

const DefaultHandLoadBatch = 10

// AgentStatistics is one agent's tournament line.
type AgentStatistics struct {
	pokerstats.PokerStats
	Placement int `json:"placement"`
}

type TournamentStatistics struct {
	TournamentID  string `json:"tournament_id"`
	ComputationID string `json:"computation_id,omitempty"`

	Seed          int64 `json:"seed"`
	NumPlayers    int   `json:"num_players"`
	StartingStack int64 `json:"starting_stack"`
	TotalHands    int   `json:"total_hands"`

	// Agents is ordered by seat.
	Agents             []AgentStatistics        `json:"agents"`
	ChipProgression    []pokerstats.ChipPoint   `json:"chip_progression"`
	Eliminations       []pokerstats.Elimination `json:"eliminations"`
	ActionDistribution pokerstats.ActionCounts  `json:"action_distribution"`
	Streets            []pokerstats.StreetStats `json:"streets"`
	UnmatchedDecisions int                      `json:"unmatched_decisions"`
}

// Agent returns the line for name.
func (t *TournamentStatistics) Agent(name string) (AgentStatistics, bool) {
	for _, a := range t.Agents {
		if a.Name == name {
			return a, true
		}
	}
	return AgentStatistics{}, false
}

// Tournament computes TournamentStatistics from a Loader.
type Tournament struct {
	loader handlog.Loader
	batch  int
}

func NewTournament(loader handlog.Loader, batch int) *Tournament {
	if batch <= 0 {
		batch = DefaultHandLoadBatch
	}
	return &Tournament{loader: loader, batch: batch}
}

// Compute loads every hand of id and derives its statistics. Any missing or
// malformed hand fails the whole tournament; no partial result is returned.
func (a *Tournament) Compute(ctx context.Context, id string) (*TournamentStatistics, error) {
	out, err := a.compute(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("%w %s: %w", ErrTournamentLoad, id, err)
	}
	return out, nil
}

func (a *Tournament) compute(ctx context.Context, id string) (*TournamentStatistics, error) {
	meta, err := a.loader.TournamentMeta(ctx, id)
	if err != nil {
		return nil, err
	}
	results, err := a.loader.TournamentResults(ctx, id)
	if err != nil {
		return nil, err
	}
	hands, err := a.loadHands(ctx, id)
	if err != nil {
		return nil, err
	}

	records := make([]*handlog.HandRecord, len(hands))
	for i, h := range hands {
		records[i] = h.Record
	}

	out := &TournamentStatistics{
		TournamentID:    id,
		Seed:            meta.Seed,
		NumPlayers:      meta.NumPlayers,
		StartingStack:   meta.StartingStack,
		TotalHands:      len(hands),
		ChipProgression: pokerstats.ChipProgression(records, meta.StartingStack, meta.NumPlayers),
		Eliminations:    pokerstats.Eliminations(records),
		Streets:         pokerstats.Streets(hands),
	}
	for _, h := range hands {
		out.UnmatchedDecisions += replay.Merge(h.Record, h.Decisions).UnmatchedDecisions
	}

	for _, ag := range resultAgents(results, records) {
		st := pokerstats.Compute(ag.seat, hands)
		st.Name = ag.name
		st.AgentID = ag.agentID
		out.Agents = append(out.Agents, AgentStatistics{PokerStats: st, Placement: results.Placements[ag.name]})
		out.ActionDistribution.Merge(st.Actions)
	}
	if out.Agents == nil {
		out.Agents = []AgentStatistics{}
	}
	return out, nil
}

// loadHands fetches hands 1..HandCount in bounded batches.
func (a *Tournament) loadHands(ctx context.Context, id string) ([]pokerstats.Hand, error) {
	count, err := a.loader.HandCount(ctx, id)
	if err != nil {
		return nil, err
	}
	hands := make([]pokerstats.Hand, count)
	for start := 0; start < count; start += a.batch {
		end := min(start+a.batch, count)
		g, gctx := errgroup.WithContext(ctx)
		for i := start; i < end; i++ {
			g.Go(func() error {
				n := i + 1
				rec, err := a.loader.Hand(gctx, id, n)
				if err != nil {
					return err
				}
				decisions, err := a.loader.AgentDecisions(gctx, id, n)
				if err != nil {
					return err
				}
				hands[i] = pokerstats.Hand{Record: rec, Decisions: decisions}
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return nil, err
		}
	}
	return hands, nil
}

type resultAgent struct {
	name    string
	agentID string
	seat    int
}

// resultAgents resolves the seat of every agent named in the results,
// falling back to the seat list of the hands when the summary lacks one.
func resultAgents(results *handlog.TournamentResults, records []*handlog.HandRecord) []resultAgent {
	names := make(map[string]struct{}, len(results.Placements)+len(results.AgentStats))
	for name := range results.Placements {
		names[name] = struct{}{}
	}
	for name := range results.AgentStats {
		names[name] = struct{}{}
	}

	seatByName := map[string]int{}
	for _, rec := range records {
		for _, p := range rec.Players {
			if _, ok := seatByName[p.Name]; !ok {
				seatByName[p.Name] = p.Seat
			}
		}
	}

	out := make([]resultAgent, 0, len(names))
	for name := range names {
		ag := resultAgent{name: name, seat: seatByName[name]}
		if sum, ok := results.AgentStats[name]; ok {
			ag.agentID = sum.AgentID
			if sum.Seat != 0 {
				ag.seat = sum.Seat
			}
		}
		out = append(out, ag)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].seat != out[j].seat {
			return out[i].seat < out[j].seat
		}
		return out[i].name < out[j].name
	})
	return out
}

package aggregate

import (
	"context"
	"math"
	"sort"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"poker-replay/internal/pokerstats"
)

const DefaultOverallConcurrency = 4

// Source yields tournament statistics, from a cache or computed.
type Source interface {
	TournamentStatistics(ctx context.Context, id string) (*TournamentStatistics, error)
}

type FailedTournament struct {
	ID    string `json:"id"`
	Error string `json:"error"`
}

// MetricAverages holds hands-played weighted means of the per-tournament
// ratios.
type MetricAverages struct {
	VPIP             float64 `json:"vpip"`
	PFR              float64 `json:"pfr"`
	AggressionFactor float64 `json:"aggression_factor"`
	ThreeBet         float64 `json:"three_bet"`
	WTSD             float64 `json:"wtsd"`
	WASD             float64 `json:"wasd"`
}

type OverallAgent struct {
	Identity string `json:"identity"`
	Name     string `json:"name"`
	AgentID  string `json:"agent_id,omitempty"`

	Tournaments int         `json:"tournaments"`
	Wins        int         `json:"wins"`
	Placements  map[int]int `json:"placement_counts"`

	HandsPlayed int   `json:"hands_played"`
	HandsWon    int   `json:"hands_won"`
	ChipsWon    int64 `json:"chips_won"`

	Averages MetricAverages `json:"averages"`

	MeanPlacement float64 `json:"mean_placement"`
	Consistency   float64 `json:"consistency"`

	Decisions         int     `json:"decisions"`
	Retries           int     `json:"retries"`
	Errors            int     `json:"errors"`
	InvalidActionRate float64 `json:"invalid_action_rate"`

	Actions pokerstats.ActionCounts `json:"actions"`

	placements []int
	weighted   []weightedStats
}

type weightedStats struct {
	weight float64
	stats  pokerstats.PokerStats
}

type RankEntry struct {
	Rank          int     `json:"rank"`
	Identity      string  `json:"identity"`
	Name          string  `json:"name"`
	MeanPlacement float64 `json:"mean_placement"`
	Consistency   float64 `json:"consistency"`
	Tournaments   int     `json:"tournaments"`
	Wins          int     `json:"wins"`
}

type OverallStatistics struct {
	// TournamentIDs is the set the value was built from, failed ones included.
	TournamentIDs     []string           `json:"tournament_ids"`
	ComputationID     string             `json:"computation_id,omitempty"`
	TournamentsLoaded int                `json:"tournaments_loaded"`
	Failed            []FailedTournament `json:"failed"`
	TotalHands        int                `json:"total_hands"`
	// Agents is in first-seen order.
	Agents  []OverallAgent `json:"agents"`
	Ranking []RankEntry    `json:"ranking"`
}

// Overall combines many tournaments. A tournament that fails is skipped and
// never cancels its siblings.
type Overall struct {
	source Source
	limit  int
}

func NewOverall(source Source, limit int) *Overall {
	if limit <= 0 {
		limit = DefaultOverallConcurrency
	}
	return &Overall{source: source, limit: limit}
}

func (o *Overall) Compute(ctx context.Context, ids []string) *OverallStatistics {
	stats := make([]*TournamentStatistics, len(ids))
	errs := make([]error, len(ids))

	var g errgroup.Group
	g.SetLimit(o.limit)
	for i, id := range ids {
		g.Go(func() error {
			st, err := o.source.TournamentStatistics(ctx, id)
			if err != nil {
				log.Warn().Err(err).Str("tournament_id", id).Msg("skipping tournament in overall statistics")
				errs[i] = err
				return nil
			}
			stats[i] = st
			return nil
		})
	}
	_ = g.Wait()

	out := &OverallStatistics{
		TournamentIDs: append([]string(nil), ids...),
		Failed:        []FailedTournament{},
		Agents:        []OverallAgent{},
		Ranking:       []RankEntry{},
	}
	index := map[string]int{}
	for i, st := range stats {
		if errs[i] != nil || st == nil {
			msg := "no statistics"
			if errs[i] != nil {
				msg = errs[i].Error()
			}
			out.Failed = append(out.Failed, FailedTournament{ID: ids[i], Error: msg})
			continue
		}
		out.TournamentsLoaded++
		out.TotalHands += st.TotalHands
		for _, ag := range st.Agents {
			key := identity(ag)
			pos, ok := index[key]
			if !ok {
				pos = len(out.Agents)
				index[key] = pos
				out.Agents = append(out.Agents, OverallAgent{
					Identity:   key,
					AgentID:    ag.AgentID,
					Placements: map[int]int{},
				})
			}
			out.Agents[pos].add(ag)
		}
	}
	for i := range out.Agents {
		out.Agents[i].finish()
	}
	out.Ranking = rank(out.Agents)
	return out
}

func identity(ag AgentStatistics) string {
	if ag.AgentID != "" {
		return ag.AgentID
	}
	return ag.Name
}

func (a *OverallAgent) add(ag AgentStatistics) {
	a.Name = ag.Name
	a.Tournaments++
	if ag.Placement > 0 {
		a.placements = append(a.placements, ag.Placement)
		a.Placements[ag.Placement]++
		if ag.Placement == 1 {
			a.Wins++
		}
	}
	a.HandsPlayed += ag.HandsPlayed
	a.HandsWon += ag.HandsWon
	a.ChipsWon += ag.ChipsWon
	a.Decisions += ag.Decisions
	a.Retries += ag.Retries
	a.Errors += ag.Errors
	a.Actions.Merge(ag.Actions)
	a.weighted = append(a.weighted, weightedStats{weight: float64(ag.HandsPlayed), stats: ag.PokerStats})
}

func (a *OverallAgent) finish() {
	var total float64
	for _, w := range a.weighted {
		total += w.weight
	}
	if total > 0 {
		for _, w := range a.weighted {
			share := w.weight / total
			a.Averages.VPIP += share * w.stats.VPIP
			a.Averages.PFR += share * w.stats.PFR
			a.Averages.AggressionFactor += share * w.stats.AggressionFactor
			a.Averages.ThreeBet += share * w.stats.ThreeBet
			a.Averages.WTSD += share * w.stats.WTSD
			a.Averages.WASD += share * w.stats.WASD
		}
	}
	a.MeanPlacement, a.Consistency = meanStdDev(a.placements)
	if a.Decisions > 0 {
		a.InvalidActionRate = float64(a.Retries) / float64(a.Decisions)
	}
}

// meanStdDev returns the mean and population standard deviation of xs.
func meanStdDev(xs []int) (float64, float64) {
	if len(xs) == 0 {
		return 0, 0
	}
	var sum float64
	for _, x := range xs {
		sum += float64(x)
	}
	mean := sum / float64(len(xs))
	var sq float64
	for _, x := range xs {
		d := float64(x) - mean
		sq += d * d
	}
	return mean, math.Sqrt(sq / float64(len(xs)))
}

// rank orders agents with at least one placement by mean placement. Ties
// keep first-seen order.
func rank(agents []OverallAgent) []RankEntry {
	out := make([]RankEntry, 0, len(agents))
	for _, a := range agents {
		if len(a.placements) == 0 {
			continue
		}
		out = append(out, RankEntry{
			Identity:      a.Identity,
			Name:          a.Name,
			MeanPlacement: a.MeanPlacement,
			Consistency:   a.Consistency,
			Tournaments:   a.Tournaments,
			Wins:          a.Wins,
		})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].MeanPlacement < out[j].MeanPlacement })
	for i := range out {
		out[i].Rank = i + 1
	}
	return out
}

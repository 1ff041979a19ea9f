package pokerstats

import (
	"poker-replay/internal/handlog"
)

// Hand pairs a hand record with its decision log, which may be nil.
type Hand struct {
	Record    *handlog.HandRecord
	Decisions handlog.AgentDecisionLog
}

type ActionCounts struct {
	Fold  int `json:"fold"`
	Check int `json:"check"`
	Call  int `json:"call"`
	Bet   int `json:"bet"`
	Raise int `json:"raise"`
	AllIn int `json:"all_in"`
}

func (c *ActionCounts) add(a handlog.ActionType) {
	switch a {
	case handlog.ActionFold:
		c.Fold++
	case handlog.ActionCheck:
		c.Check++
	case handlog.ActionCall:
		c.Call++
	case handlog.ActionBet:
		c.Bet++
	case handlog.ActionRaise:
		c.Raise++
	case handlog.ActionAllIn:
		c.AllIn++
	}
}

func (c *ActionCounts) Merge(o ActionCounts) {
	c.Fold += o.Fold
	c.Check += o.Check
	c.Call += o.Call
	c.Bet += o.Bet
	c.Raise += o.Raise
	c.AllIn += o.AllIn
}

// PokerStats holds one seat's metrics over a list of hands. Percentages are
// in [0,100]; AggressionFactor and InvalidActionRate are plain ratios.
type PokerStats struct {
	Seat    int    `json:"seat"`
	Name    string `json:"name"`
	AgentID string `json:"agent_id,omitempty"`

	HandsPlayed int   `json:"hands_played"`
	HandsWon    int   `json:"hands_won"`
	ChipsWon    int64 `json:"chips_won"`

	VPIP             float64 `json:"vpip"`
	PFR              float64 `json:"pfr"`
	AggressionFactor float64 `json:"aggression_factor"`
	ThreeBet         float64 `json:"three_bet"`
	WTSD             float64 `json:"wtsd"`
	WASD             float64 `json:"wasd"`

	VPIPHands             int `json:"vpip_hands"`
	PFRHands              int `json:"pfr_hands"`
	AggressiveActions     int `json:"aggressive_actions"`
	Calls                 int `json:"calls"`
	ThreeBetOpportunities int `json:"three_bet_opportunities"`
	ThreeBets             int `json:"three_bets"`
	NotFoldedPreflop      int `json:"not_folded_preflop"`
	WentToShowdown        int `json:"went_to_showdown"`
	Showdowns             int `json:"showdowns"`
	ShowdownsWon          int `json:"showdowns_won"`

	Actions ActionCounts `json:"actions"`

	TimedDecisions int     `json:"timed_decisions"`
	AvgThinkMS     float64 `json:"avg_think_ms"`
	MinThinkMS     float64 `json:"min_think_ms"`
	MaxThinkMS     float64 `json:"max_think_ms"`

	Decisions         int     `json:"decisions"`
	Retries           int     `json:"retries"`
	Errors            int     `json:"errors"`
	InvalidActionRate float64 `json:"invalid_action_rate"`
	PromptTokens      int64   `json:"prompt_tokens"`
	CompletionTokens  int64   `json:"completion_tokens"`
	AvgLatencyMS      float64 `json:"avg_latency_ms"`
}

// Percent returns 100*num/den, or 0 when den is 0.
func Percent(num, den int) float64 {
	if den <= 0 {
		return 0
	}
	return 100 * float64(num) / float64(den)
}

// AggressionFactor is (bets+raises)/calls. With no calls it is the
// aggressive action count itself.
func AggressionFactor(aggressive, calls int) float64 {
	if calls == 0 {
		return float64(aggressive)
	}
	return float64(aggressive) / float64(calls)
}

// Compute returns the metrics of seat over hands. Hands the seat was not
// dealt into are ignored.
func Compute(seat int, hands []Hand) PokerStats {
	s := PokerStats{Seat: seat}
	var (
		thinkTotal   float64
		latencyTotal float64
		latencyN     int
	)

	for _, h := range hands {
		if h.Record == nil || !h.Record.DealtIn(seat) {
			continue
		}
		rec := h.Record
		if p, ok := rec.Player(seat); ok && s.Name == "" {
			s.Name = p.Name
		}
		s.HandsPlayed++
		if rec.IsWinner(seat) {
			s.HandsWon++
		}
		s.ChipsWon += rec.PotsAwarded[seat]

		hs := scanHand(rec, seat)
		if hs.vpip {
			s.VPIPHands++
		}
		if hs.pfr {
			s.PFRHands++
		}
		if hs.threeBetChance {
			s.ThreeBetOpportunities++
			if hs.threeBet {
				s.ThreeBets++
			}
		}
		s.AggressiveActions += hs.aggressive
		s.Calls += hs.calls
		s.Actions.Merge(hs.actions)

		showed := rec.ShowedDown(seat)
		if !hs.foldedPreflop {
			s.NotFoldedPreflop++
			if showed {
				s.WentToShowdown++
			}
		}
		if showed {
			s.Showdowns++
			if rec.IsWinner(seat) {
				s.ShowdownsWon++
			}
		}

		for _, d := range h.Decisions.ForSeat(seat) {
			s.Decisions++
			s.Retries += d.FinalAction.Retries
			if d.Error != "" {
				s.Errors++
			}
			if d.ThinkingTimeMS != nil {
				v := *d.ThinkingTimeMS
				if s.TimedDecisions == 0 || v < s.MinThinkMS {
					s.MinThinkMS = v
				}
				if s.TimedDecisions == 0 || v > s.MaxThinkMS {
					s.MaxThinkMS = v
				}
				s.TimedDecisions++
				thinkTotal += v
			}
			for _, r := range d.LLMResponses {
				s.PromptTokens += r.Usage.PromptTokens
				s.CompletionTokens += r.Usage.CompletionTokens
				latencyTotal += r.LatencyMS
				latencyN++
			}
		}
	}

	s.VPIP = Percent(s.VPIPHands, s.HandsPlayed)
	s.PFR = Percent(s.PFRHands, s.HandsPlayed)
	s.AggressionFactor = AggressionFactor(s.AggressiveActions, s.Calls)
	s.ThreeBet = Percent(s.ThreeBets, s.ThreeBetOpportunities)
	s.WTSD = Percent(s.WentToShowdown, s.NotFoldedPreflop)
	s.WASD = Percent(s.ShowdownsWon, s.Showdowns)
	if s.TimedDecisions > 0 {
		s.AvgThinkMS = thinkTotal / float64(s.TimedDecisions)
	}
	if latencyN > 0 {
		s.AvgLatencyMS = latencyTotal / float64(latencyN)
	}
	if s.Decisions > 0 {
		s.InvalidActionRate = float64(s.Retries) / float64(s.Decisions)
	}
	return s
}

// ComputeAll runs Compute for every seat.
func ComputeAll(seats []int, hands []Hand) map[int]PokerStats {
	out := make(map[int]PokerStats, len(seats))
	for _, seat := range seats {
		out[seat] = Compute(seat, hands)
	}
	return out
}

type handScan struct {
	vpip           bool
	pfr            bool
	threeBetChance bool
	threeBet       bool
	foldedPreflop  bool
	aggressive     int
	calls          int
	actions        ActionCounts
}

func scanHand(rec *handlog.HandRecord, seat int) handScan {
	var (
		hs           handScan
		othersRaised int
		selfRaised   bool
		chanceSeen   bool
	)
	for i, a := range rec.Actions {
		preflop := rec.ActionStreet(i) == handlog.StreetPreflop
		if a.Seat != seat {
			if preflop && !a.IsForced() && isRaise(a.Action) {
				othersRaised++
			}
			continue
		}
		if a.IsForced() {
			continue
		}

		hs.actions.add(a.Action)
		switch {
		case a.Action.IsAggressive():
			hs.aggressive++
		case a.Action == handlog.ActionCall:
			hs.calls++
		}
		if !preflop {
			continue
		}

		switch a.Action {
		case handlog.ActionCall, handlog.ActionBet, handlog.ActionRaise, handlog.ActionAllIn:
			hs.vpip = true
		case handlog.ActionFold:
			hs.foldedPreflop = true
		}
		if !chanceSeen && !selfRaised && othersRaised == 1 {
			chanceSeen = true
			hs.threeBetChance = true
			hs.threeBet = isRaise(a.Action)
		}
		if isRaise(a.Action) {
			hs.pfr = true
			selfRaised = true
		}
	}
	return hs
}

// isRaise treats a preflop bet or all-in as a raise: the big blind is
// already a bet.
func isRaise(a handlog.ActionType) bool {
	return a.IsAggressive()
}

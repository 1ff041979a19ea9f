package handlog

import (
	"encoding/json"
	"sort"
	"strconv"
)

type Street string

const (
	StreetPreflop  Street = "preflop"
	StreetFlop     Street = "flop"
	StreetTurn     Street = "turn"
	StreetRiver    Street = "river"
	StreetShowdown Street = "showdown"
)

// Streets lists the streets in play order.
var Streets = []Street{StreetPreflop, StreetFlop, StreetTurn, StreetRiver, StreetShowdown}

// Index returns the play-order position of s, or -1 for an unknown street.
func (s Street) Index() int {
	for i, st := range Streets {
		if st == s {
			return i
		}
	}
	return -1
}

// BoardSize is the number of community cards visible on s.
func (s Street) BoardSize() int {
	switch s {
	case StreetFlop:
		return 3
	case StreetTurn:
		return 4
	case StreetRiver, StreetShowdown:
		return 5
	default:
		return 0
	}
}

type ActionType string

const (
	ActionFold   ActionType = "fold"
	ActionCheck  ActionType = "check"
	ActionCall   ActionType = "call"
	ActionBet    ActionType = "bet"
	ActionRaise  ActionType = "raise"
	ActionAllIn  ActionType = "all_in"
	ActionPostSB ActionType = "post_sb"
	ActionPostBB ActionType = "post_bb"
)

func (a ActionType) valid() bool {
	switch a {
	case ActionFold, ActionCheck, ActionCall, ActionBet, ActionRaise, ActionAllIn, ActionPostSB, ActionPostBB:
		return true
	}
	return false
}

// IsBlindPost reports whether a is a blind posting, which is forced by definition.
func (a ActionType) IsBlindPost() bool {
	return a == ActionPostSB || a == ActionPostBB
}

// IsAggressive reports bets, raises and all-ins.
func (a ActionType) IsAggressive() bool {
	return a == ActionBet || a == ActionRaise || a == ActionAllIn
}

type Blinds struct {
	Small int64 `json:"small"`
	Big   int64 `json:"big"`
}

type Player struct {
	Seat       int    `json:"seat"`
	Name       string `json:"name"`
	StackStart int64  `json:"stack_start"`
}

// HandAction is one public betting action. Seq is an optional sequence id
// shared with the decision log; zero means absent.
type HandAction struct {
	Street   Street     `json:"street"`
	Seat     int        `json:"seat"`
	Action   ActionType `json:"action"`
	Amount   int64      `json:"amount,omitempty"`
	PotAfter *int64     `json:"pot_after,omitempty"`
	Forced   bool       `json:"forced,omitempty"`
	Retry    bool       `json:"retry,omitempty"`
	Seq      int64      `json:"seq,omitempty"`
}

// IsForced reports whether the action was not a voluntary choice.
func (a HandAction) IsForced() bool {
	return a.Forced || a.Action.IsBlindPost()
}

// HandRecord is one played hand as written by the upstream engine.
type HandRecord struct {
	HandNumber     int              `json:"hand_number"`
	BlindLevel     int              `json:"blind_level"`
	ButtonSeat     int              `json:"button_seat"`
	Blinds         Blinds           `json:"blinds"`
	Players        []Player         `json:"players"`
	HoleCards      map[int][]string `json:"hole_cards"`
	CommunityCards []string         `json:"community_cards"`
	Actions        []HandAction     `json:"actions"`
	Showdown       map[int][]string `json:"showdown"`
	Winners        []int            `json:"winners"`
	Pot            int64            `json:"pot"`
	PotsAwarded    map[int]int64    `json:"pots_awarded"`
}

// Player returns the seated player at seat.
func (h *HandRecord) Player(seat int) (Player, bool) {
	for _, p := range h.Players {
		if p.Seat == seat {
			return p, true
		}
	}
	return Player{}, false
}

// HasHoleCards reports whether seat was dealt in. Eliminated seats are not.
func (h *HandRecord) HasHoleCards(seat int) bool {
	cards, ok := h.HoleCards[seat]
	return ok && len(cards) > 0
}

// DealtIn reports whether seat took part in the hand: seated, and holding
// cards when the hand records hole cards at all.
func (h *HandRecord) DealtIn(seat int) bool {
	if _, ok := h.Player(seat); !ok {
		return false
	}
	if len(h.HoleCards) == 0 {
		return true
	}
	return h.HasHoleCards(seat)
}

// ActiveSeats returns the seats holding cards, sorted.
func (h *HandRecord) ActiveSeats() []int {
	out := make([]int, 0, len(h.HoleCards))
	for seat, cards := range h.HoleCards {
		if len(cards) > 0 {
			out = append(out, seat)
		}
	}
	sort.Ints(out)
	return out
}

// ActionStreet returns the street action i was bet on. The engine stamps an
// action with the street in force after applying it, so the action that ends
// a hand is recorded on showdown; it belongs to the street of the last action
// before it, or preflop when there is none.
func (h *HandRecord) ActionStreet(i int) Street {
	for ; i >= 0; i-- {
		if st := h.Actions[i].Street; st != StreetShowdown {
			return st
		}
	}
	return StreetPreflop
}

// IsWinner reports whether seat is listed among the winners.
func (h *HandRecord) IsWinner(seat int) bool {
	for _, w := range h.Winners {
		if w == seat {
			return true
		}
	}
	return false
}

// ShowedDown reports whether seat revealed cards at showdown.
func (h *HandRecord) ShowedDown(seat int) bool {
	cards, ok := h.Showdown[seat]
	return ok && len(cards) > 0
}

type Usage struct {
	PromptTokens     int64 `json:"prompt_tokens"`
	CompletionTokens int64 `json:"completion_tokens"`
}

type LLMResponse struct {
	Usage     Usage   `json:"usage"`
	LatencyMS float64 `json:"latency_ms"`
}

type ToolCall struct {
	Name   string          `json:"name"`
	Args   json.RawMessage `json:"args,omitempty"`
	Result json.RawMessage `json:"result,omitempty"`
}

type FinalAction struct {
	Action    ActionType `json:"action"`
	RaiseTo   *int64     `json:"raise_to,omitempty"`
	Reasoning string     `json:"reasoning,omitempty"`
	Forced    bool       `json:"forced,omitempty"`
	Retries   int        `json:"retries,omitempty"`
}

// Decision is one agent decision point. ActionSeq mirrors HandAction.Seq
// when the engine recorded it.
type Decision struct {
	Street         Street          `json:"street"`
	Observation    json.RawMessage `json:"observation,omitempty"`
	Conversation   json.RawMessage `json:"conversation,omitempty"`
	ToolCalls      []ToolCall      `json:"tool_calls,omitempty"`
	LLMResponses   []LLMResponse   `json:"llm_responses,omitempty"`
	FinalAction    FinalAction     `json:"final_action"`
	ThinkingTimeMS *float64        `json:"thinking_time_ms,omitempty"`
	ActionSeq      int64           `json:"action_seq,omitempty"`
	Error          string          `json:"error,omitempty"`
}

// AgentDecisionLog maps seat (as a string) to that seat's ordered decisions
// for one hand.
type AgentDecisionLog map[string][]Decision

// ForSeat returns the decisions recorded for seat.
func (l AgentDecisionLog) ForSeat(seat int) []Decision {
	if l == nil {
		return nil
	}
	return l[strconv.Itoa(seat)]
}

// Len counts all decisions in the log.
func (l AgentDecisionLog) Len() int {
	n := 0
	for _, ds := range l {
		n += len(ds)
	}
	return n
}

type BlindLevel struct {
	// Hands is nil for the final, unbounded level.
	Hands      *int  `json:"hands"`
	SmallBlind int64 `json:"sb"`
	BigBlind   int64 `json:"bb"`
}

type TournamentMeta struct {
	Seed          int64        `json:"seed"`
	NumPlayers    int          `json:"num_players"`
	StartingStack int64        `json:"starting_stack"`
	BlindSchedule []BlindLevel `json:"blind_schedule"`
}

// AgentSummary holds the per-agent counters written with the final results.
// AgentID is an optional stable identity, distinct from the display name.
type AgentSummary struct {
	Seat              int     `json:"seat"`
	AgentID           string  `json:"agent_id,omitempty"`
	TotalDecisions    int     `json:"total_decisions"`
	TotalRetries      int     `json:"total_retries"`
	ErrorCount        int     `json:"error_count"`
	InvalidActionRate float64 `json:"invalid_action_rate"`
}

type TournamentResults struct {
	RunNumber  int                     `json:"run_number"`
	Seed       int64                   `json:"seed"`
	TotalHands int                     `json:"total_hands"`
	Placements map[string]int          `json:"placements"`
	AgentStats map[string]AgentSummary `json:"agent_stats"`
}

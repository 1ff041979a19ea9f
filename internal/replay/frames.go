package replay

import (
	"strconv"

	"poker-replay/internal/handlog"
)

// Frame is one replayable moment of a hand: a public action, or the
// synthetic terminal showdown.
type Frame struct {
	Index      int                `json:"index"`
	Street     handlog.Street     `json:"street"`
	Seat       int                `json:"seat"`
	Action     handlog.ActionType `json:"action,omitempty"`
	Amount     int64              `json:"amount"`
	Forced     bool               `json:"forced,omitempty"`
	Pot        int64              `json:"pot"`
	Board      []string           `json:"board"`
	Decision   *handlog.Decision  `json:"decision,omitempty"`
	IsShowdown bool               `json:"is_showdown"`
	IsFinal    bool               `json:"is_final"`
	Showdown   map[int][]string   `json:"showdown,omitempty"`
	Winners    []int              `json:"winners,omitempty"`
}

// Replay is the merged timeline of a hand.
type Replay struct {
	HandNumber int     `json:"hand_number"`
	Frames     []Frame `json:"frames"`
	// UnmatchedDecisions counts decisions that no action claimed.
	UnmatchedDecisions int `json:"unmatched_decisions"`
}

// MergeFrames returns the frames of hand with decisions attached.
func MergeFrames(hand *handlog.HandRecord, decisions handlog.AgentDecisionLog) []Frame {
	return Merge(hand, decisions).Frames
}

// Merge joins the action log with the decision log. An action carrying a
// sequence id is paired with the decision sharing it; otherwise the n-th
// action of a seat on a street pairs with that seat's n-th decision on the
// street. A decision is attached to at most one frame.
func Merge(hand *handlog.HandRecord, decisions handlog.AgentDecisionLog) Replay {
	out := Replay{HandNumber: hand.HandNumber, Frames: make([]Frame, 0, len(hand.Actions)+1)}
	j := newJoiner(decisions)

	var pot int64
	for i, a := range hand.Actions {
		street := hand.ActionStreet(i)
		next := pot
		switch {
		case a.Action == handlog.ActionFold:
		case a.PotAfter != nil:
			next = *a.PotAfter
		default:
			next = pot + a.Amount
		}
		if next > pot {
			pot = next
		}
		out.Frames = append(out.Frames, Frame{
			Index:    i,
			Street:   street,
			Seat:     a.Seat,
			Action:   a.Action,
			Amount:   a.Amount,
			Forced:   a.IsForced(),
			Pot:      pot,
			Board:    visibleBoard(hand.CommunityCards, street),
			Decision: j.claim(a, street),
		})
	}

	if hasShowdown(hand) {
		seat := 0
		if len(hand.Winners) > 0 {
			seat = hand.Winners[0]
		}
		final := hand.Pot
		if final < pot {
			final = pot
		}
		out.Frames = append(out.Frames, Frame{
			Index:      len(out.Frames),
			Street:     handlog.StreetShowdown,
			Seat:       seat,
			Pot:        final,
			Board:      visibleBoard(hand.CommunityCards, handlog.StreetShowdown),
			IsShowdown: true,
			Showdown:   hand.Showdown,
			Winners:    hand.Winners,
		})
	}
	if n := len(out.Frames); n > 0 {
		out.Frames[n-1].IsFinal = true
	}
	out.UnmatchedDecisions = j.unmatched()
	return out
}

func hasShowdown(hand *handlog.HandRecord) bool {
	for _, cards := range hand.Showdown {
		if len(cards) > 0 {
			return true
		}
	}
	return false
}

func visibleBoard(cards []string, street handlog.Street) []string {
	n := street.BoardSize()
	if n > len(cards) {
		n = len(cards)
	}
	board := make([]string, n)
	copy(board, cards[:n])
	return board
}

type joinKey struct {
	seat   int
	street handlog.Street
}

type joiner struct {
	byStreet map[joinKey][]int
	bySeq    map[int]map[int64]int
	seen     map[joinKey]int
	pool     []handlog.Decision
	used     []bool
}

func newJoiner(decisions handlog.AgentDecisionLog) *joiner {
	j := &joiner{
		byStreet: make(map[joinKey][]int),
		bySeq:    make(map[int]map[int64]int),
		seen:     make(map[joinKey]int),
	}
	for key := range decisions {
		seat, err := strconv.Atoi(key)
		if err != nil {
			continue
		}
		for _, d := range decisions[key] {
			idx := len(j.pool)
			j.pool = append(j.pool, d)
			k := joinKey{seat: seat, street: d.Street}
			j.byStreet[k] = append(j.byStreet[k], idx)
			if d.ActionSeq > 0 {
				if j.bySeq[seat] == nil {
					j.bySeq[seat] = make(map[int64]int)
				}
				j.bySeq[seat][d.ActionSeq] = idx
			}
		}
	}
	j.used = make([]bool, len(j.pool))
	return j
}

// claim returns the decision behind a, bet on street. Blind posts are made
// by the engine and never consume a decision.
func (j *joiner) claim(a handlog.HandAction, street handlog.Street) *handlog.Decision {
	if a.Action.IsBlindPost() {
		return nil
	}
	k := joinKey{seat: a.Seat, street: street}
	n := j.seen[k]
	j.seen[k] = n + 1

	idx := -1
	if a.Seq > 0 {
		if i, ok := j.bySeq[a.Seat][a.Seq]; ok {
			idx = i
		}
	}
	if idx < 0 {
		if list := j.byStreet[k]; n < len(list) {
			idx = list[n]
		}
	}
	if idx < 0 || j.used[idx] {
		return nil
	}
	j.used[idx] = true
	d := j.pool[idx]
	return &d
}

func (j *joiner) unmatched() int {
	n := 0
	for _, u := range j.used {
		if !u {
			n++
		}
	}
	return n
}

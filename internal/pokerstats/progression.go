package pokerstats

import (
	"sort"

	"poker-replay/internal/handlog"
	"poker-replay/internal/replay"
)

// ChipPoint is the stack of every seat after Hand. Hand 0 holds the
// starting stacks.
type ChipPoint struct {
	Hand   int           `json:"hand"`
	Stacks map[int]int64 `json:"stacks"`
}

type Elimination struct {
	Seat int    `json:"seat"`
	Name string `json:"name"`
	Hand int    `json:"hand"`
}

// Eliminations lists seats dealt into a hand but not the next, ordered by
// hand then seat.
func Eliminations(hands []*handlog.HandRecord) []Elimination {
	out := []Elimination{}
	for i := 0; i+1 < len(hands); i++ {
		cur, next := hands[i], hands[i+1]
		seats := make([]int, 0, len(cur.Players))
		for _, p := range cur.Players {
			if cur.DealtIn(p.Seat) && !next.DealtIn(p.Seat) {
				seats = append(seats, p.Seat)
			}
		}
		sort.Ints(seats)
		for _, seat := range seats {
			p, _ := cur.Player(seat)
			out = append(out, Elimination{Seat: seat, Name: p.Name, Hand: cur.HandNumber})
		}
	}
	return out
}

// ChipProgression builds one point per hand from the next hand's starting
// stacks. The last hand has no successor: a lone survivor is credited with
// the whole pool, otherwise survivors are settled from the hand itself and
// every other seat stays at 0.
func ChipProgression(hands []*handlog.HandRecord, startingStack int64, numPlayers int) []ChipPoint {
	if len(hands) == 0 {
		return []ChipPoint{}
	}
	first := hands[0]
	var pool int64
	start := ChipPoint{Hand: 0, Stacks: make(map[int]int64, len(first.Players))}
	for _, p := range first.Players {
		start.Stacks[p.Seat] = p.StackStart
		pool += p.StackStart
	}
	if startingStack > 0 && numPlayers > 0 {
		pool = startingStack * int64(numPlayers)
	}

	out := make([]ChipPoint, 0, len(hands)+1)
	out = append(out, start)
	for i, h := range hands {
		pt := ChipPoint{Hand: h.HandNumber, Stacks: make(map[int]int64, len(start.Stacks))}
		for seat := range start.Stacks {
			pt.Stacks[seat] = 0
		}
		if i+1 < len(hands) {
			for _, p := range hands[i+1].Players {
				pt.Stacks[p.Seat] = p.StackStart
			}
		} else {
			settleLastHand(h, pool, pt.Stacks)
		}
		out = append(out, pt)
	}
	return out
}

func settleLastHand(h *handlog.HandRecord, pool int64, stacks map[int]int64) {
	var survivors []int
	for _, p := range h.Players {
		if h.DealtIn(p.Seat) {
			survivors = append(survivors, p.Seat)
		}
	}
	if len(survivors) == 1 {
		stacks[survivors[0]] = pool
		return
	}
	committed := make(map[int]int64, len(survivors))
	for _, a := range h.Actions {
		committed[a.Seat] += a.Amount
	}
	for _, seat := range survivors {
		p, _ := h.Player(seat)
		v := p.StackStart - committed[seat] + h.PotsAwarded[seat]
		if v < 0 {
			v = 0
		}
		stacks[seat] = v
	}
}

// StreetStats counts the hands that reached a street and the pot standing
// when the street closed.
type StreetStats struct {
	Street       handlog.Street `json:"street"`
	HandsReached int            `json:"hands_reached"`
	AvgPot       float64        `json:"avg_pot"`
	TotalPot     int64          `json:"total_pot"`
	ReachPct     float64        `json:"reach_pct"`
}

// Streets returns one entry per street in play order.
func Streets(hands []Hand) []StreetStats {
	out := make([]StreetStats, len(handlog.Streets))
	for i, st := range handlog.Streets {
		out[i].Street = st
	}
	total := 0
	for _, h := range hands {
		if h.Record == nil {
			continue
		}
		total++
		for i, pot := range streetPots(h.Record, replay.MergeFrames(h.Record, h.Decisions)) {
			if pot < 0 {
				continue
			}
			out[i].HandsReached++
			out[i].TotalPot += pot
		}
	}
	for i := range out {
		if out[i].HandsReached > 0 {
			out[i].AvgPot = float64(out[i].TotalPot) / float64(out[i].HandsReached)
		}
		out[i].ReachPct = Percent(out[i].HandsReached, total)
	}
	return out
}

// streetPots returns the closing pot per street, -1 for streets the hand
// never reached. A street counts as reached when it saw an action or its
// board was dealt.
func streetPots(rec *handlog.HandRecord, frames []replay.Frame) []int64 {
	pots := make([]int64, len(handlog.Streets))
	for i := range pots {
		pots[i] = -1
	}
	last := -1
	for _, f := range frames {
		idx := f.Street.Index()
		if idx < 0 {
			continue
		}
		pots[idx] = f.Pot
		if idx > last {
			last = idx
		}
	}
	boardStreet := 0
	switch n := len(rec.CommunityCards); {
	case n >= 5:
		boardStreet = handlog.StreetRiver.Index()
	case n == 4:
		boardStreet = handlog.StreetTurn.Index()
	case n == 3:
		boardStreet = handlog.StreetFlop.Index()
	}
	if boardStreet > last {
		last = boardStreet
	}
	var carry int64
	for i := 0; i <= last; i++ {
		if pots[i] < 0 {
			pots[i] = carry
		}
		carry = pots[i]
	}
	return pots
}

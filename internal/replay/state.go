package replay

import (
	"sort"

	"poker-replay/internal/handlog"
)

type SeatState struct {
	Seat      int    `json:"seat"`
	Name      string `json:"name"`
	Stack     int64  `json:"stack"`
	StreetBet int64  `json:"street_bet"`
	Folded    bool   `json:"folded"`
	Active    bool   `json:"active"`
}

// GameState is the table as of one frame. FrameIndex is -1 for a hand
// without frames.
type GameState struct {
	HandNumber  int               `json:"hand_number"`
	FrameIndex  int               `json:"frame_index"`
	FrameCount  int               `json:"frame_count"`
	Street      handlog.Street    `json:"street"`
	Pot         int64             `json:"pot"`
	Board       []string          `json:"board"`
	ButtonSeat  int               `json:"button_seat"`
	ActingSeat  int               `json:"acting_seat"`
	Seats       []SeatState       `json:"seats"`
	ActiveSeats []int             `json:"active_seats"`
	Decision    *handlog.Decision `json:"decision,omitempty"`
}

// StateAtFrame replays hand up to and including frame index. The index is
// clamped to the available frames.
func StateAtFrame(hand *handlog.HandRecord, decisions handlog.AgentDecisionLog, index int) GameState {
	return StateAt(hand, MergeFrames(hand, decisions), index)
}

// StateAt folds frames[0..index] over the hand's initial state.
func StateAt(hand *handlog.HandRecord, frames []Frame, index int) GameState {
	st := initialState(hand)
	st.FrameCount = len(frames)
	if len(frames) == 0 {
		return st
	}
	if index < 0 {
		index = 0
	}
	if index >= len(frames) {
		index = len(frames) - 1
	}
	for i := 0; i <= index; i++ {
		st = applyFrame(st, frames[i])
	}
	st.ActiveSeats = activeSeats(st.Seats)
	return st
}

func initialState(hand *handlog.HandRecord) GameState {
	seats := make([]SeatState, 0, len(hand.Players))
	for _, p := range hand.Players {
		seats = append(seats, SeatState{
			Seat:   p.Seat,
			Name:   p.Name,
			Stack:  p.StackStart,
			Active: p.StackStart > 0,
		})
	}
	sort.Slice(seats, func(i, j int) bool { return seats[i].Seat < seats[j].Seat })
	return GameState{
		HandNumber:  hand.HandNumber,
		FrameIndex:  -1,
		Street:      handlog.StreetPreflop,
		Board:       []string{},
		ButtonSeat:  hand.ButtonSeat,
		Seats:       seats,
		ActiveSeats: activeSeats(seats),
	}
}

// applyFrame returns the state after f. st is left untouched.
func applyFrame(st GameState, f Frame) GameState {
	seats := make([]SeatState, len(st.Seats))
	copy(seats, st.Seats)

	if f.Street != st.Street {
		for i := range seats {
			seats[i].StreetBet = 0
		}
	}
	if !f.IsShowdown {
		for i := range seats {
			s := &seats[i]
			if s.Seat != f.Seat || s.Folded {
				continue
			}
			if f.Action == handlog.ActionFold {
				s.Folded = true
			} else if f.Amount > 0 {
				s.Stack -= f.Amount
				s.StreetBet += f.Amount
			}
		}
	}
	for i := range seats {
		seats[i].Active = !seats[i].Folded && seats[i].Stack > 0
	}

	board := make([]string, len(f.Board))
	copy(board, f.Board)

	next := st
	next.Seats = seats
	next.FrameIndex = f.Index
	next.Street = f.Street
	next.Pot = f.Pot
	next.Board = board
	next.ActingSeat = f.Seat
	next.Decision = f.Decision
	return next
}

func activeSeats(seats []SeatState) []int {
	out := []int{}
	for _, s := range seats {
		if s.Active {
			out = append(out, s.Seat)
		}
	}
	return out
}

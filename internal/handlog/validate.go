package handlog

import (
	"errors"
	"fmt"
	"strconv"
)

// Validate checks the structural invariants a replay relies on. It does not
// re-run the betting rules: the upstream engine is trusted for legality.
func (h *HandRecord) Validate() error {
	if h.HandNumber < 1 {
		return fmt.Errorf("hand_number %d: must be >= 1", h.HandNumber)
	}
	if len(h.Players) == 0 {
		return errors.New("players: empty")
	}
	seated := make(map[int]struct{}, len(h.Players))
	for _, p := range h.Players {
		if _, dup := seated[p.Seat]; dup {
			return fmt.Errorf("players: seat %d listed twice", p.Seat)
		}
		if p.StackStart < 0 {
			return fmt.Errorf("players: seat %d has negative stack", p.Seat)
		}
		seated[p.Seat] = struct{}{}
	}
	if len(h.CommunityCards) > 5 {
		return fmt.Errorf("community_cards: %d cards", len(h.CommunityCards))
	}
	if _, err := ParseCards(h.CommunityCards); err != nil {
		return fmt.Errorf("community_cards: %w", err)
	}
	for seat, cards := range h.HoleCards {
		if _, ok := seated[seat]; !ok {
			return fmt.Errorf("hole_cards: seat %d not seated", seat)
		}
		if _, err := ParseCards(cards); err != nil {
			return fmt.Errorf("hole_cards[%d]: %w", seat, err)
		}
	}
	for seat, cards := range h.Showdown {
		if _, err := ParseCards(cards); err != nil {
			return fmt.Errorf("showdown[%d]: %w", seat, err)
		}
	}
	for i, a := range h.Actions {
		if a.Street.Index() < 0 {
			return fmt.Errorf("actions[%d]: bad street %q", i, a.Street)
		}
		if !a.Action.valid() {
			return fmt.Errorf("actions[%d]: bad action %q", i, a.Action)
		}
		if _, ok := seated[a.Seat]; !ok {
			return fmt.Errorf("actions[%d]: seat %d not seated", i, a.Seat)
		}
		if a.Amount < 0 {
			return fmt.Errorf("actions[%d]: negative amount", i)
		}
	}
	for _, w := range h.Winners {
		if _, ok := seated[w]; !ok {
			return fmt.Errorf("winners: seat %d not seated", w)
		}
	}
	if h.Pot < 0 {
		return errors.New("pot: negative")
	}
	return nil
}

// Validate checks that every key is a seat number and every street is known.
func (l AgentDecisionLog) Validate() error {
	for key, decisions := range l {
		if _, err := strconv.Atoi(key); err != nil {
			return fmt.Errorf("decisions: seat key %q is not a number", key)
		}
		for i, d := range decisions {
			if d.Street.Index() < 0 {
				return fmt.Errorf("decisions[%s][%d]: bad street %q", key, i, d.Street)
			}
		}
	}
	return nil
}

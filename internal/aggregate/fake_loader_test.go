package aggregate

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"poker-replay/internal/handlog"
)

type fakeTournament struct {
	meta      handlog.TournamentMeta
	results   handlog.TournamentResults
	hands     map[int]*handlog.HandRecord
	decisions map[int]handlog.AgentDecisionLog
	count     int
	badLog    int
}

type fakeLoader struct {
	mu          sync.Mutex
	tournaments map[string]*fakeTournament
	handCalls   int
}

func newFakeLoader() *fakeLoader {
	return &fakeLoader{tournaments: map[string]*fakeTournament{}}
}

func (l *fakeLoader) get(id string) (*fakeTournament, error) {
	t, ok := l.tournaments[id]
	if !ok {
		return nil, fmt.Errorf("tournament %s: %w", id, handlog.ErrNotFound)
	}
	return t, nil
}

func (l *fakeLoader) ListTournaments(context.Context) ([]string, error) {
	ids := make([]string, 0, len(l.tournaments))
	for id := range l.tournaments {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids, nil
}

func (l *fakeLoader) TournamentMeta(_ context.Context, id string) (*handlog.TournamentMeta, error) {
	t, err := l.get(id)
	if err != nil {
		return nil, err
	}
	m := t.meta
	return &m, nil
}

func (l *fakeLoader) TournamentResults(_ context.Context, id string) (*handlog.TournamentResults, error) {
	t, err := l.get(id)
	if err != nil {
		return nil, err
	}
	r := t.results
	return &r, nil
}

func (l *fakeLoader) Hand(_ context.Context, id string, n int) (*handlog.HandRecord, error) {
	l.mu.Lock()
	l.handCalls++
	l.mu.Unlock()
	t, err := l.get(id)
	if err != nil {
		return nil, err
	}
	h, ok := t.hands[n]
	if !ok {
		return nil, fmt.Errorf("hand %d: %w", n, handlog.ErrNotFound)
	}
	return h, nil
}

func (l *fakeLoader) AgentDecisions(_ context.Context, id string, n int) (handlog.AgentDecisionLog, error) {
	t, err := l.get(id)
	if err != nil {
		return nil, err
	}
	if t.badLog == n {
		return nil, fmt.Errorf("decisions %d: %w", n, handlog.ErrMalformed)
	}
	return t.decisions[n], nil
}

func (l *fakeLoader) HandCount(_ context.Context, id string) (int, error) {
	t, err := l.get(id)
	if err != nil {
		return 0, err
	}
	if t.count > 0 {
		return t.count, nil
	}
	return len(t.hands), nil
}

func act(street handlog.Street, seat int, kind handlog.ActionType, amount int64) handlog.HandAction {
	return handlog.HandAction{Street: street, Seat: seat, Action: kind, Amount: amount}
}

// twoHandTournament: seat 1 ("alpha") posts the big blind and folds in
// hand 1, then wins hand 2 uncontested.
func twoHandTournament() *fakeTournament {
	players := func(a, b int64) []handlog.Player {
		return []handlog.Player{{Seat: 1, Name: "alpha", StackStart: a}, {Seat: 2, Name: "beta", StackStart: b}}
	}
	cards := map[int][]string{1: {"Ah", "Kh"}, 2: {"7c", "2d"}}
	h1 := &handlog.HandRecord{
		HandNumber: 1,
		Players:    players(100, 100),
		HoleCards:  cards,
		Actions: []handlog.HandAction{
			act(handlog.StreetPreflop, 2, handlog.ActionPostSB, 1),
			act(handlog.StreetPreflop, 1, handlog.ActionPostBB, 2),
			act(handlog.StreetPreflop, 2, handlog.ActionRaise, 5),
			act(handlog.StreetPreflop, 1, handlog.ActionFold, 0),
		},
		Winners:     []int{2},
		Pot:         8,
		PotsAwarded: map[int]int64{2: 8},
	}
	h2 := &handlog.HandRecord{
		HandNumber: 2,
		Players:    players(98, 102),
		HoleCards:  cards,
		Actions: []handlog.HandAction{
			act(handlog.StreetPreflop, 1, handlog.ActionPostSB, 1),
			act(handlog.StreetPreflop, 2, handlog.ActionPostBB, 2),
			act(handlog.StreetPreflop, 1, handlog.ActionRaise, 5),
			act(handlog.StreetPreflop, 2, handlog.ActionFold, 0),
		},
		Winners:     []int{1},
		Pot:         8,
		PotsAwarded: map[int]int64{1: 8},
	}
	return &fakeTournament{
		meta: handlog.TournamentMeta{Seed: 7, NumPlayers: 2, StartingStack: 100},
		results: handlog.TournamentResults{
			TotalHands: 2,
			Placements: map[string]int{"alpha": 1, "beta": 2},
			AgentStats: map[string]handlog.AgentSummary{"alpha": {Seat: 1}, "beta": {Seat: 2}},
		},
		hands: map[int]*handlog.HandRecord{1: h1, 2: h2},
		decisions: map[int]handlog.AgentDecisionLog{
			1: {"2": {{Street: handlog.StreetPreflop}}, "1": {{Street: handlog.StreetPreflop}}},
		},
	}
}

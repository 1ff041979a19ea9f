package testutil

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"poker-replay/internal/handlog"
)

// Tournament is an on-disk tournament fixture. Hands are written in slice
// order; Decisions is keyed by hand number and may omit hands.
type Tournament struct {
	Meta      handlog.TournamentMeta
	Results   handlog.TournamentResults
	Hands     []handlog.HandRecord
	Decisions map[int]handlog.AgentDecisionLog
}

// WriteTournament lays t out under root/id the way the game engine does.
func WriteTournament(tb testing.TB, root, id string, t Tournament) string {
	tb.Helper()
	dir := filepath.Join(root, id)
	writeJSON(tb, filepath.Join(dir, "meta.json"), t.Meta)
	writeJSON(tb, filepath.Join(dir, "results.json"), t.Results)
	if err := os.MkdirAll(filepath.Join(dir, "hands"), 0o755); err != nil {
		tb.Fatalf("mkdir hands: %v", err)
	}
	for _, h := range t.Hands {
		writeJSON(tb, filepath.Join(dir, "hands", fmt.Sprintf("hand_%03d.json", h.HandNumber)), h)
	}
	for n, d := range t.Decisions {
		writeJSON(tb, filepath.Join(dir, "decisions", fmt.Sprintf("hand_%03d.json", n)), d)
	}
	return dir
}

func writeJSON(tb testing.TB, path string, v any) {
	tb.Helper()
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		tb.Fatalf("marshal %s: %v", path, err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		tb.Fatalf("mkdir %s: %v", filepath.Dir(path), err)
	}
	if err := os.WriteFile(path, b, 0o644); err != nil {
		tb.Fatalf("write %s: %v", path, err)
	}
}

// HeadsUp returns a two-seat tournament of n hands. Seat 1 ("alpha") opens
// every hand with a raise and seat 2 ("beta") folds; alpha finishes first.
func HeadsUp(n int) Tournament {
	t := Tournament{
		Meta: handlog.TournamentMeta{Seed: 42, NumPlayers: 2, StartingStack: 100},
		Results: handlog.TournamentResults{
			RunNumber:  1,
			Seed:       42,
			TotalHands: n,
			Placements: map[string]int{"alpha": 1, "beta": 2},
			AgentStats: map[string]handlog.AgentSummary{
				"alpha": {Seat: 1, TotalDecisions: n},
				"beta":  {Seat: 2, TotalDecisions: n},
			},
		},
		Decisions: map[int]handlog.AgentDecisionLog{},
	}
	alpha, beta := int64(100), int64(100)
	for i := 1; i <= n; i++ {
		pot3, pot8 := int64(3), int64(8)
		t.Hands = append(t.Hands, handlog.HandRecord{
			HandNumber: i,
			BlindLevel: 1,
			ButtonSeat: 1,
			Blinds:     handlog.Blinds{Small: 1, Big: 2},
			Players: []handlog.Player{
				{Seat: 1, Name: "alpha", StackStart: alpha},
				{Seat: 2, Name: "beta", StackStart: beta},
			},
			HoleCards:      map[int][]string{1: {"Ah", "Kd"}, 2: {"7c", "2s"}},
			CommunityCards: []string{},
			Actions: []handlog.HandAction{
				{Street: handlog.StreetPreflop, Seat: 1, Action: handlog.ActionPostSB, Amount: 1},
				{Street: handlog.StreetPreflop, Seat: 2, Action: handlog.ActionPostBB, Amount: 2, PotAfter: &pot3},
				{Street: handlog.StreetPreflop, Seat: 1, Action: handlog.ActionRaise, Amount: 5, PotAfter: &pot8},
				{Street: handlog.StreetPreflop, Seat: 2, Action: handlog.ActionFold},
			},
			Showdown:    map[int][]string{},
			Winners:     []int{1},
			Pot:         8,
			PotsAwarded: map[int]int64{1: 8},
		})
		think := float64(100 * i)
		t.Decisions[i] = handlog.AgentDecisionLog{
			"1": {{Street: handlog.StreetPreflop, FinalAction: handlog.FinalAction{Action: handlog.ActionRaise}, ThinkingTimeMS: &think}},
			"2": {{Street: handlog.StreetPreflop, FinalAction: handlog.FinalAction{Action: handlog.ActionFold}}},
		}
		alpha, beta = alpha+2, beta-2
	}
	return t
}

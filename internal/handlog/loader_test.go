package handlog

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func writeFile(t *testing.T, path, body string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

const sampleHand = `{
  "hand_number": 1,
  "blind_level": 1,
  "button_seat": 1,
  "blinds": {"small": 1, "big": 2},
  "players": [
    {"seat": 1, "name": "alpha", "stack_start": 100},
    {"seat": 2, "name": "beta", "stack_start": 100}
  ],
  "hole_cards": {"1": ["Ah", "Kh"], "2": ["7c", "2d"]},
  "community_cards": ["Qs", "Jd", "Tc", "4h", "3s"],
  "actions": [
    {"street": "preflop", "seat": 1, "action": "post_sb", "amount": 1, "pot_after": 1},
    {"street": "preflop", "seat": 2, "action": "post_bb", "amount": 2, "pot_after": 3},
    {"street": "preflop", "seat": 1, "action": "raise", "amount": 5, "pot_after": 8},
    {"street": "preflop", "seat": 2, "action": "fold"}
  ],
  "showdown": {},
  "winners": [1],
  "pot": 8,
  "pots_awarded": {"1": 8}
}`

func newSampleLoader(t *testing.T) (*FSLoader, string) {
	t.Helper()
	root := t.TempDir()
	dir := filepath.Join(root, "tournament_001")
	writeFile(t, filepath.Join(dir, "meta.json"), `{"seed": 42, "num_players": 2, "starting_stack": 100, "blind_schedule": [{"hands": null, "sb": 1, "bb": 2}]}`)
	writeFile(t, filepath.Join(dir, "results.json"), `{"run_number": 1, "seed": 42, "total_hands": 1, "placements": {"alpha": 1, "beta": 2}, "agent_stats": {"alpha": {"seat": 1, "total_decisions": 1}}}`)
	writeFile(t, filepath.Join(dir, "hands", "hand_001.json"), sampleHand)
	writeFile(t, filepath.Join(dir, "decisions", "hand_001.json"), `{"1": [{"street": "preflop", "final_action": {"action": "raise", "raise_to": 6}, "thinking_time_ms": 120}]}`)
	writeFile(t, filepath.Join(root, "notes.txt"), "not a tournament")
	return NewFSLoader(root), root
}

func TestFSLoaderReadsTournament(t *testing.T) {
	ctx := context.Background()
	l, _ := newSampleLoader(t)

	ids, err := l.ListTournaments(ctx)
	if err != nil {
		t.Fatalf("ListTournaments: %v", err)
	}
	if len(ids) != 1 || ids[0] != "tournament_001" {
		t.Fatalf("ids = %v", ids)
	}

	meta, err := l.TournamentMeta(ctx, "tournament_001")
	if err != nil {
		t.Fatalf("TournamentMeta: %v", err)
	}
	if meta.StartingStack != 100 || len(meta.BlindSchedule) != 1 || meta.BlindSchedule[0].Hands != nil {
		t.Fatalf("unexpected meta: %+v", meta)
	}

	res, err := l.TournamentResults(ctx, "tournament_001")
	if err != nil {
		t.Fatalf("TournamentResults: %v", err)
	}
	if res.Placements["beta"] != 2 || res.AgentStats["alpha"].Seat != 1 {
		t.Fatalf("unexpected results: %+v", res)
	}

	n, err := l.HandCount(ctx, "tournament_001")
	if err != nil || n != 1 {
		t.Fatalf("HandCount = %d, %v", n, err)
	}

	hand, err := l.Hand(ctx, "tournament_001", 1)
	if err != nil {
		t.Fatalf("Hand: %v", err)
	}
	if len(hand.Actions) != 4 || !hand.Actions[0].IsForced() || hand.Actions[2].IsForced() {
		t.Fatalf("unexpected actions: %+v", hand.Actions)
	}
	if !hand.HasHoleCards(2) || hand.PotsAwarded[1] != 8 {
		t.Fatalf("unexpected hand: %+v", hand)
	}

	decisions, err := l.AgentDecisions(ctx, "tournament_001", 1)
	if err != nil {
		t.Fatalf("AgentDecisions: %v", err)
	}
	ds := decisions.ForSeat(1)
	if len(ds) != 1 || ds[0].ThinkingTimeMS == nil || *ds[0].ThinkingTimeMS != 120 {
		t.Fatalf("unexpected decisions: %+v", decisions)
	}
}

func TestFSLoaderMissingDecisionsIsNotAnError(t *testing.T) {
	l, root := newSampleLoader(t)
	if err := os.Remove(filepath.Join(root, "tournament_001", "decisions", "hand_001.json")); err != nil {
		t.Fatalf("remove: %v", err)
	}
	decisions, err := l.AgentDecisions(context.Background(), "tournament_001", 1)
	if err != nil {
		t.Fatalf("AgentDecisions error = %v, want nil", err)
	}
	if decisions != nil {
		t.Fatalf("decisions = %v, want nil", decisions)
	}
}

// The engine stamps each action with the street in force after it, so a
// hand folded out preflop ends with its fold recorded on showdown.
const foldedOutHand = `{
  "hand_number": 2,
  "blinds": {"small": 1, "big": 2},
  "players": [
    {"seat": 1, "name": "alpha", "stack_start": 100},
    {"seat": 2, "name": "beta", "stack_start": 100}
  ],
  "hole_cards": {"1": ["Ah", "Kh"], "2": ["7c", "2d"]},
  "community_cards": [],
  "actions": [
    {"street": "preflop", "seat": 1, "action": "raise", "amount": 6},
    {"street": "showdown", "seat": 2, "action": "fold"}
  ],
  "showdown": {},
  "winners": [1],
  "pot": 9,
  "pots_awarded": {"1": 9}
}`

func TestFSLoaderAcceptsClosingActionOnShowdown(t *testing.T) {
	l, root := newSampleLoader(t)
	writeFile(t, filepath.Join(root, "tournament_001", "hands", "hand_002.json"), foldedOutHand)

	hand, err := l.Hand(context.Background(), "tournament_001", 2)
	if err != nil {
		t.Fatalf("Hand error = %v", err)
	}
	if hand.Actions[1].Street != StreetShowdown {
		t.Fatalf("recorded street = %q, want showdown", hand.Actions[1].Street)
	}
	if got := hand.ActionStreet(1); got != StreetPreflop {
		t.Fatalf("ActionStreet(1) = %q, want preflop", got)
	}
}

func TestActionStreet(t *testing.T) {
	h := HandRecord{Actions: []HandAction{
		{Street: StreetShowdown},
		{Street: StreetPreflop},
		{Street: StreetFlop},
		{Street: StreetRiver},
		{Street: StreetShowdown},
	}}
	want := []Street{StreetPreflop, StreetPreflop, StreetFlop, StreetRiver, StreetRiver}
	for i, w := range want {
		if got := h.ActionStreet(i); got != w {
			t.Fatalf("ActionStreet(%d) = %q, want %q", i, got, w)
		}
	}
}

func TestFSLoaderErrors(t *testing.T) {
	ctx := context.Background()
	l, root := newSampleLoader(t)
	dir := filepath.Join(root, "tournament_001")

	if _, err := l.Hand(ctx, "tournament_001", 2); !errors.Is(err, ErrNotFound) {
		t.Fatalf("missing hand error = %v, want ErrNotFound", err)
	}
	if _, err := l.Hand(ctx, "tournament_404", 1); !errors.Is(err, ErrNotFound) {
		t.Fatalf("missing tournament error = %v, want ErrNotFound", err)
	}
	if _, err := l.Hand(ctx, "../etc", 1); !errors.Is(err, ErrInvalidID) {
		t.Fatalf("traversal error = %v, want ErrInvalidID", err)
	}

	writeFile(t, filepath.Join(dir, "hands", "hand_002.json"), `{"hand_number": 2, "players": [`)
	if _, err := l.Hand(ctx, "tournament_001", 2); !errors.Is(err, ErrMalformed) {
		t.Fatalf("truncated hand error = %v, want ErrMalformed", err)
	}

	writeFile(t, filepath.Join(dir, "hands", "hand_003.json"), `{"hand_number": 4, "players": [{"seat": 1, "name": "a", "stack_start": 1}]}`)
	if _, err := l.Hand(ctx, "tournament_001", 3); !errors.Is(err, ErrMalformed) {
		t.Fatalf("mismatched number error = %v, want ErrMalformed", err)
	}

	writeFile(t, filepath.Join(dir, "decisions", "hand_002.json"), `{"one": []}`)
	if _, err := l.AgentDecisions(ctx, "tournament_001", 2); !errors.Is(err, ErrMalformed) {
		t.Fatalf("bad decisions error = %v, want ErrMalformed", err)
	}

	n, err := l.HandCount(ctx, "tournament_001")
	if err != nil || n != 3 {
		t.Fatalf("HandCount = %d, %v, want 3", n, err)
	}
}

func TestHandValidate(t *testing.T) {
	base := func() HandRecord {
		return HandRecord{
			HandNumber: 1,
			Players:    []Player{{Seat: 1, Name: "a", StackStart: 10}, {Seat: 2, Name: "b", StackStart: 10}},
			HoleCards:  map[int][]string{1: {"Ah", "Kh"}, 2: {"2c", "3c"}},
			Actions:    []HandAction{{Street: StreetPreflop, Seat: 1, Action: ActionCall, Amount: 1}},
		}
	}
	tests := []struct {
		name   string
		mutate func(h *HandRecord)
		ok     bool
	}{
		{name: "valid", mutate: func(h *HandRecord) {}, ok: true},
		{name: "zero hand number", mutate: func(h *HandRecord) { h.HandNumber = 0 }},
		{name: "unseated actor", mutate: func(h *HandRecord) { h.Actions[0].Seat = 9 }},
		{name: "unknown action", mutate: func(h *HandRecord) { h.Actions[0].Action = "limp" }},
		{name: "closing action on showdown", mutate: func(h *HandRecord) { h.Actions[0].Street = StreetShowdown }, ok: true},
		{name: "unknown street", mutate: func(h *HandRecord) { h.Actions[0].Street = "fifth" }},
		{name: "six board cards", mutate: func(h *HandRecord) { h.CommunityCards = []string{"2h", "3h", "4h", "5h", "6h", "7h"} }},
		{name: "bad hole card", mutate: func(h *HandRecord) { h.HoleCards[1] = []string{"Zz", "Kh"} }},
		{name: "negative amount", mutate: func(h *HandRecord) { h.Actions[0].Amount = -1 }},
		{name: "duplicate seat", mutate: func(h *HandRecord) { h.Players = append(h.Players, Player{Seat: 1}) }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := base()
			tt.mutate(&h)
			err := h.Validate()
			if (err == nil) != tt.ok {
				t.Fatalf("Validate() error = %v, ok %v", err, tt.ok)
			}
		})
	}
}

func TestDealtIn(t *testing.T) {
	h := HandRecord{
		Players:   []Player{{Seat: 1}, {Seat: 2}, {Seat: 3}},
		HoleCards: map[int][]string{1: {"Ah", "Kh"}, 3: {"2c", "3c"}},
	}
	if !h.DealtIn(1) || h.DealtIn(2) || !h.DealtIn(3) || h.DealtIn(4) {
		t.Fatalf("unexpected dealt-in set")
	}
	if got := h.ActiveSeats(); len(got) != 2 || got[0] != 1 || got[1] != 3 {
		t.Fatalf("ActiveSeats = %v", got)
	}
	h.HoleCards = nil
	if !h.DealtIn(2) {
		t.Fatal("seat 2 should count as dealt in when no hole cards are recorded")
	}
}

package public

import (
	"poker-replay/internal/handlog"
	"poker-replay/internal/replay"
)

type TournamentsResponse struct {
	Items  []TournamentItem `json:"items"`
	Total  int              `json:"total"`
	Limit  int              `json:"limit"`
	Offset int              `json:"offset"`
}

type TournamentItem struct {
	ID            string `json:"id"`
	Seed          int64  `json:"seed"`
	NumPlayers    int    `json:"num_players"`
	StartingStack int64  `json:"starting_stack"`
	HandCount     int    `json:"hand_count"`
}

type HandReplayResponse struct {
	TournamentID       string              `json:"tournament_id"`
	Hand               *handlog.HandRecord `json:"hand"`
	Frames             []replay.Frame      `json:"frames"`
	UnmatchedDecisions int                 `json:"unmatched_decisions"`
}

type HandStateResponse struct {
	TournamentID string           `json:"tournament_id"`
	State        replay.GameState `json:"state"`
}

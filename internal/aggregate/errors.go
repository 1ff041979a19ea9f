package aggregate

import "errors"

// ErrTournamentLoad marks a tournament whose statistics could not be
// computed. It wraps the underlying load error.
var ErrTournamentLoad = errors.New("could not compute statistics for tournament")

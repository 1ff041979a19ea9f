package public

import "errors"

var (
	ErrInvalidRequest        = errors.New("invalid_request")
	ErrNotFound              = errors.New("not_found")
	ErrStatisticsUnavailable = errors.New("statistics_unavailable")
	ErrHandUnavailable       = errors.New("hand_unavailable")
)

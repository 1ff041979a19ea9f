package cache

import "context"

const (
	Prefix           = "stats:"
	TournamentPrefix = "stats:tournament:"
	OverallKey       = "stats:overall"
)

// TournamentKey is the key memoizing one tournament's statistics.
func TournamentKey(id string) string {
	return TournamentPrefix + id
}

// Cache is an opaque key/value store without expiry. Get reports a miss
// with ok == false and a nil error.
type Cache interface {
	Get(ctx context.Context, key string) (value []byte, ok bool, err error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	DeletePrefix(ctx context.Context, prefix string) error
}

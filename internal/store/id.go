package store

import (
	"math/rand"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

var (
	idEntropy   = ulid.Monotonic(rand.New(rand.NewSource(time.Now().UnixNano())), 0)
	idEntropyMu sync.Mutex
)

// NewID returns a monotonic ULID. Ids minted in the same millisecond still
// sort in creation order.
func NewID() string {
	return NewIDAt(time.Now())
}

func NewIDAt(t time.Time) string {
	idEntropyMu.Lock()
	defer idEntropyMu.Unlock()
	return ulid.MustNew(ulid.Timestamp(t), idEntropy).String()
}

// IDTime extracts the timestamp encoded in id.
func IDTime(id string) (time.Time, error) {
	v, err := ulid.ParseStrict(id)
	if err != nil {
		return time.Time{}, err
	}
	return ulid.Time(v.Time()), nil
}

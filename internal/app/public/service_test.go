package public

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"

	"poker-replay/internal/cache"
	"poker-replay/internal/handlog"
	"poker-replay/internal/testutil"
)

type countingLoader struct {
	handlog.Loader
	hands atomic.Int64
}

func (l *countingLoader) Hand(ctx context.Context, id string, n int) (*handlog.HandRecord, error) {
	l.hands.Add(1)
	return l.Loader.Hand(ctx, id, n)
}

type downCache struct{}

func (downCache) Get(context.Context, string) ([]byte, bool, error) {
	return nil, false, errors.New("dial tcp: connection refused")
}
func (downCache) Set(context.Context, string, []byte) error { return errors.New("down") }
func (downCache) Delete(context.Context, string) error      { return errors.New("down") }
func (downCache) DeletePrefix(context.Context, string) error {
	return errors.New("down")
}

func newTestService(t *testing.T, c cache.Cache, ids ...string) (*Service, *countingLoader, string) {
	t.Helper()
	root := t.TempDir()
	for _, id := range ids {
		testutil.WriteTournament(t, root, id, testutil.HeadsUp(3))
	}
	loader := &countingLoader{Loader: handlog.NewFSLoader(root)}
	return NewService(loader, c, Options{HandLoadBatch: 2, OverallConcurrency: 2}), loader, root
}

func TestTournamentStatisticsCached(t *testing.T) {
	ctx := context.Background()
	mem := cache.NewMemory()
	svc, loader, _ := newTestService(t, mem, "t1")

	first, err := svc.TournamentStatistics(ctx, "t1")
	if err != nil {
		t.Fatalf("TournamentStatistics: %v", err)
	}
	if first.TotalHands != 3 || first.ComputationID == "" {
		t.Fatalf("unexpected statistics: %+v", first)
	}
	alpha, ok := first.Agent("alpha")
	if !ok || alpha.VPIP != 100 || alpha.HandsWon != 3 || alpha.TimedDecisions != 3 {
		t.Fatalf("alpha = %+v", alpha)
	}
	calls := loader.hands.Load()
	if calls != 3 {
		t.Fatalf("hand loads = %d, want 3", calls)
	}

	second, err := svc.TournamentStatistics(ctx, "t1")
	if err != nil {
		t.Fatalf("cached TournamentStatistics: %v", err)
	}
	if loader.hands.Load() != calls {
		t.Fatal("cached statistics were recomputed")
	}
	if second.ComputationID != first.ComputationID {
		t.Fatalf("computation id changed: %s vs %s", second.ComputationID, first.ComputationID)
	}
	if _, ok, _ := mem.Get(ctx, cache.TournamentKey("t1")); !ok {
		t.Fatal("statistics not stored under the tournament key")
	}

	if err := svc.ClearTournament(ctx, "t1"); err != nil {
		t.Fatalf("ClearTournament: %v", err)
	}
	if _, err := svc.TournamentStatistics(ctx, "t1"); err != nil {
		t.Fatalf("recompute: %v", err)
	}
	if loader.hands.Load() != 2*calls {
		t.Fatalf("hand loads after clear = %d, want %d", loader.hands.Load(), 2*calls)
	}
}

func TestTournamentStatisticsErrors(t *testing.T) {
	ctx := context.Background()
	svc, _, root := newTestService(t, cache.NewMemory(), "t1", "broken")
	if err := os.Remove(filepath.Join(root, "broken", "hands", "hand_002.json")); err != nil {
		t.Fatalf("remove: %v", err)
	}

	if _, err := svc.TournamentStatistics(ctx, "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("missing err = %v, want ErrNotFound", err)
	}
	if _, err := svc.TournamentStatistics(ctx, "../t1"); !errors.Is(err, ErrInvalidRequest) {
		t.Fatalf("traversal err = %v, want ErrInvalidRequest", err)
	}
	_, err := svc.TournamentStatistics(ctx, "broken")
	if !errors.Is(err, ErrStatisticsUnavailable) {
		t.Fatalf("broken err = %v, want ErrStatisticsUnavailable", err)
	}
	if !strings.Contains(err.Error(), "could not compute statistics for tournament broken") {
		t.Fatalf("error message = %q", err.Error())
	}
}

func TestOverallStatistics(t *testing.T) {
	ctx := context.Background()
	mem := cache.NewMemory()
	svc, loader, root := newTestService(t, mem, "t1", "t2", "t3")
	if err := os.WriteFile(filepath.Join(root, "t2", "hands", "hand_001.json"), []byte("{"), 0o644); err != nil {
		t.Fatalf("corrupt: %v", err)
	}

	out, err := svc.OverallStatistics(ctx)
	if err != nil {
		t.Fatalf("OverallStatistics: %v", err)
	}
	if out.TournamentsLoaded != 2 || len(out.Failed) != 1 || out.Failed[0].ID != "t2" {
		t.Fatalf("loaded %d failed %+v", out.TournamentsLoaded, out.Failed)
	}
	if out.TotalHands != 6 {
		t.Fatalf("TotalHands = %d, want 6", out.TotalHands)
	}
	if len(out.Ranking) != 2 || out.Ranking[0].Name != "alpha" || out.Ranking[0].MeanPlacement != 1 {
		t.Fatalf("Ranking = %+v", out.Ranking)
	}

	calls := loader.hands.Load()
	again, err := svc.OverallStatistics(ctx)
	if err != nil {
		t.Fatalf("cached OverallStatistics: %v", err)
	}
	if again.ComputationID != out.ComputationID || loader.hands.Load() != calls {
		t.Fatal("overall statistics recomputed for an unchanged tournament set")
	}

	testutil.WriteTournament(t, root, "t4", testutil.HeadsUp(2))
	fresh, err := svc.OverallStatistics(ctx)
	if err != nil {
		t.Fatalf("OverallStatistics after new tournament: %v", err)
	}
	if fresh.ComputationID == out.ComputationID || fresh.TournamentsLoaded != 3 {
		t.Fatalf("new tournament not picked up: %+v", fresh)
	}
}

func TestServiceDegradesWithoutCache(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newTestService(t, downCache{}, "t1")

	if _, err := svc.TournamentStatistics(ctx, "t1"); err != nil {
		t.Fatalf("TournamentStatistics with cache down: %v", err)
	}
	if _, err := svc.OverallStatistics(ctx); err != nil {
		t.Fatalf("OverallStatistics with cache down: %v", err)
	}
	if err := svc.ClearCache(ctx); err != nil {
		t.Fatalf("ClearCache with cache down: %v", err)
	}
	if svc.CacheFailures() == 0 {
		t.Fatal("cache failures not counted")
	}
}

func TestHandReplayAndState(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newTestService(t, cache.NewMemory(), "t1")

	r, err := svc.HandReplay(ctx, "t1", 2)
	if err != nil {
		t.Fatalf("HandReplay: %v", err)
	}
	if len(r.Frames) != 4 || !r.Frames[3].IsFinal || r.UnmatchedDecisions != 0 {
		t.Fatalf("unexpected replay: %+v", r)
	}
	if r.Frames[2].Decision == nil || *r.Frames[2].Decision.ThinkingTimeMS != 200 {
		t.Fatalf("raise decision = %+v", r.Frames[2].Decision)
	}

	st, err := svc.HandState(ctx, "t1", 2, 2)
	if err != nil {
		t.Fatalf("HandState: %v", err)
	}
	if st.State.Pot != 8 || st.State.FrameIndex != 2 {
		t.Fatalf("unexpected state: %+v", st.State)
	}

	tests := []struct {
		name  string
		id    string
		hand  int
		frame int
		want  error
	}{
		{name: "hand zero", id: "t1", hand: 0, want: ErrInvalidRequest},
		{name: "negative frame", id: "t1", hand: 1, frame: -1, want: ErrInvalidRequest},
		{name: "missing hand", id: "t1", hand: 9, want: ErrNotFound},
		{name: "missing tournament", id: "zz", hand: 1, want: ErrNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := svc.HandState(ctx, tt.id, tt.hand, tt.frame); !errors.Is(err, tt.want) {
				t.Fatalf("err = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestTournaments(t *testing.T) {
	svc, _, _ := newTestService(t, cache.NewMemory(), "a", "b", "c")
	resp, err := svc.Tournaments(context.Background(), 2, 1)
	if err != nil {
		t.Fatalf("Tournaments: %v", err)
	}
	if resp.Total != 3 || len(resp.Items) != 2 || resp.Items[0].ID != "b" || resp.Items[0].HandCount != 3 {
		t.Fatalf("unexpected page: %+v", resp)
	}
	if resp.Items[0].StartingStack != 100 {
		t.Fatalf("meta not attached: %+v", resp.Items[0])
	}
}

func TestClampPage(t *testing.T) {
	tests := []struct {
		name      string
		limit     int
		offset    int
		wantLimit int
		wantOK    bool
	}{
		{name: "default limit", limit: 0, offset: 0, wantLimit: 50, wantOK: true},
		{name: "explicit small limit", limit: 20, offset: 0, wantLimit: 20, wantOK: true},
		{name: "limit clipped", limit: 1000, offset: 10, wantLimit: tournamentsMaxPage, wantOK: true},
		{name: "negative offset rejected", limit: 10, offset: -1, wantLimit: 0, wantOK: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gotLimit, gotOK := clampPage(tt.limit, tt.offset)
			if gotOK != tt.wantOK {
				t.Fatalf("ok = %v, want %v", gotOK, tt.wantOK)
			}
			if gotLimit != tt.wantLimit {
				t.Fatalf("limit = %d, want %d", gotLimit, tt.wantLimit)
			}
		})
	}
}

func TestSameSet(t *testing.T) {
	if !sameSet([]string{"b", "a"}, []string{"a", "b"}) {
		t.Fatal("order should not matter")
	}
	if sameSet([]string{"a"}, []string{"a", "b"}) || sameSet([]string{"a", "a"}, []string{"a", "b"}) {
		t.Fatal("different sets reported equal")
	}
}

package handlog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"
)

// Loader is the read-only source of tournament logs.
type Loader interface {
	ListTournaments(ctx context.Context) ([]string, error)
	TournamentMeta(ctx context.Context, id string) (*TournamentMeta, error)
	TournamentResults(ctx context.Context, id string) (*TournamentResults, error)
	Hand(ctx context.Context, id string, handNumber int) (*HandRecord, error)
	// AgentDecisions returns (nil, nil) when the hand has no decision log.
	AgentDecisions(ctx context.Context, id string, handNumber int) (AgentDecisionLog, error)
	HandCount(ctx context.Context, id string) (int, error)
}

const (
	metaFile     = "meta.json"
	resultsFile  = "results.json"
	handsDir     = "hands"
	decisionsDir = "decisions"
)

var handFilePattern = regexp.MustCompile(`^hand_(\d+)\.json$`)

// FSLoader reads the on-disk layout written by the tournament runner:
//
//	<root>/<tournament>/meta.json
//	<root>/<tournament>/results.json
//	<root>/<tournament>/hands/hand_001.json
//	<root>/<tournament>/decisions/hand_001.json
type FSLoader struct {
	root string
}

func NewFSLoader(root string) *FSLoader {
	return &FSLoader{root: root}
}

func (l *FSLoader) ListTournaments(ctx context.Context) ([]string, error) {
	entries, err := os.ReadDir(l.root)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("logs root %s: %w", l.root, ErrNotFound)
		}
		return nil, err
	}
	out := make([]string, 0, len(entries))
	for _, e := range entries {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if !e.IsDir() || strings.HasPrefix(e.Name(), ".") {
			continue
		}
		if _, err := os.Stat(filepath.Join(l.root, e.Name(), handsDir)); err != nil {
			continue
		}
		out = append(out, e.Name())
	}
	sort.Strings(out)
	return out, nil
}

func (l *FSLoader) TournamentMeta(ctx context.Context, id string) (*TournamentMeta, error) {
	dir, err := l.dir(id)
	if err != nil {
		return nil, err
	}
	var meta TournamentMeta
	if err := readJSON(ctx, filepath.Join(dir, metaFile), &meta); err != nil {
		return nil, err
	}
	if meta.NumPlayers < 0 || meta.StartingStack < 0 {
		return nil, fmt.Errorf("%s: negative player count or stack: %w", metaFile, ErrMalformed)
	}
	return &meta, nil
}

func (l *FSLoader) TournamentResults(ctx context.Context, id string) (*TournamentResults, error) {
	dir, err := l.dir(id)
	if err != nil {
		return nil, err
	}
	var res TournamentResults
	if err := readJSON(ctx, filepath.Join(dir, resultsFile), &res); err != nil {
		return nil, err
	}
	for name, rank := range res.Placements {
		if rank < 1 {
			return nil, fmt.Errorf("%s: placement %d for %q: %w", resultsFile, rank, name, ErrMalformed)
		}
	}
	return &res, nil
}

func (l *FSLoader) Hand(ctx context.Context, id string, handNumber int) (*HandRecord, error) {
	dir, err := l.dir(id)
	if err != nil {
		return nil, err
	}
	var hand HandRecord
	if err := readJSON(ctx, filepath.Join(dir, handsDir, handFileName(handNumber)), &hand); err != nil {
		return nil, err
	}
	if hand.HandNumber != handNumber {
		return nil, fmt.Errorf("hand %d: file carries hand_number %d: %w", handNumber, hand.HandNumber, ErrMalformed)
	}
	if err := hand.Validate(); err != nil {
		return nil, fmt.Errorf("hand %d: %v: %w", handNumber, err, ErrMalformed)
	}
	return &hand, nil
}

func (l *FSLoader) AgentDecisions(ctx context.Context, id string, handNumber int) (AgentDecisionLog, error) {
	dir, err := l.dir(id)
	if err != nil {
		return nil, err
	}
	var decisions AgentDecisionLog
	err = readJSON(ctx, filepath.Join(dir, decisionsDir, handFileName(handNumber)), &decisions)
	if errors.Is(err, ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if err := decisions.Validate(); err != nil {
		return nil, fmt.Errorf("decisions for hand %d: %v: %w", handNumber, err, ErrMalformed)
	}
	return decisions, nil
}

// HandCount returns the highest hand number on disk, so a gap in the
// sequence surfaces later as a missing hand rather than being skipped.
func (l *FSLoader) HandCount(ctx context.Context, id string) (int, error) {
	dir, err := l.dir(id)
	if err != nil {
		return 0, err
	}
	entries, err := os.ReadDir(filepath.Join(dir, handsDir))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return 0, fmt.Errorf("tournament %s hands: %w", id, ErrNotFound)
		}
		return 0, err
	}
	highest := 0
	for _, e := range entries {
		m := handFilePattern.FindStringSubmatch(e.Name())
		if m == nil {
			continue
		}
		n, err := strconv.Atoi(m[1])
		if err == nil && n > highest {
			highest = n
		}
	}
	return highest, ctx.Err()
}

func (l *FSLoader) dir(id string) (string, error) {
	if id == "" || id == "." || id == ".." || strings.ContainsAny(id, `/\`) {
		return "", ErrInvalidID
	}
	dir := filepath.Join(l.root, id)
	info, err := os.Stat(dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", fmt.Errorf("tournament %s: %w", id, ErrNotFound)
		}
		return "", err
	}
	if !info.IsDir() {
		return "", fmt.Errorf("tournament %s: %w", id, ErrNotFound)
	}
	return dir, nil
}

func handFileName(n int) string {
	return fmt.Sprintf("hand_%03d.json", n)
}

func readJSON(ctx context.Context, path string, v any) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	b, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("%s: %w", filepath.Base(path), ErrNotFound)
		}
		return err
	}
	if err := json.Unmarshal(b, v); err != nil {
		return fmt.Errorf("%s: %v: %w", filepath.Base(path), err, ErrMalformed)
	}
	return nil
}

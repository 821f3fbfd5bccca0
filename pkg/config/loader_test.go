package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	_ "github.com/IlikeChooros/go-arena/pkg/games/tictactoe"
)

func TestLoader_LoadFromBytes_Valid(t *testing.T) {
	data := []byte(`
game: tictactoe
bots: [./bots/a.py, ./bots/b]
games: 20
time_limits: true
seeds: {order: 1, config: 2}
limits: {turn_timeout: 500ms, grace_timeout: 5ms, stderr_timeout: 20ms, expected_lines: 1}
store: results.db
`)

	cfg, err := NewLoader().LoadFromBytes(data)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if len(cfg.Bots) != 2 || cfg.Bots[0] != "./bots/a.py" {
		t.Errorf("bots: got=%v", cfg.Bots)
	}
	if cfg.Games != 20 || !cfg.TimeLimits {
		t.Errorf("games/time_limits: got=%d/%v", cfg.Games, cfg.TimeLimits)
	}
	if cfg.Limits.TurnTimeout != 500*time.Millisecond {
		t.Errorf("turn_timeout: got=%v, want=500ms", cfg.Limits.TurnTimeout)
	}
	if cfg.Seeds.Order != 1 || cfg.Seeds.Config != 2 {
		t.Errorf("seeds: got=%+v", cfg.Seeds)
	}
	// Not in the file, kept from Default()
	if cfg.ReportEvery != 10 {
		t.Errorf("report_every: got=%d, want=10", cfg.ReportEvery)
	}

	tc := cfg.TournamentConfig()
	if tc.Limits.GraceTimeout != 5*time.Millisecond || tc.OrderSeed != 1 || tc.Games != 20 {
		t.Errorf("tournament config: got=%+v", tc)
	}
}

func TestLoader_LoadFromBytes_Defaults(t *testing.T) {
	cfg, err := NewLoader().LoadFromBytes([]byte("bots: [a, b]\n"))
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if cfg.Game != "tictactoe" || cfg.Games != 10 {
		t.Errorf("defaults: got game=%s games=%d", cfg.Game, cfg.Games)
	}
	if cfg.Limits.TurnTimeout != 2*time.Second || cfg.Limits.StderrTimeout != 10*time.Millisecond {
		t.Errorf("default limits: got=%+v", cfg.Limits)
	}
}

func TestLoader_LoadFromBytes_EmptyData(t *testing.T) {
	_, err := NewLoader().LoadFromBytes([]byte{})
	if !errors.Is(err, ErrConfigEmpty) {
		t.Fatalf("expected ErrConfigEmpty, got %v", err)
	}
}

func TestLoader_LoadFromBytes_InvalidYAML(t *testing.T) {
	_, err := NewLoader().LoadFromBytes([]byte("bots: [a, b\n"))
	if err == nil {
		t.Fatal("expected error for invalid YAML")
	}
}

func TestLoader_LoadFromBytes_BadDuration(t *testing.T) {
	_, err := NewLoader().LoadFromBytes([]byte("bots: [a, b]\nlimits: {turn_timeout: soon}\n"))
	if err == nil {
		t.Fatal("expected error for a malformed duration")
	}
}

func TestLoader_LoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tournament.yaml")
	if err := os.WriteFile(path, []byte("bots: [a, b]\ngames: 3\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := NewLoader().LoadFromFile(path)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if cfg.Games != 3 {
		t.Errorf("games: got=%d, want=3", cfg.Games)
	}

	_, err = NewLoader().LoadFromFile(filepath.Join(t.TempDir(), "missing.yaml"))
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("expected os.ErrNotExist, got %v", err)
	}
}

func TestLoader_LoadFromBytes_LeavesValidationToCaller(t *testing.T) {
	cfg, err := NewLoader().LoadFromBytes([]byte("games: 4\n"))
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if cfg.Games != 4 || len(cfg.Bots) != 0 {
		t.Errorf("got games=%d bots=%v", cfg.Games, cfg.Bots)
	}
	if err := NewValidator().Validate(cfg); !errors.Is(err, ErrNoBots) {
		t.Errorf("expected ErrNoBots, got %v", err)
	}
}

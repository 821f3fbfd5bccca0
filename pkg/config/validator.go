package config

import (
	"fmt"

	"github.com/IlikeChooros/go-arena/pkg/game"
)

// Validator validates tournament configurations.
type Validator struct{}

// NewValidator creates a new configuration validator.
func NewValidator() *Validator {
	return &Validator{}
}

// Validate returns nil if valid, or an error describing the first validation failure.
func (v *Validator) Validate(cfg *Tournament) error {
	if cfg == nil {
		return ErrConfigEmpty
	}

	rules, err := game.Lookup(cfg.Game)
	if err != nil {
		return fmt.Errorf("game=%s: %w", cfg.Game, ErrUnknownGame)
	}

	if len(cfg.Bots) == 0 {
		return ErrNoBots
	}
	if len(cfg.Bots) > MaxBots {
		return fmt.Errorf("%d bots, at most %d: %w", len(cfg.Bots), MaxBots, ErrTooManyBots)
	}
	seen := make(map[string]bool, len(cfg.Bots))
	for i, bot := range cfg.Bots {
		if seen[bot] {
			return fmt.Errorf("bots[%d]=%s: %w", i, bot, ErrDuplicateBot)
		}
		seen[bot] = true
	}

	if cfg.Games < 1 {
		return fmt.Errorf("games=%d: %w", cfg.Games, ErrGamesNonPositive)
	}

	if cfg.Arity != 0 {
		if err := rules.Metadata().CheckArity(cfg.Arity); err != nil {
			return fmt.Errorf("arity=%d: %w (%v)", cfg.Arity, ErrBadArity, err)
		}
	}

	l := cfg.Limits
	if l.TurnTimeout < 0 || l.GraceTimeout < 0 || l.StderrTimeout < 0 || l.ExpectedLines < 0 {
		return fmt.Errorf("limits=%+v: %w", l, ErrBadLimits)
	}
	return nil
}
